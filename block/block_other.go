//go:build !linux

package block

import (
	"errors"
	"io/fs"

	"github.com/harrybotter30/v6ufs/backend"
)

func blockDeviceSize(_ backend.Storage, _ fs.FileInfo) (int64, error) {
	return 0, errors.New("raw block devices are not supported on this platform; pass an image file instead")
}
