//go:build linux

package block

import (
	"fmt"
	"io/fs"

	"golang.org/x/sys/unix"

	"github.com/harrybotter30/v6ufs/backend"
)

// blkGetSize64 is BLKGETSIZE64 from linux/fs.h: returns the device size in
// bytes as a uint64, the ioctl diskfs.go's getSectorSizes uses the sibling
// BLKSSZGET/BLKBSZGET requests for.
const blkGetSize64 = 0x80081272

func blockDeviceSize(storage backend.Storage, info fs.FileInfo) (int64, error) {
	osFile, err := storage.Sys()
	if err != nil {
		return 0, fmt.Errorf("unable to get OS file for device %s: %w", info.Name(), err)
	}
	size, err := unix.IoctlGetUint64(int(osFile.Fd()), blkGetSize64)
	if err != nil {
		return 0, fmt.Errorf("unable to get device size for %s via ioctl: %w", info.Name(), err)
	}
	return int64(size), nil
}
