package block

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"time"

	"github.com/harrybotter30/v6ufs/backend"
)

// memBackend is a backend.Storage over an in-memory byte slice, used by
// NewFromBytes and by package v6fs's tests to exercise the codec without a
// filesystem fixture.
type memBackend struct {
	*bytes.Reader
	size int64
}

var _ backend.Storage = (*memBackend)(nil)

func (m *memBackend) Close() error { return nil }

func (m *memBackend) Sys() (*os.File, error) { return nil, backend.ErrNotSuitable }

func (m *memBackend) Stat() (fs.FileInfo, error) { return memInfo{size: m.size}, nil }

type memInfo struct{ size int64 }

func (i memInfo) Name() string       { return "memory" }
func (i memInfo) Size() int64        { return i.size }
func (i memInfo) Mode() fs.FileMode  { return 0 }
func (i memInfo) ModTime() time.Time { return time.Time{} }
func (i memInfo) IsDir() bool        { return false }
func (i memInfo) Sys() any           { return nil }

// NewFromBytes wraps a raw volume image already held in memory as a Device,
// without going through backend/file's path-based open. Useful for tests
// and for callers that have already read an image into memory.
func NewFromBytes(data []byte) (*Device, error) {
	if len(data)%Size != 0 {
		return nil, errors.New("image size is not a multiple of the block size")
	}
	mb := &memBackend{Reader: bytes.NewReader(data), size: int64(len(data))}
	return New(mb)
}
