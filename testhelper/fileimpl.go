// Package testhelper provides stand-ins for backend.Storage used by other
// packages' tests to exercise error paths a real file or device rarely
// produces on demand (short reads, I/O errors, an unstattable handle).
package testhelper

import (
	"io/fs"
	"time"
)

type reader func(b []byte, offset int64) (int, error)

// FileImpl implements backend.File by delegating every ReadAt (and Read, at
// offset 0) to a caller-supplied function, so tests can simulate a
// misbehaving or short-reading backing store without a real file on disk.
// Info, if set, is returned by Stat; otherwise Stat reports an error, since
// most fs.FileInfo methods are not safely callable on a nil interface.
type FileImpl struct {
	Reader reader
	Info   fs.FileInfo
}

func (f *FileImpl) Stat() (fs.FileInfo, error) {
	if f.Info == nil {
		return nil, fs.ErrInvalid
	}
	return f.Info, nil
}

func (f *FileImpl) Read(b []byte) (int, error) {
	return f.Reader(b, 0)
}

func (f *FileImpl) Close() error {
	return nil
}

// ReadAt reads at a particular offset.
func (f *FileImpl) ReadAt(b []byte, offset int64) (int, error) {
	return f.Reader(b, offset)
}

// Seek is not supported; FileImpl is only ever read through ReadAt.
func (f *FileImpl) Seek(offset int64, whence int) (int64, error) {
	return 0, fs.ErrInvalid
}

var _ fs.File = (*FileImpl)(nil)

// staticFileInfo is a minimal fs.FileInfo for tests that need Stat() to
// succeed without a real backing file.
type staticFileInfo struct {
	name string
	size int64
}

func (i staticFileInfo) Name() string       { return i.name }
func (i staticFileInfo) Size() int64        { return i.size }
func (i staticFileInfo) Mode() fs.FileMode  { return 0 }
func (i staticFileInfo) ModTime() time.Time { return time.Time{} }
func (i staticFileInfo) IsDir() bool        { return false }
func (i staticFileInfo) Sys() any           { return nil }

// StaticFileInfo returns an fs.FileInfo reporting the given name and size,
// for tests that need FileImpl.Stat to return something usable.
func StaticFileInfo(name string, size int64) fs.FileInfo {
	return staticFileInfo{name: name, size: size}
}
