package backend

import (
	"io"
	"io/fs"
	"os"
	"time"
)

// SubStorage restricts a Storage to the byte range [offset, offset+size),
// translating every ReadAt and Seek into that window; Read reads from the
// underlying storage's current position and is not bounded by the window.
// A v6 volume can be one
// slice of a larger physical pack carrying several file systems back to
// back; Sub lets the decoder address that slice directly instead of
// requiring a separate copy of just those bytes.
type SubStorage struct {
	underlying Storage
	offset     int64
	size       int64
}

// Sub wraps u so that only the size bytes starting at offset are visible,
// with position 0 of the result mapping to offset in u.
func Sub(u Storage, offset, size int64) Storage {
	return SubStorage{
		underlying: u,
		offset:     offset,
		size:       size,
	}
}

// Stat reports the window's own size rather than the underlying storage's,
// so that block.New's size-based range checks apply to the sub-range
// instead of the whole backing store.
func (s SubStorage) Stat() (fs.FileInfo, error) {
	info, err := s.underlying.Stat()
	if err != nil {
		return nil, err
	}
	return subFileInfo{underlying: info, size: s.size}, nil
}

type subFileInfo struct {
	underlying fs.FileInfo
	size       int64
}

func (i subFileInfo) Name() string       { return i.underlying.Name() }
func (i subFileInfo) Size() int64        { return i.size }
func (i subFileInfo) Mode() fs.FileMode  { return i.underlying.Mode() }
func (i subFileInfo) ModTime() time.Time { return i.underlying.ModTime() }
func (i subFileInfo) IsDir() bool        { return i.underlying.IsDir() }
func (i subFileInfo) Sys() any           { return i.underlying.Sys() }

func (s SubStorage) Read(b []byte) (int, error) {
	return s.underlying.Read(b)
}

func (s SubStorage) Close() error {
	return s.underlying.Close()
}

func (s SubStorage) ReadAt(p []byte, off int64) (n int, err error) {
	if off < 0 || off >= s.size {
		return 0, io.EOF
	}
	if max := s.size - off; int64(len(p)) > max {
		p = p[:max]
	}
	return s.underlying.ReadAt(p, s.offset+off)
}

func (s SubStorage) Seek(offset int64, whence int) (int64, error) {
	var (
		pos int64
		err error
	)

	switch whence {
	case io.SeekStart:
		pos, err = s.underlying.Seek(offset+s.offset, io.SeekStart)
	case io.SeekCurrent:
		pos, err = s.underlying.Seek(offset, io.SeekCurrent)
	case io.SeekEnd:
		pos, err = s.underlying.Seek(s.offset+s.size+offset, io.SeekStart)
	default:
		return -1, ErrNotSuitable
	}

	if err != nil {
		return -1, err
	}

	return pos - s.offset, nil
}

func (s SubStorage) Sys() (*os.File, error) {
	return s.underlying.Sys()
}

var _ Storage = SubStorage{}
