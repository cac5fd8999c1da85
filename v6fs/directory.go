package v6fs

import (
	"bytes"
	"encoding/binary"
	"io"
)

// direntSize is the fixed on-disk size of one directory entry.
const direntSize = 16

// direntNameSize is the number of NUL-padded name bytes in a Dirent; a name
// that is exactly this long carries no trailing NUL.
const direntNameSize = 14

// DirEntry is one decoded directory entry: an inode number paired with a
// name. InodeNumber == 0 slots are empty and never surface from
// DirectoryIterator.
type DirEntry struct {
	InodeNumber uint32
	Name        string
}

// DirectoryIterator parses a directory file's content — a FileReader over a
// directory inode — into a stream of DirEntry values. Records with
// InodeNumber == 0 are empty slots and are skipped silently. A short tail
// (fewer than 16 bytes remaining) terminates iteration rather than erroring,
// since the final block of a directory file is routinely padded.
type DirectoryIterator struct {
	r *FileReader
}

// NewDirectoryIterator wraps a FileReader already positioned over a
// directory inode's content.
func NewDirectoryIterator(r *FileReader) *DirectoryIterator {
	return &DirectoryIterator{r: r}
}

// Next returns the next non-empty entry, or ok == false once the directory
// is exhausted.
func (d *DirectoryIterator) Next() (entry DirEntry, ok bool, err error) {
	rec := make([]byte, direntSize)
	for {
		_, err := io.ReadFull(d.r, rec)
		if err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				// short tail: stop silently rather than erroring, since the
				// final block of a directory file is routinely padded.
				return DirEntry{}, false, nil
			}
			// a real I/O or range error reading a directory block must
			// propagate rather than be mistaken for end-of-directory.
			return DirEntry{}, false, err
		}

		ino := binary.LittleEndian.Uint16(rec[0:2])
		if ino == 0 {
			continue
		}
		name := rec[2 : 2+direntNameSize]
		if i := bytes.IndexByte(name, 0); i >= 0 {
			name = name[:i]
		}
		return DirEntry{InodeNumber: uint32(ino), Name: string(name)}, true, nil
	}
}

// All drains the iterator into a slice, the convenience form Traversal and
// the front-ends use when they need the whole directory at once.
func (d *DirectoryIterator) All() ([]DirEntry, error) {
	var entries []DirEntry
	for {
		e, ok, err := d.Next()
		if err != nil {
			return entries, err
		}
		if !ok {
			return entries, nil
		}
		entries = append(entries, e)
	}
}
