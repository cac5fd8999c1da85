package v6fs

import (
	"errors"
	"path"

	"github.com/harrybotter30/v6ufs/block"
	"github.com/harrybotter30/v6ufs/errs"
)

// Visitor receives each entry Traversal discovers, in depth-first,
// left-to-right order matching the on-disk order of directory entries.
// Exactly one of the typed callbacks is invoked per entry.
type Visitor struct {
	// Regular is called for a regular file, with a FileReader already
	// positioned at its start.
	Regular func(p string, in *Inode, r *FileReader) error
	// Directory is called for a directory, before its children are
	// visited.
	Directory func(p string, in *Inode) error
	// Device is called for a character or block device, with its decoded
	// major/minor numbers.
	Device func(p string, in *Inode, major, minor uint8) error
	// Warning is called for a non-fatal condition encountered while
	// walking — an nlink==0 entry, or a decode error on one sibling — so
	// the walk can report it and continue with the rest of the directory.
	// Any other error (I/O, or one returned by a callback) ends the walk.
	Warning func(p string, err error)
}

// Traversal performs a pre-order walk of a v6 filesystem.
type Traversal struct {
	dev   *block.Device
	table *InodeTable
}

// NewTraversal builds a Traversal over an already-loaded InodeTable.
func NewTraversal(dev *block.Device, table *InodeTable) *Traversal {
	return &Traversal{dev: dev, table: table}
}

// Walk performs a pre-order descent from root, typically inode 1. Cycles
// beyond "." and ".." are not expected and are not detected: hard links can
// legitimately produce multiple paths to the same non-directory inode, and
// the engine makes no attempt to coalesce them, matching v6 semantics.
func (t *Traversal) Walk(root uint32, name string, v Visitor) error {
	in, err := t.table.Inode(root)
	if err != nil {
		return err
	}
	return t.walk(name, in, v)
}

func (t *Traversal) walk(p string, in *Inode, v Visitor) error {
	switch in.Type() {
	case TypeDirectory:
		if v.Directory != nil {
			if err := v.Directory(p, in); err != nil {
				return err
			}
		}
		return t.walkDirectory(p, in, v)

	case TypeCharDevice, TypeBlockDevice:
		if v.Device != nil {
			return v.Device(p, in, in.Major(), in.Minor())
		}
		return nil

	default: // TypeRegular
		r, err := NewFileReader(t.dev, in)
		if err != nil {
			return err
		}
		if v.Regular != nil {
			return v.Regular(p, in, r)
		}
		return nil
	}
}

func (t *Traversal) walkDirectory(p string, in *Inode, v Visitor) error {
	r, err := NewFileReader(t.dev, in)
	if err != nil {
		return err
	}
	entries, err := NewDirectoryIterator(r).All()
	if err != nil {
		return err
	}

	for _, e := range entries {
		if e.Name == "." || e.Name == ".." {
			continue
		}

		childInode, err := t.table.Inode(e.InodeNumber)
		if err != nil {
			if v.Warning != nil {
				v.Warning(path.Join(p, e.Name), err)
			}
			continue
		}
		if childInode.NLink == 0 {
			if v.Warning != nil {
				v.Warning(path.Join(p, e.Name), errUnusedInode(e.InodeNumber))
			}
			continue
		}

		childPath := path.Join(p, e.Name)
		if err := t.walk(childPath, childInode, v); err != nil {
			decodeErr := errors.Is(err, errs.ErrFormat) || errors.Is(err, errs.ErrRange)
			if v.Warning != nil && decodeErr {
				v.Warning(childPath, err)
				continue
			}
			return err
		}
	}
	return nil
}
