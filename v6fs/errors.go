package v6fs

import (
	"strconv"

	"github.com/harrybotter30/v6ufs/errs"
)

// errUnusedInode builds the non-fatal diagnostic Traversal reports when a
// directory entry names an inode with NLink == 0. It is not a RangeError or
// a FormatError: spec.md §4.5 and §7 both treat NLink == 0 as diagnostic,
// not an error condition, so it carries no errs.Kind.
type errUnusedInodeT struct {
	inode uint32
}

func (e errUnusedInodeT) Error() string {
	return "inode " + strconv.FormatUint(uint64(e.inode), 10) + " is unused (nlink == 0)"
}

func errUnusedInode(inode uint32) error { return errUnusedInodeT{inode: inode} }

// re-exported error kind sentinels, so callers can write
// errors.Is(err, v6fs.ErrFormat) without importing the errs package
// themselves.
var (
	ErrRange  = errs.ErrRange
	ErrFormat = errs.ErrFormat
	ErrIO     = errs.ErrIO
	ErrUsage  = errs.ErrUsage
)
