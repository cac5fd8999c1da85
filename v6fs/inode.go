package v6fs

import (
	"encoding/binary"
	"time"

	"github.com/harrybotter30/v6ufs/errs"
)

// mode bit masks and flags, per spec.md §3/§4.2.
const (
	modeAlloc = 0x8000 // IALLOC
	modeFmt   = 0x6000 // IFMT mask
	modeLarge = 0x1000 // ILARG
	modeSUID  = 0x0800 // ISUID
	modeSGID  = 0x0400 // ISGID
	modeSVTX  = 0x0200 // ISVTX
	modeRead  = 0x0100 // IREAD
	modeWrite = 0x0080 // IWRITE
	modeExec  = 0x0040 // IEXEC

	fmtRegular = 0x0000
	fmtDir     = 0x4000
	fmtChar    = 0x2000
	fmtBlock   = 0x6000
)

// FileType is the tagged variant produced once at decode time from the
// inode's IFMT bits, replacing the if/elif dispatch the mode bits would
// otherwise require at every call site.
type FileType int

const (
	// TypeRegular is an ordinary data file.
	TypeRegular FileType = iota
	// TypeDirectory is a directory file (a sequence of Dirents).
	TypeDirectory
	// TypeCharDevice is a character special file.
	TypeCharDevice
	// TypeBlockDevice is a block special file — and the catch-all for any
	// IFMT combination other than regular/directory/char, per spec.md §4.2
	// and §9 (preserved as-is from the reference decoder).
	TypeBlockDevice
)

func (t FileType) String() string {
	switch t {
	case TypeRegular:
		return "regular"
	case TypeDirectory:
		return "directory"
	case TypeCharDevice:
		return "char device"
	default:
		return "block device"
	}
}

// InodeSize is the on-disk size of one inode record.
const InodeSize = 32

// Inode is the decoded, in-memory form of a 32-byte on-disk inode record.
// The split size field and PDP middle-endian times are resolved here and
// never re-exposed in split/swapped form above this boundary.
type Inode struct {
	Number uint32 // 1-based inode number this record was read from

	Mode  uint16
	NLink uint8
	UID   int8
	GID   int8
	Size  uint32
	Addr  [8]uint16
	ATime time.Time
	MTime time.Time
}

// decodeInode decodes one 32-byte record. number is the 1-based inode
// number it came from, recorded on the result for diagnostics.
func decodeInode(b []byte, number uint32) (*Inode, error) {
	if len(b) < InodeSize {
		return nil, errs.Formatf("inode %d: truncated record (%d bytes)", number, len(b))
	}

	in := &Inode{Number: number}
	in.Mode = binary.LittleEndian.Uint16(b[0:2])
	in.NLink = b[2]
	in.UID = int8(b[3])
	in.GID = int8(b[4])

	size0 := b[5]
	size1 := binary.LittleEndian.Uint16(b[6:8])
	in.Size = splitSize(size0, size1)

	for i := 0; i < 8; i++ {
		in.Addr[i] = binary.LittleEndian.Uint16(b[8+i*2 : 10+i*2])
	}

	in.ATime = time.Unix(int64(middleEndian32(b[24:28])), 0).UTC()
	in.MTime = time.Unix(int64(middleEndian32(b[28:32])), 0).UTC()

	return in, nil
}

// IsAllocated reports the IALLOC bit. An inode with NLink == 0 is unused;
// InodeTable lookups return such an inode without marking it, so callers
// check NLink themselves.
func (in *Inode) IsAllocated() bool { return in.Mode&modeAlloc != 0 }

// IsLarge reports the ILARG bit, selecting the indirect/double-indirect
// addressing scheme over the eight direct blocks.
func (in *Inode) IsLarge() bool { return in.Mode&modeLarge != 0 }

// Type returns the tagged file-type variant decoded from the IFMT bits.
func (in *Inode) Type() FileType {
	switch in.Mode & modeFmt {
	case fmtRegular:
		return TypeRegular
	case fmtDir:
		return TypeDirectory
	case fmtChar:
		return TypeCharDevice
	default: // fmtBlock, and any other undefined combination
		return TypeBlockDevice
	}
}

// Major returns the major device number for a character/block device inode,
// decoded from the high byte of addr[0].
func (in *Inode) Major() uint8 { return uint8(in.Addr[0] >> 8) }

// Minor returns the minor device number for a character/block device inode,
// decoded from the low byte of addr[0].
func (in *Inode) Minor() uint8 { return uint8(in.Addr[0]) }

// ModeString renders the 12-character permission string per spec.md §4.2:
// one type character, then three rwx triplets for owner/group/others, with
// setuid/setgid/sticky folded into the execute slots, followed by two
// trailing flag characters for ILARG and IALLOC.
func (in *Inode) ModeString() string {
	b := make([]byte, 0, 11)

	switch in.Type() {
	case TypeRegular:
		b = append(b, '-')
	case TypeDirectory:
		b = append(b, 'd')
	case TypeCharDevice:
		b = append(b, 'c')
	case TypeBlockDevice:
		b = append(b, 'b')
	}

	triplet := func(bits, special uint16, specialSet, specialUnset byte) {
		if bits&modeRead != 0 {
			b = append(b, 'r')
		} else {
			b = append(b, '-')
		}
		if bits&modeWrite != 0 {
			b = append(b, 'w')
		} else {
			b = append(b, '-')
		}
		exec := bits&modeExec != 0
		switch {
		case special != 0 && exec:
			b = append(b, specialSet)
		case special != 0:
			b = append(b, specialUnset)
		case exec:
			b = append(b, 'x')
		default:
			b = append(b, '-')
		}
	}

	suid := in.Mode & modeSUID
	sgid := in.Mode & modeSGID
	svtx := in.Mode & modeSVTX

	triplet(in.Mode, suid, 's', 'S')
	triplet(in.Mode<<3, sgid, 's', 'S')
	triplet(in.Mode<<6, svtx, 't', 'T')

	if in.IsLarge() {
		b = append(b, 'L')
	} else {
		b = append(b, '.')
	}
	if in.IsAllocated() {
		b = append(b, '*')
	} else {
		b = append(b, '.')
	}

	return string(b)
}
