package v6fs

import (
	"encoding/binary"
	"time"

	"github.com/harrybotter30/v6ufs/block"
	"github.com/harrybotter30/v6ufs/errs"
)

// SuperBlock is the decoded contents of block 1. Only isize and fsize drive
// the engine (the inode list and data region addressing); the free-list and
// locking fields are bookkeeping the engine ignores and exist only for the
// superblock reporter front-end.
type SuperBlock struct {
	ISize  uint16 // number of blocks occupied by the inode list
	FSize  uint16 // total volume size in blocks
	NFree  uint16
	Free   [100]uint16
	NInode uint16
	Inode  [100]uint16
	FLock  uint8
	ILock  uint8
	FMod   uint8
	ROnly  uint8
	Time   time.Time // last-update time, PDP middle-endian on disk
}

const superBlockSize = 2 + 2 + 2 + 100*2 + 2 + 100*2 + 1 + 1 + 1 + 1 + 4

// DecodeSuperBlock decodes block 1's bytes into a SuperBlock.
func DecodeSuperBlock(b [block.Size]byte) (*SuperBlock, error) {
	if len(b) < superBlockSize {
		return nil, errs.Formatf("superblock: block too short (%d bytes)", len(b))
	}

	sb := &SuperBlock{}
	off := 0
	read16 := func() uint16 {
		v := binary.LittleEndian.Uint16(b[off : off+2])
		off += 2
		return v
	}

	sb.ISize = read16()
	sb.FSize = read16()
	sb.NFree = read16()
	for i := range sb.Free {
		sb.Free[i] = read16()
	}
	sb.NInode = read16()
	for i := range sb.Inode {
		sb.Inode[i] = read16()
	}
	sb.FLock = b[off]
	off++
	sb.ILock = b[off]
	off++
	sb.FMod = b[off]
	off++
	sb.ROnly = b[off]
	off++
	sb.Time = time.Unix(int64(middleEndian32(b[off:off+4])), 0).UTC()

	return sb, nil
}
