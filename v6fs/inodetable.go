package v6fs

import (
	"github.com/harrybotter30/v6ufs/block"
	"github.com/harrybotter30/v6ufs/errs"
)

// inodesPerBlock is the number of 32-byte inode records that fit in one
// 512-byte block.
const inodesPerBlock = block.Size / InodeSize

// InodeTable loads and owns the full inode array. It is populated once
// during construction and is immutable thereafter — the process-wide
// mutable inode array of the reference implementation becomes a per-session
// value owned by the caller, not shared global state.
type InodeTable struct {
	super  *SuperBlock
	inodes []Inode
}

// LoadInodeTable seeks to block 1, decodes the superblock, then reads
// isize*512 bytes starting at block 2, decoding them into an array of
// isize*16 inode records.
func LoadInodeTable(dev *block.Device) (*InodeTable, error) {
	b1, err := dev.ReadBlock(1)
	if err != nil {
		return nil, err
	}
	super, err := DecodeSuperBlock(b1)
	if err != nil {
		return nil, err
	}

	count := int(super.ISize) * inodesPerBlock
	inodes := make([]Inode, 0, count)

	for blk := uint32(0); blk < uint32(super.ISize); blk++ {
		b, err := dev.ReadBlock(2 + blk)
		if err != nil {
			return nil, err
		}
		for i := 0; i < inodesPerBlock; i++ {
			number := uint32(len(inodes)) + 1
			rec := b[i*InodeSize : (i+1)*InodeSize]
			in, err := decodeInode(rec, number)
			if err != nil {
				return nil, err
			}
			inodes = append(inodes, *in)
		}
	}

	return &InodeTable{super: super, inodes: inodes}, nil
}

// SuperBlock returns the decoded superblock this table was built from.
func (t *InodeTable) SuperBlock() *SuperBlock { return t.super }

// Len returns the number of inode slots in the table.
func (t *InodeTable) Len() int { return len(t.inodes) }

// Inode returns the decoded record for the given 1-based inode number. An
// inode with NLink == 0 is reported as unused by the caller's own check on
// the returned record — lookup still returns it, per spec.md §4.5.
func (t *InodeTable) Inode(number uint32) (*Inode, error) {
	if number < 1 || int(number) > len(t.inodes) {
		return nil, errs.Rangef("inode %d out of range [1, %d]", number, len(t.inodes))
	}
	in := t.inodes[number-1]
	return &in, nil
}
