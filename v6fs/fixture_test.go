package v6fs

import (
	"encoding/binary"

	"github.com/harrybotter30/v6ufs/block"
)

// imageBuilder assembles a minimal v6 volume image in memory for tests:
// block 0 (boot, unused), block 1 (superblock), blocks 2..2+isize-1 (inode
// list), then whatever data blocks the test writes directly by number.
type imageBuilder struct {
	isize  uint16
	blocks map[uint32][block.Size]byte
}

func newImageBuilder(isize uint16) *imageBuilder {
	return &imageBuilder{isize: isize, blocks: map[uint32][block.Size]byte{}}
}

func (b *imageBuilder) setBlock(n uint32, data []byte) {
	var buf [block.Size]byte
	copy(buf[:], data)
	b.blocks[n] = buf
}

// setInode writes one 32-byte inode record at its natural position within
// the inode list, computed from its 1-based number.
func (b *imageBuilder) setInode(number uint32, in rawInode) {
	blockNum := uint32(2) + (number-1)/inodesPerBlock
	offset := int((number - 1) % inodesPerBlock * InodeSize)

	buf := b.blocks[blockNum]
	rec := in.encode()
	copy(buf[offset:offset+InodeSize], rec)
	b.blocks[blockNum] = buf
}

// setIndirect writes a 512-byte indirect block of little-endian uint16
// block numbers at block n.
func (b *imageBuilder) setIndirect(n uint32, entries []uint16) {
	var buf [block.Size]byte
	for i, e := range entries {
		binary.LittleEndian.PutUint16(buf[i*2:i*2+2], e)
	}
	b.blocks[n] = buf
}

func (b *imageBuilder) build() []byte {
	maxBlock := uint32(1)
	for n := range b.blocks {
		if n > maxBlock {
			maxBlock = n
		}
	}
	out := make([]byte, (maxBlock+1)*block.Size)
	// superblock at block 1
	sb := make([]byte, block.Size)
	binary.LittleEndian.PutUint16(sb[0:2], b.isize)
	binary.LittleEndian.PutUint16(sb[2:4], uint16(maxBlock+1))
	copy(out[block.Size:2*block.Size], sb)

	for n, data := range b.blocks {
		copy(out[n*block.Size:(n+1)*block.Size], data[:])
	}
	return out
}

func (b *imageBuilder) device() (*block.Device, error) {
	return block.NewFromBytes(b.build())
}

// rawInode is the pre-encode form of a 32-byte inode record used to build
// fixtures; production code never needs to encode, only decode.
type rawInode struct {
	mode  uint16
	nlink uint8
	uid   uint8
	gid   uint8
	size  uint32
	addr  [8]uint16
	atime uint32
	mtime uint32
}

func (r rawInode) encode() []byte {
	b := make([]byte, InodeSize)
	binary.LittleEndian.PutUint16(b[0:2], r.mode)
	b[2] = r.nlink
	b[3] = r.uid
	b[4] = r.gid
	b[5] = byte(r.size >> 16)
	binary.LittleEndian.PutUint16(b[6:8], uint16(r.size))
	for i, a := range r.addr {
		binary.LittleEndian.PutUint16(b[8+i*2:10+i*2], a)
	}
	putMiddleEndian32(b[24:28], r.atime)
	putMiddleEndian32(b[28:32], r.mtime)
	return b
}

func direntBytes(ino uint16, name string) []byte {
	b := make([]byte, direntSize)
	binary.LittleEndian.PutUint16(b[0:2], ino)
	copy(b[2:2+direntNameSize], name)
	return b
}
