package v6fs

import (
	"encoding/binary"
	"errors"
	"io"

	"github.com/harrybotter30/v6ufs/block"
	"github.com/harrybotter30/v6ufs/errs"
)

// blockNumbersPerIndirectBlock is the number of 16-bit block numbers that
// fit in one indirect (or double-indirect) 512-byte block.
const blockNumbersPerIndirectBlock = block.Size / 2

// FileReader produces the ordered sequence of data block numbers for an
// inode's content (walking the direct/indirect/double-indirect addressing
// scheme exactly once, at construction), then streams the file's bytes
// block by block. It is short-lived, non-seekable, and consumes the
// underlying block.Device linearly: only one FileReader or
// DirectoryIterator may be active against a given device at a time.
type FileReader struct {
	dev    *block.Device
	size   uint32
	blocks []uint32 // data block numbers, in file order

	next int    // index into blocks of the next block to read
	buf  []byte // bytes not yet consumed by Read, from the most recent NextBlock
	eof  bool
}

// NewFileReader expands in's addressing scheme into an ordered list of data
// block numbers and verifies the §4.3 invariant that the list's length
// equals ceil(size/512), failing with a FormatError otherwise.
func NewFileReader(dev *block.Device, in *Inode) (*FileReader, error) {
	blocks, err := blockSequence(dev, in)
	if err != nil {
		return nil, err
	}

	want := blockCount(in.Size)
	if len(blocks) != want {
		return nil, errs.Formatf(
			"inode %d: block sequence has %d entries, expected %d for size %d",
			in.Number, len(blocks), want, in.Size,
		)
	}

	return &FileReader{dev: dev, size: in.Size, blocks: blocks}, nil
}

// blockCount returns ceil(size/512).
func blockCount(size uint32) int {
	return int((size + block.Size - 1) / block.Size)
}

// blockSequence walks in's addressing scheme per spec.md §4.3: small mode
// lists addr[0..7] directly; large mode treats addr[0..6] as single
// indirect blocks and addr[7] as a double-indirect block. Zero entries at
// any level are holes and are skipped.
func blockSequence(dev *block.Device, in *Inode) ([]uint32, error) {
	if !in.IsLarge() {
		var blocks []uint32
		for _, a := range in.Addr {
			if a != 0 {
				blocks = append(blocks, uint32(a))
			}
		}
		return blocks, nil
	}

	var blocks []uint32
	for i := 0; i < 7; i++ {
		if in.Addr[i] == 0 {
			continue
		}
		direct, err := readIndirectBlock(dev, uint32(in.Addr[i]))
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, direct...)
	}

	if in.Addr[7] != 0 {
		indirects, err := readIndirectBlock(dev, uint32(in.Addr[7]))
		if err != nil {
			return nil, err
		}
		for _, ib := range indirects {
			direct, err := readIndirectBlock(dev, ib)
			if err != nil {
				return nil, err
			}
			blocks = append(blocks, direct...)
		}
	}

	return blocks, nil
}

// readIndirectBlock reads one 512-byte block as 256 little-endian 16-bit
// block numbers, dropping zero (hole) entries.
func readIndirectBlock(dev *block.Device, blockNum uint32) ([]uint32, error) {
	raw, err := dev.ReadBlock(blockNum)
	if err != nil {
		if errors.Is(err, errs.ErrIO) {
			return nil, err
		}
		return nil, errs.Formatf("indirect block %d: %v", blockNum, err)
	}
	out := make([]uint32, 0, blockNumbersPerIndirectBlock)
	for i := 0; i < blockNumbersPerIndirectBlock; i++ {
		v := binary.LittleEndian.Uint16(raw[i*2 : i*2+2])
		if v != 0 {
			out = append(out, uint32(v))
		}
	}
	return out, nil
}

// NextBlock returns the next data block's contents. When the current block
// is the final one and size%512 != 0, the returned slice is truncated to
// that remainder. Returns io.EOF once exhausted.
func (r *FileReader) NextBlock() ([]byte, error) {
	if r.next >= len(r.blocks) {
		return nil, io.EOF
	}

	raw, err := r.dev.ReadBlock(r.blocks[r.next])
	if err != nil {
		return nil, err
	}
	r.next++

	n := block.Size
	if r.next == len(r.blocks) {
		if rem := int(r.size % block.Size); rem != 0 {
			n = rem
		}
	}
	return raw[:n], nil
}

// Read implements io.Reader over the concatenation of NextBlock's outputs,
// buffering partial blocks internally. After end-of-file it returns
// (0, io.EOF).
func (r *FileReader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	total := 0
	for total < len(p) {
		if len(r.buf) == 0 {
			if r.eof {
				break
			}
			blk, err := r.NextBlock()
			if err == io.EOF {
				r.eof = true
				break
			}
			if err != nil {
				return total, err
			}
			r.buf = blk
		}
		n := copy(p[total:], r.buf)
		r.buf = r.buf[n:]
		total += n
	}
	if total == 0 && r.eof {
		return 0, io.EOF
	}
	return total, nil
}

// ReadAll drains the reader to end-of-file, the n<0-or-omitted behavior of
// spec.md §4.3's read(n) contract.
func (r *FileReader) ReadAll() ([]byte, error) {
	return io.ReadAll(r)
}

// Size returns the inode's decoded file size in bytes.
func (r *FileReader) Size() uint32 { return r.size }
