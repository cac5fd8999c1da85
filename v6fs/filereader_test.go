package v6fs

import (
	"bytes"
	"testing"
)

func TestFileReaderSmallModeTwoBlocks(t *testing.T) {
	b := newImageBuilder(1)
	b.setInode(1, rawInode{
		mode: modeAlloc | fmtRegular,
		size: 1000,
		addr: [8]uint16{5, 6, 0, 0, 0, 0, 0, 0},
	})
	b.setBlock(5, bytes.Repeat([]byte{'A'}, 512))
	b.setBlock(6, bytes.Repeat([]byte{'B'}, 512))

	dev, err := b.device()
	if err != nil {
		t.Fatalf("device: %v", err)
	}
	table, err := LoadInodeTable(dev)
	if err != nil {
		t.Fatalf("LoadInodeTable: %v", err)
	}
	in, err := table.Inode(1)
	if err != nil {
		t.Fatalf("Inode(1): %v", err)
	}
	r, err := NewFileReader(dev, in)
	if err != nil {
		t.Fatalf("NewFileReader: %v", err)
	}
	data, err := r.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(data) != 1000 {
		t.Fatalf("len(data) = %d, want 1000", len(data))
	}
	if !bytes.Equal(data[:512], bytes.Repeat([]byte{'A'}, 512)) {
		t.Error("first block content mismatch")
	}
	if !bytes.Equal(data[512:], bytes.Repeat([]byte{'B'}, 488)) {
		t.Error("second (truncated) block content mismatch")
	}
}

func TestFileReaderLargeModeSingleIndirect(t *testing.T) {
	b := newImageBuilder(1)
	b.setInode(1, rawInode{
		mode: modeAlloc | fmtRegular | modeLarge,
		size: 800,
		addr: [8]uint16{100, 0, 0, 0, 0, 0, 0, 0},
	})
	b.setIndirect(100, []uint16{200, 201})
	b.setBlock(200, bytes.Repeat([]byte{0xAA}, 512))
	b.setBlock(201, bytes.Repeat([]byte{0xBB}, 512))

	dev, err := b.device()
	if err != nil {
		t.Fatalf("device: %v", err)
	}
	table, err := LoadInodeTable(dev)
	if err != nil {
		t.Fatalf("LoadInodeTable: %v", err)
	}
	in, err := table.Inode(1)
	if err != nil {
		t.Fatalf("Inode(1): %v", err)
	}
	r, err := NewFileReader(dev, in)
	if err != nil {
		t.Fatalf("NewFileReader: %v", err)
	}
	data, err := r.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(data) != 800 {
		t.Fatalf("len(data) = %d, want 800", len(data))
	}
	if !bytes.Equal(data[:512], bytes.Repeat([]byte{0xAA}, 512)) {
		t.Error("first indirect data block mismatch")
	}
	if !bytes.Equal(data[512:], bytes.Repeat([]byte{0xBB}, 288)) {
		t.Error("second (truncated) indirect data block mismatch")
	}
}

func TestFileReaderDoubleIndirectSkipsHoles(t *testing.T) {
	b := newImageBuilder(1)
	b.setInode(1, rawInode{
		mode: modeAlloc | fmtRegular | modeLarge,
		size: 800,
		addr: [8]uint16{0, 0, 0, 0, 0, 0, 0, 300},
	})
	// addr[7] (double indirect) points at block 300, which lists one hole
	// and one real indirect block (301).
	b.setIndirect(300, []uint16{0, 301})
	// indirect block 301 lists a hole between two real data blocks.
	b.setIndirect(301, []uint16{400, 0, 401})
	b.setBlock(400, bytes.Repeat([]byte{0x11}, 512))
	b.setBlock(401, bytes.Repeat([]byte{0x22}, 512))

	dev, err := b.device()
	if err != nil {
		t.Fatalf("device: %v", err)
	}
	table, err := LoadInodeTable(dev)
	if err != nil {
		t.Fatalf("LoadInodeTable: %v", err)
	}
	in, err := table.Inode(1)
	if err != nil {
		t.Fatalf("Inode(1): %v", err)
	}
	r, err := NewFileReader(dev, in)
	if err != nil {
		t.Fatalf("NewFileReader: %v", err)
	}
	data, err := r.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(data) != 800 {
		t.Fatalf("len(data) = %d, want 800", len(data))
	}
	if !bytes.Equal(data[:512], bytes.Repeat([]byte{0x11}, 512)) {
		t.Error("first block (after hole skip) mismatch")
	}
	if !bytes.Equal(data[512:], bytes.Repeat([]byte{0x22}, 288)) {
		t.Error("second block (after hole skip) mismatch")
	}
}

func TestFileReaderEmptyFile(t *testing.T) {
	b := newImageBuilder(1)
	b.setInode(1, rawInode{mode: modeAlloc | fmtRegular, size: 0})

	dev, err := b.device()
	if err != nil {
		t.Fatalf("device: %v", err)
	}
	table, err := LoadInodeTable(dev)
	if err != nil {
		t.Fatalf("LoadInodeTable: %v", err)
	}
	in, err := table.Inode(1)
	if err != nil {
		t.Fatalf("Inode(1): %v", err)
	}
	r, err := NewFileReader(dev, in)
	if err != nil {
		t.Fatalf("NewFileReader: %v", err)
	}
	data, err := r.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(data) != 0 {
		t.Fatalf("len(data) = %d, want 0", len(data))
	}
}

func TestFileReaderExactBlockMultiple(t *testing.T) {
	b := newImageBuilder(1)
	b.setInode(1, rawInode{
		mode: modeAlloc | fmtRegular,
		size: 1024,
		addr: [8]uint16{10, 11, 0, 0, 0, 0, 0, 0},
	})
	b.setBlock(10, bytes.Repeat([]byte{1}, 512))
	b.setBlock(11, bytes.Repeat([]byte{2}, 512))

	dev, err := b.device()
	if err != nil {
		t.Fatalf("device: %v", err)
	}
	table, err := LoadInodeTable(dev)
	if err != nil {
		t.Fatalf("LoadInodeTable: %v", err)
	}
	in, err := table.Inode(1)
	if err != nil {
		t.Fatalf("Inode(1): %v", err)
	}
	r, err := NewFileReader(dev, in)
	if err != nil {
		t.Fatalf("NewFileReader: %v", err)
	}
	data, err := r.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(data) != 1024 {
		t.Fatalf("len(data) = %d, want 1024", len(data))
	}
}

func TestFileReaderBlockCountMismatchIsFormatError(t *testing.T) {
	b := newImageBuilder(1)
	// size demands two blocks, only one direct address is present.
	b.setInode(1, rawInode{
		mode: modeAlloc | fmtRegular,
		size: 1000,
		addr: [8]uint16{5, 0, 0, 0, 0, 0, 0, 0},
	})
	b.setBlock(5, bytes.Repeat([]byte{'A'}, 512))

	dev, err := b.device()
	if err != nil {
		t.Fatalf("device: %v", err)
	}
	table, err := LoadInodeTable(dev)
	if err != nil {
		t.Fatalf("LoadInodeTable: %v", err)
	}
	in, err := table.Inode(1)
	if err != nil {
		t.Fatalf("Inode(1): %v", err)
	}
	if _, err := NewFileReader(dev, in); err == nil {
		t.Fatal("NewFileReader with a short block sequence: want error, got nil")
	}
}
