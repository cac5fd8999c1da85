package block

import (
	"bytes"
	"errors"
	"testing"

	"github.com/harrybotter30/v6ufs/backend"
	"github.com/harrybotter30/v6ufs/backend/file"
	"github.com/harrybotter30/v6ufs/testhelper"
)

func makeImage(blocks int) []byte {
	data := make([]byte, blocks*Size)
	for b := 0; b < blocks; b++ {
		for i := 0; i < Size; i++ {
			data[b*Size+i] = byte(b)
		}
	}
	return data
}

func TestReadBlock(t *testing.T) {
	dev, err := NewFromBytes(makeImage(4))
	if err != nil {
		t.Fatalf("NewFromBytes: %v", err)
	}
	if dev.NumBlocks() != 4 {
		t.Fatalf("NumBlocks() = %d, want 4", dev.NumBlocks())
	}

	b, err := dev.ReadBlock(2)
	if err != nil {
		t.Fatalf("ReadBlock(2): %v", err)
	}
	want := bytes.Repeat([]byte{2}, Size)
	if !bytes.Equal(b[:], want) {
		t.Errorf("ReadBlock(2) = %x..., want all 0x02", b[:8])
	}
}

func TestReadBlockOutOfRange(t *testing.T) {
	dev, err := NewFromBytes(makeImage(2))
	if err != nil {
		t.Fatalf("NewFromBytes: %v", err)
	}
	if _, err := dev.ReadBlock(5); err == nil {
		t.Fatal("ReadBlock(5) on a 2-block device: want error, got nil")
	}
}

func TestNewFromBytesRejectsPartialBlock(t *testing.T) {
	if _, err := NewFromBytes(make([]byte, Size+1)); err == nil {
		t.Fatal("NewFromBytes with a non-multiple-of-512 length: want error, got nil")
	}
}

func TestReadBlockDrainsSequentially(t *testing.T) {
	dev, err := NewFromBytes(makeImage(3))
	if err != nil {
		t.Fatalf("NewFromBytes: %v", err)
	}
	for i := uint32(0); i < 3; i++ {
		if _, err := dev.ReadBlock(i); err != nil {
			t.Fatalf("ReadBlock(%d): %v", i, err)
		}
	}
	if _, err := dev.ReadBlock(3); err == nil {
		t.Fatal("ReadBlock(3) past end: want error, got nil")
	}
}

func TestReadBlockWrapsUnderlyingIOError(t *testing.T) {
	wantErr := errors.New("disk on fire")
	storage := file.New(&testhelper.FileImpl{
		Info: testhelper.StaticFileInfo("fake", 4*Size),
		Reader: func(b []byte, offset int64) (int, error) {
			return 0, wantErr
		},
	})
	dev, err := New(storage)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := dev.ReadBlock(0); !errors.Is(err, wantErr) {
		t.Fatalf("ReadBlock(0) = %v, want wrapped %v", err, wantErr)
	}
}

func TestReadBlockShortReadWithoutUnderlyingError(t *testing.T) {
	storage := file.New(&testhelper.FileImpl{
		Info: testhelper.StaticFileInfo("fake", 4*Size),
		Reader: func(b []byte, offset int64) (int, error) {
			return len(b) / 2, nil
		},
	})
	dev, err := New(storage)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := dev.ReadBlock(0); err == nil {
		t.Fatal("ReadBlock(0) with a short, error-free read: want error, got nil")
	}
}

func TestSubStorageWindowsReads(t *testing.T) {
	image := makeImage(4)
	storage := file.New(&testhelper.FileImpl{
		Info: testhelper.StaticFileInfo("fake", int64(len(image))),
		Reader: func(b []byte, offset int64) (int, error) {
			return copy(b, image[offset:]), nil
		},
	})
	sub := backend.Sub(storage, 2*Size, 2*Size)
	dev, err := New(sub)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if dev.NumBlocks() != 2 {
		t.Fatalf("NumBlocks() = %d, want 2", dev.NumBlocks())
	}
	b, err := dev.ReadBlock(0)
	if err != nil {
		t.Fatalf("ReadBlock(0): %v", err)
	}
	if !bytes.Equal(b[:], bytes.Repeat([]byte{2}, Size)) {
		t.Errorf("ReadBlock(0) through SubStorage did not land on block 2 of the underlying image")
	}
}
