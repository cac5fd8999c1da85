// Package block provides a random-access reader of fixed 512-byte blocks
// over a backend.Storage, the addressing unit the v6 on-disk format and
// every component built on top of it (codec, inode table, file reader,
// directory iterator) is expressed in terms of.
package block

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	times "gopkg.in/djherbis/times.v1"

	"github.com/harrybotter30/v6ufs/backend"
	"github.com/harrybotter30/v6ufs/backend/file"
	"github.com/harrybotter30/v6ufs/errs"
)

// Size is the fixed block size of a v6 volume image.
const Size = 512

// deviceType mirrors the file-vs-block-device split go-diskfs's disk
// package makes before deciding how to learn a backing store's total size.
type deviceType int

const (
	deviceTypeFile deviceType = iota
	deviceTypeBlockDevice
)

// Device is a random-access reader of fixed 512-byte blocks. It is the sole
// shared mutable resource (its seek position is owned by backend.Storage,
// not by Device) across the higher-level readers built on top of it; see
// package v6fs for the "one active reader at a time" contract.
type Device struct {
	backend backend.Storage
	// blocks is the total block count if known, or 0 if it could not be
	// determined (e.g. a plain io.Reader-backed test fixture with no Stat).
	blocks uint32
}

// New wraps an already-open backend.Storage as a Device, determining its
// size via Stat. Used directly by tests that hand in an in-memory backend.
func New(storage backend.Storage) (*Device, error) {
	blocks, err := sizeInBlocks(storage)
	if err != nil {
		logrus.WithError(err).Debug("block: could not determine device size, range checks on read will be skipped")
		blocks = 0
	}
	return &Device{backend: storage, blocks: blocks}, nil
}

// Open opens a path to a device or plain image file read-only and wraps it
// as a Device. Should pass a path to a block device, e.g. /dev/sda, or a
// path to an image file, e.g. /tmp/v6.img.
func Open(path string) (*Device, error) {
	storage, err := file.OpenFromPath(path)
	if err != nil {
		return nil, errs.IOf(err, "open %s", path)
	}

	if info, statErr := times.Stat(path); statErr == nil {
		entry := logrus.WithFields(logrus.Fields{
			"path":    path,
			"modTime": info.ModTime(),
		})
		if info.HasChangeTime() {
			entry = entry.WithField("changeTime", info.ChangeTime())
		}
		if info.HasBirthTime() {
			entry = entry.WithField("birthTime", info.BirthTime())
		}
		entry.Debug("block: opened image file")
	}

	return New(storage)
}

// OpenWindow opens path the same way Open does, then restricts the Device to
// the size bytes starting at offset via backend.Sub — for a physical pack
// that carries several v6 volumes back to back, letting the decoder address
// one slice directly instead of requiring a separate copy of just those
// bytes. size == 0 means "the rest of the file from offset".
func OpenWindow(path string, offset, size int64) (*Device, error) {
	storage, err := file.OpenFromPath(path)
	if err != nil {
		return nil, errs.IOf(err, "open %s", path)
	}

	if size == 0 {
		info, statErr := storage.Stat()
		if statErr != nil {
			_ = storage.Close()
			return nil, errs.IOf(statErr, "stat %s", path)
		}
		size = info.Size() - offset
	}

	return New(backend.Sub(storage, offset, size))
}

func sizeInBlocks(storage backend.Storage) (uint32, error) {
	info, err := storage.Stat()
	if err != nil {
		return 0, fmt.Errorf("stat: %w", err)
	}

	dt := deviceTypeFile
	if info.Mode()&os.ModeDevice != 0 {
		dt = deviceTypeBlockDevice
	}

	var size int64
	switch dt {
	case deviceTypeFile:
		size = info.Size()
	case deviceTypeBlockDevice:
		size, err = blockDeviceSize(storage, info)
		if err != nil {
			return 0, err
		}
	}
	if size <= 0 {
		return 0, fmt.Errorf("could not determine a usable size for %s", info.Name())
	}
	return uint32(size / Size), nil
}

// ReadBlock reads the n'th 512-byte block (0-based). Reading past the
// device end fails with a RangeError; the device is addressed by absolute
// block number, not by file offset.
func (d *Device) ReadBlock(n uint32) ([Size]byte, error) {
	var buf [Size]byte
	if d.blocks != 0 && n >= d.blocks {
		return buf, errs.Rangef("block %d out of range (device has %d blocks)", n, d.blocks)
	}
	read, err := d.backend.ReadAt(buf[:], int64(n)*Size)
	if read < Size {
		if err != nil {
			return buf, errs.IOf(err, "read block %d", n)
		}
		return buf, errs.Rangef("block %d out of range (short read of %d bytes)", n, read)
	}
	return buf, nil
}

// NumBlocks returns the device's total block count, or 0 if unknown.
func (d *Device) NumBlocks() uint32 { return d.blocks }

// Close releases the underlying backend.
func (d *Device) Close() error { return d.backend.Close() }
