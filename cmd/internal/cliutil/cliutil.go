// Package cliutil holds the small pieces every v6fs front-end repeats:
// opening an image into a decoded InodeTable and rendering the inode-listing
// line format (exit codes come from errs.ExitCode). Grounded
// on cmd/vorteil's own split between its per-subcommand imageutil files and
// the shared helpers in cmd/vorteil/util.go.
package cliutil

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/harrybotter30/v6ufs/block"
	"github.com/harrybotter30/v6ufs/v6fs"
)

// Opened bundles the decoded handles a front-end needs, so callers have one
// value to defer-close.
type Opened struct {
	Dev   *block.Device
	Table *v6fs.InodeTable
}

// Close releases the underlying device.
func (o *Opened) Close() error {
	if o.Dev == nil {
		return nil
	}
	return o.Dev.Close()
}

// OpenDeviceOrStdin opens path as a v6 volume image, or reads the whole of
// standard input into memory and wraps that when path is empty — the
// superblock and inodes front-ends accept a list of files and fall back to
// stdin when none are given.
func OpenDeviceOrStdin(path string) (*block.Device, error) {
	if path == "" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, errors.Wrap(err, "read stdin")
		}
		return block.NewFromBytes(data)
	}
	return block.Open(path)
}

// Open opens path and loads its inode table, wrapping any failure with the
// path for context the way cmd/vorteil's readLS wraps vdecompiler.Open
// errors before returning them to cobra.
func Open(path string) (*Opened, error) {
	dev, err := block.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	return LoadTable(dev, path)
}

// OpenWindow opens the size bytes starting at offset within path as a v6
// volume and loads its inode table — the entry point for a pack file that
// carries more than one v6 filesystem back to back. offset == 0 and
// size == 0 behaves like Open.
func OpenWindow(path string, offset, size int64) (*Opened, error) {
	dev, err := block.OpenWindow(path, offset, size)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s (offset %d, size %d)", path, offset, size)
	}
	return LoadTable(dev, path)
}

// LoadTable loads dev's inode table, closing dev and returning a wrapped
// error if the table itself is malformed.
func LoadTable(dev *block.Device, name string) (*Opened, error) {
	table, err := v6fs.LoadInodeTable(dev)
	if err != nil {
		_ = dev.Close()
		return nil, errors.Wrapf(err, "load inode table from %s", name)
	}

	logrus.WithFields(logrus.Fields{
		"path":  name,
		"isize": table.SuperBlock().ISize,
		"fsize": table.SuperBlock().FSize,
	}).Debug("cliutil: loaded inode table")

	return &Opened{Dev: dev, Table: table}, nil
}

// InodeLine renders the §6 inode-listing line format:
// NNNNN MODESTR LL UU GG SSSSSSSS MTIME ATIME NAME
func InodeLine(in *v6fs.Inode, name string) string {
	return fmt.Sprintf("%5d %s %2d %3d %3d %8d %s %s %s",
		in.Number, in.ModeString(), in.NLink, in.UID, in.GID, in.Size,
		formatTime(in.MTime), formatTime(in.ATime), name,
	)
}

func formatTime(t time.Time) string {
	return t.Local().Format("2006-01-02 15:04:05")
}
