package v6fs

import (
	"io"
	"io/fs"
	"time"

	"github.com/harrybotter30/v6ufs/block"
)

// FS adapts a v6 image into an io/fs.FS (and io/fs.ReadDirFS), the same
// role filesystem.FileSystem implementations play in go-diskfs: callers can
// use fs.ReadDir, fs.ReadFile, and fs.WalkDir against a v6 image the way
// KarpelesLab-squashfs's cmd/sqfs uses those stdlib helpers against a
// squashfs.FileSystem. Front-ends that need raw inode data fs.FileInfo
// cannot carry — device major/minor, the exact v6 mode string — use
// Traversal directly instead.
type FS struct {
	dev   *block.Device
	table *InodeTable
	root  uint32
}

// NewFS builds an FS rooted at the given inode number (typically 1).
func NewFS(dev *block.Device, table *InodeTable, root uint32) *FS {
	return &FS{dev: dev, table: table, root: root}
}

var _ fs.FS = (*FS)(nil)
var _ fs.ReadDirFS = (*FS)(nil)

// Open implements io/fs.FS. Directories are returned as a dirFile whose
// ReadDir is backed by DirectoryIterator; regular files as a fileHandle
// wrapping a FileReader. Devices have no meaningful fs.File representation
// and return fs.ErrInvalid.
func (f *FS) Open(name string) (fs.File, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrInvalid}
	}

	number, in, err := f.resolve(name)
	if err != nil {
		return nil, &fs.PathError{Op: "open", Path: name, Err: err}
	}

	switch in.Type() {
	case TypeDirectory:
		entries, err := f.readDirEntries(in)
		if err != nil {
			return nil, &fs.PathError{Op: "open", Path: name, Err: err}
		}
		return &dirFile{info: f.fileInfo(name, number, in), entries: entries, fsys: f}, nil
	case TypeRegular:
		r, err := NewFileReader(f.dev, in)
		if err != nil {
			return nil, &fs.PathError{Op: "open", Path: name, Err: err}
		}
		return &fileHandle{info: f.fileInfo(name, number, in), r: r}, nil
	default:
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrInvalid}
	}
}

// ReadDir implements io/fs.ReadDirFS.
func (f *FS) ReadDir(name string) ([]fs.DirEntry, error) {
	file, err := f.Open(name)
	if err != nil {
		return nil, err
	}
	d, ok := file.(fs.ReadDirFile)
	if !ok {
		return nil, &fs.PathError{Op: "readdir", Path: name, Err: fs.ErrInvalid}
	}
	return d.ReadDir(-1)
}

// resolve walks name's path components from the root inode, the same
// linear descent Traversal.walkDirectory performs, stopping at the named
// entry instead of recursing into every child.
func (f *FS) resolve(name string) (uint32, *Inode, error) {
	number := f.root
	in, err := f.table.Inode(number)
	if err != nil {
		return 0, nil, err
	}
	if name == "." {
		return number, in, nil
	}

	for _, part := range splitPath(name) {
		if in.Type() != TypeDirectory {
			return 0, nil, fs.ErrInvalid
		}
		entries, err := f.readDirEntries(in)
		if err != nil {
			return 0, nil, err
		}
		found := false
		for _, e := range entries {
			if e.Name == part {
				number = e.InodeNumber
				in, err = f.table.Inode(number)
				if err != nil {
					return 0, nil, err
				}
				found = true
				break
			}
		}
		if !found {
			return 0, nil, fs.ErrNotExist
		}
	}
	return number, in, nil
}

func splitPath(name string) []string {
	var parts []string
	start := 0
	for i := 0; i <= len(name); i++ {
		if i == len(name) || name[i] == '/' {
			if i > start {
				parts = append(parts, name[start:i])
			}
			start = i + 1
		}
	}
	return parts
}

func (f *FS) readDirEntries(in *Inode) ([]DirEntry, error) {
	r, err := NewFileReader(f.dev, in)
	if err != nil {
		return nil, err
	}
	all, err := NewDirectoryIterator(r).All()
	if err != nil {
		return nil, err
	}
	out := all[:0]
	for _, e := range all {
		if e.Name == "." || e.Name == ".." {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (f *FS) fileInfo(name string, number uint32, in *Inode) fileInfo {
	return fileInfo{
		name:    baseName(name),
		number:  number,
		in:      in,
		modTime: in.MTime,
	}
}

func baseName(name string) string {
	for i := len(name) - 1; i >= 0; i-- {
		if name[i] == '/' {
			return name[i+1:]
		}
	}
	return name
}

// fileInfo implements io/fs.FileInfo over a decoded Inode.
type fileInfo struct {
	name    string
	number  uint32
	in      *Inode
	modTime time.Time
}

func (i fileInfo) Name() string       { return i.name }
func (i fileInfo) Size() int64        { return int64(i.in.Size) }
func (i fileInfo) ModTime() time.Time { return i.modTime }
func (i fileInfo) IsDir() bool        { return i.in.Type() == TypeDirectory }
func (i fileInfo) Sys() any           { return i.in }

func (i fileInfo) Mode() fs.FileMode {
	var m fs.FileMode
	if i.in.Mode&modeRead != 0 {
		m |= 0o400
	}
	if i.in.Mode&modeWrite != 0 {
		m |= 0o200
	}
	if i.in.Mode&modeExec != 0 {
		m |= 0o100
	}
	switch i.in.Type() {
	case TypeDirectory:
		m |= fs.ModeDir
	case TypeCharDevice, TypeBlockDevice:
		m |= fs.ModeDevice
	}
	return m
}

// dirEntryInfo adapts a DirEntry (name + inode number only) to
// io/fs.DirEntry without a full inode decode, for directory listings that
// don't need per-child metadata.
type dirEntryInfo struct {
	fs *FS
	e  DirEntry
}

func (d dirEntryInfo) Name() string { return d.e.Name }
func (d dirEntryInfo) IsDir() bool {
	in, err := d.fs.table.Inode(d.e.InodeNumber)
	return err == nil && in.Type() == TypeDirectory
}
func (d dirEntryInfo) Type() fs.FileMode {
	info, err := d.Info()
	if err != nil {
		return 0
	}
	return info.Mode().Type()
}
func (d dirEntryInfo) Info() (fs.FileInfo, error) {
	in, err := d.fs.table.Inode(d.e.InodeNumber)
	if err != nil {
		return nil, err
	}
	return d.fs.fileInfo(d.e.Name, d.e.InodeNumber, in), nil
}

// dirFile implements fs.ReadDirFile for a directory Open result.
type dirFile struct {
	info    fileInfo
	entries []DirEntry
	fsys    *FS
	offset  int
}

func (d *dirFile) Stat() (fs.FileInfo, error) { return d.info, nil }
func (d *dirFile) Read([]byte) (int, error) {
	return 0, &fs.PathError{Op: "read", Path: d.info.name, Err: fs.ErrInvalid}
}
func (d *dirFile) Close() error { return nil }

func (d *dirFile) ReadDir(n int) ([]fs.DirEntry, error) {
	remaining := d.entries[d.offset:]
	if n <= 0 {
		d.offset = len(d.entries)
		out := make([]fs.DirEntry, len(remaining))
		for i, e := range remaining {
			out[i] = dirEntryInfo{fs: d.fsys, e: e}
		}
		return out, nil
	}
	if len(remaining) == 0 {
		return nil, io.EOF
	}
	if n > len(remaining) {
		n = len(remaining)
	}
	out := make([]fs.DirEntry, n)
	for i, e := range remaining[:n] {
		out[i] = dirEntryInfo{fs: d.fsys, e: e}
	}
	d.offset += n
	return out, nil
}

// fileHandle implements fs.File for a regular-file Open result.
type fileHandle struct {
	info fileInfo
	r    *FileReader
}

func (h *fileHandle) Stat() (fs.FileInfo, error) { return h.info, nil }
func (h *fileHandle) Read(p []byte) (int, error) { return h.r.Read(p) }
func (h *fileHandle) Close() error               { return nil }
