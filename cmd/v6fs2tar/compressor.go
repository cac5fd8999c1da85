package main

import (
	"io"

	"github.com/dsnet/compress/bzip2"
	"github.com/klauspost/pgzip"
	"github.com/ulikunitz/xz"
)

// compressor wraps an underlying writer with a streaming encoder, mirroring
// the init()-time registration idiom squashfs's comp_xz.go uses for its own
// compression backends: each format registers itself under a string key,
// rather than a single switch growing without bound.
type compressor struct {
	// extension is the conventional file suffix for the format. run does not
	// use it: the archive goes to the -o path as given, or to standard output.
	extension string
	wrap      func(w io.Writer) (io.WriteCloser, error)
}

var compressors = map[string]compressor{}

func registerCompressor(flag string, c compressor) {
	compressors[flag] = c
}

func init() {
	registerCompressor("", compressor{
		extension: ".tar",
		wrap:      func(w io.Writer) (io.WriteCloser, error) { return nopWriteCloser{w}, nil },
	})
	registerCompressor("z", compressor{
		extension: ".tar.gz",
		wrap: func(w io.Writer) (io.WriteCloser, error) {
			return pgzip.NewWriter(w), nil
		},
	})
	registerCompressor("j", compressor{
		extension: ".tar.bz2",
		wrap: func(w io.Writer) (io.WriteCloser, error) {
			return bzip2.NewWriter(w, &bzip2.WriterConfig{Level: bzip2.DefaultCompression})
		},
	})
	registerCompressor("J", compressor{
		extension: ".tar.xz",
		wrap: func(w io.Writer) (io.WriteCloser, error) {
			return xz.NewWriter(w)
		},
	})
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
