// Command v6fs2tar walks a v6 volume image and re-packs it as a tar
// archive, optionally compressed with gzip (-z), bzip2 (-j), or xz (-J).
package main

import (
	"archive/tar"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/harrybotter30/v6ufs/cmd/internal/cliutil"
	"github.com/harrybotter30/v6ufs/errs"
	"github.com/harrybotter30/v6ufs/v6fs"
)

// modeMask keeps only the setuid/setgid/sticky and rwxrwxrwx bits out of a
// decoded v6 mode word, dropping IALLOC, IFMT, and ILARG — none of which
// have any meaning in a tar header.
const modeMask = 0o7777

func main() {
	if err := rootCmd().Execute(); err != nil {
		logrus.Error(err)
		os.Exit(errs.ExitCode(err))
	}
}

func rootCmd() *cobra.Command {
	var (
		verbose   bool
		outPath   string
		gzipFlag  bool
		bzip2Flag bool
		xzFlag    bool
		plainFlag bool
		offset    int64
		size      int64
	)

	cmd := &cobra.Command{
		Use:   "v6fs2tar devfile [inode ...]",
		Short: "re-pack a v6 volume image as a tar archive",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if verbose {
				logrus.SetLevel(logrus.DebugLevel)
			}
			key, err := selectCompressor(gzipFlag, bzip2Flag, xzFlag, plainFlag)
			if err != nil {
				return errs.Usagef("%v", err)
			}
			numbers, err := parseInodeArgs(args[1:])
			if err != nil {
				return errs.Usagef("%v", err)
			}
			return run(args[0], outPath, key, numbers, offset, size)
		},
		SilenceUsage: true,
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	cmd.Flags().StringVarP(&outPath, "output", "o", "", "output file (default: standard output)")
	cmd.Flags().BoolVarP(&gzipFlag, "gzip", "z", false, "compress with gzip")
	cmd.Flags().BoolVarP(&bzip2Flag, "bzip2", "j", false, "compress with bzip2")
	cmd.Flags().BoolVarP(&xzFlag, "xz", "J", false, "compress with xz")
	cmd.Flags().BoolVarP(&plainFlag, "tar", "t", false, "write a plain, uncompressed tar (default)")
	cmd.Flags().Int64Var(&offset, "offset", 0, "byte offset of the volume within devfile, for a pack holding more than one v6 filesystem")
	cmd.Flags().Int64Var(&size, "size", 0, "byte size of the volume window starting at --offset (0 means the rest of the file)")
	return cmd
}

func selectCompressor(gzipFlag, bzip2Flag, xzFlag, plainFlag bool) (string, error) {
	selected := map[string]bool{"z": gzipFlag, "j": bzip2Flag, "J": xzFlag, "": plainFlag}
	chosen := ""
	count := 0
	for key, on := range selected {
		if on {
			chosen = key
			count++
		}
	}
	if count > 1 {
		return "", errors.New("only one of -z, -j, -J, -t may be given")
	}
	return chosen, nil
}

// parseInodeArgs parses the optional trailing inode numbers, defaulting to
// [1] (the filesystem root) when none are given, matching cmd/icat and
// cmd/itree's own handling of the same [inode ...] tail.
func parseInodeArgs(args []string) ([]uint32, error) {
	if len(args) == 0 {
		return []uint32{1}, nil
	}
	numbers := make([]uint32, 0, len(args))
	for _, a := range args {
		n, err := strconv.ParseUint(a, 10, 32)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid inode number %q", a)
		}
		numbers = append(numbers, uint32(n))
	}
	return numbers, nil
}

func run(devfile, outPath, compressorKey string, numbers []uint32, offset, size int64) error {
	var (
		opened *cliutil.Opened
		err    error
	)
	if offset != 0 || size != 0 {
		opened, err = cliutil.OpenWindow(devfile, offset, size)
	} else {
		opened, err = cliutil.Open(devfile)
	}
	if err != nil {
		return err
	}
	defer opened.Close()

	out, err := openOutput(outPath)
	if err != nil {
		return err
	}
	defer out.Close()

	comp, ok := compressors[compressorKey]
	if !ok {
		return errs.Usagef("unknown compressor %q", compressorKey)
	}
	wc, err := comp.wrap(out)
	if err != nil {
		return errors.Wrap(err, "start compressor")
	}

	tw := tar.NewWriter(wc)

	traversal := v6fs.NewTraversal(opened.Dev, opened.Table)
	visitor := v6fs.Visitor{
		Directory: func(p string, in *v6fs.Inode) error {
			name := strings.TrimPrefix(p, "/") + "/"
			if p == "." {
				// scenario 6: the archive root is emitted as "." with no
				// trailing slash, not silently dropped.
				name = "."
			}
			return tw.WriteHeader(&tar.Header{
				Typeflag: tar.TypeDir,
				Name:     name,
				Mode:     int64(in.Mode & modeMask),
				Uid:      int(uint8(in.UID)),
				Gid:      int(uint8(in.GID)),
				ModTime:  in.MTime,
			})
		},
		Regular: func(p string, in *v6fs.Inode, r *v6fs.FileReader) error {
			if err := tw.WriteHeader(&tar.Header{
				Typeflag: tar.TypeReg,
				Name:     strings.TrimPrefix(p, "/"),
				Mode:     int64(in.Mode & modeMask),
				Uid:      int(uint8(in.UID)),
				Gid:      int(uint8(in.GID)),
				Size:     int64(in.Size),
				ModTime:  in.MTime,
			}); err != nil {
				return err
			}
			_, err := io.Copy(tw, r)
			return err
		},
		Device: func(p string, in *v6fs.Inode, major, minor uint8) error {
			typeflag := byte(tar.TypeChar)
			if in.Type() == v6fs.TypeBlockDevice {
				typeflag = tar.TypeBlock
			}
			return tw.WriteHeader(&tar.Header{
				Typeflag: typeflag,
				Name:     strings.TrimPrefix(p, "/"),
				Mode:     int64(in.Mode & modeMask),
				Uid:      int(uint8(in.UID)),
				Gid:      int(uint8(in.GID)),
				ModTime:  in.MTime,
				Devmajor: int64(major),
				Devminor: int64(minor),
			})
		},
		Warning: func(p string, err error) {
			logrus.WithField("path", p).Warnf("v6fs2tar: %v", err)
		},
	}

	for _, number := range numbers {
		rootName := strconv.FormatUint(uint64(number), 10)
		if number == 1 {
			rootName = "."
		}
		if err := traversal.Walk(number, rootName, visitor); err != nil {
			if errors.Is(err, v6fs.ErrRange) {
				logrus.WithField("inode", number).Warnf("v6fs2tar: %v", err)
				continue
			}
			return errors.Wrap(err, "walk image")
		}
	}

	if err := tw.Close(); err != nil {
		return errors.Wrap(err, "close tar writer")
	}
	if err := wc.Close(); err != nil {
		return errors.Wrap(err, "close compressor")
	}
	return nil
}

func openOutput(path string) (io.WriteCloser, error) {
	if path == "" || path == "-" {
		return nopWriteCloser{os.Stdout}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, errors.Wrapf(err, "create %s", path)
	}
	return f, nil
}
