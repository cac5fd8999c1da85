// Command icat emits the contents of one or more inodes from a v6 volume
// image: regular files raw, directories as a (d_ino, name) listing, devices
// as a single descriptor line. Default inode is 1 (the root).
package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/harrybotter30/v6ufs/cmd/internal/cliutil"
	"github.com/harrybotter30/v6ufs/errs"
	"github.com/harrybotter30/v6ufs/util"
	"github.com/harrybotter30/v6ufs/v6fs"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		logrus.Error(err)
		os.Exit(errs.ExitCode(err))
	}
}

func rootCmd() *cobra.Command {
	var (
		verbose bool
		hexDump bool
	)

	cmd := &cobra.Command{
		Use:   "icat devfile [inode ...]",
		Short: "emit the contents of one or more inodes",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if verbose {
				logrus.SetLevel(logrus.DebugLevel)
			}
			numbers, err := parseInodeArgs(args[1:])
			if err != nil {
				return errs.Usagef("%v", err)
			}
			return run(args[0], numbers, cmd.OutOrStdout(), hexDump)
		},
		SilenceUsage: true,
	}
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	cmd.Flags().BoolVar(&hexDump, "hex", false, "dump regular file content as hex/ASCII instead of raw bytes")
	return cmd
}

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

func run(devfile string, numbers []uint32, out io.Writer, hexDump bool) error {
	opened, err := cliutil.Open(devfile)
	if err != nil {
		return err
	}
	defer opened.Close()

	for _, n := range numbers {
		if err := catOne(opened, n, out, hexDump); err != nil {
			if isRangeError(err) {
				logrus.WithField("inode", n).Warnf("icat: %v", err)
				continue
			}
			return err
		}
	}
	return nil
}

func isRangeError(err error) bool {
	return errors.Is(err, v6fs.ErrRange)
}

func catOne(opened *cliutil.Opened, number uint32, out io.Writer, hexDump bool) error {
	in, err := opened.Table.Inode(number)
	if err != nil {
		return errors.Wrapf(err, "inode %d", number)
	}

	switch in.Type() {
	case v6fs.TypeDirectory:
		r, err := v6fs.NewFileReader(opened.Dev, in)
		if err != nil {
			return errors.Wrapf(err, "inode %d", number)
		}
		entries, err := v6fs.NewDirectoryIterator(r).All()
		if err != nil {
			return errors.Wrapf(err, "inode %d", number)
		}
		for _, e := range entries {
			fmt.Fprintf(out, "%d %s\n", e.InodeNumber, e.Name)
		}
	case v6fs.TypeCharDevice, v6fs.TypeBlockDevice:
		fmt.Fprintf(out, "%s device, major %d, minor %d\n", in.Type(), in.Major(), in.Minor())
	default:
		r, err := v6fs.NewFileReader(opened.Dev, in)
		if err != nil {
			return errors.Wrapf(err, "inode %d", number)
		}
		if hexDump {
			content, err := r.ReadAll()
			if err != nil {
				return errors.Wrapf(err, "inode %d", number)
			}
			fmt.Fprint(out, util.DumpByteSlice(content, 16, true, true, false, nil))
			return nil
		}
		if _, err := io.Copy(out, r); err != nil {
			return errors.Wrapf(err, "inode %d", number)
		}
	}
	return nil
}
