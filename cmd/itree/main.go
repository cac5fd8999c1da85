// Command itree prints a pre-order tree of a v6 volume image starting from
// one or more inodes (default 1, the root), indenting each entry by "->"
// repeated once per depth level.
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
	"github.com/harrybotter30/v6ufs/v6fs"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		logrus.Error(err)
		os.Exit(errs.ExitCode(err))
	}
}

func rootCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "itree devfile [inode ...]",
		Short: "print a pre-order tree of a v6 volume image",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if verbose {
				logrus.SetLevel(logrus.DebugLevel)
			}
			numbers, err := parseInodeArgs(args[1:])
			if err != nil {
				return errs.Usagef("%v", err)
			}
			return run(args[0], numbers, cmd.OutOrStdout())
		},
		SilenceUsage: true,
	}
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
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

func run(devfile string, numbers []uint32, out io.Writer) error {
	opened, err := cliutil.Open(devfile)
	if err != nil {
		return err
	}
	defer opened.Close()

	printer := &treePrinter{opened: opened, out: out}
	for _, n := range numbers {
		if err := printer.print(n, "<root>", 0); err != nil {
			if errors.Is(err, v6fs.ErrRange) {
				logrus.WithField("inode", n).Warnf("itree: %v", err)
				continue
			}
			return err
		}
	}
	return nil
}

type treePrinter struct {
	opened *cliutil.Opened
	out    io.Writer
}

func (p *treePrinter) print(number uint32, name string, depth int) error {
	in, err := p.opened.Table.Inode(number)
	if err != nil {
		return errors.Wrapf(err, "inode %d", number)
	}

	prefix := ""
	for i := 0; i < depth; i++ {
		prefix += "->"
	}

	sizeField := fmt.Sprintf("%8d", in.Size)
	if in.Type() == v6fs.TypeCharDevice || in.Type() == v6fs.TypeBlockDevice {
		sizeField = fmt.Sprintf("%3d,%3d", in.Major(), in.Minor())
	}

	fmt.Fprintf(p.out, "%s%5d %s %2d %3d %3d %s %s %s %s\n",
		prefix, in.Number, in.ModeString(), in.NLink, in.UID, in.GID,
		sizeField, in.MTime.Local().Format("2006-01-02 15:04:05"),
		in.ATime.Local().Format("2006-01-02 15:04:05"), name,
	)

	if in.Type() != v6fs.TypeDirectory {
		return nil
	}
	if in.NLink == 0 {
		return nil
	}

	r, err := v6fs.NewFileReader(p.opened.Dev, in)
	if err != nil {
		return errors.Wrapf(err, "inode %d", number)
	}
	entries, err := v6fs.NewDirectoryIterator(r).All()
	if err != nil {
		return errors.Wrapf(err, "inode %d", number)
	}

	for _, e := range entries {
		if e.Name == "." || e.Name == ".." {
			continue
		}
		child, err := p.opened.Table.Inode(e.InodeNumber)
		if err != nil {
			logrus.WithField("inode", e.InodeNumber).Warnf("itree: %v", err)
			continue
		}
		if child.NLink == 0 {
			logrus.WithField("inode", e.InodeNumber).Warnf("itree: inode %d is unused (nlink == 0)", e.InodeNumber)
			continue
		}
		if err := p.print(e.InodeNumber, e.Name, depth+1); err != nil {
			return err
		}
	}
	return nil
}
