// Command inodes lists every in-use inode (nlink > 0) of one or more v6
// volume images, or of standard input when no file is named.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/harrybotter30/v6ufs/cmd/internal/cliutil"
	"github.com/harrybotter30/v6ufs/errs"
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
		Use:   "inodes [file ...]",
		Short: "list every in-use inode of a v6 volume image",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if verbose {
				logrus.SetLevel(logrus.DebugLevel)
			}
			return run(args, cmd.OutOrStdout())
		},
		SilenceUsage: true,
	}
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	return cmd
}

func run(args []string, out io.Writer) error {
	if len(args) == 0 {
		return runOne("<stdin>", out)
	}
	for _, path := range args {
		if err := runOne(path, out); err != nil {
			return err
		}
	}
	return nil
}

func runOne(name string, out io.Writer) error {
	path := name
	if name == "<stdin>" {
		path = ""
	}
	dev, err := cliutil.OpenDeviceOrStdin(path)
	if err != nil {
		return errors.Wrapf(err, "open %s", name)
	}

	opened, err := cliutil.LoadTable(dev, name)
	if err != nil {
		return err
	}
	defer opened.Close()

	fmt.Fprintf(out, "%s:\n", name)
	for n := 1; n <= opened.Table.Len(); n++ {
		in, err := opened.Table.Inode(uint32(n))
		if err != nil {
			return errors.Wrapf(err, "inode %d of %s", n, name)
		}
		if in.NLink == 0 {
			continue
		}
		fmt.Fprintln(out, cliutil.InodeLine(in, ""))
	}
	return nil
}
