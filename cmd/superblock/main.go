// Command superblock prints the decoded superblock fields of one or more v6
// volume images, or of standard input when no file is named.
package main

import (
	"fmt"
	"io"
	"os"
	"time"

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
		Use:   "superblock [file ...]",
		Short: "print the decoded superblock of a v6 volume image",
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
	defer dev.Close()

	b, err := dev.ReadBlock(1)
	if err != nil {
		return errors.Wrapf(err, "read superblock of %s", name)
	}
	sb, err := v6fs.DecodeSuperBlock(b)
	if err != nil {
		return errors.Wrapf(err, "decode superblock of %s", name)
	}

	fmt.Fprintf(out, "%s:\n", name)
	fmt.Fprintf(out, "  isize:  %d\n", sb.ISize)
	fmt.Fprintf(out, "  fsize:  %d\n", sb.FSize)
	fmt.Fprintf(out, "  nfree:  %d\n", sb.NFree)
	fmt.Fprintf(out, "  ninode: %d\n", sb.NInode)
	fmt.Fprintf(out, "  flock:  %d\n", sb.FLock)
	fmt.Fprintf(out, "  ilock:  %d\n", sb.ILock)
	fmt.Fprintf(out, "  fmod:   %d\n", sb.FMod)
	fmt.Fprintf(out, "  ronly:  %d\n", sb.ROnly)
	fmt.Fprintf(out, "  time:   %s\n", sb.Time.Local().Format(time.RFC3339))
	return nil
}
