// Package cli implements the nsfix command-line interface.
package cli

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/benjaminschreck/go-nsfix/pkg/nsfix"
)

// Version information (set via ldflags)
var Version = "dev"

const (
	fixedSuffix  = ".fixed.hwpx"
	tempSuffix   = ".ns_tmp.hwpx"
	backupSuffix = ".bak"
)

type options struct {
	out         string
	inplace     bool
	backup      bool
	verbose     bool
	logLevel    string
	compression int
}

// NewRootCmd builds the nsfix command
func NewRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "nsfix [flags] <input.hwpx>",
		Short: "Normalize XML namespaces inside an HWPX file",
		Long: `Normalize XML namespaces inside an .hwpx by parsing and re-serializing
every XML part. Useful after ZIP-level string replacement left namespace
declarations duplicated or inconsistent.

Non-XML parts are copied unchanged. XML parts that fail to parse are
copied unchanged and counted as failed.

Exit codes:
  0  success
  2  invalid arguments / file not found
  3  not a valid HWPX zip
  1  any other failure`,
		Args:          cobra.ExactArgs(1),
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, args[0])
		},
	}

	cmd.Flags().StringVarP(&opts.out, "out", "o", "",
		"Output .hwpx path (default: <input>"+fixedSuffix+")")
	cmd.Flags().BoolVar(&opts.inplace, "inplace", false,
		"Write back to the input file (uses a temporary file internally)")
	cmd.Flags().BoolVar(&opts.backup, "backup", false,
		"When using --inplace, create <input>"+backupSuffix+" before overwriting")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false,
		"Log every part (same as --log-level=debug)")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "warn",
		"Log level (debug, info, warn, error, off)")
	cmd.Flags().IntVar(&opts.compression, "compression", 0,
		"Deflate level 1-9 (default: library default)")

	return cmd
}

// Execute runs the command with the process arguments and returns the exit code.
func Execute() int {
	return Run(os.Args[1:], os.Stdout, os.Stderr)
}

// Run executes nsfix with args and reports to stdout and stderr
func Run(args []string, stdout, stderr io.Writer) int {
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.Execute()
	if err != nil {
		fmt.Fprintf(stderr, "[ERR] %v\n", err)
	}
	return exitCode(err)
}

func run(cmd *cobra.Command, opts *options, input string) error {
	if opts.backup && !opts.inplace {
		return usageError("--backup requires --inplace")
	}
	if opts.inplace && opts.out != "" {
		return usageError("--out cannot be combined with --inplace")
	}

	level := opts.logLevel
	if opts.verbose {
		level = "debug"
	}
	nsfix.SetLogger(nsfix.NewLogger(cmd.ErrOrStderr(), nsfix.LogWarn))
	config := nsfix.NewConfigWithDefaults(&nsfix.Config{
		CompressionLevel: opts.compression,
		LogLevel:         level,
	})
	if err := config.Validate(); err != nil {
		return usageError("%v", err)
	}

	in, err := filepath.Abs(input)
	if err != nil {
		return usageError("invalid input path %q: %v", input, err)
	}
	if _, err := os.Stat(in); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return usageError("file not found: %s", in)
		}
		return failure(err)
	}
	if !strings.HasSuffix(strings.ToLower(in), ".hwpx") {
		fmt.Fprintf(cmd.ErrOrStderr(), "[WARN] input does not end with .hwpx: %s\n", in)
	}
	if !nsfix.IsContainer(in) {
		return invalidContainerError("not a ZIP file (invalid HWPX): %s", in)
	}

	tr, err := nsfix.NewTranscoder(config)
	if err != nil {
		return failure(err)
	}

	stdout := cmd.OutOrStdout()
	var stats *nsfix.Stats
	if opts.inplace {
		var backup string
		stats, backup, err = fixInPlace(tr, in, opts.backup)
		if err != nil {
			return failure(err)
		}
		if backup != "" {
			fmt.Fprintf(stdout, "[OK] backup: %s\n", backup)
		}
		fmt.Fprintf(stdout, "[OK] wrote (inplace): %s\n", in)
	} else {
		out := opts.out
		if out == "" {
			out = in + fixedSuffix
		}
		if out, err = filepath.Abs(out); err != nil {
			return usageError("invalid output path %q: %v", opts.out, err)
		}
		if sameFile(in, out) {
			return usageError("output %s is the input file; use --inplace to rewrite it", out)
		}
		stats, err = tr.Transcode(in, out)
		if err != nil {
			return failure(err)
		}
		fmt.Fprintf(stdout, "[OK] wrote: %s\n", out)
	}

	fmt.Fprintf(stdout, "[STATS] %s\n", stats)
	return nil
}

// sameFile reports whether a and b name the same file, following symlinks
// and hard links when b already exists.
func sameFile(a, b string) bool {
	if a == b {
		return true
	}
	ai, err := os.Stat(a)
	if err != nil {
		return false
	}
	bi, err := os.Stat(b)
	if err != nil {
		return false
	}
	return os.SameFile(ai, bi)
}
