package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"slices"
	"strings"

	"github.com/gookit/color"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/dbsmedya/i18nkit/internal/config"
	"github.com/dbsmedya/i18nkit/internal/exitcode"
	"github.com/dbsmedya/i18nkit/internal/logger"
	"github.com/dbsmedya/i18nkit/internal/scanner"
	"github.com/dbsmedya/i18nkit/internal/shutdown"
)

// Version information (set via ldflags at build time)
var (
	Version = "0.0.1-dev"
	Commit  = "unknown"
)

// options holds the flag values of one invocation.
type options struct {
	cfgFile    string
	logLevel   string
	logFormat  string
	extensions []string
	excludes   []string
	ranges     []string
	encoding   string
	showLines  bool
}

// scanFS is the filesystem scanned by the command; tests swap it out.
var scanFS afero.Fs = afero.NewOsFs()

var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "chncheck <directory>",
		Short: "Check source files for untranslated Chinese text",
		Long: `chncheck walks a directory tree and reports every source file that still
contains Chinese characters outside of // and /* */ comments.

It is meant to run as a CI gate: the exit code is 1 when any file matches.

A directory that does not exist, or is not a directory, is reported on
stderr and scanned as empty.

Exit Codes:
  0  - No matching file
  1  - Chinese characters found, or the scan was interrupted
  2  - CLI usage or configuration error

Example:
  chncheck ./src --extensions .go .js --excludes build node_modules`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(cmd *cobra.Command, args []string) error {
			return exitcode.NewUsage(cobra.ExactArgs(1)(cmd, args))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, opts, args[0])
		},
	}
	cmd.SetVersionTemplate(fmt.Sprintf("chncheck version %s (commit %s)\n", Version, Commit))
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return exitcode.NewUsage(err)
	})

	flags := cmd.Flags()
	flags.StringVarP(&opts.cfgFile, "config", "c", "",
		"Path to an optional YAML configuration file")
	flags.StringSliceVar(&opts.extensions, "extensions", nil,
		"File extensions to check (default .go .js)")
	flags.StringSliceVar(&opts.excludes, "excludes", nil,
		"Directory names to exclude at any depth (default build node_modules)")
	flags.StringSliceVar(&opts.ranges, "range", nil,
		"Code point ranges to detect as LO-HI hex (default 4E00-9FFF)")
	flags.StringVar(&opts.encoding, "encoding", "",
		"Text encoding of scanned files (default utf-8)")
	flags.BoolVar(&opts.showLines, "show-lines", false,
		"Print each offending line below the file name")
	flags.StringVar(&opts.logLevel, "log-level", "",
		"Override log level (debug, info, warn, error)")
	flags.StringVar(&opts.logFormat, "log-format", "",
		"Override log format (json, text)")

	return cmd
}

// Execute runs the root command and exits with its status.
func Execute() {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "panic: %v\n%s\n", r, debug.Stack())
			os.Exit(exitcode.Panic)
		}
	}()

	os.Exit(run(context.Background(), rootCmd, os.Args[1:], os.Stdout, os.Stderr))
}

// run executes cmd with args and returns the process exit code.
func run(ctx context.Context, cmd *cobra.Command, args []string, stdout, stderr io.Writer) int {
	cmd.SetArgs(expandListFlags(args))
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	switch {
	case err == nil, errors.Is(err, scanner.ErrMatchesFound):
	case exitcode.IsUsage(err):
		fmt.Fprintf(stderr, "Error: %v\n", err)
		fmt.Fprint(stderr, cmd.UsageString())
	default:
		fmt.Fprintf(stderr, "Error: %v\n", err)
	}
	return exitcode.ForError(err)
}

func runCheck(cmd *cobra.Command, opts *options, directory string) error {
	cfg, err := config.LoadOrDefault(opts.cfgFile)
	if err != nil {
		return exitcode.NewUsage(fmt.Errorf("failed to load config: %w", err))
	}

	cfg.ApplyOverrides(opts.logLevel, opts.logFormat)
	cfg.ApplyScanOverrides(config.ScanOverrides{
		Root:       directory,
		Extensions: opts.extensions,
		Excludes:   opts.excludes,
		Ranges:     opts.ranges,
		Encoding:   opts.encoding,
		ShowLines:  opts.showLines,
	})
	if err := cfg.ValidateScan(); err != nil {
		return err
	}

	log, err := commandLogger(cmd, &cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	log = log.WithTool("chncheck").WithRoot(cfg.Scan.Root)
	defer func() { _ = log.Sync() }()

	ctx, cancel := shutdown.SetupSignalHandler(cmd.Context(), func(sig os.Signal) {
		log.Warnw("Received signal, stopping scan", "signal", sig.String())
	})
	defer cancel()

	s, err := scanner.New(scanFS, cfg.Scan, log, cmd.OutOrStdout())
	if err != nil {
		return exitcode.NewUsage(err)
	}

	// Only matches decide the exit status; an unreadable tree scans as empty.
	result, err := s.Scan(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("scan interrupted: %w", err)
		}
		log.Warnw("Scan stopped early", "error", err)
		color.Fprintf(cmd.ErrOrStderr(), "<yellow>Warning: %v</>\n", err)
	}

	printSummary(cmd.ErrOrStderr(), result)
	if result.Found() {
		return scanner.ErrMatchesFound
	}
	return nil
}

func printSummary(w io.Writer, result scanner.Result) {
	if result.Found() {
		color.Fprintf(w, "<red>%d of %d file(s) contain Chinese characters</>\n",
			len(result.Matches), result.FilesScanned)
		return
	}
	color.Fprintf(w, "<green>No Chinese characters found in %d file(s)</>\n", result.FilesScanned)
}

// commandLogger routes stderr logging through the command's error writer.
func commandLogger(cmd *cobra.Command, cfg *config.LoggingConfig) (*logger.Logger, error) {
	if cfg.Output == "" || cfg.Output == "stderr" {
		return logger.NewWithWriter(cfg, cmd.ErrOrStderr()), nil
	}
	return logger.New(cfg)
}

// listFlags take every following token up to the next flag as a value.
var listFlags = map[string]bool{"--extensions": true, "--excludes": true}

// valueFlags take exactly the next token as their value.
var valueFlags = map[string]bool{
	"--config": true, "-c": true, "--range": true, "--encoding": true,
	"--log-level": true, "--log-format": true,
}

// expandListFlags rewrites "--extensions .go .js" into one flag per value.
// When no directory argument remains outside a list, the last value of the
// last multi-value list is taken as the directory, so
// "--extensions .go .js ./src" still scans ./src.
func expandListFlags(args []string) []string {
	type item struct {
		token  string
		flag   string
		values []string
	}

	var items []*item
	positional := false
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--":
			for _, rest := range args[i:] {
				items = append(items, &item{token: rest})
			}
			positional = positional || i+1 < len(args)
			i = len(args)
		case listFlags[arg]:
			it := &item{flag: arg}
			for i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				i++
				it.values = append(it.values, args[i])
			}
			items = append(items, it)
		case valueFlags[arg]:
			items = append(items, &item{token: arg})
			if i+1 < len(args) {
				i++
				items = append(items, &item{token: args[i]})
			}
		default:
			if !strings.HasPrefix(arg, "-") {
				positional = true
			}
			items = append(items, &item{token: arg})
		}
	}

	if !positional {
		for j := len(items) - 1; j >= 0; j-- {
			it := items[j]
			if it.flag == "" || len(it.values) < 2 {
				continue
			}
			dir := it.values[len(it.values)-1]
			it.values = it.values[:len(it.values)-1]
			items = slices.Insert(items, j+1, &item{token: dir})
			break
		}
	}

	out := make([]string, 0, len(args))
	for _, it := range items {
		switch {
		case it.flag == "":
			out = append(out, it.token)
		case len(it.values) == 0:
			out = append(out, it.flag)
		default:
			for _, v := range it.values {
				out = append(out, it.flag, v)
			}
		}
	}
	return out
}
