package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime/debug"

	"github.com/gookit/color"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/dbsmedya/i18nkit/internal/config"
	"github.com/dbsmedya/i18nkit/internal/exitcode"
	"github.com/dbsmedya/i18nkit/internal/logger"
	"github.com/dbsmedya/i18nkit/internal/replacer"
	"github.com/dbsmedya/i18nkit/internal/shutdown"
)

// Version information (set via ldflags at build time)
var (
	Version = "0.0.1-dev"
	Commit  = "unknown"
)

// options holds the flag values of one invocation.
type options struct {
	cfgFile        string
	logLevel       string
	logFormat      string
	repositoryPath string
	jsonFilePath   string
	encoding       string
}

// repoFS is the filesystem rewritten by the command; tests swap it out.
var repoFS afero.Fs = afero.NewOsFs()

var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "i18nreplace",
		Short: "Replace translation keys with localized values across a repository",
		Long: `i18nreplace loads a JSON object mapping keys to replacement values and
rewrites every file of a repository in place, substituting longer keys first.

Files under node_modules, build and i18n directories, and files ending in
.png, .ico, .db or .exe, are never touched. Files that are not valid text
are reported and skipped. Writes are applied immediately; there is no undo.

Exit Codes:
  0  - Run completed (individual files may have been skipped)
  1  - Mapping file could not be loaded, or the repository could not be read
  2  - CLI usage or configuration error

Example:
  i18nreplace --repository_path . --json_file_path i18n/en.json`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(cmd *cobra.Command, args []string) error {
			return exitcode.NewUsage(cobra.NoArgs(cmd, args))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplace(cmd, opts)
		},
	}
	cmd.SetVersionTemplate(fmt.Sprintf("i18nreplace version %s (commit %s)\n", Version, Commit))
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return exitcode.NewUsage(err)
	})

	flags := cmd.Flags()
	flags.StringVarP(&opts.cfgFile, "config", "c", "",
		"Path to an optional YAML configuration file")
	flags.StringVar(&opts.repositoryPath, "repository_path", "",
		"Root of the repository to rewrite (default .)")
	flags.StringVar(&opts.jsonFilePath, "json_file_path", "",
		"JSON file mapping keys to replacement values")
	flags.StringVar(&opts.encoding, "encoding", "",
		"Text encoding of repository files (default utf-8)")
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
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		if exitcode.IsUsage(err) {
			fmt.Fprint(stderr, cmd.UsageString())
		}
	}
	return exitcode.ForError(err)
}

func runReplace(cmd *cobra.Command, opts *options) error {
	cfg, err := config.LoadOrDefault(opts.cfgFile)
	if err != nil {
		return exitcode.NewUsage(fmt.Errorf("failed to load config: %w", err))
	}

	cfg.ApplyOverrides(opts.logLevel, opts.logFormat)
	cfg.ApplyReplaceOverrides(config.ReplaceOverrides{
		RepositoryPath: opts.repositoryPath,
		MappingFile:    opts.jsonFilePath,
		Encoding:       opts.encoding,
	})
	if err := cfg.ValidateReplace(); err != nil {
		return err
	}

	log, err := commandLogger(cmd, &cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	log = log.WithTool("i18nreplace").WithRoot(cfg.Replace.RepositoryPath)
	defer func() { _ = log.Sync() }()

	ctx, cancel := shutdown.SetupSignalHandler(cmd.Context(), func(sig os.Signal) {
		log.Warnw("Received signal, stopping after the current file", "signal", sig.String())
	})
	defer cancel()

	r, err := replacer.New(repoFS, cfg.Replace, log, cmd.OutOrStdout())
	if err != nil {
		return exitcode.NewUsage(err)
	}

	summary, err := r.Run(ctx)
	if err != nil {
		return err
	}

	color.Fprintf(cmd.ErrOrStderr(), "<green>%d rewritten</>, %d unchanged, <yellow>%d skipped</>\n",
		summary.Rewritten, summary.Unchanged, summary.Skipped)
	return nil
}

// commandLogger routes stderr logging through the command's error writer.
func commandLogger(cmd *cobra.Command, cfg *config.LoggingConfig) (*logger.Logger, error) {
	if cfg.Output == "" || cfg.Output == "stderr" {
		return logger.NewWithWriter(cfg, cmd.ErrOrStderr()), nil
	}
	return logger.New(cfg)
}
