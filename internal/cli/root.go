// Package cli implements the camlsize command line.
package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/coral-mesh/camlsize/internal/config"
	"github.com/coral-mesh/camlsize/internal/constants"
	"github.com/coral-mesh/camlsize/internal/logging"
	"github.com/coral-mesh/camlsize/internal/module"
	"github.com/coral-mesh/camlsize/internal/report"
	"github.com/coral-mesh/camlsize/internal/symtab"
	"github.com/coral-mesh/camlsize/pkg/version"
)

var (
	// ErrNoBinaries is returned when no binary is given.
	ErrNoBinaries = errors.New("at least one binary needs to be provided")

	// ErrTooManyBinaries is returned when more than two binaries are given.
	ErrTooManyBinaries = errors.New("more than two binaries provided")
)

// MissingFileError reports a binary path that does not exist.
type MissingFileError struct {
	Path string
}

func (e *MissingFileError) Error() string {
	return "does not exist: " + e.Path
}

// options holds the flag values of the root command.
type options struct {
	configPath string
	nm         string
	fromDump   bool
	format     report.Format
	sort       report.SortOrder
	width      int
	strict     bool
	logLevel   string
}

// sourceFactory picks the symbol source for a run.
type sourceFactory func(cfg *config.Config, fromDump bool, logger zerolog.Logger) symtab.Source

func defaultSource(cfg *config.Config, fromDump bool, logger zerolog.Logger) symtab.Source {
	if fromDump {
		return symtab.DumpSource{}
	}
	return symtab.NewNMSource(cfg.NM, logger)
}

// NewRootCmd creates the camlsize command.
func NewRootCmd() *cobra.Command {
	return newRootCmd(defaultSource)
}

func newRootCmd(newSource sourceFactory) *cobra.Command {
	opts := &options{
		format: report.FormatText,
		sort:   report.SortByName,
	}

	cmd := &cobra.Command{
		Use:   constants.AppName + " binary [binary]",
		Short: "Report code size per OCaml module in native binaries",
		Long: `Report the code size per OCaml module found in the binary
provided as argument. When two binaries are provided, report
modules found in both and only either of the binaries.

Module boundaries come from the caml<Module>__code_begin and
caml<Module>__code_end symbols listed by 'nm -n'. Sizes are in
kilobytes.

Configuration is read from ~/.camlsize.yaml (or $CAMLSIZE_CONFIG),
then CAMLSIZE_* environment variables, then flags.`,
		Example: `  camlsize _build/default/bin/main.exe
  camlsize old/main.exe new/main.exe
  camlsize --sort size -o csv main.exe
  nm -n main.exe > main.nm && camlsize --from-dump main.nm`,
		Version:       version.Version,
		Args:          binaryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, newSource, args)
		},
	}
	cmd.SetVersionTemplate(constants.AppName + " " + version.String() + "\n")

	flags := cmd.Flags()
	flags.StringVar(&opts.configPath, "config", "", "Config file (default ~/.camlsize.yaml)")
	flags.StringVar(&opts.nm, "nm", symtab.DefaultTool, "Symbol dump tool, run as '<nm> -n <binary>'")
	flags.BoolVar(&opts.fromDump, "from-dump", false, "Arguments are saved 'nm -n' listings instead of binaries")
	addFormatFlag(cmd, &opts.format)
	addSortFlag(cmd, &opts.sort)
	flags.IntVar(&opts.width, "width", report.DefaultWidth, "Width of the module name column in text output")
	flags.BoolVar(&opts.strict, "strict", false, "Reject duplicate begin markers and binaries without OCaml modules")
	flags.StringVar(&opts.logLevel, "log-level", constants.DefaultLogLevel, "Diagnostics level (trace, debug, info, warn, error, disabled)")

	return cmd
}

// binaryArgs accepts one or two binaries.
func binaryArgs(_ *cobra.Command, args []string) error {
	switch {
	case len(args) == 0:
		return ErrNoBinaries
	case len(args) > 2:
		return ErrTooManyBinaries
	}
	return nil
}

func run(cmd *cobra.Command, opts *options, newSource sourceFactory, args []string) error {
	// Existence is checked for every path before any symbol dump starts.
	for _, path := range args {
		if err := checkExists(path); err != nil {
			return err
		}
	}

	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return err
	}

	var format report.Format
	if err := format.Set(cfg.Format); err != nil {
		return err
	}
	var order report.SortOrder
	if err := order.Set(cfg.Sort); err != nil {
		return err
	}
	formatter, err := report.NewFormatter(format, cfg.Width)
	if err != nil {
		return err
	}

	stderr := cmd.ErrOrStderr()
	logger := logging.New(logging.Config{
		Level:  cfg.LogLevel,
		Pretty: logging.IsTerminal(stderr),
		Output: stderr,
	})
	logger.Debug().
		Str("component", "cli").
		Str("nm", cfg.NM).
		Bool("from_dump", opts.fromDump).
		Str("format", string(format)).
		Str("sort", string(order)).
		Bool("strict", cfg.Strict).
		Strs("binaries", args).
		Msg("Starting report")

	modOpts := module.Options{Logger: logger}
	if cfg.Strict {
		modOpts.Duplicates = module.DuplicateReject
		modOpts.RequireModules = true
	}

	src := newSource(cfg, opts.fromDump, logger)
	binaries, err := loadBinaries(cmd.Context(), src, args, modOpts)
	if err != nil {
		return err
	}

	// Render fully before writing so a failure never leaves a partial report.
	var buf bytes.Buffer
	switch len(binaries) {
	case 1:
		r, err := report.NewSingle(binaries[0], order)
		if err != nil {
			return err
		}
		if err := formatter.FormatSingle(&buf, r); err != nil {
			return fmt.Errorf("failed to format report: %w", err)
		}
	case 2:
		c, err := report.NewComparison(binaries[0], binaries[1], order)
		if err != nil {
			return err
		}
		if err := formatter.FormatComparison(&buf, c); err != nil {
			return fmt.Errorf("failed to format report: %w", err)
		}
	}

	if _, err := buf.WriteTo(cmd.OutOrStdout()); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// loadBinaries loads the binaries one after the other, in argument order.
func loadBinaries(ctx context.Context, src symtab.Source, paths []string, opts module.Options) ([]*module.Binary, error) {
	binaries := make([]*module.Binary, 0, len(paths))
	for _, path := range paths {
		b, err := module.Load(ctx, src, path, opts)
		if err != nil {
			return nil, err
		}
		binaries = append(binaries, b)
	}
	return binaries, nil
}

func checkExists(path string) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &MissingFileError{Path: path}
		}
		return fmt.Errorf("failed to check %s: %w", path, err)
	}
	return nil
}

// loadConfig layers explicitly set flags over the loaded configuration.
func loadConfig(cmd *cobra.Command, opts *options) (*config.Config, error) {
	loader := config.NewLoader()
	if opts.configPath != "" {
		loader = config.NewFileLoader(opts.configPath)
	}

	cfg, err := loader.Load()
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("nm") {
		cfg.NM = opts.nm
	}
	if flags.Changed("format") {
		cfg.Format = opts.format.String()
	}
	if flags.Changed("sort") {
		cfg.Sort = opts.sort.String()
	}
	if flags.Changed("width") {
		cfg.Width = opts.width
	}
	if flags.Changed("strict") {
		cfg.Strict = opts.strict
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = opts.logLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ExecuteContext runs the root command.
func ExecuteContext(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}
