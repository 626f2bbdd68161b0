package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/fenilsonani/venvsweep/internal/cleaner"
	"github.com/fenilsonani/venvsweep/internal/config"
	"github.com/fenilsonani/venvsweep/internal/manager"
	"github.com/fenilsonani/venvsweep/internal/platform"
	"github.com/fenilsonani/venvsweep/internal/probe"
	"github.com/fenilsonani/venvsweep/internal/scanner"
	"github.com/fenilsonani/venvsweep/internal/security"
	"github.com/fenilsonani/venvsweep/internal/ui"
	"github.com/fenilsonani/venvsweep/internal/venv"
)

var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type flags struct {
	configPath   string
	verbose      bool
	listPackages bool
	olderThan    int
	remove       bool
	removeBroken bool
	output       string
	probeTimeout time.Duration
	noProgress   bool
}

func newRootCmd() *cobra.Command {
	f := &flags{}

	cmd := &cobra.Command{
		Use:   "venvsweep [flags] <root>",
		Short: "Find and prune Python virtual environments",
		Long: `venvsweep walks a directory tree, reports every Python virtual environment it
finds with its size, age and health, and optionally removes stale or broken ones.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildTime),
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, f)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return run(ctx, cfg, args[0], cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&f.configPath, "config", "", "config file path")
	fl.BoolVarP(&f.verbose, "verbose", "v", false, "verbose output")
	fl.BoolVarP(&f.listPackages, "list-packages", "p", false, "list installed packages of each environment")
	fl.IntVar(&f.olderThan, "older-than", 0, "only report environments older than this many days")
	fl.BoolVar(&f.remove, "remove", false, "remove environments selected by --older-than")
	fl.BoolVar(&f.removeBroken, "remove-broken", false, "remove broken environments regardless of age")
	fl.StringVarP(&f.output, "output", "o", "summary", "output format (summary, table, json, yaml)")
	fl.DurationVar(&f.probeTimeout, "probe-timeout", config.DefaultProbeTimeout, "per-interpreter timeout for listing packages (0 disables)")
	fl.BoolVar(&f.noProgress, "no-progress", false, "disable the live progress display")

	cmd.AddCommand(newConfigCmd())

	return cmd
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config [path]",
		Short: "Print an example configuration, or write the defaults to path",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				fmt.Fprint(cmd.OutOrStdout(), config.GetExampleConfig())
				return nil
			}
			if err := config.Save(config.GetDefault(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Configuration written to %s\n", args[0])
			return nil
		},
	}
}

// loadConfig reads --config when given and lays the changed flags over it
func loadConfig(cmd *cobra.Command, f *flags) (*config.Config, error) {
	cfg := config.GetDefault()
	if f.configPath != "" {
		loaded, err := config.Load(f.configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	fl := cmd.Flags()
	if fl.Changed("verbose") {
		cfg.Verbose = f.verbose
	}
	if fl.Changed("list-packages") {
		cfg.ListPackages = f.listPackages
	}
	if fl.Changed("older-than") {
		days := f.olderThan
		cfg.OlderThan = &days
	}
	if fl.Changed("output") {
		cfg.Output = f.output
	}
	if fl.Changed("probe-timeout") {
		cfg.ProbeTimeout = f.probeTimeout
	}
	if fl.Changed("no-progress") {
		cfg.NoProgress = f.noProgress
	}
	cfg.Remove = f.remove
	cfg.RemoveBroken = f.removeBroken

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	return cfg, nil
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelError
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func run(ctx context.Context, cfg *config.Config, root string, out, errOut io.Writer) error {
	logger := newLogger(errOut, cfg.Verbose)

	platformInfo, err := platform.GetInfo()
	if err != nil {
		return fmt.Errorf("failed to get platform info: %w", err)
	}

	validator := security.NewPathValidator(platformInfo)
	for _, p := range cfg.ProtectedPaths {
		validator.AddProtectedPath(p)
	}

	detector := venv.NewDetector(venv.LayoutFor(platformInfo.OS))
	prober := probe.New(detector, probe.Options{
		Timeout: cfg.ProbeTimeout,
		Logger:  logger,
	})
	scnr := scanner.New(scanner.Options{
		Detector:   detector,
		Prober:     prober,
		Logger:     logger,
		CountFirst: cfg.Verbose,
	})

	resolved, err := scanner.ResolveRoot(root)
	if err != nil {
		return err
	}

	m := manager.New(manager.Options{
		Config:  cfg,
		Scanner: scnr,
		Remover: cleaner.NewRemover(validator, logger),
		Out:     out,
		ErrOut:  errOut,
		Logger:  logger,
		RunScan: scanRunner(cfg, scnr, out),
	})

	return m.Run(ctx, resolved)
}

// scanRunner returns the live progress display when stdout is a terminal,
// or nil to scan silently
func scanRunner(cfg *config.Config, scnr *scanner.Scanner, out io.Writer) manager.ScanRunner {
	if cfg.NoProgress {
		return nil
	}
	f, ok := out.(*os.File)
	if !ok || !ui.IsTerminal(f) {
		return nil
	}

	width := cfg.TrimWidth
	if width == 0 {
		width = ui.TerminalWidth(f)
	}

	pr := scnr.GetProgressReporter()
	return func(ctx context.Context, scan ui.ScanFunc) (*scanner.Result, error) {
		return ui.RunScan(ctx, scan, pr, ui.ProgressOptions{
			Output:      f,
			Determinate: cfg.Verbose,
			Width:       width,
		})
	}
}
