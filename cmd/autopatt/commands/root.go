// Package commands implements CLI command handlers for autopatt.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/autopatt/internal/config"
	"github.com/Sumatoshi-tech/autopatt/pkg/observability"
	"github.com/Sumatoshi-tech/autopatt/pkg/version"
)

// state is shared by every subcommand. It is populated by the root
// PersistentPreRunE once flags are parsed.
type state struct {
	configPath  string
	verbose     bool
	quiet       bool
	logJSON     bool
	metricsFile string

	stderr io.Writer

	cfg      *config.Config
	logger   *slog.Logger
	metrics  *observability.ImportMetrics
	shutdown func(ctx context.Context) error
}

// Execute runs the command tree with args and flushes telemetry afterwards.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	root, st := newRoot(stderr)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)

	return errors.Join(err, st.close(context.WithoutCancel(ctx)))
}

func newRoot(stderr io.Writer) (*cobra.Command, *state) {
	st := &state{stderr: stderr}

	root := &cobra.Command{
		Use:   "autopatt",
		Short: "Parse and compare AutoPATT phonological analysis reports",
		Long: `autopatt reads the CSV reports exported by AutoPATT and compares them,
field by field, against each other or against hand-made reference reports.

Commands:
  parse           Parse one report
  compare         Compare fields of two reports
  compare-text    Compare two comma-delimited lists
  import          Import a directory of reports into a snapshot
  compare-all     Compare two directories or snapshots
  compare-phases  Compare treatment phases within one directory
  repair          Insert missing Minimal Pairs sections
  rename          Truncate report file names`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: st.setup,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&st.configPath, "config", "", "config file (default: .autopatt.yaml in CWD or $HOME)")
	flags.BoolVarP(&st.verbose, "verbose", "v", false, "verbose output")
	flags.BoolVarP(&st.quiet, "quiet", "q", false, "suppress output")
	flags.BoolVar(&st.logJSON, "log-json", false, "log as JSON")
	flags.StringVar(&st.metricsFile, "metrics-file", "", "write Prometheus metrics to this file on exit")

	root.AddCommand(
		newParseCommand(st),
		newCompareCommand(st),
		newCompareTextCommand(st),
		newImportCommand(st),
		newCompareAllCommand(st),
		newComparePhasesCommand(st),
		newRepairCommand(st),
		newRenameCommand(st),
		newVersionCommand(),
	)

	return root, st
}

func (st *state) setup(_ *cobra.Command, _ []string) error {
	cfg, err := config.LoadConfig(st.configPath)
	if err != nil {
		return err
	}

	obsCfg, err := cfg.ObservabilityConfig(version.Version)
	if err != nil {
		return err
	}

	switch {
	case st.verbose:
		obsCfg.LogLevel = slog.LevelDebug
	case st.quiet:
		obsCfg.LogLevel = slog.LevelError
	}

	if st.logJSON {
		obsCfg.LogJSON = true
	}

	if st.metricsFile != "" {
		obsCfg.MetricsFile = st.metricsFile
		obsCfg.Mode = observability.ModeBatch
	}

	obsCfg.LogOutput = st.stderr

	providers, err := observability.Init(obsCfg)
	if err != nil {
		return fmt.Errorf("init observability: %w", err)
	}

	metrics, err := observability.NewImportMetrics(providers.Meter)
	if err != nil {
		return errors.Join(fmt.Errorf("init metrics: %w", err), providers.Shutdown(context.Background()))
	}

	slog.SetDefault(providers.Logger)

	st.cfg = cfg
	st.logger = providers.Logger
	st.metrics = metrics
	st.shutdown = providers.Shutdown

	return nil
}

func (st *state) close(ctx context.Context) error {
	if st.shutdown == nil {
		return nil
	}

	err := st.shutdown(ctx)
	if err != nil {
		return fmt.Errorf("observability shutdown: %w", err)
	}

	return nil
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "autopatt %s\n", version.String())

			return err
		},
	}
}
