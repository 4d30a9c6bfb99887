package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/autopatt/internal/config"
	"github.com/Sumatoshi-tech/autopatt/pkg/compare"
	"github.com/Sumatoshi-tech/autopatt/pkg/export"
	"github.com/Sumatoshi-tech/autopatt/pkg/importer"
	"github.com/Sumatoshi-tech/autopatt/pkg/report"
	"github.com/Sumatoshi-tech/autopatt/pkg/snapshot"
)

const chartFilePerm = 0o644

func newImportCommand(st *state) *cobra.Command {
	var (
		pf     parseFlags
		output string
		repair bool
	)

	cmd := &cobra.Command{
		Use:   "import <dir>",
		Short: "Import a directory of reports",
		Long: `Import every report in a directory. Malformed files are reported and
skipped. With --output the records are written to an LZ4-compressed snapshot
that compare-all and compare-phases accept in place of a directory.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pf.apply(cmd, st.cfg)

			if cmd.Flags().Changed("repair") {
				st.cfg.Import.Repair = repair
			}

			opts, err := st.cfg.ImportOptions(st.logger, st.metrics)
			if err != nil {
				return err
			}

			batch, err := importer.Import(cmd.Context(), args[0], opts)
			if err != nil {
				return err
			}

			writeErr := writeBatchSummary(cmd.OutOrStdout(), batch)
			if writeErr != nil {
				return writeErr
			}

			if len(batch.Records) == 0 && len(batch.Failures) > 0 {
				return fmt.Errorf("%w: %s", ErrAllFailed, batch.Dir)
			}

			if output == "" {
				return nil
			}

			return st.saveSnapshot(output, opts.Parse.Format, batch)
		},
	}

	registerParseFlags(cmd, &pf)
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the records to this snapshot file (.lz4)")
	cmd.Flags().BoolVar(&repair, "repair", false, "insert missing Minimal Pairs sections before parsing (rewrites files)")

	return cmd
}

func (st *state) saveSnapshot(path string, format report.Format, batch *importer.Batch) error {
	snap := snapshot.New(format, batch.Dir, batch.Records)

	err := snapshot.SaveFile(path, snap)
	if err != nil {
		return err
	}

	info, statErr := os.Stat(path)
	if statErr != nil {
		return fmt.Errorf("stat snapshot: %w", statErr)
	}

	st.logger.Info("snapshot written",
		"path", path,
		"id", snap.ID,
		"records", len(snap.Records),
		"size", humanize.Bytes(uint64(info.Size())), //nolint:gosec // file sizes are non-negative.
	)

	return nil
}

func writeBatchSummary(w io.Writer, batch *importer.Batch) error {
	_, err := fmt.Fprintf(w, "%s: %d imported, %d failed, %d skipped\n",
		batch.Dir, len(batch.Records), len(batch.Failures), len(batch.Skipped))
	if err != nil {
		return fmt.Errorf("write summary: %w", err)
	}

	if len(batch.Failures) == 0 {
		return nil
	}

	tbl := export.NewTable()
	tbl.AppendHeader(table.Row{"file", "error"})

	for _, f := range batch.Failures {
		tbl.AppendRow(table.Row{filepath.Base(f.Path), f.Err.Error()})
	}

	return export.Render(w, tbl, export.FormatText)
}

// matrixOutput holds the rendering choices for a batch comparison.
type matrixOutput struct {
	cf    compareFlags
	chart string
	title string
}

func registerMatrixFlags(cmd *cobra.Command, mo *matrixOutput) {
	registerCompareFlags(cmd, &mo.cf, "text, csv, markdown, html, json, yaml")
	cmd.Flags().StringVar(&mo.cf.table, "table", "", "table layout: results, mismatch, wider (default: output.table)")
	cmd.Flags().StringVar(&mo.chart, "chart", "", "also write an HTML bar chart to this file")
	cmd.Flags().StringVar(&mo.title, "title", "autopatt comparison", "chart page title")
}

func (st *state) compareBatches(ctx context.Context, w io.Writer, mo *matrixOutput, left, right map[string]*report.Record) error {
	fields, format, labels, err := mo.cf.resolve(st.cfg)
	if err != nil {
		return err
	}

	kind, err := mo.cf.tableKind(st.cfg)
	if err != nil {
		return err
	}

	matrix := compare.CompareAll(left, right, fields)
	leftOnly, rightOnly := compare.UnmatchedKeys(left, right)

	for _, key := range leftOnly {
		st.logger.Warn("no counterpart", "key", key, "side", labels.Left)
	}

	for _, key := range rightOnly {
		st.logger.Warn("no counterpart", "key", key, "side", labels.Right)
	}

	for _, f := range matrix.Fields() {
		mismatches := 0

		for _, res := range matrix[f] {
			if res.Mismatch() {
				mismatches++
			}
		}

		st.metrics.RecordComparison(ctx, f.String(), len(matrix[f]), mismatches)
	}

	st.logger.Info("comparison complete",
		"keys", len(matrix.Keys()),
		"fields", len(fields),
		"mismatches", matrix.Mismatches(),
	)

	if mo.chart != "" {
		chartErr := writeChartFile(mo.chart, matrix, mo.title, labels)
		if chartErr != nil {
			return chartErr
		}
	}

	switch format {
	case export.FormatJSON, export.FormatYAML:
		return export.WriteDocument(w, export.NewMatrixDocument(matrix, leftOnly, rightOnly), format)
	default:
		tbl, tblErr := export.MatrixTable(matrix, kind, labels)
		if tblErr != nil {
			return tblErr
		}

		return export.Render(w, tbl, format)
	}
}

func writeChartFile(path string, m compare.Matrix, title string, labels export.Labels) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, chartFilePerm)
	if err != nil {
		return fmt.Errorf("create chart: %w", err)
	}

	writeErr := export.WriteChart(f, m, title, labels)
	closeErr := f.Close()

	if writeErr != nil {
		return writeErr
	}

	if closeErr != nil {
		return fmt.Errorf("close chart: %w", closeErr)
	}

	return nil
}

func newCompareAllCommand(st *state) *cobra.Command {
	var (
		pf                      parseFlags
		mo                      matrixOutput
		leftRobust, rightRobust bool
	)

	cmd := &cobra.Command{
		Use:   "compare-all <left> <right>",
		Short: "Compare two directories or snapshots of reports",
		Long: `Compare every report on the left with the report of the same key on the
right. Either side may be a directory or a snapshot written by import.
Keys present on one side only are logged and listed in JSON/YAML output.

--robust applies the IPA substitutions to both sides. --left-robust and
--right-robust override it for one side, e.g. to normalize hand-typed manual
reports against software output that already uses IPA script. Snapshots keep
the options they were imported with; the robust flags only affect directories.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pf.apply(cmd, st.cfg)

			opts, err := st.cfg.ImportOptions(st.logger, st.metrics)
			if err != nil {
				return err
			}

			leftOpts, rightOpts := opts, opts

			if cmd.Flags().Changed("left-robust") {
				leftOpts.Parse.Robust = leftRobust
			}

			if cmd.Flags().Changed("right-robust") {
				rightOpts.Parse.Robust = rightRobust
			}

			left, err := st.loadRecords(cmd.Context(), args[0], leftOpts)
			if err != nil {
				return err
			}

			right, err := st.loadRecords(cmd.Context(), args[1], rightOpts)
			if err != nil {
				return err
			}

			return st.compareBatches(cmd.Context(), cmd.OutOrStdout(), &mo, left, right)
		},
	}

	registerParseFlags(cmd, &pf)
	registerMatrixFlags(cmd, &mo)
	cmd.Flags().BoolVar(&leftRobust, "left-robust", false, "apply IPA substitutions to the left side only (overrides --robust)")
	cmd.Flags().BoolVar(&rightRobust, "right-robust", false, "apply IPA substitutions to the right side only (overrides --robust)")

	return cmd
}

func newComparePhasesCommand(st *state) *cobra.Command {
	var (
		pf       parseFlags
		mo       matrixOutput
		from, to string
	)

	cmd := &cobra.Command{
		Use:   "compare-phases <dir>",
		Short: "Compare two treatment phases within one directory",
		Long: `Key every report by participant, phase and language (keys.* patterns),
then compare the --from phase against the --to phase for each participant and
language.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pf.apply(cmd, st.cfg)
			st.cfg.Keys.Mode = config.KeyModePattern

			opts, err := st.cfg.ImportOptions(st.logger, st.metrics)
			if err != nil {
				return err
			}

			parts, err := st.cfg.KeyParts()
			if err != nil {
				return err
			}

			records, err := st.loadRecords(cmd.Context(), args[0], opts)
			if err != nil {
				return err
			}

			left, right := importer.PairPhases(records, parts, from, to)

			if mo.cf.leftLabel == "" {
				mo.cf.leftLabel = from
			}

			if mo.cf.rightLabel == "" {
				mo.cf.rightLabel = to
			}

			return st.compareBatches(cmd.Context(), cmd.OutOrStdout(), &mo, left, right)
		},
	}

	registerParseFlags(cmd, &pf)
	registerMatrixFlags(cmd, &mo)
	cmd.Flags().StringVar(&from, "from", "Pre", "left phase")
	cmd.Flags().StringVar(&to, "to", "Post", "right phase")

	return cmd
}
