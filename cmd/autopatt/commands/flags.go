package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/autopatt/internal/config"
	"github.com/Sumatoshi-tech/autopatt/pkg/export"
	"github.com/Sumatoshi-tech/autopatt/pkg/importer"
	"github.com/Sumatoshi-tech/autopatt/pkg/report"
	"github.com/Sumatoshi-tech/autopatt/pkg/snapshot"
)

var (
	// ErrAllFailed is returned when a batch produced no record at all.
	ErrAllFailed = errors.New("every report failed to import")
	// ErrRepairNotConfirmed is returned when repair runs without --yes.
	ErrRepairNotConfirmed = errors.New("repair rewrites files in place; pass --yes to confirm")
)

// parseFlags are the report parsing overrides shared by every command that
// reads reports.
type parseFlags struct {
	legacy bool
	robust bool
	nfc    bool
}

func registerParseFlags(cmd *cobra.Command, pf *parseFlags) {
	cmd.Flags().BoolVar(&pf.legacy, "legacy", false, "reports use the pre-0.7 layout without a header block")
	cmd.Flags().BoolVar(&pf.robust, "robust", false, "replace ASCII g with IPA ɡ (and configured substitutions)")
	cmd.Flags().BoolVar(&pf.nfc, "nfc", false, "normalize values to Unicode NFC")
}

// apply copies the flags that were set on the command line into cfg.
func (pf *parseFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("legacy") {
		cfg.Format = report.FormatCurrent.String()
		if pf.legacy {
			cfg.Format = report.FormatLegacy.String()
		}
	}

	if cmd.Flags().Changed("robust") {
		cfg.Robust = pf.robust
	}

	if cmd.Flags().Changed("nfc") {
		cfg.NFC = pf.nfc
	}
}

// compareFlags select fields, labels and output layout.
type compareFlags struct {
	fields     []string
	format     string
	table      string
	leftLabel  string
	rightLabel string
}

func registerCompareFlags(cmd *cobra.Command, cf *compareFlags, formats string) {
	cmd.Flags().StringSliceVarP(&cf.fields, "field", "F", nil, "fields to compare (default: compare.fields)")
	cmd.Flags().StringVar(&cf.format, "format", "", "output format: "+formats+" (default: output.format)")
	cmd.Flags().StringVar(&cf.leftLabel, "left-label", "", "label of the left side (default: compare.left_label)")
	cmd.Flags().StringVar(&cf.rightLabel, "right-label", "", "label of the right side (default: compare.right_label)")
}

func (cf *compareFlags) resolve(cfg *config.Config) ([]report.Field, export.Format, export.Labels, error) {
	fields, err := cfg.CompareFields()
	if len(cf.fields) > 0 {
		fields, err = report.ParseFields(splitList(cf.fields))
	}

	if err != nil {
		return nil, "", export.Labels{}, err
	}

	format := export.ParseFormat(cfg.Output.Format)
	if cf.format != "" {
		format = export.ParseFormat(cf.format)
	}

	labels := cfg.Labels()
	if cf.leftLabel != "" {
		labels.Left = cf.leftLabel
	}

	if cf.rightLabel != "" {
		labels.Right = cf.rightLabel
	}

	return fields, format, labels, nil
}

func (cf *compareFlags) tableKind(cfg *config.Config) (export.TableKind, error) {
	if cf.table != "" {
		return export.ParseTableKind(cf.table)
	}

	return export.ParseTableKind(cfg.Output.Table)
}

// splitList accepts both repeated flags and space separated values.
func splitList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, strings.Fields(v)...)
	}

	return out
}

// loadRecords reads a snapshot file or imports a directory.
func (st *state) loadRecords(ctx context.Context, path string, opts importer.Options) (map[string]*report.Record, error) {
	if snapshot.IsSnapshotPath(path) {
		snap, err := snapshot.LoadFile(path)
		if err != nil {
			return nil, err
		}

		st.logger.Debug("snapshot loaded", "path", path, "id", snap.ID, "records", len(snap.Records))

		return snap.Records, nil
	}

	batch, err := importer.Import(ctx, path, opts)
	if err != nil {
		return nil, err
	}

	if len(batch.Records) == 0 && len(batch.Failures) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrAllFailed, path)
	}

	return batch.Records, nil
}
