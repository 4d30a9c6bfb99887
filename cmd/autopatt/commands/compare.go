package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/autopatt/pkg/compare"
	"github.com/Sumatoshi-tech/autopatt/pkg/export"
	"github.com/Sumatoshi-tech/autopatt/pkg/report"
)

func newCompareCommand(st *state) *cobra.Command {
	var (
		pf parseFlags
		cf compareFlags
	)

	cmd := &cobra.Command{
		Use:   "compare <left> <right>",
		Short: "Compare fields of two reports",
		Long: `Compare selected fields of two reports. For each field the values are
partitioned into the overlap, the values only on the left and the values only
on the right. Duplicates are dropped and first-occurrence order is kept.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pf.apply(cmd, st.cfg)

			fields, format, labels, err := cf.resolve(st.cfg)
			if err != nil {
				return err
			}

			left, err := st.parseFile(args[0])
			if err != nil {
				return err
			}

			right, err := st.parseFile(args[1])
			if err != nil {
				return err
			}

			return writeRecordComparison(cmd.OutOrStdout(), left, right, fields, format, labels)
		},
	}

	registerParseFlags(cmd, &pf)
	registerCompareFlags(cmd, &cf, "text, json, yaml, diff")

	return cmd
}

func writeRecordComparison(w io.Writer, left, right *report.Record, fields []report.Field, format export.Format, labels export.Labels) error {
	results := make(map[string]compare.Result[string], len(fields))
	diffs := make(map[report.Field][]compare.DiffLine, len(fields))

	for _, f := range fields {
		lv, err := left.StrictValues(f)
		if err != nil {
			return err
		}

		rv, err := right.StrictValues(f)
		if err != nil {
			return err
		}

		results[f.String()] = compare.Partition(lv, rv)

		if format == export.FormatDiff {
			diffs[f] = compare.LineDiff(lv, rv)
		}
	}

	switch format {
	case export.FormatJSON, export.FormatYAML:
		return export.WriteDocument(w, results, format)
	case export.FormatDiff:
		for _, f := range fields {
			err := export.WriteDiff(w, f.String(), diffs[f])
			if err != nil {
				return err
			}
		}

		return nil
	case export.FormatText:
		for _, f := range fields {
			err := export.WriteResult(w, f.String(), results[f.String()], labels)
			if err != nil {
				return err
			}
		}

		return nil
	default:
		return fmt.Errorf("%w: %s for compare", export.ErrUnsupportedFormat, format)
	}
}

func newCompareTextCommand(st *state) *cobra.Command {
	var cf compareFlags

	cmd := &cobra.Command{
		Use:   "compare-text <left> <right>",
		Short: "Compare two comma-delimited lists",
		Long: `Compare two comma-delimited lists such as "p,b, t" and "b,k". Spaces are
removed before splitting and empty entries are dropped.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, format, labels, err := cf.resolve(st.cfg)
			if err != nil {
				return err
			}

			res := compare.PartitionText(args[0], args[1])

			switch format {
			case export.FormatJSON, export.FormatYAML:
				return export.WriteDocument(cmd.OutOrStdout(), res, format)
			case export.FormatText:
				return export.WriteResult(cmd.OutOrStdout(), "text", res, labels)
			default:
				return fmt.Errorf("%w: %s for compare-text", export.ErrUnsupportedFormat, format)
			}
		},
	}

	cmd.Flags().StringVar(&cf.format, "format", "", "output format: text, json, yaml (default: output.format)")
	cmd.Flags().StringVar(&cf.leftLabel, "left-label", "", "label of the left side")
	cmd.Flags().StringVar(&cf.rightLabel, "right-label", "", "label of the right side")

	return cmd
}
