package commands

import (
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/autopatt/pkg/export"
	"github.com/Sumatoshi-tech/autopatt/pkg/report"
)

func newParseCommand(st *state) *cobra.Command {
	var (
		pf     parseFlags
		format string
	)

	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse one report and print its fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pf.apply(cmd, st.cfg)

			rec, err := st.parseFile(args[0])
			if err != nil {
				return err
			}

			out := export.ParseFormat(st.cfg.Output.Format)
			if format != "" {
				out = export.ParseFormat(format)
			}

			switch out {
			case export.FormatJSON, export.FormatYAML:
				return export.WriteDocument(cmd.OutOrStdout(), rec, out)
			default:
				return export.Render(cmd.OutOrStdout(), export.RecordTable(rec), out)
			}
		},
	}

	registerParseFlags(cmd, &pf)
	cmd.Flags().StringVar(&format, "format", "", "output format: text, csv, markdown, html, json, yaml")

	return cmd
}

func (st *state) parseFile(path string) (*report.Record, error) {
	opts, err := st.cfg.ParseOptions()
	if err != nil {
		return nil, err
	}

	size, err := st.cfg.MaxFileSize()
	if err != nil {
		return nil, err
	}

	rec, err := report.ParseFile(path, opts, size)
	if err != nil {
		return nil, err
	}

	if !rec.VersionSupported() {
		st.logger.Warn("unsupported AutoPATT version",
			"path", rec.Source, "version", rec.Header.Version, "supported", report.SupportedVersion)
	}

	st.logger.Debug("report parsed", "path", rec.Source, "format", rec.Format)

	return rec, nil
}
