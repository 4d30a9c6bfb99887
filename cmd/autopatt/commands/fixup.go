package commands

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/autopatt/pkg/fixup"
	"github.com/Sumatoshi-tech/autopatt/pkg/importer"
)

func (st *state) extensions() []string {
	if len(st.cfg.Import.Extensions) == 0 {
		return []string{importer.DefaultExtension}
	}

	return st.cfg.Import.Extensions
}

func newRepairCommand(st *state) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "repair <dir>",
		Short: "Insert missing Minimal Pairs sections",
		Long: `Rewrite, in place, every report in a directory that lacks a
"Minimal Pairs:" marker, inserting an empty section after the phonetic
inventory. Files that already have the marker are left untouched. The change
is destructive and requires --yes.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return ErrRepairNotConfirmed
			}

			var errs []error

			for _, ext := range st.extensions() {
				changed, err := fixup.RepairDir(cmd.Context(), args[0], ext)
				for _, path := range changed {
					_, printErr := fmt.Fprintf(cmd.OutOrStdout(), "repaired %s\n", filepath.Base(path))
					if printErr != nil {
						return printErr
					}
				}

				if err != nil {
					errs = append(errs, err)
				}
			}

			return errors.Join(errs...)
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "confirm that files may be rewritten")

	return cmd
}

func newRenameCommand(st *state) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "rename <dir>",
		Short: "Truncate report file names at the first underscore",
		Long: `Rename every report in a directory to the part of its name before the
first underscore, so "S101_Pre_Spanish.csv" becomes "S101.csv". Existing
files are never overwritten.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var errs []error

			for _, ext := range st.extensions() {
				renames, err := fixup.TruncateNames(args[0], ext, dryRun)
				if err != nil {
					return err
				}

				for _, r := range renames {
					if r.Err != nil {
						st.logger.Warn("rename refused", "from", r.From, "to", r.To, "error", r.Err)
						errs = append(errs, r.Err)

						continue
					}

					_, printErr := fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s\n", filepath.Base(r.From), filepath.Base(r.To))
					if printErr != nil {
						return printErr
					}
				}
			}

			return errors.Join(errs...)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the renames without performing them")

	return cmd
}
