package cmd

import (
	"fmt"

	"github.com/KaramelBytes/corrloom/internal/correlation"
	"github.com/KaramelBytes/corrloom/internal/dataset"
	"github.com/KaramelBytes/corrloom/internal/report"
	"github.com/KaramelBytes/corrloom/internal/utils"
	"github.com/spf13/cobra"
)

var (
	corrFlagsSingle corrFlags
	corrOutputPath  string
)

var correlateCmd = &cobra.Command{
	Use:   "correlate <file>",
	Short: "Compute pairwise correlations for a CSV/TSV/XLSX file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := corrFlagsSingle.resolve(cmd, cfg)
		if err != nil {
			return err
		}
		out, err := correlateFile(cmd, args[0], r, corrFlagsSingle.sheetName, corrFlagsSingle.sheetIdx)
		if err != nil {
			return err
		}
		if corrOutputPath != "" {
			if err := utils.SafeWriteFile(corrOutputPath, out); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote correlations to %s\n", corrOutputPath)
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}

// correlateFile loads one file, runs the pipeline and renders the result.
func correlateFile(cmd *cobra.Command, path string, r *resolved, sheetName string, sheetIndex int) ([]byte, error) {
	ds, err := dataset.Load(path, r.load, sheetName, sheetIndex)
	if err != nil {
		return nil, err
	}
	if len(ds.Skipped) > 0 {
		logger.Debug("skipped non-numeric columns", "file", path, "columns", ds.Skipped)
	}
	for i, name := range ds.Names() {
		if miss := ds.Missing(i); miss > 0 {
			logger.Debug("column has missing values", "file", path, "column", name, "missing", miss, "rows", ds.Rows)
		}
	}
	res, err := correlation.Compute(cmd.Context(), ds, r.corr)
	if err != nil {
		return nil, err
	}
	return report.Render(res, r.format)
}

func init() {
	rootCmd.AddCommand(correlateCmd)
	corrFlagsSingle.bind(correlateCmd.Flags())
	correlateCmd.Flags().StringVarP(&corrOutputPath, "output", "o", "", "optional path to write the report")
}
