package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/KaramelBytes/corrloom/internal/utils"
	"github.com/spf13/cobra"
)

var (
	cbFlags     corrFlags
	cbOutputDir string
	cbQuiet     bool
)

var correlateBatchCmd = &cobra.Command{
	Use:   "correlate-batch <files...>",
	Short: "Compute correlations for multiple CSV/TSV/XLSX files with progress",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		files := expandInputs(args)
		if len(files) == 0 {
			return fmt.Errorf("no input files matched")
		}
		r, err := cbFlags.resolve(cmd, cfg)
		if err != nil {
			return err
		}
		if cbOutputDir != "" {
			if err := os.MkdirAll(cbOutputDir, 0o755); err != nil {
				return err
			}
		}

		w := cmd.OutOrStdout()
		total := len(files)
		for i, path := range files {
			if !cbQuiet {
				fmt.Fprintf(w, "[%d/%d] Processing %s...\n", i+1, total, filepath.Base(path))
			}
			out, err := correlateFile(cmd, path, r, cbFlags.sheetName, cbFlags.sheetIdx)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			if cbOutputDir == "" {
				if !cbQuiet {
					fmt.Fprintln(w, string(out))
				}
				continue
			}
			base := filepath.Base(path)
			safe := strings.TrimSuffix(base, filepath.Ext(base))
			outFile, renamed := utils.UniquePath(cbOutputDir, safe, "corr."+r.format.Ext())
			if renamed && !cbQuiet {
				fmt.Fprintf(w, "⚠ Detected existing report, writing to %s to avoid overwrite.\n", filepath.Base(outFile))
			}
			if err := utils.SafeWriteFile(outFile, out); err != nil {
				return fmt.Errorf("write report: %w", err)
			}
			if !cbQuiet {
				fmt.Fprintf(w, "✓ Wrote %s\n", outFile)
			}
		}
		return nil
	},
}

// expandInputs resolves globs, keeps literal paths that exist, and dedupes.
func expandInputs(args []string) []string {
	var files []string
	seen := map[string]struct{}{}
	for _, arg := range args {
		matches, _ := filepath.Glob(arg)
		if len(matches) == 0 {
			if _, err := os.Stat(arg); err == nil {
				matches = []string{arg}
			}
		}
		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			files = append(files, m)
		}
	}
	sort.Strings(files)
	return files
}

func init() {
	rootCmd.AddCommand(correlateBatchCmd)
	cbFlags.bind(correlateBatchCmd.Flags())
	correlateBatchCmd.Flags().StringVar(&cbOutputDir, "output-dir", "", "directory for <name>.corr.<ext> reports (stdout if omitted)")
	correlateBatchCmd.Flags().BoolVar(&cbQuiet, "quiet", false, "suppress progress and non-essential output")
}
