package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	cfgpkg "github.com/KaramelBytes/corrloom/internal/config"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	debug   bool

	// Loaded configuration
	cfg    *cfgpkg.Global
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
)

var rootCmd = &cobra.Command{
	Use:   "corrloom",
	Short: "corrloom: pairwise correlation profiling for tabular data",
	Long: `corrloom computes Pearson, Spearman and Kendall correlation matrices for the
numeric columns of CSV/TSV/XLSX files, filters the column pairs by top-k or value
range, and optionally summarizes extremes and insights per method.`,
	SilenceUsage: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.corrloom/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
}

func loadConfig() {
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: commands fall back to flag defaults
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		cfg = nil
		return
	}
	cfg = c
	logger.Debug("config loaded", "file", cfgFile, "workers", cfg.Workers, "format", cfg.OutputFormat)
}
