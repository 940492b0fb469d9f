package cmd

import (
	"fmt"
	"strconv"
	"strings"

	cfgpkg "github.com/KaramelBytes/corrloom/internal/config"
	"github.com/KaramelBytes/corrloom/internal/report"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set corrloom configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		w := cmd.OutOrStdout()
		if cfg == nil {
			fmt.Fprintln(w, "No config loaded")
			return nil
		}
		fmt.Fprintf(w, "pearson: %t\n", cfg.Pearson)
		fmt.Fprintf(w, "spearman: %t\n", cfg.Spearman)
		fmt.Fprintf(w, "kendall: %t\n", cfg.Kendall)
		fmt.Fprintf(w, "all_methods: %t\n", cfg.AllMethods)
		fmt.Fprintf(w, "stats_enable: %t\n", cfg.StatsEnable)
		fmt.Fprintf(w, "insight_enable: %t\n", cfg.InsightEnable)
		fmt.Fprintf(w, "most_show: %d\n", cfg.MostShow)
		fmt.Fprintf(w, "workers: %d\n", cfg.Workers)
		if cfg.TopK > 0 {
			fmt.Fprintf(w, "top_k: %d\n", cfg.TopK)
		}
		fmt.Fprintf(w, "output_format: %s\n", cfg.OutputFormat)
		fmt.Fprintf(w, "max_rows: %d\n", cfg.MaxRows)
		if cfg.Delimiter != "" {
			fmt.Fprintf(w, "delimiter: %q\n", cfg.Delimiter)
		}
		if cfg.Decimal != "" {
			fmt.Fprintf(w, "decimal: %q\n", cfg.Decimal)
		}
		if cfg.Thousands != "" {
			fmt.Fprintf(w, "thousands: %q\n", cfg.Thousands)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		if err := setConfigValue(cfg, key, val); err != nil {
			return err
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Saved config")
		return nil
	},
}

func setConfigValue(c *cfgpkg.Global, key, val string) error {
	parseBool := func() (bool, error) {
		b, err := strconv.ParseBool(val)
		if err != nil {
			return false, fmt.Errorf("invalid bool for %s: %v", key, val)
		}
		return b, nil
	}
	parseNonNeg := func() (int, error) {
		i, err := strconv.Atoi(val)
		if err != nil || i < 0 {
			return 0, fmt.Errorf("invalid int for %s: %v", key, val)
		}
		return i, nil
	}
	var err error
	switch key {
	case "pearson":
		c.Pearson, err = parseBool()
	case "spearman":
		c.Spearman, err = parseBool()
	case "kendall":
		c.Kendall, err = parseBool()
	case "all_methods":
		c.AllMethods, err = parseBool()
	case "stats_enable":
		c.StatsEnable, err = parseBool()
	case "insight_enable":
		c.InsightEnable, err = parseBool()
	case "most_show":
		i, perr := parseNonNeg()
		switch {
		case perr != nil:
			err = perr
		case i == 0:
			err = fmt.Errorf("most_show must be at least 1")
		default:
			c.MostShow = i
		}
	case "workers":
		c.Workers, err = parseNonNeg()
	case "top_k":
		c.TopK, err = parseNonNeg()
	case "max_rows":
		c.MaxRows, err = parseNonNeg()
	case "output_format":
		var f report.Format
		if f, err = report.ParseFormat(val); err == nil {
			c.OutputFormat = string(f)
		}
	case "delimiter":
		if _, err = parseDelimiter(val); err == nil {
			c.Delimiter = val
		}
	case "decimal":
		if _, err = parseDecimal(val); err == nil {
			c.Decimal = strings.TrimSpace(val)
		}
	case "thousands":
		if _, err = parseThousands(val); err == nil {
			c.Thousands = val
		}
	default:
		return fmt.Errorf("unknown key: %s", key)
	}
	return err
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
