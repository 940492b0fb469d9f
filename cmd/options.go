package cmd

import (
	"fmt"
	"strconv"
	"strings"

	cfgpkg "github.com/KaramelBytes/corrloom/internal/config"
	"github.com/KaramelBytes/corrloom/internal/correlation"
	"github.com/KaramelBytes/corrloom/internal/dataset"
	"github.com/KaramelBytes/corrloom/internal/report"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// corrFlags holds the flags shared by correlate and correlate-batch.
type corrFlags struct {
	pearson, spearman, kendall, all bool

	topK      int
	valRange  string
	stats     bool
	insight   bool
	mostShow  int
	workers   int
	format    string
	delimiter string
	decimal   string
	thousands string
	maxRows   int
	sheetName string
	sheetIdx  int
}

func (f *corrFlags) bind(fs *pflag.FlagSet) {
	fs.BoolVar(&f.pearson, "pearson", false, "enable Pearson correlation")
	fs.BoolVar(&f.spearman, "spearman", false, "enable Spearman rank correlation")
	fs.BoolVar(&f.kendall, "kendall", false, "enable Kendall tau-b correlation")
	fs.BoolVar(&f.all, "all", false, "enable every correlation method")
	fs.IntVar(&f.topK, "top-k", 0, "keep pairs whose |r| reaches the k-th largest (ties included)")
	fs.StringVar(&f.valRange, "range", "", "keep pairs with lo <= r <= hi, e.g. '-0.5,0.5'")
	fs.BoolVar(&f.stats, "stats", false, "add per-method extremes and mean table")
	fs.BoolVar(&f.insight, "insight", false, "add per-method insight lines")
	fs.IntVar(&f.mostShow, "most-show", correlation.DefaultMostShow, "pairs listed per insight line before eliding")
	fs.IntVar(&f.workers, "workers", 0, "concurrent coefficient workers (0 = GOMAXPROCS)")
	fs.StringVar(&f.format, "format", "", "output format: markdown|json|yaml")
	fs.StringVar(&f.delimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab'")
	fs.StringVar(&f.decimal, "decimal", "", "decimal separator for numbers: '.'|'comma' (auto-detect if omitted)")
	fs.StringVar(&f.thousands, "thousands", "", "thousands separator for numbers: ','|'.'|'space' (auto-detect if omitted)")
	fs.IntVar(&f.maxRows, "max-rows", 100000, "maximum rows to process (0 = unlimited)")
	fs.StringVar(&f.sheetName, "sheet-name", "", "XLSX: sheet name to analyze")
	fs.IntVar(&f.sheetIdx, "sheet-index", 1, "XLSX: 1-based sheet index (used if --sheet-name not provided)")
}

// resolved is the effective configuration for one command run.
type resolved struct {
	load   dataset.Options
	corr   correlation.Options
	format report.Format
}

// resolve merges flags over the loaded config. A flag wins only when the
// user set it explicitly.
func (f *corrFlags) resolve(cmd *cobra.Command, c *cfgpkg.Global) (*resolved, error) {
	if c == nil {
		c = &cfgpkg.Global{MostShow: correlation.DefaultMostShow, MaxRows: 100000, OutputFormat: string(report.FormatMarkdown)}
	}
	fl := cmd.Flags()
	pick := func(name string, flagVal, cfgVal bool) bool {
		if fl.Changed(name) {
			return flagVal
		}
		return cfgVal
	}
	pickInt := func(name string, flagVal, cfgVal int) int {
		if fl.Changed(name) {
			return flagVal
		}
		return cfgVal
	}
	pickStr := func(name, flagVal, cfgVal string) string {
		if fl.Changed(name) {
			return flagVal
		}
		return cfgVal
	}

	var r resolved
	var err error

	// Methods: explicit flags replace config toggles as a whole.
	var methods []correlation.Method
	if fl.Changed("pearson") || fl.Changed("spearman") || fl.Changed("kendall") || fl.Changed("all") {
		methods = correlation.EnabledMethods(f.pearson, f.spearman, f.kendall, f.all)
	} else {
		methods = correlation.EnabledMethods(c.Pearson, c.Spearman, c.Kendall, c.AllMethods)
	}
	if len(methods) == 0 {
		methods = []correlation.Method{correlation.Pearson}
	}
	r.corr.Methods = methods

	// Filter: a flag-level range suppresses the configured top_k so that
	// config and flags never combine into a conflict. An explicit --top-k
	// must be positive since 0 is how FilterSpec spells "unset".
	if fl.Changed("top-k") && f.topK <= 0 {
		return nil, fmt.Errorf("%w: --top-k must be a positive integer, got %d", correlation.ErrInvalidFilter, f.topK)
	}
	if f.valRange != "" {
		vr, err := parseRange(f.valRange)
		if err != nil {
			return nil, err
		}
		r.corr.Filter.Range = vr
		if fl.Changed("top-k") {
			r.corr.Filter.K = f.topK
		}
	} else {
		r.corr.Filter.K = pickInt("top-k", f.topK, c.TopK)
	}
	if err := r.corr.Filter.Validate(); err != nil {
		return nil, err
	}

	r.corr.Stats = pick("stats", f.stats, c.StatsEnable)
	r.corr.Insight = pick("insight", f.insight, c.InsightEnable)
	r.corr.MostShow = pickInt("most-show", f.mostShow, c.MostShow)
	r.corr.Workers = pickInt("workers", f.workers, c.Workers)
	r.corr.Logger = logger

	if r.format, err = report.ParseFormat(pickStr("format", f.format, c.OutputFormat)); err != nil {
		return nil, err
	}

	r.load = dataset.DefaultOptions()
	if mr := pickInt("max-rows", f.maxRows, c.MaxRows); mr >= 0 {
		r.load.MaxRows = mr
	}
	if r.load.Delimiter, err = parseDelimiter(pickStr("delimiter", f.delimiter, c.Delimiter)); err != nil {
		return nil, err
	}
	if r.load.DecimalSeparator, err = parseDecimal(pickStr("decimal", f.decimal, c.Decimal)); err != nil {
		return nil, err
	}
	if r.load.ThousandsSeparator, err = parseThousands(pickStr("thousands", f.thousands, c.Thousands)); err != nil {
		return nil, err
	}
	return &r, nil
}

func parseRange(s string) (*correlation.ValueRange, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid --range %q (use lo,hi)", s)
	}
	lo, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid --range lower bound: %w", err)
	}
	hi, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid --range upper bound: %w", err)
	}
	return &correlation.ValueRange{Lo: lo, Hi: hi}, nil
}

func parseDelimiter(s string) (rune, error) {
	switch s {
	case "":
		return 0, nil
	case ",":
		return ',', nil
	case "\t", "tab":
		return '\t', nil
	case ";":
		return ';', nil
	}
	return 0, fmt.Errorf("unsupported --delimiter: %s", s)
}

func parseDecimal(s string) (rune, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case ",", "comma":
		return ',', nil
	case ".", "dot":
		return '.', nil
	case "":
		return 0, nil
	}
	return 0, fmt.Errorf("unsupported --decimal: %s (use '.'|'comma')", s)
}

func parseThousands(s string) (rune, error) {
	if s == " " {
		return ' ', nil
	}
	switch strings.ToLower(strings.TrimSpace(s)) {
	case ",":
		return ',', nil
	case ".":
		return '.', nil
	case "space":
		return ' ', nil
	case "":
		return 0, nil
	}
	return 0, fmt.Errorf("unsupported --thousands: %s (use ','|'.'|'space')", s)
}
