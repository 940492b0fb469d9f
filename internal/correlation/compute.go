package correlation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/sourcegraph/conc/iter"

	"github.com/KaramelBytes/corrloom/internal/dataset"
)

// VisualType tags results for the rendering layer.
const VisualType = "correlation_impact"

// Stat labels used as TableData keys.
const (
	StatHighestPositive = "Highest Positive Correlation"
	StatHighestNegative = "Highest Negative Correlation"
	StatLowest          = "Lowest Correlation"
	StatMean            = "Mean Correlation"
)

// StatLabels lists TableData keys in display order.
func StatLabels() []string {
	return []string{StatHighestPositive, StatHighestNegative, StatLowest, StatMean}
}

// Options configures one Compute run.
type Options struct {
	// Methods are the enabled methods. Order is normalized to AllMethods.
	Methods []Method
	Filter  FilterSpec
	// Stats adds the per-method summary table; it builds every method.
	Stats bool
	// Insight adds the per-method narrative lines.
	Insight  bool
	MostShow int
	Workers  int
	// Coefficients overrides the primitives, mainly for tests.
	Coefficients map[Method]CoefficientFunc
	Logger       *slog.Logger
}

// PairRow is one line of a filtered pair table.
type PairRow struct {
	Correlation float64 `json:"correlation" yaml:"correlation"`
	X           string  `json:"x" yaml:"x"`
	Y           string  `json:"y" yaml:"y"`
}

// Result is the structured output consumed by report renderers.
type Result struct {
	ID         string                        `json:"id" yaml:"id"`
	Dataset    string                        `json:"dataset,omitempty" yaml:"dataset,omitempty"`
	VisualType string                        `json:"visual_type" yaml:"visual_type"`
	AxisRange  []string                      `json:"axis_range" yaml:"axis_range"`
	Methods    []string                      `json:"methods" yaml:"methods"`
	Data       map[string][]PairRow          `json:"data" yaml:"data"`
	TableData  map[string]map[string]float64 `json:"table_data,omitempty" yaml:"table_data,omitempty"`
	Insights   map[string][]string           `json:"insights,omitempty" yaml:"insights,omitempty"`
	Warnings   []string                      `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// methodAnalysis is the per-method output of the extremal stage.
type methodAnalysis struct {
	method Method
	most   MostReport
	least  Extreme
}

// Compute runs the full pipeline: build matrices, filter each enabled
// method's pairs, and optionally append the stats and insight stages.
func Compute(ctx context.Context, ds *dataset.Dataset, opt Options) (*Result, error) {
	if err := opt.Filter.Validate(); err != nil {
		return nil, err
	}
	if ds == nil {
		return nil, errors.New("dataset is nil")
	}
	logger := opt.Logger
	if logger == nil {
		logger = slog.Default()
	}
	enabled := normalizeMethods(opt.Methods)
	build := enabled
	if opt.Stats {
		build = AllMethods()
	}

	b := &Builder{Workers: opt.Workers, Coefficients: opt.Coefficients, Logger: logger}
	mats, err := b.Build(ctx, ds, build)
	if err != nil {
		return nil, err
	}

	names := ds.Names()
	res := &Result{
		ID:         uuid.NewString(),
		Dataset:    ds.Name,
		VisualType: VisualType,
		AxisRange:  names,
		Methods:    make([]string, 0, len(enabled)),
		Data:       make(map[string][]PairRow, len(enabled)),
		Warnings:   append([]string(nil), ds.Warnings...),
	}
	for _, m := range enabled {
		kept, err := Filter(mats[m].PairResults(), opt.Filter)
		if err != nil {
			return nil, fmt.Errorf("filter %s: %w", m, err)
		}
		rows := make([]PairRow, len(kept))
		for k, p := range kept {
			rows[k] = PairRow{Correlation: p.Value, X: names[p.I], Y: names[p.J]}
		}
		res.Methods = append(res.Methods, m.String())
		res.Data[m.String()] = rows
	}

	if !opt.Stats && !opt.Insight {
		return res, nil
	}
	analyzed := build
	if !opt.Stats {
		analyzed = enabled
	}
	analyses := iter.Map(analyzed, func(m *Method) methodAnalysis {
		mat := mats[*m]
		return methodAnalysis{method: *m, most: MostCorrelated(mat), least: LeastCorrelated(mat)}
	})
	if opt.Stats {
		res.TableData = statsTable(analyses)
	}
	if opt.Insight {
		res.Insights = insights(analyses, enabled, opt.MostShow, names)
	}
	logger.Debug("correlation stages complete", "stats", opt.Stats, "insight", opt.Insight, "methods", len(analyses))
	return res, nil
}

func statsTable(analyses []methodAnalysis) map[string]map[string]float64 {
	table := make(map[string]map[string]float64, 4)
	for _, label := range StatLabels() {
		table[label] = make(map[string]float64, len(analyses))
	}
	for _, a := range analyses {
		name := a.method.String()
		table[StatHighestPositive][name] = a.most.Positive.Value
		table[StatHighestNegative][name] = a.most.Negative.Value
		table[StatLowest][name] = a.least.Value
		table[StatMean][name] = a.most.Mean
	}
	return table
}

func insights(analyses []methodAnalysis, enabled []Method, mostShow int, names []string) map[string][]string {
	out := make(map[string][]string, len(enabled))
	for _, a := range analyses {
		if !containsMethod(enabled, a.method) {
			continue
		}
		out[a.method.String()] = []string{
			Insight(CategoryPositive, a.most.Positive.Pairs, mostShow, names),
			Insight(CategoryNegative, a.most.Negative.Pairs, mostShow, names),
			Insight(CategoryLeast, a.least.Pairs, mostShow, names),
		}
	}
	return out
}

// normalizeMethods deduplicates and sorts into canonical order.
func normalizeMethods(ms []Method) []Method {
	var out []Method
	for _, m := range AllMethods() {
		if containsMethod(ms, m) {
			out = append(out, m)
		}
	}
	return out
}
