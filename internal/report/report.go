// Package report renders correlation results as Markdown, JSON, or YAML.
package report

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/corrloom/internal/correlation"
	"github.com/KaramelBytes/corrloom/internal/utils"
)

// Format names an output encoding.
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
)

// ErrUnknownFormat is returned by ParseFormat for unsupported names.
var ErrUnknownFormat = errors.New("unknown output format")

// ParseFormat accepts format names and their common file extensions.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "md", "markdown":
		return FormatMarkdown, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("%w: %q (use markdown|json|yaml)", ErrUnknownFormat, s)
}

// Ext is the file extension used for batch outputs.
func (f Format) Ext() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatYAML:
		return "yaml"
	default:
		return "md"
	}
}

// Render encodes res in the requested format.
func Render(res *correlation.Result, f Format) ([]byte, error) {
	if res == nil {
		return nil, errors.New("nil result")
	}
	switch f {
	case FormatMarkdown, "":
		return []byte(Markdown(res)), nil
	case FormatJSON:
		return utils.PrettyJSON(toJSON(res))
	case FormatYAML:
		b, err := yaml.Marshal(res)
		if err != nil {
			return nil, fmt.Errorf("marshal yaml: %w", err)
		}
		return b, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, string(f))
}

// jsonRow mirrors correlation.PairRow with undefined coefficients as null.
type jsonRow struct {
	Correlation *float64 `json:"correlation"`
	X           string   `json:"x"`
	Y           string   `json:"y"`
}

type jsonResult struct {
	ID         string                        `json:"id"`
	Dataset    string                        `json:"dataset,omitempty"`
	VisualType string                        `json:"visual_type"`
	AxisRange  []string                      `json:"axis_range"`
	Methods    []string                      `json:"methods"`
	Data       map[string][]jsonRow          `json:"data"`
	TableData  map[string]map[string]float64 `json:"table_data,omitempty"`
	Insights   map[string][]string           `json:"insights,omitempty"`
	Warnings   []string                      `json:"warnings,omitempty"`
}

func toJSON(res *correlation.Result) jsonResult {
	out := jsonResult{
		ID:         res.ID,
		Dataset:    res.Dataset,
		VisualType: res.VisualType,
		AxisRange:  res.AxisRange,
		Methods:    res.Methods,
		Data:       make(map[string][]jsonRow, len(res.Data)),
		TableData:  res.TableData,
		Insights:   res.Insights,
		Warnings:   res.Warnings,
	}
	for m, rows := range res.Data {
		conv := make([]jsonRow, len(rows))
		for i, r := range rows {
			conv[i] = jsonRow{X: r.X, Y: r.Y}
			if !math.IsNaN(r.Correlation) && !math.IsInf(r.Correlation, 0) {
				v := r.Correlation
				conv[i].Correlation = &v
			}
		}
		out.Data[m] = conv
	}
	return out
}
