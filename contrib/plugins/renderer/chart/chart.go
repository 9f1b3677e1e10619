package main

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"maps"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"text/template"
	"unicode/utf8"

	"github.com/jmylchreest/ryijy/pkg/plugin"
)

const (
	Version = "0.0.1"
	Name    = "chart"

	defaultEmpty = "."
)

var legendTemplate = template.Must(template.New("legend").Parse(`{{ .Title }}
{{ .Columns }} x {{ .Rows }} knots, {{ len .Legend }} yarns, seed {{ .Seed }}
{{ range .Settings }}{{ .Key }}: {{ .Value }}
{{ end }}
{{ range .Legend }}{{ printf "%-4s" .Label }} {{ .Hex }}  {{ printf "%6d" .Count }}
{{ end }}`))

type legendLine struct {
	Label string
	Hex   string
	Count int
}

type setting struct {
	Key, Value string
}

type legendView struct {
	Title    string
	Columns  int
	Rows     int
	Seed     int64
	Settings []setting
	Legend   []legendLine
}

// ChartRenderer implements plugin.Renderer.
type ChartRenderer struct{}

// GetMetadata returns the plugin metadata.
func (r *ChartRenderer) GetMetadata() plugin.PluginInfo {
	return plugin.PluginInfo{
		Name:            Name,
		Version:         Version,
		ProtocolVersion: plugin.ProtocolVersion,
		Description:     "Knot chart as CSV plus a plain-text yarn legend",
		Formats:         []string{"csv", "txt"},
	}
}

// Render writes <title>.csv and <title>-legend.txt.
func (r *ChartRenderer) Render(ctx context.Context, pattern plugin.PatternData) (map[string][]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	separator, err := stringArg(pattern.PluginArgs, "separator", ",")
	if err != nil {
		return nil, err
	}
	sep, size := utf8.DecodeRuneInString(separator)
	if separator == "" || size != len(separator) {
		return nil, fmt.Errorf("separator must be a single character, got %q", separator)
	}
	empty, err := stringArg(pattern.PluginArgs, "empty", defaultEmpty)
	if err != nil {
		return nil, err
	}

	labels := make([]string, len(pattern.Legend))
	for i, e := range pattern.Legend {
		labels[i] = label(e)
	}

	grid, err := renderGrid(pattern, labels, sep, empty)
	if err != nil {
		return nil, err
	}
	legend, err := renderLegend(pattern, labels)
	if err != nil {
		return nil, err
	}

	base := fileBase(pattern.Title)
	return map[string][]byte{
		base + ".csv":        grid,
		base + "-legend.txt": legend,
	}, nil
}

func renderGrid(pattern plugin.PatternData, labels []string, sep rune, empty string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Comma = sep

	for r, row := range pattern.Cells {
		record := make([]string, len(row))
		for c, idx := range row {
			switch {
			case idx == plugin.EmptyCell:
				record[c] = empty
			case idx >= 0 && idx < len(labels):
				record[c] = labels[idx]
			default:
				return nil, fmt.Errorf("cell (%d, %d) references unknown yarn %d", r, c, idx)
			}
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", r, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to write chart: %w", err)
	}
	return buf.Bytes(), nil
}

func renderLegend(pattern plugin.PatternData, labels []string) ([]byte, error) {
	view := legendView{
		Title:   pattern.Title,
		Columns: pattern.Columns,
		Rows:    pattern.Rows,
		Seed:    pattern.Seed,
		Legend:  make([]legendLine, len(pattern.Legend)),
	}
	if view.Title == "" {
		view.Title = "pattern"
	}
	for i, e := range pattern.Legend {
		view.Legend[i] = legendLine{Label: labels[i], Hex: e.Hex, Count: e.Count}
	}
	for _, k := range slices.Sorted(maps.Keys(pattern.Settings)) {
		view.Settings = append(view.Settings, setting{Key: k, Value: pattern.Settings[k]})
	}

	var buf bytes.Buffer
	if err := legendTemplate.Execute(&buf, view); err != nil {
		return nil, fmt.Errorf("failed to render legend: %w", err)
	}
	return buf.Bytes(), nil
}

// label returns the identifier of e, or its one-based number when unlabelled.
func label(e plugin.LegendEntry) string {
	if e.Identifier != "" {
		return e.Identifier
	}
	return strconv.Itoa(e.Index + 1)
}

// fileBase turns a title into a safe file name stem.
func fileBase(title string) string {
	base := strings.TrimSpace(filepath.Base(title))
	base = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '/', '\\', ':':
			return '-'
		}
		return r
	}, base)
	if base == "" || base == "." || base == ".." {
		return "pattern"
	}
	return base
}

func stringArg(args map[string]any, key, def string) (string, error) {
	v, ok := args[key]
	if !ok {
		return def, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("plugin arg %s must be a string, got %T", key, v)
	}
	return s, nil
}
