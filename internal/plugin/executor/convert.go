package executor

import (
	"fmt"

	"github.com/jmylchreest/ryijy/internal/colour"
	"github.com/jmylchreest/ryijy/internal/pattern"
	pluginapi "github.com/jmylchreest/ryijy/pkg/plugin"
)

// PatternData converts a pattern document into the plugin wire form.
func PatternData(doc *pattern.Document, title string) (pluginapi.PatternData, error) {
	palette, grid, err := doc.Resolve()
	if err != nil {
		return pluginapi.PatternData{}, fmt.Errorf("failed to resolve pattern: %w", err)
	}

	legend := make([]pluginapi.LegendEntry, len(doc.Palette))
	for i, e := range doc.Palette {
		c := palette.At(i)
		legend[i] = pluginapi.LegendEntry{
			Index:      i,
			RGB:        pluginapi.RGBColour{R: c.R, G: c.G, B: c.B},
			Hex:        c.Hex(),
			Identifier: e.Identifier,
			Count:      e.Count,
			LabelHex:   colour.LabelColour(c).Hex(),
		}
	}

	cells := make([][]int, grid.Rows())
	for r := range grid.Rows() {
		row := make([]int, grid.Cols())
		for c := range grid.Cols() {
			row[c] = pluginapi.EmptyCell
			if idx, ok := grid.At(r, c); ok {
				row[c] = idx
			}
		}
		cells[r] = row
	}

	return pluginapi.PatternData{
		Columns:  grid.Cols(),
		Rows:     grid.Rows(),
		Legend:   legend,
		Cells:    cells,
		Seed:     doc.Seed,
		Title:    title,
		Settings: doc.Settings,
	}, nil
}
