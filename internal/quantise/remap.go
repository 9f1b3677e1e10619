package quantise

import (
	"fmt"

	"github.com/jmylchreest/ryijy/internal/colour"
)

// Remap moves every knot of grid, coloured by from, onto its nearest entry in to.
// The grid's colours need not belong to to.
func (m Mapper) Remap(grid *AssignmentGrid, from, to colour.Palette) (*AssignmentGrid, error) {
	buf, err := grid.Render(from)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve grid colours: %w", err)
	}
	return m.Map(buf, to)
}

// ReduceGrid re-runs the reduction over an already quantised grid, for example
// to shrink a finished pattern to fewer colours.
func ReduceGrid(grid *AssignmentGrid, palette colour.Palette, opts Options) (*Result, error) {
	buf, err := grid.Render(palette)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve grid colours: %w", err)
	}
	return Reduce(buf, opts)
}
