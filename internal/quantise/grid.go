package quantise

import (
	"fmt"

	"github.com/jmylchreest/ryijy/internal/colour"
)

// Cell is one knot of an AssignmentGrid: a palette index, or nothing.
type Cell struct {
	Index  int
	Opaque bool
}

// AssignmentGrid maps each cell of a pixel buffer to a palette index or to transparent.
type AssignmentGrid struct {
	rows, cols int
	cells      []Cell
}

func newAssignmentGrid(rows, cols int) *AssignmentGrid {
	return &AssignmentGrid{rows: rows, cols: cols, cells: make([]Cell, rows*cols)}
}

// GridFromRows builds a grid from explicit rows, checking indices against paletteLen.
func GridFromRows(rows [][]Cell, paletteLen int) (*AssignmentGrid, error) {
	cols := 0
	if len(rows) > 0 {
		cols = len(rows[0])
	}
	grid := newAssignmentGrid(len(rows), cols)
	for r, row := range rows {
		if len(row) != cols {
			return nil, fmt.Errorf("row %d has %d columns, expected %d", r, len(row), cols)
		}
		for c, cell := range row {
			if cell.Opaque && (cell.Index < 0 || cell.Index >= paletteLen) {
				return nil, fmt.Errorf("cell (%d, %d) references palette index %d (palette has %d colours)",
					r, c, cell.Index, paletteLen)
			}
			grid.cells[r*cols+c] = cell
		}
	}
	return grid, nil
}

// Rows returns the grid height.
func (g *AssignmentGrid) Rows() int { return g.rows }

// Cols returns the grid width.
func (g *AssignmentGrid) Cols() int { return g.cols }

// At returns the palette index at (row, col) and whether the cell holds a knot.
func (g *AssignmentGrid) At(row, col int) (int, bool) {
	c := g.cells[row*g.cols+col]
	return c.Index, c.Opaque
}

// Cell returns the raw cell at (row, col).
func (g *AssignmentGrid) Cell(row, col int) Cell {
	return g.cells[row*g.cols+col]
}

// Counts returns how many cells use each palette index.
func (g *AssignmentGrid) Counts(paletteLen int) []int {
	counts := make([]int, paletteLen)
	for _, c := range g.cells {
		if c.Opaque && c.Index < paletteLen {
			counts[c.Index]++
		}
	}
	return counts
}

// OpaqueCount returns the number of cells that hold a knot.
func (g *AssignmentGrid) OpaqueCount() int {
	n := 0
	for _, c := range g.cells {
		if c.Opaque {
			n++
		}
	}
	return n
}

// Render resolves the grid against palette into a pixel buffer.
func (g *AssignmentGrid) Render(palette colour.Palette) (*PixelBuffer, error) {
	buf, err := NewPixelBuffer(g.rows, g.cols)
	if err != nil {
		return nil, err
	}
	for i, c := range g.cells {
		if !c.Opaque {
			continue
		}
		if c.Index >= palette.Len() {
			return nil, fmt.Errorf("grid index %d outside palette of %d colours", c.Index, palette.Len())
		}
		buf.pixels[i] = Opaque(palette.At(c.Index))
	}
	return buf, nil
}
