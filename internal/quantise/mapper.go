package quantise

import (
	"errors"
	"fmt"
	"math"

	"github.com/jmylchreest/ryijy/internal/colour"
)

// ErrEmptyPalette is returned when opaque cells must be mapped onto no colours.
var ErrEmptyPalette = errors.New("palette is empty")

// nearestIndex returns the index of the entry closest to c. Exact ties go to
// the lowest index. entries must not be empty.
func nearestIndex(entries []colour.RGB, c colour.RGB) int {
	best := 0
	bestDist := math.MaxInt
	for i, e := range entries {
		d := colour.DistanceSq(c, e)
		if d < bestDist {
			bestDist = d
			best = i
			if d == 0 {
				break
			}
		}
	}
	return best
}

// Mapper assigns colours to their nearest palette entry.
type Mapper struct {
	// Workers bounds the goroutines used for whole-buffer mapping; 0 means runtime.NumCPU().
	Workers int
}

// Nearest returns the palette index closest to c, lowest index on ties.
func (m Mapper) Nearest(palette colour.Palette, c colour.RGB) (int, error) {
	if palette.Len() == 0 {
		return 0, ErrEmptyPalette
	}
	return nearestIndex(palette.Colours(), c), nil
}

// NearestColour returns the palette entry closest to c.
func (m Mapper) NearestColour(palette colour.Palette, c colour.RGB) (colour.RGB, error) {
	i, err := m.Nearest(palette, c)
	if err != nil {
		return colour.RGB{}, err
	}
	return palette.At(i), nil
}

// Map classifies every cell of buf. Transparent cells stay transparent; an
// empty palette is only accepted for a buffer with no opaque cells.
func (m Mapper) Map(buf *PixelBuffer, palette colour.Palette) (*AssignmentGrid, error) {
	grid := newAssignmentGrid(buf.Rows(), buf.Cols())
	entries := palette.Colours()

	if len(entries) == 0 {
		for i := range buf.Len() {
			if buf.index(i).Opaque {
				return nil, fmt.Errorf("cannot map opaque pixels: %w", ErrEmptyPalette)
			}
		}
		return grid, nil
	}

	parallelFor(buf.Len(), m.Workers, func(start, end int) {
		for i := start; i < end; i++ {
			p := buf.index(i)
			if !p.Opaque {
				continue
			}
			grid.cells[i] = Cell{Index: nearestIndex(entries, p.Colour), Opaque: true}
		}
	})
	return grid, nil
}
