// Package quantise reduces images to a bounded colour palette and classifies
// every pixel against it.
package quantise

import (
	"fmt"

	"github.com/jmylchreest/ryijy/internal/colour"
)

// Pixel is one buffer cell: either an opaque colour or transparent.
type Pixel struct {
	Colour colour.RGB
	Opaque bool
}

// Opaque returns an opaque pixel of colour c.
func Opaque(c colour.RGB) Pixel {
	return Pixel{Colour: c, Opaque: true}
}

// Transparent is the pixel value that carries no colour.
var Transparent = Pixel{}

// PixelBuffer is a rows × columns grid of pixels stored row-major.
type PixelBuffer struct {
	rows, cols int
	pixels     []Pixel
}

// NewPixelBuffer creates a fully transparent buffer.
func NewPixelBuffer(rows, cols int) (*PixelBuffer, error) {
	if rows < 0 || cols < 0 {
		return nil, fmt.Errorf("invalid buffer size %dx%d", cols, rows)
	}
	return &PixelBuffer{rows: rows, cols: cols, pixels: make([]Pixel, rows*cols)}, nil
}

// BufferFromRows builds a buffer from row slices. All rows must have equal length.
func BufferFromRows(rows [][]Pixel) (*PixelBuffer, error) {
	cols := 0
	if len(rows) > 0 {
		cols = len(rows[0])
	}
	buf, err := NewPixelBuffer(len(rows), cols)
	if err != nil {
		return nil, err
	}
	for r, row := range rows {
		if len(row) != cols {
			return nil, fmt.Errorf("row %d has %d columns, expected %d", r, len(row), cols)
		}
		copy(buf.pixels[r*cols:], row)
	}
	return buf, nil
}

// Rows returns the buffer height.
func (b *PixelBuffer) Rows() int { return b.rows }

// Cols returns the buffer width.
func (b *PixelBuffer) Cols() int { return b.cols }

// Len returns the number of cells.
func (b *PixelBuffer) Len() int { return len(b.pixels) }

// At returns the pixel at (row, col).
func (b *PixelBuffer) At(row, col int) Pixel {
	return b.pixels[row*b.cols+col]
}

// Set stores the pixel at (row, col).
func (b *PixelBuffer) Set(row, col int, p Pixel) {
	b.pixels[row*b.cols+col] = p
}

// index returns the pixel at row-major position i.
func (b *PixelBuffer) index(i int) Pixel {
	return b.pixels[i]
}
