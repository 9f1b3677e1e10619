// Package pattern persists reduced images as pattern documents: the palette,
// its legend and the knot grid, optionally xz-compressed.
package pattern

import (
	"errors"
	"fmt"
	"time"

	"github.com/jmylchreest/ryijy/internal/colour"
	"github.com/jmylchreest/ryijy/internal/quantise"
)

// FormatVersion is the document version written by this package.
const FormatVersion = 1

// ErrInvalidDocument is wrapped by every structural validation failure.
var ErrInvalidDocument = errors.New("invalid pattern document")

// Document is the on-disk form of a pattern.
type Document struct {
	Version int                    `json:"version"`
	Columns int                    `json:"columns"`
	Rows    int                    `json:"rows"`
	Palette []quantise.LegendEntry `json:"palette"`
	// Cells holds one palette index per knot; null marks an empty (transparent) knot.
	Cells [][]*int `json:"cells"`
	Seed  int64    `json:"seed"`

	Identifiers quantise.IdentifierMode `json:"identifiers,omitempty"`
	Source      string                  `json:"source,omitempty"`
	Created     time.Time               `json:"created,omitzero"`
	// Settings carries physical settings (aspect, border, knot size) through to renderers.
	Settings map[string]string `json:"settings,omitempty"`
	Stats    *quantise.Stats   `json:"stats,omitempty"`
}

// New builds a document from a palette and grid, labelling entries with mode.
func New(palette colour.Palette, grid *quantise.AssignmentGrid, mode quantise.IdentifierMode, seed int64) *Document {
	doc := &Document{Version: FormatVersion, Seed: seed, Identifiers: mode}
	doc.SetGrid(palette, grid)
	return doc
}

// FromResult builds a document from a reduction result.
func FromResult(res *quantise.Result, mode quantise.IdentifierMode) *Document {
	doc := New(res.Palette, res.Grid, mode, res.Seed)
	stats := res.Stats
	doc.Stats = &stats
	return doc
}

// SetGrid replaces the palette, legend and cells, keeping the metadata.
func (d *Document) SetGrid(palette colour.Palette, grid *quantise.AssignmentGrid) {
	d.Columns = grid.Cols()
	d.Rows = grid.Rows()
	d.Palette = quantise.Legend(palette, grid, d.Identifiers)

	d.Cells = make([][]*int, grid.Rows())
	for r := range grid.Rows() {
		row := make([]*int, grid.Cols())
		for c := range grid.Cols() {
			if idx, ok := grid.At(r, c); ok {
				row[c] = &idx
			}
		}
		d.Cells[r] = row
	}
}

// ColourPalette returns the document palette. The hex code is authoritative;
// rgb is used when hex is absent.
func (d *Document) ColourPalette() (colour.Palette, error) {
	entries := make([]colour.RGB, len(d.Palette))
	for i, e := range d.Palette {
		if e.Index != i {
			return colour.Palette{}, fmt.Errorf("%w: palette entry %d has index %d", ErrInvalidDocument, i, e.Index)
		}
		if e.Hex == "" {
			entries[i] = e.Colour
			continue
		}
		c, err := colour.ParseHex(e.Hex)
		if err != nil {
			return colour.Palette{}, fmt.Errorf("%w: palette entry %d: %w", ErrInvalidDocument, i, err)
		}
		entries[i] = c
	}
	return colour.NewPalette(entries), nil
}

// Grid returns the knot grid, checking every index against the palette.
func (d *Document) Grid() (*quantise.AssignmentGrid, error) {
	if len(d.Cells) != d.Rows {
		return nil, fmt.Errorf("%w: %d cell rows, header says %d", ErrInvalidDocument, len(d.Cells), d.Rows)
	}

	rows := make([][]quantise.Cell, len(d.Cells))
	for r, src := range d.Cells {
		if len(src) != d.Columns {
			return nil, fmt.Errorf("%w: row %d has %d cells, header says %d", ErrInvalidDocument, r, len(src), d.Columns)
		}
		row := make([]quantise.Cell, len(src))
		for c, idx := range src {
			if idx != nil {
				row[c] = quantise.Cell{Index: *idx, Opaque: true}
			}
		}
		rows[r] = row
	}

	grid, err := quantise.GridFromRows(rows, len(d.Palette))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	return grid, nil
}

// Validate checks the document is internally consistent.
func (d *Document) Validate() error {
	if d.Version < 1 || d.Version > FormatVersion {
		return fmt.Errorf("%w: unsupported version %d", ErrInvalidDocument, d.Version)
	}
	if d.Columns < 0 || d.Rows < 0 {
		return fmt.Errorf("%w: negative size %dx%d", ErrInvalidDocument, d.Columns, d.Rows)
	}
	if _, err := d.ColourPalette(); err != nil {
		return err
	}
	_, err := d.Grid()
	return err
}

// Resolve validates the document and returns its palette and grid.
func (d *Document) Resolve() (colour.Palette, *quantise.AssignmentGrid, error) {
	if err := d.Validate(); err != nil {
		return colour.Palette{}, nil, err
	}
	palette, err := d.ColourPalette()
	if err != nil {
		return colour.Palette{}, nil, err
	}
	grid, err := d.Grid()
	if err != nil {
		return colour.Palette{}, nil, err
	}
	return palette, grid, nil
}
