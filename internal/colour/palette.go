// Package colour provides RGB colour arithmetic and palette types.
package colour

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Palette is an ordered, immutable list of colours.
// The zero value is an empty palette.
type Palette struct {
	colours []RGB
}

// NewPalette creates a Palette holding a copy of the given colours.
func NewPalette(colours []RGB) Palette {
	cp := make([]RGB, len(colours))
	copy(cp, colours)
	return Palette{colours: cp}
}

// Len returns the number of colours in the palette.
func (p Palette) Len() int {
	return len(p.colours)
}

// At returns the colour at index i. It panics if i is out of range.
func (p Palette) At(i int) RGB {
	return p.colours[i]
}

// Get returns the color at the specified index.
// Returns an error if the index is out of bounds.
func (p Palette) Get(index int) (RGB, error) {
	if index < 0 || index >= len(p.colours) {
		return RGB{}, fmt.Errorf("index out of bounds: %d (palette has %d colours)", index, len(p.colours))
	}
	return p.colours[index], nil
}

// Colours returns a copy of the palette entries.
func (p Palette) Colours() []RGB {
	cp := make([]RGB, len(p.colours))
	copy(cp, p.colours)
	return cp
}

// IndexOf returns the index of the first entry equal to c, or -1.
func (p Palette) IndexOf(c RGB) int {
	for i, pc := range p.colours {
		if pc == c {
			return i
		}
	}
	return -1
}

// All returns an iterator over all colours in the palette.
func (p Palette) All() func(func(int, RGB) bool) {
	return func(yield func(int, RGB) bool) {
		for i, c := range p.colours {
			if !yield(i, c) {
				return
			}
		}
	}
}

// ToHex converts the palette colors to hex strings.
func (p Palette) ToHex() []string {
	hexColours := make([]string, len(p.colours))
	for i, c := range p.colours {
		hexColours[i] = c.Hex()
	}
	return hexColours
}

// ColourJSON represents a colour in JSON output format.
type ColourJSON struct {
	Hex string `json:"hex"`
	RGB RGB    `json:"rgb"`
}

// PaletteJSON represents the palette in JSON format.
type PaletteJSON struct {
	Count   int          `json:"count"`
	Colours []ColourJSON `json:"colours"`
}

// MarshalJSON encodes the palette with hex and channel values per entry.
func (p Palette) MarshalJSON() ([]byte, error) {
	colours := make([]ColourJSON, len(p.colours))
	for i, c := range p.colours {
		colours[i] = ColourJSON{Hex: c.Hex(), RGB: c}
	}
	return json.Marshal(PaletteJSON{Count: len(p.colours), Colours: colours})
}

// UnmarshalJSON decodes the format written by MarshalJSON.
func (p *Palette) UnmarshalJSON(data []byte) error {
	var pj PaletteJSON
	if err := json.Unmarshal(data, &pj); err != nil {
		return err
	}
	colours := make([]RGB, len(pj.Colours))
	for i, c := range pj.Colours {
		colours[i] = c.RGB
	}
	p.colours = colours
	return nil
}

// String returns a human-readable string representation of the palette.
func (p Palette) String() string {
	if len(p.colours) == 0 {
		return "Empty palette"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Palette with %d colours:\n", len(p.colours))
	for i, c := range p.colours {
		fmt.Fprintf(&b, "  %2d: %s (%s)\n", i+1, c.Hex(), c.String())
	}
	return b.String()
}
