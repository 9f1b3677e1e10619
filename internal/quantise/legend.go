package quantise

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/jmylchreest/ryijy/internal/colour"
)

// IdentifierMode selects how palette entries are labelled on a pattern.
type IdentifierMode string

const (
	// IdentifierLetters labels entries A, B, ..., Z, AA, AB, ...
	IdentifierLetters IdentifierMode = "letters"
	// IdentifierNumbers labels entries 1, 2, 3, ...
	IdentifierNumbers IdentifierMode = "numbers"
	// IdentifierCodes labels entries with their upper-case hex code.
	IdentifierCodes IdentifierMode = "codes"
	// IdentifierNone leaves entries unlabelled.
	IdentifierNone IdentifierMode = "none"
)

// ValidIdentifierModes returns the supported identifier modes.
func ValidIdentifierModes() []IdentifierMode {
	return []IdentifierMode{IdentifierLetters, IdentifierNumbers, IdentifierCodes, IdentifierNone}
}

// ParseIdentifierMode converts a string to an IdentifierMode.
func ParseIdentifierMode(s string) (IdentifierMode, error) {
	mode := IdentifierMode(s)
	if slices.Contains(ValidIdentifierModes(), mode) {
		return mode, nil
	}
	return "", fmt.Errorf("invalid identifier mode: %s (valid: letters, numbers, codes, none)", s)
}

// Identifier returns the label of palette entry index with colour c.
func Identifier(mode IdentifierMode, index int, c colour.RGB) string {
	switch mode {
	case IdentifierLetters:
		return letters(index)
	case IdentifierNumbers:
		return strconv.Itoa(index + 1)
	case IdentifierCodes:
		return strings.ToUpper(strings.TrimPrefix(c.Hex(), "#"))
	default:
		return ""
	}
}

// letters converts a zero-based index to spreadsheet-style column letters.
func letters(index int) string {
	var b []byte
	for n := index + 1; n > 0; n = (n - 1) / 26 {
		b = append(b, byte('A'+(n-1)%26))
	}
	slices.Reverse(b)
	return string(b)
}

// LegendEntry describes one palette colour and how many knots use it.
type LegendEntry struct {
	Index      int        `json:"index"`
	Colour     colour.RGB `json:"rgb"`
	Hex        string     `json:"hex"`
	Identifier string     `json:"identifier,omitempty"`
	Count      int        `json:"count"`
}

// Legend lists every palette entry in palette order with its usage count in grid.
func Legend(palette colour.Palette, grid *AssignmentGrid, mode IdentifierMode) []LegendEntry {
	counts := grid.Counts(palette.Len())
	entries := make([]LegendEntry, palette.Len())
	for i, c := range palette.All() {
		entries[i] = LegendEntry{
			Index:      i,
			Colour:     c,
			Hex:        c.Hex(),
			Identifier: Identifier(mode, i, c),
			Count:      counts[i],
		}
	}
	return entries
}
