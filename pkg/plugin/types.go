package plugin

// RGBColour represents an RGB color.
type RGBColour struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// LegendEntry describes one palette colour of a pattern.
type LegendEntry struct {
	Index      int       `json:"index"`
	RGB        RGBColour `json:"rgb"`
	Hex        string    `json:"hex"`
	Identifier string    `json:"identifier,omitempty"`
	Count      int       `json:"count"`
	// LabelHex is black or white, whichever reads better on this colour.
	LabelHex string `json:"label_hex"`
}

// PatternData is the pattern sent to renderer plugins.
type PatternData struct {
	Columns int           `json:"columns"`
	Rows    int           `json:"rows"`
	Legend  []LegendEntry `json:"legend"`
	// Cells holds a legend index per knot, or -1 for an empty knot.
	Cells [][]int `json:"cells"`
	Seed  int64   `json:"seed"`
	// Title is a display name for the pattern, usually the source file name.
	Title string `json:"title,omitempty"`
	// Settings passes physical settings (aspect, border colour, knot size) through untouched.
	Settings   map[string]string `json:"settings,omitempty"`
	PluginArgs map[string]any    `json:"plugin_args,omitempty"`
}

// EmptyCell marks a knot with no colour in PatternData.Cells.
const EmptyCell = -1
