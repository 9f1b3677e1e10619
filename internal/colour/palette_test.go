package colour

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestNewPalette(t *testing.T) {
	colours := []RGB{
		{R: 255, G: 0, B: 0},
		{R: 0, G: 255, B: 0},
		{R: 0, G: 0, B: 255},
	}

	palette := NewPalette(colours)

	if palette.Len() != 3 {
		t.Errorf("Expected palette length 3, got %d", palette.Len())
	}

	// Mutating the source slice must not leak into the palette.
	colours[0] = RGB{}
	if got := palette.At(0); got != (RGB{R: 255}) {
		t.Errorf("At(0) = %v after source mutation, want red", got)
	}

	// Nor should mutating the copy returned by Colours.
	out := palette.Colours()
	out[1] = RGB{}
	if got := palette.At(1); got != (RGB{G: 255}) {
		t.Errorf("At(1) = %v after Colours() mutation, want green", got)
	}
}

func TestPaletteLen(t *testing.T) {
	tests := []struct {
		name    string
		colours []RGB
		want    int
	}{
		{
			name:    "empty palette",
			colours: []RGB{},
			want:    0,
		},
		{
			name:    "single colour",
			colours: []RGB{{R: 255}},
			want:    1,
		},
		{
			name:    "multiple colours",
			colours: []RGB{{R: 255}, {G: 255}, {B: 255}},
			want:    3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			palette := NewPalette(tt.colours)
			if got := palette.Len(); got != tt.want {
				t.Errorf("Len() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestPaletteGet(t *testing.T) {
	palette := NewPalette([]RGB{{R: 1}, {R: 2}})

	if c, err := palette.Get(1); err != nil || c != (RGB{R: 2}) {
		t.Errorf("Get(1) = %v, %v; want rgb(2, 0, 0), nil", c, err)
	}
	for _, idx := range []int{-1, 2} {
		if _, err := palette.Get(idx); err == nil {
			t.Errorf("Get(%d) expected error", idx)
		}
	}
}

func TestPaletteIndexOf(t *testing.T) {
	palette := NewPalette([]RGB{{R: 10}, {G: 10}, {R: 10}})

	if got := palette.IndexOf(RGB{R: 10}); got != 0 {
		t.Errorf("IndexOf(dup) = %d, want first occurrence 0", got)
	}
	if got := palette.IndexOf(RGB{B: 10}); got != -1 {
		t.Errorf("IndexOf(missing) = %d, want -1", got)
	}
}

func TestPaletteToHex(t *testing.T) {
	palette := NewPalette([]RGB{{R: 255}, {R: 128, G: 128, B: 128}})
	got := palette.ToHex()
	want := []string{"#ff0000", "#808080"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ToHex()[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestPaletteJSON(t *testing.T) {
	palette := NewPalette([]RGB{{R: 255}, {B: 255}})

	data, err := json.Marshal(palette)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if !strings.Contains(string(data), `"hex":"#0000ff"`) {
		t.Errorf("Marshal() = %s, missing blue hex", data)
	}

	var decoded Palette
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if decoded.Len() != 2 || decoded.At(1) != (RGB{B: 255}) {
		t.Errorf("Unmarshal() = %v, want original palette", decoded.Colours())
	}
}

func TestPaletteString(t *testing.T) {
	if got := (Palette{}).String(); got != "Empty palette" {
		t.Errorf("String() = %q, want %q", got, "Empty palette")
	}

	got := NewPalette([]RGB{{R: 255}}).String()
	if !strings.Contains(got, "#ff0000") || !strings.Contains(got, "1 colours") {
		t.Errorf("String() = %q", got)
	}
}

func TestPaletteAll(t *testing.T) {
	palette := NewPalette([]RGB{{R: 1}, {R: 2}, {R: 3}})

	seen := 0
	for i, c := range palette.All() {
		if int(c.R) != i+1 {
			t.Errorf("All() yielded %v at %d", c, i)
		}
		seen++
		if i == 1 {
			break
		}
	}
	if seen != 2 {
		t.Errorf("All() yielded %d items before break, want 2", seen)
	}
}
