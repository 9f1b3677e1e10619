// Package colour provides RGB colour arithmetic and palette types.
package colour

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// ErrEmptyMean is returned when a mean is requested over zero colours.
var ErrEmptyMean = errors.New("mean of an empty colour set")

// RGB represents an opaque colour with 8-bit channels.
type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// String returns the RGB color as a string in the format "rgb(r, g, b)".
func (rgb RGB) String() string {
	return fmt.Sprintf("rgb(%d, %d, %d)", rgb.R, rgb.G, rgb.B)
}

// Hex returns the RGB color as a hex string (e.g., "#1a2b3c").
func (rgb RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", rgb.R, rgb.G, rgb.B)
}

// RGBA implements color.Color so an RGB can be drawn or encoded directly.
func (rgb RGB) RGBA() (r, g, b, a uint32) {
	return color.RGBA{R: rgb.R, G: rgb.G, B: rgb.B, A: 255}.RGBA()
}

// ToRGB converts a color.Color to RGB, discarding alpha.
// Premultiplied colours are un-premultiplied first.
func ToRGB(c color.Color) RGB {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return RGB{R: n.R, G: n.G, B: n.B}
}

// ParseHex parses "#rrggbb", "rrggbb" or the short "#rgb" form.
func ParseHex(s string) (RGB, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	if len(s) != 4 && len(s) != 7 {
		return RGB{}, fmt.Errorf("invalid hex colour %q: expected #rgb or #rrggbb", s)
	}
	c, err := colorful.Hex(strings.ToLower(s))
	if err != nil {
		return RGB{}, fmt.Errorf("invalid hex colour %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return RGB{R: r, G: g, B: b}, nil
}

// Distance returns the Euclidean distance between two colours in RGB space.
func Distance(a, b RGB) float64 {
	return math.Sqrt(float64(DistanceSq(a, b)))
}

// DistanceSq returns the squared Euclidean distance. It orders colours
// identically to Distance and avoids the square root in hot loops.
func DistanceSq(a, b RGB) int {
	dr := int(a.R) - int(b.R)
	dg := int(a.G) - int(b.G)
	db := int(a.B) - int(b.B)
	return dr*dr + dg*dg + db*db
}

// Mean returns the channel-wise mean of the colours, rounded to the nearest integer.
func Mean(colours []RGB) (RGB, error) {
	var acc Accumulator
	for _, c := range colours {
		acc.Add(c)
	}
	return acc.Mean()
}

// Accumulator sums colours so a mean can be taken without keeping the members.
// The zero value is ready to use.
type Accumulator struct {
	r, g, b uint64
	n       uint64
}

// Add adds a colour to the running sum.
func (a *Accumulator) Add(c RGB) {
	a.r += uint64(c.R)
	a.g += uint64(c.G)
	a.b += uint64(c.B)
	a.n++
}

// Count returns how many colours have been added.
func (a *Accumulator) Count() int {
	return int(a.n) // #nosec G115 -- bounded by pixel count
}

// Mean returns the rounded channel-wise mean of everything added so far.
func (a *Accumulator) Mean() (RGB, error) {
	if a.n == 0 {
		return RGB{}, ErrEmptyMean
	}
	n := float64(a.n)
	return RGB{
		R: roundChannel(float64(a.r) / n),
		G: roundChannel(float64(a.g) / n),
		B: roundChannel(float64(a.b) / n),
	}, nil
}

func roundChannel(v float64) uint8 {
	return uint8(math.Max(0, math.Min(255, math.Round(v))))
}

// Brightness returns the perceived brightness (0-255) using the Rec. 601 luma weights.
func Brightness(c RGB) float64 {
	return 0.299*float64(c.R) + 0.587*float64(c.G) + 0.114*float64(c.B)
}

// LabelColour returns black or white, whichever reads better on top of c.
func LabelColour(c RGB) RGB {
	if Brightness(c) > 128 {
		return RGB{}
	}
	return RGB{R: 255, G: 255, B: 255}
}
