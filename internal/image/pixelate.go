package image

import (
	"fmt"
	"image"
	"math"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/image/draw"
)

// Kernel selects the resampling filter used by Pixelate.
type Kernel string

const (
	KernelNearest    Kernel = "nearest"
	KernelBilinear   Kernel = "bilinear"
	KernelCatmullRom Kernel = "catmullrom"
)

// ValidKernels returns the supported resampling kernels.
func ValidKernels() []Kernel {
	return []Kernel{KernelNearest, KernelBilinear, KernelCatmullRom}
}

// ParseKernel converts a string to a Kernel.
func ParseKernel(s string) (Kernel, error) {
	k := Kernel(strings.ToLower(s))
	if slices.Contains(ValidKernels(), k) {
		return k, nil
	}
	return "", fmt.Errorf("invalid kernel: %s (valid: nearest, bilinear, catmullrom)", s)
}

func (k Kernel) scaler() draw.Scaler {
	switch k {
	case KernelNearest:
		return draw.NearestNeighbor
	case KernelCatmullRom:
		return draw.CatmullRom
	default:
		return draw.ApproxBiLinear
	}
}

// Pixelate scales img down to a cols × rows grid, one pixel per knot.
// Cells whose resampled alpha is zero stay transparent.
func Pixelate(img image.Image, cols, rows int, kernel Kernel) (*image.NRGBA, error) {
	if cols < 1 || rows < 1 {
		return nil, fmt.Errorf("grid must be at least 1x1, got %dx%d", cols, rows)
	}
	dst := image.NewNRGBA(image.Rect(0, 0, cols, rows))
	kernel.scaler().Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst, nil
}

// Aspect is the width:height ratio of a single knot.
type Aspect struct {
	W, H float64
}

// Square is the 1:1 knot aspect.
var Square = Aspect{W: 1, H: 1}

// ParseAspect parses "W:H" with positive numbers, such as "1:1" or "2:3".
func ParseAspect(s string) (Aspect, error) {
	if s == "" {
		return Square, nil
	}
	w, h, ok := strings.Cut(s, ":")
	if !ok {
		return Aspect{}, fmt.Errorf("invalid aspect %q: expected W:H", s)
	}
	wv, err := strconv.ParseFloat(strings.TrimSpace(w), 64)
	if err != nil {
		return Aspect{}, fmt.Errorf("invalid aspect %q: %w", s, err)
	}
	hv, err := strconv.ParseFloat(strings.TrimSpace(h), 64)
	if err != nil {
		return Aspect{}, fmt.Errorf("invalid aspect %q: %w", s, err)
	}
	if !(wv > 0 && hv > 0) || math.IsInf(wv, 0) || math.IsInf(hv, 0) {
		return Aspect{}, fmt.Errorf("invalid aspect %q: both sides must be positive", s)
	}
	return Aspect{W: wv, H: hv}, nil
}

// String formats the aspect as "W:H".
func (a Aspect) String() string {
	return strconv.FormatFloat(a.W, 'f', -1, 64) + ":" + strconv.FormatFloat(a.H, 'f', -1, 64)
}

// GridSize returns how many knot columns and rows cover bounds when each knot
// is pixelSize source pixels wide and pixelSize*H/W pixels tall.
func GridSize(bounds image.Rectangle, pixelSize int, aspect Aspect) (cols, rows int, err error) {
	if pixelSize < 1 {
		return 0, 0, fmt.Errorf("pixel size must be at least 1, got %d", pixelSize)
	}
	if !(aspect.W > 0 && aspect.H > 0) {
		return 0, 0, fmt.Errorf("invalid aspect %s", aspect)
	}
	blockW := float64(pixelSize)
	blockH := blockW * aspect.H / aspect.W

	cols = max(1, int(math.Round(float64(bounds.Dx())/blockW)))
	rows = max(1, int(math.Round(float64(bounds.Dy())/blockH)))
	return cols, rows, nil
}
