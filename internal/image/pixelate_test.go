package image

import (
	"image"
	"image/color"
	"testing"
)

func TestParseAspect(t *testing.T) {
	tests := []struct {
		in      string
		want    Aspect
		wantErr bool
	}{
		{in: "", want: Square},
		{in: "1:1", want: Square},
		{in: "2:3", want: Aspect{W: 2, H: 3}},
		{in: " 1.5 : 1 ", want: Aspect{W: 1.5, H: 1}},
		{in: "3", wantErr: true},
		{in: "0:1", wantErr: true},
		{in: "1:-2", wantErr: true},
		{in: "a:b", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseAspect(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseAspect(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseAspect(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestGridSize(t *testing.T) {
	tests := []struct {
		name      string
		w, h      int
		pixelSize int
		aspect    Aspect
		wantCols  int
		wantRows  int
		wantErr   bool
	}{
		{name: "square knots", w: 300, h: 150, pixelSize: 30, aspect: Square, wantCols: 10, wantRows: 5},
		{name: "tall knots", w: 300, h: 300, pixelSize: 30, aspect: Aspect{W: 1, H: 2}, wantCols: 10, wantRows: 5},
		{name: "rounds", w: 100, h: 100, pixelSize: 30, aspect: Square, wantCols: 3, wantRows: 3},
		{name: "at least one", w: 5, h: 5, pixelSize: 30, aspect: Square, wantCols: 1, wantRows: 1},
		{name: "zero pixel size", w: 10, h: 10, pixelSize: 0, aspect: Square, wantErr: true},
		{name: "bad aspect", w: 10, h: 10, pixelSize: 1, aspect: Aspect{}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cols, rows, err := GridSize(image.Rect(0, 0, tt.w, tt.h), tt.pixelSize, tt.aspect)
			if (err != nil) != tt.wantErr {
				t.Fatalf("GridSize() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && (cols != tt.wantCols || rows != tt.wantRows) {
				t.Errorf("GridSize() = %d, %d; want %d, %d", cols, rows, tt.wantCols, tt.wantRows)
			}
		})
	}
}

func TestPixelate(t *testing.T) {
	// Left half red, right half fully transparent.
	src := image.NewNRGBA(image.Rect(0, 0, 8, 4))
	for y := range 4 {
		for x := range 4 {
			src.SetNRGBA(x, y, color.NRGBA{R: 255, A: 255})
		}
	}

	for _, kernel := range ValidKernels() {
		t.Run(string(kernel), func(t *testing.T) {
			dst, err := Pixelate(src, 2, 1, kernel)
			if err != nil {
				t.Fatalf("Pixelate() error = %v", err)
			}
			if dst.Bounds().Dx() != 2 || dst.Bounds().Dy() != 1 {
				t.Fatalf("Pixelate() bounds = %v, want 2x1", dst.Bounds())
			}
			if got := dst.NRGBAAt(0, 0); got.R < 200 || got.A == 0 {
				t.Errorf("left knot = %v, want red", got)
			}
		})
	}

	dst, err := Pixelate(src, 2, 1, KernelNearest)
	if err != nil {
		t.Fatalf("Pixelate() error = %v", err)
	}
	if got := dst.NRGBAAt(1, 0); got.A != 0 {
		t.Errorf("right knot = %v, want transparent", got)
	}

	if _, err := Pixelate(src, 0, 1, KernelNearest); err == nil {
		t.Error("Pixelate(0 cols) expected error")
	}
}

func TestParseKernel(t *testing.T) {
	if k, err := ParseKernel("CatmullRom"); err != nil || k != KernelCatmullRom {
		t.Errorf("ParseKernel(CatmullRom) = %q, %v", k, err)
	}
	if _, err := ParseKernel("lanczos"); err == nil {
		t.Error("ParseKernel(lanczos) expected error")
	}
}
