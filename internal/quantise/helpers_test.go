package quantise

import (
	"math/rand"
	"testing"

	"github.com/jmylchreest/ryijy/internal/colour"
)

var (
	red   = colour.RGB{R: 255}
	green = colour.RGB{G: 255}
	blue  = colour.RGB{B: 255}
)

// mustBuffer builds a buffer from rows of pixels, failing the test on error.
func mustBuffer(t *testing.T, rows [][]Pixel) *PixelBuffer {
	t.Helper()
	buf, err := BufferFromRows(rows)
	if err != nil {
		t.Fatalf("BufferFromRows() error = %v", err)
	}
	return buf
}

// randomBuffer fills a buffer with noisy colours; roughly one cell in
// transparentEvery is left transparent (0 disables transparency).
func randomBuffer(t *testing.T, rng *rand.Rand, rows, cols, transparentEvery int) *PixelBuffer {
	t.Helper()
	buf, err := NewPixelBuffer(rows, cols)
	if err != nil {
		t.Fatalf("NewPixelBuffer() error = %v", err)
	}
	for r := range rows {
		for c := range cols {
			if transparentEvery > 0 && rng.Intn(transparentEvery) == 0 {
				continue
			}
			buf.Set(r, c, Opaque(colour.RGB{
				R: uint8(rng.Intn(256)), // #nosec G115 -- bounded
				G: uint8(rng.Intn(256)), // #nosec G115 -- bounded
				B: uint8(rng.Intn(256)), // #nosec G115 -- bounded
			}))
		}
	}
	return buf
}

func seedPtr(v int64) *int64 { return &v }
