package quantise

import (
	"math/rand"

	"github.com/jmylchreest/ryijy/internal/colour"
)

// Extraction holds the opaque pixels of a buffer and a bounded uniform sample of them.
type Extraction struct {
	// Opaque lists every opaque pixel colour in row-major order.
	Opaque []colour.RGB
	// Sample holds min(cap, len(Opaque)) colours drawn uniformly without replacement.
	Sample []colour.RGB
}

// Extract walks the buffer once, skipping transparent cells, and fills a
// reservoir of at most sampleCap colours (Algorithm R). When the buffer has no
// more than sampleCap opaque pixels the sample is the opaque sequence itself.
func Extract(buf *PixelBuffer, sampleCap int, rng *rand.Rand) Extraction {
	opaque := make([]colour.RGB, 0, buf.Len())
	reservoir := make([]colour.RGB, 0, min(sampleCap, buf.Len()))

	seen := 0
	for i := range buf.Len() {
		p := buf.index(i)
		if !p.Opaque {
			continue
		}
		opaque = append(opaque, p.Colour)

		if seen < sampleCap {
			reservoir = append(reservoir, p.Colour)
		} else if j := rng.Intn(seen + 1); j < sampleCap {
			reservoir[j] = p.Colour
		}
		seen++
	}

	return Extraction{Opaque: opaque, Sample: reservoir}
}
