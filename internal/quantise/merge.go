package quantise

import (
	"fmt"
	"math"

	"github.com/jmylchreest/ryijy/internal/colour"
)

// MinMergedSize is the palette size below which merging never goes.
const MinMergedSize = 2

// Merger collapses palette entries that sit closer together than Threshold.
type Merger struct {
	// Threshold is the Euclidean RGB distance below which two entries merge.
	// Zero disables merging.
	Threshold float64
}

// Merge repeatedly replaces the closest pair of entries with their rounded
// mean while that pair is closer than the threshold and more than
// MinMergedSize entries remain. The merged colour takes the slot of the first
// entry of the pair. It returns the new palette and the number of merges.
func (m Merger) Merge(entries []colour.RGB) ([]colour.RGB, int, error) {
	current := make([]colour.RGB, len(entries))
	copy(current, entries)

	merges := 0
	for len(current) > MinMergedSize {
		i, j, dist := closestPair(current)
		if dist >= m.Threshold {
			break
		}

		merged, err := colour.Mean([]colour.RGB{current[i], current[j]})
		if err != nil {
			return nil, merges, fmt.Errorf("%w: merging %d and %d: %w", ErrInternal, i, j, err)
		}

		next := make([]colour.RGB, 0, len(current)-1)
		for idx, c := range current {
			switch idx {
			case i:
				next = append(next, merged)
			case j:
			default:
				next = append(next, c)
			}
		}
		current = next
		merges++
	}

	return current, merges, nil
}

// closestPair returns the first pair (in index order) at minimum distance.
func closestPair(entries []colour.RGB) (int, int, float64) {
	bestI, bestJ := 0, 1
	best := math.MaxInt
	for i := 0; i < len(entries); i++ {
		for j := i + 1; j < len(entries); j++ {
			if d := colour.DistanceSq(entries[i], entries[j]); d < best {
				best = d
				bestI, bestJ = i, j
			}
		}
	}
	return bestI, bestJ, math.Sqrt(float64(best))
}

// dedupe drops exact repeats, keeping first occurrences in order.
func dedupe(entries []colour.RGB) []colour.RGB {
	seen := make(map[colour.RGB]struct{}, len(entries))
	out := make([]colour.RGB, 0, len(entries))
	for _, c := range entries {
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}
