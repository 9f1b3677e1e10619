package quantise

import (
	"slices"

	"github.com/jmylchreest/ryijy/internal/colour"
)

// ColourCount is a colour and the number of pixels carrying it.
type ColourCount struct {
	Colour colour.RGB
	Count  int
}

// FrequencyTable holds exact occurrence counts per colour, remembering the
// order in which each colour was first seen.
type FrequencyTable struct {
	index  map[colour.RGB]int
	counts []ColourCount
	total  int
}

// NewFrequencyTable tallies the given colours.
func NewFrequencyTable(colours []colour.RGB) *FrequencyTable {
	ft := &FrequencyTable{index: make(map[colour.RGB]int)}
	for _, c := range colours {
		ft.Add(c)
	}
	return ft
}

// Add counts one more occurrence of c.
func (ft *FrequencyTable) Add(c colour.RGB) {
	if i, ok := ft.index[c]; ok {
		ft.counts[i].Count++
	} else {
		ft.index[c] = len(ft.counts)
		ft.counts = append(ft.counts, ColourCount{Colour: c, Count: 1})
	}
	ft.total++
}

// Count returns the occurrences of c.
func (ft *FrequencyTable) Count(c colour.RGB) int {
	if i, ok := ft.index[c]; ok {
		return ft.counts[i].Count
	}
	return 0
}

// Distinct returns the number of distinct colours.
func (ft *FrequencyTable) Distinct() int {
	return len(ft.counts)
}

// Total returns the number of colours counted.
func (ft *FrequencyTable) Total() int {
	return ft.total
}

// Unique returns the distinct colours in first-seen order.
func (ft *FrequencyTable) Unique() []colour.RGB {
	out := make([]colour.RGB, len(ft.counts))
	for i, cc := range ft.counts {
		out[i] = cc.Colour
	}
	return out
}

// Sorted returns the counts by descending frequency, ties in first-seen order.
func (ft *FrequencyTable) Sorted() []ColourCount {
	sorted := slices.Clone(ft.counts)
	slices.SortStableFunc(sorted, func(a, b ColourCount) int {
		return b.Count - a.Count
	})
	return sorted
}

// Significant returns the most frequent colours whose cumulative count first
// reaches fraction of the total. The colour that crosses the threshold is included.
func (ft *FrequencyTable) Significant(fraction float64) []colour.RGB {
	if ft.total == 0 {
		return nil
	}

	var out []colour.RGB
	cumulative := 0
	for _, cc := range ft.Sorted() {
		out = append(out, cc.Colour)
		cumulative += cc.Count
		if float64(cumulative)/float64(ft.total) >= fraction {
			break
		}
	}
	return out
}
