package quantise

import (
	"fmt"
	"math/rand"

	"github.com/hashicorp/go-hclog"

	"github.com/jmylchreest/ryijy/internal/colour"
	"github.com/jmylchreest/ryijy/internal/seed"
)

// Options configures a palette reduction.
type Options struct {
	// K is the target palette size.
	K int `json:"k"`
	// SamplingCap bounds how many pixels k-means clusters over.
	SamplingCap int `json:"sampling_cap"`
	// SignificanceFraction is the cumulative pixel mass the significant colours must cover.
	SignificanceFraction float64 `json:"significance_fraction"`
	// MergeThreshold is the distance below which centroids are merged; 0 disables merging.
	MergeThreshold float64 `json:"merge_threshold"`
	// Seed makes sampling and clustering reproducible. Nil picks a random seed.
	Seed *int64 `json:"seed,omitempty"`
	// Workers bounds per-pixel parallelism; 0 means runtime.NumCPU().
	Workers int `json:"-"`

	Logger hclog.Logger `json:"-"`
}

// DefaultOptions returns the default reduction options.
func DefaultOptions() Options {
	return Options{
		K:                    30,
		SamplingCap:          10000,
		SignificanceFraction: 0.99,
		MergeThreshold:       25,
	}
}

// Validate checks the options, wrapping ErrInvalidConfiguration on failure.
func (o Options) Validate() error {
	if o.K < 1 {
		return fmt.Errorf("%w: colour count must be at least 1, got %d", ErrInvalidConfiguration, o.K)
	}
	if o.SamplingCap < 1 {
		return fmt.Errorf("%w: sampling cap must be at least 1, got %d", ErrInvalidConfiguration, o.SamplingCap)
	}
	if !(o.SignificanceFraction > 0 && o.SignificanceFraction <= 1) {
		return fmt.Errorf("%w: significance fraction must be in (0, 1], got %v", ErrInvalidConfiguration, o.SignificanceFraction)
	}
	if !(o.MergeThreshold >= 0) {
		return fmt.Errorf("%w: merge threshold must not be negative, got %v", ErrInvalidConfiguration, o.MergeThreshold)
	}
	return nil
}

// Stats describes how a reduction went.
type Stats struct {
	OpaquePixels       int  `json:"opaque_pixels"`
	DistinctColours    int  `json:"distinct_colours"`
	SampleSize         int  `json:"sample_size"`
	SignificantColours int  `json:"significant_colours"`
	Clustered          bool `json:"clustered"`
	Rounds             int  `json:"rounds,omitempty"`
	Converged          bool `json:"converged,omitempty"`
	Reseeded           int  `json:"reseeded,omitempty"`
	Merged             int  `json:"merged,omitempty"`
}

// Result is the palette and grid produced by Reduce.
type Result struct {
	Palette colour.Palette
	Grid    *AssignmentGrid
	// Seed is the seed actually used, recorded so the run can be repeated.
	Seed  int64
	Stats Stats
}

// Reduce picks at most opts.K colours for buf and assigns every opaque cell
// to one of them.
//
// When the significant colours already fit in K they are used as-is.
// Otherwise k-means runs over a bounded pixel sample and near-duplicate
// centroids are merged. A buffer with no opaque pixels yields an empty
// palette and an all-transparent grid.
func Reduce(buf *PixelBuffer, opts Options) (*Result, error) {
	if buf == nil {
		return nil, fmt.Errorf("%w: pixel buffer is nil", ErrInvalidConfiguration)
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	runSeed := seed.Random()
	if opts.Seed != nil {
		runSeed = *opts.Seed
	}
	rng := rand.New(rand.NewSource(runSeed)) // #nosec G404 -- reproducible clustering, not security

	ext := Extract(buf, opts.SamplingCap, rng)
	result := &Result{Seed: runSeed}
	result.Stats.OpaquePixels = len(ext.Opaque)
	result.Stats.SampleSize = len(ext.Sample)

	mapper := Mapper{Workers: opts.Workers}

	if len(ext.Opaque) == 0 {
		logger.Debug("no opaque pixels, returning empty palette", "rows", buf.Rows(), "cols", buf.Cols())
		grid, err := mapper.Map(buf, colour.Palette{})
		if err != nil {
			return nil, err
		}
		result.Grid = grid
		return result, nil
	}

	freq := NewFrequencyTable(ext.Opaque)
	significant := freq.Significant(opts.SignificanceFraction)
	result.Stats.DistinctColours = freq.Distinct()
	result.Stats.SignificantColours = len(significant)

	logger.Debug("analysed pixels", "opaque", len(ext.Opaque), "distinct", freq.Distinct(),
		"significant", len(significant), "sample", len(ext.Sample), "seed", runSeed)

	var entries []colour.RGB
	if len(significant) <= opts.K {
		logger.Debug("significant colours fit the budget, skipping clustering", "k", opts.K)
		entries = significant
	} else {
		km := &KMeans{MaxRounds: DefaultMaxRounds, Workers: opts.Workers, Logger: logger}
		clusters, err := km.Cluster(ext.Sample, opts.K, rng)
		if err != nil {
			return nil, fmt.Errorf("failed to cluster colours: %w", err)
		}
		result.Stats.Clustered = true
		result.Stats.Rounds = clusters.Rounds
		result.Stats.Converged = clusters.Converged
		result.Stats.Reseeded = clusters.Reseeded

		merged, merges, err := Merger{Threshold: opts.MergeThreshold}.Merge(clusters.Centroids)
		if err != nil {
			return nil, fmt.Errorf("failed to merge palette: %w", err)
		}
		result.Stats.Merged = merges
		entries = dedupe(merged)

		logger.Debug("clustered palette", "centroids", len(clusters.Centroids), "merges", merges, "final", len(entries))
	}

	result.Palette = colour.NewPalette(entries)
	grid, err := mapper.Map(buf, result.Palette)
	if err != nil {
		return nil, fmt.Errorf("failed to map pixels: %w", err)
	}
	result.Grid = grid
	return result, nil
}
