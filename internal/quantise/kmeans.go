package quantise

import (
	"fmt"
	"math/rand"

	"github.com/hashicorp/go-hclog"

	"github.com/jmylchreest/ryijy/internal/colour"
)

// DefaultMaxRounds is the fixed Lloyd iteration budget.
const DefaultMaxRounds = 10

// KMeans clusters colours with Lloyd's algorithm over a bounded number of rounds.
type KMeans struct {
	// MaxRounds caps the assign/update rounds; 0 means DefaultMaxRounds.
	MaxRounds int
	// Workers bounds the goroutines used for the assignment step; 0 means runtime.NumCPU().
	Workers int
	Logger  hclog.Logger
}

// KMeansResult is the outcome of one clustering run.
type KMeansResult struct {
	// Centroids holds exactly k colours. Entries may repeat.
	Centroids []colour.RGB
	// Rounds is the number of assignment passes performed.
	Rounds int
	// Converged reports whether a pass left every assignment unchanged.
	Converged bool
	// Reseeded counts centroids that lost all members and were reseeded.
	Reseeded int
}

// NewKMeans creates a KMeans with the default round budget.
func NewKMeans() *KMeans {
	return &KMeans{MaxRounds: DefaultMaxRounds}
}

// Cluster runs k-means over candidates, seeding centroids with uniformly
// random candidates drawn from rng.
func (km *KMeans) Cluster(candidates []colour.RGB, k int, rng *rand.Rand) (KMeansResult, error) {
	if k < 1 {
		return KMeansResult{}, fmt.Errorf("%w: k must be at least 1, got %d", ErrInvalidConfiguration, k)
	}
	if len(candidates) == 0 {
		return KMeansResult{}, fmt.Errorf("%w: no candidate colours to cluster", ErrInvalidConfiguration)
	}

	logger := km.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	maxRounds := km.MaxRounds
	if maxRounds <= 0 {
		maxRounds = DefaultMaxRounds
	}

	n := len(candidates)
	centroids := make([]colour.RGB, k)
	for i := range centroids {
		centroids[i] = candidates[rng.Intn(n)]
	}

	result := KMeansResult{}
	assignments := make([]int, n)
	previous := make([]int, n)
	accumulators := make([]colour.Accumulator, k)

	for round := range maxRounds {
		km.assign(candidates, centroids, assignments)
		result.Rounds = round + 1

		if round > 0 && equalAssignments(assignments, previous) {
			result.Converged = true
			break
		}
		assignments, previous = previous, assignments

		clear(accumulators)
		for i, c := range candidates {
			accumulators[previous[i]].Add(c)
		}

		for j := range centroids {
			if accumulators[j].Count() == 0 {
				centroids[j] = candidates[rng.Intn(n)]
				result.Reseeded++
				continue
			}
			mean, err := accumulators[j].Mean()
			if err != nil {
				return KMeansResult{}, fmt.Errorf("%w: centroid %d: %w", ErrInternal, j, err)
			}
			centroids[j] = mean
		}
	}

	logger.Debug("k-means finished", "k", k, "candidates", n, "rounds", result.Rounds,
		"converged", result.Converged, "reseeded", result.Reseeded)

	result.Centroids = centroids
	return result, nil
}

// assign writes the nearest centroid index of every candidate into out.
func (km *KMeans) assign(candidates, centroids []colour.RGB, out []int) {
	parallelFor(len(candidates), km.Workers, func(start, end int) {
		for i := start; i < end; i++ {
			out[i] = nearestIndex(centroids, candidates[i])
		}
	})
}

func equalAssignments(a, b []int) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
