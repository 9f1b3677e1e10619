package quantise

import (
	"errors"

	"github.com/jmylchreest/ryijy/internal/colour"
)

var (
	// ErrInvalidConfiguration is wrapped by every option validation failure.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrInternal marks a broken internal invariant, such as a mean taken over
	// an empty cluster. It always indicates a bug.
	ErrInternal = errors.New("internal error")
)

// ErrDegenerateMean is the mean-of-nothing failure from the colour package.
// The engine only ever returns it wrapped in ErrInternal.
var ErrDegenerateMean = colour.ErrEmptyMean
