package core

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// WeightSumTolerance is the allowed deviation from 1.0 for a valid
// weight vector sum.
const WeightSumTolerance = 1e-6

// WeightVector assigns a non-negative weight to each backend.
// A valid vector sums to 1.0 within WeightSumTolerance.
type WeightVector map[Backend]float64

// NewWeightVector builds a weight vector from per-backend weights.
func NewWeightVector(keyword, dense, web float64) WeightVector {
	return WeightVector{
		BackendKeyword: keyword,
		BackendDense:   dense,
		BackendWeb:     web,
	}
}

// UniformWeights returns an even split across all known backends.
func UniformWeights() WeightVector {
	w := make(WeightVector, len(Backends))
	for _, b := range Backends {
		w[b] = 1.0 / float64(len(Backends))
	}
	return w
}

// Clone returns an independent copy of the vector.
func (w WeightVector) Clone() WeightVector {
	out := make(WeightVector, len(w))
	for b, v := range w {
		out[b] = v
	}
	return out
}

// Sum returns the total of all weights.
func (w WeightVector) Sum() float64 {
	var sum float64
	for _, v := range w {
		sum += v
	}
	return sum
}

// Normalize rescales the vector in place so its components sum to 1.0,
// clamping negatives to zero first. A vector that sums to zero becomes
// a uniform split.
func (w WeightVector) Normalize() {
	for b, v := range w {
		if v < 0 {
			w[b] = 0
		}
	}
	sum := w.Sum()
	if sum <= 0 {
		for b, v := range UniformWeights() {
			w[b] = v
		}
		return
	}
	for b, v := range w {
		w[b] = v / sum
	}
}

// Validate checks that all components are non-negative and the sum is 1.0
// within WeightSumTolerance.
func (w WeightVector) Validate() error {
	if len(w) == 0 {
		return fmt.Errorf("%w: empty vector", ErrInvalidWeights)
	}
	for b, v := range w {
		if v < 0 {
			return fmt.Errorf("%w: backend %q has negative weight %v", ErrInvalidWeights, b, v)
		}
	}
	if math.Abs(w.Sum()-1.0) > WeightSumTolerance {
		return fmt.Errorf("%w: sum %v is not 1.0", ErrInvalidWeights, w.Sum())
	}
	return nil
}

// Dominant returns the backend with the highest weight. Ties resolve in the
// canonical backend order.
func (w WeightVector) Dominant() Backend {
	best := Backends[0]
	bestWeight := math.Inf(-1)
	for _, b := range Backends {
		if v, ok := w[b]; ok && v > bestWeight {
			best = b
			bestWeight = v
		}
	}
	return best
}

// CanonicalString renders the vector deterministically, for use in cache keys
// and log output. Backends appear sorted by name with fixed precision.
func (w WeightVector) CanonicalString() string {
	names := make([]string, 0, len(w))
	for b := range w {
		names = append(names, string(b))
	}
	sort.Strings(names)
	var sb strings.Builder
	for i, name := range names {
		if i > 0 {
			sb.WriteByte(',')
		}
		fmt.Fprintf(&sb, "%s=%.6f", name, w[Backend(name)])
	}
	return sb.String()
}
