// Package distribution implements discrete weighted sampling over labeled
// categories. Weights are normalized once into a cumulative table; a sample
// costs one uniform draw and a binary search, which keeps the only place
// randomness touches category selection small and auditable.
package distribution

import (
	"errors"
	"fmt"
	"sort"
)

// Errors returned by the distribution package.
var (
	// ErrEmptyDistribution is returned when no categories are supplied.
	ErrEmptyDistribution = errors.New("distribution: no categories")
	// ErrNegativeWeight is returned when a weight is negative.
	ErrNegativeWeight = errors.New("distribution: weight must be non-negative")
	// ErrZeroSum is returned when the weights sum to zero.
	ErrZeroSum = errors.New("distribution: weights must sum to a positive value")
)

// Discrete is an immutable discrete distribution over string labels.
// Labels are ordered lexicographically so that sampling is deterministic
// regardless of map iteration order.
type Discrete struct {
	labels []string
	probs  []float64
	cum    []float64
}

// New builds a distribution from a label-to-weight map. Weights need not be
// pre-normalized; they must be non-negative and sum to a positive value.
func New(weights map[string]float64) (*Discrete, error) {
	if len(weights) == 0 {
		return nil, ErrEmptyDistribution
	}

	labels := make([]string, 0, len(weights))
	for label := range weights {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	sum := 0.0
	for _, label := range labels {
		w := weights[label]
		if w < 0 {
			return nil, fmt.Errorf("%w: %s has weight %g", ErrNegativeWeight, label, w)
		}
		sum += w
	}
	if sum <= 0 {
		return nil, ErrZeroSum
	}

	d := &Discrete{
		labels: labels,
		probs:  make([]float64, len(labels)),
		cum:    make([]float64, len(labels)),
	}
	acc := 0.0
	for i, label := range labels {
		p := weights[label] / sum
		d.probs[i] = p
		acc += p
		d.cum[i] = acc
	}
	// Guard against float accumulation leaving the last bound below 1.
	d.cum[len(d.cum)-1] = 1.0

	return d, nil
}

// Sample returns the label whose cumulative interval contains u.
// u must be in [0, 1). Zero-weight categories occupy empty intervals and are
// never selected.
func (d *Discrete) Sample(u float64) string {
	idx := sort.Search(len(d.cum), func(i int) bool { return d.cum[i] > u })
	if idx == len(d.cum) {
		idx = len(d.cum) - 1
	}
	return d.labels[idx]
}

// Labels returns the category labels in sampling order.
func (d *Discrete) Labels() []string {
	out := make([]string, len(d.labels))
	copy(out, d.labels)
	return out
}

// Prob returns the normalized probability of the given label, or 0 if the
// label is not part of the distribution.
func (d *Discrete) Prob(label string) float64 {
	for i, l := range d.labels {
		if l == label {
			return d.probs[i]
		}
	}
	return 0
}
