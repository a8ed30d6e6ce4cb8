package distribution

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNew tests distribution construction and rejection cases.
func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		weights map[string]float64
		wantErr error
	}{
		{
			name:    "valid distribution",
			weights: map[string]float64{"A": 0.6, "B": 0.4},
		},
		{
			name:    "unnormalized weights accepted",
			weights: map[string]float64{"A": 3, "B": 1},
		},
		{
			name:    "empty",
			weights: map[string]float64{},
			wantErr: ErrEmptyDistribution,
		},
		{
			name:    "negative weight",
			weights: map[string]float64{"A": -1, "B": 2},
			wantErr: ErrNegativeWeight,
		},
		{
			name:    "zero sum",
			weights: map[string]float64{"A": 0, "B": 0},
			wantErr: ErrZeroSum,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := New(tt.weights)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, d)
			} else {
				require.NoError(t, err)
				assert.NotNil(t, d)
			}
		})
	}
}

// TestNormalization tests that probabilities are normalized and labels
// ordered deterministically.
func TestNormalization(t *testing.T) {
	d, err := New(map[string]float64{"b": 1, "a": 3})
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b"}, d.Labels())
	assert.InDelta(t, 0.75, d.Prob("a"), 1e-9)
	assert.InDelta(t, 0.25, d.Prob("b"), 1e-9)
	assert.Equal(t, 0.0, d.Prob("missing"))
}

// TestSampleBoundaries tests interval assignment at the edges.
func TestSampleBoundaries(t *testing.T) {
	d, err := New(map[string]float64{"a": 0.5, "b": 0.5})
	require.NoError(t, err)

	assert.Equal(t, "a", d.Sample(0.0))
	assert.Equal(t, "a", d.Sample(0.4999))
	assert.Equal(t, "b", d.Sample(0.5))
	assert.Equal(t, "b", d.Sample(0.9999))
}

// TestZeroWeightNeverSelected tests that zero-weight categories occupy empty
// intervals.
func TestZeroWeightNeverSelected(t *testing.T) {
	d, err := New(map[string]float64{"a": 1, "b": 0, "c": 1})
	require.NoError(t, err)

	rng := rand.New(rand.NewPCG(7, 0))
	for i := 0; i < 10000; i++ {
		label := d.Sample(rng.Float64())
		assert.NotEqual(t, "b", label)
	}
	// Boundary draws cannot land in an empty interval either.
	assert.NotEqual(t, "b", d.Sample(0.5))
}

// TestDistributionFidelity tests that empirical frequencies track configured
// weights within two percentage points for a large sample.
func TestDistributionFidelity(t *testing.T) {
	weights := map[string]float64{
		"Full-time":     0.55,
		"Part-time":     0.10,
		"Self-employed": 0.10,
		"Unemployed":    0.05,
		"Retired":       0.12,
		"Student":       0.08,
	}
	d, err := New(weights)
	require.NoError(t, err)

	const n = 20000
	counts := make(map[string]int)
	rng := rand.New(rand.NewPCG(42, 0))
	for i := 0; i < n; i++ {
		counts[d.Sample(rng.Float64())]++
	}

	for label, weight := range weights {
		freq := float64(counts[label]) / n
		assert.InDelta(t, weight, freq, 0.02, "category %s", label)
	}
}
