// Package constraint defines the generation constraint set and resolves
// user-supplied overrides against built-in defaults.
package constraint

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Errors returned by the constraint package.
var (
	// ErrInvalidConstraints is returned when the constraint set is malformed
	// or self-inconsistent.
	ErrInvalidConstraints = errors.New("constraint: invalid constraint set")
	// ErrConstraintsNotFound is returned when the constraints file is not found.
	ErrConstraintsNotFound = errors.New("constraint: constraints file not found")
)

// IncomeRange is an inclusive [low, high] monthly income range.
// In constraint documents it is written as a two-element array, e.g.
// "Full-time": [3000, 15000].
type IncomeRange struct {
	Low  float64
	High float64
}

// UnmarshalYAML decodes the two-element array form.
func (r *IncomeRange) UnmarshalYAML(value *yaml.Node) error {
	var pair []float64
	if err := value.Decode(&pair); err != nil {
		return fmt.Errorf("%w: income range must be a [low, high] pair: %v", ErrInvalidConstraints, err)
	}
	if len(pair) != 2 {
		return fmt.Errorf("%w: income range must have exactly two elements, got %d", ErrInvalidConstraints, len(pair))
	}
	r.Low, r.High = pair[0], pair[1]
	return nil
}

// MarshalYAML encodes back to the array form.
func (r IncomeRange) MarshalYAML() (any, error) {
	return []float64{r.Low, r.High}, nil
}

// Overrides is the partial constraint document supplied by the user.
// Any field present overrides the corresponding default verbatim; absent
// fields fall back to the defaults. The override is shallow and per-field:
// a supplied employment_distribution replaces the default distribution
// wholesale, it is not merged per category.
type Overrides struct {
	// Country is the ISO 3166-1 alpha-2 country code (e.g., "SG").
	Country *string `yaml:"country,omitempty" json:"country,omitempty"`

	// Currency is the ISO 4217 currency code (e.g., "SGD").
	Currency *string `yaml:"currency,omitempty" json:"currency,omitempty"`

	// Nationality overrides the nationality recorded on generated records.
	// Defaults to the country code.
	Nationality *string `yaml:"nationality,omitempty" json:"nationality,omitempty"`

	// MinAge is the inclusive lower age bound.
	MinAge *int `yaml:"min_age,omitempty" json:"min_age,omitempty"`

	// MaxAge is the inclusive upper age bound.
	MaxAge *int `yaml:"max_age,omitempty" json:"max_age,omitempty"`

	// EmploymentDistribution maps employment category labels to probability
	// weights. Weights need not be pre-normalized but must be non-negative
	// and sum to a positive value.
	EmploymentDistribution map[string]float64 `yaml:"employment_distribution,omitempty" json:"employment_distribution,omitempty"`

	// MonthlyIncomeRanges maps employment category labels to inclusive
	// [low, high] monthly income ranges. Every category referenced in
	// EmploymentDistribution must have an entry here.
	MonthlyIncomeRanges map[string]IncomeRange `yaml:"monthly_income_ranges,omitempty" json:"monthly_income_ranges,omitempty"`
}

// Set is the fully resolved constraint set. It is immutable for the run.
type Set struct {
	Country                string
	Currency               string
	Nationality            string
	MinAge                 int
	MaxAge                 int
	EmploymentDistribution map[string]float64
	MonthlyIncomeRanges    map[string]IncomeRange
}

// Categories returns the employment category labels in sorted order.
func (s Set) Categories() []string {
	labels := make([]string, 0, len(s.EmploymentDistribution))
	for label := range s.EmploymentDistribution {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}

// Defaults returns the built-in constraint set.
func Defaults() Set {
	return Set{
		Country:     "SG",
		Currency:    "SGD",
		Nationality: "SG",
		MinAge:      0,
		MaxAge:      90,
		EmploymentDistribution: map[string]float64{
			"Full-time":     0.60,
			"Part-time":     0.10,
			"Self-employed": 0.10,
			"Unemployed":    0.05,
			"Retired":       0.10,
			"Student":       0.05,
		},
		MonthlyIncomeRanges: map[string]IncomeRange{
			"Full-time":     {Low: 3000, High: 15000},
			"Part-time":     {Low: 800, High: 4000},
			"Self-employed": {Low: 2000, High: 20000},
			"Unemployed":    {Low: 0, High: 800},
			"Retired":       {Low: 0, High: 5000},
			"Student":       {Low: 0, High: 1500},
		},
	}
}

// Resolve merges user-supplied overrides over the built-in defaults and
// validates the result. It is a pure function of its input: a nil Overrides
// resolves to the defaults. Resolution failures mean no generation has
// started yet.
func Resolve(ov *Overrides) (Set, error) {
	set := Defaults()

	if ov != nil {
		if ov.Country != nil {
			set.Country = *ov.Country
			// Nationality follows country unless overridden explicitly.
			set.Nationality = *ov.Country
		}
		if ov.Currency != nil {
			set.Currency = *ov.Currency
		}
		if ov.Nationality != nil {
			set.Nationality = *ov.Nationality
		}
		if ov.MinAge != nil {
			set.MinAge = *ov.MinAge
		}
		if ov.MaxAge != nil {
			set.MaxAge = *ov.MaxAge
		}
		if ov.EmploymentDistribution != nil {
			set.EmploymentDistribution = ov.EmploymentDistribution
		}
		if ov.MonthlyIncomeRanges != nil {
			set.MonthlyIncomeRanges = ov.MonthlyIncomeRanges
		}
	}

	if err := set.Validate(); err != nil {
		return Set{}, err
	}
	return set, nil
}

// Validate checks the internal consistency of the resolved set.
func (s Set) Validate() error {
	if s.Country == "" {
		return fmt.Errorf("%w: country is required", ErrInvalidConstraints)
	}
	if s.Currency == "" {
		return fmt.Errorf("%w: currency is required", ErrInvalidConstraints)
	}
	if s.MinAge < 0 {
		return fmt.Errorf("%w: min_age must be non-negative, got %d", ErrInvalidConstraints, s.MinAge)
	}
	if s.MinAge > s.MaxAge {
		return fmt.Errorf("%w: min_age (%d) must not exceed max_age (%d)", ErrInvalidConstraints, s.MinAge, s.MaxAge)
	}

	if len(s.EmploymentDistribution) == 0 {
		return fmt.Errorf("%w: employment_distribution must not be empty", ErrInvalidConstraints)
	}

	sum := 0.0
	for _, label := range s.Categories() {
		weight := s.EmploymentDistribution[label]
		if weight < 0 {
			return fmt.Errorf("%w: employment_distribution[%s] must be non-negative, got %g", ErrInvalidConstraints, label, weight)
		}
		sum += weight

		rng, ok := s.MonthlyIncomeRanges[label]
		if !ok {
			return fmt.Errorf("%w: employment_distribution category %q has no monthly_income_ranges entry", ErrInvalidConstraints, label)
		}
		if rng.Low > rng.High {
			return fmt.Errorf("%w: monthly_income_ranges[%s] low (%g) must not exceed high (%g)", ErrInvalidConstraints, label, rng.Low, rng.High)
		}
		if rng.Low < 0 {
			return fmt.Errorf("%w: monthly_income_ranges[%s] low must be non-negative, got %g", ErrInvalidConstraints, label, rng.Low)
		}
	}
	// Zero-sum distributions are rejected, not treated as uniform.
	if sum <= 0 {
		return fmt.Errorf("%w: employment_distribution weights must sum to a positive value", ErrInvalidConstraints)
	}

	return nil
}

// LoadFile loads a partial constraint document from a YAML or JSON file.
// JSON documents parse unchanged since JSON is a subset of YAML.
func LoadFile(path string) (*Overrides, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConstraintsNotFound, path)
		}
		return nil, fmt.Errorf("reading constraints file: %w", err)
	}
	return LoadBytes(data)
}

// LoadBytes parses a partial constraint document from YAML or JSON bytes.
func LoadBytes(data []byte) (*Overrides, error) {
	var ov Overrides
	if err := yaml.Unmarshal(data, &ov); err != nil {
		return nil, fmt.Errorf("parsing constraints: %w", err)
	}
	return &ov, nil
}
