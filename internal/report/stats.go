// Package report collects generation statistics and renders run summaries to
// the console and to an HTML report.
package report

import (
	"sort"

	"github.com/example/custgen/internal/synth"
)

// Stats accumulates per-run generation statistics. It is updated strictly
// sequentially by the batch runner; it is not safe for concurrent use and
// does not need to be.
type Stats struct {
	Total  int
	Adults int
	Minors int

	AgeMin int
	AgeMax int

	// Employment counts adult records per employment category.
	Employment map[string]int

	// MonthlySum accumulates monthly income per category for mean reporting.
	MonthlySum map[string]float64

	// AnnualSum is the total annual income across all adults.
	AnnualSum float64
}

// NewStats creates an empty Stats.
func NewStats() *Stats {
	return &Stats{
		AgeMin:     -1,
		AgeMax:     -1,
		Employment: make(map[string]int),
		MonthlySum: make(map[string]float64),
	}
}

// Observe records one generated customer.
func (s *Stats) Observe(rec *synth.CustomerRecord) {
	s.Total++

	age := rec.Demographics.Age
	if s.AgeMin < 0 || age < s.AgeMin {
		s.AgeMin = age
	}
	if age > s.AgeMax {
		s.AgeMax = age
	}

	if rec.Financials == nil {
		s.Minors++
		return
	}

	s.Adults++
	s.Employment[rec.Financials.EmploymentType]++
	s.MonthlySum[rec.Financials.EmploymentType] += rec.Financials.MonthlyIncome
	s.AnnualSum += rec.Financials.AnnualIncome
}

// Frequency returns the empirical share of adults in the given category.
func (s *Stats) Frequency(category string) float64 {
	if s.Adults == 0 {
		return 0
	}
	return float64(s.Employment[category]) / float64(s.Adults)
}

// MeanMonthly returns the mean monthly income in the given category, or 0 if
// no adult landed in it.
func (s *Stats) MeanMonthly(category string) float64 {
	n := s.Employment[category]
	if n == 0 {
		return 0
	}
	return s.MonthlySum[category] / float64(n)
}

// Categories returns the observed employment categories in sorted order.
func (s *Stats) Categories() []string {
	labels := make([]string, 0, len(s.Employment))
	for label := range s.Employment {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}
