package report

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/custgen/internal/constraint"
	"github.com/example/custgen/internal/synth"
)

func adult(age int, employment string, monthly, annual float64) *synth.CustomerRecord {
	return &synth.CustomerRecord{
		Demographics: synth.Demographics{Age: age},
		Financials: &synth.Financials{
			EmploymentType: employment,
			MonthlyIncome:  monthly,
			AnnualIncome:   annual,
			Currency:       "SGD",
		},
	}
}

func minor(age int) *synth.CustomerRecord {
	return &synth.CustomerRecord{Demographics: synth.Demographics{Age: age}}
}

// TestStatsObserve tests counter and aggregate accumulation.
func TestStatsObserve(t *testing.T) {
	s := NewStats()
	s.Observe(adult(30, "Full-time", 5000, 60200))
	s.Observe(adult(45, "Full-time", 7000, 83000))
	s.Observe(adult(70, "Retired", 1000, 12100))
	s.Observe(minor(9))

	assert.Equal(t, 4, s.Total)
	assert.Equal(t, 3, s.Adults)
	assert.Equal(t, 1, s.Minors)
	assert.Equal(t, 9, s.AgeMin)
	assert.Equal(t, 70, s.AgeMax)

	assert.Equal(t, 2, s.Employment["Full-time"])
	assert.InDelta(t, 6000, s.MeanMonthly("Full-time"), 1e-9)
	assert.InDelta(t, 2.0/3.0, s.Frequency("Full-time"), 1e-9)
	assert.InDelta(t, 1.0/3.0, s.Frequency("Retired"), 1e-9)
	assert.InDelta(t, 155300, s.AnnualSum, 1e-9)

	assert.Equal(t, []string{"Full-time", "Retired"}, s.Categories())
}

// TestStatsEmpty tests the zero-observation edge cases.
func TestStatsEmpty(t *testing.T) {
	s := NewStats()
	assert.Equal(t, 0.0, s.Frequency("Full-time"))
	assert.Equal(t, 0.0, s.MeanMonthly("Full-time"))
	assert.Empty(t, s.Categories())
}

// TestWriteConsole tests the console summary content.
func TestWriteConsole(t *testing.T) {
	cs, err := constraint.Resolve(nil)
	require.NoError(t, err)

	s := NewStats()
	s.Observe(adult(30, "Full-time", 5000, 60000))
	s.Observe(minor(10))

	var buf bytes.Buffer
	require.NoError(t, WriteConsole(&buf, s, cs))

	out := buf.String()
	assert.Contains(t, out, "Generated 2 records (1 adults, 1 minors)")
	assert.Contains(t, out, "Age span: 10-30")
	assert.Contains(t, out, "Full-time")
	assert.Contains(t, out, "Retired")
	assert.Contains(t, out, "100.0%")
}

// TestWriteConsoleMinorsOnly tests that the distribution table is omitted
// when no adult was generated.
func TestWriteConsoleMinorsOnly(t *testing.T) {
	cs, err := constraint.Resolve(nil)
	require.NoError(t, err)

	s := NewStats()
	s.Observe(minor(5))

	var buf bytes.Buffer
	require.NoError(t, WriteConsole(&buf, s, cs))
	assert.NotContains(t, buf.String(), "Employment distribution")
}

// TestMoneyFormatter tests currency formatting and the unknown-code fallback.
func TestMoneyFormatter(t *testing.T) {
	cs, err := constraint.Resolve(nil)
	require.NoError(t, err)

	s := NewStats()
	s.Observe(adult(40, "Full-time", 12345.5, 148146))

	t.Run("known currency", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteConsole(&buf, s, cs))
		assert.Contains(t, buf.String(), "SGD")
	})

	t.Run("unknown currency falls back to plain prefix", func(t *testing.T) {
		other := cs
		other.Currency = "XXZ"
		var buf bytes.Buffer
		require.NoError(t, WriteConsole(&buf, s, other))
		assert.Contains(t, buf.String(), "XXZ 12,345.50")
	})
}

// TestGenerateHTML tests the HTML report view content.
func TestGenerateHTML(t *testing.T) {
	cs, err := constraint.Resolve(nil)
	require.NoError(t, err)

	s := NewStats()
	s.Observe(adult(30, "Full-time", 5000, 60000))
	s.Observe(adult(65, "Retired", 800, 9500))
	s.Observe(minor(12))

	data, err := NewHTMLReporter().GenerateHTML(s, cs)
	require.NoError(t, err)

	html := string(data)
	assert.Contains(t, html, "Customer Generation Report")
	assert.Contains(t, html, "country SG")
	assert.Contains(t, html, "currency SGD")
	assert.Contains(t, html, "observed ages 12-65")
	assert.Contains(t, html, "Full-time")
	assert.Contains(t, html, "Retired")
}

// TestWriteHTMLToFile tests writing the report, creating parent directories.
func TestWriteHTMLToFile(t *testing.T) {
	cs, err := constraint.Resolve(nil)
	require.NoError(t, err)

	s := NewStats()
	s.Observe(adult(30, "Full-time", 5000, 60000))

	path := filepath.Join(t.TempDir(), "nested", "report.html")
	require.NoError(t, NewHTMLReporter().WriteHTMLToFile(s, cs, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<!DOCTYPE html>")
}
