package report

import (
	"fmt"
	"io"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/example/custgen/internal/constraint"
)

// WriteConsole prints a run summary: record counts, observed age span, and
// per-category empirical frequencies against the configured weights, with
// mean incomes formatted in the run currency.
func WriteConsole(w io.Writer, stats *Stats, cs constraint.Set) error {
	printer := message.NewPrinter(language.English)
	money := moneyFormatter(printer, cs.Currency)

	fmt.Fprintf(w, "Generated %d records (%d adults, %d minors)\n",
		stats.Total, stats.Adults, stats.Minors)
	if stats.Total > 0 {
		fmt.Fprintf(w, "Age span: %d-%d (configured %d-%d)\n",
			stats.AgeMin, stats.AgeMax, cs.MinAge, cs.MaxAge)
	}

	if stats.Adults == 0 {
		return nil
	}

	totalWeight := 0.0
	for _, weight := range cs.EmploymentDistribution {
		totalWeight += weight
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Employment distribution (configured vs observed):")
	for _, category := range cs.Categories() {
		configured := cs.EmploymentDistribution[category] / totalWeight
		observed := stats.Frequency(category)
		fmt.Fprintf(w, "  %-15s %6.1f%%  %6.1f%%  n=%-6d mean %s\n",
			category,
			configured*100,
			observed*100,
			stats.Employment[category],
			money(stats.MeanMonthly(category)),
		)
	}
	return nil
}

// moneyFormatter returns a formatter for the given ISO currency code,
// falling back to a plain prefix when the code is unknown.
func moneyFormatter(p *message.Printer, code string) func(float64) string {
	unit, err := currency.ParseISO(code)
	if err != nil {
		return func(v float64) string {
			return p.Sprintf("%s %.2f", code, v)
		}
	}
	return func(v float64) string {
		return p.Sprintf("%v", currency.Symbol(unit.Amount(v)))
	}
}
