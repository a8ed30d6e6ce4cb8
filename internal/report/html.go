package report

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/example/custgen/internal/constraint"
)

// HTMLReport is the flat view model rendered by the embedded template.
type HTMLReport struct {
	Title       string
	GeneratedAt string

	Country  string
	Currency string
	AgeRange string

	Total  int
	Adults int
	Minors int

	AgeSpan string

	Categories []CategoryRow
}

// CategoryRow is one employment category line in the report table.
type CategoryRow struct {
	Label       string
	Configured  string
	Observed    string
	Count       int
	MeanMonthly string
}

// HTMLReporter renders run summaries as standalone HTML documents.
type HTMLReporter struct {
	now func() time.Time
}

// NewHTMLReporter creates an HTMLReporter.
func NewHTMLReporter() *HTMLReporter {
	return &HTMLReporter{now: time.Now}
}

// GenerateHTML renders the summary for one run.
func (r *HTMLReporter) GenerateHTML(stats *Stats, cs constraint.Set) ([]byte, error) {
	view := r.buildReport(stats, cs)

	tmpl, err := template.New("report").Parse(htmlTemplate)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, view); err != nil {
		return nil, fmt.Errorf("executing HTML template: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteHTMLToFile renders the summary and writes it to path, creating parent
// directories as needed.
func (r *HTMLReporter) WriteHTMLToFile(stats *Stats, cs constraint.Set, path string) error {
	path = filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating report directory: %w", err)
	}

	data, err := r.GenerateHTML(stats, cs)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing HTML report: %w", err)
	}
	return nil
}

func (r *HTMLReporter) buildReport(stats *Stats, cs constraint.Set) *HTMLReport {
	printer := message.NewPrinter(language.English)
	money := moneyFormatter(printer, cs.Currency)

	view := &HTMLReport{
		Title:       "Customer Generation Report",
		GeneratedAt: r.now().UTC().Format("2006-01-02 15:04:05 UTC"),
		Country:     cs.Country,
		Currency:    cs.Currency,
		AgeRange:    fmt.Sprintf("%d-%d", cs.MinAge, cs.MaxAge),
		Total:       stats.Total,
		Adults:      stats.Adults,
		Minors:      stats.Minors,
	}
	if stats.Total > 0 {
		view.AgeSpan = fmt.Sprintf("%d-%d", stats.AgeMin, stats.AgeMax)
	}

	totalWeight := 0.0
	for _, weight := range cs.EmploymentDistribution {
		totalWeight += weight
	}

	for _, category := range cs.Categories() {
		configured := cs.EmploymentDistribution[category] / totalWeight
		view.Categories = append(view.Categories, CategoryRow{
			Label:       category,
			Configured:  fmt.Sprintf("%.1f%%", configured*100),
			Observed:    fmt.Sprintf("%.1f%%", stats.Frequency(category)*100),
			Count:       stats.Employment[category],
			MeanMonthly: money(stats.MeanMonthly(category)),
		})
	}

	return view
}

// htmlTemplate is the embedded report template.
const htmlTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
  body { font-family: -apple-system, "Segoe UI", Roboto, sans-serif; margin: 2rem; color: #1a1a2e; }
  h1 { font-size: 1.4rem; }
  .meta { color: #666; font-size: 0.85rem; margin-bottom: 1.5rem; }
  .cards { display: flex; gap: 1rem; margin-bottom: 1.5rem; }
  .card { border: 1px solid #ddd; border-radius: 8px; padding: 0.8rem 1.2rem; }
  .card .num { font-size: 1.6rem; font-weight: 600; }
  .card .label { color: #666; font-size: 0.8rem; }
  table { border-collapse: collapse; min-width: 40rem; }
  th, td { text-align: left; padding: 0.4rem 0.9rem; border-bottom: 1px solid #eee; }
  th { background: #f5f5f7; }
  td.num { text-align: right; font-variant-numeric: tabular-nums; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<div class="meta">Generated {{.GeneratedAt}} &middot; country {{.Country}} &middot; currency {{.Currency}} &middot; configured ages {{.AgeRange}}{{if .AgeSpan}} &middot; observed ages {{.AgeSpan}}{{end}}</div>

<div class="cards">
  <div class="card"><div class="num">{{.Total}}</div><div class="label">records</div></div>
  <div class="card"><div class="num">{{.Adults}}</div><div class="label">adults</div></div>
  <div class="card"><div class="num">{{.Minors}}</div><div class="label">minors</div></div>
</div>

<table>
  <thead>
    <tr><th>Employment</th><th>Configured</th><th>Observed</th><th>Count</th><th>Mean monthly income</th></tr>
  </thead>
  <tbody>
    {{range .Categories}}
    <tr>
      <td>{{.Label}}</td>
      <td class="num">{{.Configured}}</td>
      <td class="num">{{.Observed}}</td>
      <td class="num">{{.Count}}</td>
      <td class="num">{{.MeanMonthly}}</td>
    </tr>
    {{end}}
  </tbody>
</table>
</body>
</html>
`
