// Package render produces identity-document HTML artifacts (NRIC, passport)
// from generated customer records. Documents are driven by a field-declaration
// config: each field names a key for the template, a source (a JSON pointer
// into the record, or a computed function), and an optional display format.
// Rendering is a downstream convenience; a render failure never aborts the
// generation batch.
package render

import (
	"errors"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Errors returned by the render package.
var (
	// ErrInvalidDocConfig is returned when a document config is malformed.
	ErrInvalidDocConfig = errors.New("render: invalid document config")
	// ErrUnsupportedSource is returned for a field source that is neither a
	// JSON pointer nor a func: reference.
	ErrUnsupportedSource = errors.New("render: unsupported field source")
	// ErrPointerNotFound is returned when a JSON pointer has no value in the
	// record.
	ErrPointerNotFound = errors.New("render: json pointer not found")
)

// Kind selects the document type being rendered.
type Kind string

const (
	// KindNRIC renders national ID cards.
	KindNRIC Kind = "nric"
	// KindPassport renders passports. Customers without a passport document
	// are skipped rather than failed.
	KindPassport Kind = "passport"
)

// passportCountries are the countries with a dedicated passport template;
// anything else falls back to the SG layout.
var passportCountries = map[string]bool{"SG": true, "MY": true, "CN": true, "IN": true}

// FieldDecl declares one field handed to the document template.
type FieldDecl struct {
	// Key is the name the template sees.
	Key string `yaml:"key" json:"key"`

	// Source is where the value comes from: a JSON pointer into the record
	// (e.g., "/personal_details/name") or a computed function
	// (e.g., "func:today").
	Source string `yaml:"source" json:"source"`

	// Format optionally reformats the value. "date:<layout>" re-renders an
	// ISO date using the given Go reference layout (e.g., "date:02 Jan 2006").
	Format string `yaml:"format,omitempty" json:"format,omitempty"`
}

// DocumentConfig is the field-declaration document for one artifact type.
type DocumentConfig struct {
	// Template is the template file name, relative to the templates root.
	// For passports it is the fallback; the per-country template
	// passport_<CC>.html takes precedence when the country is supported.
	Template string `yaml:"template" json:"template"`

	// OutputPattern names the output file; "{customer_id}" is substituted.
	OutputPattern string `yaml:"output_pattern,omitempty" json:"output_pattern,omitempty"`

	// Fields are the field declarations.
	Fields []FieldDecl `yaml:"fields" json:"fields"`
}

// LoadConfig loads a document config from a YAML or JSON file.
func LoadConfig(path string) (*DocumentConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading document config: %w", err)
	}

	var cfg DocumentConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocConfig, err)
	}
	if cfg.Template == "" {
		return nil, fmt.Errorf("%w: template is required", ErrInvalidDocConfig)
	}
	if len(cfg.Fields) == 0 {
		return nil, fmt.Errorf("%w: at least one field is required", ErrInvalidDocConfig)
	}
	for i, fld := range cfg.Fields {
		if fld.Key == "" {
			return nil, fmt.Errorf("%w: fields[%d].key is required", ErrInvalidDocConfig, i)
		}
		if fld.Source == "" {
			return nil, fmt.Errorf("%w: fields[%d].source is required", ErrInvalidDocConfig, i)
		}
	}
	return &cfg, nil
}

// Renderer renders one document type for successive customers.
type Renderer struct {
	kind          Kind
	cfg           *DocumentConfig
	templatesRoot string
	outDir        string
	now           func() time.Time
}

// New creates a renderer. templatesRoot is the directory holding the HTML
// templates; outDir receives the rendered artifacts.
func New(kind Kind, cfg *DocumentConfig, templatesRoot, outDir string) *Renderer {
	return &Renderer{
		kind:          kind,
		cfg:           cfg,
		templatesRoot: templatesRoot,
		outDir:        outDir,
		now:           time.Now,
	}
}

// WithClock fixes the clock used by func:today. Used by tests.
func (r *Renderer) WithClock(now func() time.Time) *Renderer {
	r.now = now
	return r
}

// Render renders the artifact for one customer, given the decoded JSON
// record. It returns the output path, or "" when the customer is skipped
// (passport rendering for a customer without a passport).
func (r *Renderer) Render(customer map[string]any) (string, error) {
	if r.kind == KindPassport && !hasPassport(customer) {
		return "", nil
	}

	fields := make(map[string]any, len(r.cfg.Fields))
	for _, fld := range r.cfg.Fields {
		value, err := r.fieldValue(customer, fld)
		if err != nil {
			return "", fmt.Errorf("field %q: %w", fld.Key, err)
		}
		fields[fld.Key] = value
	}

	templateName := r.templateName(customer, fields)
	tmpl, err := template.ParseFiles(filepath.Join(r.templatesRoot, templateName))
	if err != nil && templateName != r.cfg.Template {
		// Per-country layout not shipped; fall back to the configured template.
		templateName = r.cfg.Template
		tmpl, err = template.ParseFiles(filepath.Join(r.templatesRoot, templateName))
	}
	if err != nil {
		return "", fmt.Errorf("loading template %s: %w", templateName, err)
	}

	data := struct {
		Fields   map[string]any
		Customer map[string]any
	}{Fields: fields, Customer: customer}

	if err := os.MkdirAll(r.outDir, 0755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	outPath := filepath.Join(r.outDir, r.outputName(customer))
	out, err := os.Create(outPath)
	if err != nil {
		return "", fmt.Errorf("creating output file: %w", err)
	}
	defer out.Close()

	if err := tmpl.Execute(out, data); err != nil {
		return "", fmt.Errorf("rendering %s: %w", templateName, err)
	}
	return outPath, nil
}

// fieldValue resolves and formats one declared field.
func (r *Renderer) fieldValue(customer map[string]any, fld FieldDecl) (any, error) {
	var value any
	switch {
	case strings.HasPrefix(fld.Source, "/"):
		resolved, err := resolvePointer(customer, fld.Source)
		if err != nil {
			return nil, err
		}
		value = resolved
	case strings.HasPrefix(fld.Source, "func:"):
		computed, err := r.computeFunc(strings.TrimPrefix(fld.Source, "func:"))
		if err != nil {
			return nil, err
		}
		value = computed
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedSource, fld.Source)
	}

	return applyFormat(value, fld.Format), nil
}

// computeFunc evaluates a func: source.
func (r *Renderer) computeFunc(name string) (any, error) {
	if name == "today" {
		return r.now().UTC().Format("2006-01-02"), nil
	}
	return nil, fmt.Errorf("%w: func:%s", ErrUnsupportedSource, name)
}

// templateName picks the template file for this customer. Passports use the
// per-country layout keyed by nationality, falling back to SG. If the chosen
// file does not exist the caller falls back to the configured template.
func (r *Renderer) templateName(customer map[string]any, fields map[string]any) string {
	if r.kind != KindPassport {
		return r.cfg.Template
	}

	country := ""
	if v, ok := fields["nationality"].(string); ok {
		country = v
	} else if v, ok := fields["country"].(string); ok {
		country = v
	} else if v, err := resolvePointer(customer, "/demographics/country"); err == nil {
		country, _ = v.(string)
	}
	if !passportCountries[country] {
		country = "SG"
	}
	return fmt.Sprintf("passport_%s.html", country)
}

// outputName substitutes the customer id into the output pattern.
func (r *Renderer) outputName(customer map[string]any) string {
	pattern := r.cfg.OutputPattern
	if pattern == "" {
		pattern = string(r.kind) + "_{customer_id}.html"
	}
	id, _ := customer["customer_id"].(string)
	return strings.ReplaceAll(pattern, "{customer_id}", id)
}

// resolvePointer resolves a small subset of JSON Pointer (/a/b/c) over
// nested objects.
func resolvePointer(doc map[string]any, pointer string) (any, error) {
	if pointer == "" || pointer[0] != '/' {
		return nil, fmt.Errorf("%w: invalid pointer %q", ErrPointerNotFound, pointer)
	}

	var cur any = doc
	for _, part := range strings.Split(strings.Trim(pointer, "/"), "/") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrPointerNotFound, pointer)
		}
		cur, ok = obj[part]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrPointerNotFound, pointer)
		}
	}
	return cur, nil
}

// applyFormat applies a display format to a string value. Unknown formats
// and non-string values pass through unchanged.
func applyFormat(value any, format string) any {
	str, ok := value.(string)
	if !ok || format == "" {
		return value
	}
	if layout, found := strings.CutPrefix(format, "date:"); found {
		t, err := time.Parse("2006-01-02", str)
		if err != nil {
			return value
		}
		return t.Format(strings.TrimSpace(layout))
	}
	return value
}

// hasPassport reports whether the record carries a passport document.
func hasPassport(customer map[string]any) bool {
	docs, ok := customer["id_documents"].(map[string]any)
	if !ok {
		return false
	}
	_, ok = docs["passport"].(map[string]any)
	return ok
}
