package render

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock() time.Time {
	return time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
}

func writeTemplate(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0644))
}

func sampleCustomer() map[string]any {
	return map[string]any{
		"customer_id": "cust-001",
		"personal_details": map[string]any{
			"name":          "Tan Wei Ming",
			"nationality":   "SG",
			"date_of_birth": "1990-03-15",
			"address":       "Blk 123 Bedok North Street 1, #05-067, Singapore 460123",
		},
		"demographics": map[string]any{
			"age":     36.0,
			"country": "SG",
			"city":    "Bedok",
		},
		"id_documents": map[string]any{
			"nric": map[string]any{
				"nric_number": "S1234567A",
			},
			"passport": map[string]any{
				"passport_number": "AB1234567",
				"expiry_date":     "2032-01-01",
			},
		},
	}
}

// TestLoadConfig tests parsing and validation of field-declaration configs.
func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()

	t.Run("valid yaml config", func(t *testing.T) {
		path := filepath.Join(dir, "nric.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`
template: nric_SG.html
output_pattern: nric_{customer_id}.html
fields:
  - key: name
    source: /personal_details/name
  - key: issue_date
    source: func:today
    format: "date:02 Jan 2006"
`), 0644))

		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, "nric_SG.html", cfg.Template)
		require.Len(t, cfg.Fields, 2)
		assert.Equal(t, "func:today", cfg.Fields[1].Source)
	})

	t.Run("json config parses as yaml subset", func(t *testing.T) {
		path := filepath.Join(dir, "passport.json")
		require.NoError(t, os.WriteFile(path, []byte(`{
			"template": "passport_SG.html",
			"fields": [{"key": "name", "source": "/personal_details/name"}]
		}`), 0644))

		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, "passport_SG.html", cfg.Template)
	})

	t.Run("rejections", func(t *testing.T) {
		tests := []struct {
			name string
			body string
		}{
			{name: "missing template", body: "fields: [{key: a, source: /a}]"},
			{name: "no fields", body: "template: t.html"},
			{name: "field without key", body: "template: t.html\nfields: [{source: /a}]"},
			{name: "field without source", body: "template: t.html\nfields: [{key: a}]"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				path := filepath.Join(dir, "bad.yaml")
				require.NoError(t, os.WriteFile(path, []byte(tt.body), 0644))
				_, err := LoadConfig(path)
				assert.ErrorIs(t, err, ErrInvalidDocConfig)
			})
		}
	})
}

// TestResolvePointer tests the JSON pointer subset.
func TestResolvePointer(t *testing.T) {
	customer := sampleCustomer()

	v, err := resolvePointer(customer, "/personal_details/name")
	require.NoError(t, err)
	assert.Equal(t, "Tan Wei Ming", v)

	v, err = resolvePointer(customer, "/id_documents/nric/nric_number")
	require.NoError(t, err)
	assert.Equal(t, "S1234567A", v)

	_, err = resolvePointer(customer, "/no/such/path")
	assert.ErrorIs(t, err, ErrPointerNotFound)

	_, err = resolvePointer(customer, "missing-slash")
	assert.ErrorIs(t, err, ErrPointerNotFound)
}

// TestApplyFormat tests date reformatting and pass-through behavior.
func TestApplyFormat(t *testing.T) {
	assert.Equal(t, "15 Mar 1990", applyFormat("1990-03-15", "date:02 Jan 2006"))
	assert.Equal(t, "1990-03-15", applyFormat("1990-03-15", ""))
	assert.Equal(t, "not-a-date", applyFormat("not-a-date", "date:02 Jan 2006"))
	assert.Equal(t, 42, applyFormat(42, "date:02 Jan 2006"))
}

// TestRenderNRIC tests the full render path: field resolution, template
// execution, and output naming.
func TestRenderNRIC(t *testing.T) {
	templates := t.TempDir()
	out := t.TempDir()
	writeTemplate(t, templates, "nric_SG.html",
		`<p>{{.Fields.name}} / {{.Fields.nric_number}} / issued {{.Fields.issue_date}}</p>`)

	cfg := &DocumentConfig{
		Template:      "nric_SG.html",
		OutputPattern: "nric_{customer_id}.html",
		Fields: []FieldDecl{
			{Key: "name", Source: "/personal_details/name"},
			{Key: "nric_number", Source: "/id_documents/nric/nric_number"},
			{Key: "issue_date", Source: "func:today", Format: "date:02 Jan 2006"},
		},
	}

	r := New(KindNRIC, cfg, templates, out).WithClock(fixedClock)
	path, err := r.Render(sampleCustomer())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(out, "nric_cust-001.html"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Tan Wei Ming")
	assert.Contains(t, string(data), "S1234567A")
	assert.Contains(t, string(data), "01 Aug 2026")
}

// TestRenderPassport tests per-country template selection and the skip rule
// for customers without a passport.
func TestRenderPassport(t *testing.T) {
	templates := t.TempDir()
	writeTemplate(t, templates, "passport_SG.html", `SG layout: {{.Fields.passport_number}}`)
	writeTemplate(t, templates, "passport_MY.html", `MY layout: {{.Fields.passport_number}}`)

	cfg := &DocumentConfig{
		Template: "passport_SG.html",
		Fields: []FieldDecl{
			{Key: "passport_number", Source: "/id_documents/passport/passport_number"},
			{Key: "nationality", Source: "/personal_details/nationality"},
		},
	}

	t.Run("country template selected by nationality", func(t *testing.T) {
		out := t.TempDir()
		customer := sampleCustomer()
		customer["personal_details"].(map[string]any)["nationality"] = "MY"

		r := New(KindPassport, cfg, templates, out)
		path, err := r.Render(customer)
		require.NoError(t, err)

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), "MY layout")
	})

	t.Run("unsupported country falls back to SG", func(t *testing.T) {
		out := t.TempDir()
		customer := sampleCustomer()
		customer["personal_details"].(map[string]any)["nationality"] = "FR"

		r := New(KindPassport, cfg, templates, out)
		path, err := r.Render(customer)
		require.NoError(t, err)

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), "SG layout")
	})

	t.Run("missing country template falls back to configured template", func(t *testing.T) {
		sgOnly := t.TempDir()
		writeTemplate(t, sgOnly, "passport_SG.html", `SG layout: {{.Fields.passport_number}}`)

		out := t.TempDir()
		customer := sampleCustomer()
		customer["personal_details"].(map[string]any)["nationality"] = "MY"

		r := New(KindPassport, cfg, sgOnly, out)
		path, err := r.Render(customer)
		require.NoError(t, err)

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), "SG layout")
	})

	t.Run("customer without passport is skipped", func(t *testing.T) {
		out := t.TempDir()
		customer := sampleCustomer()
		delete(customer["id_documents"].(map[string]any), "passport")

		r := New(KindPassport, cfg, templates, out)
		path, err := r.Render(customer)
		require.NoError(t, err)
		assert.Empty(t, path)

		entries, err := os.ReadDir(out)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})
}

// TestRenderFailures tests the error paths a hook would log and skip.
func TestRenderFailures(t *testing.T) {
	templates := t.TempDir()
	out := t.TempDir()
	writeTemplate(t, templates, "nric_SG.html", `{{.Fields.name}}`)

	t.Run("dangling pointer", func(t *testing.T) {
		cfg := &DocumentConfig{
			Template: "nric_SG.html",
			Fields:   []FieldDecl{{Key: "name", Source: "/nope"}},
		}
		_, err := New(KindNRIC, cfg, templates, out).Render(sampleCustomer())
		assert.ErrorIs(t, err, ErrPointerNotFound)
	})

	t.Run("unknown func source", func(t *testing.T) {
		cfg := &DocumentConfig{
			Template: "nric_SG.html",
			Fields:   []FieldDecl{{Key: "name", Source: "func:tomorrow"}},
		}
		_, err := New(KindNRIC, cfg, templates, out).Render(sampleCustomer())
		assert.ErrorIs(t, err, ErrUnsupportedSource)
	})

	t.Run("missing template file", func(t *testing.T) {
		cfg := &DocumentConfig{
			Template: "gone.html",
			Fields:   []FieldDecl{{Key: "name", Source: "/personal_details/name"}},
		}
		_, err := New(KindNRIC, cfg, templates, out).Render(sampleCustomer())
		assert.Error(t, err)
	})
}

// TestOutputNameDefault tests the default output pattern.
func TestOutputNameDefault(t *testing.T) {
	r := New(KindNRIC, &DocumentConfig{Template: "t.html"}, "", "")
	assert.Equal(t, "nric_cust-001.html", r.outputName(sampleCustomer()))
}
