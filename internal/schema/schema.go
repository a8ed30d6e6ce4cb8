// Package schema implements the validation gate: every assembled record must
// conform to the externally supplied JSON Schema (Draft 2020-12) before it is
// accepted into the output. Non-conformance is treated as a generator defect,
// not a recoverable data condition.
package schema

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Errors returned by the schema package.
var (
	// ErrInvalidSchema is returned when the schema document is missing,
	// unparseable, or fails to compile. It is a configuration failure and
	// surfaces before any record is generated.
	ErrInvalidSchema = errors.New("schema: invalid or missing schema document")
	// ErrSchemaViolation is the class of all record validation failures.
	ErrSchemaViolation = errors.New("schema: record failed validation")
)

// ValidationError reports a record that failed the gate. It identifies the
// failing record index and the instance path of the first violation.
type ValidationError struct {
	// RecordIndex is the zero-based index of the failing record in the batch.
	RecordIndex int
	// InstanceLocation is the JSON pointer to the offending value.
	InstanceLocation string
	// Cause is the underlying validator error.
	Cause error
}

// Error formats the failure with index and violation path.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("record %d failed schema validation at %q: %v",
		e.RecordIndex, e.InstanceLocation, e.Cause)
}

// Unwrap classifies the error as a schema violation.
func (e *ValidationError) Unwrap() error { return ErrSchemaViolation }

// Gate wraps a compiled JSON Schema. It is immutable and safe for reuse
// across a batch.
type Gate struct {
	schema *jsonschema.Schema
}

// CompileBytes compiles a JSON Schema document from raw JSON bytes.
func CompileBytes(data []byte) (*Gate, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("%w: empty document", ErrInvalidSchema)
	}

	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSchema, err)
	}

	compiler := jsonschema.NewCompiler()
	compiler.DefaultDraft(jsonschema.Draft2020)
	if err := compiler.AddResource("customer.schema.json", doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSchema, err)
	}
	compiled, err := compiler.Compile("customer.schema.json")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSchema, err)
	}

	return &Gate{schema: compiled}, nil
}

// CompileFile compiles a JSON Schema document from a file.
func CompileFile(path string) (*Gate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", ErrInvalidSchema, path, err)
	}
	return CompileBytes(data)
}

// Validate checks the serialized record at the given batch index against the
// schema. The bytes passed in must be exactly the bytes that will be emitted,
// so the gate vouches for the output as written.
func (g *Gate) Validate(index int, record []byte) error {
	value, err := jsonschema.UnmarshalJSON(bytes.NewReader(record))
	if err != nil {
		return &ValidationError{RecordIndex: index, InstanceLocation: "", Cause: err}
	}

	if err := g.schema.Validate(value); err != nil {
		return &ValidationError{
			RecordIndex:      index,
			InstanceLocation: violationPath(err),
			Cause:            err,
		}
	}
	return nil
}

// violationPath extracts the instance pointer of the deepest first cause.
func violationPath(err error) string {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return ""
	}
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	return "/" + strings.Join(ve.InstanceLocation, "/")
}
