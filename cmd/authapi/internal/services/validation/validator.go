package validation

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Request schema names.
const (
	SchemaRegister   = "register"
	SchemaLogin      = "login"
	SchemaRefresh    = "refresh"
	SchemaRole       = "role"
	SchemaUserUpdate = "user_update"
)

//go:embed schemas/*.json
var schemaFS embed.FS

// ErrInvalidRequest is wrapped by every *Error.
var ErrInvalidRequest = errors.New("invalid request")

// maxMessageLen caps a single violation message.
const maxMessageLen = 200

// Error lists the violations of one request body.
type Error struct {
	Schema     string
	Violations []string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Schema, strings.Join(e.Violations, "; "))
}

func (e *Error) Unwrap() error { return ErrInvalidRequest }

// Validator validates request bodies against named JSON schemas
type Validator interface {
	// Validate returns nil or an *Error describing every violation.
	Validate(schema string, body []byte) error
}

// SchemaValidator implements Validator using santhosh-tekuri/jsonschema/v6.
// Schemas are embedded and compiled on first use.
type SchemaValidator struct {
	schemaCache *lru.Cache[string, *jsonschema.Schema]
	printer     *message.Printer
}

// NewSchemaValidator creates a new validator with LRU caching for compiled schemas
func NewSchemaValidator(cacheSize int) (*SchemaValidator, error) {
	if cacheSize <= 0 {
		cacheSize = len(Names())
	}
	cache, err := lru.New[string, *jsonschema.Schema](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("create schema cache: %w", err)
	}

	return &SchemaValidator{
		schemaCache: cache,
		printer:     message.NewPrinter(language.English),
	}, nil
}

func (v *SchemaValidator) Validate(schemaName string, body []byte) error {
	schema, err := v.schema(schemaName)
	if err != nil {
		return err
	}

	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(body))
	if err != nil {
		return &Error{Schema: schemaName, Violations: []string{"request body is not valid JSON"}}
	}

	err = schema.Validate(doc)
	if err == nil {
		return nil
	}

	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return &Error{Schema: schemaName, Violations: []string{err.Error()}}
	}
	return &Error{Schema: schemaName, Violations: v.violations(ve)}
}

func (v *SchemaValidator) schema(name string) (*jsonschema.Schema, error) {
	if cached, found := v.schemaCache.Get(name); found {
		return cached, nil
	}

	raw, ok := Source(name)
	if !ok {
		return nil, fmt.Errorf("unknown schema %q", name)
	}
	schema, err := compileSchema(name, raw)
	if err != nil {
		return nil, err
	}

	v.schemaCache.Add(name, schema)
	return schema, nil
}

// compileSchema compiles a JSON schema document into a schema object
func compileSchema(name string, raw []byte) (*jsonschema.Schema, error) {
	parsed, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parse schema %s: %w", name, err)
	}

	// One compiler per schema; the embedded documents have no cross references.
	compiler := jsonschema.NewCompiler()
	compiler.DefaultDraft(jsonschema.Draft7)
	compiler.AssertFormat()

	schemaURL := name + ".json"
	if err := compiler.AddResource(schemaURL, parsed); err != nil {
		return nil, fmt.Errorf("add schema resource %s: %w", name, err)
	}

	schema, err := compiler.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile schema %s: %w", name, err)
	}
	return schema, nil
}

// violations flattens the error tree into one message per leaf, formatted as
// "at '$.email': ...".
func (v *SchemaValidator) violations(ve *jsonschema.ValidationError) []string {
	var out []string
	var walk func(*jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if len(e.Causes) > 0 {
			for _, cause := range e.Causes {
				walk(cause)
			}
			return
		}

		msg := e.ErrorKind.LocalizedString(v.printer)
		if len(msg) > maxMessageLen {
			msg = msg[:maxMessageLen] + "... (truncated)"
		}
		out = append(out, fmt.Sprintf("at '%s': %s", instancePath(e.InstanceLocation), msg))
	}
	walk(ve)
	slices.Sort(out)
	return out
}

// instancePath builds a JSON path from an instance location (["", "email"] -> "$.email").
func instancePath(location []string) string {
	var parts []string
	for _, part := range location {
		if part != "" {
			parts = append(parts, part)
		}
	}
	if len(parts) == 0 {
		return "$"
	}
	return "$." + strings.Join(parts, ".")
}

// Names lists the embedded schema names.
func Names() []string {
	entries, err := fs.ReadDir(schemaFS, "schemas")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), path.Ext(e.Name())))
	}
	return names
}

// Source returns the raw JSON of a named schema.
func Source(name string) ([]byte, bool) {
	if name == "" || strings.ContainsAny(name, "/\\.") {
		return nil, false
	}
	raw, err := schemaFS.ReadFile("schemas/" + name + ".json")
	if err != nil {
		return nil, false
	}
	return raw, true
}

// CacheSize returns the number of compiled schemas held.
func (v *SchemaValidator) CacheSize() int {
	return v.schemaCache.Len()
}
