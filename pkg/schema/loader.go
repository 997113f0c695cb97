package schema

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	_ "embed"

	"github.com/ccoe-dev/pexp/pkg/yaml"
)

//go:generate go run github.com/ccoe-dev/pexp/internal/schemagen -o exceptions.v1.json

var (
	//go:embed exceptions.v1.json
	schemaJSON []byte

	DefaultValidator = MustNewValidator("/exceptions.v1.json", schemaJSON)

	ErrEmptyDocument = errors.New("empty document")
)

// SchemaJSON returns the embedded JSON schema for the exceptions document
// format.
func SchemaJSON() []byte {
	return schemaJSON
}

// Loader parses and validates an exceptions document. Documents are JSON on
// the wire; the YAML decoder accepts both, since JSON is a YAML subset.
type Loader struct {
	validator *Validator
	data      []byte
}

type LoaderOpt func(*Loader)

// WithValidator sets a custom schema validator.
func WithValidator(v *Validator) LoaderOpt {
	return func(l *Loader) {
		l.validator = v
	}
}

func NewLoaderFromBytes(data []byte, opts ...LoaderOpt) *Loader {
	l := &Loader{
		validator: DefaultValidator,
		data:      data,
	}
	for _, opt := range opts {
		opt(l)
	}

	return l
}

func NewLoaderFromFile(path string, opts ...LoaderOpt) (*Loader, error) {
	data, err := readDocument(path)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}

	return NewLoaderFromBytes(data, opts...), nil
}

// Validate checks the document without returning it. It reports every
// violation found, from both the JSON schema and the Go-level checks.
func (l *Loader) Validate() error {
	_, err := l.Load()

	return err
}

// Load parses, validates, and returns the document. On validation failure it
// returns a [*Error] carrying every violation found.
func (l *Loader) Load() (*Document, error) {
	// Decode into interface{} for schema validation.
	var anyDoc any

	dec := yaml.NewDecoder(bytes.NewReader(l.data))

	err := dec.Decode(&anyDoc)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyDocument
		}

		return nil, fmt.Errorf("parse document: %w", err)
	}

	var violations []Violation
	if l.validator != nil {
		violations = append(violations, l.validator.Validate(anyDoc)...)
	}

	doc := &Document{}

	dec = yaml.NewDecoder(bytes.NewReader(l.data))

	err = dec.Decode(doc)
	if err != nil {
		// The schema violations subsume the structural mismatch.
		if len(violations) > 0 {
			return nil, &Error{Violations: violations}
		}

		return nil, fmt.Errorf("decode document: %w", err)
	}

	violations = append(violations, doc.Validate()...)
	if len(violations) > 0 {
		return nil, &Error{Violations: violations}
	}

	return doc, nil
}

func readDocument(path string) ([]byte, error) {
	pathInfo, err := os.Stat(path)
	if pathInfo != nil {
		if err == nil && pathInfo.IsDir() {
			return nil, fmt.Errorf("%s: path is a directory", path)
		}
		if err == nil && !pathInfo.Mode().IsRegular() {
			return nil, fmt.Errorf("%s: unknown file state", path)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("stat file: %w", err)
	}

	data, err := os.ReadFile(path) //nolint:gosec // G304: Potential file inclusion via variable.
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	return data, nil
}
