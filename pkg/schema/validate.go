package schema

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	pexpyaml "github.com/ccoe-dev/pexp/pkg/yaml"
)

var errPrinter = message.NewPrinter(language.English)

// Validator validates decoded documents against the embedded JSON schema.
// Uses [github.com/santhosh-tekuri/jsonschema/v6].
type Validator struct {
	schema *jsonschema.Schema
}

// NewValidator creates a new [Validator] with the provided JSON schema data.
func NewValidator(url string, schemaData []byte) (*Validator, error) {
	var schema any

	err := json.Unmarshal(schemaData, &schema)
	if err != nil {
		return nil, fmt.Errorf("unmarshal schema: %w", err)
	}

	compiler := jsonschema.NewCompiler()

	err = compiler.AddResource(url, schema)
	if err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}

	jss, err := compiler.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}

	return &Validator{schema: jss}, nil
}

func MustNewValidator(url string, schemaData []byte) *Validator {
	v, err := NewValidator(url, schemaData)
	if err != nil {
		panic(err)
	}

	return v
}

// Validate validates the given data against the schema and returns one
// [Violation] per leaf cause, each located by its document path.
func (v *Validator) Validate(data any) []Violation {
	err := v.schema.Validate(data)
	if err == nil {
		return nil
	}

	var validationErr *jsonschema.ValidationError
	if !errors.As(err, &validationErr) {
		return []Violation{{Path: "$", Message: err.Error()}}
	}

	var violations []Violation

	collectLeafCauses(validationErr, &violations)

	return violations
}

// collectLeafCauses walks the cause tree and records the most specific
// (leaf) causes, which carry the actual violations.
func collectLeafCauses(err *jsonschema.ValidationError, out *[]Violation) {
	if len(err.Causes) == 0 {
		*out = append(*out, Violation{
			Path:    pathFromLocation(err.InstanceLocation),
			Message: err.ErrorKind.LocalizedString(errPrinter),
		})

		return
	}

	for _, cause := range err.Causes {
		collectLeafCauses(cause, out)
	}
}

// pathFromLocation converts an InstanceLocation slice to a YAMLPath string.
func pathFromLocation(location []string) string {
	pb := pexpyaml.NewPathBuilder()
	current := pb.Root()

	for _, part := range location {
		// Check if this part is a numeric index.
		var index uint

		_, err := fmt.Sscanf(part, "%d", &index)
		if err == nil {
			current = current.Index(index)
		} else {
			current = current.Child(part)
		}
	}

	return current.Build().String()
}
