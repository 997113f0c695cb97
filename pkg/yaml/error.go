package yaml

import (
	"fmt"

	"github.com/goccy/go-yaml"
	"github.com/goccy/go-yaml/printer"
	"github.com/goccy/go-yaml/token"
)

// NewPathBuilder creates a builder for YAMLPath strings, used to locate
// violations inside a document.
func NewPathBuilder() *yaml.PathBuilder {
	return &yaml.PathBuilder{}
}

// Error represents a YAML error. It includes the original error, and the
// [*token.Token] where the error occurred.
type Error struct {
	Err   error
	Token *token.Token
}

func (e Error) Error() string {
	if e.Err == nil {
		return ""
	}

	if e.Token != nil {
		var pp printer.Printer

		annotated := pp.PrintErrorToken(e.Token, false)

		return fmt.Sprintf("[%d:%d] %v:\n%s",
			e.Token.Position.Line, e.Token.Position.Column, e.Err, annotated)
	}

	return e.Err.Error()
}

func (e Error) Unwrap() error {
	return e.Err
}
