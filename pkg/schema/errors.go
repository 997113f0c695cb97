package schema

import (
	"fmt"
	"strings"
)

// Violation is a single authoring mistake in an exceptions document, located
// by a YAMLPath-style path into the document.
type Violation struct {
	Path    string
	Message string
}

func (v Violation) String() string {
	if v.Path == "" {
		return v.Message
	}

	return fmt.Sprintf("%s: %s", v.Path, v.Message)
}

// Error aggregates every violation found in one validation pass, so an
// operator sees all authoring mistakes at once.
type Error struct {
	Violations []Violation
}

func (e *Error) Error() string {
	var sb strings.Builder

	if len(e.Violations) == 1 {
		sb.WriteString("invalid exceptions document (1 violation):")
	} else {
		fmt.Fprintf(&sb, "invalid exceptions document (%d violations):", len(e.Violations))
	}

	for _, v := range e.Violations {
		sb.WriteString("\n  - ")
		sb.WriteString(v.String())
	}

	return sb.String()
}
