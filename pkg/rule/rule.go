package rule

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/ccoe-dev/pexp/pkg/schema"
)

// Rule pairs one exception with its compiled project id pattern.
//
// The pattern is compiled once, when the rule is created from a validated
// document, and reused for every match. Matching uses standard [regexp]
// search semantics: patterns are not implicitly anchored, so authors write
// `^...$` when a full-string match is intended.
type Rule struct {
	matchRE *regexp.Regexp

	// Exception is the underlying document entry.
	Exception schema.Exception
}

// New creates a new rule from an exception, compiling its pattern.
func New(ex schema.Exception) (*Rule, error) {
	r := &Rule{Exception: ex}

	err := r.CompileMatch()
	if err != nil {
		return nil, fmt.Errorf("exception %q: %w", ex.ID, err)
	}

	return r, nil
}

// MustNew creates a new rule and panics if there's an error.
func MustNew(ex schema.Exception) *Rule {
	r, err := New(ex)
	if err != nil {
		panic(err)
	}

	return r
}

// CompileMatch compiles the rule's project id pattern. It is a no-op when
// the pattern was already compiled.
func (r *Rule) CompileMatch() error {
	if r.matchRE == nil {
		re, err := regexp.Compile(r.Exception.ProjectIDRegex)
		if err != nil {
			return fmt.Errorf("compile project id pattern: %w", err)
		}

		r.matchRE = re
	}

	return nil
}

// MatchProject reports whether the rule's pattern matches the project id.
func (r *Rule) MatchProject(projectID string) bool {
	if r.matchRE == nil {
		panic(errors.New("rule missing a compiled pattern"))
	}

	return r.matchRE.MatchString(projectID)
}

func (r *Rule) String() string {
	return fmt.Sprintf("%s: %s", r.Exception.ID, r.Exception.ProjectIDRegex)
}

// Rules is an ordered rule list. Order is the document order and is
// semantically significant for both matching and merge tie-breaks.
type Rules []*Rule

// FromDocument compiles every exception of a validated document into a rule,
// preserving document order.
func FromDocument(doc *schema.Document) (Rules, error) {
	rules := make(Rules, 0, len(doc.Exceptions))

	for _, ex := range doc.Exceptions {
		r, err := New(ex)
		if err != nil {
			return nil, err
		}

		rules = append(rules, r)
	}

	return rules, nil
}

// Match returns the ordered subsequence of rules matching the project id.
// Zero matches is a valid outcome and yields an empty result.
func (rs Rules) Match(projectID string) Rules {
	var matched Rules

	for _, r := range rs {
		if r.MatchProject(projectID) {
			matched = append(matched, r)
		}
	}

	return matched
}
