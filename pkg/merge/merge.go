package merge

import (
	"fmt"
	"slices"
	"strings"

	"github.com/ccoe-dev/pexp/pkg/rule"
	"github.com/ccoe-dev/pexp/pkg/schema"
)

// ResolvedAccount is the final, conflict-checked account definition after
// merging all exceptions matching one project. It exists only for one run.
type ResolvedAccount struct {
	schema.ServiceAccount

	// OriginRuleIDs are the ids of every exception that contributed this
	// exact definition. Not part of the emitted output.
	OriginRuleIDs []string `json:"-"`
}

// ConflictError reports two matching exceptions that disagree on a shared
// name suffix. A name suffix maps 1:1 onto a cloud identity name, so two
// different definitions under the same suffix are an authoring contradiction
// that halts the pipeline. Resolving them by precedence instead would risk
// provisioning the wrong access.
type ConflictError struct {
	NameSuffix string
	RuleIDs    []string
	Fields     []string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflicting definitions for service account %q: exceptions [%s] disagree on %s",
		e.NameSuffix, strings.Join(e.RuleIDs, ", "), strings.Join(e.Fields, ", "))
}

// outcome of one insert-or-check step.
type outcome int

const (
	outcomeInserted outcome = iota
	outcomeRepeated
	outcomeConflicted
)

// table tracks resolved accounts keyed by name suffix, preserving first-seen
// order.
type table struct {
	byName map[string]*ResolvedAccount
	order  []string
}

func newTable() *table {
	return &table{byName: map[string]*ResolvedAccount{}}
}

// upsert is the single insert-or-check operation: a new suffix is inserted,
// an exact re-declaration is recorded as another origin, and anything else
// is a conflict.
func (t *table) upsert(ruleID string, sa schema.ServiceAccount) (outcome, []string) {
	existing, ok := t.byName[sa.NameSuffix]
	if !ok {
		t.byName[sa.NameSuffix] = &ResolvedAccount{
			ServiceAccount: sa,
			OriginRuleIDs:  []string{ruleID},
		}
		t.order = append(t.order, sa.NameSuffix)

		return outcomeInserted, nil
	}

	diff := differingFields(existing.ServiceAccount, sa)
	if len(diff) > 0 {
		return outcomeConflicted, diff
	}

	if !slices.Contains(existing.OriginRuleIDs, ruleID) {
		existing.OriginRuleIDs = append(existing.OriginRuleIDs, ruleID)
	}

	return outcomeRepeated, nil
}

func (t *table) resolved() []ResolvedAccount {
	accounts := make([]ResolvedAccount, 0, len(t.order))
	for _, suffix := range t.order {
		accounts = append(accounts, *t.byName[suffix])
	}

	return accounts
}

// differingFields compares two declarations of the same name suffix. Role
// lists are compared as sets.
func differingFields(a, b schema.ServiceAccount) []string {
	var fields []string

	if !equalRoleSets(a.IAMRoles, b.IAMRoles) {
		fields = append(fields, "iam_roles")
	}
	if a.CreateJSONKey != b.CreateJSONKey {
		fields = append(fields, "create_json_key")
	}
	if a.Description != b.Description {
		fields = append(fields, "description")
	}

	return fields
}

func equalRoleSets(a, b []string) bool {
	as := slices.Clone(a)
	bs := slices.Clone(b)
	slices.Sort(as)
	slices.Sort(bs)

	as = slices.Compact(as)
	bs = slices.Compact(bs)

	return slices.Equal(as, bs)
}

// Accounts merges the service accounts of the matched rules, walking rules
// in order and each rule's accounts in order. The first conflict aborts the
// merge.
func Accounts(matched rule.Rules) ([]ResolvedAccount, error) {
	t := newTable()

	for _, r := range matched {
		for _, sa := range r.Exception.Spec.ServiceAccounts {
			o, diff := t.upsert(r.Exception.ID, sa)
			if o == outcomeConflicted {
				return nil, &ConflictError{
					NameSuffix: sa.NameSuffix,
					RuleIDs:    append(slices.Clone(t.byName[sa.NameSuffix].OriginRuleIDs), r.Exception.ID),
					Fields:     diff,
				}
			}
		}
	}

	return t.resolved(), nil
}
