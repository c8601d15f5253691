package rules

import (
	"context"
	"fmt"

	"github.com/hmcts/cpp-context-prosecution-casefile-sub008/internal/casefile/problems"
	"github.com/hmcts/cpp-context-prosecution-casefile-sub008/internal/casefile/refdata"
)

// Executor runs rule sets over a subject. Execution order is exactly the
// declared order: later rules may observe cache entries earlier enrichers
// populated for the same code, so reordering changes output.
type Executor struct {
	lookup refdata.Lookup
}

// NewExecutor builds an executor bound to a reference-data lookup.
func NewExecutor(lookup refdata.Lookup) (*Executor, error) {
	if lookup == nil {
		return nil, fmt.Errorf("reference-data lookup is required")
	}
	return &Executor{lookup: lookup}, nil
}

// Enrich runs every enricher in order, populating the subject's cache. The
// first collaborator fault aborts and propagates; the caller must abandon the
// whole validation pass.
func (e *Executor) Enrich(ctx context.Context, subject DefendantSubject, enrichers []Enricher) error {
	for _, enricher := range enrichers {
		if err := enricher.Enrich(ctx, subject, e.lookup); err != nil {
			return fmt.Errorf("enricher %s: %w", enricher.ID, err)
		}
	}
	return nil
}

// Run invokes every rule against the subject and concatenates the returned
// Problems in rule-declaration order. Running twice over the same subject and
// an untouched cache yields identical output.
func (e *Executor) Run(subject DefendantSubject, set []DefendantRule) []problems.Problem {
	var found []problems.Problem
	for _, rule := range set {
		found = append(found, rule.Validate(subject)...)
	}
	return found
}

// RunGroup invokes every group rule in order over the whole case list.
func (e *Executor) RunGroup(subject GroupSubject, set []GroupRule) []problems.Problem {
	var found []problems.Problem
	for _, rule := range set {
		found = append(found, rule.Validate(subject)...)
	}
	return found
}
