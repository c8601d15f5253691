// Package pipeline orchestrates defendant matching and rule execution over a
// case's defendant list (and, for group submissions, across a case list),
// classifying the overall outcome and selecting the downstream events to
// emit.
//
// Each invocation is single-threaded and owns its reference-data cache; the
// cache lives for exactly one pass over one case and is discarded afterwards.
// Collaborator faults abort the whole pass: the returned error carries the
// fault and no events are produced, so callers never emit partially.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/hmcts/cpp-context-prosecution-casefile-sub008/internal/casefile/events"
	"github.com/hmcts/cpp-context-prosecution-casefile-sub008/internal/casefile/match"
	"github.com/hmcts/cpp-context-prosecution-casefile-sub008/internal/casefile/models"
	"github.com/hmcts/cpp-context-prosecution-casefile-sub008/internal/casefile/problems"
	"github.com/hmcts/cpp-context-prosecution-casefile-sub008/internal/casefile/refdata"
	"github.com/hmcts/cpp-context-prosecution-casefile-sub008/internal/casefile/rules"
)

// Submission is one inbound case with its defendants and any external
// defendant references awaiting resolution.
type Submission struct {
	Case         models.CaseDetails
	Defendants   []models.Defendant
	ExternalRefs []models.ExternalDefendantReference
	Flags        models.GroupFlags
}

// GroupSubmission is a batch of cases submitted together.
type GroupSubmission struct {
	Cases []models.ProsecutionCase
	Flags models.GroupFlags
}

// EventPolicy controls which channels receive per-defendant outcome events.
type EventPolicy struct {
	PerDefendantEvents map[models.Channel]bool
}

// DefaultEventPolicy emits per-defendant events for the police and CPS
// channels; summary proceedings consumers only take case-level events.
func DefaultEventPolicy() EventPolicy {
	return EventPolicy{
		PerDefendantEvents: map[models.Channel]bool{
			models.ChannelPolice: true,
			models.ChannelCPS:    true,
		},
	}
}

// Clock supplies the pass timestamp; injected for testability.
type Clock func() time.Time

// Pipeline runs validation passes. It is stateless between invocations;
// per-pass state (the reference-data cache) is created inside each call.
type Pipeline struct {
	provider *rules.Provider
	executor *rules.Executor
	policy   EventPolicy
	clock    Clock
}

// Option configures the Pipeline.
type Option func(*Pipeline)

// WithEventPolicy overrides the per-channel event policy.
func WithEventPolicy(policy EventPolicy) Option {
	return func(p *Pipeline) {
		p.policy = policy
	}
}

// WithClock sets the clock used to timestamp passes.
func WithClock(clock Clock) Option {
	return func(p *Pipeline) {
		if clock != nil {
			p.clock = clock
		}
	}
}

// New constructs a pipeline over a rule provider and executor.
func New(provider *rules.Provider, executor *rules.Executor, opts ...Option) (*Pipeline, error) {
	if provider == nil {
		return nil, fmt.Errorf("rule provider is required")
	}
	if executor == nil {
		return nil, fmt.Errorf("rule executor is required")
	}

	p := &Pipeline{
		provider: provider,
		executor: executor,
		policy:   DefaultEventPolicy(),
		clock:    time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// ValidateDefendants runs the full pass over one submission: external
// reference resolution, per-defendant error and warning rule passes, outcome
// classification, and event selection.
func (p *Pipeline) ValidateDefendants(ctx context.Context, sub Submission) (*Outcome, error) {
	now := p.clock()
	cache := refdata.NewCache()

	outcome := &Outcome{}

	// Resolve external defendant references first. A reference that cannot
	// be resolved automatically is an error problem on the case; ranked
	// suggestions ride along on the failed event for manual resolution.
	var matchEvents []events.Event
	for _, ref := range sub.ExternalRefs {
		result := match.Match(sub.Case.CaseID, ref, sub.Defendants)
		if result.Outcome == match.OutcomeMatched {
			matchEvents = append(matchEvents, events.Event{
				Type:               events.TypeMaterialAdded,
				Timestamp:          now,
				CaseID:             sub.Case.CaseID,
				GroupReference:     sub.Flags.GroupReference,
				DefendantReference: result.Defendant.Reference(),
			})
			continue
		}

		problem := unresolvedReferenceProblem(sub.Case.CaseID, ref, result.Outcome)
		outcome.GroupProblems = append(outcome.GroupProblems, problem)
		matchEvents = append(matchEvents, events.Event{
			Type:           events.TypeMaterialPending,
			Timestamp:      now,
			CaseID:         sub.Case.CaseID,
			GroupReference: sub.Flags.GroupReference,
			Problems:       []problems.Problem{problem},
			Suggestions:    suggestionsFor(ref, sub.Defendants),
		})
	}

	perDefendant := p.policy.PerDefendantEvents[sub.Case.Channel]

	for _, defendant := range sub.Defendants {
		initiation := defendant.EffectiveInitiationCode(sub.Case.InitiationCode)
		set := p.provider.SetFor(sub.Case.Channel, initiation, sub.Case.Civil)

		subject := rules.DefendantSubject{
			Case:      sub.Case,
			Defendant: defendant,
			RefData:   cache,
			Now:       now,
		}

		if err := p.executor.Enrich(ctx, subject, set.Enrichers); err != nil {
			return nil, fmt.Errorf("validate defendant %s: %w", defendant.Reference(), err)
		}

		found := p.executor.Run(subject, set.Errors)
		if len(found) > 0 {
			outcome.DefendantProblems = append(outcome.DefendantProblems, DefendantProblem{
				DefendantReference: defendant.Reference(),
				Problems:           found,
			})
			if perDefendant {
				outcome.Events = append(outcome.Events, events.Event{
					Type:               events.TypeDefendantValidationFailed,
					Timestamp:          now,
					CaseID:             sub.Case.CaseID,
					GroupReference:     sub.Flags.GroupReference,
					DefendantReference: defendant.Reference(),
					Problems:           found,
				})
			}
		} else if perDefendant {
			outcome.Events = append(outcome.Events, events.Event{
				Type:               events.TypeDefendantValidationPassed,
				Timestamp:          now,
				CaseID:             sub.Case.CaseID,
				GroupReference:     sub.Flags.GroupReference,
				DefendantReference: defendant.Reference(),
			})
		}

		// Warning pass: separate rule set, disjoint output, never blocks.
		if warnings := p.executor.Run(subject, set.Warnings); len(warnings) > 0 {
			outcome.Warnings = append(outcome.Warnings, DefendantProblem{
				DefendantReference: defendant.Reference(),
				Problems:           warnings,
			})
		}
	}

	outcome.Status = classify(outcome.GroupProblems, outcome.DefendantProblems, outcome.Warnings)
	outcome.Events = append(outcome.Events, p.outcomeEvents(sub, outcome, matchEvents, now)...)
	return outcome, nil
}

// outcomeEvents finalises the event list once the status is known: material
// events for matched references are only released on acceptance, and a
// rejection adds the case-level failure event.
func (p *Pipeline) outcomeEvents(sub Submission, outcome *Outcome, matchEvents []events.Event, now time.Time) []events.Event {
	var out []events.Event

	if outcome.Status == StatusRejected {
		var caseProblems []problems.Problem
		caseProblems = append(caseProblems, outcome.GroupProblems...)
		for _, dp := range outcome.DefendantProblems {
			caseProblems = append(caseProblems, dp.Problems...)
		}
		out = append(out, events.Event{
			Type:           events.TypeCaseValidationFailed,
			Timestamp:      now,
			CaseID:         sub.Case.CaseID,
			GroupReference: sub.Flags.GroupReference,
			Problems:       caseProblems,
		})
		// A rejected case rejects its material outright.
		for _, ev := range matchEvents {
			if ev.Type == events.TypeMaterialAdded {
				ev.Type = events.TypeMaterialRejected
			}
			out = append(out, ev)
		}
		return out
	}

	return append(out, matchEvents...)
}

func unresolvedReferenceProblem(caseID string, ref models.ExternalDefendantReference, outcome match.Outcome) problems.Problem {
	code := problems.CodeDefendantNotMatched
	if outcome == match.OutcomeAmbiguous {
		code = problems.CodeDefendantMatchAmbiguous
	}
	return problems.New(code,
		problems.V(caseID, "surname", ref.Surname),
		problems.V(caseID, "forenames", ref.Forenames),
	)
}

func suggestionsFor(ref models.ExternalDefendantReference, candidates []models.Defendant) []events.Suggestion {
	ranked := match.Suggestions(ref, candidates)
	out := make([]events.Suggestion, 0, len(ranked))
	for _, s := range ranked {
		out = append(out, events.Suggestion{
			DefendantReference: s.Defendant.Reference(),
			Score:              s.Score,
		})
	}
	return out
}
