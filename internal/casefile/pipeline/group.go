package pipeline

import (
	"context"
	"fmt"

	"github.com/hmcts/cpp-context-prosecution-casefile-sub008/internal/casefile/events"
	"github.com/hmcts/cpp-context-prosecution-casefile-sub008/internal/casefile/models"
	"github.com/hmcts/cpp-context-prosecution-casefile-sub008/internal/casefile/rules"
)

// ValidateGroup runs the group pass: group-scoped rules once over the whole
// case list, then a per-case defendant pass for every case. Group-rule
// problems are reported at group level, never attached to a defendant. Each
// case within the group gets its own reference-data cache.
func (p *Pipeline) ValidateGroup(ctx context.Context, sub GroupSubmission) (*Outcome, error) {
	now := p.clock()

	groupSet := p.groupSet(sub.Cases)
	outcome := &Outcome{
		GroupProblems: p.executor.RunGroup(rules.GroupSubject{Cases: sub.Cases, Now: now}, groupSet),
	}

	for _, c := range sub.Cases {
		caseOutcome, err := p.ValidateDefendants(ctx, Submission{
			Case:       c.Details,
			Defendants: c.Defendants,
			Flags:      sub.Flags,
		})
		if err != nil {
			return nil, fmt.Errorf("group case %s: %w", c.Details.CaseID, err)
		}
		outcome.DefendantProblems = append(outcome.DefendantProblems, caseOutcome.DefendantProblems...)
		outcome.Warnings = append(outcome.Warnings, caseOutcome.Warnings...)
		outcome.Events = append(outcome.Events, caseOutcome.Events...)
	}

	outcome.Status = classify(outcome.GroupProblems, outcome.DefendantProblems, outcome.Warnings)
	if len(outcome.GroupProblems) > 0 {
		outcome.Events = append(outcome.Events, events.Event{
			Type:           events.TypeCaseValidationFailed,
			Timestamp:      now,
			CaseID:         groupCaseID(sub.Cases),
			GroupReference: sub.Flags.GroupReference,
			Problems:       outcome.GroupProblems,
		})
	}
	return outcome, nil
}

// groupSet resolves the group rule list. Group rules are channel-independent
// in configuration, so any case's set carries them; an empty group falls
// back to the default set.
func (p *Pipeline) groupSet(cases []models.ProsecutionCase) []rules.GroupRule {
	if len(cases) == 0 {
		return p.provider.SetFor("", "", false).Group
	}
	details := cases[0].Details
	return p.provider.SetFor(details.Channel, details.InitiationCode, details.Civil).Group
}

func groupCaseID(cases []models.ProsecutionCase) string {
	if len(cases) > 0 {
		return cases[0].Details.CaseID
	}
	return ""
}
