package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/hmcts/cpp-context-prosecution-casefile-sub008/internal/casefile/events"
	"github.com/hmcts/cpp-context-prosecution-casefile-sub008/internal/casefile/models"
	"github.com/hmcts/cpp-context-prosecution-casefile-sub008/internal/casefile/problems"
	"github.com/hmcts/cpp-context-prosecution-casefile-sub008/internal/casefile/refdata"
	"github.com/hmcts/cpp-context-prosecution-casefile-sub008/internal/casefile/rules"

	memorystore "github.com/hmcts/cpp-context-prosecution-casefile-sub008/internal/casefile/refdata/store/memory"
)

// =============================================================================
// Pipeline Test Suite
// =============================================================================
// Justification for unit tests: classification, per-channel event policy, and
// the no-partial-emission guarantee are cross-cutting behaviours only visible
// when matching, enrichment, and rule execution run together.

type PipelineSuite struct {
	suite.Suite
	store    *memorystore.Store
	pipeline *Pipeline
	now      time.Time
}

func TestPipelineSuite(t *testing.T) {
	suite.Run(t, new(PipelineSuite))
}

const rulesConfig = `
group:
  - group-case-count

rulesets:
  - channels: [POLICE]
    initiations: [C]
    enrichers: [enrich-offence-codes]
    errors: [offence-code-known, arrest-date-not-future]
    warnings: [date-of-birth-present]

  - channels: [SPI]
    errors: [statement-of-facts-present]

defaults:
  enrichers: [enrich-offence-codes]
  errors: [offence-code-known]
  warnings: [offence-wording-present]
`

func (s *PipelineSuite) SetupTest() {
	s.store = memorystore.New()
	s.store.Seed(refdata.KindOffence, "TH68001", refdata.Record{Code: "TH68001"})
	s.now = time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)

	provider, err := rules.ParseProvider([]byte(rulesConfig), rules.NewRegistry())
	s.Require().NoError(err)
	executor, err := rules.NewExecutor(s.store)
	s.Require().NoError(err)

	s.pipeline, err = New(provider, executor, WithClock(func() time.Time { return s.now }))
	s.Require().NoError(err)
}

func (s *PipelineSuite) submission(defendants ...models.Defendant) Submission {
	return Submission{
		Case: models.CaseDetails{
			CaseID:         "case-1",
			Channel:        models.ChannelPolice,
			InitiationCode: models.InitiationCharge,
		},
		Defendants: defendants,
	}
}

func validDefendant(id string) models.Defendant {
	dob := time.Date(1985, time.April, 3, 0, 0, 0, 0, time.UTC)
	return models.Defendant{
		ID:                           id,
		ProsecutorDefendantReference: "pref-" + id,
		Name:                         models.PersonName{Surname: "Smith", Forenames: "John"},
		DateOfBirth:                  &dob,
		Offences:                     []models.Offence{{ID: "o-" + id, Code: "TH68001"}},
	}
}

func eventTypes(list []events.Event) []events.Type {
	out := make([]events.Type, 0, len(list))
	for _, e := range list {
		out = append(out, e.Type)
	}
	return out
}

// =============================================================================
// Constructor Tests
// =============================================================================

func (s *PipelineSuite) TestNew() {
	executor, err := rules.NewExecutor(s.store)
	s.Require().NoError(err)

	_, err = New(nil, executor)
	s.Error(err)

	provider, err := rules.ParseProvider([]byte(rulesConfig), rules.NewRegistry())
	s.Require().NoError(err)
	_, err = New(provider, nil)
	s.Error(err)
}

// =============================================================================
// Classification Tests
// =============================================================================

func (s *PipelineSuite) TestClassification() {
	ctx := context.Background()

	s.Run("clean submission is accepted", func() {
		outcome, err := s.pipeline.ValidateDefendants(ctx, s.submission(validDefendant("d1")))
		s.Require().NoError(err)
		s.Equal(StatusAccepted, outcome.Status)
		s.Empty(outcome.DefendantProblems)
		s.Empty(outcome.Warnings)
	})

	s.Run("warning-only submission is accepted with warnings", func() {
		d := validDefendant("d1")
		d.DateOfBirth = nil
		outcome, err := s.pipeline.ValidateDefendants(ctx, s.submission(d))
		s.Require().NoError(err)
		s.Equal(StatusAcceptedWithWarnings, outcome.Status)
		s.Empty(outcome.DefendantProblems)
		s.Require().Len(outcome.Warnings, 1)
		s.Equal("pref-d1", outcome.Warnings[0].DefendantReference)
		s.Equal(problems.CodeDateOfBirthMissing, outcome.Warnings[0].Problems[0].Code)
	})

	s.Run("any error problem rejects", func() {
		d := validDefendant("d1")
		d.Offences[0].Code = "UNKNOWN"
		outcome, err := s.pipeline.ValidateDefendants(ctx, s.submission(d))
		s.Require().NoError(err)
		s.Equal(StatusRejected, outcome.Status)
		s.Require().Len(outcome.DefendantProblems, 1)
		s.Equal(problems.CodeOffenceCodeNotFound, outcome.DefendantProblems[0].Problems[0].Code)
	})

	s.Run("errors and warnings stay disjoint", func() {
		d := validDefendant("d1")
		d.DateOfBirth = nil
		future := s.now.Add(time.Hour)
		d.Offences[0].ArrestDate = &future
		outcome, err := s.pipeline.ValidateDefendants(ctx, s.submission(d))
		s.Require().NoError(err)
		s.Equal(StatusRejected, outcome.Status)
		s.Len(outcome.DefendantProblems, 1)
		s.Len(outcome.Warnings, 1)
	})
}

// =============================================================================
// Event Policy Tests
// =============================================================================

func (s *PipelineSuite) TestEventPolicy() {
	ctx := context.Background()

	s.Run("police channel gets per-defendant events", func() {
		outcome, err := s.pipeline.ValidateDefendants(ctx, s.submission(validDefendant("d1")))
		s.Require().NoError(err)
		s.Equal([]events.Type{events.TypeDefendantValidationPassed}, eventTypes(outcome.Events))
		s.Equal("pref-d1", outcome.Events[0].DefendantReference)
		s.Equal(s.now, outcome.Events[0].Timestamp)
	})

	s.Run("failed defendant gets a failure event carrying its problems", func() {
		d := validDefendant("d1")
		d.Offences[0].Code = "UNKNOWN"
		outcome, err := s.pipeline.ValidateDefendants(ctx, s.submission(d))
		s.Require().NoError(err)
		// Rejection also appends the case-level failure event.
		s.Equal([]events.Type{
			events.TypeDefendantValidationFailed,
			events.TypeCaseValidationFailed,
		}, eventTypes(outcome.Events))
		s.Len(outcome.Events[0].Problems, 1)
		s.Len(outcome.Events[1].Problems, 1)
	})

	s.Run("summary proceedings channel suppresses per-defendant events", func() {
		sub := s.submission(validDefendant("d1"))
		sub.Case.Channel = models.ChannelSPI
		sub.Defendants[0].Offences[0].StatementOfFacts = "seen"
		outcome, err := s.pipeline.ValidateDefendants(ctx, sub)
		s.Require().NoError(err)
		s.Equal(StatusAccepted, outcome.Status)
		s.Empty(outcome.Events)
	})

	s.Run("policy override applies", func() {
		provider, err := rules.ParseProvider([]byte(rulesConfig), rules.NewRegistry())
		s.Require().NoError(err)
		executor, err := rules.NewExecutor(s.store)
		s.Require().NoError(err)
		quiet, err := New(provider, executor,
			WithClock(func() time.Time { return s.now }),
			WithEventPolicy(EventPolicy{}),
		)
		s.Require().NoError(err)

		outcome, err := quiet.ValidateDefendants(ctx, s.submission(validDefendant("d1")))
		s.Require().NoError(err)
		s.Empty(outcome.Events)
	})
}

// =============================================================================
// Initiation Override Tests
// =============================================================================

func (s *PipelineSuite) TestInitiationOverride() {
	ctx := context.Background()

	s.Run("valid defendant override selects that ruleset", func() {
		// Case says charge (arrest-date checks apply), defendant overrides to
		// summons, which only the defaults cover: no arrest-date rule runs.
		d := validDefendant("d1")
		d.InitiationCode = models.InitiationSummons
		future := s.now.Add(time.Hour)
		d.Offences[0].ArrestDate = &future

		outcome, err := s.pipeline.ValidateDefendants(ctx, s.submission(d))
		s.Require().NoError(err)
		s.Equal(StatusAcceptedWithWarnings, outcome.Status)
		s.Empty(outcome.DefendantProblems)
	})

	s.Run("unrecognised override falls back to the case code", func() {
		d := validDefendant("d1")
		d.InitiationCode = "ZZ"
		future := s.now.Add(time.Hour)
		d.Offences[0].ArrestDate = &future

		outcome, err := s.pipeline.ValidateDefendants(ctx, s.submission(d))
		s.Require().NoError(err)
		s.Equal(StatusRejected, outcome.Status)
		s.Equal(problems.CodeArrestDateInFuture, outcome.DefendantProblems[0].Problems[0].Code)
	})
}

// =============================================================================
// External Reference Resolution
// =============================================================================

func (s *PipelineSuite) TestExternalReferences() {
	ctx := context.Background()

	newRef := func(surname, forenames string) models.ExternalDefendantReference {
		return models.ExternalDefendantReference{
			CaseID:    "case-1",
			Surname:   surname,
			Forenames: forenames,
		}
	}

	s.Run("matched reference yields a material-added event", func() {
		sub := s.submission(validDefendant("d1"))
		sub.ExternalRefs = []models.ExternalDefendantReference{newRef("Smith", "John")}

		outcome, err := s.pipeline.ValidateDefendants(ctx, sub)
		s.Require().NoError(err)
		s.Equal(StatusAccepted, outcome.Status)
		s.Equal([]events.Type{
			events.TypeDefendantValidationPassed,
			events.TypeMaterialAdded,
		}, eventTypes(outcome.Events))
		s.Equal("pref-d1", outcome.Events[1].DefendantReference)
	})

	s.Run("unmatched reference rejects and parks the material with suggestions", func() {
		sub := s.submission(validDefendant("d1"))
		sub.ExternalRefs = []models.ExternalDefendantReference{newRef("Brown", "Peter")}

		outcome, err := s.pipeline.ValidateDefendants(ctx, sub)
		s.Require().NoError(err)
		s.Equal(StatusRejected, outcome.Status)
		s.Require().Len(outcome.GroupProblems, 1)
		s.Equal(problems.CodeDefendantNotMatched, outcome.GroupProblems[0].Code)

		types := eventTypes(outcome.Events)
		s.Contains(types, events.TypeMaterialPending)
		for _, ev := range outcome.Events {
			if ev.Type == events.TypeMaterialPending {
				s.NotEmpty(ev.Suggestions)
			}
		}
	})

	s.Run("ambiguous reference reports its own code", func() {
		d1 := validDefendant("d1")
		d2 := validDefendant("d2")
		sub := s.submission(d1, d2)
		ref := newRef("Smith", "John")
		dob := time.Date(1985, time.April, 3, 0, 0, 0, 0, time.UTC)
		ref.DateOfBirth = &dob
		sub.ExternalRefs = []models.ExternalDefendantReference{ref}

		outcome, err := s.pipeline.ValidateDefendants(ctx, sub)
		s.Require().NoError(err)
		s.Require().Len(outcome.GroupProblems, 1)
		s.Equal(problems.CodeDefendantMatchAmbiguous, outcome.GroupProblems[0].Code)
	})

	s.Run("rejection converts added material to rejected", func() {
		d := validDefendant("d1")
		d.Offences[0].Code = "UNKNOWN"
		sub := s.submission(d)
		sub.ExternalRefs = []models.ExternalDefendantReference{newRef("Smith", "John")}

		outcome, err := s.pipeline.ValidateDefendants(ctx, sub)
		s.Require().NoError(err)
		s.Equal(StatusRejected, outcome.Status)
		types := eventTypes(outcome.Events)
		s.Contains(types, events.TypeMaterialRejected)
		s.NotContains(types, events.TypeMaterialAdded)
	})
}

// =============================================================================
// Fault Handling
// =============================================================================

type faultyLookup struct{}

func (faultyLookup) Retrieve(context.Context, refdata.Kind, string) ([]refdata.Record, error) {
	return nil, context.DeadlineExceeded
}

func (s *PipelineSuite) TestCollaboratorFault() {
	provider, err := rules.ParseProvider([]byte(rulesConfig), rules.NewRegistry())
	s.Require().NoError(err)
	executor, err := rules.NewExecutor(faultyLookup{})
	s.Require().NoError(err)
	broken, err := New(provider, executor, WithClock(func() time.Time { return s.now }))
	s.Require().NoError(err)

	outcome, err := broken.ValidateDefendants(context.Background(), s.submission(validDefendant("d1")))
	s.Require().Error(err)
	s.Nil(outcome)
	s.Contains(err.Error(), "validate defendant pref-d1")
}
