package rules

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/hmcts/cpp-context-prosecution-casefile-sub008/internal/casefile/models"
	"github.com/hmcts/cpp-context-prosecution-casefile-sub008/internal/casefile/problems"
	"github.com/hmcts/cpp-context-prosecution-casefile-sub008/internal/casefile/refdata"
	memorystore "github.com/hmcts/cpp-context-prosecution-casefile-sub008/internal/casefile/refdata/store/memory"
)

// =============================================================================
// Defendant Rules Test Suite
// =============================================================================
// Justification for unit tests: each rule's skip conditions (blank codes, nil
// dates, organisations) and the enrich-then-validate split decide whether a
// submission is rejected; they are exercised here against a seeded store.

type DefendantRulesSuite struct {
	suite.Suite
	store *memorystore.Store
	now   time.Time
}

func TestDefendantRulesSuite(t *testing.T) {
	suite.Run(t, new(DefendantRulesSuite))
}

func (s *DefendantRulesSuite) SetupTest() {
	s.store = memorystore.New()
	s.now = time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)
}

// subject builds a DefendantSubject with a fresh cache and runs the given
// enrichers over it first, mirroring the pipeline's enrich-then-validate
// order.
func (s *DefendantRulesSuite) subject(d models.Defendant, enrichers ...Enricher) DefendantSubject {
	subject := DefendantSubject{
		Case:      models.CaseDetails{CaseID: "case-1"},
		Defendant: d,
		RefData:   refdata.NewCache(),
		Now:       s.now,
	}
	for _, e := range enrichers {
		s.Require().NoError(e.Enrich(context.Background(), subject, s.store))
	}
	return subject
}

func datePtr(t time.Time) *time.Time {
	return &t
}

// =============================================================================
// Code-Known Rules
// =============================================================================

func (s *DefendantRulesSuite) TestOffenceCodeKnown() {
	rule := offenceCodeKnown()
	enricher := enrichOffenceCodes()

	s.Run("known active code passes", func() {
		s.store.Seed(refdata.KindOffence, "TH68001", refdata.Record{Code: "TH68001"})
		d := models.Defendant{ID: "d1", Offences: []models.Offence{{ID: "o1", Code: "TH68001"}}}
		s.Empty(rule.Validate(s.subject(d, enricher)))
	})

	s.Run("unknown code reports a problem against the offence", func() {
		d := models.Defendant{ID: "d1", Offences: []models.Offence{{ID: "o1", Code: "XX999"}}}
		found := rule.Validate(s.subject(d, enricher))
		s.Require().Len(found, 1)
		s.Equal(problems.CodeOffenceCodeNotFound, found[0].Code)
		s.Equal("o1", found[0].Values[0].EntityID)
		s.Equal("XX999", found[0].Values[0].Value)
	})

	s.Run("code outside its effective window reports a problem", func() {
		expired := time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)
		s.store.Seed(refdata.KindOffence, "OLD001", refdata.Record{Code: "OLD001", EffectiveTo: &expired})
		d := models.Defendant{ID: "d1", Offences: []models.Offence{{ID: "o1", Code: "OLD001"}}}
		found := rule.Validate(s.subject(d, enricher))
		s.Require().Len(found, 1)
		s.Equal(problems.CodeOffenceCodeNotFound, found[0].Code)
	})

	s.Run("blank codes are out of scope", func() {
		d := models.Defendant{ID: "d1", Offences: []models.Offence{{ID: "o1"}}}
		s.Empty(rule.Validate(s.subject(d, enricher)))
	})

	s.Run("each offending offence reports separately", func() {
		d := models.Defendant{ID: "d1", Offences: []models.Offence{
			{ID: "o1", Code: "XX1"},
			{ID: "o2", Code: "XX2"},
		}}
		found := rule.Validate(s.subject(d, enricher))
		s.Len(found, 2)
	})
}

func (s *DefendantRulesSuite) TestAlcoholMethodKnown() {
	rule := alcoholMethodKnown()
	enricher := enrichAlcoholMethods()

	s.Run("known method passes", func() {
		s.store.Seed(refdata.KindAlcoholMethod, "BREATH", refdata.Record{Code: "BREATH"})
		d := models.Defendant{ID: "d1", Offences: []models.Offence{
			{ID: "o1", AlcoholLevel: &models.AlcoholLevel{Amount: 40, Method: "BREATH"}},
		}}
		s.Empty(rule.Validate(s.subject(d, enricher)))
	})

	s.Run("offence without an alcohol level is skipped", func() {
		d := models.Defendant{ID: "d1", Offences: []models.Offence{{ID: "o1"}}}
		s.Empty(rule.Validate(s.subject(d, enricher)))
	})

	s.Run("unknown method reports against alcoholLevel.method", func() {
		d := models.Defendant{ID: "d1", Offences: []models.Offence{
			{ID: "o1", AlcoholLevel: &models.AlcoholLevel{Amount: 40, Method: "GUESS"}},
		}}
		found := rule.Validate(s.subject(d, enricher))
		s.Require().Len(found, 1)
		s.Equal(problems.CodeAlcoholMethodNotFound, found[0].Code)
		s.Equal("alcoholLevel.method", found[0].Values[0].FieldKey)
	})
}

// =============================================================================
// Date Rules
// =============================================================================

func (s *DefendantRulesSuite) TestArrestDateNotFuture() {
	rule := arrestDateNotFuture()

	s.Run("future arrest date reports with the full timestamp", func() {
		future := s.now.Add(48 * time.Hour)
		d := models.Defendant{ID: "d1", Offences: []models.Offence{
			{ID: "o1", ArrestDate: datePtr(future)},
		}}
		found := rule.Validate(s.subject(d))
		s.Require().Len(found, 1)
		s.Equal(problems.CodeArrestDateInFuture, found[0].Code)
		s.Equal("o1", found[0].Values[0].EntityID)
		s.Equal(future.Format(time.RFC3339), found[0].Values[0].Value)
	})

	s.Run("past and missing arrest dates pass", func() {
		d := models.Defendant{ID: "d1", Offences: []models.Offence{
			{ID: "o1", ArrestDate: datePtr(s.now.Add(-time.Hour))},
			{ID: "o2"},
		}}
		s.Empty(rule.Validate(s.subject(d)))
	})

	s.Run("the pass timestamp itself is not in the future", func() {
		d := models.Defendant{ID: "d1", Offences: []models.Offence{
			{ID: "o1", ArrestDate: datePtr(s.now)},
		}}
		s.Empty(rule.Validate(s.subject(d)))
	})
}

func (s *DefendantRulesSuite) TestChargeDateNotFuture() {
	rule := chargeDateNotFuture()
	d := models.Defendant{ID: "d1", Offences: []models.Offence{
		{ID: "o1", ChargeDate: datePtr(s.now.Add(time.Hour))},
	}}
	found := rule.Validate(s.subject(d))
	s.Require().Len(found, 1)
	s.Equal(problems.CodeChargeDateInFuture, found[0].Code)
}

// =============================================================================
// Required-Field Rules
// =============================================================================

func (s *DefendantRulesSuite) TestRequiredFields() {
	s.Run("statement of facts required per offence", func() {
		rule := statementOfFactsPresent()
		d := models.Defendant{ID: "d1", Offences: []models.Offence{
			{ID: "o1", StatementOfFacts: "seen driving"},
			{ID: "o2", StatementOfFacts: "   "},
		}}
		found := rule.Validate(s.subject(d))
		s.Require().Len(found, 1)
		s.Equal(problems.CodeStatementOfFactsMissing, found[0].Code)
		s.Equal("o2", found[0].Values[0].EntityID)
	})

	s.Run("fee status required on the case", func() {
		rule := feeStatusPresent()
		subject := s.subject(models.Defendant{ID: "d1"})
		found := rule.Validate(subject)
		s.Require().Len(found, 1)
		s.Equal(problems.CodeFeeStatusMissing, found[0].Code)
		s.Equal("case-1", found[0].Values[0].EntityID)

		subject.Case.FeeStatus = "PAID"
		s.Empty(rule.Validate(subject))
	})

	s.Run("date of birth required for individuals only", func() {
		rule := dateOfBirthPresent()

		individual := models.Defendant{ID: "d1"}
		found := rule.Validate(s.subject(individual))
		s.Require().Len(found, 1)
		s.Equal(problems.CodeDateOfBirthMissing, found[0].Code)

		organisation := models.Defendant{ID: "d2", OrganisationName: "Acme Ltd"}
		s.Empty(rule.Validate(s.subject(organisation)))

		withDOB := models.Defendant{ID: "d3", DateOfBirth: datePtr(time.Date(1980, 1, 1, 0, 0, 0, 0, time.UTC))}
		s.Empty(rule.Validate(s.subject(withDOB)))
	})
}

// =============================================================================
// Table Enrichers
// =============================================================================

func (s *DefendantRulesSuite) TestTableEnrichers() {
	s.store.Seed(refdata.KindCountry, refdata.TableKey, refdata.Record{Code: "GB"}, refdata.Record{Code: "FR"})
	subject := s.subject(models.Defendant{ID: "d1"}, enrichCountries(), enrichOffenceDateCodes())

	s.Len(subject.RefData.Countries(), 2)
	s.True(subject.RefData.Fetched(refdata.KindOffenceDateCode, refdata.TableKey))
	s.Empty(subject.RefData.OffenceDateCodes())
}
