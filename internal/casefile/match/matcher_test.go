package match

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/hmcts/cpp-context-prosecution-casefile-sub008/internal/casefile/models"
)

// =============================================================================
// Matcher Test Suite
// =============================================================================
// Justification for unit tests: the cascade's narrowing and refusal semantics
// (no fallback past a stage, refusing ambiguous matches) are the core of
// material routing and must be pinned precisely at every stage boundary.

type MatcherSuite struct {
	suite.Suite
}

func TestMatcherSuite(t *testing.T) {
	suite.Run(t, new(MatcherSuite))
}

const caseID = "case-1"

func dob(year int, month time.Month, day int) *time.Time {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &t
}

func defendant(id, surname, forenames string, dateOfBirth *time.Time) models.Defendant {
	return models.Defendant{
		ID:          id,
		ASN:         "asn-" + id,
		Name:        models.PersonName{Surname: surname, Forenames: forenames},
		DateOfBirth: dateOfBirth,
	}
}

func reference(surname, forenames string, dateOfBirth *time.Time) models.ExternalDefendantReference {
	return models.ExternalDefendantReference{
		CaseID:      caseID,
		Surname:     surname,
		Forenames:   forenames,
		DateOfBirth: dateOfBirth,
	}
}

// =============================================================================
// Case Precondition
// =============================================================================

func (s *MatcherSuite) TestCasePrecondition() {
	candidates := []models.Defendant{defendant("d1", "Smith", "John", nil)}

	s.Run("reference for a different case never matches", func() {
		ref := reference("Smith", "John", nil)
		ref.CaseID = "other-case"
		result := Match(caseID, ref, candidates)
		s.Equal(OutcomeUnmatched, result.Outcome)
		s.Nil(result.Defendant)
	})
}

// =============================================================================
// Stage 1: Surname
// =============================================================================

func (s *MatcherSuite) TestSurnameStage() {
	s.Run("single surname match resolves without further stages", func() {
		candidates := []models.Defendant{
			defendant("d1", "Smith", "John", nil),
			defendant("d2", "Jones", "John", nil),
		}
		// Forenames conflict, but the surname alone already identified d1.
		result := Match(caseID, reference("Smith", "Peter", nil), candidates)
		s.Equal(OutcomeMatched, result.Outcome)
		s.Equal("d1", result.Defendant.ID)
	})

	s.Run("no surname match is unmatched", func() {
		candidates := []models.Defendant{defendant("d1", "Smith", "John", nil)}
		result := Match(caseID, reference("Brown", "John", nil), candidates)
		s.Equal(OutcomeUnmatched, result.Outcome)
	})

	s.Run("comparison ignores case and surrounding whitespace", func() {
		candidates := []models.Defendant{defendant("d1", "  SMITH ", "John", nil)}
		result := Match(caseID, reference("smith", "", nil), candidates)
		s.Equal(OutcomeMatched, result.Outcome)
		s.Equal("d1", result.Defendant.ID)
	})

	s.Run("blank surnames never satisfy the criterion", func() {
		candidates := []models.Defendant{defendant("d1", "", "John", nil)}
		result := Match(caseID, reference("", "John", nil), candidates)
		s.Equal(OutcomeUnmatched, result.Outcome)
	})
}

// =============================================================================
// Stage 2: Forename
// =============================================================================

func (s *MatcherSuite) TestForenameStage() {
	candidates := []models.Defendant{
		defendant("d1", "Smith", "John", nil),
		defendant("d2", "Smith", "Peter", nil),
	}

	s.Run("forename narrows a surname tie to one", func() {
		result := Match(caseID, reference("Smith", "Peter", nil), candidates)
		s.Equal(OutcomeMatched, result.Outcome)
		s.Equal("d2", result.Defendant.ID)
	})

	s.Run("no forename match after a surname tie is final", func() {
		// d1 and d2 both matched on surname; neither matches the forename.
		// The cascade does not fall back to the surname-only set.
		result := Match(caseID, reference("Smith", "Alan", nil), candidates)
		s.Equal(OutcomeUnmatched, result.Outcome)
	})

	s.Run("blank reference forename matches nothing", func() {
		result := Match(caseID, reference("Smith", "", nil), candidates)
		s.Equal(OutcomeUnmatched, result.Outcome)
	})
}

// =============================================================================
// Stage 3: Date of Birth
// =============================================================================

func (s *MatcherSuite) TestDateOfBirthStage() {
	candidates := []models.Defendant{
		defendant("d1", "Smith", "John", dob(1980, time.March, 14)),
		defendant("d2", "Smith", "John", dob(1991, time.July, 2)),
	}

	s.Run("date of birth narrows a full-name tie to one", func() {
		result := Match(caseID, reference("Smith", "John", dob(1991, time.July, 2)), candidates)
		s.Equal(OutcomeMatched, result.Outcome)
		s.Equal("d2", result.Defendant.ID)
	})

	s.Run("same calendar day matches across times of day", func() {
		late := time.Date(1991, time.July, 2, 23, 59, 0, 0, time.UTC)
		result := Match(caseID, reference("Smith", "John", &late), candidates)
		s.Equal(OutcomeMatched, result.Outcome)
		s.Equal("d2", result.Defendant.ID)
	})

	s.Run("no date of birth match is unmatched", func() {
		result := Match(caseID, reference("Smith", "John", dob(1975, time.January, 1)), candidates)
		s.Equal(OutcomeUnmatched, result.Outcome)
	})

	s.Run("missing reference date of birth matches nothing", func() {
		result := Match(caseID, reference("Smith", "John", nil), candidates)
		s.Equal(OutcomeUnmatched, result.Outcome)
	})

	s.Run("surviving tie after date of birth is ambiguous", func() {
		twins := []models.Defendant{
			defendant("d1", "Smith", "John", dob(1980, time.March, 14)),
			defendant("d2", "Smith", "John", dob(1980, time.March, 14)),
		}
		result := Match(caseID, reference("Smith", "John", dob(1980, time.March, 14)), twins)
		s.Equal(OutcomeAmbiguous, result.Outcome)
		s.Nil(result.Defendant)
	})
}
