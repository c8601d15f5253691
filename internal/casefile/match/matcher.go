// Package match resolves an externally-supplied defendant reference onto
// exactly one defendant already held on a case.
//
// The cascade narrows candidates by surname, then forename, then date of
// birth, and refuses to guess when ambiguity survives all three stages: a
// false negative is handed to manual resolution, a false positive would
// attach material to the wrong defendant.
package match

import (
	"github.com/hmcts/cpp-context-prosecution-casefile-sub008/internal/casefile/models"
)

// Outcome is the tri-state result of a matching attempt.
type Outcome string

const (
	// OutcomeMatched means exactly one candidate survived every applied
	// discriminating criterion.
	OutcomeMatched Outcome = "MATCHED"
	// OutcomeUnmatched means no candidate survived.
	OutcomeUnmatched Outcome = "UNMATCHED"
	// OutcomeAmbiguous means more than one candidate survived the final
	// date-of-birth stage. Callers treat this the same as unmatched: no
	// automatic match is made.
	OutcomeAmbiguous Outcome = "AMBIGUOUS"
)

// Result reports the outcome of one matching attempt. Defendant is set only
// when Outcome is OutcomeMatched.
type Result struct {
	Outcome   Outcome
	Defendant *models.Defendant
}

func matched(d models.Defendant) Result {
	return Result{Outcome: OutcomeMatched, Defendant: &d}
}

var (
	unmatched = Result{Outcome: OutcomeUnmatched}
	ambiguous = Result{Outcome: OutcomeAmbiguous}
)

// Match resolves ref against the defendants held on caseID.
//
// Comparison is case-insensitive and whitespace-trimmed throughout. A blank
// surname, forename, or date of birth on either side never satisfies a
// criterion: blank is not equal to blank. The matcher is pure; it neither
// mutates its inputs nor touches any collaborator.
func Match(caseID string, ref models.ExternalDefendantReference, candidates []models.Defendant) Result {
	if ref.CaseID != caseID {
		return unmatched
	}

	// Stage 1: surname.
	bySurname := filter(candidates, func(d models.Defendant) bool {
		return nonBlankEqual(d.Name.Surname, ref.Surname)
	})
	switch len(bySurname) {
	case 0:
		return unmatched
	case 1:
		return matched(bySurname[0])
	}

	// Stage 2: forename, within the surname-matched subset only. An empty
	// result here is final; the cascade never falls back to the wider set.
	byForename := filter(bySurname, func(d models.Defendant) bool {
		return nonBlankEqual(d.Name.Forenames, ref.Forenames)
	})
	switch len(byForename) {
	case 0:
		return unmatched
	case 1:
		return matched(byForename[0])
	}

	// Stage 3: date of birth. No further discriminators are applied past
	// this point.
	byDOB := filter(byForename, func(d models.Defendant) bool {
		return models.SameDate(d.DateOfBirth, ref.DateOfBirth)
	})
	switch len(byDOB) {
	case 0:
		return unmatched
	case 1:
		return matched(byDOB[0])
	default:
		return ambiguous
	}
}

// nonBlankEqual reports whether both values are non-blank and equal after
// trimming and lowercasing.
func nonBlankEqual(candidate, external string) bool {
	c := models.NormaliseName(candidate)
	e := models.NormaliseName(external)
	return c != "" && c == e
}

func filter(defendants []models.Defendant, keep func(models.Defendant) bool) []models.Defendant {
	var out []models.Defendant
	for _, d := range defendants {
		if keep(d) {
			out = append(out, d)
		}
	}
	return out
}
