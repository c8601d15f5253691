package rules

import (
	"strings"
	"time"

	"github.com/hmcts/cpp-context-prosecution-casefile-sub008/internal/casefile/models"
	"github.com/hmcts/cpp-context-prosecution-casefile-sub008/internal/casefile/problems"
)

// Generic one-field checks. The individual date and required-field rules are
// all instances of these constructors; they differ only in which field they
// read and which problem code they report.

// offenceDateNotInFuture builds a rule reporting code for every offence whose
// extracted date falls after the pass timestamp. Offences without the date
// are skipped; a missing date is not a future date.
func offenceDateNotInFuture(id ID, code problems.Code, fieldKey string, extract func(models.Offence) *time.Time) DefendantRule {
	return DefendantRule{
		ID: id,
		Validate: func(subject DefendantSubject) []problems.Problem {
			var found []problems.Problem
			for _, offence := range subject.Defendant.Offences {
				date := extract(offence)
				if date == nil || !date.After(subject.Now) {
					continue
				}
				found = append(found, problems.New(code,
					problems.V(offence.ID, fieldKey, date.Format(time.RFC3339)),
				))
			}
			return found
		},
	}
}

// offenceFieldRequired builds a rule reporting code for every offence whose
// extracted field is blank.
func offenceFieldRequired(id ID, code problems.Code, fieldKey string, extract func(models.Offence) string) DefendantRule {
	return DefendantRule{
		ID: id,
		Validate: func(subject DefendantSubject) []problems.Problem {
			var found []problems.Problem
			for _, offence := range subject.Defendant.Offences {
				if strings.TrimSpace(extract(offence)) != "" {
					continue
				}
				found = append(found, problems.New(code,
					problems.V(offence.ID, fieldKey, ""),
				))
			}
			return found
		},
	}
}

// caseFieldRequired builds a rule reporting code when the extracted
// case-level field is blank.
func caseFieldRequired(id ID, code problems.Code, fieldKey string, extract func(models.CaseDetails) string) DefendantRule {
	return DefendantRule{
		ID: id,
		Validate: func(subject DefendantSubject) []problems.Problem {
			if strings.TrimSpace(extract(subject.Case)) != "" {
				return nil
			}
			return []problems.Problem{problems.New(code,
				problems.V(subject.Case.CaseID, fieldKey, ""),
			)}
		},
	}
}
