package rules

import (
	"strconv"

	"github.com/hmcts/cpp-context-prosecution-casefile-sub008/internal/casefile/problems"
)

// Bounds on the number of cases a group submission may carry.
const (
	minGroupCases = 2
	maxGroupCases = 1000
)

func groupCaseCount() GroupRule {
	return GroupRule{
		ID: GroupCaseCount,
		Validate: func(subject GroupSubject) []problems.Problem {
			count := len(subject.Cases)
			if count >= minGroupCases && count <= maxGroupCases {
				return nil
			}
			return []problems.Problem{problems.New(problems.CodeGroupCaseCountInvalid,
				problems.V(groupEntityID(subject), "caseCount", strconv.Itoa(count)),
			)}
		},
	}
}

func groupSingleDefendant() GroupRule {
	return GroupRule{
		ID: GroupSingleDefendant,
		Validate: func(subject GroupSubject) []problems.Problem {
			var found []problems.Problem
			for _, c := range subject.Cases {
				if len(c.Defendants) == 1 {
					continue
				}
				found = append(found, problems.New(problems.CodeGroupDefendantCountInvalid,
					problems.V(c.Details.CaseID, "defendantCount", strconv.Itoa(len(c.Defendants))),
				))
			}
			return found
		},
	}
}

func groupSingleOffence() GroupRule {
	return GroupRule{
		ID: GroupSingleOffence,
		Validate: func(subject GroupSubject) []problems.Problem {
			var found []problems.Problem
			for _, c := range subject.Cases {
				for _, d := range c.Defendants {
					if len(d.Offences) == 1 {
						continue
					}
					found = append(found, problems.New(problems.CodeGroupOffenceCountInvalid,
						problems.V(d.ID, "offenceCount", strconv.Itoa(len(d.Offences))),
					))
				}
			}
			return found
		},
	}
}

func groupUniqueCaseReferences() GroupRule {
	return GroupRule{
		ID: GroupUniqueCaseReferences,
		Validate: func(subject GroupSubject) []problems.Problem {
			seen := make(map[string]bool, len(subject.Cases))
			var found []problems.Problem
			for _, c := range subject.Cases {
				ref := c.Details.ProsecutorCaseReference
				if ref == "" {
					continue
				}
				if seen[ref] {
					found = append(found, problems.New(problems.CodeDuplicateCaseReference,
						problems.V(c.Details.CaseID, "prosecutorCaseReference", ref),
					))
				}
				seen[ref] = true
			}
			return found
		},
	}
}

// groupConsistentOffenceCode requires every offence in the group to carry the
// same offence code as the first one seen. Group submissions batch like
// prosecutions; a stray code means a case was bundled into the wrong group.
func groupConsistentOffenceCode() GroupRule {
	return GroupRule{
		ID: GroupConsistentOffenceCode,
		Validate: func(subject GroupSubject) []problems.Problem {
			expected := ""
			var found []problems.Problem
			for _, c := range subject.Cases {
				for _, d := range c.Defendants {
					for _, o := range d.Offences {
						if o.Code == "" {
							continue
						}
						if expected == "" {
							expected = o.Code
							continue
						}
						if o.Code != expected {
							found = append(found, problems.New(problems.CodeGroupOffenceCodeMismatch,
								problems.V(o.ID, "offenceCode", o.Code),
							))
						}
					}
				}
			}
			return found
		},
	}
}

func groupHearingDateNotPast() GroupRule {
	return GroupRule{
		ID: GroupHearingDateNotPast,
		Validate: func(subject GroupSubject) []problems.Problem {
			var found []problems.Problem
			for _, c := range subject.Cases {
				hearing := c.Details.HearingDate
				if hearing == nil || !hearing.Before(subject.Now) {
					continue
				}
				found = append(found, problems.New(problems.CodeHearingDateInPast,
					problems.V(c.Details.CaseID, "hearingDate", hearing.Format("2006-01-02")),
				))
			}
			return found
		},
	}
}

// groupEntityID gives count-level problems a stable entity to hang off: the
// first case in the group, or a placeholder for an empty submission.
func groupEntityID(subject GroupSubject) string {
	if len(subject.Cases) > 0 {
		return subject.Cases[0].Details.CaseID
	}
	return "group"
}
