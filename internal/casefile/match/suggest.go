package match

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/hmcts/cpp-context-prosecution-casefile-sub008/internal/casefile/models"
)

// Suggestion ranks a candidate defendant for manual resolution after an
// unmatched or ambiguous attempt. Score is a 0..1 name similarity; higher is
// closer.
type Suggestion struct {
	Defendant models.Defendant
	Score     float64
}

// Suggestions ranks candidates by full-name similarity to the external
// reference. It exists purely to assist the manual-resolution path; it never
// influences Match, and callers should only consult it when Match did not
// return OutcomeMatched.
func Suggestions(ref models.ExternalDefendantReference, candidates []models.Defendant) []Suggestion {
	refName := fullName(ref.Forenames, ref.Surname)
	if refName == "" {
		refName = models.NormaliseName(ref.OrganisationName)
	}
	if refName == "" {
		return nil
	}

	suggestions := make([]Suggestion, 0, len(candidates))
	for _, d := range candidates {
		name := fullName(d.Name.Forenames, d.Name.Surname)
		if name == "" {
			name = models.NormaliseName(d.OrganisationName)
		}
		if name == "" {
			continue
		}
		suggestions = append(suggestions, Suggestion{
			Defendant: d,
			Score:     similarity(refName, name),
		})
	}

	// Stable ordering: score descending, then defendant id for determinism
	// between identically-scored candidates.
	sort.SliceStable(suggestions, func(i, j int) bool {
		if suggestions[i].Score != suggestions[j].Score {
			return suggestions[i].Score > suggestions[j].Score
		}
		return suggestions[i].Defendant.ID < suggestions[j].Defendant.ID
	})
	return suggestions
}

func fullName(forenames, surname string) string {
	name := strings.TrimSpace(models.NormaliseName(forenames) + " " + models.NormaliseName(surname))
	return name
}

func similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	distance := levenshtein.ComputeDistance(a, b)
	longest := len([]rune(a))
	if l := len([]rune(b)); l > longest {
		longest = l
	}
	if longest == 0 {
		return 1
	}
	return 1 - float64(distance)/float64(longest)
}
