package rules

import (
	"context"
	"time"

	"github.com/hmcts/cpp-context-prosecution-casefile-sub008/internal/casefile/models"
	"github.com/hmcts/cpp-context-prosecution-casefile-sub008/internal/casefile/problems"
	"github.com/hmcts/cpp-context-prosecution-casefile-sub008/internal/casefile/refdata"
)

// Enrichers. Each fetches the reference data its paired validator reads; the
// cache deduplicates, so two offences sharing a code cost one lookup.

func enrichOffenceCodes() Enricher {
	return enrichPerOffence(EnrichOffenceCodes, refdata.KindOffence, func(o models.Offence) string {
		return o.Code
	})
}

func enrichVehicleCodes() Enricher {
	return enrichPerOffence(EnrichVehicleCodes, refdata.KindVehicle, func(o models.Offence) string {
		return o.VehicleCode
	})
}

func enrichAlcoholMethods() Enricher {
	return enrichPerOffence(EnrichAlcoholMethods, refdata.KindAlcoholMethod, func(o models.Offence) string {
		if o.AlcoholLevel == nil {
			return ""
		}
		return o.AlcoholLevel.Method
	})
}

func enrichCountries() Enricher {
	return enrichTable(EnrichCountries, refdata.KindCountry)
}

func enrichOffenceDateCodes() Enricher {
	return enrichTable(EnrichOffenceDateCodes, refdata.KindOffenceDateCode)
}

// enrichPerOffence fetches one reference-data key per offence, keyed by the
// extracted code. Blank codes are skipped: there is nothing to look up and
// the paired validator reports the missing field instead.
func enrichPerOffence(id ID, kind refdata.Kind, key func(models.Offence) string) Enricher {
	return Enricher{
		ID: id,
		Enrich: func(ctx context.Context, subject DefendantSubject, lookup refdata.Lookup) error {
			for _, offence := range subject.Defendant.Offences {
				k := key(offence)
				if k == "" {
					continue
				}
				if _, err := subject.RefData.Fetch(ctx, lookup, kind, k); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

// enrichTable loads a whole reference table under the shared table key.
func enrichTable(id ID, kind refdata.Kind) Enricher {
	return Enricher{
		ID: id,
		Enrich: func(ctx context.Context, subject DefendantSubject, lookup refdata.Lookup) error {
			_, err := subject.RefData.Fetch(ctx, lookup, kind, refdata.TableKey)
			return err
		},
	}
}

// Validators backed by the cache. Each reports "not found" when the enrich
// phase left nothing for the offence's code: either the lookup had no data or
// the record is no longer effective.

func offenceCodeKnown() DefendantRule {
	return codeKnownRule(OffenceCodeKnown, refdata.KindOffence, problems.CodeOffenceCodeNotFound,
		"offenceCode", func(o models.Offence) string { return o.Code })
}

func vehicleCodeKnown() DefendantRule {
	return codeKnownRule(VehicleCodeKnown, refdata.KindVehicle, problems.CodeVehicleCodeNotFound,
		"vehicleCode", func(o models.Offence) string { return o.VehicleCode })
}

func alcoholMethodKnown() DefendantRule {
	return codeKnownRule(AlcoholMethodKnown, refdata.KindAlcoholMethod, problems.CodeAlcoholMethodNotFound,
		"alcoholLevel.method", func(o models.Offence) string {
			if o.AlcoholLevel == nil {
				return ""
			}
			return o.AlcoholLevel.Method
		})
}

// codeKnownRule validates the extracted code of every offence against the
// cached records of kind. Blank codes are out of scope here; the required-
// field instances cover those.
func codeKnownRule(id ID, kind refdata.Kind, code problems.Code, fieldKey string, extract func(models.Offence) string) DefendantRule {
	return DefendantRule{
		ID: id,
		Validate: func(subject DefendantSubject) []problems.Problem {
			var found []problems.Problem
			for _, offence := range subject.Defendant.Offences {
				k := extract(offence)
				if k == "" {
					continue
				}
				record, ok := subject.RefData.Find(kind, k)
				if ok && record.ActiveOn(subject.Now) {
					continue
				}
				found = append(found, problems.New(code,
					problems.V(offence.ID, fieldKey, k),
				))
			}
			return found
		},
	}
}

func dateOfBirthPresent() DefendantRule {
	return DefendantRule{
		ID: DateOfBirthPresent,
		Validate: func(subject DefendantSubject) []problems.Problem {
			// Organisations have no date of birth.
			if subject.Defendant.OrganisationName != "" || subject.Defendant.DateOfBirth != nil {
				return nil
			}
			return []problems.Problem{problems.New(problems.CodeDateOfBirthMissing,
				problems.V(subject.Defendant.ID, "dateOfBirth", ""),
			)}
		},
	}
}

func arrestDateNotFuture() DefendantRule {
	return offenceDateNotInFuture(ArrestDateNotFuture, problems.CodeArrestDateInFuture,
		"arrestDate", func(o models.Offence) *time.Time { return o.ArrestDate })
}

func chargeDateNotFuture() DefendantRule {
	return offenceDateNotInFuture(ChargeDateNotFuture, problems.CodeChargeDateInFuture,
		"chargeDate", func(o models.Offence) *time.Time { return o.ChargeDate })
}

func statementOfFactsPresent() DefendantRule {
	return offenceFieldRequired(StatementOfFactsPresent, problems.CodeStatementOfFactsMissing,
		"statementOfFacts", func(o models.Offence) string { return o.StatementOfFacts })
}

func offenceWordingPresent() DefendantRule {
	return offenceFieldRequired(OffenceWordingPresent, problems.CodeOffenceWordingMissing,
		"wording", func(o models.Offence) string { return o.Wording })
}

func feeStatusPresent() DefendantRule {
	return caseFieldRequired(FeeStatusPresent, problems.CodeFeeStatusMissing,
		"feeStatus", func(c models.CaseDetails) string { return c.FeeStatus })
}
