// Package rules implements the casefile validation/enrichment engine: a
// closed registry of identified rules, an executor that preserves declared
// ordering, and a YAML-configured provider that selects the active rule set
// per submission channel and initiation code.
//
// Enrichment and validation are distinct capabilities. Enrichers are the only
// writers of the per-pass reference-data cache and run first, in declared
// order; validation rules then read the stable cache and report Problems.
// A failed validation is an expected outcome, never an error — errors are
// reserved for collaborator faults, which abort the whole pass.
package rules

import (
	"context"
	"time"

	"github.com/hmcts/cpp-context-prosecution-casefile-sub008/internal/casefile/models"
	"github.com/hmcts/cpp-context-prosecution-casefile-sub008/internal/casefile/problems"
	"github.com/hmcts/cpp-context-prosecution-casefile-sub008/internal/casefile/refdata"
)

// ID is the stable identifier of one rule. Configuration refers to rules by
// ID; unknown IDs are rejected when the configuration is loaded.
type ID string

// Defendant-scoped rule and enricher IDs.
const (
	EnrichOffenceCodes     ID = "enrich-offence-codes"
	EnrichVehicleCodes     ID = "enrich-vehicle-codes"
	EnrichAlcoholMethods   ID = "enrich-alcohol-methods"
	EnrichCountries        ID = "enrich-countries"
	EnrichOffenceDateCodes ID = "enrich-offence-date-codes"

	OffenceCodeKnown        ID = "offence-code-known"
	VehicleCodeKnown        ID = "vehicle-code-known"
	AlcoholMethodKnown      ID = "alcohol-method-known"
	ArrestDateNotFuture     ID = "arrest-date-not-future"
	ChargeDateNotFuture     ID = "charge-date-not-future"
	StatementOfFactsPresent ID = "statement-of-facts-present"
	FeeStatusPresent        ID = "fee-status-present"
	DateOfBirthPresent      ID = "date-of-birth-present"
	OffenceWordingPresent   ID = "offence-wording-present"
)

// Group-scoped rule IDs.
const (
	GroupCaseCount             ID = "group-case-count"
	GroupSingleDefendant       ID = "group-single-defendant"
	GroupSingleOffence         ID = "group-single-offence"
	GroupUniqueCaseReferences  ID = "group-unique-case-references"
	GroupConsistentOffenceCode ID = "group-consistent-offence-code"
	GroupHearingDateNotPast    ID = "group-hearing-date-not-past"
)

// DefendantSubject bundles one defendant with its case details and the
// per-pass reference-data cache. Now is fixed at the start of the pass so a
// rule's output depends only on its subject and the cache contents.
//
// Validation rules treat RefData as read-only; only enrichers write to it.
type DefendantSubject struct {
	Case      models.CaseDetails
	Defendant models.Defendant
	RefData   *refdata.Cache
	Now       time.Time
}

// GroupSubject is the whole-group subject for cross-case invariants.
type GroupSubject struct {
	Cases []models.ProsecutionCase
	Now   time.Time
}

// DefendantRule validates one defendant. Validate returns nil when the
// subject is valid, otherwise the ordered Problems found.
type DefendantRule struct {
	ID       ID
	Validate func(DefendantSubject) []problems.Problem
}

// GroupRule validates a whole group submission.
type GroupRule struct {
	ID       ID
	Validate func(GroupSubject) []problems.Problem
}

// Enricher populates the reference-data cache ahead of validation. Enrich
// errors are collaborator faults and abort the pass; "no reference data
// found" is not an error and simply leaves the cache empty for that key.
type Enricher struct {
	ID     ID
	Enrich func(ctx context.Context, subject DefendantSubject, lookup refdata.Lookup) error
}

// Set is the ordered active rule set for one submission, as resolved by the
// Provider. Errors and Warnings are disjoint passes: warning rules never
// block acceptance.
type Set struct {
	Enrichers []Enricher
	Errors    []DefendantRule
	Warnings  []DefendantRule
	Group     []GroupRule
}
