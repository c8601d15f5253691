// Package refdata models the externally-sourced lookup tables (offence codes,
// vehicle codes, alcohol-level methods, country and offence-date tables) used
// to validate and enrich casefile submissions, together with the
// per-validation-pass cache that memoizes lookups.
package refdata

import (
	"context"
	"time"
)

// Kind names one reference-data table.
type Kind string

const (
	KindOffence         Kind = "offence"
	KindVehicle         Kind = "vehicle"
	KindAlcoholMethod   Kind = "alcohol-method"
	KindCountry         Kind = "country"
	KindOffenceDateCode Kind = "offence-date-code"
)

// TableKey is the lookup key used for kinds that load as whole tables
// (countries, offence-date codes) rather than per-code.
const TableKey = "ALL"

// Record is one reference-data entry. EffectiveFrom/To bound the period the
// code is usable; nil means unbounded.
type Record struct {
	Code          string     `json:"code"`
	Description   string     `json:"description"`
	EffectiveFrom *time.Time `json:"effectiveFrom,omitempty"`
	EffectiveTo   *time.Time `json:"effectiveTo,omitempty"`
}

// ActiveOn reports whether the record is effective on the given date.
func (r Record) ActiveOn(t time.Time) bool {
	if r.EffectiveFrom != nil && t.Before(*r.EffectiveFrom) {
		return false
	}
	if r.EffectiveTo != nil && t.After(*r.EffectiveTo) {
		return false
	}
	return true
}

// Lookup is the external reference-data collaborator. Retrieve is a blocking
// synchronous call; retries and timeouts are the implementation's concern.
//
// An empty result means "no reference data found" and is not an error. Errors
// indicate infrastructure faults (store unreachable, malformed record) and
// abort the validation pass that triggered them.
type Lookup interface {
	Retrieve(ctx context.Context, kind Kind, key string) ([]Record, error)
}
