// Package problems defines the structured validation-failure model shared by
// every rule in the casefile engine. A Problem is an expected outcome of
// validation, never an error: rules report them, the pipeline aggregates them,
// and the submitter receives them as field-level detail sufficient to correct
// and resubmit.
package problems

import "fmt"

// Code identifies one member of the problem taxonomy. Codes are stable and
// machine-readable; downstream systems key retry/correction behaviour on them.
type Code string

// Defendant-scoped problem codes.
const (
	CodeOffenceCodeNotFound      Code = "OFFENCE_CODE_NOT_FOUND"
	CodeArrestDateInFuture       Code = "ARREST_DATE_IN_FUTURE"
	CodeChargeDateInFuture       Code = "CHARGE_DATE_IN_FUTURE"
	CodeStatementOfFactsMissing  Code = "STATEMENT_OF_FACTS_MISSING"
	CodeVehicleCodeNotFound      Code = "VEHICLE_CODE_NOT_FOUND"
	CodeAlcoholMethodNotFound    Code = "ALCOHOL_METHOD_NOT_FOUND"
	CodeDefendantNotMatched      Code = "DEFENDANT_NOT_MATCHED"
	CodeDefendantMatchAmbiguous  Code = "DEFENDANT_MATCH_AMBIGUOUS"
	CodeInitiationCodeInvalid    Code = "INITIATION_CODE_INVALID"
	CodeFeeStatusMissing         Code = "FEE_STATUS_MISSING"
	CodeDateOfBirthMissing       Code = "DATE_OF_BIRTH_MISSING"
	CodeOffenceWordingMissing    Code = "OFFENCE_WORDING_MISSING"
)

// Group-scoped problem codes.
const (
	CodeGroupCaseCountInvalid      Code = "GROUP_PROSECUTION_CASE_COUNT_INVALID"
	CodeGroupDefendantCountInvalid Code = "GROUP_DEFENDANT_COUNT_INVALID"
	CodeGroupOffenceCountInvalid   Code = "GROUP_OFFENCE_COUNT_INVALID"
	CodeGroupOffenceCodeMismatch   Code = "GROUP_OFFENCE_CODE_MISMATCH"
	CodeDuplicateCaseReference     Code = "DUPLICATE_CASE_REFERENCE"
	CodeHearingDateInPast          Code = "HEARING_DATE_IN_PAST"
)

// Value carries the entity, field, and offending value behind one Problem so
// the failure can be rendered against the submitted payload.
type Value struct {
	EntityID string `json:"entityId"`
	FieldKey string `json:"fieldKey"`
	Value    string `json:"value"`
}

// Problem is one validation failure: a taxonomy code plus the ordered values
// that explain it.
//
// Invariant: a Problem always carries at least one Value. Construct via New;
// a zero-value Problem is not meaningful.
type Problem struct {
	Code   Code    `json:"code"`
	Values []Value `json:"values"`
}

// New builds a Problem from a code and its detail values.
//
// A Problem with no values cannot be rendered and indicates a bug in the rule
// that built it, so New fails fast rather than letting it flow downstream.
func New(code Code, values ...Value) Problem {
	if len(values) == 0 {
		panic(fmt.Sprintf("problems: %s constructed with no values", code))
	}
	return Problem{Code: code, Values: values}
}

// V is shorthand for building a Value.
func V(entityID, fieldKey, value string) Value {
	return Value{EntityID: entityID, FieldKey: fieldKey, Value: value}
}

// Codes projects the code of each problem in order. Useful for assertions and
// log output.
func Codes(list []Problem) []Code {
	codes := make([]Code, 0, len(list))
	for _, p := range list {
		codes = append(codes, p.Code)
	}
	return codes
}
