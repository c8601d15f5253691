// Package events defines the outcome events the validation pipeline emits
// for downstream consumers, and the Sink boundary that carries them.
// Serialization and transport specifics live in the sink implementations.
package events

import (
	"context"
	"time"

	"github.com/hmcts/cpp-context-prosecution-casefile-sub008/internal/casefile/problems"
)

// Type names one outcome event family.
type Type string

const (
	TypeDefendantValidationPassed Type = "defendant-validation-passed"
	TypeDefendantValidationFailed Type = "defendant-validation-failed"
	TypeCaseValidationFailed      Type = "case-validation-failed"
	TypeMaterialPending           Type = "material-pending"
	TypeMaterialAdded             Type = "material-added"
	TypeMaterialRejected          Type = "material-rejected"
)

// Suggestion is a ranked manual-resolution hint attached to a failed match.
type Suggestion struct {
	DefendantReference string  `json:"defendantReference"`
	Score              float64 `json:"score"`
}

// Event is one outcome event. Events are accumulated during a validation
// pass and emitted only after the pass completes successfully, so a
// collaborator fault never leaves partial emission behind.
type Event struct {
	Type               Type               `json:"type"`
	Timestamp          time.Time          `json:"timestamp"`
	CaseID             string             `json:"caseId"`
	GroupReference     string             `json:"groupReference,omitempty"`
	DefendantReference string             `json:"defendantReference,omitempty"`
	Problems           []problems.Problem `json:"problems,omitempty"`
	Suggestions        []Suggestion       `json:"suggestions,omitempty"`
}

// Sink accepts outcome events. Implementations own delivery semantics;
// callers only sequence emission.
type Sink interface {
	Emit(ctx context.Context, event Event) error
}
