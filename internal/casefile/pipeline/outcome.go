package pipeline

import (
	"github.com/hmcts/cpp-context-prosecution-casefile-sub008/internal/casefile/events"
	"github.com/hmcts/cpp-context-prosecution-casefile-sub008/internal/casefile/problems"
)

// Status classifies the overall result of one validation pass.
type Status string

const (
	StatusAccepted             Status = "ACCEPTED"
	StatusAcceptedWithWarnings Status = "ACCEPTED_WITH_WARNINGS"
	StatusRejected             Status = "REJECTED"
)

// DefendantProblem attaches a defendant's problems to the reference the
// submitter knows it by.
type DefendantProblem struct {
	DefendantReference string             `json:"prosecutorOrDefendantReference"`
	Problems           []problems.Problem `json:"problems"`
}

// Outcome aggregates one validation pass. Errors and Warnings are disjoint:
// warning problems never block acceptance. Events are accumulated here and
// emitted by the caller only after the pass completed without faults.
type Outcome struct {
	Status            Status
	GroupProblems     []problems.Problem
	DefendantProblems []DefendantProblem
	Warnings          []DefendantProblem
	Events            []events.Event
}

// classify derives the tri-state status: any error problem rejects, warnings
// alone only annotate.
func classify(groupProblems []problems.Problem, defendantProblems, warnings []DefendantProblem) Status {
	if len(groupProblems) > 0 || len(defendantProblems) > 0 {
		return StatusRejected
	}
	if len(warnings) > 0 {
		return StatusAcceptedWithWarnings
	}
	return StatusAccepted
}
