package httptransport

import (
	"github.com/hmcts/cpp-context-prosecution-casefile-sub008/internal/casefile/pipeline"
	"github.com/hmcts/cpp-context-prosecution-casefile-sub008/internal/casefile/problems"
)

type validateResponse struct {
	Status            string                      `json:"status"`
	GroupProblems     []problemResponse           `json:"groupProblems,omitempty"`
	DefendantProblems []defendantProblemsResponse `json:"defendantProblems,omitempty"`
	Warnings          []defendantProblemsResponse `json:"warnings,omitempty"`
}

type defendantProblemsResponse struct {
	DefendantReference string            `json:"prosecutorOrDefendantReference"`
	Problems           []problemResponse `json:"problems"`
}

type problemResponse struct {
	Code   string                 `json:"code"`
	Values []problemValueResponse `json:"values"`
}

type problemValueResponse struct {
	EntityID string `json:"entityId"`
	FieldKey string `json:"fieldKey"`
	Value    string `json:"value"`
}

func toValidateResponse(outcome *pipeline.Outcome) validateResponse {
	return validateResponse{
		Status:            string(outcome.Status),
		GroupProblems:     toProblemResponses(outcome.GroupProblems),
		DefendantProblems: toDefendantProblemsResponses(outcome.DefendantProblems),
		Warnings:          toDefendantProblemsResponses(outcome.Warnings),
	}
}

func toDefendantProblemsResponses(in []pipeline.DefendantProblem) []defendantProblemsResponse {
	out := make([]defendantProblemsResponse, 0, len(in))
	for _, dp := range in {
		out = append(out, defendantProblemsResponse{
			DefendantReference: dp.DefendantReference,
			Problems:           toProblemResponses(dp.Problems),
		})
	}
	return out
}

func toProblemResponses(in []problems.Problem) []problemResponse {
	out := make([]problemResponse, 0, len(in))
	for _, p := range in {
		pr := problemResponse{Code: string(p.Code)}
		for _, v := range p.Values {
			pr.Values = append(pr.Values, problemValueResponse{
				EntityID: v.EntityID,
				FieldKey: v.FieldKey,
				Value:    v.Value,
			})
		}
		out = append(out, pr)
	}
	return out
}
