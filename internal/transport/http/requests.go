package httptransport

import (
	"time"

	"github.com/hmcts/cpp-context-prosecution-casefile-sub008/internal/casefile/models"
	"github.com/hmcts/cpp-context-prosecution-casefile-sub008/internal/casefile/pipeline"
)

// Request DTOs decouple the wire shape from the domain models. Dates arrive
// as RFC 3339 timestamps.

type validateRequest struct {
	Case               caseDetailsRequest         `json:"prosecutionCase"`
	Defendants         []defendantRequest         `json:"defendants"`
	ExternalReferences []externalReferenceRequest `json:"externalDefendantReferences,omitempty"`
	Group              *groupFlagsRequest         `json:"group,omitempty"`
}

type groupValidateRequest struct {
	GroupReference string                   `json:"groupReference"`
	Cases          []prosecutionCaseRequest `json:"prosecutionCases"`
}

type caseDetailsRequest struct {
	CaseID                  string     `json:"caseId"`
	ProsecutorCaseReference string     `json:"prosecutorCaseReference"`
	Channel                 string     `json:"channel"`
	InitiationCode          string     `json:"initiationCode"`
	Civil                   bool       `json:"civil"`
	FeeStatus               string     `json:"feeStatus,omitempty"`
	HearingDate             *time.Time `json:"hearingDate,omitempty"`
}

type defendantRequest struct {
	ID                           string           `json:"id"`
	ProsecutorDefendantReference string           `json:"prosecutorDefendantReference,omitempty"`
	ASN                          string           `json:"asn,omitempty"`
	Surname                      string           `json:"surname,omitempty"`
	Forenames                    string           `json:"forenames,omitempty"`
	OrganisationName             string           `json:"organisationName,omitempty"`
	DateOfBirth                  *time.Time       `json:"dateOfBirth,omitempty"`
	InitiationCode               string           `json:"initiationCode,omitempty"`
	Offences                     []offenceRequest `json:"offences"`
}

type offenceRequest struct {
	ID               string               `json:"id"`
	Code             string               `json:"code"`
	Wording          string               `json:"wording,omitempty"`
	StatementOfFacts string               `json:"statementOfFacts,omitempty"`
	ArrestDate       *time.Time           `json:"arrestDate,omitempty"`
	ChargeDate       *time.Time           `json:"chargeDate,omitempty"`
	VehicleCode      string               `json:"vehicleCode,omitempty"`
	AlcoholLevel     *alcoholLevelRequest `json:"alcoholLevel,omitempty"`
}

type alcoholLevelRequest struct {
	Amount int    `json:"amount"`
	Method string `json:"method"`
}

type externalReferenceRequest struct {
	CaseID                string     `json:"caseId"`
	Surname               string     `json:"surname,omitempty"`
	Forenames             string     `json:"forenames,omitempty"`
	DateOfBirth           *time.Time `json:"dateOfBirth,omitempty"`
	OrganisationName      string     `json:"organisationName,omitempty"`
	ASN                   string     `json:"asn,omitempty"`
	ProsecutorDefendantID string     `json:"prosecutorDefendantId,omitempty"`
}

type groupFlagsRequest struct {
	GroupReference string `json:"groupReference"`
}

type prosecutionCaseRequest struct {
	Case       caseDetailsRequest `json:"prosecutionCase"`
	Defendants []defendantRequest `json:"defendants"`
}

func (r validateRequest) toSubmission() pipeline.Submission {
	sub := pipeline.Submission{
		Case:       r.Case.toModel(),
		Defendants: make([]models.Defendant, 0, len(r.Defendants)),
	}
	for _, d := range r.Defendants {
		sub.Defendants = append(sub.Defendants, d.toModel())
	}
	for _, ref := range r.ExternalReferences {
		sub.ExternalRefs = append(sub.ExternalRefs, models.ExternalDefendantReference{
			CaseID:                ref.CaseID,
			Surname:               ref.Surname,
			Forenames:             ref.Forenames,
			DateOfBirth:           ref.DateOfBirth,
			OrganisationName:      ref.OrganisationName,
			ASN:                   ref.ASN,
			ProsecutorDefendantID: ref.ProsecutorDefendantID,
		})
	}
	if r.Group != nil {
		sub.Flags = models.GroupFlags{
			PartOfGroup:    true,
			GroupReference: r.Group.GroupReference,
		}
	}
	return sub
}

func (r groupValidateRequest) toSubmission() pipeline.GroupSubmission {
	sub := pipeline.GroupSubmission{
		Flags: models.GroupFlags{
			PartOfGroup:    true,
			GroupReference: r.GroupReference,
		},
		Cases: make([]models.ProsecutionCase, 0, len(r.Cases)),
	}
	for _, c := range r.Cases {
		pc := models.ProsecutionCase{Details: c.Case.toModel()}
		for _, d := range c.Defendants {
			pc.Defendants = append(pc.Defendants, d.toModel())
		}
		sub.Cases = append(sub.Cases, pc)
	}
	return sub
}

func (r caseDetailsRequest) toModel() models.CaseDetails {
	return models.CaseDetails{
		CaseID:                  r.CaseID,
		ProsecutorCaseReference: r.ProsecutorCaseReference,
		Channel:                 models.Channel(r.Channel),
		InitiationCode:          models.InitiationCode(r.InitiationCode),
		Civil:                   r.Civil,
		FeeStatus:               r.FeeStatus,
		HearingDate:             r.HearingDate,
	}
}

func (r defendantRequest) toModel() models.Defendant {
	d := models.Defendant{
		ID:                           r.ID,
		ProsecutorDefendantReference: r.ProsecutorDefendantReference,
		ASN:                          r.ASN,
		Name:                         models.PersonName{Surname: r.Surname, Forenames: r.Forenames},
		OrganisationName:             r.OrganisationName,
		DateOfBirth:                  r.DateOfBirth,
		InitiationCode:               models.InitiationCode(r.InitiationCode),
	}
	for _, o := range r.Offences {
		offence := models.Offence{
			ID:               o.ID,
			Code:             o.Code,
			Wording:          o.Wording,
			StatementOfFacts: o.StatementOfFacts,
			ArrestDate:       o.ArrestDate,
			ChargeDate:       o.ChargeDate,
			VehicleCode:      o.VehicleCode,
		}
		if o.AlcoholLevel != nil {
			offence.AlcoholLevel = &models.AlcoholLevel{
				Amount: o.AlcoholLevel.Amount,
				Method: o.AlcoholLevel.Method,
			}
		}
		d.Offences = append(d.Offences, offence)
	}
	return d
}
