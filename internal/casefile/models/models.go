// Package models holds the casefile domain types exchanged between the
// matcher, the rule engine, and the pipeline. These are plain data carriers;
// behaviour lives in the packages that consume them.
package models

import (
	"strings"
	"time"
)

// Channel identifies the upstream system a submission arrived from. Rule
// selection and event policy both key off it.
type Channel string

const (
	// ChannelPolice covers submissions from police case preparation systems.
	ChannelPolice Channel = "POLICE"
	// ChannelCPS covers submissions from the Crown Prosecution Service.
	ChannelCPS Channel = "CPS"
	// ChannelSPI covers summary proceedings (single justice procedure) feeds.
	ChannelSPI Channel = "SPI"
)

// InitiationCode classifies how a prosecution was initiated. The valid set is
// closed: defendant-level overrides outside it fall back to the case-level
// code.
type InitiationCode string

const (
	InitiationCharge      InitiationCode = "C"
	InitiationSummons     InitiationCode = "S"
	InitiationRequisition InitiationCode = "Q"
	InitiationSJPNotice   InitiationCode = "J"
)

var validInitiationCodes = map[InitiationCode]bool{
	InitiationCharge:      true,
	InitiationSummons:     true,
	InitiationRequisition: true,
	InitiationSJPNotice:   true,
}

// IsValid reports whether the code is a recognised initiation code.
func (c InitiationCode) IsValid() bool {
	return validInitiationCodes[c]
}

// CaseDetails is the case-level context a defendant is validated against.
type CaseDetails struct {
	CaseID                  string
	ProsecutorCaseReference string
	Channel                 Channel
	InitiationCode          InitiationCode
	Civil                   bool
	FeeStatus               string
	HearingDate             *time.Time
}

// PersonName carries the individual-defendant name fields used by the
// matching cascade.
type PersonName struct {
	Surname   string
	Forenames string
}

// Defendant is a case-resident defendant record. Created when a case is first
// received and never deleted within a single validation pass.
type Defendant struct {
	ID                           string
	ProsecutorDefendantReference string
	ASN                          string
	Name                         PersonName
	OrganisationName             string
	DateOfBirth                  *time.Time
	InitiationCode               InitiationCode
	Offences                     []Offence
}

// Reference returns the identifier downstream systems use to address this
// defendant: the prosecutor reference when present, otherwise the ASN.
func (d Defendant) Reference() string {
	if d.ProsecutorDefendantReference != "" {
		return d.ProsecutorDefendantReference
	}
	return d.ASN
}

// EffectiveInitiationCode resolves the defendant-level override when it is a
// recognised code, falling back to the case-level code otherwise.
func (d Defendant) EffectiveInitiationCode(caseCode InitiationCode) InitiationCode {
	if d.InitiationCode.IsValid() {
		return d.InitiationCode
	}
	return caseCode
}

// AlcoholLevel records an evidential alcohol reading and the method code used
// to take it.
type AlcoholLevel struct {
	Amount int
	Method string
}

// Offence is one charged offence on a defendant.
type Offence struct {
	ID               string
	Code             string
	Wording          string
	StatementOfFacts string
	ArrestDate       *time.Time
	ChargeDate       *time.Time
	VehicleCode      string
	AlcoholLevel     *AlcoholLevel
}

// ExternalDefendantReference is an incoming defendant descriptor from an
// upstream system. It exists only for the duration of one matching attempt.
type ExternalDefendantReference struct {
	CaseID                string
	Surname               string
	Forenames             string
	DateOfBirth           *time.Time
	OrganisationName      string
	ASN                   string
	ProsecutorDefendantID string
}

// ProsecutionCase bundles case details with its defendants, as carried in a
// group submission.
type ProsecutionCase struct {
	Details    CaseDetails
	Defendants []Defendant
}

// GroupFlags qualifies a submission that is part of a multi-case group.
type GroupFlags struct {
	PartOfGroup    bool
	GroupReference string
}

// NormaliseName trims surrounding whitespace and lowercases a name field for
// comparison. Matching throughout the engine is case-insensitive and
// whitespace-trimmed.
func NormaliseName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// SameDate reports whether two optional dates are both present and fall on
// the same calendar day. A missing date on either side never matches.
func SameDate(a, b *time.Time) bool {
	if a == nil || b == nil {
		return false
	}
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
