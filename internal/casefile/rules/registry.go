package rules

import "fmt"

// Registry is the closed set of known rules and enrichers, keyed by stable
// ID. The active rule set for a submission is constructed explicitly from
// configuration against this registry; there is no runtime type inspection
// and no global state.
type Registry struct {
	enrichers map[ID]Enricher
	defendant map[ID]DefendantRule
	group     map[ID]GroupRule
}

// NewRegistry returns a registry holding every built-in rule.
func NewRegistry() *Registry {
	r := &Registry{
		enrichers: make(map[ID]Enricher),
		defendant: make(map[ID]DefendantRule),
		group:     make(map[ID]GroupRule),
	}

	for _, e := range []Enricher{
		enrichOffenceCodes(),
		enrichVehicleCodes(),
		enrichAlcoholMethods(),
		enrichCountries(),
		enrichOffenceDateCodes(),
	} {
		r.enrichers[e.ID] = e
	}

	for _, d := range []DefendantRule{
		offenceCodeKnown(),
		vehicleCodeKnown(),
		alcoholMethodKnown(),
		arrestDateNotFuture(),
		chargeDateNotFuture(),
		statementOfFactsPresent(),
		offenceWordingPresent(),
		feeStatusPresent(),
		dateOfBirthPresent(),
	} {
		r.defendant[d.ID] = d
	}

	for _, g := range []GroupRule{
		groupCaseCount(),
		groupSingleDefendant(),
		groupSingleOffence(),
		groupUniqueCaseReferences(),
		groupConsistentOffenceCode(),
		groupHearingDateNotPast(),
	} {
		r.group[g.ID] = g
	}

	return r
}

// Enricher resolves an enricher by ID.
func (r *Registry) Enricher(id ID) (Enricher, error) {
	e, ok := r.enrichers[id]
	if !ok {
		return Enricher{}, fmt.Errorf("unknown enricher %q", id)
	}
	return e, nil
}

// DefendantRule resolves a defendant-scoped rule by ID.
func (r *Registry) DefendantRule(id ID) (DefendantRule, error) {
	d, ok := r.defendant[id]
	if !ok {
		return DefendantRule{}, fmt.Errorf("unknown defendant rule %q", id)
	}
	return d, nil
}

// GroupRule resolves a group-scoped rule by ID.
func (r *Registry) GroupRule(id ID) (GroupRule, error) {
	g, ok := r.group[id]
	if !ok {
		return GroupRule{}, fmt.Errorf("unknown group rule %q", id)
	}
	return g, nil
}
