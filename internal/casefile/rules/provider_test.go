package rules

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/hmcts/cpp-context-prosecution-casefile-sub008/internal/casefile/models"
)

// =============================================================================
// Provider Test Suite
// =============================================================================

type ProviderSuite struct {
	suite.Suite
	registry *Registry
}

func TestProviderSuite(t *testing.T) {
	suite.Run(t, new(ProviderSuite))
}

func (s *ProviderSuite) SetupTest() {
	s.registry = NewRegistry()
}

const sampleConfig = `
group:
  - group-case-count
  - group-single-defendant

rulesets:
  - channels: [POLICE]
    initiations: [C]
    enrichers: [enrich-offence-codes]
    errors: [offence-code-known, arrest-date-not-future]
    warnings: [date-of-birth-present]

  - channels: [SPI]
    enrichers: [enrich-offence-codes]
    errors: [offence-code-known, statement-of-facts-present]

  - civil: true
    errors: [fee-status-present]

defaults:
  enrichers: [enrich-offence-codes]
  errors: [offence-code-known]
  warnings: [offence-wording-present]
`

// =============================================================================
// Parsing Tests
// =============================================================================

func (s *ProviderSuite) TestParseProvider() {
	s.Run("compiles a full configuration", func() {
		provider, err := ParseProvider([]byte(sampleConfig), s.registry)
		s.Require().NoError(err)
		s.NotNil(provider)
	})

	s.Run("unknown rule id fails at load time", func() {
		raw := []byte(`
defaults:
  errors: [no-such-rule]
`)
		_, err := ParseProvider(raw, s.registry)
		s.Require().Error(err)
		s.Contains(err.Error(), `"no-such-rule"`)
	})

	s.Run("unknown enricher in a ruleset names the ruleset", func() {
		raw := []byte(`
rulesets:
  - channels: [POLICE]
    enrichers: [no-such-enricher]
`)
		_, err := ParseProvider(raw, s.registry)
		s.Require().Error(err)
		s.Contains(err.Error(), "ruleset 0")
	})

	s.Run("malformed yaml fails", func() {
		_, err := ParseProvider([]byte("rulesets: ["), s.registry)
		s.Error(err)
	})

	s.Run("nil registry fails", func() {
		_, err := ParseProvider([]byte(sampleConfig), nil)
		s.Error(err)
	})
}

// =============================================================================
// Selection Tests
// =============================================================================

func (s *ProviderSuite) TestSetFor() {
	provider, err := ParseProvider([]byte(sampleConfig), s.registry)
	s.Require().NoError(err)

	s.Run("full selector match wins", func() {
		set := provider.SetFor(models.ChannelPolice, models.InitiationCharge, false)
		s.Require().Len(set.Errors, 2)
		s.Equal(OffenceCodeKnown, set.Errors[0].ID)
		s.Equal(ArrestDateNotFuture, set.Errors[1].ID)
		s.Len(set.Warnings, 1)
	})

	s.Run("empty selector list matches any value", func() {
		// The SPI ruleset has no initiation selector.
		set := provider.SetFor(models.ChannelSPI, models.InitiationSJPNotice, false)
		s.Require().Len(set.Errors, 2)
		s.Equal(StatementOfFactsPresent, set.Errors[1].ID)
	})

	s.Run("first matching ruleset wins over later ones", func() {
		// A civil police charge matches the first ruleset before the civil
		// one is considered.
		set := provider.SetFor(models.ChannelPolice, models.InitiationCharge, true)
		s.Equal(ArrestDateNotFuture, set.Errors[1].ID)
	})

	s.Run("civil selector matches when earlier rulesets do not", func() {
		set := provider.SetFor(models.ChannelCPS, models.InitiationSummons, true)
		s.Require().Len(set.Errors, 1)
		s.Equal(FeeStatusPresent, set.Errors[0].ID)
	})

	s.Run("no match falls back to defaults", func() {
		set := provider.SetFor(models.ChannelCPS, models.InitiationSummons, false)
		s.Require().Len(set.Errors, 1)
		s.Equal(OffenceCodeKnown, set.Errors[0].ID)
		s.Len(set.Warnings, 1)
		s.Equal(OffenceWordingPresent, set.Warnings[0].ID)
	})

	s.Run("every set carries the group rules", func() {
		for _, set := range []Set{
			provider.SetFor(models.ChannelPolice, models.InitiationCharge, false),
			provider.SetFor(models.ChannelCPS, models.InitiationSummons, false),
		} {
			s.Require().Len(set.Group, 2)
			s.Equal(GroupCaseCount, set.Group[0].ID)
		}
	})
}
