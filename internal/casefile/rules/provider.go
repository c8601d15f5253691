package rules

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/hmcts/cpp-context-prosecution-casefile-sub008/internal/casefile/models"
)

// Provider resolves the ordered rule set to execute for a submission, from
// explicit configuration compiled against the registry at load time. Rule
// selection is data, not code: deployments adjust the YAML, not the engine.
type Provider struct {
	rulesets []compiledRuleset
	defaults Set
	group    []GroupRule
}

// config is the YAML shape of the rule-selection tables.
type config struct {
	Group    []ID            `yaml:"group"`
	Rulesets []rulesetConfig `yaml:"rulesets"`
	Defaults setConfig       `yaml:"defaults"`
}

type rulesetConfig struct {
	Channels    []models.Channel        `yaml:"channels"`
	Initiations []models.InitiationCode `yaml:"initiations"`
	Civil       *bool                   `yaml:"civil"`
	setConfig   `yaml:",inline"`
}

type setConfig struct {
	Enrichers []ID `yaml:"enrichers"`
	Errors    []ID `yaml:"errors"`
	Warnings  []ID `yaml:"warnings"`
}

type compiledRuleset struct {
	channels    map[models.Channel]bool
	initiations map[models.InitiationCode]bool
	civil       *bool
	set         Set
}

// LoadProvider reads and compiles rule-selection configuration from a YAML
// file. Unknown rule IDs fail here, not at validation time.
func LoadProvider(path string, registry *Registry) (*Provider, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules config: %w", err)
	}
	return ParseProvider(raw, registry)
}

// ParseProvider compiles rule-selection configuration from raw YAML.
func ParseProvider(raw []byte, registry *Registry) (*Provider, error) {
	if registry == nil {
		return nil, fmt.Errorf("rule registry is required")
	}

	var cfg config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("parse rules config: %w", err)
	}

	p := &Provider{}

	var err error
	if p.group, err = resolveGroup(registry, cfg.Group); err != nil {
		return nil, err
	}
	if p.defaults, err = resolveSet(registry, cfg.Defaults, p.group); err != nil {
		return nil, fmt.Errorf("defaults: %w", err)
	}

	for i, rs := range cfg.Rulesets {
		set, err := resolveSet(registry, rs.setConfig, p.group)
		if err != nil {
			return nil, fmt.Errorf("ruleset %d: %w", i, err)
		}
		compiled := compiledRuleset{
			channels:    make(map[models.Channel]bool, len(rs.Channels)),
			initiations: make(map[models.InitiationCode]bool, len(rs.Initiations)),
			civil:       rs.Civil,
			set:         set,
		}
		for _, ch := range rs.Channels {
			compiled.channels[ch] = true
		}
		for _, ic := range rs.Initiations {
			compiled.initiations[ic] = true
		}
		p.rulesets = append(p.rulesets, compiled)
	}

	return p, nil
}

// SetFor returns the active rule set for a submission. The first configured
// ruleset whose selectors all match wins; the defaults apply otherwise.
// Empty selector lists match anything.
func (p *Provider) SetFor(channel models.Channel, initiation models.InitiationCode, civil bool) Set {
	for _, rs := range p.rulesets {
		if len(rs.channels) > 0 && !rs.channels[channel] {
			continue
		}
		if len(rs.initiations) > 0 && !rs.initiations[initiation] {
			continue
		}
		if rs.civil != nil && *rs.civil != civil {
			continue
		}
		return rs.set
	}
	return p.defaults
}

func resolveGroup(registry *Registry, ids []ID) ([]GroupRule, error) {
	resolved := make([]GroupRule, 0, len(ids))
	for _, id := range ids {
		rule, err := registry.GroupRule(id)
		if err != nil {
			return nil, fmt.Errorf("group: %w", err)
		}
		resolved = append(resolved, rule)
	}
	return resolved, nil
}

func resolveSet(registry *Registry, cfg setConfig, group []GroupRule) (Set, error) {
	set := Set{Group: group}
	for _, id := range cfg.Enrichers {
		e, err := registry.Enricher(id)
		if err != nil {
			return Set{}, err
		}
		set.Enrichers = append(set.Enrichers, e)
	}
	for _, id := range cfg.Errors {
		r, err := registry.DefendantRule(id)
		if err != nil {
			return Set{}, err
		}
		set.Errors = append(set.Errors, r)
	}
	for _, id := range cfg.Warnings {
		r, err := registry.DefendantRule(id)
		if err != nil {
			return Set{}, err
		}
		set.Warnings = append(set.Warnings, r)
	}
	return set, nil
}
