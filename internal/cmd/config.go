package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ezerfernandes/mdpunct/internal/rewrite"
)

const defaultConfig = ".mdpunct.yaml"

type ruleConfig struct {
	Name    string `yaml:"name"`
	Pattern string `yaml:"pattern"`
	Replace string `yaml:"replace"`
}

type ruleSetConfig struct {
	Description string       `yaml:"description"`
	Message     string       `yaml:"message"`
	Rules       []ruleConfig `yaml:"rules"`
}

type config struct {
	Include  []string                 `yaml:"include"`
	Exclude  []string                 `yaml:"exclude"`
	RuleSets map[string]ruleSetConfig `yaml:"rulesets"`
}

// loadConfig reads the YAML configuration at path. A missing file is an
// error only when the path was given explicitly.
func loadConfig(path string, explicit bool) (*config, error) {
	cfg := new(config)

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}

		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}

// registry returns the built-in rule sets extended with the configured ones.
func (c *config) registry() (rewrite.Registry, error) {
	reg := rewrite.Builtin()

	names := make([]string, 0, len(c.RuleSets))
	for name := range c.RuleSets {
		names = append(names, name)
	}

	sort.Strings(names)

	for _, name := range names {
		set, err := c.RuleSets[name].ruleSet(name)
		if err != nil {
			return nil, err
		}

		if err := reg.Add(set); err != nil {
			return nil, err
		}
	}

	return reg, nil
}

func (c ruleSetConfig) ruleSet(name string) (rewrite.RuleSet, error) {
	if len(c.Message) != 0 && strings.Count(c.Message, "%s") != 1 {
		return rewrite.RuleSet{}, fmt.Errorf("%w: rule set %s: message must contain %%s once", errBadConfig, name)
	}

	if len(c.Rules) == 0 {
		return rewrite.RuleSet{}, fmt.Errorf("%w: rule set %s has no rules", errBadConfig, name)
	}

	set := rewrite.RuleSet{Name: name, Description: c.Description, Message: c.Message}

	for i, rc := range c.Rules {
		ruleName := rc.Name
		if len(ruleName) == 0 {
			ruleName = fmt.Sprintf("%s-%d", name, i+1)
		}

		rule, err := rewrite.NewRule(ruleName, rc.Pattern, rc.Replace)
		if err != nil {
			return rewrite.RuleSet{}, fmt.Errorf("rule set %s: %w", name, err)
		}

		set.Rules = append(set.Rules, rule)
	}

	return set, nil
}

var errBadConfig = errors.New("invalid configuration")
