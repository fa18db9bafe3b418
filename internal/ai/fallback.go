package ai

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed rules.yaml
var rulesYAML []byte

type rule struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
	Reply    string   `yaml:"reply"`
}

type ruleFile struct {
	Rules   []rule `yaml:"rules"`
	Default string `yaml:"default"`
}

// Responder answers from a fixed rule table when the model is unavailable.
// Replies depend only on the message text.
type Responder struct {
	rules      []rule
	defaultMsg string
}

// NewResponder parses the embedded rule table.
func NewResponder() (*Responder, error) {
	return parseRules(rulesYAML)
}

func parseRules(raw []byte) (*Responder, error) {
	var f ruleFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse fallback rules: %w", err)
	}
	if len(f.Rules) == 0 || f.Default == "" {
		return nil, fmt.Errorf("fallback rules incomplete: %d rules, default %q", len(f.Rules), f.Default)
	}
	for _, r := range f.Rules {
		if len(r.Keywords) == 0 || r.Reply == "" {
			return nil, fmt.Errorf("fallback rule %q incomplete", r.Name)
		}
	}
	return &Responder{rules: f.Rules, defaultMsg: f.Default}, nil
}

// Reply returns the canned answer for message: the reply of the first rule
// with a keyword contained in the lowercased text, or the default reply.
func (r *Responder) Reply(message string) string {
	lower := strings.ToLower(message)
	for _, rl := range r.rules {
		for _, kw := range rl.Keywords {
			if strings.Contains(lower, strings.ToLower(kw)) {
				return rl.Reply
			}
		}
	}
	return r.defaultMsg
}
