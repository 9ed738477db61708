package rewrite

import (
	"fmt"
	"regexp"
)

// Rule is a regular expression substitution applied to narrative text only.
// Replace uses the template syntax of [regexp.Regexp.Expand].
type Rule struct {
	Name    string
	Pattern *regexp.Regexp
	Replace string
}

// NewRule compiles pattern into a Rule.
func NewRule(name, pattern, replace string) (Rule, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return Rule{}, fmt.Errorf("rule %q: %w", name, err)
	}

	return Rule{Name: name, Pattern: re, Replace: replace}, nil
}

// MustRule is like [NewRule] but panics if pattern does not compile.
func MustRule(name, pattern, replace string) Rule {
	rule, err := NewRule(name, pattern, replace)
	if err != nil {
		panic(err)
	}

	return rule
}

// Apply runs a single left-to-right pass of the rule over text.
func (r Rule) Apply(text string) string {
	return r.Pattern.ReplaceAllString(text, r.Replace)
}

func (r Rule) String() string {
	return fmt.Sprintf("%s: %s -> %q", r.Name, r.Pattern, r.Replace)
}
