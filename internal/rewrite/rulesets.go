package rewrite

import (
	"errors"
	"fmt"
	"sort"
)

// cjk is the CJK Unified Ideographs range U+4E00..U+9FA5.
const cjk = `\x{4e00}-\x{9fa5}`

// RuleSet is a named, ordered configuration of rules.
type RuleSet struct {
	Name        string
	Description string
	// Message is the confirmation printed after a file is written. It is a
	// format string taking the file name.
	Message string
	Rules   []Rule
}

// Confirmation returns the confirmation line for filename.
func (s RuleSet) Confirmation(filename string) string {
	if len(s.Message) == 0 {
		return "Fixed " + filename
	}

	return fmt.Sprintf(s.Message, filename)
}

// ColonSpacing inserts a space after a colon that directly follows a closing
// parenthesis and precedes a digit, e.g. "(5分钟):0" becomes "(5分钟): 0".
func ColonSpacing() RuleSet {
	return RuleSet{
		Name:        "colon",
		Description: "space after \"):\" when a digit follows",
		Message:     "Fixed colon spacing in %s",
		Rules: []Rule{
			MustRule("paren-colon-digit", `\):([0-9])`, "): ${1}"),
		},
	}
}

// PunctuationSpacing inserts a space after , . ! ? : ; when a letter, digit or
// CJK ideograph follows directly. Digits after a period are left alone so
// decimal numbers survive. Rules run in the listed order.
func PunctuationSpacing() RuleSet {
	return RuleSet{
		Name:        "punct",
		Description: "space after , . ! ? : ; in narrative text",
		Message:     "Fixed %s",
		Rules: []Rule{
			MustRule("comma", `,([a-zA-Z0-9`+cjk+`])`, ", ${1}"),
			MustRule("period", `\.([a-zA-Z`+cjk+`])`, ". ${1}"),
			MustRule("exclamation", `!([a-zA-Z0-9`+cjk+`])`, "! ${1}"),
			MustRule("question", `\?([a-zA-Z0-9`+cjk+`])`, "? ${1}"),
			MustRule("colon", `:([a-zA-Z0-9`+cjk+`])`, ": ${1}"),
			MustRule("semicolon", `;([a-zA-Z0-9`+cjk+`])`, "; ${1}"),
		},
	}
}

var (
	// ErrUnknownRuleSet is returned by [Registry.Lookup] for an unregistered name.
	ErrUnknownRuleSet = errors.New("unknown rule set")
	// ErrDuplicateRuleSet is returned by [Registry.Add] when the name is taken.
	ErrDuplicateRuleSet = errors.New("duplicate rule set")
)

// Registry maps rule set names to rule sets.
type Registry map[string]RuleSet

// Builtin returns a registry holding the built-in rule sets.
func Builtin() Registry {
	reg := make(Registry)

	for _, set := range []RuleSet{ColonSpacing(), PunctuationSpacing()} {
		reg[set.Name] = set
	}

	return reg
}

// Add registers set. It fails if a set with the same name already exists.
func (r Registry) Add(set RuleSet) error {
	if _, has := r[set.Name]; has {
		return fmt.Errorf("%w: %s", ErrDuplicateRuleSet, set.Name)
	}

	r[set.Name] = set

	return nil
}

// Lookup returns the rule set registered under name.
func (r Registry) Lookup(name string) (RuleSet, error) {
	set, has := r[name]
	if !has {
		return RuleSet{}, fmt.Errorf("%w: %s", ErrUnknownRuleSet, name)
	}

	return set, nil
}

// Names returns the registered names in lexical order.
func (r Registry) Names() []string {
	names := make([]string, 0, len(r))

	for name := range r {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// Combine concatenates the rules of sets, preserving order.
func Combine(sets ...RuleSet) []Rule {
	var rules []Rule

	for _, set := range sets {
		rules = append(rules, set.Rules...)
	}

	return rules
}
