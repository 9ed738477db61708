// Package rewrite applies substitution rules to the narrative text of a
// Markdown document, leaving fenced code blocks and inline code spans intact.
package rewrite

import (
	"strings"
)

const fenceMarker = "```"

type fenceState int

const (
	narrative fenceState = iota
	inCode
)

func (s fenceState) toggle() fenceState {
	if s == inCode {
		return narrative
	}

	return inCode
}

// Result describes a rewritten document.
type Result struct {
	Text string
	// Lines is the number of lines in both the input and the output.
	Lines int
	// Changed holds the 1-based numbers of the lines that were modified.
	Changed []int
	// Unterminated is set when the document ends inside a fenced code block.
	Unterminated bool
	// Skipped holds the 1-based numbers of narrative lines left unchanged
	// because a rule broke an inline code placeholder.
	Skipped []int
}

// Modified reports whether any line changed.
func (r Result) Modified() bool {
	return len(r.Changed) > 0
}

// Rewrite applies rules to every narrative line of document and returns the
// result. Lines are never merged, split, inserted or removed.
func Rewrite(document string, rules []Rule) string {
	return Apply(document, rules).Text
}

// Apply is like [Rewrite] but also reports which lines changed.
func Apply(document string, rules []Rule) Result {
	lines := strings.Split(document, "\n")
	state := narrative

	var changed, skipped []int

	for i, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), fenceMarker) {
			state = state.toggle()

			continue
		}

		if state == inCode {
			continue
		}

		fixed, ok := rewriteLine(line, rules)
		if !ok {
			skipped = append(skipped, i+1)

			continue
		}

		if fixed != line {
			lines[i] = fixed
			changed = append(changed, i+1)
		}
	}

	return Result{
		Text:         strings.Join(lines, "\n"),
		Lines:        len(lines),
		Changed:      changed,
		Unterminated: state == inCode,
		Skipped:      skipped,
	}
}

// RewriteLine applies rules, in order, to a single narrative line. Inline code
// spans are shielded for the duration of the substitutions. If a rule breaks
// a placeholder, the line is returned unchanged.
func RewriteLine(line string, rules []Rule) string {
	fixed, _ := rewriteLine(line, rules)

	return fixed
}

func rewriteLine(line string, rules []Rule) (string, bool) {
	shielded, spans, ok := Shield(line)
	if !ok {
		return line, false
	}

	for _, rule := range rules {
		shielded = rule.Apply(shielded)
	}

	restored, ok := spans.Restore(shielded)
	if !ok {
		return line, false
	}

	return restored, true
}
