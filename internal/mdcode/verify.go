package mdcode

import (
	"bytes"
	"fmt"
)

// Divergence describes a fenced code block or code span whose content differs
// between two versions of a document.
type Divergence struct {
	Kind Kind
	// Index is the position of the block among blocks of the same kind, or -1
	// when the number of blocks changed.
	Index int
	// Line and EndLine locate the block in the original document.
	Line    int
	EndLine int
	Lang    string
	Before  []byte
	After   []byte
}

func (d Divergence) String() string {
	if d.Index < 0 {
		return fmt.Sprintf("number of %ss changed", d.Kind)
	}

	what := fmt.Sprintf("%s #%d", d.Kind, d.Index)
	if len(d.Lang) != 0 {
		what += " (" + d.Lang + ")"
	}

	where := fmt.Sprintf("line %d", d.Line)
	if d.EndLine > d.Line {
		where = fmt.Sprintf("lines %d-%d", d.Line, d.EndLine)
	}

	return fmt.Sprintf("%s at %s changed: %q -> %q", what, where, d.Before, d.After)
}

// Verify parses both versions of a document as CommonMark and reports every
// fenced code block and code span whose content is not byte-identical.
func Verify(before, after []byte) ([]Divergence, error) {
	old, err := Unfence(before)
	if err != nil {
		return nil, err
	}

	cur, err := Unfence(after)
	if err != nil {
		return nil, err
	}

	var res []Divergence

	for _, kind := range []Kind{KindFenced, KindSpan} {
		res = append(res, compare(kind, old.Filter(kind), cur.Filter(kind))...)
	}

	return res, nil
}

func compare(kind Kind, old, cur Blocks) []Divergence {
	if len(old) != len(cur) {
		return []Divergence{{Kind: kind, Index: -1}}
	}

	var res []Divergence

	for i := range old {
		if bytes.Equal(old[i].Code, cur[i].Code) {
			continue
		}

		res = append(res, Divergence{
			Kind:    kind,
			Index:   i,
			Line:    old[i].StartLine,
			EndLine: old[i].EndLine,
			Lang:    old[i].Lang,
			Before:  old[i].Code,
			After:   cur[i].Code,
		})
	}

	return res
}
