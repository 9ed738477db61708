package rewrite

import (
	"regexp"
	"strings"
)

var reInlineCode = regexp.MustCompile("`[^`]+`")

// A placeholder is made of private-use runes only: a delimiter pair picked per
// line so that neither rune already occurs in it, around the span index
// written in base indexBase with digits from Supplementary Private Use Area-A.
const (
	bmpFirst   = '\uE000'
	bmpLast    = '\uF8FF'
	planeFirst = '\U00100000'
	planeLast  = '\U0010FFFD'

	indexZero = '\U000F0000'
	indexBase = 0xFFFE
)

// Spans holds the inline code spans shielded from a single line, keyed by
// their index in order of appearance.
type Spans struct {
	begin rune
	end   rune
	parts []string
}

// Len returns the number of shielded spans.
func (s Spans) Len() int {
	return len(s.parts)
}

// Code returns the original text of the span with the given index.
func (s Spans) Code(index int) string {
	return s.parts[index]
}

func (s Spans) placeholder(index int) string {
	var digits []rune

	for {
		digits = append(digits, indexZero+rune(index%indexBase))

		index /= indexBase
		if index == 0 {
			break
		}
	}

	var b strings.Builder

	b.WriteRune(s.begin)

	for i := len(digits) - 1; i >= 0; i-- {
		b.WriteRune(digits[i])
	}

	b.WriteRune(s.end)

	return b.String()
}

// Shield replaces every inline code span of line with an indexed placeholder
// and returns the rewritten line along with the recorded spans. The bool
// return is false when no free delimiter pair exists; line is then returned
// unchanged and must not be rewritten.
func Shield(line string) (string, Spans, bool) {
	spans := Spans{}

	if !strings.ContainsRune(line, '`') {
		return line, spans, true
	}

	var ok bool

	spans.begin, spans.end, ok = sentinels(line)
	if !ok {
		return line, spans, false
	}

	shielded := reInlineCode.ReplaceAllStringFunc(line, func(code string) string {
		spans.parts = append(spans.parts, code)

		return spans.placeholder(len(spans.parts) - 1)
	})

	return shielded, spans, true
}

// Restore puts the original span text back in place of each placeholder. The
// bool return is false when a placeholder was removed, duplicated or broken
// by a rule; the returned line must then be discarded.
func (s Spans) Restore(line string) (string, bool) {
	for i := 0; i < s.Len(); i++ {
		placeholder := s.placeholder(i)
		if strings.Count(line, placeholder) != 1 {
			return line, false
		}

		line = strings.Replace(line, placeholder, s.Code(i), 1)
	}

	if s.Len() > 0 && strings.ContainsAny(line, string([]rune{s.begin, s.end})) {
		return line, false
	}

	return line, true
}

func sentinels(line string) (rune, rune, bool) {
	for _, area := range [][2]rune{{bmpFirst, bmpLast}, {planeFirst, planeLast}} {
		for open := area[0]; open < area[1]; open += 2 {
			if !strings.ContainsRune(line, open) && !strings.ContainsRune(line, open+1) {
				return open, open + 1, true
			}
		}
	}

	return 0, 0, false
}
