package rewrite

import (
	"strings"
	"testing"
	"unicode"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func restore(t *testing.T, spans Spans, line string) string {
	t.Helper()

	restored, ok := spans.Restore(line)
	require.True(t, ok)

	return restored
}

func TestShield(t *testing.T) {
	line := "run `go test` or `make, all` now"

	shielded, spans, ok := Shield(line)
	require.True(t, ok)

	require.Equal(t, 2, spans.Len())
	assert.Equal(t, "`go test`", spans.Code(0))
	assert.Equal(t, "`make, all`", spans.Code(1))
	assert.NotContains(t, shielded, "`")
	assert.NotContains(t, shielded, "make")
	assert.Equal(t, line, restore(t, spans, shielded))
}

func TestShieldNoCode(t *testing.T) {
	shielded, spans, ok := Shield("plain,text")
	require.True(t, ok)

	assert.Equal(t, "plain,text", shielded)
	assert.Zero(t, spans.Len())
	assert.Equal(t, "plain,text", restore(t, spans, shielded))
}

func TestPlaceholderIsPrivateUseOnly(t *testing.T) {
	_, spans, ok := Shield("`a` `b`")
	require.True(t, ok)

	for _, index := range []int{0, 1, 9, 10, indexBase, indexBase*3 + 7} {
		for _, r := range spans.placeholder(index) {
			assert.True(t, unicode.Is(unicode.Co, r), "index %d: rune %U", index, r)
		}
	}

	assert.NotEqual(t, spans.placeholder(1), spans.placeholder(indexBase+1))
}

func TestShieldAvoidsSentinelCollision(t *testing.T) {
	line := "x\uE000y\uE003 `a,b` c,d"

	shielded, spans, ok := Shield(line)
	require.True(t, ok)

	require.Equal(t, 1, spans.Len())
	assert.Equal(t, rune(0xE004), spans.begin)
	assert.Equal(t, rune(0xE005), spans.end)
	assert.True(t, strings.HasPrefix(shielded, "x\uE000y\uE003 "))

	out := RewriteLine(line, PunctuationSpacing().Rules)
	assert.Equal(t, "x\uE000y\uE003 `a,b` c, d", out)
}

func TestShieldFallsBackToSupplementaryPlane(t *testing.T) {
	var line strings.Builder

	for r := rune(bmpFirst); r <= bmpLast; r++ {
		line.WriteRune(r)
	}

	line.WriteString(" `a,b` c,d")

	_, spans, ok := Shield(line.String())
	require.True(t, ok)

	assert.Equal(t, rune(planeFirst), spans.begin)
	assert.Equal(t, rune(planeFirst+1), spans.end)
	assert.True(t, strings.HasSuffix(RewriteLine(line.String(), PunctuationSpacing().Rules), " `a,b` c, d"))
}

func TestRestoreIsIndexed(t *testing.T) {
	var line strings.Builder

	for i := 0; i < 12; i++ {
		line.WriteString("`c")
		line.WriteString(strings.Repeat("x", i))
		line.WriteString("` ")
	}

	shielded, spans, ok := Shield(line.String())
	require.True(t, ok)

	require.Equal(t, 12, spans.Len())
	assert.Equal(t, line.String(), restore(t, spans, shielded))
}

func TestDigitRuleKeepsInlineCode(t *testing.T) {
	rules := []Rule{MustRule("digits", `[0-9]`, "#")}

	assert.Equal(t, "use `go test 1` now #", RewriteLine("use `go test 1` now 1", rules))
	assert.Equal(t, "`a` `b` `c` ##", RewriteLine("`a` `b` `c` 12", rules))
}

func TestBrokenPlaceholderLeavesLineUnchanged(t *testing.T) {
	tests := []struct {
		name string
		rule Rule
	}{
		{name: "any character", rule: MustRule("any", `.`, "#")},
		{name: "private use", rule: MustRule("private", `\p{Co}`, "")},
		{name: "duplicate", rule: MustRule("dup", `(\p{Co}+)`, "${1}${1}")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line := "use `go test` now 1"

			assert.Equal(t, line, RewriteLine(line, []Rule{tt.rule}))

			res := Apply("intro\n"+line+"\n", []Rule{tt.rule})
			assert.Equal(t, []int{2}, res.Skipped)
			assert.Contains(t, res.Text, line)
		})
	}
}

func TestRestoreDetectsMissingPlaceholder(t *testing.T) {
	shielded, spans, ok := Shield("a `b` c")
	require.True(t, ok)

	_, ok = spans.Restore(strings.Replace(shielded, spans.placeholder(0), "", 1))
	assert.False(t, ok)
}
