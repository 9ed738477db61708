package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ezerfernandes/mdpunct/internal/rewrite"
)

func writeDoc(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

func readDoc(t *testing.T, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	return string(data)
}

func execute(args ...string) (string, string, error) {
	var stdout, stderr bytes.Buffer

	err := run(args, &stdout, &stderr)

	return stdout.String(), stderr.String(), err
}

func TestColon(t *testing.T) {
	path := writeDoc(t, t.TempDir(), "doc.md", "(5分钟):0\n```\n(x):1\n```\n`(y):2` (z):3\n")

	stdout, _, err := execute("colon", path)
	require.NoError(t, err)

	assert.Equal(t, "Fixed colon spacing in "+path+"\n", stdout)
	assert.Equal(t, "(5分钟): 0\n```\n(x):1\n```\n`(y):2` (z): 3\n", readDoc(t, path))
}

func TestPunct(t *testing.T) {
	path := writeDoc(t, t.TempDir(), "doc.md", "hello,world\npi is 3.14\n```\na,b\n```\n")

	stdout, _, err := execute("punct", path)
	require.NoError(t, err)

	assert.Equal(t, "Fixed "+path+"\n", stdout)
	assert.Equal(t, "hello, world\npi is 3.14\n```\na,b\n```\n", readDoc(t, path))
}

func TestPunctUnchangedStillConfirms(t *testing.T) {
	path := writeDoc(t, t.TempDir(), "doc.md", "hello, world\n")

	stdout, _, err := execute("punct", path)
	require.NoError(t, err)

	assert.Equal(t, "Fixed "+path+"\n", stdout)
	assert.Equal(t, "hello, world\n", readDoc(t, path))
}

func TestMissingFile(t *testing.T) {
	_, stderr, err := execute("punct", filepath.Join(t.TempDir(), "missing.md"))
	require.Error(t, err)
	assert.Contains(t, stderr, "Error:")
}

func TestMissingArgument(t *testing.T) {
	_, _, err := execute("colon")
	require.Error(t, err)
}

func TestCheck(t *testing.T) {
	dir := t.TempDir()
	changed := writeDoc(t, dir, "a.md", "a,b\n")
	clean := writeDoc(t, dir, "b.md", "a, b\n")

	stdout, _, err := execute("punct", "--check", changed, clean)
	require.ErrorIs(t, err, errWouldChange)

	assert.Equal(t, "would fix "+changed+"\n", stdout)
	assert.Equal(t, "a,b\n", readDoc(t, changed))
}

func TestDryRun(t *testing.T) {
	path := writeDoc(t, t.TempDir(), "doc.md", "ok\nhello,world\n")

	stdout, _, err := execute("punct", "-n", path)
	require.NoError(t, err)

	assert.Equal(t, path+":2: hello, world\n", stdout)
	assert.Equal(t, "ok\nhello,world\n", readDoc(t, path))
}

func TestFix(t *testing.T) {
	path := writeDoc(t, t.TempDir(), "doc.md", "(1分钟):5 50%,ok\n")

	stdout, _, err := execute("fix", "--set", "colon,punct", "--rule", `'(\d)%' '${1} %'`, path)
	require.NoError(t, err)

	assert.Equal(t, "Fixed "+path+"\n", stdout)
	assert.Equal(t, "(1分钟): 5 50 %, ok\n", readDoc(t, path))
}

func TestFixErrors(t *testing.T) {
	path := writeDoc(t, t.TempDir(), "doc.md", "a,b\n")

	_, _, err := execute("fix", path)
	require.ErrorIs(t, err, errNoRules)

	_, _, err = execute("fix", "--rule", "onlypattern", path)
	require.ErrorIs(t, err, errBadRuleSpec)

	_, _, err = execute("fix", "--set", "unknown", path)
	require.ErrorIs(t, err, rewrite.ErrUnknownRuleSet)

	assert.Equal(t, "a,b\n", readDoc(t, path))
}

func TestParseRules(t *testing.T) {
	rules, err := parseRules([]string{`'\):([0-9])' '): ${1}'`, `x "y z"`})
	require.NoError(t, err)
	require.Len(t, rules, 2)

	assert.Equal(t, "rule-1", rules[0].Name)
	assert.Equal(t, `\):([0-9])`, rules[0].Pattern.String())
	assert.Equal(t, "y z", rules[1].Replace)

	_, err = parseRules([]string{`'(' 'x'`})
	require.Error(t, err)
}

func TestDirectory(t *testing.T) {
	dir := t.TempDir()
	first := writeDoc(t, dir, "a.md", "a,b\n")
	vendored := writeDoc(t, dir, "vendor/v.md", "a,b\n")
	text := writeDoc(t, dir, "notes.txt", "a,b\n")

	stdout, _, err := execute("punct", "--exclude", "vendor/**", dir)
	require.NoError(t, err)

	assert.Equal(t, "Fixed "+first+"\n", stdout)
	assert.Equal(t, "a, b\n", readDoc(t, first))
	assert.Equal(t, "a,b\n", readDoc(t, vendored))
	assert.Equal(t, "a,b\n", readDoc(t, text))
}

func TestStrict(t *testing.T) {
	path := writeDoc(t, t.TempDir(), "doc.md", "intro\n\n~~~\na,b\n~~~\n")

	stdout, stderr, err := execute("punct", "--strict", path)
	require.Error(t, err)

	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "warning: "+path+": fenced code block #0")
	assert.Equal(t, "intro\n\n~~~\na,b\n~~~\n", readDoc(t, path))
}

func TestQuiet(t *testing.T) {
	path := writeDoc(t, t.TempDir(), "doc.md", "a,b\n```\n")

	_, stderr, err := execute("punct", "-q", path)
	require.NoError(t, err)
	assert.Empty(t, stderr)

	_, stderr, err = execute("punct", path)
	require.NoError(t, err)
	assert.Contains(t, stderr, "unterminated code fence")
}

func TestSummary(t *testing.T) {
	dir := t.TempDir()
	changed := writeDoc(t, dir, "a.md", "a,b\n")
	writeDoc(t, dir, "b.md", "a, b\n")

	stdout, _, err := execute("punct", "--summary", dir)
	require.NoError(t, err)

	assert.Contains(t, stdout, "File")
	assert.Contains(t, stdout, "written")
	assert.Contains(t, stdout, "unchanged")
	assert.Contains(t, stdout, changed)
}

func TestConfig(t *testing.T) {
	dir := t.TempDir()
	cfg := writeDoc(t, dir, "mdpunct.yaml", `
rulesets:
  dash:
    description: spaced em dash
    message: "Fixed dashes in %s"
    rules:
      - name: double-hyphen
        pattern: ' -- '
        replace: ' — '
`)
	path := writeDoc(t, dir, "doc.md", "a -- b\n`c -- d`\n")

	stdout, _, err := execute("--config", cfg, "fix", "--set", "dash", path)
	require.NoError(t, err)

	assert.Equal(t, "Fixed dashes in "+path+"\n", stdout)
	assert.Equal(t, "a — b\n`c -- d`\n", readDoc(t, path))

	stdout, _, err = execute("--config", cfg, "rules")
	require.NoError(t, err)
	assert.Contains(t, stdout, "double-hyphen")
	assert.Contains(t, stdout, "spaced em dash")
}

func TestConfigErrors(t *testing.T) {
	dir := t.TempDir()
	path := writeDoc(t, dir, "doc.md", "a,b\n")

	_, _, err := execute("--config", filepath.Join(dir, "missing.yaml"), "punct", path)
	require.Error(t, err)

	dup := writeDoc(t, dir, "dup.yaml", "rulesets:\n  punct:\n    rules:\n      - pattern: x\n        replace: y\n")
	_, _, err = execute("--config", dup, "punct", path)
	require.ErrorIs(t, err, rewrite.ErrDuplicateRuleSet)

	empty := writeDoc(t, dir, "empty.yaml", "rulesets:\n  none:\n    description: nothing\n")
	_, _, err = execute("--config", empty, "punct", path)
	require.ErrorIs(t, err, errBadConfig)

	badMsg := writeDoc(t, dir, "msg.yaml", "rulesets:\n  m:\n    message: done\n    rules:\n      - pattern: x\n        replace: y\n")
	_, _, err = execute("--config", badMsg, "punct", path)
	require.ErrorIs(t, err, errBadConfig)

	assert.Equal(t, "a,b\n", readDoc(t, path))
}

func TestRules(t *testing.T) {
	stdout, _, err := execute("rules")
	require.NoError(t, err)

	for _, want := range []string{"Set", "Description", "paren-colon-digit", "comma", "semicolon", "in narrative text"} {
		assert.Contains(t, stdout, want)
	}
}

func TestFixDigitRuleKeepsInlineCode(t *testing.T) {
	path := writeDoc(t, t.TempDir(), "doc.md", "use `go test` now 1\n")

	stdout, stderr, err := execute("fix", "--rule", "'[0-9]' '#'", path)
	require.NoError(t, err)

	assert.Equal(t, "Fixed "+path+"\n", stdout)
	assert.Empty(t, stderr)
	assert.Equal(t, "use `go test` now #\n", readDoc(t, path))
}
