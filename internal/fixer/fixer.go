// Package fixer reads Markdown files, applies rewrite rules and writes the
// result back in place.
package fixer

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"unicode/utf8"

	"github.com/ezerfernandes/mdpunct/internal/mdcode"
	"github.com/ezerfernandes/mdpunct/internal/rewrite"
)

const defaultFileMode = 0o644

var (
	// ErrInvalidUTF8 is returned for files that are not valid UTF-8 text.
	ErrInvalidUTF8 = errors.New("file is not valid UTF-8")
	// ErrCodeModified is returned in strict mode when a rewrite would change
	// a fenced code block or code span as parsed by a CommonMark parser.
	ErrCodeModified = errors.New("rewrite would modify code")
)

// StatusFunc reports progress and warnings.
type StatusFunc func(format string, a ...interface{})

// Result describes the outcome of fixing a single file.
type Result struct {
	Path         string
	Lines        int
	Changed      []int
	Unterminated bool
	// Skipped holds lines left unchanged because a rule broke inline code.
	Skipped     []int
	Divergences []mdcode.Divergence
	Written     bool
	Text        string

	lines []string
}

// Modified reports whether the rewrite changed any line.
func (r *Result) Modified() bool {
	return len(r.Changed) > 0
}

// Line returns the rewritten text of the 1-based line n.
func (r *Result) Line(n int) string {
	if r.lines == nil {
		r.lines = strings.Split(r.Text, "\n")
	}

	if n < 1 || n > len(r.lines) {
		return ""
	}

	return r.lines[n-1]
}

// Fixer applies rules to files of an FS.
type Fixer struct {
	FS     FS
	Rules  []rewrite.Rule
	DryRun bool
	Strict bool
	Status StatusFunc
}

func (f *Fixer) status(format string, a ...interface{}) {
	if f.Status != nil {
		f.Status(format, a...)
	}
}

// Fix rewrites the file at name. The file is written back only when its
// content changed and neither DryRun is set nor a strict check failed.
func (f *Fixer) Fix(name string) (*Result, error) {
	src, err := fs.ReadFile(f.FS, name)
	if err != nil {
		return nil, err
	}

	if !utf8.Valid(src) {
		return nil, fmt.Errorf("%s: %w", name, ErrInvalidUTF8)
	}

	res := rewrite.Apply(string(src), f.Rules)

	result := &Result{
		Path:         name,
		Lines:        res.Lines,
		Changed:      res.Changed,
		Unterminated: res.Unterminated,
		Skipped:      res.Skipped,
		Text:         res.Text,
	}

	for _, n := range res.Skipped {
		f.status("warning: %s:%d: a rule broke inline code, line left unchanged\n", name, n)
	}

	if res.Unterminated {
		f.status("warning: %s: unterminated code fence, trailing lines left unchanged\n", name)
	}

	if !res.Modified() {
		return result, nil
	}

	result.Divergences, err = mdcode.Verify(src, []byte(res.Text))
	if err != nil {
		return result, err
	}

	for _, d := range result.Divergences {
		f.status("warning: %s: %s\n", name, d)
	}

	if f.Strict && len(result.Divergences) > 0 {
		return result, fmt.Errorf("%s: %w", name, ErrCodeModified)
	}

	if f.DryRun {
		return result, nil
	}

	if err := f.FS.WriteFile(name, []byte(res.Text), fileMode(f.FS, name)); err != nil {
		return result, err
	}

	result.Written = true

	return result, nil
}

// FixAll fixes every file in order and stops at the first error. Results of
// the files processed so far are returned alongside the error.
func (f *Fixer) FixAll(names []string) ([]*Result, error) {
	results := make([]*Result, 0, len(names))

	for _, name := range names {
		res, err := f.Fix(name)
		if res != nil {
			results = append(results, res)
		}

		if err != nil {
			return results, err
		}
	}

	return results, nil
}

func fileMode(fsys fs.FS, name string) fs.FileMode {
	info, err := fs.Stat(fsys, name)
	if err != nil {
		return defaultFileMode
	}

	return info.Mode().Perm()
}
