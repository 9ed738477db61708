package fixer

import (
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/gobwas/glob"
)

// DefaultInclude selects Markdown files when a directory is walked.
var DefaultInclude = []string{"*.md", "*.markdown"}

// Matcher decides which files found under a directory are processed.
// Include patterns match the base name; exclude patterns match the path
// relative to the walked directory, using '/' as separator.
type Matcher struct {
	include []glob.Glob
	exclude []glob.Glob
}

// NewMatcher compiles include and exclude patterns. An empty include list
// means [DefaultInclude].
func NewMatcher(include, exclude []string) (*Matcher, error) {
	if len(include) == 0 {
		include = DefaultInclude
	}

	inc, err := compileAll(include)
	if err != nil {
		return nil, err
	}

	exc, err := compileAll(exclude)
	if err != nil {
		return nil, err
	}

	return &Matcher{include: inc, exclude: exc}, nil
}

func compileAll(patterns []string) ([]glob.Glob, error) {
	globs := make([]glob.Glob, 0, len(patterns))

	for _, pattern := range patterns {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, err
		}

		globs = append(globs, g)
	}

	return globs, nil
}

func matchAny(globs []glob.Glob, name string) bool {
	for _, g := range globs {
		if g.Match(name) {
			return true
		}
	}

	return false
}

// Included reports whether a file at rel should be processed.
func (m *Matcher) Included(rel string) bool {
	return matchAny(m.include, path.Base(rel)) && !m.Excluded(rel)
}

// Excluded reports whether rel matches an exclude pattern.
func (m *Matcher) Excluded(rel string) bool {
	return matchAny(m.exclude, rel)
}

// Collect expands paths into the list of files to process. Files are taken as
// given; directories are walked and filtered with m. The result keeps argument
// order, then lexical order within a directory, without duplicates.
func Collect(fsys fs.FS, paths []string, m *Matcher) ([]string, error) {
	var files []string

	seen := make(map[string]bool)

	add := func(name string) {
		if !seen[name] {
			seen[name] = true
			files = append(files, name)
		}
	}

	for _, root := range paths {
		info, err := fs.Stat(fsys, root)
		if err != nil {
			return nil, err
		}

		if !info.IsDir() {
			add(root)

			continue
		}

		var found []string

		err = fs.WalkDir(fsys, root, func(name string, entry fs.DirEntry, err error) error {
			if err != nil {
				return err
			}

			rel := relative(root, name)
			if len(rel) == 0 {
				return nil
			}

			if entry.IsDir() {
				if m.Excluded(rel) || m.Excluded(rel+"/") {
					return fs.SkipDir
				}

				return nil
			}

			if entry.Type().IsRegular() && m.Included(rel) {
				found = append(found, name)
			}

			return nil
		})
		if err != nil {
			return nil, err
		}

		sort.Strings(found)

		for _, name := range found {
			add(name)
		}
	}

	return files, nil
}

func relative(root, name string) string {
	root = path.Clean(root)
	if root == "." {
		if name == "." {
			return ""
		}

		return name
	}

	if name == root {
		return ""
	}

	return strings.TrimPrefix(name, root+"/")
}
