// Package discovery finds the resource files a location is made of:
// JSON locale files, .resx resources and their satellite translations,
// and the resources a .csproj project references. It never modifies
// anything.
package discovery

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"

	"github.com/translation-hero/hero/resx"
)

// ---------------------------------------------------------------------------
// Globbing
// ---------------------------------------------------------------------------

// Glob returns the regular files directly inside dir whose names match
// pattern, sorted by name. A missing directory yields no files.
func Glob(dir, pattern string) ([]string, error) {
	g, err := glob.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("compiling pattern %q: %w", pattern, err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading directory %s: %w", dir, err)
	}

	var out []string
	for _, e := range entries {
		if e.IsDir() || !g.Match(e.Name()) {
			continue
		}
		out = append(out, filepath.Join(dir, e.Name()))
	}
	return out, nil
}

// LocaleFiles returns the *.json files in dir.
func LocaleFiles(dir string) ([]string, error) {
	return Glob(dir, "*.json")
}

// ResourceFiles returns the *.resx files in dir.
func ResourceFiles(dir string) ([]string, error) {
	return Glob(dir, "*"+resx.Ext)
}

// Matcher matches slash-separated paths against a set of patterns such as
// "**/bin/**".
type Matcher struct {
	globs    []glob.Glob
	patterns []string
}

// CompileMatcher compiles patterns with '/' as the separator.
func CompileMatcher(patterns []string) (*Matcher, error) {
	m := &Matcher{}
	for _, p := range patterns {
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, fmt.Errorf("compiling pattern %q: %w", p, err)
		}
		m.globs = append(m.globs, g)
		m.patterns = append(m.patterns, p)
	}
	return m, nil
}

// Match reports whether path matches any pattern. A nil Matcher matches
// nothing.
func (m *Matcher) Match(path string) bool {
	if m == nil {
		return false
	}
	s := filepath.ToSlash(path)
	for _, g := range m.globs {
		if g.Match(s) {
			return true
		}
	}
	return false
}

// Patterns returns the source patterns.
func (m *Matcher) Patterns() []string {
	if m == nil {
		return nil
	}
	return m.patterns
}

// ---------------------------------------------------------------------------
// Languages
// ---------------------------------------------------------------------------

// LanguageFromFile returns the language of a locale file such as
// locales/de-DE.json.
func LanguageFromFile(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// SatelliteLanguage returns the language suffix of a satellite resource
// file (Strings.de-DE.resx → "de-DE"), or "" for a primary file.
func SatelliteLanguage(path string) string {
	stem := strings.TrimSuffix(filepath.Base(path), resx.Ext)
	parts := strings.Split(stem, ".")
	if len(parts) < 2 {
		return ""
	}
	return parts[1]
}

// Satellites returns the satellite files of a primary resource file,
// keyed by language. Only siblings sharing the primary's base name count.
func Satellites(primary string) (map[string]string, error) {
	files, err := ResourceFiles(filepath.Dir(primary))
	if err != nil {
		return nil, err
	}
	prefix := strings.TrimSuffix(filepath.Base(primary), resx.Ext) + "."

	out := make(map[string]string)
	for _, f := range files {
		if f == primary || !strings.HasPrefix(filepath.Base(f), prefix) {
			continue
		}
		if lang := SatelliteLanguage(f); lang != "" {
			out[lang] = f
		}
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Projects
// ---------------------------------------------------------------------------

// ProjectExt is the extension of project files.
const ProjectExt = ".csproj"

// ProjectResources returns the primary resource files a project file
// references and that exist on disk.
func ProjectResources(projectPath string) ([]string, error) {
	if filepath.Ext(projectPath) != ProjectExt {
		return nil, fmt.Errorf("%s: not a %s file", projectPath, ProjectExt)
	}
	refs, err := resx.ReadResourceReferencesFile(projectPath)
	if err != nil {
		return nil, err
	}
	return resx.FilterRootResources(refs), nil
}

// ---------------------------------------------------------------------------
// Location kinds
// ---------------------------------------------------------------------------

// Kind is the type of location a path points at.
type Kind int

const (
	Unknown Kind = iota
	// Frontend is a directory holding messages.ts and locales/.
	Frontend
	// Project is a .csproj file.
	Project
	// Resource is a primary .resx file.
	Resource
)

func (k Kind) String() string {
	switch k {
	case Frontend:
		return "frontend"
	case Project:
		return "project"
	case Resource:
		return "resource"
	}
	return "unknown"
}

// DetectKind classifies path and returns the location root: the directory
// for a frontend (given either the directory or its messages.ts), the
// path itself otherwise.
func DetectKind(path string) (Kind, string, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return Unknown, "", err
	}
	if fi.IsDir() {
		if _, err := os.Stat(MessagesFile.Join(path)); err == nil {
			return Frontend, path, nil
		}
		return Unknown, path, nil
	}

	switch {
	case filepath.Base(path) == MessagesFile.Rel():
		return Frontend, filepath.Dir(path), nil
	case filepath.Ext(path) == ProjectExt:
		return Project, path, nil
	case resx.IsRootResource(path):
		return Resource, path, nil
	}
	return Unknown, path, nil
}
