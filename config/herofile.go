// Package config loads and saves .hero.yaml, the project configuration.
//
// The file lives in the project root and holds the settings that change
// how locations are edited (default language, translation hooks) plus an
// optional explicit list of locations. Without the file every setting
// has its default and locations are auto-detected.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/translation-hero/hero/discovery"
)

// ---------------------------------------------------------------------------
// YAML schema
// ---------------------------------------------------------------------------

// FileName is the config file name.
const FileName = ".hero.yaml"

// DefaultLanguage is used when default_language is not set.
const DefaultLanguage = "en-GB"

// HeroFile is the top-level .hero.yaml structure.
type HeroFile struct {
	// DefaultLanguage is the language new keys are written in and which
	// is ignored when deciding whether a key is untranslated.
	DefaultLanguage string `yaml:"default_language,omitempty"`
	// TranslateNewStrings runs TranslationCommand after a frontend add.
	TranslateNewStrings bool `yaml:"translate_new_strings,omitempty"`
	// TranslateUpdatedStrings re-translates a key whose default-language
	// value changed.
	TranslateUpdatedStrings bool `yaml:"translate_updated_strings,omitempty"`
	// TranslationCommand is run with the locales directory appended.
	TranslationCommand string `yaml:"translation_command,omitempty"`
	// Ignore holds slash-separated glob patterns excluded from detection
	// and watching.
	Ignore []string `yaml:"ignore,omitempty"`
	// Locations lists the locations explicitly. Empty means auto-detect.
	Locations []LocationSpec `yaml:"locations,omitempty"`

	path string
}

// LocationSpec declares one location.
type LocationSpec struct {
	// Name is a label shown in listings.
	Name string `yaml:"name"`
	// Path is relative to the project root: a frontend directory, a
	// .csproj file or a .resx file.
	Path string `yaml:"path"`
}

// ---------------------------------------------------------------------------
// Loading
// ---------------------------------------------------------------------------

// Default returns the configuration used when no file exists.
func Default() *HeroFile {
	return &HeroFile{DefaultLanguage: DefaultLanguage}
}

// Load reads .hero.yaml from rootDir. A missing file yields Default().
// Unknown keys are rejected.
func Load(rootDir string) (*HeroFile, error) {
	path := filepath.Join(rootDir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			hf := Default()
			hf.path = path
			return hf, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var hf HeroFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&hf); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	hf.path = path

	if hf.DefaultLanguage == "" {
		hf.DefaultLanguage = DefaultLanguage
	}
	if _, err := discovery.CompileMatcher(hf.Ignore); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if (hf.TranslateNewStrings || hf.TranslateUpdatedStrings) && hf.TranslationCommand == "" {
		return nil, fmt.Errorf("%s: translation is enabled but translation_command is empty", path)
	}

	seen := make(map[string]bool)
	for i, l := range hf.Locations {
		if l.Name == "" {
			return nil, fmt.Errorf("%s: location #%d has no name", path, i+1)
		}
		if l.Path == "" {
			return nil, fmt.Errorf("%s: location %q has no path", path, l.Name)
		}
		if seen[l.Name] {
			return nil, fmt.Errorf("%s: duplicate location name %q", path, l.Name)
		}
		seen[l.Name] = true
	}

	return &hf, nil
}

// Path returns the file the configuration was loaded from or will be
// saved to.
func (hf *HeroFile) Path() string {
	return hf.path
}

// Save writes the configuration back to its path.
func (hf *HeroFile) Save() error {
	if hf.path == "" {
		return fmt.Errorf("config path not set")
	}
	data, err := yaml.Marshal(hf)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(hf.path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", hf.path, err)
	}
	return nil
}

// IgnoreMatcher compiles the ignore patterns.
func (hf *HeroFile) IgnoreMatcher() *discovery.Matcher {
	m, _ := discovery.CompileMatcher(hf.Ignore) // validated by Load
	return m
}

// ---------------------------------------------------------------------------
// Resolving locations
// ---------------------------------------------------------------------------

// ResolvedLocation is a location with an absolute path and a detected
// kind.
type ResolvedLocation struct {
	Name string
	Path string
	Kind discovery.Kind
}

// Resolve turns the declared locations into absolute paths relative to
// projectRoot. Without declared locations it falls back to Detect.
func (hf *HeroFile) Resolve(projectRoot string) ([]ResolvedLocation, error) {
	absRoot, err := filepath.Abs(projectRoot)
	if err != nil {
		return nil, err
	}
	if len(hf.Locations) == 0 {
		return Detect(absRoot, hf.IgnoreMatcher())
	}

	var out []ResolvedLocation
	for _, l := range hf.Locations {
		p := l.Path
		if !filepath.IsAbs(p) {
			p = filepath.Join(absRoot, filepath.FromSlash(p))
		}
		kind, root, err := discovery.DetectKind(p)
		if err != nil {
			return nil, fmt.Errorf("location %q: %w", l.Name, err)
		}
		if kind == discovery.Unknown {
			return nil, fmt.Errorf("location %q: %s is not a frontend directory, project or resource file", l.Name, p)
		}
		out = append(out, ResolvedLocation{Name: l.Name, Path: root, Kind: kind})
	}
	return out, nil
}
