// Package location implements the operations a caller runs against a
// location: scanning it into reconciled entries and counts, and adding,
// removing or updating keys across every file the location is made of.
//
// A frontend location is a directory holding messages.ts and a locales/
// directory of JSON files. A backend location is a primary .resx file and
// its satellites; a .csproj path expands to one backend location per root
// resource it references.
package location

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"time"

	chlog "github.com/charmbracelet/log"

	"github.com/translation-hero/hero/config"
	"github.com/translation-hero/hero/discovery"
	"github.com/translation-hero/hero/errs"
	"github.com/translation-hero/hero/fileutil"
	"github.com/translation-hero/hero/logging"
	"github.com/translation-hero/hero/reconcile"
	"github.com/translation-hero/hero/store"
)

func log() *chlog.Logger { return logging.For("location") }

// Settings changes how keys are edited.
type Settings struct {
	DefaultLanguage         string
	TranslateNewStrings     bool
	TranslateUpdatedStrings bool
	TranslationCommand      string
}

// SettingsFrom copies the edit settings out of a project configuration.
func SettingsFrom(hf *config.HeroFile) Settings {
	return Settings{
		DefaultLanguage:         hf.DefaultLanguage,
		TranslateNewStrings:     hf.TranslateNewStrings,
		TranslateUpdatedStrings: hf.TranslateUpdatedStrings,
		TranslationCommand:      hf.TranslationCommand,
	}
}

// Manager runs location operations.
type Manager struct {
	Settings Settings
	// Writer receives every file write. Nil writes to disk.
	Writer fileutil.Writer
	// Runner runs the translation command. Nil uses ShellRunner.
	Runner Runner
}

// New returns a Manager writing to disk.
func New(s Settings) *Manager {
	if s.DefaultLanguage == "" {
		s.DefaultLanguage = reconcile.DefaultLanguage
	}
	return &Manager{Settings: s}
}

func (m *Manager) defaultLang() string {
	if m.Settings.DefaultLanguage == "" {
		return reconcile.DefaultLanguage
	}
	return m.Settings.DefaultLanguage
}

func (m *Manager) writer() fileutil.Writer {
	if m.Writer == nil {
		return fileutil.Disk{}
	}
	return m.Writer
}

func (m *Manager) runner() Runner {
	if m.Runner == nil {
		return ShellRunner{}
	}
	return m.Runner
}

// ---------------------------------------------------------------------------
// Targets
// ---------------------------------------------------------------------------

// target is a path classified by discovery.DetectKind.
type target struct {
	kind discovery.Kind
	root string
}

func resolve(op, path string) (target, error) {
	kind, root, err := discovery.DetectKind(path)
	if err != nil {
		return target{}, errs.Wrap(errs.IO, op, path, err)
	}
	if kind == discovery.Unknown {
		return target{}, errs.Wrap(errs.NotFound, op, path, errNotLocation)
	}
	return target{kind: kind, root: root}, nil
}

// editable rejects project files, which hold no keys of their own.
func editable(op, path string) (target, error) {
	t, err := resolve(op, path)
	if err != nil {
		return t, err
	}
	if t.kind == discovery.Project {
		return t, errs.Wrap(errs.Structural, op, path, errProjectEdit)
	}
	return t, nil
}

var (
	errNotLocation = errors.New("not a frontend directory, project or resource file")
	errProjectEdit = errors.New("a project holds no keys; pass one of its resource files")
)

// ---------------------------------------------------------------------------
// Scanning
// ---------------------------------------------------------------------------

// Result is one scanned location.
type Result struct {
	Tag     store.Tag
	Path    string
	Name    string
	Entries []reconcile.TranslationEntry
	Summary reconcile.Summary
}

// Source returns each key's default-language text.
func (r Result) Source(defaultLang string) map[string]string {
	out := make(map[string]string, len(r.Entries))
	for _, e := range r.Entries {
		out[e.Key] = e.Translations[defaultLang]
	}
	return out
}

// Record builds the store record of r.
func (r Result) Record(defaultLang string, now time.Time) *store.Location {
	loc := &store.Location{
		Tag:                   r.Tag,
		Path:                  r.Path,
		Name:                  r.Name,
		NumOfKeys:             r.Summary.Keys,
		NumOfUntranslatedKeys: r.Summary.Untranslated,
		UpdatedAt:             now,
	}
	loc.Record(r.Source(defaultLang))
	return loc
}

// Scan reconciles the location at path. name labels a frontend or a
// single resource; when empty the directory name is used. A project yields
// one result per root resource, each named after its parent directory.
func (m *Manager) Scan(path, name string) ([]Result, error) {
	t, err := resolve("scan", path)
	if err != nil {
		return nil, err
	}

	switch t.kind {
	case discovery.Frontend:
		entries, err := m.frontendEntries(t.root)
		if err != nil {
			return nil, err
		}
		if name == "" {
			name = filepath.Base(t.root)
		}
		return []Result{m.result(store.Frontend, t.root, name, entries)}, nil

	case discovery.Resource:
		entries, err := m.backendEntries(t.root)
		if err != nil {
			return nil, err
		}
		if name == "" {
			name = parentName(t.root)
		}
		return []Result{m.result(store.Backend, t.root, name, entries)}, nil
	}

	resources, err := discovery.ProjectResources(t.root)
	if err != nil {
		return nil, errs.WithPath(err, "scan", t.root)
	}
	var out []Result
	for _, res := range resources {
		entries, err := m.backendEntries(res)
		if err != nil {
			return nil, err
		}
		out = append(out, m.result(store.Backend, res, parentName(res), entries))
	}
	log().Debug("scanned project", "path", t.root, "resources", len(out))
	return out, nil
}

func (m *Manager) result(tag store.Tag, path, name string, entries []reconcile.TranslationEntry) Result {
	return Result{
		Tag:     tag,
		Path:    path,
		Name:    name,
		Entries: entries,
		Summary: reconcile.Summarize(entries, m.defaultLang()),
	}
}

func parentName(path string) string {
	return filepath.Base(filepath.Dir(path))
}

// Entries returns the reconciled entries of the location at path. For a
// project the entries of all its root resources are concatenated.
func (m *Manager) Entries(path string) ([]reconcile.TranslationEntry, error) {
	results, err := m.Scan(path, "")
	if err != nil {
		return nil, err
	}
	var out []reconcile.TranslationEntry
	for _, r := range results {
		out = append(out, r.Entries...)
	}
	return out, nil
}

// Languages returns the languages of the location at path. A frontend
// reports its language catalog, or the names of its locale files when it
// has none. A backend reports the default language and its satellites.
func (m *Manager) Languages(path string) ([]string, error) {
	t, err := resolve("languages", path)
	if err != nil {
		return nil, err
	}
	if t.kind == discovery.Frontend {
		return frontendLanguages(t.root)
	}
	return m.backendLanguages(t)
}

// ---------------------------------------------------------------------------
// Editing
// ---------------------------------------------------------------------------

// Add adds key to the location at path. In a frontend key is written to
// messages.ts mapped to resourceKey (key itself when empty) and value to
// the default-language locale file; the translation command runs
// afterwards when TranslateNewStrings is set. In a resource file the
// entry is written to the primary file and resourceKey is ignored.
func (m *Manager) Add(ctx context.Context, path, key, resourceKey, value string) error {
	t, err := editable("add", path)
	if err != nil {
		return err
	}
	if t.kind == discovery.Frontend {
		return m.addFrontend(ctx, t.root, key, resourceKey, value)
	}
	return m.addBackend(t.root, key, value)
}

// Remove removes keys from the location at path. Frontend keys are the
// keys of messages.ts; their resource keys are removed from every locale
// file. Resource keys are removed from the primary file and its
// satellites.
func (m *Manager) Remove(path string, keys []string) error {
	t, err := editable("remove", path)
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	if t.kind == discovery.Frontend {
		return m.removeFrontend(t.root, keys)
	}
	return m.removeBackend(t.root, keys)
}

// Update sets the values of key, given by language. In a frontend, when
// only the default language is given and TranslateUpdatedStrings is set,
// the other translations are dropped and the translation command runs.
func (m *Manager) Update(ctx context.Context, path, key string, values map[string]string) error {
	t, err := editable("update", path)
	if err != nil {
		return err
	}
	if len(values) == 0 {
		return nil
	}
	if t.kind == discovery.Frontend {
		return m.updateFrontend(ctx, t.root, key, values)
	}
	return m.updateBackend(t.root, key, values)
}

// ---------------------------------------------------------------------------
// Writing
// ---------------------------------------------------------------------------

// pending is a computed file rewrite.
type pending struct {
	path string
	data []byte
}

// commit writes every pending change whose contents differ from disk.
// All changes are computed before the first write.
func (m *Manager) commit(op string, changes []pending) error {
	w := m.writer()
	for _, c := range changes {
		old, err := os.ReadFile(c.path)
		if err == nil && bytes.Equal(old, c.data) {
			continue
		}
		if err := w.WriteFile(c.path, c.data); err != nil {
			return errs.Wrap(errs.IO, op, c.path, err)
		}
		log().Debug("wrote file", "op", op, "path", c.path)
	}
	return nil
}

// prepare reads path and computes its new contents with fn.
func prepare(op, path string, fn func([]byte) ([]byte, error)) (pending, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return pending{}, errs.Wrap(errs.IO, op, path, err)
	}
	out, err := fn(data)
	if err != nil {
		return pending{}, errs.WithPath(err, op, path)
	}
	return pending{path: path, data: out}, nil
}
