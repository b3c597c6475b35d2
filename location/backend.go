package location

import (
	"errors"
	"sort"

	"github.com/translation-hero/hero/discovery"
	"github.com/translation-hero/hero/errs"
	"github.com/translation-hero/hero/reconcile"
	"github.com/translation-hero/hero/resx"
)

// backendEntries reconciles a primary resource file with its satellites.
func (m *Manager) backendEntries(primary string) ([]reconcile.TranslationEntry, error) {
	values, err := resx.ReadEntriesFile(primary)
	if err != nil {
		return nil, err
	}
	sats, err := discovery.Satellites(primary)
	if err != nil {
		return nil, errs.Wrap(errs.IO, "scan", primary, err)
	}
	satValues := make(map[string]map[string]string, len(sats))
	for lang, path := range sats {
		v, err := resx.ReadEntriesFile(path)
		if err != nil {
			return nil, err
		}
		satValues[lang] = v.Map()
	}
	log().Debug("scanned resource", "path", primary, "keys", values.Len(), "satellites", len(sats))
	return reconcile.Backend(values, satValues, m.defaultLang()), nil
}

// backendLanguages returns the default language followed by the sorted
// satellite languages of every resource in t.
func (m *Manager) backendLanguages(t target) ([]string, error) {
	primaries := []string{t.root}
	if t.kind == discovery.Project {
		var err error
		if primaries, err = discovery.ProjectResources(t.root); err != nil {
			return nil, errs.WithPath(err, "languages", t.root)
		}
	}
	def := m.defaultLang()
	seen := map[string]bool{def: true}
	var others []string
	for _, p := range primaries {
		sats, err := discovery.Satellites(p)
		if err != nil {
			return nil, errs.Wrap(errs.IO, "languages", p, err)
		}
		for lang := range sats {
			if !seen[lang] {
				seen[lang] = true
				others = append(others, lang)
			}
		}
	}
	sort.Strings(others)
	return append([]string{def}, others...), nil
}

func (m *Manager) addBackend(primary, key, value string) error {
	p, err := prepare("add", primary, func(data []byte) ([]byte, error) {
		return resx.WriteEntry(data, key, value)
	})
	if err != nil {
		return err
	}
	if err := m.commit("add", []pending{p}); err != nil {
		return err
	}
	log().Info("added key", "path", primary, "key", key)
	return nil
}

// removeBackend removes keys from the primary file and every satellite.
func (m *Manager) removeBackend(primary string, keys []string) error {
	sats, err := discovery.Satellites(primary)
	if err != nil {
		return errs.Wrap(errs.IO, "remove", primary, err)
	}
	paths := []string{primary}
	for _, lang := range sortedKeys(sats) {
		paths = append(paths, sats[lang])
	}

	changes := make([]pending, 0, len(paths))
	for _, path := range paths {
		p, err := prepare("remove", path, func(data []byte) ([]byte, error) {
			return resx.RemoveEntries(data, keys)
		})
		if err != nil {
			return err
		}
		changes = append(changes, p)
	}
	if err := m.commit("remove", changes); err != nil {
		return err
	}
	log().Info("removed keys", "path", primary, "keys", len(keys), "files", len(paths))
	return nil
}

// updateBackend writes values by language: the default language goes to
// the primary file, any other to the satellite of that language. A key
// missing from a satellite is added to it.
func (m *Manager) updateBackend(primary, key string, values map[string]string) error {
	sats, err := discovery.Satellites(primary)
	if err != nil {
		return errs.Wrap(errs.IO, "update", primary, err)
	}
	def := m.defaultLang()

	changes := make([]pending, 0, len(values))
	for _, lang := range sortedKeys(values) {
		text := values[lang]
		path := primary
		if lang != def {
			var ok bool
			if path, ok = sats[lang]; !ok {
				return errs.Wrap(errs.NotFound, "update", primary,
					errors.New("no satellite resource for language "+lang))
			}
		}
		isSatellite := path != primary
		p, err := prepare("update", path, func(data []byte) ([]byte, error) {
			out, err := resx.UpdateValue(data, key, text)
			if isSatellite && errs.Is(err, errs.NotFound) {
				return resx.WriteEntry(data, key, text)
			}
			return out, err
		})
		if err != nil {
			return err
		}
		changes = append(changes, p)
	}
	if err := m.commit("update", changes); err != nil {
		return err
	}
	log().Info("updated key", "path", primary, "key", key, "languages", len(changes))
	return nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
