// Package reconcile merges the canonical key list of a location with the
// per-language values found in its resource files.
package reconcile

import (
	"sort"
	"strings"

	"github.com/translation-hero/hero/ordmap"
)

// DefaultLanguage is the language whose values are the source text when
// no other default is configured.
const DefaultLanguage = "en-GB"

// TranslationEntry is one key of a location together with its value in
// every discovered language.
type TranslationEntry struct {
	// Key is the identifier used in code.
	Key string `json:"key"`
	// Value is the key used inside the per-language files.
	Value string `json:"value"`
	// Translations maps a language code to the translated text. Every
	// discovered language is present; a missing translation is "".
	Translations map[string]string `json:"translations"`
	// InUse is false when every translation is blank.
	InUse bool `json:"in_use"`
}

// Reconcile produces one entry per pair of canonical, in canonical order.
// canonical maps code keys to resource keys; perLanguage maps a language
// to that language's resource key → text pairs.
func Reconcile(canonical *ordmap.Map, perLanguage map[string]map[string]string) []TranslationEntry {
	entries := make([]TranslationEntry, 0, canonical.Len())
	canonical.Range(func(key, resourceKey string) bool {
		tr := make(map[string]string, len(perLanguage))
		for lang, values := range perLanguage {
			tr[lang] = values[resourceKey]
		}
		entries = append(entries, TranslationEntry{
			Key:          key,
			Value:        resourceKey,
			Translations: tr,
			InUse:        !allBlank(tr),
		})
		return true
	})
	return entries
}

// Backend reconciles a primary resource file with its satellites. Keys
// come from the primary file and map to themselves; the primary file
// supplies defaultLang and each satellite its own language.
func Backend(primary *ordmap.Map, satellites map[string]map[string]string, defaultLang string) []TranslationEntry {
	canonical := ordmap.New(primary.Len())
	for _, k := range primary.Keys() {
		canonical.Set(k, k)
	}
	perLanguage := make(map[string]map[string]string, len(satellites)+1)
	for lang, values := range satellites {
		perLanguage[lang] = values
	}
	perLanguage[defaultLang] = primary.Map()
	return Reconcile(canonical, perLanguage)
}

func allBlank(tr map[string]string) bool {
	for _, v := range tr {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// IsUntranslated reports whether every language other than defaultLang
// has a blank value for e. An entry with no other languages counts as
// untranslated.
func IsUntranslated(e TranslationEntry, defaultLang string) bool {
	for lang, v := range e.Translations {
		if lang == defaultLang {
			continue
		}
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// Untranslated returns the entries for which IsUntranslated holds.
func Untranslated(entries []TranslationEntry, defaultLang string) []TranslationEntry {
	var out []TranslationEntry
	for _, e := range entries {
		if IsUntranslated(e, defaultLang) {
			out = append(out, e)
		}
	}
	return out
}

// Summary holds the derived counts of a location.
type Summary struct {
	Keys         int
	Untranslated int
	InUse        int
}

// Summarize counts entries.
func Summarize(entries []TranslationEntry, defaultLang string) Summary {
	s := Summary{Keys: len(entries)}
	for _, e := range entries {
		if IsUntranslated(e, defaultLang) {
			s.Untranslated++
		}
		if e.InUse {
			s.InUse++
		}
	}
	return s
}

// Languages returns the sorted union of the languages of entries.
func Languages(entries []TranslationEntry) []string {
	seen := make(map[string]bool)
	for _, e := range entries {
		for lang := range e.Translations {
			seen[lang] = true
		}
	}
	out := make([]string, 0, len(seen))
	for lang := range seen {
		out = append(out, lang)
	}
	sort.Strings(out)
	return out
}
