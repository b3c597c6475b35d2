package discovery

import (
	"path/filepath"
)

// PathKind names a well-known file or directory inside a frontend
// location. Join resolves it against the location root with the host's
// separator, so callers never assemble sub-paths by hand.
type PathKind struct {
	kind pathKind
	lang string
}

type pathKind int

const (
	kindMessages pathKind = iota + 1
	kindLocalesDir
	kindCatalog
	kindLanguageFile
)

var (
	// MessagesFile is the object-literal definition file.
	MessagesFile = PathKind{kind: kindMessages}
	// LocalesDir holds one JSON locale file per language.
	LocalesDir = PathKind{kind: kindLocalesDir}
	// LanguageCatalog lists the languages the frontend ships.
	LanguageCatalog = PathKind{kind: kindCatalog}
)

// LanguageFile is the JSON locale file of lang.
func LanguageFile(lang string) PathKind {
	return PathKind{kind: kindLanguageFile, lang: lang}
}

// DefaultLanguageFile is the locale file new keys are first written to.
func DefaultLanguageFile(defaultLang string) PathKind {
	return LanguageFile(defaultLang)
}

// Rel returns the slash-separated path relative to the location root.
func (p PathKind) Rel() string {
	switch p.kind {
	case kindMessages:
		return "messages.ts"
	case kindLocalesDir:
		return "locales"
	case kindCatalog:
		return "locales/locales.ts"
	case kindLanguageFile:
		return "locales/" + p.lang + ".json"
	}
	return ""
}

// Join returns the path of p inside root.
func (p PathKind) Join(root string) string {
	return filepath.Join(root, filepath.FromSlash(p.Rel()))
}

func (p PathKind) String() string { return p.Rel() }
