// Package i18n translates hero's own user-facing messages.
//
// It wraps gotext. Catalogs are embedded from locales/{lang}/LC_MESSAGES/hero.po
// and selected once at startup by Init:
//
//	i18n.Init("")  // HERO_LANG, then LANGUAGE/LC_ALL/LC_MESSAGES/LANG
//	logInfo(i18n.T("Saved %s"), path)
//	logInfo(i18n.N("%d key", "%d keys", n), n)
package i18n

import (
	"embed"
	"os"
	"strings"

	"github.com/leonelquinteros/gotext"
)

//go:embed all:locales
var locales embed.FS

// domain is the gettext domain of the catalogs.
const domain = "hero"

// EnvLang selects the message language ahead of the locale variables.
const EnvLang = "HERO_LANG"

var (
	po   *gotext.Locale
	lang string
)

// Init loads the catalog of lang. An empty lang is detected from the
// environment. Missing catalogs leave messages untranslated.
func Init(l string) {
	if l == "" {
		l = detectLanguage()
	}
	lang = l

	po = gotext.NewLocaleFSWithPath(l, locales, "locales")
	po.AddDomain(domain)
	po.SetDomain(domain)
}

// Lang returns the language passed to or detected by Init.
func Lang() string {
	return lang
}

// T translates msgid, returning it unchanged when there is no translation.
func T(msgid string) string {
	if po == nil {
		return msgid
	}
	return po.Get(msgid)
}

// N translates a message with plural forms for count n.
func N(singular, plural string, n int) string {
	if po == nil {
		if n == 1 {
			return singular
		}
		return plural
	}
	return po.GetN(singular, plural, n)
}

// detectLanguage follows GNU gettext: LANGUAGE > LC_ALL > LC_MESSAGES >
// LANG, with HERO_LANG ahead of all of them.
func detectLanguage() string {
	for _, env := range []string{EnvLang, "LANGUAGE", "LC_ALL", "LC_MESSAGES", "LANG"} {
		val := os.Getenv(env)
		if val == "" {
			continue
		}
		// LANGUAGE is a colon-separated list
		if env == "LANGUAGE" {
			val, _, _ = strings.Cut(val, ":")
		}
		// ru_RU.UTF-8 -> ru_RU
		if idx := strings.IndexByte(val, '.'); idx >= 0 {
			val = val[:idx]
		}
		if val == "C" || val == "POSIX" || val == "" {
			continue
		}
		return val
	}
	return "en"
}
