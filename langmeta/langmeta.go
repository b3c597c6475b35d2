// Package langmeta knows the language codes used by locations and how to
// display them. Codes are region-qualified ("de-DE"); display names are
// derived from the base language and flags from the region.
package langmeta

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Defaults is the language list a new frontend location is seeded with.
var Defaults = []string{
	"de-DE", "de-AT", "de-CH", "de-LU", "nl-NL", "nl-BE", "en-GB", "en-US", "es-ES", "fr-FR",
	"fr-BE", "fr-CH", "it-IT", "it-CH", "pl-PL", "pt-PT", "hu-HU", "hr-HR", "sr-La", "sl-SI",
	"el-GR", "bg-BG", "ro-RO", "tr-TR", "da-DK", "fi-FI", "nb-NO", "sv-SE", "sk-SK", "cs-CZ",
	"uk-UA", "et-EE", "lt-LT", "lv-LV",
}

// Meta describes language display metadata.
type Meta struct {
	Name string
	Flag string
}

// names holds English names of base languages.
var names = map[string]string{
	"bg": "Bulgarian",
	"cs": "Czech",
	"da": "Danish",
	"de": "German",
	"el": "Greek",
	"en": "English",
	"es": "Spanish",
	"et": "Estonian",
	"fi": "Finnish",
	"fr": "French",
	"hr": "Croatian",
	"hu": "Hungarian",
	"it": "Italian",
	"lt": "Lithuanian",
	"lv": "Latvian",
	"nb": "Norwegian Bokmål",
	"nl": "Dutch",
	"pl": "Polish",
	"pt": "Portuguese",
	"ro": "Romanian",
	"sk": "Slovak",
	"sl": "Slovenian",
	"sr": "Serbian",
	"sv": "Swedish",
	"tr": "Turkish",
	"uk": "Ukrainian",
}

// Canonicalize normalizes separators and case: "pt_br" → "pt-BR".
func Canonicalize(lang string) string {
	normalized := strings.ReplaceAll(strings.TrimSpace(lang), "_", "-")
	if normalized == "" {
		return ""
	}
	parts := strings.Split(normalized, "-")
	parts[0] = strings.ToLower(parts[0])
	if len(parts) >= 2 && len(parts[1]) == 2 {
		parts[1] = strings.ToUpper(parts[1])
	}
	return strings.Join(parts, "-")
}

// Split returns the base language and region of a code.
func Split(lang string) (base, region string) {
	base, region, _ = strings.Cut(Canonicalize(lang), "-")
	return base, region
}

// Resolve returns display metadata for lang. Base languages missing from
// names are looked up in the CLDR English names; unknown ones keep the code
// as their name. Regions that are not two letters get no flag.
func Resolve(lang string) Meta {
	base, region := Split(lang)
	m := Meta{Name: lang, Flag: flag(region)}
	if n, ok := baseName(base); ok {
		m.Name = n
		if region != "" {
			m.Name += " (" + region + ")"
		}
	}
	return m
}

func baseName(base string) (string, bool) {
	if n, ok := names[base]; ok {
		return n, true
	}
	b, err := language.ParseBase(base)
	if err != nil {
		return "", false
	}
	n := display.English.Languages().Name(b)
	return n, n != ""
}

// flag builds the regional-indicator pair for a two-letter region.
func flag(region string) string {
	if len(region) != 2 {
		return ""
	}
	var b strings.Builder
	for _, c := range region {
		if c < 'A' || c > 'Z' {
			return ""
		}
		b.WriteRune(0x1F1E6 + (c - 'A'))
	}
	return b.String()
}

// IsKnown reports whether lang is one of Defaults.
func IsKnown(lang string) bool {
	c := Canonicalize(lang)
	for _, d := range Defaults {
		if strings.EqualFold(d, c) {
			return true
		}
	}
	return false
}
