package objlit

import (
	"os"
	"regexp"
	"strings"

	"github.com/translation-hero/hero/errs"
	"github.com/translation-hero/hero/fileutil"
)

// newEntryIndent indents the first entry of an empty object literal.
const newEntryIndent = "    "

func join(lines []Line) string {
	var b strings.Builder
	for _, l := range lines {
		b.WriteString(l.Text)
		b.WriteString(l.Newline)
	}
	return b.String()
}

func replaceBody(content []byte, body Body, text string) []byte {
	out := make([]byte, 0, len(content)+len(text)-(body.End-body.Start))
	out = append(out, content[:body.Start]...)
	out = append(out, text...)
	return append(out, content[body.End:]...)
}

// ---------------------------------------------------------------------------
// Remove
// ---------------------------------------------------------------------------

// RemoveKeys drops the entry lines whose key is in keys. Every other line
// is kept with its own terminator. A file without the defineLocales(
// anchor is a Structural error.
func RemoveKeys(content []byte, keys []string) ([]byte, error) {
	body, err := Locate(content)
	if err != nil {
		return nil, err
	}
	drop := make(map[string]bool, len(keys))
	for _, k := range keys {
		drop[k] = true
	}

	lines := Tokenize(string(content[body.Start:body.End]))
	kept := make([]Line, 0, len(lines))
	for _, l := range lines {
		if l.Kind == LineEntry && drop[l.Key] {
			continue
		}
		kept = append(kept, l)
	}
	if len(kept) == len(lines) {
		return content, nil
	}
	// The dropped last line had no terminator; neither may the new one.
	if n := len(lines); len(kept) > 0 && lines[n-1].Newline == "" && kept[len(kept)-1].Newline != "" {
		kept[len(kept)-1].Newline = ""
	}
	return replaceBody(content, body, join(kept)), nil
}

// ---------------------------------------------------------------------------
// Insert
// ---------------------------------------------------------------------------

// InsertEntry adds `key: 'value',` as the last entry of the object
// literal, indented like the entry before it. If that entry has no
// trailing comma it gets one. In an object without entries the new line
// goes right after the opening brace. A key that already exists is a
// Conflict error.
func InsertEntry(content []byte, key, value string) ([]byte, error) {
	body, err := Locate(content)
	if err != nil {
		return nil, err
	}
	lines := Tokenize(string(content[body.Start:body.End]))
	if ExtractEntries(lines).Has(key) {
		return nil, errs.E(errs.Conflict, "insert", "key %q already exists", key)
	}

	nl := detectNewline(content)
	entry := key + ": " + singleQuote(value) + ","
	newEntry := func(indent string) Line {
		l := Line{Text: indent + entry}
		classify(&l)
		return l
	}

	last, open, openCol := topLevel(lines)
	switch {
	case last >= 0:
		prev := &lines[last]
		if !prev.HasComma() {
			prev.Text = prev.withComma()
		}
		lines = insertAfter(lines, last, newEntry(prev.Indent()), nl)

	case open >= 0:
		l := lines[open]
		tail := l.Text[openCol+1:]
		if strings.TrimSpace(tail) == "" {
			lines = insertAfter(lines, open, newEntry(newEntryIndent), nl)
			break
		}
		head := Line{Text: l.Text[:openCol+1], Newline: nl}
		rest := Line{Text: tail, Newline: l.Newline}
		classify(&rest)
		mid := newEntry(newEntryIndent)
		mid.Newline = nl
		lines = append(lines[:open], append([]Line{head, mid, rest}, lines[open+1:]...)...)

	default:
		return nil, errs.E(errs.Structural, "insert", "no object literal after defineLocales(")
	}

	return replaceBody(content, body, join(lines)), nil
}

// insertAfter places l after lines[i]. The new line takes over lines[i]'s
// terminator and lines[i] is terminated with nl.
func insertAfter(lines []Line, i int, l Line, nl string) []Line {
	l.Newline = lines[i].Newline
	lines[i].Newline = nl
	out := make([]Line, 0, len(lines)+1)
	out = append(out, lines[:i+1]...)
	out = append(out, l)
	return append(out, lines[i+1:]...)
}

// topLevel walks the body tracking brace depth outside string literals
// and comments. It returns the index of the last entry line directly inside the outer
// object, and the line and column of that object's opening brace. Missing
// positions are -1.
func topLevel(lines []Line) (last, open, openCol int) {
	last, open, openCol = -1, -1, -1
	depth := 0
	inComment := false
	for i, l := range lines {
		if l.Kind == LineEntry {
			if depth == 1 {
				last = i
			}
			continue
		}
		inComment = scanCode(l.Text, inComment, func(col int, c byte) {
			switch c {
			case '{':
				depth++
				if open < 0 {
					open, openCol = i, col
				}
			case '}':
				depth--
			}
		})
	}
	return last, open, openCol
}

// ---------------------------------------------------------------------------
// Language catalog
// ---------------------------------------------------------------------------

var languageCode = regexp.MustCompile(`'(\w{2}-\w{2})`)

// ReadLanguageCatalog returns the language codes listed in locales.ts, one
// per line, skipping the first line.
func ReadLanguageCatalog(content []byte) []string {
	lines := strings.Split(string(content), "\n")
	var codes []string
	for _, line := range lines[1:] {
		if m := languageCode.FindStringSubmatch(line); m != nil {
			codes = append(codes, m[1])
		}
	}
	return codes
}

// ReadLanguageCatalogFile reads the catalog at path.
func ReadLanguageCatalogFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.Wrap(errs.IO, "read", path, err)
	}
	return ReadLanguageCatalog(data), nil
}

// ---------------------------------------------------------------------------
// File wrappers
// ---------------------------------------------------------------------------

// RemoveKeysFile removes keys from the definition module at path.
func RemoveKeysFile(path string, keys []string) error {
	_, err := fileutil.Rewrite(nil, path, "remove", func(data []byte) ([]byte, error) {
		return RemoveKeys(data, keys)
	})
	return err
}

// InsertEntryFile adds key to the definition module at path.
func InsertEntryFile(path, key, value string) error {
	_, err := fileutil.Rewrite(nil, path, "insert", func(data []byte) ([]byte, error) {
		return InsertEntry(data, key, value)
	})
	return err
}
