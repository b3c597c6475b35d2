// Package jsonlocale reads and edits flat JSON locale files.
//
// A locale file maps resource keys to translated strings:
//
//	{
//	  "greeting": "Hello",
//	  "farewell": "Goodbye"
//	}
//
// Updates and inserts are line oriented and leave every other line
// untouched. Removal re-serializes the object with keys sorted, keeping
// the file's indentation unit and newline style.
package jsonlocale

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/translation-hero/hero/errs"
	"github.com/translation-hero/hero/logging"
	"github.com/translation-hero/hero/ordmap"
)

// DefaultIndent is used when a file has no indented entry line.
const DefaultIndent = "  "

// ---------------------------------------------------------------------------
// Data model
// ---------------------------------------------------------------------------

// File is a parsed locale file.
type File struct {
	// Entries holds the key/value pairs in file order.
	Entries *ordmap.Map
	// Indent is the indentation unit of entry lines.
	Indent string
	// Newline is "\r\n" or "\n".
	Newline string
	// TrailingNewline records whether the input ended with a newline.
	TrailingNewline bool
}

// ---------------------------------------------------------------------------
// Parsing
// ---------------------------------------------------------------------------

// ParseFile reads and parses the locale file at path.
func ParseFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.Wrap(errs.IO, "read", path, err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, errs.WithPath(err, "read", path)
	}
	return f, nil
}

// Parse parses locale file data. Every value must be a string.
func Parse(data []byte) (*File, error) {
	entries, err := parseOrderedStringMap(data)
	if err != nil {
		return nil, errs.Wrap(errs.Parse, "parse", "", err)
	}
	return &File{
		Entries:         entries,
		Indent:          DetectIndent(data),
		Newline:         DetectNewline(data),
		TrailingNewline: bytes.HasSuffix(data, []byte("\n")),
	}, nil
}

// parseOrderedStringMap decodes a flat JSON object of strings, keeping
// key order.
func parseOrderedStringMap(data []byte) (*ordmap.Map, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	t, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}
	if delim, ok := t.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("expected {, got %v", t)
	}

	m := ordmap.New(0)
	for dec.More() {
		kt, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("parsing JSON: %w", err)
		}
		key, ok := kt.(string)
		if !ok {
			return nil, fmt.Errorf("expected string key, got %T", kt)
		}

		vt, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("parsing JSON: %w", err)
		}
		value, ok := vt.(string)
		if !ok {
			return nil, fmt.Errorf("expected string value for key %q, got %T", key, vt)
		}
		m.Set(key, value)
	}

	// Closing brace, then nothing but whitespace.
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("unexpected data after top-level object")
	}
	return m, nil
}

// DetectIndent returns the indentation of the first line that starts a
// quoted key: a tab if that whitespace holds one, otherwise the
// whitespace itself, or DefaultIndent when there is none.
func DetectIndent(data []byte) string {
	for _, line := range strings.Split(string(data), "\n") {
		trimmed := strings.TrimLeft(line, " \t")
		if !strings.HasPrefix(trimmed, `"`) {
			continue
		}
		lead := line[:len(line)-len(trimmed)]
		if strings.Contains(lead, "\t") {
			return "\t"
		}
		if lead != "" {
			return lead
		}
		break
	}
	return DefaultIndent
}

// DetectNewline returns "\r\n" if data contains one, otherwise "\n".
func DetectNewline(data []byte) string {
	if bytes.Contains(data, []byte("\r\n")) {
		return "\r\n"
	}
	return "\n"
}

// ---------------------------------------------------------------------------
// Accessors
// ---------------------------------------------------------------------------

// Values returns the key/value pairs of the locale file at path.
func Values(path string) (map[string]string, error) {
	f, err := ParseFile(path)
	if err != nil {
		return nil, err
	}
	return f.Entries.Map(), nil
}

// Get returns the value of key.
func (f *File) Get(key string) (string, bool) {
	return f.Entries.Get(key)
}

// ---------------------------------------------------------------------------
// Writing
// ---------------------------------------------------------------------------

// Marshal serializes the file with keys sorted, one entry per line.
// An empty object is written as "{", newline, "}".
func (f *File) Marshal() []byte {
	keys := f.Entries.Keys()
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString("{" + f.Newline)
	for i, k := range keys {
		v, _ := f.Entries.Get(k)
		b.WriteString(f.Indent + quote(k) + ": " + quote(v))
		if i < len(keys)-1 {
			b.WriteString(",")
		}
		b.WriteString(f.Newline)
	}
	b.WriteString("}")
	if f.TrailingNewline {
		b.WriteString(f.Newline)
	}
	return []byte(b.String())
}

// quote returns s as a JSON string literal without HTML escaping.
func quote(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(s)
	return strings.TrimSuffix(buf.String(), "\n")
}

func debugf(msg string, keyvals ...any) {
	logging.For("jsonlocale").Debug(msg, keyvals...)
}
