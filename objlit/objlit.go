// Package objlit reads and edits the TypeScript definition module that maps
// code identifiers to resource keys:
//
//	export default defineLocales({
//	    greeting: 'greeting',
//	    farewellMessage: 'farewell',
//	}, locales)
//
// Only the object literal between the defineLocales( call and the
// trailing locales argument is touched. The body is split into lines and
// each line is classified as an entry (identifier, colon, quoted string,
// optional comma, optional trailing comment) or as anything else. Lines
// inside a /* */ comment are never entries. Edits drop or add entry lines and
// reproduce every other line byte for byte.
package objlit

import (
	"os"
	"regexp"
	"strings"

	"github.com/translation-hero/hero/errs"
	"github.com/translation-hero/hero/ordmap"
)

// ---------------------------------------------------------------------------
// Data model
// ---------------------------------------------------------------------------

// openAnchor precedes the object literal.
var openAnchor = regexp.MustCompile(`export\s+default\s+defineLocales\s*\(`)

// closeAnchor is the locales argument following the object literal.
var closeAnchor = regexp.MustCompile(`\}\s*,\s*(locales)\b`)

// Body is the byte range of the object literal inside the file.
type Body struct {
	Start, End int
}

// LineKind classifies a body line.
type LineKind int

const (
	// LineOther is any line that is not a single entry.
	LineOther LineKind = iota
	// LineEntry is `identifier: 'string'` with an optional comma.
	LineEntry
)

// Line is one line of the body. Joining Text+Newline over all lines
// reproduces the body exactly.
type Line struct {
	Kind    LineKind
	Text    string // without the line terminator
	Newline string // "\n", "\r\n", or "" on the last line
	Key     string // LineEntry only
	Value   string // LineEntry only, unescaped

	valueEnd int // LineEntry only: offset just past the closing quote
}

// HasComma reports whether the entry is followed by a comma. For other
// lines it reports whether the line ends with one.
func (l Line) HasComma() bool {
	if l.Kind == LineEntry {
		return strings.HasPrefix(strings.TrimLeft(l.Text[l.valueEnd:], " \t"), ",")
	}
	return strings.HasSuffix(strings.TrimRight(l.Text, " \t"), ",")
}

// withComma returns an entry's text with a comma right after its value,
// ahead of any trailing comment.
func (l Line) withComma() string {
	return l.Text[:l.valueEnd] + "," + l.Text[l.valueEnd:]
}

// Indent returns the leading whitespace of the line.
func (l Line) Indent() string {
	return l.Text[:len(l.Text)-len(strings.TrimLeft(l.Text, " \t"))]
}

// entryLine matches a whole entry line, trailing comment included. Group
// 1 is the key, group 2 a double-quoted value, group 3 a single-quoted one.
var entryLine = regexp.MustCompile(`^\s*(\w+)\s*:\s*(?:"((?:[^"\\]|\\.)*)"|'((?:[^'\\]|\\.)*)')\s*,?\s*(?://.*|/\*.*?\*/\s*)?$`)

// ---------------------------------------------------------------------------
// Parsing
// ---------------------------------------------------------------------------

// Locate finds the object literal. A file without the defineLocales( call
// or without the trailing locales argument is a Structural error.
func Locate(content []byte) (Body, error) {
	loc := openAnchor.FindIndex(content)
	if loc == nil {
		return Body{}, errs.E(errs.Structural, "locate", "could not find 'export default defineLocales('")
	}
	end := closeAnchor.FindSubmatchIndex(content[loc[1]:])
	if end == nil {
		return Body{}, errs.E(errs.Structural, "locate", "could not find 'locales' argument after defineLocales(")
	}
	return Body{Start: loc[1], End: loc[1] + end[2]}, nil
}

// Tokenize splits body into classified lines.
func Tokenize(body string) []Line {
	var lines []Line
	inComment := false
	for body != "" {
		var l Line
		if i := strings.IndexByte(body, '\n'); i >= 0 {
			l.Text, body = body[:i], body[i+1:]
			l.Newline = "\n"
			if strings.HasSuffix(l.Text, "\r") {
				l.Text = l.Text[:len(l.Text)-1]
				l.Newline = "\r\n"
			}
		} else {
			l.Text, body = body, ""
		}
		if !inComment {
			classify(&l)
		}
		inComment = scanCode(l.Text, inComment, nil)
		lines = append(lines, l)
	}
	return lines
}

func classify(l *Line) {
	m := entryLine.FindStringSubmatchIndex(l.Text)
	if m == nil {
		return
	}
	l.Kind = LineEntry
	l.Key = l.Text[m[2]:m[3]]
	if m[4] >= 0 {
		l.Value = unescape(l.Text[m[4]:m[5]])
		l.valueEnd = m[5] + 1
	} else {
		l.Value = unescape(l.Text[m[6]:m[7]])
		l.valueEnd = m[7] + 1
	}
}

// scanCode walks text outside string literals and comments, calling fn
// (when non-nil) with each code byte. inComment tells whether text starts
// inside a /* */ comment; the result tells whether it ends inside one.
func scanCode(text string, inComment bool, fn func(col int, c byte)) bool {
	var quote byte
	for j := 0; j < len(text); j++ {
		c := text[j]
		switch {
		case inComment:
			if strings.HasPrefix(text[j:], "*/") {
				inComment = false
				j++
			}
		case quote != 0:
			if c == '\\' {
				j++
			} else if c == quote {
				quote = 0
			}
		case strings.HasPrefix(text[j:], "//"):
			return false
		case strings.HasPrefix(text[j:], "/*"):
			inComment = true
			j++
		case c == '\'' || c == '"' || c == '`':
			quote = c
		case fn != nil:
			fn(j, c)
		}
	}
	return inComment
}

// ExtractEntries returns the entry lines of lines as an ordered map.
func ExtractEntries(lines []Line) *ordmap.Map {
	m := ordmap.New(len(lines))
	for _, l := range lines {
		if l.Kind == LineEntry {
			m.Set(l.Key, l.Value)
		}
	}
	return m
}

// Parse returns the entries of a definition module.
func Parse(content []byte) (*ordmap.Map, error) {
	body, err := Locate(content)
	if err != nil {
		return nil, err
	}
	return ExtractEntries(Tokenize(string(content[body.Start:body.End]))), nil
}

// ParseFile reads the definition module at path.
func ParseFile(path string) (*ordmap.Map, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.Wrap(errs.IO, "read", path, err)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, errs.WithPath(err, "read", path)
	}
	return m, nil
}

// ---------------------------------------------------------------------------
// Quoting
// ---------------------------------------------------------------------------

func unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// singleQuote returns s as a single-quoted string literal.
func singleQuote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `'`, `\'`)
	return "'" + s + "'"
}

// detectNewline returns the first line terminator of content, or the
// platform's newline when content has none.
func detectNewline(content []byte) string {
	i := strings.IndexByte(string(content), '\n')
	switch {
	case i > 0 && content[i-1] == '\r':
		return "\r\n"
	case i >= 0:
		return "\n"
	}
	return platformNewline
}
