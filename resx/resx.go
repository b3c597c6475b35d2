// Package resx reads and edits .resx resource files and the project files
// that reference them.
//
// A resource file is an XML document whose root holds <data> elements:
//
//	<root>
//	  <data name="Greeting" xml:space="preserve">
//	    <value>Hello</value>
//	  </data>
//	</root>
//
// Edits never re-serialize the document. They walk the token stream,
// note the byte ranges of the elements they touch and splice the input,
// so every byte outside those ranges survives unchanged.
package resx

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"os"
	"strings"

	"golang.org/x/net/html/charset"

	"github.com/translation-hero/hero/errs"
	"github.com/translation-hero/hero/logging"
	"github.com/translation-hero/hero/ordmap"
)

// Ext is the extension of resource files.
const Ext = ".resx"

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ---------------------------------------------------------------------------
// Reading
// ---------------------------------------------------------------------------

// ReadEntriesFile reads the resource file at path.
func ReadEntriesFile(path string) (*ordmap.Map, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.Wrap(errs.IO, "read", path, err)
	}
	m, err := ReadEntries(data)
	if err != nil {
		return nil, errs.WithPath(err, "read", path)
	}
	logging.For("resx").Debug("read entries", "path", path, "count", m.Len())
	return m, nil
}

// ReadEntries returns the name → value pairs of every <data> element in
// document order. A name that appears twice keeps its first position and
// its last value. A <data> element with an empty or missing <value> maps
// to "". Malformed markup yields a Parse error and no map.
func ReadEntries(data []byte) (*ordmap.Map, error) {
	dec := newDecoder(data)
	dec.CharsetReader = charset.NewReaderLabel

	entries := ordmap.New(0)
	var cur *dataElem
	depth := 0

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, errs.Wrap(errs.Parse, "read", "", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			if cur == nil {
				if name, ok := dataName(t); ok {
					cur = &dataElem{name: name, depth: depth}
				}
			} else if !cur.inValue && depth == cur.depth+1 && t.Name.Local == "value" {
				cur.inValue = true
			}

		case xml.CharData:
			if cur != nil && cur.inValue {
				cur.value.Write(t)
			}

		case xml.EndElement:
			if cur != nil {
				switch depth {
				case cur.depth + 1:
					if t.Name.Local == "value" {
						cur.inValue = false
					}
				case cur.depth:
					entries.Set(cur.name, cur.value.String())
					cur = nil
				}
			}
			depth--
		}
	}

	return entries, nil
}

type dataElem struct {
	name    string
	depth   int
	inValue bool
	value   strings.Builder
}

// dataName returns the name attribute of a <data> start element.
func dataName(t xml.StartElement) (string, bool) {
	if t.Name.Local != "data" {
		return "", false
	}
	return attr(t, "name")
}

func attr(t xml.StartElement, local string) (string, bool) {
	for _, a := range t.Attr {
		if a.Name.Local == local {
			return a.Value, true
		}
	}
	return "", false
}

// ---------------------------------------------------------------------------
// Token scanning with byte offsets
// ---------------------------------------------------------------------------

func newDecoder(data []byte) *xml.Decoder {
	return xml.NewDecoder(bytes.NewReader(bytes.TrimPrefix(data, utf8BOM)))
}

// scanner yields tokens together with the byte range they occupy in the
// original input. Synthesized end tags of self-closing elements have an
// empty range at the end of their start tag.
type scanner struct {
	dec  *xml.Decoder
	base int
}

func newScanner(data []byte) *scanner {
	base := 0
	if bytes.HasPrefix(data, utf8BOM) {
		base = len(utf8BOM)
	}
	return &scanner{dec: newDecoder(data), base: base}
}

// next returns the next token and its [start, end) range. It returns
// io.EOF at the end of a well-formed document.
func (s *scanner) next() (xml.Token, int, int, error) {
	start := int(s.dec.InputOffset())
	tok, err := s.dec.Token()
	if err != nil {
		return nil, 0, 0, err
	}
	return tok, s.base + start, s.base + int(s.dec.InputOffset()), nil
}

func isSelfClosing(tag []byte) bool {
	return bytes.HasSuffix(tag, []byte("/>"))
}

// ---------------------------------------------------------------------------
// Escaping
// ---------------------------------------------------------------------------

// escapeText escapes character data for element content.
func escapeText(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}

// escapeAttr escapes a double-quoted attribute value.
func escapeAttr(s string) string {
	return strings.ReplaceAll(escapeText(s), `"`, "&quot;")
}
