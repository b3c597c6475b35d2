package resx

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/translation-hero/hero/errs"
	"github.com/translation-hero/hero/fileutil"
)

// edit replaces data[start:end] with text.
type edit struct {
	start, end int
	text       string
}

func splice(data []byte, edits []edit) []byte {
	sort.SliceStable(edits, func(i, j int) bool { return edits[i].start < edits[j].start })
	var out bytes.Buffer
	out.Grow(len(data))
	pos := 0
	for _, e := range edits {
		out.Write(data[pos:e.start])
		out.WriteString(e.text)
		pos = e.end
	}
	out.Write(data[pos:])
	return out.Bytes()
}

func newline(data []byte) string {
	if bytes.Contains(data, []byte("\r\n")) {
		return "\r\n"
	}
	return "\n"
}

// ---------------------------------------------------------------------------
// Remove
// ---------------------------------------------------------------------------

// RemoveEntries drops every <data> element whose name is in keys,
// together with its content and the whitespace run directly before it.
// All other bytes are copied unchanged. Keys that match nothing are
// ignored.
func RemoveEntries(data []byte, keys []string) ([]byte, error) {
	drop := make(map[string]bool, len(keys))
	for _, k := range keys {
		drop[k] = true
	}

	sc := newScanner(data)
	var edits []edit
	depth, skipDepth, skipFrom := 0, 0, 0

	for {
		tok, start, end, err := sc.next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, errs.Wrap(errs.Parse, "remove", "", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			if skipDepth == 0 {
				if name, ok := dataName(t); ok && drop[name] {
					skipDepth = depth
					skipFrom = precedingSpace(data, start)
				}
			}
		case xml.EndElement:
			if skipDepth != 0 && depth == skipDepth {
				edits = append(edits, edit{start: skipFrom, end: end})
				skipDepth = 0
			}
			depth--
		}
	}

	if len(edits) == 0 {
		return data, nil
	}
	return splice(data, edits), nil
}

// precedingSpace returns the start of the whitespace run ending at pos.
// The run never crosses markup, so it cannot overlap an earlier edit.
func precedingSpace(data []byte, pos int) int {
	for pos > 0 {
		switch data[pos-1] {
		case ' ', '\t', '\r', '\n':
			pos--
		default:
			return pos
		}
	}
	return pos
}

// ---------------------------------------------------------------------------
// Update
// ---------------------------------------------------------------------------

// UpdateValue sets the text of the <value> child of every <data> element
// named key. A self-closing <value/> is expanded and a <data> without a
// <value> child gets one. If no element is named key the result is a
// NotFound error.
func UpdateValue(data []byte, key, value string) ([]byte, error) {
	type target struct {
		depth          int
		tagStart       int
		tagEnd         int
		hasValue       bool
		valueTextStart int
	}

	escaped := escapeText(value)
	sc := newScanner(data)
	var (
		edits   []edit
		cur     *target
		depth   int
		matched int
	)

	for {
		tok, start, end, err := sc.next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, errs.Wrap(errs.Parse, "update", "", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			if cur == nil {
				if name, ok := dataName(t); ok && name == key {
					cur = &target{depth: depth, tagStart: start, tagEnd: end, valueTextStart: -1}
				}
				continue
			}
			if cur.hasValue || depth != cur.depth+1 || t.Name.Local != "value" {
				continue
			}
			cur.hasValue = true
			if isSelfClosing(data[start:end]) {
				edits = append(edits, edit{start: start, end: end, text: "<value>" + escaped + "</value>"})
			} else {
				cur.valueTextStart = end
			}

		case xml.EndElement:
			if cur != nil {
				switch depth {
				case cur.depth + 1:
					if t.Name.Local == "value" && cur.valueTextStart >= 0 {
						edits = append(edits, edit{start: cur.valueTextStart, end: start, text: escaped})
						cur.valueTextStart = -1
					}
				case cur.depth:
					if !cur.hasValue {
						edits = append(edits, insertValue(data, cur.tagStart, cur.tagEnd, start, t.Name.Local, escaped))
					}
					matched++
					cur = nil
				}
			}
			depth--
		}
	}

	if matched == 0 {
		return nil, errs.E(errs.NotFound, "update", "key %q not found", key)
	}
	return splice(data, edits), nil
}

// insertValue builds the edit that gives a <data> element without a
// <value> child one. closeStart is the offset of its end tag.
func insertValue(data []byte, tagStart, tagEnd, closeStart int, name, escaped string) edit {
	v := "<value>" + escaped + "</value>"
	tag := data[tagStart:tagEnd]
	if !isSelfClosing(tag) {
		return edit{start: closeStart, end: closeStart, text: v}
	}
	open := bytes.TrimRight(tag[:len(tag)-2], " \t\r\n")
	return edit{start: tagStart, end: tagEnd, text: string(open) + ">" + v + "</" + name + ">"}
}

// ---------------------------------------------------------------------------
// Insert
// ---------------------------------------------------------------------------

// WriteEntry inserts a new <data> element immediately before the closing
// tag of the document's root element. A key that already exists is a
// Conflict error; a document without a closing root tag is a Structural
// error.
func WriteEntry(data []byte, key, value string) ([]byte, error) {
	existing, err := ReadEntries(data)
	if err != nil {
		return nil, errs.WithPath(err, "insert", "")
	}
	if existing.Has(key) {
		return nil, errs.E(errs.Conflict, "insert", "key %q already exists", key)
	}

	sc := newScanner(data)
	depth, rootClose := 0, -1
	for {
		tok, start, end, err := sc.next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, errs.Wrap(errs.Parse, "insert", "", err)
		}
		switch tok.(type) {
		case xml.StartElement:
			depth++
		case xml.EndElement:
			if depth == 1 && start != end {
				rootClose = start
			}
			depth--
		}
	}
	if rootClose < 0 {
		return nil, errs.E(errs.Structural, "insert", "no closing root element")
	}

	nl := newline(data)
	entry := fmt.Sprintf(`  <data name="%s" xml:space="preserve">%s    <value>%s</value>%s  </data>%s`,
		escapeAttr(key), nl, escapeText(value), nl, nl)
	return splice(data, []edit{{start: rootClose, end: rootClose, text: entry}}), nil
}

// ---------------------------------------------------------------------------
// File wrappers
// ---------------------------------------------------------------------------

// RemoveEntriesFile removes keys from the file at path. The file is only
// rewritten when something was removed.
func RemoveEntriesFile(path string, keys []string) error {
	return rewriteFile(path, "remove", func(data []byte) ([]byte, error) {
		return RemoveEntries(data, keys)
	})
}

// UpdateValueFile updates key in the file at path.
func UpdateValueFile(path, key, value string) error {
	return rewriteFile(path, "update", func(data []byte) ([]byte, error) {
		return UpdateValue(data, key, value)
	})
}

// WriteEntryFile inserts key into the file at path.
func WriteEntryFile(path, key, value string) error {
	return rewriteFile(path, "insert", func(data []byte) ([]byte, error) {
		return WriteEntry(data, key, value)
	})
}

func rewriteFile(path, op string, fn func([]byte) ([]byte, error)) error {
	_, err := fileutil.Rewrite(nil, path, op, fn)
	return err
}
