package jsonlocale

import (
	"bytes"
	"encoding/json"
	"os"
	"regexp"
	"strings"

	"github.com/translation-hero/hero/discovery"
	"github.com/translation-hero/hero/errs"
	"github.com/translation-hero/hero/fileutil"
)

// entryLine matches a `"key": "value"` line and captures the raw key and
// value between their quotes.
var entryLine = regexp.MustCompile(`^\s*"((?:[^"\\]|\\.)*)"\s*:\s*"((?:[^"\\]|\\.)*)"`)

// unquote decodes the raw contents of a JSON string literal.
func unquote(raw string) (string, bool) {
	var s string
	if err := json.Unmarshal([]byte(`"`+raw+`"`), &s); err != nil {
		return "", false
	}
	return s, true
}

// ---------------------------------------------------------------------------
// Remove
// ---------------------------------------------------------------------------

// RemoveKeys deletes keys and re-serializes the remaining entries sorted
// by key, keeping the detected indentation and newline style.
func RemoveKeys(data []byte, keys []string) ([]byte, error) {
	f, err := Parse(data)
	if err != nil {
		return nil, err
	}
	for _, k := range keys {
		f.Entries.Delete(k)
	}
	return f.Marshal(), nil
}

// RemoveKeysDir removes keys from every *.json file directly inside dir.
// All files are parsed before any is written, so a malformed file leaves
// the whole directory untouched. A directory without locale files is not
// an error. A nil w writes to disk.
func RemoveKeysDir(dir string, keys []string, w fileutil.Writer) error {
	if w == nil {
		w = fileutil.Disk{}
	}
	paths, err := discovery.LocaleFiles(dir)
	if err != nil {
		return errs.Wrap(errs.IO, "remove", dir, err)
	}

	in := make([][]byte, len(paths))
	out := make([][]byte, len(paths))
	for i, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return errs.Wrap(errs.IO, "remove", p, err)
		}
		in[i] = data
		out[i], err = RemoveKeys(data, keys)
		if err != nil {
			return errs.WithPath(err, "remove", p)
		}
	}
	for i, p := range paths {
		if bytes.Equal(in[i], out[i]) {
			continue
		}
		if err := w.WriteFile(p, out[i]); err != nil {
			return errs.Wrap(errs.IO, "remove", p, err)
		}
		debugf("removed keys", "path", p, "keys", len(keys))
	}
	return nil
}

// ---------------------------------------------------------------------------
// Update
// ---------------------------------------------------------------------------

// UpdateKey replaces the value on every `"key": "…"` line whose key is
// key. Only the value between the quotes changes. If no line matches the
// result is a NotFound error.
func UpdateKey(data []byte, key, value string) ([]byte, error) {
	q := quote(value)
	escaped := q[1 : len(q)-1]
	lines := strings.Split(string(data), "\n")
	found := false

	for i, line := range lines {
		m := entryLine.FindStringSubmatchIndex(line)
		if m == nil {
			continue
		}
		k, ok := unquote(line[m[2]:m[3]])
		if !ok || k != key {
			continue
		}
		lines[i] = line[:m[4]] + escaped + line[m[5]:]
		found = true
	}

	if !found {
		return nil, errs.E(errs.NotFound, "update", "key %q not found", key)
	}
	return []byte(strings.Join(lines, "\n")), nil
}

// ---------------------------------------------------------------------------
// Insert
// ---------------------------------------------------------------------------

// AppendEntry adds a `"key": "value"` line as the last entry of the
// object. The previous last entry gains a trailing comma when it lacks
// one. A key that already exists is a Conflict error.
func AppendEntry(data []byte, key, value string) ([]byte, error) {
	f, err := Parse(data)
	if err != nil {
		return nil, err
	}
	if f.Entries.Has(key) {
		return nil, errs.E(errs.Conflict, "insert", "key %q already exists", key)
	}

	closing := bytes.LastIndexByte(data, '}')
	if closing < 0 {
		return nil, errs.E(errs.Structural, "insert", "no closing brace")
	}
	prev := len(bytes.TrimRight(data[:closing], " \t\r\n")) - 1
	if prev < 0 {
		return nil, errs.E(errs.Structural, "insert", "no opening brace")
	}

	var ins strings.Builder
	if data[prev] != '{' && data[prev] != ',' {
		ins.WriteString(",")
	}
	ins.WriteString(f.Newline + f.Indent + quote(key) + ": " + quote(value))
	if !bytes.Contains(data[prev+1:closing], []byte("\n")) {
		ins.WriteString(f.Newline)
	}

	var out bytes.Buffer
	out.Write(data[:prev+1])
	out.WriteString(ins.String())
	out.Write(data[prev+1:])
	return out.Bytes(), nil
}

// ---------------------------------------------------------------------------
// File wrappers
// ---------------------------------------------------------------------------

// RemoveKeysFile removes keys from the locale file at path.
func RemoveKeysFile(path string, keys []string) error {
	return rewriteFile(path, "remove", func(data []byte) ([]byte, error) {
		return RemoveKeys(data, keys)
	})
}

// UpdateKeyFile updates key in the locale file at path.
func UpdateKeyFile(path, key, value string) error {
	return rewriteFile(path, "update", func(data []byte) ([]byte, error) {
		return UpdateKey(data, key, value)
	})
}

// AppendEntryFile adds key to the locale file at path.
func AppendEntryFile(path, key, value string) error {
	return rewriteFile(path, "insert", func(data []byte) ([]byte, error) {
		return AppendEntry(data, key, value)
	})
}

func rewriteFile(path, op string, fn func([]byte) ([]byte, error)) error {
	_, err := fileutil.Rewrite(nil, path, op, fn)
	return err
}
