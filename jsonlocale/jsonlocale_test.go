package jsonlocale

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/translation-hero/hero/errs"
	"github.com/translation-hero/hero/fileutil"
)

func TestParse(t *testing.T) {
	f, err := Parse([]byte("{\r\n    \"b\": \"2\",\r\n    \"a\": \"1\"\r\n}\r\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got, want := f.Entries.Keys(), []string{"b", "a"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("Keys() = %v, want %v", got, want)
	}
	if f.Indent != "    " {
		t.Fatalf("Indent = %q, want 4 spaces", f.Indent)
	}
	if f.Newline != "\r\n" || !f.TrailingNewline {
		t.Fatalf("Newline = %q, TrailingNewline = %v", f.Newline, f.TrailingNewline)
	}
}

func TestParseRejectsNonStrings(t *testing.T) {
	for _, in := range []string{`{"a": 1}`, `{"a": {"b": "c"}}`, `["a"]`, `{"a": "b"`, `{"a": "b"} {}`} {
		if _, err := Parse([]byte(in)); !errs.Is(err, errs.Parse) {
			t.Fatalf("Parse(%q) err = %v, want Parse error", in, err)
		}
	}
}

func TestDetectIndent(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"{\n\t\"a\": \"b\"\n}", "\t"},
		{"{\n \t\"a\": \"b\"\n}", "\t"},
		{"{\n    \"a\": \"b\"\n}", "    "},
		{`{"a": "b"}`, DefaultIndent},
		{"{}", DefaultIndent},
	}
	for _, tc := range cases {
		if got := DetectIndent([]byte(tc.in)); got != tc.want {
			t.Fatalf("DetectIndent(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestRemoveKeys(t *testing.T) {
	t.Run("keeps tabs", func(t *testing.T) {
		got, err := RemoveKeys([]byte("{\n\t\"hello\": \"Hi\",\n\t\"goodbye\": \"Bye\"\n}"), []string{"goodbye"})
		if err != nil {
			t.Fatalf("RemoveKeys: %v", err)
		}
		if want := "{\n\t\"hello\": \"Hi\"\n}"; string(got) != want {
			t.Fatalf("RemoveKeys = %q, want %q", got, want)
		}
	})

	t.Run("empty object", func(t *testing.T) {
		got, err := RemoveKeys([]byte("{}"), []string{"anything"})
		if err != nil {
			t.Fatalf("RemoveKeys: %v", err)
		}
		if want := "{\n}"; string(got) != want {
			t.Fatalf("RemoveKeys = %q, want %q", got, want)
		}
	})

	t.Run("sorts and escapes", func(t *testing.T) {
		in := "{\n  \"z\": \"<b>\",\n  \"x\": \"drop\",\n  \"a\": \"say \\\"hi\\\"\"\n}\n"
		got, err := RemoveKeys([]byte(in), []string{"x"})
		if err != nil {
			t.Fatalf("RemoveKeys: %v", err)
		}
		want := "{\n  \"a\": \"say \\\"hi\\\"\",\n  \"z\": \"<b>\"\n}\n"
		if string(got) != want {
			t.Fatalf("RemoveKeys = %q, want %q", got, want)
		}
	})

	t.Run("empty key list is a stable round trip", func(t *testing.T) {
		in := "{\n  \"a\": \"1\",\n  \"b\": \"2\"\n}"
		got, err := RemoveKeys([]byte(in), nil)
		if err != nil {
			t.Fatalf("RemoveKeys: %v", err)
		}
		if string(got) != in {
			t.Fatalf("RemoveKeys = %q, want %q", got, in)
		}
	})
}

func TestUpdateKey(t *testing.T) {
	in := "{\r\n  \"greeting\": \"Hello\",\r\n  \"farewell\": \"Bye\"\r\n}"

	got, err := UpdateKey([]byte(in), "greeting", `Hi "there"`)
	if err != nil {
		t.Fatalf("UpdateKey: %v", err)
	}
	want := "{\r\n  \"greeting\": \"Hi \\\"there\\\"\",\r\n  \"farewell\": \"Bye\"\r\n}"
	if string(got) != want {
		t.Fatalf("UpdateKey = %q, want %q", got, want)
	}

	if _, err := UpdateKey([]byte(in), "missing", "x"); !errs.Is(err, errs.NotFound) {
		t.Fatalf("err = %v, want NotFound", err)
	}
}

func TestAppendEntry(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"adds comma", "{\n  \"a\": \"1\"\n}\n", "{\n  \"a\": \"1\",\n  \"k\": \"v\"\n}\n"},
		{"tab indent", "{\n\t\"a\": \"1\"\n}", "{\n\t\"a\": \"1\",\n\t\"k\": \"v\"\n}"},
		{"empty braces", "{}", "{\n  \"k\": \"v\"\n}"},
		{"empty lines", "{\r\n}", "{\r\n  \"k\": \"v\"\r\n}"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := AppendEntry([]byte(tc.in), "k", "v")
			if err != nil {
				t.Fatalf("AppendEntry: %v", err)
			}
			if string(got) != tc.want {
				t.Fatalf("AppendEntry = %q, want %q", got, tc.want)
			}
		})
	}

	if _, err := AppendEntry([]byte(`{"k": "x"}`), "k", "v"); !errs.Is(err, errs.Conflict) {
		t.Fatalf("err = %v, want Conflict", err)
	}
}

func writeLocale(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestRemoveKeysDir(t *testing.T) {
	t.Run("rewrites every locale", func(t *testing.T) {
		dir := t.TempDir()
		en := writeLocale(t, dir, "en-GB.json", "{\n  \"a\": \"A\",\n  \"b\": \"B\"\n}")
		de := writeLocale(t, dir, "de-DE.json", "{\n  \"a\": \"Ä\",\n  \"b\": \"\"\n}")
		writeLocale(t, dir, "locales.ts", "export const locales = ['en-GB']")

		if err := RemoveKeysDir(dir, []string{"a"}, nil); err != nil {
			t.Fatalf("RemoveKeysDir: %v", err)
		}
		for p, want := range map[string]string{en: "{\n  \"b\": \"B\"\n}", de: "{\n  \"b\": \"\"\n}"} {
			got, _ := os.ReadFile(p)
			if string(got) != want {
				t.Fatalf("%s = %q, want %q", filepath.Base(p), got, want)
			}
		}
	})

	t.Run("no locale files", func(t *testing.T) {
		if err := RemoveKeysDir(t.TempDir(), []string{"a"}, nil); err != nil {
			t.Fatalf("RemoveKeysDir on empty dir: %v", err)
		}
	})

	t.Run("malformed file aborts before writing", func(t *testing.T) {
		dir := t.TempDir()
		good := writeLocale(t, dir, "a.json", "{\n  \"a\": \"A\"\n}")
		writeLocale(t, dir, "b.json", "{ not json")

		err := RemoveKeysDir(dir, []string{"a"}, nil)
		if !errs.Is(err, errs.Parse) {
			t.Fatalf("err = %v, want Parse error", err)
		}
		got, _ := os.ReadFile(good)
		if string(got) != "{\n  \"a\": \"A\"\n}" {
			t.Fatalf("a.json modified: %q", got)
		}
	})

	t.Run("dry run", func(t *testing.T) {
		dir := t.TempDir()
		p := writeLocale(t, dir, "en-GB.json", "{\n  \"a\": \"A\"\n}")
		dr := fileutil.NewDryRun()
		if err := RemoveKeysDir(dir, []string{"a"}, dr); err != nil {
			t.Fatalf("RemoveKeysDir: %v", err)
		}
		if len(dr.Changes()) != 1 {
			t.Fatalf("Changes() = %d, want 1", len(dr.Changes()))
		}
		got, _ := os.ReadFile(p)
		if string(got) != "{\n  \"a\": \"A\"\n}" {
			t.Fatalf("dry run wrote the file: %q", got)
		}
	})
}

func TestFileWrappers(t *testing.T) {
	dir := t.TempDir()
	p := writeLocale(t, dir, "en-GB.json", "{\n  \"a\": \"A\"\n}\n")

	if err := AppendEntryFile(p, "b", "B"); err != nil {
		t.Fatalf("AppendEntryFile: %v", err)
	}
	if err := UpdateKeyFile(p, "a", "Alpha"); err != nil {
		t.Fatalf("UpdateKeyFile: %v", err)
	}
	vals, err := Values(p)
	if err != nil {
		t.Fatalf("Values: %v", err)
	}
	if want := map[string]string{"a": "Alpha", "b": "B"}; !reflect.DeepEqual(vals, want) {
		t.Fatalf("Values = %v, want %v", vals, want)
	}
	if err := RemoveKeysFile(p, []string{"a"}); err != nil {
		t.Fatalf("RemoveKeysFile: %v", err)
	}
	got, _ := os.ReadFile(p)
	if want := "{\n  \"b\": \"B\"\n}\n"; string(got) != want {
		t.Fatalf("file = %q, want %q", got, want)
	}
}
