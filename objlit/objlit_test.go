package objlit

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/translation-hero/hero/errs"
)

const messages = `import { defineLocales } from './locales/locales'
import locales from './locales/locales'

export default defineLocales({
    greeting: 'greeting',
    farewellMessage: "farewell",
    // grouped
    title: 'title',

}, locales)
`

func TestLocate(t *testing.T) {
	body, err := Locate([]byte(messages))
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	got := messages[body.Start:body.End]
	if !strings.HasPrefix(got, "{\n") || !strings.HasSuffix(got, "}, ") {
		t.Fatalf("body = %q", got)
	}
}

func TestLocateMissingAnchor(t *testing.T) {
	for _, in := range []string{
		"export const x = {a: 'b'}",
		"export default defineLocales({ a: 'b' })",
	} {
		if _, err := Locate([]byte(in)); !errs.Is(err, errs.Structural) {
			t.Fatalf("Locate(%q) err = %v, want Structural", in, err)
		}
	}
}

func TestTokenizeIsLossless(t *testing.T) {
	body := "{\r\n  a: 'x',\r\n  b: \"y\"\r\n  nested: { c: 'z' },\n}, "
	lines := Tokenize(body)
	if got := join(lines); got != body {
		t.Fatalf("join(Tokenize()) = %q, want %q", got, body)
	}
	kinds := make([]LineKind, len(lines))
	for i, l := range lines {
		kinds[i] = l.Kind
	}
	want := []LineKind{LineOther, LineEntry, LineEntry, LineOther, LineOther}
	if !reflect.DeepEqual(kinds, want) {
		t.Fatalf("kinds = %v, want %v", kinds, want)
	}
	if lines[1].Newline != "\r\n" || lines[3].Newline != "\n" || lines[4].Newline != "" {
		t.Fatalf("unexpected terminators: %#v", lines)
	}
}

func TestParse(t *testing.T) {
	m, err := Parse([]byte(messages))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got, want := m.Keys(), []string{"greeting", "farewellMessage", "title"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("Keys() = %v, want %v", got, want)
	}
	if v, _ := m.Get("farewellMessage"); v != "farewell" {
		t.Fatalf("farewellMessage = %q", v)
	}

	m, err = Parse([]byte(`export default defineLocales({
  it: 'it\'s',
}, locales)`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if v, _ := m.Get("it"); v != "it's" {
		t.Fatalf("it = %q, want %q", v, "it's")
	}
}

func TestRemoveKeys(t *testing.T) {
	got, err := RemoveKeys([]byte(messages), []string{"farewellMessage", "title"})
	if err != nil {
		t.Fatalf("RemoveKeys: %v", err)
	}
	want := strings.Replace(messages, "    farewellMessage: \"farewell\",\n", "", 1)
	want = strings.Replace(want, "    title: 'title',\n", "", 1)
	if string(got) != want {
		t.Fatalf("RemoveKeys =\n%s\nwant\n%s", got, want)
	}
}

func TestRemoveKeysEmptyListIsIdentity(t *testing.T) {
	for _, keys := range [][]string{nil, {""}, {"unknown"}} {
		got, err := RemoveKeys([]byte(messages), keys)
		if err != nil {
			t.Fatalf("RemoveKeys(%v): %v", keys, err)
		}
		if string(got) != messages {
			t.Fatalf("RemoveKeys(%v) changed the file:\n%s", keys, got)
		}
	}
}

func TestRemoveKeysMissingAnchorLeavesFileUntouched(t *testing.T) {
	path := filepath.Join(t.TempDir(), "messages.ts")
	original := "export const messages = {\n  greeting: 'greeting',\n}\n"
	if err := os.WriteFile(path, []byte(original), 0644); err != nil {
		t.Fatal(err)
	}

	err := RemoveKeysFile(path, []string{"greeting"})
	if !errs.Is(err, errs.Structural) {
		t.Fatalf("err = %v, want Structural", err)
	}
	got, _ := os.ReadFile(path)
	if string(got) != original {
		t.Fatalf("file modified: %q", got)
	}
}

func TestInsertEntry(t *testing.T) {
	t.Run("after last entry", func(t *testing.T) {
		got, err := InsertEntry([]byte(messages), "subtitle", "sub'title")
		if err != nil {
			t.Fatalf("InsertEntry: %v", err)
		}
		want := strings.Replace(messages, "    title: 'title',\n", "    title: 'title',\n    subtitle: 'sub\\'title',\n", 1)
		if string(got) != want {
			t.Fatalf("InsertEntry =\n%s\nwant\n%s", got, want)
		}
		m, err := Parse(got)
		if err != nil {
			t.Fatalf("Parse after insert: %v", err)
		}
		if v, _ := m.Get("subtitle"); v != "sub'title" {
			t.Fatalf("subtitle = %q", v)
		}
	})

	t.Run("adds missing comma and keeps CRLF", func(t *testing.T) {
		in := "export default defineLocales({\r\n\ta: 'a'\r\n}, locales)\r\n"
		got, err := InsertEntry([]byte(in), "b", "b")
		if err != nil {
			t.Fatalf("InsertEntry: %v", err)
		}
		want := "export default defineLocales({\r\n\ta: 'a',\r\n\tb: 'b',\r\n}, locales)\r\n"
		if string(got) != want {
			t.Fatalf("InsertEntry = %q, want %q", got, want)
		}
	})

	t.Run("empty object", func(t *testing.T) {
		in := "export default defineLocales({\n}, locales)\n"
		got, err := InsertEntry([]byte(in), "a", "a")
		if err != nil {
			t.Fatalf("InsertEntry: %v", err)
		}
		want := "export default defineLocales({\n    a: 'a',\n}, locales)\n"
		if string(got) != want {
			t.Fatalf("InsertEntry = %q, want %q", got, want)
		}
	})

	t.Run("single line empty object", func(t *testing.T) {
		in := "export default defineLocales({}, locales)\n"
		got, err := InsertEntry([]byte(in), "a", "a")
		if err != nil {
			t.Fatalf("InsertEntry: %v", err)
		}
		want := "export default defineLocales({\n    a: 'a',\n}, locales)\n"
		if string(got) != want {
			t.Fatalf("InsertEntry = %q, want %q", got, want)
		}
	})

	t.Run("nested entries are skipped", func(t *testing.T) {
		in := "export default defineLocales({\n  a: 'a',\n  group: {\n    inner: 'x',\n  },\n}, locales)\n"
		got, err := InsertEntry([]byte(in), "b", "b")
		if err != nil {
			t.Fatalf("InsertEntry: %v", err)
		}
		want := "export default defineLocales({\n  a: 'a',\n  b: 'b',\n  group: {\n    inner: 'x',\n  },\n}, locales)\n"
		if string(got) != want {
			t.Fatalf("InsertEntry = %q, want %q", got, want)
		}
	})

	t.Run("existing key", func(t *testing.T) {
		if _, err := InsertEntry([]byte(messages), "greeting", "x"); !errs.Is(err, errs.Conflict) {
			t.Fatalf("err = %v, want Conflict", err)
		}
	})

	t.Run("missing anchor", func(t *testing.T) {
		if _, err := InsertEntry([]byte("const x = 1"), "a", "a"); !errs.Is(err, errs.Structural) {
			t.Fatalf("err = %v, want Structural", err)
		}
	})
}

func TestTrailingComments(t *testing.T) {
	in := "export default defineLocales({\n    greeting: 'greeting', // shown on home\n    farewell: 'farewell',\n}, locales)\n"

	m, err := Parse([]byte(in))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got, want := m.Keys(), []string{"greeting", "farewell"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("Keys() = %v, want %v", got, want)
	}

	got, err := RemoveKeys([]byte(in), []string{"greeting"})
	if err != nil {
		t.Fatalf("RemoveKeys: %v", err)
	}
	if want := "export default defineLocales({\n    farewell: 'farewell',\n}, locales)\n"; string(got) != want {
		t.Fatalf("RemoveKeys(greeting) = %q, want %q", got, want)
	}

	got, err = RemoveKeys([]byte(in), []string{"farewell"})
	if err != nil {
		t.Fatalf("RemoveKeys: %v", err)
	}
	if want := "export default defineLocales({\n    greeting: 'greeting', // shown on home\n}, locales)\n"; string(got) != want {
		t.Fatalf("RemoveKeys(farewell) = %q, want %q", got, want)
	}

	if _, err := InsertEntry([]byte(in), "greeting", "greeting"); !errs.Is(err, errs.Conflict) {
		t.Fatalf("InsertEntry(greeting) err = %v, want Conflict", err)
	}

	single := "export default defineLocales({\n  a: 'a' // first\n}, locales)\n"
	got, err = InsertEntry([]byte(single), "b", "b")
	if err != nil {
		t.Fatalf("InsertEntry: %v", err)
	}
	if want := "export default defineLocales({\n  a: 'a', // first\n  b: 'b',\n}, locales)\n"; string(got) != want {
		t.Fatalf("InsertEntry = %q, want %q", got, want)
	}
}

func TestBlockComments(t *testing.T) {
	in := "export default defineLocales({\n  a: 'a',\n  /* retired {\n  old: 'old',\n  */\n  b: 'b', /* keep } */\n}, locales)\n"

	m, err := Parse([]byte(in))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got, want := m.Keys(), []string{"a", "b"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("Keys() = %v, want %v", got, want)
	}

	got, err := InsertEntry([]byte(in), "c", "c")
	if err != nil {
		t.Fatalf("InsertEntry: %v", err)
	}
	want := strings.Replace(in, "  b: 'b', /* keep } */\n", "  b: 'b', /* keep } */\n  c: 'c',\n", 1)
	if string(got) != want {
		t.Fatalf("InsertEntry =\n%s\nwant\n%s", got, want)
	}

	got, err = RemoveKeys([]byte(in), []string{"old"})
	if err != nil {
		t.Fatalf("RemoveKeys: %v", err)
	}
	if string(got) != in {
		t.Fatalf("RemoveKeys touched a commented-out entry:\n%s", got)
	}
}

func TestReadLanguageCatalog(t *testing.T) {
	catalog := `import { createLocales } from 'i18n' // 'xx-XX' ignored on first line
export const locales = createLocales([
  'en-GB',
  'de-DE', 'fr-FR',
  "es-ES",
])
`
	got := ReadLanguageCatalog([]byte(catalog))
	if want := []string{"en-GB", "de-DE"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("ReadLanguageCatalog = %v, want %v", got, want)
	}
}

func TestFileWrappers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "messages.ts")
	if err := os.WriteFile(path, []byte(messages), 0644); err != nil {
		t.Fatal(err)
	}
	if err := InsertEntryFile(path, "subtitle", "subtitle"); err != nil {
		t.Fatalf("InsertEntryFile: %v", err)
	}
	if err := RemoveKeysFile(path, []string{"greeting"}); err != nil {
		t.Fatalf("RemoveKeysFile: %v", err)
	}
	m, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	if got, want := m.Keys(), []string{"farewellMessage", "title", "subtitle"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("Keys() = %v, want %v", got, want)
	}
}
