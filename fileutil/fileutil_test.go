package fileutil

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/translation-hero/hero/errs"
)

func TestWriteFileAtomicReplacesContents(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "en-GB.json")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0600))

	require.NoError(t, WriteFileAtomic(path, []byte("new")))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "new", string(got))

	if runtime.GOOS != "windows" {
		fi, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0600), fi.Mode().Perm())
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file left behind")
}

func TestWriteFileAtomicCreatesMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "messages.ts")
	require.NoError(t, WriteFileAtomic(path, []byte("x")))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "x", string(got))
}

func TestWriteFileAtomicMissingDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope", "a.json")
	assert.Error(t, WriteFileAtomic(path, []byte("x")))
}

func TestDryRunDoesNotTouchDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.json")
	require.NoError(t, os.WriteFile(path, []byte("{\n  \"a\": \"1\"\n}"), 0644))

	dr := NewDryRun()
	require.NoError(t, dr.WriteFile(path, []byte("{\n  \"a\": \"2\"\n}")))
	require.NoError(t, dr.WriteFile(path, []byte("{\n  \"a\": \"3\"\n}")))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"a\": \"1\"\n}", string(got))

	changes := dr.Changes()
	require.Len(t, changes, 1)
	assert.Equal(t, "{\n  \"a\": \"1\"\n}", string(changes[0].Before))
	assert.Equal(t, "{\n  \"a\": \"3\"\n}", string(changes[0].After))

	var buf bytes.Buffer
	require.NoError(t, dr.WriteDiff(&buf))
	out := buf.String()
	assert.Contains(t, out, "-  \"a\": \"1\"\n")
	assert.Contains(t, out, "+  \"a\": \"3\"\n")
}

func TestDryRunSkipsNoOpWrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.json")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0644))

	dr := NewDryRun()
	require.NoError(t, dr.WriteFile(path, []byte("{}")))
	assert.Empty(t, dr.Changes())
}

func TestDiffElidesLongUnchangedRuns(t *testing.T) {
	var before []string
	for i := 0; i < 20; i++ {
		before = append(before, "line")
	}
	after := append([]string(nil), before...)
	after[10] = "changed"

	out := Diff("f", strings.Join(before, "\n")+"\n", strings.Join(after, "\n")+"\n")

	assert.True(t, strings.HasPrefix(out, "--- f\n+++ f\n"))
	assert.Contains(t, out, "-line\n+changed\n")
	assert.Contains(t, out, "@@\n")
	assert.Less(t, strings.Count(out, " line\n"), 10)
}

func TestRewrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Strings.resx")
	require.NoError(t, os.WriteFile(path, []byte("a"), 0644))

	upper := func(b []byte) ([]byte, error) { return bytes.ToUpper(b), nil }

	wrote, err := Rewrite(nil, path, "upper", upper)
	require.NoError(t, err)
	assert.True(t, wrote)
	got, _ := os.ReadFile(path)
	assert.Equal(t, "A", string(got))

	wrote, err = Rewrite(nil, path, "upper", upper)
	require.NoError(t, err)
	assert.False(t, wrote, "unchanged contents are not rewritten")

	_, err = Rewrite(nil, path, "fail", func([]byte) ([]byte, error) {
		return nil, errs.E(errs.Parse, "", "bad input")
	})
	require.Error(t, err)
	assert.Equal(t, errs.Parse, errs.KindOf(err))
	assert.Contains(t, err.Error(), path)

	_, err = Rewrite(nil, filepath.Join(t.TempDir(), "missing"), "upper", upper)
	assert.Equal(t, errs.IO, errs.KindOf(err))
}
