package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/translation-hero/hero/discovery"
)

func TestDirs(t *testing.T) {
	dir := t.TempDir()
	res := filepath.Join(dir, "Strings.resx")
	require.NoError(t, os.WriteFile(res, []byte("<root/>"), 0644))

	dirs, err := Dirs(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{dir, filepath.Join(dir, "locales")}, dirs)

	dirs, err = Dirs(res)
	require.NoError(t, err)
	assert.Equal(t, []string{dir}, dirs)

	_, err = Dirs(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}

func TestRunReportsChangedLocation(t *testing.T) {
	root := t.TempDir()
	web := filepath.Join(root, "web")
	locales := filepath.Join(web, "locales")
	require.NoError(t, os.MkdirAll(locales, 0755))
	ignored := filepath.Join(root, "bin")
	require.NoError(t, os.MkdirAll(ignored, 0755))
	res := filepath.Join(ignored, "Strings.resx")
	require.NoError(t, os.WriteFile(res, []byte("<root/>"), 0644))

	ignore, err := discovery.CompileMatcher([]string{"**/bin/**"})
	require.NoError(t, err)

	changed := make(chan string, 10)
	w := &Watcher{
		Debounce: 20 * time.Millisecond,
		Ignore:   ignore,
		OnChange: func(loc string) { changed <- loc },
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx, []string{web, res}) }()

	// give the watcher time to register
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(ignored, "Strings.resx"), []byte("<root></root>"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(locales, "notes.txt"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(locales, "en-GB.json"), []byte("{}"), 0644))

	select {
	case loc := <-changed:
		assert.Equal(t, web, loc)
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}

	select {
	case loc := <-changed:
		t.Fatalf("unexpected change for %s", loc)
	case <-time.After(200 * time.Millisecond):
	}

	cancel()
	require.NoError(t, <-done)
}

func TestRunPicksUpLocalesCreatedLater(t *testing.T) {
	web := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(web, "messages.ts"), []byte("x"), 0644))

	changed := make(chan string, 10)
	w := &Watcher{
		Debounce: 20 * time.Millisecond,
		OnChange: func(loc string) { changed <- loc },
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx, []string{web}) }()

	next := func() string {
		t.Helper()
		select {
		case loc := <-changed:
			return loc
		case <-time.After(5 * time.Second):
			t.Fatal("no change reported")
		}
		return ""
	}

	time.Sleep(100 * time.Millisecond)
	locales := filepath.Join(web, "locales")
	require.NoError(t, os.Mkdir(locales, 0755))
	assert.Equal(t, web, next())

	require.NoError(t, os.WriteFile(filepath.Join(locales, "de-DE.json"), []byte("{}"), 0644))
	assert.Equal(t, web, next())

	cancel()
	require.NoError(t, <-done)
}
