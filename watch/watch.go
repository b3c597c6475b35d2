// Package watch rescans locations when the files they are made of
// change on disk.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/translation-hero/hero/discovery"
	"github.com/translation-hero/hero/logging"
)

// DefaultDebounce is how long the watcher waits for a burst of events to
// settle before reporting a location.
const DefaultDebounce = 300 * time.Millisecond

// relevant lists the extensions whose changes matter.
var relevant = map[string]bool{".ts": true, ".json": true, ".resx": true, discovery.ProjectExt: true}

// Watcher reports changed locations.
type Watcher struct {
	// Debounce groups events. Zero means DefaultDebounce.
	Debounce time.Duration
	// Ignore excludes matching paths.
	Ignore *discovery.Matcher
	// OnChange is called with each changed location, never concurrently.
	OnChange func(location string)
}

// Dirs returns the directories to watch for a location: the frontend
// directory and its locales/ directory, or the directory holding a
// resource or project file.
func Dirs(location string) ([]string, error) {
	fi, err := os.Stat(location)
	if err != nil {
		return nil, err
	}
	if fi.IsDir() {
		return []string{location, discovery.LocalesDir.Join(location)}, nil
	}
	return []string{filepath.Dir(location)}, nil
}

// Run watches locations until ctx is done. A frontend's locales/
// directory created after Run starts is picked up through its parent.
func (w *Watcher) Run(ctx context.Context, locations []string) error {
	log := logging.For("watch")

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer fw.Close()

	byDir := make(map[string][]string)
	// frontend locales/ directories that do not exist yet
	later := make(map[string][]string)
	for _, loc := range locations {
		dirs, err := Dirs(loc)
		if err != nil {
			return fmt.Errorf("watching %s: %w", loc, err)
		}
		for _, d := range dirs {
			if _, err := os.Stat(d); err != nil {
				later[d] = append(later[d], loc)
				continue
			}
			if _, seen := byDir[d]; !seen {
				if err := fw.Add(d); err != nil {
					return fmt.Errorf("watching %s: %w", d, err)
				}
				log.Debug("watching directory", "dir", d)
			}
			byDir[d] = append(byDir[d], loc)
		}
	}

	debounce := w.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	timer := time.NewTimer(debounce)
	timer.Stop()
	pending := make(map[string]bool)

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if locs, ok := later[ev.Name]; ok && ev.Has(fsnotify.Create) && isDir(ev.Name) {
				if err := fw.Add(ev.Name); err != nil {
					log.Error("watch error", "dir", ev.Name, "err", err)
					continue
				}
				log.Debug("watching directory", "dir", ev.Name)
				byDir[ev.Name] = locs
				delete(later, ev.Name)
				for _, loc := range locs {
					pending[loc] = true
				}
				timer.Reset(debounce)
				continue
			}
			if locs, ok := byDir[ev.Name]; ok && (ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename)) {
				// the watch is gone with the directory; wait for it to come back
				later[ev.Name] = locs
				delete(byDir, ev.Name)
				for _, loc := range locs {
					pending[loc] = true
				}
				timer.Reset(debounce)
				continue
			}
			if !w.wants(ev) {
				continue
			}
			log.Debug("file changed", "path", ev.Name, "op", ev.Op.String())
			for _, loc := range byDir[filepath.Dir(ev.Name)] {
				pending[loc] = true
			}
			timer.Reset(debounce)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			log.Error("watch error", "err", err)

		case <-timer.C:
			changed := make([]string, 0, len(pending))
			for loc := range pending {
				changed = append(changed, loc)
			}
			sort.Strings(changed)
			clear(pending)
			for _, loc := range changed {
				if w.OnChange != nil {
					w.OnChange(loc)
				}
			}
		}
	}
}

func isDir(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.IsDir()
}

func (w *Watcher) wants(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
		return false
	}
	base := filepath.Base(ev.Name)
	// temp files of atomic writes
	if strings.HasPrefix(base, ".") || strings.HasSuffix(base, ".tmp") {
		return false
	}
	if !relevant[filepath.Ext(base)] {
		return false
	}
	return !w.Ignore.Match(ev.Name)
}
