// Package store implements hero.lock, the record of scanned locations.
//
// Each location keeps the counts computed by its last scan and an MD5
// checksum of every key's default-language text. Comparing the checksums
// with a fresh scan tells which source strings changed since then, so
// their translations can be flagged as stale.
//
// The file is stored alongside .hero.yaml.
package store

import (
	"crypto/md5"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/translation-hero/hero/fileutil"
)

// FileName is the store file name.
const FileName = "hero.lock"

// Version is the store format version.
const Version = 1

// ---------------------------------------------------------------------------
// Types
// ---------------------------------------------------------------------------

// Tag tells which codecs a location uses.
type Tag string

const (
	// Frontend locations use messages.ts and JSON locale files.
	Frontend Tag = "frontend"
	// Backend locations use .resx resources.
	Backend Tag = "backend"
)

// Location is the persisted record of one location.
type Location struct {
	Tag                   Tag               `yaml:"tag"`
	Path                  string            `yaml:"path"`
	Name                  string            `yaml:"name"`
	NumOfKeys             int               `yaml:"num_of_keys"`
	NumOfUntranslatedKeys int               `yaml:"num_of_untranslated_keys"`
	UpdatedAt             time.Time         `yaml:"updated_at"`
	Checksums             map[string]string `yaml:"checksums,omitempty"` // key -> md5 of default-language text
}

// Store represents the hero.lock file.
type Store struct {
	Version   int         `yaml:"version"`
	Locations []*Location `yaml:"locations"`

	mu   sync.Mutex `yaml:"-"`
	path string     `yaml:"-"`
}

// ---------------------------------------------------------------------------
// Loading and saving
// ---------------------------------------------------------------------------

// Load reads the store from dir. A missing file yields an empty store.
func Load(dir string) (*Store, error) {
	path := filepath.Join(dir, FileName)
	s := &Store{Version: Version, path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if s.Version > Version {
		return nil, fmt.Errorf("%s: unsupported version %d", path, s.Version)
	}
	s.path = path
	return s, nil
}

// Save writes the store to disk atomically.
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		return fmt.Errorf("store path not set")
	}
	s.Version = Version
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshaling store: %w", err)
	}
	return fileutil.WriteFileAtomic(s.path, data)
}

// Path returns the store file path.
func (s *Store) Path() string {
	return s.path
}

// ---------------------------------------------------------------------------
// Location records
// ---------------------------------------------------------------------------

// Get returns the location stored under path.
func (s *Store) Get(path string) (*Location, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, l := range s.Locations {
		if l.Path == path {
			return l, true
		}
	}
	return nil, false
}

// Upsert stores loc, replacing any record with the same path.
func (s *Store) Upsert(loc *Location) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, l := range s.Locations {
		if l.Path == loc.Path {
			s.Locations[i] = loc
			return
		}
	}
	s.Locations = append(s.Locations, loc)
}

// Remove deletes the record for path and reports whether one existed.
func (s *Store) Remove(path string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, l := range s.Locations {
		if l.Path == path {
			s.Locations = append(s.Locations[:i], s.Locations[i+1:]...)
			return true
		}
	}
	return false
}

// List returns the records sorted by name, then path.
func (s *Store) List() []*Location {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := append([]*Location(nil), s.Locations...)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].Path < out[j].Path
	})
	return out
}

// ---------------------------------------------------------------------------
// Checksum operations
// ---------------------------------------------------------------------------

// Hash computes the MD5 hex digest of a string.
func Hash(s string) string {
	return fmt.Sprintf("%x", md5.Sum([]byte(s)))
}

// ChangedKeys returns the keys of source (key -> default-language text)
// whose text differs from the recorded checksum, sorted. Keys the record
// has never seen are not reported; they are new, not changed.
func (l *Location) ChangedKeys(source map[string]string) []string {
	var changed []string
	for key, text := range source {
		old, ok := l.Checksums[key]
		if ok && old != Hash(text) {
			changed = append(changed, key)
		}
	}
	sort.Strings(changed)
	return changed
}

// Record replaces the checksums with those of source. Keys missing from
// source are dropped.
func (l *Location) Record(source map[string]string) {
	l.Checksums = make(map[string]string, len(source))
	for key, text := range source {
		l.Checksums[key] = Hash(text)
	}
}
