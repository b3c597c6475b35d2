package config

import (
	"io/fs"
	"path/filepath"
	"sort"

	"github.com/translation-hero/hero/discovery"
)

// skipDirs are never descended into during detection.
var skipDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	"bin":          true,
	"obj":          true,
	"dist":         true,
}

// Detect walks rootDir for locations: directories holding messages.ts and
// .csproj project files. Paths matching ignore are skipped. Results are
// sorted by path and named after their directory.
func Detect(rootDir string, ignore *discovery.Matcher) ([]ResolvedLocation, error) {
	var out []ResolvedLocation
	err := filepath.WalkDir(rootDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, _ := filepath.Rel(rootDir, path)
		if d.IsDir() {
			if path != rootDir && (skipDirs[d.Name()] || ignore.Match(rel)) {
				return filepath.SkipDir
			}
			return nil
		}
		if ignore.Match(rel) {
			return nil
		}

		switch {
		case d.Name() == discovery.MessagesFile.Rel():
			dir := filepath.Dir(path)
			out = append(out, ResolvedLocation{Name: filepath.Base(dir), Path: dir, Kind: discovery.Frontend})
		case filepath.Ext(path) == discovery.ProjectExt:
			name := filepath.Base(path)
			out = append(out, ResolvedLocation{Name: name[:len(name)-len(discovery.ProjectExt)], Path: path, Kind: discovery.Project})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}
