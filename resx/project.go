package resx

import (
	"encoding/xml"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/translation-hero/hero/errs"
)

// ---------------------------------------------------------------------------
// Project references
// ---------------------------------------------------------------------------

// ReadResourceReferencesFile reads the project file at path and resolves
// its embedded resource references.
func ReadResourceReferencesFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.Wrap(errs.IO, "read", path, err)
	}
	refs, err := ReadResourceReferences(data, path)
	if err != nil {
		return nil, errs.WithPath(err, "read", path)
	}
	return refs, nil
}

// ReadResourceReferences returns the Update attribute of every
// <EmbeddedResource> element in a project file, resolved against the
// directory holding projectPath. Backslash separators in the attribute
// are converted to the host separator.
func ReadResourceReferences(data []byte, projectPath string) ([]string, error) {
	dec := newDecoder(data)
	dir := filepath.Dir(projectPath)

	var refs []string
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, errs.Wrap(errs.Parse, "read", "", err)
		}
		t, ok := tok.(xml.StartElement)
		if !ok || t.Name.Local != "EmbeddedResource" {
			continue
		}
		if update, ok := attr(t, "Update"); ok && update != "" {
			refs = append(refs, filepath.Join(dir, normalizeSeparators(update)))
		}
	}
	return refs, nil
}

func normalizeSeparators(p string) string {
	return filepath.FromSlash(strings.ReplaceAll(p, `\`, "/"))
}

// IsRootResource reports whether path names a primary resource file: a
// .resx file whose stem has no further dots. Satellite files such as
// Strings.de-DE.resx are excluded.
func IsRootResource(path string) bool {
	if filepath.Ext(path) != Ext {
		return false
	}
	stem := strings.TrimSuffix(filepath.Base(path), Ext)
	return stem != "" && !strings.Contains(stem, ".")
}

// FilterRootResources keeps the paths that are root resources and exist
// on disk, preserving order.
func FilterRootResources(paths []string) []string {
	var out []string
	for _, p := range paths {
		if !IsRootResource(p) {
			continue
		}
		if _, err := os.Stat(p); err != nil {
			continue
		}
		out = append(out, p)
	}
	return out
}
