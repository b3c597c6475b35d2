package fileutil

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Writer is the destination of rewritten resource files.
type Writer interface {
	WriteFile(path string, data []byte) error
}

// Disk writes files atomically.
type Disk struct{}

// WriteFile implements Writer.
func (Disk) WriteFile(path string, data []byte) error {
	return WriteFileAtomic(path, data)
}

// Change is one recorded write of a DryRun.
type Change struct {
	Path   string
	Before []byte
	After  []byte
}

// DryRun records writes instead of performing them. Later writes to the
// same path replace the recorded contents but keep the original Before.
type DryRun struct {
	mu      sync.Mutex
	changes map[string]*Change
}

// NewDryRun returns an empty recorder.
func NewDryRun() *DryRun {
	return &DryRun{changes: make(map[string]*Change)}
}

// WriteFile implements Writer.
func (d *DryRun) WriteFile(path string, data []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if c, ok := d.changes[path]; ok {
		c.After = append([]byte(nil), data...)
		return nil
	}
	before, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	d.changes[path] = &Change{Path: path, Before: before, After: append([]byte(nil), data...)}
	return nil
}

// Changes returns the recorded writes sorted by path. Writes that left
// the contents unchanged are omitted.
func (d *DryRun) Changes() []Change {
	d.mu.Lock()
	defer d.mu.Unlock()

	out := make([]Change, 0, len(d.changes))
	for _, c := range d.changes {
		if bytes.Equal(c.Before, c.After) {
			continue
		}
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// WriteDiff renders every recorded change as a unified-style diff.
func (d *DryRun) WriteDiff(w io.Writer) error {
	for _, c := range d.Changes() {
		if _, err := io.WriteString(w, Diff(c.Path, string(c.Before), string(c.After))); err != nil {
			return err
		}
	}
	return nil
}

// diffContext is the number of unchanged lines shown around a change.
const diffContext = 2

// Diff returns a line diff between before and after, headed by the file
// name. Unchanged runs longer than the context window are elided.
func Diff(name, before, after string) string {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var sb strings.Builder
	fmt.Fprintf(&sb, "--- %s\n+++ %s\n", name, name)
	for i, df := range diffs {
		text := splitLines(df.Text)
		switch df.Type {
		case diffmatchpatch.DiffDelete:
			for _, l := range text {
				sb.WriteString("-" + l + "\n")
			}
		case diffmatchpatch.DiffInsert:
			for _, l := range text {
				sb.WriteString("+" + l + "\n")
			}
		case diffmatchpatch.DiffEqual:
			writeContext(&sb, text, i > 0, i < len(diffs)-1)
		}
	}
	return sb.String()
}

func writeContext(sb *strings.Builder, lines []string, afterChange, beforeChange bool) {
	head, tail := 0, 0
	if afterChange {
		head = diffContext
	}
	if beforeChange {
		tail = diffContext
	}
	if head+tail >= len(lines) {
		for _, l := range lines {
			sb.WriteString(" " + l + "\n")
		}
		return
	}
	for _, l := range lines[:head] {
		sb.WriteString(" " + l + "\n")
	}
	sb.WriteString("@@\n")
	for _, l := range lines[len(lines)-tail:] {
		sb.WriteString(" " + l + "\n")
	}
}

func splitLines(s string) []string {
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return []string{""}
	}
	return strings.Split(s, "\n")
}
