package fileutil

import (
	"bytes"
	"os"

	"github.com/translation-hero/hero/errs"
	"github.com/translation-hero/hero/logging"
)

// Rewrite reads path, transforms its contents with fn and hands the result
// to w (Disk when nil). Nothing is written when reading or fn fails, or
// when fn returns the input unchanged. The boolean reports whether a
// write happened.
func Rewrite(w Writer, path, op string, fn func([]byte) ([]byte, error)) (bool, error) {
	if w == nil {
		w = Disk{}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return false, errs.Wrap(errs.IO, op, path, err)
	}
	out, err := fn(data)
	if err != nil {
		return false, errs.WithPath(err, op, path)
	}
	if bytes.Equal(out, data) {
		return false, nil
	}
	if err := w.WriteFile(path, out); err != nil {
		return false, errs.Wrap(errs.IO, op, path, err)
	}
	logging.For("fileutil").Debug("rewrote file", "op", op, "path", path, "bytes", len(out))
	return true, nil
}
