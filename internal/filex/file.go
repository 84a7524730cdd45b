// Package filex holds filesystem helpers for the local image store.
package filex

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnsafeName is returned by SafeJoin for names that would escape the
// base directory.
var ErrUnsafeName = errors.New("unsafe file name")

// EnsureDir creates dir (and parents) if needed and returns its absolute
// path. Relative paths are resolved against the working directory.
func EnsureDir(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("abs %s: %w", dir, err)
	}

	if err := os.MkdirAll(abs, 0o750); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", abs, err)
	}

	return abs, nil
}

// SafeJoin joins a plain file name to base. Names containing path
// separators, "..", or that are empty are rejected.
func SafeJoin(base, name string) (string, error) {
	if name == "" || name == "." || name == ".." ||
		strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return "", ErrUnsafeName
	}
	return filepath.Join(base, name), nil
}
