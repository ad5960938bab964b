// Package security guards the paths the explorer writes to.
package security

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrPathEscapes is returned when a path resolves outside its allowed root.
var ErrPathEscapes = errors.New("security: path escapes allowed directory")

// canonical returns the absolute, symlink-free form of path. When path does
// not exist yet, the longest existing ancestor is resolved and the missing
// tail re-attached, so /tmp/link/new.png with link -> /etc resolves under /etc.
func canonical(path string) (string, error) {
	abs, err := filepath.Abs(filepath.Clean(path))
	if err != nil {
		return "", fmt.Errorf("failed to resolve absolute path: %w", err)
	}
	existing, tail := abs, ""
	for {
		if resolved, err := filepath.EvalSymlinks(existing); err == nil {
			return filepath.Join(resolved, tail), nil
		}
		parent := filepath.Dir(existing)
		if parent == existing {
			return abs, nil
		}
		tail = filepath.Join(filepath.Base(existing), tail)
		existing = parent
	}
}

// ValidatePathWithinDirectory reports whether path stays inside dir after
// cleaning and symlink resolution. dir must exist.
func ValidatePathWithinDirectory(path, dir string) error {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("failed to resolve directory path: %w", err)
	}
	root, err := filepath.EvalSymlinks(absDir)
	if err != nil {
		return fmt.Errorf("failed to resolve directory symlinks: %w", err)
	}
	target, err := canonical(path)
	if err != nil {
		return err
	}

	rel, err := filepath.Rel(root, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || filepath.IsAbs(rel) {
		return fmt.Errorf("%w: %s is outside %s", ErrPathEscapes, path, dir)
	}
	return nil
}

// ValidateOutputPath accepts paths inside the working directory or the
// system temp directory, the two places frame images may be written.
func ValidateOutputPath(path string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}
	for _, root := range []string{cwd, os.TempDir()} {
		if ValidatePathWithinDirectory(path, root) == nil {
			return nil
		}
	}
	return fmt.Errorf("%w: %s must be within %s or %s", ErrPathEscapes, path, cwd, os.TempDir())
}

// SanitizeFilename maps s to a safe file name component: ASCII letters,
// digits, '.', '_' and '-' are kept, runs of anything else become a single
// '_', and the result is capped at 128 bytes. Empty results become "unknown".
func SanitizeFilename(s string) string {
	const maxLen = 128
	var b strings.Builder
	lastUnderscore := false
	for _, r := range s {
		if b.Len() >= maxLen {
			break
		}
		switch {
		case (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9'),
			r == '.', r == '_', r == '-':
			b.WriteRune(r)
			lastUnderscore = r == '_'
		case !lastUnderscore:
			b.WriteRune('_')
			lastUnderscore = true
		}
	}
	out := strings.Trim(b.String(), "._")
	if out == "" {
		return "unknown"
	}
	return out
}
