package security

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

var (
	ErrPathTraversal  = errors.New("path traversal detected")
	ErrPathOutsideDir = errors.New("path escapes base directory")
	ErrSymlinkEscape  = errors.New("symlink escape detected")
	ErrInvalidPath    = errors.New("invalid path")
)

var traversalPatterns = []string{
	"..",
	"%2e%2e",
	"%252e%252e",
	"..\\",
}

// ResolveInDir resolves path against base and rejects anything that would
// leave base, including through a symlink. Absolute paths must already lie
// inside base.
func ResolveInDir(path, base string) (string, error) {
	if path == "" {
		return "", ErrInvalidPath
	}
	if containsTraversalPattern(path) {
		return "", ErrPathTraversal
	}

	basePath, err := filepath.Abs(filepath.Clean(base))
	if err != nil {
		return "", ErrInvalidPath
	}

	target := path
	if !filepath.IsAbs(target) {
		target = filepath.Join(basePath, target)
	}
	target = filepath.Clean(target)

	if !within(target, basePath) {
		return "", ErrPathOutsideDir
	}
	if err := checkSymlinkEscape(target, basePath); err != nil {
		return "", err
	}

	return target, nil
}

func within(target, base string) bool {
	return target == base || strings.HasPrefix(target, base+string(os.PathSeparator))
}

func containsTraversalPattern(path string) bool {
	lower := strings.ToLower(path)
	for _, pattern := range traversalPatterns {
		if strings.Contains(lower, pattern) {
			return true
		}
	}
	return false
}

func checkSymlinkEscape(target, base string) error {
	rel, err := filepath.Rel(base, target)
	if err != nil {
		return ErrInvalidPath
	}

	current := base
	for _, part := range strings.Split(rel, string(os.PathSeparator)) {
		if part == "" || part == "." {
			continue
		}
		current = filepath.Join(current, part)

		info, err := os.Lstat(current)
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return ErrInvalidPath
		}
		if info.Mode()&os.ModeSymlink == 0 {
			continue
		}

		resolved, err := filepath.EvalSymlinks(current)
		if err != nil {
			return ErrInvalidPath
		}
		realBase, err := filepath.EvalSymlinks(base)
		if err != nil {
			realBase = base
		}
		if !within(filepath.Clean(resolved), realBase) {
			return ErrSymlinkEscape
		}
	}

	return nil
}
