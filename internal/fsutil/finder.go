// Package fsutil provides file system utility functions.
package fsutil

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// FindFiles returns the full paths of all regular files below rootPath that
// match at least one of the doublestar patterns (e.g. "**/*.{yaml,yml}").
// Files inside hidden directories, and hidden files, are skipped. The result
// is sorted and free of duplicates.
func FindFiles(rootPath string, patterns ...string) ([]string, error) {
	if len(patterns) == 0 {
		panic("fsutil: at least one pattern is required")
	}

	fsys := os.DirFS(rootPath)
	seen := make(map[string]struct{})
	var files []string
	for _, pattern := range patterns {
		matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly(), doublestar.WithFailOnIOErrors())
		if err != nil {
			return nil, err
		}
		for _, rel := range matches {
			if IsHidden(rel) {
				continue
			}
			if _, ok := seen[rel]; ok {
				continue
			}
			seen[rel] = struct{}{}
			files = append(files, filepath.Join(rootPath, filepath.FromSlash(rel)))
		}
	}
	sort.Strings(files)
	return files, nil
}

// FindDirs returns rootPath and every non-hidden directory below it, sorted so
// that parents always precede their children.
func FindDirs(rootPath string) ([]string, error) {
	var dirs []string
	err := filepath.WalkDir(rootPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != rootPath && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		dirs = append(dirs, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(dirs)
	return dirs, nil
}

// MatchAny reports whether the slash-separated name matches any pattern.
func MatchAny(name string, patterns ...string) bool {
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, name); ok {
			return true
		}
	}
	return false
}

// IsHidden reports whether any element of the slash-separated relative path
// starts with a dot.
func IsHidden(rel string) bool {
	for _, part := range strings.Split(rel, "/") {
		if strings.HasPrefix(part, ".") && part != "." && part != ".." {
			return true
		}
	}
	return false
}
