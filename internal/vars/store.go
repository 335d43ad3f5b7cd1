package vars

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/vk/haspcfg/internal/ctxlog"
	"github.com/vk/haspcfg/internal/fsutil"
)

// rootKey is the scope key of the configuration root itself.
const rootKey = "."

// Store maps directories below a configuration root to the variables
// declared directly in them.
//
// Only Read touches the file system. A Store is not safe for concurrent
// mutation; concurrent Vars calls are fine once all AddVar/AddVars calls are
// done.
type Store struct {
	root   string
	scopes map[string]map[string]any
}

// New creates an empty store for the configuration root.
func New(root string) *Store {
	return &Store{
		root:   filepath.Clean(root),
		scopes: map[string]map[string]any{rootKey: {}},
	}
}

// Root returns the configuration root directory.
func (s *Store) Root() string {
	return s.root
}

// Read scans the configuration root, registers every directory as a scope
// and loads the declaration files found directly inside each of them.
// Previously loaded scopes are discarded.
func (s *Store) Read(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Reading variable declarations.", "root", s.root)

	dirs, err := fsutil.FindDirs(s.root)
	if err != nil {
		return fmt.Errorf("failed to scan configuration root %s: %w", s.root, err)
	}

	scopes := make(map[string]map[string]any, len(dirs))
	fileCount := 0
	for _, dir := range dirs {
		key, _ := s.relKey(dir)
		scope := make(map[string]any)

		files, err := fsutil.FindFiles(dir, DeclarationPatterns...)
		if err != nil {
			return fmt.Errorf("failed to list declarations in %s: %w", dir, err)
		}
		for _, file := range files {
			decl, err := LoadFile(file)
			if err != nil {
				return err
			}
			if err := checkReserved(file, decl, nil); err != nil {
				return err
			}
			if err := DeepMerge(scope, decl); err != nil {
				return withPath(err, file)
			}
			fileCount++
			logger.Debug("Loaded declaration file.", "file", file, "scope", key, "keys", len(decl))
		}
		scopes[key] = scope
	}

	s.scopes = scopes
	logger.Debug("Variable declarations loaded.", "scopes", len(scopes), "files", fileCount)
	return nil
}

// Vars returns the deep merge of every scope from the root down to the
// directory containing path. The result is a fresh copy owned by the caller.
func (s *Store) Vars(path string) (map[string]any, error) {
	out := make(map[string]any)
	for _, key := range s.chain(s.scopeKey(path)) {
		scope, ok := s.scopes[key]
		if !ok {
			continue
		}
		if err := DeepMerge(out, scope); err != nil {
			return nil, withPath(err, key)
		}
	}
	return out, nil
}

// Local is like Vars but leaves out the root scope, so only declarations
// made below the root are returned.
func (s *Store) Local(path string) (map[string]any, error) {
	out := make(map[string]any)
	for _, key := range s.chain(s.scopeKey(path))[1:] {
		scope, ok := s.scopes[key]
		if !ok {
			continue
		}
		if err := DeepMerge(out, scope); err != nil {
			return nil, withPath(err, key)
		}
	}
	return out, nil
}

// AddVar declares a single variable as if it were defined in the directory
// containing path. An empty path means the root.
func (s *Store) AddVar(key string, value any, path string) error {
	return s.AddVars(map[string]any{key: value}, path)
}

// AddVars declares several variables as if they were defined in the
// directory containing path, merging with whatever is already there.
func (s *Store) AddVars(vars map[string]any, path string) error {
	key := rootKey
	if path != "" {
		key = s.scopeKey(path)
	}
	scope, ok := s.scopes[key]
	if !ok {
		scope = make(map[string]any)
		s.scopes[key] = scope
	}
	if err := DeepMerge(scope, vars); err != nil {
		return withPath(err, key)
	}
	return nil
}

// Scopes returns the registered scope keys.
func (s *Store) Scopes() []string {
	keys := make([]string, 0, len(s.scopes))
	for k := range s.scopes {
		keys = append(keys, k)
	}
	return keys
}

// scopeKey resolves path to the key of the directory it belongs to. A path
// naming a registered directory is that directory; anything else is a file
// and belongs to its parent.
func (s *Store) scopeKey(path string) string {
	rel, ok := s.relKey(path)
	if !ok {
		return rootKey
	}
	if _, isDir := s.scopes[rel]; isDir || rel == rootKey {
		return rel
	}
	if strings.HasSuffix(path, "/") || strings.HasSuffix(path, string(filepath.Separator)) {
		return rel
	}
	return parentKey(rel)
}

// relKey normalizes path to a slash-separated key relative to the root.
// Relative paths are taken relative to the root already. The boolean is
// false for paths outside the root.
func (s *Store) relKey(path string) (string, bool) {
	if path == "" {
		return rootKey, true
	}
	rel := path
	if filepath.IsAbs(path) {
		r, err := filepath.Rel(s.root, path)
		if err != nil {
			return rootKey, false
		}
		rel = r
	} else if strings.HasPrefix(filepath.Clean(path), s.root+string(filepath.Separator)) || filepath.Clean(path) == s.root {
		r, err := filepath.Rel(s.root, path)
		if err != nil {
			return rootKey, false
		}
		rel = r
	}
	rel = filepath.ToSlash(filepath.Clean(rel))
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return rootKey, false
	}
	return rel, true
}

// chain lists the scope keys from the root down to key.
func (s *Store) chain(key string) []string {
	keys := []string{rootKey}
	if key == rootKey {
		return keys
	}
	parts := strings.Split(key, "/")
	for i := range parts {
		keys = append(keys, strings.Join(parts[:i+1], "/"))
	}
	return keys
}

func parentKey(key string) string {
	idx := strings.LastIndex(key, "/")
	if idx < 0 {
		return rootKey
	}
	return key[:idx]
}

func withPath(err error, path string) error {
	if cfgErr, ok := err.(*ConfigurationError); ok && cfgErr.Path == "" {
		cfgErr.Path = path
	}
	return err
}
