// Package builddriver implements the Package Build Driver (spec.md §4.8):
// search-path resolution for `import`/`pyimport`, the ancestor-cycle ->
// inline-submodule fallback, one errgroup-spawned worker per freshly
// discovered module, and the promise join discipline that lets a child
// consult its own children without ever awaiting its parent. Grounded on
// the teacher's internal/driver package for the worker-pool shape
// (parallel.go's errgroup.WithContext + g.SetLimit) and on its
// internal/driver/stdlib.go for search-path-candidate probing, adapted
// from the teacher's directory-wide batch diagnose run to spec.md's
// one-import-at-a-time resolution contract.
package builddriver

import (
	"os"
	"path/filepath"
)

// SearchPath returns the candidate file paths for moduleName relative to
// dir, in spec.md §4.8 step 1's order: `./name.er`, `./name/__init__.er`,
// `./name.d.er`, `./name.d/__init__.d.er`, `./__pycache__/name.d.er`.
func SearchPath(dir, moduleName string) []string {
	stem := filepath.Join(dir, filepath.FromSlash(moduleName))
	return []string{
		stem + ".er",
		filepath.Join(stem, "__init__.er"),
		stem + ".d.er",
		filepath.Join(stem+".d", "__init__.d.er"),
		filepath.Join(dir, "__pycache__", moduleName+".d.er"),
	}
}

// Resolve walks dir's SearchPath plus every stdlib root's SearchPath, in
// order, and returns the first candidate that exists as a regular file.
func Resolve(dir string, stdlibRoots []string, moduleName string) (string, bool) {
	for _, candidate := range SearchPath(dir, moduleName) {
		if isRegularFile(candidate) {
			return Normalize(candidate), true
		}
	}
	for _, root := range stdlibRoots {
		for _, candidate := range SearchPath(root, moduleName) {
			if isRegularFile(candidate) {
				return Normalize(candidate), true
			}
		}
	}
	return "", false
}

func isRegularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// Normalize makes a resolved path stable across platforms and across two
// different relative spellings of the same file (spec.md §4.8 step 2):
// cleaned and slash-separated so map keys in the module cache and graph
// agree regardless of how the path was spelled at the call site.
func Normalize(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = filepath.Clean(path)
	}
	return filepath.ToSlash(abs)
}
