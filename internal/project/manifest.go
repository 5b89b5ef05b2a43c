// Package project loads the project manifest (`erg.toml`) and the on-disk
// module metadata cache. Grounded on the teacher's internal/project package
// (root.go for manifest discovery, modules.go for the TOML loading shape)
// and its internal/driver/dcache.go for the msgpack-backed disk cache,
// adapted from surge.toml's `[package]`/`[modules]` sections to erg.toml's
// `[package]`/`[build]`/`[paths]` sections (SPEC_FULL.md §3 "Project
// manifest"). This package does not duplicate internal/module's
// ModuleMeta/graph/index: it only owns the manifest and the disk cache
// keyed by the hashes internal/module already computes.
package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// ErrManifestNotFound is returned by FindManifest when no erg.toml exists
// between startDir and the filesystem root.
var ErrManifestNotFound = errors.New("project: no erg.toml found")

// PackageConfig is the `[package]` section.
type PackageConfig struct {
	Name string `toml:"name"`
}

// BuildConfig is the `[build]` section: optimization level, target bytecode
// version, and locale for the diagnostic message catalog.
type BuildConfig struct {
	OptLevel      int    `toml:"opt_level"`
	TargetVersion string `toml:"target_version"`
	Locale        string `toml:"locale"`
}

// PathsConfig is the `[paths]` section: additional module search roots,
// mirroring the `.erg/` home-directory tree (lib/std, lib/pystd,
// lib/external, lib/pkgs) but scoped to this project.
type PathsConfig struct {
	Std      string `toml:"std"`
	PyStd    string `toml:"pystd"`
	External string `toml:"external"`
	Pkgs     string `toml:"pkgs"`
}

// Manifest is a parsed erg.toml plus the directory it was found in.
type Manifest struct {
	Path  string
	Root  string
	Build BuildConfig
	Paths PathsConfig
	Package PackageConfig
}

type manifestFile struct {
	Package PackageConfig `toml:"package"`
	Build   BuildConfig   `toml:"build"`
	Paths   PathsConfig   `toml:"paths"`
}

// FindManifest walks up from startDir looking for erg.toml, the way
// surge.toml is located by the teacher's FindSurgeToml.
func FindManifest(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("project: failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, "erg.toml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("project: failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// LoadManifest parses package/build/paths out of the erg.toml at path.
// Every section is optional: a project with no erg.toml at all still
// compiles (single-file mode), so an incomplete manifest fills in zero
// values rather than erroring, unlike the teacher's stricter surge.toml
// contract where [package]/[run] are mandatory.
func LoadManifest(path string) (*Manifest, error) {
	var cfg manifestFile
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	return &Manifest{
		Path:    path,
		Root:    filepath.Dir(path),
		Package: cfg.Package,
		Build:   cfg.Build,
		Paths:   cfg.Paths,
	}, nil
}

// LoadProjectManifest finds and parses the nearest erg.toml above startDir.
// ok is false (with a nil Manifest and nil error) when none exists.
func LoadProjectManifest(startDir string) (*Manifest, bool, error) {
	path, ok, err := FindManifest(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	m, err := LoadManifest(path)
	if err != nil {
		return nil, true, err
	}
	return m, true, nil
}

// SearchRoots returns the additional module search roots the manifest's
// [paths] section declares, resolved to absolute directories and skipping
// blanks. Non-existent directories are kept (the build driver's Resolve
// already tolerates a root with no matching file) rather than filtered
// here, so a misconfigured path surfaces as an unresolved import instead
// of silently vanishing.
func (m *Manifest) SearchRoots() []string {
	if m == nil {
		return nil
	}
	var roots []string
	for _, p := range []string{m.Paths.Std, m.Paths.PyStd, m.Paths.External, m.Paths.Pkgs} {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if !filepath.IsAbs(p) {
			p = filepath.Join(m.Root, p)
		}
		roots = append(roots, filepath.Clean(p))
	}
	return roots
}
