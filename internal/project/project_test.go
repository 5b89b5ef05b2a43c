package project_test

import (
	"os"
	"path/filepath"
	"testing"

	"ergc/internal/project"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func TestFindManifestWalksUp(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "erg.toml"), "[package]\nname = \"demo\"\n")
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}

	path, ok, err := project.FindManifest(nested)
	if err != nil {
		t.Fatalf("FindManifest: %v", err)
	}
	if !ok {
		t.Fatalf("expected to find erg.toml above %s", nested)
	}
	want := filepath.Join(root, "erg.toml")
	if path != want {
		t.Fatalf("path = %q, want %q", path, want)
	}
}

func TestFindManifestMissing(t *testing.T) {
	dir := t.TempDir()
	_, ok, err := project.FindManifest(dir)
	if err != nil {
		t.Fatalf("FindManifest: %v", err)
	}
	if ok {
		t.Fatalf("expected no manifest in a fresh temp dir")
	}
}

func TestLoadManifestParsesAllSections(t *testing.T) {
	dir := t.TempDir()
	manifestPath := filepath.Join(dir, "erg.toml")
	writeFile(t, manifestPath, `
[package]
name = "demo"

[build]
opt_level = 2
target_version = "3.11"
locale = "en"

[paths]
std = "lib/std"
pystd = "lib/pystd"
external = "lib/external"
pkgs = "lib/pkgs"
`)
	m, err := project.LoadManifest(manifestPath)
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	if m.Package.Name != "demo" {
		t.Fatalf("Package.Name = %q, want demo", m.Package.Name)
	}
	if m.Build.OptLevel != 2 || m.Build.TargetVersion != "3.11" || m.Build.Locale != "en" {
		t.Fatalf("Build = %+v, unexpected", m.Build)
	}
	roots := m.SearchRoots()
	if len(roots) != 4 {
		t.Fatalf("SearchRoots = %v, want 4 entries", roots)
	}
	for _, r := range roots {
		if !filepath.IsAbs(r) {
			t.Fatalf("SearchRoots entry %q is not absolute", r)
		}
	}
}

func TestLoadManifestToleratesMissingSections(t *testing.T) {
	dir := t.TempDir()
	manifestPath := filepath.Join(dir, "erg.toml")
	writeFile(t, manifestPath, "[package]\nname = \"bare\"\n")
	m, err := project.LoadManifest(manifestPath)
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	if len(m.SearchRoots()) != 0 {
		t.Fatalf("expected no search roots for a manifest with no [paths]")
	}
}

func TestNormalizeModulePath(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "a/b.er", want: "a/b"},
		{in: "a/b", want: "a/b"},
		{in: "/a/b", want: "a/b"},
		{in: "a//b", wantErr: true},
		{in: "a/./b", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		got, err := project.NormalizeModulePath(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("NormalizeModulePath(%q): expected error, got %q", tt.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("NormalizeModulePath(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("NormalizeModulePath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestIsValidModuleIdent(t *testing.T) {
	valid := []string{"a", "_a", "a1", "snake_case"}
	invalid := []string{"", "1a", "a-b", "a.b"}
	for _, name := range valid {
		if !project.IsValidModuleIdent(name) {
			t.Errorf("IsValidModuleIdent(%q) = false, want true", name)
		}
	}
	for _, name := range invalid {
		if project.IsValidModuleIdent(name) {
			t.Errorf("IsValidModuleIdent(%q) = true, want false", name)
		}
	}
}

func TestDiskCachePutGetRoundTrip(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	cache, err := project.OpenDiskCache("ergc-test")
	if err != nil {
		t.Fatalf("OpenDiskCache: %v", err)
	}
	var key project.Digest
	key[0] = 0xAB
	payload := &project.CachedModule{
		Path:        "a/b",
		ImportPaths: []string{"a/c"},
		FilePaths:   []string{"/src/a/b.er"},
		FileHashes:  []project.Digest{{1, 2, 3}},
	}
	if err := cache.Put(key, payload); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, ok, err := cache.Get(key)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok {
		t.Fatalf("expected a cache hit")
	}
	if got.Path != "a/b" || len(got.ImportPaths) != 1 || got.ImportPaths[0] != "a/c" {
		t.Fatalf("got %+v, want Path=a/b ImportPaths=[a/c]", got)
	}
}

func TestDiskCacheMissReturnsFalse(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	cache, err := project.OpenDiskCache("ergc-test")
	if err != nil {
		t.Fatalf("OpenDiskCache: %v", err)
	}
	var key project.Digest
	key[0] = 0xFF
	_, ok, err := cache.Get(key)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if ok {
		t.Fatalf("expected a miss for an unwritten key")
	}
}

func TestCombineIsOrderSensitive(t *testing.T) {
	var a, b project.Digest
	a[0] = 1
	b[0] = 2
	content := project.Digest{9}
	ab := project.Combine(content, a, b)
	ba := project.Combine(content, b, a)
	if ab == ba {
		t.Fatalf("Combine should be sensitive to dependency order")
	}
}
