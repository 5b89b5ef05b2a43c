package main

import (
	"os"
	"path/filepath"
	"testing"
)

func writeSource(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "main.er")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoadAndLexProducesTokens(t *testing.T) {
	path := writeSource(t, "1\n")
	lr, err := loadAndLex(path, 100)
	if err != nil {
		t.Fatalf("loadAndLex: %v", err)
	}
	if len(lr.tokens) == 0 {
		t.Fatalf("expected at least one token")
	}
	if lr.bag.HasErrors() {
		t.Fatalf("unexpected lex errors: %v", lr.bag.Items())
	}
}

func TestLoadAndParseProducesAST(t *testing.T) {
	path := writeSource(t, "1\n")
	pr, err := loadAndParse(path, 100)
	if err != nil {
		t.Fatalf("loadAndParse: %v", err)
	}
	if len(pr.file.Items) != 1 {
		t.Fatalf("Items = %d, want 1", len(pr.file.Items))
	}
	if pr.bag.HasErrors() {
		t.Fatalf("unexpected parse errors: %v", pr.bag.Items())
	}
}

func TestLoadParseAndLowerProducesModule(t *testing.T) {
	path := writeSource(t, "1\n")
	cr, err := loadParseAndLower(path, 100)
	if err != nil {
		t.Fatalf("loadParseAndLower: %v", err)
	}
	if cr.mod == nil || len(cr.mod.Items) != 1 {
		t.Fatalf("expected one lowered item, got %+v", cr.mod)
	}
}

func TestRunFullCheckReportsNoViolationsForPureLiteral(t *testing.T) {
	path := writeSource(t, "1\n")
	cr, effRes, ownRes, err := runFullCheck(path, 100, false)
	if err != nil {
		t.Fatalf("runFullCheck: %v", err)
	}
	if cr.bag.HasErrors() {
		t.Fatalf("unexpected check errors: %v", cr.bag.Items())
	}
	if effRes.Violations != 0 {
		t.Fatalf("Violations = %d, want 0", effRes.Violations)
	}
	if ownRes.Moves != 0 {
		t.Fatalf("Moves = %d, want 0", ownRes.Moves)
	}
}

func TestLoadAndLexMissingFile(t *testing.T) {
	_, err := loadAndLex(filepath.Join(t.TempDir(), "missing.er"), 100)
	if err == nil {
		t.Fatalf("expected an error for a missing file")
	}
}
