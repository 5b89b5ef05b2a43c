package effectcheck_test

import (
	"testing"

	"ergc/internal/ctx"
	"ergc/internal/diag"
	"ergc/internal/effectcheck"
	"ergc/internal/lower"
	"ergc/internal/parser"
	"ergc/internal/source"
)

type testReporter struct {
	diagnostics []diag.Diagnostic
}

func (r *testReporter) Report(code diag.Code, sev diag.Severity, primary source.Span, msg string, notes []diag.Note, fixes []diag.Fix) {
	r.diagnostics = append(r.diagnostics, diag.Diagnostic{Severity: sev, Code: code, Message: msg, Primary: primary, Notes: notes, Fixes: fixes})
}

func (r *testReporter) hasCode(code diag.Code) bool {
	for _, d := range r.diagnostics {
		if d.Code == code {
			return true
		}
	}
	return false
}

func lowerAndCheck(t *testing.T, src string) (*testReporter, effectcheck.Result) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.er", []byte(src))
	rep := &testReporter{}
	p := parser.New(fs, id, rep)
	file := p.ParseFile()
	l := lower.New(ctx.NewRegistry(), rep, fs)
	mod := l.LowerFile(file, lower.ModeExec, nil)
	res := effectcheck.Check(mod, effectcheck.Options{Reports: rep})
	return rep, res
}

func TestEffectCheckAllowsBangNameAtModuleTop(t *testing.T) {
	rep, res := lowerAndCheck(t, "rand!\n")
	if rep.hasCode(diag.EffectError) {
		t.Fatalf("module top level is effectful, expected no violation, got %v", rep.diagnostics)
	}
	if res.Violations != 0 {
		t.Fatalf("expected zero violations, got %d", res.Violations)
	}
}

func TestEffectCheckForbidsBangNameInsideFunc(t *testing.T) {
	_, res := lowerAndCheck(t, "f() = rand!\n")
	if res.Violations == 0 {
		t.Fatalf("expected an effect violation for rand! read inside a pure func body")
	}
}

func TestEffectCheckAllowsBangNameInsideProc(t *testing.T) {
	_, res := lowerAndCheck(t, "f!() = rand!\n")
	if res.Violations != 0 {
		t.Fatalf("expected no violation for an effectful name read inside a proc, got %d", res.Violations)
	}
}
