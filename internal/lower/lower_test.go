package lower_test

import (
	"testing"

	"ergc/internal/ctx"
	"ergc/internal/diag"
	"ergc/internal/hir"
	"ergc/internal/lower"
	"ergc/internal/parser"
	"ergc/internal/source"
	"ergc/internal/types"
)

type testReporter struct {
	diagnostics []diag.Diagnostic
}

func (r *testReporter) Report(code diag.Code, sev diag.Severity, primary source.Span, msg string, notes []diag.Note, fixes []diag.Fix) {
	r.diagnostics = append(r.diagnostics, diag.Diagnostic{
		Severity: sev,
		Code:     code,
		Message:  msg,
		Primary:  primary,
		Notes:    notes,
		Fixes:    fixes,
	})
}

func (r *testReporter) hasCode(code diag.Code) bool {
	for _, d := range r.diagnostics {
		if d.Code == code {
			return true
		}
	}
	return false
}

func lowerSource(t *testing.T, src string) (*hir.Module, *testReporter) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.er", []byte(src))
	rep := &testReporter{}
	p := parser.New(fs, id, rep)
	file := p.ParseFile()
	l := lower.New(ctx.NewRegistry(), rep, fs)
	return l.LowerFile(file, lower.ModeExec, nil), rep
}

func TestLowerLiteralSingletonType(t *testing.T) {
	mod, rep := lowerSource(t, "1\n")
	if rep.hasCode(diag.SyntaxError) {
		t.Fatalf("unexpected syntax errors: %v", rep.diagnostics)
	}
	lit, ok := mod.Items[0].(*hir.Literal)
	if !ok {
		t.Fatalf("expected *hir.Literal, got %T", mod.Items[0])
	}
	refine, ok := lit.Ty().(types.Refinement)
	if !ok {
		t.Fatalf("expected singleton refinement type, got %s", lit.Ty())
	}
	if refine.Base != types.Int {
		t.Fatalf("expected Int base, got %s", refine.Base)
	}
}

func TestLowerUndefinedIdentifierReportsNameError(t *testing.T) {
	mod, rep := lowerSource(t, "undefined_name\n")
	if !rep.hasCode(diag.NameError) {
		t.Fatalf("expected a name-error diagnostic, got %v", rep.diagnostics)
	}
	ref, ok := mod.Items[0].(*hir.VarRef)
	if !ok {
		t.Fatalf("expected *hir.VarRef, got %T", mod.Items[0])
	}
	if ref.Ty() != types.Failure {
		t.Fatalf("expected Failure type for unresolved name, got %s", ref.Ty())
	}
}

func TestLowerDefGeneralizesUntypedParam(t *testing.T) {
	mod, rep := lowerSource(t, "id(x) = x\n")
	if len(rep.diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %v", rep.diagnostics)
	}
	def, ok := mod.Items[0].(*hir.Def)
	if !ok {
		t.Fatalf("expected *hir.Def, got %T", mod.Items[0])
	}
	if def.Name != "id" {
		t.Fatalf("unexpected def name %q", def.Name)
	}
	if _, ok := def.SigType.(types.Quantified); !ok {
		t.Fatalf("expected the untyped parameter to generalize to a Quantified type, got %s", def.SigType)
	}
}

func TestLowerCallOnNonCallableReportsNotCallable(t *testing.T) {
	mod, rep := lowerSource(t, "1(2)\n")
	if !rep.hasCode(diag.NotCallable) {
		t.Fatalf("expected a not-callable diagnostic, got %v", rep.diagnostics)
	}
	call, ok := mod.Items[0].(*hir.Call)
	if !ok {
		t.Fatalf("expected *hir.Call, got %T", mod.Items[0])
	}
	if call.Ty() != types.Failure {
		t.Fatalf("expected Failure type on the failed call, got %s", call.Ty())
	}
}

func TestLowerImportProducesUnresolvedImport(t *testing.T) {
	mod, rep := lowerSource(t, `import "math"`+"\n")
	if len(rep.diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %v", rep.diagnostics)
	}
	imp, ok := mod.Items[0].(*hir.Import)
	if !ok {
		t.Fatalf("expected *hir.Import, got %T", mod.Items[0])
	}
	if imp.ModuleName != "math" || imp.Resolved != nil {
		t.Fatalf("unexpected import state %+v", imp)
	}
}
