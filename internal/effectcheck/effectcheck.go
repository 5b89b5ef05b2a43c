// Package effectcheck implements the side-effect checker (spec.md §4.5): a
// walk over a lowered internal/hir tree that rejects procedural applications
// reached from a pure block. Grounded on the teacher's internal/sema walk
// shape (check.go's Options/Result/Checker split, borrow.go's
// issue-accumulation pattern), adapted from its ast.ExprID-indexed tables to
// a direct hir.Node walk since our HIR already carries resolved types.
package effectcheck

import (
	"fmt"
	"strings"

	"ergc/internal/diag"
	"ergc/internal/hir"
	"ergc/internal/types"
)

// BlockKind is the effect-policy block pushed on each descent into a
// function, procedure, or instant block (spec.md §4.5 "block kind").
type BlockKind uint8

const (
	BlockModule BlockKind = iota
	BlockProc
	BlockFunc
	BlockConstFunc
	BlockConstInstant
	BlockInstant
)

// Pure reports whether effects are forbidden directly inside a block of
// this kind. Instant blocks are not listed here: they inherit the enclosing
// block's policy instead of carrying their own (spec.md §4.5).
func (k BlockKind) Pure() bool {
	switch k {
	case BlockFunc, BlockConstFunc, BlockConstInstant:
		return true
	default:
		return false
	}
}

func (k BlockKind) String() string {
	switch k {
	case BlockModule:
		return "module"
	case BlockProc:
		return "proc"
	case BlockFunc:
		return "func"
	case BlockConstFunc:
		return "const func"
	case BlockConstInstant:
		return "const instant"
	case BlockInstant:
		return "instant"
	default:
		return "block"
	}
}

// Options configures a single effect-check pass.
type Options struct {
	Reports diag.Reporter
}

// Result accumulates what the checker observed, for callers (the
// build driver, the language-server) that want a programmatic summary
// rather than re-scraping the diagnostic reporter.
type Result struct {
	Violations int
}

// Check walks every item of mod, reporting an EffectError through
// opts.Reports for every procedural application or bang-effect reached from
// a pure (Func/ConstFunc/ConstInstant) block. The module top level is
// always effectful (spec.md §4.5 "module-top-level is treated as
// effectful"), so the initial stack is [Module].
func Check(mod *hir.Module, opts Options) Result {
	c := &checker{reports: opts.Reports}
	for _, item := range mod.Items {
		c.walk(item, []BlockKind{BlockModule})
	}
	return Result{Violations: c.violations}
}

type checker struct {
	reports   diag.Reporter
	violations int
}

func (c *checker) report(n hir.Node, stack []BlockKind, format string, args ...interface{}) {
	c.violations++
	if c.reports == nil {
		return
	}
	c.reports.Report(diag.EffectError, diag.SevError, n.Pos(), fmt.Sprintf(format, args...), nil, nil)
}

func top(stack []BlockKind) BlockKind {
	if len(stack) == 0 {
		return BlockModule
	}
	return stack[len(stack)-1]
}

func push(stack []BlockKind, k BlockKind) []BlockKind {
	out := make([]BlockKind, len(stack)+1)
	copy(out, stack)
	out[len(stack)] = k
	return out
}

func (c *checker) walk(n hir.Node, stack []BlockKind) {
	switch v := n.(type) {
	case *hir.Def:
		c.walkDef(v, stack)
	case *hir.ClassDef:
		for _, m := range v.Methods {
			c.walkDef(m, stack)
		}
	case *hir.PatchDef:
		for _, m := range v.Methods {
			c.walkDef(m, stack)
		}
	case *hir.Call:
		c.checkCall(v, stack)
		c.walk(v.Callee, stack)
		for _, a := range v.Args {
			c.walk(a.Value, stack)
		}
	case *hir.AttrAccess:
		c.checkBangName(v.Name, v, stack)
		c.walk(v.Obj, stack)
	case *hir.Index:
		c.walk(v.Obj, stack)
		c.walk(v.Index, stack)
	case *hir.VarRef:
		c.checkBangName(v.Name, v, stack)
	case *hir.PatternBind:
		c.walk(v.Value, stack)
	case *hir.Import, *hir.Literal, *hir.Failure, *hir.AttrDef:
		// leaves; nothing to descend into.
	}
}

func (c *checker) walkDef(def *hir.Def, stack []BlockKind) {
	kind := BlockFunc
	if def.Kind == types.Proc {
		kind = BlockProc
	}
	inner := push(stack, kind)
	for _, p := range def.Params {
		if p.Default != nil {
			c.walk(p.Default, stack)
		}
	}
	for _, stmt := range def.Body {
		c.walk(stmt, inner)
	}
}

// checkCall flags a procedural *application* reached from a pure block.
// A bare reference to a procedure (passed as a value, never applied) is not
// itself a violation (spec.md §4.5).
func (c *checker) checkCall(call *hir.Call, stack []BlockKind) {
	if !top(stack).Pure() {
		return
	}
	kind, ok := subrKindOf(call.Callee.Ty())
	if ok && kind == types.Proc {
		c.report(call, stack, "procedure application not allowed in a %s context", top(stack))
	}
}

// checkBangName flags the `name!` / `x.y!` effectful-identifier convention
// when read from a pure block (spec.md §4.5).
func (c *checker) checkBangName(name string, n hir.Node, stack []BlockKind) {
	if !strings.HasSuffix(name, "!") {
		return
	}
	if top(stack).Pure() {
		c.report(n, stack, "effectful name %q read in a %s context", name, top(stack))
	}
}

func subrKindOf(t types.Type) (types.SubrKind, bool) {
	switch v := t.(type) {
	case types.Subr:
		return v.Kind, true
	case types.Quantified:
		return v.Body.Kind, true
	default:
		return 0, false
	}
}
