// Package lower implements the Lowerer (spec.md §4.4): a depth-first walk
// over the internal/ast tree that produces a typed internal/hir tree,
// resolving identifiers through internal/ctx, desugaring operators to trait
// method calls, and generalizing definitions at their defining scope's
// level. Grounded on the teacher's hir/lower*.go family (lower_expr.go,
// lower_stmt.go, lower_items.go) for the walk shape, adapted from its
// TypeID-interned model to the types.Type tagged-interface sum here.
package lower

import (
	"fmt"
	"strings"
	"sync/atomic"

	"ergc/internal/ast"
	"ergc/internal/builddriver"
	"ergc/internal/ctx"
	"ergc/internal/diag"
	"ergc/internal/hir"
	"ergc/internal/module"
	"ergc/internal/reorder"
	"ergc/internal/source"
	"ergc/internal/symbols"
	"ergc/internal/types"
)

// ModuleImporter is the package build driver's contribution to lowering
// (spec.md §4.8): lowerImport delegates every `import`/`pyimport` directive
// to it instead of resolving the target module itself. internal/builddriver's
// *Driver satisfies this directly.
type ModuleImporter interface {
	Import(fromPath, moduleName string, chain []string) builddriver.ImportResult
}

// Mode distinguishes the three lowering entry points spec.md §4.4 names.
type Mode uint8

const (
	ModeExec Mode = iota
	ModeEval
	ModeDeclare
)

var defIDCounter uint32

func nextDefID() hir.DefID {
	return hir.DefID(atomic.AddUint32(&defIDCounter, 1))
}

// Lowerer carries the shared nominal-type registry and diagnostic sink for
// one compilation. A fresh Lowerer is not required per module: the registry
// accumulates class/trait registrations across the whole build so later
// modules can see earlier ones' exports (spec.md §4.7 "Trait implementation
// index").
type Lowerer struct {
	Registry *ctx.Registry
	Reports  diag.Reporter
	FS       *source.FileSet // optional; used to resolve line/column in DefLoc
	// Refs, if set, receives one Record call per successfully resolved
	// identifier (spec.md §4.7 "Reference index"). Nil is fine for
	// callers that don't need cross-module usage tracking (e.g. tests).
	Refs *module.ReferenceIndex
	// Importer, if set, is consulted by lowerImport to resolve `import`/
	// `pyimport` directives (spec.md §4.8). Nil is fine for callers
	// lowering a single file with no imports (e.g. most tests): imports
	// are then left unresolved, as before this field existed.
	Importer ModuleImporter
	// chain is the ancestor stack LowerFile was called with, fromPath
	// last (the same convention builddriver.Driver.Import uses), so
	// lowerImport can hand the importer exactly what it needs to detect
	// a cyclic import without this Lowerer knowing the graph itself.
	chain []string
}

// New returns a Lowerer sharing reg across every module of one build.
func New(reg *ctx.Registry, reports diag.Reporter, fs *source.FileSet) *Lowerer {
	return &Lowerer{Registry: reg, Reports: reports, FS: fs}
}

// absLoc resolves a span into an AbsLocation, falling back to an
// unresolved (line/column-free) location when no FileSet is available.
func (l *Lowerer) absLoc(sp source.Span) source.AbsLocation {
	if l.FS != nil {
		return source.NewAbsLocation(l.FS, sp)
	}
	return source.AbsLocation{Loc: source.Location{File: sp.File, Byte: sp}}
}

// LowerFile reorders and lowers one parsed file into an HIR module
// (spec.md §4.4 "lower(ast, mode)"). The module-top-level context is
// created fresh and returned embedded in the result so callers can register
// it in the module cache (internal/module). chain is the ancestor stack
// (fromPath last) this file is being compiled under; pass nil when the
// caller has no build driver wired (e.g. lowering a file in isolation).
func (l *Lowerer) LowerFile(file *ast.File, mode Mode, chain []string) *hir.Module {
	l.chain = chain
	c := ctx.New(file.Path, ctx.KindModule, l.Reports)
	items := reorder.Reorder(file.Items, l.Reports)
	out := make([]hir.Node, 0, len(items))
	for _, it := range items {
		out = append(out, l.lowerStmt(it, c, mode))
	}
	return &hir.Module{Path: file.Path, Items: out, Context: c}
}

func (l *Lowerer) errorf(sp source.Span, code diag.Code, format string, args ...interface{}) {
	if l.Reports == nil {
		return
	}
	l.Reports.Report(code, diag.SevError, sp, fmt.Sprintf(format, args...), nil, nil)
}

func (l *Lowerer) warnf(sp source.Span, code diag.Code, format string, args ...interface{}) {
	if l.Reports == nil {
		return
	}
	l.Reports.Report(code, diag.SevWarning, sp, fmt.Sprintf(format, args...), nil, nil)
}

// lowerStmt dispatches one top-level-or-nested statement: definitions,
// class/patch definitions, imports, type ascriptions and plain expressions
// are all valid at both module top level and inside a definition's body.
func (l *Lowerer) lowerStmt(n ast.Node, c *ctx.Context, mode Mode) hir.Node {
	switch v := n.(type) {
	case *ast.Def:
		return l.lowerDef(v, c, mode)
	case *ast.ClassDef:
		return l.lowerClassDef(v, c, mode)
	case *ast.PatchDef:
		return l.lowerPatchDef(v, c, mode)
	case *ast.ImportCall:
		return l.lowerImport(v)
	case *ast.TypeAscription:
		return l.lowerTypeAscription(v, c)
	case *ast.PatternBinding:
		return l.lowerPatternBinding(v, c, mode)
	case *ast.Dummy:
		return hir.NewFailure(v.Pos(), v.Reason)
	default:
		return l.lowerExpr(n, c)
	}
}

// --- Step 1: literal / identifier ------------------------------------------

func (l *Lowerer) lowerExpr(n ast.Node, c *ctx.Context) hir.Node {
	switch v := n.(type) {
	case *ast.Literal:
		return l.lowerLiteral(v)
	case *ast.Identifier:
		return l.lowerIdentifier(v, c)
	case *ast.Attribute:
		return l.lowerAttribute(v, c)
	case *ast.Subscript:
		return l.lowerSubscript(v, c)
	case *ast.BinOp:
		return l.lowerBinOp(v, c)
	case *ast.UnaryOp:
		return l.lowerUnaryOp(v, c)
	case *ast.Call:
		return l.lowerCall(v, c)
	case *ast.Lambda:
		return l.lowerLambda(v, c)
	case *ast.Dummy:
		return hir.NewFailure(v.Pos(), v.Reason)
	default:
		l.errorf(n.Pos(), diag.CompilerSystemError, "lowerer: unhandled AST node %T", n)
		return hir.NewFailure(n.Pos(), "unhandled node")
	}
}

func literalAtomic(kind ast.LiteralKind) types.Atomic {
	switch kind {
	case ast.LitInt:
		return types.Int
	case ast.LitFloat:
		return types.Float
	case ast.LitRatio:
		return types.Ratio
	case ast.LitStr:
		return types.Str
	case ast.LitBool:
		return types.Bool
	case ast.LitNone:
		return types.NoneType
	default:
		return types.Obj
	}
}

func hirLitKind(kind ast.LiteralKind) hir.LiteralKind {
	switch kind {
	case ast.LitInt:
		return hir.LitInt
	case ast.LitFloat:
		return hir.LitFloat
	case ast.LitRatio:
		return hir.LitRatio
	case ast.LitStr:
		return hir.LitStr
	case ast.LitBool:
		return hir.LitBool
	default:
		return hir.LitNone
	}
}

// lowerLiteral gives every literal the singleton refinement type
// `{_: T | _ == value}` (spec.md §4.4 step 1).
func (l *Lowerer) lowerLiteral(n *ast.Literal) hir.Node {
	base := literalAtomic(n.Kind)
	var t types.Type = base
	if n.Kind != ast.LitNone {
		t = types.Refinement{
			VarName: "_",
			Base:    base,
			Pred:    types.Rel(types.PredEqual, types.Lit("_"), types.Lit(n.Text)),
		}
	}
	return hir.NewLiteral(n.Pos(), t, hirLitKind(n.Kind), n.Text)
}

// lowerIdentifier resolves n through rec_get_var_info and instantiates a
// Quantified result at the current scope's level (spec.md §4.4 step 1).
func (l *Lowerer) lowerIdentifier(n *ast.Identifier, c *ctx.Context) hir.Node {
	triple := c.RecGetVarInfo(n.Name, c.Name, l.Registry)
	switch {
	case triple.IsOK():
		info := triple.Info
		t := instantiateIfQuantified(info.T, c.Level)
		if l.Refs != nil {
			l.Refs.Record(info.DefLoc, l.absLoc(n.Pos()))
		}
		return hir.NewVarRef(n.Pos(), t, n.Name, info)
	case triple.IsErr():
		if l.Reports != nil {
			l.Reports.Report(triple.Err.Code, triple.Err.Severity, triple.Err.Primary, triple.Err.Message, triple.Err.Notes, triple.Err.Fixes)
		}
		return hir.NewFailure(n.Pos(), "access denied")
	default:
		hint := c.SimilarityHint(n.Name)
		msg := fmt.Sprintf("undefined name %q", n.Name)
		if hint != "" {
			msg += fmt.Sprintf("; did you mean %q?", hint)
		}
		l.errorf(n.Pos(), diag.NameError, "%s", msg)
		return hir.NewVarRef(n.Pos(), types.Failure, n.Name, symbols.DoesNotExist)
	}
}

func instantiateIfQuantified(t types.Type, level int) types.Type {
	if q, ok := t.(types.Quantified); ok {
		return types.Instantiate(q, level)
	}
	return t
}

func (l *Lowerer) lowerAttribute(n *ast.Attribute, c *ctx.Context) hir.Node {
	obj := l.lowerExpr(n.Obj, c)
	info, _, found := c.GetMethod(l.Registry, obj.Ty(), n.Name)
	if !found {
		l.errorf(n.Pos(), diag.AttributeError, "no attribute %q on %s", n.Name, obj.Ty())
		return hir.NewAttrAccess(n.Pos(), types.Failure, obj, n.Name, symbols.DoesNotExist)
	}
	if l.Refs != nil {
		l.Refs.Record(info.DefLoc, l.absLoc(n.Pos()))
	}
	return hir.NewAttrAccess(n.Pos(), instantiateIfQuantified(info.T, c.Level), obj, n.Name, info)
}

func (l *Lowerer) lowerSubscript(n *ast.Subscript, c *ctx.Context) hir.Node {
	obj := l.lowerExpr(n.Obj, c)
	idx := l.lowerExpr(n.Index, c)
	info, _, found := c.GetMethod(l.Registry, obj.Ty(), "__getitem__")
	if !found {
		l.errorf(n.Pos(), diag.AttributeError, "%s is not subscriptable", obj.Ty())
		return hir.NewIndex(n.Pos(), types.Failure, obj, idx, symbols.DoesNotExist)
	}
	retType := subrReturn(info.T)
	return hir.NewIndex(n.Pos(), retType, obj, idx, info)
}

func subrReturn(t types.Type) types.Type {
	switch v := t.(type) {
	case types.Subr:
		return v.Return
	case types.Quantified:
		return v.Body.Return
	default:
		return types.Failure
	}
}

// --- Step 3: binary / unary operators --------------------------------------

var binOpMethod = map[string]string{
	"+": "__add__", "-": "__sub__", "*": "__mul__", "/": "__div__",
	"//": "__floordiv__", "%": "__mod__", "^": "__pow__",
	"==": "__eq__", "!=": "__ne__", "<": "__lt__", "<=": "__le__",
	">": "__gt__", ">=": "__ge__", "&&": "__and__", "||": "__or__",
}

var unaryOpMethod = map[string]string{
	"-": "__neg__", "!": "__invert__",
}

// lowerBinOp desugars to a trait method call resolved through the trait-impl
// index (spec.md §4.4 step 3).
func (l *Lowerer) lowerBinOp(n *ast.BinOp, c *ctx.Context) hir.Node {
	lhs := l.lowerExpr(n.Lhs, c)
	rhs := l.lowerExpr(n.Rhs, c)
	methodName, ok := binOpMethod[n.Op]
	if !ok {
		l.errorf(n.Pos(), diag.CompilerSystemError, "unknown operator %q", n.Op)
		return hir.NewFailure(n.Pos(), "unknown operator")
	}
	info, d, found := c.GetMethod(l.Registry, lhs.Ty(), methodName)
	if !found {
		if d.Code != diag.UnknownCode {
			l.Reports.Report(d.Code, d.Severity, d.Primary, d.Message, d.Notes, d.Fixes)
		} else {
			l.errorf(n.Pos(), diag.TypeError, "%s has no operator %q", lhs.Ty(), n.Op)
		}
		return hir.NewFailure(n.Pos(), "operator not found")
	}
	retType := subrReturn(instantiateIfQuantified(info.T, c.Level))
	callee := hir.NewAttrAccess(n.Lhs.Pos(), info.T, lhs, methodName, info)
	return hir.NewCall(n.Pos(), retType, callee, []hir.Arg{{Value: rhs}}, info)
}

func (l *Lowerer) lowerUnaryOp(n *ast.UnaryOp, c *ctx.Context) hir.Node {
	arg := l.lowerExpr(n.Arg, c)
	methodName, ok := unaryOpMethod[n.Op]
	if !ok {
		l.errorf(n.Pos(), diag.CompilerSystemError, "unknown unary operator %q", n.Op)
		return hir.NewFailure(n.Pos(), "unknown unary operator")
	}
	info, _, found := c.GetMethod(l.Registry, arg.Ty(), methodName)
	if !found {
		l.errorf(n.Pos(), diag.TypeError, "%s has no operator %q", arg.Ty(), n.Op)
		return hir.NewFailure(n.Pos(), "unary operator not found")
	}
	retType := subrReturn(instantiateIfQuantified(info.T, c.Level))
	callee := hir.NewAttrAccess(n.Arg.Pos(), info.T, arg, methodName, info)
	return hir.NewCall(n.Pos(), retType, callee, nil, info)
}

// --- Step 2: call -----------------------------------------------------------

func (l *Lowerer) lowerCall(n *ast.Call, c *ctx.Context) hir.Node {
	callee := l.lowerExpr(n.Callee, c)
	subr, ok := asSubr(instantiateIfQuantified(callee.Ty(), c.Level))
	if !ok {
		l.errorf(n.Pos(), diag.NotCallable, "%s is not callable", callee.Ty())
		args := l.lowerArgsLoose(n.Args, c)
		return hir.NewCall(n.Pos(), types.Failure, callee, args, symbols.DoesNotExist)
	}

	var args []hir.Arg
	params := append(append([]types.SubrParam{}, subr.NonDefaultParams...), subr.DefaultParams...)
	for i, posArg := range n.Args.Pos {
		val := l.lowerExpr(posArg, c)
		args = append(args, hir.Arg{Value: val})
		if i < len(params) {
			if d := c.SubUnify(l.Registry, val.Ty(), params[i].T, posArg.Pos()); d != nil {
				l.Reports.Report(d.Code, d.Severity, d.Primary, d.Message, d.Notes, d.Fixes)
			}
		} else if subr.VarParams != nil {
			if d := c.SubUnify(l.Registry, val.Ty(), subr.VarParams.T, posArg.Pos()); d != nil {
				l.Reports.Report(d.Code, d.Severity, d.Primary, d.Message, d.Notes, d.Fixes)
			}
		}
	}
	if len(n.Args.Pos) > len(params) && subr.VarParams == nil {
		l.warnf(n.Pos(), diag.ValueError, "too many positional arguments: expected %d, got %d", len(params), len(n.Args.Pos))
	}
	for _, kw := range n.Args.Kw {
		val := l.lowerExpr(kw.Value, c)
		args = append(args, hir.Arg{Name: kw.Name, Value: val})
		found := false
		for _, p := range params {
			if p.Name == kw.Name {
				found = true
				if d := c.SubUnify(l.Registry, val.Ty(), p.T, kw.Value.Pos()); d != nil {
					l.Reports.Report(d.Code, d.Severity, d.Primary, d.Message, d.Notes, d.Fixes)
				}
				break
			}
		}
		if !found {
			l.errorf(kw.Value.Pos(), diag.UnexpectedKwArg, "unexpected keyword argument %q", kw.Name)
		}
	}

	var info symbols.VarInfo
	if vr, ok := callee.(*hir.VarRef); ok {
		info = vr.Info
	} else if at, ok := callee.(*hir.AttrAccess); ok {
		info = at.Info
	}
	return hir.NewCall(n.Pos(), subr.Return, callee, args, info)
}

func (l *Lowerer) lowerArgsLoose(args ast.CallArgs, c *ctx.Context) []hir.Arg {
	var out []hir.Arg
	for _, a := range args.Pos {
		out = append(out, hir.Arg{Value: l.lowerExpr(a, c)})
	}
	for _, kw := range args.Kw {
		out = append(out, hir.Arg{Name: kw.Name, Value: l.lowerExpr(kw.Value, c)})
	}
	return out
}

func asSubr(t types.Type) (types.Subr, bool) {
	switch v := t.(type) {
	case types.Subr:
		return v, true
	case types.Quantified:
		return v.Body, true
	default:
		return types.Subr{}, false
	}
}

// --- Step 4: definitions -----------------------------------------------------

func (l *Lowerer) lowerDef(n *ast.Def, c *ctx.Context, mode Mode) *hir.Def {
	kind := types.Func
	if strings.HasSuffix(n.Sig.Name, "!") {
		kind = types.Proc
	}
	child := c.Push(n.Sig.Name, ctx.KindSubroutine)

	params := make([]hir.Param, len(n.Sig.Params))
	subrParams := make([]types.SubrParam, 0, len(n.Sig.Params))
	var defaultParams []types.SubrParam
	var varParam *types.SubrParam
	for i, p := range n.Sig.Params {
		var pt types.Type
		if p.TypeSpec != nil {
			pt = l.evalTypeExpr(p.TypeSpec, child)
		} else {
			pt = types.FreeVar{Cell: types.NewUnboundCell(child.Level, types.Constraint{Kind: types.ConstraintUninited})}
		}
		var def hir.Node
		if p.Default != nil {
			def = l.lowerExpr(p.Default, child)
		}
		params[i] = hir.Param{Name: p.Name, Type: pt, Default: def, Variadic: p.Variadic}
		_ = child.RegisterVar(p.Name, symbols.VarInfo{T: pt, Kind: symbols.KindParameter, Param: symbols.ParamInfo{ID: i, Variadic: p.Variadic, HasDefault: p.Default != nil}})
		switch {
		case p.Variadic:
			vp := types.SubrParam{Name: p.Name, T: pt}
			varParam = &vp
		case p.Default != nil:
			defaultParams = append(defaultParams, types.SubrParam{Name: p.Name, T: pt})
		default:
			subrParams = append(subrParams, types.SubrParam{Name: p.Name, T: pt})
		}
	}

	body := make([]hir.Node, len(n.Body))
	for i, stmt := range n.Body {
		body[i] = l.lowerStmt(stmt, child, mode)
	}

	var retType types.Type = types.NoneType
	if len(body) > 0 {
		retType = body[len(body)-1].Ty()
	}
	if n.Sig.ReturnSpec != nil {
		expected := l.evalTypeExpr(n.Sig.ReturnSpec, child)
		if d := c.SubUnify(l.Registry, retType, expected, n.Pos()); d != nil {
			l.Reports.Report(d.Code, d.Severity, d.Primary, d.Message, d.Notes, d.Fixes)
		}
		retType = expected
	}

	subr := types.Subr{Kind: kind, NonDefaultParams: subrParams, VarParams: varParam, DefaultParams: defaultParams, Return: retType}
	generalized := types.Generalize(subr, c.Level)

	loc := l.absLoc(n.Pos())
	info := symbols.VarInfo{T: generalized, Kind: symbols.KindDefined, DefLoc: loc}
	if err := c.RegisterVar(n.Sig.Name, info); err != nil {
		l.errorf(n.Pos(), diag.NameError, "%s", err.Error())
	}

	return hir.NewDef(n.Pos(), generalized, nextDefID(), n.Sig.Name, kind, params, body, generalized, info)
}

func (l *Lowerer) lowerLambda(n *ast.Lambda, c *ctx.Context) hir.Node {
	synthetic := &ast.Def{Sig: ast.Sig{Name: "<lambda>", Params: n.Params}, Body: n.Body}
	def := l.lowerDef(synthetic, c, ModeEval)
	return def
}

// --- Step 4 (continued): class / patch definitions --------------------------

func (l *Lowerer) lowerClassDef(n *ast.ClassDef, c *ctx.Context, mode Mode) hir.Node {
	var requirement, impl types.Type = types.Obj, nil
	if n.RequirePart != nil {
		requirement = l.evalTypeExpr(n.RequirePart, c)
	}
	if n.ImplPart != nil {
		impl = l.evalTypeExpr(n.ImplPart, c)
	}

	var classType types.Mono
	switch n.Builtin {
	case "Inherit":
		classType = types.InheritFunc(n.Def.Sig.Name, requirement, impl, nil)
		l.Registry.RegisterSuper(n.Def.Sig.Name, requirement)
	case "Inheritable":
		classType = types.ClassFunc(n.Def.Sig.Name, requirement, impl)
	default:
		classType = types.ClassFunc(n.Def.Sig.Name, requirement, impl)
	}

	child := c.Push(n.Def.Sig.Name, ctx.KindClassDef)
	child.Supers = append(child.Supers, requirement)

	var methods []*hir.Def
	for _, block := range n.MethodsList {
		for _, attr := range block.Attrs {
			if def, ok := attr.(*ast.Def); ok {
				hd := l.lowerDef(def, child, mode)
				child.Methods[hd.Name] = hd.Info
				methods = append(methods, hd)
			}
		}
	}

	info := symbols.VarInfo{T: classType, Kind: symbols.KindDefined, DefLoc: l.absLoc(n.Pos())}
	_ = c.RegisterVar(n.Def.Sig.Name, info)

	return hir.NewClassDef(n.Pos(), classType, nextDefID(), n.Def.Sig.Name, requirement, impl, methods, child.Supers)
}

func (l *Lowerer) lowerPatchDef(n *ast.PatchDef, c *ctx.Context, mode Mode) hir.Node {
	var target types.Type = types.Obj
	if n.Target != nil {
		target = l.evalTypeExpr(n.Target, c)
	}
	child := c.Push(targetName(target), ctx.KindClassDef)
	var methods []*hir.Def
	for _, block := range n.MethodsList {
		for _, attr := range block.Attrs {
			if def, ok := attr.(*ast.Def); ok {
				hd := l.lowerDef(def, child, mode)
				child.Methods[hd.Name] = hd.Info
				methods = append(methods, hd)
			}
		}
	}
	return hir.NewPatchDef(n.Pos(), target, nextDefID(), target, methods)
}

func targetName(t types.Type) string {
	if m, ok := t.(types.Mono); ok {
		return m.Name
	}
	return t.String()
}

// --- Step 5: import ----------------------------------------------------------

// lowerImport delegates moduleName's resolution to the package build driver
// (spec.md §4.8) and splices the result into the returned node's Resolved
// field. With no Importer wired (single-file lowering, most tests) the
// import is left unresolved, as spec.md §4.4 describes for a bare `lower`
// call with no driver attached.
func (l *Lowerer) lowerImport(n *ast.ImportCall) hir.Node {
	imp := hir.NewImport(n.Pos(), n.Py, n.ModuleName)
	if l.Importer == nil || len(l.chain) == 0 {
		return imp
	}

	fromPath := l.chain[len(l.chain)-1]
	res := l.Importer.Import(fromPath, n.ModuleName, l.chain)
	switch {
	case res.Err != nil:
		l.errorf(n.Pos(), diag.NameError, "cannot import %q: %v", n.ModuleName, res.Err)
	case res.Inline:
		// spec.md §4.8 step 3: the target is one of fromPath's own
		// ancestors. Report the cycle at the point of detection and fold
		// it in as an inline stub rather than a separately registered
		// module.
		l.errorf(n.Pos(), diag.CyclicReference, "cyclic import: %q imports an ancestor module", n.ModuleName)
		imp.Resolved = &hir.InlineModule{Path: res.Path}
	default:
		var items []hir.Node
		if res.Module != nil {
			items = res.Module.Items
		}
		imp.Resolved = &hir.InlineModule{Path: res.Path, Items: items}
	}
	return imp
}

// --- Step 6: pattern binding --------------------------------------------------

// lowerPatternBinding lowers the right-hand side and registers each pattern
// element under the type of its indexed/keyed projection (`__getitem__` for
// array/tuple patterns, a field lookup for record patterns; spec.md §4.4
// step 6). It returns the lowered right-hand side: the projections are not
// emitted into the HIR, and no arity check is made against Value's type.
func (l *Lowerer) lowerPatternBinding(n *ast.PatternBinding, c *ctx.Context, mode Mode) hir.Node {
	value := l.lowerExpr(n.Value, c)
	for i, elem := range n.Elems {
		var proj hir.Node
		switch n.Kind {
		case ast.PatternRecord:
			info, _, found := c.GetMethod(l.Registry, value.Ty(), elem.Key)
			if !found {
				l.errorf(n.Pos(), diag.KeyError, "no field %q on %s", elem.Key, value.Ty())
				proj = hir.NewFailure(n.Pos(), "missing field")
			} else {
				proj = hir.NewAttrAccess(n.Pos(), info.T, value, elem.Key, info)
			}
		default:
			idxLit := hir.NewLiteral(n.Pos(), types.Int, hir.LitInt, fmt.Sprintf("%d", i))
			info, _, found := c.GetMethod(l.Registry, value.Ty(), "__getitem__")
			if !found {
				proj = hir.NewFailure(n.Pos(), "not indexable")
			} else {
				proj = hir.NewIndex(n.Pos(), subrReturn(info.T), value, idxLit, info)
			}
		}
		_ = c.RegisterVar(elem.Name, symbols.VarInfo{T: proj.Ty(), Kind: symbols.KindDefined})
	}
	return value
}

func (l *Lowerer) lowerTypeAscription(n *ast.TypeAscription, c *ctx.Context) hir.Node {
	expected := l.evalTypeExpr(n.TypeSpec, c)
	if ident, ok := n.Expr.(*ast.Identifier); ok {
		if owner, name, ok := splitQualified(ident.Name); ok {
			return hir.NewAttrDef(n.Pos(), owner, name, expected)
		}
		_ = c.RegisterVar(ident.Name, symbols.VarInfo{T: expected, Kind: symbols.KindDeclared})
		return hir.NewVarRef(n.Pos(), expected, ident.Name, symbols.VarInfo{T: expected, Kind: symbols.KindDeclared})
	}
	expr := l.lowerExpr(n.Expr, c)
	if d := c.SubUnify(l.Registry, expr.Ty(), expected, n.Pos()); d != nil {
		l.Reports.Report(d.Code, d.Severity, d.Primary, d.Message, d.Notes, d.Fixes)
	}
	return expr
}

func splitQualified(name string) (owner, member string, ok bool) {
	idx := strings.LastIndex(name, ".")
	if idx < 0 {
		return "", "", false
	}
	return name[:idx], name[idx+1:], true
}

// --- Type-expression evaluation -----------------------------------------------

var atomicNames = map[string]types.Atomic{
	"Int": types.Int, "Nat": types.Nat, "Float": types.Float, "Ratio": types.Ratio,
	"Str": types.Str, "Bool": types.Bool, "NoneType": types.NoneType,
	"Obj": types.Obj, "Never": types.Never,
}

// evalTypeExpr interprets a type-position AST node as a types.Type
// (spec.md §4.2 "Compile-time evaluation" applied to type specs): bare
// names resolve to atomics or Mono nominal references, applications become
// Poly, and `.` resolves to a Proj.
func (l *Lowerer) evalTypeExpr(n ast.Node, c *ctx.Context) types.Type {
	switch v := n.(type) {
	case *ast.Identifier:
		if a, ok := atomicNames[v.Name]; ok {
			return a
		}
		return types.Mono{Name: v.Name}
	case *ast.Attribute:
		lhs := l.evalTypeExpr(v.Obj, c)
		return types.Proj{Lhs: lhs, Rhs: v.Name}
	case *ast.Call:
		name := "?"
		if id, ok := v.Callee.(*ast.Identifier); ok {
			name = id.Name
		}
		params := make([]types.TyParam, 0, len(v.Args.Pos))
		for _, a := range v.Args.Pos {
			params = append(params, l.evalTyParam(a, c))
		}
		return types.Poly{Name: name, Params: params}
	case *ast.Literal:
		return literalAtomic(v.Kind)
	default:
		return types.Obj
	}
}

func (l *Lowerer) evalTyParam(n ast.Node, c *ctx.Context) types.TyParam {
	if lit, ok := n.(*ast.Literal); ok {
		return types.Lit(lit.Text)
	}
	return types.TypeArg(l.evalTypeExpr(n, c))
}
