// Package hir defines the typed High-level Intermediate Representation the
// Lowerer (internal/lower) produces from an internal/ast tree (spec.md §3/§6).
// Unlike the teacher's TypeID-interned HIR, nodes here carry a types.Type
// directly: the HM/refinement type model is generated incrementally during
// lowering (FreeVar cells get Linked/Generalized in place), so there is no
// finished interner to index into until after the whole module is lowered.
// Grounded on the teacher's hir/expr.go ExprKind+ExprData tagged-union shape,
// adapted to carry types.Type/symbols.VarInfo instead of a TypeID+SymbolID
// pair into an external table.
package hir

import (
	"ergc/internal/ctx"
	"ergc/internal/source"
	"ergc/internal/symbols"
	"ergc/internal/types"
)

// DefID identifies one lowered definition within a module (function,
// variable, class method, ...).
type DefID uint32

// NoDefID is the sentinel "no definition" identifier.
const NoDefID DefID = 0

// Node is implemented by every HIR node. Every HIR node, unlike its AST
// counterpart, carries a resolved Type, set once by the lowerer and never
// mutated afterward; the nodes that name something (VarRef, AttrAccess,
// Index, Call, Def) also carry the VarInfo they were checked against.
type Node interface {
	Pos() source.Span
	Ty() types.Type
	hir()
}

type base struct {
	Span source.Span
	Type types.Type
}

func (b base) Pos() source.Span { return b.Span }
func (b base) Ty() types.Type   { return b.Type }

// Literal is a constant value, its type already resolved to an Atomic or a
// Refinement over one (e.g. {i: Int | i == 1}).
type Literal struct {
	base
	Kind LiteralKind
	Text string
}

func (*Literal) hir() {}

type LiteralKind uint8

const (
	LitInt LiteralKind = iota
	LitFloat
	LitRatio
	LitStr
	LitBool
	LitNone
)

// VarRef is a resolved reference to a name, carrying the VarInfo the
// Context produced for it (spec.md §4.4 step 2: identifier resolution).
type VarRef struct {
	base
	Name string
	Info symbols.VarInfo
}

func (*VarRef) hir() {}

// AttrAccess is `obj.name`, resolved to the receiver method/field VarInfo.
type AttrAccess struct {
	base
	Obj  Node
	Name string
	Info symbols.VarInfo
}

func (*AttrAccess) hir() {}

// Index is `obj[index]`, desugared to `obj.__getitem__(index)` if the
// lowerer found such a method, tracked via Info for later diagnostics.
type Index struct {
	base
	Obj   Node
	Index Node
	Info  symbols.VarInfo
}

func (*Index) hir() {}

// Call is a resolved function/procedure application. Callee is the lowered
// callee expression; Info is the VarInfo of the resolved callable (after
// operator desugaring, if any).
type Call struct {
	base
	Callee Node
	Args   []Arg
	Info   symbols.VarInfo
}

func (*Call) hir() {}

// Arg is one resolved call argument.
type Arg struct {
	Name  string // empty for positional
	Value Node
}

// BinOpDesugaredMethodPrefix is the prefix of the method names that binary
// and unary operators are desugared to (`__add__`, `__neg__`, ...; spec.md
// §4.4 step 3).
const BinOpDesugaredMethodPrefix = "__"

// Param is a lowered definition parameter, carrying its checked type.
type Param struct {
	Name     string
	Type     types.Type
	Default  Node
	Variadic bool
}

// Def is a lowered function/procedure/value definition: spec.md §4.4 step 4.
// Kind distinguishes Func (pure) from Proc (effectful), decided by the
// trailing-bang convention alone; effectcheck reports violations but does
// not change Kind.
type Def struct {
	base
	ID      DefID
	Name    string
	Kind    types.SubrKind
	Params  []Param
	Body    []Node
	SigType types.Type // the Subr (or Quantified wrapping one) this def was generalized to
	Info    symbols.VarInfo
}

func (*Def) hir() {}

// ClassDef is a lowered class/trait definition (spec.md §3 "ClassDef").
type ClassDef struct {
	base
	ID       DefID
	Name     string
	Require  types.Type
	Impl     types.Type
	Methods  []*Def
	Supers   []types.Type
}

func (*ClassDef) hir() {}

// PatchDef is a lowered patch definition extending an existing (possibly
// foreign) type with additional methods.
type PatchDef struct {
	base
	ID      DefID
	Target  types.Type
	Methods []*Def
}

func (*PatchDef) hir() {}

// AttrDef is one flattened `C.x: T` declaration produced from a Methods
// block in declaration mode (spec.md §4.1.c).
type AttrDef struct {
	base
	Owner string
	Name  string
	Type  types.Type
}

func (*AttrDef) hir() {}

// PatternBind is a desugared destructuring binding: one indexed/keyed
// projection per element (spec.md §4.4 step 6).
type PatternBind struct {
	base
	Name  string
	Value Node // p[i] or p["key"], already lowered
}

func (*PatternBind) hir() {}

// Import is a resolved import directive, delegated to the package build
// driver (spec.md §4.8) which supplies the imported module's lowered items.
type Import struct {
	base
	Py         bool
	ModuleName string
	Resolved   *InlineModule // nil until the build driver fills it in
}

func (*Import) hir() {}

// InlineModule is an imported module folded into the importer's HIR tree:
// the imported module's top-level items for an ordinary import, or no items
// at all for an ancestor-cycle import (spec.md §4.8 "inc_ref / cyclic
// fallback").
type InlineModule struct {
	Path  string
	Items []Node
}

// Failure is a placeholder HIR node substituted for an expression the
// lowerer could not check, carrying types.Failure so downstream passes can
// keep walking without a nil check (spec.md §7 "Recovery").
type Failure struct {
	base
	Reason string
}

func (*Failure) hir() {}

// Module is one lowered source file: spec.md §3 "Module" / §6.
type Module struct {
	Path    string
	Items   []Node
	Context *ctx.Context
}

// Constructors. base is unexported so every node's Span/Type pair is set in
// one place; internal/lower builds nodes through these.

func NewLiteral(sp source.Span, t types.Type, kind LiteralKind, text string) *Literal {
	return &Literal{base: base{Span: sp, Type: t}, Kind: kind, Text: text}
}

func NewVarRef(sp source.Span, t types.Type, name string, info symbols.VarInfo) *VarRef {
	return &VarRef{base: base{Span: sp, Type: t}, Name: name, Info: info}
}

func NewAttrAccess(sp source.Span, t types.Type, obj Node, name string, info symbols.VarInfo) *AttrAccess {
	return &AttrAccess{base: base{Span: sp, Type: t}, Obj: obj, Name: name, Info: info}
}

func NewIndex(sp source.Span, t types.Type, obj, index Node, info symbols.VarInfo) *Index {
	return &Index{base: base{Span: sp, Type: t}, Obj: obj, Index: index, Info: info}
}

func NewCall(sp source.Span, t types.Type, callee Node, args []Arg, info symbols.VarInfo) *Call {
	return &Call{base: base{Span: sp, Type: t}, Callee: callee, Args: args, Info: info}
}

func NewDef(sp source.Span, t types.Type, id DefID, name string, kind types.SubrKind, params []Param, body []Node, sigType types.Type, info symbols.VarInfo) *Def {
	return &Def{base: base{Span: sp, Type: t}, ID: id, Name: name, Kind: kind, Params: params, Body: body, SigType: sigType, Info: info}
}

func NewClassDef(sp source.Span, t types.Type, id DefID, name string, require, impl types.Type, methods []*Def, supers []types.Type) *ClassDef {
	return &ClassDef{base: base{Span: sp, Type: t}, ID: id, Name: name, Require: require, Impl: impl, Methods: methods, Supers: supers}
}

func NewPatchDef(sp source.Span, t types.Type, id DefID, target types.Type, methods []*Def) *PatchDef {
	return &PatchDef{base: base{Span: sp, Type: t}, ID: id, Target: target, Methods: methods}
}

func NewAttrDef(sp source.Span, owner, name string, t types.Type) *AttrDef {
	return &AttrDef{base: base{Span: sp, Type: t}, Owner: owner, Name: name, Type: t}
}

func NewPatternBind(sp source.Span, t types.Type, name string, value Node) *PatternBind {
	return &PatternBind{base: base{Span: sp, Type: t}, Name: name, Value: value}
}

func NewImport(sp source.Span, py bool, moduleName string) *Import {
	return &Import{base: base{Span: sp, Type: types.Mono{Name: "NoneType"}}, Py: py, ModuleName: moduleName}
}

func NewFailure(sp source.Span, reason string) *Failure {
	return &Failure{base: base{Span: sp, Type: types.Failure}, Reason: reason}
}
