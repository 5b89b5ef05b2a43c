// Package ast defines the tree the parser produces and the lowerer consumes
// (spec.md §3/§6). Unlike the teacher's arena-indexed expression/statement
// split, nodes here are plain pointer-typed structs implementing a small
// Node interface: the lowerer and later HIR attach a Type and VarInfo
// directly onto resolved identifiers, which wants node identity rather than
// an index into a shared arena. See DESIGN.md for the tradeoff.
package ast

import "ergc/internal/source"

// Node is implemented by every AST node kind.
type Node interface {
	Pos() source.Span
	node()
}

type span struct{ Span source.Span }

func (s span) Pos() source.Span { return s.Span }

// Visibility marks whether an identifier was written with the leading dot
// convention ( .name ) that the source language uses for public bindings.
type Visibility uint8

const (
	VisPrivate Visibility = iota
	VisPublic
)

// Literal is a constant token: int, float, ratio, string, bool or none.
type Literal struct {
	span
	Kind LiteralKind
	Text string
}

func (*Literal) node() {}

type LiteralKind uint8

const (
	LitInt LiteralKind = iota
	LitFloat
	LitRatio
	LitStr
	LitBool
	LitNone
)

// Identifier is a name reference, possibly effectful (trailing '!').
type Identifier struct {
	span
	Name      string
	Vis       Visibility
	Effectful bool
}

func (*Identifier) node() {}

// Attribute is `obj.name` (or `obj.name!` when Effectful).
type Attribute struct {
	span
	Obj       Node
	Name      string
	Effectful bool
}

func (*Attribute) node() {}

// Subscript is `obj[index]`.
type Subscript struct {
	span
	Obj   Node
	Index Node
}

func (*Subscript) node() {}

// BinOp is a binary operator application, later desugared to a trait method
// call (`__add__`, …) by the lowerer (spec.md §4.4 step 3).
type BinOp struct {
	span
	Op       string
	Lhs, Rhs Node
}

func (*BinOp) node() {}

// UnaryOp is a prefix operator application (`-x`, `!x`, `not x`).
type UnaryOp struct {
	span
	Op  string
	Arg Node
}

func (*UnaryOp) node() {}

// Arg is one call argument; Name is empty for positional arguments.
type Arg struct {
	Name  string
	Value Node
}

// CallArgs groups a call's positional, keyword and variadic arguments.
type CallArgs struct {
	Pos      []Node
	Kw       []Arg
	Variadic Node // nil unless the call spreads a trailing *args expression
}

// Call is a function/procedure application.
type Call struct {
	span
	Callee Node
	Args   CallArgs
}

func (*Call) node() {}

// Param describes one definition parameter: optional type spec, optional
// default value, and a variadic marker for a trailing *args parameter.
type Param struct {
	Name     string
	TypeSpec Node // nil when unannotated
	Default  Node // nil when required
	Variadic bool
}

// Sig is a definition's signature: name, parameters, optional return spec.
type Sig struct {
	Name       string
	Params     []Param
	ReturnSpec Node // nil when inferred
}

// Lambda is an anonymous subroutine literal.
type Lambda struct {
	span
	Params []Param
	Body   []Node
}

func (*Lambda) node() {}

// Def is a top-level or nested function/procedure/variable definition.
// Whether it denotes Func or Proc is decided by the trailing '!' on Sig.Name
// alone; the side-effect checker's analysis of Body does not change it.
type Def struct {
	span
	Sig  Sig
	Body []Node
}

func (*Def) node() {}

// Methods is a `ClassSpec.{ ... }` block gathered by the Reorderer and
// attached to the matching ClassDef/PatchDef (spec.md §4.1.b).
type Methods struct {
	span
	ClassSpec string
	Attrs     []Node // Def or TypeAscription entries
}

func (*Methods) node() {}

// ClassDef is recognized by the Reorderer from a `Class(...)`/`Inherit(...)`
// call and carries any Methods blocks later attached to it.
type ClassDef struct {
	span
	Def         Def
	Builtin     string // "Class", "Inherit", "Inheritable"
	RequirePart Node   // the requirement/super type expression
	ImplPart    Node   // optional Impl argument
	MethodsList []*Methods
}

func (*ClassDef) node() {}

// PatchDef mirrors ClassDef for `Patch(...)` definitions.
type PatchDef struct {
	span
	Def         Def
	Target      Node
	MethodsList []*Methods
}

func (*PatchDef) node() {}

// TypeAscription is `expr: t_spec`.
type TypeAscription struct {
	span
	Expr     Node
	TypeSpec Node
}

func (*TypeAscription) node() {}

// PatternKind distinguishes the destructuring shapes spec.md §4.4.6 names.
type PatternKind uint8

const (
	PatternArray PatternKind = iota
	PatternTuple
	PatternRecord
)

// PatternElem is one element of a destructuring pattern; Key is set only
// for PatternRecord elements.
type PatternElem struct {
	Key  string
	Name string
}

// PatternBinding desugars to a sequence of indexed/keyed projections by the
// lowerer (spec.md §4.4 step 6): `x = p[0]`, `y = p[1]`, …
type PatternBinding struct {
	span
	Kind  PatternKind
	Elems []PatternElem
	Value Node
}

func (*PatternBinding) node() {}

// ImportCall is the distinguished `import`/`pyimport` builtin call that the
// lowerer delegates to the package build driver (spec.md §4.8).
type ImportCall struct {
	span
	Py         bool
	ModuleName string
}

func (*ImportCall) node() {}

// Dummy is a placeholder node the parser inserts at a recovery point so the
// rest of the pipeline has something to skip over without a nil check.
type Dummy struct {
	span
	Reason string
}

func (*Dummy) node() {}

// File is a parsed source file: an ordered list of top-level statements.
type File struct {
	Path  string
	Items []Node
}

// Constructors. The span field behind Node.Pos() is unexported so that every
// node's position is set in one place; callers outside this package (the
// parser) build nodes through these rather than composite-literal-ing the
// embedded helper directly.

func NewLiteral(sp source.Span, kind LiteralKind, text string) *Literal {
	return &Literal{span: span{Span: sp}, Kind: kind, Text: text}
}

func NewIdentifier(sp source.Span, name string, vis Visibility, effectful bool) *Identifier {
	return &Identifier{span: span{Span: sp}, Name: name, Vis: vis, Effectful: effectful}
}

func NewAttribute(sp source.Span, obj Node, name string, effectful bool) *Attribute {
	return &Attribute{span: span{Span: sp}, Obj: obj, Name: name, Effectful: effectful}
}

func NewSubscript(sp source.Span, obj, index Node) *Subscript {
	return &Subscript{span: span{Span: sp}, Obj: obj, Index: index}
}

func NewBinOp(sp source.Span, op string, lhs, rhs Node) *BinOp {
	return &BinOp{span: span{Span: sp}, Op: op, Lhs: lhs, Rhs: rhs}
}

func NewUnaryOp(sp source.Span, op string, arg Node) *UnaryOp {
	return &UnaryOp{span: span{Span: sp}, Op: op, Arg: arg}
}

func NewCall(sp source.Span, callee Node, args CallArgs) *Call {
	return &Call{span: span{Span: sp}, Callee: callee, Args: args}
}

func NewLambda(sp source.Span, params []Param, body []Node) *Lambda {
	return &Lambda{span: span{Span: sp}, Params: params, Body: body}
}

func NewDef(sp source.Span, sig Sig, body []Node) *Def {
	return &Def{span: span{Span: sp}, Sig: sig, Body: body}
}

func NewMethods(sp source.Span, classSpec string, attrs []Node) *Methods {
	return &Methods{span: span{Span: sp}, ClassSpec: classSpec, Attrs: attrs}
}

func NewClassDef(sp source.Span, def Def, builtin string, require, impl Node) *ClassDef {
	return &ClassDef{span: span{Span: sp}, Def: def, Builtin: builtin, RequirePart: require, ImplPart: impl}
}

func NewPatchDef(sp source.Span, def Def, target Node) *PatchDef {
	return &PatchDef{span: span{Span: sp}, Def: def, Target: target}
}

func NewTypeAscription(sp source.Span, expr, typeSpec Node) *TypeAscription {
	return &TypeAscription{span: span{Span: sp}, Expr: expr, TypeSpec: typeSpec}
}

func NewPatternBinding(sp source.Span, kind PatternKind, elems []PatternElem, value Node) *PatternBinding {
	return &PatternBinding{span: span{Span: sp}, Kind: kind, Elems: elems, Value: value}
}

func NewImportCall(sp source.Span, py bool, moduleName string) *ImportCall {
	return &ImportCall{span: span{Span: sp}, Py: py, ModuleName: moduleName}
}

func NewDummy(sp source.Span, reason string) *Dummy {
	return &Dummy{span: span{Span: sp}, Reason: reason}
}
