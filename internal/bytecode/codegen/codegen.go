// Package codegen assembles the minimal "code object" spec.md §4.11
// describes from a finished internal/hir.Module: just the constant and
// name tables the literal/name/constant subset of end-to-end scenario (f)
// needs, not a full instruction stream (lowering control flow to VM
// opcodes stays out of scope per spec.md §1). Grounded on
// original_source's compiler/erg_compiler/compile.rs top-level walk shape
// (collect constants and names while traversing the checked tree), far
// simplified since this pass only builds tables, not bytecode.
package codegen

import (
	"strconv"

	"ergc/internal/bytecode"
	"ergc/internal/hir"
)

// Build walks mod's top-level items and returns the Code object
// describing its literal constants and referenced names.
func Build(mod *hir.Module) *bytecode.Code {
	c := &collector{names: make(map[string]int)}
	for _, item := range mod.Items {
		c.walk(item)
	}
	return &bytecode.Code{
		Name:   mod.Path,
		Consts: c.consts,
		Names:  c.orderedNames,
	}
}

type collector struct {
	consts       []bytecode.Value
	names        map[string]int
	orderedNames []string
}

func (c *collector) addName(name string) {
	if name == "" {
		return
	}
	if _, ok := c.names[name]; ok {
		return
	}
	c.names[name] = len(c.orderedNames)
	c.orderedNames = append(c.orderedNames, name)
}

func (c *collector) walk(n hir.Node) {
	switch node := n.(type) {
	case *hir.Literal:
		c.consts = append(c.consts, literalValue(node))
	case *hir.VarRef:
		c.addName(node.Name)
	case *hir.AttrAccess:
		c.walk(node.Obj)
		c.addName(node.Name)
	case *hir.Index:
		c.walk(node.Obj)
		c.walk(node.Index)
	case *hir.Call:
		c.walk(node.Callee)
		for _, arg := range node.Args {
			c.addName(arg.Name)
			c.walk(arg.Value)
		}
	case *hir.Def:
		c.addName(node.Name)
		for _, p := range node.Params {
			c.addName(p.Name)
			if p.Default != nil {
				c.walk(p.Default)
			}
		}
		for _, stmt := range node.Body {
			c.walk(stmt)
		}
	case *hir.ClassDef:
		c.addName(node.Name)
		for _, m := range node.Methods {
			c.walk(m)
		}
	case *hir.PatchDef:
		for _, m := range node.Methods {
			c.walk(m)
		}
	case *hir.AttrDef:
		c.addName(node.Owner)
		c.addName(node.Name)
	case *hir.PatternBind:
		c.addName(node.Name)
		c.walk(node.Value)
	case *hir.Import:
		c.addName(node.ModuleName)
	case *hir.Failure:
		// carries no constant/name payload of its own.
	}
}

func literalValue(lit *hir.Literal) bytecode.Value {
	switch lit.Kind {
	case hir.LitInt:
		n, err := strconv.ParseInt(lit.Text, 10, 64)
		if err != nil {
			return bytecode.Str{Text: lit.Text}
		}
		return bytecode.Int(n)
	case hir.LitFloat, hir.LitRatio:
		f, err := strconv.ParseFloat(lit.Text, 64)
		if err != nil {
			return bytecode.Str{Text: lit.Text}
		}
		return bytecode.Float(f)
	case hir.LitBool:
		return bytecode.Bool(lit.Text == "True" || lit.Text == "true")
	case hir.LitNone:
		return bytecode.None{}
	case hir.LitStr:
		return bytecode.Str{Text: lit.Text, Interned: true}
	default:
		return bytecode.Str{Text: lit.Text}
	}
}
