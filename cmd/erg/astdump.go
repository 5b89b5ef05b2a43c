package main

import (
	"fmt"
	"io"
	"strings"

	"ergc/internal/ast"
)

// dumpAST writes an indented s-expression rendering of file's items, in the
// spirit of the teacher's FormatASTTree but specialized to this package's
// pointer-typed Node kinds rather than its arena-indexed builder.
func dumpAST(w io.Writer, file *ast.File) {
	fmt.Fprintf(w, "(file %q\n", file.Path)
	for _, item := range file.Items {
		dumpNode(w, item, 1)
	}
	fmt.Fprintln(w, ")")
}

func indent(w io.Writer, depth int) {
	fmt.Fprint(w, strings.Repeat("  ", depth))
}

func dumpNode(w io.Writer, n ast.Node, depth int) {
	indent(w, depth)
	if n == nil {
		fmt.Fprintln(w, "nil")
		return
	}
	switch node := n.(type) {
	case *ast.Literal:
		fmt.Fprintf(w, "(literal %v %q)\n", node.Kind, node.Text)
	case *ast.Identifier:
		fmt.Fprintf(w, "(ident %s effectful=%v)\n", node.Name, node.Effectful)
	case *ast.Attribute:
		fmt.Fprintf(w, "(attr %s effectful=%v\n", node.Name, node.Effectful)
		dumpNode(w, node.Obj, depth+1)
		indent(w, depth)
		fmt.Fprintln(w, ")")
	case *ast.Subscript:
		fmt.Fprintln(w, "(subscript")
		dumpNode(w, node.Obj, depth+1)
		dumpNode(w, node.Index, depth+1)
		indent(w, depth)
		fmt.Fprintln(w, ")")
	case *ast.BinOp:
		fmt.Fprintf(w, "(binop %q\n", node.Op)
		dumpNode(w, node.Lhs, depth+1)
		dumpNode(w, node.Rhs, depth+1)
		indent(w, depth)
		fmt.Fprintln(w, ")")
	case *ast.UnaryOp:
		fmt.Fprintf(w, "(unop %q\n", node.Op)
		dumpNode(w, node.Arg, depth+1)
		indent(w, depth)
		fmt.Fprintln(w, ")")
	case *ast.Call:
		fmt.Fprintln(w, "(call")
		dumpNode(w, node.Callee, depth+1)
		for _, a := range node.Args.Pos {
			dumpNode(w, a, depth+1)
		}
		for _, kw := range node.Args.Kw {
			indent(w, depth+1)
			fmt.Fprintf(w, "(kwarg %s\n", kw.Name)
			dumpNode(w, kw.Value, depth+2)
			indent(w, depth+1)
			fmt.Fprintln(w, ")")
		}
		if node.Args.Variadic != nil {
			indent(w, depth+1)
			fmt.Fprintln(w, "(variadic")
			dumpNode(w, node.Args.Variadic, depth+2)
			indent(w, depth+1)
			fmt.Fprintln(w, ")")
		}
		indent(w, depth)
		fmt.Fprintln(w, ")")
	case *ast.Lambda:
		fmt.Fprintf(w, "(lambda params=%d\n", len(node.Params))
		for _, stmt := range node.Body {
			dumpNode(w, stmt, depth+1)
		}
		indent(w, depth)
		fmt.Fprintln(w, ")")
	case *ast.Def:
		fmt.Fprintf(w, "(def %s\n", node.Sig.Name)
		for _, stmt := range node.Body {
			dumpNode(w, stmt, depth+1)
		}
		indent(w, depth)
		fmt.Fprintln(w, ")")
	case *ast.ClassDef:
		fmt.Fprintf(w, "(class %s builtin=%s methods=%d)\n", node.Def.Sig.Name, node.Builtin, len(node.MethodsList))
	case *ast.PatchDef:
		fmt.Fprintf(w, "(patch %s methods=%d)\n", node.Def.Sig.Name, len(node.MethodsList))
	case *ast.TypeAscription:
		fmt.Fprintln(w, "(ascription")
		dumpNode(w, node.Expr, depth+1)
		dumpNode(w, node.TypeSpec, depth+1)
		indent(w, depth)
		fmt.Fprintln(w, ")")
	case *ast.PatternBinding:
		fmt.Fprintf(w, "(pattern-bind kind=%v elems=%d\n", node.Kind, len(node.Elems))
		dumpNode(w, node.Value, depth+1)
		indent(w, depth)
		fmt.Fprintln(w, ")")
	case *ast.ImportCall:
		fmt.Fprintf(w, "(import py=%v %q)\n", node.Py, node.ModuleName)
	case *ast.Dummy:
		fmt.Fprintf(w, "(dummy %q)\n", node.Reason)
	default:
		fmt.Fprintf(w, "(%T)\n", node)
	}
}
