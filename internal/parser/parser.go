// Package parser implements a recursive-descent + Pratt expression parser
// producing the internal/ast tree directly (spec.md §4.10, supplemental).
// Recovery happens at statement boundaries: a malformed statement is
// replaced with an ast.Dummy and parsing resumes at the next Newline,
// mirroring the lowerer's local-failure-and-continue policy rather than
// aborting the whole file.
package parser

import (
	"fmt"

	"ergc/internal/ast"
	"ergc/internal/diag"
	"ergc/internal/lexer"
	"ergc/internal/source"
	"ergc/internal/token"
)

// Parser holds the token stream and shared diagnostic reporter.
type Parser struct {
	fs      *source.FileSet
	file    source.FileID
	toks    []token.Token
	pos     int
	reports diag.Reporter
}

// New lexes file and returns a Parser positioned at its first token.
func New(fs *source.FileSet, file source.FileID, reports diag.Reporter) *Parser {
	lx := lexer.New(fs, file, reports)
	toks := lx.Tokenize()
	return &Parser{fs: fs, file: file, toks: toks, reports: reports}
}

// ParseFile parses a whole source file into an ast.File.
func (p *Parser) ParseFile() *ast.File {
	f := &ast.File{Path: p.fs.Get(p.file).Path}
	for !p.atEOF() {
		p.skipNewlines()
		if p.atEOF() {
			break
		}
		item := p.parseItem()
		if item != nil {
			f.Items = append(f.Items, item)
		}
	}
	return f
}

func (p *Parser) atEOF() bool { return p.peek().Kind == token.EOF }

func (p *Parser) peek() token.Token { return p.toks[p.pos] }

func (p *Parser) peekAt(off int) token.Token {
	idx := p.pos + off
	if idx >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[idx]
}

func (p *Parser) advance() token.Token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) skipNewlines() {
	for p.peek().Kind == token.Newline {
		p.advance()
	}
}

func (p *Parser) expect(k token.Kind) (token.Token, bool) {
	if p.peek().Kind == k {
		return p.advance(), true
	}
	p.errorf(p.peek().Span, "expected %s, found %s", k, p.peek().Kind)
	return token.Token{}, false
}

func (p *Parser) errorf(sp source.Span, format string, args ...interface{}) {
	if p.reports == nil {
		return
	}
	p.reports.Report(diag.SyntaxError, diag.SevError, sp, fmt.Sprintf(format, args...), nil, nil)
}

// recover skips tokens up to and including the next Newline, for statement
// boundary recovery (spec.md §4.10).
func (p *Parser) recover() ast.Node {
	start := p.peek().Span
	for p.peek().Kind != token.Newline && p.peek().Kind != token.EOF {
		p.advance()
	}
	if p.peek().Kind == token.Newline {
		p.advance()
	}
	return ast.NewDummy(start, "parse error")
}

// parseItem parses one top-level item: an import call, a definition, a
// Methods block, or an expression statement.
func (p *Parser) parseItem() (n ast.Node) {
	defer func() {
		if r := recover(); r != nil {
			n = p.recover()
		}
	}()
	switch p.peek().Kind {
	case token.KwImport, token.KwPyImport:
		return p.parseImport()
	}
	return p.parseStatementLike()
}

func (p *Parser) parseImport() ast.Node {
	start := p.peek().Span
	py := p.peek().Kind == token.KwPyImport
	p.advance()
	nameTok, ok := p.expect(token.StrLit)
	if !ok {
		return p.recover()
	}
	return ast.NewImportCall(span(start, nameTok.Span), py, nameTok.Text)
}

// parseStatementLike covers definitions (`name = expr` / `name(...) = body`),
// Methods blocks (`Name.{ ... }`), and bare expression statements.
func (p *Parser) parseStatementLike() ast.Node {
	if p.peek().Kind == token.Ident && p.peekAt(1).Kind == token.Dot && p.peekAt(2).Kind == token.LBrace {
		return p.parseMethods()
	}
	expr := p.parseExpr(0)
	switch p.peek().Kind {
	case token.Assign:
		p.advance()
		body := p.parseExpr(0)
		return defFromAssign(expr, body)
	case token.Colon:
		p.advance()
		typeSpec := p.parseExpr(0)
		return ast.NewTypeAscription(expr.Pos(), expr, typeSpec)
	}
	return expr
}

func defFromAssign(lhs ast.Node, body ast.Node) ast.Node {
	switch n := lhs.(type) {
	case *ast.Identifier:
		return ast.NewDef(n.Pos(), ast.Sig{Name: n.Name}, []ast.Node{body})
	case *ast.Call:
		if callee, ok := n.Callee.(*ast.Identifier); ok {
			params := make([]ast.Param, 0, len(n.Args.Pos))
			for _, a := range n.Args.Pos {
				switch arg := a.(type) {
				case *ast.Identifier:
					params = append(params, ast.Param{Name: arg.Name})
				case *ast.TypeAscription:
					if id, ok := arg.Expr.(*ast.Identifier); ok {
						params = append(params, ast.Param{Name: id.Name, TypeSpec: arg.TypeSpec})
					}
				}
			}
			return ast.NewDef(n.Pos(), ast.Sig{Name: callee.Name, Params: params}, []ast.Node{body})
		}
	}
	return ast.NewDef(lhs.Pos(), ast.Sig{Name: "_"}, []ast.Node{body})
}

func (p *Parser) parseMethods() ast.Node {
	start := p.peek().Span
	classTok, _ := p.expect(token.Ident)
	p.advance() // '.'
	p.expect(token.LBrace)
	var attrs []ast.Node
	for p.peek().Kind != token.RBrace && !p.atEOF() {
		p.skipNewlines()
		if p.peek().Kind == token.RBrace {
			break
		}
		attrs = append(attrs, p.parseStatementLike())
		p.skipNewlines()
	}
	end, _ := p.expect(token.RBrace)
	return ast.NewMethods(span(start, end.Span), classTok.Text, attrs)
}

func span(a, b source.Span) source.Span {
	return source.Span{File: a.File, Start: a.Start, End: b.End}
}

// --- Pratt expression parser -----------------------------------------------

// binding powers; higher binds tighter. Mirrors the usual arithmetic/
// comparison/logical precedence ladder.
var binPower = map[token.Kind][2]int{
	token.OrOr:     {1, 2},
	token.AndAnd:   {3, 4},
	token.Eq:       {5, 6},
	token.Ne:       {5, 6},
	token.Lt:       {5, 6},
	token.Le:       {5, 6},
	token.Gt:       {5, 6},
	token.Ge:       {5, 6},
	token.Plus:     {7, 8},
	token.Minus:    {7, 8},
	token.Star:     {9, 10},
	token.Slash:    {9, 10},
	token.FloorDiv: {9, 10},
	token.Percent:  {9, 10},
	token.Caret:    {14, 13}, // right-associative
}

func opText(k token.Kind) string {
	switch k {
	case token.Plus:
		return "+"
	case token.Minus:
		return "-"
	case token.Star:
		return "*"
	case token.Slash:
		return "/"
	case token.FloorDiv:
		return "//"
	case token.Percent:
		return "%"
	case token.Caret:
		return "^"
	case token.Eq:
		return "=="
	case token.Ne:
		return "!="
	case token.Lt:
		return "<"
	case token.Le:
		return "<="
	case token.Gt:
		return ">"
	case token.Ge:
		return ">="
	case token.AndAnd:
		return "&&"
	case token.OrOr:
		return "||"
	default:
		return ""
	}
}

// parseExpr parses an expression with binding power >= minBP (Pratt/
// precedence-climbing).
func (p *Parser) parseExpr(minBP int) ast.Node {
	lhs := p.parseUnary()
	for {
		pw, ok := binPower[p.peek().Kind]
		if !ok || pw[0] < minBP {
			break
		}
		opTok := p.advance()
		rhs := p.parseExpr(pw[1])
		lhs = ast.NewBinOp(span(lhs.Pos(), rhs.Pos()), opText(opTok.Kind), lhs, rhs)
	}
	return lhs
}

func (p *Parser) parseUnary() ast.Node {
	switch p.peek().Kind {
	case token.Minus, token.Bang:
		opTok := p.advance()
		arg := p.parseUnary()
		opStr := "-"
		if opTok.Kind == token.Bang {
			opStr = "!"
		}
		return ast.NewUnaryOp(span(opTok.Span, arg.Pos()), opStr, arg)
	}
	return p.parsePostfix()
}

func (p *Parser) parsePostfix() ast.Node {
	n := p.parsePrimary()
	for {
		switch p.peek().Kind {
		case token.Dot:
			p.advance()
			effectful := false
			nameTok, ok := p.expect(token.Ident)
			if !ok {
				if bt, ok2 := p.expect(token.BangIdent); ok2 {
					nameTok, effectful = bt, true
				} else {
					return n
				}
			}
			n = ast.NewAttribute(span(n.Pos(), nameTok.Span), n, nameTok.Text, effectful)
		case token.LBracket:
			p.advance()
			idx := p.parseExpr(0)
			end, _ := p.expect(token.RBracket)
			n = ast.NewSubscript(span(n.Pos(), end.Span), n, idx)
		case token.LParen:
			n = p.parseCallTail(n)
		default:
			return n
		}
	}
}

func (p *Parser) parseCallTail(callee ast.Node) ast.Node {
	p.advance() // '('
	var args ast.CallArgs
	for p.peek().Kind != token.RParen && !p.atEOF() {
		if p.peek().Kind == token.Ident && p.peekAt(1).Kind == token.Assign {
			name := p.advance().Text
			p.advance() // '='
			val := p.parseExpr(0)
			args.Kw = append(args.Kw, ast.Arg{Name: name, Value: val})
		} else {
			val := p.parseExpr(0)
			if p.peek().Kind == token.Colon {
				p.advance()
				typeSpec := p.parseExpr(0)
				val = ast.NewTypeAscription(span(val.Pos(), typeSpec.Pos()), val, typeSpec)
			}
			args.Pos = append(args.Pos, val)
		}
		if p.peek().Kind == token.Comma {
			p.advance()
			continue
		}
		break
	}
	end, _ := p.expect(token.RParen)
	return ast.NewCall(span(callee.Pos(), end.Span), callee, args)
}

func (p *Parser) parsePrimary() ast.Node {
	t := p.peek()
	switch t.Kind {
	case token.IntLit:
		p.advance()
		return ast.NewLiteral(t.Span, ast.LitInt, t.Text)
	case token.FloatLit:
		p.advance()
		return ast.NewLiteral(t.Span, ast.LitFloat, t.Text)
	case token.RatioLit:
		p.advance()
		return ast.NewLiteral(t.Span, ast.LitRatio, t.Text)
	case token.StrLit:
		p.advance()
		return ast.NewLiteral(t.Span, ast.LitStr, t.Text)
	case token.BoolLit:
		p.advance()
		return ast.NewLiteral(t.Span, ast.LitBool, t.Text)
	case token.NoneLit:
		p.advance()
		return ast.NewLiteral(t.Span, ast.LitNone, t.Text)
	case token.Ident:
		p.advance()
		vis := ast.VisPrivate
		return ast.NewIdentifier(t.Span, t.Text, vis, false)
	case token.BangIdent:
		p.advance()
		return ast.NewIdentifier(t.Span, t.Text, ast.VisPrivate, true)
	case token.KwSelf:
		p.advance()
		return ast.NewIdentifier(t.Span, "self", ast.VisPrivate, false)
	case token.LParen:
		p.advance()
		inner := p.parseExpr(0)
		p.expect(token.RParen)
		return inner
	default:
		p.errorf(t.Span, "unexpected token %s in expression", t.Kind)
		p.advance()
		return ast.NewDummy(t.Span, "unexpected token")
	}
}
