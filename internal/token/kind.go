// Package token defines the lexical token kinds produced by the scanner.
//
// Invariants:
//   - Token.Text holds exactly the token's source bytes, as a string.
//   - Token.Span matches Text exactly (Start..End, byte offsets).
//   - An identifier immediately followed by '!' with no intervening
//     whitespace is lexed as a single BangIdent token (the source
//     language's syntactic marker for a procedure), not Ident + Bang.
package token

// Kind categorizes a single token.
type Kind uint8

const (
	Invalid Kind = iota
	EOF

	Ident     // plain identifier: x, compute
	BangIdent // effectful identifier: print!, f!

	IntLit
	FloatLit
	RatioLit
	StrLit
	BoolLit
	NoneLit

	KwImport
	KwPyImport
	KwClass
	KwInherit
	KwInheritable
	KwPatch
	KwMethods
	KwTrait
	KwSubsume
	KwIf
	KwElse
	KwMatch
	KwSelf
	KwPublic
	KwPrivate

	Plus
	Minus
	Star
	Slash
	FloorDiv
	Percent
	Caret
	Amp
	Pipe
	Bang     // prefix '!' mutation operator
	Assign   // '='
	Walrus   // ':=' (local const-style binding in some contexts)
	Arrow    // '->'
	FatArrow // '=>'
	Eq       // '=='
	Ne       // '!='
	Lt
	Le
	Gt
	Ge
	AndAnd
	OrOr

	LParen
	RParen
	LBracket
	RBracket
	LBrace
	RBrace
	Comma
	Colon
	Dot
	DotDot
	Semicolon
	At // '@' decorator sigil

	Newline
)

func (k Kind) String() string {
	switch k {
	case Invalid:
		return "invalid"
	case EOF:
		return "eof"
	case Ident:
		return "ident"
	case BangIdent:
		return "bang_ident"
	case IntLit:
		return "int_lit"
	case FloatLit:
		return "float_lit"
	case RatioLit:
		return "ratio_lit"
	case StrLit:
		return "str_lit"
	case BoolLit:
		return "bool_lit"
	case NoneLit:
		return "none_lit"
	case KwImport:
		return "kw_import"
	case KwPyImport:
		return "kw_pyimport"
	case KwClass:
		return "kw_class"
	case KwInherit:
		return "kw_inherit"
	case KwInheritable:
		return "kw_inheritable"
	case KwPatch:
		return "kw_patch"
	case KwMethods:
		return "kw_methods"
	case KwTrait:
		return "kw_trait"
	case KwSubsume:
		return "kw_subsume"
	case KwIf:
		return "kw_if"
	case KwElse:
		return "kw_else"
	case KwMatch:
		return "kw_match"
	case KwSelf:
		return "kw_self"
	case KwPublic:
		return "kw_public"
	case KwPrivate:
		return "kw_private"
	case Newline:
		return "newline"
	default:
		return "op"
	}
}

// keywords maps lowercase lexemes to their keyword Kind. Identifiers not in
// this table are plain Ident/BangIdent tokens; the built-in distinguished
// functions (Class, Inherit, Patch, ...) are deliberately lexed as plain
// identifiers and recognized structurally by the Reorderer (spec §4.1),
// matching the distinction the spec draws between "keyword" and
// "distinguished builtin name".
var keywords = map[string]Kind{
	"import":   KwImport,
	"pyimport": KwPyImport,
	"if":       KwIf,
	"else":     KwElse,
	"match":    KwMatch,
	"self":     KwSelf,
}

// LookupKeyword reports whether ident is a reserved keyword.
func LookupKeyword(ident string) (Kind, bool) {
	k, ok := keywords[ident]
	return k, ok
}
