package diag

// Code identifies a diagnostic's kind. The enumeration is intentionally
// closed (spec.md §7): every stage of the pipeline reports one of these
// kinds, never a free-form string, so that tooling (the message catalog,
// the language-server, JSON output) can switch over it exhaustively.
type Code uint16

const (
	UnknownCode Code = 0

	// Lexical.
	LexUnknownChar              Code = 1001
	LexUnterminatedString       Code = 1002
	LexUnterminatedBlockComment Code = 1003
	LexBadNumber                Code = 1004
	LexTokenTooLong             Code = 1005

	// Syntax.
	SyntaxError Code = 2000

	// Name / value resolution.
	NameError         Code = 3001
	UnboundLocalError Code = 3002
	KeyError          Code = 3003
	AttributeError    Code = 3004
	VisibilityError   Code = 3005
	NotConstExpr      Code = 3006
	InvalidLiteral    Code = 3007
	NotImplementedErr Code = 3008
	UnexpectedKwArg   Code = 3009

	// Typing.
	TypeError   Code = 3100
	ValueError  Code = 3101
	CyclicType  Code = 3102
	NotCallable Code = 3103

	// Effect / ownership.
	EffectError Code = 3200
	PurityError Code = 3201
	MoveError   Code = 3202

	// Feature / system.
	FeatureError        Code = 3300
	CompilerSystemError Code = 3301

	// Module graph (the module-level analogue of CyclicType: an import
	// cycle broken into an inline submodule per spec.md §4.8 step 3).
	CyclicReference Code = 3400
	DuplicateModule Code = 3401

	// Warnings.
	UnusedWarning     Code = 5000
	UnusedExprWarning Code = 5001
	SyntaxWarning     Code = 5002
)

// String renders a stable, lowercase machine-readable name for the code,
// used both in terminal diagnostics and JSON output.
func (c Code) String() string {
	switch c {
	case UnknownCode:
		return "unknown"
	case LexUnknownChar:
		return "lex-unknown-char"
	case LexUnterminatedString:
		return "lex-unterminated-string"
	case LexUnterminatedBlockComment:
		return "lex-unterminated-block-comment"
	case LexBadNumber:
		return "lex-bad-number"
	case LexTokenTooLong:
		return "lex-token-too-long"
	case SyntaxError:
		return "syntax-error"
	case NameError:
		return "name-error"
	case UnboundLocalError:
		return "unbound-local-error"
	case KeyError:
		return "key-error"
	case AttributeError:
		return "attribute-error"
	case VisibilityError:
		return "visibility-error"
	case NotConstExpr:
		return "not-const-expr"
	case InvalidLiteral:
		return "invalid-literal"
	case NotImplementedErr:
		return "not-implemented-error"
	case UnexpectedKwArg:
		return "unexpected-kwarg"
	case TypeError:
		return "type-error"
	case ValueError:
		return "value-error"
	case CyclicType:
		return "cyclic-type"
	case NotCallable:
		return "not-callable"
	case EffectError:
		return "effect-error"
	case PurityError:
		return "purity-error"
	case MoveError:
		return "move-error"
	case FeatureError:
		return "feature-error"
	case CompilerSystemError:
		return "compiler-system-error"
	case CyclicReference:
		return "cyclic-reference"
	case DuplicateModule:
		return "duplicate-module"
	case UnusedWarning:
		return "unused-warning"
	case UnusedExprWarning:
		return "unused-expr-warning"
	case SyntaxWarning:
		return "syntax-warning"
	default:
		return "unknown"
	}
}

// IsWarning reports whether the code belongs to the warning taxonomy
// rather than the error taxonomy.
func (c Code) IsWarning() bool {
	switch c {
	case UnusedWarning, UnusedExprWarning, SyntaxWarning:
		return true
	default:
		return false
	}
}
