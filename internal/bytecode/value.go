package bytecode

// Value is the small sum of marshallable constants the codegen package
// needs for the literal/name/constant subset spec.md §4.11 scopes this
// codec to.
type Value interface {
	value()
}

type Int int64

func (Int) value() {}

type Float float64

func (Float) value() {}

type Bool bool

func (Bool) value() {}

type None struct{}

func (None) value() {}

// Str is a string constant. Interned marks it as eligible for
// back-referencing: the second and later Writer.WriteValue call for an
// Interned string with identical content emits a PrefixRef instead of
// repeating the bytes (spec.md §6 table: "r ... back-reference to a
// previously seen interned object").
type Str struct {
	Text     string
	Interned bool
}

func (Str) value() {}

// Tuple is a fixed sequence of constants, e.g. a function's name tuple or
// a code object's co_consts.
type Tuple []Value

func (Tuple) value() {}

// Code is the minimal "code object" spec.md §4.11 calls for: just the
// constant and name tables a codegen pass over HIR's literal/name subset
// produces, not a full instruction stream (control-flow lowering to VM
// opcodes is out of scope per spec.md §1).
type Code struct {
	Name      string
	Consts    []Value
	Names     []string
	ArgCount  uint32
}

func (*Code) value() {}
