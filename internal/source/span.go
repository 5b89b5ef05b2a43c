package source

import "fmt"

// Span is a half-open byte range [Start, End) within one File, identified
// by its FileID. Every positioned node in internal/ast and internal/hir
// carries one; internal/diag diagnostics anchor on one as their Primary
// location.
type Span struct {
	File  FileID
	Start uint32
	End   uint32
}

// Empty reports whether the span covers zero bytes.
func (s Span) Empty() bool { return s.Start == s.End }

// Len returns the span's width in bytes.
func (s Span) Len() uint32 { return s.End - s.Start }

func (s Span) String() string {
	return fmt.Sprintf("%d:%d-%d", s.File, s.Start, s.End)
}

// Cover returns the smallest span enclosing both s and other. A diagnostic's
// primary span must stay single-file, so spans from different files are
// left uncovered: s is returned unchanged.
func (s Span) Cover(other Span) Span {
	if s.File != other.File {
		return s
	}
	if other.Start < s.Start {
		s.Start = other.Start
	}
	if other.End > s.End {
		s.End = other.End
	}
	return s
}

// ExtendRight widens s rightward up to (not including) other's start, when
// other begins strictly after s ends. Used to stretch a token's span to
// cover trailing trivia up to the next token.
func (s Span) ExtendRight(other Span) Span {
	if s.File != other.File || s.End >= other.Start {
		return s
	}
	return Span{File: s.File, Start: s.Start, End: other.Start}
}

// ExtendLeft widens s leftward down to (not including) other's end, when
// other ends strictly before s starts.
func (s Span) ExtendLeft(other Span) Span {
	if s.File != other.File || s.Start <= other.End {
		return s
	}
	return Span{File: s.File, Start: other.End, End: s.End}
}

// IsLeftThan reports whether s starts before other within the same file.
func (s Span) IsLeftThan(other Span) bool {
	return s.File == other.File && s.Start < other.Start
}

// IsRightThan reports whether s ends after other within the same file.
func (s Span) IsRightThan(other Span) bool {
	return s.File == other.File && s.End > other.End
}

// ShiftLeft moves s backward by n bytes. A shift that would underflow
// Start is rejected and s is returned unchanged.
func (s Span) ShiftLeft(n uint32) Span {
	if n > s.Start {
		return s
	}
	return Span{File: s.File, Start: s.Start - n, End: s.End - n}
}

// ShiftRight moves s forward by n bytes. A shift wider than the span
// itself is rejected and s is returned unchanged, mirroring ShiftLeft's
// underflow guard.
func (s Span) ShiftRight(n uint32) Span {
	if n > s.End-s.Start {
		return s
	}
	return Span{File: s.File, Start: s.Start + n, End: s.End + n}
}

// ZeroideToStart collapses s to an empty span at its own start, for a fix
// edit that inserts text immediately before the original range.
func (s Span) ZeroideToStart() Span {
	return Span{File: s.File, Start: s.Start, End: s.Start}
}

// ZeroideToEnd collapses s to an empty span at its own end, for a fix edit
// that inserts text immediately after the original range.
func (s Span) ZeroideToEnd() Span {
	return Span{File: s.File, Start: s.End, End: s.End}
}
