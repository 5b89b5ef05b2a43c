package source

// Location is a byte- and line-column range within a source file. Unlike
// Span (which only carries the FileSet-local FileID), a Location carries
// the resolved line/column pair so it can be printed without a FileSet
// lookup, and is cheap to pass across goroutine boundaries.
type Location struct {
	File  FileID
	Start LineCol
	End   LineCol
	Byte  Span
}

// AbsLocation pairs a Location with the absolute path of the file it came
// from. Builtin VarInfo entries have no absolute path (Path == ""): the
// invariant "builtin entries have def_loc.module = None" from the Context
// contract is modeled as an empty Path, checked by IsBuiltin.
type AbsLocation struct {
	Path string
	Loc  Location
}

// IsBuiltin reports whether this location stands for a compiler-builtin
// definition site with no backing source file.
func (a AbsLocation) IsBuiltin() bool {
	return a.Path == ""
}

// Unknown is the zero AbsLocation, used when a definition site genuinely
// cannot be determined (e.g. the "does not exist" VarInfo sentinel).
var Unknown = AbsLocation{}

// IsUnknown reports whether this is the sentinel unknown location.
func (a AbsLocation) IsUnknown() bool {
	return a == Unknown
}

// NewLocation resolves a Span against a FileSet into a full Location.
func NewLocation(fs *FileSet, span Span) Location {
	start, end := fs.Resolve(span)
	return Location{File: span.File, Start: start, End: end, Byte: span}
}

// NewAbsLocation resolves a Span into an AbsLocation carrying the file's
// formatted absolute path.
func NewAbsLocation(fs *FileSet, span Span) AbsLocation {
	loc := NewLocation(fs, span)
	f := fs.Get(span.File)
	path := ""
	if f != nil {
		if abs, err := AbsolutePath(f.Path); err == nil {
			path = abs
		} else {
			path = f.Path
		}
	}
	return AbsLocation{Path: path, Loc: loc}
}

// Less provides a deterministic ordering used to sort diagnostics and
// reference-index entries by (path, line, column).
func (a AbsLocation) Less(b AbsLocation) bool {
	if a.Path != b.Path {
		return a.Path < b.Path
	}
	if a.Loc.Start.Line != b.Loc.Start.Line {
		return a.Loc.Start.Line < b.Loc.Start.Line
	}
	return a.Loc.Start.Col < b.Loc.Start.Col
}
