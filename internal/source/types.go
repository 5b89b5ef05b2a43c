package source

// FileID identifies one source file recorded in a FileSet. IDs are handed
// out sequentially as files are added and are never reused, so a FileID
// captured from an older snapshot of a FileSet stays meaningful (if stale)
// rather than silently aliasing an unrelated file later.
type FileID uint32

// FileFlags records how a File entered its FileSet, for diagnostics and
// path-formatting decisions that care about provenance — a virtual file,
// for instance, has no on-disk path worth showing relative to a project
// root.
type FileFlags uint8

const (
	// FileVirtual marks a file added in memory rather than read from disk:
	// a test fixture, a language-server "open buffer", or piped stdin.
	FileVirtual FileFlags = 1 << iota
	// FileHadBOM marks a file whose UTF-8 byte-order mark was stripped on load.
	FileHadBOM
	// FileNormalizedCRLF marks a file whose line endings were rewritten
	// from CRLF to LF on load.
	FileNormalizedCRLF
)

// File holds one source file's content plus the metadata needed to
// translate a byte offset into a human-readable source.LineCol.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	LineIdx []uint32 // byte offset of every '\n' in Content, ascending
	Hash    [32]byte
	Flags   FileFlags
}

// HasFlag reports whether every bit in want is set on f's Flags.
func (f File) HasFlag(want FileFlags) bool {
	return f.Flags&want == want
}

// LineCol is a 1-based, human-readable source position — the form erg's
// diagnostic printer (internal/diagfmt) renders as "path:line:col".
type LineCol struct {
	Line uint32
	Col  uint32
}
