package source

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"fortio.org/safecast"
)

// FileSet is the append-only registry of every source file one compilation
// run touches: it assigns FileIDs, normalizes line endings and BOMs on
// load, and resolves a byte offset back into a LineCol for diagnostics. A
// FileSet is shared across an entire build — including, once
// internal/builddriver spawns one worker per imported module, across
// concurrent goroutines each loading a different file — so every mutating
// method takes mu.
type FileSet struct {
	mu      sync.RWMutex
	files   []File
	index   map[string]FileID // normalized path -> most recent FileID
	baseDir string            // base directory for FormatPath's "relative" mode
}

// NewFileSet returns an empty FileSet with no base directory set.
func NewFileSet() *FileSet {
	return &FileSet{
		files: make([]File, 0),
		index: make(map[string]FileID),
	}
}

// NewFileSetWithBase returns an empty FileSet rooted at baseDir.
func NewFileSetWithBase(baseDir string) *FileSet {
	return &FileSet{
		files:   make([]File, 0),
		index:   make(map[string]FileID),
		baseDir: baseDir,
	}
}

// SetBaseDir changes the directory FormatPath's "relative" mode resolves
// against.
func (fs *FileSet) SetBaseDir(dir string) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.baseDir = dir
}

// BaseDir returns the current base directory, falling back to the process
// working directory when none has been set explicitly.
func (fs *FileSet) BaseDir() string {
	fs.mu.RLock()
	dir := fs.baseDir
	fs.mu.RUnlock()
	if dir == "" {
		if wd, err := os.Getwd(); err == nil {
			return wd
		}
	}
	return dir
}

// Add records content under a fresh FileID, recomputing its line index and
// content hash. A path already present in the set is not overwritten in
// place: Add always mints a new ID and repoints the path index at it, so an
// older FileID (e.g. one already embedded in a diagnostic) keeps resolving
// to the content it was created against.
func (fs *FileSet) Add(path string, content []byte, flags FileFlags) FileID {
	hash := sha256.Sum256(content)
	lineIdx := buildLineIndex(content)
	normalizedPath := normalizePath(path)

	fs.mu.Lock()
	defer fs.mu.Unlock()

	n, err := safecast.Conv[uint32](len(fs.files))
	if err != nil {
		panic(fmt.Errorf("len files overflow: %w", err))
	}
	id := FileID(n)
	fs.files = append(fs.files, File{
		ID:      id,
		Path:    normalizedPath,
		Content: content,
		LineIdx: lineIdx,
		Hash:    hash,
		Flags:   flags,
	})
	fs.index[normalizedPath] = id
	return id
}

// Load reads path from disk, normalizes its BOM and line endings, and adds
// the result, recording which normalizations were applied in the returned
// File's Flags.
func (fs *FileSet) Load(path string) (FileID, error) {
	// #nosec G304 -- path is provided by the caller
	content, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}

	content, hadBOM := removeBOM(content)
	content, hadCRLF := normalizeCRLF(content)

	var flags FileFlags
	if hadBOM {
		flags |= FileHadBOM
	}
	if hadCRLF {
		flags |= FileNormalizedCRLF
	}
	return fs.Add(path, content, flags), nil
}

// AddVirtual adds an in-memory file (stdin, a test fixture, an editor
// buffer) tagged FileVirtual.
func (fs *FileSet) AddVirtual(name string, content []byte) FileID {
	return fs.Add(name, content, FileVirtual)
}

// Get returns the file recorded under id. Callers must only pass an id
// this FileSet itself returned.
func (fs *FileSet) Get(id FileID) *File {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	return &fs.files[id]
}

// GetLatest returns the most recently added FileID for path, if any file
// has been recorded under it.
func (fs *FileSet) GetLatest(path string) (FileID, bool) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	id, ok := fs.index[normalizePath(path)]
	return id, ok
}

// GetByPath returns the File most recently recorded under path, if any.
func (fs *FileSet) GetByPath(path string) (*File, bool) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	if id, ok := fs.index[normalizePath(path)]; ok {
		return &fs.files[id], true
	}
	return nil, false
}

// Resolve converts span's start and end byte offsets into line/column
// positions within its own file.
func (fs *FileSet) Resolve(span Span) (start, end LineCol) {
	fs.mu.RLock()
	f := fs.files[span.File]
	fs.mu.RUnlock()
	return toLineCol(f.LineIdx, span.Start), toLineCol(f.LineIdx, span.End)
}

// GetLine returns the 1-based lineNum'th line of f's content, without its
// trailing newline. An out-of-range lineNum returns "".
func (f *File) GetLine(lineNum uint32) string {
	if lineNum == 0 {
		return ""
	}

	lenLineIdx, err := safecast.Conv[uint32](len(f.LineIdx))
	if err != nil {
		panic(fmt.Errorf("line index length overflow: %w", err))
	}
	lenContent, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		panic(fmt.Errorf("content length overflow: %w", err))
	}

	var start, end uint32
	switch {
	case lineNum == 1:
		start = 0
	case (lineNum - 2) < lenLineIdx:
		start = f.LineIdx[lineNum-2] + 1
	default:
		return ""
	}

	if (lineNum - 1) < lenLineIdx {
		end = f.LineIdx[lineNum-1]
	} else {
		end = lenContent
	}

	if start >= lenContent {
		return ""
	}
	if end > lenContent {
		end = lenContent
	}
	return string(f.Content[start:end])
}

// sourceExts lists the suffixes internal/builddriver.SearchPath resolves
// an import through, longest/most-specific first, so a module can be
// named without its on-disk extension.
var sourceExts = []string{".d.er", ".er"}

// TrimSourceExt strips whichever recognized erg source extension path
// ends with. A path with no recognized extension is returned unchanged.
func TrimSourceExt(path string) string {
	for _, ext := range sourceExts {
		if strings.HasSuffix(path, ext) {
			return strings.TrimSuffix(path, ext)
		}
	}
	return path
}

// FormatPath renders f.Path for a diagnostic, according to mode:
//
//	"absolute" - filesystem-absolute
//	"relative" - relative to baseDir (falls back to the process cwd if baseDir is "")
//	"basename" - base name only, extension included
//	"module"   - base name with a recognized erg source extension trimmed
//	"auto"     - short or already-relative paths as-is, basename otherwise
//
// Any other mode returns f.Path unchanged.
func (f *File) FormatPath(mode, baseDir string) string {
	switch mode {
	case "absolute":
		if abs, err := AbsolutePath(f.Path); err == nil {
			return abs
		}
		return f.Path

	case "relative":
		if baseDir == "" {
			if wd, err := os.Getwd(); err == nil {
				baseDir = wd
			}
		}
		if rel, err := RelativePath(f.Path, baseDir); err == nil {
			return rel
		}
		return f.Path

	case "basename":
		return BaseName(f.Path)

	case "module":
		return TrimSourceExt(BaseName(f.Path))

	case "auto":
		if len(f.Path) < 40 || !filepath.IsAbs(f.Path) {
			return f.Path
		}
		return BaseName(f.Path)

	default:
		return f.Path
	}
}
