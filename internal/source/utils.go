package source

import (
	"path/filepath"
	"slices"
	"sort"
)

// normalizeCRLF rewrites every "\r\n" to "\n", leaving lone "\r" bytes
// untouched. changed reports whether any rewrite happened; when it's
// false, content is returned as-is without copying.
func normalizeCRLF(content []byte) (out []byte, changed bool) {
	if !slices.Contains(content, '\r') {
		return content, false
	}

	buf := make([]byte, 0, len(content))
	for i := 0; i < len(content); i++ {
		if content[i] == '\r' && i+1 < len(content) && content[i+1] == '\n' {
			buf = append(buf, '\n')
			i++
			changed = true
			continue
		}
		buf = append(buf, content[i])
	}
	return buf, changed
}

// removeBOM strips a leading UTF-8 byte-order mark, if present.
func removeBOM(content []byte) (out []byte, hadBOM bool) {
	if len(content) < 3 {
		return content, false
	}
	if content[0] == 0xEF && content[1] == 0xBB && content[2] == 0xBF {
		return content[3:], true
	}
	return content, false
}

// buildLineIndex records the byte offset of every '\n' in content, in
// ascending order. Line 1 always starts at offset 0; line k>1 starts at
// LineIdx[k-2]+1.
func buildLineIndex(content []byte) []uint32 {
	out := make([]uint32, 0, len(content))
	for i, b := range content {
		if b == '\n' {
			out = append(out, uint32(i))
		}
	}
	return out
}

// toLineCol converts a byte offset into a 1-based LineCol using a
// precomputed line index, via binary search over the newline offsets.
func toLineCol(lineIdx []uint32, off uint32) LineCol {
	if len(lineIdx) == 0 {
		return LineCol{Line: 1, Col: off + 1}
	}

	// i is the index of the first newline strictly after off.
	i := sort.Search(len(lineIdx), func(k int) bool { return lineIdx[k] > off })
	if i == 0 {
		return LineCol{Line: 1, Col: off + 1}
	}

	last := lineIdx[i-1]
	if off == last {
		// off sits exactly on a newline: treat it as the end of the
		// previous line rather than the start of the next.
		var start uint32
		if i-1 > 0 {
			start = lineIdx[i-2] + 1
		}
		return LineCol{Line: uint32(i), Col: last - start + 1}
	}

	start := last + 1
	return LineCol{Line: uint32(i + 1), Col: off - start + 1}
}

// normalizePath gives a path a single canonical spelling for map keys and
// cross-platform diffs: forward slashes, cleaned of "." and ".." segments.
func normalizePath(p string) string {
	return filepath.ToSlash(filepath.Clean(p))
}

// AbsolutePath returns path made absolute and normalized.
func AbsolutePath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path, err
	}
	return normalizePath(abs), nil
}

// RelativePath returns path expressed relative to base, normalized. If path
// lies outside base, or no relative path can be computed (different volumes
// on Windows, etc.), it falls back to path's normalized absolute form.
func RelativePath(path, base string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return path, err
	}
	absBase, err := filepath.Abs(base)
	if err != nil {
		return normalizePath(absPath), nil
	}
	rel, err := filepath.Rel(absBase, absPath)
	if err != nil {
		return normalizePath(absPath), nil
	}
	if r := filepath.ToSlash(rel); r == ".." || (len(r) >= 3 && r[:3] == "../") {
		return normalizePath(absPath), nil
	}
	return normalizePath(rel), nil
}

// BaseName returns path's final component, normalized.
func BaseName(path string) string {
	return normalizePath(filepath.Base(path))
}
