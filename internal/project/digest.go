package project

import "crypto/sha256"

// Digest is a SHA-256 content hash, the same shape internal/module and
// internal/source already use ([32]byte), kept as a named type here only
// so the disk cache's Combine helper reads clearly at call sites.
type Digest [32]byte

// Combine folds a module's own content hash together with its ordered
// dependency hashes into one aggregate digest, mirroring the teacher's
// Combine (H(content || dep1 || dep2 || ...)). The caller is responsible
// for supplying deps in a deterministic order (internal/module's graph
// edges are already sorted).
func Combine(content Digest, deps ...Digest) Digest {
	h := sha256.New()
	h.Write(content[:])
	for _, d := range deps {
		h.Write(d[:])
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}
