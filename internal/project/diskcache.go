package project

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// diskCacheSchemaVersion guards against decoding a payload written by an
// older, incompatible version of CachedModule. Bump it whenever the shape
// changes; Get rejects anything else rather than risk a misread.
const diskCacheSchemaVersion uint16 = 1

// CachedModule is the on-disk record for one compiled module, keyed by its
// ModuleHash, mirroring the teacher's DiskPayload. Spans are never cached
// (they are only meaningful against the FileSet of the run that produced
// them), so imports and files are stored as bare paths.
type CachedModule struct {
	Schema uint16

	Path string

	ImportPaths []string

	FilePaths  []string
	FileHashes []Digest

	ContentHash    Digest
	ModuleHash     Digest
	DependencyHash Digest

	Broken bool
}

// DiskCache is a thread-safe, msgpack-backed cache of CachedModule records
// on disk, one file per ModuleHash, grounded on the teacher's
// internal/driver/dcache.go DiskCache (same atomic-rename write, same
// XDG_CACHE_HOME-or-$HOME/.cache base location).
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// OpenDiskCache opens (creating if necessary) the standard disk cache
// location for app under the user's cache directory.
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	dir := filepath.Join(base, app)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

func (c *DiskCache) pathFor(key Digest) string {
	return filepath.Join(c.dir, "mods", hex.EncodeToString(key[:])+".mp")
}

// Put serializes and atomically writes payload under key.
func (c *DiskCache) Put(key Digest, payload *CachedModule) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	payload.Schema = diskCacheSchemaVersion
	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	tmpName := f.Name()
	defer os.Remove(tmpName)

	if err := msgpack.NewEncoder(f).Encode(payload); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, p)
}

// Get reads and deserializes the payload stored under key, if any. ok is
// false (with a nil error) when nothing is cached for key, or when what's
// cached was written by an incompatible schema version.
func (c *DiskCache) Get(key Digest) (*CachedModule, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer f.Close()

	var payload CachedModule
	if err := msgpack.NewDecoder(f).Decode(&payload); err != nil {
		return nil, false, err
	}
	if payload.Schema != diskCacheSchemaVersion {
		return nil, false, nil
	}
	return &payload, true, nil
}

// DropAll invalidates every cached entry, renaming the cache directory
// aside before removing it so a concurrent reader mid-Get never observes a
// half-deleted tree.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	old := fmt.Sprintf("%s.old-%s", c.dir, time.Now().Format("20060102150405"))
	if err := os.Rename(c.dir, old); err != nil {
		return err
	}
	return os.RemoveAll(old)
}
