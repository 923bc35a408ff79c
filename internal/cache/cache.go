// Package cache stores fetched remote documents on disk, keyed by BLAKE3
// content hash and compressed with xz. A small in-memory LRU layer avoids
// re-reading blobs that are consulted repeatedly within one session.
package cache

import (
	"encoding/hex"
	"io"
	"os"
	"path/filepath"
	"regexp"

	"github.com/ulikunitz/xz"
	"github.com/zeebo/blake3"

	"github.com/scripturetools/twlforge/core/errors"
)

var hashPattern = regexp.MustCompile(`^[0-9a-f]{64}$`)

// Key computes the BLAKE3 content key for a blob.
func Key(data []byte) string {
	h := blake3.Sum256(data)
	return hex.EncodeToString(h[:])
}

// Store is an on-disk content-addressed blob store.
// Blobs live at <root>/blobs/<first2>/<key>.xz.
type Store struct {
	root string
	mem  *lru
}

// New opens (creating if needed) a store rooted at the given directory.
func New(root string) (*Store, error) {
	if err := os.MkdirAll(filepath.Join(root, "blobs"), 0o755); err != nil {
		return nil, errors.NewIO("create", root, err)
	}
	return &Store{root: root, mem: newLRU(64)}, nil
}

// Put stores a blob and returns its content key. Storing the same content
// twice is a no-op.
func (s *Store) Put(data []byte) (string, error) {
	key := Key(data)
	path := s.blobPath(key)

	if _, err := os.Stat(path); err == nil {
		s.mem.put(key, data)
		return key, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", errors.NewIO("create", filepath.Dir(path), err)
	}

	// Write compressed to a temp file, then rename into place so readers
	// never observe a partial blob.
	tmp, err := os.CreateTemp(filepath.Dir(path), ".blob-*")
	if err != nil {
		return "", errors.NewIO("create", path, err)
	}
	tmpPath := tmp.Name()

	xw, err := xz.NewWriter(tmp)
	if err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return "", errors.NewIO("compress", path, err)
	}
	if _, err := xw.Write(data); err != nil {
		xw.Close()
		tmp.Close()
		os.Remove(tmpPath)
		return "", errors.NewIO("write", path, err)
	}
	if err := xw.Close(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return "", errors.NewIO("compress", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return "", errors.NewIO("close", path, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return "", errors.NewIO("rename", path, err)
	}

	s.mem.put(key, data)
	return key, nil
}

// Get retrieves a blob by content key. Returns a *errors.NotFoundError when
// the key has never been stored.
func (s *Store) Get(key string) ([]byte, error) {
	if !hashPattern.MatchString(key) {
		return nil, errors.NewParse("blob key", "not a BLAKE3 hex digest")
	}
	if data, ok := s.mem.get(key); ok {
		return data, nil
	}

	f, err := os.Open(s.blobPath(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewNotFound("blob", key)
		}
		return nil, errors.NewIO("open", s.blobPath(key), err)
	}
	defer f.Close()

	xr, err := xz.NewReader(f)
	if err != nil {
		return nil, errors.NewIO("decompress", s.blobPath(key), err)
	}
	data, err := io.ReadAll(xr)
	if err != nil {
		return nil, errors.NewIO("read", s.blobPath(key), err)
	}

	s.mem.put(key, data)
	return data, nil
}

// Has reports whether the key is present in the store.
func (s *Store) Has(key string) bool {
	if !hashPattern.MatchString(key) {
		return false
	}
	if _, ok := s.mem.get(key); ok {
		return true
	}
	_, err := os.Stat(s.blobPath(key))
	return err == nil
}

func (s *Store) blobPath(key string) string {
	return filepath.Join(s.root, "blobs", key[:2], key+".xz")
}
