// Package source reads project text files once per run.
package source

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf8"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/farcloser/primordium/fault"
)

// ErrUndecodable is returned for files that are not valid UTF-8 text.
var ErrUndecodable = errors.New("not valid utf-8 text")

const defaultCacheSize = 512

// Reader returns decoded file contents relative to a project root, caching them.
// Files larger than the cache are read again on demand.
type Reader struct {
	root  string
	cache *lru.Cache[string, string]
}

// NewReader returns a Reader rooted at root.
func NewReader(root string) *Reader {
	// lru.New only fails on a non-positive size.
	cache, _ := lru.New[string, string](defaultCacheSize)

	return &Reader{root: root, cache: cache}
}

// Root returns the directory paths are resolved against.
func (r *Reader) Root() string {
	return r.root
}

// Abs returns the filesystem path of a root-relative path.
func (r *Reader) Abs(rel string) string {
	return filepath.Join(r.root, filepath.FromSlash(rel))
}

// Text returns the content of rel. A read failure wraps fault.ErrReadFailure; content that is
// not UTF-8 returns ErrUndecodable. Callers are expected to skip the file on either.
func (r *Reader) Text(rel string) (string, error) {
	if text, ok := r.cache.Get(rel); ok {
		return text, nil
	}

	data, err := os.ReadFile(r.Abs(rel))
	if err != nil {
		return "", fmt.Errorf("%w: %w", fault.ErrReadFailure, err)
	}

	if !utf8.Valid(data) {
		return "", fmt.Errorf("%w: %s", ErrUndecodable, rel)
	}

	text := string(data)
	r.cache.Add(rel, text)

	return text, nil
}

// Forget drops rel from the cache, after it has been rewritten.
func (r *Reader) Forget(rel string) {
	r.cache.Remove(rel)
}
