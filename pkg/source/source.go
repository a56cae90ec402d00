// Package source abstracts where file content is read from: the working
// tree for the after side of an analysis, a git tree for the before side.
package source

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/ferrith/augur/internal/vcs"
)

// ContentSource provides file content from a specific source.
type ContentSource interface {
	// Read returns the content of the file at path.
	Read(path string) ([]byte, error)
}

// FilesystemSource reads files from the local filesystem.
type FilesystemSource struct{}

// NewFilesystem creates a source that reads from the filesystem.
func NewFilesystem() *FilesystemSource {
	return &FilesystemSource{}
}

// Read implements ContentSource.
func (f *FilesystemSource) Read(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// RootedSource resolves repository-relative paths against a fixed root
// directory. Diff paths are repository-relative, so the after side of an
// impact analysis reads through one of these.
type RootedSource struct {
	root string
}

// NewRooted creates a source anchored at root.
func NewRooted(root string) *RootedSource {
	return &RootedSource{root: root}
}

// Read implements ContentSource.
func (r *RootedSource) Read(path string) ([]byte, error) {
	return os.ReadFile(filepath.Join(r.root, path))
}

// TreeSource reads files from a git tree.
// It is safe for concurrent use by multiple goroutines.
type TreeSource struct {
	tree *vcs.Tree
	mu   sync.Mutex
}

// NewTree creates a source that reads from a git tree.
func NewTree(tree *vcs.Tree) *TreeSource {
	return &TreeSource{tree: tree}
}

// Read implements ContentSource.
func (t *TreeSource) Read(path string) ([]byte, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.tree.File(path)
}

// MapSource serves content from an in-memory map. Used in tests and for
// synthesized corpora.
type MapSource map[string][]byte

// Read implements ContentSource.
func (m MapSource) Read(path string) ([]byte, error) {
	if content, ok := m[path]; ok {
		return content, nil
	}
	return nil, os.ErrNotExist
}
