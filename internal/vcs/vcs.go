// Package vcs provides the git access used to reconstruct before-version
// file content for diff impact analysis.
package vcs

import (
	"errors"
	"fmt"
	"io"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// ErrNoBeforeVersion is returned when a path has no blob at the requested
// revision. Callers treat this as "before version unavailable", not as a
// failure.
var ErrNoBeforeVersion = errors.New("no before version for path")

// Repository wraps a go-git repository.
type Repository struct {
	repo *git.Repository
	root string
}

// Open opens a git repository, detecting .git in parent directories.
func Open(path string) (*Repository, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open repository at %s: %w", path, err)
	}

	root := path
	if wt, err := repo.Worktree(); err == nil {
		root = wt.Filesystem.Root()
	}

	return &Repository{repo: repo, root: root}, nil
}

// Root returns the working tree root of the repository.
func (r *Repository) Root() string {
	return r.root
}

// TreeAt returns the tree for a revision. An empty revision means HEAD.
func (r *Repository) TreeAt(rev string) (*Tree, error) {
	var hash plumbing.Hash

	if rev == "" {
		head, err := r.repo.Head()
		if err != nil {
			return nil, fmt.Errorf("resolve HEAD: %w", err)
		}
		hash = head.Hash()
	} else {
		resolved, err := r.repo.ResolveRevision(plumbing.Revision(rev))
		if err != nil {
			return nil, fmt.Errorf("resolve revision %s: %w", rev, err)
		}
		hash = *resolved
	}

	commit, err := r.repo.CommitObject(hash)
	if err != nil {
		return nil, fmt.Errorf("load commit %s: %w", hash, err)
	}

	tree, err := commit.Tree()
	if err != nil {
		return nil, fmt.Errorf("load tree for %s: %w", hash, err)
	}

	return &Tree{tree: tree}, nil
}

// Tree exposes file content from a git tree object.
type Tree struct {
	tree *object.Tree
}

// File returns the blob content at path, or ErrNoBeforeVersion if the
// path does not exist in the tree.
func (t *Tree) File(path string) ([]byte, error) {
	f, err := t.tree.File(path)
	if err != nil {
		if errors.Is(err, object.ErrFileNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNoBeforeVersion, path)
		}
		return nil, err
	}

	reader, err := f.Blob.Reader()
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	return io.ReadAll(reader)
}
