package vcs

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func initRepo(t *testing.T) (string, *git.Worktree) {
	t.Helper()
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	wt, err := repo.Worktree()
	require.NoError(t, err)
	return dir, wt
}

func commitFile(t *testing.T, dir string, wt *git.Worktree, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	_, err := wt.Add(name)
	require.NoError(t, err)
	_, err = wt.Commit("add "+name, &git.CommitOptions{
		Author: &object.Signature{Name: "tester", Email: "tester@example.com", When: time.Now()},
	})
	require.NoError(t, err)
}

func TestTreeAtHead(t *testing.T) {
	dir, wt := initRepo(t)
	commitFile(t, dir, wt, "Order.java", "class Order {}")

	repo, err := Open(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, repo.Root())

	tree, err := repo.TreeAt("")
	require.NoError(t, err)

	content, err := tree.File("Order.java")
	require.NoError(t, err)
	assert.Equal(t, "class Order {}", string(content))
}

func TestTreeAtMissingFile(t *testing.T) {
	dir, wt := initRepo(t)
	commitFile(t, dir, wt, "Order.java", "class Order {}")

	repo, err := Open(dir)
	require.NoError(t, err)
	tree, err := repo.TreeAt("")
	require.NoError(t, err)

	_, err = tree.File("Missing.java")
	assert.ErrorIs(t, err, ErrNoBeforeVersion)
}

func TestTreeAtRevision(t *testing.T) {
	dir, wt := initRepo(t)
	commitFile(t, dir, wt, "Order.java", "class Order {}")
	commitFile(t, dir, wt, "Order.java", "class Order { int id; }")

	repo, err := Open(dir)
	require.NoError(t, err)

	tree, err := repo.TreeAt("HEAD~1")
	require.NoError(t, err)

	content, err := tree.File("Order.java")
	require.NoError(t, err)
	assert.Equal(t, "class Order {}", string(content))
}

func TestTreeAtBadRevision(t *testing.T) {
	dir, wt := initRepo(t)
	commitFile(t, dir, wt, "Order.java", "class Order {}")

	repo, err := Open(dir)
	require.NoError(t, err)

	_, err = repo.TreeAt("does-not-exist")
	assert.Error(t, err)
}

func TestOpenNonRepository(t *testing.T) {
	_, err := Open(t.TempDir())
	assert.Error(t, err)
}
