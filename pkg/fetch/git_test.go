// pkg/fetch/git_test.go
// TEST TYPE: Integration Test
// DEPENDENCIES: go-git, real temp dir
// PURPOSE: Test clone and pull against a local repository

package fetch_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/arthur-debert/webup/pkg/errors"
	"github.com/arthur-debert/webup/pkg/fetch"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func commitFile(t *testing.T, repo *git.Repository, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add(name)
	require.NoError(t, err)
	_, err = wt.Commit("add "+name, &git.CommitOptions{
		Author: &object.Signature{Name: "webup", Email: "webup@example.com", When: time.Now()},
	})
	require.NoError(t, err)
}

func TestGitSyncCloneAndPull(t *testing.T) {
	upstreamDir := t.TempDir()
	upstream, err := git.PlainInit(upstreamDir, false)
	require.NoError(t, err)
	commitFile(t, upstream, upstreamDir, "launch.py", "v1")

	g := fetch.NewGitSync(0)
	ctx := context.Background()
	checkout := filepath.Join(t.TempDir(), "A1111")

	require.NoError(t, g.Clone(ctx, upstreamDir, checkout, ""))
	data, err := os.ReadFile(filepath.Join(checkout, "launch.py"))
	require.NoError(t, err)
	assert.Equal(t, "v1", string(data))

	// nothing new upstream is still a success
	require.NoError(t, g.Pull(ctx, checkout, "master"))

	commitFile(t, upstream, upstreamDir, "launch.py", "v2")
	require.NoError(t, g.Pull(ctx, checkout, "master"))
	data, err = os.ReadFile(filepath.Join(checkout, "launch.py"))
	require.NoError(t, err)
	assert.Equal(t, "v2", string(data))
}

func TestGitSyncErrors(t *testing.T) {
	g := fetch.NewGitSync(1)
	ctx := context.Background()

	err := g.Clone(ctx, filepath.Join(t.TempDir(), "no-such-repo"), filepath.Join(t.TempDir(), "dst"), "")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrRepoClone))

	err = g.Pull(ctx, t.TempDir(), "main")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrRepoPull))
}
