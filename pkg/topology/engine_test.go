// pkg/topology/engine_test.go
// TEST TYPE: Integration Test
// DEPENDENCIES: Real temp dir (symlinks), in-memory filesystem
// PURPOSE: Test link application, idempotence and verification

package topology_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/webup/pkg/errors"
	"github.com/arthur-debert/webup/pkg/filesystem"
	"github.com/arthur-debert/webup/pkg/layout"
	"github.com/arthur-debert/webup/pkg/topology"
	"github.com/arthur-debert/webup/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tempEnv(t *testing.T) types.Environment {
	t.Helper()
	root := t.TempDir()
	return types.Environment{
		Name:     types.EnvCustom,
		BasePath: filepath.Join(root, "base"),
		HomePath: filepath.Join(root, "home"),
	}
}

func TestApplyCreatesLinks(t *testing.T) {
	env := tempEnv(t)
	plan := layout.Plan(types.TargetA1111, env)
	engine := topology.NewEngine(filesystem.NewOS())

	require.NoError(t, engine.Apply(context.Background(), plan))

	for _, link := range plan.Links {
		target, err := os.Readlink(link.Dest)
		require.NoError(t, err, link.Dest)
		assert.Equal(t, link.Source, target)

		info, err := os.Stat(link.Source)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
	for _, dir := range plan.EnsureDirs {
		assert.DirExists(t, dir)
	}

	statuses, err := engine.Verify(plan)
	require.NoError(t, err)
	assert.True(t, topology.Healthy(statuses))
}

func TestApplyIsIdempotent(t *testing.T) {
	env := tempEnv(t)
	plan := layout.Plan(types.TargetForge, env)
	engine := topology.NewEngine(filesystem.NewOS())

	require.NoError(t, engine.Apply(context.Background(), plan))
	require.NoError(t, engine.Apply(context.Background(), plan))

	statuses, err := engine.Verify(plan)
	require.NoError(t, err)
	assert.Len(t, statuses, len(plan.Links))
	assert.True(t, topology.Healthy(statuses))
}

func TestApplyReplacesExistingDestinations(t *testing.T) {
	env := tempEnv(t)
	plan := layout.Plan(types.TargetComfyUI, env)
	engine := topology.NewEngine(filesystem.NewOS())

	// a real directory where a link belongs, and a stale file in the cache
	blocker := plan.Links[0].Dest
	require.NoError(t, os.MkdirAll(blocker, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(blocker, "old.safetensors"), []byte("x"), 0644))
	stale := filepath.Join(plan.Links[0].Source, "stale.bin")
	require.NoError(t, os.MkdirAll(plan.Links[0].Source, 0755))
	require.NoError(t, os.WriteFile(stale, []byte("x"), 0644))

	// files in cache dirs this target does not link survive
	unrelated := filepath.Join(env.CachePath(), "z123", "keep.bin")
	require.NoError(t, os.MkdirAll(filepath.Dir(unrelated), 0755))
	require.NoError(t, os.WriteFile(unrelated, []byte("x"), 0644))

	require.NoError(t, engine.Apply(context.Background(), plan))

	target, err := os.Readlink(blocker)
	require.NoError(t, err)
	assert.Equal(t, plan.Links[0].Source, target)
	assert.NoFileExists(t, stale)
	assert.FileExists(t, unrelated)
}

func TestApplyFailureNamesThePair(t *testing.T) {
	env := tempEnv(t)
	plan := layout.Plan(types.TargetA1111, env)

	// a file where the destination's parent directory must go
	parent := filepath.Dir(plan.Links[0].Dest)
	require.NoError(t, os.MkdirAll(filepath.Dir(parent), 0755))
	require.NoError(t, os.WriteFile(parent, []byte("x"), 0644))

	err := topology.NewEngine(filesystem.NewOS()).Apply(context.Background(), plan)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrSymlinkCreate))
	assert.Equal(t, errors.CategoryFilesystem, errors.GetCategory(err))
	details := errors.GetErrorDetails(err)
	assert.Equal(t, plan.Links[0].Source, details["source"])
	assert.Equal(t, plan.Links[0].Dest, details["dest"])
}

func TestApplyCanceled(t *testing.T) {
	env := tempEnv(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := topology.NewEngine(filesystem.NewOS()).Apply(ctx, layout.Plan(types.TargetSwarmUI, env))
	require.Error(t, err)
	assert.True(t, errors.IsCanceled(err))
}

func TestVerifyStates(t *testing.T) {
	env := tempEnv(t)
	plan := layout.Plan(types.TargetA1111, env)
	engine := topology.NewEngine(filesystem.NewOS())
	require.NoError(t, engine.Apply(context.Background(), plan))

	// dangling: source removed; wrong target; missing
	require.NoError(t, os.RemoveAll(plan.Links[0].Source))
	require.NoError(t, os.Remove(plan.Links[1].Dest))
	require.NoError(t, os.Symlink("/elsewhere", plan.Links[1].Dest))
	require.NoError(t, os.Remove(plan.Links[2].Dest))

	statuses, err := engine.Verify(plan)
	require.NoError(t, err)
	require.Len(t, statuses, 3)
	assert.Equal(t, topology.LinkDangling, statuses[0].State)
	assert.Equal(t, topology.LinkWrongDest, statuses[1].State)
	assert.Equal(t, "/elsewhere", statuses[1].Actual)
	assert.Equal(t, topology.LinkMissing, statuses[2].State)
	assert.False(t, topology.Healthy(statuses))
}

func TestApplyOnMemoryFS(t *testing.T) {
	fsys := filesystem.NewMemory()
	env := types.Environment{Name: types.EnvKaggle, BasePath: "/kaggle", HomePath: "/kaggle/working"}
	plan := layout.Plan(types.TargetReForge, env)

	engine := topology.NewEngine(fsys)
	require.NoError(t, engine.Apply(context.Background(), plan))

	target, err := fsys.Readlink("/kaggle/working/ReForge/models/svd")
	require.NoError(t, err)
	assert.Equal(t, "/kaggle/temp/svd", target)
}
