package testutil_test

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/arthur-debert/webup/pkg/filesystem"
	"github.com/arthur-debert/webup/pkg/testutil"
	"github.com/arthur-debert/webup/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFakeDownloaderWritesIntoFS(t *testing.T) {
	fsys := filesystem.NewMemory()
	d := testutil.NewFakeDownloader(fsys).Serve("https://x/a.bin", []byte("abc"))

	require.NoError(t, d.Download(context.Background(), "https://x/a.bin", "/dl/a.bin"))
	data, err := fsys.ReadFile("/dl/a.bin")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(data))

	boom := stderrors.New("boom")
	d.FailOn("https://x/b.bin", boom)
	assert.ErrorIs(t, d.Download(context.Background(), "https://x/b.bin", "/dl/b.bin"), boom)
	assert.Equal(t, []string{"https://x/a.bin", "https://x/b.bin"}, d.Calls())
}

func TestFakeReposCreatesCheckout(t *testing.T) {
	fsys := filesystem.NewMemory()
	r := testutil.NewFakeRepos(fsys).WithFiles("https://git/repo", map[string]string{"asd/extension.txt": "x"})

	require.NoError(t, r.Clone(context.Background(), "https://git/repo", "/home/repo", "main"))
	_, err := fsys.Stat("/home/repo/.git")
	assert.NoError(t, err)
	_, err = fsys.Stat("/home/repo/asd/extension.txt")
	assert.NoError(t, err)

	require.NoError(t, r.Pull(context.Background(), "/home/repo", "main"))
	assert.Equal(t, []testutil.CloneCall{{URL: "https://git/repo", Dir: "/home/repo", Ref: "main"}}, r.Clones())
	assert.Equal(t, []testutil.PullCall{{Dir: "/home/repo", Branch: "main"}}, r.Pulls())
}

func TestCountingFS(t *testing.T) {
	c := testutil.NewCountingFS(filesystem.NewMemory())
	assert.Equal(t, 0, c.Calls())
	require.NoError(t, c.MkdirAll("/a", 0755))
	_, _ = c.Stat("/a")
	assert.Equal(t, 2, c.Calls())
}

func TestMockStateStore(t *testing.T) {
	s := testutil.NewMockStateStore().WithMarking(types.MarkingRecord{UI: "Forge", Tunnel: "custom"})

	require.NoError(t, s.SaveMarking(types.InstalledPatch(types.TargetA1111)))
	assert.Equal(t, map[string]string{"ui": "A1111", "launch_args": "", "tunnel": "custom"}, s.Marking())

	boom := stderrors.New("disk full")
	s.WithError("SaveEnvironmentConfig", boom)
	assert.ErrorIs(t, s.SaveEnvironmentConfig(types.EnvironmentConfig{}), boom)
	assert.Equal(t, []string{"SaveMarking(A1111)", "SaveEnvironmentConfig()"}, s.Calls())
}

func TestRecordingNotifierStages(t *testing.T) {
	n := &testutil.RecordingNotifier{}
	n.Notify(types.StageEvent{Stage: types.StageStart})
	n.Notify(types.StageEvent{Stage: types.StageFreshInstalling, Step: "a"})
	n.Notify(types.StageEvent{Stage: types.StageFreshInstalling, Step: "b"})
	n.Notify(types.StageEvent{Stage: types.StageDone})

	assert.Len(t, n.Events(), 4)
	assert.Equal(t, []types.Stage{types.StageStart, types.StageFreshInstalling, types.StageDone}, n.Stages())
}
