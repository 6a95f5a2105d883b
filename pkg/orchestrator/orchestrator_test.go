// pkg/orchestrator/orchestrator_test.go
// TEST TYPE: Integration Test
// DEPENDENCIES: In-memory filesystem, fake fetch collaborators
// PURPOSE: Test the install state machine end to end

package orchestrator_test

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"strings"
	"testing"

	"github.com/arthur-debert/webup/pkg/config"
	"github.com/arthur-debert/webup/pkg/credentials"
	"github.com/arthur-debert/webup/pkg/datastore"
	"github.com/arthur-debert/webup/pkg/errors"
	"github.com/arthur-debert/webup/pkg/fetch"
	"github.com/arthur-debert/webup/pkg/filesystem"
	"github.com/arthur-debert/webup/pkg/layout"
	"github.com/arthur-debert/webup/pkg/orchestrator"
	"github.com/arthur-debert/webup/pkg/paths"
	"github.com/arthur-debert/webup/pkg/testutil"
	"github.com/arthur-debert/webup/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var validKey = strings.Repeat("a", 32)

const (
	markingPath = "/kaggle/working/gutris1/marking.json"
	supportURL  = "https://github.com/gutris1/segsmaker"
	vaeURL      = "https://huggingface.co/stabilityai/sd-vae-ft-mse-original/resolve/main/vae-ft-mse-840000-ema-pruned.safetensors"
)

type harness struct {
	fs         *testutil.CountingFS
	downloader *testutil.FakeDownloader
	repos      *testutil.FakeRepos
	runner     *testutil.FakeRunner
	notifier   *testutil.RecordingNotifier
	cfg        *config.Config
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	mem := filesystem.NewMemory()
	h := &harness{
		fs:         testutil.NewCountingFS(mem),
		downloader: testutil.NewFakeDownloader(mem),
		repos:      testutil.NewFakeRepos(mem),
		runner:     testutil.NewFakeRunner(),
		notifier:   &testutil.RecordingNotifier{},
		cfg:        config.Defaults(),
	}

	// the embeddings archives must be real zips
	for _, name := range []string{layout.EmbeddingsArchive, layout.EmbeddingsXLArchive} {
		h.downloader.Serve("https://huggingface.co/gutris1/webui/resolve/main/misc/"+name, zipOf(t, map[string]string{name + ".pt": "emb"}))
	}
	return h
}

func (h *harness) orchestrator() *orchestrator.Orchestrator {
	return orchestrator.New(orchestrator.Options{
		FS:     h.fs,
		Repos:  h.repos,
		Runner: h.runner,
		Downloader: func(types.Credentials) fetch.Downloader {
			return h.downloader
		},
		Notifier: h.notifier,
		Config:   h.cfg,
		LookupEnv: func(key string) (string, bool) {
			if key == paths.EnvKaggleMarker {
				return "1", true
			}
			return "", false
		},
	})
}

func request(target string) orchestrator.Request {
	return orchestrator.Request{Input: credentials.Input{Target: target, APIKey: validKey}}
}

func readMarking(t *testing.T, fsys types.FS) map[string]interface{} {
	t.Helper()
	data, err := fsys.ReadFile(markingPath)
	require.NoError(t, err)
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &out))
	return out
}

func TestInvalidInputTouchesNothing(t *testing.T) {
	tests := []struct {
		name string
		req  orchestrator.Request
		code errors.ErrorCode
	}{
		{"short key", orchestrator.Request{Input: credentials.Input{Target: "A1111", APIKey: "short"}}, errors.ErrAPIKeyTooShort},
		{"unknown target", orchestrator.Request{Input: credentials.Input{Target: "Invoke", APIKey: validKey}}, errors.ErrInvalidTarget},
		{"bad override", orchestrator.Request{Input: credentials.Input{Target: "A1111", APIKey: validKey}, BaseDir: "/a\x00", HomeDir: "/b"}, errors.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			res := h.orchestrator().Run(context.Background(), tt.req)

			assert.Equal(t, types.StageAborted, res.Stage)
			assert.True(t, errors.IsErrorCode(res.Err, tt.code), "got %v", res.Err)
			assert.Equal(t, errors.CategoryConfiguration, errors.GetCategory(res.Err))
			assert.Equal(t, 0, h.fs.Calls())
			assert.Empty(t, h.downloader.Calls())
			assert.Empty(t, h.repos.Clones())
		})
	}
}

func TestFreshInstall(t *testing.T) {
	h := newHarness(t)
	h.repos.WithFiles(supportURL, map[string]string{
		"asd/extension.txt": "https://github.com/x/sd-webui-ext-one\n# skipped\nhttps://github.com/x/ext-two.git ext2\n",
	})

	res := h.orchestrator().Run(context.Background(), request("a1111"))
	require.NoError(t, res.Err)
	assert.Equal(t, types.StageDone, res.Stage)
	assert.Equal(t, types.TargetA1111, res.Target)
	assert.False(t, res.Updated)
	assert.Equal(t, types.EnvKaggle, res.Environment.Name)

	assert.Equal(t, map[string]interface{}{"ui": "A1111", "launch_args": "", "tunnel": ""}, readMarking(t, h.fs))

	// links exist under the A1111 layout
	target, err := h.fs.Readlink("/kaggle/working/A1111/models/Stable-diffusion/tmp_ckpt")
	require.NoError(t, err)
	assert.Equal(t, "/kaggle/temp/ckpt", target)

	// embeddings extracted and archives removed
	_, err = h.fs.Stat("/kaggle/working/A1111/embeddings/embeddings.zip.pt")
	assert.NoError(t, err)
	_, err = h.fs.Stat("/kaggle/working/A1111/embeddings.zip")
	assert.Error(t, err)

	// VAE renamed
	_, err = h.fs.Stat("/kaggle/working/A1111/models/VAE/sdxl_vae.safetensors")
	assert.NoError(t, err)

	// core repo, support overlay, listed extensions and the Kaggle browser fork
	var cloned []string
	for _, c := range h.repos.Clones() {
		cloned = append(cloned, c.URL)
	}
	assert.Contains(t, cloned, "https://github.com/AUTOMATIC1111/stable-diffusion-webui")
	assert.Contains(t, cloned, supportURL)
	assert.Contains(t, cloned, "https://github.com/x/sd-webui-ext-one")
	assert.Contains(t, cloned, "https://github.com/gutris1/sd-civitai-browser-plus-plus")
	_, err = h.fs.Stat("/kaggle/working/A1111/extensions/ext2/.git")
	assert.NoError(t, err)
	assert.Empty(t, h.repos.Pulls())

	// environment snapshot and credentials were persisted
	env, err := h.fs.ReadFile("/kaggle/working/gutris1/KANDANG.py")
	require.NoError(t, err)
	assert.Contains(t, string(env), "TEMPPATH = '/kaggle/temp'")
	_, err = h.fs.Stat("/kaggle/working/gutris1/api-key.json")
	assert.NoError(t, err)

	// tunnel tools installed into the bin dir
	_, err = h.fs.Stat("/usr/bin/cl")
	assert.NoError(t, err)
	assert.Contains(t, h.runner.Calls(), "chmod [+x /usr/bin/cl]")

	assert.Equal(t, []types.Stage{
		types.StageStart,
		types.StageValidatingInput,
		types.StageDetectingEnvironment,
		types.StageCheckingPriorInstall,
		types.StageFreshInstalling,
		types.StageDone,
	}, h.notifier.Stages())
}

func TestPriorInstallOnlyPulls(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.fs.MkdirAll("/kaggle/working/ComfyUI/.git", 0755))
	require.NoError(t, h.fs.MkdirAll("/kaggle/working/gutris1", 0755))
	require.NoError(t, h.fs.WriteFile(markingPath, []byte(`{"ui":"ComfyUI","launch_args":"","tunnel":"custom"}`), 0644))

	res := h.orchestrator().Run(context.Background(), request("ComfyUI"))
	require.NoError(t, res.Err)
	assert.Equal(t, types.StageDone, res.Stage)
	assert.True(t, res.Updated)

	assert.Equal(t, []testutil.PullCall{{Dir: "/kaggle/working/ComfyUI", Branch: "master"}}, h.repos.Pulls())
	assert.Empty(t, h.repos.Clones())
	assert.Empty(t, h.downloader.Calls())
	assert.Empty(t, h.runner.Calls())
	_, err := h.fs.Lstat("/kaggle/working/ComfyUI/models/checkpoints/tmp_ckpt")
	assert.Error(t, err, "no links on the update path")
	assert.Equal(t, "custom", readMarking(t, h.fs)["tunnel"])

	assert.Contains(t, h.notifier.Stages(), types.StageUpdatingExisting)
	assert.NotContains(t, h.notifier.Stages(), types.StageFreshInstalling)
}

func TestPriorInstallOfAnotherTargetIsUpdated(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.fs.MkdirAll("/kaggle/working/Forge/.git", 0755))
	require.NoError(t, h.fs.MkdirAll("/kaggle/working/gutris1", 0755))
	require.NoError(t, h.fs.WriteFile(markingPath, []byte(`{"ui":"Forge"}`), 0644))

	res := h.orchestrator().Run(context.Background(), request("A1111"))
	require.NoError(t, res.Err)
	assert.Equal(t, types.TargetForge, res.Target)
	assert.Equal(t, []testutil.PullCall{{Dir: "/kaggle/working/Forge", Branch: "main"}}, h.repos.Pulls())
}

func TestMarkingWithoutCheckoutInstallsFresh(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.fs.MkdirAll("/kaggle/working/gutris1", 0755))
	require.NoError(t, h.fs.WriteFile(markingPath, []byte(`{"ui":"SwarmUI"}`), 0644))

	res := h.orchestrator().Run(context.Background(), request("SwarmUI"))
	require.NoError(t, res.Err)
	assert.False(t, res.Updated)
	assert.Empty(t, h.repos.Pulls())

	// SwarmUI: no support overlay, .NET bootstrap, no extensions
	for _, c := range h.repos.Clones() {
		assert.NotEqual(t, supportURL, c.URL)
	}
	assert.Contains(t, h.runner.Calls(), "bash [./dotnet-install.sh --channel 8.0]")
	_, err := h.fs.Stat("/kaggle/working/SwarmUI/extensions")
	assert.Error(t, err)
}

func TestRequiredAssetFailure(t *testing.T) {
	h := newHarness(t)
	h.downloader.FailOn(vaeURL, stderrors.New("503 service unavailable"))

	res := h.orchestrator().Run(context.Background(), request("Forge"))
	assert.Equal(t, types.StageFailed, res.Stage)
	require.Error(t, res.Err)
	assert.Equal(t, errors.CategoryNetworkFetch, errors.GetCategory(res.Err))
	_, err := h.fs.Stat(markingPath)
	assert.Error(t, err, "marking must not be written on failure")

	// a rerun takes the fresh path again and succeeds
	h.downloader.FailOn(vaeURL, nil)
	res = h.orchestrator().Run(context.Background(), request("Forge"))
	require.NoError(t, res.Err)
	assert.Equal(t, types.StageDone, res.Stage)
	assert.False(t, res.Updated)
	assert.Empty(t, h.repos.Pulls())
	assert.Equal(t, "Forge", readMarking(t, h.fs)["ui"])
}

func TestSupplementaryFailuresAreTolerated(t *testing.T) {
	h := newHarness(t)
	h.downloader.FailOn("https://huggingface.co/gutris1/webui/resolve/main/misc/4x-UltraSharp.pth", stderrors.New("404"))
	h.repos.FailOn(supportURL, stderrors.New("branch not found"))

	res := h.orchestrator().Run(context.Background(), request("ReForge"))
	require.NoError(t, res.Err)
	assert.Equal(t, types.StageDone, res.Stage)
	assert.Equal(t, "ReForge", readMarking(t, h.fs)["ui"])
}

func TestCoreRepoFailure(t *testing.T) {
	h := newHarness(t)
	h.repos.FailOn("https://github.com/comfyanonymous/ComfyUI", errors.New(errors.ErrRepoClone, "clone failed"))

	res := h.orchestrator().Run(context.Background(), request("ComfyUI"))
	assert.Equal(t, types.StageFailed, res.Stage)
	assert.True(t, errors.IsErrorCode(res.Err, errors.ErrRepoClone))
	assert.Empty(t, h.downloader.Calls())
}

func TestCanceledBeforeStart(t *testing.T) {
	h := newHarness(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := h.orchestrator().Run(ctx, request("A1111"))
	assert.Equal(t, types.StageAborted, res.Stage)
	assert.True(t, errors.IsCanceled(res.Err))
	assert.Equal(t, errors.CategoryCanceled, errors.GetCategory(res.Err))
	assert.Equal(t, 0, h.fs.Calls())
}

// cancelingDownloader cancels the run on its first call
type cancelingDownloader struct {
	cancel context.CancelFunc
}

func (c *cancelingDownloader) Download(ctx context.Context, url, dest string) error {
	c.cancel()
	return ctx.Err()
}

func TestCanceledMidInstall(t *testing.T) {
	h := newHarness(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	o := orchestrator.New(orchestrator.Options{
		FS:     h.fs,
		Repos:  h.repos,
		Runner: h.runner,
		Downloader: func(types.Credentials) fetch.Downloader {
			return &cancelingDownloader{cancel: cancel}
		},
		Config:    h.cfg,
		LookupEnv: func(string) (string, bool) { return "", false },
		Getwd:     func() (string, error) { return "/work", nil },
	})

	res := o.Run(ctx, request("A1111"))
	assert.Equal(t, types.StageAborted, res.Stage)
	assert.True(t, errors.IsCanceled(res.Err))
	assert.Equal(t, types.EnvGeneric, res.Environment.Name)
	_, err := h.fs.Stat("/work/gutris1/marking.json")
	assert.Error(t, err)
}

func TestStateWriteFailureFails(t *testing.T) {
	h := newHarness(t)
	store := testutil.NewMockStateStore().WithError("SaveMarking", errors.New(errors.ErrStateWrite, "disk full"))

	notifier := &testutil.MockNotifier{}
	notifier.On("Notify", mock.Anything).Return()

	o := orchestrator.New(orchestrator.Options{
		FS:     h.fs,
		Repos:  h.repos,
		Runner: h.runner,
		Downloader: func(types.Credentials) fetch.Downloader {
			return h.downloader
		},
		Store:     func(types.Environment) datastore.StateStore { return store },
		Notifier:  notifier,
		Config:    h.cfg,
		LookupEnv: func(key string) (string, bool) { return "", key == paths.EnvColabMarker },
	})

	res := o.Run(context.Background(), request("ComfyUI"))
	assert.Equal(t, types.StageFailed, res.Stage)
	assert.Equal(t, errors.CategoryFilesystem, errors.GetCategory(res.Err))
	assert.Nil(t, store.Marking())
	assert.Contains(t, store.Calls(), "SaveEnvironmentConfig(Colab)")

	notifier.AssertCalled(t, "Notify", mock.MatchedBy(func(ev types.StageEvent) bool {
		return ev.Stage == types.StageFailed && ev.Err != nil
	}))
}
