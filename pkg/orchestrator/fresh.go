package orchestrator

import (
	"context"
	"path/filepath"

	"github.com/arthur-debert/webup/pkg/layout"
	"github.com/arthur-debert/webup/pkg/types"
)

// freshInstall performs a full install of r.target. The marking record is
// only written once everything fatal has succeeded.
func (r *run) freshInstall(ctx context.Context) error {
	plan := layout.Plan(r.target, r.env)

	steps := []struct {
		name string
		fn   func(context.Context, types.InstallPlan) error
	}{
		{"runtime", r.provisionRuntime},
		{"repository", r.syncCore},
		{"support", r.installSupport},
		{"assets", r.fetchRequired},
		{"embeddings", r.extractEmbeddings},
		{"links", r.applyLinks},
		{"tools", r.installTools},
		{"extras", r.fetchSupplementary},
		{"extensions", r.installExtensions},
	}

	for _, s := range steps {
		if err := r.checkpoint(ctx); err != nil {
			return err
		}
		if err := s.fn(ctx, plan); err != nil {
			return err
		}
	}

	if err := r.checkpoint(ctx); err != nil {
		return err
	}
	r.step("marking", "Recording "+r.target.String()+" as installed")
	return r.store.SaveMarking(types.InstalledPatch(r.target))
}

func (r *run) syncCore(ctx context.Context, plan types.InstallPlan) error {
	repo := layout.CoreRepo(r.target, r.env)
	r.step("repository", "Cloning "+repo.URL)
	return r.pipeline.Sync(ctx, repo, "")
}

// installSupport merges the support overlay, or bootstraps .NET for
// SwarmUI. Neither is fatal.
func (r *run) installSupport(ctx context.Context, plan types.InstallPlan) error {
	if repo, ok := layout.SupportRepo(r.target, r.env); ok {
		r.step("support", "Merging support files from branch "+repo.Ref)
		if err := r.pipeline.Overlay(ctx, repo); err != nil {
			r.logger.Warn().Err(err).Msg("Support files unavailable, extensions will be skipped")
		}
		return nil
	}

	if r.target != types.TargetSwarmUI {
		return nil
	}
	r.step("support", "Installing .NET "+layout.DotnetChannel)
	script := types.DownloadItem{URL: layout.DotnetInstallURL, DestDir: plan.InstallDir}
	if err := r.pipeline.Download(ctx, script); err != nil {
		r.logger.Warn().Err(err).Msg("Skipping .NET install")
		return nil
	}
	_, err := r.pipeline.Runner().Run(ctx, plan.InstallDir, "bash", "./"+layout.DotnetInstallScript, "--channel", layout.DotnetChannel)
	if err != nil {
		r.logger.Warn().Err(err).Msg(".NET install failed")
	}
	return nil
}

func (r *run) fetchRequired(ctx context.Context, plan types.InstallPlan) error {
	r.step("assets", "Downloading VAE and embeddings")
	return r.pipeline.DownloadAll(ctx, layout.RequiredAssets(plan))
}

func (r *run) extractEmbeddings(ctx context.Context, plan types.InstallPlan) error {
	for _, archive := range layout.EmbeddingArchives(plan) {
		r.step("embeddings", "Extracting "+filepath.Base(archive))
		if err := r.pipeline.ExtractZip(archive, plan.EmbeddingsDir); err != nil {
			return err
		}
	}
	return nil
}

func (r *run) applyLinks(ctx context.Context, plan types.InstallPlan) error {
	r.step("links", "Linking model folders into "+plan.CacheRoot)
	return r.engine.Apply(ctx, plan)
}

func (r *run) fetchSupplementary(ctx context.Context, plan types.InstallPlan) error {
	r.step("extras", "Downloading scripts and upscalers")
	return r.pipeline.DownloadAll(ctx, layout.SupplementaryAssets(plan))
}

// installExtensions clones the overlay's extension list and the target's
// extra repositories. Failures of single extensions are logged.
func (r *run) installExtensions(ctx context.Context, plan types.InstallPlan) error {
	if !layout.ExtensionsEnabled(r.target) {
		return nil
	}
	fs := r.o.opts.FS
	if err := fs.MkdirAll(plan.ExtensionsDir, 0755); err != nil {
		r.logger.Warn().Err(err).Str("dir", plan.ExtensionsDir).Msg("Cannot create extensions dir")
		return nil
	}

	var repos []types.RepoItem
	listFile := layout.ExtensionListFile(plan)
	if data, err := fs.ReadFile(listFile); err != nil {
		r.logger.Warn().Err(err).Str("file", listFile).Msg("No extension list, skipping listed extensions")
	} else {
		repos = layout.ParseExtensionList(data, plan.ExtensionsDir)
	}
	if browser, ok := layout.BrowserExtension(plan, r.env); ok {
		repos = append(repos, browser)
	}

	r.step("extensions", "Installing extensions")
	if failed := r.pipeline.SyncAll(ctx, repos); failed > 0 {
		r.logger.Warn().Int("failed", failed).Int("total", len(repos)).Msg("Some extensions were not installed")
	}

	if models := layout.FaceRestoreModels(plan); len(models) > 0 {
		r.step("extensions", "Downloading face restore models")
		return r.pipeline.DownloadAll(ctx, models)
	}
	return nil
}
