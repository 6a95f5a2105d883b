package orchestrator

import (
	"context"
	"path/filepath"

	"github.com/arthur-debert/webup/pkg/layout"
	"github.com/arthur-debert/webup/pkg/types"
)

// provisionRuntime unpacks the portable Python runtime when enabled and
// not yet present.
func (r *run) provisionRuntime(ctx context.Context, plan types.InstallPlan) error {
	cfg := r.o.opts.Config.Runtime
	if !cfg.Enabled {
		return nil
	}
	fs := r.o.opts.FS
	if _, err := fs.Stat(cfg.Dir); err == nil {
		r.logger.Debug().Str("dir", cfg.Dir).Msg("Runtime already present")
		return nil
	}

	url := cfg.URL
	if r.target == types.TargetComfyUI || r.target == types.TargetSwarmUI {
		url = cfg.ComfyURL
	}
	item := types.DownloadItem{URL: url, DestDir: r.env.CachePath(), Required: true}
	r.step("runtime", "Installing portable Python runtime")
	if err := r.pipeline.Download(ctx, item); err != nil {
		return err
	}

	archive := filepath.Join(item.DestDir, item.FileName())
	defer func() { _ = fs.Remove(archive) }()
	_, err := r.pipeline.Runner().Run(ctx, "", "sh", "-c",
		"lz4 -dc \"$1\" | tar -xf - -C \"$2\"", "sh", archive, filepath.Dir(cfg.Dir))
	return err
}

// installTools puts the tunnel binaries into the bin dir. Best effort.
func (r *run) installTools(ctx context.Context, plan types.InstallPlan) error {
	cfg := r.o.opts.Config.Tools
	if !cfg.Enabled {
		return nil
	}
	fs := r.o.opts.FS
	runner := r.pipeline.Runner()

	r.step("tools", "Installing tunnel tools")
	for _, tool := range layout.Tools(cfg.BinDir) {
		if _, err := fs.Stat(tool.Bin); err == nil {
			continue
		}
		logger := r.logger.With().Str("tool", tool.Name).Logger()

		if !tool.Archive {
			item := types.DownloadItem{URL: tool.URL, DestDir: filepath.Dir(tool.Bin), Rename: filepath.Base(tool.Bin)}
			if err := r.pipeline.Download(ctx, item); err != nil {
				logger.Warn().Err(err).Msg("Skipping tool")
				continue
			}
			if _, err := runner.Run(ctx, "", "chmod", "+x", tool.Bin); err != nil {
				logger.Warn().Err(err).Msg("Cannot mark tool executable")
			}
			continue
		}

		item := types.DownloadItem{URL: tool.URL, DestDir: r.env.CachePath()}
		if err := r.pipeline.Download(ctx, item); err != nil {
			logger.Warn().Err(err).Msg("Skipping tool")
			continue
		}
		archive := filepath.Join(item.DestDir, item.FileName())
		if _, err := runner.Run(ctx, "", "tar", "-xzf", archive, "-C", cfg.BinDir); err != nil {
			logger.Warn().Err(err).Msg("Cannot unpack tool")
		}
		_ = fs.Remove(archive)
	}
	return nil
}
