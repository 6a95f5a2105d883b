package fetch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/arthur-debert/webup/pkg/errors"
	"github.com/arthur-debert/webup/pkg/logging"
	"github.com/arthur-debert/webup/pkg/types"
	"golang.org/x/sync/errgroup"
)

// DefaultWorkers bounds parallel downloads when no value is configured.
const DefaultWorkers = 4

// Pipeline drives the collaborators for whole batches of fetch items.
type Pipeline struct {
	fs         types.FS
	downloader Downloader
	repos      RepositorySync
	runner     CommandRunner
	workers    int
}

// NewPipeline wires the collaborators. workers below one falls back to
// DefaultWorkers.
func NewPipeline(fs types.FS, d Downloader, r RepositorySync, c CommandRunner, workers int) *Pipeline {
	if workers < 1 {
		workers = DefaultWorkers
	}
	return &Pipeline{
		fs:         fs,
		downloader: d,
		repos:      r,
		runner:     c,
		workers:    workers,
	}
}

// Runner exposes the command runner for one-off commands.
func (p *Pipeline) Runner() CommandRunner {
	return p.runner
}

// Fetch retrieves a single item of any kind. Repositories are cloned or,
// when already present, left alone.
func (p *Pipeline) Fetch(ctx context.Context, item types.FetchItem) error {
	switch it := item.(type) {
	case types.DownloadItem:
		return p.Download(ctx, it)
	case types.RepoItem:
		return p.Sync(ctx, it, "")
	default:
		return errors.Newf(errors.ErrInternal, "unsupported fetch item %T", item)
	}
}

// Download fetches one item into DestDir under its resolved file name.
func (p *Pipeline) Download(ctx context.Context, item types.DownloadItem) error {
	dest := filepath.Join(item.DestDir, item.FileName())
	if err := p.downloader.Download(ctx, item.URL, dest); err != nil {
		if errors.IsErrorCode(err, errors.ErrDownload) {
			return err
		}
		return errors.Wrapf(err, errors.ErrDownload, "failed to download %s", item.Describe()).
			WithDetail("url", item.URL)
	}
	return nil
}

// Sync clones repo when DestDir has no git metadata, otherwise pulls
// pullBranch. An empty pullBranch leaves an existing checkout untouched.
func (p *Pipeline) Sync(ctx context.Context, repo types.RepoItem, pullBranch string) error {
	logger := logging.GetLogger("fetch")

	if p.HasCheckout(repo.DestDir) {
		if pullBranch == "" {
			logger.Debug().Str("repo", repo.Describe()).Msg("Already cloned, skipping")
			return nil
		}
		return p.repos.Pull(ctx, repo.DestDir, pullBranch)
	}
	return p.repos.Clone(ctx, repo.URL, repo.DestDir, repo.Ref)
}

// HasCheckout reports whether dir holds git metadata.
func (p *Pipeline) HasCheckout(dir string) bool {
	_, err := p.fs.Stat(filepath.Join(dir, ".git"))
	return err == nil
}

// DownloadAll fetches items with bounded parallelism. The first failing
// required item cancels the rest and is returned; failures of other items
// are logged and skipped.
func (p *Pipeline) DownloadAll(ctx context.Context, items []types.DownloadItem) error {
	logger := logging.GetLogger("fetch")
	done := logging.LogOperationStart(logger, "download batch")
	defer done()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)

	for _, item := range items {
		item := item
		g.Go(func() error {
			err := p.Download(gctx, item)
			if err == nil {
				return nil
			}
			if item.Required {
				return err
			}
			logger.Warn().Err(err).Str("item", item.Describe()).Msg("Skipping supplementary download")
			return nil
		})
	}

	return g.Wait()
}

// SyncAll clones every repository not yet present. Failures are logged
// and skipped; the number of failed repositories is returned.
func (p *Pipeline) SyncAll(ctx context.Context, repos []types.RepoItem) int {
	logger := logging.GetLogger("fetch")
	failed := 0
	for _, repo := range repos {
		if ctx.Err() != nil {
			return failed + 1
		}
		if err := p.Sync(ctx, repo, ""); err != nil {
			failed++
			logger.Warn().Err(err).Str("repo", repo.Describe()).Msg("Skipping repository")
		}
	}
	return failed
}

// Overlay clones repo next to its destination and copies the checkout,
// without git metadata, over DestDir.
func (p *Pipeline) Overlay(ctx context.Context, repo types.RepoItem) error {
	staging := fmt.Sprintf("%s.overlay-%d", filepath.Clean(repo.DestDir), os.Getpid())
	if err := p.fs.RemoveAll(staging); err != nil {
		return errors.Wrapf(err, errors.ErrCleanup, "clearing %s", staging)
	}
	defer func() { _ = p.fs.RemoveAll(staging) }()

	if err := p.repos.Clone(ctx, repo.URL, staging, repo.Ref); err != nil {
		return err
	}
	return p.copyTree(staging, repo.DestDir)
}

func (p *Pipeline) copyTree(src, dst string) error {
	entries, err := p.fs.ReadDir(src)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "reading %s", src)
	}
	if err := p.fs.MkdirAll(dst, 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "creating %s", dst)
	}

	for _, entry := range entries {
		if entry.Name() == ".git" {
			continue
		}
		from := filepath.Join(src, entry.Name())
		to := filepath.Join(dst, entry.Name())

		if entry.IsDir() {
			if err := p.copyTree(from, to); err != nil {
				return err
			}
			continue
		}

		info, err := entry.Info()
		if err != nil {
			return errors.Wrapf(err, errors.ErrFileAccess, "stat %s", from)
		}
		data, err := p.fs.ReadFile(from)
		if err != nil {
			return errors.Wrapf(err, errors.ErrFileAccess, "reading %s", from)
		}
		if err := p.fs.WriteFile(to, data, info.Mode().Perm()); err != nil {
			return errors.Wrapf(err, errors.ErrFileWrite, "writing %s", to)
		}
	}
	return nil
}
