package fetch

import (
	"context"
	stderrors "errors"
	"io"

	"github.com/arthur-debert/webup/pkg/errors"
	"github.com/arthur-debert/webup/pkg/logging"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// GitSync implements RepositorySync with go-git.
type GitSync struct {
	// Depth limits clone history; zero clones everything
	Depth int
	// Progress receives remote progress output when set
	Progress io.Writer
}

// NewGitSync creates a GitSync with the given clone depth.
func NewGitSync(depth int) *GitSync {
	return &GitSync{Depth: depth}
}

func (g *GitSync) Clone(ctx context.Context, url, dir, ref string) error {
	logger := logging.GetLogger("fetch.git")
	logger.Debug().Str("url", url).Str("dir", dir).Str("ref", ref).Msg("Cloning")

	opts := &git.CloneOptions{
		URL:      url,
		Depth:    g.Depth,
		Progress: g.Progress,
	}
	if ref != "" {
		opts.ReferenceName = plumbing.NewBranchReferenceName(ref)
		opts.SingleBranch = true
	}

	if _, err := git.PlainCloneContext(ctx, dir, false, opts); err != nil {
		return errors.Wrapf(err, errors.ErrRepoClone, "git clone of %s failed", url).
			WithDetail("dir", dir)
	}
	return nil
}

func (g *GitSync) Pull(ctx context.Context, dir, branch string) error {
	logger := logging.GetLogger("fetch.git")
	logger.Debug().Str("dir", dir).Str("branch", branch).Msg("Pulling")

	repo, err := git.PlainOpen(dir)
	if err != nil {
		return errors.Wrapf(err, errors.ErrRepoPull, "opening repository %s", dir)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return errors.Wrapf(err, errors.ErrRepoPull, "opening worktree %s", dir)
	}

	err = wt.PullContext(ctx, &git.PullOptions{
		RemoteName:    git.DefaultRemoteName,
		ReferenceName: plumbing.NewBranchReferenceName(branch),
		SingleBranch:  true,
		Progress:      g.Progress,
	})
	if err != nil && !stderrors.Is(err, git.NoErrAlreadyUpToDate) {
		return errors.Wrapf(err, errors.ErrRepoPull, "git pull origin %s failed", branch).
			WithDetail("dir", dir)
	}
	return nil
}
