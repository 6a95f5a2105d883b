package topology

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"syscall"

	"github.com/arthur-debert/webup/pkg/errors"
	"github.com/arthur-debert/webup/pkg/logging"
	"github.com/arthur-debert/webup/pkg/types"
)

const dirPerm os.FileMode = 0755

// Engine applies and inspects link layouts.
type Engine struct {
	fs types.FS
}

func NewEngine(fs types.FS) *Engine {
	return &Engine{fs: fs}
}

// Apply runs the plan's cleanup, creates its directories and then every
// link. Paths that do not exist are skipped during cleanup; any other
// failure stops the run.
func (e *Engine) Apply(ctx context.Context, plan types.InstallPlan) error {
	logger := logging.GetLogger("topology").With().Str("target", plan.Target.String()).Logger()
	done := logging.LogOperationStart(logger, "apply links")
	defer done()

	if err := plan.Validate(); err != nil {
		return errors.Wrap(err, errors.ErrSymlinkCreate, "invalid link plan")
	}

	for _, op := range plan.Cleanup {
		if err := e.cleanup(op); err != nil {
			return err
		}
	}
	if err := ctx.Err(); err != nil {
		return errors.Canceled(err, "link cleanup")
	}

	for _, dir := range plan.EnsureDirs {
		if err := e.fs.MkdirAll(dir, dirPerm); err != nil {
			return errors.Wrapf(err, errors.ErrDirCreate, "creating %s", dir)
		}
	}

	for _, link := range plan.Links {
		if err := ctx.Err(); err != nil {
			return errors.Canceled(err, "linking")
		}
		if err := e.link(link); err != nil {
			return err
		}
		logger.Debug().Str("source", link.Source).Str("dest", link.Dest).Msg("Linked")
	}

	logger.Info().Int("links", len(plan.Links)).Msg("Link layout applied")
	return nil
}

func (e *Engine) cleanup(op types.CleanupOp) error {
	switch op.Kind {
	case types.CleanupRemovePath:
		if _, err := e.fs.Lstat(op.Path); absent(err) {
			return nil
		}
		if err := e.fs.RemoveAll(op.Path); err != nil && !absent(err) {
			return errors.Wrapf(err, errors.ErrCleanup, "removing %s", op.Path).WithDetail("path", op.Path)
		}
	case types.CleanupClearDir:
		entries, err := e.fs.ReadDir(op.Path)
		if absent(err) {
			return nil
		}
		if err != nil {
			return errors.Wrapf(err, errors.ErrCleanup, "reading %s", op.Path).WithDetail("path", op.Path)
		}
		for _, entry := range entries {
			child := filepath.Join(op.Path, entry.Name())
			if err := e.fs.RemoveAll(child); err != nil && !os.IsNotExist(err) {
				return errors.Wrapf(err, errors.ErrCleanup, "removing %s", child).WithDetail("path", child)
			}
		}
	default:
		return errors.Newf(errors.ErrInternal, "unknown cleanup kind %s", op.Kind)
	}
	return nil
}

// absent reports errors meaning the path cannot exist, including a
// regular file somewhere along its parents.
func absent(err error) bool {
	return err != nil && (os.IsNotExist(err) || stderrors.Is(err, syscall.ENOTDIR))
}

func (e *Engine) link(link types.Link) error {
	wrap := func(err error, msg string) error {
		return errors.Wrap(err, errors.ErrSymlinkCreate, msg).
			WithDetail("source", link.Source).
			WithDetail("dest", link.Dest)
	}

	if err := e.fs.MkdirAll(link.Source, dirPerm); err != nil {
		return wrap(err, "creating link source")
	}
	if err := e.fs.MkdirAll(filepath.Dir(link.Dest), dirPerm); err != nil {
		return wrap(err, "creating link parent")
	}

	// an already correct link is left alone
	if current, err := e.fs.Readlink(link.Dest); err == nil && current == link.Source {
		return nil
	}
	if _, err := e.fs.Lstat(link.Dest); err == nil {
		if err := e.fs.RemoveAll(link.Dest); err != nil {
			return wrap(err, "removing stale link destination")
		}
	}

	if err := e.fs.Symlink(link.Source, link.Dest); err != nil {
		return wrap(err, "creating symlink")
	}
	return nil
}
