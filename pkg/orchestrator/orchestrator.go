package orchestrator

import (
	"context"
	"time"

	"github.com/arthur-debert/webup/pkg/config"
	"github.com/arthur-debert/webup/pkg/credentials"
	"github.com/arthur-debert/webup/pkg/datastore"
	"github.com/arthur-debert/webup/pkg/errors"
	"github.com/arthur-debert/webup/pkg/fetch"
	"github.com/arthur-debert/webup/pkg/layout"
	"github.com/arthur-debert/webup/pkg/logging"
	"github.com/arthur-debert/webup/pkg/paths"
	"github.com/arthur-debert/webup/pkg/topology"
	"github.com/arthur-debert/webup/pkg/types"
	"github.com/rs/zerolog"
)

// Notifier receives every stage transition and notable step.
type Notifier interface {
	Notify(ev types.StageEvent)
}

type nopNotifier struct{}

func (nopNotifier) Notify(types.StageEvent) {}

// Request is the user input of one run.
type Request struct {
	Input   credentials.Input
	BaseDir string
	HomeDir string
}

// Result describes how a run ended.
type Result struct {
	Stage       types.Stage
	Target      types.Target
	Environment types.Environment
	// Updated is set when an existing install was pulled
	Updated bool
	Err     error
}

// Options wires the collaborators. Only FS, Repos, Runner and Downloader
// are required.
type Options struct {
	FS     types.FS
	Repos  fetch.RepositorySync
	Runner fetch.CommandRunner
	// Downloader builds the downloader once the credentials are known
	Downloader func(creds types.Credentials) fetch.Downloader

	// Store builds the state store for the resolved environment; defaults
	// to datastore.New on FS
	Store    func(env types.Environment) datastore.StateStore
	Notifier Notifier
	Config   *config.Config

	LookupEnv func(key string) (string, bool)
	Getwd     func() (string, error)
	Now       func() time.Time
}

// Orchestrator drives installs. It holds no per-run state and may be
// reused.
type Orchestrator struct {
	opts Options
}

func New(opts Options) *Orchestrator {
	if opts.Config == nil {
		opts.Config = config.Defaults()
	}
	if opts.Notifier == nil {
		opts.Notifier = nopNotifier{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Store == nil {
		fs := opts.FS
		state := opts.Config.State
		opts.Store = func(env types.Environment) datastore.StateStore {
			return datastore.ForEnvironment(fs, env, state)
		}
	}
	return &Orchestrator{opts: opts}
}

// run carries the state of a single Run call.
type run struct {
	o        *Orchestrator
	logger   zerolog.Logger
	target   types.Target
	env      types.Environment
	store    datastore.StateStore
	pipeline *fetch.Pipeline
	engine   *topology.Engine
	stage    types.Stage
}

// Run executes one installation and always returns a terminal Result.
func (o *Orchestrator) Run(ctx context.Context, req Request) Result {
	r := &run{o: o, logger: logging.GetLogger("orchestrator")}
	done := logging.LogOperationStart(r.logger, "install")
	defer done()

	r.enter(types.StageStart)

	r.enter(types.StageValidatingInput)
	v, err := credentials.Validate(req.Input)
	if err == nil {
		err = paths.ValidateOverrides(req.BaseDir, req.HomeDir)
	}
	if err != nil {
		return r.finish(types.StageAborted, err)
	}
	r.target = v.Target
	if err := r.checkpoint(ctx); err != nil {
		return r.finish(types.StageAborted, err)
	}

	r.enter(types.StageDetectingEnvironment)
	r.env = paths.Resolve(paths.Options{
		BaseDir:      req.BaseDir,
		HomeDir:      req.HomeDir,
		StateDirName: o.opts.Config.State.Dir,
		LookupEnv:    o.opts.LookupEnv,
		Getwd:        o.opts.Getwd,
	})
	r.step("environment", r.env.Name)
	if err := r.prepare(v); err != nil {
		return r.fail(ctx, err)
	}
	if err := r.checkpoint(ctx); err != nil {
		return r.finish(types.StageAborted, err)
	}

	r.enter(types.StageCheckingPriorInstall)
	if prior, ok := r.priorInstall(); ok {
		r.target = prior
		r.enter(types.StageUpdatingExisting)
		if err := r.update(ctx); err != nil {
			return r.fail(ctx, err)
		}
		res := r.finish(types.StageDone, nil)
		res.Updated = true
		return res
	}

	r.enter(types.StageFreshInstalling)
	if err := r.freshInstall(ctx); err != nil {
		return r.fail(ctx, err)
	}
	return r.finish(types.StageDone, nil)
}

// prepare creates the cache and state dirs and persists the environment
// snapshot and credentials.
func (r *run) prepare(v credentials.Validated) error {
	opts := r.o.opts
	if err := paths.EnsureDirs(opts.FS, r.env); err != nil {
		return err
	}

	r.store = opts.Store(r.env)
	if err := r.store.SaveEnvironmentConfig(types.NewEnvironmentConfig(r.env)); err != nil {
		return err
	}
	if err := r.store.SaveCredentials(v.Credentials()); err != nil {
		return err
	}

	r.pipeline = fetch.NewPipeline(opts.FS, opts.Downloader(v.Credentials()), opts.Repos, opts.Runner, opts.Config.Fetch.Workers)
	r.engine = topology.NewEngine(opts.FS)
	return nil
}

// priorInstall reports the installed target when the marking record names
// one whose install dir is a git checkout.
func (r *run) priorInstall() (types.Target, bool) {
	rec, err := r.store.LoadMarking()
	if err != nil {
		r.logger.Warn().Err(err).Msg("Ignoring unreadable marking record")
		return types.TargetUnknown, false
	}
	if rec == nil {
		return types.TargetUnknown, false
	}
	t, ok := rec.Target()
	if !ok {
		r.logger.Warn().Str("ui", rec.UI).Msg("Marking record names an unknown target")
		return types.TargetUnknown, false
	}
	if !r.pipeline.HasCheckout(r.env.InstallDir(t)) {
		r.logger.Info().Str("target", t.String()).Msg("Marked install is missing, installing fresh")
		return types.TargetUnknown, false
	}
	if t != r.target {
		r.logger.Warn().
			Str("installed", t.String()).
			Str("requested", r.target.String()).
			Msg("Another target is already installed, updating it instead")
	}
	return t, true
}

func (r *run) update(ctx context.Context) error {
	branch := layout.PullBranch(r.target)
	r.step("pull", "git pull origin "+branch)
	return r.o.opts.Repos.Pull(ctx, r.env.InstallDir(r.target), branch)
}

func (r *run) enter(stage types.Stage) {
	r.stage = stage
	r.logger.Debug().Str("stage", string(stage)).Msg("Entering stage")
	r.o.opts.Notifier.Notify(types.StageEvent{
		Stage:  stage,
		Target: r.target,
		Time:   r.o.opts.Now(),
	})
}

func (r *run) step(step, message string) {
	r.logger.Info().Str("stage", string(r.stage)).Str("step", step).Msg(message)
	r.o.opts.Notifier.Notify(types.StageEvent{
		Stage:   r.stage,
		Step:    step,
		Message: message,
		Target:  r.target,
		Time:    r.o.opts.Now(),
	})
}

// checkpoint turns a done context into a canceled error.
func (r *run) checkpoint(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return errors.Canceled(err, string(r.stage))
	}
	return nil
}

// fail ends the run as aborted when the run context is done and as failed
// otherwise. Timeouts of single requests are failures.
func (r *run) fail(ctx context.Context, err error) Result {
	if ctx.Err() != nil || errors.IsErrorCode(err, errors.ErrCanceled) {
		if !errors.IsErrorCode(err, errors.ErrCanceled) {
			err = errors.Canceled(err, string(r.stage))
		}
		return r.finish(types.StageAborted, err)
	}
	return r.finish(types.StageFailed, err)
}

func (r *run) finish(stage types.Stage, err error) Result {
	r.stage = stage
	ev := types.StageEvent{
		Stage:  stage,
		Target: r.target,
		Err:    err,
		Time:   r.o.opts.Now(),
	}
	if err != nil {
		ev.Message = err.Error()
		r.logger.Error().Err(err).Str("stage", string(stage)).Msg("Install did not complete")
	}
	r.o.opts.Notifier.Notify(ev)

	return Result{
		Stage:       stage,
		Target:      r.target,
		Environment: r.env,
		Err:         err,
	}
}
