package testutil

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/arthur-debert/webup/pkg/fetch"
	"github.com/arthur-debert/webup/pkg/types"
)

// FakeDownloader writes a small body per URL into its FS.
type FakeDownloader struct {
	mu      sync.Mutex
	fs      types.FS
	content map[string][]byte
	errs    map[string]error
	calls   []string
}

var _ fetch.Downloader = (*FakeDownloader)(nil)

func NewFakeDownloader(fs types.FS) *FakeDownloader {
	return &FakeDownloader{
		fs:      fs,
		content: make(map[string][]byte),
		errs:    make(map[string]error),
	}
}

// Serve sets the body returned for url.
func (d *FakeDownloader) Serve(url string, body []byte) *FakeDownloader {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.content[url] = body
	return d
}

// FailOn makes downloads of url return err.
func (d *FakeDownloader) FailOn(url string, err error) *FakeDownloader {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.errs[url] = err
	return d
}

func (d *FakeDownloader) Download(ctx context.Context, url, destPath string) error {
	d.mu.Lock()
	d.calls = append(d.calls, url)
	err := d.errs[url]
	body, ok := d.content[url]
	d.mu.Unlock()

	if err != nil {
		return err
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if !ok {
		body = []byte("content of " + url)
	}
	if err := d.fs.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return err
	}
	return d.fs.WriteFile(destPath, body, 0644)
}

// Calls returns the requested URLs in call order.
func (d *FakeDownloader) Calls() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.calls...)
}

// CloneCall records one Clone.
type CloneCall struct {
	URL string
	Dir string
	Ref string
}

// PullCall records one Pull.
type PullCall struct {
	Dir    string
	Branch string
}

// FakeRepos creates checkouts in its FS: a .git directory plus any files
// registered for the URL.
type FakeRepos struct {
	mu     sync.Mutex
	fs     types.FS
	files  map[string]map[string]string
	errs   map[string]error
	clones []CloneCall
	pulls  []PullCall
}

var _ fetch.RepositorySync = (*FakeRepos)(nil)

func NewFakeRepos(fs types.FS) *FakeRepos {
	return &FakeRepos{
		fs:    fs,
		files: make(map[string]map[string]string),
		errs:  make(map[string]error),
	}
}

// WithFiles registers files (relative path -> content) created on clone.
func (r *FakeRepos) WithFiles(url string, files map[string]string) *FakeRepos {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.files[url] = files
	return r
}

// FailOn makes Clone of url, or Pull of a dir, return err.
func (r *FakeRepos) FailOn(key string, err error) *FakeRepos {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errs[key] = err
	return r
}

func (r *FakeRepos) Clone(ctx context.Context, url, dir, ref string) error {
	r.mu.Lock()
	r.clones = append(r.clones, CloneCall{URL: url, Dir: dir, Ref: ref})
	err := r.errs[url]
	files := r.files[url]
	r.mu.Unlock()

	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := r.fs.MkdirAll(filepath.Join(dir, ".git"), 0755); err != nil {
		return err
	}
	for name, content := range files {
		p := filepath.Join(dir, name)
		if err := r.fs.MkdirAll(filepath.Dir(p), 0755); err != nil {
			return err
		}
		if err := r.fs.WriteFile(p, []byte(content), 0644); err != nil {
			return err
		}
	}
	return nil
}

func (r *FakeRepos) Pull(ctx context.Context, dir, branch string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pulls = append(r.pulls, PullCall{Dir: dir, Branch: branch})
	if err := r.errs[dir]; err != nil {
		return err
	}
	return ctx.Err()
}

func (r *FakeRepos) Clones() []CloneCall {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]CloneCall(nil), r.clones...)
}

func (r *FakeRepos) Pulls() []PullCall {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]PullCall(nil), r.pulls...)
}

// FakeRunner records commands and never executes anything.
type FakeRunner struct {
	mu    sync.Mutex
	calls []string
	errs  map[string]error
}

var _ fetch.CommandRunner = (*FakeRunner)(nil)

func NewFakeRunner() *FakeRunner {
	return &FakeRunner{errs: make(map[string]error)}
}

// FailOn makes every invocation of the named program fail.
func (f *FakeRunner) FailOn(name string, err error) *FakeRunner {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs[name] = err
	return f
}

func (f *FakeRunner) Run(ctx context.Context, dir, name string, args ...string) (fetch.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, fmt.Sprintf("%s %v", name, args))
	if err := f.errs[name]; err != nil {
		return fetch.Result{ExitCode: 1, Stderr: err.Error()}, err
	}
	return fetch.Result{}, ctx.Err()
}

// Calls returns "name [args]" strings in call order.
func (f *FakeRunner) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}
