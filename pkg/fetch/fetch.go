package fetch

import (
	"context"
)

// Downloader retrieves a URL into destPath. destPath is only created once
// the transfer completed.
type Downloader interface {
	Download(ctx context.Context, url, destPath string) error
}

// RepositorySync clones and updates git repositories.
type RepositorySync interface {
	// Clone clones url into dir. A non-empty ref restricts the clone to
	// that branch.
	Clone(ctx context.Context, url, dir, ref string) error

	// Pull fast-forwards the checkout in dir from origin's branch.
	// Already being up to date is not an error.
	Pull(ctx context.Context, dir, branch string) error
}

// Result is the outcome of an external command.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// CommandRunner executes external programs.
type CommandRunner interface {
	Run(ctx context.Context, dir, name string, args ...string) (Result, error)
}
