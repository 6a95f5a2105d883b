package types

import (
	"net/url"
	"path"
	"strings"
)

// FetchItem is anything the fetch pipeline knows how to retrieve.
type FetchItem interface {
	// Describe returns a short human readable label for logs
	Describe() string
}

// DownloadItem fetches one URL into a directory.
type DownloadItem struct {
	URL     string
	DestDir string

	// Rename overrides the file name derived from the URL
	Rename string

	// Required items abort a fresh install on failure; the rest are
	// logged and skipped
	Required bool
}

// FileName returns the name the downloaded file is stored under.
func (d DownloadItem) FileName() string {
	if d.Rename != "" {
		return d.Rename
	}
	if u, err := url.Parse(d.URL); err == nil && u.Path != "" {
		return path.Base(u.Path)
	}
	raw := d.URL
	if i := strings.IndexAny(raw, "?#"); i >= 0 {
		raw = raw[:i]
	}
	return path.Base(raw)
}

func (d DownloadItem) Describe() string {
	return d.FileName()
}

// RepoItem clones or pulls a git repository into DestDir.
type RepoItem struct {
	URL     string
	DestDir string

	// Ref is an optional branch to clone; empty means the remote HEAD
	Ref string
}

func (r RepoItem) Describe() string {
	return RepoName(r.URL)
}

// RepoName derives a directory name from a repository URL.
func RepoName(repoURL string) string {
	trimmed := strings.TrimSuffix(strings.TrimRight(repoURL, "/"), ".git")
	if i := strings.LastIndex(trimmed, "/"); i >= 0 {
		return trimmed[i+1:]
	}
	return trimmed
}
