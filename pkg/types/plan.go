package types

import (
	"fmt"
	"path/filepath"
	"strings"
)

// CleanupKind describes how a cleanup step clears a path.
type CleanupKind int

const (
	// CleanupRemovePath removes the path itself, file, directory or symlink
	CleanupRemovePath CleanupKind = iota

	// CleanupClearDir removes the children of a directory but keeps it
	CleanupClearDir
)

func (k CleanupKind) String() string {
	switch k {
	case CleanupRemovePath:
		return "remove"
	case CleanupClearDir:
		return "clear"
	default:
		return fmt.Sprintf("cleanup(%d)", int(k))
	}
}

// CleanupOp is one filesystem-clearing step run before links are created.
type CleanupOp struct {
	Kind CleanupKind
	Path string
}

// Link pairs a shared-cache source with the place the UI expects it.
type Link struct {
	Source string
	Dest   string
}

// InstallPlan is the full, derived layout for one target in one environment.
type InstallPlan struct {
	Target Target

	InstallDir    string
	ModelsDir     string
	EmbeddingsDir string
	VAEDir        string
	ExtensionsDir string
	UpscalersDir  string
	CacheRoot     string

	// Cleanup runs in order before any link is created
	Cleanup []CleanupOp

	// EnsureDirs are created after cleanup and before linking
	EnsureDirs []string

	Links []Link
}

// Validate checks the plan invariants: every destination is unique and
// every source lives under the cache root, never under the install dir.
func (p InstallPlan) Validate() error {
	seen := make(map[string]string, len(p.Links))
	root := filepath.Clean(p.CacheRoot) + string(filepath.Separator)
	install := filepath.Clean(p.InstallDir) + string(filepath.Separator)

	for _, l := range p.Links {
		dest := filepath.Clean(l.Dest)
		if prev, ok := seen[dest]; ok {
			return fmt.Errorf("link conflict: both %s and %s link to %s", prev, l.Source, dest)
		}
		seen[dest] = l.Source

		src := filepath.Clean(l.Source)
		if !strings.HasPrefix(src, root) {
			return fmt.Errorf("link source %s is outside cache root %s", src, p.CacheRoot)
		}
		if strings.HasPrefix(src, install) {
			return fmt.Errorf("link source %s is inside install dir %s", src, p.InstallDir)
		}
	}
	return nil
}
