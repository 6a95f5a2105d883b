package testutil

import (
	"io/fs"
	"sync/atomic"

	"github.com/arthur-debert/webup/pkg/types"
)

// CountingFS wraps a types.FS and counts every call.
type CountingFS struct {
	types.FS
	calls atomic.Int64
}

func NewCountingFS(inner types.FS) *CountingFS {
	return &CountingFS{FS: inner}
}

// Calls returns the number of operations seen so far.
func (c *CountingFS) Calls() int {
	return int(c.calls.Load())
}

func (c *CountingFS) Stat(name string) (fs.FileInfo, error) {
	c.calls.Add(1)
	return c.FS.Stat(name)
}

func (c *CountingFS) ReadFile(name string) ([]byte, error) {
	c.calls.Add(1)
	return c.FS.ReadFile(name)
}

func (c *CountingFS) WriteFile(name string, data []byte, perm fs.FileMode) error {
	c.calls.Add(1)
	return c.FS.WriteFile(name, data, perm)
}

func (c *CountingFS) MkdirAll(path string, perm fs.FileMode) error {
	c.calls.Add(1)
	return c.FS.MkdirAll(path, perm)
}

func (c *CountingFS) ReadDir(name string) ([]fs.DirEntry, error) {
	c.calls.Add(1)
	return c.FS.ReadDir(name)
}

func (c *CountingFS) Symlink(oldname, newname string) error {
	c.calls.Add(1)
	return c.FS.Symlink(oldname, newname)
}

func (c *CountingFS) Readlink(name string) (string, error) {
	c.calls.Add(1)
	return c.FS.Readlink(name)
}

func (c *CountingFS) Remove(name string) error {
	c.calls.Add(1)
	return c.FS.Remove(name)
}

func (c *CountingFS) RemoveAll(path string) error {
	c.calls.Add(1)
	return c.FS.RemoveAll(path)
}

func (c *CountingFS) Rename(oldpath, newpath string) error {
	c.calls.Add(1)
	return c.FS.Rename(oldpath, newpath)
}

func (c *CountingFS) Lstat(name string) (fs.FileInfo, error) {
	c.calls.Add(1)
	return c.FS.Lstat(name)
}
