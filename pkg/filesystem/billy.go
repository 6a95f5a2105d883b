package filesystem

import (
	"io"
	"io/fs"

	"github.com/arthur-debert/webup/pkg/types"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
)

// billyFS implements types.FS on top of a go-billy filesystem
type billyFS struct {
	fs billy.Filesystem
}

// NewBillyFS wraps a go-billy filesystem
func NewBillyFS(bfs billy.Filesystem) types.FS {
	return &billyFS{fs: bfs}
}

// NewMemory returns an in-memory filesystem, mostly useful for tests
func NewMemory() types.FS {
	return NewBillyFS(memfs.New())
}

func (b *billyFS) Stat(name string) (fs.FileInfo, error) {
	return b.fs.Stat(name)
}

func (b *billyFS) ReadFile(name string) ([]byte, error) {
	info, err := b.fs.Stat(name)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, &fs.PathError{Op: "read", Path: name, Err: fs.ErrInvalid}
	}

	f, err := b.fs.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func (b *billyFS) WriteFile(name string, data []byte, perm fs.FileMode) error {
	return util.WriteFile(b.fs, name, data, perm)
}

func (b *billyFS) MkdirAll(path string, perm fs.FileMode) error {
	return b.fs.MkdirAll(path, perm)
}

func (b *billyFS) ReadDir(name string) ([]fs.DirEntry, error) {
	infos, err := b.fs.ReadDir(name)
	if err != nil {
		return nil, err
	}
	entries := make([]fs.DirEntry, len(infos))
	for i, info := range infos {
		entries[i] = fs.FileInfoToDirEntry(info)
	}
	return entries, nil
}

func (b *billyFS) Symlink(oldname, newname string) error {
	return b.fs.Symlink(oldname, newname)
}

func (b *billyFS) Readlink(name string) (string, error) {
	return b.fs.Readlink(name)
}

func (b *billyFS) Remove(name string) error {
	return b.fs.Remove(name)
}

func (b *billyFS) RemoveAll(path string) error {
	return util.RemoveAll(b.fs, path)
}

func (b *billyFS) Rename(oldpath, newpath string) error {
	return b.fs.Rename(oldpath, newpath)
}

func (b *billyFS) Lstat(name string) (fs.FileInfo, error) {
	return b.fs.Lstat(name)
}
