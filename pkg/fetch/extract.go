package fetch

import (
	"archive/zip"
	"bytes"
	"io"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/webup/pkg/errors"
	"github.com/arthur-debert/webup/pkg/logging"
)

// ExtractZip unpacks archive into destDir, overwriting existing files,
// then removes the archive.
func (p *Pipeline) ExtractZip(archive, destDir string) error {
	logger := logging.GetLogger("fetch")

	data, err := p.fs.ReadFile(archive)
	if err != nil {
		return errors.Wrapf(err, errors.ErrExtract, "reading %s", archive)
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return errors.Wrapf(err, errors.ErrExtract, "opening %s", archive)
	}

	clean := filepath.Clean(destDir)
	root := clean + string(filepath.Separator)
	for _, f := range zr.File {
		target := filepath.Join(destDir, f.Name)
		if target != clean && !strings.HasPrefix(target, root) {
			return errors.Newf(errors.ErrExtract, "entry %q escapes %s", f.Name, destDir)
		}

		if f.FileInfo().IsDir() {
			if err := p.fs.MkdirAll(target, 0755); err != nil {
				return errors.Wrapf(err, errors.ErrDirCreate, "creating %s", target)
			}
			continue
		}

		content, err := readZipEntry(f)
		if err != nil {
			return errors.Wrapf(err, errors.ErrExtract, "reading %s from %s", f.Name, archive)
		}
		if err := p.fs.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return errors.Wrapf(err, errors.ErrDirCreate, "creating %s", filepath.Dir(target))
		}
		if err := p.fs.WriteFile(target, content, 0644); err != nil {
			return errors.Wrapf(err, errors.ErrFileWrite, "writing %s", target)
		}
	}

	if err := p.fs.Remove(archive); err != nil {
		return errors.Wrapf(err, errors.ErrCleanup, "removing %s", archive)
	}

	logger.Debug().Str("archive", archive).Int("entries", len(zr.File)).Msg("Extracted")
	return nil
}

func readZipEntry(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}
