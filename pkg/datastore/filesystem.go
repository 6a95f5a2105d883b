package datastore

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/webup/pkg/errors"
	"github.com/arthur-debert/webup/pkg/logging"
	"github.com/arthur-debert/webup/pkg/types"
)

const (
	stateFilePerm  fs.FileMode = 0644
	secretFilePerm fs.FileMode = 0600
	stateDirPerm   fs.FileMode = 0755
)

// canonical marking keys; always present after a save
const (
	keyUI         = "ui"
	keyLaunchArgs = "launch_args"
	keyTunnel     = "tunnel"
)

// snapshot keys in write order
var envKeys = []string{"ENVNAME", "HOMEPATH", "TEMPPATH", "BASEPATH"}

type filesystemStore struct {
	fs    types.FS
	dir   string
	files Files
}

// New creates a StateStore rooted at dir.
func New(fsys types.FS, dir string, files Files) StateStore {
	return &filesystemStore{
		fs:    fsys,
		dir:   dir,
		files: files,
	}
}

func (s *filesystemStore) path(name string) string {
	return filepath.Join(s.dir, name)
}

func (s *filesystemStore) LoadMarking() (*types.MarkingRecord, error) {
	data, err := s.fs.ReadFile(s.path(s.files.Marking))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, errors.ErrStateRead, "failed to read %s", s.files.Marking)
	}

	var rec types.MarkingRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, errors.Wrapf(err, errors.ErrStateRead, "invalid marking record %s", s.files.Marking)
	}
	return &rec, nil
}

func (s *filesystemStore) SaveMarking(patch types.MarkingPatch) error {
	logger := logging.GetLogger("datastore")
	p := s.path(s.files.Marking)

	record := map[string]interface{}{}
	data, err := s.fs.ReadFile(p)
	switch {
	case err == nil:
		if jsonErr := json.Unmarshal(data, &record); jsonErr != nil {
			// an unreadable record cannot be merged; start over
			logger.Warn().Err(jsonErr).Str("path", p).Msg("Replacing unparsable marking record")
			record = map[string]interface{}{}
		}
		if record == nil {
			record = map[string]interface{}{}
		}
	case os.IsNotExist(err):
	default:
		return errors.Wrapf(err, errors.ErrStateRead, "failed to read %s", s.files.Marking)
	}

	overlay(record, keyUI, patch.UI)
	overlay(record, keyLaunchArgs, patch.LaunchArgs)
	overlay(record, keyTunnel, patch.Tunnel)

	out, err := json.MarshalIndent(record, "", "    ")
	if err != nil {
		return errors.Wrap(err, errors.ErrStateWrite, "failed to encode marking record")
	}
	if err := s.write(p, out, stateFilePerm); err != nil {
		return err
	}

	logger.Debug().Str("path", p).Interface("record", record).Msg("Saved marking record")
	return nil
}

func overlay(record map[string]interface{}, key string, value *string) {
	if value != nil {
		record[key] = *value
		return
	}
	if _, ok := record[key]; !ok {
		record[key] = ""
	}
}

var (
	quoteEscaper   = strings.NewReplacer(`\`, `\\`, `'`, `\'`)
	quoteUnescaper = strings.NewReplacer(`\\`, `\`, `\'`, `'`)
)

func (s *filesystemStore) SaveEnvironmentConfig(cfg types.EnvironmentConfig) error {
	values := map[string]string{
		"ENVNAME":  cfg.EnvName,
		"HOMEPATH": cfg.HomePath,
		"TEMPPATH": cfg.TempPath,
		"BASEPATH": cfg.BasePath,
	}

	lines := make([]string, 0, len(envKeys))
	for _, k := range envKeys {
		lines = append(lines, fmt.Sprintf("%s = '%s'", k, quoteEscaper.Replace(values[k])))
	}

	return s.write(s.path(s.files.Env), []byte(strings.Join(lines, "\n")), stateFilePerm)
}

func (s *filesystemStore) LoadEnvironmentConfig() (*types.EnvironmentConfig, error) {
	data, err := s.fs.ReadFile(s.path(s.files.Env))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, errors.ErrStateRead, "failed to read %s", s.files.Env)
	}

	values := map[string]string{}
	for _, line := range strings.Split(string(data), "\n") {
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		values[strings.TrimSpace(key)] = unquote(strings.TrimSpace(value))
	}

	return &types.EnvironmentConfig{
		EnvName:  values["ENVNAME"],
		HomePath: values["HOMEPATH"],
		TempPath: values["TEMPPATH"],
		BasePath: values["BASEPATH"],
	}, nil
}

// unquote strips one pair of surrounding quotes and undoes quoteEscaper.
func unquote(v string) string {
	if len(v) >= 2 && (v[0] == '\'' || v[0] == '"') && v[len(v)-1] == v[0] {
		v = v[1 : len(v)-1]
	}
	return quoteUnescaper.Replace(v)
}

func (s *filesystemStore) SaveCredentials(creds types.Credentials) error {
	out, err := json.MarshalIndent(creds, "", "    ")
	if err != nil {
		return errors.Wrap(err, errors.ErrStateWrite, "failed to encode credentials")
	}
	return s.write(s.path(s.files.Key), out, secretFilePerm)
}

func (s *filesystemStore) write(p string, data []byte, perm fs.FileMode) error {
	if err := s.fs.MkdirAll(filepath.Dir(p), stateDirPerm); err != nil {
		return errors.Wrapf(err, errors.ErrStateWrite, "failed to create state directory %s", filepath.Dir(p))
	}
	if err := s.fs.WriteFile(p, data, perm); err != nil {
		return errors.Wrapf(err, errors.ErrStateWrite, "failed to write %s", p).WithDetail("path", p)
	}
	return nil
}
