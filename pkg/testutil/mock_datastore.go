package testutil

import (
	"fmt"
	"sync"

	"github.com/arthur-debert/webup/pkg/datastore"
	"github.com/arthur-debert/webup/pkg/types"
)

// MockStateStore keeps state in memory and can fail a named method.
type MockStateStore struct {
	mu            sync.RWMutex
	marking       map[string]string
	env           *types.EnvironmentConfig
	creds         *types.Credentials
	calls         []string
	errorOn       string
	errorToReturn error
}

var _ datastore.StateStore = (*MockStateStore)(nil)

func NewMockStateStore() *MockStateStore {
	return &MockStateStore{}
}

// WithMarking preloads a marking record.
func (m *MockStateStore) WithMarking(rec types.MarkingRecord) *MockStateStore {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.marking = map[string]string{"ui": rec.UI, "launch_args": rec.LaunchArgs, "tunnel": rec.Tunnel}
	return m
}

// WithError makes method return err.
func (m *MockStateStore) WithError(method string, err error) *MockStateStore {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorOn = method
	m.errorToReturn = err
	return m
}

func (m *MockStateStore) record(call string) error {
	m.calls = append(m.calls, call)
	if m.errorOn != "" && m.errorOn == callName(call) {
		return m.errorToReturn
	}
	return nil
}

func callName(call string) string {
	for i, r := range call {
		if r == '(' {
			return call[:i]
		}
	}
	return call
}

func (m *MockStateStore) LoadMarking() (*types.MarkingRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("LoadMarking()"); err != nil {
		return nil, err
	}
	if m.marking == nil {
		return nil, nil
	}
	return &types.MarkingRecord{
		UI:         m.marking["ui"],
		LaunchArgs: m.marking["launch_args"],
		Tunnel:     m.marking["tunnel"],
	}, nil
}

func (m *MockStateStore) SaveMarking(patch types.MarkingPatch) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	ui := ""
	if patch.UI != nil {
		ui = *patch.UI
	}
	if err := m.record(fmt.Sprintf("SaveMarking(%s)", ui)); err != nil {
		return err
	}
	if m.marking == nil {
		m.marking = map[string]string{"ui": "", "launch_args": "", "tunnel": ""}
	}
	if patch.UI != nil {
		m.marking["ui"] = *patch.UI
	}
	if patch.LaunchArgs != nil {
		m.marking["launch_args"] = *patch.LaunchArgs
	}
	if patch.Tunnel != nil {
		m.marking["tunnel"] = *patch.Tunnel
	}
	return nil
}

func (m *MockStateStore) SaveEnvironmentConfig(cfg types.EnvironmentConfig) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record(fmt.Sprintf("SaveEnvironmentConfig(%s)", cfg.EnvName)); err != nil {
		return err
	}
	m.env = &cfg
	return nil
}

func (m *MockStateStore) LoadEnvironmentConfig() (*types.EnvironmentConfig, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("LoadEnvironmentConfig()"); err != nil {
		return nil, err
	}
	return m.env, nil
}

func (m *MockStateStore) SaveCredentials(creds types.Credentials) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("SaveCredentials()"); err != nil {
		return err
	}
	m.creds = &creds
	return nil
}

// Marking returns the stored record fields, nil when never saved.
func (m *MockStateStore) Marking() map[string]string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.marking == nil {
		return nil
	}
	out := make(map[string]string, len(m.marking))
	for k, v := range m.marking {
		out[k] = v
	}
	return out
}

// Calls returns the recorded method calls.
func (m *MockStateStore) Calls() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.calls...)
}
