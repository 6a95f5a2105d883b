package testutil

import (
	"sync"

	"github.com/arthur-debert/webup/pkg/types"
	"github.com/stretchr/testify/mock"
)

// RecordingNotifier collects every event it is sent.
type RecordingNotifier struct {
	mu     sync.Mutex
	events []types.StageEvent
}

func (n *RecordingNotifier) Notify(ev types.StageEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, ev)
}

func (n *RecordingNotifier) Events() []types.StageEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]types.StageEvent(nil), n.events...)
}

// Stages returns the distinct stages in the order first entered.
func (n *RecordingNotifier) Stages() []types.Stage {
	n.mu.Lock()
	defer n.mu.Unlock()
	var stages []types.Stage
	for _, ev := range n.events {
		if len(stages) == 0 || stages[len(stages)-1] != ev.Stage {
			stages = append(stages, ev.Stage)
		}
	}
	return stages
}

// MockNotifier is a testify mock for expectation style tests.
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ev types.StageEvent) {
	m.Called(ev)
}
