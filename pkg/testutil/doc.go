// Package testutil provides fakes for testing webup components without a
// network or a real filesystem.
//
// Key components:
//   - FakeDownloader, FakeRepos, FakeRunner: fetch collaborators that write
//     into a types.FS and record every call
//   - CountingFS: a types.FS wrapper counting operations
//   - MockStateStore: in-memory state store with error injection
//   - RecordingNotifier: collects stage events
//
// Usage guidelines:
//   - Prefer filesystem.NewMemory() plus these fakes for orchestration tests
//   - Only topology and the real fetch implementations need temp dirs
package testutil
