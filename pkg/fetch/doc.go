// Package fetch retrieves everything an install needs from the network:
// single files over HTTP, git repositories and the occasional external
// command.
//
// The three collaborators (Downloader, RepositorySync and CommandRunner)
// are interfaces so the orchestrator can be tested without a network. A
// Pipeline composes them and adds the batch semantics: bounded parallel
// downloads where only required items are fatal.
package fetch
