// Package filesystem provides filesystem implementations for webup.
//
// This package contains implementations of the types.FS interface: the real
// OS filesystem used at runtime and an adapter over go-billy filesystems,
// whose in-memory variant backs state-store tests.
package filesystem
