// Package datastore owns webup's persisted state: the marking record that
// tells a later run which target is installed, the environment snapshot
// read by launch helpers, and the stored API credentials.
//
// All access goes through types.FS so the store runs unchanged against the
// real filesystem or an in-memory one.
package datastore
