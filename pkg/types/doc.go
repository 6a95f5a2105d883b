// Package types defines the core types and interfaces shared across webup.
// This includes the closed Target enumeration, the resolved Environment,
// the per-target InstallPlan and the persisted state records, as well as the
// FS abstraction every filesystem-touching component goes through.
package types
