// Package topology materializes the link layout of an InstallPlan.
//
// Model directories the UI scans are symlinks into the shared cache, so
// large files downloaded once are visible to whichever target is
// installed. Apply is idempotent: a second run over the same plan leaves
// the same links behind.
package topology
