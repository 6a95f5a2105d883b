// Package layout holds the static, per-target knowledge of webup.
//
// Every target gets one entry in a table indexed by types.Target. Plan turns
// that entry plus a resolved Environment into a concrete InstallPlan; the
// remaining helpers expose what the orchestrator fetches for a target:
// repository URL and pull branch, the support overlay, required and
// supplementary assets and the extension sources.
//
// Nothing here touches the filesystem or the network.
package layout
