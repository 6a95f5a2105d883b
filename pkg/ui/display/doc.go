// Package display holds the format-neutral views every renderer consumes.
//
// Renderers never see orchestrator or datastore values directly: stage
// events are flattened into Event, and the status command assembles a
// Status. Both carry json and yaml tags so machine formats encode them
// as-is.
package display
