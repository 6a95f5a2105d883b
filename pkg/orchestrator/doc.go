// Package orchestrator runs one installation from validated input to a
// terminal stage.
//
// The run is a small state machine:
//
//	start -> validating_input -> aborted
//	                          -> detecting_environment -> checking_prior_install
//	checking_prior_install -> updating_existing | fresh_installing
//	updating_existing | fresh_installing -> done | failed | aborted
//
// Validation happens before the filesystem is touched at all. A previous
// install (marking record plus a git checkout) only gets a pull. A fresh
// install writes the marking record as its very last step, so a failed run
// is retried from scratch next time. Context cancellation ends the run as
// aborted, never as failed.
package orchestrator
