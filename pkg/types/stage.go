package types

import "time"

// Stage is a state of the installation state machine.
type Stage string

const (
	StageStart                Stage = "start"
	StageValidatingInput      Stage = "validating_input"
	StageDetectingEnvironment Stage = "detecting_environment"
	StageCheckingPriorInstall Stage = "checking_prior_install"
	StageUpdatingExisting     Stage = "updating_existing"
	StageFreshInstalling      Stage = "fresh_installing"
	StageDone                 Stage = "done"
	StageFailed               Stage = "failed"
	StageAborted              Stage = "aborted"
)

// Terminal reports whether no further transition can follow.
func (s Stage) Terminal() bool {
	switch s {
	case StageDone, StageFailed, StageAborted:
		return true
	}
	return false
}

// StageEvent is what the presentation layer receives on every transition
// and on notable steps inside a stage.
type StageEvent struct {
	Stage   Stage
	Step    string
	Message string
	Target  Target
	Err     error
	Time    time.Time
}
