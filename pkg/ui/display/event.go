package display

import (
	"strings"
	"time"

	"github.com/arthur-debert/webup/pkg/errors"
	"github.com/arthur-debert/webup/pkg/types"
)

// Event is a stage transition or step ready for output.
type Event struct {
	Time    time.Time   `json:"time" yaml:"time"`
	Stage   types.Stage `json:"stage" yaml:"stage"`
	Step    string      `json:"step,omitempty" yaml:"step,omitempty"`
	Message string      `json:"message,omitempty" yaml:"message,omitempty"`
	Target  string      `json:"target,omitempty" yaml:"target,omitempty"`
	Error   string      `json:"error,omitempty" yaml:"error,omitempty"`
	Code    string      `json:"code,omitempty" yaml:"code,omitempty"`
}

// NewEvent flattens ev, rendering its error and code as strings.
func NewEvent(ev types.StageEvent) Event {
	out := Event{
		Time:    ev.Time,
		Stage:   ev.Stage,
		Step:    ev.Step,
		Message: ev.Message,
	}
	if ev.Target.Valid() {
		out.Target = ev.Target.String()
	}
	if ev.Err != nil {
		out.Error = ev.Err.Error()
		out.Code = string(errors.GetErrorCode(ev.Err))
	}
	return out
}

// IsStep reports whether the event marks progress inside a stage rather
// than a transition.
func (e Event) IsStep() bool {
	return e.Step != ""
}

// StageTitle is the human label of a stage, e.g. "Fresh installing".
func StageTitle(s types.Stage) string {
	words := strings.Split(string(s), "_")
	if len(words) == 0 || words[0] == "" {
		return ""
	}
	words[0] = strings.ToUpper(words[0][:1]) + words[0][1:]
	return strings.Join(words, " ")
}
