package topology

import (
	"os"

	"github.com/arthur-debert/webup/pkg/types"
)

// LinkState describes what is found at a link destination.
type LinkState string

const (
	LinkOK         LinkState = "ok"
	LinkMissing    LinkState = "missing"
	LinkWrongDest  LinkState = "wrong_target"
	LinkNotSymlink LinkState = "not_symlink"
	LinkDangling   LinkState = "dangling"
)

// LinkStatus is the verified state of one planned link.
type LinkStatus struct {
	Source string    `json:"source" yaml:"source"`
	Dest   string    `json:"dest" yaml:"dest"`
	State  LinkState `json:"state" yaml:"state"`
	// Actual is the current symlink target when it differs from Source
	Actual string `json:"actual,omitempty" yaml:"actual,omitempty"`
}

// Verify inspects every link of plan without changing anything.
func (e *Engine) Verify(plan types.InstallPlan) ([]LinkStatus, error) {
	statuses := make([]LinkStatus, 0, len(plan.Links))
	for _, link := range plan.Links {
		st := LinkStatus{Source: link.Source, Dest: link.Dest}

		info, err := e.fs.Lstat(link.Dest)
		switch {
		case os.IsNotExist(err):
			st.State = LinkMissing
		case err != nil:
			return nil, err
		case info.Mode()&os.ModeSymlink == 0:
			st.State = LinkNotSymlink
		default:
			target, err := e.fs.Readlink(link.Dest)
			if err != nil {
				return nil, err
			}
			if target != link.Source {
				st.State = LinkWrongDest
				st.Actual = target
			} else if _, err := e.fs.Stat(link.Source); err != nil {
				st.State = LinkDangling
			} else {
				st.State = LinkOK
			}
		}
		statuses = append(statuses, st)
	}
	return statuses, nil
}

// Healthy reports whether every status is LinkOK.
func Healthy(statuses []LinkStatus) bool {
	for _, st := range statuses {
		if st.State != LinkOK {
			return false
		}
	}
	return true
}
