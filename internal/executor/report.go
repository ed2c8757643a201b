package executor

import (
	"time"

	"github.com/specialistvlad/residencygrid/internal/asset"
	"github.com/specialistvlad/residencygrid/internal/node"
)

// Report describes the outcome of one run.
type Report struct {
	RunID    string        `json:"run_id"`
	Job      string        `json:"job,omitempty"`
	Started  time.Time     `json:"started"`
	Finished time.Time     `json:"finished"`
	Assets   []AssetReport `json:"assets"`

	// Outputs holds the value of every asset that succeeded.
	Outputs map[string]any `json:"-"`
}

// AssetReport is the outcome of one asset, in execution order.
type AssetReport struct {
	Name      string              `json:"name"`
	Group     string              `json:"group,omitempty"`
	Status    node.State          `json:"status"`
	Error     string              `json:"error,omitempty"`
	Duration  time.Duration       `json:"duration_ns"`
	Requested bool                `json:"requested"`
	Checks    []asset.CheckResult `json:"checks,omitempty"`
}

// Summary counts assets per terminal state.
type Summary struct {
	Succeeded    int
	Failed       int
	Skipped      int
	FailedChecks int
}

// Summary tallies the report.
func (r *Report) Summary() Summary {
	var s Summary
	for _, a := range r.Assets {
		switch a.Status {
		case node.Succeeded:
			s.Succeeded++
		case node.Failed:
			s.Failed++
		case node.Skipped:
			s.Skipped++
		}
		for _, c := range a.Checks {
			if !c.Passed {
				s.FailedChecks++
			}
		}
	}
	return s
}

// Asset returns the report of one asset.
func (r *Report) Asset(name string) (AssetReport, bool) {
	for _, a := range r.Assets {
		if a.Name == name {
			return a, true
		}
	}
	return AssetReport{}, false
}

// OK reports whether every asset succeeded. Failed checks do not count.
func (r *Report) OK() bool {
	s := r.Summary()
	return s.Failed == 0 && s.Skipped == 0
}

// ExitCode is 0 for a clean run and 1 if any asset failed or was skipped.
func (r *Report) ExitCode() int {
	if r.OK() {
		return 0
	}
	return 1
}
