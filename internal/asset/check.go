package asset

import "context"

// Unit values used by CheckResult.
const (
	UnitPercent = "percent"
	UnitCount   = "count"
)

// EvaluateFunc inspects a freshly materialized output.
type EvaluateFunc func(ctx context.Context, rc *RunContext, output any) (CheckResult, error)

// Check is a quality assertion attached to one asset.
//
// A failing check is recorded in the run report. Only Blocking checks stop
// the asset's dependents from running.
type Check struct {
	Name     string
	Blocking bool
	Evaluate EvaluateFunc
}

// CheckResult is the outcome of one check against one asset output.
type CheckResult struct {
	Check       string         `json:"check"`
	Asset       string         `json:"asset"`
	Passed      bool           `json:"passed"`
	Metric      float64        `json:"metric"`
	Unit        string         `json:"unit,omitempty"`
	Description string         `json:"description,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}
