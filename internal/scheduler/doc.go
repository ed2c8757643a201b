// Package scheduler fires configured jobs on their schedules. Each scheduled
// job gets its own loop. Runs never overlap: a fire that arrives while any
// run is still in progress is skipped.
package scheduler
