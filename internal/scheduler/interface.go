package scheduler

import (
	"context"
	"time"
)

// Trigger computes fire times.
type Trigger interface {
	// Next returns the first fire time strictly after the given instant.
	Next(after time.Time) time.Time
}

// Clock abstracts time so loops can be driven by tests.
type Clock interface {
	Now() time.Time
	After(d time.Duration) <-chan time.Time
}

// RunFunc executes one job. Its error is logged, never fatal to the loop.
type RunFunc func(ctx context.Context, job string) error

type systemClock struct{}

func (systemClock) Now() time.Time                         { return time.Now() }
func (systemClock) After(d time.Duration) <-chan time.Time { return time.After(d) }
