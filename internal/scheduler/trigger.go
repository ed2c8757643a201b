package scheduler

import (
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/specialistvlad/residencygrid/internal/config"
)

var _ Trigger = cron.Schedule(nil)

// FromConfig returns the trigger for a configured schedule.
func FromConfig(s *config.Schedule) (Trigger, error) {
	if s == nil {
		return nil, fmt.Errorf("no schedule")
	}
	return s.Parse()
}
