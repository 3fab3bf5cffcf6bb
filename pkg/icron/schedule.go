package icron

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// standardParser accepts the five-field cron syntax plus descriptors
// like "@every 5m", matching what cron.New schedules by default.
var standardParser = cron.NewParser(cron.Minute | cron.Hour |
	cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// Validate reports whether expr is a usable schedule expression.
func Validate(expr string) error {
	if _, err := standardParser.Parse(expr); err != nil {
		return fmt.Errorf("invalid cron expression %q: %w", expr, err)
	}
	return nil
}

// NextRun returns the first trigger time of expr after ref.
func NextRun(expr string, ref time.Time) (time.Time, error) {
	schedule, err := standardParser.Parse(expr)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid cron expression %q: %w", expr, err)
	}
	return schedule.Next(ref), nil
}
