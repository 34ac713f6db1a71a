// Package recurrence expands a weekday pattern over a date range into the
// individual calendar dates it covers.
package recurrence

import (
	"time"

	"telework/internal/models"
)

// MinDayOfWeek and MaxDayOfWeek bound the accepted weekday input:
// Monday=1 through Friday=5. Weekends are never valid WFH pattern days.
const (
	MinDayOfWeek = 1
	MaxDayOfWeek = 5
)

// Expand returns every date between startDate and endDate inclusive whose
// weekday equals dayOfWeek (Monday=1 .. Friday=5), formatted as YYYY-MM-DD
// in ascending order. An inverted range yields an empty result, not an
// error. Pure function; callers validate the inputs first.
func Expand(startDate, endDate string, dayOfWeek int) ([]string, error) {
	start, err := time.Parse(models.DateFormat, startDate)
	if err != nil {
		return nil, err
	}
	end, err := time.Parse(models.DateFormat, endDate)
	if err != nil {
		return nil, err
	}

	var dates []string
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if isoWeekday(d) == dayOfWeek {
			dates = append(dates, d.Format(models.DateFormat))
		}
	}
	return dates, nil
}

// isoWeekday maps time.Weekday (Sunday=0) onto ISO numbering (Monday=1,
// Sunday=7) so the 1-5 input range lines up with Monday-Friday.
func isoWeekday(d time.Time) int {
	wd := int(d.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}
