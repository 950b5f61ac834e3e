package timerange

import (
	"time"

	"github.com/dsablic/mergeplan/internal/errs"
	"github.com/dsablic/mergeplan/internal/model"
)

const (
	monthLayout = "2006-01"
	dayLayout   = "2006-01-02"
)

// Parse builds a closed time range from user-supplied bounds.
//
// Each bound may be RFC3339, "YYYY-MM-DD" or "YYYY-MM". Date-only bounds
// are widened so the range covers them entirely: since starts at 00:00:00
// UTC of its day (or first day of the month), until ends at 23:59:59 UTC of
// its day (or last day of the month).
func Parse(since, until string) (model.TimeRange, error) {
	if since == "" || until == "" {
		return model.TimeRange{}, errs.InvalidInput("both start and end of the time range are required")
	}
	start, err := parseBound(since, false)
	if err != nil {
		return model.TimeRange{}, errs.InvalidInput("cannot parse start time %q: use RFC3339, YYYY-MM-DD or YYYY-MM", since)
	}
	end, err := parseBound(until, true)
	if err != nil {
		return model.TimeRange{}, errs.InvalidInput("cannot parse end time %q: use RFC3339, YYYY-MM-DD or YYYY-MM", until)
	}
	r := model.TimeRange{Start: start, End: end}
	if err := Validate(r); err != nil {
		return model.TimeRange{}, err
	}
	return r, nil
}

// Validate checks that both ends are set and start is not after end.
func Validate(r model.TimeRange) error {
	if r.Start.IsZero() || r.End.IsZero() {
		return errs.InvalidInput("both start and end of the time range are required")
	}
	if r.Start.After(r.End) {
		return errs.InvalidInput("end time %s is before start time %s",
			r.End.Format(time.RFC3339), r.Start.Format(time.RFC3339))
	}
	return nil
}

func parseBound(s string, end bool) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(dayLayout, s); err == nil {
		if end {
			return endOfDay(t), nil
		}
		return t, nil
	}
	t, err := time.Parse(monthLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	if end {
		// Last day of the month: first day of next month minus one day.
		return endOfDay(t.AddDate(0, 1, 0).AddDate(0, 0, -1)), nil
	}
	return t, nil
}

func endOfDay(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), 23, 59, 59, 0, time.UTC)
}
