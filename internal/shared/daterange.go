package shared

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// DateRange is an inclusive calendar-day range used by listings and reports.
// End holds the exclusive upper bound (start of the day after the requested
// end date) so that queries can use `date >= Start AND date < End`.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// ParseDateRange parses startDate/endDate query values. Both must be present
// and well formed; the end day is included in the range.
func ParseDateRange(startDate, endDate string) (DateRange, error) {
	if startDate == "" || endDate == "" {
		return DateRange{}, fmt.Errorf("%w: startDate and endDate are required", ErrValidation)
	}
	start, err := time.Parse(dateLayout, startDate)
	if err != nil {
		return DateRange{}, fmt.Errorf("%w: invalid startDate", ErrValidation)
	}
	end, err := time.Parse(dateLayout, endDate)
	if err != nil {
		return DateRange{}, fmt.Errorf("%w: invalid endDate", ErrValidation)
	}
	if end.Before(start) {
		return DateRange{}, fmt.Errorf("%w: endDate before startDate", ErrValidation)
	}
	return DateRange{Start: start, End: end.AddDate(0, 0, 1)}, nil
}

// IsZero reports whether the range is unset.
func (r DateRange) IsZero() bool {
	return r.Start.IsZero() && r.End.IsZero()
}
