package appointment

import (
	"time"

	"github.com/BruksfildServices01/catering-booking/internal/httperr"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// EventStart parses a stored date/time pair in the business timezone.
func EventStart(date, clock string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}

	t, err := time.ParseInLocation(DateLayout+" "+TimeLayout, date+" "+clock, loc)
	if err != nil {
		return time.Time{}, httperr.ErrValidation("invalid_date_or_time", "Date must be YYYY-MM-DD and time HH:MM.")
	}
	return t, nil
}

// FutureSlot validates a proposed date/time and requires it to be after now.
func FutureSlot(date, clock string, loc *time.Location, now time.Time) (time.Time, error) {
	t, err := EventStart(date, clock, loc)
	if err != nil {
		return time.Time{}, err
	}
	if !t.After(now) {
		return time.Time{}, httperr.ErrValidation("date_in_past", "The new date must be in the future.")
	}
	return t, nil
}
