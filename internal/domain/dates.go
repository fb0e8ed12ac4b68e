package domain

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

const secondsPerDay = 24 * 60 * 60

// Dates are limited to the years DateLayout can render and parse back.
const (
	MinYear = 1
	MaxYear = 9999
)

var (
	minDate = time.Date(MinYear, time.January, 1, 0, 0, 0, 0, time.UTC)
	maxDate = time.Date(MaxYear, time.December, 31, 0, 0, 0, 0, time.UTC)
)

// maxShiftDays is the widest move that can keep any date inside the
// supported years.
var maxShiftDays = DaysBetween(minDate, maxDate)

// NormalizeDate drops the clock component of t, keeping the calendar date as
// seen in t's own location, and returns it as midnight UTC.
func NormalizeDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate accepts YYYY-MM-DD or RFC3339 and returns a normalized date.
func ParseDate(field, s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, Required(field)
	}
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, checkBounds(field, t)
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		t = NormalizeDate(t)
		return t, checkBounds(field, t)
	}
	return time.Time{}, &ValidationError{
		Field:   field,
		Message: fmt.Sprintf("invalid date %q (expected YYYY-MM-DD)", s),
	}
}

// FormatDate renders t as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// DaysBetween returns the number of whole calendar days from start to end.
// It counts Unix seconds, so it holds past the ~292 year limit of
// time.Duration.
func DaysBetween(start, end time.Time) int {
	return int((NormalizeDate(end).Unix() - NormalizeDate(start).Unix()) / secondsPerDay)
}

// InclusiveDays is the duration of [start, end] counting both ends.
func InclusiveDays(start, end time.Time) int {
	return DaysBetween(start, end) + 1
}

// ShiftDays moves t by n calendar days; n may be negative.
func ShiftDays(t time.Time, n int) time.Time {
	return NormalizeDate(t).AddDate(0, 0, n)
}

func validateRange(start, end time.Time) error {
	if start.IsZero() {
		return Required("startDate")
	}
	if end.IsZero() {
		return Required("endDate")
	}
	if err := checkBounds("startDate", start); err != nil {
		return err
	}
	if err := checkBounds("endDate", end); err != nil {
		return err
	}
	if NormalizeDate(end).Before(NormalizeDate(start)) {
		return &ValidationError{
			Field:   "endDate",
			Message: fmt.Sprintf("%s is before startDate %s", FormatDate(end), FormatDate(start)),
		}
	}
	return nil
}

func checkBounds(field string, t time.Time) error {
	t = NormalizeDate(t)
	if t.Before(minDate) || t.After(maxDate) {
		return &ValidationError{
			Field:   field,
			Message: fmt.Sprintf("%s is outside years %04d-%04d", FormatDate(t), MinYear, MaxYear),
		}
	}
	return nil
}

// ValidateShift reports whether moving r by n days keeps it inside the
// supported years.
func (r DateRange) ValidateShift(field string, n int) error {
	if n > maxShiftDays || n < -maxShiftDays {
		return &ValidationError{Field: field, Message: fmt.Sprintf("shift of %d days is out of range", n)}
	}
	if err := checkBounds(field, ShiftDays(r.Start, n)); err != nil {
		return err
	}
	return checkBounds(field, ShiftDays(r.End, n))
}
