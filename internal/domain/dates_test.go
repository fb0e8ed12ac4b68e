package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(s string) time.Time {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestParseDate_Layouts(t *testing.T) {
	d, err := ParseDate("startDate", "2025-01-05")
	require.NoError(t, err)
	assert.Equal(t, date("2025-01-05"), d)

	d, err = ParseDate("startDate", "2025-01-05T22:30:00+02:00")
	require.NoError(t, err)
	assert.Equal(t, date("2025-01-05"), d, "calendar date is taken in the value's own zone")
}

func TestParseDate_Empty(t *testing.T) {
	_, err := ParseDate("endDate", "  ")
	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.Contains(t, err.Error(), "endDate")
}

func TestParseDate_Garbage(t *testing.T) {
	_, err := ParseDate("startDate", "05/01/2025")
	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.Contains(t, err.Error(), "YYYY-MM-DD")
}

func TestInclusiveDays(t *testing.T) {
	cases := []struct {
		start, end string
		want       int
	}{
		{"2025-01-01", "2025-01-01", 1},
		{"2025-01-01", "2025-01-10", 10},
		{"2025-01-01", "2025-01-20", 20},
		{"2025-02-01", "2025-03-05", 33},
		{"2024-02-28", "2024-03-01", 3},
		{"1700-01-01", "2100-01-01", 146098},
		{"0001-01-01", "9999-12-31", 3652059},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, InclusiveDays(date(tc.start), date(tc.end)), "%s..%s", tc.start, tc.end)
	}
}

func TestDaysBetween_IgnoresClock(t *testing.T) {
	start := time.Date(2025, 3, 1, 23, 59, 0, 0, time.UTC)
	end := time.Date(2025, 3, 2, 0, 1, 0, 0, time.UTC)
	assert.Equal(t, 1, DaysBetween(start, end))
}

func TestShiftDays(t *testing.T) {
	assert.Equal(t, date("2025-05-06"), ShiftDays(date("2025-05-01"), 5))
	assert.Equal(t, date("2025-04-26"), ShiftDays(date("2025-05-01"), -5))
	assert.Equal(t, date("2025-03-01"), ShiftDays(date("2025-02-28"), 1))
}

func TestParseDate_RejectsYearZero(t *testing.T) {
	_, err := ParseDate("startDate", "0000-06-01T00:00:00Z")
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "startDate", ve.Field)
	assert.Contains(t, ve.Message, "outside years 0001-9999")

	d, err := ParseDate("endDate", "9999-12-31")
	require.NoError(t, err)
	assert.Equal(t, 9999, d.Year())
}

func TestValidateShift(t *testing.T) {
	r := DateRange{Start: date("2025-01-01"), End: date("2025-01-10")}
	require.NoError(t, r.ValidateShift("days", 2_000_000))
	assert.True(t, IsValidation(r.ValidateShift("days", 3_000_000_000)))
	assert.True(t, IsValidation(r.ValidateShift("days", -740_000)))
}
