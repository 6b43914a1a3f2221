package nutrition

import (
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

// DateLayout is the wire and query-string format for calendar dates.
const DateLayout = "2006-01-02"

// DateOnly wraps time.Time to serialize as "YYYY-MM-DD" in JSON.
// The time part is always midnight UTC.
type DateOnly struct{ time.Time }

// NewDate returns the calendar date of t, ignoring its clock and zone.
func NewDate(t time.Time) DateOnly {
	return DateOnly{time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (DateOnly, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return DateOnly{}, err
	}
	return DateOnly{t}, nil
}

// MustParseDate is ParseDate for literals in tests and seed data.
func MustParseDate(s string) DateOnly {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func (d DateOnly) String() string { return d.Time.Format(DateLayout) }

// AddDays returns the date n calendar days later (earlier when n < 0).
func (d DateOnly) AddDays(n int) DateOnly { return DateOnly{d.Time.AddDate(0, 0, n)} }

func (d DateOnly) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *DateOnly) UnmarshalJSON(b []byte) error {
	t, err := time.Parse(`"`+DateLayout+`"`, string(b))
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// ScanDate implements pgtype.DateScanner so pgx can scan PostgreSQL date
// columns into DateOnly. NULL zeroes the time.
func (d *DateOnly) ScanDate(v pgtype.Date) error {
	if !v.Valid {
		d.Time = time.Time{}
		return nil
	}
	d.Time = v.Time
	return nil
}

// MaxRangeDays caps the inclusive length of a queried date range.
const MaxRangeDays = 366

// CheckRange reports a ValidationError when start is after end or the
// inclusive range spans more than MaxRangeDays.
func CheckRange(start, end DateOnly) error {
	if start.After(end.Time) {
		return NewValidationError("start", "must not be after end")
	}
	if end.After(start.AddDays(MaxRangeDays - 1).Time) {
		return NewValidationError("end", fmt.Sprintf("range must span at most %d days", MaxRangeDays))
	}
	return nil
}

// DaysInRange returns every date in [start, end], or nil when start is after end.
func DaysInRange(start, end DateOnly) []DateOnly {
	if start.After(end.Time) {
		return nil
	}
	var days []DateOnly
	for d := start; !d.After(end.Time); d = d.AddDays(1) {
		days = append(days, d)
	}
	return days
}
