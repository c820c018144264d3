package domain

import (
	"fmt"
	"strings"
	"time"
)

const DayLayout = "2006-01-02"

// Day identifies a calendar day in the user's local calendar (YYYY-MM-DD).
// The string form is the canonical set key, so lexical order is calendar order.
type Day string

// DayOf derives the Day of t in t's own location. It is the only place a
// timestamp becomes a Day; clocks hand out local times so the boundary is the
// user's local midnight.
func DayOf(t time.Time) Day {
	return Day(t.Format(DayLayout))
}

func ParseDay(s string) (Day, error) {
	t, err := time.Parse(DayLayout, strings.TrimSpace(s))
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidDay, s)
	}
	return DayOf(t), nil
}

func (d Day) String() string { return string(d) }

func (d Day) Valid() bool {
	_, err := time.Parse(DayLayout, string(d))
	return err == nil
}

// Time returns midnight UTC of d. Arithmetic runs on UTC midnights so a DST
// transition never skips or repeats a day. Invalid days yield the zero time.
func (d Day) Time() time.Time {
	t, err := time.Parse(DayLayout, string(d))
	if err != nil {
		return time.Time{}
	}
	return t
}

func (d Day) AddDays(n int) Day {
	return DayOf(d.Time().AddDate(0, 0, n))
}

func (d Day) Prev() Day { return d.AddDays(-1) }

func (d Day) Next() Day { return d.AddDays(1) }

func (d Day) Weekday() time.Weekday { return d.Time().Weekday() }

func (d Day) Before(other Day) bool { return d < other }

func (d Day) After(other Day) bool { return d > other }
