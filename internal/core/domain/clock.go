package domain

import (
	"time"

	"github.com/google/uuid"
)

// Clock is the source of the current local time.
type Clock interface {
	Now() time.Time
}

// IDGenerator hands out opaque habit identifiers.
type IDGenerator interface {
	NewID() string
}

// SystemClock reports wall time in Location, or time.Local when nil.
type SystemClock struct {
	Location *time.Location
}

func (c SystemClock) Now() time.Time {
	if c.Location != nil {
		return time.Now().In(c.Location)
	}
	return time.Now()
}

type UUIDGenerator struct{}

func (UUIDGenerator) NewID() string {
	return uuid.New().String()
}

// Today is the Day the clock is currently in.
func Today(c Clock) Day {
	return DayOf(c.Now())
}
