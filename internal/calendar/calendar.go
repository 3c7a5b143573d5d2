package calendar

import (
	"time"

	"github.com/segyhp/collection-engine/pkg/utils"
)

// maxBlockedRun bounds NextAllowed. The longest run the rules can produce is
// Dec 31 + Jan 1 followed by a Sunday.
const maxBlockedRun = 7

type monthDay struct {
	month time.Month
	day   int
}

var fixedBlockedDays = map[monthDay]struct{}{
	{time.December, 24}: {},
	{time.December, 25}: {},
	{time.December, 31}: {},
	{time.January, 1}:   {},
}

// IsBlocked reports whether no installment may fall on the given date:
// Sundays and the fixed year-end holidays.
func IsBlocked(date time.Time) bool {
	d := utils.DateOnly(date)
	if d.Weekday() == time.Sunday {
		return true
	}
	_, ok := fixedBlockedDays[monthDay{d.Month(), d.Day()}]
	return ok
}

// NextAllowed returns date itself when it is allowed, otherwise the first
// allowed day after it.
func NextAllowed(date time.Time) time.Time {
	d := utils.DateOnly(date)
	for i := 0; i < maxBlockedRun && IsBlocked(d); i++ {
		d = d.AddDate(0, 0, 1)
	}
	return d
}

// Clock supplies "today" to the engine.
type Clock interface {
	Today() time.Time
}

// SystemClock reads the wall clock in a fixed location.
type SystemClock struct {
	Location *time.Location
}

func (c SystemClock) Today() time.Time {
	loc := c.Location
	if loc == nil {
		loc = time.UTC
	}
	return utils.DateOnly(time.Now().In(loc))
}

// FixedClock always returns the same day.
type FixedClock time.Time

func (c FixedClock) Today() time.Time {
	return utils.DateOnly(time.Time(c))
}
