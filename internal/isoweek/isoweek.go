// Package isoweek implements ISO-8601 year-week arithmetic. Weeks are keyed
// as YYYYWW so that streaks can be walked across year boundaries, where naive
// week-number subtraction breaks (week 1 follows week 52 or 53).
package isoweek

import (
	"fmt"
	"time"
)

// YearWeek identifies one ISO week.
type YearWeek struct {
	Year int
	Week int
}

// Of returns the ISO year-week containing the calendar day of t.
func Of(t time.Time) YearWeek {
	y, w := t.ISOWeek()
	return YearWeek{Year: y, Week: w}
}

// FromKey parses a YYYYWW key.
func FromKey(key int) (YearWeek, error) {
	yw := YearWeek{Year: key / 100, Week: key % 100}
	if yw.Year <= 0 || yw.Week < 1 || yw.Week > WeeksInYear(yw.Year) {
		return YearWeek{}, fmt.Errorf("invalid ISO week key %d", key)
	}
	return yw, nil
}

// WeeksInYear returns 52 or 53. December 28 always falls in the last ISO
// week of its year.
func WeeksInYear(year int) int {
	_, w := time.Date(year, time.December, 28, 0, 0, 0, 0, time.UTC).ISOWeek()
	return w
}

// Key returns the YYYYWW integer form.
func (yw YearWeek) Key() int {
	return yw.Year*100 + yw.Week
}

func (yw YearWeek) String() string {
	return fmt.Sprintf("%04d-W%02d", yw.Year, yw.Week)
}

// Prev returns the week before yw, rolling into the last week of the prior year.
func (yw YearWeek) Prev() YearWeek {
	if yw.Week > 1 {
		return YearWeek{Year: yw.Year, Week: yw.Week - 1}
	}
	return YearWeek{Year: yw.Year - 1, Week: WeeksInYear(yw.Year - 1)}
}

// Next returns the week after yw.
func (yw YearWeek) Next() YearWeek {
	if yw.Week < WeeksInYear(yw.Year) {
		return YearWeek{Year: yw.Year, Week: yw.Week + 1}
	}
	return YearWeek{Year: yw.Year + 1, Week: 1}
}

// Monday returns midnight UTC of the Monday that starts yw. Week 1 is the
// week containing January 4.
func (yw YearWeek) Monday() time.Time {
	jan4 := time.Date(yw.Year, time.January, 4, 0, 0, 0, 0, time.UTC)
	offset := (int(jan4.Weekday()) + 6) % 7
	return jan4.AddDate(0, 0, -offset+(yw.Week-1)*7)
}

// ConsecutiveFrom counts the weeks present in keys starting at current and
// walking backward until the first missing week.
func ConsecutiveFrom(current YearWeek, keys map[int]bool) int {
	n := 0
	for w := current; keys[w.Key()]; w = w.Prev() {
		n++
	}
	return n
}
