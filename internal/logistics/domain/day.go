package domain

import (
	"fmt"
	"time"
)

// Day is one day of the planning horizon: its calendar date and how many
// drivers are available at each depot. D_T and D_L are normalized counts
// already resolved by the external day-builder (spec.md §9) — the core
// never accepts a per-date mapping, only this positional record.
type Day struct {
	Date string // YYYY-MM-DD
	DT   int
	DL   int
}

// parsedDate parses Date as a Gregorian calendar date.
func (d Day) parsedDate() (time.Time, error) {
	t, err := time.Parse("2006-01-02", d.Date)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid date %q: %v", ErrInvalidRequest, d.Date, err)
	}
	return t, nil
}

// ISOWeek returns the ISO-8601 (year, week) of the day's date.
func (d Day) ISOWeek() (year, week int, err error) {
	t, err := d.parsedDate()
	if err != nil {
		return 0, 0, err
	}
	year, week = t.ISOWeek()
	return year, week, nil
}

// WeekKey identifies an ISO (year, week) pair, used to group days for the
// weekly/biweekly accumulation constraints (C7, C8).
type WeekKey struct {
	Year int
	Week int
}

// GroupByWeek groups day indices by ISO (year, week), preserving the
// ascending order in which week keys are first encountered.
func GroupByWeek(days []Day) ([]WeekKey, map[WeekKey][]int, error) {
	order := make([]WeekKey, 0)
	groups := make(map[WeekKey][]int)
	for i, day := range days {
		year, week, err := day.ISOWeek()
		if err != nil {
			return nil, nil, err
		}
		key := WeekKey{Year: year, Week: week}
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], i)
	}
	return order, groups, nil
}
