package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDay_ISOWeek(t *testing.T) {
	day := Day{Date: "2024-06-03", DT: 1, DL: 0}
	year, week, err := day.ISOWeek()
	require.NoError(t, err)
	assert.Equal(t, 2024, year)
	assert.Equal(t, 23, week)
}

func TestDay_ISOWeek_InvalidDate(t *testing.T) {
	day := Day{Date: "not-a-date"}
	_, _, err := day.ISOWeek()
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestGroupByWeek(t *testing.T) {
	days := []Day{
		{Date: "2024-06-03", DT: 1, DL: 0}, // Monday, ISO week 23
		{Date: "2024-06-04", DT: 1, DL: 0},
		{Date: "2024-06-10", DT: 1, DL: 0}, // Monday, ISO week 24
	}

	order, groups, err := GroupByWeek(days)
	require.NoError(t, err)
	require.Len(t, order, 2)

	assert.Equal(t, WeekKey{Year: 2024, Week: 23}, order[0])
	assert.Equal(t, WeekKey{Year: 2024, Week: 24}, order[1])
	assert.Equal(t, []int{0, 1}, groups[order[0]])
	assert.Equal(t, []int{2}, groups[order[1]])
}
