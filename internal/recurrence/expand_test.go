package recurrence

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpand_TuesdaysInNovember(t *testing.T) {
	t.Parallel()

	dates, err := Expand("2024-11-01", "2024-11-30", 2)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"2024-11-05",
		"2024-11-12",
		"2024-11-19",
		"2024-11-26",
	}, dates)
}

func TestExpand_BoundariesInclusive(t *testing.T) {
	t.Parallel()

	// 2024-11-04 is a Monday, 2024-11-25 too.
	dates, err := Expand("2024-11-04", "2024-11-25", 1)
	require.NoError(t, err)
	require.Len(t, dates, 4)
	assert.Equal(t, "2024-11-04", dates[0])
	assert.Equal(t, "2024-11-25", dates[3])
}

func TestExpand_SingleDayRange(t *testing.T) {
	t.Parallel()

	dates, err := Expand("2024-11-06", "2024-11-06", 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-11-06"}, dates)

	// Same single-day range but a different weekday yields nothing.
	dates, err = Expand("2024-11-06", "2024-11-06", 4)
	require.NoError(t, err)
	assert.Empty(t, dates)
}

func TestExpand_InvertedRange(t *testing.T) {
	t.Parallel()

	dates, err := Expand("2024-11-30", "2024-11-01", 2)
	require.NoError(t, err)
	assert.Empty(t, dates)
}

func TestExpand_MalformedDates(t *testing.T) {
	t.Parallel()

	_, err := Expand("not-a-date", "2024-11-30", 2)
	assert.Error(t, err)

	_, err = Expand("2024-11-01", "30/11/2024", 2)
	assert.Error(t, err)
}

func TestExpand_CrossesMonthAndYear(t *testing.T) {
	t.Parallel()

	// Fridays from late December into January.
	dates, err := Expand("2024-12-20", "2025-01-10", 5)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"2024-12-20",
		"2024-12-27",
		"2025-01-03",
		"2025-01-10",
	}, dates)
}

func TestIsoWeekday_SundayMapsToSeven(t *testing.T) {
	t.Parallel()

	// 2024-11-03 is a Sunday; weekday 7 is outside the accepted range but the
	// mapping itself must be stable for the comparison to be correct.
	dates, err := Expand("2024-11-03", "2024-11-03", 7)
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-11-03"}, dates)
}
