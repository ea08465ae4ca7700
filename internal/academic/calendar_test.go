package academic

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func testCalendar() Calendar {
	// 13 teaching weeks per term; 2-week breaks after First and Second,
	// a 6-week break after Third. Window lengths: 105, 105, 133 days.
	return Calendar{
		ScheduleStart: date(2024, time.September, 9),
		TermWeeks:     13,
		HolidayWeeks:  [3]int{2, 2, 6},
	}
}

func TestResolve_FirstTermStart(t *testing.T) {
	got, err := Resolve(date(2024, time.September, 9), testCalendar())

	require.NoError(t, err)
	assert.Equal(t, "2024/2025", got.Session)
	assert.Equal(t, TermFirst, got.Term)
	assert.Equal(t, date(2024, time.September, 9), got.TermStart)
	assert.Equal(t, date(2024, time.December, 23), got.TermEnd)
}

func TestResolve_WalksIntoSecondTerm(t *testing.T) {
	// First window is 15 weeks (105 days): Sep 9 + 105d = Dec 23.
	got, err := Resolve(date(2024, time.December, 23), testCalendar())

	require.NoError(t, err)
	assert.Equal(t, "2024/2025", got.Session)
	assert.Equal(t, TermSecond, got.Term)
	assert.Equal(t, date(2024, time.December, 23), got.TermStart)
}

func TestResolve_ThirdTerm(t *testing.T) {
	// Second window ends Dec 23 + 105d = Apr 7 2025.
	got, err := Resolve(date(2025, time.May, 1), testCalendar())

	require.NoError(t, err)
	assert.Equal(t, "2024/2025", got.Session)
	assert.Equal(t, TermThird, got.Term)
}

func TestResolve_SessionRollsOverAfterThreeTerms(t *testing.T) {
	// Third window ends Apr 7 + 133d = Aug 18 2025.
	got, err := Resolve(date(2025, time.August, 18), testCalendar())

	require.NoError(t, err)
	assert.Equal(t, "2025/2026", got.Session)
	assert.Equal(t, TermFirst, got.Term)
	assert.Equal(t, date(2025, time.August, 18), got.TermStart)
}

func TestResolve_HalfOpenWindow(t *testing.T) {
	cal := testCalendar()

	lastDayOfFirst, err := Resolve(date(2024, time.December, 22), cal)
	require.NoError(t, err)
	assert.Equal(t, TermFirst, lastDayOfFirst.Term)

	firstDayOfSecond, err := Resolve(date(2024, time.December, 23), cal)
	require.NoError(t, err)
	assert.Equal(t, TermSecond, firstDayOfSecond.Term)
}

func TestResolve_ContainsReferenceDate(t *testing.T) {
	cal := testCalendar()

	for _, ref := range []time.Time{
		date(2024, time.September, 9),
		date(2024, time.November, 2),
		date(2025, time.February, 14),
		date(2025, time.June, 30),
		date(2026, time.January, 5),
	} {
		got, err := Resolve(ref, cal)
		require.NoError(t, err)
		assert.False(t, ref.Before(got.TermStart), "term start must not exceed %s", ref)
		assert.True(t, ref.Before(got.TermEnd), "term end must be after %s", ref)
	}
}

func TestResolve_BeforeScheduleStart(t *testing.T) {
	_, err := Resolve(date(2024, time.September, 8), testCalendar())
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestResolve_Deterministic(t *testing.T) {
	cal := testCalendar()
	cal.PublicHolidays = []time.Time{date(2024, time.October, 1), date(2025, time.January, 1)}
	ref := date(2025, time.March, 3)

	first, err := Resolve(ref, cal)
	require.NoError(t, err)
	second, err := Resolve(ref, cal)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestResolve_PublicHolidayExtendsWindow(t *testing.T) {
	cal := testCalendar()
	cal.PublicHolidays = []time.Time{date(2024, time.October, 1)}

	// Oct 1 falls inside the first window, pushing its end from Dec 23
	// to Dec 24.
	got, err := Resolve(date(2024, time.December, 23), cal)
	require.NoError(t, err)
	assert.Equal(t, TermFirst, got.Term)
	assert.Equal(t, date(2024, time.December, 24), got.TermEnd)
}

func TestResolve_TimeOfDayIgnored(t *testing.T) {
	cal := testCalendar()

	morning, err := Resolve(time.Date(2024, time.October, 5, 8, 15, 0, 0, time.UTC), cal)
	require.NoError(t, err)
	evening, err := Resolve(time.Date(2024, time.October, 5, 23, 59, 59, 0, time.UTC), cal)
	require.NoError(t, err)

	assert.Equal(t, morning, evening)
}

func TestResolve_TermLabelsAlwaysValid(t *testing.T) {
	cal := testCalendar()
	valid := map[string]bool{TermFirst: true, TermSecond: true, TermThird: true}

	ref := cal.ScheduleStart
	for i := 0; i < 36; i++ {
		got, err := Resolve(ref, cal)
		require.NoError(t, err)
		assert.True(t, valid[got.Term], "unexpected term label %q", got.Term)
		ref = ref.AddDate(0, 1, 0)
	}
}

func TestResolve_InvalidTermLength(t *testing.T) {
	cal := testCalendar()
	cal.TermWeeks = 0

	_, err := Resolve(date(2024, time.October, 1), cal)
	assert.Error(t, err)
}
