package extract

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestResolveDate_RelativeKeywords(t *testing.T) {
	now := time.Date(2024, time.March, 14, 16, 30, 0, 0, time.UTC)

	tests := []struct {
		stream string
		token  string
		date   time.Time
	}{
		{"PROJ-1 today", "14-3", day(2024, time.March, 14)},
		{"PROJ-1 Today", "14-3", day(2024, time.March, 14)},
		{"PROJ-1 yesterday", "13-3", day(2024, time.March, 13)},
		{"YDAY PROJ-1 2h", "13-3", day(2024, time.March, 13)},
	}

	for _, tt := range tests {
		t.Run(tt.stream, func(t *testing.T) {
			got, err := ResolveDate(tt.stream, now)
			require.NoError(t, err)
			assert.Equal(t, tt.token, got.Token)
			assert.True(t, got.Date.Equal(tt.date), "date %s, want %s", got.Date, tt.date)
			assert.True(t, got.Relative)
			assert.False(t, got.Defaulted)
		})
	}
}

func TestResolveDate_YesterdayCrossesMonthAndYear(t *testing.T) {
	got, err := ResolveDate("yesterday", day(2024, time.March, 1))
	require.NoError(t, err)
	assert.Equal(t, "29-2", got.Token)

	got, err = ResolveDate("yesterday", day(2024, time.January, 1))
	require.NoError(t, err)
	assert.Equal(t, "31-12", got.Token)
	assert.Equal(t, 2023, got.Date.Year())
}

func TestResolveDate_DefaultsToToday(t *testing.T) {
	got, err := ResolveDate("PROJ-1 2h", day(2026, time.October, 18))
	require.NoError(t, err)
	assert.Equal(t, "18-10", got.Token)
	assert.True(t, got.Defaulted)
	assert.True(t, got.Relative)
}

func TestResolveDate_ExplicitPassesThrough(t *testing.T) {
	now := day(2024, time.June, 2)

	for _, token := range []string{"03-15", "03.15", "12-31"} {
		t.Run(token, func(t *testing.T) {
			got, err := ResolveDate("PROJ-1 "+token+" 2h", now)
			require.NoError(t, err)
			assert.Equal(t, token, got.Token)
			assert.False(t, got.Relative)
			assert.False(t, got.Defaulted)
		})
	}

	got, err := ResolveDate("03-15", now)
	require.NoError(t, err)
	assert.True(t, got.Date.Equal(day(2024, time.March, 15)))

	// Tags are space-joined, so separate month and day tags form a date.
	got, err = ResolveDate("PROJ-1 03 15", now)
	require.NoError(t, err)
	assert.Equal(t, "03 15", got.Token)
}

func TestResolveDate_ExplicitNeverInTheFuture(t *testing.T) {
	tests := []struct {
		name  string
		token string
		now   time.Time
		want  time.Time
	}{
		{"late december seen in january", "12-31", day(2026, time.January, 2), day(2025, time.December, 31)},
		{"today is this year", "01-02", day(2026, time.January, 2), day(2026, time.January, 2)},
		{"tomorrow is last year", "01-03", day(2026, time.January, 2), day(2025, time.January, 3)},
		{"earlier this year", "03-15", day(2024, time.June, 2), day(2024, time.March, 15)},
		{"leap day from the following year", "02-29", day(2025, time.January, 10), day(2024, time.February, 29)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveDate(tt.token, tt.now)
			require.NoError(t, err)
			assert.Equal(t, tt.token, got.Token)
			assert.True(t, got.Date.Equal(tt.want), "date %s, want %s", got.Date, tt.want)
		})
	}
}

func TestResolveDate_ExplicitBeatsRelative(t *testing.T) {
	got, err := ResolveDate("yesterday 03-15 today", day(2024, time.June, 2))
	require.NoError(t, err)
	assert.Equal(t, "03-15", got.Token)
}

func TestResolveDate_Ambiguous(t *testing.T) {
	now := day(2024, time.June, 2)

	for _, stream := range []string{
		"today yesterday",
		"yday today PROJ-1",
		"03-15 04-01",
		"02-30",
	} {
		_, err := ResolveDate(stream, now)
		assert.ErrorIs(t, err, ErrAmbiguousDay, "stream %q", stream)
	}
}

func TestResolveDate_IgnoresPartialTags(t *testing.T) {
	got, err := ResolveDate("PROJ-03-15 todays", day(2024, time.June, 2))
	require.NoError(t, err)
	assert.True(t, got.Defaulted)
}

func TestResolveDate_DependsOnTheClock(t *testing.T) {
	a, err := ResolveDate("today", day(2024, time.June, 2))
	require.NoError(t, err)
	b, err := ResolveDate("today", day(2024, time.June, 3))
	require.NoError(t, err)
	assert.NotEqual(t, a.Token, b.Token)
}
