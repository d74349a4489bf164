package extract

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	now := day(2026, time.October, 18)

	got, err := Parse("Fixed the bug #proj #PROJ-1234 #today #2h", now)
	require.NoError(t, err)
	assert.Equal(t, "proj PROJ-1234 today 2h", got.Stream)
	assert.Equal(t, "PROJ-1234", got.ItemKey)
	assert.Equal(t, "18-10", got.Day.Token)
	assert.Equal(t, "2h", got.Duration.Token)
}

func TestParse_StopsAtFirstRejectingStage(t *testing.T) {
	now := day(2026, time.October, 18)

	tests := []struct {
		text string
		want error
	}{
		{"no tags at all", ErrNoTask},
		{"#today #2h", ErrAmbiguousTask},
		{"#A-1 #B-2 #today #yday", ErrAmbiguousTask},
		{"#A-1 #today #yday #2h #3h", ErrAmbiguousDay},
		{"#A-1 #2h #3h", ErrAmbiguousDuration},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			_, err := Parse(tt.text, now)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
