package value

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// now is a Wednesday: 2024-06-12. ISO week runs Mon 2024-06-10 .. Sun 2024-06-16.
var intervalNow = time.Date(2024, 6, 12, 14, 30, 0, 0, time.UTC)

func TestIntervalDayBuckets(t *testing.T) {
	day := func(y int, m time.Month, d int) time.Time {
		return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
	}

	tests := []struct {
		name string
		iv   Interval
		t    time.Time
		want bool
	}{
		{"today matches", IntervalToday, day(2024, 6, 12), true},
		{"today excludes yesterday", IntervalToday, day(2024, 6, 11), false},
		{"yesterday", IntervalYesterday, day(2024, 6, 11), true},
		{"tomorrow", IntervalTomorrow, day(2024, 6, 13), true},

		{"earlier this week starts monday", IntervalEarlierThisWeek, day(2024, 6, 10), true},
		{"earlier this week excludes today", IntervalEarlierThisWeek, day(2024, 6, 12), false},
		{"later this week starts tomorrow", IntervalLaterThisWeek, day(2024, 6, 13), true},
		{"later this week ends sunday", IntervalLaterThisWeek, day(2024, 6, 16), true},
		{"later this week excludes next monday", IntervalLaterThisWeek, day(2024, 6, 17), false},
		{"last week", IntervalLastWeek, day(2024, 6, 3), true},
		{"last week excludes this monday", IntervalLastWeek, day(2024, 6, 10), false},
		{"this week spans monday to sunday", IntervalThisWeek, day(2024, 6, 16), true},
		{"next week", IntervalNextWeek, day(2024, 6, 18), true},

		{"earlier this month before this week", IntervalEarlierThisMonth, day(2024, 6, 5), true},
		{"earlier this month excludes this week", IntervalEarlierThisMonth, day(2024, 6, 10), false},
		{"later this month after this week", IntervalLaterThisMonth, day(2024, 6, 20), true},
		{"later this month excludes this sunday", IntervalLaterThisMonth, day(2024, 6, 16), false},
		{"last month", IntervalLastMonth, day(2024, 5, 20), true},
		{"this month", IntervalThisMonth, day(2024, 6, 1), true},
		{"next month", IntervalNextMonth, day(2024, 7, 4), true},

		{"earlier this year before this month", IntervalEarlierThisYear, day(2024, 2, 10), true},
		{"earlier this year excludes this month", IntervalEarlierThisYear, day(2024, 6, 1), false},
		{"later this year after this month", IntervalLaterThisYear, day(2024, 8, 1), true},
		{"last year", IntervalLastYear, day(2023, 11, 5), true},
		{"this year", IntervalThisYear, day(2024, 12, 31), true},
		{"next year", IntervalNextYear, day(2025, 3, 1), true},
		{"prior to this year", IntervalPriorThisYear, day(2022, 1, 1), true},
		{"beyond this year", IntervalBeyondThisYear, day(2026, 1, 1), true},
		{"beyond excludes this year", IntervalBeyondThisYear, day(2024, 12, 31), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.iv.In(tt.t, intervalNow))
		})
	}
}

func TestStartOfWeekIsMonday(t *testing.T) {
	// Sunday belongs to the week that started the previous Monday.
	sunday := time.Date(2024, 6, 16, 23, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC), startOfWeek(sunday))

	monday := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, monday, startOfWeek(monday))
}
