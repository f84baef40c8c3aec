package value

import "time"

// Interval is a named relative-date bucket used by the DateInterval
// operator. Buckets are anchored to "now" at evaluation time.
type Interval uint8

const (
	IntervalToday Interval = iota
	IntervalYesterday
	IntervalTomorrow
	IntervalEarlierThisWeek
	IntervalLaterThisWeek
	IntervalLastWeek
	IntervalThisWeek
	IntervalNextWeek
	IntervalEarlierThisMonth
	IntervalLaterThisMonth
	IntervalLastMonth
	IntervalThisMonth
	IntervalNextMonth
	IntervalEarlierThisYear
	IntervalLaterThisYear
	IntervalLastYear
	IntervalThisYear
	IntervalNextYear
	IntervalPriorThisYear
	IntervalBeyondThisYear
)

// Intervals lists every bucket in display order.
var Intervals = []Interval{
	IntervalPriorThisYear,
	IntervalLastYear,
	IntervalEarlierThisYear,
	IntervalLastMonth,
	IntervalEarlierThisMonth,
	IntervalLastWeek,
	IntervalEarlierThisWeek,
	IntervalYesterday,
	IntervalToday,
	IntervalTomorrow,
	IntervalLaterThisWeek,
	IntervalNextWeek,
	IntervalLaterThisMonth,
	IntervalNextMonth,
	IntervalLaterThisYear,
	IntervalNextYear,
	IntervalBeyondThisYear,
	IntervalThisWeek,
	IntervalThisMonth,
	IntervalThisYear,
}

// String returns the display label of the bucket.
func (iv Interval) String() string {
	switch iv {
	case IntervalToday:
		return "Today"
	case IntervalYesterday:
		return "Yesterday"
	case IntervalTomorrow:
		return "Tomorrow"
	case IntervalEarlierThisWeek:
		return "Earlier this week"
	case IntervalLaterThisWeek:
		return "Later this week"
	case IntervalLastWeek:
		return "Last week"
	case IntervalThisWeek:
		return "This week"
	case IntervalNextWeek:
		return "Next week"
	case IntervalEarlierThisMonth:
		return "Earlier this month"
	case IntervalLaterThisMonth:
		return "Later this month"
	case IntervalLastMonth:
		return "Last month"
	case IntervalThisMonth:
		return "This month"
	case IntervalNextMonth:
		return "Next month"
	case IntervalEarlierThisYear:
		return "Earlier this year"
	case IntervalLaterThisYear:
		return "Later this year"
	case IntervalLastYear:
		return "Last year"
	case IntervalThisYear:
		return "This year"
	case IntervalNextYear:
		return "Next year"
	case IntervalPriorThisYear:
		return "Prior to this year"
	case IntervalBeyondThisYear:
		return "Beyond this year"
	default:
		return "Unknown"
	}
}

// In reports whether t falls inside the bucket relative to now.
//
// Boundary semantics: days are calendar days in now's location; weeks are
// ISO weeks starting on Monday; "earlier this week" excludes today and
// "later this week" starts tomorrow, with the same split applied at month
// and year granularity against the current week and month respectively.
func (iv Interval) In(t, now time.Time) bool {
	t = t.In(now.Location())
	day := startOfDay(now)
	week := startOfWeek(now)
	month := startOfMonth(now)
	year := startOfYear(now)

	switch iv {
	case IntervalToday:
		return inSpan(t, day, day.AddDate(0, 0, 1))
	case IntervalYesterday:
		return inSpan(t, day.AddDate(0, 0, -1), day)
	case IntervalTomorrow:
		return inSpan(t, day.AddDate(0, 0, 1), day.AddDate(0, 0, 2))
	case IntervalEarlierThisWeek:
		return inSpan(t, week, day)
	case IntervalLaterThisWeek:
		return inSpan(t, day.AddDate(0, 0, 1), week.AddDate(0, 0, 7))
	case IntervalLastWeek:
		return inSpan(t, week.AddDate(0, 0, -7), week)
	case IntervalThisWeek:
		return inSpan(t, week, week.AddDate(0, 0, 7))
	case IntervalNextWeek:
		return inSpan(t, week.AddDate(0, 0, 7), week.AddDate(0, 0, 14))
	case IntervalEarlierThisMonth:
		return inSpan(t, month, week)
	case IntervalLaterThisMonth:
		return inSpan(t, week.AddDate(0, 0, 7), month.AddDate(0, 1, 0))
	case IntervalLastMonth:
		return inSpan(t, month.AddDate(0, -1, 0), month)
	case IntervalThisMonth:
		return inSpan(t, month, month.AddDate(0, 1, 0))
	case IntervalNextMonth:
		return inSpan(t, month.AddDate(0, 1, 0), month.AddDate(0, 2, 0))
	case IntervalEarlierThisYear:
		return inSpan(t, year, month)
	case IntervalLaterThisYear:
		return inSpan(t, month.AddDate(0, 1, 0), year.AddDate(1, 0, 0))
	case IntervalLastYear:
		return inSpan(t, year.AddDate(-1, 0, 0), year)
	case IntervalThisYear:
		return inSpan(t, year, year.AddDate(1, 0, 0))
	case IntervalNextYear:
		return inSpan(t, year.AddDate(1, 0, 0), year.AddDate(2, 0, 0))
	case IntervalPriorThisYear:
		return t.Before(year)
	case IntervalBeyondThisYear:
		return !t.Before(year.AddDate(1, 0, 0))
	default:
		return false
	}
}

// inSpan tests start <= t < end.
func inSpan(t, start, end time.Time) bool {
	return !t.Before(start) && t.Before(end)
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// startOfWeek returns the most recent Monday at midnight (ISO week start).
func startOfWeek(t time.Time) time.Time {
	day := startOfDay(t)
	wd := int(day.Weekday())
	if wd == 0 {
		wd = 7 // Sunday closes the ISO week
	}
	return day.AddDate(0, 0, -(wd - 1))
}

func startOfMonth(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
}

func startOfYear(t time.Time) time.Time {
	return time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, t.Location())
}
