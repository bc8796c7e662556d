package services

import "time"

// NextStreak computes the login streak after a login at now, given the
// previous login time and streak. Days are UTC calendar days: a login the day
// after the previous one extends the streak, a second login on the same day
// keeps it, and anything else restarts it at 1. A user with no recorded login
// starts at 1.
func NextStreak(prev *time.Time, current int, now time.Time) int {
	if prev == nil || prev.IsZero() {
		return 1
	}
	today := utcDay(now)
	last := utcDay(*prev)
	switch {
	case last.Equal(today):
		return current
	case last.AddDate(0, 0, 1).Equal(today):
		return current + 1
	default:
		return 1
	}
}

func utcDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
