package clock

import "time"

// Clock provides the current time. Injecting it keeps every calendar-day
// decision (streaks, freezes, daily case selection) testable with a fixed
// "today".
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

// System returns a clock backed by time.Now in the server's local timezone.
// All calendar-day boundaries in the application follow this location.
func System() Clock {
	return systemClock{}
}

type fixedClock struct {
	t time.Time
}

func (c fixedClock) Now() time.Time {
	return c.t
}

// Fixed returns a clock that always reports t.
func Fixed(t time.Time) Clock {
	return fixedClock{t: t}
}

// StartOfDay truncates t to midnight in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DaysBetween returns the number of calendar days from a to b, ignoring the
// time of day. The result is negative when b is before a. Both dates are
// normalized to UTC midnights before subtracting so DST transitions cannot
// produce off-by-one day counts.
func DaysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	ua := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	ub := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua) / (24 * time.Hour))
}

// SameDay reports whether a and b fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	return DaysBetween(a, b) == 0
}

// DateSeed derives the shared daily seed from t's calendar date, e.g.
// 2026-08-31 -> 20260831. Every client evaluating this on the same date gets
// the same seed regardless of process or device.
func DateSeed(t time.Time) int64 {
	y, m, d := t.Date()
	return int64(y)*10000 + int64(m)*100 + int64(d)
}
