package profile

import "time"

// Streak counts consecutive days of use.
type Streak struct {
	Current       int    `json:"currentStreak" yaml:"current"`
	LastLoginDate string `json:"lastLoginDate" yaml:"last_login_date"`
	TotalDays     int    `json:"totalDays" yaml:"total_days"`
}

// Touch records a visit at now. It reports whether anything changed, so
// callers can skip a write on repeat visits within the same day.
func (s *Streak) Touch(now time.Time) (Streak, bool) {
	today := now.Format(time.DateOnly)
	if s == nil || s.LastLoginDate == "" {
		return Streak{Current: 1, LastLoginDate: today, TotalDays: 1}, true
	}

	last, err := time.ParseInLocation(time.DateOnly, s.LastLoginDate, now.Location())
	if err != nil {
		return Streak{Current: 1, LastLoginDate: today, TotalDays: s.TotalDays + 1}, true
	}
	days := daysBetween(last, now)

	switch {
	case days <= 0:
		return *s, false
	case days == 1:
		return Streak{Current: s.Current + 1, LastLoginDate: today, TotalDays: s.TotalDays + 1}, true
	default:
		return Streak{Current: 1, LastLoginDate: today, TotalDays: s.TotalDays + 1}, true
	}
}

// Reset starts the current run over without losing the total.
func (s *Streak) Reset(now time.Time) Streak {
	total := 1
	if s != nil {
		total = s.TotalDays + 1
	}
	return Streak{Current: 1, LastLoginDate: now.Format(time.DateOnly), TotalDays: total}
}

// daysBetween counts calendar days, so 23:59 to 00:01 is one day.
func daysBetween(from, to time.Time) int {
	a := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	b := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}
