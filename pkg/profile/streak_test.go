package profile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(y int, m time.Month, d, h int) time.Time {
	return time.Date(y, m, d, h, 0, 0, 0, time.UTC)
}

func TestStreakTouch(t *testing.T) {
	tests := []struct {
		name        string
		start       *Streak
		now         time.Time
		want        Streak
		wantChanged bool
	}{
		{
			name:        "first use",
			now:         day(2026, 3, 1, 9),
			want:        Streak{Current: 1, LastLoginDate: "2026-03-01", TotalDays: 1},
			wantChanged: true,
		},
		{
			name:  "same day",
			start: &Streak{Current: 4, LastLoginDate: "2026-03-01", TotalDays: 10},
			now:   day(2026, 3, 1, 23),
			want:  Streak{Current: 4, LastLoginDate: "2026-03-01", TotalDays: 10},
		},
		{
			name:        "next day",
			start:       &Streak{Current: 4, LastLoginDate: "2026-03-01", TotalDays: 10},
			now:         day(2026, 3, 2, 0),
			want:        Streak{Current: 5, LastLoginDate: "2026-03-02", TotalDays: 11},
			wantChanged: true,
		},
		{
			name:        "gap resets current",
			start:       &Streak{Current: 4, LastLoginDate: "2026-03-01", TotalDays: 10},
			now:         day(2026, 3, 5, 12),
			want:        Streak{Current: 1, LastLoginDate: "2026-03-05", TotalDays: 11},
			wantChanged: true,
		},
		{
			name:        "across month end",
			start:       &Streak{Current: 1, LastLoginDate: "2026-02-28", TotalDays: 1},
			now:         day(2026, 3, 1, 8),
			want:        Streak{Current: 2, LastLoginDate: "2026-03-01", TotalDays: 2},
			wantChanged: true,
		},
		{
			name:        "unreadable date",
			start:       &Streak{Current: 3, LastLoginDate: "Sun Mar 01 2026", TotalDays: 3},
			now:         day(2026, 3, 2, 8),
			want:        Streak{Current: 1, LastLoginDate: "2026-03-02", TotalDays: 4},
			wantChanged: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, changed := tt.start.Touch(tt.now)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantChanged, changed)
		})
	}
}

func TestStreakReset(t *testing.T) {
	s := &Streak{Current: 9, LastLoginDate: "2026-03-01", TotalDays: 20}
	assert.Equal(t, Streak{Current: 1, LastLoginDate: "2026-03-03", TotalDays: 21}, s.Reset(day(2026, 3, 3, 1)))

	var none *Streak
	assert.Equal(t, Streak{Current: 1, LastLoginDate: "2026-03-03", TotalDays: 1}, none.Reset(day(2026, 3, 3, 1)))
}
