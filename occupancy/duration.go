package occupancy

import (
	"fmt"
	"time"

	"readinghall-dashboard/model"
)

const millisPerMinute = 60_000

// DurationMinutes is floor((now - checkIn) / 60000) on millisecond epochs.
// Negative values from clock skew are returned unclamped.
func DurationMinutes(checkIn time.Time, now time.Time) int64 {
	delta := now.UnixMilli() - checkIn.UnixMilli()
	minutes := delta / millisPerMinute
	if delta%millisPerMinute != 0 && delta < 0 {
		minutes--
	}
	return minutes
}

// SessionMinutes projects the elapsed minutes of a session. ok is false when
// the session carries no check-in time.
func SessionMinutes(session model.Session, now time.Time) (int64, bool) {
	if session.CheckInTime.IsZero() {
		return 0, false
	}
	return DurationMinutes(session.CheckInTime.Time, now), true
}

// FormatMinutes renders a duration as "2h 05m" or "45m".
func FormatMinutes(minutes int64) string {
	if minutes < 0 {
		return fmt.Sprintf("%dm", minutes)
	}
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}
	return fmt.Sprintf("%dh %02dm", minutes/60, minutes%60)
}

// SessionRow is a session with its projected duration for one render pass.
type SessionRow struct {
	Session  model.Session
	Minutes  int64
	HasStart bool
	Elapsed  string
}

// ProjectSessions computes the elapsed duration of every session at now. It
// is meant to run on every render and is never cached.
func ProjectSessions(sessions []model.Session, now time.Time) []SessionRow {
	rows := make([]SessionRow, 0, len(sessions))
	for _, session := range sessions {
		minutes, ok := SessionMinutes(session, now)
		elapsed := "-"
		if ok {
			elapsed = FormatMinutes(minutes)
		}
		rows = append(rows, SessionRow{
			Session:  session,
			Minutes:  minutes,
			HasStart: ok,
			Elapsed:  elapsed,
		})
	}
	return rows
}
