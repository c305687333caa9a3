package utils

import (
	"time"

	"pharmacare-service/internal/pkg/constvars"
)

// JoinWindow returns the inclusive interval in which a consultation call may
// be joined: grace minutes before the scheduled start until grace minutes
// after the scheduled end.
func JoinWindow(scheduledAt time.Time, durationMinutes int) (start, end time.Time) {
	start = scheduledAt.Add(-constvars.JoinWindowGrace)
	end = scheduledAt.Add(time.Duration(durationMinutes) * time.Minute).Add(constvars.JoinWindowGrace)
	return start, end
}

func IsWithinJoinWindow(now, scheduledAt time.Time, durationMinutes int) bool {
	start, end := JoinWindow(scheduledAt, durationMinutes)
	return !now.Before(start) && !now.After(end)
}
