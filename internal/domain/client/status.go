package client

import (
	"fmt"
	"math"
	"time"
)

// Status is the urgency bucket of a client's next follow-up.
type Status string

const (
	StatusNoDate   Status = "nodate"
	StatusOverdue  Status = "overdue"
	StatusToday    Status = "today"
	StatusUpcoming Status = "upcoming"
)

const millisPerDay = 24 * 60 * 60 * 1000

// DayDiff returns the whole-day difference between the calendar day of
// ts and the calendar day of now, both normalized to local midnight.
// Negative means past. Rounding absorbs DST transitions, where the gap
// between midnights is not exactly 24 hours.
func DayDiff(ts int64, now time.Time) int {
	target := time.UnixMilli(ts).In(now.Location())
	diff := midnight(target).Sub(midnight(now))
	return int(math.Round(diff.Hours() / 24))
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// StatusAt classifies a follow-up timestamp relative to now. It is a
// pure function of next and the calendar day of now.
func StatusAt(next *int64, now time.Time) Status {
	if next == nil {
		return StatusNoDate
	}
	d := DayDiff(*next, now)
	switch {
	case d < 0:
		return StatusOverdue
	case d == 0:
		return StatusToday
	default:
		return StatusUpcoming
	}
}

// StatusLabel renders the human-readable agenda badge for a follow-up.
func StatusLabel(next *int64, now time.Time) string {
	switch StatusAt(next, now) {
	case StatusOverdue:
		d := -DayDiff(*next, now)
		if d == 1 {
			return "Atrasado 1 dia"
		}
		return fmt.Sprintf("Atrasado %d dias", d)
	case StatusToday:
		return "Hoje"
	case StatusUpcoming:
		d := DayDiff(*next, now)
		if d == 1 {
			return "Amanhã"
		}
		return fmt.Sprintf("Em %d dias", d)
	default:
		return "Sem data"
	}
}

// FormatTimestamp renders an epoch-milliseconds timestamp for display
// in local time.
func FormatTimestamp(ts int64) string {
	return time.UnixMilli(ts).Local().Format("02/01/2006 15:04")
}

// ParseDateTime parses a datetime-local style value ("2006-01-02T15:04",
// optionally with seconds) or an RFC 3339 timestamp into epoch
// milliseconds. Empty or unparseable input yields nil, meaning no
// follow-up scheduled.
func ParseDateTime(val string) *int64 {
	if val == "" {
		return nil
	}
	for _, layout := range []string{"2006-01-02T15:04", "2006-01-02T15:04:05", time.RFC3339, "2006-01-02"} {
		if t, err := time.ParseInLocation(layout, val, time.Local); err == nil {
			ms := t.UnixMilli()
			return &ms
		}
	}
	return nil
}
