package client_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rpggio/followup/internal/domain/client"
)

var testNow = time.Date(2026, 3, 10, 9, 30, 0, 0, time.Local)

func msAt(t time.Time) *int64 {
	ms := t.UnixMilli()
	return &ms
}

func TestStatusAt_NoDate(t *testing.T) {
	require.Equal(t, client.StatusNoDate, client.StatusAt(nil, testNow))
	require.Equal(t, "Sem data", client.StatusLabel(nil, testNow))
}

func TestStatusAt_Today(t *testing.T) {
	// Same calendar day, different hour.
	ts := msAt(time.Date(2026, 3, 10, 23, 59, 0, 0, time.Local))
	require.Equal(t, client.StatusToday, client.StatusAt(ts, testNow))
	require.Equal(t, "Hoje", client.StatusLabel(ts, testNow))
}

func TestStatusAt_Upcoming(t *testing.T) {
	ts := msAt(testNow.AddDate(0, 0, 3))
	require.Equal(t, client.StatusUpcoming, client.StatusAt(ts, testNow))
	require.Equal(t, "Em 3 dias", client.StatusLabel(ts, testNow))

	tomorrow := msAt(testNow.AddDate(0, 0, 1))
	require.Equal(t, "Amanhã", client.StatusLabel(tomorrow, testNow))
}

func TestStatusAt_Overdue(t *testing.T) {
	ts := msAt(testNow.AddDate(0, 0, -2))
	require.Equal(t, client.StatusOverdue, client.StatusAt(ts, testNow))
	require.Equal(t, "Atrasado 2 dias", client.StatusLabel(ts, testNow))

	yesterday := msAt(testNow.AddDate(0, 0, -1))
	require.Equal(t, "Atrasado 1 dia", client.StatusLabel(yesterday, testNow))
}

func TestDayDiff_MidnightBoundaries(t *testing.T) {
	lateTonight := time.Date(2026, 3, 10, 23, 59, 59, 0, time.Local)
	earlyTomorrow := time.Date(2026, 3, 11, 0, 0, 1, 0, time.Local)

	require.Equal(t, 0, client.DayDiff(lateTonight.UnixMilli(), testNow))
	require.Equal(t, 1, client.DayDiff(earlyTomorrow.UnixMilli(), testNow))
}

func TestParseDateTime(t *testing.T) {
	require.Nil(t, client.ParseDateTime(""))
	require.Nil(t, client.ParseDateTime("not-a-date"))

	ts := client.ParseDateTime("2026-03-10T09:30")
	require.NotNil(t, ts)
	require.Equal(t, testNow.UnixMilli(), *ts)

	dateOnly := client.ParseDateTime("2026-03-10")
	require.NotNil(t, dateOnly)
	require.Equal(t, time.Date(2026, 3, 10, 0, 0, 0, 0, time.Local).UnixMilli(), *dateOnly)
}
