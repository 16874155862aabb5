package client_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rpggio/followup/internal/domain/client"
)

func agendaFixture(now time.Time) []client.Client {
	return []client.Client{
		{ID: "acme", Name: "Acme", Notes: []client.Note{}},
		{ID: "beta", Name: "Beta", NextFollowUp: msAt(now), Notes: []client.Note{}},
		{ID: "gamma", Name: "Gamma", NextFollowUp: msAt(now.AddDate(0, 0, 3)), Notes: []client.Note{}},
		{ID: "delta", Name: "Delta", NextFollowUp: msAt(now.AddDate(0, 0, -2)), Notes: []client.Note{}},
	}
}

func ids(views []client.View) []string {
	out := make([]string, 0, len(views))
	for _, v := range views {
		out = append(out, v.ID)
	}
	return out
}

func TestSelect_FilterBuckets(t *testing.T) {
	clients := agendaFixture(testNow)

	all := client.Select(clients, client.ListOptions{Filter: client.FilterAll}, testNow)
	require.Len(t, all, 4)

	today := client.Select(clients, client.ListOptions{Filter: client.FilterToday}, testNow)
	require.Equal(t, []string{"beta"}, ids(today))

	week := client.Select(clients, client.ListOptions{Filter: client.FilterWeek}, testNow)
	require.Equal(t, []string{"beta", "gamma"}, ids(week))

	overdue := client.Select(clients, client.ListOptions{Filter: client.FilterOverdue}, testNow)
	require.Equal(t, []string{"delta"}, ids(overdue))

	nodate := client.Select(clients, client.ListOptions{Filter: client.FilterNoDate}, testNow)
	require.Equal(t, []string{"acme"}, ids(nodate))
}

func TestSelect_WeekBoundaries(t *testing.T) {
	clients := []client.Client{
		{ID: "edge7", Name: "Edge", NextFollowUp: msAt(testNow.AddDate(0, 0, 7))},
		{ID: "edge8", Name: "Past Edge", NextFollowUp: msAt(testNow.AddDate(0, 0, 8))},
	}
	week := client.Select(clients, client.ListOptions{Filter: client.FilterWeek}, testNow)
	require.Equal(t, []string{"edge7"}, ids(week))
}

func TestSelect_QueryMatchesCaseInsensitive(t *testing.T) {
	clients := agendaFixture(testNow)
	got := client.Select(clients, client.ListOptions{Query: "aCm"}, testNow)
	require.Equal(t, []string{"acme"}, ids(got))
}

func TestSelect_SortOrder(t *testing.T) {
	soon := msAt(testNow.AddDate(0, 0, 1))
	later := msAt(testNow.AddDate(0, 0, 5))
	clients := []client.Client{
		{ID: "n2", Name: "Zeta"},
		{ID: "c2", Name: "Bravo", NextFollowUp: later},
		{ID: "n1", Name: "Alfa"},
		{ID: "c3", Name: "Alpha", NextFollowUp: later},
		{ID: "c1", Name: "Charlie", NextFollowUp: soon},
	}

	got := client.Select(clients, client.ListOptions{}, testNow)
	// Follow-up ascending, nil dates last; equal dates break by name.
	require.Equal(t, []string{"c1", "c3", "c2", "n1", "n2"}, ids(got))
}

func TestSelect_PopulatesStatusAndLabel(t *testing.T) {
	clients := agendaFixture(testNow)
	got := client.Select(clients, client.ListOptions{Filter: client.FilterOverdue}, testNow)
	require.Len(t, got, 1)
	require.Equal(t, client.StatusOverdue, got[0].Status)
	require.Equal(t, "Atrasado 2 dias", got[0].Label)
}

func TestParseFilter(t *testing.T) {
	f, err := client.ParseFilter("")
	require.NoError(t, err)
	require.Equal(t, client.FilterAll, f)

	f, err = client.ParseFilter("week")
	require.NoError(t, err)
	require.Equal(t, client.FilterWeek, f)

	_, err = client.ParseFilter("bogus")
	require.ErrorIs(t, err, client.ErrInvalidFilter)
}

func TestSortedNotes_MostRecentFirst(t *testing.T) {
	notes := []client.Note{
		{ID: "a", At: 100},
		{ID: "b", At: 300},
		{ID: "c", At: 200},
	}
	sorted := client.SortedNotes(notes)
	require.Equal(t, "b", sorted[0].ID)
	require.Equal(t, "c", sorted[1].ID)
	require.Equal(t, "a", sorted[2].ID)
	// Input order untouched.
	require.Equal(t, "a", notes[0].ID)
}
