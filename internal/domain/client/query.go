package client

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"
)

// Filter is an agenda status-bucket filter.
type Filter string

const (
	FilterAll     Filter = "all"
	FilterToday   Filter = "today"
	FilterWeek    Filter = "week"
	FilterOverdue Filter = "overdue"
	FilterNoDate  Filter = "nodate"
)

// ParseFilter validates a filter name. Empty input means FilterAll.
func ParseFilter(s string) (Filter, error) {
	switch Filter(s) {
	case "":
		return FilterAll, nil
	case FilterAll, FilterToday, FilterWeek, FilterOverdue, FilterNoDate:
		return Filter(s), nil
	}
	return "", fmt.Errorf("%w: unknown filter %q", ErrInvalidFilter, s)
}

// ListOptions provides filtering options for the agenda list.
type ListOptions struct {
	Query  string
	Filter Filter
}

// Select applies the query and status filters to clients and returns
// views sorted by follow-up ascending with nil dates last, tie-broken
// by name. The input slice is not modified.
func Select(clients []Client, opts ListOptions, now time.Time) []View {
	query := strings.ToLower(strings.TrimSpace(opts.Query))
	filter := opts.Filter
	if filter == "" {
		filter = FilterAll
	}

	views := make([]View, 0, len(clients))
	for _, c := range clients {
		if query != "" && !strings.Contains(strings.ToLower(c.Name), query) {
			continue
		}
		st := StatusAt(c.NextFollowUp, now)
		if !matchesFilter(c, st, filter, now) {
			continue
		}
		views = append(views, View{
			Client: c,
			Status: st,
			Label:  StatusLabel(c.NextFollowUp, now),
		})
	}

	sort.SliceStable(views, func(i, j int) bool {
		a, b := sortKey(views[i].Client), sortKey(views[j].Client)
		if a != b {
			return a < b
		}
		return views[i].Name < views[j].Name
	})

	return views
}

func matchesFilter(c Client, st Status, filter Filter, now time.Time) bool {
	switch filter {
	case FilterToday:
		return st == StatusToday
	case FilterWeek:
		// Next 7 days including today.
		if c.NextFollowUp == nil {
			return false
		}
		d := DayDiff(*c.NextFollowUp, now)
		return d >= 0 && d <= 7
	case FilterOverdue:
		return st == StatusOverdue
	case FilterNoDate:
		return st == StatusNoDate
	default:
		return true
	}
}

func sortKey(c Client) int64 {
	if c.NextFollowUp == nil {
		return math.MaxInt64
	}
	return *c.NextFollowUp
}

// SortedNotes returns the client's notes ordered by timestamp
// descending, most recent first.
func SortedNotes(notes []Note) []Note {
	out := make([]Note, len(notes))
	copy(out, notes)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].At > out[j].At
	})
	return out
}
