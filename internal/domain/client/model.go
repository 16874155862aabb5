package client

// Client represents a tracked company with an optional next follow-up
// and a free-text note history. Timestamps are epoch milliseconds; a
// nil NextFollowUp means no follow-up is scheduled.
type Client struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	NextFollowUp *int64 `json:"nextFollowUp"`
	Notes        []Note `json:"notes"`
}

// Note is a single free-text entry in a client's history.
type Note struct {
	ID   string `json:"id"`
	Text string `json:"text"`
	At   int64  `json:"at"`
}

// View is a client as presented in the agenda list, with its computed
// status bucket and display label.
type View struct {
	Client
	Status Status `json:"status"`
	Label  string `json:"label"`
}

// Clone returns a deep copy of the client. Mirror calls run on
// goroutines after the local mutation completes; they get a copy so
// later mutations never race with in-flight serialization.
func (c Client) Clone() Client {
	out := c
	if c.NextFollowUp != nil {
		next := *c.NextFollowUp
		out.NextFollowUp = &next
	}
	out.Notes = make([]Note, len(c.Notes))
	copy(out.Notes, c.Notes)
	return out
}
