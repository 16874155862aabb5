package client

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Sanitize coerces an arbitrary decoded JSON value into the canonical
// client shape. It never fails: anything that is not an array yields an
// empty slice, and invalid fields are defaulted per field.
func Sanitize(v any) []Client {
	return SanitizeAt(v, time.Now())
}

// SanitizeAt is Sanitize with an explicit clock, used when a note has
// no valid timestamp and must default to the current time.
func SanitizeAt(v any, now time.Time) []Client {
	items, ok := v.([]any)
	if !ok {
		return []Client{}
	}

	out := make([]Client, 0, len(items))
	for _, item := range items {
		// A non-object element degrades to a fully defaulted client.
		obj, _ := item.(map[string]any)

		c := Client{Notes: []Note{}}
		if id, ok := obj["id"].(string); ok {
			c.ID = id
		} else {
			c.ID = uuid.NewString()
		}
		if name, ok := obj["name"].(string); ok {
			c.Name = name
		}
		if n, ok := toFinite(obj["nextFollowUp"]); ok {
			next := int64(n)
			c.NextFollowUp = &next
		}

		if rawNotes, ok := obj["notes"].([]any); ok {
			for _, raw := range rawNotes {
				nobj, _ := raw.(map[string]any)
				note := Note{At: now.UnixMilli()}
				if id, ok := nobj["id"].(string); ok {
					note.ID = id
				} else {
					note.ID = uuid.NewString()
				}
				if text, ok := nobj["text"].(string); ok {
					note.Text = text
				}
				if at, ok := toFinite(nobj["at"]); ok {
					note.At = int64(at)
				}
				c.Notes = append(c.Notes, note)
			}
		}

		out = append(out, c)
	}
	return out
}

// toFinite coerces a decoded JSON value to a finite number. Numeric
// strings and booleans are accepted; everything else is rejected.
func toFinite(v any) (float64, bool) {
	var f float64
	switch val := v.(type) {
	case float64:
		f = val
	case bool:
		if val {
			f = 1
		}
	case json.Number:
		parsed, err := val.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
