package client_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rpggio/followup/internal/domain/client"
)

func TestSanitize_NonArrayYieldsEmpty(t *testing.T) {
	for _, input := range []any{
		nil,
		"clients",
		42.0,
		true,
		map[string]any{"id": "c1"},
	} {
		got := client.SanitizeAt(input, testNow)
		require.NotNil(t, got)
		require.Empty(t, got)
	}
}

func TestSanitize_DefaultsInvalidFields(t *testing.T) {
	var parsed any
	err := json.Unmarshal([]byte(`[{"name": 123, "notes": "not-an-array"}]`), &parsed)
	require.NoError(t, err)

	got := client.SanitizeAt(parsed, testNow)
	require.Len(t, got, 1)
	require.NotEmpty(t, got[0].ID)
	require.Equal(t, "", got[0].Name)
	require.Nil(t, got[0].NextFollowUp)
	require.NotNil(t, got[0].Notes)
	require.Empty(t, got[0].Notes)
}

func TestSanitize_CoercesNumericStrings(t *testing.T) {
	var parsed any
	err := json.Unmarshal([]byte(`[{"id": "c1", "name": "Acme", "nextFollowUp": "1700000000000"}]`), &parsed)
	require.NoError(t, err)

	got := client.SanitizeAt(parsed, testNow)
	require.Len(t, got, 1)
	require.NotNil(t, got[0].NextFollowUp)
	require.Equal(t, int64(1700000000000), *got[0].NextFollowUp)
}

func TestSanitize_CoercesBooleans(t *testing.T) {
	var parsed any
	err := json.Unmarshal([]byte(`[{"id": "c1", "name": "Acme", "nextFollowUp": true, "notes": [{"id": "n1", "at": false}]}]`), &parsed)
	require.NoError(t, err)

	got := client.SanitizeAt(parsed, testNow)
	require.Len(t, got, 1)
	require.NotNil(t, got[0].NextFollowUp)
	require.Equal(t, int64(1), *got[0].NextFollowUp)
	require.Equal(t, int64(0), got[0].Notes[0].At)
}

func TestSanitize_NoteDefaults(t *testing.T) {
	var parsed any
	err := json.Unmarshal([]byte(`[{"id": "c1", "name": "Acme", "notes": [{"text": 7, "at": "soon"}]}]`), &parsed)
	require.NoError(t, err)

	got := client.SanitizeAt(parsed, testNow)
	require.Len(t, got, 1)
	require.Len(t, got[0].Notes, 1)
	note := got[0].Notes[0]
	require.NotEmpty(t, note.ID)
	require.Equal(t, "", note.Text)
	require.Equal(t, testNow.UnixMilli(), note.At)
}

func TestSanitize_NonObjectElementsDegrade(t *testing.T) {
	var parsed any
	err := json.Unmarshal([]byte(`["just-a-string", 99]`), &parsed)
	require.NoError(t, err)

	got := client.SanitizeAt(parsed, testNow)
	require.Len(t, got, 2)
	for _, c := range got {
		require.NotEmpty(t, c.ID)
		require.Equal(t, "", c.Name)
		require.Nil(t, c.NextFollowUp)
		require.Empty(t, c.Notes)
	}
}

func TestSanitize_RoundTripCanonical(t *testing.T) {
	clients := []client.Client{
		{
			ID:           "c1",
			Name:         "Acme",
			NextFollowUp: msAt(testNow.AddDate(0, 0, 3)),
			Notes: []client.Note{
				{ID: "n1", Text: "ligação feita", At: testNow.UnixMilli()},
			},
		},
		{ID: "c2", Name: "Beta", Notes: []client.Note{}},
	}

	data, err := json.Marshal(clients)
	require.NoError(t, err)

	var parsed any
	require.NoError(t, json.Unmarshal(data, &parsed))

	got := client.SanitizeAt(parsed, testNow)
	require.Equal(t, clients, got)
}
