package mcp

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rpggio/followup/internal/domain/client"
)

func TestMapError(t *testing.T) {
	cases := []struct {
		err  error
		code string
	}{
		{client.ErrClientNotFound, "CLIENT_NOT_FOUND"},
		{client.ErrNoteNotFound, "NOTE_NOT_FOUND"},
		{client.ErrEmptyName, "EMPTY_NAME"},
		{client.ErrEmptyNote, "EMPTY_NOTE"},
		{client.ErrDeclined, "DECLINED"},
		{client.ErrInvalidBackup, "INVALID_BACKUP"},
		{client.ErrInvalidFilter, "INVALID_FILTER"},
	}
	for _, tc := range cases {
		apiErr := MapError(tc.err)
		require.NotNil(t, apiErr, tc.code)
		require.Equal(t, tc.code, apiErr.Code)
		require.NotEmpty(t, apiErr.Message)
		require.NotEmpty(t, apiErr.RecoveryHint)
	}
}

func TestMapError_WrappedSentinel(t *testing.T) {
	wrapped := fmt.Errorf("importing backup: %w", client.ErrInvalidBackup)
	apiErr := MapError(wrapped)
	require.NotNil(t, apiErr)
	require.Equal(t, "INVALID_BACKUP", apiErr.Code)
}

func TestMapError_UnknownPassesThrough(t *testing.T) {
	require.Nil(t, MapError(nil))
	require.Nil(t, MapError(errors.New("disk on fire")))

	// mapError keeps unknown errors intact for the SDK to report.
	raw := errors.New("disk on fire")
	require.Equal(t, raw, mapError(raw))
}
