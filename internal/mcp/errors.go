package mcp

import (
	"errors"
	"fmt"

	"github.com/rpggio/followup/internal/domain/client"
)

// APIError represents an MCP error response.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// MapError maps domain errors to MCP error codes.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, client.ErrClientNotFound):
		return &APIError{Code: "CLIENT_NOT_FOUND", Message: "client not found", RecoveryHint: "Check the id against list_clients"}
	case errors.Is(err, client.ErrNoteNotFound):
		return &APIError{Code: "NOTE_NOT_FOUND", Message: "note not found", RecoveryHint: "Check the note id against get_client"}
	case errors.Is(err, client.ErrEmptyName):
		return &APIError{Code: "EMPTY_NAME", Message: "client name is empty", RecoveryHint: "Provide a non-empty name"}
	case errors.Is(err, client.ErrEmptyNote):
		return &APIError{Code: "EMPTY_NOTE", Message: "note text is empty", RecoveryHint: "Provide non-empty note text"}
	case errors.Is(err, client.ErrDeclined):
		return &APIError{Code: "DECLINED", Message: "operation was not confirmed", RecoveryHint: "Pass confirm: true to proceed"}
	case errors.Is(err, client.ErrInvalidBackup):
		return &APIError{Code: "INVALID_BACKUP", Message: "backup content is not valid JSON", RecoveryHint: "Use a file produced by export_backup"}
	case errors.Is(err, client.ErrInvalidFilter):
		return &APIError{Code: "INVALID_FILTER", Message: "unknown filter", RecoveryHint: "Use all, today, week, overdue or nodate"}
	default:
		return nil
	}
}

func mapError(err error) error {
	if apiErr := MapError(err); apiErr != nil {
		return apiErr
	}
	return err
}
