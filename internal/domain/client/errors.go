package client

import "errors"

var (
	// ErrClientNotFound indicates the client doesn't exist.
	ErrClientNotFound = errors.New("client not found")
	// ErrNoteNotFound indicates the note doesn't exist on the client.
	ErrNoteNotFound = errors.New("note not found")
	// ErrEmptyName indicates a required name was empty after trimming.
	ErrEmptyName = errors.New("client name is empty")
	// ErrEmptyNote indicates the note text was empty after trimming.
	ErrEmptyNote = errors.New("note text is empty")
	// ErrDeclined indicates the user declined a destructive operation.
	ErrDeclined = errors.New("operation declined")
	// ErrInvalidBackup indicates an import payload that is not valid JSON.
	ErrInvalidBackup = errors.New("invalid backup file")
	// ErrInvalidFilter indicates an unknown agenda filter name.
	ErrInvalidFilter = errors.New("invalid filter")
)
