package service

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound aborts the pipeline before anything else runs.
	ErrNotFound = errors.New("library item not found")

	// ErrNoStructuredOutput means the generation provider answered without a
	// structured tool call.
	ErrNoStructuredOutput = errors.New("no study materials generated")

	// ErrPermissionDenied is returned when an item does not belong to the
	// requesting user.
	ErrPermissionDenied = errors.New("library item does not belong to user")
)

// StorageError wraps a failed blob download or upload.
type StorageError struct {
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error for %s: %v", e.Path, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// TranscriptionError carries the provider's HTTP status and response body.
type TranscriptionError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *TranscriptionError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("transcription failed [%d]: %s", e.StatusCode, e.Body)
	}
	return fmt.Sprintf("transcription failed: %v", e.Err)
}

func (e *TranscriptionError) Unwrap() error { return e.Err }

// GenerationError wraps a failed or unparsable content generation call.
type GenerationError struct {
	Message string
	Err     error
}

func (e *GenerationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("generation failed: %s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("generation failed: %s", e.Message)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// PersistError wraps a failed final record update. The upstream work is
// already lost at that point; there is no compensating rollback.
type PersistError struct {
	Err error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("failed to persist generated content: %v", e.Err)
}

func (e *PersistError) Unwrap() error { return e.Err }
