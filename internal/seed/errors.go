package seed

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownDataType is returned when a requested, skipped or depended-on
	// data type has no registered seeder.
	ErrUnknownDataType = errors.New("unknown data type")

	// ErrDependencyCycle is returned when the selected seeders cannot be
	// ordered.
	ErrDependencyCycle = errors.New("dependency cycle")

	// ErrDuplicateDataType is returned when two seeders claim the same data type.
	ErrDuplicateDataType = errors.New("duplicate data type")

	// ErrDatabaseRequired is returned when no database handle is supplied.
	ErrDatabaseRequired = errors.New("database required")
)

// Per-item validation and reference errors. These end up in Result.Errors.
var (
	errMissingVideoID      = errors.New("missing video id")
	errMissingChannelID    = errors.New("missing channel id")
	errMissingPlaylistName = errors.New("missing playlist name")
	errDuplicatePlaylist   = errors.New("duplicate playlist in bundle")
	errDuplicateMember     = errors.New("video already listed earlier in playlist")
	errPlaylistNotSeeded   = errors.New("playlist not found in store")
	errVideoNotSeeded      = errors.New("video not found in store")
)

// StageError reports a stage that aborted on an unrecoverable error.
// Partial holds what the stage had recorded before it stopped.
type StageError struct {
	DataType string
	Partial  Result
	Err      error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("seed %s: %v", e.DataType, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}
