package persistence

import (
	"errors"
	"fmt"
)

var (
	// ErrGuildIDRequired indicates a document was saved without a guild ID.
	ErrGuildIDRequired = errors.New("guild id is required")
)

// StoreError wraps storage failures with the operation and guild they
// occurred for.
type StoreError struct {
	Op      string // Operation being performed, e.g. "OnboardingByGuild"
	GuildID string
	Err     error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s failed for guild %s: %v", e.Op, e.GuildID, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a StoreError for the given operation.
func NewStoreError(op, guildID string, err error) *StoreError {
	return &StoreError{Op: op, GuildID: guildID, Err: err}
}
