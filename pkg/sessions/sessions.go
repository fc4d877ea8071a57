// Package sessions stores short-lived picker sessions: the selection state a
// guided configuration flow accumulates for one member before it is committed.
// Sessions are keyed by (guildID, userID) and expire on a TTL.
package sessions

import (
	"context"
	"errors"
	"time"
)

// DefaultTTL is how long an untouched session survives.
const DefaultTTL = 15 * time.Minute

// ErrNotFound is returned when no live session exists for the key.
var ErrNotFound = errors.New("session not found")

// Session is the in-flight selection state of one member in one guild.
type Session struct {
	GuildID   string            `json:"guild_id"`
	UserID    string            `json:"user_id"`
	StepID    string            `json:"step_id,omitempty"`
	Selection map[string]string `json:"selection,omitempty"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// Store persists picker sessions. Put refreshes the TTL; Get on a missing or
// expired session returns ErrNotFound.
type Store interface {
	Put(ctx context.Context, session *Session) error
	Get(ctx context.Context, guildID, userID string) (*Session, error)
	Delete(ctx context.Context, guildID, userID string) error
	Close() error
}

func sessionKey(guildID, userID string) string {
	return guildID + "/" + userID
}
