package models

import "strings"

// ExecutionContext carries the per-run identity of one onboarding execution.
// It is created when a run starts and discarded when the run completes or
// fails; it is never persisted and is owned by exactly one in-flight run.
type ExecutionContext struct {
	GuildID   string `json:"guild_id"`
	UserID    string `json:"user_id"`
	Username  string `json:"username"`
	GuildName string `json:"guild_name"`
	ThreadID  string `json:"thread_id,omitempty"`
}

// Substitute replaces the supported message tokens with values from the
// context: {user} becomes a mention, {username} the plain name and {server}
// the guild display name. Unknown tokens are left verbatim.
func (c ExecutionContext) Substitute(text string) string {
	if text == "" {
		return ""
	}

	return strings.NewReplacer(
		"{user}", "<@"+c.UserID+">",
		"{username}", c.Username,
		"{server}", c.GuildName,
	).Replace(text)
}
