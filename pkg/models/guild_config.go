package models

import "time"

// GuildConfig holds the per-guild settings for the welcome and moderation-log
// modules, plus a denormalized copy of the onboarding gate so event handlers
// can check it without loading the full definition.
type GuildConfig struct {
	GuildID    string         `json:"guild_id" validate:"required"`
	GuildName  string         `json:"guild_name,omitempty"`
	Welcome    WelcomeConfig  `json:"welcome"`
	Logs       LogConfig      `json:"logs"`
	Onboarding OnboardingGate `json:"onboarding"`
	UpdatedAt  time.Time      `json:"updated_at,omitzero"`
}

// WelcomeConfig controls the message posted when a member joins.
type WelcomeConfig struct {
	Enabled          bool   `json:"enabled"`
	ChannelID        string `json:"channel_id"`
	Message          string `json:"message"`
	EmbedEnabled     bool   `json:"embed_enabled"`
	EmbedColor       string `json:"embed_color"` // hex, e.g. "#5865F2"
	EmbedTitle       string `json:"embed_title"`
	EmbedDescription string `json:"embed_description"`
}

// LogConfig controls the moderation-event log channel. Events maps an event
// name (memberLeave, messageDelete, messageEdit, ban, channelChange,
// roleChange) to whether it is posted.
type LogConfig struct {
	Enabled   bool            `json:"enabled"`
	ChannelID string          `json:"channel_id"`
	Events    map[string]bool `json:"events,omitempty"`
}

// OnboardingGate mirrors the enabled flag and entry channel of the guild's
// onboarding definition.
type OnboardingGate struct {
	Enabled   bool   `json:"enabled"`
	ChannelID string `json:"channel_id"`
}

// LogEventEnabled reports whether the given moderation event should be posted.
func (g *GuildConfig) LogEventEnabled(event string) bool {
	if !g.Logs.Enabled || g.Logs.ChannelID == "" {
		return false
	}

	return g.Logs.Events[event]
}
