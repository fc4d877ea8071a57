package web

import "github.com/teemate/teemate/pkg/models"

// UpdateGuildConfigRequest patches a guild's settings. Nil sections are left
// untouched.
type UpdateGuildConfigRequest struct {
	GuildName *string               `json:"guild_name,omitempty"`
	Welcome   *models.WelcomeConfig `json:"welcome,omitempty"`
	Logs      *models.LogConfig     `json:"logs,omitempty"`
}

// UpdateOnboardingRequest patches a guild's onboarding definition. Steps, when
// present, replace the existing list wholesale.
type UpdateOnboardingRequest struct {
	Enabled   *bool          `json:"enabled,omitempty"`
	ChannelID *string        `json:"channel_id,omitempty"`
	Steps     *[]models.Step `json:"steps,omitempty"`
}

// TestOnboardingRequest runs the guild's onboarding for the calling
// administrator.
type TestOnboardingRequest struct {
	UserID   string `json:"user_id"  validate:"required"`
	Username string `json:"username" validate:"required"`
}

// SendEmbedRequest posts a one-off embed to a channel.
type SendEmbedRequest struct {
	ChannelID   string `json:"channel_id" validate:"required"`
	Title       string `json:"title"`
	Description string `json:"description" validate:"required"`
	Color       string `json:"color"`
}

// EditorSessionRequest saves a member's guided-editor selection state.
type EditorSessionRequest struct {
	StepID    string            `json:"step_id,omitempty"`
	Selection map[string]string `json:"selection,omitempty"`
}

// InteractionRequest is a component interaction forwarded by the gateway
// transport. The reply must be computed synchronously.
type InteractionRequest struct {
	CustomID string   `json:"custom_id" validate:"required"`
	GuildID  string   `json:"guild_id"  validate:"required"`
	UserID   string   `json:"user_id"   validate:"required"`
	RoleIDs  []string `json:"role_ids"`
	Values   []string `json:"values"`
}

// InteractionResponse is the platform's interaction callback payload: type 4
// posts a message visible per the flags.
type InteractionResponse struct {
	Type int                     `json:"type"`
	Data InteractionResponseData `json:"data"`
}

type InteractionResponseData struct {
	Content string `json:"content"`
	Flags   int    `json:"flags,omitempty"`
}
