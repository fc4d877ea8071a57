// Package welcome posts the configured greeting when a member joins a guild.
package welcome

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/teemate/teemate/pkg/discord"
	"github.com/teemate/teemate/pkg/events"
	"github.com/teemate/teemate/pkg/models"
)

// DefaultEmbedColor is used when a guild enables the welcome embed without
// picking a color.
const DefaultEmbedColor = 0x5865F2

// ConfigSource loads the per-guild settings the handler is gated on.
type ConfigSource interface {
	GuildConfigByGuild(ctx context.Context, guildID string) (*models.GuildConfig, error)
}

// MessageSender is the single platform call this module needs.
type MessageSender interface {
	CreateMessage(ctx context.Context, channelID string, message discord.Message) error
}

type Handler struct {
	configs ConfigSource
	client  MessageSender
	logger  *slog.Logger
}

func NewHandler(configs ConfigSource, client MessageSender, logger *slog.Logger) *Handler {
	return &Handler{configs: configs, client: client, logger: logger.With("module", "welcome")}
}

// HandleMemberJoined posts the welcome message for the joining member. It is a
// no-op when the guild has the module disabled or no channel configured.
func (h *Handler) HandleMemberJoined(ctx context.Context, event *events.MemberJoined) error {
	config, err := h.configs.GuildConfigByGuild(ctx, event.GuildID)
	if err != nil {
		return fmt.Errorf("loading guild config: %w", err)
	}

	if !config.Welcome.Enabled || config.Welcome.ChannelID == "" {
		return nil
	}

	execCtx := &models.ExecutionContext{
		GuildID:   event.GuildID,
		UserID:    event.UserID,
		Username:  event.Username,
		GuildName: config.GuildName,
	}

	message := buildMessage(config.Welcome, execCtx, event.AvatarHash)

	if err := h.client.CreateMessage(ctx, config.Welcome.ChannelID, message); err != nil {
		return fmt.Errorf("posting welcome message: %w", err)
	}

	h.logger.InfoContext(ctx, "Welcome message posted", "guild_id", event.GuildID, "user_id", event.UserID)

	return nil
}

func buildMessage(config models.WelcomeConfig, execCtx *models.ExecutionContext, avatarHash string) discord.Message {
	if !config.EmbedEnabled {
		return discord.Message{Content: execCtx.Substitute(config.Message)}
	}

	embed := discord.Embed{
		Title:       execCtx.Substitute(config.EmbedTitle),
		Description: execCtx.Substitute(config.EmbedDescription),
		Color:       ParseColor(config.EmbedColor),
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
	}

	if url := discord.AvatarURL(execCtx.UserID, avatarHash, 256); url != "" {
		embed.Thumbnail = &discord.EmbedImage{URL: url}
	}

	return discord.Message{Embeds: []discord.Embed{embed}}
}

// ParseColor converts a "#RRGGBB" hex string to the integer color the wire
// format wants, falling back to the default on anything unparseable.
func ParseColor(hex string) int {
	trimmed := strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(trimmed) != 6 {
		return DefaultEmbedColor
	}

	value, err := strconv.ParseInt(trimmed, 16, 32)
	if err != nil {
		return DefaultEmbedColor
	}

	return int(value)
}
