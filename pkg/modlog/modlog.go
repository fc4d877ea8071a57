// Package modlog posts moderation-event embeds to a guild's log channel.
package modlog

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/teemate/teemate/pkg/discord"
	"github.com/teemate/teemate/pkg/events"
	"github.com/teemate/teemate/pkg/models"
)

// Embed accent colors per event severity.
const (
	ColorRed     = 0xED4245
	ColorGreen   = 0x57F287
	ColorBlurple = 0x5865F2
	ColorYellow  = 0xFEE75C
)

// Config event keys. These are what guild administrators toggle; each gateway
// event maps onto one of them.
const (
	EventMemberLeave   = "memberLeave"
	EventMessageDelete = "messageDelete"
	EventMessageEdit   = "messageEdit"
	EventBan           = "ban"
	EventChannelChange = "channelChange"
	EventRoleChange    = "roleChange"
)

// ConfigSource loads the per-guild settings the handlers are gated on.
type ConfigSource interface {
	GuildConfigByGuild(ctx context.Context, guildID string) (*models.GuildConfig, error)
}

// MessageSender posts the log embeds.
type MessageSender interface {
	CreateMessage(ctx context.Context, channelID string, message discord.Message) error
}

// Handler turns gateway moderation events into log-channel embeds. Posting is
// best effort: a failed send is logged and swallowed so one unreachable log
// channel cannot wedge the event stream.
type Handler struct {
	configs ConfigSource
	client  MessageSender
	logger  *slog.Logger
}

func NewHandler(configs ConfigSource, client MessageSender, logger *slog.Logger) *Handler {
	return &Handler{configs: configs, client: client, logger: logger.With("module", "modlog")}
}

func (h *Handler) HandleMemberRemoved(ctx context.Context, event *events.MemberRemoved) error {
	return h.post(ctx, event.GuildID, EventMemberLeave, discord.Embed{
		Title:       "Member left",
		Description: event.Username + " left the server.",
		Color:       ColorRed,
	})
}

func (h *Handler) HandleMessageDeleted(ctx context.Context, event *events.MessageDeleted) error {
	return h.post(ctx, event.GuildID, EventMessageDelete, discord.Embed{
		Title: "Message deleted",
		Color: ColorRed,
		Fields: []discord.EmbedField{
			{Name: "Channel", Value: "<#" + event.ChannelID + ">", Inline: true},
			{Name: "Message ID", Value: event.MessageID, Inline: true},
		},
	})
}

func (h *Handler) HandleMessageUpdated(ctx context.Context, event *events.MessageUpdated) error {
	embed := discord.Embed{
		Title: "Message edited",
		Color: ColorYellow,
		Fields: []discord.EmbedField{
			{Name: "Channel", Value: "<#" + event.ChannelID + ">", Inline: true},
			{Name: "Author", Value: event.AuthorUsername, Inline: true},
		},
	}

	if event.Content != "" {
		embed.Fields = append(embed.Fields, discord.EmbedField{Name: "New content", Value: event.Content})
	}

	return h.post(ctx, event.GuildID, EventMessageEdit, embed)
}

func (h *Handler) HandleBanAdded(ctx context.Context, event *events.BanAdded) error {
	return h.post(ctx, event.GuildID, EventBan, discord.Embed{
		Title:       "Member banned",
		Description: event.Username + " was banned.",
		Color:       ColorRed,
	})
}

func (h *Handler) HandleBanRemoved(ctx context.Context, event *events.BanRemoved) error {
	return h.post(ctx, event.GuildID, EventBan, discord.Embed{
		Title:       "Member unbanned",
		Description: event.Username + " was unbanned.",
		Color:       ColorGreen,
	})
}

func (h *Handler) HandleChannelUpdated(ctx context.Context, event *events.ChannelUpdated) error {
	return h.post(ctx, event.GuildID, EventChannelChange, discord.Embed{
		Title:       "Channel updated",
		Description: "#" + event.ChannelName + " was changed.",
		Color:       ColorBlurple,
	})
}

func (h *Handler) HandleRoleUpdated(ctx context.Context, event *events.RoleUpdated) error {
	return h.post(ctx, event.GuildID, EventRoleChange, discord.Embed{
		Title:       "Role updated",
		Description: "@" + event.RoleName + " was changed.",
		Color:       ColorBlurple,
	})
}

func (h *Handler) post(ctx context.Context, guildID, eventKey string, embed discord.Embed) error {
	config, err := h.configs.GuildConfigByGuild(ctx, guildID)
	if err != nil {
		return fmt.Errorf("loading guild config: %w", err)
	}

	if !config.LogEventEnabled(eventKey) {
		return nil
	}

	embed.Timestamp = time.Now().UTC().Format(time.RFC3339)

	message := discord.Message{Embeds: []discord.Embed{embed}}
	if err := h.client.CreateMessage(ctx, config.Logs.ChannelID, message); err != nil {
		h.logger.WarnContext(ctx, "Failed to post log embed",
			"guild_id", guildID, "event", eventKey, "error", err)
	}

	return nil
}
