package modlog_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemate/teemate/pkg/discord"
	"github.com/teemate/teemate/pkg/events"
	"github.com/teemate/teemate/pkg/models"
	"github.com/teemate/teemate/pkg/modlog"
)

type fakeConfigs struct {
	config *models.GuildConfig
}

func (f *fakeConfigs) GuildConfigByGuild(_ context.Context, _ string) (*models.GuildConfig, error) {
	return f.config, nil
}

type fakeSender struct {
	err       error
	channelID string
	messages  []discord.Message
}

func (f *fakeSender) CreateMessage(_ context.Context, channelID string, message discord.Message) error {
	if f.err != nil {
		return f.err
	}

	f.channelID = channelID
	f.messages = append(f.messages, message)

	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func logsConfig(enabled map[string]bool) *models.GuildConfig {
	return &models.GuildConfig{
		GuildID: "guild-1",
		Logs:    models.LogConfig{Enabled: true, ChannelID: "log-channel", Events: enabled},
	}
}

func TestHandler_PostsEnabledEvents(t *testing.T) {
	t.Parallel()

	configs := &fakeConfigs{config: logsConfig(map[string]bool{
		modlog.EventMessageDelete: true,
		modlog.EventBan:           true,
	})}
	sender := &fakeSender{}
	handler := modlog.NewHandler(configs, sender, testLogger())

	base := events.NewBaseEvent(events.MessageDeletedEvent, "guild-1")
	err := handler.HandleMessageDeleted(context.Background(), &events.MessageDeleted{
		BaseEvent: base, ChannelID: "c1", MessageID: "m1",
	})
	require.NoError(t, err)

	err = handler.HandleBanRemoved(context.Background(), &events.BanRemoved{
		BaseEvent: events.NewBaseEvent(events.BanRemovedEvent, "guild-1"), Username: "casey",
	})
	require.NoError(t, err)

	require.Len(t, sender.messages, 2)
	assert.Equal(t, "log-channel", sender.channelID)

	deleteEmbed := sender.messages[0].Embeds[0]
	assert.Equal(t, "Message deleted", deleteEmbed.Title)
	assert.Equal(t, modlog.ColorRed, deleteEmbed.Color)
	assert.NotEmpty(t, deleteEmbed.Timestamp)

	unbanEmbed := sender.messages[1].Embeds[0]
	assert.Equal(t, modlog.ColorGreen, unbanEmbed.Color)
	assert.Contains(t, unbanEmbed.Description, "casey")
}

func TestHandler_SkipsDisabledEvents(t *testing.T) {
	t.Parallel()

	configs := &fakeConfigs{config: logsConfig(map[string]bool{modlog.EventBan: true})}
	sender := &fakeSender{}
	handler := modlog.NewHandler(configs, sender, testLogger())

	err := handler.HandleMessageUpdated(context.Background(), &events.MessageUpdated{
		BaseEvent: events.NewBaseEvent(events.MessageUpdatedEvent, "guild-1"),
		ChannelID: "c1", AuthorUsername: "casey", Content: "edited",
	})
	require.NoError(t, err)
	assert.Empty(t, sender.messages, "disabled event keys must not post")
}

func TestHandler_SkipsWhenModuleDisabled(t *testing.T) {
	t.Parallel()

	configs := &fakeConfigs{config: &models.GuildConfig{
		GuildID: "guild-1",
		Logs:    models.LogConfig{ChannelID: "log-channel", Events: map[string]bool{modlog.EventBan: true}},
	}}
	sender := &fakeSender{}
	handler := modlog.NewHandler(configs, sender, testLogger())

	err := handler.HandleBanAdded(context.Background(), &events.BanAdded{
		BaseEvent: events.NewBaseEvent(events.BanAddedEvent, "guild-1"), Username: "casey",
	})
	require.NoError(t, err)
	assert.Empty(t, sender.messages)
}

func TestHandler_SendFailureIsSwallowed(t *testing.T) {
	t.Parallel()

	configs := &fakeConfigs{config: logsConfig(map[string]bool{modlog.EventMemberLeave: true})}
	sender := &fakeSender{err: errors.New("channel gone")}
	handler := modlog.NewHandler(configs, sender, testLogger())

	err := handler.HandleMemberRemoved(context.Background(), &events.MemberRemoved{
		BaseEvent: events.NewBaseEvent(events.MemberRemovedEvent, "guild-1"), Username: "casey",
	})
	require.NoError(t, err, "an unreachable log channel must not fail the handler")
}

func TestHandler_EmbedColorsPerEvent(t *testing.T) {
	t.Parallel()

	configs := &fakeConfigs{config: logsConfig(map[string]bool{
		modlog.EventMessageEdit:   true,
		modlog.EventChannelChange: true,
		modlog.EventRoleChange:    true,
	})}
	sender := &fakeSender{}
	handler := modlog.NewHandler(configs, sender, testLogger())

	ctx := context.Background()
	require.NoError(t, handler.HandleMessageUpdated(ctx, &events.MessageUpdated{
		BaseEvent: events.NewBaseEvent(events.MessageUpdatedEvent, "guild-1"), ChannelID: "c1", AuthorUsername: "casey",
	}))
	require.NoError(t, handler.HandleChannelUpdated(ctx, &events.ChannelUpdated{
		BaseEvent: events.NewBaseEvent(events.ChannelUpdatedEvent, "guild-1"), ChannelName: "general",
	}))
	require.NoError(t, handler.HandleRoleUpdated(ctx, &events.RoleUpdated{
		BaseEvent: events.NewBaseEvent(events.RoleUpdatedEvent, "guild-1"), RoleName: "mods",
	}))

	require.Len(t, sender.messages, 3)
	assert.Equal(t, modlog.ColorYellow, sender.messages[0].Embeds[0].Color)
	assert.Equal(t, modlog.ColorBlurple, sender.messages[1].Embeds[0].Color)
	assert.Equal(t, modlog.ColorBlurple, sender.messages[2].Embeds[0].Color)
}
