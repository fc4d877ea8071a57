package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/teemate/teemate/pkg/discord"
	"github.com/teemate/teemate/pkg/eventbus"
	"github.com/teemate/teemate/pkg/events"
	"github.com/teemate/teemate/pkg/models"
	"github.com/teemate/teemate/pkg/modlog"
	"github.com/teemate/teemate/pkg/onboarding"
	"github.com/teemate/teemate/pkg/otelhelper"
	"github.com/teemate/teemate/pkg/persistence"
	"github.com/teemate/teemate/pkg/welcome"
)

type BotManager struct {
	id          string
	logger      *slog.Logger
	persistence persistence.Persistence
	eventBus    eventbus.EventBus
	client      *discord.Client
	tracer      trace.Tracer

	onboarding *onboarding.Service
	welcome    *welcome.Handler
	modlog     *modlog.Handler
}

func NewBotManager(
	id string,
	p persistence.Persistence,
	eventBus eventbus.EventBus,
	client *discord.Client,
	logger *slog.Logger,
) *BotManager {
	logger = logger.With("module", "teemate-bot", "bot_id", id)

	runner := onboarding.NewRunner(client, logger)

	return &BotManager{
		id:          id,
		logger:      logger,
		persistence: p,
		eventBus:    eventBus,
		client:      client,
		tracer:      noop.NewTracerProvider().Tracer("teemate-bot"),
		onboarding:  onboarding.NewService(p, runner, logger),
		welcome:     welcome.NewHandler(p, client, logger),
		modlog:      modlog.NewHandler(p, client, logger),
	}
}

func (b *BotManager) Start(ctx context.Context) error {
	b.logger.InfoContext(ctx, "Starting bot manager", "bot_id", b.id)

	if os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT") != "" {
		tracer, err := otelhelper.NewTracer(ctx, "teemate-bot")
		if err != nil {
			return err
		}

		b.tracer = tracer
	}

	handlers := map[events.EventType]eventbus.EventHandler{
		events.MemberJoinedEvent:   b.handleMemberJoined,
		events.MemberRemovedEvent:  b.handleMemberRemoved,
		events.MessageDeletedEvent: b.handleMessageDeleted,
		events.MessageUpdatedEvent: b.handleMessageUpdated,
		events.BanAddedEvent:       b.handleBanAdded,
		events.BanRemovedEvent:     b.handleBanRemoved,
		events.ChannelUpdatedEvent: b.handleChannelUpdated,
		events.RoleUpdatedEvent:    b.handleRoleUpdated,
	}

	for eventType, handler := range handlers {
		err := b.eventBus.Handle(eventType, handler)
		if err != nil {
			return err
		}
	}

	err := b.eventBus.Subscribe(ctx)
	if err != nil {
		b.logger.ErrorContext(ctx, "Failed to subscribe to event bus", "error", err)

		return err
	}

	b.logger.InfoContext(ctx, "Bot started successfully")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	<-sigChan
	b.logger.InfoContext(ctx, "Shutting down bot...")

	b.onboarding.Wait()

	return nil
}

// handleMemberJoined fans one join out to the welcome module and the
// onboarding engine. A failure in one must not starve the other.
func (b *BotManager) handleMemberJoined(ctx context.Context, event any) error {
	joinedEvent, ok := event.(*events.MemberJoined)
	if !ok {
		b.logger.ErrorContext(ctx, "Invalid event type for MemberJoined")

		return nil
	}

	ctx, span := otelhelper.StartSpan(ctx, b.tracer, "member_joined",
		attribute.String(otelhelper.GuildIDKey, joinedEvent.GuildID),
		attribute.String(otelhelper.UserIDKey, joinedEvent.UserID),
		attribute.String(otelhelper.EventIDKey, joinedEvent.ID),
	)
	defer span.End()

	logger := b.logger.With(
		"guild_id", joinedEvent.GuildID,
		"user_id", joinedEvent.UserID,
		"event_id", joinedEvent.ID,
	)
	logger.InfoContext(ctx, "Processing member joined event")

	if err := b.welcome.HandleMemberJoined(ctx, joinedEvent); err != nil {
		otelhelper.SetError(span, err)
		logger.ErrorContext(ctx, "Failed to post welcome message", "error", err)
	}

	execCtx := &models.ExecutionContext{
		GuildID:  joinedEvent.GuildID,
		UserID:   joinedEvent.UserID,
		Username: joinedEvent.Username,
	}

	if guild, err := b.client.Guild(ctx, joinedEvent.GuildID); err == nil {
		execCtx.GuildName = guild.Name
	} else {
		// Keep {server} substitution readable when the lookup fails.
		execCtx.GuildName = "the server"
		logger.WarnContext(ctx, "Failed to resolve guild name", "error", err)
	}

	err := b.onboarding.Start(ctx, execCtx)
	if err != nil {
		// Disabled or unconfigured onboarding is the normal state for
		// most guilds, not a processing failure.
		logger.InfoContext(ctx, "Onboarding not started", "reason", err)
	}

	return nil
}

func (b *BotManager) handleMemberRemoved(ctx context.Context, event any) error {
	removedEvent, ok := event.(*events.MemberRemoved)
	if !ok {
		b.logger.ErrorContext(ctx, "Invalid event type for MemberRemoved")

		return nil
	}

	return b.modlog.HandleMemberRemoved(ctx, removedEvent)
}

func (b *BotManager) handleMessageDeleted(ctx context.Context, event any) error {
	deletedEvent, ok := event.(*events.MessageDeleted)
	if !ok {
		b.logger.ErrorContext(ctx, "Invalid event type for MessageDeleted")

		return nil
	}

	return b.modlog.HandleMessageDeleted(ctx, deletedEvent)
}

func (b *BotManager) handleMessageUpdated(ctx context.Context, event any) error {
	updatedEvent, ok := event.(*events.MessageUpdated)
	if !ok {
		b.logger.ErrorContext(ctx, "Invalid event type for MessageUpdated")

		return nil
	}

	return b.modlog.HandleMessageUpdated(ctx, updatedEvent)
}

func (b *BotManager) handleBanAdded(ctx context.Context, event any) error {
	banEvent, ok := event.(*events.BanAdded)
	if !ok {
		b.logger.ErrorContext(ctx, "Invalid event type for BanAdded")

		return nil
	}

	return b.modlog.HandleBanAdded(ctx, banEvent)
}

func (b *BotManager) handleBanRemoved(ctx context.Context, event any) error {
	unbanEvent, ok := event.(*events.BanRemoved)
	if !ok {
		b.logger.ErrorContext(ctx, "Invalid event type for BanRemoved")

		return nil
	}

	return b.modlog.HandleBanRemoved(ctx, unbanEvent)
}

func (b *BotManager) handleChannelUpdated(ctx context.Context, event any) error {
	channelEvent, ok := event.(*events.ChannelUpdated)
	if !ok {
		b.logger.ErrorContext(ctx, "Invalid event type for ChannelUpdated")

		return nil
	}

	return b.modlog.HandleChannelUpdated(ctx, channelEvent)
}

func (b *BotManager) handleRoleUpdated(ctx context.Context, event any) error {
	roleEvent, ok := event.(*events.RoleUpdated)
	if !ok {
		b.logger.ErrorContext(ctx, "Invalid event type for RoleUpdated")

		return nil
	}

	return b.modlog.HandleRoleUpdated(ctx, roleEvent)
}
