// Package web provides the HTTP handlers for the guild dashboard API and the
// synchronous interactions endpoint.
package web

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"

	"github.com/teemate/teemate/pkg/discord"
	"github.com/teemate/teemate/pkg/models"
	"github.com/teemate/teemate/pkg/onboarding"
	"github.com/teemate/teemate/pkg/persistence"
	"github.com/teemate/teemate/pkg/sessions"
	"github.com/teemate/teemate/pkg/welcome"
)

// ActingUserHeader carries the ID of the administrator performing a change.
// Authentication happens upstream at the gateway; the API trusts this header.
const ActingUserHeader = "X-Acting-User"

// interactionCallbackMessage is the interaction response type that posts a
// message.
const interactionCallbackMessage = 4

// MessageSender posts one-off messages for the embed endpoint.
type MessageSender interface {
	CreateMessage(ctx context.Context, channelID string, message discord.Message) error
}

type APIHandlers struct {
	persistence persistence.Persistence
	onboarding  *onboarding.Service
	router      *onboarding.Router
	sender      MessageSender
	sessions    sessions.Store
	validator   *validator.Validate
	logger      *slog.Logger
}

func NewAPIHandlers(
	persistence persistence.Persistence,
	onboardingService *onboarding.Service,
	router *onboarding.Router,
	sender MessageSender,
	sessionStore sessions.Store,
	validator *validator.Validate,
	logger *slog.Logger,
) *APIHandlers {
	return &APIHandlers{
		persistence: persistence,
		onboarding:  onboardingService,
		router:      router,
		sender:      sender,
		sessions:    sessionStore,
		validator:   validator,
		logger:      logger.With("module", "web"),
	}
}

func (h *APIHandlers) GetGuildConfig(c fiber.Ctx) error {
	guildID := c.Params("id")
	if guildID == "" {
		return badRequest(c, "Guild ID is required")
	}

	config, err := h.persistence.GuildConfigByGuild(c.Context(), guildID)
	if err != nil {
		return internalError(c, err)
	}

	return c.JSON(config)
}

func (h *APIHandlers) UpdateGuildConfig(c fiber.Ctx) error {
	guildID := c.Params("id")
	if guildID == "" {
		return badRequest(c, "Guild ID is required")
	}

	var req UpdateGuildConfigRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	config, err := h.persistence.GuildConfigByGuild(c.Context(), guildID)
	if err != nil {
		return internalError(c, err)
	}

	if req.GuildName != nil {
		config.GuildName = *req.GuildName
	}

	if req.Welcome != nil {
		config.Welcome = *req.Welcome
	}

	if req.Logs != nil {
		config.Logs = *req.Logs
	}

	if err := h.persistence.SaveGuildConfig(c.Context(), config); err != nil {
		return internalError(c, err)
	}

	return c.JSON(config)
}

func (h *APIHandlers) GetOnboarding(c fiber.Ctx) error {
	guildID := c.Params("id")
	if guildID == "" {
		return badRequest(c, "Guild ID is required")
	}

	definition, err := h.persistence.OnboardingByGuild(c.Context(), guildID)
	if err != nil {
		return internalError(c, err)
	}

	return c.JSON(definition)
}

// UpdateOnboarding replaces the guild's onboarding definition. The payload is
// shape-checked against a schema, then every semantic rule is evaluated; a
// definition with any violation is rejected wholesale with all of them
// reported. On success the guild config's onboarding gate is synced.
func (h *APIHandlers) UpdateOnboarding(c fiber.Ctx) error {
	guildID := c.Params("id")
	if guildID == "" {
		return badRequest(c, "Guild ID is required")
	}

	violations, err := validateOnboardingShape(c.Body())
	if err != nil {
		return internalError(c, err)
	}

	if len(violations) > 0 {
		return validationFailure(c, violations)
	}

	var req UpdateOnboardingRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	definition, err := h.persistence.OnboardingByGuild(c.Context(), guildID)
	if err != nil {
		return internalError(c, err)
	}

	if req.Enabled != nil {
		definition.Enabled = *req.Enabled
	}

	if req.ChannelID != nil {
		definition.ChannelID = *req.ChannelID
	}

	if req.Steps != nil {
		definition.Steps = *req.Steps
	}

	if violations := models.ValidateOnboardingSteps(definition.Steps); len(violations) > 0 {
		return validationFailure(c, violations)
	}

	definition.UpdatedBy = c.Get(ActingUserHeader)

	if err := h.persistence.SaveOnboarding(c.Context(), definition); err != nil {
		return internalError(c, err)
	}

	if err := h.syncOnboardingGate(c.Context(), definition); err != nil {
		return internalError(c, err)
	}

	return c.JSON(definition)
}

// syncOnboardingGate mirrors the definition's enabled flag and entry channel
// into the guild config so event handlers can gate without loading the
// definition.
func (h *APIHandlers) syncOnboardingGate(ctx context.Context, definition *models.Onboarding) error {
	config, err := h.persistence.GuildConfigByGuild(ctx, definition.GuildID)
	if err != nil {
		return err
	}

	config.Onboarding = models.OnboardingGate{
		Enabled:   definition.Enabled,
		ChannelID: definition.ChannelID,
	}

	return h.persistence.SaveGuildConfig(ctx, config)
}

// TestOnboarding starts a run for the calling administrator. Configuration
// problems are reported immediately; otherwise the run proceeds in the
// background and the endpoint returns before it completes.
func (h *APIHandlers) TestOnboarding(c fiber.Ctx) error {
	guildID := c.Params("id")
	if guildID == "" {
		return badRequest(c, "Guild ID is required")
	}

	var req TestOnboardingRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	config, err := h.persistence.GuildConfigByGuild(c.Context(), guildID)
	if err != nil {
		return internalError(c, err)
	}

	execCtx := &models.ExecutionContext{
		GuildID:   guildID,
		UserID:    req.UserID,
		Username:  req.Username,
		GuildName: config.GuildName,
	}

	if err := h.onboarding.Start(c.Context(), execCtx); err != nil {
		if errors.Is(err, onboarding.ErrDisabled) ||
			errors.Is(err, onboarding.ErrNoChannel) ||
			errors.Is(err, onboarding.ErrNoSteps) {
			return badRequest(c, err.Error())
		}

		return internalError(c, err)
	}

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"status": "started"})
}

func (h *APIHandlers) SendEmbed(c fiber.Ctx) error {
	guildID := c.Params("id")
	if guildID == "" {
		return badRequest(c, "Guild ID is required")
	}

	var req SendEmbedRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	message := discord.Message{Embeds: []discord.Embed{{
		Title:       req.Title,
		Description: req.Description,
		Color:       welcome.ParseColor(req.Color),
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
	}}}

	if err := h.sender.CreateMessage(c.Context(), req.ChannelID, message); err != nil {
		return internalError(c, err)
	}

	h.logger.InfoContext(c.Context(), "Embed sent",
		"guild_id", guildID, "channel_id", req.ChannelID, "acting_user", c.Get(ActingUserHeader))

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"status": "sent"})
}

// HandleInteraction resolves a component interaction and returns the
// platform's synchronous callback payload.
func (h *APIHandlers) HandleInteraction(c fiber.Ctx) error {
	var req InteractionRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	reply, err := h.router.Route(c.Context(), onboarding.InteractionEvent{
		CustomID: req.CustomID,
		GuildID:  req.GuildID,
		UserID:   req.UserID,
		RoleIDs:  req.RoleIDs,
		Values:   req.Values,
	})
	if err != nil {
		if errors.Is(err, onboarding.ErrForeignCustomID) {
			return notFound(c, "Interaction does not belong to onboarding")
		}

		return internalError(c, err)
	}

	response := InteractionResponse{
		Type: interactionCallbackMessage,
		Data: InteractionResponseData{Content: reply.Content},
	}
	if reply.Ephemeral {
		response.Data.Flags = discord.FlagEphemeral
	}

	return c.JSON(response)
}

// GetEditorSession returns the member's in-flight guided-editor session.
func (h *APIHandlers) GetEditorSession(c fiber.Ctx) error {
	guildID, userID := c.Params("id"), c.Params("userId")
	if guildID == "" || userID == "" {
		return badRequest(c, "Guild ID and user ID are required")
	}

	session, err := h.sessions.Get(c.Context(), guildID, userID)
	if err != nil {
		if errors.Is(err, sessions.ErrNotFound) {
			return notFound(c, "No active editor session")
		}

		return internalError(c, err)
	}

	return c.JSON(session)
}

// PutEditorSession saves the member's guided-editor state and refreshes its
// TTL.
func (h *APIHandlers) PutEditorSession(c fiber.Ctx) error {
	guildID, userID := c.Params("id"), c.Params("userId")
	if guildID == "" || userID == "" {
		return badRequest(c, "Guild ID and user ID are required")
	}

	var req EditorSessionRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	session := &sessions.Session{
		GuildID:   guildID,
		UserID:    userID,
		StepID:    req.StepID,
		Selection: req.Selection,
	}

	if err := h.sessions.Put(c.Context(), session); err != nil {
		return internalError(c, err)
	}

	return c.JSON(session)
}

func (h *APIHandlers) DeleteEditorSession(c fiber.Ctx) error {
	guildID, userID := c.Params("id"), c.Params("userId")
	if guildID == "" || userID == "" {
		return badRequest(c, "Guild ID and user ID are required")
	}

	if err := h.sessions.Delete(c.Context(), guildID, userID); err != nil {
		return internalError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *APIHandlers) HealthCheck(c fiber.Ctx) error {
	status := "healthy"
	message := "Teemate API is healthy"
	httpStatus := http.StatusOK

	repositoryErr := h.persistence.HealthCheck(c.Context())
	if repositoryErr != nil {
		status = "unhealthy"
		message = "Teemate API is unhealthy"
		httpStatus = http.StatusInternalServerError
	}

	return c.Status(httpStatus).JSON(fiber.Map{
		"status":    status,
		"message":   message,
		"timestamp": time.Now().UTC(),
	})
}
