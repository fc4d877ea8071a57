package onboarding

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/teemate/teemate/pkg/discord"
	"github.com/teemate/teemate/pkg/models"
)

// ChatClient is the slice of the chat platform API the onboarding engine
// drives. *discord.Client satisfies it; tests substitute a recorder.
type ChatClient interface {
	CreatePrivateThread(ctx context.Context, channelID, name string) (*discord.Channel, error)
	AddThreadMember(ctx context.Context, threadID, userID string) error
	CreateMessage(ctx context.Context, channelID string, message discord.Message) error
	AddMemberRole(ctx context.Context, guildID, userID, roleID string) error
	RemoveMemberRole(ctx context.Context, guildID, userID, roleID string) error
}

// Preconditions checked before any thread is created.
var (
	ErrDisabled  = errors.New("onboarding is disabled for this guild")
	ErrNoChannel = errors.New("onboarding has no parent channel configured")
	ErrNoSteps   = errors.New("onboarding has no steps configured")
)

// Runner executes an onboarding definition for one member: it opens a private
// thread off the configured parent channel, pulls the member in, then walks
// the steps strictly in order.
type Runner struct {
	client ChatClient
	logger *slog.Logger
}

func NewRunner(client ChatClient, logger *slog.Logger) *Runner {
	return &Runner{client: client, logger: logger.With("module", "onboarding")}
}

// Run executes the definition for the member described by execCtx. The first
// failing platform call aborts the remainder of the workflow; steps already
// executed are not rolled back.
func (r *Runner) Run(ctx context.Context, definition *models.Onboarding, execCtx *models.ExecutionContext) error {
	switch {
	case !definition.Enabled:
		return ErrDisabled
	case definition.ChannelID == "":
		return ErrNoChannel
	case len(definition.Steps) == 0:
		return ErrNoSteps
	}

	thread, err := r.client.CreatePrivateThread(ctx, definition.ChannelID, "Welcome "+execCtx.Username)
	if err != nil {
		return fmt.Errorf("creating onboarding thread: %w", err)
	}

	execCtx.ThreadID = thread.ID

	if err := r.client.AddThreadMember(ctx, thread.ID, execCtx.UserID); err != nil {
		return fmt.Errorf("adding member to onboarding thread: %w", err)
	}

	logger := r.logger.With("guild_id", execCtx.GuildID, "user_id", execCtx.UserID, "thread_id", thread.ID)
	logger.InfoContext(ctx, "Onboarding started", "steps", len(definition.Steps))

	for i := range definition.Steps {
		step := &definition.Steps[i]

		if err := r.runStep(ctx, step, execCtx); err != nil {
			return fmt.Errorf("running step %s (%d/%d): %w", step.ID, i+1, len(definition.Steps), err)
		}
	}

	logger.InfoContext(ctx, "Onboarding completed")

	return nil
}

func (r *Runner) runStep(ctx context.Context, step *models.Step, execCtx *models.ExecutionContext) error {
	switch step.Type {
	case models.StepTypeMessage:
		content := execCtx.Substitute(step.Content)
		if content == "" {
			return nil
		}

		return r.client.CreateMessage(ctx, execCtx.ThreadID, discord.Message{Content: content})
	case models.StepTypeDelay:
		return r.sleep(ctx, time.Duration(step.ClampedDelay())*time.Second)
	case models.StepTypeAction:
		rows := RenderComponents(execCtx.GuildID, step)
		if len(rows) == 0 {
			return nil
		}

		return r.client.CreateMessage(ctx, execCtx.ThreadID, discord.Message{
			Content:    execCtx.Substitute(step.ActionMessage),
			Components: rows,
		})
	default:
		return fmt.Errorf("unknown step type %q", step.Type)
	}
}

func (r *Runner) sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
