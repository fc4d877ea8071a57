package onboarding

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/teemate/teemate/pkg/models"
	"github.com/teemate/teemate/pkg/persistence"
)

// A run may legitimately sleep up to MaxDelaySeconds per delay step, so the
// detached budget covers a full-length workflow of maximum delays.
const runTimeout = time.Duration(models.MaxSteps*models.MaxDelaySeconds) * time.Second

// Service ties definition lookup to the runner. Configuration problems are
// reported synchronously to the caller; the workflow itself executes on a
// detached goroutine because delay steps may hold it for minutes.
type Service struct {
	definitions persistence.DefinitionSource
	runner      *Runner
	logger      *slog.Logger
	wg          sync.WaitGroup
}

func NewService(definitions persistence.DefinitionSource, runner *Runner, logger *slog.Logger) *Service {
	return &Service{
		definitions: definitions,
		runner:      runner,
		logger:      logger.With("module", "onboarding"),
	}
}

// Start launches the onboarding workflow for one member. It returns an error
// only when the guild's definition cannot be loaded or fails its
// preconditions; once the run is dispatched, failures are logged, not
// returned.
func (s *Service) Start(ctx context.Context, execCtx *models.ExecutionContext) error {
	definition, err := s.definitions.OnboardingByGuild(ctx, execCtx.GuildID)
	if err != nil {
		return fmt.Errorf("loading onboarding definition: %w", err)
	}

	switch {
	case !definition.Enabled:
		return ErrDisabled
	case definition.ChannelID == "":
		return ErrNoChannel
	case len(definition.Steps) == 0:
		return ErrNoSteps
	}

	s.wg.Add(1)

	go func() {
		defer s.wg.Done()

		runCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), runTimeout)
		defer cancel()

		if err := s.runner.Run(runCtx, definition, execCtx); err != nil {
			s.logger.ErrorContext(runCtx, "Onboarding run failed",
				"guild_id", execCtx.GuildID, "user_id", execCtx.UserID, "error", err)
		}
	}()

	return nil
}

// Wait blocks until all dispatched runs finish. Used on shutdown.
func (s *Service) Wait() {
	s.wg.Wait()
}
