// Package persistence provides the storage abstraction for guild
// configuration and onboarding definitions.
package persistence

import (
	"context"

	"github.com/teemate/teemate/pkg/models"
)

// Persistence stores one guild config and one onboarding definition per
// guild. Reads return an empty default document when none has been saved yet
// (definitions are created empty on first access); writes replace the
// document wholesale.
type Persistence interface {
	OnboardingByGuild(ctx context.Context, guildID string) (*models.Onboarding, error)
	SaveOnboarding(ctx context.Context, definition *models.Onboarding) error

	GuildConfigByGuild(ctx context.Context, guildID string) (*models.GuildConfig, error)
	SaveGuildConfig(ctx context.Context, config *models.GuildConfig) error

	HealthCheck(ctx context.Context) error
	Close(ctx context.Context) error
}

// DefinitionSource is the read-only slice of Persistence the onboarding
// engine depends on.
type DefinitionSource interface {
	OnboardingByGuild(ctx context.Context, guildID string) (*models.Onboarding, error)
}
