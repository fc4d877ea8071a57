// Package postgres provides the PostgreSQL persistence backend. Guild
// documents are stored as JSONB, one row per guild per collection.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/lib/pq" // postgres driver

	"github.com/teemate/teemate/pkg/models"
	"github.com/teemate/teemate/pkg/persistence"
	"github.com/teemate/teemate/pkg/persistence/sqlbase"
)

// Persistence implements persistence.Persistence on PostgreSQL.
type Persistence struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPersistence connects, pings and migrates the database.
func NewPersistence(ctx context.Context, logger *slog.Logger, databaseURL string) (*Persistence, error) {
	database, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL database: %w", err)
	}

	err = database.PingContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	migrationManager := sqlbase.NewMigrationManager(logger, database, migrations())

	err = migrationManager.RunMigrations(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &Persistence{db: database, logger: logger}, nil
}

func (p *Persistence) OnboardingByGuild(ctx context.Context, guildID string) (*models.Onboarding, error) {
	definition := &models.Onboarding{GuildID: guildID, Steps: []models.Step{}}

	err := p.loadDocument(ctx, "guild_onboarding", guildID, definition)
	if err != nil {
		return nil, persistence.NewStoreError("OnboardingByGuild", guildID, err)
	}

	return definition, nil
}

func (p *Persistence) SaveOnboarding(ctx context.Context, definition *models.Onboarding) error {
	if definition.GuildID == "" {
		return persistence.ErrGuildIDRequired
	}

	definition.UpdatedAt = time.Now().UTC()

	err := p.saveDocument(ctx, "guild_onboarding", definition.GuildID, definition)
	if err != nil {
		return persistence.NewStoreError("SaveOnboarding", definition.GuildID, err)
	}

	return nil
}

func (p *Persistence) GuildConfigByGuild(ctx context.Context, guildID string) (*models.GuildConfig, error) {
	config := &models.GuildConfig{GuildID: guildID}

	err := p.loadDocument(ctx, "guild_configs", guildID, config)
	if err != nil {
		return nil, persistence.NewStoreError("GuildConfigByGuild", guildID, err)
	}

	return config, nil
}

func (p *Persistence) SaveGuildConfig(ctx context.Context, config *models.GuildConfig) error {
	if config.GuildID == "" {
		return persistence.ErrGuildIDRequired
	}

	config.UpdatedAt = time.Now().UTC()

	err := p.saveDocument(ctx, "guild_configs", config.GuildID, config)
	if err != nil {
		return persistence.NewStoreError("SaveGuildConfig", config.GuildID, err)
	}

	return nil
}

func (p *Persistence) HealthCheck(ctx context.Context) error {
	err := p.db.PingContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	return nil
}

func (p *Persistence) Close(_ context.Context) error {
	if p.db != nil {
		err := p.db.Close()
		if err != nil {
			return fmt.Errorf("failed to close database connection: %w", err)
		}
	}

	return nil
}

// loadDocument decodes the stored JSONB document into out. A missing row
// leaves out at its defaults, matching create-on-first-access semantics.
func (p *Persistence) loadDocument(ctx context.Context, table, guildID string, out any) error {
	var payload []byte

	query := fmt.Sprintf("SELECT doc FROM %s WHERE guild_id = $1", table)

	err := p.db.QueryRowContext(ctx, query, guildID).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}

	if err != nil {
		return fmt.Errorf("failed to query document: %w", err)
	}

	err = json.Unmarshal(payload, out)
	if err != nil {
		return fmt.Errorf("failed to decode document: %w", err)
	}

	return nil
}

func (p *Persistence) saveDocument(ctx context.Context, table, guildID string, doc any) error {
	payload, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (guild_id, doc, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (guild_id) DO UPDATE SET doc = EXCLUDED.doc, updated_at = NOW()
	`, table)

	_, err = p.db.ExecContext(ctx, query, guildID, payload)
	if err != nil {
		return fmt.Errorf("failed to upsert document: %w", err)
	}

	return nil
}
