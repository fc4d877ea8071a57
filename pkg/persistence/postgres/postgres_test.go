package postgres_test

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/teemate/teemate/pkg/models"
	"github.com/teemate/teemate/pkg/persistence/postgres"
)

var postgresContainer *tcpostgres.PostgresContainer

func dropDB(ctx context.Context, t *testing.T, databaseURL string) {
	t.Helper()

	db, err := sql.Open("postgres", databaseURL)
	require.NoError(t, err)

	for _, table := range []string{"guild_onboarding", "guild_configs", "schema_migrations"} {
		_, err = db.ExecContext(ctx, "DROP TABLE IF EXISTS "+table+" CASCADE")
		require.NoError(t, err)
	}

	require.NoError(t, db.Close())
}

func setupTestDB(t *testing.T) (*postgres.Persistence, context.Context, string) {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping postgres integration test in short mode")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)

	if postgresContainer == nil || !postgresContainer.IsRunning() {
		var err error

		postgresContainer, err = tcpostgres.Run(ctx,
			"postgres:16-alpine",
			tcpostgres.WithDatabase("teemate_test"),
			tcpostgres.WithUsername("teemate"),
			tcpostgres.WithPassword("teemate"),
			tcpostgres.BasicWaitStrategies(),
		)
		require.NoError(t, err)
	}

	databaseURL, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	dropDB(ctx, t, databaseURL)

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	persistence, err := postgres.NewPersistence(ctx, logger, databaseURL)
	require.NoError(t, err)

	t.Cleanup(func() {
		dropDB(ctx, t, databaseURL)

		require.NoError(t, persistence.Close(ctx))
		cancel()
	})

	return persistence, ctx, databaseURL
}

func TestNewPersistence_Migrations(t *testing.T) {
	_, ctx, databaseURL := setupTestDB(t)

	db, err := sql.Open("postgres", databaseURL)
	require.NoError(t, err)

	defer func() {
		require.NoError(t, db.Close())
	}()

	for _, table := range []string{"guild_onboarding", "guild_configs"} {
		var exists bool

		err = db.QueryRowContext(ctx,
			"SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name = $1)", table).
			Scan(&exists)
		require.NoError(t, err)
		assert.True(t, exists, "table %s should exist", table)
	}
}

func TestPersistence_OnboardingLifecycle(t *testing.T) {
	p, ctx, _ := setupTestDB(t)

	// First access returns the empty default document.
	definition, err := p.OnboardingByGuild(ctx, "g1")
	require.NoError(t, err)
	assert.False(t, definition.Enabled)
	assert.Empty(t, definition.Steps)

	definition.Enabled = true
	definition.ChannelID = "chan-1"
	definition.Steps = []models.Step{
		{ID: "s1", Type: models.StepTypeMessage, Content: "Welcome {user}"},
		{ID: "s2", Type: models.StepTypeDelay, DelaySeconds: 10},
	}
	require.NoError(t, p.SaveOnboarding(ctx, definition))

	loaded, err := p.OnboardingByGuild(ctx, "g1")
	require.NoError(t, err)
	assert.True(t, loaded.Enabled)
	require.Len(t, loaded.Steps, 2)
	assert.Equal(t, models.StepTypeDelay, loaded.Steps[1].Type)

	// Wholesale replacement.
	loaded.Steps = loaded.Steps[:1]
	require.NoError(t, p.SaveOnboarding(ctx, loaded))

	replaced, err := p.OnboardingByGuild(ctx, "g1")
	require.NoError(t, err)
	assert.Len(t, replaced.Steps, 1)
}

func TestPersistence_GuildConfigLifecycle(t *testing.T) {
	p, ctx, _ := setupTestDB(t)

	config, err := p.GuildConfigByGuild(ctx, "g1")
	require.NoError(t, err)

	config.Welcome = models.WelcomeConfig{Enabled: true, ChannelID: "c1", Message: "hello {user}"}
	config.Logs = models.LogConfig{Enabled: true, ChannelID: "c2", Events: map[string]bool{"messageDelete": true}}
	require.NoError(t, p.SaveGuildConfig(ctx, config))

	loaded, err := p.GuildConfigByGuild(ctx, "g1")
	require.NoError(t, err)
	assert.True(t, loaded.Welcome.Enabled)
	assert.True(t, loaded.LogEventEnabled("messageDelete"))
	assert.False(t, loaded.LogEventEnabled("ban"))
}
