package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/teemate/teemate/pkg/persistence"
	"github.com/teemate/teemate/pkg/persistence/file"
	"github.com/teemate/teemate/pkg/persistence/postgres"
)

// NewPersistence picks the storage backend from the database URL scheme:
// postgres:// (or postgresql://) connects and migrates a database, anything
// else is treated as a directory for the file backend.
func NewPersistence(ctx context.Context, logger *slog.Logger, databaseURL string) (persistence.Persistence, error) {
	switch {
	case strings.HasPrefix(databaseURL, "postgres://"), strings.HasPrefix(databaseURL, "postgresql://"):
		p, err := postgres.NewPersistence(ctx, logger, databaseURL)
		if err != nil {
			return nil, fmt.Errorf("creating postgres persistence: %w", err)
		}

		return p, nil
	default:
		return file.NewPersistence(strings.TrimPrefix(databaseURL, "file://")), nil
	}
}
