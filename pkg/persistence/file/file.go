// Package file provides file-based persistence, used for local development
// and tests.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/teemate/teemate/pkg/models"
	"github.com/teemate/teemate/pkg/persistence"
)

const (
	onboardingDir  = "onboarding"
	guildConfigDir = "guilds"

	dirPerm  = 0o755
	filePerm = 0o644
)

// Persistence implements persistence.Persistence on the file system: one JSON
// document per guild per collection.
type Persistence struct {
	root string
}

// NewPersistence creates a file persistence rooted at the given directory.
func NewPersistence(root string) *Persistence {
	return &Persistence{root: strings.Replace(root, "file://", "", 1)}
}

func (p *Persistence) OnboardingByGuild(_ context.Context, guildID string) (*models.Onboarding, error) {
	definition := &models.Onboarding{GuildID: guildID, Steps: []models.Step{}}

	err := p.read(onboardingDir, guildID, definition)
	if err != nil {
		return nil, persistence.NewStoreError("OnboardingByGuild", guildID, err)
	}

	return definition, nil
}

func (p *Persistence) SaveOnboarding(_ context.Context, definition *models.Onboarding) error {
	if definition.GuildID == "" {
		return persistence.ErrGuildIDRequired
	}

	definition.UpdatedAt = time.Now().UTC()

	err := p.write(onboardingDir, definition.GuildID, definition)
	if err != nil {
		return persistence.NewStoreError("SaveOnboarding", definition.GuildID, err)
	}

	return nil
}

func (p *Persistence) GuildConfigByGuild(_ context.Context, guildID string) (*models.GuildConfig, error) {
	config := &models.GuildConfig{GuildID: guildID}

	err := p.read(guildConfigDir, guildID, config)
	if err != nil {
		return nil, persistence.NewStoreError("GuildConfigByGuild", guildID, err)
	}

	return config, nil
}

func (p *Persistence) SaveGuildConfig(_ context.Context, config *models.GuildConfig) error {
	if config.GuildID == "" {
		return persistence.ErrGuildIDRequired
	}

	config.UpdatedAt = time.Now().UTC()

	err := p.write(guildConfigDir, config.GuildID, config)
	if err != nil {
		return persistence.NewStoreError("SaveGuildConfig", config.GuildID, err)
	}

	return nil
}

func (p *Persistence) HealthCheck(_ context.Context) error {
	if _, err := os.Stat(p.root); os.IsNotExist(err) {
		return os.ErrNotExist
	}

	return nil
}

func (p *Persistence) Close(_ context.Context) error {
	return nil
}

// read decodes the document for guildID into out. A missing file is not an
// error: out keeps its defaults, matching create-on-first-access semantics.
func (p *Persistence) read(collection, guildID string, out any) error {
	payload, err := os.ReadFile(p.path(collection, guildID))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}

		return fmt.Errorf("failed to read document: %w", err)
	}

	err = json.Unmarshal(payload, out)
	if err != nil {
		return fmt.Errorf("failed to decode document: %w", err)
	}

	return nil
}

func (p *Persistence) write(collection, guildID string, doc any) error {
	dir := filepath.Join(p.root, collection)

	err := os.MkdirAll(dir, dirPerm)
	if err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	payload, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}

	err = os.WriteFile(p.path(collection, guildID), payload, filePerm)
	if err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}

	return nil
}

func (p *Persistence) path(collection, guildID string) string {
	return filepath.Join(p.root, collection, guildID+".json")
}
