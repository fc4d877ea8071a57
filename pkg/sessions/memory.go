package sessions

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

type memoryEntry struct {
	session   *Session
	expiresAt time.Time
}

// MemoryStore keeps sessions in process memory. Expired entries are refused
// on read immediately and reclaimed by a cron sweep.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
	cron    *cron.Cron
	logger  *slog.Logger
}

func NewMemoryStore(ttl time.Duration, logger *slog.Logger) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	store := &MemoryStore{
		entries: map[string]memoryEntry{},
		ttl:     ttl,
		cron:    cron.New(),
		logger:  logger.With("module", "sessions"),
	}

	// The schedule expression is static, the error path is unreachable.
	_, _ = store.cron.AddFunc("@every 1m", store.sweep)
	store.cron.Start()

	return store
}

func (s *MemoryStore) Put(_ context.Context, session *Session) error {
	session.UpdatedAt = time.Now().UTC()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[sessionKey(session.GuildID, session.UserID)] = memoryEntry{
		session:   session,
		expiresAt: time.Now().Add(s.ttl),
	}

	return nil
}

func (s *MemoryStore) Get(_ context.Context, guildID, userID string) (*Session, error) {
	s.mu.RLock()
	entry, ok := s.entries[sessionKey(guildID, userID)]
	s.mu.RUnlock()

	if !ok || time.Now().After(entry.expiresAt) {
		return nil, ErrNotFound
	}

	return entry.session, nil
}

func (s *MemoryStore) Delete(_ context.Context, guildID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, sessionKey(guildID, userID))

	return nil
}

func (s *MemoryStore) Close() error {
	<-s.cron.Stop().Done()

	return nil
}

func (s *MemoryStore) sweep() {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	swept := 0

	for key, entry := range s.entries {
		if now.After(entry.expiresAt) {
			delete(s.entries, key)

			swept++
		}
	}

	if swept > 0 {
		s.logger.Debug("Swept expired sessions", "count", swept)
	}
}
