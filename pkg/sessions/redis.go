package sessions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "teemate:session:"

// RedisStore keeps sessions in redis with a native TTL, so expiry needs no
// sweeping and sessions survive process restarts.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(redisURL string, ttl time.Duration) (*RedisStore, error) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}

	return &RedisStore{client: redis.NewClient(opts), ttl: ttl}, nil
}

func (s *RedisStore) Put(ctx context.Context, session *Session) error {
	session.UpdatedAt = time.Now().UTC()

	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}

	key := redisKeyPrefix + sessionKey(session.GuildID, session.UserID)
	if err := s.client.Set(ctx, key, payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("storing session: %w", err)
	}

	return nil
}

func (s *RedisStore) Get(ctx context.Context, guildID, userID string) (*Session, error) {
	payload, err := s.client.Get(ctx, redisKeyPrefix+sessionKey(guildID, userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("loading session: %w", err)
	}

	var session Session
	if err := json.Unmarshal(payload, &session); err != nil {
		return nil, fmt.Errorf("decoding session: %w", err)
	}

	return &session, nil
}

func (s *RedisStore) Delete(ctx context.Context, guildID, userID string) error {
	if err := s.client.Del(ctx, redisKeyPrefix+sessionKey(guildID, userID)).Err(); err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}

	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
