package formstate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"employment-application/internal/models"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "application-form:draft:"

// RedisStore shares form state between processes serving the same form.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func draftKey(sessionID string) string {
	return keyPrefix + sessionID
}

func (s *RedisStore) Load(ctx context.Context, sessionID string) (models.FormFields, error) {
	raw, err := s.client.Get(ctx, draftKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.FormFields{}, nil
	}
	if err != nil {
		return models.FormFields{}, fmt.Errorf("load form state: %w", err)
	}

	var fields models.FormFields
	if err := json.Unmarshal(raw, &fields); err != nil {
		return models.FormFields{}, fmt.Errorf("decode form state: %w", err)
	}
	return fields, nil
}

func (s *RedisStore) Save(ctx context.Context, sessionID string, fields models.FormFields) error {
	raw, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("encode form state: %w", err)
	}
	if err := s.client.Set(ctx, draftKey(sessionID), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("save form state: %w", err)
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, draftKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("clear form state: %w", err)
	}
	return nil
}
