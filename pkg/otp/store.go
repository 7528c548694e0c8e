package otp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "otp:challenge:"

// ChallengeStore persists pending challenges between the passphrase step
// and the code verification step. Get returns nil for unknown keys.
type ChallengeStore interface {
	Save(ctx context.Context, key string, challenge Challenge, ttl time.Duration) error
	Get(ctx context.Context, key string) (*Challenge, error)
	Delete(ctx context.Context, key string) error
}

// RedisChallengeStore keeps challenges in redis so verification survives
// process restarts and works across instances. Keys ride on redis TTLs;
// the ExpiresAt field stays authoritative for the verification decision.
type RedisChallengeStore struct {
	client *redis.Client
}

func MakeRedisChallengeStore(client *redis.Client) *RedisChallengeStore {
	return &RedisChallengeStore{client: client}
}

func (s *RedisChallengeStore) Save(ctx context.Context, key string, challenge Challenge, ttl time.Duration) error {
	raw, err := json.Marshal(challenge)
	if err != nil {
		return fmt.Errorf("could not encode otp challenge: %w", err)
	}

	if err := s.client.Set(ctx, redisKeyPrefix+key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("could not store otp challenge: %w", err)
	}

	return nil
}

func (s *RedisChallengeStore) Get(ctx context.Context, key string) (*Challenge, error) {
	raw, err := s.client.Get(ctx, redisKeyPrefix+key).Bytes()

	if errors.Is(err, redis.Nil) {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("could not load otp challenge: %w", err)
	}

	challenge := Challenge{}
	if err := json.Unmarshal(raw, &challenge); err != nil {
		return nil, fmt.Errorf("could not decode otp challenge: %w", err)
	}

	return &challenge, nil
}

func (s *RedisChallengeStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, redisKeyPrefix+key).Err(); err != nil {
		return fmt.Errorf("could not delete otp challenge: %w", err)
	}

	return nil
}
