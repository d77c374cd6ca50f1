package fingerprint

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"trustgate/internal/verification/ports"
)

const fingerprintKeyPrefix = "tg:fp:"

// RedisStore claims fingerprints with SET NX so concurrent submissions of
// the same identity from different applicants race on one key.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) IsDuplicate(ctx context.Context, q ports.DuplicateQuery) (bool, error) {
	if q.Fingerprint == "" {
		return false, nil
	}
	key := fingerprintKeyPrefix + q.Fingerprint
	applicant := q.ApplicantID.String()

	// SET NX GET returns the previous holder, or redis.Nil when the claim is new.
	holder, err := s.client.SetArgs(ctx, key, applicant, redis.SetArgs{
		Mode: "NX",
		TTL:  s.ttl,
		Get:  true,
	}).Result()
	switch {
	case errors.Is(err, redis.Nil):
		return false, nil
	case err != nil:
		return false, fmt.Errorf("claim fingerprint: %w", err)
	case holder != applicant:
		return true, nil
	}

	if s.ttl > 0 {
		if err := s.client.Expire(ctx, key, s.ttl).Err(); err != nil {
			return false, fmt.Errorf("refresh fingerprint: %w", err)
		}
	}
	return false, nil
}
