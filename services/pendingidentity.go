package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"event-lists-go/config"
	"event-lists-go/middleware"
)

// PendingIdentityService keeps prefill data for registrants who opened a
// registration form via an invitation but have not submitted yet. Entries
// expire on their own so abandoned forms do not accumulate.
type PendingIdentityService struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewPendingIdentityService(client *redis.Client, cfg *config.Config) *PendingIdentityService {
	return &PendingIdentityService{
		redis: client,
		ttl:   time.Duration(cfg.PendingIdentityTTL) * time.Minute,
	}
}

func pendingIdentityKey(identityID string) string {
	return fmt.Sprintf("pending_identity:%s", identityID)
}

// Store saves the prefill values for an identity, resetting the expiry.
func (s *PendingIdentityService) Store(ctx context.Context, identityID string, values map[string]string) error {
	payload, err := json.Marshal(values)
	if err != nil {
		return middleware.NewInternalServerError("Failed to serialize prefill data: " + err.Error())
	}
	if err := s.redis.Set(ctx, pendingIdentityKey(identityID), payload, s.ttl).Err(); err != nil {
		return middleware.NewInternalServerError("Failed to cache prefill data: " + err.Error())
	}
	return nil
}

// Get returns the cached prefill values. A missing or expired identity is
// not an error, the form just starts out blank.
func (s *PendingIdentityService) Get(ctx context.Context, identityID string) (map[string]string, error) {
	payload, err := s.redis.Get(ctx, pendingIdentityKey(identityID)).Bytes()
	if err == redis.Nil {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, middleware.NewInternalServerError("Failed to read prefill data: " + err.Error())
	}
	values := map[string]string{}
	if err := json.Unmarshal(payload, &values); err != nil {
		return map[string]string{}, nil
	}
	return values, nil
}

// Clear drops the cached values, typically after a successful submission.
func (s *PendingIdentityService) Clear(ctx context.Context, identityID string) error {
	if err := s.redis.Del(ctx, pendingIdentityKey(identityID)).Err(); err != nil {
		return middleware.NewInternalServerError("Failed to clear prefill data: " + err.Error())
	}
	return nil
}
