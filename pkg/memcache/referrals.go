// pkg/memcache/referrals.go
package mem

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"itinera/internal/discovery"
)

// ReferralStore keeps the most recently viewed creator video per session.
// A later Set replaces the earlier pointer.
type ReferralStore interface {
	Set(ctx context.Context, sessionKey string, referral discovery.Referral) error

	// Get returns nil when nothing was recorded or the pointer expired.
	Get(ctx context.Context, sessionKey string) (*discovery.Referral, error)

	Clear(ctx context.Context, sessionKey string) error
}

type entry struct {
	referral  discovery.Referral
	expiresAt time.Time
}

type Referrals struct {
	mu   sync.RWMutex
	data map[string]entry
	ttl  time.Duration
	now  func() time.Time
}

func NewReferrals(ttl time.Duration) *Referrals {
	return &Referrals{
		data: make(map[string]entry),
		ttl:  ttl,
		now:  time.Now,
	}
}

func (s *Referrals) Set(_ context.Context, sessionKey string, referral discovery.Referral) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[sessionKey] = entry{
		referral:  referral,
		expiresAt: s.now().Add(s.ttl),
	}
	return nil
}

func (s *Referrals) Get(_ context.Context, sessionKey string) (*discovery.Referral, error) {
	s.mu.RLock()
	e, ok := s.data[sessionKey]
	s.mu.RUnlock()

	if !ok {
		return nil, nil
	}
	if s.now().After(e.expiresAt) {
		s.mu.Lock()
		if cur, still := s.data[sessionKey]; still && cur.expiresAt.Equal(e.expiresAt) {
			delete(s.data, sessionKey) // cleanup expired
		}
		s.mu.Unlock()
		return nil, nil
	}
	r := e.referral
	return &r, nil
}

func (s *Referrals) Clear(_ context.Context, sessionKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, sessionKey)
	return nil
}

// RedisReferrals shares the pointer between instances.
type RedisReferrals struct {
	rdb    *redis.Client
	ttl    time.Duration
	prefix string
}

func NewRedisReferrals(rdb *redis.Client, ttl time.Duration) *RedisReferrals {
	return &RedisReferrals{rdb: rdb, ttl: ttl, prefix: "referral:"}
}

func (s *RedisReferrals) Set(ctx context.Context, sessionKey string, referral discovery.Referral) error {
	payload, err := json.Marshal(referral)
	if err != nil {
		return err
	}
	if err := s.rdb.Set(ctx, s.prefix+sessionKey, payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set referral: %w", err)
	}
	return nil
}

func (s *RedisReferrals) Get(ctx context.Context, sessionKey string) (*discovery.Referral, error) {
	raw, err := s.rdb.Get(ctx, s.prefix+sessionKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get referral: %w", err)
	}

	var r discovery.Referral
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, fmt.Errorf("decode referral: %w", err)
	}
	return &r, nil
}

func (s *RedisReferrals) Clear(ctx context.Context, sessionKey string) error {
	return s.rdb.Del(ctx, s.prefix+sessionKey).Err()
}
