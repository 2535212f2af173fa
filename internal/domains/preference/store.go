package preference

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/go-redis/redis"
)

const keyPrefix = "linguavox:theme:"

type redisStore struct {
	rc  *redis.Client
	ttl time.Duration
}

// NewRedisStore keeps each flag under its own key; ttl <= 0 means no expiry.
func NewRedisStore(rc *redis.Client, ttl time.Duration) Store {
	return &redisStore{rc: rc, ttl: ttl}
}

func (s *redisStore) Get(ctx context.Context, clientID string) (ThemePreference, bool, error) {
	val, err := s.rc.WithContext(ctx).Get(keyPrefix + clientID).Result()
	if err == redis.Nil {
		return ThemePreference{}, false, nil
	}
	if err != nil {
		return ThemePreference{}, false, err
	}
	dark, err := strconv.ParseBool(val)
	if err != nil {
		return ThemePreference{}, false, fmt.Errorf("corrupt theme value %q: %w", val, err)
	}
	return ThemePreference{DarkMode: dark}, true, nil
}

func (s *redisStore) Put(ctx context.Context, clientID string, pref ThemePreference) error {
	ttl := s.ttl
	if ttl < 0 {
		ttl = 0
	}
	return s.rc.WithContext(ctx).Set(keyPrefix+clientID, strconv.FormatBool(pref.DarkMode), ttl).Err()
}

type memoryStore struct {
	mu    sync.RWMutex
	prefs map[string]ThemePreference
}

// NewMemoryStore is used when no redis address is configured.
func NewMemoryStore() Store {
	return &memoryStore{prefs: make(map[string]ThemePreference)}
}

func (s *memoryStore) Get(_ context.Context, clientID string) (ThemePreference, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	pref, ok := s.prefs[clientID]
	return pref, ok, nil
}

func (s *memoryStore) Put(_ context.Context, clientID string, pref ThemePreference) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prefs[clientID] = pref
	return nil
}
