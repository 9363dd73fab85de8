package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss is returned by Get when the key is absent or expired.
var ErrCacheMiss = errors.New("cache miss")

// Cache is the fast tier. Values are JSON encoded.
type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	// DeletePrefix removes every key starting with prefix and reports how many.
	DeletePrefix(ctx context.Context, prefix string) (int, error)
	Ping(ctx context.Context) error
	Close() error
}

// CacheService is the redis-backed Cache.
type CacheService struct {
	client *redis.Client
}

func NewCacheService(client *redis.Client) *CacheService {
	return &CacheService{
		client: client,
	}
}

// NewRedisCache parses a redis URL and connects.
func NewRedisCache(redisURL string) (*CacheService, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	return NewCacheService(redis.NewClient(opt)), nil
}

func (s *CacheService) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}

	if err := s.client.Set(ctx, key, data, expiration).Err(); err != nil {
		return fmt.Errorf("failed to set cache: %w", err)
	}

	return nil
}

func (s *CacheService) Get(ctx context.Context, key string, dest interface{}) error {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrCacheMiss
		}
		return fmt.Errorf("failed to get cache: %w", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("failed to unmarshal value: %w", err)
	}

	return nil
}

func (s *CacheService) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to delete cache: %w", err)
	}
	return nil
}

// DeletePrefix walks the keyspace with SCAN rather than KEYS so a large
// cache does not block redis.
func (s *CacheService) DeletePrefix(ctx context.Context, prefix string) (int, error) {
	var deleted int
	iter := s.client.Scan(ctx, 0, prefix+"*", 500).Iterator()
	batch := make([]string, 0, 500)
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == cap(batch) {
			if err := s.Delete(ctx, batch...); err != nil {
				return deleted, err
			}
			deleted += len(batch)
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return deleted, fmt.Errorf("failed to scan cache: %w", err)
	}
	if err := s.Delete(ctx, batch...); err != nil {
		return deleted, err
	}
	return deleted + len(batch), nil
}

func (s *CacheService) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *CacheService) Close() error {
	return s.client.Close()
}

// Cache key generators
func StatsCacheKey(sport string, entityID uint, season string, metrics []string) string {
	set := "all"
	if len(metrics) > 0 {
		sorted := append([]string(nil), metrics...)
		sort.Strings(sorted)
		set = strings.Join(sorted, ",")
	}
	return fmt.Sprintf("%s:stats:%d:%s:%s", strings.ToLower(sport), entityID, season, set)
}

func GameLogCacheKey(sport string, entityID uint, season string) string {
	return fmt.Sprintf("%s:gamelog:%d:%s", strings.ToLower(sport), entityID, season)
}

func SportCachePrefix(sport string) string {
	return strings.ToLower(sport) + ":"
}

func GameLogCachePrefix(sport string) string {
	return strings.ToLower(sport) + ":gamelog:"
}

// DirectoryCacheKey keys a name search. kind is "players" or "teams".
func DirectoryCacheKey(sport, kind string, terms []string) string {
	sorted := make([]string, 0, len(terms))
	for _, t := range terms {
		sorted = append(sorted, strings.ToLower(t))
	}
	sort.Strings(sorted)
	return fmt.Sprintf("%s:%s:%s", strings.ToLower(sport), kind, strings.Join(sorted, "+"))
}
