package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/redis/go-redis/v9"

	"storefront-search-api/internal/config"
	"storefront-search-api/internal/models"
)

const (
	searchPrefix     = "search:"
	predictivePrefix = "predictive:"
)

var errUnavailable = errors.New("redis client not available")

// RedisCache stores zstd-compressed JSON payloads. A nil *RedisCache is a
// valid, permanently unavailable cache.
type RedisCache struct {
	client  *redis.Client
	ttl     time.Duration
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

// NewRedisCache connects to Redis. It returns nil when caching is disabled or
// Redis cannot be reached, and the service runs uncached.
func NewRedisCache(ctx context.Context, cfg config.CacheConfig) *RedisCache {
	if !cfg.IsEnabled() {
		log.Printf("Redis cache disabled by configuration")
		return nil
	}

	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Printf("Failed to parse Redis URL: %v", err)
		return nil
	}
	opt.DB = cfg.DB

	client := redis.NewClient(opt)
	if _, err := client.Ping(ctx).Result(); err != nil {
		log.Printf("Redis connection failed: %v", err)
		_ = client.Close()
		return nil
	}

	c, err := newRedisCache(client, cfg.TTL())
	if err != nil {
		log.Printf("Redis cache setup failed: %v", err)
		_ = client.Close()
		return nil
	}

	log.Printf("Redis connected successfully, DB: %d, TTL: %d seconds", cfg.DB, cfg.TTLSeconds)
	return c
}

func newRedisCache(client *redis.Client, ttl time.Duration) (*RedisCache, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		return nil, fmt.Errorf("zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("zstd decoder: %w", err)
	}
	return &RedisCache{
		client:  client,
		ttl:     ttl,
		encoder: encoder,
		decoder: decoder,
	}, nil
}

// Get decodes the value at key into dst. A miss returns false with no error.
func (r *RedisCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	if !r.IsAvailable() {
		return false, errUnavailable
	}

	val, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("redis get error: %w", err)
	}

	data, err := r.decoder.DecodeAll(val, nil)
	if err != nil {
		return false, fmt.Errorf("zstd decode error: %w", err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, fmt.Errorf("json unmarshal error: %w", err)
	}
	return true, nil
}

func (r *RedisCache) Set(ctx context.Context, key string, value any) error {
	if !r.IsAvailable() {
		return errUnavailable
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("json marshal error: %w", err)
	}
	return r.client.Set(ctx, key, r.encoder.EncodeAll(data, nil), r.ttl).Err()
}

// GenerateSearchKey builds the cache key of a full search. Filter values are
// sorted so that equal selections share a key.
func GenerateSearchKey(params models.SearchParams) string {
	key := searchPrefix + url.QueryEscape(strings.ToLower(params.Term))

	if vendors := sortedCopy(params.Filters.Vendors); len(vendors) > 0 {
		key += ":vendor=" + url.QueryEscape(strings.Join(vendors, "|"))
	}
	if types := sortedCopy(params.Filters.Types); len(types) > 0 {
		key += ":type=" + url.QueryEscape(strings.Join(types, "|"))
	}
	if params.Cursor != "" {
		key += fmt.Sprintf(":%s=%s", params.Direction, url.QueryEscape(params.Cursor))
	}
	if params.Locale != "" {
		key += ":locale=" + url.QueryEscape(strings.ToLower(params.Locale))
	}
	return key
}

func GeneratePredictiveKey(term string, limit int) string {
	return fmt.Sprintf("%s%s:l%d", predictivePrefix, url.QueryEscape(strings.ToLower(term)), limit)
}

func (r *RedisCache) Close() error {
	if !r.IsAvailable() {
		return nil
	}
	r.encoder.Close()
	r.decoder.Close()
	return r.client.Close()
}

func (r *RedisCache) IsAvailable() bool {
	return r != nil && r.client != nil
}

func (r *RedisCache) GetStats(ctx context.Context) map[string]interface{} {
	if !r.IsAvailable() {
		return map[string]interface{}{
			"status": "unavailable",
		}
	}

	info := r.client.Info(ctx, "memory").Val()
	return map[string]interface{}{
		"status":      "connected",
		"ttl_seconds": int(r.ttl.Seconds()),
		"keys":        len(r.GetAllKeys(ctx)),
		"compression": "zstd",
		"memory_info": info,
	}
}

// GetAllKeys lists the search and predictive keys owned by this service.
func (r *RedisCache) GetAllKeys(ctx context.Context) []string {
	if !r.IsAvailable() {
		return []string{}
	}
	keys := []string{}
	for _, pattern := range []string{searchPrefix + "*", predictivePrefix + "*"} {
		iter := r.client.Scan(ctx, 0, pattern, 100).Iterator()
		for iter.Next(ctx) {
			keys = append(keys, iter.Val())
		}
		if err := iter.Err(); err != nil {
			log.Printf("Redis scan %s failed: %v", pattern, err)
		}
	}
	return keys
}

// FlushCache deletes the keys owned by this service and reports how many
// were removed.
func (r *RedisCache) FlushCache(ctx context.Context) (int64, error) {
	if !r.IsAvailable() {
		return 0, errUnavailable
	}
	keys := r.GetAllKeys(ctx)
	if len(keys) == 0 {
		return 0, nil
	}
	return r.client.Del(ctx, keys...).Result()
}

func (r *RedisCache) GetKeyTTL(ctx context.Context, key string) time.Duration {
	if !r.IsAvailable() {
		return 0
	}
	ttl, err := r.client.TTL(ctx, key).Result()
	if err != nil {
		return 0
	}
	return ttl
}

func sortedCopy(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	out := append([]string(nil), values...)
	sort.Strings(out)
	return out
}
