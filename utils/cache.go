package utils

import (
	"context"
	"encoding/json"
	"net"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/hanulso/moim/config"
)

const defaultCacheTTL = time.Hour

// NewRedisClient builds a Redis client from configuration. A ping failure is
// not fatal; every cache path degrades to a miss when Redis is unreachable.
func NewRedisClient(cfg config.AppConfig) *redis.Client {
	rc := redis.NewClient(&redis.Options{
		Addr:         net.JoinHostPort(cfg.RedisHost, strconv.Itoa(cfg.RedisPort)),
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		DialTimeout:  3 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_ = rc.Ping(ctx).Err()
	return rc
}

// Cache is a best-effort read cache over Redis. Cached payloads are strictly
// read optimizations: writers invalidate by prefix and readers fall through
// to the store on any miss or error. A nil Cache disables caching entirely.
type Cache struct {
	rc  *redis.Client
	log *zap.SugaredLogger
}

// NewCache wraps a Redis client. Pass a nil client to disable caching.
func NewCache(rc *redis.Client, log *zap.SugaredLogger) *Cache {
	if rc == nil {
		return nil
	}
	return &Cache{rc: rc, log: log}
}

// GetBytes returns the cached bytes for a key.
func (c *Cache) GetBytes(key string) ([]byte, bool) {
	if c == nil || c.rc == nil {
		return nil, false
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	b, err := c.rc.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	return b, true
}

// SetJSON marshals v and stores the JSON bytes with the given TTL.
func (c *Cache) SetJSON(key string, v interface{}, ttl time.Duration) {
	if c == nil || c.rc == nil {
		return
	}
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := c.rc.Set(ctx, key, b, ttl).Err(); err != nil && c.log != nil {
		c.log.Warnf("cache set failed key=%s err=%v", key, err)
	}
}

// InvalidateByPrefix deletes keys that match the given prefix using SCAN.
func (c *Cache) InvalidateByPrefix(prefix string) {
	if c == nil || c.rc == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	var cursor uint64
	for i := 0; i < 10; i++ { // bound rounds to avoid long loops
		keys, cur, err := c.rc.Scan(ctx, cursor, prefix+"*", 1000).Result()
		if err != nil {
			break
		}
		cursor = cur
		if len(keys) > 0 {
			pipe := c.rc.Pipeline()
			for _, k := range keys {
				pipe.Del(ctx, k)
			}
			_, _ = pipe.Exec(ctx)
		}
		if cursor == 0 {
			break
		}
	}
}
