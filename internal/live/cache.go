package live

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrCacheMiss = errors.New("state not cached")

// StateCache holds the latest encoded Update per match. Set keeps the cached
// frame when it carries a newer version than frame.
type StateCache interface {
	Set(ctx context.Context, matchID uint, frame []byte) error
	Get(ctx context.Context, matchID uint) ([]byte, error)
	Delete(ctx context.Context, matchID uint) error
}

// StateKey is the cache key of a match's latest state.
func StateKey(matchID uint) string {
	return fmt.Sprintf("crease:match:%d:state", matchID)
}

// RedisStateCache stores frames in Redis with a TTL.
type RedisStateCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStateCache connects to redisURL and checks the connection.
func NewRedisStateCache(redisURL string, ttl time.Duration) (*RedisStateCache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &RedisStateCache{client: client, ttl: ttl}, nil
}

// versionKey holds the version of the frame stored at StateKey.
func versionKey(matchID uint) string {
	return fmt.Sprintf("crease:match:%d:version", matchID)
}

// setIfNewer writes the frame and its version unless a newer version is
// already stored. ARGV: version, frame, ttl in ms (0 keeps no expiry).
var setIfNewer = redis.NewScript(`
local cur = tonumber(redis.call("GET", KEYS[2]) or "-1")
if tonumber(ARGV[1]) < cur then
	return 0
end
if tonumber(ARGV[3]) > 0 then
	redis.call("SET", KEYS[1], ARGV[2], "PX", ARGV[3])
	redis.call("SET", KEYS[2], ARGV[1], "PX", ARGV[3])
else
	redis.call("SET", KEYS[1], ARGV[2])
	redis.call("SET", KEYS[2], ARGV[1])
end
return 1
`)

func (c *RedisStateCache) Set(ctx context.Context, matchID uint, frame []byte) error {
	keys := []string{StateKey(matchID), versionKey(matchID)}
	version := strconv.FormatUint(frameVersion(frame), 10)
	return setIfNewer.Run(ctx, c.client, keys, version, frame, c.ttl.Milliseconds()).Err()
}

func (c *RedisStateCache) Get(ctx context.Context, matchID uint) ([]byte, error) {
	b, err := c.client.Get(ctx, StateKey(matchID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	return b, err
}

func (c *RedisStateCache) Delete(ctx context.Context, matchID uint) error {
	return c.client.Del(ctx, StateKey(matchID), versionKey(matchID)).Err()
}

// HealthCheck pings Redis to verify connection
func (c *RedisStateCache) HealthCheck(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisStateCache) Close() error {
	return c.client.Close()
}

// MemoryStateCache is the in-process StateCache used when Redis is disabled.
type MemoryStateCache struct {
	mu     sync.RWMutex
	frames map[uint]frame
}

func NewMemoryStateCache() *MemoryStateCache {
	return &MemoryStateCache{frames: make(map[uint]frame)}
}

func (c *MemoryStateCache) Set(_ context.Context, matchID uint, data []byte) error {
	f := frame{version: frameVersion(data), data: append([]byte(nil), data...)}
	c.mu.Lock()
	defer c.mu.Unlock()
	if cur, ok := c.frames[matchID]; ok && cur.version > f.version {
		return nil
	}
	c.frames[matchID] = f
	return nil
}

func (c *MemoryStateCache) Get(_ context.Context, matchID uint) ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	f, ok := c.frames[matchID]
	if !ok {
		return nil, ErrCacheMiss
	}
	return f.data, nil
}

func (c *MemoryStateCache) Delete(_ context.Context, matchID uint) error {
	c.mu.Lock()
	delete(c.frames, matchID)
	c.mu.Unlock()
	return nil
}
