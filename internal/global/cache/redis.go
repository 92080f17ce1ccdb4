package cache

import (
	"context"
	"encoding/json"
	"time"

	"activity-portal/config"
	"activity-portal/internal/global/sentry/tracing"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// Client 未配置 Redis 时为 nil，此时所有缓存操作直接穿透
var Client *redis.Client

// Init 连接 Redis，未配置 host 时跳过
func Init(ctx context.Context) error {
	cfg := config.Get().Redis
	if cfg.Host == "" {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Host + ":" + cfg.Port,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if tracing.IsEnabled() {
		client.AddHook(tracing.NewRedisSentryHook())
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return errors.Wrap(err, "连接 Redis 失败")
	}
	Client = client
	return nil
}

// TTL 配置的缓存时长
func TTL() time.Duration {
	ttl := config.Get().Redis.CacheTTLSeconds
	if ttl <= 0 {
		ttl = 60
	}
	return time.Duration(ttl) * time.Second
}

// Cache 以 JSON 存取缓存值
type Cache struct {
	client *redis.Client
	prefix string
}

func New(client *redis.Client, prefix string) *Cache {
	return &Cache{client: client, prefix: prefix}
}

func (c *Cache) key(k string) string {
	return c.prefix + ":" + k
}

// Remember 命中缓存时解码到 dest，否则调用 load 并写回；Redis 出错时直接使用 load 的结果
func (c *Cache) Remember(ctx context.Context, key string, ttl time.Duration, dest any, load func() (any, error)) error {
	if c == nil || c.client == nil {
		return assign(load, dest)
	}

	raw, err := c.client.Get(ctx, c.key(key)).Bytes()
	if err == nil {
		if json.Unmarshal(raw, dest) == nil {
			return nil
		}
	}

	value, err := load()
	if err != nil {
		return err
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	_ = c.client.Set(ctx, c.key(key), payload, ttl).Err()
	return json.Unmarshal(payload, dest)
}

// Invalidate 删除给定的键，忽略 Redis 错误
func (c *Cache) Invalidate(ctx context.Context, keys ...string) {
	if c == nil || c.client == nil || len(keys) == 0 {
		return
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = c.key(k)
	}
	_ = c.client.Del(ctx, full...).Err()
}

func assign(load func() (any, error), dest any) error {
	value, err := load()
	if err != nil {
		return err
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(payload, dest)
}
