package tracing

import (
	"context"
	"errors"
	"net"
	"strings"
	"time"

	"activity-portal/config"

	"github.com/getsentry/sentry-go"
	"github.com/redis/go-redis/v9"
)

// RedisSentryHook 实现 redis.Hook，为缓存命令创建 span
type RedisSentryHook struct {
	slowThreshold time.Duration
}

func NewRedisSentryHook() *RedisSentryHook {
	ms := config.Get().Sentry.Tracing.RedisSlowThresholdMs
	return &RedisSentryHook{slowThreshold: time.Duration(ms) * time.Millisecond}
}

func (h *RedisSentryHook) DialHook(next redis.DialHook) redis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		return next(ctx, network, addr)
	}
}

func (h *RedisSentryHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		return h.track(ctx, "db.redis", strings.ToUpper(cmd.Name()), func(ctx context.Context) error {
			return next(ctx, cmd)
		})
	}
}

func (h *RedisSentryHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		return h.track(ctx, "db.redis.pipeline", pipelineDescription(cmds), func(ctx context.Context) error {
			return next(ctx, cmds)
		})
	}
}

func (h *RedisSentryHook) track(ctx context.Context, op, desc string, fn func(context.Context) error) error {
	start := time.Now()
	span := StartSpan(ctx, op, desc)
	if span == nil {
		return fn(ctx)
	}
	span.SetData("db.system", "redis")

	err := fn(span.Context())

	if h.slowThreshold > 0 && time.Since(start) < h.slowThreshold {
		span.Sampled = sentry.SampledFalse
	}
	// 缓存未命中不算错误
	if errors.Is(err, redis.Nil) {
		FinishSpan(span, nil)
	} else {
		FinishSpan(span, err)
	}
	return err
}

func pipelineDescription(cmds []redis.Cmder) string {
	const maxShow = 3
	names := make([]string, 0, maxShow)
	for i, cmd := range cmds {
		if i == maxShow {
			break
		}
		names = append(names, strings.ToUpper(cmd.Name()))
	}
	desc := "PIPELINE: " + strings.Join(names, ", ")
	if len(cmds) > maxShow {
		desc += "..."
	}
	return desc
}
