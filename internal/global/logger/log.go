package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"activity-portal/config"

	sentryslog "github.com/getsentry/sentry-go/slog"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	instance *slog.Logger
	once     sync.Once
)

// fanoutHandler 把同一条日志交给多个 handler
type fanoutHandler []slog.Handler

func (h fanoutHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, handler := range h {
		if handler.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (h fanoutHandler) Handle(ctx context.Context, r slog.Record) error {
	for _, handler := range h {
		if !handler.Enabled(ctx, r.Level) {
			continue
		}
		if err := handler.Handle(ctx, r.Clone()); err != nil {
			return err
		}
	}
	return nil
}

func (h fanoutHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(fanoutHandler, len(h))
	for i, handler := range h {
		out[i] = handler.WithAttrs(attrs)
	}
	return out
}

func (h fanoutHandler) WithGroup(name string) slog.Handler {
	out := make(fanoutHandler, len(h))
	for i, handler := range h {
		out[i] = handler.WithGroup(name)
	}
	return out
}

// Get 获取全局 Logger
func Get() *slog.Logger {
	once.Do(func() {
		cfg := config.Get()
		handler := newHandler(cfg, nil)
		instance = slog.New(handler).With(
			"app_name", "activity-portal",
			"env", string(cfg.Mode),
		)
	})
	return instance
}

// newHandler release 模式且配置了文件路径时写 JSON 到轮转文件，否则输出文本到 stdout；
// 配置了 Sentry DSN 时额外把 Warn 以上的日志上报
func newHandler(cfg *config.Config, out io.Writer) slog.Handler {
	opts := &slog.HandlerOptions{
		AddSource: cfg.Mode == config.ModeRelease,
		Level:     parseLevel(cfg.Log.Level),
	}

	var base slog.Handler
	switch {
	case out != nil:
		base = slog.NewJSONHandler(out, opts)
	case cfg.Mode == config.ModeRelease && cfg.Log.FilePath != "":
		base = slog.NewJSONHandler(&lumberjack.Logger{
			Filename:   cfg.Log.FilePath,
			MaxSize:    cfg.Log.MaxSize,
			MaxBackups: cfg.Log.MaxBackups,
			MaxAge:     cfg.Log.MaxAge,
			Compress:   cfg.Log.Compress,
		}, opts)
	default:
		base = slog.NewTextHandler(os.Stdout, opts)
	}

	if cfg.Sentry.Dsn == "" {
		return base
	}
	sentryHandler := sentryslog.Option{
		EventLevel: []slog.Level{slog.LevelError},
		LogLevel:   []slog.Level{slog.LevelWarn, slog.LevelError},
		AddSource:  cfg.Mode == config.ModeRelease,
	}.NewSentryHandler(context.Background())
	return fanoutHandler{base, sentryHandler}
}

// New 创建带模块名的 Logger
func New(module string) *slog.Logger {
	return Get().With("module", module)
}

// WithRequest 附带客户端 IP 与当前用户，用于业务日志
func WithRequest(base *slog.Logger, c interface {
	ClientIP() string
	GetHeader(string) string
}, userID uint) *slog.Logger {
	l := base.With("client_ip", c.ClientIP())
	if forwardedFor := c.GetHeader("X-Forwarded-For"); forwardedFor != "" {
		l = l.With("x_forwarded_for", forwardedFor)
	}
	if userID != 0 {
		l = l.With("user_id", userID)
	}
	return l
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
