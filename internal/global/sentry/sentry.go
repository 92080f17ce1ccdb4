package sentry

import (
	"fmt"
	"strconv"
	"time"

	"activity-portal/config"
	"activity-portal/internal/global/jwt"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
)

// CodedError 带错误码的错误，用于判断是否需要上报
type CodedError interface {
	error
	GetCode() int32
}

// Init 初始化 Sentry SDK，未配置 DSN 时跳过
func Init() error {
	cfg := config.Get()
	if cfg.Sentry.Dsn == "" {
		return nil
	}

	tracesSampleRate := cfg.Sentry.SampleRate
	if tracesSampleRate <= 0 {
		tracesSampleRate = 1.0
	}

	environment := cfg.Sentry.Environment
	if environment == "" {
		environment = string(cfg.Mode)
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.Sentry.Dsn,
		Environment:      environment,
		Release:          "activity-portal@1.0.0",
		SampleRate:       1.0, // 错误事件全部上报
		EnableTracing:    true,
		TracesSampleRate: tracesSampleRate,
		EnableLogs:       true,
	})
	if err != nil {
		return fmt.Errorf("sentry initialization failed: %w", err)
	}
	return nil
}

// Middleware 返回 Sentry Gin 中间件，未配置 DSN 时为空中间件
func Middleware() gin.HandlerFunc {
	if config.Get().Sentry.Dsn == "" {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	return sentrygin.New(sentrygin.Options{
		Repanic:         true, // 交给 Recovery 中间件处理
		WaitForDelivery: false,
		Timeout:         2 * time.Second,
	})
}

// CaptureException 上报服务器错误，业务错误不上报
func CaptureException(c *gin.Context, err error) {
	if config.Get().Sentry.Dsn == "" || !shouldReport(err) {
		return
	}

	hub := sentrygin.GetHubFromContext(c)
	if hub == nil {
		return
	}
	hub.WithScope(func(scope *sentry.Scope) {
		scope.SetRequest(c.Request)
		scope.SetTag("path", c.FullPath())
		scope.SetTag("method", c.Request.Method)

		if claims, ok := jwt.GetUserPayload(c); ok {
			scope.SetUser(sentry.User{
				ID:       strconv.FormatUint(uint64(claims.UserID), 10),
				Username: claims.Name,
				Data:     map[string]string{"role": claims.Role},
			})
		}

		hub.CaptureException(err)
	})
}

// shouldReport 只上报 5xx，错误码前三位是 HTTP 状态码
func shouldReport(err error) bool {
	if e, ok := err.(CodedError); ok {
		status := e.GetCode() / 100
		return status >= 500 && status < 600
	}
	return true
}

// Flush 在程序退出前调用
func Flush(timeout time.Duration) {
	sentry.Flush(timeout)
}
