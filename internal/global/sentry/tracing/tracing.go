// Package tracing 把 GORM、Redis 与 Resty 的调用挂到当前请求的 Sentry transaction 下
package tracing

import (
	"context"

	"activity-portal/config"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
)

func IsEnabled() bool {
	return config.Get().Sentry.Dsn != ""
}

// ContextWithSpan 返回携带 sentrygin span 的 context，传给 GORM/Redis/Resty
func ContextWithSpan(c *gin.Context) context.Context {
	if c == nil || c.Request == nil {
		return context.Background()
	}
	return c.Request.Context()
}

// StartSpan 在 ctx 当前 span 下开启子 span，没有父 span 时返回 nil
func StartSpan(ctx context.Context, operation, description string) *sentry.Span {
	parent := sentry.SpanFromContext(ctx)
	if parent == nil {
		return nil
	}
	span := parent.StartChild(operation)
	span.Description = description
	return span
}

// FinishSpan 允许 span 为 nil
func FinishSpan(span *sentry.Span, err error) {
	if span == nil {
		return
	}
	if err != nil {
		span.Status = sentry.SpanStatusInternalError
		span.SetData("error", err.Error())
	} else {
		span.Status = sentry.SpanStatusOK
	}
	span.Finish()
}
