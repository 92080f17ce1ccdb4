package httpclient

import (
	"time"

	"activity-portal/internal/global/sentry/tracing"

	"github.com/go-resty/resty/v2"
)

var Client *resty.Client

func Init() {
	Client = New()
}

// New 创建带超时与重试的客户端，启用 Sentry 时附加追踪
func New() *resty.Client {
	client := resty.New().
		SetTimeout(5 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(200 * time.Millisecond)

	if tracing.IsEnabled() {
		tracing.SetupRestyTracing(client)
	}
	return client
}
