package tracing

import (
	"net/url"

	"activity-portal/config"

	"github.com/getsentry/sentry-go"
	"github.com/go-resty/resty/v2"
)

// SetupRestyTracing 为出站请求创建 span 并透传 sentry-trace 头
func SetupRestyTracing(client *resty.Client) {
	if !config.Get().Sentry.Tracing.TraceHTTPCalls {
		return
	}

	client.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		target := sanitizeURL(req.URL)
		span := StartSpan(req.Context(), "http.client", req.Method+" "+target)
		if span == nil {
			return nil
		}
		span.SetData("http.request.method", req.Method)
		span.SetData("url.full", target)
		req.SetHeader("sentry-trace", span.ToSentryTrace())
		if baggage := span.ToBaggage(); baggage != "" {
			req.SetHeader("baggage", baggage)
		}
		req.SetContext(span.Context())
		return nil
	})

	client.OnAfterResponse(func(_ *resty.Client, resp *resty.Response) error {
		span := sentry.SpanFromContext(resp.Request.Context())
		if span == nil {
			return nil
		}
		span.SetData("http.response.status_code", resp.StatusCode())
		if resp.StatusCode() >= 400 {
			span.Status = sentry.HTTPtoSpanStatus(resp.StatusCode())
		} else {
			span.Status = sentry.SpanStatusOK
		}
		span.Finish()
		return nil
	})

	client.OnError(func(req *resty.Request, err error) {
		if req == nil {
			return
		}
		FinishSpan(sentry.SpanFromContext(req.Context()), err)
	})
}

// sanitizeURL 只保留 scheme://host/path，去掉可能带 token 的查询参数
func sanitizeURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil || rawURL == "" {
		return "unknown"
	}
	result := ""
	if parsed.Scheme != "" {
		result = parsed.Scheme + "://"
	}
	result += parsed.Host + parsed.Path
	if result == "" {
		return "unknown"
	}
	return result
}
