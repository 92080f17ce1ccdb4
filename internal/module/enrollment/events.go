package enrollment

import (
	"context"
	"log/slog"
	"time"

	"activity-portal/internal/global/httpclient"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	transitionCreated       = "created"
	transitionReactivated   = "reactivated"
	transitionStatusChanged = "status_changed"
	transitionCancelled     = "cancelled"
)

var (
	transitions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "activity_portal",
		Subsystem: "enrollment",
		Name:      "transitions_total",
		Help:      "Enrollment state transitions.",
	}, []string{"transition"})

	rejections = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "activity_portal",
		Subsystem: "enrollment",
		Name:      "rejections_total",
		Help:      "Enrollment requests rejected by lifecycle rules.",
	}, []string{"reason"})
)

// EventSink 接收报名状态变化
type EventSink interface {
	Publish(ctx context.Context, transition string, view *View)
}

type nopSink struct{}

func (nopSink) Publish(context.Context, string, *View) {}

// webhookSink 异步推送，推送失败只记录日志
type webhookSink struct {
	notifier httpclient.Notifier
	log      *slog.Logger
	timeout  time.Duration
}

func newWebhookSink(n httpclient.Notifier, log *slog.Logger) *webhookSink {
	return &webhookSink{notifier: n, log: log, timeout: 5 * time.Second}
}

func (s *webhookSink) Publish(ctx context.Context, transition string, view *View) {
	event := httpclient.Event{
		Type:       "enrollment." + transition,
		OccurredAt: time.Now(),
		Data:       *view,
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
		defer cancel()
		if err := s.notifier.Notify(ctx, event); err != nil {
			s.log.Warn("报名事件推送失败", "event", event.Type, "enrollment_id", view.ID, "error", err)
		}
	}()
}
