package enrollment

import (
	"log/slog"

	"activity-portal/config"
	"activity-portal/internal/global/database"
	"activity-portal/internal/global/httpclient"
	"activity-portal/internal/global/logger"

	"github.com/prometheus/client_golang/prometheus"
)

var log *slog.Logger

type ModuleEnrollment struct {
	handler *Handler
}

func (m *ModuleEnrollment) GetName() string {
	return "Enrollment"
}

func (m *ModuleEnrollment) Init() {
	log = logger.New("Enrollment")
	prometheus.MustRegister(transitions, rejections)

	var sink EventSink = nopSink{}
	if cfg := config.Get().Notify; cfg.WebhookURL != "" {
		sink = newWebhookSink(httpclient.NewWebhookNotifier(httpclient.Client, cfg.WebhookURL, cfg.Secret), log)
		log.Info("报名事件推送已启用", "url", cfg.WebhookURL)
	}

	store := NewStore(database.DB)
	m.handler = NewHandler(NewLifecycle(store, sink), store)
}
