package dashboard

import (
	"log/slog"

	"activity-portal/internal/global/cache"
	"activity-portal/internal/global/logger"
)

var (
	log   *slog.Logger
	store *cache.Cache
)

type ModuleDashboard struct{}

func (*ModuleDashboard) GetName() string {
	return "Dashboard"
}

func (*ModuleDashboard) Init() {
	log = logger.New("Dashboard")
	store = cache.New(cache.Client, "dashboard")
}
