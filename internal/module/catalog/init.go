package catalog

import (
	"log/slog"

	"activity-portal/internal/global/cache"
	"activity-portal/internal/global/logger"
)

var (
	log   *slog.Logger
	store *cache.Cache
)

type ModuleCatalog struct{}

func (m *ModuleCatalog) GetName() string {
	return "Catalog"
}

func (m *ModuleCatalog) Init() {
	log = logger.New("Catalog")
	store = cache.New(cache.Client, "catalog")
}
