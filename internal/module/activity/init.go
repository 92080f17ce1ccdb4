package activity

import (
	"log/slog"
	"time"

	"activity-portal/config"
	"activity-portal/internal/global/cache"
	"activity-portal/internal/global/logger"
	"activity-portal/internal/global/pictureBed"
)

var (
	log   *slog.Logger
	store *cache.Cache
	bed   *pictureBed.PictureBed
	now   = time.Now
)

type ModuleActivity struct{}

func (m *ModuleActivity) GetName() string {
	return "Activity"
}

func (m *ModuleActivity) Init() {
	log = logger.New("Activity")
	store = cache.New(cache.Client, "activity")
	bed = pictureBed.New(config.Get().S3)
}
