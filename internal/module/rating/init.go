package rating

import (
	"log/slog"
	"time"

	"activity-portal/internal/global/logger"
)

var (
	log *slog.Logger
	now = time.Now
)

type ModuleRating struct{}

func (*ModuleRating) GetName() string {
	return "Rating"
}

func (*ModuleRating) Init() {
	log = logger.New("Rating")
}
