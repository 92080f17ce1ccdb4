package module

import (
	"activity-portal/internal/module/activity"
	"activity-portal/internal/module/catalog"
	"activity-portal/internal/module/dashboard"
	"activity-portal/internal/module/enrollment"
	"activity-portal/internal/module/ping"
	"activity-portal/internal/module/rating"
	"activity-portal/internal/module/user"

	"github.com/gin-gonic/gin"
)

type Module interface {
	GetName() string
	Init()
	InitRouter(r *gin.RouterGroup)
}

var Modules []Module

func registerModule(m []Module) {
	Modules = append(Modules, m...)
}

func init() {
	// Register your module here
	registerModule([]Module{
		&user.ModuleUser{},
		&ping.ModulePing{},
		&catalog.ModuleCatalog{},
		&activity.ModuleActivity{},
		&enrollment.ModuleEnrollment{},
		&rating.ModuleRating{},
		&dashboard.ModuleDashboard{},
	})
}
