package dashboard

import (
	"activity-portal/internal/global/jwt"
	"activity-portal/internal/global/middleware"

	"github.com/gin-gonic/gin"
)

func (*ModuleDashboard) InitRouter(r *gin.RouterGroup) {
	g := r.Group("/dashboard", middleware.Auth(jwt.RoleAdmin))
	{
		g.GET("/totals", Totals)
		g.GET("/activities-by-category", ActivitiesByCategory)
		g.GET("/top-ratings", TopRatings)
	}
}
