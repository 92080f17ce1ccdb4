package enrollment

import (
	"activity-portal/internal/global/jwt"
	"activity-portal/internal/global/middleware"

	"github.com/gin-gonic/gin"
)

func (m *ModuleEnrollment) InitRouter(r *gin.RouterGroup) {
	m.handler.Register(r)
}

// Register 挂载 /Enrollments 路由
func (h *Handler) Register(r *gin.RouterGroup) {
	g := r.Group("/Enrollments")

	adminOrStudent := middleware.Auth(jwt.RoleAdmin, jwt.RoleStudent)
	admin := middleware.Auth(jwt.RoleAdmin)

	g.GET("", admin, h.List)
	g.GET("/search", admin, h.Search)
	g.GET("/student/:studentId/enrollments", adminOrStudent, h.ListByStudent)
	g.GET("/activity/:activityId/export", middleware.Auth(jwt.RoleAdmin, jwt.RoleOrganizer), h.Export)
	g.GET("/:id", adminOrStudent, h.Get)
	g.POST("", adminOrStudent, h.Create)
	g.PUT("/deactivate/:id", adminOrStudent, h.Deactivate)
	g.PUT("/:id", adminOrStudent, h.Update)
}
