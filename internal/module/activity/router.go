package activity

import (
	"activity-portal/internal/global/jwt"
	"activity-portal/internal/global/middleware"

	"github.com/gin-gonic/gin"
)

func (m *ModuleActivity) InitRouter(r *gin.RouterGroup) {
	activities := r.Group("/Activities")
	staff := middleware.Auth(jwt.RoleAdmin, jwt.RoleOrganizer)
	admin := middleware.Auth(jwt.RoleAdmin)

	// 公开
	activities.GET("/active", ListActive)
	activities.GET("/available", ListAvailable)
	activities.GET("/search/public", SearchPublic)

	activities.GET("", admin, ListActivities)
	activities.GET("/search", admin, SearchActivities)
	activities.GET("/organizer/:organizerId/month/:year/:month", staff, ListByOrganizerMonth)
	activities.GET("/:id", GetActivity)

	activities.POST("", staff, CreateActivity)
	activities.PUT("/:id", staff, UpdateActivity)
	activities.PUT("/deactivate/:id", staff, SetActive(false))
	activities.PUT("/activate/:id", staff, SetActive(true))

	photo := activities.Group("/photo", staff)
	{
		photo.POST("/presign", PresignPhoto)
		photo.POST("", UploadPhoto)
	}
}
