package catalog

import (
	"activity-portal/internal/global/jwt"
	"activity-portal/internal/global/middleware"

	"github.com/gin-gonic/gin"
)

func (m *ModuleCatalog) InitRouter(r *gin.RouterGroup) {
	r.GET("/Faculties", ListFaculties)

	categories := r.Group("/Categories")
	admin := middleware.Auth(jwt.RoleAdmin)
	{
		categories.GET("", middleware.Auth(), ListCategories)
		categories.GET("/search", admin, SearchCategories)
		categories.GET("/:id", middleware.Auth(), GetCategory)
		categories.POST("", admin, CreateCategory)
		categories.PUT("/:id", admin, UpdateCategory)
		categories.PUT("/deactivate/:id", admin, DeactivateCategory)
	}
}
