// Package rating 学生对活动的评分，每个学生对同一活动只能评一次
package rating

import (
	"activity-portal/internal/global/jwt"
	"activity-portal/internal/global/middleware"

	"github.com/gin-gonic/gin"
)

func (*ModuleRating) InitRouter(r *gin.RouterGroup) {
	ratings := r.Group("/Ratings")
	admin := middleware.Auth(jwt.RoleAdmin)
	owner := middleware.Auth(jwt.RoleAdmin, jwt.RoleStudent)

	ratings.GET("/activity/:activityId/ratings", ListByActivity)

	ratings.GET("", admin, ListRatings)
	ratings.GET("/search", admin, SearchRatings)
	ratings.GET("/student/:studentId/ratings", owner, ListByStudent)
	ratings.GET("/:id", owner, GetRating)
	ratings.POST("", middleware.Auth(jwt.RoleStudent), CreateRating)
	ratings.DELETE("/:id", owner, DeleteRating)
}
