package user

import (
	"activity-portal/internal/global/jwt"
	"activity-portal/internal/global/middleware"

	"github.com/gin-gonic/gin"
)

// InitRouter 挂载登录注册、用户、学生、组织者与个人资料路由
func (u *ModuleUser) InitRouter(r *gin.RouterGroup) {
	auth := r.Group("/Auth")
	{
		auth.POST("/login", Login)
		auth.POST("/register/student", RegisterStudent)
		auth.POST("/register/organizer", RegisterOrganizer)
	}

	admin := middleware.Auth(jwt.RoleAdmin)

	users := r.Group("/Users", admin)
	{
		users.GET("", ListUsers)
		users.GET("/search", SearchUsers)
		users.GET("/:id", GetUser)
		users.POST("", CreateUser)
		users.PUT("/:id", UpdateUser)
		users.POST("/:id/reset-password", ResetPassword(""))
		users.PUT("/deactivate/:id", DeactivateUser)
	}

	students := r.Group("/Students", admin)
	{
		students.GET("", ListStudents)
		students.GET("/search", SearchStudents)
		students.GET("/:id", GetStudent)
		students.POST("", CreateStudent)
		students.PUT("/:id", UpdateStudent)
		students.POST("/:id/reset-password", ResetPassword(jwt.RoleStudent))
		students.PUT("/deactivate/:id", DeactivateStudent)
	}

	organizers := r.Group("/Organizers", admin)
	{
		organizers.GET("", ListOrganizers)
		organizers.GET("/search", SearchOrganizers)
		organizers.GET("/:id", GetOrganizer)
		organizers.POST("", CreateOrganizer)
		organizers.PUT("/:id", UpdateOrganizer)
		organizers.POST("/:id/reset-password", ResetPassword(jwt.RoleOrganizer))
		organizers.PUT("/deactivate/:id", DeactivateOrganizer)
	}

	profile := r.Group("/Profile")
	{
		profile.GET("/student", middleware.Auth(jwt.RoleStudent), GetStudentProfile)
		profile.PUT("/student", middleware.Auth(jwt.RoleStudent), UpdateStudentProfile)
		profile.GET("/organizer", middleware.Auth(jwt.RoleOrganizer), GetOrganizerProfile)
		profile.PUT("/organizer", middleware.Auth(jwt.RoleOrganizer), UpdateOrganizerProfile)
	}
}
