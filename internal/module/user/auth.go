package user

import (
	"errors"

	"activity-portal/internal/global/database"
	"activity-portal/internal/global/jwt"
	"activity-portal/internal/global/logger"
	"activity-portal/internal/global/response"
	"activity-portal/internal/global/sentry/tracing"
	"activity-portal/internal/global/validator"
	"activity-portal/internal/model"
	"activity-portal/tools"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type loginReq struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type registerStudentReq struct {
	Name      string  `json:"name" binding:"required,min=3,max=50,personname"`
	Email     string  `json:"email" binding:"required,email"`
	Password  string  `json:"password" binding:"required,min=6,max=100"`
	Phone     *string `json:"phone" binding:"omitempty,phone"`
	FacultyID uint    `json:"facultyId" binding:"required"`
	CareerID  uint    `json:"careerId" binding:"required"`
	Semester  int     `json:"semester" binding:"required,min=1,max=10"`
	Modality  string  `json:"modality" binding:"required,modality"`
	Schedule  string  `json:"schedule" binding:"required,schedule"`
}

type registerOrganizerReq struct {
	Name       string  `json:"name" binding:"required,min=3,max=50,personname"`
	Email      string  `json:"email" binding:"required,email"`
	Password   string  `json:"password" binding:"required,min=6,max=100"`
	Phone      *string `json:"phone" binding:"omitempty,phone"`
	Department string  `json:"department" binding:"required,min=2,max=50"`
	Position   string  `json:"position" binding:"required,min=3,max=50"`
	Bio        string  `json:"bio" binding:"required,min=10,max=300"`
}

// Login 邮箱加密码登录，返回 JWT
func Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithMessage(validator.Describe(err)))
		return
	}

	var user model.User
	err := database.DB.WithContext(tracing.ContextWithSpan(c)).Where("email = ?", req.Email).First(&user).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		log.Warn("用户不存在", "email", req.Email)
		response.Fail(c, response.ErrInvalidPassword.WithMessage("El usuario no existe"))
		return
	case err != nil:
		log.Error("数据库查询失败", "error", err, "email", req.Email)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	if !tools.PasswordCompare(user.Password, req.Password) {
		log.Warn("密码错误", "user_id", user.ID)
		response.Fail(c, response.ErrInvalidPassword)
		return
	}
	if !user.Active {
		log.Warn("停用用户尝试登录", "user_id", user.ID)
		response.Fail(c, response.ErrInvalidPassword.WithMessage("Usuario inactivo. Contacte al administrador."))
		return
	}

	token, err := jwt.CreateToken(jwt.Payload{UserID: user.ID, Name: user.Name, Role: user.Role})
	if err != nil {
		response.Fail(c, response.ErrServerInternal.WithOrigin(err))
		return
	}

	logger.WithRequest(log, c, user.ID).Info("用户登录成功", "role", user.Role)
	response.Success(c, gin.H{
		"token":  token,
		"userId": user.ID,
		"name":   user.Name,
		"role":   user.Role,
	})
}

func RegisterStudent(c *gin.Context) {
	var req registerStudentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithMessage(validator.Describe(err)))
		return
	}
	ctx := tracing.ContextWithSpan(c)

	if err := checkUnique(ctx, database.DB, req.Name, req.Email, 0); err != nil {
		response.Fail(c, err)
		return
	}
	if err := careerExists(ctx, req.CareerID); err != nil {
		response.Fail(c, err)
		return
	}

	user := &model.User{Name: req.Name, Email: req.Email, Phone: req.Phone, Role: model.RoleStudent}
	err := createAccount(ctx, user, req.Password, func(id uint) any {
		return &model.Student{
			UserID:   id,
			CareerID: &req.CareerID,
			Semester: &req.Semester,
			Modality: &req.Modality,
			Schedule: &req.Schedule,
		}
	})
	if err != nil {
		log.Error("学生注册失败", "error", err, "email", req.Email)
		response.Fail(c, err)
		return
	}

	log.Info("学生注册成功", "user_id", user.ID)
	response.SuccessWithMessage(c, "Registro de estudiante exitoso")
}

func RegisterOrganizer(c *gin.Context) {
	var req registerOrganizerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithMessage(validator.Describe(err)))
		return
	}
	ctx := tracing.ContextWithSpan(c)

	if err := checkUnique(ctx, database.DB, req.Name, req.Email, 0); err != nil {
		response.Fail(c, err)
		return
	}

	user := &model.User{Name: req.Name, Email: req.Email, Phone: req.Phone, Role: model.RoleOrganizer}
	err := createAccount(ctx, user, req.Password, func(id uint) any {
		return &model.Organizer{
			UserID:     id,
			Department: &req.Department,
			Position:   &req.Position,
			Bio:        &req.Bio,
		}
	})
	if err != nil {
		log.Error("组织者注册失败", "error", err, "email", req.Email)
		response.Fail(c, err)
		return
	}

	log.Info("组织者注册成功", "user_id", user.ID)
	response.SuccessWithMessage(c, "Registro de organizador exitoso")
}
