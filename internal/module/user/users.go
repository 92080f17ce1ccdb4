package user

import (
	appctx "activity-portal/internal/global/context"
	"activity-portal/internal/global/database"
	"activity-portal/internal/global/response"
	"activity-portal/internal/global/sentry/tracing"
	"activity-portal/internal/global/validator"
	"activity-portal/internal/model"
	"activity-portal/tools"

	"github.com/gin-gonic/gin"
)

type userCreateReq struct {
	Name     string  `json:"name" binding:"required,min=3,max=50,personname"`
	Email    string  `json:"email" binding:"required,email"`
	Phone    *string `json:"phone" binding:"omitempty,phone"`
	PhotoURL *string `json:"photoUrl"`
	Role     string  `json:"role" binding:"required,role"`
}

type userUpdateReq struct {
	Name     string  `json:"name" binding:"required,min=3,max=50,personname"`
	Email    string  `json:"email" binding:"required,email"`
	Phone    *string `json:"phone" binding:"omitempty,phone"`
	PhotoURL *string `json:"photoUrl"`
	Active   *bool   `json:"active"`
}

// ListUsers 启用的用户在前
func ListUsers(c *gin.Context) {
	var users []model.User
	err := database.DB.WithContext(tracing.ContextWithSpan(c)).
		Order("active DESC, id").
		Find(&users).Error
	if err != nil {
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	response.Success(c, users)
}

func GetUser(c *gin.Context) {
	id, ok := appctx.ParamID(c, "id")
	if !ok {
		return
	}
	user, err := findUser(tracing.ContextWithSpan(c), id, "Usuario no encontrado.")
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, user)
}

// CreateUser 只创建账号，不带学生或组织者资料
func CreateUser(c *gin.Context) {
	var req userCreateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithMessage(validator.Describe(err)))
		return
	}
	ctx := tracing.ContextWithSpan(c)
	if err := checkUnique(ctx, database.DB, req.Name, req.Email, 0); err != nil {
		response.Fail(c, err)
		return
	}

	password := defaultPassword(req.Name)
	user := &model.User{Name: req.Name, Email: req.Email, Phone: req.Phone, PhotoURL: req.PhotoURL, Role: req.Role}
	if err := createAccount(ctx, user, password, nil); err != nil {
		log.Error("创建用户失败", "error", err, "email", req.Email)
		response.Fail(c, err)
		return
	}

	log.Info("创建用户成功", "user_id", user.ID, "role", user.Role)
	response.SuccessWithMessage(c, "Usuario creado correctamente", gin.H{
		"id":              user.ID,
		"defaultPassword": password,
	})
}

func UpdateUser(c *gin.Context) {
	id, ok := appctx.ParamID(c, "id")
	if !ok {
		return
	}
	var req userUpdateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithMessage(validator.Describe(err)))
		return
	}
	ctx := tracing.ContextWithSpan(c)

	user, err := findUser(ctx, id, "Usuario no encontrado.")
	if err != nil {
		response.Fail(c, err)
		return
	}
	if err := checkUnique(ctx, database.DB, req.Name, req.Email, id); err != nil {
		response.Fail(c, err)
		return
	}

	user.Name = req.Name
	user.Email = req.Email
	user.Phone = req.Phone
	user.PhotoURL = req.PhotoURL
	if req.Active != nil {
		user.Active = *req.Active
	}
	if err := saveUser(ctx, user, nil); err != nil {
		response.Fail(c, err)
		return
	}
	response.SuccessWithMessage(c, "Usuario actualizado correctamente", user)
}

// ResetPassword role 非空时要求用户属于该角色
func ResetPassword(role string) gin.HandlerFunc {
	notFound := "Usuario no encontrado."
	switch role {
	case model.RoleStudent:
		notFound = "Estudiante no encontrado."
	case model.RoleOrganizer:
		notFound = "Organizador no encontrado."
	}

	return func(c *gin.Context) {
		id, ok := appctx.ParamID(c, "id")
		if !ok {
			return
		}
		ctx := tracing.ContextWithSpan(c)

		user, err := findUser(ctx, id, notFound)
		if err != nil {
			response.Fail(c, err)
			return
		}
		if role != "" && user.Role != role {
			response.Fail(c, response.ErrNotFound.WithMessage(notFound))
			return
		}

		password := temporaryPassword(user.Name)
		hash, err := tools.PasswordEncrypt(password)
		if err != nil {
			response.Fail(c, response.ErrServerInternal.WithOrigin(err))
			return
		}
		if err := database.DB.WithContext(ctx).Model(user).Update("password", hash).Error; err != nil {
			response.Fail(c, response.ErrDatabase.WithOrigin(err))
			return
		}

		log.Info("密码已重置", "user_id", user.ID)
		response.SuccessWithMessage(c, "Contraseña reseteada correctamente", gin.H{
			"temporaryPassword": password,
		})
	}
}

func DeactivateUser(c *gin.Context) {
	deactivate(c, "", "Usuario no encontrado.", "Usuario eliminado correctamente")
}

// deactivate 把用户标记为停用，role 非空时要求用户属于该角色
func deactivate(c *gin.Context, role, notFound, msg string) {
	id, ok := appctx.ParamID(c, "id")
	if !ok {
		return
	}
	ctx := tracing.ContextWithSpan(c)

	user, err := findUser(ctx, id, notFound)
	if err != nil {
		response.Fail(c, err)
		return
	}
	if role != "" && user.Role != role {
		response.Fail(c, response.ErrNotFound.WithMessage(notFound))
		return
	}
	if err := database.DB.WithContext(ctx).Model(user).Update("active", false).Error; err != nil {
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	log.Info("用户已停用", "user_id", user.ID, "role", user.Role)
	response.SuccessWithMessage(c, msg)
}

type userSearchReq struct {
	Name  string `form:"name"`
	Email string `form:"email"`
	Role  string `form:"role"`
}

func SearchUsers(c *gin.Context) {
	var req userSearchReq
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}

	query := database.DB.WithContext(tracing.ContextWithSpan(c)).Model(&model.User{})
	if req.Name != "" {
		query = query.Where("name LIKE ?", "%"+req.Name+"%")
	}
	if req.Email != "" {
		query = query.Where("email LIKE ?", "%"+req.Email+"%")
	}
	if req.Role != "" {
		query = query.Where("role = ?", req.Role)
	}

	var users []model.User
	if err := query.Order("id").Find(&users).Error; err != nil {
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	response.Success(c, users)
}
