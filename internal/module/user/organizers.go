package user

import (
	"context"
	"errors"

	appctx "activity-portal/internal/global/context"
	"activity-portal/internal/global/database"
	"activity-portal/internal/global/response"
	"activity-portal/internal/global/sentry/tracing"
	"activity-portal/internal/global/validator"
	"activity-portal/internal/model"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type OrganizerView struct {
	ID         uint    `json:"id"`
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	Phone      *string `json:"phone"`
	PhotoURL   *string `json:"photoUrl"`
	Active     bool    `json:"active"`
	Department *string `json:"department"`
	Position   *string `json:"position"`
	Bio        *string `json:"bio"`
	Shifts     *string `json:"shifts"`
	WorkDays   *string `json:"workDays"`
}

type organizerCreateReq struct {
	Name       string  `json:"name" binding:"required,min=3,max=50,personname"`
	Email      string  `json:"email" binding:"required,email"`
	Phone      *string `json:"phone" binding:"omitempty,phone"`
	PhotoURL   *string `json:"photoUrl"`
	Department string  `json:"department" binding:"required,min=2,max=50"`
	Position   string  `json:"position" binding:"required,min=3,max=50"`
	Bio        *string `json:"bio" binding:"omitempty,min=10,max=300"`
	Shifts     *string `json:"shifts" binding:"omitempty,max=100"`
	WorkDays   *string `json:"workDays" binding:"omitempty,max=100"`
}

type organizerUpdateReq struct {
	Name       string  `json:"name" binding:"required,min=3,max=50,personname"`
	Email      string  `json:"email" binding:"required,email"`
	Phone      *string `json:"phone" binding:"omitempty,phone"`
	PhotoURL   *string `json:"photoUrl"`
	Department *string `json:"department" binding:"omitempty,min=2,max=50"`
	Position   *string `json:"position" binding:"omitempty,min=3,max=50"`
	Bio        *string `json:"bio" binding:"omitempty,min=10,max=300"`
	Shifts     *string `json:"shifts" binding:"omitempty,max=100"`
	WorkDays   *string `json:"workDays" binding:"omitempty,max=100"`
	Active     *bool   `json:"active"`
}

func organizerViews(ctx context.Context) *gorm.DB {
	return database.DB.WithContext(ctx).
		Table("organizer AS o").
		Select(`u.id, u.name, u.email, u.phone, u.photo_url, u.active,
			o.department, o.position, o.bio, o.shifts, o.work_days`).
		Joins("JOIN `user` AS u ON u.id = o.user_id")
}

func findOrganizerView(ctx context.Context, id uint, notFound string) (*OrganizerView, error) {
	var v OrganizerView
	err := organizerViews(ctx).Where("o.user_id = ?", id).Take(&v).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, response.ErrNotFound.WithMessage(notFound)
	}
	if err != nil {
		return nil, response.ErrDatabase.WithOrigin(err)
	}
	return &v, nil
}

func ListOrganizers(c *gin.Context) {
	var views []OrganizerView
	if err := organizerViews(tracing.ContextWithSpan(c)).Order("u.active DESC, u.id").Scan(&views).Error; err != nil {
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	response.Success(c, views)
}

func GetOrganizer(c *gin.Context) {
	id, ok := appctx.ParamID(c, "id")
	if !ok {
		return
	}
	view, err := findOrganizerView(tracing.ContextWithSpan(c), id, "Organizador no encontrado.")
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, view)
}

func CreateOrganizer(c *gin.Context) {
	var req organizerCreateReq
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
	user := &model.User{Name: req.Name, Email: req.Email, Phone: req.Phone, PhotoURL: req.PhotoURL, Role: model.RoleOrganizer}
	err := createAccount(ctx, user, password, func(id uint) any {
		return &model.Organizer{
			UserID:     id,
			Department: &req.Department,
			Position:   &req.Position,
			Bio:        req.Bio,
			Shifts:     req.Shifts,
			WorkDays:   req.WorkDays,
		}
	})
	if err != nil {
		log.Error("创建组织者失败", "error", err, "email", req.Email)
		response.Fail(c, err)
		return
	}

	log.Info("创建组织者成功", "user_id", user.ID)
	response.SuccessWithMessage(c, "Organizador creado correctamente", gin.H{
		"id":              user.ID,
		"defaultPassword": password,
	})
}

func UpdateOrganizer(c *gin.Context) {
	id, ok := appctx.ParamID(c, "id")
	if !ok {
		return
	}
	var req organizerUpdateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithMessage(validator.Describe(err)))
		return
	}
	if err := updateOrganizer(tracing.ContextWithSpan(c), id, req, "Organizador no encontrado."); err != nil {
		response.Fail(c, err)
		return
	}
	response.SuccessWithMessage(c, "Organizador actualizado correctamente")
}

func updateOrganizer(ctx context.Context, id uint, req organizerUpdateReq, notFound string) error {
	var organizer model.Organizer
	err := database.DB.WithContext(ctx).Where("user_id = ?", id).First(&organizer).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return response.ErrNotFound.WithMessage(notFound)
	}
	if err != nil {
		return response.ErrDatabase.WithOrigin(err)
	}
	user, err := findUser(ctx, id, notFound)
	if err != nil {
		return err
	}
	if err := checkUnique(ctx, database.DB, req.Name, req.Email, id); err != nil {
		return err
	}

	user.Name = req.Name
	user.Email = req.Email
	if !blank(req.Phone) {
		user.Phone = req.Phone
	}
	if !blank(req.PhotoURL) {
		user.PhotoURL = req.PhotoURL
	}
	if req.Active != nil {
		user.Active = *req.Active
	}
	for dst, src := range map[**string]*string{
		&organizer.Department: req.Department,
		&organizer.Position:   req.Position,
		&organizer.Bio:        req.Bio,
		&organizer.Shifts:     req.Shifts,
		&organizer.WorkDays:   req.WorkDays,
	} {
		if src != nil {
			*dst = src
		}
	}
	return saveUser(ctx, user, &organizer)
}

func DeactivateOrganizer(c *gin.Context) {
	deactivate(c, model.RoleOrganizer, "Organizador no encontrado.", "Organizador desactivado correctamente")
}

type organizerSearchReq struct {
	Name       string `form:"name"`
	Email      string `form:"email"`
	Department string `form:"department"`
	Position   string `form:"position"`
	Shift      string `form:"shift"`
}

// SearchOrganizers 只返回启用的组织者
func SearchOrganizers(c *gin.Context) {
	var req organizerSearchReq
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}

	query := organizerViews(tracing.ContextWithSpan(c)).Where("u.active = ?", true)
	for _, f := range [][2]string{
		{"u.name", req.Name},
		{"u.email", req.Email},
		{"o.department", req.Department},
		{"o.position", req.Position},
		{"o.shifts", req.Shift},
	} {
		if f[1] != "" {
			query = query.Where(f[0]+" LIKE ?", "%"+f[1]+"%")
		}
	}

	var views []OrganizerView
	if err := query.Order("u.id").Scan(&views).Error; err != nil {
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	response.Success(c, views)
}
