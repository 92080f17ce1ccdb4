package activity

import (
	"context"
	"errors"
	"strings"

	appctx "activity-portal/internal/global/context"
	"activity-portal/internal/global/database"
	"activity-portal/internal/global/response"
	"activity-portal/internal/global/sentry/tracing"
	"activity-portal/internal/global/validator"
	"activity-portal/internal/model"
	"activity-portal/tools"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

var (
	errActivityNotFound  = response.ErrNotFound.WithMessage("Actividad no encontrada.")
	errCategoryMissing   = response.ErrInvalidRequest.WithMessage("La categoría seleccionada no existe.")
	errOrganizerMissing  = response.ErrInvalidRequest.WithMessage("El organizador seleccionado no existe.")
	errDeadlineAfterDate = response.ErrInvalidRequest.WithMessage("La fecha límite de inscripción no puede ser posterior a la fecha de la actividad.")
	errDateRequired      = response.ErrInvalidRequest.WithMessage("La fecha y la fecha límite de inscripción son requeridas.")
)

type createReq struct {
	Title                string     `json:"title" binding:"required,min=3,max=80"`
	CategoryID           uint       `json:"categoryId" binding:"required,min=1"`
	OrganizerID          uint       `json:"organizerId" binding:"required,min=1"`
	Date                 model.Date `json:"date"`
	RegistrationDeadline model.Date `json:"registrationDeadline"`
	TimeRange            string     `json:"timeRange" binding:"required,timerange"`
	Location             string     `json:"location" binding:"required,min=3,max=200"`
	Capacity             int        `json:"capacity" binding:"required,min=10,max=500"`
	Description          string     `json:"description" binding:"required,min=10,max=2000"`
	PhotoURL             *string    `json:"photoUrl" binding:"omitempty,url"`
	Active               *bool      `json:"active"`
}

// updateReq 只更新非空字段
type updateReq struct {
	Title                *string     `json:"title" binding:"omitempty,min=3,max=80"`
	CategoryID           *uint       `json:"categoryId" binding:"omitempty,min=1"`
	OrganizerID          *uint       `json:"organizerId" binding:"omitempty,min=1"`
	Date                 *model.Date `json:"date"`
	RegistrationDeadline *model.Date `json:"registrationDeadline"`
	TimeRange            *string     `json:"timeRange" binding:"omitempty,timerange"`
	Location             *string     `json:"location" binding:"omitempty,min=3,max=200"`
	Capacity             *int        `json:"capacity" binding:"omitempty,min=10,max=500"`
	Description          *string     `json:"description" binding:"omitempty,min=10,max=2000"`
	PhotoURL             *string     `json:"photoUrl" binding:"omitempty,url"`
	Active               *bool       `json:"active"`
}

func CreateActivity(c *gin.Context) {
	actor, ok := appctx.MustActor(c)
	if !ok {
		return
	}
	var req createReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithMessage(validator.Describe(err)))
		return
	}
	if req.Date.IsZero() || req.RegistrationDeadline.IsZero() {
		response.Fail(c, errDateRequired)
		return
	}
	if req.RegistrationDeadline.After(req.Date) {
		response.Fail(c, errDeadlineAfterDate)
		return
	}
	if !manages(actor, req.OrganizerID) {
		response.Fail(c, response.ErrForbidden)
		return
	}
	ctx := tracing.ContextWithSpan(c)
	if err := checkReferences(ctx, &req.CategoryID, &req.OrganizerID); err != nil {
		response.Fail(c, err)
		return
	}

	start, end, _ := tools.ParseTimeRange(req.TimeRange)
	description := req.Description
	activity := model.Activity{
		Title:                strings.TrimSpace(req.Title),
		CategoryID:           req.CategoryID,
		OrganizerID:          req.OrganizerID,
		Date:                 req.Date,
		RegistrationDeadline: req.RegistrationDeadline,
		StartTime:            start,
		EndTime:              end,
		Location:             req.Location,
		Capacity:             req.Capacity,
		Description:          &description,
		PhotoURL:             req.PhotoURL,
		Active:               req.Active == nil || *req.Active,
	}
	if err := database.DB.WithContext(ctx).Create(&activity).Error; err != nil {
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	invalidate(ctx)

	log.Info("活动创建成功", "id", activity.ID, "title", activity.Title, "organizer_id", activity.OrganizerID)
	response.SuccessWithMessage(c, "Actividad creada correctamente", activity)
}

func UpdateActivity(c *gin.Context) {
	actor, ok := appctx.MustActor(c)
	if !ok {
		return
	}
	id, ok := appctx.ParamID(c, "id")
	if !ok {
		return
	}
	var req updateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithMessage(validator.Describe(err)))
		return
	}
	ctx := tracing.ContextWithSpan(c)

	activity, err := findActivity(ctx, id)
	if err != nil {
		response.Fail(c, err)
		return
	}
	if !manages(actor, activity.OrganizerID) || (req.OrganizerID != nil && !manages(actor, *req.OrganizerID)) {
		response.Fail(c, response.ErrForbidden)
		return
	}
	if err := checkReferences(ctx, req.CategoryID, req.OrganizerID); err != nil {
		response.Fail(c, err)
		return
	}
	if err := req.applyTo(activity); err != nil {
		response.Fail(c, err)
		return
	}

	if err := database.DB.WithContext(ctx).Save(activity).Error; err != nil {
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	invalidate(ctx)

	v, err := findView(ctx, id)
	if err != nil {
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	log.Info("活动更新成功", "id", id)
	response.SuccessWithMessage(c, "Actividad actualizada correctamente", v)
}

func (req *updateReq) applyTo(a *model.Activity) error {
	if req.Title != nil && strings.TrimSpace(*req.Title) != "" {
		a.Title = strings.TrimSpace(*req.Title)
	}
	if req.CategoryID != nil {
		a.CategoryID = *req.CategoryID
	}
	if req.OrganizerID != nil {
		a.OrganizerID = *req.OrganizerID
	}
	if req.Date != nil && !req.Date.IsZero() {
		a.Date = *req.Date
	}
	if req.RegistrationDeadline != nil && !req.RegistrationDeadline.IsZero() {
		a.RegistrationDeadline = *req.RegistrationDeadline
	}
	if a.RegistrationDeadline.After(a.Date) {
		return errDeadlineAfterDate
	}
	if req.TimeRange != nil {
		a.StartTime, a.EndTime, _ = tools.ParseTimeRange(*req.TimeRange)
	}
	if req.Location != nil {
		a.Location = *req.Location
	}
	if req.Capacity != nil {
		a.Capacity = *req.Capacity
	}
	if req.Description != nil && strings.TrimSpace(*req.Description) != "" {
		a.Description = req.Description
	}
	if req.PhotoURL != nil && *req.PhotoURL != "" {
		a.PhotoURL = req.PhotoURL
	}
	if req.Active != nil {
		a.Active = *req.Active
	}
	return nil
}

// SetActive 启用或停用活动
func SetActive(active bool) gin.HandlerFunc {
	msg := "Actividad eliminada correctamente"
	if active {
		msg = "Actividad activada correctamente"
	}
	return func(c *gin.Context) {
		actor, ok := appctx.MustActor(c)
		if !ok {
			return
		}
		id, ok := appctx.ParamID(c, "id")
		if !ok {
			return
		}
		ctx := tracing.ContextWithSpan(c)

		activity, err := findActivity(ctx, id)
		if err != nil {
			response.Fail(c, err)
			return
		}
		if !manages(actor, activity.OrganizerID) {
			response.Fail(c, response.ErrForbidden)
			return
		}
		if err := database.DB.WithContext(ctx).Model(activity).Update("active", active).Error; err != nil {
			response.Fail(c, response.ErrDatabase.WithOrigin(err))
			return
		}
		invalidate(ctx)

		log.Info("活动状态已修改", "id", id, "active", active)
		response.SuccessWithMessage(c, msg)
	}
}

// manages 管理员可管理任意活动，组织者只能管理自己的
func manages(actor appctx.Actor, organizerID uint) bool {
	if actor.IsAdmin() {
		return true
	}
	return actor.IsOrganizer() && actor.UserID == organizerID
}

func findActivity(ctx context.Context, id uint) (*model.Activity, error) {
	var a model.Activity
	err := database.DB.WithContext(ctx).First(&a, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errActivityNotFound
	}
	if err != nil {
		return nil, response.ErrDatabase.WithOrigin(err)
	}
	return &a, nil
}

// checkReferences 校验分类与组织者存在，nil 表示不检查
func checkReferences(ctx context.Context, categoryID, organizerID *uint) error {
	db := database.DB.WithContext(ctx)
	if categoryID != nil {
		var n int64
		if err := db.Model(&model.Category{}).Where("id = ?", *categoryID).Count(&n).Error; err != nil {
			return response.ErrDatabase.WithOrigin(err)
		}
		if n == 0 {
			return errCategoryMissing
		}
	}
	if organizerID != nil {
		var n int64
		if err := db.Model(&model.Organizer{}).Where("user_id = ?", *organizerID).Count(&n).Error; err != nil {
			return response.ErrDatabase.WithOrigin(err)
		}
		if n == 0 {
			return errOrganizerMissing
		}
	}
	return nil
}

func invalidate(ctx context.Context) {
	store.Invalidate(ctx, activeKey, availableKey(today()))
}
