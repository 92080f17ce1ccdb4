package catalog

import (
	"context"
	"errors"
	"strings"

	"activity-portal/internal/global/cache"
	appctx "activity-portal/internal/global/context"
	"activity-portal/internal/global/database"
	"activity-portal/internal/global/response"
	"activity-portal/internal/global/sentry/tracing"
	"activity-portal/internal/global/validator"
	"activity-portal/internal/model"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const categoriesKey = "categories"

type categoryReq struct {
	Name   string `json:"name" binding:"required,min=3,max=50,categoryname"`
	Active *bool  `json:"active"`
}

// ListCategories 启用的分类在前
func ListCategories(c *gin.Context) {
	ctx := tracing.ContextWithSpan(c)
	var categories []model.Category
	err := store.Remember(ctx, categoriesKey, cache.TTL(), &categories, func() (any, error) {
		var rows []model.Category
		err := database.DB.WithContext(ctx).Order("active DESC, id").Find(&rows).Error
		return rows, err
	})
	if err != nil {
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	response.Success(c, categories)
}

func GetCategory(c *gin.Context) {
	id, ok := appctx.ParamID(c, "id")
	if !ok {
		return
	}
	category, err := findCategory(tracing.ContextWithSpan(c), id)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, category)
}

func findCategory(ctx context.Context, id uint) (*model.Category, error) {
	var category model.Category
	err := database.DB.WithContext(ctx).First(&category, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, response.ErrNotFound.WithMessage("Categoría no encontrada.")
	}
	if err != nil {
		return nil, response.ErrDatabase.WithOrigin(err)
	}
	return &category, nil
}

// nameTaken 名称不区分大小写唯一
func nameTaken(ctx context.Context, name string, exceptID uint) (bool, error) {
	var n int64
	q := database.DB.WithContext(ctx).Model(&model.Category{}).Where("LOWER(name) = ?", strings.ToLower(name))
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	err := q.Count(&n).Error
	return n > 0, err
}

func CreateCategory(c *gin.Context) {
	var req categoryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithMessage(validator.Describe(err)))
		return
	}
	ctx := tracing.ContextWithSpan(c)

	taken, err := nameTaken(ctx, req.Name, 0)
	if err != nil {
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	if taken {
		response.Fail(c, response.ErrInvalidRequest.WithMessage("Ya existe otra categoría con ese nombre."))
		return
	}

	category := model.Category{Name: req.Name, Active: req.Active == nil || *req.Active}
	if err := database.DB.WithContext(ctx).Create(&category).Error; err != nil {
		if database.IsDuplicateKey(err) {
			response.Fail(c, response.ErrAlreadyExists.WithMessage("Ya existe otra categoría con ese nombre."))
			return
		}
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	store.Invalidate(ctx, categoriesKey)

	log.Info("分类创建成功", "id", category.ID, "name", category.Name)
	response.SuccessWithMessage(c, "Categoría creada correctamente", category)
}

func UpdateCategory(c *gin.Context) {
	id, ok := appctx.ParamID(c, "id")
	if !ok {
		return
	}
	var req categoryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithMessage(validator.Describe(err)))
		return
	}
	ctx := tracing.ContextWithSpan(c)

	category, err := findCategory(ctx, id)
	if err != nil {
		response.Fail(c, err)
		return
	}
	taken, err := nameTaken(ctx, req.Name, id)
	if err != nil {
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	if taken {
		response.Fail(c, response.ErrInvalidRequest.WithMessage("Ya existe otra categoría con ese nombre."))
		return
	}

	category.Name = req.Name
	if req.Active != nil {
		category.Active = *req.Active
	}
	if err := database.DB.WithContext(ctx).Save(category).Error; err != nil {
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	store.Invalidate(ctx, categoriesKey)
	response.SuccessWithMessage(c, "Categoría actualizada correctamente", category)
}

func DeactivateCategory(c *gin.Context) {
	id, ok := appctx.ParamID(c, "id")
	if !ok {
		return
	}
	ctx := tracing.ContextWithSpan(c)

	category, err := findCategory(ctx, id)
	if err != nil {
		response.Fail(c, err)
		return
	}
	if err := database.DB.WithContext(ctx).Model(category).Update("active", false).Error; err != nil {
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	store.Invalidate(ctx, categoriesKey)
	log.Info("分类已停用", "id", id)
	response.SuccessWithMessage(c, "Categoría eliminada correctamente")
}

// SearchCategories 只在启用的分类中按名称模糊查询
func SearchCategories(c *gin.Context) {
	query := database.DB.WithContext(tracing.ContextWithSpan(c)).Where("active = ?", true)
	if name := strings.TrimSpace(c.Query("name")); name != "" {
		query = query.Where("name LIKE ?", "%"+name+"%")
	}

	var categories []model.Category
	if err := query.Order("id").Find(&categories).Error; err != nil {
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	if len(categories) == 0 {
		response.Fail(c, response.ErrNotFound.WithMessage("No se encontraron categorías con los criterios dados."))
		return
	}
	response.Success(c, categories)
}
