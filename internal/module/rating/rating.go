package rating

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

var (
	errRatingNotFound = response.ErrNotFound.WithMessage("Valoración no encontrada.")
	errAlreadyRated   = response.ErrInvalidRequest.WithMessage("Usted ya calificó esta actividad.")
)

// View 评分及活动标题、学生姓名
type View struct {
	ID           uint       `json:"id"`
	ActivityID   uint       `json:"activityId"`
	ActivityName string     `json:"activityName"`
	StudentID    uint       `json:"studentId"`
	StudentName  string     `json:"studentName"`
	Stars        int        `json:"stars"`
	Comment      string     `json:"comment"`
	RatingDate   model.Date `json:"ratingDate"`
}

type createReq struct {
	ActivityID uint   `json:"activityId" binding:"required,min=1"`
	StudentID  uint   `json:"studentId" binding:"required,min=1"`
	Stars      int    `json:"stars" binding:"required,min=1,max=5"`
	Comment    string `json:"comment" binding:"required,max=300"`
}

func views(ctx context.Context) *gorm.DB {
	return database.DB.WithContext(ctx).
		Table("rating AS r").
		Select("r.id, r.activity_id, a.title AS activity_name, r.student_id, u.name AS student_name, r.stars, r.comment, r.rating_date").
		Joins("JOIN activity AS a ON a.id = r.activity_id").
		Joins("JOIN `user` AS u ON u.id = r.student_id")
}

func respond(c *gin.Context, q *gorm.DB) {
	var list []View
	if err := q.Scan(&list).Error; err != nil {
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	if list == nil {
		list = []View{}
	}
	response.Success(c, list)
}

func ListRatings(c *gin.Context) {
	respond(c, views(tracing.ContextWithSpan(c)).Order("r.rating_date DESC, r.id DESC"))
}

// ListByActivity 公开的活动评价
func ListByActivity(c *gin.Context) {
	activityID, ok := appctx.ParamID(c, "activityId")
	if !ok {
		return
	}
	respond(c, views(tracing.ContextWithSpan(c)).Where("r.activity_id = ?", activityID).Order("r.rating_date DESC, r.id DESC"))
}

func ListByStudent(c *gin.Context) {
	actor, ok := appctx.MustActor(c)
	if !ok {
		return
	}
	studentID, ok := appctx.ParamID(c, "studentId")
	if !ok {
		return
	}
	if !actor.CanActFor(studentID) {
		response.Fail(c, response.ErrForbidden)
		return
	}
	respond(c, views(tracing.ContextWithSpan(c)).Where("r.student_id = ?", studentID).Order("r.rating_date DESC, r.id DESC"))
}

func GetRating(c *gin.Context) {
	actor, ok := appctx.MustActor(c)
	if !ok {
		return
	}
	id, ok := appctx.ParamID(c, "id")
	if !ok {
		return
	}
	var v View
	err := views(tracing.ContextWithSpan(c)).Where("r.id = ?", id).Take(&v).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		response.Fail(c, errRatingNotFound)
		return
	}
	if err != nil {
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	if !actor.CanActFor(v.StudentID) {
		response.Fail(c, response.ErrForbidden)
		return
	}
	response.Success(c, v)
}

// CreateRating 同一学生对同一活动只能评分一次
func CreateRating(c *gin.Context) {
	actor, ok := appctx.MustActor(c)
	if !ok {
		return
	}
	var req createReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithMessage(validator.Describe(err)))
		return
	}
	if !actor.CanActFor(req.StudentID) {
		response.Fail(c, response.ErrForbidden)
		return
	}
	db := database.DB.WithContext(tracing.ContextWithSpan(c))

	var n int64
	if err := db.Model(&model.Activity{}).Where("id = ?", req.ActivityID).Count(&n).Error; err != nil {
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	if n == 0 {
		response.Fail(c, response.ErrReferenceNotFound.WithMessage("Actividad no encontrada."))
		return
	}
	if err := db.Model(&model.Rating{}).
		Where("activity_id = ? AND student_id = ?", req.ActivityID, req.StudentID).
		Count(&n).Error; err != nil {
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	if n > 0 {
		response.Fail(c, errAlreadyRated)
		return
	}

	rating := model.Rating{
		ActivityID: req.ActivityID,
		StudentID:  req.StudentID,
		Stars:      req.Stars,
		Comment:    req.Comment,
		RatingDate: model.DateOf(now()),
	}
	if err := db.Create(&rating).Error; err != nil {
		// 并发提交由唯一索引兜底
		if database.IsDuplicateKey(err) {
			response.Fail(c, response.ErrAlreadyExists.WithMessage("Usted ya calificó esta actividad."))
			return
		}
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	log.Info("评分成功", "id", rating.ID, "activity_id", rating.ActivityID, "student_id", rating.StudentID, "stars", rating.Stars)
	response.SuccessWithMessage(c, "Valoración registrada correctamente", rating)
}

func DeleteRating(c *gin.Context) {
	actor, ok := appctx.MustActor(c)
	if !ok {
		return
	}
	id, ok := appctx.ParamID(c, "id")
	if !ok {
		return
	}
	db := database.DB.WithContext(tracing.ContextWithSpan(c))

	var rating model.Rating
	err := db.First(&rating, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		response.Fail(c, errRatingNotFound)
		return
	}
	if err != nil {
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	if !actor.CanActFor(rating.StudentID) {
		response.Fail(c, response.ErrForbidden)
		return
	}
	if err := db.Delete(&rating).Error; err != nil {
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	log.Info("评分已删除", "id", id)
	response.SuccessWithMessage(c, "Valoración eliminada correctamente")
}

// SearchRatings 按活动、学生、星级和日期过滤
func SearchRatings(c *gin.Context) {
	from, to, err := appctx.QueryDateRange(c)
	if err != nil {
		response.Fail(c, err)
		return
	}
	activityID, err := appctx.QueryID(c, "activityId")
	if err != nil {
		response.Fail(c, err)
		return
	}
	studentID, err := appctx.QueryID(c, "studentId")
	if err != nil {
		response.Fail(c, err)
		return
	}
	stars, err := appctx.QueryID(c, "stars")
	if err != nil || (stars != nil && *stars > 5) {
		response.Fail(c, response.ErrInvalidRequest.WithTips("stars inválido"))
		return
	}

	q := views(tracing.ContextWithSpan(c))
	if activityID != nil {
		q = q.Where("r.activity_id = ?", *activityID)
	}
	if studentID != nil {
		q = q.Where("r.student_id = ?", *studentID)
	}
	if stars != nil {
		q = q.Where("r.stars = ?", *stars)
	}
	if from != nil {
		q = q.Where("r.rating_date >= ?", *from)
	}
	if to != nil {
		q = q.Where("r.rating_date <= ?", *to)
	}
	respond(c, q.Order("r.rating_date DESC, r.id DESC"))
}
