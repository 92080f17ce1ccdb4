package enrollment

import (
	"context"
	"errors"
	"fmt"

	appctx "activity-portal/internal/global/context"
	"activity-portal/internal/global/logger"
	"activity-portal/internal/global/response"
	"activity-portal/internal/global/sentry/tracing"
	"activity-portal/internal/global/validator"
	"activity-portal/internal/model"
	"activity-portal/tools"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Reader 只读查询
type Reader interface {
	Detail(ctx context.Context, id uint) (*View, error)
	Search(ctx context.Context, f SearchFilter) ([]View, error)
	ListByStudent(ctx context.Context, studentID uint) ([]View, error)
	Roster(ctx context.Context, activityID uint) ([]RosterRow, error)
	FindActivity(ctx context.Context, id uint) (*model.Activity, error)
}

type Handler struct {
	lifecycle *Lifecycle
	reader    Reader
}

func NewHandler(lifecycle *Lifecycle, reader Reader) *Handler {
	return &Handler{lifecycle: lifecycle, reader: reader}
}

type createReq struct {
	ActivityID uint    `json:"activityId" binding:"required,min=1"`
	StudentID  uint    `json:"studentId" binding:"required,min=1"`
	Note       *string `json:"note" binding:"omitempty,max=300"`
}

type updateReq struct {
	Status string  `json:"status" binding:"omitempty,enrollstatus"`
	Note   *string `json:"note" binding:"omitempty,max=300"`
}

func (h *Handler) Create(c *gin.Context) {
	actor, ok := appctx.MustActor(c)
	if !ok {
		return
	}
	var req createReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithMessage(validator.Describe(err)))
		return
	}

	view, msg, err := h.lifecycle.Enroll(tracing.ContextWithSpan(c), actor, EnrollInput{
		ActivityID: req.ActivityID,
		StudentID:  req.StudentID,
		Note:       req.Note,
	})
	if err != nil {
		logFailure(c, actor, "报名失败", err, "activity_id", req.ActivityID, "student_id", req.StudentID)
		response.Fail(c, err)
		return
	}
	logger.WithRequest(log, c, actor.UserID).Info(msg, "enrollment_id", view.ID, "activity_id", view.ActivityID)
	response.SuccessWithMessage(c, msg, view)
}

func (h *Handler) Update(c *gin.Context) {
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

	view, msg, err := h.lifecycle.ChangeStatus(tracing.ContextWithSpan(c), actor, id, StatusInput{Status: req.Status, Note: req.Note})
	if err != nil {
		logFailure(c, actor, "修改报名状态失败", err, "enrollment_id", id)
		response.Fail(c, err)
		return
	}
	response.SuccessWithMessage(c, msg, view)
}

func (h *Handler) Deactivate(c *gin.Context) {
	actor, ok := appctx.MustActor(c)
	if !ok {
		return
	}
	id, ok := appctx.ParamID(c, "id")
	if !ok {
		return
	}

	view, msg, err := h.lifecycle.Cancel(tracing.ContextWithSpan(c), actor, id)
	if err != nil {
		logFailure(c, actor, "取消报名失败", err, "enrollment_id", id)
		response.Fail(c, err)
		return
	}
	response.SuccessWithMessage(c, msg, view)
}

func (h *Handler) Get(c *gin.Context) {
	actor, ok := appctx.MustActor(c)
	if !ok {
		return
	}
	id, ok := appctx.ParamID(c, "id")
	if !ok {
		return
	}

	view, err := h.reader.Detail(tracing.ContextWithSpan(c), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Fail(c, response.ErrNotFound.WithMessage("Inscripción no encontrada."))
			return
		}
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	if !actor.CanActFor(view.StudentID) {
		response.Fail(c, response.ErrForbidden)
		return
	}
	response.Success(c, view)
}

func (h *Handler) ListByStudent(c *gin.Context) {
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

	views, err := h.reader.ListByStudent(tracing.ContextWithSpan(c), studentID)
	if err != nil {
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	response.Success(c, views)
}

func (h *Handler) List(c *gin.Context) {
	views, err := h.reader.Search(tracing.ContextWithSpan(c), SearchFilter{})
	if err != nil {
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	response.Success(c, views)
}

func (h *Handler) Search(c *gin.Context) {
	filter, err := parseSearch(c)
	if err != nil {
		response.Fail(c, err)
		return
	}
	views, err := h.reader.Search(tracing.ContextWithSpan(c), filter)
	if err != nil {
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	response.Success(c, views)
}

func parseSearch(c *gin.Context) (SearchFilter, error) {
	var f SearchFilter
	var err error
	if f.ActivityID, err = appctx.QueryID(c, "activityId"); err != nil {
		return f, err
	}
	if f.StudentID, err = appctx.QueryID(c, "studentId"); err != nil {
		return f, err
	}
	f.Status = c.Query("status")
	f.FromDate, f.ToDate, err = appctx.QueryDateRange(c)
	return f, err
}

// Export 导出活动报名名单，组织者只能导出自己的活动
func (h *Handler) Export(c *gin.Context) {
	actor, ok := appctx.MustActor(c)
	if !ok {
		return
	}
	activityID, ok := appctx.ParamID(c, "activityId")
	if !ok {
		return
	}
	ctx := tracing.ContextWithSpan(c)

	activity, err := h.reader.FindActivity(ctx, activityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Fail(c, response.ErrNotFound.WithMessage("Actividad no encontrada"))
			return
		}
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	if actor.IsOrganizer() && activity.OrganizerID != actor.UserID {
		response.Fail(c, response.ErrForbidden)
		return
	}

	rows, err := h.reader.Roster(ctx, activityID)
	if err != nil {
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	buf, err := tools.ExportSheet("Inscritos", rows)
	if err != nil {
		response.Fail(c, response.ErrServerInternal.WithOrigin(err))
		return
	}
	tools.SendAttachment(c, buf, fmt.Sprintf("inscritos-%d.xlsx", activityID), tools.ExcelContentType)
}

func logFailure(c *gin.Context, actor appctx.Actor, msg string, err error, args ...any) {
	l := logger.WithRequest(log, c, actor.UserID)
	var appErr *response.Error
	if errors.As(err, &appErr) && appErr.HTTPStatus() < 500 {
		l.Info(msg, append(args, "reason", appErr.Message)...)
		return
	}
	l.Error(msg, append(args, "error", err)...)
}
