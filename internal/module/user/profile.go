package user

import (
	appctx "activity-portal/internal/global/context"
	"activity-portal/internal/global/response"
	"activity-portal/internal/global/sentry/tracing"
	"activity-portal/internal/global/validator"

	"github.com/gin-gonic/gin"
)

// 个人资料只能修改自己的资料，不能修改启用状态

func GetStudentProfile(c *gin.Context) {
	actor, ok := appctx.MustActor(c)
	if !ok {
		return
	}
	view, err := findStudentView(tracing.ContextWithSpan(c), actor.UserID, "Perfil de estudiante no encontrado.")
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, view)
}

func UpdateStudentProfile(c *gin.Context) {
	actor, ok := appctx.MustActor(c)
	if !ok {
		return
	}
	var req studentUpdateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithMessage(validator.Describe(err)))
		return
	}
	req.Active = nil
	if err := updateStudent(tracing.ContextWithSpan(c), actor.UserID, req, "Perfil de estudiante no encontrado."); err != nil {
		response.Fail(c, err)
		return
	}
	response.SuccessWithMessage(c, "Perfil de estudiante actualizado correctamente")
}

func GetOrganizerProfile(c *gin.Context) {
	actor, ok := appctx.MustActor(c)
	if !ok {
		return
	}
	view, err := findOrganizerView(tracing.ContextWithSpan(c), actor.UserID, "Perfil de organizador no encontrado.")
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, view)
}

func UpdateOrganizerProfile(c *gin.Context) {
	actor, ok := appctx.MustActor(c)
	if !ok {
		return
	}
	var req organizerUpdateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithMessage(validator.Describe(err)))
		return
	}
	req.Active = nil
	if err := updateOrganizer(tracing.ContextWithSpan(c), actor.UserID, req, "Perfil de organizador no encontrado."); err != nil {
		response.Fail(c, err)
		return
	}
	response.SuccessWithMessage(c, "Perfil de organizador actualizado correctamente")
}
