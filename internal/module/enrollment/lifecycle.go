package enrollment

import (
	"context"
	"errors"
	"strings"
	"time"

	appctx "activity-portal/internal/global/context"
	"activity-portal/internal/global/response"
	"activity-portal/internal/model"
	"activity-portal/tools"

	"gorm.io/gorm"
)

const (
	MsgCreated     = "Inscripción creada correctamente"
	MsgReactivated = "Inscripción reactivada correctamente"
	MsgUpdated     = "Inscripción actualizada correctamente"
	MsgCancelled   = "Inscripción cancelada correctamente"
)

type EnrollInput struct {
	ActivityID uint
	StudentID  uint
	Note       *string
}

type StatusInput struct {
	Status string
	Note   *string
}

// Lifecycle 报名状态机：无记录 -> Inscrito <-> Cancelado，每个 (活动, 学生) 只有一行
type Lifecycle struct {
	store  Store
	events EventSink
	now    func() time.Time
}

func NewLifecycle(store Store, events EventSink) *Lifecycle {
	if events == nil {
		events = nopSink{}
	}
	return &Lifecycle{store: store, events: events, now: time.Now}
}

func (l *Lifecycle) today() model.Date {
	return model.DateOf(l.now())
}

// Enroll 报名截止日当天仍可报名；已取消的记录原地恢复为 Inscrito
func (l *Lifecycle) Enroll(ctx context.Context, actor appctx.Actor, in EnrollInput) (*View, string, error) {
	if !actor.CanActFor(in.StudentID) {
		return nil, "", response.ErrForbidden
	}

	activity, err := l.store.FindActivity(ctx, in.ActivityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			rejections.WithLabelValues("activity_not_found").Inc()
			return nil, "", response.ErrReferenceNotFound.WithMessage("Actividad no encontrada")
		}
		return nil, "", response.ErrDatabase.WithOrigin(err)
	}

	exists, err := l.store.StudentExists(ctx, in.StudentID)
	if err != nil {
		return nil, "", response.ErrDatabase.WithOrigin(err)
	}
	if !exists {
		rejections.WithLabelValues("student_not_found").Inc()
		return nil, "", response.ErrReferenceNotFound.WithMessage("Estudiante no encontrado")
	}

	today := l.today()
	if today.After(activity.RegistrationDeadline) {
		rejections.WithLabelValues("deadline_passed").Inc()
		return nil, "", response.ErrDeadlinePassed.WithMessagef(
			"No se permiten más inscripciones en la actividad %s porque tiene como fecha límite el día %s.",
			activity.Title, tools.FormatDisplayDate(activity.RegistrationDeadline.Time))
	}

	var (
		id         uint
		transition string
	)
	err = l.store.WithTx(ctx, func(tx Store) error {
		existing, err := tx.FindByPair(ctx, in.ActivityID, in.StudentID)
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			e := &model.Enrollment{
				ActivityID:     in.ActivityID,
				StudentID:      in.StudentID,
				EnrollmentDate: today,
				Status:         model.EnrollmentEnrolled,
				Note:           in.Note,
			}
			if err := tx.Create(ctx, e); err != nil {
				return err
			}
			id, transition = e.ID, transitionCreated
			return nil
		case err != nil:
			return err
		case existing.Status == model.EnrollmentCancelled:
			existing.Status = model.EnrollmentEnrolled
			existing.Note = in.Note
			existing.EnrollmentDate = today
			if err := tx.Save(ctx, existing); err != nil {
				return err
			}
			id, transition = existing.ID, transitionReactivated
			return nil
		default:
			return response.ErrAlreadyEnrolled
		}
	})
	if err != nil {
		var appErr *response.Error
		switch {
		case errors.Is(err, ErrDuplicate):
			rejections.WithLabelValues("conflict").Inc()
			return nil, "", response.ErrEnrollmentConflict
		case errors.As(err, &appErr):
			rejections.WithLabelValues("already_enrolled").Inc()
			return nil, "", appErr
		default:
			return nil, "", response.ErrDatabase.WithOrigin(err)
		}
	}

	view, err := l.store.Detail(ctx, id)
	if err != nil {
		return nil, "", response.ErrDatabase.WithOrigin(err)
	}
	l.record(ctx, transition, view)

	if transition == transitionReactivated {
		return view, MsgReactivated, nil
	}
	return view, MsgCreated, nil
}

// ChangeStatus 活动日期已过时拒绝任何状态修改；note 为空白时保留原值。
// Status 为空时只更新备注，不受活动日期限制
func (l *Lifecycle) ChangeStatus(ctx context.Context, actor appctx.Actor, id uint, in StatusInput) (*View, string, error) {
	if in.Status != "" && in.Status != model.EnrollmentEnrolled && in.Status != model.EnrollmentCancelled {
		return nil, "", response.ErrInvalidRequest.WithMessage("El estado debe ser 'Inscrito' o 'Cancelado'")
	}
	view, err := l.transition(ctx, actor, id, in.Status, in.Note,
		"No se puede cambiar el estado de la inscripción porque la actividad '%s' ya finalizó el día %s.")
	if err != nil {
		return nil, "", err
	}
	return view, MsgUpdated, nil
}

// Cancel 等价于把状态改为 Cancelado
func (l *Lifecycle) Cancel(ctx context.Context, actor appctx.Actor, id uint) (*View, string, error) {
	view, err := l.transition(ctx, actor, id, model.EnrollmentCancelled, nil,
		"No se puede cancelar la inscripción porque la actividad '%s' ya finalizó el día %s.")
	if err != nil {
		return nil, "", err
	}
	return view, MsgCancelled, nil
}

func (l *Lifecycle) transition(ctx context.Context, actor appctx.Actor, id uint, status string, note *string, concludedMsg string) (*View, error) {
	today := l.today()
	err := l.store.WithTx(ctx, func(tx Store) error {
		e, err := tx.FindEnrollment(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return response.ErrNotFound.WithMessage("Inscripción no encontrada.")
			}
			return err
		}
		if !actor.CanActFor(e.StudentID) {
			return response.ErrForbidden
		}

		if status != "" {
			activity, err := tx.FindActivity(ctx, e.ActivityID)
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			if activity != nil && today.After(activity.Date) {
				rejections.WithLabelValues("activity_concluded").Inc()
				return response.ErrActivityConcluded.WithMessagef(concludedMsg,
					activity.Title, tools.FormatDisplayDate(activity.Date.Time))
			}
			e.Status = status
		}

		if note != nil && strings.TrimSpace(*note) != "" {
			e.Note = note
		}
		return tx.Save(ctx, e)
	})
	if err != nil {
		var appErr *response.Error
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, response.ErrDatabase.WithOrigin(err)
	}

	view, err := l.store.Detail(ctx, id)
	if err != nil {
		return nil, response.ErrDatabase.WithOrigin(err)
	}
	switch status {
	case "":
	case model.EnrollmentCancelled:
		l.record(ctx, transitionCancelled, view)
	default:
		l.record(ctx, transitionStatusChanged, view)
	}
	return view, nil
}

func (l *Lifecycle) record(ctx context.Context, transition string, view *View) {
	transitions.WithLabelValues(transition).Inc()
	l.events.Publish(ctx, transition, view)
}
