package enrollment

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	appctx "activity-portal/internal/global/context"
	"activity-portal/internal/global/jwt"
	"activity-portal/internal/global/response"
	"activity-portal/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeStore struct {
	mu          sync.Mutex
	activities  map[uint]*model.Activity
	students    map[uint]string
	enrollments map[uint]*model.Enrollment
	nextID      uint
	failCreate  error
	txCalls     int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		activities:  map[uint]*model.Activity{},
		students:    map[uint]string{},
		enrollments: map[uint]*model.Enrollment{},
	}
}

func (f *fakeStore) FindActivity(_ context.Context, id uint) (*model.Activity, error) {
	a, ok := f.activities[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *a
	return &cp, nil
}

func (f *fakeStore) StudentExists(_ context.Context, id uint) (bool, error) {
	_, ok := f.students[id]
	return ok, nil
}

func (f *fakeStore) FindEnrollment(_ context.Context, id uint) (*model.Enrollment, error) {
	e, ok := f.enrollments[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *e
	return &cp, nil
}

func (f *fakeStore) FindByPair(_ context.Context, activityID, studentID uint) (*model.Enrollment, error) {
	for _, e := range f.enrollments {
		if e.ActivityID == activityID && e.StudentID == studentID {
			cp := *e
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeStore) Create(_ context.Context, e *model.Enrollment) error {
	if f.failCreate != nil {
		return f.failCreate
	}
	f.nextID++
	e.ID = f.nextID
	cp := *e
	f.enrollments[e.ID] = &cp
	return nil
}

func (f *fakeStore) Save(_ context.Context, e *model.Enrollment) error {
	cp := *e
	f.enrollments[e.ID] = &cp
	return nil
}

func (f *fakeStore) Detail(_ context.Context, id uint) (*View, error) {
	e, ok := f.enrollments[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	a := f.activities[e.ActivityID]
	return &View{
		ID:                e.ID,
		ActivityID:        e.ActivityID,
		ActivityName:      a.Title,
		ActivityDate:      a.Date,
		ActivityTimeRange: a.TimeRange(),
		ActivityLocation:  a.Location,
		StudentID:         e.StudentID,
		StudentName:       f.students[e.StudentID],
		EnrollmentDate:    e.EnrollmentDate,
		Status:            e.Status,
		Note:              e.Note,
	}, nil
}

func (f *fakeStore) WithTx(_ context.Context, fn func(Store) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.txCalls++
	return fn(f)
}

func (f *fakeStore) rowsFor(activityID, studentID uint) []model.Enrollment {
	var out []model.Enrollment
	for _, e := range f.enrollments {
		if e.ActivityID == activityID && e.StudentID == studentID {
			out = append(out, *e)
		}
	}
	return out
}

type recordingSink struct {
	events []string
}

func (r *recordingSink) Publish(_ context.Context, transition string, _ *View) {
	r.events = append(r.events, transition)
}

var (
	admin = appctx.Actor{UserID: 1, Role: jwt.RoleAdmin}
	ana   = appctx.Actor{UserID: 7, Role: jwt.RoleStudent}
	luis  = appctx.Actor{UserID: 8, Role: jwt.RoleStudent}
)

func ptr(s string) *string { return &s }

// fixture: 活动 3 在 2025-06-10 举行，2025-06-05 截止报名
func newFixture(t *testing.T, today time.Time) (*Lifecycle, *fakeStore, *recordingSink) {
	t.Helper()
	store := newFakeStore()
	store.activities[3] = &model.Activity{
		Model:                model.Model{ID: 3},
		Title:                "Taller de Robótica",
		Date:                 model.NewDate(2025, time.June, 10),
		RegistrationDeadline: model.NewDate(2025, time.June, 5),
		StartTime:            "08:00",
		EndTime:              "10:00",
		Location:             "Aula 5",
		Capacity:             20,
	}
	store.students[7] = "Ana Pérez"
	store.students[8] = "Luis Gómez"

	sink := &recordingSink{}
	l := NewLifecycle(store, sink)
	l.now = func() time.Time { return today }
	return l, store, sink
}

func day(d int) time.Time {
	return time.Date(2025, time.June, d, 15, 30, 0, 0, time.Local)
}

func TestEnrollCreatesSingleRow(t *testing.T) {
	l, store, sink := newFixture(t, day(1))

	view, msg, err := l.Enroll(context.Background(), ana, EnrollInput{ActivityID: 3, StudentID: 7, Note: ptr("llevo laptop")})
	require.NoError(t, err)
	assert.Equal(t, MsgCreated, msg)
	assert.Equal(t, model.EnrollmentEnrolled, view.Status)
	assert.Equal(t, "Taller de Robótica", view.ActivityName)
	assert.Equal(t, "08:00 - 10:00", view.ActivityTimeRange)
	assert.Equal(t, "Ana Pérez", view.StudentName)
	assert.Equal(t, "2025-06-01", view.EnrollmentDate.String())

	rows := store.rowsFor(3, 7)
	require.Len(t, rows, 1)
	assert.Equal(t, "llevo laptop", *rows[0].Note)
	assert.Equal(t, []string{transitionCreated}, sink.events)
}

func TestEnrollTwiceRejected(t *testing.T) {
	l, store, _ := newFixture(t, day(1))
	ctx := context.Background()

	_, _, err := l.Enroll(ctx, ana, EnrollInput{ActivityID: 3, StudentID: 7})
	require.NoError(t, err)

	_, _, err = l.Enroll(ctx, ana, EnrollInput{ActivityID: 3, StudentID: 7})
	require.Error(t, err)
	assert.ErrorIs(t, err, response.ErrAlreadyEnrolled)
	assert.Equal(t, "El estudiante ya está inscrito en esta actividad.", err.(*response.Error).Message)
	assert.Len(t, store.rowsFor(3, 7), 1)
}

func TestEnrollCancelEnrollReactivatesSameRow(t *testing.T) {
	l, store, sink := newFixture(t, day(1))
	ctx := context.Background()

	first, _, err := l.Enroll(ctx, ana, EnrollInput{ActivityID: 3, StudentID: 7, Note: ptr("primera")})
	require.NoError(t, err)

	l.now = func() time.Time { return day(2) }
	_, msg, err := l.Cancel(ctx, ana, first.ID)
	require.NoError(t, err)
	assert.Equal(t, MsgCancelled, msg)

	l.now = func() time.Time { return day(4) }
	again, msg, err := l.Enroll(ctx, ana, EnrollInput{ActivityID: 3, StudentID: 7, Note: ptr("segunda")})
	require.NoError(t, err)
	assert.Equal(t, MsgReactivated, msg)
	assert.Equal(t, first.ID, again.ID)

	rows := store.rowsFor(3, 7)
	require.Len(t, rows, 1)
	assert.Equal(t, model.EnrollmentEnrolled, rows[0].Status)
	assert.Equal(t, "2025-06-04", rows[0].EnrollmentDate.String())
	assert.Equal(t, "segunda", *rows[0].Note)
	assert.Equal(t, []string{transitionCreated, transitionCancelled, transitionReactivated}, sink.events)
}

func TestReactivationOverwritesNoteWithNil(t *testing.T) {
	l, store, _ := newFixture(t, day(1))
	ctx := context.Background()

	v, _, err := l.Enroll(ctx, ana, EnrollInput{ActivityID: 3, StudentID: 7, Note: ptr("nota")})
	require.NoError(t, err)
	_, _, err = l.Cancel(ctx, ana, v.ID)
	require.NoError(t, err)
	_, _, err = l.Enroll(ctx, ana, EnrollInput{ActivityID: 3, StudentID: 7})
	require.NoError(t, err)

	assert.Nil(t, store.rowsFor(3, 7)[0].Note)
}

func TestEnrollDeadlineBoundary(t *testing.T) {
	// 截止日当天可以报名
	l, store, _ := newFixture(t, day(5))
	_, _, err := l.Enroll(context.Background(), ana, EnrollInput{ActivityID: 3, StudentID: 7})
	require.NoError(t, err)

	// 次日新学生报名被拒绝
	l.now = func() time.Time { return time.Date(2025, time.June, 6, 0, 0, 1, 0, time.Local) }
	_, _, err = l.Enroll(context.Background(), luis, EnrollInput{ActivityID: 3, StudentID: 8})
	require.Error(t, err)
	assert.ErrorIs(t, err, response.ErrDeadlinePassed)
	assert.Equal(t,
		"No se permiten más inscripciones en la actividad Taller de Robótica porque tiene como fecha límite el día 05/06/2025.",
		err.(*response.Error).Message)
	assert.Empty(t, store.rowsFor(3, 8))
}

func TestEnrollPastDeadlineWritesNothing(t *testing.T) {
	l, store, sink := newFixture(t, day(1))
	v, _, err := l.Enroll(context.Background(), ana, EnrollInput{ActivityID: 3, StudentID: 7})
	require.NoError(t, err)
	_, _, err = l.Cancel(context.Background(), ana, v.ID)
	require.NoError(t, err)

	l.now = func() time.Time { return day(7) }
	txBefore := store.txCalls
	_, _, err = l.Enroll(context.Background(), ana, EnrollInput{ActivityID: 3, StudentID: 7})
	assert.ErrorIs(t, err, response.ErrDeadlinePassed)

	assert.Equal(t, txBefore, store.txCalls)
	assert.Equal(t, model.EnrollmentCancelled, store.rowsFor(3, 7)[0].Status)
	assert.Len(t, sink.events, 2)
}

func TestEnrollMissingReferences(t *testing.T) {
	l, _, _ := newFixture(t, day(1))

	_, _, err := l.Enroll(context.Background(), admin, EnrollInput{ActivityID: 99, StudentID: 7})
	assert.ErrorIs(t, err, response.ErrReferenceNotFound)
	assert.Equal(t, "Actividad no encontrada", err.(*response.Error).Message)
	assert.Equal(t, 400, err.(*response.Error).HTTPStatus())

	_, _, err = l.Enroll(context.Background(), admin, EnrollInput{ActivityID: 3, StudentID: 99})
	assert.ErrorIs(t, err, response.ErrReferenceNotFound)
	assert.Equal(t, "Estudiante no encontrado", err.(*response.Error).Message)
}

func TestEnrollStudentCannotEnrollOthers(t *testing.T) {
	l, store, _ := newFixture(t, day(1))
	_, _, err := l.Enroll(context.Background(), luis, EnrollInput{ActivityID: 3, StudentID: 7})
	assert.ErrorIs(t, err, response.ErrForbidden)
	assert.Empty(t, store.enrollments)

	_, _, err = l.Enroll(context.Background(), admin, EnrollInput{ActivityID: 3, StudentID: 7})
	assert.NoError(t, err)
}

func TestEnrollDuplicateInsertIsConflict(t *testing.T) {
	l, store, _ := newFixture(t, day(1))
	store.failCreate = ErrDuplicate

	_, _, err := l.Enroll(context.Background(), ana, EnrollInput{ActivityID: 3, StudentID: 7})
	assert.ErrorIs(t, err, response.ErrEnrollmentConflict)
	assert.Equal(t, 409, err.(*response.Error).HTTPStatus())
}

func TestEnrollDatabaseError(t *testing.T) {
	l, store, _ := newFixture(t, day(1))
	store.failCreate = errors.New("connection reset")

	_, _, err := l.Enroll(context.Background(), ana, EnrollInput{ActivityID: 3, StudentID: 7})
	assert.ErrorIs(t, err, response.ErrDatabase)
	assert.Equal(t, 500, err.(*response.Error).HTTPStatus())
}

func TestChangeStatusAfterActivityConcluded(t *testing.T) {
	l, store, _ := newFixture(t, day(1))
	v, _, err := l.Enroll(context.Background(), ana, EnrollInput{ActivityID: 3, StudentID: 7})
	require.NoError(t, err)

	// 活动当天仍可修改
	l.now = func() time.Time { return day(10) }
	_, _, err = l.ChangeStatus(context.Background(), admin, v.ID, StatusInput{Status: model.EnrollmentCancelled})
	require.NoError(t, err)

	l.now = func() time.Time { return day(11) }
	for _, status := range []string{model.EnrollmentEnrolled, model.EnrollmentCancelled} {
		_, _, err = l.ChangeStatus(context.Background(), admin, v.ID, StatusInput{Status: status})
		require.Error(t, err)
		assert.ErrorIs(t, err, response.ErrActivityConcluded)
		assert.Equal(t,
			"No se puede cambiar el estado de la inscripción porque la actividad 'Taller de Robótica' ya finalizó el día 10/06/2025.",
			err.(*response.Error).Message)
	}
	assert.Equal(t, model.EnrollmentCancelled, store.enrollments[v.ID].Status)

	_, _, err = l.Cancel(context.Background(), ana, v.ID)
	assert.ErrorIs(t, err, response.ErrActivityConcluded)
	assert.Equal(t,
		"No se puede cancelar la inscripción porque la actividad 'Taller de Robótica' ya finalizó el día 10/06/2025.",
		err.(*response.Error).Message)
}

func TestChangeStatusNoteOnlyOverwrittenWhenNotBlank(t *testing.T) {
	l, store, _ := newFixture(t, day(1))
	v, _, err := l.Enroll(context.Background(), ana, EnrollInput{ActivityID: 3, StudentID: 7, Note: ptr("original")})
	require.NoError(t, err)

	view, msg, err := l.ChangeStatus(context.Background(), ana, v.ID, StatusInput{Status: model.EnrollmentCancelled, Note: ptr("   ")})
	require.NoError(t, err)
	assert.Equal(t, MsgUpdated, msg)
	assert.Equal(t, model.EnrollmentCancelled, view.Status)
	assert.Equal(t, "original", *store.enrollments[v.ID].Note)

	_, _, err = l.ChangeStatus(context.Background(), ana, v.ID, StatusInput{Status: model.EnrollmentEnrolled, Note: ptr("nueva")})
	require.NoError(t, err)
	assert.Equal(t, "nueva", *store.enrollments[v.ID].Note)
	assert.Equal(t, model.EnrollmentEnrolled, store.enrollments[v.ID].Status)
}

func TestChangeStatusNoteOnlyAfterActivityConcluded(t *testing.T) {
	l, store, sink := newFixture(t, day(1))
	v, _, err := l.Enroll(context.Background(), ana, EnrollInput{ActivityID: 3, StudentID: 7})
	require.NoError(t, err)

	l.now = func() time.Time { return day(11) }
	view, msg, err := l.ChangeStatus(context.Background(), ana, v.ID, StatusInput{Note: ptr("llegó tarde")})
	require.NoError(t, err)
	assert.Equal(t, MsgUpdated, msg)
	assert.Equal(t, model.EnrollmentEnrolled, view.Status)
	assert.Equal(t, model.EnrollmentEnrolled, store.enrollments[v.ID].Status)
	require.NotNil(t, store.enrollments[v.ID].Note)
	assert.Equal(t, "llegó tarde", *store.enrollments[v.ID].Note)
	assert.Equal(t, []string{transitionCreated}, sink.events)

	// 空白备注不覆盖，也不触发状态检查
	_, _, err = l.ChangeStatus(context.Background(), ana, v.ID, StatusInput{Note: ptr("  ")})
	require.NoError(t, err)
	assert.Equal(t, "llegó tarde", *store.enrollments[v.ID].Note)

	_, _, err = l.ChangeStatus(context.Background(), luis, v.ID, StatusInput{Note: ptr("no es mía")})
	assert.ErrorIs(t, err, response.ErrForbidden)
}

func TestChangeStatusValidation(t *testing.T) {
	l, _, _ := newFixture(t, day(1))

	_, _, err := l.ChangeStatus(context.Background(), admin, 1, StatusInput{Status: "Pendiente"})
	assert.ErrorIs(t, err, response.ErrInvalidRequest)

	_, _, err = l.ChangeStatus(context.Background(), admin, 404, StatusInput{Status: model.EnrollmentCancelled})
	assert.ErrorIs(t, err, response.ErrNotFound)
	assert.Equal(t, "Inscripción no encontrada.", err.(*response.Error).Message)

	_, _, err = l.Cancel(context.Background(), admin, 404)
	assert.ErrorIs(t, err, response.ErrNotFound)
}

func TestChangeStatusOwnership(t *testing.T) {
	l, store, _ := newFixture(t, day(1))
	v, _, err := l.Enroll(context.Background(), ana, EnrollInput{ActivityID: 3, StudentID: 7})
	require.NoError(t, err)

	_, _, err = l.Cancel(context.Background(), luis, v.ID)
	assert.ErrorIs(t, err, response.ErrForbidden)
	assert.Equal(t, model.EnrollmentEnrolled, store.enrollments[v.ID].Status)
}
