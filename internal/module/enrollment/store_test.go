package enrollment

import (
	"context"
	"testing"
	"time"

	"activity-portal/internal/model"
	"activity-portal/test"

	"github.com/DATA-DOG/go-sqlmock"
	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestStoreFindByPairLocksRow(t *testing.T) {
	db, mock := test.NewMockDB(t)
	store := NewStore(db)

	mock.ExpectQuery("SELECT \\* FROM `enrollment` WHERE activity_id = \\? AND student_id = \\? .*FOR UPDATE").
		WillReturnRows(sqlmock.NewRows([]string{"id", "activity_id", "student_id", "enrollment_date", "status", "note"}).
			AddRow(4, 3, 7, "2025-06-01", "Cancelado", nil))

	e, err := store.FindByPair(context.Background(), 3, 7)
	require.NoError(t, err)
	assert.Equal(t, uint(4), e.ID)
	assert.Equal(t, model.EnrollmentCancelled, e.Status)
	assert.Equal(t, "2025-06-01", e.EnrollmentDate.String())
}

func TestStoreFindByPairNotFound(t *testing.T) {
	db, mock := test.NewMockDB(t)
	store := NewStore(db)

	mock.ExpectQuery("SELECT \\* FROM `enrollment`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := store.FindByPair(context.Background(), 3, 7)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestStoreCreateDuplicate(t *testing.T) {
	db, mock := test.NewMockDB(t)
	store := NewStore(db)

	mock.ExpectExec("INSERT INTO `enrollment`").
		WillReturnError(&mysqldriver.MySQLError{Number: 1062, Message: "Duplicate entry"})

	err := store.Create(context.Background(), &model.Enrollment{
		ActivityID:     3,
		StudentID:      7,
		EnrollmentDate: model.NewDate(2025, time.June, 1),
		Status:         model.EnrollmentEnrolled,
	})
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestStoreCreateDeadlockIsConflict(t *testing.T) {
	db, mock := test.NewMockDB(t)
	store := NewStore(db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT \\* FROM `enrollment` WHERE activity_id = \\? AND student_id = \\? .*FOR UPDATE").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectExec("INSERT INTO `enrollment`").
		WillReturnError(&mysqldriver.MySQLError{Number: 1213, Message: "Deadlock found when trying to get lock; try restarting transaction"})
	mock.ExpectRollback()

	err := store.WithTx(context.Background(), func(tx Store) error {
		_, err := tx.FindByPair(context.Background(), 3, 7)
		require.ErrorIs(t, err, gorm.ErrRecordNotFound)
		return tx.Create(context.Background(), &model.Enrollment{ActivityID: 3, StudentID: 7, Status: model.EnrollmentEnrolled})
	})
	assert.ErrorIs(t, err, ErrDuplicate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreFindByPairLockWaitTimeoutIsConflict(t *testing.T) {
	db, mock := test.NewMockDB(t)
	store := NewStore(db)

	mock.ExpectQuery("SELECT \\* FROM `enrollment`").
		WillReturnError(&mysqldriver.MySQLError{Number: 1205, Message: "Lock wait timeout exceeded"})

	_, err := store.FindByPair(context.Background(), 3, 7)
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestStoreSaveUpdatesLifecycleColumns(t *testing.T) {
	db, mock := test.NewMockDB(t)
	store := NewStore(db)

	mock.ExpectExec("UPDATE `enrollment` SET .*`status`=\\?.* WHERE `id` = \\?").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := store.Save(context.Background(), &model.Enrollment{
		ID:             4,
		ActivityID:     3,
		StudentID:      7,
		EnrollmentDate: model.NewDate(2025, time.June, 4),
		Status:         model.EnrollmentEnrolled,
	})
	assert.NoError(t, err)
}

func TestStoreWithTxRollsBack(t *testing.T) {
	db, mock := test.NewMockDB(t)
	store := NewStore(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `enrollment`").
		WillReturnError(&mysqldriver.MySQLError{Number: 1062})
	mock.ExpectRollback()

	err := store.WithTx(context.Background(), func(tx Store) error {
		return tx.Create(context.Background(), &model.Enrollment{ActivityID: 3, StudentID: 7, Status: model.EnrollmentEnrolled})
	})
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestStoreSearchAppliesFilters(t *testing.T) {
	db, mock := test.NewMockDB(t)
	store := NewStore(db)

	activityID := uint(3)
	from := model.NewDate(2025, time.June, 1)
	mock.ExpectQuery("(?s)SELECT e.id, .* FROM enrollment AS e JOIN activity AS a .* JOIN `user` AS u .*" +
		"WHERE e.activity_id = \\? AND e.status = \\? AND e.enrollment_date >= \\? ORDER BY e.enrollment_date DESC, e.id DESC").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "activity_id", "activity_name", "activity_date", "start_time", "end_time",
			"activity_location", "student_id", "student_name", "enrollment_date", "status", "note",
		}).AddRow(4, 3, "Taller de Robótica", "2025-06-10", "08:00", "10:00", "Aula 5", 7, "Ana Pérez", "2025-06-02", "Inscrito", "hola"))

	views, err := store.Search(context.Background(), SearchFilter{ActivityID: &activityID, Status: "Inscrito", FromDate: &from})
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "08:00 - 10:00", views[0].ActivityTimeRange)
	assert.Equal(t, "Ana Pérez", views[0].StudentName)
	assert.Equal(t, "2025-06-10", views[0].ActivityDate.String())
	require.NotNil(t, views[0].Note)
	assert.Equal(t, "hola", *views[0].Note)
}

func TestStoreStudentExists(t *testing.T) {
	db, mock := test.NewMockDB(t)
	store := NewStore(db)

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `student` WHERE user_id = \\?").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	ok, err := store.StudentExists(context.Background(), 7)
	require.NoError(t, err)
	assert.False(t, ok)
}
