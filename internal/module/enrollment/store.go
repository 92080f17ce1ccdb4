package enrollment

import (
	"context"
	"errors"

	"activity-portal/internal/global/database"
	"activity-portal/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrDuplicate 同一 (activity_id, student_id) 的并发报名冲突：
// 命中唯一索引，或首次插入时间隙锁引起的死锁与锁等待超时
var ErrDuplicate = errors.New("enrollment: duplicate activity/student pair")

// Store 报名状态机依赖的持久化操作，找不到记录时返回 gorm.ErrRecordNotFound
type Store interface {
	FindActivity(ctx context.Context, id uint) (*model.Activity, error)
	StudentExists(ctx context.Context, id uint) (bool, error)
	FindEnrollment(ctx context.Context, id uint) (*model.Enrollment, error)
	// FindByPair 在事务中对该行加锁
	FindByPair(ctx context.Context, activityID, studentID uint) (*model.Enrollment, error)
	Create(ctx context.Context, e *model.Enrollment) error
	Save(ctx context.Context, e *model.Enrollment) error
	Detail(ctx context.Context, id uint) (*View, error)
	WithTx(ctx context.Context, fn func(Store) error) error
}

type gormStore struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *gormStore {
	return &gormStore{db: db}
}

func (s *gormStore) FindActivity(ctx context.Context, id uint) (*model.Activity, error) {
	var a model.Activity
	if err := s.db.WithContext(ctx).First(&a, id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *gormStore) StudentExists(ctx context.Context, id uint) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&model.Student{}).Where("user_id = ?", id).Count(&n).Error
	return n > 0, err
}

func (s *gormStore) FindEnrollment(ctx context.Context, id uint) (*model.Enrollment, error) {
	var e model.Enrollment
	if err := s.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).First(&e, id).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *gormStore) FindByPair(ctx context.Context, activityID, studentID uint) (*model.Enrollment, error) {
	var e model.Enrollment
	err := s.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("activity_id = ? AND student_id = ?", activityID, studentID).
		First(&e).Error
	if database.IsLockConflict(err) {
		return nil, ErrDuplicate
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *gormStore) Create(ctx context.Context, e *model.Enrollment) error {
	err := s.db.WithContext(ctx).Create(e).Error
	if database.IsDuplicateKey(err) || database.IsLockConflict(err) {
		return ErrDuplicate
	}
	return err
}

// Save 只更新状态机会改动的列
func (s *gormStore) Save(ctx context.Context, e *model.Enrollment) error {
	return s.db.WithContext(ctx).Model(e).
		Select("status", "note", "enrollment_date").
		Updates(e).Error
}

func (s *gormStore) Detail(ctx context.Context, id uint) (*View, error) {
	var row viewRow
	err := s.views(ctx).Where("e.id = ?", id).Take(&row).Error
	if err != nil {
		return nil, err
	}
	v := row.view()
	return &v, nil
}

func (s *gormStore) WithTx(ctx context.Context, fn func(Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormStore{db: tx})
	})
}

// views 报名与活动、学生姓名的联表查询
func (s *gormStore) views(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).
		Table("enrollment AS e").
		Select(`e.id, e.activity_id, a.title AS activity_name, a.date AS activity_date,
			a.start_time, a.end_time, a.location AS activity_location,
			e.student_id, u.name AS student_name, e.enrollment_date, e.status, e.note`).
		Joins("JOIN activity AS a ON a.id = e.activity_id").
		Joins("JOIN `user` AS u ON u.id = e.student_id")
}

// SearchFilter 各条件为空时不过滤
type SearchFilter struct {
	ActivityID *uint
	StudentID  *uint
	Status     string
	FromDate   *model.Date
	ToDate     *model.Date
}

func (s *gormStore) Search(ctx context.Context, f SearchFilter) ([]View, error) {
	q := s.views(ctx)
	if f.ActivityID != nil {
		q = q.Where("e.activity_id = ?", *f.ActivityID)
	}
	if f.StudentID != nil {
		q = q.Where("e.student_id = ?", *f.StudentID)
	}
	if f.Status != "" {
		q = q.Where("e.status = ?", f.Status)
	}
	if f.FromDate != nil {
		q = q.Where("e.enrollment_date >= ?", *f.FromDate)
	}
	if f.ToDate != nil {
		q = q.Where("e.enrollment_date <= ?", *f.ToDate)
	}
	return s.scanViews(q.Order("e.enrollment_date DESC, e.id DESC"))
}

func (s *gormStore) ListByStudent(ctx context.Context, studentID uint) ([]View, error) {
	return s.scanViews(s.views(ctx).Where("e.student_id = ?", studentID).Order("a.date DESC, e.id DESC"))
}

// Roster 活动的报名名单，附带学生邮箱
func (s *gormStore) Roster(ctx context.Context, activityID uint) ([]RosterRow, error) {
	var rows []RosterRow
	err := s.db.WithContext(ctx).
		Table("enrollment AS e").
		Select("e.student_id, u.name AS student_name, u.email, e.status, e.enrollment_date, e.note").
		Joins("JOIN `user` AS u ON u.id = e.student_id").
		Where("e.activity_id = ?", activityID).
		Order("u.name").
		Scan(&rows).Error
	return rows, err
}

func (s *gormStore) scanViews(q *gorm.DB) ([]View, error) {
	var rows []viewRow
	if err := q.Scan(&rows).Error; err != nil {
		return nil, err
	}
	views := make([]View, len(rows))
	for i, r := range rows {
		views[i] = r.view()
	}
	return views, nil
}
