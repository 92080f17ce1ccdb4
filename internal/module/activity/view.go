package activity

import (
	"context"

	"activity-portal/internal/global/database"
	"activity-portal/internal/model"

	"gorm.io/gorm"
)

// View 活动及其分类、组织者名称
type View struct {
	ID                   uint       `json:"id"`
	Title                string     `json:"title"`
	CategoryID           uint       `json:"categoryId"`
	CategoryName         string     `json:"categoryName"`
	OrganizerID          uint       `json:"organizerId"`
	OrganizerName        string     `json:"organizerName"`
	Date                 model.Date `json:"date"`
	RegistrationDeadline model.Date `json:"registrationDeadline"`
	TimeRange            string     `json:"timeRange"`
	Location             string     `json:"location"`
	Capacity             int        `json:"capacity"`
	Description          *string    `json:"description"`
	PhotoURL             *string    `json:"photoUrl"`
	Active               bool       `json:"active"`
}

type viewRow struct {
	model.Activity
	CategoryName  string
	OrganizerName string
}

func (r viewRow) view() View {
	return View{
		ID:                   r.ID,
		Title:                r.Title,
		CategoryID:           r.CategoryID,
		CategoryName:         r.CategoryName,
		OrganizerID:          r.OrganizerID,
		OrganizerName:        r.OrganizerName,
		Date:                 r.Date,
		RegistrationDeadline: r.RegistrationDeadline,
		TimeRange:            r.TimeRange(),
		Location:             r.Location,
		Capacity:             r.Capacity,
		Description:          r.Description,
		PhotoURL:             r.PhotoURL,
		Active:               r.Active,
	}
}

func views(ctx context.Context) *gorm.DB {
	return database.DB.WithContext(ctx).
		Table("activity AS a").
		Select("a.*, c.name AS category_name, u.name AS organizer_name").
		Joins("JOIN category AS c ON c.id = a.category_id").
		Joins("JOIN `user` AS u ON u.id = a.organizer_id")
}

func scanViews(q *gorm.DB) ([]View, error) {
	var rows []viewRow
	if err := q.Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]View, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.view())
	}
	return out, nil
}

// Filter 后台与公开搜索共用的条件
type Filter struct {
	CategoryID  *uint
	OrganizerID *uint
	FromDate    *model.Date
	ToDate      *model.Date
	Title       string
	Location    string
	// Bookable 只保留启用且报名未截止的活动
	Bookable *model.Date
}

func (f Filter) apply(q *gorm.DB) *gorm.DB {
	if f.Bookable != nil {
		q = q.Where("a.active = ? AND a.registration_deadline >= ?", true, *f.Bookable)
	}
	if f.CategoryID != nil {
		q = q.Where("a.category_id = ?", *f.CategoryID)
	}
	if f.OrganizerID != nil {
		q = q.Where("a.organizer_id = ?", *f.OrganizerID)
	}
	if f.FromDate != nil {
		q = q.Where("a.date >= ?", *f.FromDate)
	}
	if f.ToDate != nil {
		q = q.Where("a.date <= ?", *f.ToDate)
	}
	if f.Title != "" {
		q = q.Where("a.title LIKE ?", "%"+f.Title+"%")
	}
	if f.Location != "" {
		q = q.Where("a.location LIKE ?", "%"+f.Location+"%")
	}
	return q
}

func findView(ctx context.Context, id uint) (*View, error) {
	list, err := scanViews(views(ctx).Where("a.id = ?", id).Limit(1))
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &list[0], nil
}

func today() model.Date {
	return model.DateOf(now())
}
