package model

type Activity struct {
	Model
	Title                string  `gorm:"type:varchar(80);not null" json:"title"`
	CategoryID           uint    `gorm:"index;not null" json:"categoryId"`
	OrganizerID          uint    `gorm:"index;not null" json:"organizerId"` // 组织者的用户 id
	Date                 Date    `gorm:"index;not null" json:"date"`
	RegistrationDeadline Date    `gorm:"not null" json:"registrationDeadline"`
	StartTime            string  `gorm:"type:varchar(5);not null" json:"startTime"` // HH:mm
	EndTime              string  `gorm:"type:varchar(5);not null" json:"endTime"`
	Location             string  `gorm:"type:varchar(200);not null" json:"location"`
	Capacity             int     `gorm:"not null" json:"capacity"`
	Description          *string `gorm:"type:varchar(2000)" json:"description"`
	PhotoURL             *string `gorm:"column:photo_url;type:varchar(255)" json:"photoUrl"`
	Active               bool    `gorm:"default:true;not null" json:"active"`
}

// TimeRange 返回 "HH:mm - HH:mm"
func (a *Activity) TimeRange() string {
	return a.StartTime + " - " + a.EndTime
}
