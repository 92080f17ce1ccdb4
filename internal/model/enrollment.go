package model

const (
	EnrollmentEnrolled  = "Inscrito"
	EnrollmentCancelled = "Cancelado"
)

// Enrollment 每个 (活动, 学生) 只有一行，取消后再报名时复用该行
type Enrollment struct {
	ID             uint    `gorm:"primaryKey" json:"id"`
	ActivityID     uint    `gorm:"uniqueIndex:idx_enrollment_activity_student;not null" json:"activityId"`
	StudentID      uint    `gorm:"uniqueIndex:idx_enrollment_activity_student;index;not null" json:"studentId"`
	EnrollmentDate Date    `gorm:"not null" json:"enrollmentDate"`
	Status         string  `gorm:"type:varchar(20);not null" json:"status"`
	Note           *string `gorm:"type:varchar(300)" json:"note"`
}

type Rating struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	ActivityID uint   `gorm:"uniqueIndex:idx_rating_activity_student;not null" json:"activityId"`
	StudentID  uint   `gorm:"uniqueIndex:idx_rating_activity_student;index;not null" json:"studentId"`
	Stars      int    `gorm:"not null" json:"stars"`
	Comment    string `gorm:"type:varchar(300);not null" json:"comment"`
	RatingDate Date   `gorm:"not null" json:"ratingDate"`
}
