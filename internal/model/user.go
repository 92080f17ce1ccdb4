package model

const (
	RoleAdmin     = "Admin"
	RoleOrganizer = "Organizador"
	RoleStudent   = "Estudiante"
)

type User struct {
	ID       uint    `gorm:"primaryKey" json:"id"`
	Name     string  `gorm:"type:varchar(50);uniqueIndex;not null" json:"name"`
	Email    string  `gorm:"type:varchar(100);uniqueIndex;not null" json:"email"`
	Phone    *string `gorm:"type:varchar(20)" json:"phone"`
	Password string  `gorm:"type:varchar(255);not null" json:"-"`
	Role     string  `gorm:"type:varchar(20);index;not null" json:"role"`
	Active   bool    `gorm:"default:true;not null" json:"active"`
	PhotoURL *string `gorm:"column:photo_url;type:varchar(255)" json:"photoUrl"`
}

// Student 与 User 一对一，主键即用户 id
type Student struct {
	UserID   uint    `gorm:"primaryKey;autoIncrement:false" json:"userId"`
	CareerID *uint   `gorm:"index" json:"careerId"`
	Semester *int    `json:"semester"`
	Modality *string `gorm:"type:varchar(20)" json:"modality"` // Presencial / Híbrida / Virtual
	Schedule *string `gorm:"type:varchar(20)" json:"schedule"` // Matutina / Vespertina / Nocturna
}

type Organizer struct {
	UserID     uint    `gorm:"primaryKey;autoIncrement:false" json:"userId"`
	Department *string `gorm:"type:varchar(50)" json:"department"`
	Position   *string `gorm:"type:varchar(50)" json:"position"`
	Bio        *string `gorm:"type:varchar(300)" json:"bio"`
	Shifts     *string `gorm:"type:varchar(100)" json:"shifts"`
	WorkDays   *string `gorm:"type:varchar(100)" json:"workDays"`
}
