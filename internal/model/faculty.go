package model

type Faculty struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"type:varchar(100);not null" json:"name"`
}

type Career struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Name      string `gorm:"type:varchar(100);not null" json:"name"`
	FacultyID uint   `gorm:"index;not null" json:"facultyId"`
}

type Category struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	Name   string `gorm:"type:varchar(50);uniqueIndex;not null" json:"name"`
	Active bool   `gorm:"default:true;not null" json:"active"`
}
