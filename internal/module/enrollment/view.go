package enrollment

import (
	"activity-portal/internal/model"
)

// View 报名记录及活动、学生的展示字段
type View struct {
	ID                uint       `json:"id"`
	ActivityID        uint       `json:"activityId"`
	ActivityName      string     `json:"activityName"`
	ActivityDate      model.Date `json:"activityDate"`
	ActivityTimeRange string     `json:"activityTimeRange"`
	ActivityLocation  string     `json:"activityLocation"`
	StudentID         uint       `json:"studentId"`
	StudentName       string     `json:"studentName"`
	EnrollmentDate    model.Date `json:"enrollmentDate"`
	Status            string     `json:"status"`
	Note              *string    `json:"note"`
}

type viewRow struct {
	ID               uint
	ActivityID       uint
	ActivityName     string
	ActivityDate     model.Date
	StartTime        string
	EndTime          string
	ActivityLocation string
	StudentID        uint
	StudentName      string
	EnrollmentDate   model.Date
	Status           string
	Note             *string
}

func (r viewRow) view() View {
	a := model.Activity{StartTime: r.StartTime, EndTime: r.EndTime}
	return View{
		ID:                r.ID,
		ActivityID:        r.ActivityID,
		ActivityName:      r.ActivityName,
		ActivityDate:      r.ActivityDate,
		ActivityTimeRange: a.TimeRange(),
		ActivityLocation:  r.ActivityLocation,
		StudentID:         r.StudentID,
		StudentName:       r.StudentName,
		EnrollmentDate:    r.EnrollmentDate,
		Status:            r.Status,
		Note:              r.Note,
	}
}

// RosterRow 导出名单的一行
type RosterRow struct {
	StudentID      uint       `excel:"ID estudiante"`
	StudentName    string     `excel:"Estudiante"`
	Email          string     `excel:"Correo"`
	Status         string     `excel:"Estado"`
	EnrollmentDate model.Date `excel:"Fecha de inscripción"`
	Note           *string    `excel:"Nota"`
}
