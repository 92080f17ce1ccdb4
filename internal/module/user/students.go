package user

import (
	"context"
	"errors"

	appctx "activity-portal/internal/global/context"
	"activity-portal/internal/global/database"
	"activity-portal/internal/global/response"
	"activity-portal/internal/global/sentry/tracing"
	"activity-portal/internal/global/validator"
	"activity-portal/internal/model"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// StudentView 学生及其用户、专业、学院信息
type StudentView struct {
	ID          uint    `json:"id"`
	Name        string  `json:"name"`
	Email       string  `json:"email"`
	Phone       *string `json:"phone"`
	PhotoURL    *string `json:"photoUrl"`
	Active      bool    `json:"active"`
	FacultyID   *uint   `json:"facultyId"`
	FacultyName *string `json:"facultyName"`
	CareerID    *uint   `json:"careerId"`
	CareerName  *string `json:"careerName"`
	Semester    *int    `json:"semester"`
	Modality    *string `json:"modality"`
	Schedule    *string `json:"schedule"`
}

type studentCreateReq struct {
	Name      string  `json:"name" binding:"required,min=3,max=50,personname"`
	Email     string  `json:"email" binding:"required,email"`
	Phone     *string `json:"phone" binding:"omitempty,phone"`
	PhotoURL  *string `json:"photoUrl"`
	FacultyID uint    `json:"facultyId" binding:"required"`
	CareerID  uint    `json:"careerId" binding:"required"`
	Semester  int     `json:"semester" binding:"required,min=1,max=10"`
	Modality  string  `json:"modality" binding:"required,modality"`
	Schedule  string  `json:"schedule" binding:"required,schedule"`
}

// studentUpdateReq 空字段保持原值
type studentUpdateReq struct {
	Name      string  `json:"name" binding:"required,min=3,max=50,personname"`
	Email     string  `json:"email" binding:"required,email"`
	Phone     *string `json:"phone" binding:"omitempty,phone"`
	PhotoURL  *string `json:"photoUrl"`
	FacultyID *uint   `json:"facultyId" binding:"omitempty,min=1"`
	CareerID  *uint   `json:"careerId" binding:"omitempty,min=1"`
	Semester  *int    `json:"semester" binding:"omitempty,min=1,max=10"`
	Modality  *string `json:"modality" binding:"omitempty,modality"`
	Schedule  *string `json:"schedule" binding:"omitempty,schedule"`
	Active    *bool   `json:"active"`
}

func studentViews(ctx context.Context) *gorm.DB {
	return database.DB.WithContext(ctx).
		Table("student AS s").
		Select(`u.id, u.name, u.email, u.phone, u.photo_url, u.active,
			c.faculty_id, f.name AS faculty_name, s.career_id, c.name AS career_name,
			s.semester, s.modality, s.schedule`).
		Joins("JOIN `user` AS u ON u.id = s.user_id").
		Joins("LEFT JOIN career AS c ON c.id = s.career_id").
		Joins("LEFT JOIN faculty AS f ON f.id = c.faculty_id")
}

func findStudentView(ctx context.Context, id uint, notFound string) (*StudentView, error) {
	var v StudentView
	err := studentViews(ctx).Where("s.user_id = ?", id).Take(&v).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, response.ErrNotFound.WithMessage(notFound)
	}
	if err != nil {
		return nil, response.ErrDatabase.WithOrigin(err)
	}
	return &v, nil
}

func ListStudents(c *gin.Context) {
	var views []StudentView
	if err := studentViews(tracing.ContextWithSpan(c)).Order("u.active DESC, u.id").Scan(&views).Error; err != nil {
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	response.Success(c, views)
}

func GetStudent(c *gin.Context) {
	id, ok := appctx.ParamID(c, "id")
	if !ok {
		return
	}
	view, err := findStudentView(tracing.ContextWithSpan(c), id, "Estudiante no encontrado.")
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, view)
}

func CreateStudent(c *gin.Context) {
	var req studentCreateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithMessage(validator.Describe(err)))
		return
	}
	ctx := tracing.ContextWithSpan(c)

	if err := checkUnique(ctx, database.DB, req.Name, req.Email, 0); err != nil {
		response.Fail(c, err)
		return
	}
	if err := careerExists(ctx, req.CareerID); err != nil {
		response.Fail(c, err)
		return
	}

	password := defaultPassword(req.Name)
	user := &model.User{Name: req.Name, Email: req.Email, Phone: req.Phone, PhotoURL: req.PhotoURL, Role: model.RoleStudent}
	err := createAccount(ctx, user, password, func(id uint) any {
		return &model.Student{
			UserID:   id,
			CareerID: &req.CareerID,
			Semester: &req.Semester,
			Modality: &req.Modality,
			Schedule: &req.Schedule,
		}
	})
	if err != nil {
		log.Error("创建学生失败", "error", err, "email", req.Email)
		response.Fail(c, err)
		return
	}

	log.Info("创建学生成功", "user_id", user.ID)
	response.SuccessWithMessage(c, "Estudiante creado correctamente", gin.H{
		"id":              user.ID,
		"defaultPassword": password,
	})
}

func UpdateStudent(c *gin.Context) {
	id, ok := appctx.ParamID(c, "id")
	if !ok {
		return
	}
	var req studentUpdateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithMessage(validator.Describe(err)))
		return
	}
	if err := updateStudent(tracing.ContextWithSpan(c), id, req, "Estudiante no encontrado."); err != nil {
		response.Fail(c, err)
		return
	}
	response.SuccessWithMessage(c, "Estudiante actualizado correctamente")
}

// updateStudent 管理员修改与学生修改个人资料共用
func updateStudent(ctx context.Context, id uint, req studentUpdateReq, notFound string) error {
	var student model.Student
	err := database.DB.WithContext(ctx).Where("user_id = ?", id).First(&student).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return response.ErrNotFound.WithMessage(notFound)
	}
	if err != nil {
		return response.ErrDatabase.WithOrigin(err)
	}
	user, err := findUser(ctx, id, notFound)
	if err != nil {
		return err
	}
	if err := checkUnique(ctx, database.DB, req.Name, req.Email, id); err != nil {
		return err
	}
	if req.CareerID != nil {
		if err := careerExists(ctx, *req.CareerID); err != nil {
			return err
		}
		student.CareerID = req.CareerID
	}

	user.Name = req.Name
	user.Email = req.Email
	if !blank(req.Phone) {
		user.Phone = req.Phone
	}
	if !blank(req.PhotoURL) {
		user.PhotoURL = req.PhotoURL
	}
	if req.Active != nil {
		user.Active = *req.Active
	}
	if req.Semester != nil {
		student.Semester = req.Semester
	}
	if req.Modality != nil {
		student.Modality = req.Modality
	}
	if req.Schedule != nil {
		student.Schedule = req.Schedule
	}
	return saveUser(ctx, user, &student)
}

func DeactivateStudent(c *gin.Context) {
	deactivate(c, model.RoleStudent, "Estudiante no encontrado.", "Estudiante desactivado correctamente")
}

type studentSearchReq struct {
	Name      string `form:"name"`
	FacultyID *uint  `form:"facultyId"`
	CareerID  *uint  `form:"careerId"`
	Semester  *int   `form:"semester"`
	Modality  string `form:"modality"`
	Schedule  string `form:"schedule"`
}

// SearchStudents 只返回启用的学生
func SearchStudents(c *gin.Context) {
	var req studentSearchReq
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}

	query := studentViews(tracing.ContextWithSpan(c)).Where("u.active = ?", true)
	if req.Name != "" {
		query = query.Where("u.name LIKE ?", "%"+req.Name+"%")
	}
	if req.FacultyID != nil {
		query = query.Where("c.faculty_id = ?", *req.FacultyID)
	}
	if req.CareerID != nil {
		query = query.Where("s.career_id = ?", *req.CareerID)
	}
	if req.Semester != nil {
		query = query.Where("s.semester = ?", *req.Semester)
	}
	if req.Modality != "" {
		query = query.Where("s.modality LIKE ?", "%"+req.Modality+"%")
	}
	if req.Schedule != "" {
		query = query.Where("s.schedule = ?", req.Schedule)
	}

	var views []StudentView
	if err := query.Order("u.id").Scan(&views).Error; err != nil {
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	response.Success(c, views)
}
