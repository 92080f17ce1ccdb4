package user

import (
	"context"
	"errors"
	"strings"

	"activity-portal/internal/global/database"
	"activity-portal/internal/global/response"
	"activity-portal/internal/model"
	"activity-portal/tools"

	"gorm.io/gorm"
)

// checkUnique 名称与邮箱不区分大小写唯一，exceptID 为正在修改的用户
func checkUnique(ctx context.Context, db *gorm.DB, name, email string, exceptID uint) error {
	var n int64
	q := db.WithContext(ctx).Model(&model.User{}).Where("LOWER(email) = ?", strings.ToLower(email))
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	if err := q.Count(&n).Error; err != nil {
		return response.ErrDatabase.WithOrigin(err)
	}
	if n > 0 {
		return response.ErrInvalidRequest.WithMessage("Ya existe otro usuario con ese correo.")
	}

	q = db.WithContext(ctx).Model(&model.User{}).Where("LOWER(name) = ?", strings.ToLower(name))
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	if err := q.Count(&n).Error; err != nil {
		return response.ErrDatabase.WithOrigin(err)
	}
	if n > 0 {
		return response.ErrInvalidRequest.WithMessage("Ya existe otro usuario con ese nombre.")
	}
	return nil
}

// defaultPassword 管理员创建账号时的初始密码：去掉空格的小写姓名加 123
func defaultPassword(name string) string {
	return strings.ToLower(strings.ReplaceAll(name, " ", "")) + "123"
}

// temporaryPassword 重置密码：小写的名字加 123
func temporaryPassword(name string) string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return "123"
	}
	return strings.ToLower(fields[0]) + "123"
}

// createAccount 在一个事务中创建用户及其学生或组织者资料
func createAccount(ctx context.Context, u *model.User, plainPassword string, profile func(userID uint) any) error {
	hash, err := tools.PasswordEncrypt(plainPassword)
	if err != nil {
		return response.ErrServerInternal.WithOrigin(err)
	}
	u.Password = hash
	u.Active = true

	err = database.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(u).Error; err != nil {
			return err
		}
		if profile == nil {
			return nil
		}
		return tx.Create(profile(u.ID)).Error
	})
	switch {
	case err == nil:
		return nil
	case database.IsDuplicateKey(err):
		return response.ErrAlreadyExists.WithMessage("Ya existe otro usuario con ese nombre o correo.")
	default:
		return response.ErrDatabase.WithOrigin(err)
	}
}

// careerExists 注册与创建学生时校验 careerId
func careerExists(ctx context.Context, careerID uint) error {
	var career model.Career
	err := database.DB.WithContext(ctx).First(&career, careerID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return response.ErrInvalidRequest.WithMessage("La carrera no existe.")
	}
	if err != nil {
		return response.ErrDatabase.WithOrigin(err)
	}
	return nil
}

func findUser(ctx context.Context, id uint, notFound string) (*model.User, error) {
	var u model.User
	err := database.DB.WithContext(ctx).First(&u, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, response.ErrNotFound.WithMessage(notFound)
	}
	if err != nil {
		return nil, response.ErrDatabase.WithOrigin(err)
	}
	return &u, nil
}

// saveUser 更新用户与资料，资料为 nil 时只更新用户
func saveUser(ctx context.Context, u *model.User, profile any) error {
	err := database.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(u).Error; err != nil {
			return err
		}
		if profile == nil {
			return nil
		}
		return tx.Save(profile).Error
	})
	switch {
	case err == nil:
		return nil
	case database.IsDuplicateKey(err):
		return response.ErrAlreadyExists.WithMessage("Ya existe otro usuario con ese nombre o correo.")
	default:
		return response.ErrDatabase.WithOrigin(err)
	}
}

func blank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}
