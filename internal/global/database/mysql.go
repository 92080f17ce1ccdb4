package database

import (
	"errors"
	"fmt"
	"time"

	"activity-portal/config"
	"activity-portal/internal/global/sentry/tracing"
	"activity-portal/internal/model"
	"activity-portal/tools"

	mysqldriver "github.com/go-sql-driver/mysql"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

var DB *gorm.DB

var autoMigrateModels = []any{
	&model.User{},
	&model.Student{},
	&model.Organizer{},
	&model.Faculty{},
	&model.Career{},
	&model.Category{},
	&model.Activity{},
	&model.Enrollment{},
	&model.Rating{},
}

// MySQL 错误码
const (
	duplicateEntry  = 1062
	lockWaitTimeout = 1205
	deadlockFound   = 1213
)

func Init() {
	cfg := config.Get().Mysql
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		cfg.Username, cfg.Password, cfg.Host, cfg.Port, cfg.DBName)

	db, err := gorm.Open(mysql.Open(dsn), Config())
	tools.PanicOnErr(err)

	if tracing.IsEnabled() {
		tools.PanicOnErr(db.Use(tracing.NewGormTracingPlugin()))
	}

	sqlDB, err := db.DB()
	tools.PanicOnErr(err)
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(time.Hour)

	DB = db
	tools.PanicOnErr(DB.AutoMigrate(autoMigrateModels...))
}

// Config 单数表名，debug 模式打印 SQL
func Config() *gorm.Config {
	c := &gorm.Config{
		NamingStrategy: schema.NamingStrategy{SingularTable: true},
	}
	switch config.Get().Mode {
	case config.ModeDebug:
		c.Logger = logger.Default.LogMode(logger.Info)
	default:
		c.Logger = logger.Discard
	}
	return c
}

// IsDuplicateKey 判断是否是唯一索引冲突
func IsDuplicateKey(err error) bool {
	var me *mysqldriver.MySQLError
	if errors.As(err, &me) {
		return me.Number == duplicateEntry
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

// IsLockConflict 判断是否是死锁或锁等待超时，并发插入同一唯一键时 InnoDB 的间隙锁会触发
func IsLockConflict(err error) bool {
	var me *mysqldriver.MySQLError
	if errors.As(err, &me) {
		return me.Number == deadlockFound || me.Number == lockWaitTimeout
	}
	return false
}
