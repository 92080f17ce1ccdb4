package ping

import (
	"context"
	"time"

	"activity-portal/internal/global/database"
	"activity-portal/internal/global/response"
	"activity-portal/internal/global/sentry/tracing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const version = "1.0.0"

func (p *ModulePing) InitRouter(r *gin.RouterGroup) {
	r.GET("/ping", Ping)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// Ping 返回版本号和数据库连通性
func Ping(c *gin.Context) {
	result := map[string]any{
		"message":  "pong",
		"version":  version,
		"database": "ok",
	}
	if err := pingDB(tracing.ContextWithSpan(c)); err != nil {
		log.Warn("数据库不可用", "error", err)
		result["database"] = "down"
	}
	response.Success(c, result)
}

func pingDB(ctx context.Context) error {
	if database.DB == nil {
		return nil
	}
	sqlDB, err := database.DB.DB()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return sqlDB.PingContext(ctx)
}
