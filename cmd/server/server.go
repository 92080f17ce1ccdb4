package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"activity-portal/config"
	"activity-portal/internal/global/cache"
	"activity-portal/internal/global/database"
	"activity-portal/internal/global/httpclient"
	"activity-portal/internal/global/logger"
	"activity-portal/internal/global/middleware"
	internalOtel "activity-portal/internal/global/otel"
	"activity-portal/internal/global/sentry"
	"activity-portal/internal/global/validator"
	"activity-portal/internal/module"
	"activity-portal/tools"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

var log *slog.Logger

func Init() {
	config.Init()
	time.Local = config.Get().Location()

	if err := sentry.Init(); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	log = logger.New("Server")

	database.Init()

	if err := cache.Init(context.Background()); err != nil {
		// Redis 不可用时退化为直接查库
		log.Warn("Redis 未启用", "error", err)
	}

	httpclient.Init()

	if config.Get().OTel.Enable {
		log.Info("OTel Enabled")
		tools.PanicOnErr(internalOtel.Init(context.Background()))
	}

	validator.Init()
	middleware.MustRegisterMetrics(prometheus.DefaultRegisterer)

	for _, m := range module.Modules {
		log.Info(fmt.Sprintf("Init Module: %s", m.GetName()))
		m.Init()
	}
}

func Run() {
	gin.SetMode(string(config.Get().Mode))
	r := gin.New()

	r.Use(sentry.Middleware(), middleware.SentryEnrichIP())
	switch config.Get().Mode {
	case config.ModeRelease:
		r.Use(middleware.Logger(logger.Get()))
	case config.ModeDebug:
		r.Use(gin.Logger())
	}
	r.Use(middleware.Cors())
	r.Use(middleware.Recovery())
	r.Use(middleware.Metrics())

	if config.Get().OTel.Enable {
		r.Use(middleware.Trace())
	}

	for _, m := range module.Modules {
		log.Info(fmt.Sprintf("Init Router: %s", m.GetName()))
		m.InitRouter(r.Group("/" + config.Get().Prefix))
	}

	srv := &http.Server{
		Addr:    config.Get().Host + ":" + config.Get().Port,
		Handler: r,
	}
	go func() {
		log.Info("服务启动", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			tools.PanicOnErr(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("服务关闭中")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("服务关闭失败", "error", err)
	}
	if err := internalOtel.Shutdown(ctx); err != nil {
		log.Error("关闭 TracerProvider 失败", "error", err)
	}
	sentry.Flush(2 * time.Second)
}
