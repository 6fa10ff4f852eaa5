package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/limaJavier/coursetable/pkg/api/handler"
	"github.com/limaJavier/coursetable/pkg/api/middleware"
	"github.com/limaJavier/coursetable/pkg/config"
)

// Setup returns the gin engine serving the scheduling API
func Setup(cfg *config.Config, h *handler.ScheduleHandler, logger *zap.Logger) *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.BodyLimit(cfg.Server.MaxUploadMB << 20))

	v1 := r.Group("/api/v1")
	{
		v1.GET("/ping", h.Ping)
		v1.POST("/schedules", h.CreateSchedule)
	}

	return r
}
