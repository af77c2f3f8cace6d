package controllers

import (
	"github.com/gin-gonic/gin"

	"huntersrun-http-service/internal/domain/services"
	"huntersrun-http-service/internal/domain/services/container"
	"huntersrun-http-service/internal/error/response"
)

// HealthCheckController 健康检查控制器
type HealthCheckController struct {
	Container *container.ServiceContainer
}

// NewHealthCheckController 创建健康检查控制器实例
func NewHealthCheckController(container *container.ServiceContainer) *HealthCheckController {
	return &HealthCheckController{Container: container}
}

// HandleHealthFunc 返回一个处理健康检查请求的Gin处理函数
func HandleHealthFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewHealthCheckController(container)

		switch method {
		case "status":
			controller.Status(ctx)
		default:
			controller.Ping(ctx)
		}
	}
}

// Ping 健康检查端点
func (h *HealthCheckController) Ping(c *gin.Context) {
	response.Success(c, gin.H{
		"status":  "healthy",
		"message": "pong",
	})
}

// Status 返回数据库和Redis的连接状态
func (h *HealthCheckController) Status(c *gin.Context) {
	dbStatus := "up"
	sqlDB, err := h.Container.GetDB().DB()
	if err != nil {
		dbStatus = "down"
	} else if err := sqlDB.Ping(); err != nil {
		dbStatus = "down"
	}

	redisStatus := "down"
	if redisService, ok := h.Container.GetService("redis").(services.InterfaceRedisService); ok && redisService != nil {
		if err := redisService.Ping(); err == nil {
			redisStatus = "up"
		}
	}

	data := gin.H{
		"database": dbStatus,
		"redis":    redisStatus,
	}
	if sqlDB != nil {
		stats := sqlDB.Stats()
		data["db_pool"] = gin.H{
			"open_connections": stats.OpenConnections,
			"in_use":           stats.InUse,
			"idle":             stats.Idle,
		}
	}

	response.Success(c, data)
}
