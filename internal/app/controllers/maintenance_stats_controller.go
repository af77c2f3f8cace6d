package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"huntersrun-http-service/internal/app/middleware"
	"huntersrun-http-service/internal/domain/models"
	"huntersrun-http-service/internal/domain/services"
	"huntersrun-http-service/internal/domain/services/container"
	"huntersrun-http-service/internal/error/response"
)

// InterfaceMaintenanceStatsController 定义维修统计控制器接口
type InterfaceMaintenanceStatsController interface {
	GetDashboard()
	GetCategoryBreakdown()
	GetRecentRequests()
}

// MaintenanceStatsController 处理维修统计相关的请求
type MaintenanceStatsController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewMaintenanceStatsController 创建一个新的维修统计控制器
func NewMaintenanceStatsController(ctx *gin.Context, container *container.ServiceContainer) *MaintenanceStatsController {
	return &MaintenanceStatsController{
		Ctx:       ctx,
		Container: container,
	}
}

// HandleMaintenanceStatsFunc 返回一个处理维修统计请求的Gin处理函数
func HandleMaintenanceStatsFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewMaintenanceStatsController(ctx, container)

		switch method {
		case "getDashboard":
			controller.GetDashboard()
		case "getCategoryBreakdown":
			controller.GetCategoryBreakdown()
		case "getRecentRequests":
			controller.GetRecentRequests()
		default:
			ctx.JSON(http.StatusBadRequest, gin.H{
				"code":    400,
				"message": "无效的方法",
				"data":    nil,
			})
		}
	}
}

// parseScope 从身份和查询参数构造统计口径。
// 维修人员只能看自己名下的统计，管理角色可按物业或指派人收窄。
func (c *MaintenanceStatsController) parseScope() (services.StatsScope, bool) {
	identity, _ := middleware.GetIdentity(c.Ctx)
	scope := services.StatsScope{CompanyID: identity.CompanyID}

	if identity.Role == models.RoleMaintenance {
		self := identity.UserID
		scope.AssignedTo = &self
		return scope, true
	}

	if raw := c.Ctx.Query("property_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			response.ParamError(c.Ctx, "无效的物业ID参数")
			return scope, false
		}
		value := uint(parsed)
		scope.PropertyID = &value
	}

	if raw := c.Ctx.Query("assigned_to"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			response.ParamError(c.Ctx, "无效的指派人参数")
			return scope, false
		}
		value := uint(parsed)
		scope.AssignedTo = &value
	}

	return scope, true
}

// statsService 获取统计服务
func (c *MaintenanceStatsController) statsService() services.InterfaceMaintenanceStatsService {
	return c.Container.GetService("stats").(services.InterfaceMaintenanceStatsService)
}

// GetDashboard 获取滚动窗口内的工单总览统计
// @Summary      获取工单总览统计
// @Description  最近30天的总量、各状态数量、高优数量、平均完成时长和平均评分。每次请求基于当前数据重算。
// @Tags         MaintenanceStats
// @Accept       json
// @Produce      json
// @Param        property_id query int false "物业ID过滤" example:"1"
// @Param        assigned_to query int false "指派人过滤" example:"1"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Router       /maintenance/stats/dashboard [get]
// @Security     BearerAuth
func (c *MaintenanceStatsController) GetDashboard() {
	scope, ok := c.parseScope()
	if !ok {
		return
	}

	stats, err := c.statsService().GetDashboardStats(scope)
	if err != nil {
		response.FailFromError(c.Ctx, err)
		return
	}

	response.Success(c.Ctx, stats)
}

// GetCategoryBreakdown 获取滚动窗口内按类别的工单数量
// @Summary      获取按类别的工单统计
// @Description  覆盖全部启用类别，没有工单的类别计为0
// @Tags         MaintenanceStats
// @Accept       json
// @Produce      json
// @Param        property_id query int false "物业ID过滤" example:"1"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Router       /maintenance/stats/categories [get]
// @Security     BearerAuth
func (c *MaintenanceStatsController) GetCategoryBreakdown() {
	scope, ok := c.parseScope()
	if !ok {
		return
	}

	breakdown, err := c.statsService().GetCategoryBreakdown(scope)
	if err != nil {
		response.FailFromError(c.Ctx, err)
		return
	}

	response.Success(c.Ctx, breakdown)
}

// GetRecentRequests 获取滚动窗口内最近创建的工单摘要
// @Summary      获取最近工单摘要
// @Tags         MaintenanceStats
// @Accept       json
// @Produce      json
// @Param        property_id query int false "物业ID过滤" example:"1"
// @Param        limit query int false "返回条数，默认为10" example:"10"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Router       /maintenance/stats/recent [get]
// @Security     BearerAuth
func (c *MaintenanceStatsController) GetRecentRequests() {
	scope, ok := c.parseScope()
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.Ctx.DefaultQuery("limit", "10"))
	summaries, err := c.statsService().GetRecentRequests(scope, limit)
	if err != nil {
		response.FailFromError(c.Ctx, err)
		return
	}

	response.Success(c.Ctx, summaries)
}
