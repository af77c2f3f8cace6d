package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"huntersrun-http-service/internal/app/middleware"
	"huntersrun-http-service/internal/domain/models"
	"huntersrun-http-service/internal/domain/services"
	"huntersrun-http-service/internal/domain/services/container"
	"huntersrun-http-service/internal/error/response"
)

// InterfaceMaintenanceRequestController 定义维修工单控制器接口
type InterfaceMaintenanceRequestController interface {
	CreateRequest()
	GetRequest()
	GetPropertyRequests()
	GetMyRequests()
	GetAssignedRequests()
	UpdateRequest()
	AssignRequest()
	CancelRequest()
	RateRequest()
}

// MaintenanceRequestController 处理维修工单相关的请求
type MaintenanceRequestController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewMaintenanceRequestController 创建一个新的维修工单控制器
func NewMaintenanceRequestController(ctx *gin.Context, container *container.ServiceContainer) *MaintenanceRequestController {
	return &MaintenanceRequestController{
		Ctx:       ctx,
		Container: container,
	}
}

// HandleMaintenanceRequestFunc 返回一个处理维修工单请求的Gin处理函数
func HandleMaintenanceRequestFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewMaintenanceRequestController(ctx, container)

		switch method {
		case "createRequest":
			controller.CreateRequest()
		case "getRequest":
			controller.GetRequest()
		case "getPropertyRequests":
			controller.GetPropertyRequests()
		case "getMyRequests":
			controller.GetMyRequests()
		case "getAssignedRequests":
			controller.GetAssignedRequests()
		case "updateRequest":
			controller.UpdateRequest()
		case "assignRequest":
			controller.AssignRequest()
		case "cancelRequest":
			controller.CancelRequest()
		case "rateRequest":
			controller.RateRequest()
		default:
			ctx.JSON(http.StatusBadRequest, gin.H{
				"code":    400,
				"message": "无效的方法",
				"data":    nil,
			})
		}
	}
}

// requestService 获取工单服务
func (c *MaintenanceRequestController) requestService() services.InterfaceMaintenanceRequestService {
	return c.Container.GetService("request").(services.InterfaceMaintenanceRequestService)
}

// requestID 解析路径中的工单ID
func (c *MaintenanceRequestController) requestID() (uint, bool) {
	id, err := strconv.ParseUint(c.Ctx.Param("id"), 10, 32)
	if err != nil {
		response.ParamError(c.Ctx, "无效的ID参数")
		return 0, false
	}
	return uint(id), true
}

// pagination 解析分页参数，非法取值直接报错而不是静默修正
func (c *MaintenanceRequestController) pagination() (int, int, bool) {
	page, err := strconv.Atoi(c.Ctx.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		response.ParamError(c.Ctx, "无效的页码参数")
		return 0, 0, false
	}
	pageSize, err := strconv.Atoi(c.Ctx.DefaultQuery("page_size", "50"))
	if err != nil || pageSize < 1 {
		response.ParamError(c.Ctx, "无效的每页条数参数")
		return 0, 0, false
	}
	return page, pageSize, true
}

// requestView 按调用方角色输出工单视图，租户视图剔除内部备注
func requestView(req models.MaintenanceRequest, identity models.Identity) models.MaintenanceRequest {
	if identity.Role == models.RoleTenant {
		return req.ForTenantView()
	}
	return req
}

// listResponse 统一的分页响应结构
func (c *MaintenanceRequestController) listResponse(requests []models.MaintenanceRequest, total int64, page, pageSize int, identity models.Identity) {
	views := make([]models.MaintenanceRequest, 0, len(requests))
	for _, req := range requests {
		views = append(views, requestView(req, identity))
	}

	response.Success(c.Ctx, gin.H{
		"total":       total,
		"page":        page,
		"page_size":   pageSize,
		"total_pages": (total + int64(pageSize) - 1) / int64(pageSize),
		"data":        views,
	})
}

// CreateMaintenanceRequest 表示创建维修工单的请求体
type CreateMaintenanceRequest struct {
	PropertyID          uint                   `json:"property_id" binding:"required" example:"1"`
	BuildingID          *uint                  `json:"building_id" example:"1"`
	UnitID              *uint                  `json:"unit_id" example:"1"`
	TenantID            *uint                  `json:"tenant_id" example:"1"` // 员工代报时指定
	CategoryID          *uint                  `json:"category_id" example:"1"`
	Title               string                 `json:"title" binding:"required" example:"厨房水管漏水"`
	Description         string                 `json:"description" binding:"required" example:"水槽下方接口持续渗水"`
	LocationDescription string                 `json:"location_description" example:"厨房水槽下方"`
	TenantAvailability  string                 `json:"tenant_availability" example:"工作日9:00-18:00"`
	PermissionToEnter   bool                   `json:"permission_to_enter" example:"true"`
	Priority            models.RequestPriority `json:"priority" example:"urgent"`
	Images              []models.Attachment    `json:"images"`
}

// CreateRequest 创建维修工单
// @Summary      创建维修工单
// @Description  租户为自己报修，管理角色可代租户报修。工单与其创建记录在同一事务内写入。
// @Tags         MaintenanceRequest
// @Accept       json
// @Produce      json
// @Param        request body CreateMaintenanceRequest true "工单信息"
// @Success      201  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Router       /maintenance/requests [post]
// @Security     BearerAuth
func (c *MaintenanceRequestController) CreateRequest() {
	var req CreateMaintenanceRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, "无效的请求参数: "+err.Error())
		return
	}

	identity, _ := middleware.GetIdentity(c.Ctx)
	input := &services.CreateRequestInput{
		PropertyID:          req.PropertyID,
		BuildingID:          req.BuildingID,
		UnitID:              req.UnitID,
		TenantID:            req.TenantID,
		CategoryID:          req.CategoryID,
		Title:               req.Title,
		Description:         req.Description,
		LocationDescription: req.LocationDescription,
		TenantAvailability:  req.TenantAvailability,
		PermissionToEnter:   req.PermissionToEnter,
		Priority:            req.Priority,
		Images:              req.Images,
	}

	created, err := c.requestService().CreateRequest(input, identity)
	if err != nil {
		response.FailFromError(c.Ctx, err)
		return
	}

	response.Created(c.Ctx, requestView(*created, identity))
}

// GetRequest 获取工单详情
// @Summary      获取维修工单详情
// @Description  include_history=true时附带审计历史。租户只能看到对租户可见的历史记录。
// @Tags         MaintenanceRequest
// @Accept       json
// @Produce      json
// @Param        id path int true "工单ID" example:"1"
// @Param        include_history query bool false "是否附带审计历史" example:"true"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Router       /maintenance/requests/{id} [get]
// @Security     BearerAuth
func (c *MaintenanceRequestController) GetRequest() {
	id, ok := c.requestID()
	if !ok {
		return
	}

	identity, _ := middleware.GetIdentity(c.Ctx)
	includeHistory := c.Ctx.Query("include_history") == "true"

	req, updates, err := c.requestService().GetRequest(id, identity, includeHistory)
	if err != nil {
		response.FailFromError(c.Ctx, err)
		return
	}

	data := gin.H{"request": requestView(*req, identity)}
	if includeHistory {
		data["updates"] = updates
	}
	response.Success(c.Ctx, data)
}

// parseFilter 解析列表过滤参数。状态和优先级原样下推，未知取值得到空结果。
func (c *MaintenanceRequestController) parseFilter() (services.RequestFilter, bool) {
	filter := services.RequestFilter{
		Status:   c.Ctx.Query("status"),
		Priority: c.Ctx.Query("priority"),
	}

	for param, dest := range map[string]**uint{
		"assigned_to": &filter.AssignedTo,
		"category_id": &filter.CategoryID,
		"unit_id":     &filter.UnitID,
	} {
		if raw := c.Ctx.Query(param); raw != "" {
			parsed, err := strconv.ParseUint(raw, 10, 32)
			if err != nil {
				response.ParamError(c.Ctx, "无效的"+param+"参数")
				return filter, false
			}
			value := uint(parsed)
			*dest = &value
		}
	}

	for param, dest := range map[string]**time.Time{
		"date_from": &filter.DateFrom,
		"date_to":   &filter.DateTo,
	} {
		if raw := c.Ctx.Query(param); raw != "" {
			parsed, err := time.Parse(time.RFC3339, raw)
			if err != nil {
				parsed, err = time.Parse("2006-01-02", raw)
			}
			if err != nil {
				response.ParamError(c.Ctx, "无效的"+param+"参数")
				return filter, false
			}
			*dest = &parsed
		}
	}

	return filter, true
}

// GetPropertyRequests 按物业列出工单，管理角色视角
// @Summary      按物业获取工单列表
// @Description  支持状态、优先级、指派人、类别、户号和日期区间过滤，紧急工单始终排在最前
// @Tags         MaintenanceRequest
// @Accept       json
// @Produce      json
// @Param        id path int true "物业ID" example:"1"
// @Param        page query int false "页码，默认为1" example:"1"
// @Param        page_size query int false "每页条数，默认为50" example:"50"
// @Param        status query string false "状态过滤" example:"pending"
// @Param        priority query string false "优先级过滤" example:"emergency"
// @Param        assigned_to query int false "指派人过滤" example:"1"
// @Param        category_id query int false "类别过滤" example:"1"
// @Param        unit_id query int false "户号过滤" example:"1"
// @Param        date_from query string false "创建时间下界" example:"2026-08-01"
// @Param        date_to query string false "创建时间上界" example:"2026-08-31"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Router       /properties/{id}/maintenance/requests [get]
// @Security     BearerAuth
func (c *MaintenanceRequestController) GetPropertyRequests() {
	propertyID, err := strconv.ParseUint(c.Ctx.Param("id"), 10, 32)
	if err != nil {
		response.ParamError(c.Ctx, "无效的ID参数")
		return
	}

	page, pageSize, ok := c.pagination()
	if !ok {
		return
	}
	filter, ok := c.parseFilter()
	if !ok {
		return
	}

	identity, _ := middleware.GetIdentity(c.Ctx)
	requests, total, svcErr := c.requestService().ListByProperty(uint(propertyID), filter, page, pageSize, identity)
	if svcErr != nil {
		response.FailFromError(c.Ctx, svcErr)
		return
	}

	c.listResponse(requests, total, page, pageSize, identity)
}

// GetMyRequests 租户查看自己的报修历史
// @Summary      获取我的工单列表
// @Tags         MaintenanceRequest
// @Accept       json
// @Produce      json
// @Param        page query int false "页码，默认为1" example:"1"
// @Param        page_size query int false "每页条数，默认为50" example:"50"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Router       /maintenance/requests/mine [get]
// @Security     BearerAuth
func (c *MaintenanceRequestController) GetMyRequests() {
	page, pageSize, ok := c.pagination()
	if !ok {
		return
	}

	identity, _ := middleware.GetIdentity(c.Ctx)
	requests, total, err := c.requestService().ListByTenant(identity.UserID, page, pageSize, identity)
	if err != nil {
		response.FailFromError(c.Ctx, err)
		return
	}

	c.listResponse(requests, total, page, pageSize, identity)
}

// GetAssignedRequests 维修人员查看指派给自己的工单
// @Summary      获取指派给我的工单列表
// @Tags         MaintenanceRequest
// @Accept       json
// @Produce      json
// @Param        page query int false "页码，默认为1" example:"1"
// @Param        page_size query int false "每页条数，默认为50" example:"50"
// @Param        status query string false "状态过滤" example:"in_progress"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Router       /maintenance/requests/assigned [get]
// @Security     BearerAuth
func (c *MaintenanceRequestController) GetAssignedRequests() {
	page, pageSize, ok := c.pagination()
	if !ok {
		return
	}

	identity, _ := middleware.GetIdentity(c.Ctx)
	requests, total, err := c.requestService().ListByAssignee(identity.UserID, c.Ctx.Query("status"), page, pageSize, identity)
	if err != nil {
		response.FailFromError(c.Ctx, err)
		return
	}

	c.listResponse(requests, total, page, pageSize, identity)
}

// UpdateMaintenanceRequest 表示更新工单的请求体。
// 不同角色只能使用其中对应的字段子集，越权字段会被忽略或拒绝。
type UpdateMaintenanceRequest struct {
	Status              *models.RequestStatus   `json:"status" example:"in_progress"`
	AssignedTo          *uint                   `json:"assigned_to" example:"1"`
	Priority            *models.RequestPriority `json:"priority" example:"urgent"`
	CategoryID          *uint                   `json:"category_id" example:"1"`
	Title               *string                 `json:"title" example:"厨房水管漏水"`
	Description         *string                 `json:"description" example:"水槽下方接口持续渗水"`
	LocationDescription *string                 `json:"location_description" example:"厨房水槽下方"`
	TenantAvailability  *string                 `json:"tenant_availability" example:"工作日9:00-18:00"`
	PermissionToEnter   *bool                   `json:"permission_to_enter" example:"true"`
	EstimatedCost       *decimal.Decimal        `json:"estimated_cost" example:"200.00"`
	ActualCost          *decimal.Decimal        `json:"actual_cost" example:"180.50"`
	InternalNotes       *string                 `json:"internal_notes" example:"需要采购配件"`
	CancellationReason  *string                 `json:"cancellation_reason" example:"租户自行解决"`
	Rating              *int                    `json:"rating" example:"5"`
	Feedback            *string                 `json:"feedback" example:"响应很及时"`
	Message             *string                 `json:"message" example:"已更换密封圈"`
	Images              []models.Attachment     `json:"images"`
}

// UpdateRequest 更新工单，按调用方角色套用对应的字段范围
// @Summary      更新维修工单
// @Description  租户可评分和补充说明；维修人员可流转状态、填实际费用和备注；管理角色可更新全部字段
// @Tags         MaintenanceRequest
// @Accept       json
// @Produce      json
// @Param        id path int true "工单ID" example:"1"
// @Param        request body UpdateMaintenanceRequest true "更新内容"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Router       /maintenance/requests/{id} [put]
// @Security     BearerAuth
func (c *MaintenanceRequestController) UpdateRequest() {
	id, ok := c.requestID()
	if !ok {
		return
	}

	var req UpdateMaintenanceRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, "无效的请求参数: "+err.Error())
		return
	}

	identity, _ := middleware.GetIdentity(c.Ctx)
	svc := c.requestService()

	var updated *models.MaintenanceRequest
	var err error
	switch identity.Role {
	case models.RoleTenant:
		updated, err = svc.ApplyTenantUpdate(id, &services.TenantRequestUpdate{
			Rating:   req.Rating,
			Feedback: req.Feedback,
			Message:  req.Message,
			Images:   req.Images,
		}, identity)
	case models.RoleMaintenance:
		updated, err = svc.ApplyStaffUpdate(id, &services.StaffRequestUpdate{
			Status:     req.Status,
			ActualCost: req.ActualCost,
			Message:    req.Message,
			Images:     req.Images,
		}, identity)
	case models.RoleAdmin, models.RoleManager:
		updated, err = svc.ApplyManagerUpdate(id, &services.ManagerRequestUpdate{
			Status:              req.Status,
			AssignedTo:          req.AssignedTo,
			Priority:            req.Priority,
			CategoryID:          req.CategoryID,
			Title:               req.Title,
			Description:         req.Description,
			LocationDescription: req.LocationDescription,
			TenantAvailability:  req.TenantAvailability,
			PermissionToEnter:   req.PermissionToEnter,
			EstimatedCost:       req.EstimatedCost,
			ActualCost:          req.ActualCost,
			InternalNotes:       req.InternalNotes,
			CancellationReason:  req.CancellationReason,
			Message:             req.Message,
			Images:              req.Images,
		}, identity)
	default:
		response.Forbidden(c.Ctx)
		return
	}

	if err != nil {
		response.FailFromError(c.Ctx, err)
		return
	}

	response.Success(c.Ctx, requestView(*updated, identity))
}

// AssignMaintenanceRequest 表示指派工单的请求体
type AssignMaintenanceRequest struct {
	AssigneeID uint   `json:"assignee_id" binding:"required" example:"1"`
	Note       string `json:"note" example:"优先处理"`
}

// AssignRequest 指派工单给维修人员
// @Summary      指派维修工单
// @Description  待处理工单指派后自动进入已指派状态，重新指派不改变当前状态
// @Tags         MaintenanceRequest
// @Accept       json
// @Produce      json
// @Param        id path int true "工单ID" example:"1"
// @Param        request body AssignMaintenanceRequest true "指派信息"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Router       /maintenance/requests/{id}/assign [post]
// @Security     BearerAuth
func (c *MaintenanceRequestController) AssignRequest() {
	id, ok := c.requestID()
	if !ok {
		return
	}

	var req AssignMaintenanceRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, "无效的请求参数: "+err.Error())
		return
	}

	identity, _ := middleware.GetIdentity(c.Ctx)
	updated, err := c.requestService().AssignRequest(id, req.AssigneeID, req.Note, identity)
	if err != nil {
		response.FailFromError(c.Ctx, err)
		return
	}

	response.Success(c.Ctx, requestView(*updated, identity))
}

// CancelMaintenanceRequest 表示取消工单的请求体
type CancelMaintenanceRequest struct {
	Reason string `json:"reason" example:"租户自行解决"`
}

// CancelRequest 取消工单
// @Summary      取消维修工单
// @Tags         MaintenanceRequest
// @Accept       json
// @Produce      json
// @Param        id path int true "工单ID" example:"1"
// @Param        request body CancelMaintenanceRequest true "取消原因"
// @Success      200  {object}  map[string]interface{}
// @Failure      403  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Router       /maintenance/requests/{id}/cancel [post]
// @Security     BearerAuth
func (c *MaintenanceRequestController) CancelRequest() {
	id, ok := c.requestID()
	if !ok {
		return
	}

	var req CancelMaintenanceRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, "无效的请求参数: "+err.Error())
		return
	}

	identity, _ := middleware.GetIdentity(c.Ctx)
	updated, err := c.requestService().CancelRequest(id, req.Reason, identity)
	if err != nil {
		response.FailFromError(c.Ctx, err)
		return
	}

	response.Success(c.Ctx, requestView(*updated, identity))
}

// RateMaintenanceRequest 表示工单评分的请求体
type RateMaintenanceRequest struct {
	Rating   int    `json:"rating" binding:"required" example:"5"` // 1-5
	Feedback string `json:"feedback" example:"响应很及时"`
}

// RateRequest 租户对已完成工单评分
// @Summary      评价维修工单
// @Description  仅报修租户可以评价，且工单必须处于已完成状态
// @Tags         MaintenanceRequest
// @Accept       json
// @Produce      json
// @Param        id path int true "工单ID" example:"1"
// @Param        request body RateMaintenanceRequest true "评分信息"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Router       /maintenance/requests/{id}/rate [post]
// @Security     BearerAuth
func (c *MaintenanceRequestController) RateRequest() {
	id, ok := c.requestID()
	if !ok {
		return
	}

	var req RateMaintenanceRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, "无效的请求参数: "+err.Error())
		return
	}

	identity, _ := middleware.GetIdentity(c.Ctx)
	updated, err := c.requestService().RateRequest(id, req.Rating, req.Feedback, identity)
	if err != nil {
		response.FailFromError(c.Ctx, err)
		return
	}

	response.Success(c.Ctx, requestView(*updated, identity))
}
