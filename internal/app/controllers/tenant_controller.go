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

// InterfaceTenantController 定义租户控制器接口
type InterfaceTenantController interface {
	GetTenants()
	GetTenant()
	CreateTenant()
	UpdateTenant()
	DeleteTenant()
}

// TenantController 处理租户相关的请求
type TenantController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewTenantController 创建一个新的租户控制器
func NewTenantController(ctx *gin.Context, container *container.ServiceContainer) *TenantController {
	return &TenantController{
		Ctx:       ctx,
		Container: container,
	}
}

// HandleTenantFunc 返回一个处理租户请求的Gin处理函数
func HandleTenantFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewTenantController(ctx, container)

		switch method {
		case "getTenants":
			controller.GetTenants()
		case "getTenant":
			controller.GetTenant()
		case "createTenant":
			controller.CreateTenant()
		case "updateTenant":
			controller.UpdateTenant()
		case "deleteTenant":
			controller.DeleteTenant()
		default:
			ctx.JSON(http.StatusBadRequest, gin.H{
				"code":    400,
				"message": "无效的方法",
				"data":    nil,
			})
		}
	}
}

// loadScopedTenant 加载租户并校验归属公司
func (c *TenantController) loadScopedTenant() (*models.Tenant, bool) {
	id, err := strconv.ParseUint(c.Ctx.Param("id"), 10, 32)
	if err != nil {
		response.ParamError(c.Ctx, "无效的ID参数")
		return nil, false
	}

	tenantService := c.Container.GetService("tenant").(services.InterfaceTenantService)
	tenant, err := tenantService.GetTenantByID(uint(id))
	if err != nil {
		response.FailFromError(c.Ctx, err)
		return nil, false
	}

	identity, _ := middleware.GetIdentity(c.Ctx)
	if tenant.CompanyID != identity.CompanyID {
		response.NotFound(c.Ctx, "租户不存在")
		return nil, false
	}

	return tenant, true
}

// GetTenants 获取租户列表
// @Summary      获取租户列表
// @Description  获取本公司租户的列表，支持按物业过滤和分页
// @Tags         Tenant
// @Accept       json
// @Produce      json
// @Param        page query int false "页码，默认为1" example:"1"
// @Param        page_size query int false "每页条数，默认为10" example:"10"
// @Param        property_id query int false "物业ID过滤" example:"1"
// @Success      200  {object}  map[string]interface{}
// @Failure      500  {object}  ErrorResponse
// @Router       /tenants [get]
// @Security     BearerAuth
func (c *TenantController) GetTenants() {
	page, _ := strconv.Atoi(c.Ctx.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.Ctx.DefaultQuery("page_size", "10"))

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}

	var propertyID *uint
	if raw := c.Ctx.Query("property_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			response.ParamError(c.Ctx, "无效的物业ID参数")
			return
		}
		value := uint(parsed)
		propertyID = &value
	}

	identity, _ := middleware.GetIdentity(c.Ctx)
	tenantService := c.Container.GetService("tenant").(services.InterfaceTenantService)

	tenants, total, err := tenantService.GetAllTenants(identity.CompanyID, propertyID, page, pageSize)
	if err != nil {
		response.FailFromError(c.Ctx, err)
		return
	}

	var tenantResponses []gin.H
	for _, tenant := range tenants {
		row := gin.H{
			"id":          tenant.ID,
			"name":        tenant.Name,
			"phone":       tenant.Phone,
			"email":       tenant.Email,
			"property_id": tenant.PropertyID,
			"unit_id":     tenant.UnitID,
			"status":      tenant.Status,
			"created_at":  tenant.CreatedAt,
		}
		if tenant.Unit != nil {
			row["unit_number"] = tenant.Unit.UnitNumber
		}
		tenantResponses = append(tenantResponses, row)
	}

	response.Success(c.Ctx, gin.H{
		"total":       total,
		"page":        page,
		"page_size":   pageSize,
		"total_pages": (total + int64(pageSize) - 1) / int64(pageSize),
		"data":        tenantResponses,
	})
}

// GetTenant 获取单个租户详情
// @Summary      获取租户详情
// @Tags         Tenant
// @Accept       json
// @Produce      json
// @Param        id path int true "租户ID" example:"1"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /tenants/{id} [get]
// @Security     BearerAuth
func (c *TenantController) GetTenant() {
	tenant, ok := c.loadScopedTenant()
	if !ok {
		return
	}

	response.Success(c.Ctx, tenant)
}

// CreateTenantRequest 表示创建租户的请求体
type CreateTenantRequest struct {
	PropertyID uint   `json:"property_id" binding:"required" example:"1"`
	UnitID     *uint  `json:"unit_id" example:"1"`
	Name       string `json:"name" binding:"required" example:"李租户"`
	Email      string `json:"email" example:"tenant@example.com"`
	Phone      string `json:"phone" binding:"required" example:"13800001234"`
	Username   string `json:"username" binding:"required" example:"lizuhu"`
	Password   string `json:"password" binding:"required" example:"Tenant@123"`
}

// CreateTenant 创建新租户
// @Summary      创建租户
// @Tags         Tenant
// @Accept       json
// @Produce      json
// @Param        request body CreateTenantRequest true "租户信息"
// @Success      201  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Router       /tenants [post]
// @Security     BearerAuth
func (c *TenantController) CreateTenant() {
	var req CreateTenantRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, "无效的请求参数: "+err.Error())
		return
	}

	identity, _ := middleware.GetIdentity(c.Ctx)
	tenant := &models.Tenant{
		CompanyID:  identity.CompanyID,
		PropertyID: req.PropertyID,
		UnitID:     req.UnitID,
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
		Username:   req.Username,
		Password:   req.Password,
	}

	tenantService := c.Container.GetService("tenant").(services.InterfaceTenantService)
	if err := tenantService.CreateTenant(tenant); err != nil {
		response.FailFromError(c.Ctx, err)
		return
	}

	response.Created(c.Ctx, gin.H{
		"id":          tenant.ID,
		"name":        tenant.Name,
		"property_id": tenant.PropertyID,
		"username":    tenant.Username,
	})
}

// UpdateTenantRequest 表示更新租户的请求体
type UpdateTenantRequest struct {
	Name   *string `json:"name" example:"李租户"`
	Email  *string `json:"email" example:"tenant@example.com"`
	Phone  *string `json:"phone" example:"13800001234"`
	UnitID *uint   `json:"unit_id" example:"1"`
	Status *string `json:"status" example:"active"`
}

// UpdateTenant 更新租户
// @Summary      更新租户
// @Tags         Tenant
// @Accept       json
// @Produce      json
// @Param        id path int true "租户ID" example:"1"
// @Param        request body UpdateTenantRequest true "更新内容"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /tenants/{id} [put]
// @Security     BearerAuth
func (c *TenantController) UpdateTenant() {
	tenant, ok := c.loadScopedTenant()
	if !ok {
		return
	}

	var req UpdateTenantRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, "无效的请求参数: "+err.Error())
		return
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Email != nil {
		updates["email"] = *req.Email
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.UnitID != nil {
		updates["unit_id"] = *req.UnitID
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}
	if len(updates) == 0 {
		response.ParamError(c.Ctx, "更新内容为空")
		return
	}

	tenantService := c.Container.GetService("tenant").(services.InterfaceTenantService)
	updated, err := tenantService.UpdateTenant(tenant.ID, updates)
	if err != nil {
		response.FailFromError(c.Ctx, err)
		return
	}

	response.Success(c.Ctx, updated)
}

// DeleteTenant 删除租户
// @Summary      删除租户
// @Tags         Tenant
// @Accept       json
// @Produce      json
// @Param        id path int true "租户ID" example:"1"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Router       /tenants/{id} [delete]
// @Security     BearerAuth
func (c *TenantController) DeleteTenant() {
	tenant, ok := c.loadScopedTenant()
	if !ok {
		return
	}

	tenantService := c.Container.GetService("tenant").(services.InterfaceTenantService)
	if err := tenantService.DeleteTenant(tenant.ID); err != nil {
		response.FailFromError(c.Ctx, err)
		return
	}

	response.Success(c.Ctx, gin.H{"message": "租户已删除"})
}
