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

// InterfaceStaffController 定义物业员工控制器接口
type InterfaceStaffController interface {
	GetStaffs()
	GetStaff()
	CreateStaff()
	UpdateStaff()
	DeleteStaff()
}

// StaffController 处理物业员工相关的请求
type StaffController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewStaffController 创建一个新的物业员工控制器
func NewStaffController(ctx *gin.Context, container *container.ServiceContainer) *StaffController {
	return &StaffController{
		Ctx:       ctx,
		Container: container,
	}
}

// HandleStaffFunc 返回一个处理物业员工请求的Gin处理函数
func HandleStaffFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewStaffController(ctx, container)

		switch method {
		case "getStaffs":
			controller.GetStaffs()
		case "getStaff":
			controller.GetStaff()
		case "createStaff":
			controller.CreateStaff()
		case "updateStaff":
			controller.UpdateStaff()
		case "deleteStaff":
			controller.DeleteStaff()
		default:
			ctx.JSON(http.StatusBadRequest, gin.H{
				"code":    400,
				"message": "无效的方法",
				"data":    nil,
			})
		}
	}
}

// loadScopedStaff 加载员工并校验归属公司
func (c *StaffController) loadScopedStaff() (*models.Staff, bool) {
	id, err := strconv.ParseUint(c.Ctx.Param("id"), 10, 32)
	if err != nil {
		response.ParamError(c.Ctx, "无效的ID参数")
		return nil, false
	}

	staffService := c.Container.GetService("staff").(services.InterfaceStaffService)
	staff, err := staffService.GetStaffByID(uint(id))
	if err != nil {
		response.FailFromError(c.Ctx, err)
		return nil, false
	}

	identity, _ := middleware.GetIdentity(c.Ctx)
	if staff.CompanyID != identity.CompanyID {
		response.NotFound(c.Ctx, "物业员工不存在")
		return nil, false
	}

	return staff, true
}

// GetStaffs 获取物业员工列表
// @Summary      获取物业员工列表
// @Description  获取本公司物业员工的列表，支持按角色过滤和分页。role=maintenance用于获取可指派的维修人员。
// @Tags         Staff
// @Accept       json
// @Produce      json
// @Param        page query int false "页码，默认为1" example:"1"
// @Param        page_size query int false "每页条数，默认为10" example:"10"
// @Param        role query string false "角色过滤" example:"maintenance"
// @Success      200  {object}  map[string]interface{}
// @Failure      500  {object}  ErrorResponse
// @Router       /staffs [get]
// @Security     BearerAuth
func (c *StaffController) GetStaffs() {
	page, _ := strconv.Atoi(c.Ctx.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.Ctx.DefaultQuery("page_size", "10"))
	role := c.Ctx.Query("role")

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}

	identity, _ := middleware.GetIdentity(c.Ctx)
	staffService := c.Container.GetService("staff").(services.InterfaceStaffService)

	staffs, total, err := staffService.GetAllStaffs(identity.CompanyID, role, page, pageSize)
	if err != nil {
		response.FailFromError(c.Ctx, err)
		return
	}

	var staffResponses []gin.H
	for _, staff := range staffs {
		staffResponses = append(staffResponses, gin.H{
			"id":         staff.ID,
			"name":       staff.Name,
			"phone":      staff.Phone,
			"position":   staff.Position,
			"role":       staff.Role,
			"status":     staff.Status,
			"username":   staff.Username,
			"created_at": staff.CreatedAt,
			"updated_at": staff.UpdatedAt,
		})
	}

	response.Success(c.Ctx, gin.H{
		"total":       total,
		"page":        page,
		"page_size":   pageSize,
		"total_pages": (total + int64(pageSize) - 1) / int64(pageSize),
		"data":        staffResponses,
	})
}

// GetStaff 获取单个物业员工详情
// @Summary      获取物业员工详情
// @Tags         Staff
// @Accept       json
// @Produce      json
// @Param        id path int true "物业员工ID" example:"1"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /staffs/{id} [get]
// @Security     BearerAuth
func (c *StaffController) GetStaff() {
	staff, ok := c.loadScopedStaff()
	if !ok {
		return
	}

	response.Success(c.Ctx, gin.H{
		"id":         staff.ID,
		"name":       staff.Name,
		"phone":      staff.Phone,
		"position":   staff.Position,
		"role":       staff.Role,
		"status":     staff.Status,
		"username":   staff.Username,
		"remark":     staff.Remark,
		"created_at": staff.CreatedAt,
		"updated_at": staff.UpdatedAt,
	})
}

// CreateStaffRequest 表示创建物业员工的请求体
type CreateStaffRequest struct {
	Name     string `json:"name" binding:"required" example:"王维修"`
	Phone    string `json:"phone" binding:"required" example:"13700001234"`
	Position string `json:"position" example:"维修组长"`
	Role     string `json:"role" binding:"required" example:"maintenance"` // 可选值: admin, manager, maintenance
	Status   string `json:"status" example:"active"`                       // 可选值: active, inactive, suspended
	Remark   string `json:"remark" example:"负责A区水电维修"`
	Username string `json:"username" binding:"required" example:"wangweixiu"`
	Password string `json:"password" binding:"required" example:"Property@123"`
}

// CreateStaff 创建新物业员工
// @Summary      创建物业员工
// @Tags         Staff
// @Accept       json
// @Produce      json
// @Param        request body CreateStaffRequest true "物业员工信息"
// @Success      201  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Router       /staffs [post]
// @Security     BearerAuth
func (c *StaffController) CreateStaff() {
	var req CreateStaffRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, "无效的请求参数: "+err.Error())
		return
	}

	identity, _ := middleware.GetIdentity(c.Ctx)
	staff := &models.Staff{
		CompanyID: identity.CompanyID,
		Name:      req.Name,
		Phone:     req.Phone,
		Position:  req.Position,
		Role:      req.Role,
		Status:    req.Status,
		Remark:    req.Remark,
		Username:  req.Username,
		Password:  req.Password,
	}

	staffService := c.Container.GetService("staff").(services.InterfaceStaffService)
	if err := staffService.CreateStaff(staff); err != nil {
		response.FailFromError(c.Ctx, err)
		return
	}

	response.Created(c.Ctx, gin.H{
		"id":       staff.ID,
		"name":     staff.Name,
		"role":     staff.Role,
		"username": staff.Username,
	})
}

// UpdateStaffRequest 表示更新物业员工的请求体
type UpdateStaffRequest struct {
	Name     *string `json:"name" example:"王维修"`
	Phone    *string `json:"phone" example:"13700001234"`
	Position *string `json:"position" example:"维修组长"`
	Role     *string `json:"role" example:"maintenance"`
	Status   *string `json:"status" example:"active"`
	Remark   *string `json:"remark" example:"负责A区水电维修"`
}

// UpdateStaff 更新物业员工
// @Summary      更新物业员工
// @Tags         Staff
// @Accept       json
// @Produce      json
// @Param        id path int true "物业员工ID" example:"1"
// @Param        request body UpdateStaffRequest true "更新内容"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /staffs/{id} [put]
// @Security     BearerAuth
func (c *StaffController) UpdateStaff() {
	staff, ok := c.loadScopedStaff()
	if !ok {
		return
	}

	var req UpdateStaffRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, "无效的请求参数: "+err.Error())
		return
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.Position != nil {
		updates["position"] = *req.Position
	}
	if req.Role != nil {
		updates["role"] = *req.Role
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}
	if req.Remark != nil {
		updates["remark"] = *req.Remark
	}
	if len(updates) == 0 {
		response.ParamError(c.Ctx, "更新内容为空")
		return
	}

	staffService := c.Container.GetService("staff").(services.InterfaceStaffService)
	updated, err := staffService.UpdateStaff(staff.ID, updates)
	if err != nil {
		response.FailFromError(c.Ctx, err)
		return
	}

	response.Success(c.Ctx, gin.H{
		"id":       updated.ID,
		"name":     updated.Name,
		"role":     updated.Role,
		"status":   updated.Status,
		"username": updated.Username,
	})
}

// DeleteStaff 删除物业员工，名下存在未完结工单时拒绝删除
// @Summary      删除物业员工
// @Tags         Staff
// @Accept       json
// @Produce      json
// @Param        id path int true "物业员工ID" example:"1"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Router       /staffs/{id} [delete]
// @Security     BearerAuth
func (c *StaffController) DeleteStaff() {
	staff, ok := c.loadScopedStaff()
	if !ok {
		return
	}

	staffService := c.Container.GetService("staff").(services.InterfaceStaffService)
	if err := staffService.DeleteStaff(staff.ID); err != nil {
		response.FailFromError(c.Ctx, err)
		return
	}

	response.Success(c.Ctx, gin.H{"message": "物业员工已删除"})
}
