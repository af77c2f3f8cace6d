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

// InterfaceCategoryController 定义维修类别控制器接口
type InterfaceCategoryController interface {
	GetCategories()
	GetCategory()
	CreateCategory()
	UpdateCategory()
	DeactivateCategory()
}

// CategoryController 处理维修类别相关的请求
type CategoryController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewCategoryController 创建一个新的维修类别控制器
func NewCategoryController(ctx *gin.Context, container *container.ServiceContainer) *CategoryController {
	return &CategoryController{
		Ctx:       ctx,
		Container: container,
	}
}

// HandleCategoryFunc 返回一个处理维修类别请求的Gin处理函数
func HandleCategoryFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewCategoryController(ctx, container)

		switch method {
		case "getCategories":
			controller.GetCategories()
		case "getCategory":
			controller.GetCategory()
		case "createCategory":
			controller.CreateCategory()
		case "updateCategory":
			controller.UpdateCategory()
		case "deactivateCategory":
			controller.DeactivateCategory()
		default:
			ctx.JSON(http.StatusBadRequest, gin.H{
				"code":    400,
				"message": "无效的方法",
				"data":    nil,
			})
		}
	}
}

// GetCategories 获取维修类别列表
// @Summary      获取维修类别列表
// @Description  租户只能看到启用的类别，管理角色可通过all=true查看全部
// @Tags         Category
// @Accept       json
// @Produce      json
// @Param        all query bool false "是否包含停用类别，仅管理角色有效" example:"false"
// @Success      200  {object}  map[string]interface{}
// @Failure      500  {object}  ErrorResponse
// @Router       /categories [get]
// @Security     BearerAuth
func (c *CategoryController) GetCategories() {
	categoryService := c.Container.GetService("category").(services.InterfaceCategoryService)
	identity, _ := middleware.GetIdentity(c.Ctx)

	var categories []models.MaintenanceCategory
	var err error
	if c.Ctx.Query("all") == "true" && identity.IsManagement() {
		categories, err = categoryService.GetAllCategories()
	} else {
		categories, err = categoryService.GetActiveCategories()
	}
	if err != nil {
		response.FailFromError(c.Ctx, err)
		return
	}

	response.Success(c.Ctx, categories)
}

// GetCategory 获取单个维修类别
// @Summary      获取维修类别详情
// @Tags         Category
// @Accept       json
// @Produce      json
// @Param        id path int true "类别ID" example:"1"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Router       /categories/{id} [get]
// @Security     BearerAuth
func (c *CategoryController) GetCategory() {
	id, err := strconv.ParseUint(c.Ctx.Param("id"), 10, 32)
	if err != nil {
		response.ParamError(c.Ctx, "无效的ID参数")
		return
	}

	categoryService := c.Container.GetService("category").(services.InterfaceCategoryService)
	category, err := categoryService.GetCategoryByID(uint(id))
	if err != nil {
		response.FailFromError(c.Ctx, err)
		return
	}

	response.Success(c.Ctx, category)
}

// CreateCategoryRequest 表示创建维修类别的请求体
type CreateCategoryRequest struct {
	Name  string `json:"name" binding:"required" example:"水电维修"`
	Color string `json:"color" example:"#1E90FF"`
	Icon  string `json:"icon" example:"plumbing"`
}

// CreateCategory 创建维修类别
// @Summary      创建维修类别
// @Tags         Category
// @Accept       json
// @Produce      json
// @Param        request body CreateCategoryRequest true "类别信息"
// @Success      201  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Router       /categories [post]
// @Security     BearerAuth
func (c *CategoryController) CreateCategory() {
	var req CreateCategoryRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, "无效的请求参数: "+err.Error())
		return
	}

	category := &models.MaintenanceCategory{
		Name:     req.Name,
		Color:    req.Color,
		Icon:     req.Icon,
		IsActive: true,
	}

	categoryService := c.Container.GetService("category").(services.InterfaceCategoryService)
	if err := categoryService.CreateCategory(category); err != nil {
		response.FailFromError(c.Ctx, err)
		return
	}

	middleware.PurgeCache()
	response.Created(c.Ctx, category)
}

// UpdateCategoryRequest 表示更新维修类别的请求体
type UpdateCategoryRequest struct {
	Name     *string `json:"name" example:"水电维修"`
	Color    *string `json:"color" example:"#1E90FF"`
	Icon     *string `json:"icon" example:"plumbing"`
	IsActive *bool   `json:"is_active" example:"true"`
}

// UpdateCategory 更新维修类别
// @Summary      更新维修类别
// @Tags         Category
// @Accept       json
// @Produce      json
// @Param        id path int true "类别ID" example:"1"
// @Param        request body UpdateCategoryRequest true "更新内容"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /categories/{id} [put]
// @Security     BearerAuth
func (c *CategoryController) UpdateCategory() {
	id, err := strconv.ParseUint(c.Ctx.Param("id"), 10, 32)
	if err != nil {
		response.ParamError(c.Ctx, "无效的ID参数")
		return
	}

	var req UpdateCategoryRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, "无效的请求参数: "+err.Error())
		return
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Color != nil {
		updates["color"] = *req.Color
	}
	if req.Icon != nil {
		updates["icon"] = *req.Icon
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if len(updates) == 0 {
		response.ParamError(c.Ctx, "更新内容为空")
		return
	}

	categoryService := c.Container.GetService("category").(services.InterfaceCategoryService)
	category, err := categoryService.UpdateCategory(uint(id), updates)
	if err != nil {
		response.FailFromError(c.Ctx, err)
		return
	}

	middleware.PurgeCache()
	response.Success(c.Ctx, category)
}

// DeactivateCategory 停用维修类别，类别只停用不物理删除
// @Summary      停用维修类别
// @Tags         Category
// @Accept       json
// @Produce      json
// @Param        id path int true "类别ID" example:"1"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Router       /categories/{id} [delete]
// @Security     BearerAuth
func (c *CategoryController) DeactivateCategory() {
	id, err := strconv.ParseUint(c.Ctx.Param("id"), 10, 32)
	if err != nil {
		response.ParamError(c.Ctx, "无效的ID参数")
		return
	}

	categoryService := c.Container.GetService("category").(services.InterfaceCategoryService)
	if err := categoryService.DeactivateCategory(uint(id)); err != nil {
		response.FailFromError(c.Ctx, err)
		return
	}

	middleware.PurgeCache()
	response.Success(c.Ctx, gin.H{"message": "类别已停用"})
}
