package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"huntersrun-http-service/internal/app/middleware"
	"huntersrun-http-service/internal/domain/models"
	"huntersrun-http-service/internal/domain/services/container"
	"huntersrun-http-service/internal/error/response"
)

// CompanyController 处理物业公司相关的请求。
// 公司在部署时播种，这里只提供本公司信息的查看和维护。
type CompanyController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewCompanyController 创建一个新的物业公司控制器
func NewCompanyController(ctx *gin.Context, container *container.ServiceContainer) *CompanyController {
	return &CompanyController{
		Ctx:       ctx,
		Container: container,
	}
}

// HandleCompanyFunc 返回一个处理物业公司请求的Gin处理函数
func HandleCompanyFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewCompanyController(ctx, container)

		switch method {
		case "getCompany":
			controller.GetCompany()
		case "updateCompany":
			controller.UpdateCompany()
		default:
			ctx.JSON(http.StatusBadRequest, gin.H{
				"code":    400,
				"message": "无效的方法",
				"data":    nil,
			})
		}
	}
}

// GetCompany 获取调用方所属公司信息
// @Summary      获取所属公司信息
// @Tags         Company
// @Accept       json
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Router       /company [get]
// @Security     BearerAuth
func (c *CompanyController) GetCompany() {
	identity, _ := middleware.GetIdentity(c.Ctx)

	var company models.Company
	if err := c.Container.GetDB().First(&company, identity.CompanyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c.Ctx, "公司不存在")
			return
		}
		response.FailFromError(c.Ctx, err)
		return
	}

	response.Success(c.Ctx, company)
}

// UpdateCompanyRequest 表示更新公司信息的请求体
type UpdateCompanyRequest struct {
	CompanyName *string `json:"company_name" example:"亨特物业管理有限公司"`
	Status      *string `json:"status" example:"active"`
}

// UpdateCompany 更新调用方所属公司信息，仅限管理员
// @Summary      更新所属公司信息
// @Tags         Company
// @Accept       json
// @Produce      json
// @Param        request body UpdateCompanyRequest true "更新内容"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Router       /company [put]
// @Security     BearerAuth
func (c *CompanyController) UpdateCompany() {
	identity, _ := middleware.GetIdentity(c.Ctx)

	var req UpdateCompanyRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, "无效的请求参数: "+err.Error())
		return
	}

	updates := map[string]interface{}{}
	if req.CompanyName != nil {
		updates["company_name"] = *req.CompanyName
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}
	if len(updates) == 0 {
		response.ParamError(c.Ctx, "更新内容为空")
		return
	}

	db := c.Container.GetDB()
	var company models.Company
	if err := db.First(&company, identity.CompanyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c.Ctx, "公司不存在")
			return
		}
		response.FailFromError(c.Ctx, err)
		return
	}

	if err := db.Model(&company).Updates(updates).Error; err != nil {
		response.FailFromError(c.Ctx, err)
		return
	}

	response.Success(c.Ctx, company)
}
