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

// InterfacePropertyController 定义物业控制器接口
type InterfacePropertyController interface {
	GetProperties()
	GetProperty()
	CreateProperty()
	UpdateProperty()
	DeleteProperty()
	GetBuildings()
	CreateBuilding()
	GetUnits()
	CreateUnit()
}

// PropertyController 处理物业及其楼号、户号相关的请求
type PropertyController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewPropertyController 创建一个新的物业控制器
func NewPropertyController(ctx *gin.Context, container *container.ServiceContainer) *PropertyController {
	return &PropertyController{
		Ctx:       ctx,
		Container: container,
	}
}

// HandlePropertyFunc 返回一个处理物业请求的Gin处理函数
func HandlePropertyFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewPropertyController(ctx, container)

		switch method {
		case "getProperties":
			controller.GetProperties()
		case "getProperty":
			controller.GetProperty()
		case "createProperty":
			controller.CreateProperty()
		case "updateProperty":
			controller.UpdateProperty()
		case "deleteProperty":
			controller.DeleteProperty()
		case "getBuildings":
			controller.GetBuildings()
		case "createBuilding":
			controller.CreateBuilding()
		case "getUnits":
			controller.GetUnits()
		case "createUnit":
			controller.CreateUnit()
		default:
			ctx.JSON(http.StatusBadRequest, gin.H{
				"code":    400,
				"message": "无效的方法",
				"data":    nil,
			})
		}
	}
}

// propertyID 解析路径中的物业ID并校验归属公司
func (c *PropertyController) propertyID() (uint, bool) {
	id, err := strconv.ParseUint(c.Ctx.Param("id"), 10, 32)
	if err != nil {
		response.ParamError(c.Ctx, "无效的ID参数")
		return 0, false
	}

	identity, _ := middleware.GetIdentity(c.Ctx)
	propertyService := c.Container.GetService("property").(services.InterfacePropertyService)
	companyID, err := propertyService.ResolveCompanyID(uint(id))
	if err != nil {
		response.FailFromError(c.Ctx, err)
		return 0, false
	}
	if companyID != identity.CompanyID {
		response.NotFound(c.Ctx, "物业不存在")
		return 0, false
	}

	return uint(id), true
}

// GetProperties 获取本公司的物业列表
// @Summary      获取物业列表
// @Tags         Property
// @Accept       json
// @Produce      json
// @Param        page query int false "页码，默认为1" example:"1"
// @Param        page_size query int false "每页条数，默认为10" example:"10"
// @Success      200  {object}  map[string]interface{}
// @Failure      500  {object}  ErrorResponse
// @Router       /properties [get]
// @Security     BearerAuth
func (c *PropertyController) GetProperties() {
	page, _ := strconv.Atoi(c.Ctx.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.Ctx.DefaultQuery("page_size", "10"))

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}

	identity, _ := middleware.GetIdentity(c.Ctx)
	propertyService := c.Container.GetService("property").(services.InterfacePropertyService)

	properties, total, err := propertyService.GetAllProperties(identity.CompanyID, page, pageSize)
	if err != nil {
		response.FailFromError(c.Ctx, err)
		return
	}

	response.Success(c.Ctx, gin.H{
		"total":       total,
		"page":        page,
		"page_size":   pageSize,
		"total_pages": (total + int64(pageSize) - 1) / int64(pageSize),
		"data":        properties,
	})
}

// GetProperty 获取单个物业详情
// @Summary      获取物业详情
// @Tags         Property
// @Accept       json
// @Produce      json
// @Param        id path int true "物业ID" example:"1"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Router       /properties/{id} [get]
// @Security     BearerAuth
func (c *PropertyController) GetProperty() {
	id, ok := c.propertyID()
	if !ok {
		return
	}

	propertyService := c.Container.GetService("property").(services.InterfacePropertyService)
	property, err := propertyService.GetPropertyByID(id)
	if err != nil {
		response.FailFromError(c.Ctx, err)
		return
	}

	response.Success(c.Ctx, property)
}

// CreatePropertyRequest 表示创建物业的请求体
type CreatePropertyRequest struct {
	PropertyName string `json:"property_name" binding:"required" example:"亨特小区"`
	PropertyCode string `json:"property_code" binding:"required" example:"P001"`
	Address      string `json:"address" example:"某市某区某路1号"`
}

// CreateProperty 创建物业
// @Summary      创建物业
// @Tags         Property
// @Accept       json
// @Produce      json
// @Param        request body CreatePropertyRequest true "物业信息"
// @Success      201  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Router       /properties [post]
// @Security     BearerAuth
func (c *PropertyController) CreateProperty() {
	var req CreatePropertyRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, "无效的请求参数: "+err.Error())
		return
	}

	identity, _ := middleware.GetIdentity(c.Ctx)
	property := &models.Property{
		CompanyID:    identity.CompanyID,
		PropertyName: req.PropertyName,
		PropertyCode: req.PropertyCode,
		Address:      req.Address,
	}

	propertyService := c.Container.GetService("property").(services.InterfacePropertyService)
	if err := propertyService.CreateProperty(property); err != nil {
		response.FailFromError(c.Ctx, err)
		return
	}

	response.Created(c.Ctx, property)
}

// UpdatePropertyRequest 表示更新物业的请求体
type UpdatePropertyRequest struct {
	PropertyName *string `json:"property_name" example:"亨特小区"`
	Address      *string `json:"address" example:"某市某区某路1号"`
	Status       *string `json:"status" example:"active"`
}

// UpdateProperty 更新物业
// @Summary      更新物业
// @Tags         Property
// @Accept       json
// @Produce      json
// @Param        id path int true "物业ID" example:"1"
// @Param        request body UpdatePropertyRequest true "更新内容"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /properties/{id} [put]
// @Security     BearerAuth
func (c *PropertyController) UpdateProperty() {
	id, ok := c.propertyID()
	if !ok {
		return
	}

	var req UpdatePropertyRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, "无效的请求参数: "+err.Error())
		return
	}

	updates := map[string]interface{}{}
	if req.PropertyName != nil {
		updates["property_name"] = *req.PropertyName
	}
	if req.Address != nil {
		updates["address"] = *req.Address
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}
	if len(updates) == 0 {
		response.ParamError(c.Ctx, "更新内容为空")
		return
	}

	propertyService := c.Container.GetService("property").(services.InterfacePropertyService)
	property, err := propertyService.UpdateProperty(id, updates)
	if err != nil {
		response.FailFromError(c.Ctx, err)
		return
	}

	response.Success(c.Ctx, property)
}

// DeleteProperty 删除物业，存在关联工单时拒绝删除
// @Summary      删除物业
// @Tags         Property
// @Accept       json
// @Produce      json
// @Param        id path int true "物业ID" example:"1"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Router       /properties/{id} [delete]
// @Security     BearerAuth
func (c *PropertyController) DeleteProperty() {
	id, ok := c.propertyID()
	if !ok {
		return
	}

	propertyService := c.Container.GetService("property").(services.InterfacePropertyService)
	if err := propertyService.DeleteProperty(id); err != nil {
		response.FailFromError(c.Ctx, err)
		return
	}

	response.Success(c.Ctx, gin.H{"message": "物业已删除"})
}

// GetBuildings 获取物业下的楼号列表
// @Summary      获取楼号列表
// @Tags         Property
// @Accept       json
// @Produce      json
// @Param        id path int true "物业ID" example:"1"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Router       /properties/{id}/buildings [get]
// @Security     BearerAuth
func (c *PropertyController) GetBuildings() {
	id, ok := c.propertyID()
	if !ok {
		return
	}

	buildingService := c.Container.GetService("building").(services.InterfaceBuildingService)
	buildings, err := buildingService.GetBuildingsByProperty(id)
	if err != nil {
		response.FailFromError(c.Ctx, err)
		return
	}

	response.Success(c.Ctx, buildings)
}

// CreateBuildingRequest 表示创建楼号的请求体
type CreateBuildingRequest struct {
	BuildingName string `json:"building_name" binding:"required" example:"1号楼"`
	BuildingCode string `json:"building_code" binding:"required" example:"B001"`
}

// CreateBuilding 在物业下创建楼号
// @Summary      创建楼号
// @Tags         Property
// @Accept       json
// @Produce      json
// @Param        id path int true "物业ID" example:"1"
// @Param        request body CreateBuildingRequest true "楼号信息"
// @Success      201  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Router       /properties/{id}/buildings [post]
// @Security     BearerAuth
func (c *PropertyController) CreateBuilding() {
	id, ok := c.propertyID()
	if !ok {
		return
	}

	var req CreateBuildingRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, "无效的请求参数: "+err.Error())
		return
	}

	building := &models.Building{
		PropertyID:   id,
		BuildingName: req.BuildingName,
		BuildingCode: req.BuildingCode,
	}

	buildingService := c.Container.GetService("building").(services.InterfaceBuildingService)
	if err := buildingService.CreateBuilding(building); err != nil {
		response.FailFromError(c.Ctx, err)
		return
	}

	response.Created(c.Ctx, building)
}

// GetUnits 获取物业下的户号列表，可选按楼号过滤
// @Summary      获取户号列表
// @Tags         Property
// @Accept       json
// @Produce      json
// @Param        id path int true "物业ID" example:"1"
// @Param        building_id query int false "楼号ID" example:"1"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Router       /properties/{id}/units [get]
// @Security     BearerAuth
func (c *PropertyController) GetUnits() {
	id, ok := c.propertyID()
	if !ok {
		return
	}

	var buildingID *uint
	if raw := c.Ctx.Query("building_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			response.ParamError(c.Ctx, "无效的楼号ID参数")
			return
		}
		value := uint(parsed)
		buildingID = &value
	}

	buildingService := c.Container.GetService("building").(services.InterfaceBuildingService)
	units, err := buildingService.GetUnitsByProperty(id, buildingID)
	if err != nil {
		response.FailFromError(c.Ctx, err)
		return
	}

	response.Success(c.Ctx, units)
}

// CreateUnitRequest 表示创建户号的请求体
type CreateUnitRequest struct {
	BuildingID *uint  `json:"building_id" example:"1"`
	UnitNumber string `json:"unit_number" binding:"required" example:"1-101"`
	Floor      int    `json:"floor" example:"1"`
}

// CreateUnit 在物业下创建户号
// @Summary      创建户号
// @Tags         Property
// @Accept       json
// @Produce      json
// @Param        id path int true "物业ID" example:"1"
// @Param        request body CreateUnitRequest true "户号信息"
// @Success      201  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Router       /properties/{id}/units [post]
// @Security     BearerAuth
func (c *PropertyController) CreateUnit() {
	id, ok := c.propertyID()
	if !ok {
		return
	}

	var req CreateUnitRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, "无效的请求参数: "+err.Error())
		return
	}

	unit := &models.Unit{
		PropertyID: id,
		BuildingID: req.BuildingID,
		UnitNumber: req.UnitNumber,
		Floor:      req.Floor,
	}

	buildingService := c.Container.GetService("building").(services.InterfaceBuildingService)
	if err := buildingService.CreateUnit(unit); err != nil {
		response.FailFromError(c.Ctx, err)
		return
	}

	response.Created(c.Ctx, unit)
}
