package container

import (
	"gorm.io/gorm"

	"huntersrun-http-service/internal/domain/services"
	"huntersrun-http-service/internal/infrastructure/config"
	"huntersrun-http-service/pkg/logger"
)

// ServiceContainer 持有全部服务实例，按名称提供查找
type ServiceContainer struct {
	DB     *gorm.DB
	Config *config.Config

	jwtService      services.InterfaceJWTService
	redisService    services.InterfaceRedisService
	policyService   services.InterfaceAccessPolicyService
	propertyService services.InterfacePropertyService
	buildingService services.InterfaceBuildingService
	categoryService services.InterfaceCategoryService
	staffService    services.InterfaceStaffService
	tenantService   services.InterfaceTenantService
	requestService  services.InterfaceMaintenanceRequestService
	statsService    services.InterfaceMaintenanceStatsService
}

// NewServiceContainer 创建并装配服务容器
func NewServiceContainer(db *gorm.DB, cfg *config.Config) *ServiceContainer {
	container := &ServiceContainer{
		DB:     db,
		Config: cfg,
	}

	container.jwtService = services.NewJWTService(cfg)
	container.redisService = services.NewRedisService(cfg)
	if err := container.redisService.Ping(); err != nil {
		// Redis不可用时降级为直连数据库，只影响类别缓存
		logger.Warning("Redis连接失败，类别缓存降级: %v", err)
		container.redisService = nil
	}

	container.policyService = services.NewAccessPolicyService()
	container.propertyService = services.NewPropertyService(db, cfg)
	container.buildingService = services.NewBuildingService(db, cfg)
	container.categoryService = services.NewCategoryService(db, cfg, container.redisService)
	container.staffService = services.NewStaffService(db, cfg)
	container.tenantService = services.NewTenantService(db, cfg)
	container.requestService = services.NewMaintenanceRequestService(db, cfg, container.propertyService, container.policyService)
	container.statsService = services.NewMaintenanceStatsService(db, cfg)

	return container
}

// GetService 按名称获取服务实例
func (c *ServiceContainer) GetService(name string) interface{} {
	switch name {
	case "jwt":
		return c.jwtService
	case "redis":
		return c.redisService
	case "policy":
		return c.policyService
	case "property":
		return c.propertyService
	case "building":
		return c.buildingService
	case "category":
		return c.categoryService
	case "staff":
		return c.staffService
	case "tenant":
		return c.tenantService
	case "request":
		return c.requestService
	case "stats":
		return c.statsService
	default:
		return nil
	}
}

// GetDB 获取数据库连接
func (c *ServiceContainer) GetDB() *gorm.DB {
	return c.DB
}
