package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	_ "huntersrun-http-service/docs"
	"huntersrun-http-service/internal/app/controllers"
	"huntersrun-http-service/internal/app/middleware"
	"huntersrun-http-service/internal/domain/services/container"
	"huntersrun-http-service/internal/infrastructure/config"
)

// SetupRouter 初始化并返回配置好的路由
func SetupRouter(db *gorm.DB, cfg *config.Config) *gin.Engine {
	// 初始化 Gin
	r := gin.Default()

	// 添加 CORS 中间件
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, Accept, Origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS, PATCH")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})
	// 设置正确的Content-Type，确保UTF-8编码
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json; charset=utf-8")
		c.Next()
	})

	// 创建服务容器
	serviceContainer := container.NewServiceContainer(db, cfg)
	// 初始化认证中间件
	middleware.InitAuthMiddleware(cfg)
	// 添加 Swagger 文档路由
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	registerRoutes(r, serviceContainer)
	return r
}

// registerRoutes 配置所有API路由
func registerRoutes(
	r *gin.Engine,
	container *container.ServiceContainer,
) {
	api := r.Group("/api")
	registerPublicRoutes(api, container)
	registerAuthenticatedRoutes(api, container)
}

// registerPublicRoutes 注册公共路由
func registerPublicRoutes(
	api *gin.RouterGroup,
	container *container.ServiceContainer,
) {
	// 公开接口按IP限流 - 每秒10个请求，最多突发20个
	api.Use(middleware.IPRateLimiter(10, 20))

	// 健康检查路由
	api.GET("/ping", controllers.HandleHealthFunc(container, "ping"))
	api.GET("/health", controllers.HandleHealthFunc(container, "ping")) // 兼容Docker健康检查
	api.GET("/health/status", controllers.HandleHealthFunc(container, "status"))

	// 认证路由，登录单独收紧限流
	api.POST("/auth/login", middleware.IPRateLimiter(2, 5), controllers.HandleJWTFunc(container, "login"))
}

// registerAuthenticatedRoutes 注册需要认证的路由
func registerAuthenticatedRoutes(
	api *gin.RouterGroup,
	container *container.ServiceContainer,
) {
	auth := api.Group("/")
	auth.Use(middleware.Authentication())

	// 认证后按身份限流 - 每秒30个请求，最多突发50个
	auth.Use(middleware.UserRateLimiter(30, 50))

	// 公司路由，信息维护仅限管理员
	auth.GET("/company", controllers.HandleCompanyFunc(container, "getCompany"))
	auth.PUT("/company", middleware.RequireRoles("admin"), controllers.HandleCompanyFunc(container, "updateCompany"))

	// 物业路由，管理角色专属
	propertyGroup := auth.Group("/properties")
	propertyGroup.Use(middleware.RequireManagement())
	propertyGroup.GET("", controllers.HandlePropertyFunc(container, "getProperties"))
	propertyGroup.GET("/:id", controllers.HandlePropertyFunc(container, "getProperty"))
	propertyGroup.POST("", controllers.HandlePropertyFunc(container, "createProperty"))
	propertyGroup.PUT("/:id", controllers.HandlePropertyFunc(container, "updateProperty"))
	propertyGroup.DELETE("/:id", controllers.HandlePropertyFunc(container, "deleteProperty"))
	propertyGroup.GET("/:id/buildings", controllers.HandlePropertyFunc(container, "getBuildings"))
	propertyGroup.POST("/:id/buildings", controllers.HandlePropertyFunc(container, "createBuilding"))
	propertyGroup.GET("/:id/units", controllers.HandlePropertyFunc(container, "getUnits"))
	propertyGroup.POST("/:id/units", controllers.HandlePropertyFunc(container, "createUnit"))
	// 工单的物业视角列表
	propertyGroup.GET("/:id/maintenance/requests", controllers.HandleMaintenanceRequestFunc(container, "getPropertyRequests"))

	// 物业员工路由，管理角色专属
	staffGroup := auth.Group("/staffs")
	staffGroup.Use(middleware.RequireManagement())
	staffGroup.GET("", controllers.HandleStaffFunc(container, "getStaffs"))
	staffGroup.GET("/:id", controllers.HandleStaffFunc(container, "getStaff"))
	staffGroup.POST("", controllers.HandleStaffFunc(container, "createStaff"))
	staffGroup.PUT("/:id", controllers.HandleStaffFunc(container, "updateStaff"))
	staffGroup.DELETE("/:id", controllers.HandleStaffFunc(container, "deleteStaff"))

	// 租户路由，管理角色专属
	tenantGroup := auth.Group("/tenants")
	tenantGroup.Use(middleware.RequireManagement())
	tenantGroup.GET("", controllers.HandleTenantFunc(container, "getTenants"))
	tenantGroup.GET("/:id", controllers.HandleTenantFunc(container, "getTenant"))
	tenantGroup.POST("", controllers.HandleTenantFunc(container, "createTenant"))
	tenantGroup.PUT("/:id", controllers.HandleTenantFunc(container, "updateTenant"))
	tenantGroup.DELETE("/:id", controllers.HandleTenantFunc(container, "deleteTenant"))

	// 维修类别路由，列表所有角色可见，维护仅限管理角色
	categoryGroup := auth.Group("/categories")
	categoryGroup.GET("", middleware.CacheResponse(1*time.Minute), controllers.HandleCategoryFunc(container, "getCategories"))
	categoryGroup.GET("/:id", controllers.HandleCategoryFunc(container, "getCategory"))
	categoryGroup.POST("", middleware.RequireManagement(), controllers.HandleCategoryFunc(container, "createCategory"))
	categoryGroup.PUT("/:id", middleware.RequireManagement(), controllers.HandleCategoryFunc(container, "updateCategory"))
	categoryGroup.DELETE("/:id", middleware.RequireManagement(), controllers.HandleCategoryFunc(container, "deactivateCategory"))

	// 维修工单路由，角色范围在服务层判定
	requestGroup := auth.Group("/maintenance/requests")
	requestGroup.POST("", controllers.HandleMaintenanceRequestFunc(container, "createRequest"))
	requestGroup.GET("/mine", controllers.HandleMaintenanceRequestFunc(container, "getMyRequests"))
	requestGroup.GET("/assigned", controllers.HandleMaintenanceRequestFunc(container, "getAssignedRequests"))
	requestGroup.GET("/:id", controllers.HandleMaintenanceRequestFunc(container, "getRequest"))
	requestGroup.PUT("/:id", controllers.HandleMaintenanceRequestFunc(container, "updateRequest"))
	requestGroup.POST("/:id/assign", middleware.RequireManagement(), controllers.HandleMaintenanceRequestFunc(container, "assignRequest"))
	requestGroup.POST("/:id/cancel", middleware.RequireManagement(), controllers.HandleMaintenanceRequestFunc(container, "cancelRequest"))
	requestGroup.POST("/:id/rate", controllers.HandleMaintenanceRequestFunc(container, "rateRequest"))

	// 维修统计路由，物业侧角色可见，统计每次重算不挂缓存
	statsGroup := auth.Group("/maintenance/stats")
	statsGroup.Use(middleware.RequireStaff())
	statsGroup.GET("/dashboard", controllers.HandleMaintenanceStatsFunc(container, "getDashboard"))
	statsGroup.GET("/categories", controllers.HandleMaintenanceStatsFunc(container, "getCategoryBreakdown"))
	statsGroup.GET("/recent", controllers.HandleMaintenanceStatsFunc(container, "getRecentRequests"))
}
