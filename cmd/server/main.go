// @title           Hunters Run Facility Management API
// @version         1.0
// @description     Multi-tenant facility management backend centered on the maintenance request lifecycle

// @contact.name   API Support
// @contact.email  support@huntersrun.example.com

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:8080
// @BasePath  /api

// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Enter the token with the `Bearer: ` prefix
package main

import (
	"fmt"
	"log"
	"os"
	"runtime"

	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"huntersrun-http-service/internal/app/routes"
	"huntersrun-http-service/internal/domain/models"
	"huntersrun-http-service/internal/infrastructure/config"
	"huntersrun-http-service/internal/infrastructure/database"
	Logger "huntersrun-http-service/pkg/logger"
	"huntersrun-http-service/utils"
)

func main() {
	// 设置最大处理器数量，提高并发性能
	runtime.GOMAXPROCS(runtime.NumCPU())

	// 初始化日志配置
	if err := Logger.SetupLogger(); err != nil {
		fmt.Printf("初始化日志配置失败: %v\n", err)
		os.Exit(1)
	}

	// 加载.env文件
	if err := godotenv.Load(); err != nil {
		Logger.Warning("无法加载.env文件: %v", err)
		// 即使加载失败也继续执行，可能环境变量已经通过其他方式设置
	} else {
		Logger.Info("成功加载.env文件")
	}

	// 获取配置
	cfg := config.GetConfig()

	// 创建优化的数据库连接池
	pool, err := database.NewConnectionPool(cfg)
	if err != nil {
		log.Fatalf("无法创建数据库连接池: %v", err)
	}
	db := pool.GetDB()

	// 根据配置执行不同的数据库操作
	switch cfg.DBMigrationMode {
	case "drop":
		log.Println("警告: 在drop模式下运行，将删除并重建所有表")
		if err := dropAndRecreateTables(db); err != nil {
			log.Fatalf("删除并重建表失败: %v", err)
		}
	default:
		// 默认AutoMigrate，只会添加新列和新表，不会删除或修改列
		log.Println("在标准模式下运行，将只添加新列和新表")
		if err := autoMigrate(db); err != nil {
			log.Fatalf("自动迁移失败: %v", err)
		}
	}

	// 播种默认公司、管理员和维修类别
	ensureCompanyExists(db)
	ensureAdminExists(db, cfg)
	ensureCategoriesExist(db)

	// 初始化路由
	r := routes.SetupRouter(db, cfg)

	port := cfg.ServerPort

	// 打印系统信息
	printSystemInfo(pool)

	// 监听所有接口(0.0.0.0)而不是只监听localhost
	Logger.Info("服务器启动在: http://0.0.0.0:%s", port)
	if err := r.Run("0.0.0.0:" + port); err != nil {
		Logger.Error("启动服务器失败: %v", err)
		os.Exit(1)
	}
}

// autoMigrate 自动迁移所有模型（只添加新列和新表）
func autoMigrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.Company{},
		&models.Property{},
		&models.Building{},
		&models.Unit{},
		&models.Staff{},
		&models.Tenant{},
		&models.MaintenanceCategory{},
		&models.MaintenanceRequest{},
		&models.RequestUpdate{},
	)
	if err != nil {
		return err
	}

	fmt.Println("Database migration completed")
	return nil
}

// dropAndRecreateTables 删除并重建所有表
func dropAndRecreateTables(db *gorm.DB) error {
	// 获取底层SQL连接
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get DB connection: %w", err)
	}

	// 禁用外键约束检查
	if _, err = sqlDB.Exec("SET FOREIGN_KEY_CHECKS = 0"); err != nil {
		log.Printf("禁用外键约束检查失败: %v", err)
	}
	defer sqlDB.Exec("SET FOREIGN_KEY_CHECKS = 1") // 确保在函数结束时重新启用外键约束

	// 按依赖关系逆序删除所有表
	tables := []string{
		"request_updates", "maintenance_requests", "maintenance_categories",
		"tenants", "staffs", "units", "buildings", "properties", "companies",
	}

	for _, table := range tables {
		log.Printf("删除表: %s", table)
		if _, err := sqlDB.Exec(fmt.Sprintf("DROP TABLE IF EXISTS %s", table)); err != nil {
			log.Printf("删除表失败: %v", err)
		}
	}

	// 重新创建表
	return autoMigrate(db)
}

// ensureCompanyExists 确保系统中有默认物业公司
func ensureCompanyExists(db *gorm.DB) {
	var count int64
	db.Model(&models.Company{}).Count(&count)

	if count == 0 {
		company := models.Company{
			CompanyName: "Hunters Run Property Management",
			CompanyCode: "HR001",
			Status:      "active",
		}
		if err := db.Create(&company).Error; err != nil {
			log.Fatalf("创建默认公司失败: %v", err)
		}
		log.Println("已创建默认物业公司")
	}
}

// ensureAdminExists 确保系统中有管理员账户
func ensureAdminExists(db *gorm.DB, cfg *config.Config) {
	var count int64
	db.Model(&models.Staff{}).Where("role = ?", models.RoleAdmin).Count(&count)

	if count == 0 {
		var company models.Company
		if err := db.Order("id").First(&company).Error; err != nil {
			log.Fatalf("查找默认公司失败: %v", err)
		}

		hashedPassword, err := utils.HashPassword(cfg.DefaultAdminPassword)
		if err != nil {
			log.Fatalf("生成密码哈希失败: %v", err)
		}

		admin := models.Staff{
			CompanyID: company.ID,
			Name:      "系统管理员",
			Phone:     "00000000000",
			Role:      models.RoleAdmin,
			Status:    "active",
			Username:  "admin",
			Password:  hashedPassword,
		}
		if err := db.Create(&admin).Error; err != nil {
			log.Fatalf("创建默认管理员失败: %v", err)
		}
		log.Println("已创建默认管理员账户")
	}
}

// ensureCategoriesExist 确保有一组基础维修类别
func ensureCategoriesExist(db *gorm.DB) {
	var count int64
	db.Model(&models.MaintenanceCategory{}).Count(&count)

	if count == 0 {
		categories := []models.MaintenanceCategory{
			{Name: "水暖维修", Color: "#1E90FF", Icon: "plumbing", IsActive: true},
			{Name: "电路维修", Color: "#FFD700", Icon: "electrical", IsActive: true},
			{Name: "家电维修", Color: "#32CD32", Icon: "appliance", IsActive: true},
			{Name: "门窗维修", Color: "#8B4513", Icon: "door", IsActive: true},
			{Name: "公共区域", Color: "#808080", Icon: "public", IsActive: true},
			{Name: "其他", Color: "#A9A9A9", Icon: "other", IsActive: true},
		}
		if err := db.Create(&categories).Error; err != nil {
			log.Printf("创建默认维修类别失败: %v", err)
			return
		}
		log.Println("已创建默认维修类别")
	}
}

// printSystemInfo 打印系统信息
func printSystemInfo(pool *database.ConnectionPool) {
	// 打印数据库连接池信息
	stats, err := pool.Stats()
	if err == nil {
		log.Printf("数据库连接池状态: %+v", stats)
	}

	// 打印系统资源信息
	log.Printf("系统CPU核心数: %d", runtime.NumCPU())
	log.Printf("当前Go协程数: %d", runtime.NumGoroutine())

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	log.Printf("系统内存使用: Alloc=%v MiB, TotalAlloc=%v MiB, Sys=%v MiB",
		m.Alloc/1024/1024, m.TotalAlloc/1024/1024, m.Sys/1024/1024)
}
