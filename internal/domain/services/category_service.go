package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"huntersrun-http-service/internal/domain/models"
	"huntersrun-http-service/internal/error/apperr"
	"huntersrun-http-service/internal/infrastructure/config"
)

// 活跃类别列表的缓存键和有效期。类别是读多写少的字典数据，写操作时失效。
const (
	activeCategoryCacheKey = "maintenance:categories:active"
	categoryCacheTTL       = 5 * time.Minute
)

// InterfaceCategoryService 定义维修类别服务接口
type InterfaceCategoryService interface {
	GetActiveCategories() ([]models.MaintenanceCategory, error)
	GetAllCategories() ([]models.MaintenanceCategory, error)
	GetCategoryByID(id uint) (*models.MaintenanceCategory, error)
	CreateCategory(category *models.MaintenanceCategory) error
	UpdateCategory(id uint, updates map[string]interface{}) (*models.MaintenanceCategory, error)
	DeactivateCategory(id uint) error
}

// CategoryService 提供维修类别相关的服务
type CategoryService struct {
	DB     *gorm.DB
	Config *config.Config
	Redis  InterfaceRedisService
}

// NewCategoryService 创建一个新的维修类别服务。redis可以为nil，此时不启用缓存。
func NewCategoryService(db *gorm.DB, cfg *config.Config, redis InterfaceRedisService) InterfaceCategoryService {
	return &CategoryService{
		DB:     db,
		Config: cfg,
		Redis:  redis,
	}
}

// 1 GetActiveCategories 获取所有启用的类别，优先读缓存
func (s *CategoryService) GetActiveCategories() ([]models.MaintenanceCategory, error) {
	var categories []models.MaintenanceCategory

	// 尝试读缓存
	if s.Redis != nil {
		if err := s.Redis.Get(activeCategoryCacheKey, &categories); err == nil {
			return categories, nil
		}
	}

	if err := s.DB.Where("is_active = ?", true).Order("name").Find(&categories).Error; err != nil {
		return nil, err
	}

	// 回填缓存，失败时忽略
	if s.Redis != nil {
		_ = s.Redis.Set(activeCategoryCacheKey, categories, categoryCacheTTL)
	}

	return categories, nil
}

// 2 GetAllCategories 获取全部类别（含停用），管理端使用
func (s *CategoryService) GetAllCategories() ([]models.MaintenanceCategory, error) {
	var categories []models.MaintenanceCategory
	if err := s.DB.Order("name").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// 3 GetCategoryByID 根据ID获取类别
func (s *CategoryService) GetCategoryByID(id uint) (*models.MaintenanceCategory, error) {
	var category models.MaintenanceCategory
	if err := s.DB.First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("维修类别")
		}
		return nil, err
	}
	return &category, nil
}

// 4 CreateCategory 创建新类别
func (s *CategoryService) CreateCategory(category *models.MaintenanceCategory) error {
	if category.Name == "" {
		return apperr.Validation("类别名称不能为空")
	}

	// 验证名称唯一性
	var count int64
	if err := s.DB.Model(&models.MaintenanceCategory{}).Where("name = ?", category.Name).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return apperr.Validation("类别名称已存在")
	}

	if err := s.DB.Create(category).Error; err != nil {
		return err
	}

	s.invalidateCache()
	return nil
}

// 5 UpdateCategory 更新类别信息
func (s *CategoryService) UpdateCategory(id uint, updates map[string]interface{}) (*models.MaintenanceCategory, error) {
	category, err := s.GetCategoryByID(id)
	if err != nil {
		return nil, err
	}

	if err := s.DB.Model(category).Updates(updates).Error; err != nil {
		return nil, err
	}

	s.invalidateCache()
	return s.GetCategoryByID(id)
}

// 6 DeactivateCategory 停用类别。类别被工单引用，从不物理删除。
func (s *CategoryService) DeactivateCategory(id uint) error {
	category, err := s.GetCategoryByID(id)
	if err != nil {
		return err
	}

	if err := s.DB.Model(category).Update("is_active", false).Error; err != nil {
		return err
	}

	s.invalidateCache()
	return nil
}

// invalidateCache 清除类别缓存
func (s *CategoryService) invalidateCache() {
	if s.Redis != nil {
		_ = s.Redis.Delete(activeCategoryCacheKey)
	}
}
