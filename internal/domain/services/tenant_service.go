package services

import (
	"errors"

	"gorm.io/gorm"

	"huntersrun-http-service/internal/domain/models"
	"huntersrun-http-service/internal/error/apperr"
	"huntersrun-http-service/internal/infrastructure/config"
)

// InterfaceTenantService 定义租户服务接口
type InterfaceTenantService interface {
	GetAllTenants(companyID uint, propertyID *uint, page, pageSize int) ([]models.Tenant, int64, error)
	GetTenantByID(id uint) (*models.Tenant, error)
	CreateTenant(tenant *models.Tenant) error
	UpdateTenant(id uint, updates map[string]interface{}) (*models.Tenant, error)
	DeleteTenant(id uint) error
}

// TenantService 提供租户相关的服务
type TenantService struct {
	DB     *gorm.DB
	Config *config.Config
}

// NewTenantService 创建一个新的租户服务
func NewTenantService(db *gorm.DB, cfg *config.Config) InterfaceTenantService {
	return &TenantService{
		DB:     db,
		Config: cfg,
	}
}

// 1 GetAllTenants 获取指定公司的租户列表，可按物业过滤，支持分页
func (s *TenantService) GetAllTenants(companyID uint, propertyID *uint, page, pageSize int) ([]models.Tenant, int64, error) {
	var tenants []models.Tenant
	var total int64

	query := s.DB.Model(&models.Tenant{}).Where("company_id = ?", companyID)
	if propertyID != nil {
		query = query.Where("property_id = ?", *propertyID)
	}

	// 获取总数
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// 分页查询，并预加载所在房间
	offset := (page - 1) * pageSize
	if err := query.Preload("Unit").Limit(pageSize).Offset(offset).Find(&tenants).Error; err != nil {
		return nil, 0, err
	}

	return tenants, total, nil
}

// 2 GetTenantByID 根据ID获取租户
func (s *TenantService) GetTenantByID(id uint) (*models.Tenant, error) {
	var tenant models.Tenant
	if err := s.DB.Preload("Unit").First(&tenant, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("租户")
		}
		return nil, err
	}
	return &tenant, nil
}

// 3 CreateTenant 创建新租户
func (s *TenantService) CreateTenant(tenant *models.Tenant) error {
	// 检查用户名是否已存在
	var count int64
	if err := s.DB.Model(&models.Tenant{}).Where("username = ?", tenant.Username).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return apperr.Validation("用户名已存在")
	}

	// 校验归属物业存在且和公司一致
	var property models.Property
	if err := s.DB.First(&property, tenant.PropertyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("物业")
		}
		return err
	}
	if property.CompanyID != tenant.CompanyID {
		return apperr.Validation("物业不属于指定公司")
	}

	// 设置默认状态
	if tenant.Status == "" {
		tenant.Status = "active"
	}

	return s.DB.Create(tenant).Error
}

// 4 UpdateTenant 更新租户信息
func (s *TenantService) UpdateTenant(id uint, updates map[string]interface{}) (*models.Tenant, error) {
	tenant, err := s.GetTenantByID(id)
	if err != nil {
		return nil, err
	}

	if err := s.DB.Model(tenant).Updates(updates).Error; err != nil {
		return nil, err
	}

	return s.GetTenantByID(id)
}

// 5 DeleteTenant 删除租户
func (s *TenantService) DeleteTenant(id uint) error {
	tenant, err := s.GetTenantByID(id)
	if err != nil {
		return err
	}
	return s.DB.Delete(tenant).Error
}
