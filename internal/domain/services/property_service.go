package services

import (
	"errors"

	"gorm.io/gorm"

	"huntersrun-http-service/internal/domain/models"
	"huntersrun-http-service/internal/error/apperr"
	"huntersrun-http-service/internal/infrastructure/config"
)

// InterfacePropertyService 定义物业服务接口
type InterfacePropertyService interface {
	GetAllProperties(companyID uint, page, pageSize int) ([]models.Property, int64, error)
	GetPropertyByID(id uint) (*models.Property, error)
	CreateProperty(property *models.Property) error
	UpdateProperty(id uint, updates map[string]interface{}) (*models.Property, error)
	DeleteProperty(id uint) error
	ResolveCompanyID(propertyID uint) (uint, error)
}

// PropertyService 提供物业相关的服务
type PropertyService struct {
	DB     *gorm.DB
	Config *config.Config
}

// NewPropertyService 创建一个新的物业服务
func NewPropertyService(db *gorm.DB, cfg *config.Config) InterfacePropertyService {
	return &PropertyService{
		DB:     db,
		Config: cfg,
	}
}

// 1 GetAllProperties 获取指定公司的物业列表，支持分页
func (s *PropertyService) GetAllProperties(companyID uint, page, pageSize int) ([]models.Property, int64, error) {
	var properties []models.Property
	var total int64

	query := s.DB.Model(&models.Property{}).Where("company_id = ?", companyID)

	// 获取总数
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// 分页查询
	offset := (page - 1) * pageSize
	if err := query.Limit(pageSize).Offset(offset).Find(&properties).Error; err != nil {
		return nil, 0, err
	}

	return properties, total, nil
}

// 2 GetPropertyByID 根据ID获取物业
func (s *PropertyService) GetPropertyByID(id uint) (*models.Property, error) {
	var property models.Property
	if err := s.DB.First(&property, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("物业")
		}
		return nil, err
	}
	return &property, nil
}

// 3 CreateProperty 创建新物业
func (s *PropertyService) CreateProperty(property *models.Property) error {
	if property.CompanyID == 0 {
		return apperr.Validation("必须指定所属公司")
	}

	// 验证物业编码唯一性
	var count int64
	if err := s.DB.Model(&models.Property{}).Where("property_code = ?", property.PropertyCode).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return apperr.Validation("物业编码已存在")
	}

	// 设置默认状态
	if property.Status == "" {
		property.Status = "active"
	}

	return s.DB.Create(property).Error
}

// 4 UpdateProperty 更新物业信息
func (s *PropertyService) UpdateProperty(id uint, updates map[string]interface{}) (*models.Property, error) {
	property, err := s.GetPropertyByID(id)
	if err != nil {
		return nil, err
	}

	// 如果更新物业编码，需要检查唯一性
	if propertyCode, ok := updates["property_code"].(string); ok && propertyCode != property.PropertyCode {
		var count int64
		if err := s.DB.Model(&models.Property{}).Where("property_code = ? AND id != ?", propertyCode, id).Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, apperr.Validation("物业编码已存在")
		}
	}

	if err := s.DB.Model(property).Updates(updates).Error; err != nil {
		return nil, err
	}

	// 重新获取更新后的物业信息
	return s.GetPropertyByID(id)
}

// 5 DeleteProperty 删除物业
func (s *PropertyService) DeleteProperty(id uint) error {
	property, err := s.GetPropertyByID(id)
	if err != nil {
		return err
	}

	// 检查是否有关联的维修工单
	var requestCount int64
	if err := s.DB.Model(&models.MaintenanceRequest{}).Where("property_id = ?", id).Count(&requestCount).Error; err != nil {
		return err
	}
	if requestCount > 0 {
		return apperr.InvalidState("该物业下存在维修工单，无法删除")
	}

	return s.DB.Delete(property).Error
}

// 6 ResolveCompanyID 解析物业归属的公司，供可见性判定使用
func (s *PropertyService) ResolveCompanyID(propertyID uint) (uint, error) {
	var property models.Property
	if err := s.DB.Select("id", "company_id").First(&property, propertyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, apperr.NotFound("物业")
		}
		return 0, err
	}
	return property.CompanyID, nil
}
