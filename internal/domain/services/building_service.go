package services

import (
	"errors"

	"gorm.io/gorm"

	"huntersrun-http-service/internal/domain/models"
	"huntersrun-http-service/internal/error/apperr"
	"huntersrun-http-service/internal/infrastructure/config"
)

// InterfaceBuildingService 定义楼号和户号服务接口
type InterfaceBuildingService interface {
	GetBuildingsByProperty(propertyID uint) ([]models.Building, error)
	GetBuildingByID(id uint) (*models.Building, error)
	CreateBuilding(building *models.Building) error
	UpdateBuilding(id uint, updates map[string]interface{}) (*models.Building, error)
	DeleteBuilding(id uint) error
	GetUnitsByProperty(propertyID uint, buildingID *uint) ([]models.Unit, error)
	GetUnitByID(id uint) (*models.Unit, error)
	CreateUnit(unit *models.Unit) error
	UpdateUnit(id uint, updates map[string]interface{}) (*models.Unit, error)
	DeleteUnit(id uint) error
}

// BuildingService 提供楼号和户号相关的服务
type BuildingService struct {
	DB     *gorm.DB
	Config *config.Config
}

// NewBuildingService 创建一个新的楼号服务
func NewBuildingService(db *gorm.DB, cfg *config.Config) InterfaceBuildingService {
	return &BuildingService{DB: db, Config: cfg}
}

// 1 GetBuildingsByProperty 获取物业下的全部楼号
func (s *BuildingService) GetBuildingsByProperty(propertyID uint) ([]models.Building, error) {
	var buildings []models.Building
	if err := s.DB.Where("property_id = ?", propertyID).Order("building_code").Find(&buildings).Error; err != nil {
		return nil, err
	}
	return buildings, nil
}

// 2 GetBuildingByID 获取单个楼号
func (s *BuildingService) GetBuildingByID(id uint) (*models.Building, error) {
	var building models.Building
	if err := s.DB.First(&building, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("楼号")
		}
		return nil, err
	}
	return &building, nil
}

// 3 CreateBuilding 创建楼号
func (s *BuildingService) CreateBuilding(building *models.Building) error {
	if building.PropertyID == 0 {
		return apperr.Validation("必须指定物业")
	}
	if building.BuildingName == "" || building.BuildingCode == "" {
		return apperr.Validation("楼号名称和编码不能为空")
	}

	var count int64
	if err := s.DB.Model(&models.Building{}).Where("building_code = ?", building.BuildingCode).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return apperr.Validationf("楼号编码 %s 已存在", building.BuildingCode)
	}

	return s.DB.Create(building).Error
}

// 4 UpdateBuilding 更新楼号
func (s *BuildingService) UpdateBuilding(id uint, updates map[string]interface{}) (*models.Building, error) {
	building, err := s.GetBuildingByID(id)
	if err != nil {
		return nil, err
	}

	if err := s.DB.Model(building).Updates(updates).Error; err != nil {
		return nil, err
	}
	return s.GetBuildingByID(id)
}

// 5 DeleteBuilding 删除楼号，存在关联工单时拒绝删除
func (s *BuildingService) DeleteBuilding(id uint) error {
	building, err := s.GetBuildingByID(id)
	if err != nil {
		return err
	}

	var count int64
	if err := s.DB.Model(&models.MaintenanceRequest{}).Where("building_id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return apperr.InvalidState("楼号下存在维修工单，不能删除")
	}

	return s.DB.Delete(building).Error
}

// 6 GetUnitsByProperty 获取物业下的户号，可选按楼号过滤
func (s *BuildingService) GetUnitsByProperty(propertyID uint, buildingID *uint) ([]models.Unit, error) {
	query := s.DB.Where("property_id = ?", propertyID)
	if buildingID != nil {
		query = query.Where("building_id = ?", *buildingID)
	}

	var units []models.Unit
	if err := query.Order("unit_number").Find(&units).Error; err != nil {
		return nil, err
	}
	return units, nil
}

// 7 GetUnitByID 获取单个户号
func (s *BuildingService) GetUnitByID(id uint) (*models.Unit, error) {
	var unit models.Unit
	if err := s.DB.First(&unit, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("户号")
		}
		return nil, err
	}
	return &unit, nil
}

// 8 CreateUnit 创建户号
func (s *BuildingService) CreateUnit(unit *models.Unit) error {
	if unit.PropertyID == 0 {
		return apperr.Validation("必须指定物业")
	}
	if unit.UnitNumber == "" {
		return apperr.Validation("户号不能为空")
	}

	// 楼号必须归属同一物业
	if unit.BuildingID != nil {
		building, err := s.GetBuildingByID(*unit.BuildingID)
		if err != nil {
			return err
		}
		if building.PropertyID != unit.PropertyID {
			return apperr.Validation("楼号不属于该物业")
		}
	}

	return s.DB.Create(unit).Error
}

// 9 UpdateUnit 更新户号
func (s *BuildingService) UpdateUnit(id uint, updates map[string]interface{}) (*models.Unit, error) {
	unit, err := s.GetUnitByID(id)
	if err != nil {
		return nil, err
	}

	if err := s.DB.Model(unit).Updates(updates).Error; err != nil {
		return nil, err
	}
	return s.GetUnitByID(id)
}

// 10 DeleteUnit 删除户号，存在关联工单或在住租户时拒绝删除
func (s *BuildingService) DeleteUnit(id uint) error {
	unit, err := s.GetUnitByID(id)
	if err != nil {
		return err
	}

	var requestCount int64
	if err := s.DB.Model(&models.MaintenanceRequest{}).Where("unit_id = ?", id).Count(&requestCount).Error; err != nil {
		return err
	}
	if requestCount > 0 {
		return apperr.InvalidState("户号下存在维修工单，不能删除")
	}

	var tenantCount int64
	if err := s.DB.Model(&models.Tenant{}).Where("unit_id = ?", id).Count(&tenantCount).Error; err != nil {
		return err
	}
	if tenantCount > 0 {
		return apperr.InvalidState("户号下存在租户，不能删除")
	}

	return s.DB.Delete(unit).Error
}
