package services

import (
	"errors"

	"gorm.io/gorm"

	"huntersrun-http-service/internal/domain/models"
	"huntersrun-http-service/internal/error/apperr"
	"huntersrun-http-service/internal/infrastructure/config"
)

// InterfaceStaffService 定义物业员工服务接口
type InterfaceStaffService interface {
	GetAllStaffs(companyID uint, role string, page, pageSize int) ([]models.Staff, int64, error)
	GetStaffByID(id uint) (*models.Staff, error)
	CreateStaff(staff *models.Staff) error
	UpdateStaff(id uint, updates map[string]interface{}) (*models.Staff, error)
	DeleteStaff(id uint) error
}

// StaffService 提供物业员工相关的服务
type StaffService struct {
	DB     *gorm.DB
	Config *config.Config
}

// NewStaffService 创建一个新的物业员工服务
func NewStaffService(db *gorm.DB, cfg *config.Config) InterfaceStaffService {
	return &StaffService{
		DB:     db,
		Config: cfg,
	}
}

// 1 GetAllStaffs 获取指定公司的员工列表，支持按角色过滤和分页
func (s *StaffService) GetAllStaffs(companyID uint, role string, page, pageSize int) ([]models.Staff, int64, error) {
	var staffs []models.Staff
	var total int64

	query := s.DB.Model(&models.Staff{}).Where("company_id = ?", companyID)
	if role != "" {
		query = query.Where("role = ?", role)
	}

	// 获取总数
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// 分页查询
	offset := (page - 1) * pageSize
	if err := query.Limit(pageSize).Offset(offset).Find(&staffs).Error; err != nil {
		return nil, 0, err
	}

	return staffs, total, nil
}

// 2 GetStaffByID 根据ID获取员工
func (s *StaffService) GetStaffByID(id uint) (*models.Staff, error) {
	var staff models.Staff
	if err := s.DB.First(&staff, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("物业员工")
		}
		return nil, err
	}
	return &staff, nil
}

// 3 CreateStaff 创建新员工
func (s *StaffService) CreateStaff(staff *models.Staff) error {
	// 检查手机号是否已被注册
	var count int64
	if err := s.DB.Model(&models.Staff{}).Where("phone = ?", staff.Phone).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return apperr.Validation("手机号已被注册")
	}

	// 检查用户名是否已存在
	if err := s.DB.Model(&models.Staff{}).Where("username = ?", staff.Username).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return apperr.Validation("用户名已存在")
	}

	// 设置默认状态
	if staff.Status == "" {
		staff.Status = "active"
	}

	return s.DB.Create(staff).Error
}

// 4 UpdateStaff 更新员工信息
func (s *StaffService) UpdateStaff(id uint, updates map[string]interface{}) (*models.Staff, error) {
	staff, err := s.GetStaffByID(id)
	if err != nil {
		return nil, err
	}

	// 如果更新手机号，需要检查唯一性
	if phone, ok := updates["phone"].(string); ok && phone != staff.Phone {
		var count int64
		if err := s.DB.Model(&models.Staff{}).Where("phone = ? AND id != ?", phone, id).Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, apperr.Validation("手机号已被其他员工使用")
		}
	}

	if err := s.DB.Model(staff).Updates(updates).Error; err != nil {
		return nil, err
	}

	return s.GetStaffByID(id)
}

// 5 DeleteStaff 删除员工
func (s *StaffService) DeleteStaff(id uint) error {
	staff, err := s.GetStaffByID(id)
	if err != nil {
		return err
	}

	// 检查是否有未完结的指派工单
	var openCount int64
	if err := s.DB.Model(&models.MaintenanceRequest{}).
		Where("assigned_to = ? AND status NOT IN ?", id, []models.RequestStatus{models.StatusCompleted, models.StatusCancelled}).
		Count(&openCount).Error; err != nil {
		return err
	}
	if openCount > 0 {
		return apperr.InvalidState("该员工仍有未完结的指派工单，无法删除")
	}

	return s.DB.Delete(staff).Error
}
