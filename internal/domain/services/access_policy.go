package services

import (
	"huntersrun-http-service/internal/domain/models"
)

// MutationScope 描述调用方对某工单允许的写操作集合。
// 纯决策结果，由调用方在进入生命周期控制前应用。
type MutationScope struct {
	CanEditContent    bool // 标题、描述、位置、可进入时间、类别等内容字段
	CanChangeStatus   bool // 状态流转（合法性另由状态机校验）
	CanAssign         bool
	CanSetPriority    bool
	CanSetEstimated   bool // 预估费用
	CanSetActualCost  bool // 实际费用
	CanCancel         bool
	CanRate           bool // 评分/反馈（完成态校验由生命周期控制负责）
	CanAddNote        bool
	SeesInternalNotes bool
}

// InterfaceAccessPolicyService 定义可见性与访问策略接口。
// 纯函数，不访问数据库；物业归属公司由调用方预先解析后传入。
type InterfaceAccessPolicyService interface {
	CanViewRequest(actor models.Identity, req *models.MaintenanceRequest, ownerCompanyID uint) bool
	MutationScopeFor(actor models.Identity, req *models.MaintenanceRequest, ownerCompanyID uint) (MutationScope, bool)
}

// AccessPolicyService 提供基于角色的工单可见性与操作范围判定
type AccessPolicyService struct{}

// NewAccessPolicyService 创建访问策略服务
func NewAccessPolicyService() InterfaceAccessPolicyService {
	return &AccessPolicyService{}
}

// CanViewRequest 判断调用方能否查看该工单。
// 任何角色都不允许跨公司访问。
func (s *AccessPolicyService) CanViewRequest(actor models.Identity, req *models.MaintenanceRequest, ownerCompanyID uint) bool {
	if actor.CompanyID != ownerCompanyID {
		return false
	}

	switch actor.Role {
	case models.RoleAdmin, models.RoleManager:
		// 管理角色可见本公司范围内的全部工单
		return true
	case models.RoleMaintenance:
		// 维修人员仅可见指派给自己的工单
		return req.AssignedTo != nil && *req.AssignedTo == actor.UserID
	case models.RoleTenant:
		// 租户仅可见自己报修的工单
		return req.TenantID != nil && *req.TenantID == actor.UserID
	default:
		return false
	}
}

// MutationScopeFor 返回调用方对该工单允许的写操作集合。
// 第二个返回值为false时表示完全无权修改。
func (s *AccessPolicyService) MutationScopeFor(actor models.Identity, req *models.MaintenanceRequest, ownerCompanyID uint) (MutationScope, bool) {
	if !s.CanViewRequest(actor, req, ownerCompanyID) {
		return MutationScope{}, false
	}

	switch actor.Role {
	case models.RoleAdmin, models.RoleManager:
		return MutationScope{
			CanEditContent:    true,
			CanChangeStatus:   true,
			CanAssign:         true,
			CanSetPriority:    true,
			CanSetEstimated:   true,
			CanSetActualCost:  true,
			CanCancel:         true,
			CanAddNote:        true,
			SeesInternalNotes: true,
		}, true
	case models.RoleMaintenance:
		return MutationScope{
			CanChangeStatus:   true,
			CanSetActualCost:  true,
			CanAddNote:        true,
			SeesInternalNotes: true,
		}, true
	case models.RoleTenant:
		return MutationScope{
			CanRate:    true,
			CanAddNote: true,
		}, true
	default:
		return MutationScope{}, false
	}
}
