package models

// 调用方角色
const (
	RoleAdmin       = "admin"       // 系统管理员
	RoleManager     = "manager"     // 物业经理
	RoleMaintenance = "maintenance" // 维修人员
	RoleTenant      = "tenant"      // 租户
)

// Identity 表示认证层提供的调用方身份上下文。引擎不做鉴权，直接信任该身份。
type Identity struct {
	UserID    uint   `json:"user_id"`
	CompanyID uint   `json:"company_id"`
	Role      string `json:"role"`
}

// IsStaff 判断是否为物业侧角色
func (i Identity) IsStaff() bool {
	return i.Role == RoleAdmin || i.Role == RoleManager || i.Role == RoleMaintenance
}

// IsManagement 判断是否为管理角色（管理员或经理）
func (i Identity) IsManagement() bool {
	return i.Role == RoleAdmin || i.Role == RoleManager
}
