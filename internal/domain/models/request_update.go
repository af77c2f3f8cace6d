package models

import "time"

// UpdateType 审计记录类型
type UpdateType string

const (
	UpdateTypeCreation     UpdateType = "creation"
	UpdateTypeStatusChange UpdateType = "status_change"
	UpdateTypeAssignment   UpdateType = "assignment"
	UpdateTypeNote         UpdateType = "note"
)

// RequestUpdate 表示工单的一条审计记录。只追加，创建后不再修改或删除，
// 可见历史和统计都可以由这条账本重建。
type RequestUpdate struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	RequestID uint `gorm:"not null;index" json:"request_id"`
	UserID    uint `gorm:"not null" json:"user_id"` // 操作人

	UpdateType UpdateType `gorm:"type:varchar(20);not null" json:"update_type"`

	// 仅状态流转记录填写
	OldStatus *RequestStatus `gorm:"type:varchar(20)" json:"old_status"`
	NewStatus *RequestStatus `gorm:"type:varchar(20)" json:"new_status"`

	Message           string         `gorm:"type:text" json:"message"`
	Images            AttachmentList `gorm:"type:json" json:"images"`
	IsVisibleToTenant bool           `gorm:"default:true" json:"is_visible_to_tenant"` // 控制租户侧是否可见

	CreatedAt time.Time `json:"created_at"` // 写入后不变，按插入顺序单调

	// 关联关系
	Request *MaintenanceRequest `gorm:"foreignKey:RequestID" json:"request,omitempty"`
}
