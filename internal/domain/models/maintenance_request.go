package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// RequestPriority 工单优先级
type RequestPriority string

const (
	PriorityEmergency RequestPriority = "emergency"
	PriorityUrgent    RequestPriority = "urgent"
	PriorityNormal    RequestPriority = "normal"
	PriorityLow       RequestPriority = "low"
)

// 优先级排名，数值越小越靠前
var priorityRanks = map[RequestPriority]int{
	PriorityEmergency: 1,
	PriorityUrgent:    2,
	PriorityNormal:    3,
	PriorityLow:       4,
}

// Rank 返回优先级排名，未知优先级排在最后
func (p RequestPriority) Rank() int {
	if rank, ok := priorityRanks[p]; ok {
		return rank
	}
	return len(priorityRanks) + 1
}

// Valid 判断优先级取值是否合法
func (p RequestPriority) Valid() bool {
	_, ok := priorityRanks[p]
	return ok
}

// PriorityOrderSQL 列表统一的排序表达式：优先级排名升序，创建时间降序。
// 仪表盘依赖紧急工单无论新旧始终排在最前，因此排序是硬约束而不是优化。
// 使用CASE表达式而不是MySQL特有的FIELD()，保证各方言下行为一致。
const PriorityOrderSQL = "CASE priority" +
	" WHEN 'emergency' THEN 1" +
	" WHEN 'urgent' THEN 2" +
	" WHEN 'normal' THEN 3" +
	" WHEN 'low' THEN 4" +
	" ELSE 5 END, created_at DESC"

// RequestStatus 工单状态
type RequestStatus string

const (
	StatusPending    RequestStatus = "pending"
	StatusAssigned   RequestStatus = "assigned"
	StatusInProgress RequestStatus = "in_progress"
	StatusCompleted  RequestStatus = "completed"
	StatusCancelled  RequestStatus = "cancelled"
)

// 状态流转图。completed 和 cancelled 是终态。
var statusTransitions = map[RequestStatus][]RequestStatus{
	StatusPending:    {StatusAssigned, StatusInProgress, StatusCancelled},
	StatusAssigned:   {StatusInProgress, StatusCompleted, StatusCancelled},
	StatusInProgress: {StatusCompleted, StatusCancelled},
	StatusCompleted:  {},
	StatusCancelled:  {},
}

// CanTransition 判断状态能否从from流转到to
func CanTransition(from, to RequestStatus) bool {
	for _, next := range statusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal 判断状态是否为终态
func (s RequestStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Valid 判断状态取值是否合法
func (s RequestStatus) Valid() bool {
	_, ok := statusTransitions[s]
	return ok
}

// Attachment 附件描述，由上传服务生成，引擎仅存储并保持顺序，不校验文件内容
type Attachment struct {
	URL          string `json:"url"`
	OriginalName string `json:"original_name"`
	Size         int64  `json:"size"`
	MimeType     string `json:"mime_type"`
}

// AttachmentList 以JSON列存储的有序附件列表
type AttachmentList = datatypes.JSONSlice[Attachment]

// MaintenanceRequest 表示维修工单。工单归属唯一物业，审计记录归属唯一工单。
type MaintenanceRequest struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	RequestNo string `gorm:"type:varchar(40);unique;not null" json:"request_no"`

	// 归属范围
	PropertyID uint  `gorm:"not null;index" json:"property_id"`
	BuildingID *uint `gorm:"index" json:"building_id"`
	UnitID     *uint `gorm:"index" json:"unit_id"`

	// 相关方
	TenantID   *uint `gorm:"index" json:"tenant_id"`    // 报修租户，员工代报时可为空
	AssignedTo *uint `gorm:"index" json:"assigned_to"`  // 被指派的维修人员
	CategoryID *uint `gorm:"index" json:"category_id"`

	// 内容
	Title               string         `gorm:"type:varchar(200);not null" json:"title"`
	Description         string         `gorm:"type:text;not null" json:"description"`
	LocationDescription string         `gorm:"type:varchar(200)" json:"location_description"`
	TenantAvailability  string         `gorm:"type:varchar(200)" json:"tenant_availability"`
	PermissionToEnter   bool           `gorm:"default:false" json:"permission_to_enter"`
	Images              AttachmentList `gorm:"type:json" json:"images"`

	// 工作流
	Priority RequestPriority `gorm:"type:varchar(20);default:'normal';index" json:"priority"`
	Status   RequestStatus   `gorm:"type:varchar(20);default:'pending';index" json:"status"`

	// 费用
	EstimatedCost *decimal.Decimal `gorm:"type:decimal(10,2)" json:"estimated_cost"`
	ActualCost    *decimal.Decimal `gorm:"type:decimal(10,2)" json:"actual_cost"`

	// 完成后反馈，仅报修租户在完成态可填写
	TenantRating   *int    `json:"tenant_rating"` // 1-5
	TenantFeedback *string `gorm:"type:text" json:"tenant_feedback"`

	CancellationReason *string `gorm:"type:text" json:"cancellation_reason"`
	InternalNotes      *string `gorm:"type:text" json:"internal_notes,omitempty"` // 内部备注，租户视图中剔除

	// 生命周期时间戳，到达对应状态时补填，一经写入不再覆盖
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	AssignedAt  *time.Time `json:"assigned_at"`
	StartedAt   *time.Time `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at"`
	CancelledAt *time.Time `json:"cancelled_at"`

	// 关联关系
	Property *Property            `gorm:"foreignKey:PropertyID" json:"property,omitempty"`
	Building *Building            `gorm:"foreignKey:BuildingID" json:"building,omitempty"`
	Unit     *Unit                `gorm:"foreignKey:UnitID" json:"unit,omitempty"`
	Tenant   *Tenant              `gorm:"foreignKey:TenantID" json:"tenant,omitempty"`
	Assignee *Staff               `gorm:"foreignKey:AssignedTo" json:"assignee,omitempty"`
	Category *MaintenanceCategory `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Updates  []RequestUpdate      `gorm:"foreignKey:RequestID" json:"updates,omitempty"`
}

// BeforeCreate 是一个GORM钩子，在创建新记录前运行
func (r *MaintenanceRequest) BeforeCreate(tx *gorm.DB) error {
	// 生成对外工单号
	if r.RequestNo == "" {
		r.RequestNo = "MR-" + uuid.NewString()
	}
	// 填充默认工作流字段
	if r.Priority == "" {
		r.Priority = PriorityNormal
	}
	if r.Status == "" {
		r.Status = StatusPending
	}
	return nil
}

// ForTenantView 返回剔除内部备注后的副本，供租户侧展示
func (r MaintenanceRequest) ForTenantView() MaintenanceRequest {
	r.InternalNotes = nil
	return r
}
