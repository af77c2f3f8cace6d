package services

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"huntersrun-http-service/internal/domain/models"
	"huntersrun-http-service/internal/error/apperr"
	"huntersrun-http-service/internal/infrastructure/config"
)

// CreateRequestInput 表示创建维修工单的输入
type CreateRequestInput struct {
	PropertyID          uint
	BuildingID          *uint
	UnitID              *uint
	TenantID            *uint // 员工代报时指定，租户本人报修时忽略
	CategoryID          *uint
	Title               string
	Description         string
	LocationDescription string
	TenantAvailability  string
	PermissionToEnter   bool
	Priority            models.RequestPriority
	Images              []models.Attachment
}

// RequestFilter 表示按物业列表的可选过滤条件。
// 未提供的条件完全不参与谓词，不做通配匹配；
// 未知的取值原样下推，匹配不到只会得到空结果，不报错。
type RequestFilter struct {
	Status     string
	Priority   string
	AssignedTo *uint
	CategoryID *uint
	UnitID     *uint
	DateFrom   *time.Time
	DateTo     *time.Time
}

// TenantRequestUpdate 租户可提交的更新。字段按角色显式建模，
// 越权字段在类型上就无法表达。
type TenantRequestUpdate struct {
	Rating   *int
	Feedback *string
	Message  *string
	Images   []models.Attachment
}

// StaffRequestUpdate 维修人员可提交的更新
type StaffRequestUpdate struct {
	Status     *models.RequestStatus
	ActualCost *decimal.Decimal
	Message    *string
	Images     []models.Attachment
}

// ManagerRequestUpdate 管理角色可提交的更新
type ManagerRequestUpdate struct {
	Status              *models.RequestStatus
	AssignedTo          *uint
	Priority            *models.RequestPriority
	CategoryID          *uint
	Title               *string
	Description         *string
	LocationDescription *string
	TenantAvailability  *string
	PermissionToEnter   *bool
	EstimatedCost       *decimal.Decimal
	ActualCost          *decimal.Decimal
	InternalNotes       *string
	CancellationReason  *string
	Message             *string
	Images              []models.Attachment
}

// InterfaceMaintenanceRequestService 定义维修工单服务接口
type InterfaceMaintenanceRequestService interface {
	CreateRequest(input *CreateRequestInput, actor models.Identity) (*models.MaintenanceRequest, error)
	GetRequest(id uint, actor models.Identity, includeHistory bool) (*models.MaintenanceRequest, []models.RequestUpdate, error)
	ListByProperty(propertyID uint, filter RequestFilter, page, pageSize int, actor models.Identity) ([]models.MaintenanceRequest, int64, error)
	ListByTenant(tenantID uint, page, pageSize int, actor models.Identity) ([]models.MaintenanceRequest, int64, error)
	ListByAssignee(staffID uint, status string, page, pageSize int, actor models.Identity) ([]models.MaintenanceRequest, int64, error)
	ApplyTenantUpdate(id uint, upd *TenantRequestUpdate, actor models.Identity) (*models.MaintenanceRequest, error)
	ApplyStaffUpdate(id uint, upd *StaffRequestUpdate, actor models.Identity) (*models.MaintenanceRequest, error)
	ApplyManagerUpdate(id uint, upd *ManagerRequestUpdate, actor models.Identity) (*models.MaintenanceRequest, error)
	AssignRequest(id uint, assigneeID uint, note string, actor models.Identity) (*models.MaintenanceRequest, error)
	CancelRequest(id uint, reason string, actor models.Identity) (*models.MaintenanceRequest, error)
	RateRequest(id uint, rating int, feedback string, actor models.Identity) (*models.MaintenanceRequest, error)
}

// MaintenanceRequestService 提供维修工单的生命周期和查询服务
type MaintenanceRequestService struct {
	DB       *gorm.DB
	Config   *config.Config
	Property InterfacePropertyService
	Policy   InterfaceAccessPolicyService
}

// NewMaintenanceRequestService 创建一个新的维修工单服务
func NewMaintenanceRequestService(db *gorm.DB, cfg *config.Config, property InterfacePropertyService, policy InterfaceAccessPolicyService) InterfaceMaintenanceRequestService {
	return &MaintenanceRequestService{
		DB:       db,
		Config:   cfg,
		Property: property,
		Policy:   policy,
	}
}

// pageSizeLimit 返回配置的单页上限
func (s *MaintenanceRequestService) pageSizeLimit() int {
	if s.Config != nil && s.Config.RequestPageSizeLimit > 0 {
		return s.Config.RequestPageSizeLimit
	}
	return 100
}

// validatePagination 校验分页参数
func validatePagination(page, pageSize int) error {
	if page < 1 {
		return apperr.Validation("页码必须大于0")
	}
	if pageSize < 1 {
		return apperr.Validation("每页条数必须大于0")
	}
	return nil
}

// loadVisible 加载工单并做可见性判定。工单不存在和不可见
// 返回同一个不存在错误，避免泄露工单是否存在。
func (s *MaintenanceRequestService) loadVisible(id uint, actor models.Identity) (*models.MaintenanceRequest, uint, error) {
	var req models.MaintenanceRequest
	if err := s.DB.First(&req, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, apperr.NotFound("维修工单")
		}
		return nil, 0, err
	}

	companyID, err := s.Property.ResolveCompanyID(req.PropertyID)
	if err != nil {
		return nil, 0, err
	}

	if !s.Policy.CanViewRequest(actor, &req, companyID) {
		return nil, 0, apperr.NotFound("维修工单")
	}

	return &req, companyID, nil
}

// appendUpdate 在事务内追加一条审计记录
func appendUpdate(tx *gorm.DB, update *models.RequestUpdate) error {
	return tx.Create(update).Error
}

// applyStatusChange 在事务内执行状态流转：校验流转图、幂等补填时间戳、
// 追加一条流转审计记录。同状态重复提交不产生任何效果。
func applyStatusChange(tx *gorm.DB, req *models.MaintenanceRequest, newStatus models.RequestStatus, actor models.Identity, message string) error {
	oldStatus := req.Status
	if newStatus == oldStatus {
		// 同状态重复提交：不改时间戳，不追加审计
		return nil
	}

	if !newStatus.Valid() {
		return apperr.Validationf("未知的工单状态: %s", newStatus)
	}
	if !models.CanTransition(oldStatus, newStatus) {
		return apperr.InvalidStatef("工单不允许从 %s 流转到 %s", oldStatus, newStatus)
	}

	now := time.Now()
	updates := map[string]interface{}{"status": newStatus}

	// 时间戳只补填缺失的，一经写入不再覆盖
	switch newStatus {
	case models.StatusAssigned:
		if req.AssignedAt == nil {
			updates["assigned_at"] = now
			req.AssignedAt = &now
		}
	case models.StatusInProgress:
		if req.StartedAt == nil {
			updates["started_at"] = now
			req.StartedAt = &now
		}
	case models.StatusCompleted:
		if req.CompletedAt == nil {
			updates["completed_at"] = now
			req.CompletedAt = &now
		}
	case models.StatusCancelled:
		if req.CancelledAt == nil {
			updates["cancelled_at"] = now
			req.CancelledAt = &now
		}
	}

	if err := tx.Model(req).Updates(updates).Error; err != nil {
		return err
	}
	req.Status = newStatus

	old := oldStatus
	return appendUpdate(tx, &models.RequestUpdate{
		RequestID:         req.ID,
		UserID:            actor.UserID,
		UpdateType:        models.UpdateTypeStatusChange,
		OldStatus:         &old,
		NewStatus:         &req.Status,
		Message:           message,
		IsVisibleToTenant: true,
	})
}

// 1 CreateRequest 创建维修工单。工单和它的创建审计记录在同一事务内写入，
// 不存在没有创建记录的工单。
func (s *MaintenanceRequestService) CreateRequest(input *CreateRequestInput, actor models.Identity) (*models.MaintenanceRequest, error) {
	// 必填字段校验
	if input.PropertyID == 0 {
		return nil, apperr.Validation("必须指定物业")
	}
	if input.Title == "" {
		return nil, apperr.Validation("标题不能为空")
	}
	if input.Description == "" {
		return nil, apperr.Validation("描述不能为空")
	}
	if input.Priority != "" && !input.Priority.Valid() {
		return nil, apperr.Validationf("未知的优先级: %s", input.Priority)
	}

	// 报修人归属范围校验
	companyID, err := s.Property.ResolveCompanyID(input.PropertyID)
	if err != nil {
		return nil, err
	}
	if actor.CompanyID != companyID {
		return nil, apperr.AccessDenied("物业不在调用方可见范围内")
	}

	tenantID := input.TenantID
	if actor.Role == models.RoleTenant {
		// 租户本人报修，报修人以身份为准
		tenantID = &actor.UserID
	}

	req := &models.MaintenanceRequest{
		PropertyID:          input.PropertyID,
		BuildingID:          input.BuildingID,
		UnitID:              input.UnitID,
		TenantID:            tenantID,
		CategoryID:          input.CategoryID,
		Title:               input.Title,
		Description:         input.Description,
		LocationDescription: input.LocationDescription,
		TenantAvailability:  input.TenantAvailability,
		PermissionToEnter:   input.PermissionToEnter,
		Priority:            input.Priority,
		Images:              models.AttachmentList(input.Images),
	}

	// 开始事务
	tx := s.DB.Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}

	if err := tx.Create(req).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := appendUpdate(tx, &models.RequestUpdate{
		RequestID:         req.ID,
		UserID:            actor.UserID,
		UpdateType:        models.UpdateTypeCreation,
		Message:           "工单已创建",
		IsVisibleToTenant: true,
	}); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	return req, nil
}

// 2 GetRequest 获取单个工单，可选附带审计历史。
// 租户只会看到标记为对租户可见的历史记录。
func (s *MaintenanceRequestService) GetRequest(id uint, actor models.Identity, includeHistory bool) (*models.MaintenanceRequest, []models.RequestUpdate, error) {
	req, _, err := s.loadVisible(id, actor)
	if err != nil {
		return nil, nil, err
	}

	// 预加载展示用关联
	if err := s.DB.Preload("Property").Preload("Unit").Preload("Tenant").
		Preload("Assignee").Preload("Category").
		First(req, id).Error; err != nil {
		return nil, nil, err
	}

	var updates []models.RequestUpdate
	if includeHistory {
		query := s.DB.Where("request_id = ?", id).Order("created_at, id")
		if actor.Role == models.RoleTenant {
			query = query.Where("is_visible_to_tenant = ?", true)
		}
		if err := query.Find(&updates).Error; err != nil {
			return nil, nil, err
		}
	}

	return req, updates, nil
}

// applyFilter 将可选过滤条件拼入查询。未提供的条件完全不出现在谓词中。
func applyFilter(query *gorm.DB, filter RequestFilter) *gorm.DB {
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Priority != "" {
		query = query.Where("priority = ?", filter.Priority)
	}
	if filter.AssignedTo != nil {
		query = query.Where("assigned_to = ?", *filter.AssignedTo)
	}
	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.UnitID != nil {
		query = query.Where("unit_id = ?", *filter.UnitID)
	}
	if filter.DateFrom != nil {
		query = query.Where("created_at >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		query = query.Where("created_at <= ?", *filter.DateTo)
	}
	return query
}

// listPage 用同一组谓词先取总数再取分页数据，保证分页元数据和结果一致，
// 并应用统一的优先级排序。
func (s *MaintenanceRequestService) listPage(query *gorm.DB, page, pageSize int) ([]models.MaintenanceRequest, int64, error) {
	var requests []models.MaintenanceRequest
	var total int64

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	if err := query.Preload("Property").Preload("Unit").Preload("Tenant").
		Preload("Assignee").Preload("Category").
		Order(models.PriorityOrderSQL).
		Limit(pageSize).Offset(offset).
		Find(&requests).Error; err != nil {
		return nil, 0, err
	}

	return requests, total, nil
}

// 3 ListByProperty 按物业列出工单，管理角色视角，支持多条件过滤和分页
func (s *MaintenanceRequestService) ListByProperty(propertyID uint, filter RequestFilter, page, pageSize int, actor models.Identity) ([]models.MaintenanceRequest, int64, error) {
	if err := validatePagination(page, pageSize); err != nil {
		return nil, 0, err
	}
	if pageSize > s.pageSizeLimit() {
		pageSize = s.pageSizeLimit()
	}

	if !actor.IsManagement() {
		return nil, 0, apperr.AccessDenied("只有管理角色可以按物业查询工单")
	}

	companyID, err := s.Property.ResolveCompanyID(propertyID)
	if err != nil {
		return nil, 0, err
	}
	if actor.CompanyID != companyID {
		return nil, 0, apperr.AccessDenied("物业不在调用方可见范围内")
	}

	query := applyFilter(s.DB.Model(&models.MaintenanceRequest{}).Where("property_id = ?", propertyID), filter)
	return s.listPage(query, page, pageSize)
}

// 4 ListByTenant 按租户列出工单，用于租户查看自己的报修历史
func (s *MaintenanceRequestService) ListByTenant(tenantID uint, page, pageSize int, actor models.Identity) ([]models.MaintenanceRequest, int64, error) {
	if err := validatePagination(page, pageSize); err != nil {
		return nil, 0, err
	}
	if pageSize > s.pageSizeLimit() {
		pageSize = s.pageSizeLimit()
	}

	switch {
	case actor.Role == models.RoleTenant:
		// 租户只能查自己的历史
		if tenantID != actor.UserID {
			return nil, 0, apperr.AccessDenied("租户只能查询自己的工单")
		}
	case actor.IsManagement():
		// 管理角色可以查本公司租户的历史
		var tenant models.Tenant
		if err := s.DB.First(&tenant, tenantID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, 0, apperr.NotFound("租户")
			}
			return nil, 0, err
		}
		if tenant.CompanyID != actor.CompanyID {
			return nil, 0, apperr.AccessDenied("租户不在调用方可见范围内")
		}
	default:
		return nil, 0, apperr.AccessDenied("该角色不能按租户查询工单")
	}

	query := s.DB.Model(&models.MaintenanceRequest{}).Where("tenant_id = ?", tenantID)
	return s.listPage(query, page, pageSize)
}

// 5 ListByAssignee 按维修人员列出工单，可选单个状态过滤
func (s *MaintenanceRequestService) ListByAssignee(staffID uint, status string, page, pageSize int, actor models.Identity) ([]models.MaintenanceRequest, int64, error) {
	if err := validatePagination(page, pageSize); err != nil {
		return nil, 0, err
	}
	if pageSize > s.pageSizeLimit() {
		pageSize = s.pageSizeLimit()
	}

	switch {
	case actor.Role == models.RoleMaintenance:
		// 维修人员只能查指派给自己的工单
		if staffID != actor.UserID {
			return nil, 0, apperr.AccessDenied("维修人员只能查询指派给自己的工单")
		}
	case actor.IsManagement():
		var staff models.Staff
		if err := s.DB.First(&staff, staffID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, 0, apperr.NotFound("物业员工")
			}
			return nil, 0, err
		}
		if staff.CompanyID != actor.CompanyID {
			return nil, 0, apperr.AccessDenied("员工不在调用方可见范围内")
		}
	default:
		return nil, 0, apperr.AccessDenied("该角色不能按维修人员查询工单")
	}

	query := s.DB.Model(&models.MaintenanceRequest{}).Where("assigned_to = ?", staffID)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	return s.listPage(query, page, pageSize)
}

// 6 ApplyTenantUpdate 应用租户提交的更新：评分/反馈、补充说明、补充图片
func (s *MaintenanceRequestService) ApplyTenantUpdate(id uint, upd *TenantRequestUpdate, actor models.Identity) (*models.MaintenanceRequest, error) {
	if actor.Role != models.RoleTenant {
		return nil, apperr.AccessDenied("该操作仅限租户")
	}

	if upd.Rating == nil && upd.Feedback == nil && upd.Message == nil && len(upd.Images) == 0 {
		// 空更新直接报错，而不是静默成功
		return nil, apperr.Validation("更新内容为空")
	}

	req, companyID, err := s.loadVisible(id, actor)
	if err != nil {
		return nil, err
	}
	scope, ok := s.Policy.MutationScopeFor(actor, req, companyID)
	if !ok {
		return nil, apperr.NotFound("维修工单")
	}

	// 评分/反馈仅限完成态
	if (upd.Rating != nil || upd.Feedback != nil) && req.Status != models.StatusCompleted {
		return nil, apperr.InvalidState("只有已完成的工单才能评分")
	}
	if upd.Rating != nil && (*upd.Rating < 1 || *upd.Rating > 5) {
		return nil, apperr.Validation("评分必须在1-5之间")
	}
	if (upd.Rating != nil || upd.Feedback != nil) && !scope.CanRate {
		return nil, apperr.AccessDenied("没有权限提交评分")
	}

	tx := s.DB.Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}

	updates := map[string]interface{}{}
	if upd.Rating != nil {
		updates["tenant_rating"] = *upd.Rating
	}
	if upd.Feedback != nil {
		updates["tenant_feedback"] = *upd.Feedback
	}
	if len(updates) == 0 {
		// 仅追加说明/图片时也要刷新更新时间
		updates["updated_at"] = time.Now()
	}
	if err := tx.Model(req).Updates(updates).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if upd.Message != nil || len(upd.Images) > 0 {
		message := ""
		if upd.Message != nil {
			message = *upd.Message
		}
		if err := appendUpdate(tx, &models.RequestUpdate{
			RequestID:         req.ID,
			UserID:            actor.UserID,
			UpdateType:        models.UpdateTypeNote,
			Message:           message,
			Images:            models.AttachmentList(upd.Images),
			IsVisibleToTenant: true,
		}); err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	return s.reload(id)
}

// 7 ApplyStaffUpdate 应用维修人员提交的更新：状态流转、实际费用、备注
func (s *MaintenanceRequestService) ApplyStaffUpdate(id uint, upd *StaffRequestUpdate, actor models.Identity) (*models.MaintenanceRequest, error) {
	if actor.Role != models.RoleMaintenance {
		return nil, apperr.AccessDenied("该操作仅限维修人员")
	}

	if upd.Status == nil && upd.ActualCost == nil && upd.Message == nil && len(upd.Images) == 0 {
		return nil, apperr.Validation("更新内容为空")
	}

	req, companyID, err := s.loadVisible(id, actor)
	if err != nil {
		return nil, err
	}
	scope, ok := s.Policy.MutationScopeFor(actor, req, companyID)
	if !ok {
		return nil, apperr.NotFound("维修工单")
	}

	// 维修人员不具备取消权限
	if upd.Status != nil && *upd.Status == models.StatusCancelled && !scope.CanCancel {
		return nil, apperr.AccessDenied("维修人员不能取消工单")
	}

	tx := s.DB.Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}

	message := ""
	if upd.Message != nil {
		message = *upd.Message
	}

	if upd.Status != nil {
		if err := applyStatusChange(tx, req, *upd.Status, actor, message); err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	updates := map[string]interface{}{}
	if upd.ActualCost != nil {
		updates["actual_cost"] = *upd.ActualCost
	}
	if len(updates) == 0 && upd.Status == nil {
		updates["updated_at"] = time.Now()
	}
	if len(updates) > 0 {
		if err := tx.Model(req).Updates(updates).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	// 没有状态流转但带了说明/图片时，单独追加一条备注记录
	if upd.Status == nil && (upd.Message != nil || len(upd.Images) > 0) {
		if err := appendUpdate(tx, &models.RequestUpdate{
			RequestID:         req.ID,
			UserID:            actor.UserID,
			UpdateType:        models.UpdateTypeNote,
			Message:           message,
			Images:            models.AttachmentList(upd.Images),
			IsVisibleToTenant: true,
		}); err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	return s.reload(id)
}

// 8 ApplyManagerUpdate 应用管理角色提交的更新，允许修改全部字段
func (s *MaintenanceRequestService) ApplyManagerUpdate(id uint, upd *ManagerRequestUpdate, actor models.Identity) (*models.MaintenanceRequest, error) {
	if !actor.IsManagement() {
		return nil, apperr.AccessDenied("该操作仅限管理角色")
	}

	req, companyID, err := s.loadVisible(id, actor)
	if err != nil {
		return nil, err
	}
	if _, ok := s.Policy.MutationScopeFor(actor, req, companyID); !ok {
		return nil, apperr.NotFound("维修工单")
	}

	if upd.Priority != nil && !upd.Priority.Valid() {
		return nil, apperr.Validationf("未知的优先级: %s", *upd.Priority)
	}

	updates := map[string]interface{}{}
	if upd.Priority != nil {
		updates["priority"] = *upd.Priority
	}
	if upd.CategoryID != nil {
		updates["category_id"] = *upd.CategoryID
	}
	if upd.Title != nil {
		updates["title"] = *upd.Title
	}
	if upd.Description != nil {
		updates["description"] = *upd.Description
	}
	if upd.LocationDescription != nil {
		updates["location_description"] = *upd.LocationDescription
	}
	if upd.TenantAvailability != nil {
		updates["tenant_availability"] = *upd.TenantAvailability
	}
	if upd.PermissionToEnter != nil {
		updates["permission_to_enter"] = *upd.PermissionToEnter
	}
	if upd.EstimatedCost != nil {
		updates["estimated_cost"] = *upd.EstimatedCost
	}
	if upd.ActualCost != nil {
		updates["actual_cost"] = *upd.ActualCost
	}
	if upd.InternalNotes != nil {
		updates["internal_notes"] = *upd.InternalNotes
	}
	if upd.CancellationReason != nil {
		updates["cancellation_reason"] = *upd.CancellationReason
	}

	hasNote := upd.Message != nil || len(upd.Images) > 0
	if len(updates) == 0 && upd.Status == nil && upd.AssignedTo == nil && !hasNote {
		return nil, apperr.Validation("更新内容为空")
	}

	tx := s.DB.Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}

	message := ""
	if upd.Message != nil {
		message = *upd.Message
	}

	// 先做指派，指派可能把pending隐式流转到assigned
	if upd.AssignedTo != nil {
		if err := s.assignInTx(tx, req, *upd.AssignedTo, message, actor); err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	if upd.Status != nil {
		if err := applyStatusChange(tx, req, *upd.Status, actor, message); err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	if len(updates) > 0 {
		if err := tx.Model(req).Updates(updates).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	// 纯备注更新单独落一条审计记录
	if upd.Status == nil && upd.AssignedTo == nil && hasNote {
		if err := appendUpdate(tx, &models.RequestUpdate{
			RequestID:         req.ID,
			UserID:            actor.UserID,
			UpdateType:        models.UpdateTypeNote,
			Message:           message,
			Images:            models.AttachmentList(upd.Images),
			IsVisibleToTenant: true,
		}); err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	return s.reload(id)
}

// assignInTx 在事务内执行指派：更新被指派人、补填指派时间，
// 当前状态为pending时隐式流转到assigned，其他状态不强制流转。
func (s *MaintenanceRequestService) assignInTx(tx *gorm.DB, req *models.MaintenanceRequest, assigneeID uint, note string, actor models.Identity) error {
	// 校验被指派人是同公司的维修人员
	var staff models.Staff
	if err := tx.First(&staff, assigneeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("物业员工")
		}
		return err
	}
	if staff.CompanyID != actor.CompanyID {
		return apperr.AccessDenied("员工不在调用方可见范围内")
	}
	if req.Status.IsTerminal() {
		return apperr.InvalidState("终态工单不能再指派")
	}

	updates := map[string]interface{}{"assigned_to": assigneeID}
	if req.AssignedAt == nil {
		now := time.Now()
		updates["assigned_at"] = now
		req.AssignedAt = &now
	}
	if err := tx.Model(req).Updates(updates).Error; err != nil {
		return err
	}
	req.AssignedTo = &assigneeID

	if err := appendUpdate(tx, &models.RequestUpdate{
		RequestID:         req.ID,
		UserID:            actor.UserID,
		UpdateType:        models.UpdateTypeAssignment,
		Message:           note,
		IsVisibleToTenant: true,
	}); err != nil {
		return err
	}

	// pending状态下指派隐式流转到assigned
	if req.Status == models.StatusPending {
		return applyStatusChange(tx, req, models.StatusAssigned, actor, "")
	}
	return nil
}

// 9 AssignRequest 指派工单给维修人员，仅限管理角色
func (s *MaintenanceRequestService) AssignRequest(id uint, assigneeID uint, note string, actor models.Identity) (*models.MaintenanceRequest, error) {
	if !actor.IsManagement() {
		return nil, apperr.AccessDenied("只有管理角色可以指派工单")
	}

	req, companyID, err := s.loadVisible(id, actor)
	if err != nil {
		return nil, err
	}
	scope, ok := s.Policy.MutationScopeFor(actor, req, companyID)
	if !ok || !scope.CanAssign {
		return nil, apperr.AccessDenied("没有权限指派工单")
	}

	tx := s.DB.Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}

	if err := s.assignInTx(tx, req, assigneeID, note, actor); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	return s.reload(id)
}

// 10 CancelRequest 取消工单，仅限管理角色，终态工单不能取消
func (s *MaintenanceRequestService) CancelRequest(id uint, reason string, actor models.Identity) (*models.MaintenanceRequest, error) {
	if !actor.IsManagement() {
		return nil, apperr.AccessDenied("只有管理角色可以取消工单")
	}

	req, companyID, err := s.loadVisible(id, actor)
	if err != nil {
		return nil, err
	}
	scope, ok := s.Policy.MutationScopeFor(actor, req, companyID)
	if !ok || !scope.CanCancel {
		return nil, apperr.AccessDenied("没有权限取消工单")
	}

	if req.Status.IsTerminal() {
		return nil, apperr.InvalidStatef("工单已处于终态 %s", req.Status)
	}

	tx := s.DB.Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}

	if reason != "" {
		if err := tx.Model(req).Update("cancellation_reason", reason).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	if err := applyStatusChange(tx, req, models.StatusCancelled, actor, reason); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	return s.reload(id)
}

// 11 RateRequest 租户对已完成工单提交评分和反馈
func (s *MaintenanceRequestService) RateRequest(id uint, rating int, feedback string, actor models.Identity) (*models.MaintenanceRequest, error) {
	upd := &TenantRequestUpdate{Rating: &rating}
	if feedback != "" {
		upd.Feedback = &feedback
	}
	return s.ApplyTenantUpdate(id, upd, actor)
}

// reload 重新加载工单及展示用关联
func (s *MaintenanceRequestService) reload(id uint) (*models.MaintenanceRequest, error) {
	var req models.MaintenanceRequest
	if err := s.DB.Preload("Property").Preload("Unit").Preload("Tenant").
		Preload("Assignee").Preload("Category").
		First(&req, id).Error; err != nil {
		return nil, err
	}
	return &req, nil
}
