package services

import (
	"database/sql"
	"time"

	"gorm.io/gorm"

	"huntersrun-http-service/internal/domain/models"
	"huntersrun-http-service/internal/error/apperr"
	"huntersrun-http-service/internal/infrastructure/config"
)

// StatsScope 限定统计口径：公司必选，物业和维修人员可选
type StatsScope struct {
	CompanyID  uint
	PropertyID *uint
	AssignedTo *uint
	WindowDays int
}

// DashboardStats 滚动窗口内的工单总体统计。
// 平均值在窗口内没有样本时为null而不是0，0分和无数据是两回事。
type DashboardStats struct {
	Total              int64    `json:"total"`
	Pending            int64    `json:"pending"`
	Assigned           int64    `json:"assigned"`
	InProgress         int64    `json:"in_progress"`
	Completed          int64    `json:"completed"`
	Cancelled          int64    `json:"cancelled"`
	Emergency          int64    `json:"emergency"`
	Urgent             int64    `json:"urgent"`
	AvgCompletionHours *float64 `json:"avg_completion_hours"`
	AvgTenantRating    *float64 `json:"avg_tenant_rating"`
}

// CategoryStat 单个类别的工单数量和平均完成耗时。
// 类别下没有已完成工单时平均耗时为null。
type CategoryStat struct {
	CategoryID         uint     `json:"category_id"`
	CategoryName       string   `json:"category_name"`
	Count              int64    `json:"count"`
	AvgCompletionHours *float64 `json:"avg_completion_hours"`
}

// RequestSummary 最近工单的摘要行，冗余若干展示字段
type RequestSummary struct {
	ID           uint                   `json:"id"`
	RequestNo    string                 `json:"request_no"`
	Title        string                 `json:"title"`
	Priority     models.RequestPriority `json:"priority"`
	Status       models.RequestStatus   `json:"status"`
	PropertyName string                 `json:"property_name"`
	UnitNumber   string                 `json:"unit_number"`
	TenantName   string                 `json:"tenant_name"`
	CreatedAt    time.Time              `json:"created_at"`
}

// InterfaceMaintenanceStatsService 定义维修统计服务接口
type InterfaceMaintenanceStatsService interface {
	GetDashboardStats(scope StatsScope) (*DashboardStats, error)
	GetCategoryBreakdown(scope StatsScope) ([]CategoryStat, error)
	GetRecentRequests(scope StatsScope, limit int) ([]RequestSummary, error)
}

// MaintenanceStatsService 提供滚动窗口内的维修工单统计
type MaintenanceStatsService struct {
	DB     *gorm.DB
	Config *config.Config
}

// NewMaintenanceStatsService 创建一个新的维修统计服务
func NewMaintenanceStatsService(db *gorm.DB, cfg *config.Config) InterfaceMaintenanceStatsService {
	return &MaintenanceStatsService{DB: db, Config: cfg}
}

// windowDays 返回统计窗口天数
func (s *MaintenanceStatsService) windowDays(scope StatsScope) int {
	if scope.WindowDays > 0 {
		return scope.WindowDays
	}
	if s.Config != nil && s.Config.StatsWindowDays > 0 {
		return s.Config.StatsWindowDays
	}
	return 30
}

// baseQuery 构造统计口径的基础查询：按公司归属过滤并限定滚动窗口。
// 每次调用都基于当前数据重算，不做任何缓存。
func (s *MaintenanceStatsService) baseQuery(scope StatsScope) *gorm.DB {
	since := time.Now().AddDate(0, 0, -s.windowDays(scope))

	query := s.DB.Model(&models.MaintenanceRequest{}).
		Joins("JOIN properties ON properties.id = maintenance_requests.property_id").
		Where("properties.company_id = ?", scope.CompanyID).
		Where("maintenance_requests.created_at >= ?", since)

	if scope.PropertyID != nil {
		query = query.Where("maintenance_requests.property_id = ?", *scope.PropertyID)
	}
	if scope.AssignedTo != nil {
		query = query.Where("maintenance_requests.assigned_to = ?", *scope.AssignedTo)
	}
	return query
}

// 1 GetDashboardStats 获取窗口内的总量、各状态数量、高优数量和两个平均值
func (s *MaintenanceStatsService) GetDashboardStats(scope StatsScope) (*DashboardStats, error) {
	if scope.CompanyID == 0 {
		return nil, apperr.Validation("必须指定公司")
	}

	stats := &DashboardStats{}

	if err := s.baseQuery(scope).Count(&stats.Total).Error; err != nil {
		return nil, err
	}

	statusCounts := []struct {
		status models.RequestStatus
		dest   *int64
	}{
		{models.StatusPending, &stats.Pending},
		{models.StatusAssigned, &stats.Assigned},
		{models.StatusInProgress, &stats.InProgress},
		{models.StatusCompleted, &stats.Completed},
		{models.StatusCancelled, &stats.Cancelled},
	}
	for _, sc := range statusCounts {
		if err := s.baseQuery(scope).Where("maintenance_requests.status = ?", sc.status).Count(sc.dest).Error; err != nil {
			return nil, err
		}
	}

	if err := s.baseQuery(scope).Where("maintenance_requests.priority = ?", models.PriorityEmergency).Count(&stats.Emergency).Error; err != nil {
		return nil, err
	}
	if err := s.baseQuery(scope).Where("maintenance_requests.priority = ?", models.PriorityUrgent).Count(&stats.Urgent).Error; err != nil {
		return nil, err
	}

	avgHours, err := s.avgCompletionHours(s.baseQuery(scope))
	if err != nil {
		return nil, err
	}
	stats.AvgCompletionHours = avgHours

	avgRating, err := s.avgTenantRating(scope)
	if err != nil {
		return nil, err
	}
	stats.AvgTenantRating = avgRating

	return stats, nil
}

// avgCompletionHours 计算查询口径内已完成工单从创建到完成的平均小时数。
// 差值在应用层计算，避免依赖具体数据库的日期函数。
func (s *MaintenanceStatsService) avgCompletionHours(query *gorm.DB) (*float64, error) {
	var rows []struct {
		CreatedAt   time.Time
		CompletedAt *time.Time
	}
	if err := query.
		Where("maintenance_requests.status = ?", models.StatusCompleted).
		Where("maintenance_requests.completed_at IS NOT NULL").
		Select("maintenance_requests.created_at, maintenance_requests.completed_at").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	var totalHours float64
	for _, row := range rows {
		totalHours += row.CompletedAt.Sub(row.CreatedAt).Hours()
	}
	avg := totalHours / float64(len(rows))
	return &avg, nil
}

// avgTenantRating 计算窗口内已评分工单的平均评分
func (s *MaintenanceStatsService) avgTenantRating(scope StatsScope) (*float64, error) {
	var avg sql.NullFloat64
	if err := s.baseQuery(scope).
		Where("maintenance_requests.tenant_rating IS NOT NULL").
		Select("AVG(maintenance_requests.tenant_rating)").
		Scan(&avg).Error; err != nil {
		return nil, err
	}
	if !avg.Valid {
		return nil, nil
	}
	return &avg.Float64, nil
}

// 2 GetCategoryBreakdown 按类别统计窗口内的工单数量和平均完成耗时。
// 结果覆盖全部启用类别，没有工单的类别计为0而不是缺行。
func (s *MaintenanceStatsService) GetCategoryBreakdown(scope StatsScope) ([]CategoryStat, error) {
	if scope.CompanyID == 0 {
		return nil, apperr.Validation("必须指定公司")
	}

	var categories []models.MaintenanceCategory
	if err := s.DB.Where("is_active = ?", true).Order("id").Find(&categories).Error; err != nil {
		return nil, err
	}

	result := make([]CategoryStat, 0, len(categories))
	for _, category := range categories {
		var count int64
		if err := s.baseQuery(scope).Where("maintenance_requests.category_id = ?", category.ID).Count(&count).Error; err != nil {
			return nil, err
		}

		avgHours, err := s.avgCompletionHours(
			s.baseQuery(scope).Where("maintenance_requests.category_id = ?", category.ID))
		if err != nil {
			return nil, err
		}

		result = append(result, CategoryStat{
			CategoryID:         category.ID,
			CategoryName:       category.Name,
			Count:              count,
			AvgCompletionHours: avgHours,
		})
	}
	return result, nil
}

// 3 GetRecentRequests 获取窗口内最近创建的工单摘要，按创建时间倒序
func (s *MaintenanceStatsService) GetRecentRequests(scope StatsScope, limit int) ([]RequestSummary, error) {
	if scope.CompanyID == 0 {
		return nil, apperr.Validation("必须指定公司")
	}
	if limit <= 0 {
		limit = 10
	}

	var requests []models.MaintenanceRequest
	if err := s.baseQuery(scope).
		Preload("Property").Preload("Unit").Preload("Tenant").
		Order("maintenance_requests.created_at DESC").
		Limit(limit).
		Find(&requests).Error; err != nil {
		return nil, err
	}

	summaries := make([]RequestSummary, 0, len(requests))
	for _, req := range requests {
		summary := RequestSummary{
			ID:        req.ID,
			RequestNo: req.RequestNo,
			Title:     req.Title,
			Priority:  req.Priority,
			Status:    req.Status,
			CreatedAt: req.CreatedAt,
		}
		if req.Property != nil {
			summary.PropertyName = req.Property.PropertyName
		}
		if req.Unit != nil {
			summary.UnitNumber = req.Unit.UnitNumber
		}
		if req.Tenant != nil {
			summary.TenantName = req.Tenant.Name
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}
