package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"huntersrun-http-service/internal/domain/models"
	"huntersrun-http-service/internal/error/apperr"
	"huntersrun-http-service/internal/infrastructure/config"
)

func newStatsService(env *testEnv) InterfaceMaintenanceStatsService {
	return NewMaintenanceStatsService(env.db, &config.Config{StatsWindowDays: 30})
}

func TestDashboardStatsRequiresCompany(t *testing.T) {
	env := newTestEnv(t)
	stats := newStatsService(env)

	_, err := stats.GetDashboardStats(StatsScope{})
	require.ErrorIs(t, err, apperr.ErrValidation)
	_, err = stats.GetCategoryBreakdown(StatsScope{})
	require.ErrorIs(t, err, apperr.ErrValidation)
	_, err = stats.GetRecentRequests(StatsScope{}, 10)
	require.ErrorIs(t, err, apperr.ErrValidation)
}

func TestDashboardStatsEmptyWindow(t *testing.T) {
	env := newTestEnv(t)
	stats := newStatsService(env)

	result, err := stats.GetDashboardStats(StatsScope{CompanyID: env.tenant.CompanyID})
	require.NoError(t, err)
	require.Zero(t, result.Total)
	// 无样本时平均值为null，不能和0分混淆
	require.Nil(t, result.AvgCompletionHours)
	require.Nil(t, result.AvgTenantRating)
}

func TestDashboardStatsCountsAndAverages(t *testing.T) {
	env := newTestEnv(t)
	stats := newStatsService(env)

	env.createRequest(t, models.PriorityEmergency)
	env.createRequest(t, models.PriorityUrgent)
	completed := env.createRequest(t, models.PriorityNormal)
	env.completeRequest(t, completed.ID)
	_, err := env.svc.RateRequest(completed.ID, 4, "", env.tenant)
	require.NoError(t, err)

	result, err := stats.GetDashboardStats(StatsScope{CompanyID: env.tenant.CompanyID})
	require.NoError(t, err)
	require.EqualValues(t, 3, result.Total)
	require.EqualValues(t, 2, result.Pending)
	require.EqualValues(t, 1, result.Completed)
	require.EqualValues(t, 1, result.Emergency)
	require.EqualValues(t, 1, result.Urgent)
	require.NotNil(t, result.AvgCompletionHours)
	require.NotNil(t, result.AvgTenantRating)
	require.InDelta(t, 4.0, *result.AvgTenantRating, 0.001)
}

func TestDashboardStatsWindowScoping(t *testing.T) {
	env := newTestEnv(t)
	stats := newStatsService(env)

	env.createRequest(t, "")

	// 窗口外的历史工单不参与统计
	tenantID := env.tenant.UserID
	old := models.MaintenanceRequest{
		PropertyID:  env.property.ID,
		TenantID:    &tenantID,
		Title:       "陈年工单",
		Description: "窗口之外",
	}
	old.CreatedAt = time.Now().AddDate(0, 0, -40)
	require.NoError(t, env.db.Create(&old).Error)

	result, err := stats.GetDashboardStats(StatsScope{CompanyID: env.tenant.CompanyID})
	require.NoError(t, err)
	require.EqualValues(t, 1, result.Total)

	// 放宽窗口后可以看到
	result, err = stats.GetDashboardStats(StatsScope{CompanyID: env.tenant.CompanyID, WindowDays: 60})
	require.NoError(t, err)
	require.EqualValues(t, 2, result.Total)
}

func TestDashboardStatsCompanyAndAssigneeScoping(t *testing.T) {
	env := newTestEnv(t)
	stats := newStatsService(env)

	req := env.createRequest(t, "")
	_, err := env.svc.AssignRequest(req.ID, env.workerStaff.ID, "", env.manager)
	require.NoError(t, err)

	// 其他公司的工单不落入统计口径
	other := models.MaintenanceRequest{
		PropertyID:  env.property2.ID,
		Title:       "别家工单",
		Description: "别家工单",
	}
	require.NoError(t, env.db.Create(&other).Error)

	result, err := stats.GetDashboardStats(StatsScope{CompanyID: env.tenant.CompanyID})
	require.NoError(t, err)
	require.EqualValues(t, 1, result.Total)

	// 按指派人限定
	workerID := env.workerStaff.ID
	result, err = stats.GetDashboardStats(StatsScope{CompanyID: env.tenant.CompanyID, AssignedTo: &workerID})
	require.NoError(t, err)
	require.EqualValues(t, 1, result.Total)

	otherWorker := env.workerStaff.ID + 100
	result, err = stats.GetDashboardStats(StatsScope{CompanyID: env.tenant.CompanyID, AssignedTo: &otherWorker})
	require.NoError(t, err)
	require.EqualValues(t, 0, result.Total)
}

func TestCategoryBreakdownIncludesZeroCounts(t *testing.T) {
	env := newTestEnv(t)
	stats := newStatsService(env)

	plumbing := models.MaintenanceCategory{Name: "水暖维修", IsActive: true}
	require.NoError(t, env.db.Create(&plumbing).Error)
	electrical := models.MaintenanceCategory{Name: "电路维修", IsActive: true}
	require.NoError(t, env.db.Create(&electrical).Error)
	retired := models.MaintenanceCategory{Name: "停用类别", IsActive: false}
	require.NoError(t, env.db.Create(&retired).Error)

	_, err := env.svc.CreateRequest(&CreateRequestInput{
		PropertyID:  env.property.ID,
		CategoryID:  &plumbing.ID,
		Title:       "水管漏水",
		Description: "厨房水槽下方渗水",
	}, env.tenant)
	require.NoError(t, err)

	breakdown, err := stats.GetCategoryBreakdown(StatsScope{CompanyID: env.tenant.CompanyID})
	require.NoError(t, err)
	// 停用类别不出现，没有工单的启用类别计为0
	require.Len(t, breakdown, 2)

	counts := map[string]int64{}
	for _, stat := range breakdown {
		counts[stat.CategoryName] = stat.Count
	}
	require.EqualValues(t, 1, counts["水暖维修"])
	require.EqualValues(t, 0, counts["电路维修"])
	require.NotContains(t, counts, "停用类别")
}

func TestCategoryBreakdownCompletionLatency(t *testing.T) {
	env := newTestEnv(t)
	stats := newStatsService(env)

	plumbing := models.MaintenanceCategory{Name: "水暖维修", IsActive: true}
	require.NoError(t, env.db.Create(&plumbing).Error)
	electrical := models.MaintenanceCategory{Name: "电路维修", IsActive: true}
	require.NoError(t, env.db.Create(&electrical).Error)

	// 水暖类别：两个已完成工单，耗时2小时和4小时
	tenantID := env.tenant.UserID
	for _, hours := range []int{2, 4} {
		completedAt := time.Now()
		req := models.MaintenanceRequest{
			PropertyID:  env.property.ID,
			TenantID:    &tenantID,
			CategoryID:  &plumbing.ID,
			Title:       "水管漏水",
			Description: "厨房水槽下方渗水",
			Status:      models.StatusCompleted,
			CompletedAt: &completedAt,
		}
		req.CreatedAt = completedAt.Add(-time.Duration(hours) * time.Hour)
		require.NoError(t, env.db.Create(&req).Error)
	}

	// 电路类别：只有未完成工单
	_, err := env.svc.CreateRequest(&CreateRequestInput{
		PropertyID:  env.property.ID,
		CategoryID:  &electrical.ID,
		Title:       "插座跳闸",
		Description: "客厅插座跳闸",
	}, env.tenant)
	require.NoError(t, err)

	breakdown, err := stats.GetCategoryBreakdown(StatsScope{CompanyID: env.tenant.CompanyID})
	require.NoError(t, err)
	require.Len(t, breakdown, 2)

	byName := map[string]CategoryStat{}
	for _, stat := range breakdown {
		byName[stat.CategoryName] = stat
	}

	require.NotNil(t, byName["水暖维修"].AvgCompletionHours)
	require.InDelta(t, 3.0, *byName["水暖维修"].AvgCompletionHours, 0.1)

	// 没有已完成工单的类别耗时为null而不是0
	require.EqualValues(t, 1, byName["电路维修"].Count)
	require.Nil(t, byName["电路维修"].AvgCompletionHours)
}

func TestRecentRequestsOrderAndLimit(t *testing.T) {
	env := newTestEnv(t)
	stats := newStatsService(env)

	tenantID := env.tenant.UserID
	for i := 0; i < 3; i++ {
		req := models.MaintenanceRequest{
			PropertyID:  env.property.ID,
			TenantID:    &tenantID,
			Title:       "工单",
			Description: "工单",
		}
		req.CreatedAt = time.Now().Add(-time.Duration(3-i) * time.Hour)
		require.NoError(t, env.db.Create(&req).Error)
	}

	summaries, err := stats.GetRecentRequests(StatsScope{CompanyID: env.tenant.CompanyID}, 2)
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	// 最近创建的排在前面
	require.True(t, summaries[0].CreatedAt.After(summaries[1].CreatedAt))
	require.Equal(t, "亨特小区", summaries[0].PropertyName)
	require.Equal(t, "租户", summaries[0].TenantName)
	require.Contains(t, summaries[0].RequestNo, "MR-")
}
