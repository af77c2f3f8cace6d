package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"huntersrun-http-service/internal/domain/models"
	"huntersrun-http-service/internal/error/apperr"
	"huntersrun-http-service/internal/infrastructure/config"
)

// testEnv 持有一套隔离的测试数据
type testEnv struct {
	db          *gorm.DB
	svc         InterfaceMaintenanceRequestService
	property    models.Property
	property2   models.Property // 归属另一家公司
	admin       models.Identity
	manager     models.Identity
	worker      models.Identity
	tenant      models.Identity
	workerStaff models.Staff
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// 内存库必须单连接，多个连接会各自拿到空库
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.Company{},
		&models.Property{},
		&models.Building{},
		&models.Unit{},
		&models.Staff{},
		&models.Tenant{},
		&models.MaintenanceCategory{},
		&models.MaintenanceRequest{},
		&models.RequestUpdate{},
	))

	return db
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := openTestDB(t)

	company := models.Company{CompanyName: "亨特物业", CompanyCode: "HR001", Status: "active"}
	require.NoError(t, db.Create(&company).Error)
	other := models.Company{CompanyName: "对照物业", CompanyCode: "OT001", Status: "active"}
	require.NoError(t, db.Create(&other).Error)

	property := models.Property{CompanyID: company.ID, PropertyName: "亨特小区", PropertyCode: "P001"}
	require.NoError(t, db.Create(&property).Error)
	property2 := models.Property{CompanyID: other.ID, PropertyName: "对照小区", PropertyCode: "P002"}
	require.NoError(t, db.Create(&property2).Error)

	adminStaff := models.Staff{CompanyID: company.ID, Name: "管理员", Phone: "100", Role: models.RoleAdmin, Username: "admin1", Password: "secret"}
	require.NoError(t, db.Create(&adminStaff).Error)
	managerStaff := models.Staff{CompanyID: company.ID, Name: "经理", Phone: "101", Role: models.RoleManager, Username: "manager1", Password: "secret"}
	require.NoError(t, db.Create(&managerStaff).Error)
	workerStaff := models.Staff{CompanyID: company.ID, Name: "维修工", Phone: "102", Role: models.RoleMaintenance, Username: "worker1", Password: "secret"}
	require.NoError(t, db.Create(&workerStaff).Error)

	tenant := models.Tenant{CompanyID: company.ID, PropertyID: property.ID, Name: "租户", Phone: "103", Username: "tenant1", Password: "secret"}
	require.NoError(t, db.Create(&tenant).Error)

	cfg := &config.Config{RequestPageSizeLimit: 100, StatsWindowDays: 30}
	propertySvc := NewPropertyService(db, cfg)
	policy := NewAccessPolicyService()

	return &testEnv{
		db:          db,
		svc:         NewMaintenanceRequestService(db, cfg, propertySvc, policy),
		property:    property,
		property2:   property2,
		admin:       models.Identity{UserID: adminStaff.ID, CompanyID: company.ID, Role: models.RoleAdmin},
		manager:     models.Identity{UserID: managerStaff.ID, CompanyID: company.ID, Role: models.RoleManager},
		worker:      models.Identity{UserID: workerStaff.ID, CompanyID: company.ID, Role: models.RoleMaintenance},
		tenant:      models.Identity{UserID: tenant.ID, CompanyID: company.ID, Role: models.RoleTenant},
		workerStaff: workerStaff,
	}
}

// createRequest 以租户身份创建一个默认工单
func (e *testEnv) createRequest(t *testing.T, priority models.RequestPriority) *models.MaintenanceRequest {
	t.Helper()
	req, err := e.svc.CreateRequest(&CreateRequestInput{
		PropertyID:  e.property.ID,
		Title:       "水管漏水",
		Description: "厨房水槽下方渗水",
		Priority:    priority,
	}, e.tenant)
	require.NoError(t, err)
	return req
}

func (e *testEnv) auditEntries(t *testing.T, requestID uint) []models.RequestUpdate {
	t.Helper()
	var updates []models.RequestUpdate
	require.NoError(t, e.db.Where("request_id = ?", requestID).Order("id").Find(&updates).Error)
	return updates
}

func TestCreateRequestWritesCreationAudit(t *testing.T) {
	env := newTestEnv(t)

	req := env.createRequest(t, "")

	require.NotZero(t, req.ID)
	require.Contains(t, req.RequestNo, "MR-")
	require.Equal(t, models.StatusPending, req.Status)
	require.Equal(t, models.PriorityNormal, req.Priority)
	require.NotNil(t, req.TenantID)
	require.Equal(t, env.tenant.UserID, *req.TenantID)

	updates := env.auditEntries(t, req.ID)
	require.Len(t, updates, 1)
	require.Equal(t, models.UpdateTypeCreation, updates[0].UpdateType)
	require.True(t, updates[0].IsVisibleToTenant)
}

func TestCreateRequestValidation(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.CreateRequest(&CreateRequestInput{
		PropertyID:  env.property.ID,
		Description: "缺标题",
	}, env.tenant)
	require.ErrorIs(t, err, apperr.ErrValidation)

	_, err = env.svc.CreateRequest(&CreateRequestInput{
		Title:       "缺物业",
		Description: "缺物业",
	}, env.tenant)
	require.ErrorIs(t, err, apperr.ErrValidation)

	_, err = env.svc.CreateRequest(&CreateRequestInput{
		PropertyID:  env.property.ID,
		Title:       "非法优先级",
		Description: "非法优先级",
		Priority:    "extreme",
	}, env.tenant)
	require.ErrorIs(t, err, apperr.ErrValidation)
}

func TestCreateRequestCrossCompanyDenied(t *testing.T) {
	env := newTestEnv(t)

	outsider := models.Identity{UserID: 999, CompanyID: env.tenant.CompanyID + 1, Role: models.RoleAdmin}
	_, err := env.svc.CreateRequest(&CreateRequestInput{
		PropertyID:  env.property.ID,
		Title:       "跨公司",
		Description: "跨公司",
	}, outsider)
	require.ErrorIs(t, err, apperr.ErrAccessDenied)
}

func TestGetRequestCrossCompanyIndistinguishable(t *testing.T) {
	env := newTestEnv(t)
	req := env.createRequest(t, "")

	// 跨公司读取返回不存在，而不是越权
	outsider := models.Identity{UserID: 1, CompanyID: env.tenant.CompanyID + 1, Role: models.RoleAdmin}
	_, _, err := env.svc.GetRequest(req.ID, outsider, false)
	require.ErrorIs(t, err, apperr.ErrNotFound)

	// 不存在的工单返回同样的错误
	_, _, err = env.svc.GetRequest(99999, env.admin, false)
	require.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestIllegalTransitionRejected(t *testing.T) {
	env := newTestEnv(t)
	req := env.createRequest(t, "")

	status := models.StatusCompleted
	_, err := env.svc.ApplyManagerUpdate(req.ID, &ManagerRequestUpdate{Status: &status}, env.manager)
	require.ErrorIs(t, err, apperr.ErrInvalidState)
}

func TestAssignAutoTransitionAndTimestampBackfill(t *testing.T) {
	env := newTestEnv(t)
	req := env.createRequest(t, "")

	assigned, err := env.svc.AssignRequest(req.ID, env.workerStaff.ID, "优先处理", env.manager)
	require.NoError(t, err)
	require.Equal(t, models.StatusAssigned, assigned.Status)
	require.NotNil(t, assigned.AssignedTo)
	require.Equal(t, env.workerStaff.ID, *assigned.AssignedTo)
	require.NotNil(t, assigned.AssignedAt)

	updates := env.auditEntries(t, req.ID)
	// 创建 + 指派 + 状态流转
	require.Len(t, updates, 3)
	require.Equal(t, models.UpdateTypeAssignment, updates[1].UpdateType)
	require.Equal(t, models.UpdateTypeStatusChange, updates[2].UpdateType)

	firstAssignedAt := *assigned.AssignedAt

	// 开工后重新指派：状态不变，指派时间不被覆盖
	status := models.StatusInProgress
	_, err = env.svc.ApplyStaffUpdate(req.ID, &StaffRequestUpdate{Status: &status}, env.worker)
	require.NoError(t, err)

	other := models.Staff{CompanyID: env.workerStaff.CompanyID, Name: "维修工2", Phone: "104", Role: models.RoleMaintenance, Username: "worker2", Password: "secret"}
	require.NoError(t, env.db.Create(&other).Error)

	reassigned, err := env.svc.AssignRequest(req.ID, other.ID, "", env.manager)
	require.NoError(t, err)
	require.Equal(t, models.StatusInProgress, reassigned.Status)
	require.Equal(t, other.ID, *reassigned.AssignedTo)
	require.WithinDuration(t, firstAssignedAt, *reassigned.AssignedAt, time.Second)
}

func TestSameStatusResubmitIsNoOp(t *testing.T) {
	env := newTestEnv(t)
	req := env.createRequest(t, "")

	_, err := env.svc.AssignRequest(req.ID, env.workerStaff.ID, "", env.manager)
	require.NoError(t, err)
	before := env.auditEntries(t, req.ID)

	status := models.StatusAssigned
	updated, err := env.svc.ApplyStaffUpdate(req.ID, &StaffRequestUpdate{Status: &status}, env.worker)
	require.NoError(t, err)
	require.Equal(t, models.StatusAssigned, updated.Status)

	// 不产生新的审计记录
	after := env.auditEntries(t, req.ID)
	require.Len(t, after, len(before))
}

func TestEmptyUpdateRejected(t *testing.T) {
	env := newTestEnv(t)
	req := env.createRequest(t, "")

	_, err := env.svc.ApplyManagerUpdate(req.ID, &ManagerRequestUpdate{}, env.manager)
	require.ErrorIs(t, err, apperr.ErrValidation)

	_, err = env.svc.ApplyTenantUpdate(req.ID, &TenantRequestUpdate{}, env.tenant)
	require.ErrorIs(t, err, apperr.ErrValidation)
}

func TestStaffCannotCancel(t *testing.T) {
	env := newTestEnv(t)
	req := env.createRequest(t, "")

	_, err := env.svc.AssignRequest(req.ID, env.workerStaff.ID, "", env.manager)
	require.NoError(t, err)

	status := models.StatusCancelled
	_, err = env.svc.ApplyStaffUpdate(req.ID, &StaffRequestUpdate{Status: &status}, env.worker)
	require.ErrorIs(t, err, apperr.ErrAccessDenied)
}

func TestCancelRequest(t *testing.T) {
	env := newTestEnv(t)
	req := env.createRequest(t, "")

	cancelled, err := env.svc.CancelRequest(req.ID, "租户自行解决", env.manager)
	require.NoError(t, err)
	require.Equal(t, models.StatusCancelled, cancelled.Status)
	require.NotNil(t, cancelled.CancelledAt)
	require.NotNil(t, cancelled.CancellationReason)
	require.Equal(t, "租户自行解决", *cancelled.CancellationReason)

	// 终态工单不能再取消
	_, err = env.svc.CancelRequest(req.ID, "再取消", env.manager)
	require.ErrorIs(t, err, apperr.ErrInvalidState)

	// 终态工单不能再指派
	_, err = env.svc.AssignRequest(req.ID, env.workerStaff.ID, "", env.manager)
	require.ErrorIs(t, err, apperr.ErrInvalidState)
}

// completeRequest 把工单推进到完成态
func (e *testEnv) completeRequest(t *testing.T, requestID uint) {
	t.Helper()
	_, err := e.svc.AssignRequest(requestID, e.workerStaff.ID, "", e.manager)
	require.NoError(t, err)
	for _, status := range []models.RequestStatus{models.StatusInProgress, models.StatusCompleted} {
		s := status
		_, err = e.svc.ApplyStaffUpdate(requestID, &StaffRequestUpdate{Status: &s}, e.worker)
		require.NoError(t, err)
	}
}

func TestRateRequestLifecycle(t *testing.T) {
	env := newTestEnv(t)
	req := env.createRequest(t, "")

	// 未完成不能评分
	_, err := env.svc.RateRequest(req.ID, 5, "不错", env.tenant)
	require.ErrorIs(t, err, apperr.ErrInvalidState)

	env.completeRequest(t, req.ID)

	// 完成后时间戳齐全
	completed, _, err := env.svc.GetRequest(req.ID, env.manager, false)
	require.NoError(t, err)
	require.NotNil(t, completed.AssignedAt)
	require.NotNil(t, completed.StartedAt)
	require.NotNil(t, completed.CompletedAt)

	// 评分范围校验
	_, err = env.svc.RateRequest(req.ID, 6, "", env.tenant)
	require.ErrorIs(t, err, apperr.ErrValidation)
	_, err = env.svc.RateRequest(req.ID, 0, "", env.tenant)
	require.ErrorIs(t, err, apperr.ErrValidation)

	rated, err := env.svc.RateRequest(req.ID, 5, "响应及时", env.tenant)
	require.NoError(t, err)
	require.NotNil(t, rated.TenantRating)
	require.Equal(t, 5, *rated.TenantRating)
	require.NotNil(t, rated.TenantFeedback)

	// 非报修租户不能评分
	otherTenant := models.Identity{UserID: env.tenant.UserID + 100, CompanyID: env.tenant.CompanyID, Role: models.RoleTenant}
	_, err = env.svc.RateRequest(req.ID, 4, "", otherTenant)
	require.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestStaffUpdateActualCost(t *testing.T) {
	env := newTestEnv(t)
	req := env.createRequest(t, "")

	_, err := env.svc.AssignRequest(req.ID, env.workerStaff.ID, "", env.manager)
	require.NoError(t, err)

	cost := decimal.NewFromFloat(180.50)
	updated, err := env.svc.ApplyStaffUpdate(req.ID, &StaffRequestUpdate{ActualCost: &cost}, env.worker)
	require.NoError(t, err)
	require.NotNil(t, updated.ActualCost)
	require.True(t, updated.ActualCost.Equal(cost))
}

func TestPriorityOrdering(t *testing.T) {
	env := newTestEnv(t)

	env.createRequest(t, models.PriorityLow)
	env.createRequest(t, models.PriorityNormal)
	env.createRequest(t, models.PriorityEmergency)
	env.createRequest(t, models.PriorityUrgent)

	requests, total, err := env.svc.ListByProperty(env.property.ID, RequestFilter{}, 1, 10, env.manager)
	require.NoError(t, err)
	require.EqualValues(t, 4, total)
	require.Len(t, requests, 4)

	got := make([]models.RequestPriority, 0, len(requests))
	for _, req := range requests {
		got = append(got, req.Priority)
	}
	require.Equal(t, []models.RequestPriority{
		models.PriorityEmergency,
		models.PriorityUrgent,
		models.PriorityNormal,
		models.PriorityLow,
	}, got)
}

func TestListFilters(t *testing.T) {
	env := newTestEnv(t)

	first := env.createRequest(t, models.PriorityUrgent)
	env.createRequest(t, models.PriorityNormal)

	_, err := env.svc.AssignRequest(first.ID, env.workerStaff.ID, "", env.manager)
	require.NoError(t, err)

	// 按状态过滤
	requests, total, err := env.svc.ListByProperty(env.property.ID, RequestFilter{Status: "assigned"}, 1, 10, env.manager)
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	require.Equal(t, first.ID, requests[0].ID)

	// 未知状态得到空结果而不是报错
	_, total, err = env.svc.ListByProperty(env.property.ID, RequestFilter{Status: "archived"}, 1, 10, env.manager)
	require.NoError(t, err)
	require.EqualValues(t, 0, total)

	// 按指派人过滤
	workerID := env.workerStaff.ID
	_, total, err = env.svc.ListByProperty(env.property.ID, RequestFilter{AssignedTo: &workerID}, 1, 10, env.manager)
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
}

func TestListPaginationValidation(t *testing.T) {
	env := newTestEnv(t)

	_, _, err := env.svc.ListByProperty(env.property.ID, RequestFilter{}, 0, 10, env.manager)
	require.ErrorIs(t, err, apperr.ErrValidation)

	_, _, err = env.svc.ListByProperty(env.property.ID, RequestFilter{}, 1, 0, env.manager)
	require.ErrorIs(t, err, apperr.ErrValidation)

	// 租户无权使用物业视角
	_, _, err = env.svc.ListByProperty(env.property.ID, RequestFilter{}, 1, 10, env.tenant)
	require.ErrorIs(t, err, apperr.ErrAccessDenied)
}

func TestListByTenantScope(t *testing.T) {
	env := newTestEnv(t)
	env.createRequest(t, "")

	requests, total, err := env.svc.ListByTenant(env.tenant.UserID, 1, 10, env.tenant)
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	require.Len(t, requests, 1)

	// 租户不能查别人的历史
	_, _, err = env.svc.ListByTenant(env.tenant.UserID+1, 1, 10, env.tenant)
	require.ErrorIs(t, err, apperr.ErrAccessDenied)

	// 管理角色可以查本公司租户的历史
	_, total, err = env.svc.ListByTenant(env.tenant.UserID, 1, 10, env.manager)
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
}

func TestListByAssigneeScope(t *testing.T) {
	env := newTestEnv(t)
	req := env.createRequest(t, "")

	_, err := env.svc.AssignRequest(req.ID, env.workerStaff.ID, "", env.manager)
	require.NoError(t, err)

	requests, total, err := env.svc.ListByAssignee(env.workerStaff.ID, "", 1, 10, env.worker)
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	require.Len(t, requests, 1)

	// 维修人员不能查别人的任务列表
	_, _, err = env.svc.ListByAssignee(env.workerStaff.ID+1, "", 1, 10, env.worker)
	require.ErrorIs(t, err, apperr.ErrAccessDenied)

	// 状态过滤
	_, total, err = env.svc.ListByAssignee(env.workerStaff.ID, "completed", 1, 10, env.worker)
	require.NoError(t, err)
	require.EqualValues(t, 0, total)
}

func TestTenantHistoryVisibility(t *testing.T) {
	env := newTestEnv(t)
	req := env.createRequest(t, "")

	// 内部备注类记录对租户不可见
	hidden := models.RequestUpdate{
		RequestID:         req.ID,
		UserID:            env.manager.UserID,
		UpdateType:        models.UpdateTypeNote,
		Message:           "内部排查记录",
		IsVisibleToTenant: false,
	}
	require.NoError(t, env.db.Create(&hidden).Error)

	_, tenantUpdates, err := env.svc.GetRequest(req.ID, env.tenant, true)
	require.NoError(t, err)
	require.Len(t, tenantUpdates, 1)
	require.Equal(t, models.UpdateTypeCreation, tenantUpdates[0].UpdateType)

	_, managerUpdates, err := env.svc.GetRequest(req.ID, env.manager, true)
	require.NoError(t, err)
	require.Len(t, managerUpdates, 2)
}

func TestManagerUpdateContentAndInternalNotes(t *testing.T) {
	env := newTestEnv(t)
	req := env.createRequest(t, "")

	title := "更新后的标题"
	notes := "需要采购密封圈"
	priority := models.PriorityUrgent
	estimated := decimal.NewFromInt(200)
	updated, err := env.svc.ApplyManagerUpdate(req.ID, &ManagerRequestUpdate{
		Title:         &title,
		InternalNotes: &notes,
		Priority:      &priority,
		EstimatedCost: &estimated,
	}, env.manager)
	require.NoError(t, err)
	require.Equal(t, title, updated.Title)
	require.Equal(t, priority, updated.Priority)
	require.NotNil(t, updated.InternalNotes)

	// 租户视图中剔除内部备注
	view := updated.ForTenantView()
	require.Nil(t, view.InternalNotes)
}
