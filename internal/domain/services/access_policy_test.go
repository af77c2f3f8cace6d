package services

import (
	"testing"

	"github.com/stretchr/testify/require"

	"huntersrun-http-service/internal/domain/models"
)

func uintPtr(v uint) *uint {
	return &v
}

func TestCanViewRequestCrossCompanyAlwaysDenied(t *testing.T) {
	policy := NewAccessPolicyService()
	req := &models.MaintenanceRequest{
		TenantID:   uintPtr(5),
		AssignedTo: uintPtr(9),
	}

	// 哪怕是管理员，跨公司也不可见
	for _, role := range []string{models.RoleAdmin, models.RoleManager, models.RoleMaintenance, models.RoleTenant} {
		actor := models.Identity{UserID: 5, CompanyID: 1, Role: role}
		require.False(t, policy.CanViewRequest(actor, req, 2), "role %s", role)
	}
}

func TestCanViewRequestByRole(t *testing.T) {
	policy := NewAccessPolicyService()
	req := &models.MaintenanceRequest{
		TenantID:   uintPtr(5),
		AssignedTo: uintPtr(9),
	}

	require.True(t, policy.CanViewRequest(models.Identity{UserID: 1, CompanyID: 1, Role: models.RoleAdmin}, req, 1))
	require.True(t, policy.CanViewRequest(models.Identity{UserID: 2, CompanyID: 1, Role: models.RoleManager}, req, 1))

	// 维修人员只能看指派给自己的
	require.True(t, policy.CanViewRequest(models.Identity{UserID: 9, CompanyID: 1, Role: models.RoleMaintenance}, req, 1))
	require.False(t, policy.CanViewRequest(models.Identity{UserID: 8, CompanyID: 1, Role: models.RoleMaintenance}, req, 1))

	// 租户只能看自己报修的
	require.True(t, policy.CanViewRequest(models.Identity{UserID: 5, CompanyID: 1, Role: models.RoleTenant}, req, 1))
	require.False(t, policy.CanViewRequest(models.Identity{UserID: 6, CompanyID: 1, Role: models.RoleTenant}, req, 1))
}

func TestCanViewRequestUnassignedInvisibleToMaintenance(t *testing.T) {
	policy := NewAccessPolicyService()
	req := &models.MaintenanceRequest{TenantID: uintPtr(5)}

	actor := models.Identity{UserID: 9, CompanyID: 1, Role: models.RoleMaintenance}
	require.False(t, policy.CanViewRequest(actor, req, 1))
}

func TestMutationScopeManagement(t *testing.T) {
	policy := NewAccessPolicyService()
	req := &models.MaintenanceRequest{}

	scope, ok := policy.MutationScopeFor(models.Identity{UserID: 1, CompanyID: 1, Role: models.RoleManager}, req, 1)
	require.True(t, ok)
	require.True(t, scope.CanEditContent)
	require.True(t, scope.CanAssign)
	require.True(t, scope.CanSetPriority)
	require.True(t, scope.CanCancel)
	require.True(t, scope.SeesInternalNotes)
	require.False(t, scope.CanRate)
}

func TestMutationScopeMaintenance(t *testing.T) {
	policy := NewAccessPolicyService()
	req := &models.MaintenanceRequest{AssignedTo: uintPtr(9)}

	scope, ok := policy.MutationScopeFor(models.Identity{UserID: 9, CompanyID: 1, Role: models.RoleMaintenance}, req, 1)
	require.True(t, ok)
	require.True(t, scope.CanChangeStatus)
	require.True(t, scope.CanSetActualCost)
	require.True(t, scope.CanAddNote)
	require.False(t, scope.CanCancel)
	require.False(t, scope.CanAssign)
	require.False(t, scope.CanEditContent)
	require.False(t, scope.CanSetPriority)
}

func TestMutationScopeTenant(t *testing.T) {
	policy := NewAccessPolicyService()
	req := &models.MaintenanceRequest{TenantID: uintPtr(5)}

	scope, ok := policy.MutationScopeFor(models.Identity{UserID: 5, CompanyID: 1, Role: models.RoleTenant}, req, 1)
	require.True(t, ok)
	require.True(t, scope.CanRate)
	require.True(t, scope.CanAddNote)
	require.False(t, scope.CanChangeStatus)
	require.False(t, scope.SeesInternalNotes)

	// 别人的工单完全无权修改
	_, ok = policy.MutationScopeFor(models.Identity{UserID: 6, CompanyID: 1, Role: models.RoleTenant}, req, 1)
	require.False(t, ok)
}
