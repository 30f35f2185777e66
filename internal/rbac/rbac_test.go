package rbac

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	app_errors "github.com/lumiforge/vidlinkgen-backend/internal/errors"
)

func TestRBAC_CheckPermissionWithRole(t *testing.T) {
	rbac := NewRBAC()

	tests := []struct {
		name       string
		role       Role
		permission Permission
		want       bool
	}{
		// Admin permissions
		{"Admin can manage premium", RoleAdmin, PermissionAdminManagePremium, true},
		{"Admin can view logs", RoleAdmin, PermissionAdminViewLogs, true},
		{"Admin can create links", RoleAdmin, PermissionLinkCreate, true},

		// Member permissions
		{"Member can create links", RoleMember, PermissionLinkCreate, true},
		{"Member can view analytics", RoleMember, PermissionLinkViewAnalytics, true},
		{"Member can open tickets", RoleMember, PermissionTicketCreate, true},
		{"Member CANNOT manage premium", RoleMember, PermissionAdminManagePremium, false},
		{"Member CANNOT view users", RoleMember, PermissionAdminViewUsers, false},
		{"Member CANNOT manage tickets", RoleMember, PermissionAdminManageTickets, false},

		// Invalid role
		{"Unknown role has no permissions", "super_hacker", PermissionLinkCreate, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := rbac.CheckPermissionWithRole(tt.role, tt.permission)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRBAC_CheckPermission_FromContext(t *testing.T) {
	rbac := NewRBAC()

	ok, err := rbac.CheckPermission(WithRole(context.Background(), RoleAdmin), PermissionAdminViewUsers)
	assert.NoError(t, err)
	assert.True(t, ok)

	_, err = rbac.CheckPermission(context.Background(), PermissionAdminViewUsers)
	assert.ErrorIs(t, err, app_errors.ErrUserRoleNotFoundInContext)
}

func TestRBAC_IsValidRole(t *testing.T) {
	rbac := NewRBAC()
	assert.True(t, rbac.IsValidRole(RoleAdmin))
	assert.True(t, rbac.IsValidRole(RoleMember))
	assert.False(t, rbac.IsValidRole("manager"))
	assert.Len(t, rbac.GetAllRoles(), 2)
}

func TestRBAC_GetRolePermissions_ReturnsCopy(t *testing.T) {
	rbac := NewRBAC()
	perms := rbac.GetRolePermissions(RoleMember)
	perms[0] = "tampered"
	assert.True(t, rbac.CheckPermissionWithRole(RoleMember, PermissionLinkCreate))
}
