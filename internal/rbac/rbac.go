package rbac

import (
	"context"

	app_errors "github.com/lumiforge/vidlinkgen-backend/internal/errors"
)

// Permission представляет разрешение в системе
type Permission string

const (
	// Разрешения на ссылки
	PermissionLinkCreate        Permission = "link:create"
	PermissionLinkEdit          Permission = "link:edit"
	PermissionLinkDelete        Permission = "link:delete"
	PermissionLinkViewAnalytics Permission = "link:view_analytics"

	// Пользовательские разрешения
	PermissionUserViewProfile Permission = "user:view_profile"
	PermissionTicketCreate    Permission = "ticket:create"

	// Административные разрешения
	PermissionAdminViewUsers     Permission = "admin:view_users"
	PermissionAdminManagePremium Permission = "admin:manage_premium"
	PermissionAdminViewLinks     Permission = "admin:view_links"
	PermissionAdminManageTickets Permission = "admin:manage_tickets"
	PermissionAdminViewLogs      Permission = "admin:view_logs"
)

// Role представляет роль в системе
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// ctxKey ключ роли в контексте запроса
type ctxKey struct{}

// WithRole кладет роль пользователя в контекст
func WithRole(ctx context.Context, role Role) context.Context {
	return context.WithValue(ctx, ctxKey{}, role)
}

// RBAC управляет ролями и разрешениями
type RBAC struct {
	rolePermissions map[Role][]Permission
}

// NewRBAC создает новый RBAC менеджер
func NewRBAC() *RBAC {
	rbac := &RBAC{
		rolePermissions: make(map[Role][]Permission),
	}
	rbac.initializeRolePermissions()
	return rbac
}

// initializeRolePermissions инициализирует разрешения для каждой роли
func (r *RBAC) initializeRolePermissions() {
	member := []Permission{
		PermissionLinkCreate,
		PermissionLinkEdit,
		PermissionLinkDelete,
		PermissionLinkViewAnalytics,
		PermissionUserViewProfile,
		PermissionTicketCreate,
	}
	r.rolePermissions[RoleMember] = member

	// Admin - все разрешения участника плюс back-office
	r.rolePermissions[RoleAdmin] = append(append([]Permission{}, member...),
		PermissionAdminViewUsers,
		PermissionAdminManagePremium,
		PermissionAdminViewLinks,
		PermissionAdminManageTickets,
		PermissionAdminViewLogs,
	)
}

// CheckPermission проверяет разрешение по роли из контекста
func (r *RBAC) CheckPermission(ctx context.Context, permission Permission) (bool, error) {
	if role, ok := ctx.Value(ctxKey{}).(Role); ok {
		return r.hasPermission(role, permission), nil
	}
	return false, app_errors.ErrUserRoleNotFoundInContext
}

// CheckPermissionWithRole проверяет разрешение для указанной роли
func (r *RBAC) CheckPermissionWithRole(role Role, permission Permission) bool {
	return r.hasPermission(role, permission)
}

// hasPermission проверяет, имеет ли роль указанное разрешение
func (r *RBAC) hasPermission(role Role, permission Permission) bool {
	permissions, exists := r.rolePermissions[role]
	if !exists {
		return false
	}

	for _, p := range permissions {
		if p == permission {
			return true
		}
	}

	return false
}

// GetRolePermissions возвращает все разрешения для роли
func (r *RBAC) GetRolePermissions(role Role) []Permission {
	permissions, exists := r.rolePermissions[role]
	if !exists {
		return []Permission{}
	}

	result := make([]Permission, len(permissions))
	copy(result, permissions)
	return result
}

// GetAllRoles возвращает все доступные роли
func (r *RBAC) GetAllRoles() []Role {
	return []Role{RoleAdmin, RoleMember}
}

// IsValidRole проверяет, является ли роль валидной
func (r *RBAC) IsValidRole(role Role) bool {
	_, exists := r.rolePermissions[role]
	return exists
}
