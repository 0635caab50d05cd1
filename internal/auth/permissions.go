package auth

import "webstarter/internal/models"

// Permissions - RBAC таблица "роль -> разрешения" в формате resource:action.
// Admins are not listed: they pass every check.
var Permissions = map[models.Role][]string{
	models.RoleModerator: {
		"users:read",
		"items:read",
		"items:update",
		"items:delete",
		"products:read",
		"products:update",
	},
	models.RoleUser: {
		"items:read",
		"items:create",
		"products:read",
		"products:purchase",
		"uploads:create",
	},
}

// Permission builds the table key for action on resource.
func Permission(action, resource string) string {
	if resource == "" {
		return action
	}
	return resource + ":" + action
}

// HasPermission проверяет есть ли у роли указанное разрешение.
// Unknown roles and permissions are denied.
func HasPermission(role models.Role, permission string) bool {
	return hasPermission(Permissions, role, permission)
}

func hasPermission(table map[models.Role][]string, role models.Role, permission string) bool {
	if role == models.RoleAdmin {
		return true
	}
	for _, p := range table[role] {
		if p == permission {
			return true
		}
	}
	return false
}
