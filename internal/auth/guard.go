package auth

import (
	"context"
	"fmt"
	"strings"

	"webstarter/internal/models"
	"webstarter/pkg/apperrors"
)

const (
	msgSignInRequired = "You must be signed in to access this resource"
	msgNotOwner       = "You don't have permission to access this resource"
)

// Guard - проверки доступа поверх текущей сессии.
type Guard struct {
	permissions map[models.Role][]string
}

// NewGuard uses the given role table; nil means the package Permissions.
func NewGuard(permissions map[models.Role][]string) *Guard {
	if permissions == nil {
		permissions = Permissions
	}
	return &Guard{permissions: permissions}
}

// RequireAuthenticated returns the signed-in user or UNAUTHORIZED.
func (g *Guard) RequireAuthenticated(ctx context.Context) (*SessionUser, error) {
	u, err := CurrentSession(ctx)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, apperrors.Unauthorized(msgSignInRequired)
	}
	return u, nil
}

// RequireRole - пользователь должен иметь одну из ролей.
func (g *Guard) RequireRole(ctx context.Context, roles ...models.Role) (*SessionUser, error) {
	u, err := g.RequireAuthenticated(ctx)
	if err != nil {
		return nil, err
	}
	if !hasAnyRole(u, roles) {
		names := make([]string, len(roles))
		for i, r := range roles {
			names[i] = string(r)
		}
		return nil, apperrors.Forbidden(fmt.Sprintf(
			"This resource requires one of the following roles: %s", strings.Join(names, ", ")))
	}
	return u, nil
}

func (g *Guard) RequireAdmin(ctx context.Context) (*SessionUser, error) {
	return g.RequireRole(ctx, models.RoleAdmin)
}

// RequireOwnership passes for the owner and for admins.
func (g *Guard) RequireOwnership(ctx context.Context, ownerID string) (*SessionUser, error) {
	u, err := g.RequireAuthenticated(ctx)
	if err != nil {
		return nil, err
	}
	if u.Role == models.RoleAdmin || u.ID == ownerID {
		return u, nil
	}
	return nil, apperrors.Forbidden(msgNotOwner)
}

// HasRole never fails: no session or a failed lookup is false.
func (g *Guard) HasRole(ctx context.Context, roles ...models.Role) bool {
	u, err := CurrentSession(ctx)
	if err != nil || u == nil {
		return false
	}
	return hasAnyRole(u, roles)
}

func (g *Guard) IsAdmin(ctx context.Context) bool {
	return g.HasRole(ctx, models.RoleAdmin)
}

// Can - admin всегда может; остальные по таблице, по умолчанию запрет.
func (g *Guard) Can(ctx context.Context, action, resource string) bool {
	u, err := CurrentSession(ctx)
	if err != nil || u == nil {
		return false
	}
	return hasPermission(g.permissions, u.Role, Permission(action, resource))
}

func hasAnyRole(u *SessionUser, roles []models.Role) bool {
	for _, r := range roles {
		if u.Role == r {
			return true
		}
	}
	return false
}
