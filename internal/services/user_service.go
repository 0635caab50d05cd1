package services

import (
	"context"

	"webstarter/internal/auth"
	"webstarter/internal/logger"
	"webstarter/internal/models"
	"webstarter/internal/repositories"
	"webstarter/internal/services/dto"
	"webstarter/pkg/apperrors"
)

// UserService - административные операции над пользователями.
type UserService interface {
	List(ctx context.Context, page repositories.Page) (*dto.ListResponse[models.PublicUser], error)
	ChangeRole(ctx context.Context, userID string, role models.Role) (*models.PublicUser, error)
}

type userService struct {
	users repositories.UserRepository
	guard *auth.Guard
}

func NewUserService(users repositories.UserRepository, guard *auth.Guard) UserService {
	return &userService{users: users, guard: guard}
}

func (s *userService) List(ctx context.Context, page repositories.Page) (*dto.ListResponse[models.PublicUser], error) {
	if _, err := s.guard.RequireAdmin(ctx); err != nil {
		return nil, err
	}

	users, total, err := s.users.List(ctx, page)
	if err != nil {
		return nil, err
	}

	out := make([]models.PublicUser, 0, len(users))
	for i := range users {
		out = append(out, users[i].Public())
	}
	return &dto.ListResponse[models.PublicUser]{
		Data:       out,
		Pagination: dto.Pagination{Page: page.Page, Limit: page.Limit, Total: total},
	}, nil
}

func (s *userService) ChangeRole(ctx context.Context, userID string, role models.Role) (*models.PublicUser, error) {
	admin, err := s.guard.RequireAdmin(ctx)
	if err != nil {
		return nil, err
	}
	if !role.Valid() {
		return nil, apperrors.InvalidInput("Unknown role", "role")
	}
	// свою роль администратор не понижает
	if admin.ID == userID && role != models.RoleAdmin {
		return nil, apperrors.InvalidState("Administrators cannot remove their own admin role")
	}

	user, err := s.users.UpdateRole(ctx, userID, role)
	if err != nil {
		return nil, err
	}

	logger.CtxInfo(ctx, "user role changed", "target_user_id", userID, "role", role)
	public := user.Public()
	return &public, nil
}
