package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"webstarter/internal/auth"
	"webstarter/internal/logger"
	"webstarter/internal/models"
	"webstarter/internal/repositories"
	"webstarter/internal/services/dto"
	"webstarter/pkg/apperrors"
)

type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error)
	CurrentUser(ctx context.Context) (*models.PublicUser, error)
}

// AdminEmailChecker reports e-mails that get the ADMIN role on sign-up.
type AdminEmailChecker func(email string) bool

type authService struct {
	users   repositories.UserRepository
	tokens  *auth.TokenManager
	guard   *auth.Guard
	isAdmin AdminEmailChecker
}

func NewAuthService(users repositories.UserRepository, tokens *auth.TokenManager, guard *auth.Guard, isAdmin AdminEmailChecker) AuthService {
	if isAdmin == nil {
		isAdmin = func(string) bool { return false }
	}
	return &authService{users: users, tokens: tokens, guard: guard, isAdmin: isAdmin}
}

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if err := auth.ValidatePassword(req.Password); err != nil {
		return nil, err
	}

	_, err := s.users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, apperrors.New(apperrors.KindAlreadyExists, "An account with this email already exists", 0,
			apperrors.WithField("email"))
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.InternalFrom(err)
	}

	role := models.RoleUser
	if s.isAdmin(email) {
		role = models.RoleAdmin
	}

	user := &models.User{Email: email, Name: strings.TrimSpace(req.Name), PasswordHash: hash, Role: role}
	// гонка двух регистраций закончится unique violation -> CONFLICT
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	logger.CtxInfo(ctx, "user registered", "user_id", user.ID, "role", user.Role)
	return s.issue(user)
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.InvalidCredentials()
		}
		return nil, err
	}
	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		logger.CtxWarn(ctx, "failed login attempt", "user_id", user.ID)
		return nil, apperrors.InvalidCredentials()
	}

	return s.issue(user)
}

func (s *authService) CurrentUser(ctx context.Context) (*models.PublicUser, error) {
	session, err := s.guard.RequireAuthenticated(ctx)
	if err != nil {
		return nil, err
	}
	user, err := s.users.FindByID(ctx, session.ID)
	if err != nil {
		return nil, err
	}
	public := user.Public()
	return &public, nil
}

func (s *authService) issue(user *models.User) (*dto.AuthResponse, error) {
	token, expires, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}
	return &dto.AuthResponse{User: user.Public(), Token: token, ExpiresAt: expires}, nil
}
