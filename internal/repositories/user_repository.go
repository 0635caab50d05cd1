package repositories

import (
	"context"

	"gorm.io/gorm"

	"webstarter/internal/database"
	"webstarter/internal/models"
)

// Ошибки gorm/драйвера возвращаются как есть: их переводит apperrors.

type UserRepository interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	UpdateRole(ctx context.Context, id string, role models.Role) (*models.User, error)
	List(ctx context.Context, page Page) ([]models.User, int64, error)
}

type UserRepositoryImpl struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &UserRepositoryImpl{db: db}
}

func (r *UserRepositoryImpl) FindByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := database.Conn(ctx, r.db).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := database.Conn(ctx, r.db).First(&user, "email = ?", email).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Create relies on the unique index on email: a duplicate surfaces as the
// driver's unique violation.
func (r *UserRepositoryImpl) Create(ctx context.Context, user *models.User) error {
	return database.Conn(ctx, r.db).Create(user).Error
}

func (r *UserRepositoryImpl) UpdateRole(ctx context.Context, id string, role models.Role) (*models.User, error) {
	db := database.Conn(ctx, r.db)

	res := db.Model(&models.User{}).Where("id = ?", id).Update("role", role)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.FindByID(ctx, id)
}

func (r *UserRepositoryImpl) List(ctx context.Context, page Page) ([]models.User, int64, error) {
	db := database.Conn(ctx, r.db)

	var total int64
	if err := db.Model(&models.User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []models.User
	err := db.Order("created_at DESC").
		Limit(page.Limit).Offset(page.Offset()).
		Find(&users).Error
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}
