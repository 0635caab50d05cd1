package repositories

import (
	"context"

	"gorm.io/gorm"

	"webstarter/internal/database"
	"webstarter/internal/models"
)

type ItemRepository interface {
	Create(ctx context.Context, item *models.Item) error
	FindByID(ctx context.Context, id string) (*models.Item, error)
	ListByUser(ctx context.Context, userID string, page Page) ([]models.Item, int64, error)
	Update(ctx context.Context, item *models.Item, fields map[string]any) error
	Delete(ctx context.Context, id string) error
}

type ItemRepositoryImpl struct {
	db *gorm.DB
}

func NewItemRepository(db *gorm.DB) ItemRepository {
	return &ItemRepositoryImpl{db: db}
}

func (r *ItemRepositoryImpl) Create(ctx context.Context, item *models.Item) error {
	return database.Conn(ctx, r.db).Create(item).Error
}

func (r *ItemRepositoryImpl) FindByID(ctx context.Context, id string) (*models.Item, error) {
	var item models.Item
	if err := database.Conn(ctx, r.db).First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *ItemRepositoryImpl) ListByUser(ctx context.Context, userID string, page Page) ([]models.Item, int64, error) {
	db := database.Conn(ctx, r.db)

	var total int64
	if err := db.Model(&models.Item{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []models.Item
	err := db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(page.Limit).Offset(page.Offset()).
		Find(&items).Error
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Update applies only the given columns.
func (r *ItemRepositoryImpl) Update(ctx context.Context, item *models.Item, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	return database.Conn(ctx, r.db).Model(item).Updates(fields).Error
}

func (r *ItemRepositoryImpl) Delete(ctx context.Context, id string) error {
	res := database.Conn(ctx, r.db).Delete(&models.Item{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
