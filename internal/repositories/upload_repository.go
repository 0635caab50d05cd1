package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"

	"webstarter/internal/database"
	"webstarter/internal/models"
)

type UploadRepository interface {
	Save(ctx context.Context, upload *models.Upload) error
	FindByKey(ctx context.Context, key string) (*models.Upload, error)
	DeleteByKey(ctx context.Context, key string) error
	// ListPendingBefore returns presigned uploads created before cutoff, oldest first.
	ListPendingBefore(ctx context.Context, cutoff time.Time, limit int) ([]models.Upload, error)
	MarkUploaded(ctx context.Context, key string) error
}

type uploadRepository struct {
	db *gorm.DB
}

func NewUploadRepository(db *gorm.DB) UploadRepository {
	return &uploadRepository{db: db}
}

func (r *uploadRepository) Save(ctx context.Context, u *models.Upload) error {
	return database.Conn(ctx, r.db).Create(u).Error
}

func (r *uploadRepository) FindByKey(ctx context.Context, key string) (*models.Upload, error) {
	var u models.Upload
	if err := database.Conn(ctx, r.db).First(&u, "storage_key = ?", key).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *uploadRepository) DeleteByKey(ctx context.Context, key string) error {
	return database.Conn(ctx, r.db).Delete(&models.Upload{}, "storage_key = ?", key).Error
}

func (r *uploadRepository) ListPendingBefore(ctx context.Context, cutoff time.Time, limit int) ([]models.Upload, error) {
	var uploads []models.Upload
	err := database.Conn(ctx, r.db).
		Where("pending = ? AND created_at < ?", true, cutoff).
		Order("created_at ASC").
		Limit(limit).
		Find(&uploads).Error
	return uploads, err
}

func (r *uploadRepository) MarkUploaded(ctx context.Context, key string) error {
	return database.Conn(ctx, r.db).Model(&models.Upload{}).
		Where("storage_key = ?", key).
		Update("pending", false).Error
}
