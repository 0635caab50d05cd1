package repositories

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"webstarter/internal/database"
	"webstarter/internal/models"
)

type ProductRepository interface {
	ListActive(ctx context.Context, page Page) ([]models.Product, int64, error)
	FindBySlug(ctx context.Context, slug string) (*models.Product, error)
	// FindBySlugForUpdate locks the row; call it inside a transaction.
	FindBySlugForUpdate(ctx context.Context, slug string) (*models.Product, error)
	DecrementStock(ctx context.Context, id string, quantity int) (bool, error)
}

type ProductRepositoryImpl struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &ProductRepositoryImpl{db: db}
}

func (r *ProductRepositoryImpl) ListActive(ctx context.Context, page Page) ([]models.Product, int64, error) {
	db := database.Conn(ctx, r.db)

	var total int64
	if err := db.Model(&models.Product{}).Where("is_active = ?", true).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var products []models.Product
	err := db.Where("is_active = ?", true).
		Order("name ASC").
		Limit(page.Limit).Offset(page.Offset()).
		Find(&products).Error
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func (r *ProductRepositoryImpl) FindBySlug(ctx context.Context, slug string) (*models.Product, error) {
	var p models.Product
	if err := database.Conn(ctx, r.db).First(&p, "slug = ?", slug).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProductRepositoryImpl) FindBySlugForUpdate(ctx context.Context, slug string) (*models.Product, error) {
	var p models.Product
	err := database.Conn(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&p, "slug = ?", slug).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// DecrementStock is a conditional update: it reports false when the
// stock would go negative instead of writing.
func (r *ProductRepositoryImpl) DecrementStock(ctx context.Context, id string, quantity int) (bool, error) {
	res := database.Conn(ctx, r.db).
		Model(&models.Product{}).
		Where("id = ? AND stock >= ?", id, quantity).
		Update("stock", gorm.Expr("stock - ?", quantity))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
