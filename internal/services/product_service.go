package services

import (
	"context"

	"webstarter/internal/auth"
	"webstarter/internal/database"
	"webstarter/internal/logger"
	"webstarter/internal/models"
	"webstarter/internal/repositories"
	"webstarter/internal/services/dto"
	"webstarter/pkg/apperrors"
)

type ProductService interface {
	List(ctx context.Context, page repositories.Page) (*dto.ListResponse[models.Product], error)
	Get(ctx context.Context, slug string) (*models.Product, error)
	Purchase(ctx context.Context, slug string, quantity int) (*dto.PurchaseResponse, error)
}

type productService struct {
	products repositories.ProductRepository
	tx       database.Transactor
	guard    *auth.Guard
}

func NewProductService(products repositories.ProductRepository, tx database.Transactor, guard *auth.Guard) ProductService {
	return &productService{products: products, tx: tx, guard: guard}
}

func (s *productService) List(ctx context.Context, page repositories.Page) (*dto.ListResponse[models.Product], error) {
	products, total, err := s.products.ListActive(ctx, page)
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = []models.Product{}
	}
	return &dto.ListResponse[models.Product]{
		Data:       products,
		Pagination: dto.Pagination{Page: page.Page, Limit: page.Limit, Total: total},
	}, nil
}

func (s *productService) Get(ctx context.Context, slug string) (*models.Product, error) {
	p, err := s.products.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !p.IsActive {
		return nil, apperrors.NotFound("Product")
	}
	return p, nil
}

// Purchase списывает остаток в транзакции. The conditional decrement is
// the source of truth; the locked read only gives a good error message.
func (s *productService) Purchase(ctx context.Context, slug string, quantity int) (*dto.PurchaseResponse, error) {
	user, err := s.guard.RequireAuthenticated(ctx)
	if err != nil {
		return nil, err
	}
	if quantity < 1 {
		return nil, apperrors.Validation("Quantity must be at least 1", "quantity", nil)
	}

	var resp *dto.PurchaseResponse
	err = s.tx.InTx(ctx, func(ctx context.Context) error {
		p, err := s.products.FindBySlugForUpdate(ctx, slug)
		if err != nil {
			return err
		}
		if !p.IsActive {
			return apperrors.InvalidState("Product is not available for purchase")
		}
		if p.Stock < quantity {
			return apperrors.InsufficientStock(p.Name, p.Stock)
		}

		ok, err := s.products.DecrementStock(ctx, p.ID, quantity)
		if err != nil {
			return err
		}
		if !ok {
			return apperrors.InsufficientStock(p.Name, p.Stock)
		}

		p.Stock -= quantity
		resp = &dto.PurchaseResponse{
			Product:   *p,
			Quantity:  quantity,
			Total:     p.Price * int64(quantity),
			Remaining: p.Stock,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.CtxInfo(ctx, "product purchased", "user_id", user.ID, "slug", slug, "quantity", quantity)
	return resp, nil
}
