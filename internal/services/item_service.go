package services

import (
	"context"
	"strings"

	"webstarter/internal/auth"
	"webstarter/internal/logger"
	"webstarter/internal/models"
	"webstarter/internal/repositories"
	"webstarter/internal/services/dto"
)

type ItemService interface {
	Create(ctx context.Context, req *dto.CreateItemRequest) (*models.Item, error)
	List(ctx context.Context, page repositories.Page) (*dto.ListResponse[models.Item], error)
	Update(ctx context.Context, req *dto.UpdateItemRequest) (*models.Item, error)
	Delete(ctx context.Context, id string) error
}

type itemService struct {
	items repositories.ItemRepository
	guard *auth.Guard
}

func NewItemService(items repositories.ItemRepository, guard *auth.Guard) ItemService {
	return &itemService{items: items, guard: guard}
}

func (s *itemService) Create(ctx context.Context, req *dto.CreateItemRequest) (*models.Item, error) {
	user, err := s.guard.RequireAuthenticated(ctx)
	if err != nil {
		return nil, err
	}

	item := &models.Item{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		UserID:      user.ID,
	}
	if err := s.items.Create(ctx, item); err != nil {
		return nil, err
	}

	logger.CtxInfo(ctx, "item created", "item_id", item.ID)
	return item, nil
}

// List returns the caller's own items.
func (s *itemService) List(ctx context.Context, page repositories.Page) (*dto.ListResponse[models.Item], error) {
	user, err := s.guard.RequireAuthenticated(ctx)
	if err != nil {
		return nil, err
	}

	items, total, err := s.items.ListByUser(ctx, user.ID, page)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.Item{}
	}
	return &dto.ListResponse[models.Item]{
		Data:       items,
		Pagination: dto.Pagination{Page: page.Page, Limit: page.Limit, Total: total},
	}, nil
}

func (s *itemService) Update(ctx context.Context, req *dto.UpdateItemRequest) (*models.Item, error) {
	item, err := s.ownedItem(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if req.Name != nil {
		item.Name = strings.TrimSpace(*req.Name)
		fields["name"] = item.Name
	}
	if req.Description != nil {
		item.Description = *req.Description
		fields["description"] = item.Description
	}

	if err := s.items.Update(ctx, item, fields); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *itemService) Delete(ctx context.Context, id string) error {
	if _, err := s.ownedItem(ctx, id); err != nil {
		return err
	}
	if err := s.items.Delete(ctx, id); err != nil {
		return err
	}
	logger.CtxInfo(ctx, "item deleted", "item_id", id)
	return nil
}

// ownedItem - сначала авторизация, потом поиск: anonymous callers get 401
// before the existence of the id is revealed.
func (s *itemService) ownedItem(ctx context.Context, id string) (*models.Item, error) {
	if _, err := s.guard.RequireAuthenticated(ctx); err != nil {
		return nil, err
	}
	item, err := s.items.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.guard.RequireOwnership(ctx, item.UserID); err != nil {
		return nil, err
	}
	return item, nil
}
