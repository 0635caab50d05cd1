package handlers

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"webstarter/internal/models"
	"webstarter/internal/repositories"
	"webstarter/internal/services"
	"webstarter/internal/services/dto"
)

type mockUploadService struct{ mock.Mock }

func (m *mockUploadService) Upload(ctx context.Context, content io.Reader, info services.FileInfo, folder string) (*dto.UploadResponse, error) {
	args := m.Called(ctx, content, info, folder)
	if r := args.Get(0); r != nil {
		return r.(*dto.UploadResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUploadService) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *mockUploadService) Presign(ctx context.Context, req *dto.PresignRequest) (*dto.PresignResponse, error) {
	args := m.Called(ctx, req)
	if r := args.Get(0); r != nil {
		return r.(*dto.PresignResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockProductService struct{ mock.Mock }

func (m *mockProductService) List(ctx context.Context, page repositories.Page) (*dto.ListResponse[models.Product], error) {
	args := m.Called(ctx, page)
	if r := args.Get(0); r != nil {
		return r.(*dto.ListResponse[models.Product]), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockProductService) Get(ctx context.Context, slug string) (*models.Product, error) {
	args := m.Called(ctx, slug)
	if r := args.Get(0); r != nil {
		return r.(*models.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockProductService) Purchase(ctx context.Context, slug string, quantity int) (*dto.PurchaseResponse, error) {
	args := m.Called(ctx, slug, quantity)
	if r := args.Get(0); r != nil {
		return r.(*dto.PurchaseResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockUserService struct{ mock.Mock }

func (m *mockUserService) List(ctx context.Context, page repositories.Page) (*dto.ListResponse[models.PublicUser], error) {
	args := m.Called(ctx, page)
	if r := args.Get(0); r != nil {
		return r.(*dto.ListResponse[models.PublicUser]), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserService) ChangeRole(ctx context.Context, userID string, role models.Role) (*models.PublicUser, error) {
	args := m.Called(ctx, userID, role)
	if r := args.Get(0); r != nil {
		return r.(*models.PublicUser), args.Error(1)
	}
	return nil, args.Error(1)
}
