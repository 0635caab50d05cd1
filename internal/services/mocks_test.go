package services

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"webstarter/internal/auth"
	"webstarter/internal/models"
	"webstarter/internal/repositories"
)

type mockUserRepo struct{ mock.Mock }

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if u := args.Get(0); u != nil {
		return u.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if u := args.Get(0); u != nil {
		return u.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepo) Create(ctx context.Context, user *models.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *mockUserRepo) UpdateRole(ctx context.Context, id string, role models.Role) (*models.User, error) {
	args := m.Called(ctx, id, role)
	if u := args.Get(0); u != nil {
		return u.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepo) List(ctx context.Context, page repositories.Page) ([]models.User, int64, error) {
	args := m.Called(ctx, page)
	return args.Get(0).([]models.User), args.Get(1).(int64), args.Error(2)
}

type mockItemRepo struct{ mock.Mock }

func (m *mockItemRepo) Create(ctx context.Context, item *models.Item) error {
	return m.Called(ctx, item).Error(0)
}

func (m *mockItemRepo) FindByID(ctx context.Context, id string) (*models.Item, error) {
	args := m.Called(ctx, id)
	if it := args.Get(0); it != nil {
		return it.(*models.Item), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockItemRepo) ListByUser(ctx context.Context, userID string, page repositories.Page) ([]models.Item, int64, error) {
	args := m.Called(ctx, userID, page)
	items, _ := args.Get(0).([]models.Item)
	return items, args.Get(1).(int64), args.Error(2)
}

func (m *mockItemRepo) Update(ctx context.Context, item *models.Item, fields map[string]any) error {
	return m.Called(ctx, item, fields).Error(0)
}

func (m *mockItemRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type mockProductRepo struct{ mock.Mock }

func (m *mockProductRepo) ListActive(ctx context.Context, page repositories.Page) ([]models.Product, int64, error) {
	args := m.Called(ctx, page)
	products, _ := args.Get(0).([]models.Product)
	return products, args.Get(1).(int64), args.Error(2)
}

func (m *mockProductRepo) FindBySlug(ctx context.Context, slug string) (*models.Product, error) {
	args := m.Called(ctx, slug)
	if p := args.Get(0); p != nil {
		return p.(*models.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockProductRepo) FindBySlugForUpdate(ctx context.Context, slug string) (*models.Product, error) {
	args := m.Called(ctx, slug)
	if p := args.Get(0); p != nil {
		return p.(*models.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockProductRepo) DecrementStock(ctx context.Context, id string, quantity int) (bool, error) {
	args := m.Called(ctx, id, quantity)
	return args.Bool(0), args.Error(1)
}

type mockUploadRepo struct{ mock.Mock }

func (m *mockUploadRepo) Save(ctx context.Context, u *models.Upload) error {
	return m.Called(ctx, u).Error(0)
}

func (m *mockUploadRepo) FindByKey(ctx context.Context, key string) (*models.Upload, error) {
	args := m.Called(ctx, key)
	if u := args.Get(0); u != nil {
		return u.(*models.Upload), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUploadRepo) DeleteByKey(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *mockUploadRepo) ListPendingBefore(ctx context.Context, cutoff time.Time, limit int) ([]models.Upload, error) {
	args := m.Called(ctx, cutoff, limit)
	uploads, _ := args.Get(0).([]models.Upload)
	return uploads, args.Error(1)
}

func (m *mockUploadRepo) MarkUploaded(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

// fakeTx runs fn inline and counts calls.
type fakeTx struct{ calls int }

func (f *fakeTx) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	return fn(ctx)
}

func asUser(id string, role models.Role) context.Context {
	return auth.WithSession(context.Background(), &auth.SessionUser{ID: id, Email: id + "@example.com", Role: role})
}

func anonymous() context.Context {
	return auth.WithSession(context.Background(), nil)
}
