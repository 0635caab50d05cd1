package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"webstarter/internal/auth"
	"webstarter/internal/models"
	"webstarter/internal/repositories"
	"webstarter/internal/services"
	"webstarter/internal/validator"
	"webstarter/pkg/apperrors"
)

// memItems - ItemRepository в памяти.
type memItems struct {
	mu    sync.Mutex
	items map[string]models.Item
}

func newMemItems() *memItems { return &memItems{items: map[string]models.Item{}} }

func (m *memItems) Create(_ context.Context, item *models.Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	item.ID = uuid.NewString()
	m.items[item.ID] = *item
	return nil
}

func (m *memItems) FindByID(_ context.Context, id string) (*models.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	it, ok := m.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &it, nil
}

func (m *memItems) ListByUser(_ context.Context, userID string, _ repositories.Page) ([]models.Item, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Item
	for _, it := range m.items {
		if it.UserID == userID {
			out = append(out, it)
		}
	}
	return out, int64(len(out)), nil
}

func (m *memItems) Update(_ context.Context, item *models.Item, _ map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[item.ID] = *item
	return nil
}

func (m *memItems) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.items, id)
	return nil
}

type testServer struct {
	router   *gin.Engine
	items    *memItems
	uploads  *mockUploadService
	products *mockProductService
	users    *mockUserService
}

// newTestServer - the session comes from the X-Test-User header.
func newTestServer(t *testing.T, ping Pinger) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	conv := apperrors.NewConverter("test")
	base := NewBaseHandler(validator.New(), conv)
	guard := auth.NewGuard(nil)
	items := newMemItems()
	itemService := services.NewItemService(items, guard)

	if ping == nil {
		ping = func(context.Context) error { return nil }
	}

	r := gin.New()
	r.Use(conv.RecoveryMiddleware(), func(c *gin.Context) {
		var user *auth.SessionUser
		if id := c.GetHeader("X-Test-User"); id != "" {
			user = &auth.SessionUser{ID: id, Role: models.RoleUser}
		}
		c.Request = c.Request.WithContext(auth.WithSession(c.Request.Context(), user))
		c.Next()
	})

	NewHealthHandler(base, ping).RegisterRoutes(r)
	api := r.Group("/api")
	NewItemHandler(base, itemService).RegisterRoutes(api)
	NewActionHandler(base, itemService).RegisterRoutes(api)
	NewAuthHandler(base, nil, false).RegisterRoutes(api)

	uploads := &mockUploadService{}
	products := &mockProductService{}
	users := &mockUserService{}
	NewUploadHandler(base, uploads).RegisterRoutes(api)
	NewProductHandler(base, products).RegisterRoutes(api)
	NewAdminHandler(base, users).RegisterRoutes(api.Group("/admin"))

	return &testServer{router: r, items: items, uploads: uploads, products: products, users: users}
}

func (s *testServer) do(t *testing.T, method, path, user, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if user != "" {
		req.Header.Set("X-Test-User", user)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var out map[string]any
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	}
	return w, out
}

func TestCreateItemRequiresSession(t *testing.T) {
	s := newTestServer(t, nil)

	w, body := s.do(t, http.MethodPost, "/api/example", "", `{"name":"Notebook"}`)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "UNAUTHORIZED", body["kind"])
	assert.Equal(t, "You must be signed in to access this resource", body["message"])
}

func TestCreateItemValidation(t *testing.T) {
	s := newTestServer(t, nil)

	w, body := s.do(t, http.MethodPost, "/api/example", "u1", `{"name":""}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", body["kind"])
	md := body["metadata"].(map[string]any)
	issues := md["issues"].([]any)
	require.NotEmpty(t, issues)
	assert.Equal(t, []any{"name"}, issues[0].(map[string]any)["path"])
}

func TestCreateItemBadJSON(t *testing.T) {
	s := newTestServer(t, nil)

	w, body := s.do(t, http.MethodPost, "/api/example", "u1", `{"name":`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_INPUT", body["kind"])
}

func TestItemCRUD(t *testing.T) {
	s := newTestServer(t, nil)

	w, created := s.do(t, http.MethodPost, "/api/example", "u1", `{"name":"Notebook","description":"A5"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	id := created["id"].(string)

	w, list := s.do(t, http.MethodGet, "/api/example?page=1&limit=5", "u1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, list["data"], 1)
	assert.Equal(t, map[string]any{"page": 1.0, "limit": 5.0, "total": 1.0}, list["pagination"])

	w, _ = s.do(t, http.MethodPatch, "/api/example", "u2", `{"id":"`+id+`","name":"Stolen"}`)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, updated := s.do(t, http.MethodPatch, "/api/example", "u1", `{"id":"`+id+`","name":"Renamed"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Renamed", updated["name"])

	w, body := s.do(t, http.MethodDelete, "/api/example", "u1", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "ID is required", body["message"])

	w, body = s.do(t, http.MethodDelete, "/api/example?id="+id, "u1", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["success"])

	w, body = s.do(t, http.MethodDelete, "/api/example?id="+id, "u1", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", body["kind"])
	assert.Equal(t, "Record not found", body["message"])
}

func TestActionValidationFailure(t *testing.T) {
	s := newTestServer(t, nil)

	w, body := s.do(t, http.MethodPost, "/api/actions/items/create", "", `{"name":""}`)

	// валидация раньше авторизации
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, body["ok"])
	e := body["error"].(map[string]any)
	assert.Equal(t, "VALIDATION_ERROR", e["kind"])
	assert.NotEmpty(t, e["issues"])
	assert.NotContains(t, e, "metadata")
}

func TestActionCreateAndDelete(t *testing.T) {
	s := newTestServer(t, nil)

	_, body := s.do(t, http.MethodPost, "/api/actions/items/create", "u1", `{"name":"Pen"}`)
	require.Equal(t, true, body["ok"])
	id := body["data"].(map[string]any)["id"].(string)

	_, body = s.do(t, http.MethodPost, "/api/actions/items/delete", "u1", `{"id":"`+id+`"}`)
	assert.Equal(t, map[string]any{"ok": true, "data": map[string]any{"id": id}}, body)

	_, body = s.do(t, http.MethodPost, "/api/actions/items/delete", "u1", `{"id":"`+id+`"}`)
	assert.Equal(t, false, body["ok"])
	assert.Equal(t, "NOT_FOUND", body["error"].(map[string]any)["kind"])
}

func TestHealth(t *testing.T) {
	w, body := newTestServer(t, nil).do(t, http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", body["status"])

	down := newTestServer(t, func(context.Context) error { return errors.New("connection refused") })
	w, body = down.do(t, http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "EXTERNAL_SERVICE_ERROR", body["kind"])
}

func TestSessionEndpoint(t *testing.T) {
	s := newTestServer(t, nil)

	_, body := s.do(t, http.MethodGet, "/api/auth/session", "", "")
	assert.Equal(t, map[string]any{"user": nil}, body)

	_, body = s.do(t, http.MethodGet, "/api/auth/session", "u1", "")
	assert.Equal(t, "u1", body["user"].(map[string]any)["id"])
}

func TestParsePagination(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	c.Request = httptest.NewRequest(http.MethodGet, "/?page=-3&limit=1000", nil)
	assert.Equal(t, repositories.Page{Page: 1, Limit: 100}, ParsePagination(c))

	c.Request = httptest.NewRequest(http.MethodGet, "/?page=abc", nil)
	assert.Equal(t, repositories.Page{Page: 1, Limit: 10}, ParsePagination(c))
}
