package login

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/attenda/attenda/internal/auth"
	"github.com/attenda/attenda/internal/authz"
	"github.com/attenda/attenda/internal/config"
	"github.com/attenda/attenda/internal/db/models"
	"github.com/attenda/attenda/internal/directory"
	"github.com/attenda/attenda/internal/web/session"
)

// memoryStorage is a map-backed session store for handler tests.
type memoryStorage struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemoryStorage() *memoryStorage {
	return &memoryStorage{data: map[string][]byte{}}
}

func (m *memoryStorage) Get(key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.data[key], nil
}

func (m *memoryStorage) Set(key string, val []byte, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.data[key] = val

	return nil
}

func (m *memoryStorage) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.data, key)

	return nil
}

func (m *memoryStorage) Reset() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.data = map[string][]byte{}

	return nil
}

func (m *memoryStorage) Close() error { return nil }

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&models.Role{}, &models.User{}))

	webRoleID, mobileRoleID := uint(1), uint(2)

	roles := []models.Role{
		{ID: webRoleID, Name: "administrator", HierarchyRank: 0, AccessWebApplication: true},
		{ID: mobileRoleID, Name: "employee", HierarchyRank: 5, AccessWebApplication: false},
	}
	require.NoError(t, db.Create(&roles).Error)

	users := []models.User{
		{
			ID: 1, Active: true, Username: "alice", Email: "alice@example.com",
			Password: models.HashPassword("correct-horse"), RoleID: &webRoleID,
		},
		{
			ID: 2, Active: true, Username: "bob", Email: "bob@example.com",
			Password: models.HashPassword("correct-horse"), RoleID: &mobileRoleID,
		},
	}
	require.NoError(t, db.Create(&users).Error)

	return db
}

func setupApp(t *testing.T) *fiber.App {
	t.Helper()

	db := setupTestDB(t)
	session.Init(newMemoryStorage())

	cfg := &config.Config{DevMode: true}
	cfg.Webserver.Session.ExpiryTime = time.Hour

	app := fiber.New()

	handler := Service{}
	require.NoError(t, handler.Init(
		app,
		cfg,
		auth.NewLocalProvider(db),
		auth.NewTokenService("test-signing-key", time.Hour, "attenda"),
		authz.NewService(directory.NewStore(db, nil)),
	))

	return app
}

func postJSON(t *testing.T, app *fiber.App, path, body string) *http.Response {
	t.Helper()

	req := httptest.NewRequest(fiber.MethodPost, path, strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err := app.Test(req)
	require.NoError(t, err)

	t.Cleanup(func() { _ = resp.Body.Close() })

	return resp
}

func TestPostSessionLogin(t *testing.T) {
	t.Run("web access grant yields a session cookie", func(t *testing.T) {
		app := setupApp(t)

		resp := postJSON(t, app, Path, `{"username":"alice","password":"correct-horse"}`)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Contains(t, resp.Header.Get(fiber.HeaderSetCookie), "session=")
	})

	t.Run("role without web access is rejected", func(t *testing.T) {
		app := setupApp(t)

		resp := postJSON(t, app, Path, `{"username":"bob","password":"correct-horse"}`)
		assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
		assert.Empty(t, resp.Header.Get(fiber.HeaderSetCookie))
	})

	t.Run("wrong password stays unauthorized", func(t *testing.T) {
		app := setupApp(t)

		resp := postJSON(t, app, Path, `{"username":"alice","password":"wrong"}`)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})
}

func TestPostAPITokenLogin(t *testing.T) {
	// The token endpoint serves mobile clients, so it does not require the
	// web access capability.
	app := setupApp(t)

	resp := postJSON(t, app, APIPath, `{"username":"bob","password":"correct-horse"}`)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
