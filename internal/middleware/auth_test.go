package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ronilson-users/backend-work-v2/internal/model"
)

func testApp(m *AuthMiddleware) *fiber.App {
	app := fiber.New()
	app.Get("/me", m.Authenticate(), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"userId": GetUserID(c), "role": GetUserRole(c)})
	})
	app.Get("/company-only", m.Authenticate(), RequireRole(model.RoleCompany), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func TestAuthenticate_RoundTrip(t *testing.T) {
	m := NewAuthMiddleware("test-secret", 24)
	app := testApp(m)

	token, err := m.GenerateToken(&model.User{ID: "u1", Email: "u1@example.com", Role: model.RoleWorker})
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestAuthenticate_Rejections(t *testing.T) {
	m := NewAuthMiddleware("test-secret", 24)
	app := testApp(m)

	t.Run("missing header", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/me", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("malformed header", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/me", nil)
		req.Header.Set("Authorization", "Token abc")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewAuthMiddleware("other-secret", 24)
		token, err := other.GenerateToken(&model.User{ID: "u1", Role: model.RoleWorker})
		require.NoError(t, err)

		req := httptest.NewRequest("GET", "/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("expired token", func(t *testing.T) {
		expired := NewAuthMiddleware("test-secret", -1)
		token, err := expired.GenerateToken(&model.User{ID: "u1", Role: model.RoleWorker})
		require.NoError(t, err)

		req := httptest.NewRequest("GET", "/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})
}

func TestRequireRole(t *testing.T) {
	m := NewAuthMiddleware("test-secret", 24)
	app := testApp(m)

	workerToken, err := m.GenerateToken(&model.User{ID: "w1", Role: model.RoleWorker})
	require.NoError(t, err)
	companyToken, err := m.GenerateToken(&model.User{ID: "c1", Role: model.RoleCompany})
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/company-only", nil)
	req.Header.Set("Authorization", "Bearer "+workerToken)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	req = httptest.NewRequest("GET", "/company-only", nil)
	req.Header.Set("Authorization", "Bearer "+companyToken)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
