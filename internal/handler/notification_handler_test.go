package handler

import (
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noopLogger struct{}

func (noopLogger) Debug(module, message string, details map[string]interface{}) {}
func (noopLogger) Info(module, message string, details map[string]interface{})  {}
func (noopLogger) Warn(module, message string, details map[string]interface{})  {}
func (noopLogger) Error(module, message string, details map[string]interface{}) {}
func (noopLogger) Sync() error                                                  { return nil }

func newBroadcastApp() *fiber.App {
	app := fiber.New()
	h := NewNotificationHandler(nil, nil, nil, noopLogger{})
	h.RegisterRoutes(app.Group("/api"))
	return app
}

func userToken(t *testing.T) string {
	t.Helper()
	os.Setenv("JWT_SECRET", "test-secret")
	claims := jwt.MapClaims{
		"user_id": uuid.New().String(),
		"exp":     time.Now().Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func TestBroadcastRequiresAdminKey(t *testing.T) {
	app := newBroadcastApp()
	token := userToken(t)

	post := func(adminKey string) int {
		body := strings.NewReader(`{"title":"점검 안내","message":"오늘 밤 점검이 있습니다"}`)
		req := httptest.NewRequest("POST", "/api/notification/v1/broadcast", body)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+token)
		if adminKey != "" {
			req.Header.Set("X-Admin-Api-Key", adminKey)
		}
		resp, err := app.Test(req)
		require.NoError(t, err)
		return resp.StatusCode
	}

	t.Run("plain user token alone is rejected", func(t *testing.T) {
		os.Setenv("ADMIN_API_KEY", "op-secret")
		assert.Equal(t, fiber.StatusForbidden, post(""))
	})

	t.Run("wrong key is rejected", func(t *testing.T) {
		os.Setenv("ADMIN_API_KEY", "op-secret")
		assert.Equal(t, fiber.StatusForbidden, post("guess"))
	})

	t.Run("endpoint stays disabled without a configured key", func(t *testing.T) {
		os.Unsetenv("ADMIN_API_KEY")
		assert.Equal(t, fiber.StatusForbidden, post("anything"))
	})

	t.Run("correct key passes the gate", func(t *testing.T) {
		os.Setenv("ADMIN_API_KEY", "op-secret")
		// Publisher is not wired in this app, so passing the gate surfaces
		// the bus-unavailable error instead of a permission one
		assert.Equal(t, fiber.StatusServiceUnavailable, post("op-secret"))
	})
}
