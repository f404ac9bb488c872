package serverutils

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvelopeShapes(t *testing.T) {
	t.Run("success envelope", func(t *testing.T) {
		res := SuccessResponse("저장했습니다", map[string]string{"id": "x"})
		data, err := json.Marshal(res)
		assert.NoError(t, err)
		assert.JSONEq(t, `{"success":true,"message":"저장했습니다","data":{"id":"x"}}`, string(data))
	})

	t.Run("failure envelope", func(t *testing.T) {
		res := ErrorResponse(404, "메모를 찾을 수 없습니다")
		data, err := json.Marshal(res)
		assert.NoError(t, err)
		assert.JSONEq(t, `{"success":false,"error":{"code":404,"message":"메모를 찾을 수 없습니다"}}`, string(data))
	})
}

func TestAppErrorUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	wrapped := WrapAppError(502, "AI 생성에 실패했습니다", cause)

	assert.ErrorIs(t, wrapped, cause)

	var appErr *AppError
	assert.True(t, errors.As(error(wrapped), &appErr))
	assert.Equal(t, 502, appErr.Code)
}

func TestValidateRequest(t *testing.T) {
	type createReq struct {
		Title   string `json:"title" validate:"required,max=200"`
		Content string `json:"content" validate:"required"`
	}

	t.Run("valid passes", func(t *testing.T) {
		err := ValidateRequest(createReq{Title: "회의록", Content: "내용"})
		assert.NoError(t, err)
	})

	t.Run("missing field yields 400 AppError", func(t *testing.T) {
		err := ValidateRequest(createReq{Content: "내용"})
		var appErr *AppError
		assert.True(t, errors.As(err, &appErr))
		assert.Equal(t, fiber.StatusBadRequest, appErr.Code)
	})

	t.Run("whitespace-only title still passes struct tags", func(t *testing.T) {
		// Services own the post-trim check; the validator sees a non-empty string
		err := ValidateRequest(createReq{Title: "   ", Content: "내용"})
		assert.NoError(t, err)
	})
}

func TestJwtMiddlewareRejectsNonHMACTokens(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	app := fiber.New()
	app.Get("/protected", JwtMiddleware, func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	claims := jwt.MapClaims{"user_id": "u", "exp": float64(4102444800)}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+unsigned)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

// spyLogger records Error calls for assertions.
type spyLogger struct {
	mu      sync.Mutex
	entries []map[string]interface{}
}

func (s *spyLogger) Debug(module, message string, details map[string]interface{}) {}
func (s *spyLogger) Info(module, message string, details map[string]interface{})  {}
func (s *spyLogger) Warn(module, message string, details map[string]interface{})  {}
func (s *spyLogger) Error(module, message string, details map[string]interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, details)
}
func (s *spyLogger) Sync() error { return nil }

func (s *spyLogger) errorCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func TestErrorHandlerMiddleware(t *testing.T) {
	spy := &spyLogger{}
	app := fiber.New()
	app.Use(ErrorHandlerMiddleware(spy))
	app.Get("/app-error", func(c *fiber.Ctx) error {
		return ErrMemoNotFound
	})
	app.Get("/plain-error", func(c *fiber.Ctx) error {
		return errors.New("boom: secret detail")
	})

	t.Run("app error keeps status and message", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/app-error", nil))
		assert.NoError(t, err)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

		var body FailureResponse
		assert.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.False(t, body.Success)
		assert.Equal(t, ErrMemoNotFound.Message, body.Error.Message)

		// Expected domain errors are not noise for the error log
		assert.Zero(t, spy.errorCount())
	})

	t.Run("unknown error becomes generic 500 and is logged", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/plain-error", nil))
		assert.NoError(t, err)
		assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

		var body FailureResponse
		assert.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.NotContains(t, body.Error.Message, "secret")

		require.Equal(t, 1, spy.errorCount())
		assert.Equal(t, "/plain-error", spy.entries[0]["path"])
		assert.Contains(t, spy.entries[0]["error"], "boom")
	})
}
