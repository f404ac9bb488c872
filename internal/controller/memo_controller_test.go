package controller

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"ai-memo-be/internal/dto"
	"ai-memo-be/internal/pkg/serverutils"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubMemoService records the arguments it was called with and replays
// canned results.
type stubMemoService struct {
	lastUserId uuid.UUID
	lastSort   string
	lastPage   int

	createRes *dto.CreateMemoResponse
	listRes   *dto.ListMemosResponse
	err       error
}

func (s *stubMemoService) Create(ctx context.Context, userId uuid.UUID, req *dto.CreateMemoRequest) (*dto.CreateMemoResponse, error) {
	s.lastUserId = userId
	return s.createRes, s.err
}

func (s *stubMemoService) List(ctx context.Context, userId uuid.UUID, page int, sort string) (*dto.ListMemosResponse, error) {
	s.lastUserId = userId
	s.lastPage = page
	s.lastSort = sort
	return s.listRes, s.err
}

func (s *stubMemoService) Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.ShowMemoResponse, error) {
	return nil, s.err
}

func (s *stubMemoService) Update(ctx context.Context, userId uuid.UUID, req *dto.UpdateMemoRequest) (*dto.UpdateMemoResponse, error) {
	return nil, s.err
}

func (s *stubMemoService) MoveToTrash(ctx context.Context, userId uuid.UUID, id uuid.UUID) error {
	return s.err
}

func (s *stubMemoService) ListTrash(ctx context.Context, userId uuid.UUID) ([]dto.MemoListItem, error) {
	s.lastUserId = userId
	return nil, s.err
}

func (s *stubMemoService) Restore(ctx context.Context, userId uuid.UUID, id uuid.UUID) error {
	return s.err
}

func (s *stubMemoService) DeletePermanently(ctx context.Context, userId uuid.UUID, id uuid.UUID) error {
	return s.err
}

func (s *stubMemoService) EmptyTrash(ctx context.Context, userId uuid.UUID) error {
	s.lastUserId = userId
	return s.err
}

func newTestApp(stub *stubMemoService) *fiber.App {
	app := fiber.New()
	app.Use(serverutils.ErrorHandlerMiddleware(nil))
	api := app.Group("/api")
	NewMemoController(stub).RegisterRoutes(api)
	return app
}

func signTestToken(t *testing.T, userId uuid.UUID) string {
	t.Helper()
	os.Setenv("JWT_SECRET", "test-secret")
	claims := jwt.MapClaims{
		"user_id": userId.String(),
		"exp":     time.Now().Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func TestMemoRoutesRequireAuth(t *testing.T) {
	app := newTestApp(&stubMemoService{})

	resp, err := app.Test(httptest.NewRequest("GET", "/api/memo/v1", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	var body serverutils.FailureResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.False(t, body.Success)
}

func TestMemoListPassesQueryParams(t *testing.T) {
	userId := uuid.New()
	stub := &stubMemoService{listRes: &dto.ListMemosResponse{Items: []dto.MemoListItem{}, Page: 3, PageSize: 12}}
	app := newTestApp(stub)

	req := httptest.NewRequest("GET", "/api/memo/v1?page=3&sort=title", nil)
	req.Header.Set("Authorization", "Bearer "+signTestToken(t, userId))

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	assert.Equal(t, userId, stub.lastUserId)
	assert.Equal(t, 3, stub.lastPage)
	assert.Equal(t, "title", stub.lastSort)
}

func TestMemoCreateEnvelope(t *testing.T) {
	userId := uuid.New()
	memoId := uuid.New()
	stub := &stubMemoService{createRes: &dto.CreateMemoResponse{Id: memoId}}
	app := newTestApp(stub)

	body := strings.NewReader(`{"title":"회의록","content":"내용"}`)
	req := httptest.NewRequest("POST", "/api/memo/v1", body)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+signTestToken(t, userId))

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var envelope struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
		Data    struct {
			Id uuid.UUID `json:"id"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	assert.True(t, envelope.Success)
	assert.Equal(t, memoId, envelope.Data.Id)
}

func TestMemoCreateRejectsMissingFields(t *testing.T) {
	userId := uuid.New()
	app := newTestApp(&stubMemoService{})

	body := strings.NewReader(`{"content":"내용"}`)
	req := httptest.NewRequest("POST", "/api/memo/v1", body)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+signTestToken(t, userId))

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var envelope serverutils.FailureResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	assert.False(t, envelope.Success)
	assert.Equal(t, fiber.StatusBadRequest, envelope.Error.Code)
}

func TestMemoServiceErrorsKeepStatus(t *testing.T) {
	userId := uuid.New()
	stub := &stubMemoService{err: serverutils.ErrMemoNotFound}
	app := newTestApp(stub)

	req := httptest.NewRequest("GET", "/api/memo/v1/"+uuid.New().String(), nil)
	req.Header.Set("Authorization", "Bearer "+signTestToken(t, userId))

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	var envelope serverutils.FailureResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	assert.Equal(t, serverutils.ErrMemoNotFound.Message, envelope.Error.Message)
}

func TestTrashRouteDoesNotShadowShow(t *testing.T) {
	userId := uuid.New()
	stub := &stubMemoService{}
	app := newTestApp(stub)

	// GET /trash must hit ListTrash, not Show with id="trash"
	req := httptest.NewRequest("GET", "/api/memo/v1/trash", nil)
	req.Header.Set("Authorization", "Bearer "+signTestToken(t, userId))

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, userId, stub.lastUserId)
}
