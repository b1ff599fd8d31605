package controller

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"

	"github.com/vigneshgurumohan/tngrm-agent-store-sub000/internal/dto"
	"github.com/vigneshgurumohan/tngrm-agent-store-sub000/internal/pkg/logger"
	"github.com/vigneshgurumohan/tngrm-agent-store-sub000/internal/pkg/serverutils"
	"github.com/vigneshgurumohan/tngrm-agent-store-sub000/pkg/events"
)

type stubAdminService struct {
	sessions []dto.AdminSessionResponse
}

func (s *stubAdminService) ListSessions(ctx context.Context, limit, offset int) ([]dto.AdminSessionResponse, error) {
	return s.sessions, nil
}

func (s *stubAdminService) GetLogs(ctx context.Context, level string, limit, offset int) ([]logger.LogEntry, error) {
	return []logger.LogEntry{}, nil
}

type stubAnalyticsService struct {
	counts map[string]int64
}

func (s *stubAnalyticsService) Start() error { return nil }

func (s *stubAnalyticsService) GetUsage(ctx context.Context, eventType string, day time.Time) (int64, error) {
	return s.counts[eventType], nil
}

func newAdminApp(analytics *stubAnalyticsService) *fiber.App {
	app := fiber.New()
	app.Use(serverutils.ErrorHandlerMiddleware())
	api := app.Group("/api")
	NewAdminController(&stubAdminService{}, analytics).RegisterRoutes(api)
	return app
}

func adminToken(t *testing.T) string {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "admin"})
	signed, err := token.SignedString([]byte("test-secret"))
	assert.NoError(t, err)
	return signed
}

func TestAdminUsage_RequiresToken(t *testing.T) {
	app := newAdminApp(&stubAnalyticsService{})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/admin/v1/usage", nil), -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAdminUsage_ReturnsCounter(t *testing.T) {
	app := newAdminApp(&stubAnalyticsService{counts: map[string]int64{
		events.TypeSessionCleared: 7,
	}})
	token := adminToken(t)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/v1/usage?event_type=CHAT_SESSION_CLEARED&day=2026-08-31", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	var envelope serverutils.BaseResponse[dto.AdminUsageResponse]
	assert.NoError(t, json.Unmarshal(body, &envelope))
	assert.Equal(t, int64(7), envelope.Data.Count)
	assert.Equal(t, "2026-08-31", envelope.Data.Day)
	assert.Equal(t, events.TypeSessionCleared, envelope.Data.EventType)
}

func TestAdminUsage_RejectsBadDay(t *testing.T) {
	app := newAdminApp(&stubAnalyticsService{})
	token := adminToken(t)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/v1/usage?day=yesterday", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
