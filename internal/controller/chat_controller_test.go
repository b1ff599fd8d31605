package controller

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"

	"github.com/vigneshgurumohan/tngrm-agent-store-sub000/internal/dto"
	"github.com/vigneshgurumohan/tngrm-agent-store-sub000/internal/pkg/serverutils"
	"github.com/vigneshgurumohan/tngrm-agent-store-sub000/internal/service"
)

type stubChatService struct {
	service.IChatService
	sendResp *dto.SendChatResponse
	sendErr  error
	getErr   error
}

func (s *stubChatService) SendChat(ctx context.Context, request *dto.SendChatRequest) (*dto.SendChatResponse, error) {
	return s.sendResp, s.sendErr
}

func (s *stubChatService) GetSession(ctx context.Context, sessionID string) (*dto.ChatSessionSnapshotResponse, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return &dto.ChatSessionSnapshotResponse{SessionId: sessionID, Mode: "explore"}, nil
}

func newChatApp(svc service.IChatService) *fiber.App {
	app := fiber.New()
	app.Use(serverutils.ErrorHandlerMiddleware())
	api := app.Group("/api")
	NewChatController(svc).RegisterRoutes(api)
	return app
}

func postJSON(t *testing.T, app *fiber.App, path, body string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	return resp
}

func TestChatController_SendChatAccepted(t *testing.T) {
	svc := &stubChatService{sendResp: &dto.SendChatResponse{SessionId: "s1", Mode: "explore"}}
	app := newChatApp(svc)

	resp := postJSON(t, app, "/api/chat/v1/message", `{"session_id":"s1","query":"find a writer"}`)
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	var envelope serverutils.BaseResponse[dto.SendChatResponse]
	assert.NoError(t, json.Unmarshal(body, &envelope))
	assert.True(t, envelope.Success)
	assert.Equal(t, "s1", envelope.Data.SessionId)
}

func TestChatController_SendChatRequiresQuery(t *testing.T) {
	app := newChatApp(&stubChatService{})

	resp := postJSON(t, app, "/api/chat/v1/message", `{"session_id":"s1"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), `"success":false`)
}

func TestChatController_UnknownSessionIs404(t *testing.T) {
	svc := &stubChatService{getErr: service.ErrSessionNotFound}
	app := newChatApp(svc)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/chat/v1/session/missing", nil), -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
