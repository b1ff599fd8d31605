package handler

import (
	"bytes"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/vigneshgurumohan/tngrm-agent-store-sub000/internal/pkg/logger"
	"github.com/vigneshgurumohan/tngrm-agent-store-sub000/internal/pkg/serverutils"
)

// forwardedHeaders are the only request headers passed through to the
// upstream; everything else is stripped.
var forwardedHeaders = []string{"Authorization", "User-Agent", "X-Forwarded-For", "Content-Type"}

// ProxyHandler forwards /api/backend/* to the store backend so the
// widget only ever talks to this service's origin.
type ProxyHandler struct {
	upstreamBaseURL string
	client          *http.Client
	logger          logger.ILogger
}

func NewProxyHandler(upstreamBaseURL string, log logger.ILogger) *ProxyHandler {
	return &ProxyHandler{
		upstreamBaseURL: strings.TrimSuffix(upstreamBaseURL, "/"),
		client:          &http.Client{Timeout: 60 * time.Second},
		logger:          log,
	}
}

func (h *ProxyHandler) RegisterRoutes(app *fiber.App) {
	app.All("/api/backend/*", h.Forward)
}

func (h *ProxyHandler) Forward(ctx *fiber.Ctx) error {
	targetURL := h.upstreamBaseURL + "/" + ctx.Params("*")
	if qs := string(ctx.Request().URI().QueryString()); qs != "" {
		targetURL += "?" + qs
	}

	var body io.Reader
	if len(ctx.Body()) > 0 {
		body = bytes.NewReader(ctx.Body())
	}

	req, err := http.NewRequestWithContext(ctx.Context(), ctx.Method(), targetURL, body)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid proxy target")
	}

	for _, name := range forwardedHeaders {
		if v := ctx.Get(name); v != "" {
			req.Header.Set(name, v)
		}
	}

	attachCORS(ctx)

	resp, err := h.client.Do(req)
	if err != nil {
		h.logger.Warn("Proxy", "Upstream request failed", map[string]interface{}{
			"target": targetURL,
			"error":  err.Error(),
		})
		return ctx.Status(fiber.StatusInternalServerError).
			JSON(serverutils.ErrorResponse(fiber.StatusInternalServerError, "upstream unavailable"))
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).
			JSON(serverutils.ErrorResponse(fiber.StatusInternalServerError, "upstream unavailable"))
	}

	if ct := resp.Header.Get("Content-Type"); ct != "" {
		ctx.Set("Content-Type", ct)
	}
	for _, cookie := range resp.Header.Values("Set-Cookie") {
		ctx.Response().Header.Add("Set-Cookie", cookie)
	}

	return ctx.Status(resp.StatusCode).Send(payload)
}

// attachCORS keeps embedded widgets working from any host page origin.
func attachCORS(ctx *fiber.Ctx) {
	ctx.Set("Access-Control-Allow-Origin", "*")
	ctx.Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
	ctx.Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
}
