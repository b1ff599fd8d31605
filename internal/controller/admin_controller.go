package controller

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/vigneshgurumohan/tngrm-agent-store-sub000/internal/dto"
	"github.com/vigneshgurumohan/tngrm-agent-store-sub000/internal/pkg/serverutils"
	"github.com/vigneshgurumohan/tngrm-agent-store-sub000/internal/service"
	"github.com/vigneshgurumohan/tngrm-agent-store-sub000/pkg/events"
)

type IAdminController interface {
	RegisterRoutes(r fiber.Router)
	GetSessions(ctx *fiber.Ctx) error
	GetLogs(ctx *fiber.Ctx) error
	GetUsage(ctx *fiber.Ctx) error
}

type adminController struct {
	adminService     service.IAdminService
	analyticsService service.IAnalyticsService
}

func NewAdminController(adminService service.IAdminService, analyticsService service.IAnalyticsService) IAdminController {
	return &adminController{
		adminService:     adminService,
		analyticsService: analyticsService,
	}
}

func (c *adminController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/admin/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Get("/sessions", c.GetSessions)
	h.Get("/logs", c.GetLogs)
	h.Get("/usage", c.GetUsage)
}

func (c *adminController) GetSessions(ctx *fiber.Ctx) error {
	limit := ctx.QueryInt("limit", 20)
	offset := ctx.QueryInt("offset", 0)

	res, err := c.adminService.ListSessions(ctx.Context(), limit, offset)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list sessions", res))
}

func (c *adminController) GetLogs(ctx *fiber.Ctx) error {
	level := ctx.Query("level")
	limit := ctx.QueryInt("limit", 100)
	offset := ctx.QueryInt("offset", 0)

	res, err := c.adminService.GetLogs(ctx.Context(), level, limit, offset)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get logs", res))
}

func (c *adminController) GetUsage(ctx *fiber.Ctx) error {
	eventType := ctx.Query("event_type", events.TypeRoundTripAnswered)

	day := time.Now()
	if raw := ctx.Query("day"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "day must be YYYY-MM-DD")
		}
		day = parsed
	}

	count, err := c.analyticsService.GetUsage(ctx.Context(), eventType, day)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get usage", dto.AdminUsageResponse{
		EventType: eventType,
		Day:       day.Format("2006-01-02"),
		Count:     count,
	}))
}
