package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/vigneshgurumohan/tngrm-agent-store-sub000/internal/dto"
	"github.com/vigneshgurumohan/tngrm-agent-store-sub000/internal/pkg/serverutils"
	"github.com/vigneshgurumohan/tngrm-agent-store-sub000/internal/service"
)

type IWidgetController interface {
	RegisterRoutes(r fiber.Router)
	GetState(ctx *fiber.Ctx) error
	Transition(ctx *fiber.Ctx) error
}

type widgetController struct {
	widgetService service.IWidgetService
}

func NewWidgetController(widgetService service.IWidgetService) IWidgetController {
	return &widgetController{
		widgetService: widgetService,
	}
}

func (c *widgetController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/widget/v1")
	h.Get("/:sessionId/state", c.GetState)
	h.Post("/:sessionId/transition", c.Transition)
}

func (c *widgetController) GetState(ctx *fiber.Ctx) error {
	res, err := c.widgetService.GetState(ctx.Context(), ctx.Params("sessionId"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show widget state", res))
}

func (c *widgetController) Transition(ctx *fiber.Ctx) error {
	var req dto.WidgetTransitionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.widgetService.Transition(ctx.Context(), ctx.Params("sessionId"), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidTransition) {
			return fiber.NewError(fiber.StatusConflict, err.Error())
		}
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success transition widget", res))
}
