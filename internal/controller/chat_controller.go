package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/vigneshgurumohan/tngrm-agent-store-sub000/internal/dto"
	"github.com/vigneshgurumohan/tngrm-agent-store-sub000/internal/pkg/serverutils"
	"github.com/vigneshgurumohan/tngrm-agent-store-sub000/internal/service"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	CreateSession(ctx *fiber.Ctx) error
	GetSession(ctx *fiber.Ctx) error
	SendChat(ctx *fiber.Ctx) error
	SetMode(ctx *fiber.Ctx) error
	ClearSession(ctx *fiber.Ctx) error
}

type chatController struct {
	chatService service.IChatService
}

func NewChatController(chatService service.IChatService) IChatController {
	return &chatController{
		chatService: chatService,
	}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chat/v1")
	h.Post("/session", c.CreateSession)
	h.Get("/session/:id", c.GetSession)
	h.Post("/message", c.SendChat)
	h.Put("/session/:id/mode", c.SetMode)
	h.Post("/session/:id/clear", c.ClearSession)
}

func (c *chatController) CreateSession(ctx *fiber.Ctx) error {
	var req dto.CreateChatSessionRequest
	if len(ctx.Body()) > 0 {
		if err := ctx.BodyParser(&req); err != nil {
			return err
		}
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.chatService.CreateSession(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success create session", res))
}

func (c *chatController) GetSession(ctx *fiber.Ctx) error {
	res, err := c.chatService.GetSession(ctx.Context(), ctx.Params("id"))
	if err != nil {
		return mapSessionErr(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show session", res))
}

func (c *chatController) SendChat(ctx *fiber.Ctx) error {
	var req dto.SendChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.chatService.SendChat(ctx.Context(), &req)
	if err != nil {
		return mapSessionErr(err)
	}
	if res == nil {
		// blank submissions are silently ignored
		return ctx.JSON(serverutils.SuccessResponse[any]("Ignored empty message", nil))
	}

	return ctx.Status(fiber.StatusAccepted).JSON(serverutils.SuccessResponse("Message accepted", res))
}

func (c *chatController) SetMode(ctx *fiber.Ctx) error {
	var req dto.SetModeRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if err := c.chatService.SetMode(ctx.Context(), ctx.Params("id"), req.Mode); err != nil {
		return mapSessionErr(err)
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success set mode", nil))
}

func (c *chatController) ClearSession(ctx *fiber.Ctx) error {
	res, err := c.chatService.ClearSession(ctx.Context(), ctx.Params("id"))
	if err != nil {
		return mapSessionErr(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success clear session", res))
}

func mapSessionErr(err error) error {
	if errors.Is(err, service.ErrSessionNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "session not found")
	}
	return err
}
