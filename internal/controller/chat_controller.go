package controller

import (
	"carfinder-be/internal/dto"
	"carfinder-be/internal/pkg/apperror"
	"carfinder-be/internal/pkg/serverutils"
	"carfinder-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	StartSession(ctx *fiber.Ctx) error
	SendMessage(ctx *fiber.Ctx) error
	GetChatHistory(ctx *fiber.Ctx) error
	GetSessions(ctx *fiber.Ctx) error
	SearchSessions(ctx *fiber.Ctx) error
	RenameSession(ctx *fiber.Ctx) error
	DeleteSession(ctx *fiber.Ctx) error
}

type chatController struct {
	service service.IChatService
	jwt     fiber.Handler
}

func NewChatController(chatService service.IChatService, jwtMiddleware fiber.Handler) IChatController {
	return &chatController{
		service: chatService,
		jwt:     jwtMiddleware,
	}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chat", c.jwt)
	h.Post("/sessions", c.StartSession)
	h.Get("/sessions", c.GetSessions)
	h.Get("/sessions/search", c.SearchSessions)
	h.Post("/send", c.SendMessage)
	h.Get("/history/:sessionId", c.GetChatHistory)
	h.Put("/sessions/:sessionId/rename", c.RenameSession)
	h.Delete("/sessions/:sessionId", c.DeleteSession)
}

func sessionIdParam(ctx *fiber.Ctx) (uuid.UUID, error) {
	sessionId, err := uuid.Parse(ctx.Params("sessionId"))
	if err != nil {
		return uuid.Nil, apperror.New(apperror.KindValidationFailed, "Invalid session id")
	}
	return sessionId, nil
}

func (c *chatController) StartSession(ctx *fiber.Ctx) error {
	userId, err := CurrentUserId(ctx)
	if err != nil {
		return err
	}

	var req dto.StartSessionRequest
	if len(ctx.Body()) > 0 {
		if err := ctx.BodyParser(&req); err != nil {
			return apperror.Wrap(apperror.KindValidationFailed, "Invalid request body", err)
		}
	}
	if err := serverutils.ValidateRequest(&req); err != nil {
		return err
	}

	res, err := c.service.StartSession(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Chat session created", res))
}

func (c *chatController) SendMessage(ctx *fiber.Ctx) error {
	userId, err := CurrentUserId(ctx)
	if err != nil {
		return err
	}

	var req dto.SendMessageRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperror.Wrap(apperror.KindValidationFailed, "Invalid request body", err)
	}
	if err := serverutils.ValidateRequest(&req); err != nil {
		return err
	}

	res, err := c.service.SendMessage(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Message processed", res))
}

func (c *chatController) GetChatHistory(ctx *fiber.Ctx) error {
	userId, err := CurrentUserId(ctx)
	if err != nil {
		return err
	}
	sessionId, err := sessionIdParam(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.GetChatHistory(ctx.Context(), userId, sessionId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Chat history retrieved", res))
}

func (c *chatController) GetSessions(ctx *fiber.Ctx) error {
	userId, err := CurrentUserId(ctx)
	if err != nil {
		return err
	}

	var query dto.PaginationQuery
	if err := ctx.QueryParser(&query); err != nil {
		return apperror.Wrap(apperror.KindValidationFailed, "Invalid query parameters", err)
	}

	res, err := c.service.GetSessions(ctx.Context(), userId, &query)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Sessions retrieved", res))
}

func (c *chatController) SearchSessions(ctx *fiber.Ctx) error {
	userId, err := CurrentUserId(ctx)
	if err != nil {
		return err
	}

	var query dto.PaginationQuery
	if err := ctx.QueryParser(&query); err != nil {
		return apperror.Wrap(apperror.KindValidationFailed, "Invalid query parameters", err)
	}

	res, err := c.service.SearchSessions(ctx.Context(), userId, ctx.Query("keyword"), &query)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Sessions retrieved", res))
}

func (c *chatController) RenameSession(ctx *fiber.Ctx) error {
	userId, err := CurrentUserId(ctx)
	if err != nil {
		return err
	}
	sessionId, err := sessionIdParam(ctx)
	if err != nil {
		return err
	}

	var req dto.RenameSessionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperror.Wrap(apperror.KindValidationFailed, "Invalid request body", err)
	}
	if err := serverutils.ValidateRequest(&req); err != nil {
		return err
	}

	res, err := c.service.RenameSession(ctx.Context(), userId, sessionId, req.Name)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Session renamed", res))
}

func (c *chatController) DeleteSession(ctx *fiber.Ctx) error {
	userId, err := CurrentUserId(ctx)
	if err != nil {
		return err
	}
	sessionId, err := sessionIdParam(ctx)
	if err != nil {
		return err
	}

	if err := c.service.DeleteSession(ctx.Context(), userId, sessionId); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Session deleted", nil))
}
