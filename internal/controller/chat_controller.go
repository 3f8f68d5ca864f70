package controller

import (
	"bufio"
	"encoding/json"

	"admissions-chatbot-be/internal/dto"
	"admissions-chatbot-be/internal/pkg/serverutils"
	"admissions-chatbot-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router, rateLimit fiber.Handler)
	Chat(ctx *fiber.Ctx) error
	ChatStream(ctx *fiber.Ctx) error
	ClearSession(ctx *fiber.Ctx) error
	Branches(ctx *fiber.Ctx) error
}

type chatController struct {
	chatService service.IChatService
}

func NewChatController(chatService service.IChatService) IChatController {
	return &chatController{
		chatService: chatService,
	}
}

func (c *chatController) RegisterRoutes(r fiber.Router, rateLimit fiber.Handler) {
	h := r.Group("/v1")
	h.Post("/chat", rateLimit, c.Chat)
	h.Post("/chat/stream", rateLimit, c.ChatStream)
	h.Post("/chat/clear-session", c.ClearSession)
	h.Get("/branches", c.Branches)
}

func (c *chatController) Chat(ctx *fiber.Ctx) error {
	var req dto.ChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.chatService.Chat(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success", res))
}

// ChatStream delivers the reply as server-sent events, one JSON event per
// token, ending with a terminal done or error event.
func (c *chatController) ChatStream(ctx *fiber.Ctx) error {
	var req dto.ChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	ctx.Set("Content-Type", "text/event-stream")
	ctx.Set("Cache-Control", "no-cache")
	ctx.Set("Connection", "keep-alive")

	userCtx := ctx.Context()
	ctx.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		emit := func(ev dto.StreamEvent) error {
			payload, err := json.Marshal(ev)
			if err != nil {
				return err
			}
			if _, err := w.WriteString("data: " + string(payload) + "\n\n"); err != nil {
				return err
			}
			return w.Flush()
		}

		if err := c.chatService.ChatStream(userCtx, &req, emit); err != nil {
			// The connection is gone or marshalling failed; emit is a best
			// effort at this point.
			_ = emit(dto.StreamEvent{Error: err.Error(), Done: true})
		}
	}))
	return nil
}

func (c *chatController) ClearSession(ctx *fiber.Ctx) error {
	var req dto.ClearSessionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.chatService.ClearSession(ctx.Context(), req.SessionId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Session cleared", res))
}

func (c *chatController) Branches(ctx *fiber.Ctx) error {
	branches := c.chatService.ListBranches(ctx.Context())
	return ctx.JSON(serverutils.SuccessResponse("Success", dto.BranchesResponse{Branches: branches}))
}
