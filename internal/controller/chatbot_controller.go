package controller

import (
	"context"
	"os"

	"docassist-be/internal/dto"
	"docassist-be/internal/pkg/logger"
	"docassist-be/internal/pkg/serverutils"
	"docassist-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type IChatbotController interface {
	RegisterRoutes(r fiber.Router)
	CreateSession(ctx *fiber.Ctx) error
	GetAllSessions(ctx *fiber.Ctx) error
	GetChatHistory(ctx *fiber.Ctx) error
	SendChat(ctx *fiber.Ctx) error
	StreamChat(ctx *fiber.Ctx) error
	DeleteSession(ctx *fiber.Ctx) error
}

type chatbotController struct {
	service service.IChatService
	logger  logger.ILogger
}

func NewChatbotController(service service.IChatService, log logger.ILogger) IChatbotController {
	return &chatbotController{service: service, logger: log}
}

func (c *chatbotController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chatbot")

	// WS handshake carries the token itself, so the stream route sits
	// outside the JWT middleware group.
	h.Get("/chat/stream", c.StreamChat)

	h.Use(serverutils.JwtMiddleware)
	h.Post("/session", c.CreateSession)
	h.Get("/sessions", c.GetAllSessions)
	h.Get("/session/:id/history", c.GetChatHistory)
	h.Post("/chat", c.SendChat)
	h.Delete("/session", c.DeleteSession)
}

func (c *chatbotController) CreateSession(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	var req dto.CreateSessionRequest
	if err := ctx.BodyParser(&req); err != nil && len(ctx.Body()) > 0 {
		return err
	}

	res, err := c.service.CreateSession(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Session created", res))
}

func (c *chatbotController) GetAllSessions(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	res, err := c.service.GetAllSessions(ctx.Context(), userId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Sessions retrieved", res))
}

func (c *chatbotController) GetChatHistory(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	sessionId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid session id")
	}

	res, err := c.service.GetChatHistory(ctx.Context(), userId, sessionId)
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}
	return ctx.JSON(serverutils.SuccessResponse("Chat history retrieved", res))
}

func (c *chatbotController) SendChat(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	var req dto.SendChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(&req); err != nil {
		return err
	}

	res, err := c.service.SendChat(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Chat processed", res))
}

// streamFrame is one websocket message of the streaming protocol:
// "delta" frames carry answer fragments, a single "done" frame closes the
// turn with the persisted response, "error" frames end the turn early.
type streamFrame struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

// wsStreamSink forwards stream output to the websocket. A delta write
// failure is reported back so the turn stops consuming the provider stream.
type wsStreamSink struct {
	conn *websocket.Conn
}

func (s wsStreamSink) SendDelta(fragment string) error {
	return s.conn.WriteJSON(streamFrame{Type: "delta", Data: fragment})
}

func (s wsStreamSink) SendError(description string) {
	_ = s.conn.WriteJSON(streamFrame{Type: "error", Data: description})
}

func (c *chatbotController) StreamChat(ctx *fiber.Ctx) error {
	userId, err := c.authenticateHandshake(ctx)
	if err != nil {
		return err
	}

	if !websocket.IsWebSocketUpgrade(ctx) {
		return fiber.ErrUpgradeRequired
	}

	return websocket.New(func(conn *websocket.Conn) {
		defer conn.Close()

		for {
			var req dto.SendChatRequest
			if err := conn.ReadJSON(&req); err != nil {
				return
			}
			if err := serverutils.ValidateRequest(&req); err != nil {
				_ = conn.WriteJSON(streamFrame{Type: "error", Data: err.Error()})
				continue
			}

			res, err := c.service.StreamChat(context.Background(), userId, &req, wsStreamSink{conn: conn})
			if err != nil {
				c.logger.Warn("chatbot", "Stream turn failed", map[string]interface{}{
					"user_id": userId.String(),
					"error":   err.Error(),
				})
				_ = conn.WriteJSON(streamFrame{Type: "error", Data: err.Error()})
				continue
			}

			_ = conn.WriteJSON(streamFrame{Type: "done", Data: res})
		}
	})(ctx)
}

// authenticateHandshake accepts the token from the 'token' query parameter
// or the Authorization header, browser WS clients cannot set headers.
func (c *chatbotController) authenticateHandshake(ctx *fiber.Ctx) (uuid.UUID, error) {
	tokenStr := ctx.Query("token")
	if tokenStr == "" {
		authHeader := ctx.Get("Authorization")
		if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
			tokenStr = authHeader[7:]
		}
	}
	if tokenStr == "" {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "Missing token")
	}

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.ErrUnauthorized
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
	if err != nil || !token.Valid {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid token claims")
	}
	userIdStr, ok := claims["user_id"].(string)
	if !ok {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "Token missing user_id")
	}
	userId, err := uuid.Parse(userIdStr)
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid user id in token")
	}
	return userId, nil
}

func (c *chatbotController) DeleteSession(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	var req dto.DeleteSessionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(&req); err != nil {
		return err
	}

	if err := c.service.DeleteSession(ctx.Context(), userId, &req); err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Session deleted", nil))
}
