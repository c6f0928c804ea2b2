package controller

import (
	"docassist-be/internal/dto"
	"docassist-be/internal/pkg/serverutils"
	"docassist-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IRetrievalController interface {
	RegisterRoutes(r fiber.Router)
	Query(ctx *fiber.Ctx) error
	Reindex(ctx *fiber.Ctx) error
}

type retrievalController struct {
	service service.IRetrievalService
}

func NewRetrievalController(service service.IRetrievalService) IRetrievalController {
	return &retrievalController{service: service}
}

func (c *retrievalController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/retrieval")
	h.Use(serverutils.JwtMiddleware)
	h.Post("/query", c.Query)
	h.Post("/reindex", c.Reindex)
}

func (c *retrievalController) Query(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	var req dto.RetrievalQueryRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(&req); err != nil {
		return err
	}

	res, err := c.service.Query(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Passages retrieved", res))
}

func (c *retrievalController) Reindex(ctx *fiber.Ctx) error {
	res, err := c.service.Reindex(ctx.Context())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Index rebuilt", res))
}
