package controller

import (
	"ai-memo-be/internal/dto"
	"ai-memo-be/internal/pkg/serverutils"
	"ai-memo-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IAIController interface {
	RegisterRoutes(r fiber.Router)
	GenerateSummary(ctx *fiber.Ctx) error
	GetSummary(ctx *fiber.Ctx) error
	GenerateTags(ctx *fiber.Ctx) error
	GetTags(ctx *fiber.Ctx) error
	Autocomplete(ctx *fiber.Ctx) error
}

type aiController struct {
	aiService service.IAIService
}

func NewAIController(aiService service.IAIService) IAIController {
	return &aiController{
		aiService: aiService,
	}
}

func (c *aiController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/ai/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("/memo/:id/summary", c.GenerateSummary)
	h.Get("/memo/:id/summary", c.GetSummary)
	h.Post("/memo/:id/tags", c.GenerateTags)
	h.Get("/memo/:id/tags", c.GetTags)
	h.Post("/autocomplete", c.Autocomplete)
}

func (c *aiController) GenerateSummary(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	memoId, _ := uuid.Parse(ctx.Params("id"))

	res, err := c.aiService.GenerateSummary(ctx.Context(), userId, memoId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("요약을 생성했습니다", res))
}

func (c *aiController) GetSummary(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	memoId, _ := uuid.Parse(ctx.Params("id"))

	res, err := c.aiService.GetSummary(ctx.Context(), userId, memoId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("요약을 불러왔습니다", res))
}

func (c *aiController) GenerateTags(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	memoId, _ := uuid.Parse(ctx.Params("id"))

	res, err := c.aiService.GenerateTags(ctx.Context(), userId, memoId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("태그를 생성했습니다", res))
}

func (c *aiController) GetTags(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	memoId, _ := uuid.Parse(ctx.Params("id"))

	res, err := c.aiService.GetTags(ctx.Context(), userId, memoId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("태그를 불러왔습니다", res))
}

func (c *aiController) Autocomplete(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	var req dto.AutocompleteRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.aiService.Autocomplete(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("이어쓰기 제안을 생성했습니다", res))
}
