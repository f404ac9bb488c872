package controller

import (
	"ai-memo-be/internal/dto"
	"ai-memo-be/internal/pkg/serverutils"
	"ai-memo-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IDraftController interface {
	RegisterRoutes(r fiber.Router)
	Save(ctx *fiber.Ctx) error
	Get(ctx *fiber.Ctx) error
	Discard(ctx *fiber.Ctx) error
	History(ctx *fiber.Ctx) error
}

type draftController struct {
	draftService service.IDraftService
}

func NewDraftController(draftService service.IDraftService) IDraftController {
	return &draftController{
		draftService: draftService,
	}
}

func (c *draftController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/draft/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Put("", c.Save)
	h.Get("", c.Get)
	h.Delete("", c.Discard)
	h.Get("/history", c.History)
}

func (c *draftController) Save(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	var req dto.SaveDraftRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.draftService.Save(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("임시 저장했습니다", res))
}

func (c *draftController) Get(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	res, err := c.draftService.Get(ctx.Context(), userId)
	if err != nil {
		return err
	}

	// res is nil when nothing is stored; the envelope still says success
	return ctx.JSON(serverutils.SuccessResponse("임시 저장 글을 불러왔습니다", res))
}

func (c *draftController) Discard(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	if err := c.draftService.Discard(ctx.Context(), userId); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("임시 저장 글을 삭제했습니다", struct{}{}))
}

func (c *draftController) History(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	res, err := c.draftService.History(ctx.Context(), userId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("AI 생성 기록을 불러왔습니다", res))
}
