package controller

import (
	"ai-memo-be/internal/dto"
	"ai-memo-be/internal/pkg/serverutils"
	"ai-memo-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IMemoController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	ListTrash(ctx *fiber.Ctx) error
	Restore(ctx *fiber.Ctx) error
	DeletePermanently(ctx *fiber.Ctx) error
	EmptyTrash(ctx *fiber.Ctx) error
}

type memoController struct {
	memoService service.IMemoService
}

func NewMemoController(memoService service.IMemoService) IMemoController {
	return &memoController{
		memoService: memoService,
	}
}

func (c *memoController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/memo/v1")
	h.Use(serverutils.JwtMiddleware)

	// Static segments before :id so "trash" never parses as a memo id
	h.Get("/trash", c.ListTrash)
	h.Delete("/trash", c.EmptyTrash)

	h.Post("", c.Create)
	h.Get("", c.List)
	h.Get("/:id", c.Show)
	h.Put("/:id", c.Update)
	h.Delete("/:id", c.Delete)
	h.Post("/:id/restore", c.Restore)
	h.Delete("/:id/permanent", c.DeletePermanently)
}

func (c *memoController) Create(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	var req dto.CreateMemoRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.memoService.Create(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("메모를 저장했습니다", res))
}

func (c *memoController) List(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	page := ctx.QueryInt("page", 1)
	sort := ctx.Query("sort", "newest")

	res, err := c.memoService.List(ctx.Context(), userId, page, sort)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("메모 목록을 불러왔습니다", res))
}

func (c *memoController) Show(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	id, _ := uuid.Parse(ctx.Params("id"))

	res, err := c.memoService.Show(ctx.Context(), userId, id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("메모를 불러왔습니다", res))
}

func (c *memoController) Update(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	id, _ := uuid.Parse(ctx.Params("id"))

	var req dto.UpdateMemoRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	req.Id = id

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.memoService.Update(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("메모를 수정했습니다", res))
}

func (c *memoController) Delete(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	id, _ := uuid.Parse(ctx.Params("id"))

	if err := c.memoService.MoveToTrash(ctx.Context(), userId, id); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("메모를 휴지통으로 이동했습니다", struct{}{}))
}

func (c *memoController) ListTrash(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	res, err := c.memoService.ListTrash(ctx.Context(), userId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("휴지통 목록을 불러왔습니다", res))
}

func (c *memoController) Restore(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	id, _ := uuid.Parse(ctx.Params("id"))

	if err := c.memoService.Restore(ctx.Context(), userId, id); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("메모를 복원했습니다", struct{}{}))
}

func (c *memoController) DeletePermanently(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	id, _ := uuid.Parse(ctx.Params("id"))

	if err := c.memoService.DeletePermanently(ctx.Context(), userId, id); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("메모를 완전히 삭제했습니다", struct{}{}))
}

func (c *memoController) EmptyTrash(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	if err := c.memoService.EmptyTrash(ctx.Context(), userId); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("휴지통을 비웠습니다", struct{}{}))
}
