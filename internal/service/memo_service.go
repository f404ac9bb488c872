package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"ai-memo-be/internal/dto"
	"ai-memo-be/internal/entity"
	"ai-memo-be/internal/pkg/serverutils"
	"ai-memo-be/internal/repository/specification"
	"ai-memo-be/internal/repository/unitofwork"
	"ai-memo-be/pkg/events"
	pktNats "ai-memo-be/pkg/nats"

	"github.com/google/uuid"
)

// Fixed page size of the list view
const memoPageSize = 12

type IMemoService interface {
	Create(ctx context.Context, userId uuid.UUID, req *dto.CreateMemoRequest) (*dto.CreateMemoResponse, error)
	List(ctx context.Context, userId uuid.UUID, page int, sort string) (*dto.ListMemosResponse, error)
	Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.ShowMemoResponse, error)
	Update(ctx context.Context, userId uuid.UUID, req *dto.UpdateMemoRequest) (*dto.UpdateMemoResponse, error)
	MoveToTrash(ctx context.Context, userId uuid.UUID, id uuid.UUID) error
	ListTrash(ctx context.Context, userId uuid.UUID) ([]dto.MemoListItem, error)
	Restore(ctx context.Context, userId uuid.UUID, id uuid.UUID) error
	DeletePermanently(ctx context.Context, userId uuid.UUID, id uuid.UUID) error
	EmptyTrash(ctx context.Context, userId uuid.UUID) error
}

type memoService struct {
	uowFactory       unitofwork.RepositoryFactory
	publisherService IPublisherService
	eventPublisher   *pktNats.Publisher
}

func NewMemoService(
	uowFactory unitofwork.RepositoryFactory,
	publisherService IPublisherService,
	eventPublisher *pktNats.Publisher,
) IMemoService {
	return &memoService{
		uowFactory:       uowFactory,
		publisherService: publisherService,
		eventPublisher:   eventPublisher,
	}
}

// validateMemoInput trims and enforces the title/content rules the
// struct-tag validator cannot see (post-trim emptiness).
func validateMemoInput(title, content string) (string, string, error) {
	title = strings.TrimSpace(title)
	content = strings.TrimSpace(content)

	if title == "" {
		return "", "", serverutils.ErrTitleRequired
	}
	if len([]rune(title)) > 200 {
		return "", "", serverutils.ErrTitleTooLong
	}
	if content == "" {
		return "", "", serverutils.ErrContentRequired
	}
	return title, content, nil
}

func (s *memoService) Create(ctx context.Context, userId uuid.UUID, req *dto.CreateMemoRequest) (*dto.CreateMemoResponse, error) {
	title, content, err := validateMemoInput(req.Title, req.Content)
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	memo := entity.Memo{
		Id:        uuid.New(),
		UserId:    userId,
		Title:     title,
		Content:   content,
		CreatedAt: time.Now(),
	}

	if err := uow.MemoRepository().Create(ctx, &memo); err != nil {
		return nil, err
	}

	s.queueTagGeneration(ctx, memo.Id, userId)
	s.publishEvent(ctx, "MEMO_CREATED", map[string]interface{}{
		"title":   memo.Title,
		"memo_id": memo.Id.String(),
		"user_id": userId.String(),
	})

	return &dto.CreateMemoResponse{Id: memo.Id}, nil
}

func (s *memoService) List(ctx context.Context, userId uuid.UUID, page int, sort string) (*dto.ListMemosResponse, error) {
	if page < 1 {
		page = 1
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	repo := uow.MemoRepository()

	owned := specification.UserOwnedBy{UserID: userId}

	total, err := repo.Count(ctx, owned)
	if err != nil {
		return nil, err
	}

	var order specification.Specification
	switch sort {
	case "oldest":
		order = specification.OrderBy{Field: "created_at", Desc: false}
	case "title":
		order = specification.OrderByCleanTitle{}
	default: // "newest"
		order = specification.OrderBy{Field: "created_at", Desc: true}
	}

	memos, err := repo.FindAll(ctx,
		owned,
		order,
		specification.Pagination{Limit: memoPageSize, Offset: (page - 1) * memoPageSize},
	)
	if err != nil {
		return nil, err
	}

	items := make([]dto.MemoListItem, len(memos))
	for i, m := range memos {
		items[i] = dto.MemoListItem{
			Id:        m.Id,
			Title:     m.Title,
			Content:   m.Content,
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		}
	}

	totalPages := int((total + memoPageSize - 1) / memoPageSize)

	return &dto.ListMemosResponse{
		Items:      items,
		Page:       page,
		PageSize:   memoPageSize,
		TotalCount: total,
		TotalPages: totalPages,
	}, nil
}

func (s *memoService) Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.ShowMemoResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	memo, err := uow.MemoRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if memo == nil {
		return nil, serverutils.ErrMemoNotFound
	}

	return &dto.ShowMemoResponse{
		Id:        memo.Id,
		Title:     memo.Title,
		Content:   memo.Content,
		CreatedAt: memo.CreatedAt,
		UpdatedAt: memo.UpdatedAt,
	}, nil
}

func (s *memoService) Update(ctx context.Context, userId uuid.UUID, req *dto.UpdateMemoRequest) (*dto.UpdateMemoResponse, error) {
	title, content, err := validateMemoInput(req.Title, req.Content)
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	memo, err := uow.MemoRepository().FindOne(ctx,
		specification.ByID{ID: req.Id},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if memo == nil {
		return nil, serverutils.ErrMemoNotFound
	}

	now := time.Now()
	memo.Title = title
	memo.Content = content
	memo.UpdatedAt = &now

	if err := uow.MemoRepository().Update(ctx, memo); err != nil {
		return nil, err
	}

	s.queueTagGeneration(ctx, memo.Id, userId)

	return &dto.UpdateMemoResponse{Id: memo.Id}, nil
}

func (s *memoService) MoveToTrash(ctx context.Context, userId uuid.UUID, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	memo, err := uow.MemoRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return err
	}
	if memo == nil {
		return serverutils.ErrMemoNotFound
	}

	if err := uow.MemoRepository().SoftDelete(ctx, memo.Id); err != nil {
		return err
	}

	s.publishEvent(ctx, "MEMO_TRASHED", map[string]interface{}{
		"title":   memo.Title,
		"memo_id": memo.Id.String(),
		"user_id": userId.String(),
	})

	return nil
}

func (s *memoService) ListTrash(ctx context.Context, userId uuid.UUID) ([]dto.MemoListItem, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	memos, err := uow.MemoRepository().FindAll(ctx,
		specification.InTrash{},
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "deleted_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	items := make([]dto.MemoListItem, len(memos))
	for i, m := range memos {
		items[i] = dto.MemoListItem{
			Id:        m.Id,
			Title:     m.Title,
			Content:   m.Content,
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
			DeletedAt: m.DeletedAt,
		}
	}
	return items, nil
}

func (s *memoService) Restore(ctx context.Context, userId uuid.UUID, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	memo, err := uow.MemoRepository().FindOne(ctx,
		specification.IncludeTrashed{},
		specification.ByID{ID: id},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return err
	}
	if memo == nil {
		return serverutils.ErrMemoNotFound
	}
	if !memo.IsDeleted {
		return serverutils.ErrMemoNotInTrash
	}

	return uow.MemoRepository().Restore(ctx, memo.Id)
}

func (s *memoService) DeletePermanently(ctx context.Context, userId uuid.UUID, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	memo, err := uow.MemoRepository().FindOne(ctx,
		specification.IncludeTrashed{},
		specification.ByID{ID: id},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return err
	}
	if memo == nil {
		return serverutils.ErrMemoNotFound
	}
	if !memo.IsDeleted {
		return serverutils.ErrMemoNotInTrash
	}

	// Summaries and tags cascade on the FK, but we delete explicitly so the
	// behavior doesn't depend on how the schema was provisioned.
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.SummaryRepository().DeleteByMemoId(ctx, memo.Id); err != nil {
		return err
	}
	if err := uow.TagRepository().DeleteByMemoId(ctx, memo.Id); err != nil {
		return err
	}
	if err := uow.MemoRepository().DeleteUnscoped(ctx, memo.Id); err != nil {
		return err
	}

	return uow.Commit()
}

func (s *memoService) EmptyTrash(ctx context.Context, userId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	trashed, err := uow.MemoRepository().FindAll(ctx,
		specification.InTrash{},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return err
	}
	if len(trashed) == 0 {
		return nil
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	for _, memo := range trashed {
		if err := uow.SummaryRepository().DeleteByMemoId(ctx, memo.Id); err != nil {
			return err
		}
		if err := uow.TagRepository().DeleteByMemoId(ctx, memo.Id); err != nil {
			return err
		}
	}
	if err := uow.MemoRepository().DeleteTrashedByUserUnscoped(ctx, userId); err != nil {
		return err
	}

	return uow.Commit()
}

// queueTagGeneration hands the memo to the async tag pipeline. Failures are
// logged only; tagging is auxiliary to the write.
func (s *memoService) queueTagGeneration(ctx context.Context, memoId, userId uuid.UUID) {
	if s.publisherService == nil {
		return
	}
	payload := dto.GenerateMemoTagsMessage{MemoId: memoId, UserId: userId}
	payloadJson, err := json.Marshal(payload)
	if err != nil {
		return
	}
	if err := s.publisherService.Publish(ctx, payloadJson); err != nil {
		fmt.Printf("[WARN] Failed to queue tag generation for memo %s: %v\n", memoId, err)
	}
}

func (s *memoService) publishEvent(ctx context.Context, eventType string, data map[string]interface{}) {
	if s.eventPublisher == nil {
		return
	}
	evt := events.BaseEvent{
		Type:       eventType,
		Data:       data,
		OccurredAt: time.Now(),
	}
	// Log but don't fail the request; notifications are auxiliary
	if err := s.eventPublisher.Publish(ctx, evt); err != nil {
		fmt.Printf("[WARN] Failed to publish %s event: %v\n", eventType, err)
	}
}
