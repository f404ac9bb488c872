package service

import (
	"context"
	"encoding/json"
	"time"

	"ai-memo-be/internal/dto"
	"ai-memo-be/pkg/store"

	"github.com/google/uuid"
)

type IDraftService interface {
	Save(ctx context.Context, userId uuid.UUID, req *dto.SaveDraftRequest) (*dto.DraftResponse, error)
	Get(ctx context.Context, userId uuid.UUID) (*dto.DraftResponse, error)
	Discard(ctx context.Context, userId uuid.UUID) error
	History(ctx context.Context, userId uuid.UUID) ([]json.RawMessage, error)
}

type draftService struct {
	draftStore *store.DraftStore
}

func NewDraftService(draftStore *store.DraftStore) IDraftService {
	return &draftService{
		draftStore: draftStore,
	}
}

func (s *draftService) Save(ctx context.Context, userId uuid.UUID, req *dto.SaveDraftRequest) (*dto.DraftResponse, error) {
	draft := &store.Draft{
		Title:     req.Title,
		Content:   req.Content,
		UpdatedAt: time.Now(),
	}
	if err := s.draftStore.SaveDraft(ctx, userId, draft); err != nil {
		return nil, err
	}
	return &dto.DraftResponse{
		Title:     draft.Title,
		Content:   draft.Content,
		UpdatedAt: draft.UpdatedAt,
	}, nil
}

// Get returns nil when the user has no saved draft.
func (s *draftService) Get(ctx context.Context, userId uuid.UUID) (*dto.DraftResponse, error) {
	draft, err := s.draftStore.GetDraft(ctx, userId)
	if err != nil {
		return nil, err
	}
	if draft == nil {
		return nil, nil
	}
	return &dto.DraftResponse{
		Title:     draft.Title,
		Content:   draft.Content,
		UpdatedAt: draft.UpdatedAt,
	}, nil
}

func (s *draftService) Discard(ctx context.Context, userId uuid.UUID) error {
	return s.draftStore.DeleteDraft(ctx, userId)
}

func (s *draftService) History(ctx context.Context, userId uuid.UUID) ([]json.RawMessage, error) {
	return s.draftStore.GetHistory(ctx, userId)
}
