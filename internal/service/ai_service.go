package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ai-memo-be/internal/config"
	"ai-memo-be/internal/constant"
	"ai-memo-be/internal/dto"
	"ai-memo-be/internal/entity"
	"ai-memo-be/internal/pkg/serverutils"
	"ai-memo-be/internal/repository/memory"
	"ai-memo-be/internal/repository/specification"
	"ai-memo-be/internal/repository/unitofwork"
	"ai-memo-be/pkg/events"
	"ai-memo-be/pkg/llm"
	pktNats "ai-memo-be/pkg/nats"
	"ai-memo-be/pkg/store"
	"ai-memo-be/pkg/utils"

	"github.com/google/uuid"
)

type IAIService interface {
	GenerateSummary(ctx context.Context, userId uuid.UUID, memoId uuid.UUID) (*dto.SummaryResponse, error)
	GetSummary(ctx context.Context, userId uuid.UUID, memoId uuid.UUID) (*dto.SummaryResponse, error)
	GenerateTags(ctx context.Context, userId uuid.UUID, memoId uuid.UUID) (*dto.TagsResponse, error)
	GetTags(ctx context.Context, userId uuid.UUID, memoId uuid.UUID) (*dto.TagsResponse, error)
	Autocomplete(ctx context.Context, userId uuid.UUID, req *dto.AutocompleteRequest) (*dto.AutocompleteResponse, error)
}

type aiService struct {
	uowFactory      unitofwork.RepositoryFactory
	provider        llm.LLMProvider
	suggestionCache *memory.SuggestionCache
	draftStore      *store.DraftStore
	eventPublisher  *pktNats.Publisher
	cfg             config.AIConfig
}

func NewAIService(
	uowFactory unitofwork.RepositoryFactory,
	provider llm.LLMProvider,
	suggestionCache *memory.SuggestionCache,
	draftStore *store.DraftStore,
	eventPublisher *pktNats.Publisher,
	cfg config.AIConfig,
) IAIService {
	return &aiService{
		uowFactory:      uowFactory,
		provider:        provider,
		suggestionCache: suggestionCache,
		draftStore:      draftStore,
		eventPublisher:  eventPublisher,
		cfg:             cfg,
	}
}

func (s *aiService) findOwnedMemo(ctx context.Context, uow unitofwork.UnitOfWork, userId, memoId uuid.UUID) (*entity.Memo, error) {
	memo, err := uow.MemoRepository().FindOne(ctx,
		specification.ByID{ID: memoId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if memo == nil {
		return nil, serverutils.ErrMemoNotFound
	}
	return memo, nil
}

// summaryFresh reports whether an existing summary can be served as-is:
// younger than the TTL and not invalidated by a later edit of the memo.
func (s *aiService) summaryFresh(summary *entity.Summary, memo *entity.Memo) bool {
	if summary == nil {
		return false
	}
	ttl := time.Duration(s.cfg.SummaryTTLMinutes) * time.Minute
	if time.Since(summary.CreatedAt) > ttl {
		return false
	}
	if memo.UpdatedAt != nil && memo.UpdatedAt.After(summary.CreatedAt) {
		return false
	}
	return true
}

func (s *aiService) GenerateSummary(ctx context.Context, userId uuid.UUID, memoId uuid.UUID) (*dto.SummaryResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	memo, err := s.findOwnedMemo(ctx, uow, userId, memoId)
	if err != nil {
		return nil, err
	}

	latest, err := uow.SummaryRepository().FindLatest(ctx, specification.ByMemoID{MemoID: memoId})
	if err != nil {
		return nil, err
	}
	if s.summaryFresh(latest, memo) {
		return summaryToResponse(latest, true), nil
	}

	content := utils.TruncateToTokenBudget(memo.Content, s.cfg.SummaryTokenBudget)
	prompt := fmt.Sprintf(constant.SummaryPrompt, content)

	result, err := s.provider.Generate(ctx, prompt, llm.WithTemperature(0.3))
	if err != nil {
		return nil, serverutils.WrapAppError(serverutils.ErrAIGeneration.Code, serverutils.ErrAIGeneration.Message, err)
	}

	text := strings.TrimSpace(result.Text)
	if text == "" {
		return nil, serverutils.ErrAIEmptyResult
	}

	// Append-only: a regeneration inserts a new row, history stays intact
	summary := &entity.Summary{
		Id:        uuid.New(),
		MemoId:    memo.Id,
		UserId:    userId,
		Content:   text,
		Model:     s.provider.Model(),
		Usage:     result.Usage,
		CreatedAt: time.Now(),
	}
	if err := uow.SummaryRepository().Create(ctx, summary); err != nil {
		return nil, err
	}

	s.appendHistory(ctx, userId, dto.AIHistoryEntry{
		Kind:      "summary",
		MemoId:    memo.Id,
		Result:    text,
		Model:     summary.Model,
		CreatedAt: summary.CreatedAt,
	})
	s.publishEvent(ctx, "SUMMARY_READY", map[string]interface{}{
		"title":   memo.Title,
		"memo_id": memo.Id.String(),
		"user_id": userId.String(),
	})

	return summaryToResponse(summary, false), nil
}

func (s *aiService) GetSummary(ctx context.Context, userId uuid.UUID, memoId uuid.UUID) (*dto.SummaryResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if _, err := s.findOwnedMemo(ctx, uow, userId, memoId); err != nil {
		return nil, err
	}

	latest, err := uow.SummaryRepository().FindLatest(ctx, specification.ByMemoID{MemoID: memoId})
	if err != nil {
		return nil, err
	}
	if latest == nil {
		return nil, serverutils.ErrSummaryNotFound
	}

	return summaryToResponse(latest, true), nil
}

func (s *aiService) GenerateTags(ctx context.Context, userId uuid.UUID, memoId uuid.UUID) (*dto.TagsResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	memo, err := s.findOwnedMemo(ctx, uow, userId, memoId)
	if err != nil {
		return nil, err
	}

	maxTags := s.cfg.AutocompleteMaxTags
	content := utils.TruncateToTokenBudget(memo.Content, s.cfg.SummaryTokenBudget)
	prompt := fmt.Sprintf(constant.TagsPrompt, maxTags, content)

	result, err := s.provider.Generate(ctx, prompt, llm.WithTemperature(0.2))
	if err != nil {
		return nil, serverutils.WrapAppError(serverutils.ErrAIGeneration.Code, serverutils.ErrAIGeneration.Message, err)
	}

	tagNames := parseTagList(result.Text, maxTags)
	if len(tagNames) == 0 {
		return nil, serverutils.ErrAIEmptyResult
	}

	model := s.provider.Model()
	tagEntities := make([]*entity.Tag, len(tagNames))
	for i, name := range tagNames {
		tagEntities[i] = &entity.Tag{
			Id:        uuid.New(),
			MemoId:    memo.Id,
			UserId:    userId,
			Tag:       name,
			Model:     model,
			CreatedAt: time.Now(),
		}
	}

	// Replace, never merge: the memo's tag set always reflects one generation
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.TagRepository().DeleteByMemoId(ctx, memo.Id); err != nil {
		return nil, err
	}
	if err := uow.TagRepository().CreateMany(ctx, tagEntities); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.appendHistory(ctx, userId, dto.AIHistoryEntry{
		Kind:      "tags",
		MemoId:    memo.Id,
		Result:    strings.Join(tagNames, ", "),
		Model:     model,
		CreatedAt: time.Now(),
	})

	return &dto.TagsResponse{MemoId: memo.Id, Tags: tagNames, Model: model}, nil
}

func (s *aiService) GetTags(ctx context.Context, userId uuid.UUID, memoId uuid.UUID) (*dto.TagsResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if _, err := s.findOwnedMemo(ctx, uow, userId, memoId); err != nil {
		return nil, err
	}

	tags, err := uow.TagRepository().FindAll(ctx, specification.ByMemoID{MemoID: memoId})
	if err != nil {
		return nil, err
	}

	names := make([]string, len(tags))
	var model string
	for i, t := range tags {
		names[i] = t.Tag
		model = t.Model
	}

	return &dto.TagsResponse{MemoId: memoId, Tags: names, Model: model}, nil
}

func (s *aiService) Autocomplete(ctx context.Context, userId uuid.UUID, req *dto.AutocompleteRequest) (*dto.AutocompleteResponse, error) {
	text := strings.TrimSpace(req.Text)

	// Too little to work with; the client debounces but we guard anyway
	if len([]rune(text)) < 2 {
		return &dto.AutocompleteResponse{Suggestions: []string{}}, nil
	}

	key := s.suggestionCache.Key(text, req.Context)
	if suggestions, found := s.suggestionCache.Get(key); found {
		return &dto.AutocompleteResponse{Suggestions: suggestions, Cached: true}, nil
	}

	prompt := fmt.Sprintf(constant.AutocompletePrompt, req.Context, text)

	result, err := s.provider.Generate(ctx, prompt, llm.WithTemperature(0.7), llm.WithMaxTokens(120))
	if err != nil {
		return nil, serverutils.WrapAppError(serverutils.ErrAIGeneration.Code, serverutils.ErrAIGeneration.Message, err)
	}

	suggestions := parseSuggestionLines(result.Text, 3)
	s.suggestionCache.Save(key, suggestions)

	return &dto.AutocompleteResponse{Suggestions: suggestions}, nil
}

// parseTagList splits a comma/newline separated model answer into clean,
// lowercased, deduplicated tags, capped at max.
func parseTagList(raw string, max int) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == '\n'
	})

	seen := make(map[string]struct{}, len(fields))
	tags := make([]string, 0, max)
	for _, f := range fields {
		tag := strings.ToLower(strings.TrimSpace(strings.Trim(strings.TrimSpace(f), "#.\"'")))
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
		if len(tags) == max {
			break
		}
	}
	return tags
}

// parseSuggestionLines keeps up to max non-empty lines, stripping any
// numbering or bullets the model added despite the prompt.
func parseSuggestionLines(raw string, max int) []string {
	lines := strings.Split(raw, "\n")
	out := make([]string, 0, max)
	for _, line := range lines {
		line = strings.TrimSpace(line)
		line = strings.TrimLeft(line, "0123456789.-*• )")
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		out = append(out, line)
		if len(out) == max {
			break
		}
	}
	return out
}

func summaryToResponse(summary *entity.Summary, cached bool) *dto.SummaryResponse {
	return &dto.SummaryResponse{
		Id:        summary.Id,
		MemoId:    summary.MemoId,
		Content:   summary.Content,
		Model:     summary.Model,
		Usage:     summary.Usage,
		Cached:    cached,
		CreatedAt: summary.CreatedAt,
	}
}

func (s *aiService) appendHistory(ctx context.Context, userId uuid.UUID, entry dto.AIHistoryEntry) {
	if s.draftStore == nil {
		return
	}
	if err := s.draftStore.AppendHistory(ctx, userId, entry); err != nil {
		fmt.Printf("[WARN] Failed to append AI history for user %s: %v\n", userId, err)
	}
}

func (s *aiService) publishEvent(ctx context.Context, eventType string, data map[string]interface{}) {
	if s.eventPublisher == nil {
		return
	}
	evt := events.BaseEvent{
		Type:       eventType,
		Data:       data,
		OccurredAt: time.Now(),
	}
	if err := s.eventPublisher.Publish(ctx, evt); err != nil {
		fmt.Printf("[WARN] Failed to publish %s event: %v\n", eventType, err)
	}
}
