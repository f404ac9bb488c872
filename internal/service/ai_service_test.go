package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"ai-memo-be/internal/config"
	"ai-memo-be/internal/dto"
	"ai-memo-be/internal/entity"
	"ai-memo-be/internal/pkg/serverutils"
	"ai-memo-be/internal/repository/memory"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAIConfig() config.AIConfig {
	return config.AIConfig{
		Provider:            "gemini",
		Model:               "test-model",
		SummaryTTLMinutes:   5,
		SummaryTokenBudget:  4000,
		AutocompleteMaxTags: 6,
	}
}

func newAIServiceForTest(provider *fakeLLM) (IAIService, *fakeUowFactory) {
	factory := newFakeUowFactory()
	svc := NewAIService(factory, provider, memory.NewSuggestionCache(), nil, nil, testAIConfig())
	return svc, factory
}

func seedOwnedMemo(t *testing.T, factory *fakeUowFactory, userId uuid.UUID) uuid.UUID {
	t.Helper()
	m := &entity.Memo{
		Id:        uuid.New(),
		UserId:    userId,
		Title:     "회의록",
		Content:   "오늘 회의에서 결정된 사항을 정리한다.",
		CreatedAt: time.Now().Add(-time.Hour),
	}
	require.NoError(t, factory.uow.memoRepo.Create(context.Background(), m))
	return m.Id
}

func TestGenerateSummaryMemoization(t *testing.T) {
	provider := &fakeLLM{answers: []string{"첫 번째 요약입니다."}}
	svc, factory := newAIServiceForTest(provider)

	userId := uuid.New()
	memoId := seedOwnedMemo(t, factory, userId)

	first, err := svc.GenerateSummary(context.Background(), userId, memoId)
	require.NoError(t, err)
	assert.False(t, first.Cached)
	assert.Equal(t, "첫 번째 요약입니다.", first.Content)
	assert.Equal(t, "test-model", first.Model)
	assert.Equal(t, 1, provider.callCount())

	t.Run("second call within TTL is served from store", func(t *testing.T) {
		second, err := svc.GenerateSummary(context.Background(), userId, memoId)
		require.NoError(t, err)
		assert.True(t, second.Cached)
		assert.Equal(t, first.Id, second.Id)
		assert.Equal(t, 1, provider.callCount())
	})

	t.Run("edit invalidates the memoized summary", func(t *testing.T) {
		memo, err := factory.uow.memoRepo.FindOne(context.Background())
		require.NoError(t, err)
		now := time.Now()
		memo.UpdatedAt = &now
		require.NoError(t, factory.uow.memoRepo.Update(context.Background(), memo))

		provider.answers = []string{"수정 후 요약입니다."}

		third, err := svc.GenerateSummary(context.Background(), userId, memoId)
		require.NoError(t, err)
		assert.False(t, third.Cached)
		assert.Equal(t, "수정 후 요약입니다.", third.Content)
		assert.Equal(t, 2, provider.callCount())
	})

	t.Run("regeneration appends instead of overwriting", func(t *testing.T) {
		count, err := factory.uow.summaryRepo.Count(context.Background())
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)
	})
}

func TestGenerateSummaryErrors(t *testing.T) {
	userId := uuid.New()

	t.Run("memo not found", func(t *testing.T) {
		svc, _ := newAIServiceForTest(&fakeLLM{})
		_, err := svc.GenerateSummary(context.Background(), userId, uuid.New())
		assert.ErrorIs(t, err, serverutils.ErrMemoNotFound)
	})

	t.Run("provider failure maps to generation error", func(t *testing.T) {
		provider := &fakeLLM{err: errors.New("upstream 503")}
		svc, factory := newAIServiceForTest(provider)
		memoId := seedOwnedMemo(t, factory, userId)

		_, err := svc.GenerateSummary(context.Background(), userId, memoId)
		var appErr *serverutils.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, serverutils.ErrAIGeneration.Code, appErr.Code)
	})

	t.Run("blank model output is rejected", func(t *testing.T) {
		provider := &fakeLLM{answers: []string{"   \n  "}}
		svc, factory := newAIServiceForTest(provider)
		memoId := seedOwnedMemo(t, factory, userId)

		_, err := svc.GenerateSummary(context.Background(), userId, memoId)
		assert.ErrorIs(t, err, serverutils.ErrAIEmptyResult)

		count, _ := factory.uow.summaryRepo.Count(context.Background())
		assert.Zero(t, count)
	})
}

func TestGetSummary(t *testing.T) {
	provider := &fakeLLM{answers: []string{"요약"}}
	svc, factory := newAIServiceForTest(provider)
	userId := uuid.New()
	memoId := seedOwnedMemo(t, factory, userId)

	t.Run("before any generation", func(t *testing.T) {
		_, err := svc.GetSummary(context.Background(), userId, memoId)
		assert.ErrorIs(t, err, serverutils.ErrSummaryNotFound)
	})

	t.Run("after generation returns the latest", func(t *testing.T) {
		gen, err := svc.GenerateSummary(context.Background(), userId, memoId)
		require.NoError(t, err)

		got, err := svc.GetSummary(context.Background(), userId, memoId)
		require.NoError(t, err)
		assert.Equal(t, gen.Id, got.Id)
		assert.True(t, got.Cached)
	})
}

func TestGenerateTags(t *testing.T) {
	provider := &fakeLLM{answers: []string{"회의, 업무, 회의, #일정, 메모, 계획, 정리, 추가태그"}}
	svc, factory := newAIServiceForTest(provider)
	userId := uuid.New()
	memoId := seedOwnedMemo(t, factory, userId)

	res, err := svc.GenerateTags(context.Background(), userId, memoId)
	require.NoError(t, err)

	// Deduplicated, hash sign stripped, capped at six
	assert.Equal(t, []string{"회의", "업무", "일정", "메모", "계획", "정리"}, res.Tags)
	assert.Equal(t, "test-model", res.Model)

	t.Run("regeneration replaces the previous set", func(t *testing.T) {
		provider.answers = []string{"새태그"}

		res, err := svc.GenerateTags(context.Background(), userId, memoId)
		require.NoError(t, err)
		assert.Equal(t, []string{"새태그"}, res.Tags)

		stored, err := svc.GetTags(context.Background(), userId, memoId)
		require.NoError(t, err)
		assert.Equal(t, []string{"새태그"}, stored.Tags)
	})

	t.Run("unusable output is rejected", func(t *testing.T) {
		provider.answers = []string{", , ,"}
		_, err := svc.GenerateTags(context.Background(), userId, memoId)
		assert.ErrorIs(t, err, serverutils.ErrAIEmptyResult)
	})
}

func TestParseTagList(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		max  int
		want []string
	}{
		{"comma separated", "회의, 업무, 일정", 6, []string{"회의", "업무", "일정"}},
		{"newline separated", "회의\n업무", 6, []string{"회의", "업무"}},
		{"lowercases latin", "Meeting, TODO", 6, []string{"meeting", "todo"}},
		{"strips decoration", "#회의, \"업무\", 일정.", 6, []string{"회의", "업무", "일정"}},
		{"dedupes", "회의, 회의, 업무", 6, []string{"회의", "업무"}},
		{"caps at max", "a, b, c, d", 2, []string{"a", "b"}},
		{"empty input", "  ", 6, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseTagList(tt.raw, tt.max)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAutocomplete(t *testing.T) {
	userId := uuid.New()

	t.Run("input under two runes short-circuits", func(t *testing.T) {
		provider := &fakeLLM{}
		svc, _ := newAIServiceForTest(provider)

		res, err := svc.Autocomplete(context.Background(), userId, &dto.AutocompleteRequest{Text: "가"})
		require.NoError(t, err)
		assert.Empty(t, res.Suggestions)
		assert.Zero(t, provider.callCount())
	})

	t.Run("suggestions are parsed and memoized", func(t *testing.T) {
		provider := &fakeLLM{answers: []string{"1. 논의했던 내용은\n- 결정된 사항은\n\n다음 단계로는\n네 번째 제안"}}
		svc, _ := newAIServiceForTest(provider)

		req := &dto.AutocompleteRequest{Text: "오늘 회의에서", Context: "회의록"}

		first, err := svc.Autocomplete(context.Background(), userId, req)
		require.NoError(t, err)
		assert.Equal(t, []string{"논의했던 내용은", "결정된 사항은", "다음 단계로는"}, first.Suggestions)
		assert.False(t, first.Cached)

		second, err := svc.Autocomplete(context.Background(), userId, req)
		require.NoError(t, err)
		assert.True(t, second.Cached)
		assert.Equal(t, first.Suggestions, second.Suggestions)
		assert.Equal(t, 1, provider.callCount())
	})

	t.Run("whitespace variants share one cache entry", func(t *testing.T) {
		provider := &fakeLLM{answers: []string{"제안"}}
		svc, _ := newAIServiceForTest(provider)

		_, err := svc.Autocomplete(context.Background(), userId, &dto.AutocompleteRequest{Text: "오늘  회의"})
		require.NoError(t, err)

		second, err := svc.Autocomplete(context.Background(), userId, &dto.AutocompleteRequest{Text: " 오늘 회의 "})
		require.NoError(t, err)
		assert.True(t, second.Cached)
		assert.Equal(t, 1, provider.callCount())
	})
}
