package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"ai-memo-be/internal/dto"
	"ai-memo-be/internal/entity"
	"ai-memo-be/internal/pkg/serverutils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMemoServiceForTest() (IMemoService, *fakeUowFactory) {
	factory := newFakeUowFactory()
	return NewMemoService(factory, nil, nil), factory
}

func seedMemo(t *testing.T, svc IMemoService, userId uuid.UUID, title, content string) uuid.UUID {
	t.Helper()
	res, err := svc.Create(context.Background(), userId, &dto.CreateMemoRequest{Title: title, Content: content})
	require.NoError(t, err)
	return res.Id
}

func TestMemoCreateValidation(t *testing.T) {
	svc, _ := newMemoServiceForTest()
	userId := uuid.New()

	tests := []struct {
		name    string
		title   string
		content string
		wantErr error
	}{
		{"whitespace title", "   ", "내용", serverutils.ErrTitleRequired},
		{"empty title", "", "내용", serverutils.ErrTitleRequired},
		{"title over 200 runes", strings.Repeat("가", 201), "내용", serverutils.ErrTitleTooLong},
		{"whitespace content", "제목", "  \n\t ", serverutils.ErrContentRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), userId, &dto.CreateMemoRequest{Title: tt.title, Content: tt.content})
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	t.Run("title of exactly 200 runes passes", func(t *testing.T) {
		_, err := svc.Create(context.Background(), userId, &dto.CreateMemoRequest{
			Title:   strings.Repeat("가", 200),
			Content: "내용",
		})
		assert.NoError(t, err)
	})

	t.Run("title and content are trimmed on save", func(t *testing.T) {
		id := seedMemo(t, svc, userId, "  제목  ", "  내용  ")
		res, err := svc.Show(context.Background(), userId, id)
		require.NoError(t, err)
		assert.Equal(t, "제목", res.Title)
		assert.Equal(t, "내용", res.Content)
	})
}

func TestMemoListPagination(t *testing.T) {
	svc, factory := newMemoServiceForTest()
	userId := uuid.New()

	// Stagger CreatedAt so newest-first ordering is deterministic
	base := time.Now().Add(-time.Hour)
	for i := 0; i < 15; i++ {
		m := &entity.Memo{
			Id:        uuid.New(),
			UserId:    userId,
			Title:     fmt.Sprintf("메모 %02d", i),
			Content:   "내용",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, factory.uow.memoRepo.Create(context.Background(), m))
	}

	t.Run("first page holds twelve", func(t *testing.T) {
		res, err := svc.List(context.Background(), userId, 1, "newest")
		require.NoError(t, err)
		assert.Len(t, res.Items, 12)
		assert.Equal(t, int64(15), res.TotalCount)
		assert.Equal(t, 2, res.TotalPages)
		assert.Equal(t, "메모 14", res.Items[0].Title)
	})

	t.Run("second page holds the rest", func(t *testing.T) {
		res, err := svc.List(context.Background(), userId, 2, "newest")
		require.NoError(t, err)
		assert.Len(t, res.Items, 3)
		assert.Equal(t, "메모 02", res.Items[0].Title)
	})

	t.Run("oldest sort flips the order", func(t *testing.T) {
		res, err := svc.List(context.Background(), userId, 1, "oldest")
		require.NoError(t, err)
		assert.Equal(t, "메모 00", res.Items[0].Title)
	})

	t.Run("page below one clamps to one", func(t *testing.T) {
		res, err := svc.List(context.Background(), userId, 0, "newest")
		require.NoError(t, err)
		assert.Equal(t, 1, res.Page)
	})
}

func TestMemoListTitleSortStripsSymbols(t *testing.T) {
	svc, _ := newMemoServiceForTest()
	userId := uuid.New()

	seedMemo(t, svc, userId, "📌 나중에 읽기", "내용")
	seedMemo(t, svc, userId, "가계부", "내용")
	seedMemo(t, svc, userId, "!! todo", "내용")

	res, err := svc.List(context.Background(), userId, 1, "title")
	require.NoError(t, err)
	require.Len(t, res.Items, 3)

	// "!! todo" sorts as "todo", "📌 나중에 읽기" as "나중에 읽기"
	assert.Equal(t, "!! todo", res.Items[0].Title)
	assert.Equal(t, "가계부", res.Items[1].Title)
	assert.Equal(t, "📌 나중에 읽기", res.Items[2].Title)
}

func TestMemoOwnershipIsolation(t *testing.T) {
	svc, _ := newMemoServiceForTest()
	owner := uuid.New()
	stranger := uuid.New()

	id := seedMemo(t, svc, owner, "비밀 메모", "내용")

	_, err := svc.Show(context.Background(), stranger, id)
	assert.ErrorIs(t, err, serverutils.ErrMemoNotFound)

	err = svc.MoveToTrash(context.Background(), stranger, id)
	assert.ErrorIs(t, err, serverutils.ErrMemoNotFound)

	res, err := svc.List(context.Background(), stranger, 1, "newest")
	require.NoError(t, err)
	assert.Empty(t, res.Items)
}

func TestMemoTrashFlow(t *testing.T) {
	svc, _ := newMemoServiceForTest()
	userId := uuid.New()

	id := seedMemo(t, svc, userId, "지울 메모", "내용")
	keepId := seedMemo(t, svc, userId, "남길 메모", "내용")

	require.NoError(t, svc.MoveToTrash(context.Background(), userId, id))

	t.Run("trashed memo leaves the list", func(t *testing.T) {
		res, err := svc.List(context.Background(), userId, 1, "newest")
		require.NoError(t, err)
		require.Len(t, res.Items, 1)
		assert.Equal(t, keepId, res.Items[0].Id)
	})

	t.Run("trashed memo is hidden from show", func(t *testing.T) {
		_, err := svc.Show(context.Background(), userId, id)
		assert.ErrorIs(t, err, serverutils.ErrMemoNotFound)
	})

	t.Run("trash listing carries deleted_at", func(t *testing.T) {
		items, err := svc.ListTrash(context.Background(), userId)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, id, items[0].Id)
		assert.NotNil(t, items[0].DeletedAt)
	})

	t.Run("restore brings it back", func(t *testing.T) {
		require.NoError(t, svc.Restore(context.Background(), userId, id))

		res, err := svc.Show(context.Background(), userId, id)
		require.NoError(t, err)
		assert.Equal(t, "지울 메모", res.Title)

		items, err := svc.ListTrash(context.Background(), userId)
		require.NoError(t, err)
		assert.Empty(t, items)
	})

	t.Run("restore of a live memo is rejected", func(t *testing.T) {
		err := svc.Restore(context.Background(), userId, keepId)
		assert.ErrorIs(t, err, serverutils.ErrMemoNotInTrash)
	})

	t.Run("permanent delete requires trash first", func(t *testing.T) {
		err := svc.DeletePermanently(context.Background(), userId, keepId)
		assert.ErrorIs(t, err, serverutils.ErrMemoNotInTrash)
	})
}

func TestMemoPermanentDeleteRemovesDerivedRows(t *testing.T) {
	svc, factory := newMemoServiceForTest()
	userId := uuid.New()

	id := seedMemo(t, svc, userId, "메모", "내용")

	require.NoError(t, factory.uow.summaryRepo.Create(context.Background(), &entity.Summary{
		Id: uuid.New(), MemoId: id, UserId: userId, Content: "요약", CreatedAt: time.Now(),
	}))
	require.NoError(t, factory.uow.tagRepo.CreateMany(context.Background(), []*entity.Tag{
		{Id: uuid.New(), MemoId: id, UserId: userId, Tag: "태그"},
	}))

	require.NoError(t, svc.MoveToTrash(context.Background(), userId, id))
	require.NoError(t, svc.DeletePermanently(context.Background(), userId, id))

	sCount, _ := factory.uow.summaryRepo.Count(context.Background())
	tCount, _ := factory.uow.tagRepo.Count(context.Background())
	assert.Zero(t, sCount)
	assert.Zero(t, tCount)

	items, err := svc.ListTrash(context.Background(), userId)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestMemoEmptyTrash(t *testing.T) {
	svc, _ := newMemoServiceForTest()
	userId := uuid.New()
	otherUser := uuid.New()

	a := seedMemo(t, svc, userId, "A", "내용")
	b := seedMemo(t, svc, userId, "B", "내용")
	keep := seedMemo(t, svc, userId, "C", "내용")
	otherTrashed := seedMemo(t, svc, otherUser, "D", "내용")

	require.NoError(t, svc.MoveToTrash(context.Background(), userId, a))
	require.NoError(t, svc.MoveToTrash(context.Background(), userId, b))
	require.NoError(t, svc.MoveToTrash(context.Background(), otherUser, otherTrashed))

	require.NoError(t, svc.EmptyTrash(context.Background(), userId))

	items, err := svc.ListTrash(context.Background(), userId)
	require.NoError(t, err)
	assert.Empty(t, items)

	// The live memo and the other user's trash are untouched
	res, err := svc.List(context.Background(), userId, 1, "newest")
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, keep, res.Items[0].Id)

	otherItems, err := svc.ListTrash(context.Background(), otherUser)
	require.NoError(t, err)
	assert.Len(t, otherItems, 1)
}

func TestMemoUpdate(t *testing.T) {
	svc, _ := newMemoServiceForTest()
	userId := uuid.New()

	id := seedMemo(t, svc, userId, "원래 제목", "원래 내용")

	_, err := svc.Update(context.Background(), userId, &dto.UpdateMemoRequest{
		Id: id, Title: "바뀐 제목", Content: "바뀐 내용",
	})
	require.NoError(t, err)

	res, err := svc.Show(context.Background(), userId, id)
	require.NoError(t, err)
	assert.Equal(t, "바뀐 제목", res.Title)
	assert.Equal(t, "바뀐 내용", res.Content)
	assert.NotNil(t, res.UpdatedAt)

	t.Run("unknown id", func(t *testing.T) {
		_, err := svc.Update(context.Background(), userId, &dto.UpdateMemoRequest{
			Id: uuid.New(), Title: "제목", Content: "내용",
		})
		assert.ErrorIs(t, err, serverutils.ErrMemoNotFound)
	})
}
