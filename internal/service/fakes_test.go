package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"ai-memo-be/internal/repository/contract"
	"ai-memo-be/internal/entity"
	"ai-memo-be/internal/repository/specification"
	"ai-memo-be/internal/repository/unitofwork"
	"ai-memo-be/pkg/llm"
	"ai-memo-be/pkg/utils"

	"github.com/google/uuid"
)

// In-memory doubles for the persistence layer. Specifications are
// interpreted by type so service queries behave like the real thing.

type memoQuery struct {
	id             *uuid.UUID
	userId         *uuid.UUID
	inTrash        bool
	includeTrashed bool
	orderField     string
	orderDesc      bool
	cleanTitle     bool
	limit          int
	offset         int
}

func parseSpecs(specs []specification.Specification) memoQuery {
	q := memoQuery{limit: -1}
	for _, s := range specs {
		switch v := s.(type) {
		case specification.ByID:
			id := v.ID
			q.id = &id
		case specification.UserOwnedBy:
			uid := v.UserID
			q.userId = &uid
		case specification.InTrash:
			q.inTrash = true
		case specification.IncludeTrashed:
			q.includeTrashed = true
		case specification.OrderBy:
			q.orderField = v.Field
			q.orderDesc = v.Desc
		case specification.OrderByCleanTitle:
			q.cleanTitle = true
		case specification.Pagination:
			q.limit = v.Limit
			q.offset = v.Offset
		}
	}
	return q
}

type fakeMemoRepo struct {
	mu    sync.Mutex
	memos map[uuid.UUID]*entity.Memo
}

func newFakeMemoRepo() *fakeMemoRepo {
	return &fakeMemoRepo{memos: make(map[uuid.UUID]*entity.Memo)}
}

func (r *fakeMemoRepo) matches(m *entity.Memo, q memoQuery) bool {
	if q.inTrash && !m.IsDeleted {
		return false
	}
	if !q.inTrash && !q.includeTrashed && m.IsDeleted {
		return false
	}
	if q.id != nil && m.Id != *q.id {
		return false
	}
	if q.userId != nil && m.UserId != *q.userId {
		return false
	}
	return true
}

func (r *fakeMemoRepo) query(q memoQuery) []*entity.Memo {
	var out []*entity.Memo
	for _, m := range r.memos {
		if r.matches(m, q) {
			copied := *m
			out = append(out, &copied)
		}
	}

	switch {
	case q.cleanTitle:
		sort.Slice(out, func(i, j int) bool {
			return utils.StripLeadingSymbols(out[i].Title) < utils.StripLeadingSymbols(out[j].Title)
		})
	case q.orderField == "deleted_at":
		sort.Slice(out, func(i, j int) bool {
			ti, tj := time.Time{}, time.Time{}
			if out[i].DeletedAt != nil {
				ti = *out[i].DeletedAt
			}
			if out[j].DeletedAt != nil {
				tj = *out[j].DeletedAt
			}
			if q.orderDesc {
				return ti.After(tj)
			}
			return ti.Before(tj)
		})
	default:
		sort.Slice(out, func(i, j int) bool {
			if q.orderDesc {
				return out[i].CreatedAt.After(out[j].CreatedAt)
			}
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		})
	}

	if q.offset > 0 {
		if q.offset >= len(out) {
			return nil
		}
		out = out[q.offset:]
	}
	if q.limit >= 0 && len(out) > q.limit {
		out = out[:q.limit]
	}
	return out
}

func (r *fakeMemoRepo) Create(ctx context.Context, memo *entity.Memo) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *memo
	r.memos[memo.Id] = &copied
	return nil
}

func (r *fakeMemoRepo) Update(ctx context.Context, memo *entity.Memo) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *memo
	r.memos[memo.Id] = &copied
	return nil
}

func (r *fakeMemoRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m, ok := r.memos[id]; ok {
		now := time.Now()
		m.IsDeleted = true
		m.DeletedAt = &now
	}
	return nil
}

func (r *fakeMemoRepo) Restore(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m, ok := r.memos[id]; ok {
		m.IsDeleted = false
		m.DeletedAt = nil
	}
	return nil
}

func (r *fakeMemoRepo) DeleteUnscoped(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.memos, id)
	return nil
}

func (r *fakeMemoRepo) DeleteTrashedByUserUnscoped(ctx context.Context, userId uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, m := range r.memos {
		if m.UserId == userId && m.IsDeleted {
			delete(r.memos, id)
		}
	}
	return nil
}

func (r *fakeMemoRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Memo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.query(parseSpecs(specs))
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *fakeMemoRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Memo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.query(parseSpecs(specs)), nil
}

func (r *fakeMemoRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	q := parseSpecs(specs)
	q.limit = -1
	q.offset = 0
	return int64(len(r.query(q))), nil
}

type fakeSummaryRepo struct {
	mu        sync.Mutex
	summaries []*entity.Summary
}

func (r *fakeSummaryRepo) Create(ctx context.Context, summary *entity.Summary) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *summary
	r.summaries = append(r.summaries, &copied)
	return nil
}

func (r *fakeSummaryRepo) FindLatest(ctx context.Context, specs ...specification.Specification) (*entity.Summary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var memoId *uuid.UUID
	for _, s := range specs {
		if v, ok := s.(specification.ByMemoID); ok {
			id := v.MemoID
			memoId = &id
		}
	}

	var latest *entity.Summary
	for _, s := range r.summaries {
		if memoId != nil && s.MemoId != *memoId {
			continue
		}
		if latest == nil || s.CreatedAt.After(latest.CreatedAt) {
			latest = s
		}
	}
	if latest == nil {
		return nil, nil
	}
	copied := *latest
	return &copied, nil
}

func (r *fakeSummaryRepo) DeleteByMemoId(ctx context.Context, memoId uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.summaries[:0]
	for _, s := range r.summaries {
		if s.MemoId != memoId {
			kept = append(kept, s)
		}
	}
	r.summaries = kept
	return nil
}

func (r *fakeSummaryRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var memoId *uuid.UUID
	for _, s := range specs {
		if v, ok := s.(specification.ByMemoID); ok {
			id := v.MemoID
			memoId = &id
		}
	}
	var n int64
	for _, s := range r.summaries {
		if memoId == nil || s.MemoId == *memoId {
			n++
		}
	}
	return n, nil
}

type fakeTagRepo struct {
	mu   sync.Mutex
	tags []*entity.Tag
}

func (r *fakeTagRepo) CreateMany(ctx context.Context, tags []*entity.Tag) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range tags {
		copied := *t
		r.tags = append(r.tags, &copied)
	}
	return nil
}

func (r *fakeTagRepo) DeleteByMemoId(ctx context.Context, memoId uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.tags[:0]
	for _, t := range r.tags {
		if t.MemoId != memoId {
			kept = append(kept, t)
		}
	}
	r.tags = kept
	return nil
}

func (r *fakeTagRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Tag, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var memoId *uuid.UUID
	for _, s := range specs {
		if v, ok := s.(specification.ByMemoID); ok {
			id := v.MemoID
			memoId = &id
		}
	}
	var out []*entity.Tag
	for _, t := range r.tags {
		if memoId == nil || t.MemoId == *memoId {
			copied := *t
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Tag < out[j].Tag })
	return out, nil
}

func (r *fakeTagRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	out, _ := r.FindAll(ctx, specs...)
	return int64(len(out)), nil
}

// fakeUow satisfies unitofwork.UnitOfWork; Begin/Commit/Rollback are no-ops
// since the fakes mutate shared state directly.
type fakeUow struct {
	memoRepo    *fakeMemoRepo
	summaryRepo *fakeSummaryRepo
	tagRepo     *fakeTagRepo
}

func (u *fakeUow) Begin(ctx context.Context) error { return nil }
func (u *fakeUow) Commit() error                   { return nil }
func (u *fakeUow) Rollback() error                 { return nil }

func (u *fakeUow) UserRepository() contract.UserRepository                 { return nil }
func (u *fakeUow) MemoRepository() contract.MemoRepository                 { return u.memoRepo }
func (u *fakeUow) SummaryRepository() contract.SummaryRepository           { return u.summaryRepo }
func (u *fakeUow) TagRepository() contract.TagRepository                   { return u.tagRepo }
func (u *fakeUow) NotificationRepository() contract.NotificationRepository { return nil }

type fakeUowFactory struct {
	uow *fakeUow
}

func newFakeUowFactory() *fakeUowFactory {
	return &fakeUowFactory{
		uow: &fakeUow{
			memoRepo:    newFakeMemoRepo(),
			summaryRepo: &fakeSummaryRepo{},
			tagRepo:     &fakeTagRepo{},
		},
	}
}

func (f *fakeUowFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return f.uow
}

// fakeLLM replays scripted answers and counts calls.
type fakeLLM struct {
	mu      sync.Mutex
	answers []string
	calls   int
	err     error
}

func (p *fakeLLM) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (*llm.Result, error) {
	return p.Generate(ctx, "", options...)
}

func (p *fakeLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (*llm.Result, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return nil, p.err
	}
	answer := ""
	if len(p.answers) > 0 {
		answer = p.answers[0]
		if len(p.answers) > 1 {
			p.answers = p.answers[1:]
		}
	}
	p.calls++
	return &llm.Result{
		Text:  answer,
		Usage: map[string]interface{}{"total_tokens": 42},
	}, nil
}

func (p *fakeLLM) Model() string { return "test-model" }

func (p *fakeLLM) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}
