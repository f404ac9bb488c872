package unitofwork

import (
	"context"

	"ai-memo-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	MemoRepository() contract.MemoRepository
	SummaryRepository() contract.SummaryRepository
	TagRepository() contract.TagRepository
	NotificationRepository() contract.NotificationRepository
}
