package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Server-side port of the client's localStorage persistence: unsent drafts
// and ephemeral AI-result history, stored as JSON blobs with expiry.
const (
	draftKeyPrefix   = "draft:"
	historyKeyPrefix = "aihistory:"

	draftTTL   = 7 * 24 * time.Hour
	historyTTL = 30 * 24 * time.Hour

	historyMaxEntries = 20
)

// Draft is the unsent editor state for one user.
type Draft struct {
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	UpdatedAt time.Time `json:"updated_at"`
}

type DraftStore struct {
	rdb *redis.Client
}

func NewDraftStore(rdb *redis.Client) *DraftStore {
	return &DraftStore{rdb: rdb}
}

func (s *DraftStore) SaveDraft(ctx context.Context, userId uuid.UUID, draft *Draft) error {
	data, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("marshal draft: %w", err)
	}
	return s.rdb.Set(ctx, draftKeyPrefix+userId.String(), data, draftTTL).Err()
}

// GetDraft returns nil without error when no draft is stored.
func (s *DraftStore) GetDraft(ctx context.Context, userId uuid.UUID) (*Draft, error) {
	data, err := s.rdb.Get(ctx, draftKeyPrefix+userId.String()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	var draft Draft
	if err := json.Unmarshal(data, &draft); err != nil {
		return nil, fmt.Errorf("unmarshal draft: %w", err)
	}
	return &draft, nil
}

func (s *DraftStore) DeleteDraft(ctx context.Context, userId uuid.UUID) error {
	return s.rdb.Del(ctx, draftKeyPrefix+userId.String()).Err()
}

// AppendHistory prepends a generation record, trims the list to the cap and
// refreshes the expiry.
func (s *DraftStore) AppendHistory(ctx context.Context, userId uuid.UUID, entry interface{}) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal history entry: %w", err)
	}
	key := historyKeyPrefix + userId.String()

	pipe := s.rdb.TxPipeline()
	pipe.LPush(ctx, key, data)
	pipe.LTrim(ctx, key, 0, historyMaxEntries-1)
	pipe.Expire(ctx, key, historyTTL)
	_, err = pipe.Exec(ctx)
	return err
}

// GetHistory returns the raw JSON entries, newest first.
func (s *DraftStore) GetHistory(ctx context.Context, userId uuid.UUID) ([]json.RawMessage, error) {
	key := historyKeyPrefix + userId.String()
	items, err := s.rdb.LRange(ctx, key, 0, historyMaxEntries-1).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return []json.RawMessage{}, nil
		}
		return nil, err
	}
	out := make([]json.RawMessage, 0, len(items))
	for _, item := range items {
		out = append(out, json.RawMessage(item))
	}
	return out, nil
}
