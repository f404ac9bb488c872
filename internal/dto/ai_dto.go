package dto

import (
	"time"

	"github.com/google/uuid"
)

type SummaryResponse struct {
	Id        uuid.UUID              `json:"id"`
	MemoId    uuid.UUID              `json:"memo_id"`
	Content   string                 `json:"content"`
	Model     string                 `json:"model"`
	Usage     map[string]interface{} `json:"usage,omitempty"`
	Cached    bool                   `json:"cached"`
	CreatedAt time.Time              `json:"created_at"`
}

type TagsResponse struct {
	MemoId uuid.UUID `json:"memo_id"`
	Tags   []string  `json:"tags"`
	Model  string    `json:"model,omitempty"`
}

type AutocompleteRequest struct {
	Text    string `json:"text" validate:"required"`
	Context string `json:"context"`
}

type AutocompleteResponse struct {
	Suggestions []string `json:"suggestions"`
	Cached      bool     `json:"cached"`
}

// AIHistoryEntry is one line of the per-user generation history kept in Redis.
type AIHistoryEntry struct {
	Kind      string    `json:"kind"` // "summary" | "tags"
	MemoId    uuid.UUID `json:"memo_id"`
	Result    string    `json:"result"`
	Model     string    `json:"model"`
	CreatedAt time.Time `json:"created_at"`
}

// GenerateMemoTagsMessage is the watermill payload for the async tag pipeline.
type GenerateMemoTagsMessage struct {
	MemoId uuid.UUID `json:"memo_id"`
	UserId uuid.UUID `json:"user_id"`
}
