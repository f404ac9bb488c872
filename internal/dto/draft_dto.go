package dto

import "time"

type SaveDraftRequest struct {
	Title   string `json:"title" validate:"max=200"`
	Content string `json:"content"`
}

type DraftResponse struct {
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	UpdatedAt time.Time `json:"updated_at"`
}
