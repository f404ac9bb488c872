package mapper

import (
	"encoding/json"

	"ai-memo-be/internal/entity"
	"ai-memo-be/internal/model"

	"gorm.io/datatypes"
)

type SummaryMapper struct{}

func NewSummaryMapper() *SummaryMapper {
	return &SummaryMapper{}
}

func (m *SummaryMapper) ToEntity(s *model.Summary) *entity.Summary {
	if s == nil {
		return nil
	}

	var usage map[string]interface{}
	if len(s.Usage) > 0 {
		// Malformed stored counters are dropped, not fatal
		_ = json.Unmarshal(s.Usage, &usage)
	}

	return &entity.Summary{
		Id:        s.Id,
		MemoId:    s.MemoId,
		UserId:    s.UserId,
		Content:   s.Content,
		Model:     s.Model,
		Usage:     usage,
		CreatedAt: s.CreatedAt,
	}
}

func (m *SummaryMapper) ToModel(s *entity.Summary) *model.Summary {
	if s == nil {
		return nil
	}

	var usage datatypes.JSON
	if s.Usage != nil {
		if raw, err := json.Marshal(s.Usage); err == nil {
			usage = datatypes.JSON(raw)
		}
	}

	return &model.Summary{
		Id:        s.Id,
		MemoId:    s.MemoId,
		UserId:    s.UserId,
		Content:   s.Content,
		Model:     s.Model,
		Usage:     usage,
		CreatedAt: s.CreatedAt,
	}
}

func (m *SummaryMapper) ToEntities(summaries []*model.Summary) []*entity.Summary {
	entities := make([]*entity.Summary, len(summaries))
	for i, s := range summaries {
		entities[i] = m.ToEntity(s)
	}
	return entities
}
