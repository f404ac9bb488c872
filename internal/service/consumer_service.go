package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"ai-memo-be/internal/config"
	"ai-memo-be/internal/constant"
	"ai-memo-be/internal/dto"
	"ai-memo-be/internal/entity"
	"ai-memo-be/internal/repository/specification"
	"ai-memo-be/internal/repository/unitofwork"
	"ai-memo-be/pkg/llm"
	"ai-memo-be/pkg/utils"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

// consumerService drains the tag-generation topic in the background so
// memo writes never wait on the model.
type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub     *gochannel.GoChannel
	topicName  string
	uowFactory unitofwork.RepositoryFactory
	provider   llm.LLMProvider
	cfg        config.AIConfig
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	provider llm.LLMProvider,
	cfg config.AIConfig,
) IConsumerService {
	return &consumerService{
		pubSub:     pubSub,
		topicName:  topicName,
		uowFactory: uowFactory,
		provider:   provider,
		cfg:        cfg,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.GenerateMemoTagsMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal message: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	log.Printf("[INFO] Generating tags for memo: %s", payload.MemoId)

	uow := cs.uowFactory.NewUnitOfWork(ctx)

	memo, err := uow.MemoRepository().FindOne(ctx, specification.ByID{ID: payload.MemoId})
	if err != nil {
		log.Printf("[ERROR] Failed to get memo %s: %v", payload.MemoId, err)
		msg.Nack() // Retriable
		return
	}
	if memo == nil {
		// Deleted between enqueue and processing; nothing to tag
		log.Printf("[WARN] Memo not found, skipping: %s", payload.MemoId)
		msg.Ack()
		return
	}

	maxTags := cs.cfg.AutocompleteMaxTags
	content := utils.TruncateToTokenBudget(memo.Content, cs.cfg.SummaryTokenBudget)
	prompt := fmt.Sprintf(constant.TagsPrompt, maxTags, content)

	result, err := cs.provider.Generate(ctx, prompt, llm.WithTemperature(0.2))
	if err != nil {
		log.Printf("[ERROR] Tag generation failed for memo %s: %v", payload.MemoId, err)
		msg.Nack()
		return
	}

	tagNames := parseTagList(result.Text, maxTags)
	if len(tagNames) == 0 {
		log.Printf("[WARN] Model returned no usable tags for memo %s", payload.MemoId)
		msg.Ack()
		return
	}

	model := cs.provider.Model()
	tagEntities := make([]*entity.Tag, len(tagNames))
	for i, name := range tagNames {
		tagEntities[i] = &entity.Tag{
			Id:        uuid.New(),
			MemoId:    memo.Id,
			UserId:    payload.UserId,
			Tag:       name,
			Model:     model,
			CreatedAt: time.Now(),
		}
	}

	if err := uow.Begin(ctx); err != nil {
		log.Printf("[ERROR] Failed to begin tx for memo %s: %v", payload.MemoId, err)
		msg.Nack()
		return
	}

	if err := uow.TagRepository().DeleteByMemoId(ctx, memo.Id); err != nil {
		uow.Rollback()
		log.Printf("[ERROR] Failed to clear tags for memo %s: %v", payload.MemoId, err)
		msg.Nack()
		return
	}
	if err := uow.TagRepository().CreateMany(ctx, tagEntities); err != nil {
		uow.Rollback()
		log.Printf("[ERROR] Failed to save tags for memo %s: %v", payload.MemoId, err)
		msg.Nack()
		return
	}
	if err := uow.Commit(); err != nil {
		log.Printf("[ERROR] Failed to commit tags for memo %s: %v", payload.MemoId, err)
		msg.Nack()
		return
	}

	log.Printf("[INFO] Stored %d tags for memo %s", len(tagEntities), payload.MemoId)
	msg.Ack()
}
