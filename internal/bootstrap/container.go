package bootstrap

import (
	"context"
	"log"

	"ai-memo-be/internal/config"
	"ai-memo-be/internal/controller"
	"ai-memo-be/internal/handler"
	"ai-memo-be/internal/pkg/logger"
	"ai-memo-be/internal/pkg/mailer"
	"ai-memo-be/internal/repository/memory"
	"ai-memo-be/internal/repository/unitofwork"
	"ai-memo-be/internal/service"
	"ai-memo-be/internal/websocket"
	"ai-memo-be/pkg/llm/factory"
	pktNats "ai-memo-be/pkg/nats"
	"ai-memo-be/pkg/store"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AuthController  controller.IAuthController
	OAuthController controller.IOAuthController
	UserController  controller.IUserController
	MemoController  controller.IMemoController
	AIController    controller.IAIController
	DraftController controller.IDraftController

	// Background services (exposed for main.go to run)
	ConsumerService service.IConsumerService

	// WebSockets & notifications
	NotificationHandler *handler.NotificationHandler
	WebSocketHub        *websocket.Hub

	Logger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
	)

	// 2. In-process event bus (async tag generation)
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. LLM provider
	llmProvider, err := factory.NewLLMProvider(cfg.Ai)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.Provider, cfg.Ai.Model)

	// 4. Infrastructure: NATS and Redis degrade to nil with a warning so
	// the API keeps serving without them
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	}

	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}

	draftStore := store.NewDraftStore(rdb)
	suggestionCache := memory.NewSuggestionCache()

	// 5. WebSocket hub, logged to its own file to keep main logs readable
	wsLogger := logger.NewIsolatedLogger("logs/notification.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// 6. Services
	publisherService := service.NewPublisherService(cfg.App.TagTopic, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.App.TagTopic,
		uowFactory,
		llmProvider,
		cfg.Ai,
	)

	authService := service.NewAuthService(uowFactory, emailService, natsPub)
	oauthService := service.NewOAuthService(uowFactory)
	userService := service.NewUserService(uowFactory)
	memoService := service.NewMemoService(uowFactory, publisherService, natsPub)
	aiService := service.NewAIService(uowFactory, llmProvider, suggestionCache, draftStore, natsPub, cfg.Ai)
	draftService := service.NewDraftService(draftStore)

	notificationService := service.NewNotificationService(uowFactory, natsSub, wsHub, wsLogger)
	if natsSub != nil {
		notificationService.Start()
	} else {
		log.Printf("[WARN] NATS subscriber unavailable, notifications are push-less this run")
	}

	// 7. Controllers
	return &Container{
		AuthController:  controller.NewAuthController(authService),
		OAuthController: controller.NewOAuthController(oauthService),
		UserController:  controller.NewUserController(userService),
		MemoController:  controller.NewMemoController(memoService),
		AIController:    controller.NewAIController(aiService),
		DraftController: controller.NewDraftController(draftService),

		ConsumerService: consumerService,

		NotificationHandler: handler.NewNotificationHandler(notificationService, natsPub, wsHub, wsLogger),
		WebSocketHub:        wsHub,

		Logger: sysLogger,
	}
}
