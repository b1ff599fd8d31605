package bootstrap

import (
	"context"
	"log"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/vigneshgurumohan/tngrm-agent-store-sub000/internal/config"
	"github.com/vigneshgurumohan/tngrm-agent-store-sub000/internal/constant"
	"github.com/vigneshgurumohan/tngrm-agent-store-sub000/internal/controller"
	"github.com/vigneshgurumohan/tngrm-agent-store-sub000/internal/handler"
	"github.com/vigneshgurumohan/tngrm-agent-store-sub000/internal/pkg/logger"
	"github.com/vigneshgurumohan/tngrm-agent-store-sub000/internal/repository/implementation"
	"github.com/vigneshgurumohan/tngrm-agent-store-sub000/internal/repository/memory"
	"github.com/vigneshgurumohan/tngrm-agent-store-sub000/internal/repository/unitofwork"
	"github.com/vigneshgurumohan/tngrm-agent-store-sub000/internal/service"
	"github.com/vigneshgurumohan/tngrm-agent-store-sub000/internal/websocket"
	"github.com/vigneshgurumohan/tngrm-agent-store-sub000/pkg/agents"
	"github.com/vigneshgurumohan/tngrm-agent-store-sub000/pkg/assistant"
	pktNats "github.com/vigneshgurumohan/tngrm-agent-store-sub000/pkg/nats"
)

type Container struct {
	// Controllers
	ChatController   controller.IChatController
	WidgetController controller.IWidgetController
	AdminController  controller.IAdminController

	// Proxy
	ProxyHandler *handler.ProxyHandler

	// Background services (exposed for main.go to run)
	ConsumerService  service.IConsumerService
	AnalyticsService service.IAnalyticsService

	// WebSockets
	WebSocketHub *websocket.Hub
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 2.5 Infrastructure
	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	}

	// Redis
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

	// WebSocket hub
	wsLogger := logger.NewIsolatedLogger("logs/hub.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// 3. Session state
	sessionTTL := time.Duration(cfg.Chat.SessionTTLMinutes) * time.Minute
	registry := memory.NewSessionRegistry(sessionTTL)
	persister := implementation.NewRedisSessionPersister(rdb, sessionTTL, sysLogger)
	widgetRepo := memory.NewWidgetRepository()

	// 4. Upstream clients
	assistantClient := assistant.NewHTTPClient(cfg.Upstream.BaseURL)
	agentLookup := agents.NewHTTPLookup(cfg.Upstream.BaseURL)

	// 5. Services
	publisherService := service.NewPublisherService(constant.ChatEventsTopic, pubSub)

	var analyticsPub service.AnalyticsPublisher
	if natsPub != nil {
		analyticsPub = natsPub
	}

	chatService := service.NewChatService(
		registry,
		persister,
		assistantClient,
		agentLookup,
		uowFactory,
		publisherService,
		analyticsPub,
		sysLogger,
		cfg.Chat.DefaultMode,
	)

	widgetService := service.NewWidgetService(
		widgetRepo,
		chatService,
		analyticsPub,
		sysLogger,
		time.Duration(cfg.Chat.WidgetMountDelay)*time.Millisecond,
	)

	consumerService := service.NewConsumerService(pubSub, wsHub, analyticsPub, sysLogger)

	analyticsService := service.NewAnalyticsService(natsSub, rdb, sysLogger)
	if err := analyticsService.Start(); err != nil {
		log.Printf("[WARN] Failed to start analytics consumer: %v", err)
	}

	adminService := service.NewAdminService(
		implementation.NewChatSessionRepository(db),
		implementation.NewChatMessageRepository(db),
		sysLogger,
	)

	// 6. Controllers
	return &Container{
		ChatController:   controller.NewChatController(chatService),
		WidgetController: controller.NewWidgetController(widgetService),
		AdminController:  controller.NewAdminController(adminService, analyticsService),
		ProxyHandler:     handler.NewProxyHandler(cfg.Upstream.BaseURL, sysLogger),
		ConsumerService:  consumerService,
		AnalyticsService: analyticsService,
		WebSocketHub:     wsHub,
	}
}
