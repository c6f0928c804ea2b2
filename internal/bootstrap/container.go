package bootstrap

import (
	"context"
	"log"

	"docassist-be/internal/config"
	"docassist-be/internal/constant"
	"docassist-be/internal/controller"
	"docassist-be/internal/pkg/logger"
	"docassist-be/internal/repository/memory"
	"docassist-be/internal/repository/unitofwork"
	"docassist-be/internal/service"
	"docassist-be/pkg/cache"
	"docassist-be/pkg/chat"
	"docassist-be/pkg/docparse"
	"docassist-be/pkg/embedding"
	"docassist-be/pkg/embedding/upstage"
	"docassist-be/pkg/llm"
	"docassist-be/pkg/llm/factory"
	memctx "docassist-be/pkg/memory"
	"docassist-be/pkg/profile"
	"docassist-be/pkg/textsplitter"
	"docassist-be/pkg/vectorindex"

	pktNats "docassist-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AuthController      controller.IAuthController
	ChatbotController   controller.IChatbotController
	DocumentController  controller.IDocumentController
	ProfileController   controller.IProfileController
	RetrievalController controller.IRetrievalController

	// Background services (exposed for main.go to run)
	ConsumerService  service.IConsumerService
	RetrievalService service.IRetrievalService
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

	// 3. AI providers
	var embeddingProvider embedding.EmbeddingProvider
	switch cfg.Ai.EmbeddingProvider {
	case "ollama":
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.OllamaModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaModel)
	case "upstage":
		embeddingProvider = upstage.NewUpstageProvider(cfg.Keys.Upstage)
		log.Printf("[INFO] Using Embedding Provider: UPSTAGE")
	default:
		embeddingProvider = embedding.NewGeminiProvider(cfg.Keys.GoogleGemini)
		log.Printf("[INFO] Using Embedding Provider: GEMINI")
	}
	log.Printf("[INFO] Embedding vector width: %d", cfg.Ai.EmbeddingDimension)

	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Keys.Upstage,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// 4. Infrastructure: NATS and Redis run warn-and-continue, the app
	// works without either.
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}

	summaryCache, err := cache.NewSummaryCacheFromURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
		summaryCache = nil
	} else if err := summaryCache.Ping(context.Background()); err != nil {
		log.Printf("[WARN] Failed to ping Redis: %v", err)
	}

	// 5. Memory pipeline
	skipPrefixes := []string{constant.DocumentNoticePrefix, constant.ErrorNoticePrefix}

	profileService := service.NewProfileService(
		uowFactory,
		memory.NewProfileCache(),
		profile.NewLLMAnalyzer(llmProvider),
		natsPub,
		sysLogger,
	)

	index := vectorindex.New(embeddingProvider)
	retrievalService := service.NewRetrievalService(uowFactory, embeddingProvider, index, sysLogger)
	if _, err := retrievalService.Reindex(context.Background()); err != nil {
		log.Printf("[WARN] Initial index build failed: %v", err)
	}

	summarizer := memctx.NewSummarizer(
		llmProvider,
		skipPrefixes,
		llm.WithReasoningEffort("medium"),
	)
	assembler := memctx.NewAssembler(
		summarizer,
		retrievalService,
		profileService,
		skipPrefixes,
		cfg.Ai.RecentTurns,
	)
	engine := chat.NewEngine(llmProvider, llm.WithReasoningEffort(cfg.Ai.ReasoningEffort))

	// 6. Services
	publisherService := service.NewPublisherService(cfg.Keys.EmbedTopic, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Keys.EmbedTopic,
		uowFactory,
		embeddingProvider,
		textsplitter.Config{
			Separators: textsplitter.DefaultSeparators,
			ChunkSize:  cfg.Ai.ChunkSize,
			Overlap:    cfg.Ai.ChunkOverlap,
		},
		retrievalService,
		natsPub,
	)

	authService := service.NewAuthService(uowFactory)
	chatService := service.NewChatService(
		uowFactory,
		engine,
		assembler,
		profileService,
		natsPub,
		sysLogger,
	)
	documentService := service.NewDocumentService(
		uowFactory,
		docparse.NewUpstageParser(cfg.Keys.Upstage),
		publisherService,
		summaryCache,
		llmProvider,
		natsPub,
		sysLogger,
	)

	// 7. Controllers
	return &Container{
		AuthController:      controller.NewAuthController(authService),
		ChatbotController:   controller.NewChatbotController(chatService, sysLogger),
		DocumentController:  controller.NewDocumentController(documentService),
		ProfileController:   controller.NewProfileController(profileService),
		RetrievalController: controller.NewRetrievalController(retrievalService),

		ConsumerService:  consumerService,
		RetrievalService: retrievalService,
	}
}
