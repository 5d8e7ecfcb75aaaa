package bootstrap

import (
	"log"
	"time"

	"rag-knowledge-be/internal/config"
	"rag-knowledge-be/internal/controller"
	"rag-knowledge-be/internal/pkg/logger"
	"rag-knowledge-be/internal/repository/unitofwork"
	"rag-knowledge-be/internal/service"
	"rag-knowledge-be/pkg/embedding"
	"rag-knowledge-be/pkg/events"
	"rag-knowledge-be/pkg/extractor"
	"rag-knowledge-be/pkg/llm/factory"
	"rag-knowledge-be/pkg/rag/generate"
	"rag-knowledge-be/pkg/rag/prompt"
	"rag-knowledge-be/pkg/tokenizer"

	pktNats "rag-knowledge-be/pkg/nats"

	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	IngestionController controller.IIngestionController
	RagController       controller.IRagController
	SourceController    controller.ISourceController

	// Background services (exposed for main.go to run)
	ConsumerService service.IConsumerService

	// Shared infrastructure main.go must shut down
	Logger    logger.ILogger
	Publisher events.Publisher
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event bus. The in-process channel bus is the default; NATS takes
	// over when events must reach other processes. The local consumer
	// always reads the channel bus.
	channelBus := events.NewChannelBus()
	var publisher events.Publisher = channelBus
	if cfg.App.EventBackend == "nats" {
		natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS, falling back to channel bus: %v", err)
		} else {
			publisher = events.NewFanout(channelBus, natsPub)
			log.Printf("[INFO] Publishing events to NATS at %s", cfg.App.NatsURL)
		}
	}

	// 3. AI providers
	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.OllamaEmbeddingModel)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaEmbeddingModel)
	} else {
		log.Fatalf("[FATAL] Unknown embedding provider: %s", cfg.Ai.EmbeddingProvider)
	}

	llmBaseURL := cfg.Ai.LLMBaseURL
	if llmBaseURL == "" {
		llmBaseURL = cfg.Ai.OllamaBaseURL
	}
	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		llmBaseURL,
		cfg.Ai.HuggingFaceKey,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// 4. RAG building blocks
	tokenCounter := tokenizer.NewTiktokenCounter()
	promptBuilder := prompt.NewBuilder(tokenCounter, cfg.Ai.LLMModel)
	generator := generate.NewClient(llmProvider, sysLogger)

	scraper := extractor.NewWebScraper(time.Duration(cfg.Ingestion.ScrapeTimeoutSecond) * time.Second)
	transcriber := extractor.NewYoutubeTranscriber([]string{"fr", "en"})

	// 5. Services
	ragService := service.NewRagService(
		uowFactory,
		embeddingProvider,
		generator,
		promptBuilder,
		service.RagDefaults{
			TopK:          cfg.Rag.TopK,
			MinK:          cfg.Rag.MinK,
			MinSimilarity: cfg.Rag.MinSimilarity,
			TokenLimit:    cfg.Rag.TokenLimit,
			Language:      prompt.Language(cfg.Rag.Language),
		},
		sysLogger,
	)
	ingestionService := service.NewIngestionService(
		uowFactory,
		scraper,
		transcriber,
		embeddingProvider,
		publisher,
		cfg.Ingestion.MaxChunkWords,
		sysLogger,
	)
	sourceService := service.NewSourceService(uowFactory, publisher, sysLogger)
	consumerService := service.NewConsumerService(channelBus, sysLogger)

	return &Container{
		IngestionController: controller.NewIngestionController(ingestionService),
		RagController:       controller.NewRagController(ragService),
		SourceController:    controller.NewSourceController(sourceService),
		ConsumerService:     consumerService,
		Logger:              sysLogger,
		Publisher:           publisher,
	}
}
