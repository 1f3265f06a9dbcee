// Package main is the entry point for the API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/carebridge-ai/hospital-chatbot/internal/config"
	"github.com/carebridge-ai/hospital-chatbot/internal/faq"
	"github.com/carebridge-ai/hospital-chatbot/internal/handler"
	"github.com/carebridge-ai/hospital-chatbot/internal/hospital"
	"github.com/carebridge-ai/hospital-chatbot/internal/llm"
	"github.com/carebridge-ai/hospital-chatbot/internal/middleware"
	"github.com/carebridge-ai/hospital-chatbot/internal/reasoning"
	"github.com/carebridge-ai/hospital-chatbot/internal/service"
	"github.com/carebridge-ai/hospital-chatbot/internal/store"
	"github.com/carebridge-ai/hospital-chatbot/pkg/logger"
	"github.com/carebridge-ai/hospital-chatbot/pkg/tracing"
)

func main() {
	// Load .env if present, then configuration
	_ = godotenv.Load()
	cfg := config.Load()

	// Initialize logger
	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	logger.SetGlobal(log)

	log.Info("starting API server")

	// Initialize tracing if enabled
	ctx := context.Background()
	if cfg.TracingEnabled {
		tp, err := tracing.InitTracer(ctx, "hospital-chatbot", cfg.TracingEndpoint)
		if err != nil {
			log.Warn("failed to initialize tracing", zap.Error(err))
		} else {
			defer tracing.Shutdown(ctx, tp)
		}
	}

	// Load the FAQ corpus. A load failure degrades to an empty corpus so
	// that every question falls through to delegation.
	corpus, err := faq.LoadCorpus(cfg.FAQDataFile)
	if err != nil {
		log.Warn("failed to load FAQ corpus, FAQ tiers disabled", zap.Error(err))
		corpus = faq.Corpus{}
	} else {
		log.Info("FAQ corpus loaded", zap.Int("entries", len(corpus)))
	}

	// Initialize the conversation store
	var (
		conversationStore store.ConversationStore
		natsClient        *store.NATSClient
	)
	switch cfg.StoreBackend {
	case "jetstream":
		natsClient, err = store.ConnectNATS(store.NATSConfig{
			URL:      cfg.NATSURL,
			CAFile:   cfg.NATSCAFile,
			CertFile: cfg.NATSCertFile,
			KeyFile:  cfg.NATSKeyFile,
			Token:    cfg.NATSToken,
		}, log)
		if err != nil {
			log.Error("failed to connect to NATS", zap.Error(err))
			os.Exit(1)
		}
		defer natsClient.Close()

		conversationStore, err = store.NewJetStreamStore(ctx, natsClient)
		if err != nil {
			log.Error("failed to initialize JetStream store", zap.Error(err))
			os.Exit(1)
		}
	default:
		conversationStore = store.NewMemoryStore()
	}

	// Initialize the reasoning gateway
	var gateway reasoning.Gateway = reasoning.UnconfiguredGateway{}
	var llmClient llm.Client
	var llmErr error
	if cfg.AnthropicAPIKey != "" {
		llmClient, llmErr = llm.NewAnthropicClient(cfg.AnthropicAPIKey)
	} else if cfg.OpenAIAPIKey != "" {
		llmClient, llmErr = llm.NewOpenAIClient(cfg.OpenAIAPIKey)
	}
	switch {
	case llmErr != nil:
		log.Warn("failed to create LLM client, delegation disabled", zap.Error(llmErr))
	case llmClient == nil:
		log.Warn("no LLM provider configured, delegation disabled")
	default:
		retriever := reasoning.NewRetriever(hospital.KnowledgeBase())
		gateway = reasoning.NewPipelineGateway(llmClient, retriever, cfg.ReasoningModel, cfg.ReasoningTimeout, log)
	}

	// Initialize services
	deliverer := service.NewDeliverer(cfg.StreamTokenDelay)
	dialogSvc := service.NewDialogService(conversationStore, corpus, gateway, deliverer, log)

	// Initialize handlers
	healthHandler := handler.NewHealthHandler(natsClient)
	infoHandler := handler.NewInfoHandler(corpus)
	chatHandler := handler.NewChatHandler(dialogSvc, log)
	conversationHandler := handler.NewConversationHandler(dialogSvc, log)

	// Create router
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging(log))
	r.Use(middleware.SecurityHeaders)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000", "http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		ExposedHeaders:   []string{"X-Correlation-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(middleware.RateLimit(cfg.RateLimitRequests, cfg.RateLimitWindow))

	// Health endpoints
	r.Get("/", healthHandler.Root)
	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)

	// Metrics endpoint
	r.Handle("/metrics", promhttp.Handler())

	// API surface
	r.Get("/hospital-info", infoHandler.Info)
	r.Post("/chat", chatHandler.Chat)
	r.Post("/chat/stream", chatHandler.ChatStream)
	r.Route("/conversation/{id}", func(r chi.Router) {
		r.Get("/", conversationHandler.Get)
		r.Delete("/", conversationHandler.Delete)
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      r,
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info("server listening", zap.String("port", cfg.ServerPort))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", zap.Error(err))
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}

	log.Info("server stopped")
}
