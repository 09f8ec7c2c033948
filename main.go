package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/redis/go-redis/v9"

	"brandlens/features/analysis"
	"brandlens/features/chat"
	knowledgeapi "brandlens/features/knowledge"
	"brandlens/internal/adapter/gemini"
	openaiclient "brandlens/internal/adapter/openai"
	"brandlens/internal/adapter/transcript"
	"brandlens/internal/adapter/web"
	"brandlens/internal/adapter/youtube"
	"brandlens/internal/config"
	"brandlens/internal/knowledge"
	"brandlens/internal/middleware"
	"brandlens/internal/session"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	ctx := context.Background()

	// 1. Load Config
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := cfg.RequireKeys(); err != nil {
		slog.Error("missing credentials", "error", err)
		os.Exit(1)
	}

	// 2. Redis Connection (session cache)
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	for i := 0; i < cfg.BootstrapRetryAttempts; i++ {
		if err := rdb.Ping(ctx).Err(); err == nil {
			break
		}
		slog.Warn("failed to ping redis, retrying...", "attempt", i+1, "max_attempts", cfg.BootstrapRetryAttempts)
		time.Sleep(time.Duration(cfg.BootstrapRetryDelaySeconds) * time.Second)
	}
	if err := rdb.Ping(ctx).Err(); err != nil {
		slog.Error("failed to ping redis after retries", "error", err)
		os.Exit(1)
	}
	sessions := session.NewStore(rdb, cfg.SessionMetaTTL, cfg.SessionDataTTL)

	// 3. Knowledge Index (Gemini embeddings over web documents)
	embedder, err := gemini.NewEmbedder(ctx, cfg.GeminiAPIKey, cfg.EmbedModel)
	if err != nil {
		slog.Error("failed to create embedder", "error", err)
		os.Exit(1)
	}
	defer embedder.Close()
	index := knowledge.NewIndex(embedder, web.NewLoader(), cfg.ChunkSize, cfg.ChunkOverlap, cfg.RetrievalTopK)

	// 4. Acquisition Adapters
	videoClient, err := youtube.NewClient(ctx, cfg.YouTubeAPIKey, cfg.CommentFetchLimit)
	if err != nil {
		slog.Error("failed to create YouTube client", "error", err)
		os.Exit(1)
	}
	transcripts := transcript.NewClient(cfg.TranscriptAPIURL, cfg.TranscriptAPIKey, cfg.ChunkSize, cfg.ChunkOverlap)

	// 5. Agent Backend & Orchestrator
	agentClient := openaiclient.NewClient(cfg.OpenAIAPIKey, cfg.AgentModel)

	var pipeline analysis.Orchestrator
	switch cfg.PipelineMode {
	case config.PipelineModeBaseline:
		pipeline = analysis.NewBaselinePipeline(agentClient, videoClient, transcripts, index, sessions)
	default:
		pipeline = analysis.NewSpecialistPipeline(agentClient, videoClient, transcripts, index, sessions, cfg.CommentSummaryLimit)
	}
	slog.Info("pipeline selected", "mode", cfg.PipelineMode)

	analysisHandler := analysis.NewHandler(pipeline, index)
	chatHandler := chat.NewHandler(chat.NewService(sessions, agentClient, index, analysis.NewEvaluator(agentClient)))
	knowledgeHandler := knowledgeapi.NewHandler(index)

	// Middleware: CORS
	enableCORS := func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}
			next(w, r)
		}
	}

	// Routes
	http.Handle("POST /api/analyze", middleware.CorrelationID(enableCORS(analysisHandler.Analyze)))
	http.Handle("POST /api/chat", middleware.CorrelationID(enableCORS(chatHandler.Chat)))
	http.Handle("POST /api/knowledge", middleware.CorrelationID(enableCORS(knowledgeHandler.Ingest)))

	http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	// 6. Start Server
	slog.Info("server starting", "port", cfg.ServerPort)
	if err := http.ListenAndServe(fmt.Sprintf(":%d", cfg.ServerPort), nil); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
