package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"portfolium/internal/adapter/repo"
	"portfolium/internal/cache"
	"portfolium/internal/generate"
	"portfolium/internal/http/handlers"
	"portfolium/internal/http/httpapi"
	"portfolium/internal/infra"
	"portfolium/internal/jobstore"
	"portfolium/internal/providers/portfolio"
	"portfolium/internal/publish"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx := context.Background()
	dbpool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	defer dbpool.Close()

	if err := repo.EnsureSchema(ctx, dbpool); err != nil {
		logger.Fatal().Err(err).Msg("failed to apply database schema")
	}

	redisClient, err := infra.NewRedisClient(ctx, cfg)
	if err != nil {
		logger.Warn().Err(err).Msg("redis unavailable, portfolio cache disabled")
		redisClient = nil
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	gemini, err := portfolio.NewGeminiGenerator(ctx, portfolio.GeminiOptions{
		APIKey:  cfg.GeminiAPIKey,
		Model:   cfg.GeminiModel,
		Timeout: cfg.GeminiTimeout,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize gemini client")
	}
	defer gemini.Close()

	groq := portfolio.NewGroqGenerator(portfolio.GroqOptions{
		APIKey:  cfg.GroqAPIKey,
		Model:   cfg.GroqModel,
		BaseURL: cfg.GroqBaseURL,
	})
	huggingFace := portfolio.NewHuggingFaceGenerator(portfolio.HuggingFaceOptions{
		APIKey:  cfg.HuggingFaceAPIKey,
		Model:   cfg.HuggingFaceModel,
		BaseURL: cfg.HuggingFaceBaseURL,
	})
	chain := portfolio.NewChain(logger, gemini, groq, huggingFace)

	jobs := jobstore.New(repo.NewJobRepository(dbpool), repo.NewJobRepositoryMemory(), logger)
	portfolios := repo.NewPortfolioRepository(dbpool)

	app := &handlers.App{
		Config:     cfg,
		Logger:     logger,
		Jobs:       generate.NewController(jobs, chain, logger),
		Portfolios: portfolios,
		Gate:       publish.NewGate(portfolios),
		Cache:      cache.NewPortfolioCache(redisClient, logger),
	}

	router := httpapi.NewRouter(app)
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
