// File: cmd/app/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"synomind-gateway/internal/config"
	"synomind-gateway/internal/domain/ports/adapter"
	"synomind-gateway/internal/domain/ports/repository"
	"synomind-gateway/internal/infra/adapters/provider"
	pg "synomind-gateway/internal/infra/db/postgres"
	"synomind-gateway/internal/infra/logging"
	"synomind-gateway/internal/infra/metrics"
	red "synomind-gateway/internal/infra/redis"
	"synomind-gateway/internal/infra/registry"
	"synomind-gateway/internal/infra/web"
	"synomind-gateway/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (console logs)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Info().Msg("dev mode enabled")
	}

	metrics.MustRegister()

	// ---- Postgres (optional: role lookup by user id) ----
	var roles repository.RoleLookup
	if cfg.Database.URL != "" {
		pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 10)
		if err != nil {
			log.Fatalf("postgres: %v", err)
		}
		defer pool.Close()
		roles = pg.NewPostgresRoleRepo(pool)
		logger.Info().Msg("role lookup enabled")
	}

	// ---- Redis (optional: /route rate limiting) ----
	var rateLimiter *red.RateLimiter
	if cfg.Redis.URL != "" {
		redisClient, err := red.NewClient(ctx, &cfg.Redis)
		if err != nil {
			log.Fatalf("redis: %v", err)
		}
		defer redisClient.Close()
		rateLimiter = red.NewRateLimiter(redisClient)
		logger.Info().
			Int("limit", cfg.Redis.RouteLimit).
			Dur("window", cfg.Redis.RouteWindow).
			Msg("route rate limiting enabled")
	}

	// ---- Provider adapters ----
	// Adapters are constructed unconditionally; an absent credential makes
	// the adapter unavailable, which the fallback chain skips at call time.
	adapters := map[string]adapter.ProviderAdapter{
		"openai":    provider.NewOpenAIAdapter(cfg.AI.OpenAIKey, cfg.AI.OpenAIModel, cfg.AI.RequestTimeout),
		"anthropic": provider.NewAnthropicAdapter(cfg.AI.AnthropicKey, cfg.AI.AnthropicModel, cfg.AI.AnthropicBaseURL, cfg.AI.MaxOutputTokens, cfg.AI.RequestTimeout),
		"google":    provider.NewGeminiAdapter(cfg.AI.GoogleKey, cfg.AI.GeminiModel, cfg.AI.GeminiBaseURL, cfg.AI.MaxOutputTokens, cfg.AI.RequestTimeout),
	}
	for name, a := range adapters {
		logger.Info().Str("provider", name).Bool("available", a.Available()).Str("model", a.Info().Model).Msg("provider adapter registered")
	}

	// ---- Use cases ----
	filter, err := usecase.NewRoleFilter(cfg.Security.RedactionPatterns)
	if err != nil {
		log.Fatalf("role filter: %v", err)
	}
	routerUC := usecase.NewRouterUseCase(adapters, cfg.AI.FallbackOrder, filter, logger)

	sessionRegistry := registry.New()
	trainingUC := usecase.NewTrainingUseCase(
		ctx,
		sessionRegistry,
		adapters,
		cfg.AI.FallbackOrder,
		cfg.Training.ProviderTimeout,
		cfg.Training.PhaseDelay,
		logger,
	)

	// ---- HTTP server ----
	auth := web.NewAuthManager(cfg.Security.JWTSecret)
	srv := web.NewServer(routerUC, trainingUC, auth, roles, rateLimiter, cfg.Redis.RouteLimit, cfg.Redis.RouteWindow, logger)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: srv.Routes(),
	}
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("http listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("http server error")
		}
	}()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown error")
	}

	// Cancelling the root context interrupts in-flight training sessions;
	// their orchestrators record the cancellation as a failure and exit.
	cancel()
}
