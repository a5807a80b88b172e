package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/kickoffxi/lineup-api/internal/app"
	"github.com/kickoffxi/lineup-api/internal/cache"
	"github.com/kickoffxi/lineup-api/internal/config"
	"github.com/kickoffxi/lineup-api/internal/handlers"
)

func main() {
	var (
		addr    = flag.String("addr", ":8090", "HTTP listen address")
		mcpPath = flag.String("path", "/mcp", "HTTP path for the MCP endpoint")
	)
	flag.Parse()

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("Error loading .env file: %v", err)
	}
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	logger, err := app.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	core, err := app.NewCore(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to assemble prediction core", zap.Error(err))
	}
	predictionCache := cache.NewMemoryCache(time.Minute)
	defer predictionCache.Close()
	server := newServer(core.Service(predictionCache, nil))

	mcpHandler := mcp.NewStreamableHTTPHandler(func(r *http.Request) *mcp.Server {
		return server
	}, &mcp.StreamableHTTPOptions{JSONResponse: true})

	// Reuse the API's auth and rate limiting so both surfaces share API_KEYS.
	h := handlers.New(handlers.Config{
		APIKeys:   cfg.APIKeys,
		RateLimit: cfg.RateLimitPerSecond,
		RateBurst: cfg.RateLimitBurst,
		Logger:    logger,
	})
	r := chi.NewRouter()
	r.Use(h.RequestIDMiddleware)
	r.Get("/health", h.Health)
	r.Group(func(r chi.Router) {
		r.Use(h.APIKeyMiddleware)
		r.Use(h.RateLimitMiddleware)
		r.Handle(*mcpPath, mcpHandler)
	})

	srv := &http.Server{Addr: *addr, Handler: r, ReadHeaderTimeout: 10 * time.Second}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	logger.Sugar().Infow("MCP HTTP server listening", "addr", *addr, "path", *mcpPath)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("MCP server failed", zap.Error(err))
	}
}
