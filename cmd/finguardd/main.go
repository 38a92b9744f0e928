package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"

	"github.com/joho/godotenv"

	"github.com/finguard-ai/finguard/internal/audit"
	"github.com/finguard-ai/finguard/internal/common"
	"github.com/finguard-ai/finguard/internal/document"
	"github.com/finguard-ai/finguard/internal/extract"
	"github.com/finguard-ai/finguard/internal/llm/mistral"
	"github.com/finguard-ai/finguard/internal/pipeline"
	"github.com/finguard-ai/finguard/internal/risk"
	"github.com/finguard-ai/finguard/internal/server"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		logger.Info("no .env file found")
	}

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	client := mistral.NewClient(mistral.Config{
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		Timeout:     cfg.LLM.Timeout,
	}, logger)

	processor := pipeline.NewProcessor(
		document.NewExtractor(document.Config{}, logger),
		extract.NewExtractor(client, logger),
		risk.NewAnalyzer(client, logger),
		logger,
	)

	audits, err := audit.Open(ctx, cfg.Audit.DBPath, logger)
	if err != nil {
		logger.Error("open audit store", "error", err)
		os.Exit(1)
	}
	defer func() {
		if cerr := audits.Close(); cerr != nil {
			logger.Warn("close audit store", "error", cerr)
		}
	}()

	svc := server.NewService(processor, audits, cfg.Upload.Dir, logger)
	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: svc.Router(),
	}

	go func() {
		logger.Info("http serving", "addr", cfg.Server.Addr, "model", cfg.LLM.Model)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http serve", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, cancel := common.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", "error", err)
	}
	logger.Info("stopped")
}
