// One-shot CLI: process a single invoice PDF and print the combined
// invoice + risk JSON to stdout. Useful for smoke tests without the HTTP
// layer.
package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/finguard-ai/finguard/internal/common"
	"github.com/finguard-ai/finguard/internal/document"
	"github.com/finguard-ai/finguard/internal/extract"
	"github.com/finguard-ai/finguard/internal/llm/mistral"
	"github.com/finguard-ai/finguard/internal/pipeline"
	"github.com/finguard-ai/finguard/internal/risk"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		logger.Info("no .env file found")
	}

	if len(os.Args) < 2 {
		logger.Error("usage: invoice <file.pdf>")
		os.Exit(2)
	}
	path := os.Args[1]

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := common.WithTimeout(context.Background(), 2*cfg.LLM.Timeout)
	defer cancel()

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

	result, err := processor.ProcessFile(ctx, path)
	if err != nil {
		logger.Error("process failed", "path", path, "error", err)
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		logger.Error("encode result", "error", err)
		os.Exit(1)
	}
}
