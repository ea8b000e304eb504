package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"

	medrag "github.com/supermax01/medrag"
	"github.com/supermax01/medrag/embedding"
	"github.com/supermax01/medrag/llm"
	"github.com/supermax01/medrag/readers"
	"github.com/supermax01/medrag/vecstore"
)

func buildGenerator(cfg *medrag.Config) medrag.Generator {
	opts := llm.Options{
		Model: cfg.Model.Name,
		System: "You are a medical assistant providing accurate information based on medical literature. " +
			"Your answers should be factual, precise, and based only on verified medical information.",
		Temperature:   cfg.Model.Temperature,
		MaxTokens:     cfg.Model.MaxTokens,
		TopK:          cfg.Model.TopK,
		TopP:          cfg.Model.TopP,
		RepeatPenalty: cfg.Model.RepeatPenalty,
	}
	timeout := time.Duration(cfg.Model.TimeoutMs) * time.Millisecond

	if cfg.Model.Provider == "openai" {
		return llm.NewOpenAICompat(cfg.Model.BaseURL, os.Getenv("OPENAI_API_KEY"), timeout, opts)
	}

	return llm.NewOllama(cfg.Model.BaseURL, timeout, opts)
}

func buildPipeline(ctx context.Context, cfg *medrag.Config, logger *slog.Logger, reset bool) (*medrag.Pipeline, error) {
	chunkifier, err := medrag.NewDefaultChunkifier(cfg.ChunkSize, cfg.ChunkOverlap)
	if err != nil {
		return nil, err
	}

	embedder, err := embedding.NewOllama(cfg.Embedding.BaseURL, cfg.Embedding.Model, cfg.Embedding.Dimension)
	if err != nil {
		return nil, err
	}

	store, err := vecstore.NewChromaStore(ctx, vecstore.ChromaStoreConfig{
		BaseURL:     cfg.Chroma.Addr,
		Collection:  cfg.Chroma.Collection,
		RequestSize: cfg.RequestSize,
		Reset:       reset,
	})
	if err != nil {
		return nil, err
	}

	loader := medrag.NewCorpusLoader(logger,
		&readers.PdfReader{},
		&readers.TextReader{},
		&readers.UniversalReader{})

	return medrag.NewPipeline(logger, loader, chunkifier, embedder, store, buildGenerator(cfg), cfg), nil
}

func askLoop(ctx context.Context, pipeline *medrag.Pipeline) {
	scanner := bufio.NewScanner(os.Stdin)
	fmt.Println("Ask a medical question (empty line to exit):")

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}

		question := strings.TrimSpace(scanner.Text())
		if question == "" {
			return
		}

		answer, err := pipeline.Ask(ctx, question)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %s\n", err)
			continue
		}

		fmt.Println(answer.Text)
		if len(answer.Sources) > 0 {
			fmt.Printf("sources: %s\n", strings.Join(answer.Sources, ", "))
		}
	}
}

func main() {
	reset := flag.Bool("reset", false, "Rebuild the vector index from scratch")
	serve := flag.Bool("serve", false, "Expose ask/ingest as MCP tools over SSE instead of the interactive prompt")
	cfgPath := flag.String("config", "cfg/config.yaml", "Configuration file")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := medrag.ReadConfig(*cfgPath)
	if err != nil {
		log.Fatal(err)
	}

	logFile, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0o644)
	if err != nil {
		log.Fatalf("failed to open log file: %s", err)
	}
	defer logFile.Close()

	logger := slog.New(slog.NewJSONHandler(logFile, nil))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pipeline, err := buildPipeline(ctx, cfg, logger, *reset)
	if err != nil {
		log.Fatal(err)
	}

	report, err := pipeline.Ingest(ctx, cfg.CorpusRoot)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("corpus ready: %d documents, %d segments indexed, %d skipped",
		report.DocumentsProcessed+report.DocumentsUnchanged, report.SegmentsIndexed, report.DocumentsSkipped)
	for _, w := range report.Warnings {
		log.Printf("warning: %s", w)
	}

	watcher := medrag.NewWatcher(logger, cfg.CorpusRoot,
		time.Duration(cfg.WriteDebounceMs)*time.Millisecond, pipeline)
	go func() {
		if err := watcher.Watch(ctx); err != nil && ctx.Err() == nil {
			log.Fatal(err)
		}
	}()

	if *serve {
		srv := medrag.NewRagServer(pipeline, cfg.CorpusRoot, logger)
		sse := server.NewSSEServer(srv, server.WithBaseURL(fmt.Sprintf("http://%s", cfg.ServerAddr)))
		log.Println(sse.Start(cfg.ServerAddr))
		return
	}

	askLoop(ctx, pipeline)
}
