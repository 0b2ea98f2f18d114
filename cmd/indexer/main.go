// Command indexer builds a persisted vector index from documents and web
// pages in one shot, without going through the API server.
//
// Usage:
//
//	indexer -name knowledge handbook.pdf catalog.docx https://example.edu/admissions
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/akolanti/GoIndexer/internal/config"
	"github.com/akolanti/GoIndexer/internal/rag/chunker"
	"github.com/akolanti/GoIndexer/internal/rag/embedding"
	"github.com/akolanti/GoIndexer/internal/rag/embedding/googleEmbedding"
	"github.com/akolanti/GoIndexer/internal/rag/embedding/openaiEmbedding"
	"github.com/akolanti/GoIndexer/internal/rag/loader"
	"github.com/akolanti/GoIndexer/internal/rag/pipeline"
	"github.com/akolanti/GoIndexer/internal/rag/vectorDB/diskIndex"
	"github.com/akolanti/GoIndexer/pkg/logger_i"
)

var (
	indexName string
	outDir    string
	size      int
	overlap   int
)

func main() {
	logger_i.Init()
	logger := logger_i.NewLogger("indexer")

	flag.StringVar(&indexName, "name", config.DefaultIndexName, "name of the index to build")
	flag.StringVar(&outDir, "out", config.IndexRootDir, "root directory for persisted indexes")
	flag.IntVar(&size, "size", config.ChunkSize, "chunk size in characters")
	flag.IntVar(&overlap, "overlap", config.ChunkOverlap, "chunk overlap in characters")
	flag.Parse()

	sources := flag.Args()
	if len(sources) == 0 {
		fmt.Fprintln(os.Stderr, "usage: indexer [flags] <file-or-url> ...")
		flag.PrintDefaults()
		os.Exit(2)
	}

	split, err := chunker.New(size, overlap)
	if err != nil {
		logger.Error("Invalid chunking configuration", "error", err)
		os.Exit(2)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	embedder := selectEmbedder(ctx, logger)
	if embedder == nil {
		logger.Error("Embedding service failed to initialize")
		os.Exit(1)
	}

	index := diskIndex.New()
	builder := pipeline.NewBuilder(loader.New(), split, embedder, index)

	report, err := builder.Build(ctx, sources)
	if err != nil {
		logger.Error("Build aborted", "error", err)
		os.Exit(1)
	}

	for _, failed := range report.Failed {
		fmt.Fprintf(os.Stderr, "failed: %s: %s\n", failed.SourceId, failed.Reason)
	}
	fmt.Printf("indexed %d of %d sources, %d chunks\n", report.Succeeded, len(sources), report.ChunkCount)

	if report.AllFailed() {
		os.Exit(1)
	}

	target := filepath.Join(outDir, indexName)
	if err := index.Persist(target); err != nil {
		logger.Error("Could not persist index", "dir", target, "error", err)
		os.Exit(1)
	}
	fmt.Printf("index written to %s\n", target)
}

func selectEmbedder(ctx context.Context, logger *logger_i.Logger) embedding.Embedder {
	if key := os.Getenv("GOOGLE_API_KEY"); key != "" {
		logger.Info("Using Google embeddings")
		return googleEmbedding.GetGoogleEmbeddingClient(ctx, config.GoogleEmbeddingModel, key)
	}
	logger.Info("Using OpenAI-compatible embeddings", "baseURL", config.OpenAIEmbeddingBaseURL)
	return openaiEmbedding.GetOpenAIEmbeddingClient(config.OpenAIEmbeddingModel, config.OpenAIEmbeddingBaseURL, os.Getenv("OPENAI_API_KEY"))
}
