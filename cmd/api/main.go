// @title           Document Index API
// @version         1.0
// @description     This API handles asynchronous document ingestion and semantic search
// @termsOfService  http://swagger.io/terms/

// @contact.name    me lol
// @contact.url
// @contact.email

// @license.name    Apache 2.0
// @license.url     http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:3000
// @BasePath  /
// @schemes   http https
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/akolanti/GoIndexer/internal/config"
	"github.com/akolanti/GoIndexer/internal/data/store"
	jobmodel "github.com/akolanti/GoIndexer/internal/domain/jobModel"
	"github.com/akolanti/GoIndexer/internal/handlers"
	"github.com/akolanti/GoIndexer/internal/job"
	"github.com/akolanti/GoIndexer/internal/rag"
	"github.com/akolanti/GoIndexer/internal/rag/chunker"
	"github.com/akolanti/GoIndexer/internal/rag/embedding"
	"github.com/akolanti/GoIndexer/internal/rag/embedding/googleEmbedding"
	"github.com/akolanti/GoIndexer/internal/rag/embedding/openaiEmbedding"
	"github.com/akolanti/GoIndexer/internal/rag/loader"
	"github.com/akolanti/GoIndexer/internal/rag/pipeline"
	"github.com/akolanti/GoIndexer/internal/rag/vectorDB"
	"github.com/akolanti/GoIndexer/internal/rag/vectorDB/diskIndex"
	"github.com/akolanti/GoIndexer/internal/rag/vectorDB/qdrantDB"
	"github.com/akolanti/GoIndexer/internal/server"
	"github.com/akolanti/GoIndexer/internal/worker"
	"github.com/akolanti/GoIndexer/pkg/logger_i"
)

var (
	listenAddr        string
	indexDir          string
	requestCount      int64
	stopWorkerChannel chan bool
	workerWaitGroup   sync.WaitGroup
)

func main() {

	logger_i.Init()
	var logger = logger_i.NewLogger("main")

	//config
	flag.StringVar(&listenAddr, "listen-addr", config.ServerListenAddr, "server listen address")
	flag.StringVar(&indexDir, "index-dir", config.IndexRootDir+"/"+config.DefaultIndexName, "directory holding the persisted index")
	flag.Parse()

	//init buffered job channel
	jobChannel := make(chan jobmodel.Job, config.BufferLimit)
	dispatcherChannel := make(chan bool, 1)
	stopWorkerChannel = make(chan bool, 1)

	serviceContext, closeExternalServices := context.WithCancel(context.Background())
	defer closeExternalServices()

	//init job service and job store
	serviceConfig := job.ServiceConfig{
		JobChannel:        jobChannel,
		RequestCount:      requestCount,
		DispatcherChannel: dispatcherChannel,
		JobStore:          store.GetRedisJobStore(serviceContext),
	}
	logger.Info("Starting job service")

	if serviceConfig.JobStore == nil {
		logger.Error("Redis store is offline")
		serviceConfig.JobStore = store.InitInMemoryJobStore()
	}
	service := job.InitJobService(serviceConfig)

	index := selectIndex(serviceContext, logger)
	embeddingService := selectEmbedder(serviceContext, logger)

	if index == nil || embeddingService == nil {
		logger.Error("One or more external services failed to initialize. Shutting down.")
		logger.Debug("Available services : ", "Index", index != nil, "EmbeddingService", embeddingService != nil)
		return
	}

	split, err := chunker.New(config.ChunkSize, config.ChunkOverlap)
	if err != nil {
		logger.Error("Invalid chunking configuration", "error", err)
		return
	}

	builder := pipeline.NewBuilder(loader.New(), split, embeddingService, index)
	ragService := rag.NewService(index, embeddingService, builder, indexDir)

	handlers.InitJobHandler(service)

	//init worker pool
	worker.InitServices(service, ragService)
	worker.InitWorkerPool(stopWorkerChannel, &workerWaitGroup)

	//server handling
	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)
	stopExecution := make(chan bool, 1)

	shutdownParams := server.ShutdownParams{
		GracefulShutdown: gracefulShutdown,
		StopExecution:    stopExecution,
		WorkerStop:       stopWorkerChannel,
		Group:            &workerWaitGroup,
		CloseServices:    closeExternalServices,
	}
	go server.ShutDownHandler(shutdownParams)
	go server.CreateServer(listenAddr)

	<-stopExecution
	logger.Info("Server stopped")
}

// selectIndex prefers a qdrant server when QDRANT_HOST is set, otherwise it
// reopens the on-disk index, starting empty when none was persisted yet.
func selectIndex(ctx context.Context, logger *logger_i.Logger) vectorDB.Index {
	if os.Getenv("QDRANT_HOST") != "" {
		logger.Info("Using qdrant vector index")
		client := qdrantDB.GetQuadrantClient(ctx)
		if client == nil {
			return nil
		}
		return client
	}

	idx, err := diskIndex.Load(indexDir)
	if err != nil {
		if _, statErr := os.Stat(indexDir); statErr == nil {
			//the directory exists but fails verification, refuse to serve from it
			logger.Error("Persisted index is corrupt", "dir", indexDir, "error", err.Error())
			return nil
		}
		logger.Warn("No index on disk yet, starting empty", "dir", indexDir)
		return diskIndex.New()
	}
	logger.Info("Loaded persisted index", "dir", indexDir)
	return idx
}

// selectEmbedder prefers Google when a key is present, otherwise falls back
// to the OpenAI-compatible endpoint (a local Ollama by default).
func selectEmbedder(ctx context.Context, logger *logger_i.Logger) embedding.Embedder {
	if key := os.Getenv("GOOGLE_API_KEY"); key != "" {
		logger.Info("Using Google embeddings")
		return googleEmbedding.GetGoogleEmbeddingClient(ctx, config.GoogleEmbeddingModel, key)
	}
	logger.Info("Using OpenAI-compatible embeddings", "baseURL", config.OpenAIEmbeddingBaseURL)
	return openaiEmbedding.GetOpenAIEmbeddingClient(config.OpenAIEmbeddingModel, config.OpenAIEmbeddingBaseURL, os.Getenv("OPENAI_API_KEY"))
}
