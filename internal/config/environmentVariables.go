package config

import (
	"log/slog"
	"time"
)

const (
	IS_PROD        = false
	LOG_LEVEL_PROD = slog.LevelInfo
	TRACE_ID_KEY   = "traceId"

	//if redis init fails, job state falls back to an internal in-memory store
	FALLBACK_REDIS_TO_INTERNALSTORE = false

	RATE_LIMIT_PER_SECOND       = 2
	BURST_RATE_LIMIT_PER_SECOND = 5

	//auth
	NoAuthBypass = true
	AuthToken    = ""

	//chunking - same defaults the original handbook/catalog indexes used
	ChunkSize        = 1000
	ChunkOverlap     = 200
	BoundaryLookback = 100 //max backward walk when a cut lands inside a word

	//embeddings
	EmbeddingBatchSize                  = 100
	EmbeddingMaxRetries                 = 3
	EmbeddingRetryBackoff               = 5 * time.Second
	EmbeddingCallTimeout                = 30 * time.Second
	EmbeddingOutputDimensionality int32 = 768
	GoogleEmbeddingModel                = "gemini-embedding-001"
	OpenAIEmbeddingModel                = "nomic-embed-text"
	//any OpenAI-compatible endpoint works; default is a local Ollama server
	OpenAIEmbeddingBaseURL = "http://localhost:11434/v1"

	//index persistence
	IndexRootDir     = "indexes"
	DefaultIndexName = "knowledge"
	DefaultTopK      = 3

	//loader
	LoaderMaxRetries   = 3
	LoaderRetryBackoff = 2 * time.Second
	LoaderHTTPTimeout  = 10 * time.Second
	PageExtractTimeout = 10 * time.Second
	LoaderUserAgent    = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

	RequestsPerNewWorkerCount int64 = 10
	MaxWorkerCount            int64 = 10
	MinWorkerCount            int64 = 1
	IdleWorkerTimeout               = 1 * time.Minute
	JobExecutionTimeout             = 5 * time.Minute //ingest jobs embed whole documents

	//serverTimeouts
	ReadTimeout            = 5 * time.Second
	WriteTimeout           = 10 * time.Second
	IdleTimeout            = 120 * time.Second
	ShutdownContextTimeout = 10 * time.Second

	//server listening port
	ServerListenAddr = ":3000"

	//job requests buffer limit
	BufferLimit = 100

	//vectorDB (remote qdrant backend, used when QDRANT_HOST is set)
	QdrantConnectionTimeout = 30 * time.Second
	QdrantHost              = ""
	QdrantPort              = 6333 //http
	QdrantGrpcPort          = 6334
	QdrantUseTLS            = false
	QdrantPoolSize          = 1
	QdrantCollection        = "go-indexer"

	MaxIdleConns        = 50
	MaxIdleConnsPerHost = 25
	IdleConnTimeout     = 60 * time.Second

	//redis
	redisHost     = "127.0.0.1"
	redisPort     = "6379"
	RedisAddr     = redisHost + ":" + redisPort
	RedisPassword = ""

	RedisJobStore    = 0
	RedisJobStoreTTL = 24 * time.Hour
)
