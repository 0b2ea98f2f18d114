package rag

import (
	"context"
	"time"

	"github.com/akolanti/GoIndexer/internal/domain/jobModel"
	"github.com/akolanti/GoIndexer/internal/metrics"
	"github.com/akolanti/GoIndexer/internal/rag/embedding"
	"github.com/akolanti/GoIndexer/internal/rag/pipeline"
	"github.com/akolanti/GoIndexer/internal/rag/vectorDB"
	"github.com/akolanti/GoIndexer/pkg/logger_i"
)

// Service is the only surface the worker sees. It hides the embedder, the
// index backend and the ingestion pipeline behind two job-shaped operations.
type Service interface {
	ProcessQuery(ctx context.Context, job jobModel.Job) jobModel.Job
	IngestDocument(ctx context.Context, job jobModel.Job) jobModel.Job
}

type service struct {
	index    vectorDB.Index
	embedder embedding.Embedder
	builder  *pipeline.Builder
	indexDir string
	logger   *logger_i.Logger
}

// NewService constructor. indexDir is where a PersistentIndex gets flushed
// after each successful ingest; it is ignored for remote backends.
func NewService(index vectorDB.Index, em embedding.Embedder, builder *pipeline.Builder, indexDir string) Service {
	return &service{
		index:    index,
		embedder: em,
		builder:  builder,
		indexDir: indexDir,
		logger:   logger_i.NewLogger("RAG Service :"),
	}
}

func (s *service) ProcessQuery(ctx context.Context, jobt jobModel.Job) jobModel.Job {
	inMethodLogger := s.logger.With("traceId", jobt.TraceId, "JobId", jobt.Id)

	processContext, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	queryVector, err := s.executeEmbeddingStep(processContext, inMethodLogger, &jobt)
	if err != nil {
		return s.jobError(jobt, err, "EMBEDDING_FAILURE", true)
	}

	matches, err := s.executeVectorSearchStep(processContext, inMethodLogger, &jobt, queryVector)
	if err != nil {
		return s.jobError(jobt, err, "VECTOR_DB_FAILURE", true)
	}

	jobt.JobPayload.Matches = matches
	jobt.CurrentStep = jobModel.Complete
	return jobt
}

func (s *service) IngestDocument(ctx context.Context, jobt jobModel.Job) jobModel.Job {
	inMethodLogger := s.logger.With("traceId", jobt.TraceId, "JobId", jobt.Id)
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("document_ingestion", time.Since(start)) }()

	jobt = logOutput(jobt, jobModel.IngestProcessing, inMethodLogger)
	report, err := s.builder.Build(ctx, []string{jobt.JobPayload.IngestSource})
	if err != nil {
		return s.jobError(jobt, err, "INGESTION_FAILURE", true)
	}

	jobt.JobPayload.Report = &report
	metrics.CountIngestedDocuments(report.Succeeded, len(report.Failed))
	metrics.CountIndexedChunks(report.ChunkCount)

	if report.AllFailed() {
		return s.jobError(jobt, errorFromReport(report), "INGESTION_FAILURE", true)
	}

	jobt = logOutput(jobt, jobModel.IndexWrite, inMethodLogger)
	if persistent, ok := s.index.(vectorDB.PersistentIndex); ok {
		if err := persistent.Persist(s.indexDir); err != nil {
			return s.jobError(jobt, err, "INDEX_WRITE_FAILURE", true)
		}
	}

	jobt.CurrentStep = jobModel.Complete
	return jobt
}
