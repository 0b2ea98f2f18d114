package rag

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/akolanti/GoIndexer/internal/config"
	"github.com/akolanti/GoIndexer/internal/domain/commonModels"
	"github.com/akolanti/GoIndexer/internal/domain/jobModel"
	"github.com/akolanti/GoIndexer/internal/metrics"
	"github.com/akolanti/GoIndexer/pkg/logger_i"
)

func logOutput(job jobModel.Job, status jobModel.InternalStatus, log *logger_i.Logger) jobModel.Job {
	job.CurrentStep = status
	log.Debug("job step", "Current Status", job.CurrentStep)
	return job
}

func (s *service) jobError(job jobModel.Job, err error, message string, canRetry bool) jobModel.Job {
	s.logger.Error(message, "error", err)

	job.Error = jobModel.JobError{
		Code:    http.StatusInternalServerError,
		Message: "Internal Server Error",
		Retry:   canRetry,
	}
	job.Status = jobModel.JobStatusError
	return job
}

func errorFromReport(report commonModels.BuildReport) error {
	if len(report.Failed) > 0 {
		return errors.New(report.Failed[0].Reason)
	}
	return errors.New("nothing was indexed")
}

func (s *service) executeEmbeddingStep(ctx context.Context, log *logger_i.Logger, job *jobModel.Job) ([]float32, error) {
	*job = logOutput(*job, jobModel.EmbeddingAPICall, log)

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("embedding", time.Since(start)) }()

	return s.embedder.GetEmbedding(ctx, job.JobPayload.Question)
}

func (s *service) executeVectorSearchStep(ctx context.Context, log *logger_i.Logger, job *jobModel.Job, queryVector []float32) ([]jobModel.Match, error) {
	*job = logOutput(*job, jobModel.VectorDBCall, log)

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("vector_search", time.Since(start)) }()

	k := job.JobPayload.TopK
	if k <= 0 {
		k = config.DefaultTopK
	}

	scored, err := s.index.Search(ctx, queryVector, k)
	if err != nil {
		return nil, err
	}

	matches := make([]jobModel.Match, 0, len(scored))
	for _, sc := range scored {
		matches = append(matches, jobModel.Match{
			Text:          sc.Chunk.Text,
			SourceId:      sc.Chunk.SourceId,
			SequenceIndex: sc.Chunk.SequenceIndex,
			CharStart:     sc.Chunk.CharStart,
			CharEnd:       sc.Chunk.CharEnd,
			Score:         sc.Score,
		})
	}
	return matches, nil
}
