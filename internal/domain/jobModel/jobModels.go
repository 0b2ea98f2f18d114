package jobModel

import (
	"context"
	"time"

	"github.com/akolanti/GoIndexer/internal/domain/commonModels"
)

type JobStatus string
type InternalStatus string

type JobType string

const (
	JobStatusQueued   JobStatus = "QUEUED"
	JobStatusRunning  JobStatus = "RUNNING"
	JobStatusComplete JobStatus = "COMPLETE"
	JobStatusError    JobStatus = "Error"

	QueryInit        InternalStatus = "Init"
	EmbeddingAPICall InternalStatus = "EmbeddingAPI"
	VectorDBCall     InternalStatus = "VectorDB"

	IngestInit       InternalStatus = "IngestInit"
	IngestProcessing InternalStatus = "IngestProcessing"
	IndexWrite       InternalStatus = "IndexWrite"
	Error            InternalStatus = "Error"

	Complete InternalStatus = "Complete"

	JobTypeQuery  JobType = "Query"
	JobTypeIngest JobType = "Ingest"
)

type Job struct {
	Id          string         `json:"id"`
	TraceId     string         `json:"trace_id"`
	JobType     JobType        `json:"job_type"`
	JobPayload  JobPayload     `json:"job_payload"`
	Error       JobError       `json:"error,omitempty"`
	CreatedTime time.Time      `json:"created_time"`
	EndTime     time.Time      `json:"end_time,omitempty"`
	Status      JobStatus      `json:"status"`
	CurrentStep InternalStatus `json:"current_step"`
}

type JobError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Retry   bool   `json:"retry"`
}

// Match is one ranked search hit with its provenance metadata.
type Match struct {
	Text          string  `json:"content"`
	SourceId      string  `json:"source_id"`
	SequenceIndex int     `json:"sequence_index"`
	CharStart     int     `json:"char_start"`
	CharEnd       int     `json:"char_end"`
	Score         float64 `json:"score"`
}

type JobPayload struct {
	//query jobs
	Question string  `json:"question,omitempty"`
	TopK     int     `json:"top_k,omitempty"`
	Matches  []Match `json:"matches,omitempty"`

	//ingest jobs
	IngestFileName string                    `json:"ingest_file_name,omitempty"`
	IngestSource   string                    `json:"ingest_source,omitempty"` //temp file path or URL
	Report         *commonModels.BuildReport `json:"report,omitempty"`
}

type JobStore interface {
	GetJob(ctx context.Context, jobId string) (Job, bool)
	SaveJob(ctx context.Context, job Job) error
	DeleteJob(ctx context.Context, jobID string)
}
