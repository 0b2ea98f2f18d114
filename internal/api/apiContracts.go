package api

import "time"

type JobExternalStatus string

const (
	JobStatusError JobExternalStatus = "Error"
)

type JobResponse struct {
	Id        string            `json:"id" example:"job_cz109"`
	Result    Result            `json:"result"`
	Error     *JobOutgoingError `json:"error,omitempty"`
	StartTime time.Time         `json:"start_time"`
	EndTime   time.Time         `json:"end_time,omitempty"`
}

type JobOutgoingError struct {
	Code    int    `json:"code" example:"400"`
	Message string `json:"message" example:"Job not found"`
	Retry   bool   `json:"can_retry" example:"false"`
}

type Match struct {
	Content       string  `json:"content"`
	SourceId      string  `json:"source_id" example:"handbook.pdf"`
	SequenceIndex int     `json:"sequence_index" example:"4"`
	CharStart     int     `json:"char_start" example:"3200"`
	CharEnd       int     `json:"char_end" example:"4200"`
	Score         float64 `json:"score" example:"0.87"`
}

type SearchResponse struct {
	Question string  `json:"question"`
	Matches  []Match `json:"matches"`
}

type IngestReport struct {
	Succeeded  int            `json:"succeeded" example:"1"`
	ChunkCount int            `json:"chunk_count" example:"42"`
	Failed     []FailedSource `json:"failed,omitempty"`
}

type FailedSource struct {
	SourceId string `json:"source_id"`
	Reason   string `json:"reason"`
}

type Result struct {
	Status         string          `json:"status"`
	SearchResponse *SearchResponse `json:"search_response,omitempty"`
	IngestReport   *IngestReport   `json:"ingest_report,omitempty"`
}

type InitJobResponse struct {
	Id        string `json:"id"`
	StatusURL string `json:"status_url"`
}

// requests---------------------

type SearchRequest struct {
	Query string `json:"query" validate:"required"`
	TopK  int    `json:"top_k,omitempty"`
}

type IngestURLRequest struct {
	URL string `json:"url" validate:"required"`
}

type JobStatusRequest struct {
	JobId string `json:"job_id" validate:"required"`
}
