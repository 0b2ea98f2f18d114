package commonModels

import "time"

// Document is one loaded source unit: a local file or a fetched web page.
// Immutable once produced by the loader; discarded after chunking.
type Document struct {
	SourceId  string    `json:"source_id"` //file path or URL
	RawText   string    `json:"-"`
	PageCount int       `json:"page_count,omitempty"` //PDFs only
	LoadedAt  time.Time `json:"loaded_at"`
	DocType   DocType   `json:"doc_type"`
}

// Chunk is a contiguous span of a Document's raw text. CharStart/CharEnd are
// byte offsets into the parent text; SequenceIndex is zero-based per document.
type Chunk struct {
	ChunkId       string `json:"chunk_id"`
	Text          string `json:"content"`
	SourceId      string `json:"source_id"`
	SequenceIndex int    `json:"sequence_index"`
	CharStart     int    `json:"char_start"`
	CharEnd       int    `json:"char_end"`
}

// ScoredChunk is a search hit. Score is cosine similarity, higher is better.
type ScoredChunk struct {
	Chunk Chunk   `json:"chunk"`
	Score float64 `json:"score"`
}

// FailedSource records one document that could not be ingested.
type FailedSource struct {
	SourceId string `json:"source_id"`
	Reason   string `json:"reason"`
}

// BuildReport summarizes a multi-document build. Failures of single documents
// never abort the build; they end up here instead.
type BuildReport struct {
	Succeeded  int            `json:"succeeded"`
	ChunkCount int            `json:"chunk_count"`
	Failed     []FailedSource `json:"failed,omitempty"`
}

func (r BuildReport) AllFailed() bool {
	return r.Succeeded == 0 && len(r.Failed) > 0
}

type DocType string

var (
	PDF  DocType = "PDF"
	DOCX DocType = "DOCX"
	WEB  DocType = "WEB"
	ERR  DocType = "ERROR"
)
