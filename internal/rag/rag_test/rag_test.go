package rag_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/akolanti/GoIndexer/internal/domain/commonModels"
	"github.com/akolanti/GoIndexer/internal/domain/jobModel"
	"github.com/akolanti/GoIndexer/internal/rag"
	"github.com/akolanti/GoIndexer/internal/rag/chunker"
	"github.com/akolanti/GoIndexer/internal/rag/pipeline"
)

func newService(t *testing.T, loader *MockLoader, embedder *MockEmbedder, index *MockIndex, indexDir string) rag.Service {
	t.Helper()
	split, err := chunker.New(100, 20)
	if err != nil {
		t.Fatal(err)
	}
	builder := pipeline.NewBuilder(loader, split, embedder, index)
	return rag.NewService(index, embedder, builder, indexDir)
}

func TestProcessQuery_Scenarios(t *testing.T) {
	tests := []struct {
		name           string
		setupMocks     func(e *MockEmbedder, v *MockIndex)
		expectedStep   jobModel.InternalStatus
		expectedStatus jobModel.JobStatus
		expectedText   string
		expectError    bool
	}{
		{
			name: "Success_Full_Flow",
			setupMocks: func(e *MockEmbedder, v *MockIndex) {
				v.OnSearch = func(ctx context.Context, vector []float32, k int) ([]commonModels.ScoredChunk, error) {
					return []commonModels.ScoredChunk{
						{Chunk: commonModels.Chunk{Text: "advising opens in March", SourceId: "handbook.pdf", SequenceIndex: 4}, Score: 0.87},
					}, nil
				}
			},
			expectedStep:   jobModel.Complete,
			expectedStatus: jobModel.JobStatusQueued,
			expectedText:   "advising opens in March",
		},
		{
			name: "Failure_Embedding",
			setupMocks: func(e *MockEmbedder, v *MockIndex) {
				e.OnGetEmbedding = func(ctx context.Context, text string) ([]float32, error) {
					return nil, errors.New("api limit")
				}
			},
			expectedStatus: jobModel.JobStatusError,
			expectError:    true,
		},
		{
			name: "Failure_Vector_Search",
			setupMocks: func(e *MockEmbedder, v *MockIndex) {
				v.OnSearch = func(ctx context.Context, vector []float32, k int) ([]commonModels.ScoredChunk, error) {
					return nil, errors.New("db timeout")
				}
			},
			expectedStatus: jobModel.JobStatusError,
			expectError:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mEmbed := &MockEmbedder{}
			mIndex := &MockIndex{}

			tt.setupMocks(mEmbed, mIndex)

			s := newService(t, &MockLoader{}, mEmbed, mIndex, t.TempDir())

			job := jobModel.Job{
				Id:      "test-job",
				TraceId: "test-trace",
				JobType: jobModel.JobTypeQuery,
				Status:  jobModel.JobStatusQueued,
				JobPayload: jobModel.JobPayload{
					Question: "when does advising open?",
				},
			}

			result := s.ProcessQuery(context.Background(), job)

			if result.Status != tt.expectedStatus {
				t.Errorf("Status got %v, want %v", result.Status, tt.expectedStatus)
			}

			if tt.expectedText != "" {
				if len(result.JobPayload.Matches) == 0 {
					t.Fatal("expected matches in the payload")
				}
				if result.JobPayload.Matches[0].Text != tt.expectedText {
					t.Errorf("Match got %s, want %s", result.JobPayload.Matches[0].Text, tt.expectedText)
				}
				if result.JobPayload.Matches[0].SourceId == "" {
					t.Error("match should carry its source")
				}
			}

			if tt.expectError && result.Error.Code != http.StatusInternalServerError {
				t.Errorf("Error Code got %d, want %d", result.Error.Code, http.StatusInternalServerError)
			}
		})
	}
}

func TestProcessQuery_TopKForwarded(t *testing.T) {
	var gotK int
	mIndex := &MockIndex{
		OnSearch: func(ctx context.Context, vector []float32, k int) ([]commonModels.ScoredChunk, error) {
			gotK = k
			return nil, nil
		},
	}

	s := newService(t, &MockLoader{}, &MockEmbedder{}, mIndex, t.TempDir())
	job := jobModel.Job{
		Id:         "test-job",
		JobType:    jobModel.JobTypeQuery,
		JobPayload: jobModel.JobPayload{Question: "q", TopK: 7},
	}

	s.ProcessQuery(context.Background(), job)
	if gotK != 7 {
		t.Errorf("Search received k=%d, want 7", gotK)
	}
}

func TestIngestDocument_SuccessBuildsReport(t *testing.T) {
	mIndex := &MockIndex{}
	s := newService(t, &MockLoader{}, &MockEmbedder{}, mIndex, t.TempDir())

	job := jobModel.Job{
		Id:      "ingest-job",
		JobType: jobModel.JobTypeIngest,
		Status:  jobModel.JobStatusQueued,
		JobPayload: jobModel.JobPayload{
			IngestFileName: "handbook.pdf",
			IngestSource:   "/tmp/upload-123.pdf",
		},
	}

	result := s.IngestDocument(context.Background(), job)

	if result.Status == jobModel.JobStatusError {
		t.Fatalf("ingest failed: %+v", result.Error)
	}
	if result.CurrentStep != jobModel.Complete {
		t.Errorf("CurrentStep = %v, want Complete", result.CurrentStep)
	}
	if result.JobPayload.Report == nil {
		t.Fatal("expected a build report on the payload")
	}
	if result.JobPayload.Report.Succeeded != 1 {
		t.Errorf("Succeeded = %d, want 1", result.JobPayload.Report.Succeeded)
	}
}

func TestIngestDocument_AllFailedIsJobError(t *testing.T) {
	loader := &MockLoader{
		OnLoad: func(ctx context.Context, ref string) (commonModels.Document, error) {
			return commonModels.Document{}, errors.New("file vanished")
		},
	}

	s := newService(t, loader, &MockEmbedder{}, &MockIndex{}, t.TempDir())
	job := jobModel.Job{
		Id:         "ingest-job",
		JobType:    jobModel.JobTypeIngest,
		JobPayload: jobModel.JobPayload{IngestSource: "/tmp/gone.pdf"},
	}

	result := s.IngestDocument(context.Background(), job)

	if result.Status != jobModel.JobStatusError {
		t.Errorf("Status = %v, want error", result.Status)
	}
	if result.JobPayload.Report == nil || !result.JobPayload.Report.AllFailed() {
		t.Errorf("expected an all-failed report, got %+v", result.JobPayload.Report)
	}
}

func TestIngestDocument_PersistsAfterSuccess(t *testing.T) {
	persisted := ""
	pIndex := &MockPersistentIndex{
		OnPersist: func(dir string) error {
			persisted = dir
			return nil
		},
	}

	split, err := chunker.New(100, 20)
	if err != nil {
		t.Fatal(err)
	}
	embedder := &MockEmbedder{}
	builder := pipeline.NewBuilder(&MockLoader{}, split, embedder, pIndex)
	s := rag.NewService(pIndex, embedder, builder, "indexes/knowledge")

	job := jobModel.Job{
		Id:         "ingest-job",
		JobType:    jobModel.JobTypeIngest,
		JobPayload: jobModel.JobPayload{IngestSource: "/tmp/upload.pdf"},
	}

	result := s.IngestDocument(context.Background(), job)
	if result.Status == jobModel.JobStatusError {
		t.Fatalf("ingest failed: %+v", result.Error)
	}
	if persisted != "indexes/knowledge" {
		t.Errorf("Persist called with %q, want indexes/knowledge", persisted)
	}
}

func TestIngestDocument_PersistFailureIsJobError(t *testing.T) {
	pIndex := &MockPersistentIndex{
		OnPersist: func(dir string) error {
			return errors.New("disk full")
		},
	}

	split, err := chunker.New(100, 20)
	if err != nil {
		t.Fatal(err)
	}
	embedder := &MockEmbedder{}
	builder := pipeline.NewBuilder(&MockLoader{}, split, embedder, pIndex)
	s := rag.NewService(pIndex, embedder, builder, t.TempDir())

	job := jobModel.Job{
		Id:         "ingest-job",
		JobType:    jobModel.JobTypeIngest,
		JobPayload: jobModel.JobPayload{IngestSource: "/tmp/upload.pdf"},
	}

	result := s.IngestDocument(context.Background(), job)
	if result.Status != jobModel.JobStatusError {
		t.Errorf("Status = %v, want error after Persist failure", result.Status)
	}
}
