package rag_test

import (
	"context"

	"github.com/akolanti/GoIndexer/internal/domain/commonModels"
)

// MockIndex implements vectorDB.Index
type MockIndex struct {
	// Control fields to simulate different behaviors
	OnAdd    func(ctx context.Context, chunks []commonModels.Chunk, vectors [][]float32) error
	OnSearch func(ctx context.Context, vector []float32, k int) ([]commonModels.ScoredChunk, error)
}

func (m *MockIndex) Add(ctx context.Context, chunks []commonModels.Chunk, vectors [][]float32) error {
	if m.OnAdd != nil {
		return m.OnAdd(ctx, chunks, vectors)
	}
	return nil
}

func (m *MockIndex) Search(ctx context.Context, vector []float32, k int) ([]commonModels.ScoredChunk, error) {
	if m.OnSearch != nil {
		return m.OnSearch(ctx, vector, k)
	}
	return []commonModels.ScoredChunk{
		{Chunk: commonModels.Chunk{Text: "default match", SourceId: "default.pdf"}, Score: 0.9},
	}, nil
}

// MockPersistentIndex adds Persist on top of MockIndex, satisfying
// vectorDB.PersistentIndex.
type MockPersistentIndex struct {
	MockIndex
	OnPersist func(dir string) error
}

func (m *MockPersistentIndex) Persist(dir string) error {
	if m.OnPersist != nil {
		return m.OnPersist(dir)
	}
	return nil
}

type MockEmbedder struct {
	OnGetEmbedding   func(ctx context.Context, text string) ([]float32, error)
	OnBatchEmbedding func(ctx context.Context, chunks []string) ([][]float32, error)
}

func (m *MockEmbedder) GetEmbedding(ctx context.Context, text string) ([]float32, error) {
	if m.OnGetEmbedding != nil {
		return m.OnGetEmbedding(ctx, text)
	}
	return []float32{0.1, 0.2, 0.3}, nil
}

func (m *MockEmbedder) BatchEmbedding(ctx context.Context, chunks []string) ([][]float32, error) {
	if m.OnBatchEmbedding != nil {
		return m.OnBatchEmbedding(ctx, chunks)
	}
	out := make([][]float32, len(chunks))
	for i := range out {
		out[i] = []float32{0.1, 0.2, 0.3}
	}
	return out, nil
}

type MockLoader struct {
	OnLoad func(ctx context.Context, ref string) (commonModels.Document, error)
}

func (m *MockLoader) Load(ctx context.Context, ref string) (commonModels.Document, error) {
	if m.OnLoad != nil {
		return m.OnLoad(ctx, ref)
	}
	return commonModels.Document{SourceId: ref, RawText: "default document body", DocType: commonModels.PDF}, nil
}
