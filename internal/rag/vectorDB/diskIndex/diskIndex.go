package diskIndex

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/akolanti/GoIndexer/internal/domain/commonModels"
	"github.com/akolanti/GoIndexer/internal/domain/pipelineErrors"
	"github.com/akolanti/GoIndexer/pkg/logger_i"
)

// Store is a flat in-memory vector index with disk persistence. Search is a
// brute force cosine similarity scan, which is fine for the corpus sizes a
// single handbook or catalog produces.
type Store struct {
	mu      sync.RWMutex
	dim     int
	chunks  []commonModels.Chunk
	vectors [][]float32
	logger  *logger_i.Logger
}

func New() *Store {
	return &Store{logger: logger_i.NewLogger("disk_index")}
}

func (s *Store) Add(ctx context.Context, chunks []commonModels.Chunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return pipelineErrors.EmbeddingError(fmt.Errorf("got %d chunks but %d vectors", len(chunks), len(vectors)))
	}
	if len(chunks) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.dim == 0 {
		s.dim = len(vectors[0])
	}
	for i, v := range vectors {
		if len(v) != s.dim {
			return pipelineErrors.EmbeddingError(fmt.Errorf("vector %d has dimension %d, index has %d", i, len(v), s.dim))
		}
	}

	s.chunks = append(s.chunks, chunks...)
	s.vectors = append(s.vectors, vectors...)
	s.logger.Debug("Added vectors to index", "count", len(chunks), "total", len(s.chunks))
	return nil
}

func (s *Store) Search(ctx context.Context, vector []float32, k int) ([]commonModels.ScoredChunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.vectors) == 0 {
		return nil, nil
	}
	if len(vector) != s.dim {
		return nil, pipelineErrors.EmbeddingError(fmt.Errorf("query vector has dimension %d, index has %d", len(vector), s.dim))
	}
	if k <= 0 || k > len(s.vectors) {
		k = len(s.vectors)
	}

	scored := make([]commonModels.ScoredChunk, len(s.vectors))
	for i, v := range s.vectors {
		scored[i] = commonModels.ScoredChunk{
			Chunk: s.chunks[i],
			Score: cosineSimilarity(vector, v),
		}
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	return scored[:k], nil
}

// Len reports the number of indexed chunks.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.chunks)
}

func cosineSimilarity(a, b []float32) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
