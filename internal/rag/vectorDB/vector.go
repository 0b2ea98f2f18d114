package vectorDB

import (
	"context"

	"github.com/akolanti/GoIndexer/internal/domain/commonModels"
)

// Index is a store of embedded chunks searchable by vector similarity.
type Index interface {
	Add(ctx context.Context, chunks []commonModels.Chunk, vectors [][]float32) error
	Search(ctx context.Context, vector []float32, k int) ([]commonModels.ScoredChunk, error)
}

// PersistentIndex is an Index whose contents can be written to disk and
// reloaded later. Remote backends keep their own durability and only
// implement Index.
type PersistentIndex interface {
	Index
	Persist(dir string) error
}
