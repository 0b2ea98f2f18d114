package diskIndex

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/akolanti/GoIndexer/internal/domain/commonModels"
	"github.com/akolanti/GoIndexer/internal/domain/pipelineErrors"
)

func testChunks(n int) []commonModels.Chunk {
	chunks := make([]commonModels.Chunk, n)
	for i := range chunks {
		chunks[i] = commonModels.Chunk{
			ChunkId:       string(rune('a' + i)),
			Text:          "chunk text " + string(rune('a'+i)),
			SourceId:      "handbook.pdf",
			SequenceIndex: i,
			CharStart:     i * 10,
			CharEnd:       i*10 + 10,
		}
	}
	return chunks
}

func TestAdd_MisalignedInputs(t *testing.T) {
	s := New()
	err := s.Add(context.Background(), testChunks(2), [][]float32{{1, 0}})
	if !errors.Is(err, pipelineErrors.ErrEmbedding) {
		t.Fatalf("expected ErrEmbedding, got %v", err)
	}
}

func TestAdd_InconsistentDimension(t *testing.T) {
	s := New()
	if err := s.Add(context.Background(), testChunks(1), [][]float32{{1, 0, 0}}); err != nil {
		t.Fatal(err)
	}
	err := s.Add(context.Background(), testChunks(1), [][]float32{{1, 0}})
	if !errors.Is(err, pipelineErrors.ErrEmbedding) {
		t.Fatalf("expected ErrEmbedding for dimension change, got %v", err)
	}
}

func TestSearch_RanksByCosineSimilarity(t *testing.T) {
	s := New()
	vectors := [][]float32{
		{1, 0, 0},
		{0, 1, 0},
		{0.9, 0.1, 0},
	}
	if err := s.Add(context.Background(), testChunks(3), vectors); err != nil {
		t.Fatal(err)
	}

	got, err := s.Search(context.Background(), []float32{1, 0, 0}, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 results, got %d", len(got))
	}
	if got[0].Chunk.ChunkId != "a" {
		t.Errorf("top hit = %q; want the identical vector", got[0].Chunk.ChunkId)
	}
	if got[1].Chunk.ChunkId != "c" {
		t.Errorf("second hit = %q; want the near vector", got[1].Chunk.ChunkId)
	}
	if got[0].Score < got[1].Score {
		t.Errorf("scores not descending: %f < %f", got[0].Score, got[1].Score)
	}
}

func TestSearch_EmptyIndex(t *testing.T) {
	s := New()
	got, err := s.Search(context.Background(), []float32{1, 0}, 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no results, got %d", len(got))
	}
}

func TestSearch_KLargerThanIndex(t *testing.T) {
	s := New()
	if err := s.Add(context.Background(), testChunks(2), [][]float32{{1, 0}, {0, 1}}); err != nil {
		t.Fatal(err)
	}
	got, err := s.Search(context.Background(), []float32{1, 0}, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("expected all 2 results, got %d", len(got))
	}
}

func TestPersist_Reload_Search(t *testing.T) {
	dir := t.TempDir()

	s := New()
	vectors := [][]float32{
		{0.1, 0.9, 0.3},
		{0.8, 0.05, 0.2},
		{0.4, 0.4, 0.4},
	}
	if err := s.Add(context.Background(), testChunks(3), vectors); err != nil {
		t.Fatal(err)
	}
	if err := s.Persist(dir); err != nil {
		t.Fatalf("Persist failed: %v", err)
	}

	loaded, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Len() != 3 {
		t.Fatalf("loaded %d chunks, want 3", loaded.Len())
	}

	// A stored vector queried against the reloaded index must come back
	// as the top hit with the maximum cosine score.
	got, err := loaded.Search(context.Background(), vectors[1], 3)
	if err != nil {
		t.Fatal(err)
	}
	if got[0].Chunk.ChunkId != "b" {
		t.Errorf("top hit = %q; want b", got[0].Chunk.ChunkId)
	}
	if got[0].Score < 0.9999 {
		t.Errorf("self similarity = %f; want ~1", got[0].Score)
	}
	if got[0].Chunk.Text != "chunk text b" || got[0].Chunk.SourceId != "handbook.pdf" {
		t.Errorf("chunk metadata lost on reload: %+v", got[0].Chunk)
	}
}

func TestPersist_Reload_MultibyteTextUnchanged(t *testing.T) {
	dir := t.TempDir()

	// JSON encoding replaces invalid UTF-8 with U+FFFD, so texts must come
	// back byte for byte to prove nothing upstream handed us a broken rune.
	texts := []string{
		"大学の入学案内は毎年更新されます。",
		"Füllung und Prüfung",
		"специальность и кафедра",
	}
	chunks := make([]commonModels.Chunk, len(texts))
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		chunks[i] = commonModels.Chunk{
			ChunkId:       string(rune('a' + i)),
			Text:          text,
			SourceId:      "catalog.html",
			SequenceIndex: i,
		}
		vectors[i] = []float32{float32(i), 1, 0}
	}

	s := New()
	if err := s.Add(context.Background(), chunks, vectors); err != nil {
		t.Fatal(err)
	}
	if err := s.Persist(dir); err != nil {
		t.Fatal(err)
	}

	loaded, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	for i, want := range texts {
		if got := loaded.chunks[i].Text; got != want {
			t.Errorf("chunk %d text mutated through persist/load: got %q, want %q", i, got, want)
		}
	}
}

func TestLoad_MissingManifest(t *testing.T) {
	dir := t.TempDir()

	s := New()
	if err := s.Add(context.Background(), testChunks(1), [][]float32{{1, 0}}); err != nil {
		t.Fatal(err)
	}
	if err := s.Persist(dir); err != nil {
		t.Fatal(err)
	}
	if err := os.Remove(filepath.Join(dir, manifestFileName)); err != nil {
		t.Fatal(err)
	}

	_, err := Load(dir)
	if !errors.Is(err, pipelineErrors.ErrCorruptIndex) {
		t.Fatalf("expected ErrCorruptIndex, got %v", err)
	}
}

func TestLoad_TruncatedVectorFile(t *testing.T) {
	dir := t.TempDir()

	s := New()
	if err := s.Add(context.Background(), testChunks(2), [][]float32{{1, 0, 0}, {0, 1, 0}}); err != nil {
		t.Fatal(err)
	}
	if err := s.Persist(dir); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(dir, vectorFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data[:len(data)-4], 0o644); err != nil {
		t.Fatal(err)
	}

	_, err = Load(dir)
	if !errors.Is(err, pipelineErrors.ErrCorruptIndex) {
		t.Fatalf("expected ErrCorruptIndex for truncated vectors, got %v", err)
	}
}

func TestLoad_CountMismatch(t *testing.T) {
	dir := t.TempDir()

	s := New()
	if err := s.Add(context.Background(), testChunks(2), [][]float32{{1, 0}, {0, 1}}); err != nil {
		t.Fatal(err)
	}
	if err := s.Persist(dir); err != nil {
		t.Fatal(err)
	}

	// Drop a chunk record so metadata disagrees with the manifest.
	if err := os.WriteFile(filepath.Join(dir, metaFileName), []byte(`[{"chunk_id":"a"}]`), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := Load(dir)
	if !errors.Is(err, pipelineErrors.ErrCorruptIndex) {
		t.Fatalf("expected ErrCorruptIndex for count mismatch, got %v", err)
	}
}

func TestLoad_EmptyDir(t *testing.T) {
	_, err := Load(t.TempDir())
	if !errors.Is(err, pipelineErrors.ErrCorruptIndex) {
		t.Fatalf("expected ErrCorruptIndex for empty directory, got %v", err)
	}
}
