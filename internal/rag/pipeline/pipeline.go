package pipeline

import (
	"context"

	"github.com/akolanti/GoIndexer/internal/config"
	"github.com/akolanti/GoIndexer/internal/domain/commonModels"
	"github.com/akolanti/GoIndexer/internal/rag/embedding"
	"github.com/akolanti/GoIndexer/internal/rag/vectorDB"
	"github.com/akolanti/GoIndexer/pkg/logger_i"
)

type DocumentLoader interface {
	Load(ctx context.Context, ref string) (commonModels.Document, error)
}

type TextSplitter interface {
	Split(doc commonModels.Document) []commonModels.Chunk
}

// Builder runs the load, split, embed, index sequence over a set of document
// references. One failing document never aborts the rest of the batch.
type Builder struct {
	loader    DocumentLoader
	splitter  TextSplitter
	embedder  embedding.Embedder
	index     vectorDB.Index
	batchSize int
	logger    *logger_i.Logger
}

func NewBuilder(loader DocumentLoader, splitter TextSplitter, embedder embedding.Embedder, index vectorDB.Index) *Builder {
	return &Builder{
		loader:    loader,
		splitter:  splitter,
		embedder:  embedder,
		index:     index,
		batchSize: config.EmbeddingBatchSize,
		logger:    logger_i.NewLogger("pipeline"),
	}
}

// Build processes every reference and reports per document outcomes. The
// returned error is non-nil only for infrastructure failures that make
// continuing pointless, never for individual document failures.
func (b *Builder) Build(ctx context.Context, refs []string) (commonModels.BuildReport, error) {
	log := b.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))
	var report commonModels.BuildReport

	for _, ref := range refs {
		select {
		case <-ctx.Done():
			return report, ctx.Err()
		default:
		}

		n, err := b.buildOne(ctx, ref)
		if err != nil {
			log.Warn("Document failed, continuing with the rest", "source", ref, "error", err.Error())
			report.Failed = append(report.Failed, commonModels.FailedSource{
				SourceId: ref,
				Reason:   err.Error(),
			})
			continue
		}
		report.Succeeded++
		report.ChunkCount += n
		log.Info("Document indexed", "source", ref, "chunks", n)
	}

	return report, nil
}

// buildOne embeds every chunk of the document before touching the index, so a
// mid-document embedding failure leaves nothing partially indexed.
func (b *Builder) buildOne(ctx context.Context, ref string) (int, error) {
	doc, err := b.loader.Load(ctx, ref)
	if err != nil {
		return 0, err
	}

	chunks := b.splitter.Split(doc)
	if len(chunks) == 0 {
		return 0, nil
	}

	vectors := make([][]float32, 0, len(chunks))
	for start := 0; start < len(chunks); start += b.batchSize {
		end := start + b.batchSize
		if end > len(chunks) {
			end = len(chunks)
		}

		texts := make([]string, 0, end-start)
		for _, c := range chunks[start:end] {
			texts = append(texts, c.Text)
		}

		batch, err := b.embedder.BatchEmbedding(ctx, texts)
		if err != nil {
			return 0, err
		}
		vectors = append(vectors, batch...)
	}

	if err := b.index.Add(ctx, chunks, vectors); err != nil {
		return 0, err
	}
	return len(chunks), nil
}
