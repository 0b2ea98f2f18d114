package googleEmbedding

import (
	"context"
	"sync"
	"time"

	"github.com/akolanti/GoIndexer/internal/config"
	"github.com/akolanti/GoIndexer/internal/domain/pipelineErrors"
	"github.com/akolanti/GoIndexer/internal/rag/embedding"
	"github.com/akolanti/GoIndexer/pkg/logger_i"
	"google.golang.org/genai"
)

var logger *logger_i.Logger
var once sync.Once
var embeddingClient *client
var dimension int32 = config.EmbeddingOutputDimensionality

type client struct {
	genAi *genai.Client
	model string
}

func newGoogleEmbedder(ctx context.Context, modelName string, apikey string) {
	c, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apikey})
	if err != nil {
		logger.Error("Error creating Google Embedding client:", err)
	}
	if c != nil {
		embeddingClient = &client{
			genAi: c,
			model: modelName,
		}
		logger.Debug("Google Embedding model name: " + modelName)
		logger.Info("Google Embedding client created")
		go closeClient(ctx, embeddingClient)
	}
}

func closeClient(ctx context.Context, embeddingClient *client) {
	<-ctx.Done()
	logger.Info("Closing Google Embedding client")
	embeddingClient.genAi = nil
	embeddingClient.model = ""
}

func GetGoogleEmbeddingClient(ctx context.Context, modelName string, apikey string) embedding.Embedder {
	once.Do(func() {
		logger = logger_i.NewLogger("google_embedding")
		newGoogleEmbedder(ctx, modelName, apikey)
	})

	//if init still fails
	if embeddingClient == nil {
		return nil
	}
	return &client{genAi: embeddingClient.genAi, model: embeddingClient.model}
}

func (c *client) GetEmbedding(ctx context.Context, query string) ([]float32, error) {
	vectors, err := c.BatchEmbedding(ctx, []string{query})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

func (c *client) BatchEmbedding(ctx context.Context, chunks []string) ([][]float32, error) {
	log := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	res, err := c.doCall(ctx, getContent(chunks))
	for attempt := 1; err != nil && attempt < config.EmbeddingMaxRetries; attempt++ {
		if !doRetry(err, log) {
			break
		}
		log.Debug("Retrying Google embedding call", "attempt", attempt)
		select {
		case <-ctx.Done():
			return nil, pipelineErrors.EmbeddingError(ctx.Err())
		case <-time.After(config.EmbeddingRetryBackoff):
		}
		res, err = c.doCall(ctx, getContent(chunks))
	}
	if err != nil {
		log.Error("Error getting Embeddings from Google", "error", err.Error())
		return nil, pipelineErrors.EmbeddingError(err)
	}

	if len(res.Embeddings) != len(chunks) {
		log.Error("Embedding count does not match input count", "want", len(chunks), "got", len(res.Embeddings))
		return nil, pipelineErrors.EmbeddingError(errMisaligned(len(chunks), len(res.Embeddings)))
	}

	embeddingResults := make([][]float32, 0, len(res.Embeddings))
	for _, r := range res.Embeddings {
		embeddingResults = append(embeddingResults, r.Values)
	}
	return embeddingResults, nil
}

func (c *client) doCall(ctx context.Context, content []*genai.Content) (*genai.EmbedContentResponse, error) {
	callCtx, cancel := context.WithTimeout(ctx, config.EmbeddingCallTimeout)
	defer cancel()

	result, err := c.genAi.Models.EmbedContent(callCtx, c.model, content, &genai.EmbedContentConfig{OutputDimensionality: &dimension, TaskType: "RETRIEVAL_DOCUMENT"})
	return result, err
}
