package openaiEmbedding

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/akolanti/GoIndexer/internal/config"
	"github.com/akolanti/GoIndexer/internal/customHttpClient"
	"github.com/akolanti/GoIndexer/internal/domain/pipelineErrors"
	"github.com/akolanti/GoIndexer/internal/rag/embedding"
	"github.com/akolanti/GoIndexer/pkg/logger_i"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

var logger *logger_i.Logger
var once sync.Once
var embeddingClient *client

type client struct {
	api   openai.Client
	model string
}

// GetOpenAIEmbeddingClient returns an Embedder backed by an OpenAI-compatible
// embeddings endpoint. With the default base URL this talks to a local Ollama
// instance, which accepts any api key.
func GetOpenAIEmbeddingClient(modelName string, baseURL string, apikey string) embedding.Embedder {
	once.Do(func() {
		logger = logger_i.NewLogger("openai_embedding")
		if modelName == "" {
			modelName = config.OpenAIEmbeddingModel
		}
		if baseURL == "" {
			baseURL = config.OpenAIEmbeddingBaseURL
		}
		api := openai.NewClient(
			option.WithAPIKey(apikey),
			option.WithBaseURL(baseURL),
			option.WithHTTPClient(customHttpClient.New()),
		)
		embeddingClient = &client{api: api, model: modelName}
		logger.Debug("OpenAI Embedding model name: " + modelName)
		logger.Info("OpenAI Embedding client created", "baseURL", baseURL)
	})

	if embeddingClient == nil {
		return nil
	}
	return &client{api: embeddingClient.api, model: embeddingClient.model}
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

	res, err := c.doCall(ctx, chunks)
	for attempt := 1; err != nil && attempt < config.EmbeddingMaxRetries; attempt++ {
		log.Warn("Retrying OpenAI embedding call", "attempt", attempt, "error", err.Error())
		select {
		case <-ctx.Done():
			return nil, pipelineErrors.EmbeddingError(ctx.Err())
		case <-time.After(config.EmbeddingRetryBackoff):
		}
		res, err = c.doCall(ctx, chunks)
	}
	if err != nil {
		log.Error("Error getting Embeddings from OpenAI endpoint", "error", err.Error())
		return nil, pipelineErrors.EmbeddingError(err)
	}

	if len(res.Data) != len(chunks) {
		log.Error("Embedding count does not match input count", "want", len(chunks), "got", len(res.Data))
		return nil, pipelineErrors.EmbeddingError(errMisaligned(len(chunks), len(res.Data)))
	}

	vectors := make([][]float32, len(chunks))
	for _, d := range res.Data {
		v := make([]float32, len(d.Embedding))
		for i, f := range d.Embedding {
			v[i] = float32(f)
		}
		vectors[d.Index] = v
	}
	return vectors, nil
}

func errMisaligned(want, got int) error {
	return fmt.Errorf("embedding response returned %d vectors for %d inputs", got, want)
}

func (c *client) doCall(ctx context.Context, chunks []string) (*openai.CreateEmbeddingResponse, error) {
	callCtx, cancel := context.WithTimeout(ctx, config.EmbeddingCallTimeout)
	defer cancel()

	return c.api.Embeddings.New(callCtx, openai.EmbeddingNewParams{
		Input: openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: chunks},
		Model: openai.EmbeddingModel(c.model),
	})
}
