package pipelineErrors

import (
	"errors"
	"fmt"
)

// Sentinel classes for the ingestion pipeline. Callers match with errors.Is,
// so wrapped causes stay inspectable.
var (
	//ErrLoad - a source could not be read (missing file, unsupported format,
	//network failure, empty content). Fatal for that document only.
	ErrLoad = errors.New("load error")

	//ErrConfig - invalid chunking configuration. Fatal before any processing.
	ErrConfig = errors.New("config error")

	//ErrEmbedding - the external embedding service failed after bounded
	//retries, returned a misaligned batch, or changed vector dimension.
	ErrEmbedding = errors.New("embedding error")

	//ErrCorruptIndex - a persisted index directory is missing files, truncated
	//or internally inconsistent. Never auto-repaired.
	ErrCorruptIndex = errors.New("corrupt index")
)

func LoadError(sourceId string, cause error) error {
	return fmt.Errorf("%w: source %q: %w", ErrLoad, sourceId, cause)
}

func ConfigError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConfig, fmt.Sprintf(format, args...))
}

func EmbeddingError(cause error) error {
	return fmt.Errorf("%w: %w", ErrEmbedding, cause)
}

func CorruptIndexError(dir string, cause error) error {
	return fmt.Errorf("%w: directory %q: %w", ErrCorruptIndex, dir, cause)
}
