package loader

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lu4p/cat"

	"github.com/akolanti/GoIndexer/internal/customHttpClient"
	"github.com/akolanti/GoIndexer/internal/domain/commonModels"
	"github.com/akolanti/GoIndexer/internal/domain/pipelineErrors"
	"github.com/akolanti/GoIndexer/pkg/logger_i"
)

// Loader turns a document reference (local file path or URL) into a Document
// with its full extracted text. Every failure mode - missing file, unsupported
// format, network failure, empty content - comes back as a LoadError so the
// pipeline can skip the document and move on.
type Loader struct {
	logger *logger_i.Logger
}

func New() *Loader {
	return &Loader{logger: logger_i.NewLogger("Loader")}
}

func (l *Loader) Load(ctx context.Context, ref string) (commonModels.Document, error) {
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return l.loadWebPage(ctx, ref)
	}
	return l.loadFile(ref)
}

func (l *Loader) loadFile(path string) (commonModels.Document, error) {
	if _, err := os.Stat(path); err != nil {
		l.logger.Error("File not accessible", "path", path, "error", err)
		return commonModels.Document{}, pipelineErrors.LoadError(path, err)
	}

	docType := getDocType(path)
	l.logger.Debug("Loading document", "path", path, "type", docType)

	var text string
	var pageCount int
	var err error

	switch docType {
	case commonModels.PDF:
		text, pageCount, err = l.extractPDF(path)
	case commonModels.DOCX:
		text, err = cat.File(path)
	default:
		err = fmt.Errorf("unsupported file extension %q", filepath.Ext(path))
	}
	if err != nil {
		return commonModels.Document{}, pipelineErrors.LoadError(path, err)
	}

	if strings.TrimSpace(text) == "" {
		return commonModels.Document{}, pipelineErrors.LoadError(path, errors.New("document produced no text"))
	}

	l.logger.Debug("Loaded document", "path", path, "characters", len(text), "pages", pageCount)
	return commonModels.Document{
		SourceId:  path,
		RawText:   text,
		PageCount: pageCount,
		LoadedAt:  time.Now(),
		DocType:   docType,
	}, nil
}

func getDocType(path string) commonModels.DocType {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return commonModels.PDF
	case ".docx", ".txt", ".rtf", ".odt":
		return commonModels.DOCX
	default:
		return commonModels.ERR
	}
}

// pooledClient is shared by all loaders so outbound fetches reuse connections.
var pooledClient = customHttpClient.New()
