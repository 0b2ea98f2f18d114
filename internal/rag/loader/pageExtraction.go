package loader

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dslipak/pdf"

	"github.com/akolanti/GoIndexer/internal/config"
)

// extractPDF pulls text page by page and flattens it into one string. Page
// boundaries are not preserved; chunking runs over the flattened text. Pages
// that fail to parse are skipped, the rest of the document still loads.
func (l *Loader) extractPDF(path string) (string, int, error) {
	f, err := pdf.Open(path)
	if err != nil {
		return "", 0, fmt.Errorf("failed to open pdf: %w", err)
	}

	numPages := f.NumPage()
	l.logger.Debug("extractPDF", "path", path, "pages", numPages)

	var text strings.Builder
	extracted := 0
	for i := 1; i <= numPages; i++ {
		page := f.Page(i)
		if page.V.IsNull() {
			continue
		}

		content, err := protectExtract(page)
		if err != nil {
			l.logger.Error("Error parsing page content", "page", i, "error", err)
			continue
		}
		text.WriteString(content)
		text.WriteString("\n")
		extracted++
	}

	if extracted == 0 {
		return "", numPages, errors.New("no page yielded any text")
	}
	return text.String(), numPages, nil
}

// protectExtract guards against pdf pages that hang the parser: extraction
// runs in its own goroutine with a hard timeout.
func protectExtract(page pdf.Page) (string, error) {
	type result struct {
		content string
		err     error
	}
	resChan := make(chan result, 1)

	go func() {
		content, err := page.GetPlainText(nil)
		resChan <- result{content, err}
	}()
	select {
	case r := <-resChan:
		return r.content, r.err
	case <-time.After(config.PageExtractTimeout):
		return "", errors.New("page extraction timeout")
	}
}
