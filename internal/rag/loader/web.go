package loader

import (
	"context"
	"errors"
	"fmt"
	"html"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/akolanti/GoIndexer/internal/config"
	"github.com/akolanti/GoIndexer/internal/domain/commonModels"
	"github.com/akolanti/GoIndexer/internal/domain/pipelineErrors"
)

// loadWebPage fetches a page and keeps only its visible text. The URL itself
// stays as the SourceId so retrieved chunks can point back to it. Transient
// failures (network errors, 5xx) are retried a bounded number of times; client
// errors are not.
func (l *Loader) loadWebPage(ctx context.Context, url string) (commonModels.Document, error) {
	body, err := l.fetchWithRetries(ctx, url)
	if err != nil {
		return commonModels.Document{}, pipelineErrors.LoadError(url, err)
	}

	text := cleanHTML(body)
	if text == "" {
		return commonModels.Document{}, pipelineErrors.LoadError(url, errors.New("page produced no visible text"))
	}

	l.logger.Debug("Fetched page", "url", url, "characters", len(text))
	return commonModels.Document{
		SourceId: url,
		RawText:  text,
		LoadedAt: time.Now(),
		DocType:  commonModels.WEB,
	}, nil
}

func (l *Loader) fetchWithRetries(ctx context.Context, url string) (string, error) {
	var lastErr error
	for attempt := 1; attempt <= config.LoaderMaxRetries; attempt++ {
		body, retryable, err := l.fetchOnce(ctx, url)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if !retryable {
			break
		}
		l.logger.Warn("Fetch failed, will retry", "url", url, "attempt", attempt, "error", err)

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(config.LoaderRetryBackoff):
		}
	}
	return "", lastErr
}

func (l *Loader) fetchOnce(ctx context.Context, url string) (body string, retryable bool, err error) {
	reqCtx, cancel := context.WithTimeout(ctx, config.LoaderHTTPTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
	if err != nil {
		return "", false, err
	}
	req.Header.Set("User-Agent", config.LoaderUserAgent)

	resp, err := pooledClient.Do(req)
	if err != nil {
		return "", true, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return "", true, fmt.Errorf("server error: %s", resp.Status)
	}
	if resp.StatusCode != http.StatusOK {
		return "", false, fmt.Errorf("unexpected status: %s", resp.Status)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", true, err
	}
	return string(raw), false, nil
}

// Pre-compiled expressions for HTML stripping. Script/style/nav/header/footer
// subtrees are boilerplate and get dropped wholesale before tags are removed.
var (
	scriptTag     = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	styleTag      = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	noscriptTag   = regexp.MustCompile(`(?is)<noscript[^>]*>.*?</noscript>`)
	navTag        = regexp.MustCompile(`(?is)<nav[^>]*>.*?</nav>`)
	headerTag     = regexp.MustCompile(`(?is)<header[^>]*>.*?</header>`)
	footerTag     = regexp.MustCompile(`(?is)<footer[^>]*>.*?</footer>`)
	htmlComments  = regexp.MustCompile(`(?s)<!--.*?-->`)
	blockElements = regexp.MustCompile(`(?i)</?(p|div|br|hr|h[1-6]|li|tr|blockquote|pre|table|section|article)[^>]*>`)
	allTags       = regexp.MustCompile(`<[^>]+>`)
	multiSpaces   = regexp.MustCompile(`[ \t]+`)
)

// cleanHTML strips markup and collapses whitespace, keeping one line per text
// block. Lines shorter than 3 characters are dropped - they are almost always
// leftover navigation fragments.
func cleanHTML(content string) string {
	content = scriptTag.ReplaceAllString(content, "")
	content = styleTag.ReplaceAllString(content, "")
	content = noscriptTag.ReplaceAllString(content, "")
	content = navTag.ReplaceAllString(content, "")
	content = headerTag.ReplaceAllString(content, "")
	content = footerTag.ReplaceAllString(content, "")
	content = htmlComments.ReplaceAllString(content, "")

	content = blockElements.ReplaceAllString(content, "\n")
	content = allTags.ReplaceAllString(content, "")
	content = html.UnescapeString(content)
	content = multiSpaces.ReplaceAllString(content, " ")

	var lines []string
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if len(line) < 3 {
			continue
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
