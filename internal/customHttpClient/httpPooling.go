package customHttpClient

import (
	"net/http"

	"github.com/akolanti/GoIndexer/internal/config"
)

// One transport for all outbound calls (embedding service, web fetches) so
// connections get reused instead of re-dialed per request.
var customTransport = &http.Transport{
	MaxIdleConns:        config.MaxIdleConns,
	MaxIdleConnsPerHost: config.MaxIdleConnsPerHost,
	IdleConnTimeout:     config.IdleConnTimeout,
}

func New() *http.Client {
	return &http.Client{Transport: customTransport}
}
