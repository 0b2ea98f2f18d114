package googleEmbedding

import (
	"fmt"

	"github.com/akolanti/GoIndexer/pkg/logger_i"
	"google.golang.org/genai"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func getContent(chunks []string) []*genai.Content {
	contentsToSend := make([]*genai.Content, 0, len(chunks))

	for _, chunk := range chunks {
		contentsToSend = append(contentsToSend, &genai.Content{
			Parts: []*genai.Part{{Text: chunk}},
		})
	}
	return contentsToSend
}

func doRetry(err error, log *logger_i.Logger) bool {
	if s, ok := status.FromError(err); ok {
		switch s.Code() {
		case codes.ResourceExhausted:
			log.Warn("Rate limit hit!", "error", err)
			return true
		case codes.Unavailable, codes.DeadlineExceeded:
			log.Warn("Transient Google API failure", "error", err)
			return true
		}
	}
	return false
}

func errMisaligned(want, got int) error {
	return fmt.Errorf("embedding response returned %d vectors for %d inputs", got, want)
}
