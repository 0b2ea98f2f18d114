package chunker

import (
	"strings"
	"unicode/utf8"

	"github.com/akolanti/GoIndexer/internal/adapter/utils"
	"github.com/akolanti/GoIndexer/internal/config"
	"github.com/akolanti/GoIndexer/internal/domain/commonModels"
	"github.com/akolanti/GoIndexer/internal/domain/pipelineErrors"
)

// Separators ordered from "best" to "worst" for semantic meaning. The boundary
// walk prefers the largest separator found inside the lookback window.
var separators = []string{"\n\n", "\n", ". ", " ", "\t"}

// Chunker splits raw document text into overlapping chunks of at most Size
// bytes. Chunk starts advance by a fixed stride Size-Overlap, so consecutive
// chunks share Overlap bytes of context. When a cut would land inside a word,
// the end is walked backward to the nearest separator, but never further than
// the overlap - the spans always cover the whole text with no gaps, which is
// what makes the reconstruction in the tests exact. Cuts never land inside a
// multibyte rune, so every chunk is valid UTF-8 on valid UTF-8 input.
type Chunker struct {
	size     int
	overlap  int
	lookback int
}

func New(size, overlap int) (*Chunker, error) {
	if size <= 0 {
		return nil, pipelineErrors.ConfigError("chunk size must be positive, got %d", size)
	}
	if overlap < 0 {
		return nil, pipelineErrors.ConfigError("chunk overlap must not be negative, got %d", overlap)
	}
	if overlap >= size {
		return nil, pipelineErrors.ConfigError("chunk overlap %d must be smaller than chunk size %d", overlap, size)
	}
	//the walk may never cross back over the next chunk's start (lookback <=
	//overlap keeps coverage) nor the previous chunk's end (lookback <= stride
	//keeps ends monotonic)
	lookback := overlap
	if stride := size - overlap; lookback > stride {
		lookback = stride
	}
	if lookback > config.BoundaryLookback {
		lookback = config.BoundaryLookback
	}
	return &Chunker{size: size, overlap: overlap, lookback: lookback}, nil
}

// Split produces the ordered chunk sequence for one document. Empty text
// yields zero chunks. The output is fully determined by the text and the
// chunker configuration.
func (c *Chunker) Split(doc commonModels.Document) []commonModels.Chunk {
	text := doc.RawText
	if len(text) == 0 {
		return nil
	}

	stride := c.size - c.overlap
	var chunks []commonModels.Chunk
	prevEnd := 0

	for start := 0; start < len(text); {
		end := c.cut(text, start)
		if end < prevEnd {
			end = prevEnd //ends stay monotonic when rune alignment shortens a cut
		}
		chunks = append(chunks, commonModels.Chunk{
			ChunkId:       utils.GetNewUUID(),
			Text:          text[start:end],
			SourceId:      doc.SourceId,
			SequenceIndex: len(chunks),
			CharStart:     start,
			CharEnd:       end,
		})
		if end == len(text) {
			break
		}
		//the next start walks back to a rune boundary so multibyte text never
		//splits mid-rune; moving backward only grows the overlap. It must still
		//land inside the chunk just emitted, and past its start, so the spans
		//cover the text with no gaps; when the stride cannot honor both, the
		//start jumps to the current end, trading overlap for progress.
		next := alignToRuneStart(text, start+stride)
		if next <= start || next > end {
			next = end
		}
		prevEnd = end
		start = next
	}
	return chunks
}

// cut picks the end offset for a chunk starting at start. The raw candidate is
// start+size; if that lands strictly inside a word, the end walks backward to
// the best separator within the lookback window. The walk is capped at the
// overlap so the dropped tail is still covered by the next chunk.
func (c *Chunker) cut(text string, start int) int {
	end := start + c.size
	if end >= len(text) {
		return len(text)
	}
	//never cut through the middle of a rune, even when no separator helps
	if aligned := alignToRuneStart(text, end); aligned > start {
		end = aligned
	}
	if isSeparatorByte(text[end-1]) || isSeparatorByte(text[end]) {
		return end //cut falls on a word boundary already
	}

	look := c.lookback
	if look > end-start-1 {
		look = end - start - 1
	}
	if look <= 0 {
		return end
	}

	window := text[end-look : end]
	for _, sep := range separators {
		if i := strings.LastIndex(window, sep); i >= 0 {
			return end - look + i + len(sep)
		}
	}
	return end //no separator nearby, hard cut on a rune boundary
}

// alignToRuneStart walks an offset backward to the start of the rune it lands
// inside. Offsets at 0, len(text) or an ASCII byte are already aligned.
func alignToRuneStart(text string, i int) int {
	for i > 0 && i < len(text) && !utf8.RuneStart(text[i]) {
		i--
	}
	return i
}

func isSeparatorByte(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}
