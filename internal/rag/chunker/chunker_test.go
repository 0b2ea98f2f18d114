package chunker

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/akolanti/GoIndexer/internal/domain/commonModels"
	"github.com/akolanti/GoIndexer/internal/domain/pipelineErrors"
)

func doc(text string) commonModels.Document {
	return commonModels.Document{SourceId: "test-doc", RawText: text}
}

// reconstruct rebuilds the original text from chunk spans: the first chunk in
// full, then for every later chunk only the suffix past the previous end.
func reconstruct(chunks []commonModels.Chunk) string {
	if len(chunks) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(chunks[0].Text)
	prevEnd := chunks[0].CharEnd
	for _, ch := range chunks[1:] {
		b.WriteString(ch.Text[prevEnd-ch.CharStart:])
		prevEnd = ch.CharEnd
	}
	return b.String()
}

func TestNew_ConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		overlap int
		wantErr bool
	}{
		{"valid", 1000, 200, false},
		{"zero overlap", 100, 0, false},
		{"overlap equals size", 100, 100, true},
		{"overlap exceeds size", 100, 150, true},
		{"zero size", 0, 0, true},
		{"negative size", -5, 0, true},
		{"negative overlap", 100, -1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.size, tt.overlap)
			if tt.wantErr {
				if !errors.Is(err, pipelineErrors.ErrConfig) {
					t.Fatalf("New(%d, %d) err = %v; want ErrConfig", tt.size, tt.overlap, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("New(%d, %d) unexpected error: %v", tt.size, tt.overlap, err)
			}
		})
	}
}

func TestSplit_EmptyTextYieldsNoChunks(t *testing.T) {
	c, err := New(1000, 200)
	if err != nil {
		t.Fatal(err)
	}
	if chunks := c.Split(doc("")); len(chunks) != 0 {
		t.Errorf("expected zero chunks for empty text, got %d", len(chunks))
	}
}

func TestSplit_StrideScenario(t *testing.T) {
	// 2500 chars, S=1000, O=200: exactly 3 chunks at 0, 800, 1600, the last
	// one covering the 900-char remainder. No separators in the text, so no
	// boundary adjustment can kick in.
	c, err := New(1000, 200)
	if err != nil {
		t.Fatal(err)
	}
	chunks := c.Split(doc(strings.Repeat("x", 2500)))

	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}
	wantStarts := []int{0, 800, 1600}
	wantEnds := []int{1000, 1800, 2500}
	for i, ch := range chunks {
		if ch.CharStart != wantStarts[i] || ch.CharEnd != wantEnds[i] {
			t.Errorf("chunk %d span = [%d,%d); want [%d,%d)", i, ch.CharStart, ch.CharEnd, wantStarts[i], wantEnds[i])
		}
		if ch.SequenceIndex != i {
			t.Errorf("chunk %d SequenceIndex = %d", i, ch.SequenceIndex)
		}
	}
	if last := chunks[2]; len(last.Text) != 900 {
		t.Errorf("last chunk length = %d; want 900", len(last.Text))
	}
}

func TestSplit_TextShorterThanSize(t *testing.T) {
	c, _ := New(1000, 200)
	chunks := c.Split(doc("short text"))
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].Text != "short text" || chunks[0].CharStart != 0 || chunks[0].CharEnd != 10 {
		t.Errorf("unexpected chunk: %+v", chunks[0])
	}
}

func TestSplit_PrefersWordBoundary(t *testing.T) {
	// The raw cut at 20 would land inside "boundary"; the end should walk back
	// to just after the preceding space.
	c, err := New(20, 10)
	if err != nil {
		t.Fatal(err)
	}
	text := "alpha beta gamma boundary tail words here"
	chunks := c.Split(doc(text))

	first := chunks[0]
	if !strings.HasSuffix(first.Text, " ") {
		t.Errorf("first chunk %q should end just after a separator", first.Text)
	}
	if first.CharEnd >= 20 && !isSeparatorByte(text[first.CharEnd-1]) {
		t.Errorf("first chunk end %d not at a boundary", first.CharEnd)
	}
}

func TestSplit_NoBoundaryAdjustmentWithoutOverlap(t *testing.T) {
	// O=0 means no lookback budget: cuts are raw so no text can be dropped.
	c, err := New(10, 0)
	if err != nil {
		t.Fatal(err)
	}
	text := "abcdefgh ijklmnop qrstuvwx yz"
	chunks := c.Split(doc(text))

	for i, ch := range chunks {
		if i > 0 && ch.CharStart != chunks[i-1].CharEnd {
			t.Errorf("gap between chunk %d and %d", i-1, i)
		}
	}
	if got := reconstruct(chunks); got != text {
		t.Errorf("reconstruct = %q; want %q", got, text)
	}
}

func TestSplit_RoundTrip(t *testing.T) {
	texts := []string{
		"The quick brown fox jumps over the lazy dog. " + strings.Repeat("Lorem ipsum dolor sit amet, consectetur adipiscing elit. ", 40),
		strings.Repeat("paragraph one\n\nparagraph two\nline three ", 30),
		strings.Repeat("z", 3301),
		"tiny",
		strings.Repeat("word ", 500),
		strings.Repeat("第1章 введение and overview 第2章 ", 60),
		strings.Repeat("大学の入学案内は毎年更新されます。", 40),
	}
	configs := []struct{ size, overlap int }{
		{1000, 200},
		{100, 30},
		{50, 0},
		{64, 63},
	}

	for _, cfg := range configs {
		c, err := New(cfg.size, cfg.overlap)
		if err != nil {
			t.Fatal(err)
		}
		for _, text := range texts {
			chunks := c.Split(doc(text))

			if got := reconstruct(chunks); got != text {
				t.Errorf("S=%d O=%d: round trip failed for %d-char text", cfg.size, cfg.overlap, len(text))
			}
			for i, ch := range chunks {
				if ch.SequenceIndex != i {
					t.Errorf("S=%d O=%d: SequenceIndex %d at position %d", cfg.size, cfg.overlap, ch.SequenceIndex, i)
				}
				if ch.Text != text[ch.CharStart:ch.CharEnd] {
					t.Errorf("S=%d O=%d: chunk %d text does not match its span", cfg.size, cfg.overlap, i)
				}
				if i > 0 && ch.CharStart < chunks[i-1].CharStart {
					t.Errorf("S=%d O=%d: CharStart decreased at chunk %d", cfg.size, cfg.overlap, i)
				}
				if i > 0 && ch.CharStart > chunks[i-1].CharEnd {
					t.Errorf("S=%d O=%d: coverage gap before chunk %d", cfg.size, cfg.overlap, i)
				}
			}
		}
	}
}

func TestSplit_MultibyteTextKeepsRunesIntact(t *testing.T) {
	// No ASCII separators anywhere, so every cut is a hard cut. The byte
	// candidate start+size almost never lands on a rune boundary here.
	c, err := New(100, 20)
	if err != nil {
		t.Fatal(err)
	}
	text := strings.Repeat("大学の入学案内は毎年更新されます。", 40)
	chunks := c.Split(doc(text))

	if len(chunks) == 0 {
		t.Fatal("expected chunks for non-empty text")
	}
	for i, ch := range chunks {
		if !utf8.ValidString(ch.Text) {
			t.Errorf("chunk %d is not valid UTF-8: %q", i, ch.Text)
		}
		if ch.Text != text[ch.CharStart:ch.CharEnd] {
			t.Errorf("chunk %d text does not match its span", i)
		}
	}
	if got := reconstruct(chunks); got != text {
		t.Error("round trip failed for multibyte text")
	}
}

func TestSplit_Deterministic(t *testing.T) {
	c, err := New(100, 25)
	if err != nil {
		t.Fatal(err)
	}
	text := strings.Repeat("determinism is a property worth testing twice ", 60)

	first := c.Split(doc(text))
	second := c.Split(doc(text))

	if len(first) != len(second) {
		t.Fatalf("chunk counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		// ChunkId is a fresh uuid per run; everything else must match.
		if first[i].Text != second[i].Text ||
			first[i].CharStart != second[i].CharStart ||
			first[i].CharEnd != second[i].CharEnd ||
			first[i].SequenceIndex != second[i].SequenceIndex {
			t.Errorf("chunk %d differs between runs", i)
		}
	}
}
