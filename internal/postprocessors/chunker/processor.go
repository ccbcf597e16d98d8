// Package chunker provides a sentence-bounded text chunking processor.
package chunker

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/custodia-labs/sopsearch-cli/internal/core/domain"
)

// DefaultSmartCap is the character cap for interactive (smart) ingestion.
const DefaultSmartCap = 700

// DefaultFullCap is the character cap for archival (full) ingestion.
const DefaultFullCap = 1400

// Processor splits classified sections into size-bounded chunks.
// Chunks never break mid-sentence: the cap is soft, and a single
// sentence longer than the cap is kept whole.
type Processor struct {
	cap int
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithCap sets the character cap per chunk.
func WithCap(n int) Option {
	return func(p *Processor) {
		if n > 0 {
			p.cap = n
		}
	}
}

// New creates a new chunker processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		cap: DefaultSmartCap,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// Cap returns the configured character cap.
func (p *Processor) Cap() int {
	return p.cap
}

// Process splits one classified section into one or more chunks.
// Sentences are accumulated into a buffer; when appending the next
// sentence would exceed the cap, the buffer is flushed as a chunk.
// When a section splits, every chunk's title carries a "(part N)"
// suffix in split order, N starting at 1.
func (p *Processor) Process(section domain.Section, topic domain.Topic, market domain.Market) []domain.KnowledgeChunk {
	text := strings.TrimSpace(section.Text)
	if text == "" {
		return nil
	}

	sentences := SplitSentences(text)

	var pieces []string
	var buf strings.Builder
	for _, sentence := range sentences {
		if buf.Len() > 0 && buf.Len()+1+len(sentence) > p.cap {
			pieces = append(pieces, buf.String())
			buf.Reset()
		}
		if buf.Len() > 0 {
			buf.WriteString(" ")
		}
		buf.WriteString(sentence)
	}
	if buf.Len() > 0 {
		pieces = append(pieces, buf.String())
	}

	chunks := make([]domain.KnowledgeChunk, 0, len(pieces))
	for i, piece := range pieces {
		title := section.Title
		if len(pieces) > 1 {
			title = fmt.Sprintf("%s (part %d)", section.Title, i+1)
		}
		chunks = append(chunks, domain.KnowledgeChunk{
			ID:     uuid.New().String(),
			Title:  title,
			Market: market,
			Topic:  topic,
			Text:   piece,
		})
	}

	return chunks
}

// SplitSentences splits text at sentence boundaries: terminal
// punctuation (. ! ?) followed by whitespace and a non-space rune.
// Each returned sentence keeps its trailing punctuation.
func SplitSentences(text string) []string {
	var sentences []string
	runes := []rune(text)

	start := 0
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r != '.' && r != '!' && r != '?' {
			continue
		}
		// Look past the punctuation for whitespace then a non-space.
		j := i + 1
		for j < len(runes) && isSpace(runes[j]) {
			j++
		}
		if j == i+1 || j >= len(runes) {
			continue
		}
		if s := strings.TrimSpace(string(runes[start : i+1])); s != "" {
			sentences = append(sentences, s)
		}
		start = j
		i = j - 1
	}

	if s := strings.TrimSpace(string(runes[start:])); s != "" {
		sentences = append(sentences, s)
	}

	return sentences
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}
