// Package assembler turns a ranked chunk list into the two answer
// artefacts: a short synthesized answer and a grounded context block
// for the optional external generation step.
package assembler

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/custodia-labs/sopsearch-cli/internal/core/domain"
)

// Default assembly parameters.
const (
	// DefaultTopK is how many ranked chunks feed the synthesized answer.
	DefaultTopK = 10

	// DefaultAnswerLines caps the distinct lines in the synthesized answer.
	DefaultAnswerLines = 3

	// DefaultSourceCount is how many chunks ground the generation prompt.
	DefaultSourceCount = 3

	// DefaultContextCap bounds each rendered context line's text.
	DefaultContextCap = 1200
)

// Assembler builds answers and grounded context from ranked chunks.
type Assembler struct {
	topK        int
	answerLines int
	sourceCount int
	contextCap  int
}

// Option configures the assembler.
type Option func(*Assembler)

// WithTopK sets how many ranked chunks feed the synthesized answer.
func WithTopK(k int) Option {
	return func(a *Assembler) {
		if k > 0 {
			a.topK = k
		}
	}
}

// WithContextCap sets the per-line character cap for context text.
func WithContextCap(n int) Option {
	return func(a *Assembler) {
		if n > 0 {
			a.contextCap = n
		}
	}
}

// New creates an assembler with the given options.
func New(opts ...Option) *Assembler {
	a := &Assembler{
		topK:        DefaultTopK,
		answerLines: DefaultAnswerLines,
		sourceCount: DefaultSourceCount,
		contextCap:  DefaultContextCap,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Synthesize builds the short answer from the top-ranked chunks:
// their texts are deduplicated by a normalised key and the first
// distinct lines are rendered as bullets in rank order. Running it
// twice on the same ranked list yields the same lines in the same
// order.
func (a *Assembler) Synthesize(ranked []domain.RankedChunk) string {
	seen := make(map[string]bool)
	var lines []string

	for i, rc := range ranked {
		if i >= a.topK || len(lines) >= a.answerLines {
			break
		}

		text := strings.TrimSpace(rc.Chunk.Text)
		if text == "" {
			continue
		}

		key := dedupKey(text)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		lines = append(lines, "• "+text)
	}

	return strings.Join(lines, "\n")
}

// Sources returns the chunks that ground the answer: the top ranked
// chunks regardless of dedup, at most DefaultSourceCount.
func (a *Assembler) Sources(ranked []domain.RankedChunk) []domain.KnowledgeChunk {
	n := a.sourceCount
	if n > len(ranked) {
		n = len(ranked)
	}

	sources := make([]domain.KnowledgeChunk, 0, n)
	for _, rc := range ranked[:n] {
		sources = append(sources, rc.Chunk)
	}
	return sources
}

// GroundedContext renders the source chunks as one context line each:
//
//	• <title> [<market>/<topic>]: <normalised text>
func (a *Assembler) GroundedContext(sources []domain.KnowledgeChunk) string {
	var lines []string
	for _, chunk := range sources {
		text := a.normalise(chunk.Text)
		if text == "" {
			continue
		}
		lines = append(lines, fmt.Sprintf("• %s [%s/%s]: %s",
			chunk.Title, chunk.Market, chunk.Topic, text))
	}
	return strings.Join(lines, "\n")
}

var (
	codeFencePattern = regexp.MustCompile("(?s)```[a-zA-Z]*\n?.*?```")
	// locationPattern strips embedded document locations: slide and
	// page numbers, and filenames with office-document extensions.
	locationPattern   = regexp.MustCompile(`(?i)\b(?:slide|page)\s+\d+\b|\(?\b[\w-]+\.(?:docx|pptx|xlsx|csv|pdf)\b\)?`)
	whitespacePattern = regexp.MustCompile(`\s+`)
	nonWordPattern    = regexp.MustCompile(`\W+`)
)

// normalise cleans one chunk's text for the grounded context block:
// code fences and location markers go, embedded structured data is
// flattened to its leaf text, whitespace collapses, and the result is
// truncated at the cap with an ellipsis.
func (a *Assembler) normalise(text string) string {
	text = codeFencePattern.ReplaceAllString(text, " ")
	text = locationPattern.ReplaceAllString(text, " ")
	text = flattenStructured(text)
	text = strings.TrimSpace(whitespacePattern.ReplaceAllString(text, " "))

	runes := []rune(text)
	if len(runes) > a.contextCap {
		text = string(runes[:a.contextCap]) + "…"
	}
	return text
}

// flattenStructured replaces text that is entirely a JSON document
// with its string leaves in deterministic order. Non-JSON text passes
// through unchanged.
func flattenStructured(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "{") && !strings.HasPrefix(trimmed, "[") {
		return text
	}

	var tree any
	if err := json.Unmarshal([]byte(trimmed), &tree); err != nil {
		return text
	}

	leaves := stringLeaves(tree)
	if len(leaves) == 0 {
		return ""
	}
	return strings.Join(leaves, " ")
}

// stringLeaves collects string leaves from a decoded JSON value,
// visiting object keys in sorted order for determinism.
func stringLeaves(v any) []string {
	switch val := v.(type) {
	case string:
		if s := strings.TrimSpace(val); s != "" {
			return []string{s}
		}
		return nil
	case []any:
		var leaves []string
		for _, item := range val {
			leaves = append(leaves, stringLeaves(item)...)
		}
		return leaves
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		var leaves []string
		for _, k := range keys {
			leaves = append(leaves, stringLeaves(val[k])...)
		}
		return leaves
	default:
		return nil
	}
}

// dedupKey normalises text for deduplication: lowercase, non-word
// runs collapsed to single spaces, trimmed.
func dedupKey(text string) string {
	return strings.TrimSpace(nonWordPattern.ReplaceAllString(strings.ToLower(text), " "))
}
