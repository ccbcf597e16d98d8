package chunker

import (
	"fmt"
	"strings"
	"testing"

	"github.com/custodia-labs/sopsearch-cli/internal/core/domain"
)

func TestNew(t *testing.T) {
	t.Run("default cap", func(t *testing.T) {
		p := New()
		if p.cap != DefaultSmartCap {
			t.Errorf("expected cap %d, got %d", DefaultSmartCap, p.cap)
		}
	})

	t.Run("custom cap", func(t *testing.T) {
		p := New(WithCap(1200))
		if p.cap != 1200 {
			t.Errorf("expected cap 1200, got %d", p.cap)
		}
	})

	t.Run("zero cap ignored", func(t *testing.T) {
		p := New(WithCap(0))
		if p.cap != DefaultSmartCap {
			t.Errorf("expected default cap, got %d", p.cap)
		}
	})
}

func TestProcessor_Name(t *testing.T) {
	p := New()
	if p.Name() != "chunker" {
		t.Errorf("expected name 'chunker', got '%s'", p.Name())
	}
}

func TestProcess_EmptyText(t *testing.T) {
	p := New()
	chunks := p.Process(domain.Section{Title: "Empty", Text: "   "}, domain.TopicMisc, domain.MarketAll)
	if len(chunks) != 0 {
		t.Errorf("expected 0 chunks for empty text, got %d", len(chunks))
	}
}

func TestProcess_SmallSection(t *testing.T) {
	p := New(WithCap(200))
	section := domain.Section{
		Title: "Naming",
		Text:  "Item names must use Title Case. Avoid abbreviations.",
	}

	chunks := p.Process(section, domain.TopicWriting, domain.MarketAE)
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}

	if chunks[0].Title != "Naming" {
		t.Errorf("single chunk keeps the bare section title, got '%s'", chunks[0].Title)
	}
	if chunks[0].Topic != domain.TopicWriting {
		t.Errorf("expected topic writing, got %s", chunks[0].Topic)
	}
	if chunks[0].Market != domain.MarketAE {
		t.Errorf("expected market AE, got %s", chunks[0].Market)
	}
	if chunks[0].ID == "" {
		t.Error("expected chunk ID to be set")
	}
}

func TestProcess_SplitsAtCap(t *testing.T) {
	// ~3000 characters of distinct numbered sentences with a 1200 cap
	// should produce at least 3 ordered parts, each within the cap.
	var sb strings.Builder
	for i := 0; sb.Len() < 3000; i++ {
		fmt.Fprintf(&sb, "Rule number %d states that menu descriptions stay concise and factual. ", i)
	}
	original := strings.TrimSpace(sb.String())

	p := New(WithCap(1200))
	chunks := p.Process(domain.Section{Title: "Descriptions", Text: original}, domain.TopicWriting, domain.MarketAll)

	if len(chunks) < 3 {
		t.Fatalf("expected at least 3 chunks, got %d", len(chunks))
	}

	for i, chunk := range chunks {
		want := fmt.Sprintf("Descriptions (part %d)", i+1)
		if chunk.Title != want {
			t.Errorf("chunk %d: expected title '%s', got '%s'", i, want, chunk.Title)
		}
		if len(chunk.Text) > 1200 {
			t.Errorf("chunk %d exceeds cap: %d chars", i, len(chunk.Text))
		}
	}

	// Concatenation reconstructs the original sentence sequence.
	var parts []string
	for _, chunk := range chunks {
		parts = append(parts, chunk.Text)
	}
	joined := strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
	wantJoined := strings.Join(strings.Fields(original), " ")
	if joined != wantJoined {
		t.Error("concatenated chunks do not reconstruct the original text")
	}
}

func TestProcess_OversizedSentenceKeptWhole(t *testing.T) {
	long := "This single sentence runs far past the configured cap because it keeps going without terminal punctuation until well beyond the limit"
	p := New(WithCap(50))

	chunks := p.Process(domain.Section{Title: "Edge", Text: long}, domain.TopicMisc, domain.MarketAll)
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].Text != long {
		t.Error("oversized sentence must never be truncated")
	}
}

func TestProcess_UniqueIDs(t *testing.T) {
	p := New(WithCap(40))
	section := domain.Section{
		Title: "IDs",
		Text:  "First sentence goes here. Second sentence goes here. Third sentence goes here.",
	}

	chunks := p.Process(section, domain.TopicMisc, domain.MarketAll)
	seen := make(map[string]bool)
	for _, chunk := range chunks {
		if seen[chunk.ID] {
			t.Errorf("duplicate chunk ID: %s", chunk.ID)
		}
		seen[chunk.ID] = true
	}
}

func TestSplitSentences(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "basic boundaries",
			text: "One rule here. Another rule there! A question? Done",
			want: []string{"One rule here.", "Another rule there!", "A question?", "Done"},
		},
		{
			name: "no trailing whitespace means no boundary",
			text: "Version 1.2 applies everywhere.",
			want: []string{"Version 1.2 applies everywhere."},
		},
		{
			name: "trailing punctuation at end of text",
			text: "Only one sentence.",
			want: []string{"Only one sentence."},
		},
		{
			name: "newlines count as whitespace",
			text: "First line.\nSecond line.",
			want: []string{"First line.", "Second line."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitSentences(tt.text)
			if len(got) != len(tt.want) {
				t.Fatalf("expected %d sentences, got %d: %v", len(tt.want), len(got), got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("sentence %d: expected %q, got %q", i, tt.want[i], got[i])
				}
			}
		})
	}
}
