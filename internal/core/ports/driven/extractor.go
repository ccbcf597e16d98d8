package driven

import (
	"context"

	"github.com/custodia-labs/sopsearch-cli/internal/core/domain"
)

// SectionExtractor converts one raw document into extraction output.
// Each extractor handles specific file extensions (e.g., .docx, .pptx).
type SectionExtractor interface {
	// SupportedExtensions returns the lowercase file extensions this
	// extractor handles, including the leading dot.
	SupportedExtensions() []string

	// Extract converts a raw document into sections and, for tabular
	// documents, glossary entries or tag definitions.
	Extract(ctx context.Context, raw *RawDocument) (*ExtractResult, error)
}

// RawDocument is an unparsed document read from the source directory.
type RawDocument struct {
	// Path is the file path within the source directory.
	Path string

	// Content is the raw bytes.
	Content []byte
}

// ExtractResult contains the output of extraction.
// Outline and slide documents populate Sections; tabular documents
// populate Glossary or Tags instead.
type ExtractResult struct {
	// Sections are the ordered (title, text) units for chunking.
	Sections []domain.Section

	// Glossary holds bilingual term pairs grouped by market.
	Glossary domain.Glossary

	// Tags holds cuisine tag definitions.
	Tags []domain.TagDefinition
}
