package csvx

import (
	"bytes"
	"context"
	"encoding/csv"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/sopsearch-cli/internal/core/domain"
	"github.com/custodia-labs/sopsearch-cli/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.SectionExtractor = (*Extractor)(nil)

// Extractor handles tabular documents (CSV).
// Tabular files never produce sections; depending on the filename
// they produce glossary pairs (en/ar/market columns) or cuisine tag
// definitions (tag/type/keywords columns, keywords split on commas).
type Extractor struct{}

// New creates a new CSV extractor.
func New() *Extractor {
	return &Extractor{}
}

// SupportedExtensions returns the file extensions this extractor handles.
func (e *Extractor) SupportedExtensions() []string {
	return []string{".csv"}
}

// Extract routes a tabular file to glossary or tag output.
func (e *Extractor) Extract(_ context.Context, raw *driven.RawDocument) (*driven.ExtractResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	records, err := csv.NewReader(bytes.NewReader(raw.Content)).ReadAll()
	if err != nil {
		return nil, domain.ErrInvalidInput
	}
	if len(records) < 2 {
		// Header only, or empty: nothing to extract.
		return &driven.ExtractResult{}, nil
	}

	name := strings.ToLower(filepath.Base(raw.Path))
	switch {
	case strings.Contains(name, "glossary"):
		return &driven.ExtractResult{Glossary: parseGlossary(records)}, nil
	case strings.Contains(name, "tag") || strings.Contains(name, "cuisine"):
		return &driven.ExtractResult{Tags: parseTags(records)}, nil
	default:
		return nil, domain.ErrUnsupportedType
	}
}

// columnIndex finds a header column by any of its accepted names,
// case-insensitively. Returns -1 when absent.
func columnIndex(header []string, names ...string) int {
	for i, col := range header {
		col = strings.ToLower(strings.TrimSpace(col))
		for _, name := range names {
			if col == name {
				return i
			}
		}
	}
	return -1
}

// cell returns the trimmed value at index, or "" when out of range.
func cell(record []string, index int) string {
	if index < 0 || index >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[index])
}

// parseGlossary reads en/ar/market rows into a per-market glossary.
func parseGlossary(records [][]string) domain.Glossary {
	header := records[0]
	enIdx := columnIndex(header, "en", "english")
	arIdx := columnIndex(header, "ar", "arabic")
	marketIdx := columnIndex(header, "market")
	if enIdx < 0 || arIdx < 0 {
		return nil
	}

	glossary := make(domain.Glossary)
	for _, record := range records[1:] {
		en := cell(record, enIdx)
		ar := cell(record, arIdx)
		if en == "" || ar == "" {
			continue
		}
		market := domain.ParseMarket(cell(record, marketIdx))
		glossary[market] = append(glossary[market], domain.GlossaryEntry{En: en, Ar: ar})
	}

	if len(glossary) == 0 {
		return nil
	}
	return glossary
}

// parseTags reads tag/keywords rows into ordered tag definitions.
func parseTags(records [][]string) []domain.TagDefinition {
	header := records[0]
	tagIdx := columnIndex(header, "tag", "type")
	keywordsIdx := columnIndex(header, "keywords")
	if tagIdx < 0 || keywordsIdx < 0 {
		return nil
	}

	var tags []domain.TagDefinition
	for _, record := range records[1:] {
		tag := cell(record, tagIdx)
		if tag == "" {
			continue
		}

		var keywords []string
		for _, kw := range strings.Split(cell(record, keywordsIdx), ",") {
			if kw = strings.TrimSpace(kw); kw != "" {
				keywords = append(keywords, kw)
			}
		}

		tags = append(tags, domain.TagDefinition{Tag: tag, Keywords: keywords})
	}

	return tags
}
