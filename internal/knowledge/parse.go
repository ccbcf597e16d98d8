package knowledge

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"sort"
	"strings"

	"github.com/custodia-labs/sopsearch-cli/internal/classifier"
	"github.com/custodia-labs/sopsearch-cli/internal/core/domain"
)

// errUnparseable marks a collection file that matched none of the
// accepted shapes. The caller skips the file and continues.
var errUnparseable = errors.New("unparseable collection file")

// chunkRecord is the persisted chunk shape. Authors sometimes write
// the content under "body" instead of "text"; both are accepted.
type chunkRecord struct {
	Title  string `json:"title"`
	Market string `json:"market"`
	Topic  string `json:"topic"`
	Text   string `json:"text"`
	Body   string `json:"body"`
}

// parseCollection normalises one collection file into chunks.
//
// Three shapes are attempted in order, each validated, first success
// wins:
//  1. a list of chunk records (every element carries text or body)
//  2. a list of plain strings
//  3. an arbitrary JSON tree, flattened to its string leaves
func parseCollection(path string, data []byte) ([]domain.KnowledgeChunk, error) {
	filename := filepath.Base(path)

	if chunks, ok := parseRecordList(filename, data); ok {
		return chunks, nil
	}
	if chunks, ok := parseStringList(filename, data); ok {
		return chunks, nil
	}
	if chunks, ok := parseTree(filename, data); ok {
		return chunks, nil
	}
	return nil, errUnparseable
}

// parseRecordList attempts shape 1: an ordered list of chunk records.
func parseRecordList(filename string, data []byte) ([]domain.KnowledgeChunk, bool) {
	var records []chunkRecord
	if err := json.Unmarshal(data, &records); err != nil || len(records) == 0 {
		return nil, false
	}

	// Every record must carry content, otherwise this is some other
	// list-of-objects document and shape 3 should handle it.
	for _, r := range records {
		if strings.TrimSpace(r.Text) == "" && strings.TrimSpace(r.Body) == "" {
			return nil, false
		}
	}

	chunks := make([]domain.KnowledgeChunk, 0, len(records))
	for _, r := range records {
		text := strings.TrimSpace(r.Text)
		if text == "" {
			text = strings.TrimSpace(r.Body)
		}

		title := strings.TrimSpace(r.Title)
		if title == "" {
			title = filename
		}

		chunks = append(chunks, domain.KnowledgeChunk{
			Title:  title,
			Market: domain.ParseMarket(r.Market),
			Topic:  domain.ParseTopic(r.Topic),
			Text:   text,
		})
	}
	return chunks, true
}

// parseStringList attempts shape 2: an ordered list of plain strings.
// Each string becomes one chunk with inferred topic and ALL market.
func parseStringList(filename string, data []byte) ([]domain.KnowledgeChunk, bool) {
	var lines []string
	if err := json.Unmarshal(data, &lines); err != nil {
		return nil, false
	}

	var chunks []domain.KnowledgeChunk
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		chunks = append(chunks, domain.KnowledgeChunk{
			Title:  filename,
			Market: domain.MarketAll,
			Topic:  classifier.ClassifyTopic(filename, line),
			Text:   line,
		})
	}

	if len(chunks) == 0 {
		return nil, false
	}
	return chunks, true
}

// parseTree attempts shape 3: an arbitrary nested structure. All
// string leaves are collected in traversal order and joined into a
// single chunk for the file.
func parseTree(filename string, data []byte) ([]domain.KnowledgeChunk, bool) {
	var tree any
	if err := json.Unmarshal(data, &tree); err != nil {
		return nil, false
	}

	leaves := stringLeaves(tree)
	text := strings.TrimSpace(strings.Join(leaves, " "))
	if text == "" {
		return nil, false
	}

	topic, market := classifier.Classify(filename, text)
	return []domain.KnowledgeChunk{{
		Title:  filename,
		Market: market,
		Topic:  topic,
		Text:   text,
	}}, true
}

// stringLeaves walks a decoded JSON value collecting string leaves.
// Object keys are visited in sorted order so the result is
// deterministic regardless of map iteration.
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
