package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/custodia-labs/sopsearch-cli/internal/classifier"
	"github.com/custodia-labs/sopsearch-cli/internal/core/domain"
	"github.com/custodia-labs/sopsearch-cli/internal/core/ports/driven"
	"github.com/custodia-labs/sopsearch-cli/internal/core/ports/driving"
	"github.com/custodia-labs/sopsearch-cli/internal/logger"
	"github.com/custodia-labs/sopsearch-cli/internal/postprocessors/chunker"
)

var _ driving.IngestService = (*IngestService)(nil)

// IngestService turns a directory of source documents into JSON
// knowledge collections, one file per topic.
type IngestService struct {
	extractors  map[string]driven.SectionExtractor
	capOverride int
}

// NewIngestService creates a new ingest service. Extractors are
// routed by file extension; a later extractor claiming an extension
// an earlier one already claims is ignored for that extension.
func NewIngestService(extractors ...driven.SectionExtractor) *IngestService {
	byExt := make(map[string]driven.SectionExtractor)
	for _, ex := range extractors {
		for _, ext := range ex.SupportedExtensions() {
			ext = strings.ToLower(ext)
			if _, taken := byExt[ext]; !taken {
				byExt[ext] = ex
			}
		}
	}
	return &IngestService{extractors: byExt}
}

// SetChunkCap overrides the mode's chunk character cap.
func (s *IngestService) SetChunkCap(n int) {
	if n > 0 {
		s.capOverride = n
	}
}

// chunkCap resolves the chunk character cap for a run.
func (s *IngestService) chunkCap(mode domain.IngestMode) int {
	if s.capOverride > 0 {
		return s.capOverride
	}
	if mode == domain.ModeFull {
		return chunker.DefaultFullCap
	}
	return chunker.DefaultSmartCap
}

// Ingest walks sourceDir, extracts and classifies every supported
// document, and writes per-topic collection files plus glossary and
// tag files into outDir. A file that fails extraction is logged and
// skipped; the run fails only when the source dir cannot be walked or
// the output cannot be written.
func (s *IngestService) Ingest(ctx context.Context, sourceDir, outDir string, mode domain.IngestMode) (*domain.IngestReport, error) {
	logger.Section("Knowledge Ingestion")
	logger.Info("Source: %s, output: %s, mode: %s", sourceDir, outDir, mode)

	proc := chunker.New(chunker.WithCap(s.chunkCap(mode)))
	report := &domain.IngestReport{ByTopic: make(map[domain.Topic]int)}
	byTopic := make(map[domain.Topic][]domain.KnowledgeChunk)
	glossary := make(domain.Glossary)
	var tags []domain.TagDefinition

	err := filepath.WalkDir(sourceDir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if entry.IsDir() {
			if strings.HasPrefix(entry.Name(), ".") && path != sourceDir {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(entry.Name(), ".") {
			return nil
		}

		report.FilesScanned++

		extractor, ok := s.extractors[strings.ToLower(filepath.Ext(entry.Name()))]
		if !ok {
			logger.Debug("Unsupported file type, skipping: %s", entry.Name())
			report.FilesSkipped++
			return nil
		}

		content, readErr := os.ReadFile(path)
		if readErr != nil {
			logger.Warn("Failed to read %s: %v", entry.Name(), readErr)
			report.FilesSkipped++
			return nil
		}

		result, exErr := extractor.Extract(ctx, &driven.RawDocument{Path: path, Content: content})
		if exErr != nil {
			logger.Warn("Failed to extract %s: %v", entry.Name(), exErr)
			report.FilesSkipped++
			return nil
		}
		report.FilesExtracted++

		for _, section := range result.Sections {
			topic, market := classifier.Classify(entry.Name(), section.Title+" "+section.Text)
			chunks := proc.Process(section, topic, market)
			byTopic[topic] = append(byTopic[topic], chunks...)
			report.ByTopic[topic] += len(chunks)
			report.Chunks += len(chunks)
		}
		for market, entries := range result.Glossary {
			glossary[market] = append(glossary[market], entries...)
			report.GlossaryEntries += len(entries)
		}
		tags = append(tags, result.Tags...)
		report.TagDefinitions += len(result.Tags)

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking source directory: %w", err)
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	for _, topic := range domain.Topics() {
		chunks := byTopic[topic]
		if len(chunks) == 0 {
			continue
		}
		sortChunks(chunks)
		name := string(topic) + ".json"
		if err := writeJSON(filepath.Join(outDir, name), chunks); err != nil {
			return nil, err
		}
		report.OutputFiles = append(report.OutputFiles, name)
		logger.Info("Wrote %s: %d chunks", name, len(chunks))
	}

	if len(glossary) > 0 {
		if err := writeJSON(filepath.Join(outDir, "glossary.json"), glossary); err != nil {
			return nil, err
		}
		report.OutputFiles = append(report.OutputFiles, "glossary.json")
		logger.Info("Wrote glossary.json: %d entries", report.GlossaryEntries)
	}
	// tags.json is taken by the tags-topic collection above, so the
	// definitions get their own file.
	if len(tags) > 0 {
		if err := writeJSON(filepath.Join(outDir, "tag_definitions.json"), tags); err != nil {
			return nil, err
		}
		report.OutputFiles = append(report.OutputFiles, "tag_definitions.json")
		logger.Info("Wrote tag_definitions.json: %d definitions", len(tags))
	}

	logger.Info("Ingestion complete: %d files scanned, %d extracted, %d skipped, %d chunks",
		report.FilesScanned, report.FilesExtracted, report.FilesSkipped, report.Chunks)

	return report, nil
}

// sortChunks orders a collection by market then title so ingest
// output is stable across runs.
func sortChunks(chunks []domain.KnowledgeChunk) {
	sort.SliceStable(chunks, func(i, j int) bool {
		if chunks[i].Market != chunks[j].Market {
			return chunks[i].Market < chunks[j].Market
		}
		return chunks[i].Title < chunks[j].Title
	})
}

// writeJSON marshals v with indentation and writes it to path.
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}
	return nil
}
