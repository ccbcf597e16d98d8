package knowledge

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/custodia-labs/sopsearch-cli/internal/core/domain"
	"github.com/custodia-labs/sopsearch-cli/internal/logger"
)

// Store owns the chunk corpus for the process lifetime.
//
// It is constructed once at startup by the caller and loaded
// explicitly; Reload replaces the cached corpus wholesale. There is
// no implicit lazy loading and no hidden global state, so tests can
// run multiple isolated stores.
type Store struct {
	mu     sync.RWMutex
	dirs   []string
	chunks []domain.KnowledgeChunk
}

// New creates a store over an ordered list of candidate directories.
// Earlier directories win when two hold a collection file of the
// same name.
func New(dirs ...string) *Store {
	return &Store{dirs: dirs}
}

// Load scans the candidate directories and caches the normalised
// corpus. Unreadable or unparseable files are skipped with a logged
// diagnostic; an empty corpus is valid.
func (s *Store) Load() error {
	chunks, err := s.scan()
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.chunks = chunks
	s.mu.Unlock()

	logger.Info("Knowledge store: %d chunks loaded", len(chunks))
	return nil
}

// Reload re-scans the directories and replaces the cached corpus.
func (s *Store) Reload() error {
	logger.Debug("Knowledge store: reloading")
	return s.Load()
}

// Chunks returns the cached corpus. The returned slice is shared and
// must be treated as read-only; ranking never mutates it.
func (s *Store) Chunks() []domain.KnowledgeChunk {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.chunks
}

// Len returns the number of cached chunks.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.chunks)
}

// Dirs returns the candidate directories in scan order.
func (s *Store) Dirs() []string {
	return s.dirs
}

// CountBy aggregates the corpus by topic and market for inspection.
func (s *Store) CountBy() (byTopic map[domain.Topic]int, byMarket map[domain.Market]int) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byTopic = make(map[domain.Topic]int)
	byMarket = make(map[domain.Market]int)
	for _, chunk := range s.chunks {
		byTopic[chunk.Topic]++
		byMarket[chunk.Market]++
	}
	return byTopic, byMarket
}

// sidecarFiles are ingest outputs that live beside the collections
// but hold no chunks.
var sidecarFiles = map[string]bool{
	"glossary.json":        true,
	"tag_definitions.json": true,
}

// scan walks the candidate directories in order and normalises every
// collection file. Retrieval ranking must not depend on this order.
func (s *Store) scan() ([]domain.KnowledgeChunk, error) {
	var all []domain.KnowledgeChunk
	seen := make(map[string]bool)

	for _, dir := range s.dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			if os.IsNotExist(err) {
				logger.Debug("Knowledge store: directory %s missing, skipping", dir)
				continue
			}
			return nil, fmt.Errorf("read knowledge directory %s: %w", dir, err)
		}

		for _, entry := range entries {
			if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".json") {
				continue
			}
			if sidecarFiles[strings.ToLower(entry.Name())] {
				logger.Debug("Knowledge store: sidecar %s skipped", entry.Name())
				continue
			}

			// First occurrence of a file name wins across directories.
			if seen[entry.Name()] {
				logger.Debug("Knowledge store: duplicate %s skipped", entry.Name())
				continue
			}
			seen[entry.Name()] = true

			path := filepath.Join(dir, entry.Name())
			chunks, err := loadCollection(path)
			if err != nil {
				logger.Warn("Knowledge store: skipping %s: %v", path, err)
				continue
			}
			all = append(all, chunks...)
		}
	}

	return all, nil
}

// loadCollection reads, parses, and filters one collection file.
func loadCollection(path string) ([]domain.KnowledgeChunk, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}

	chunks, err := parseCollection(path, data)
	if err != nil {
		return nil, err
	}

	chunks = preferRules(chunks)
	for i := range chunks {
		chunks[i].ID = uuid.New().String()
	}

	logger.Debug("Knowledge store: %s -> %d chunks", filepath.Base(path), len(chunks))
	return chunks, nil
}

// preferRules drops heading-like fragments and keeps rule-like ones.
// Each narrowing step falls back to its input when it would leave the
// file empty: a file's content is never dropped entirely.
func preferRules(chunks []domain.KnowledgeChunk) []domain.KnowledgeChunk {
	content := make([]domain.KnowledgeChunk, 0, len(chunks))
	for _, chunk := range chunks {
		if !isHeadingLike(chunk.Text) {
			content = append(content, chunk)
		}
	}
	if len(content) == 0 {
		content = chunks
	}

	rules := make([]domain.KnowledgeChunk, 0, len(content))
	for _, chunk := range content {
		if isRuleLike(chunk.Text) {
			rules = append(rules, chunk)
		}
	}
	if len(rules) == 0 {
		return content
	}
	return rules
}
