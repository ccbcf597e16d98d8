package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	configfile "github.com/custodia-labs/sopsearch-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/sopsearch-cli/internal/assembler"
	"github.com/custodia-labs/sopsearch-cli/internal/core/domain"
	"github.com/custodia-labs/sopsearch-cli/internal/core/services"
	"github.com/custodia-labs/sopsearch-cli/internal/knowledge"
	"github.com/custodia-labs/sopsearch-cli/internal/ranker"
)

// sampleCollection is a minimal images collection for CLI tests.
const sampleCollection = `[
	{"title": "Hero Image Spec", "market": "AE", "topic": "images",
	 "text": "Hero images must be 1200x800 pixels and use the JPEG format."},
	{"title": "Delivery Radius", "market": "ALL", "topic": "zones",
	 "text": "Delivery zones must not exceed a 10 km radius from the branch."}
]`

// setupTestServices wires the package-level services against temp
// dirs and returns a cleanup that restores the pristine state.
func setupTestServices(t *testing.T) func() {
	t.Helper()

	knowledgeDir := t.TempDir()
	require.NoError(t, os.WriteFile(
		filepath.Join(knowledgeDir, "images.json"), []byte(sampleCollection), 0o644))

	store, err := configfile.NewConfigStore(t.TempDir())
	require.NoError(t, err)

	corpus := knowledge.New(knowledgeDir)
	require.NoError(t, corpus.Load())

	configStore = store
	settings = domain.Settings{KnowledgeDirs: []string{knowledgeDir}}
	knowledgeStore = corpus
	answerService = services.NewAnswerService(corpus, ranker.New(), assembler.New(), nil)

	return func() {
		configStore = nil
		settings = domain.Settings{}
		knowledgeStore = nil
		answerService = nil
		ingestService = nil
		generator = nil
	}
}

// newEmptyStore loads a knowledge store over an empty temp dir.
func newEmptyStore(t *testing.T) *knowledge.Store {
	t.Helper()
	store := knowledge.New(t.TempDir())
	require.NoError(t, store.Load())
	return store
}
