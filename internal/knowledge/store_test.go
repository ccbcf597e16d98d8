package knowledge

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sopsearch-cli/internal/core/domain"
)

// writeCollection writes one collection file into dir.
func writeCollection(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0600))
}

func TestLoad_ChunkRecords(t *testing.T) {
	dir := t.TempDir()
	writeCollection(t, dir, "images.json", `[
		{"title": "Hero Images", "market": "AE", "topic": "images",
		 "text": "Hero images must be 1125x780 pixels for all Dubai stores."},
		{"title": "Logos", "market": "JO", "topic": "images",
		 "text": "Logo files must be square and at least 600 pixels wide."}
	]`)

	store := New(dir)
	require.NoError(t, store.Load())
	require.Equal(t, 2, store.Len())

	chunks := store.Chunks()
	assert.Equal(t, "Hero Images", chunks[0].Title)
	assert.Equal(t, domain.MarketAE, chunks[0].Market)
	assert.Equal(t, domain.TopicImages, chunks[0].Topic)
	assert.NotEmpty(t, chunks[0].ID)
}

func TestLoad_BodyFieldAndDefaults(t *testing.T) {
	dir := t.TempDir()
	writeCollection(t, dir, "rules.json", `[
		{"body": "Item descriptions must avoid promotional language at all times."}
	]`)

	store := New(dir)
	require.NoError(t, store.Load())
	require.Equal(t, 1, store.Len())

	chunk := store.Chunks()[0]
	assert.Equal(t, "rules.json", chunk.Title, "title defaults to the filename")
	assert.Equal(t, domain.MarketAll, chunk.Market)
	assert.Equal(t, domain.TopicMisc, chunk.Topic)
}

func TestLoad_PlainStringList(t *testing.T) {
	dir := t.TempDir()
	writeCollection(t, dir, "zone_notes.json", `[
		"Delivery zones must not overlap between neighbouring stores.",
		"The default radius should be set to 5 km unless operations approves more."
	]`)

	store := New(dir)
	require.NoError(t, store.Load())
	require.Equal(t, 2, store.Len())

	for _, chunk := range store.Chunks() {
		assert.Equal(t, domain.MarketAll, chunk.Market)
		assert.Equal(t, domain.TopicZones, chunk.Topic, "topic inferred from filename and text")
		assert.Equal(t, "zone_notes.json", chunk.Title)
	}
}

func TestLoad_ArbitraryTree(t *testing.T) {
	dir := t.TempDir()
	writeCollection(t, dir, "misc.json", `{
		"intro": {"note": "All menu photos must use natural lighting and a plain background."},
		"appendix": ["Contact the content team for required exceptions."]
	}`)

	store := New(dir)
	require.NoError(t, store.Load())
	require.Equal(t, 1, store.Len(), "a tree flattens to a single chunk per file")

	chunk := store.Chunks()[0]
	assert.Contains(t, chunk.Text, "natural lighting")
	assert.Contains(t, chunk.Text, "content team")
}

func TestLoad_RejectsHeadingLikeFragments(t *testing.T) {
	dir := t.TempDir()
	writeCollection(t, dir, "writing.json", `[
		"Item Naming Rules",
		"- ",
		"Item names must use Title Case and must not contain emojis or prices."
	]`)

	store := New(dir)
	require.NoError(t, store.Load())
	require.Equal(t, 1, store.Len())
	assert.Contains(t, store.Chunks()[0].Text, "Title Case")
}

func TestLoad_FallbackWhenNothingRuleLike(t *testing.T) {
	// No fragment passes the rule-like filter; the file's lines are
	// kept anyway rather than dropping its content entirely.
	dir := t.TempDir()
	writeCollection(t, dir, "notes.json", `[
		"The operations weekly review covers open onboarding cases and escalations"
	]`)

	store := New(dir)
	require.NoError(t, store.Load())
	assert.Equal(t, 1, store.Len())
}

func TestLoad_DuplicateFilenameFirstDirectoryWins(t *testing.T) {
	primary := t.TempDir()
	secondary := t.TempDir()
	writeCollection(t, primary, "images.json",
		`["Hero images must be 1125x780 pixels for every market listing."]`)
	writeCollection(t, secondary, "images.json",
		`["This stale copy must never be loaded into the corpus at all."]`)

	store := New(primary, secondary)
	require.NoError(t, store.Load())
	require.Equal(t, 1, store.Len())
	assert.Contains(t, store.Chunks()[0].Text, "1125x780")
}

func TestLoad_UnparseableFileSkipped(t *testing.T) {
	dir := t.TempDir()
	writeCollection(t, dir, "broken.json", `{not valid json`)
	writeCollection(t, dir, "good.json",
		`["Tax registration numbers must be added to every invoice footer."]`)

	store := New(dir)
	require.NoError(t, store.Load())
	assert.Equal(t, 1, store.Len())
}

func TestLoad_SkipsIngestSidecars(t *testing.T) {
	// A freshly ingested directory holds the glossary and
	// tag-definition outputs next to the collections; neither may be
	// loaded as chunks.
	dir := t.TempDir()
	writeCollection(t, dir, "tags.json", `[
		{"title": "Cuisine Tags", "market": "ALL", "topic": "tags",
		 "text": "Every restaurant must carry at least one cuisine tag."}
	]`)
	writeCollection(t, dir, "glossary.json",
		`{"AE": [{"en": "Delivery", "ar": "توصيل"}]}`)
	writeCollection(t, dir, "tag_definitions.json",
		`[{"tag": "Italian", "keywords": ["pizza", "pasta"]}]`)

	store := New(dir)
	require.NoError(t, store.Load())
	require.Equal(t, 1, store.Len())
	assert.Contains(t, store.Chunks()[0].Text, "cuisine tag")
}

func TestLoad_MissingDirectoryAndEmptyCorpus(t *testing.T) {
	store := New(filepath.Join(t.TempDir(), "does-not-exist"))
	require.NoError(t, store.Load(), "a missing directory is not an error")
	assert.Equal(t, 0, store.Len())
	assert.Empty(t, store.Chunks())
}

func TestReload_PicksUpChanges(t *testing.T) {
	dir := t.TempDir()
	writeCollection(t, dir, "zones.json",
		`["Delivery radius must be reviewed every quarter by the zones team."]`)

	store := New(dir)
	require.NoError(t, store.Load())
	require.Equal(t, 1, store.Len())

	writeCollection(t, dir, "zones2.json",
		`["Zone overlaps must be escalated to the operations manager immediately."]`)
	require.NoError(t, store.Reload())
	assert.Equal(t, 2, store.Len())
}

func TestCountBy(t *testing.T) {
	dir := t.TempDir()
	writeCollection(t, dir, "images.json", `[
		{"market": "AE", "topic": "images", "text": "Hero images must be 1125x780 pixels, no exceptions."},
		{"market": "JO", "topic": "zones", "text": "Amman stores must keep the radius set below 7 km."}
	]`)

	store := New(dir)
	require.NoError(t, store.Load())

	byTopic, byMarket := store.CountBy()
	assert.Equal(t, 1, byTopic[domain.TopicImages])
	assert.Equal(t, 1, byTopic[domain.TopicZones])
	assert.Equal(t, 1, byMarket[domain.MarketAE])
	assert.Equal(t, 1, byMarket[domain.MarketJO])
}
