package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCorpusCmd_Use(t *testing.T) {
	assert.Equal(t, "corpus", corpusCmd.Use)
}

func TestCorpusCmd_HasWatchFlag(t *testing.T) {
	flag := corpusCmd.Flags().Lookup("watch")
	require.NotNil(t, flag, "watch flag should exist")
	assert.Equal(t, "w", flag.Shorthand)
}

func TestCorpusCmd_ShowsCounts(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"corpus"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "2 chunks")
	assert.Contains(t, buf.String(), "images")
	assert.Contains(t, buf.String(), "zones")
	assert.Contains(t, buf.String(), "AE")
	assert.Contains(t, buf.String(), "ALL")
}

func TestCorpusCmd_EmptyCorpus(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()

	// Swap in a store over an empty dir
	emptyStore := newEmptyStore(t)
	knowledgeStore = emptyStore

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"corpus"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "empty")
}
