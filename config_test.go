package medrag

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func Test_ReadConfig(t *testing.T) {
	path := writeConfig(t, `
corpus_root: /data/corpus
chunk_size: 400
chunk_overlap: 40
results: 5
model:
  provider: openai
  name: llama3.2
  base_url: http://localhost:11434/v1
`)

	cfg, err := ReadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "/data/corpus", cfg.CorpusRoot)
	assert.Equal(t, 400, cfg.ChunkSize)
	assert.Equal(t, 40, cfg.ChunkOverlap)
	assert.Equal(t, 5, cfg.Results)
	assert.Equal(t, "openai", cfg.Model.Provider)

	// Unset keys keep their defaults.
	assert.Equal(t, 100, cfg.RequestSize)
	assert.Equal(t, 384, cfg.Embedding.Dimension)
	assert.InDelta(t, 0.25, cfg.MinScore, 1e-6)
}

func Test_ReadConfig_InvalidChunkConfig(t *testing.T) {
	path := writeConfig(t, `
chunk_size: 100
chunk_overlap: 100
`)

	_, err := ReadConfig(path)
	assert.ErrorIs(t, err, ErrInvalidChunkConfig)
}

func Test_ReadConfig_UnknownProvider(t *testing.T) {
	path := writeConfig(t, `
model:
  provider: bard
`)

	_, err := ReadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown model provider")
}

func Test_ReadConfig_MissingFile(t *testing.T) {
	_, err := ReadConfig("does/not/exist.yaml")
	assert.Error(t, err)
}

func Test_Validate_Defaults(t *testing.T) {
	assert.NoError(t, defaultConfig().Validate())
}
