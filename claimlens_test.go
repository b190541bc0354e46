package claimlens

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/avallon/claimlens/ai/mock"
	"github.com/avallon/claimlens/core"
	"github.com/avallon/claimlens/vecindex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockSystem(t *testing.T) *System {
	t.Helper()
	s, err := NewSystem(filepath.Join(t.TempDir(), "claims_db"),
		WithProvider(mock.NewMockProvider()))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestNewSystem(t *testing.T) {
	t.Run("create new system", func(t *testing.T) {
		s := newMockSystem(t)

		assert.NotNil(t, s.ClaimRepository())
		assert.NotNil(t, s.Retriever())
		assert.False(t, s.Retriever().Ready())
	})

	t.Run("error with invalid path", func(t *testing.T) {
		tmpFile := filepath.Join(t.TempDir(), "not_a_dir")
		require.NoError(t, os.WriteFile(tmpFile, []byte("test"), 0644))

		s, err := NewSystem(tmpFile, WithProvider(mock.NewMockProvider()))
		assert.Error(t, err)
		assert.Nil(t, s)
	})
}

func TestSystem_RetrieverPinnedToProviderModel(t *testing.T) {
	// An injected provider may embed with a different model than the AI
	// config default; the retriever must be pinned to the provider's model.
	embedder := mock.NewMockEmbedder()
	embedder.ModelName = "nomic-embed-text"
	provider := mock.NewMockProviderWithServices(
		embedder, mock.NewMockFieldExtractor(), mock.NewMockClassifier())

	s, err := NewSystem(filepath.Join(t.TempDir(), "claims_db"), WithProvider(provider))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	indexDir := t.TempDir()
	ix, err := vecindex.Build([]vecindex.Entry{
		{Vector: make([]float32, mock.DefaultDimension), Meta: core.CaseMeta{ID: "p1", Label: core.LabelValid, Preview: "past"}},
	})
	require.NoError(t, err)
	require.NoError(t, vecindex.Save(ix, indexDir, vecindex.Manifest{
		Model:     "nomic-embed-text",
		CreatedAt: time.Now().UTC(),
	}))

	require.NoError(t, s.LoadIndex(indexDir))
	assert.True(t, s.Retriever().Ready())
}

func TestSystem_Close(t *testing.T) {
	s, err := NewSystem(t.TempDir(), WithProvider(mock.NewMockProvider()))
	require.NoError(t, err)

	assert.NoError(t, s.Close())
}

func TestSystem_LoadIndexAndPipeline(t *testing.T) {
	s := newMockSystem(t)

	// Persist a tiny snapshot built by the mock's default model identity.
	indexDir := t.TempDir()
	ix, err := vecindex.Build([]vecindex.Entry{
		{Vector: make([]float32, mock.DefaultDimension), Meta: core.CaseMeta{ID: "p1", Label: core.LabelValid, Preview: "past"}},
	})
	require.NoError(t, err)
	require.NoError(t, vecindex.Save(ix, indexDir, vecindex.Manifest{
		Model:     "all-minilm",
		CreatedAt: time.Now().UTC(),
	}))

	require.NoError(t, s.LoadIndex(indexDir))
	assert.True(t, s.Retriever().Ready())

	pipeline, err := s.NewIntakePipeline()
	require.NoError(t, err)
	defer pipeline.Release()

	claim, err := pipeline.Process(context.Background(), "a small fender bender on the ring road")
	require.NoError(t, err)
	assert.Equal(t, core.StatusAnalysed, claim.Status)
	assert.Len(t, claim.Similar, 1)
}
