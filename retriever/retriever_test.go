package retriever

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/avallon/claimlens/ai/mock"
	"github.com/avallon/claimlens/core"
	"github.com/avallon/claimlens/vecindex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testModel = "all-minilm"

// craftedEmbedder maps known transcripts to fixed vectors so distances in
// tests are exact.
func craftedEmbedder(vectors map[string][]float32) *mock.MockEmbedder {
	return &mock.MockEmbedder{
		EmbedTextFunc: func(ctx context.Context, text string) ([]float32, error) {
			if v, ok := vectors[text]; ok {
				return v, nil
			}
			return []float32{9, 9, 9}, nil
		},
	}
}

func saveSnapshot(t *testing.T, entries []vecindex.Entry, model string) string {
	t.Helper()
	dir := t.TempDir()
	ix, err := vecindex.Build(entries)
	require.NoError(t, err)
	require.NoError(t, vecindex.Save(ix, dir, vecindex.Manifest{
		Model:             model,
		CorpusFingerprint: core.IDFromContent("test"),
		CreatedAt:         time.Now().UTC(),
	}))
	return dir
}

func twoCaseSnapshot(t *testing.T) string {
	t.Helper()
	return saveSnapshot(t, []vecindex.Entry{
		{
			Vector: []float32{1, 0, 0},
			Meta: core.CaseMeta{
				ID:      "case-rear-end",
				Label:   core.LabelValid,
				Preview: "Rear-ended on Al-Farabi Avenue in Almaty, bumper damage.",
			},
		},
		{
			Vector: []float32{0, 1, 0},
			Meta: core.CaseMeta{
				ID:      "case-pipe-burst",
				Label:   core.LabelInvalid,
				Preview: "Burst pipe flooded the apartment, damage predates the policy.",
			},
		},
	}, testModel)
}

func TestNew(t *testing.T) {
	t.Run("requires embedder", func(t *testing.T) {
		_, err := New(nil, testModel)
		assert.ErrorIs(t, err, ErrEmbedderRequired)
	})

	t.Run("starts unloaded", func(t *testing.T) {
		r, err := New(mock.NewMockEmbedder(), testModel)
		require.NoError(t, err)
		assert.False(t, r.Ready())

		_, err = r.QuerySimilar(context.Background(), "any transcript", 3)
		assert.ErrorIs(t, err, ErrNotReady)

		_, err = r.Manifest()
		assert.ErrorIs(t, err, ErrNotReady)
	})
}

func TestLoad(t *testing.T) {
	t.Run("valid snapshot", func(t *testing.T) {
		r, err := New(mock.NewMockEmbedder(), testModel)
		require.NoError(t, err)

		require.NoError(t, r.Load(twoCaseSnapshot(t)))
		assert.True(t, r.Ready())

		manifest, err := r.Manifest()
		require.NoError(t, err)
		assert.Equal(t, testModel, manifest.Model)
		assert.Equal(t, 2, manifest.Count)
	})

	t.Run("model mismatch rejected", func(t *testing.T) {
		r, err := New(mock.NewMockEmbedder(), testModel)
		require.NoError(t, err)

		dir := saveSnapshot(t, nil, "some-other-model")
		err = r.Load(dir)
		assert.ErrorIs(t, err, ErrModelMismatch)
		assert.False(t, r.Ready())
	})

	t.Run("missing snapshot fails without changing state", func(t *testing.T) {
		r, err := New(mock.NewMockEmbedder(), testModel)
		require.NoError(t, err)

		require.NoError(t, r.Load(twoCaseSnapshot(t)))
		require.True(t, r.Ready())

		err = r.Load(t.TempDir())
		assert.Error(t, err)

		// Previous snapshot keeps serving.
		assert.True(t, r.Ready())
		manifest, err := r.Manifest()
		require.NoError(t, err)
		assert.Equal(t, 2, manifest.Count)
	})
}

func TestQuerySimilar(t *testing.T) {
	embedder := craftedEmbedder(map[string][]float32{
		"another rear-end collision in Almaty": {1, 0, 0},
		"minor fender bender":                  {0.8, 0.2, 0},
	})

	r, err := New(embedder, testModel)
	require.NoError(t, err)
	require.NoError(t, r.Load(twoCaseSnapshot(t)))

	t.Run("identical transcript scores exactly one", func(t *testing.T) {
		results, err := r.QuerySimilar(context.Background(), "another rear-end collision in Almaty", 2)
		require.NoError(t, err)
		require.Len(t, results, 2)

		assert.Equal(t, "case-rear-end", results[0].CaseID)
		assert.Equal(t, core.LabelValid, results[0].Label)
		assert.Equal(t, 1.0, results[0].Similarity)

		assert.Equal(t, "case-pipe-burst", results[1].CaseID)
		assert.Less(t, results[1].Similarity, results[0].Similarity)
	})

	t.Run("results ranked by descending similarity", func(t *testing.T) {
		results, err := r.QuerySimilar(context.Background(), "minor fender bender", 2)
		require.NoError(t, err)
		require.Len(t, results, 2)

		assert.Equal(t, "case-rear-end", results[0].CaseID)
		for i := 1; i < len(results); i++ {
			assert.GreaterOrEqual(t, results[i-1].Similarity, results[i].Similarity)
		}
	})

	t.Run("k beyond corpus returns all cases", func(t *testing.T) {
		results, err := r.QuerySimilar(context.Background(), "minor fender bender", 50)
		require.NoError(t, err)
		assert.Len(t, results, 2)
	})

	t.Run("embedding failure surfaces", func(t *testing.T) {
		embedFailed := errors.New("embedder down")
		failing := &mock.MockEmbedder{
			EmbedTextFunc: func(ctx context.Context, text string) ([]float32, error) {
				return nil, embedFailed
			},
		}
		fr, err := New(failing, testModel)
		require.NoError(t, err)
		require.NoError(t, fr.Load(twoCaseSnapshot(t)))

		_, err = fr.QuerySimilar(context.Background(), "anything", 2)
		assert.ErrorIs(t, err, embedFailed)
	})

	t.Run("empty snapshot returns no results", func(t *testing.T) {
		er, err := New(mock.NewMockEmbedder(), testModel)
		require.NoError(t, err)
		require.NoError(t, er.Load(saveSnapshot(t, nil, testModel)))

		results, err := er.QuerySimilar(context.Background(), "anything", 3)
		require.NoError(t, err)
		assert.Empty(t, results)
	})
}

type recordingMonitor struct {
	started     bool
	embeddedDim int
	hitCount    int
	resultCount int
}

func (m *recordingMonitor) Start(_ string, _ int)            { m.started = true }
func (m *recordingMonitor) AfterEmbedding(v []float32)       { m.embeddedDim = len(v) }
func (m *recordingMonitor) AfterSearch(hits []vecindex.Hit)  { m.hitCount = len(hits) }
func (m *recordingMonitor) Finish(r []core.SimilarityResult) { m.resultCount = len(r) }

func TestQuerySimilarWithMonitor(t *testing.T) {
	embedder := craftedEmbedder(map[string][]float32{
		"rear-end": {1, 0, 0},
	})

	r, err := New(embedder, testModel)
	require.NoError(t, err)
	require.NoError(t, r.Load(twoCaseSnapshot(t)))

	monitor := &recordingMonitor{}
	results, err := r.QuerySimilarWithMonitor(context.Background(), "rear-end", 2, monitor)
	require.NoError(t, err)

	assert.True(t, monitor.started)
	assert.Equal(t, 3, monitor.embeddedDim)
	assert.Equal(t, 2, monitor.hitCount)
	assert.Equal(t, len(results), monitor.resultCount)
}
