package builder

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/avallon/claimlens/ai/mock"
	"github.com/avallon/claimlens/core"
	"github.com/avallon/claimlens/corpus"
	"github.com/avallon/claimlens/vecindex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCorpus(t *testing.T, n int) *corpus.Corpus {
	t.Helper()
	records := make([]core.CaseRecord, n)
	for i := range records {
		records[i] = core.CaseRecord{
			ID:       string(rune('a' + i)),
			Label:    core.LabelValid,
			FullText: strings.Repeat("claim transcript ", i+1),
		}
	}
	c, err := corpus.New(records)
	require.NoError(t, err)
	return c
}

func TestBuild(t *testing.T) {
	t.Run("rows follow corpus order", func(t *testing.T) {
		embedder := mock.NewMockEmbedder()
		embedder.Dimension = 8

		b, err := New(embedder, "all-minilm")
		require.NoError(t, err)

		c := testCorpus(t, 5)
		ix, err := b.Build(context.Background(), c)
		require.NoError(t, err)

		require.Equal(t, 5, ix.Len())
		assert.Equal(t, 8, ix.Dim())
		for row, record := range c.Records() {
			assert.Equal(t, record.ID, ix.Entry(row).Meta.ID)
			assert.Equal(t, record.Label, ix.Entry(row).Meta.Label)
		}
	})

	t.Run("empty corpus yields empty index", func(t *testing.T) {
		b, err := New(mock.NewMockEmbedder(), "all-minilm")
		require.NoError(t, err)

		ix, err := b.Build(context.Background(), testCorpus(t, 0))
		require.NoError(t, err)
		assert.Equal(t, 0, ix.Len())
	})

	t.Run("batching splits calls", func(t *testing.T) {
		var batchSizes []int
		var embedded []string
		embedder := &mock.MockEmbedder{
			Dimension: 4,
			EmbedTextsFunc: func(ctx context.Context, texts []string) ([][]float32, error) {
				batchSizes = append(batchSizes, len(texts))
				embedded = append(embedded, texts...)
				vectors := make([][]float32, len(texts))
				for i := range vectors {
					vectors[i] = []float32{float32(i), 0, 0, 0}
				}
				return vectors, nil
			},
		}

		b, err := New(embedder, "all-minilm", WithBatchSize(2))
		require.NoError(t, err)

		c := testCorpus(t, 5)
		_, err = b.Build(context.Background(), c)
		require.NoError(t, err)
		assert.Equal(t, []int{2, 2, 1}, batchSizes)
		// Batches carry the full case texts in corpus order.
		assert.Equal(t, c.Texts(), embedded)
	})

	t.Run("embedding failure aborts build", func(t *testing.T) {
		embedFailed := errors.New("embed failed")
		embedder := &mock.MockEmbedder{
			EmbedTextsFunc: func(ctx context.Context, texts []string) ([][]float32, error) {
				return nil, embedFailed
			},
		}

		b, err := New(embedder, "all-minilm", WithRetry(2, time.Millisecond))
		require.NoError(t, err)

		_, err = b.Build(context.Background(), testCorpus(t, 3))
		assert.ErrorIs(t, err, embedFailed)
	})

	t.Run("retry recovers transient failure", func(t *testing.T) {
		attempts := 0
		embedder := mock.NewMockEmbedder()
		embedder.Dimension = 4
		embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
			attempts++
			if attempts == 1 {
				return nil, errors.New("transient")
			}
			vectors := make([][]float32, len(texts))
			for i := range vectors {
				vectors[i] = []float32{1, 2, 3, 4}
			}
			return vectors, nil
		}

		b, err := New(embedder, "all-minilm", WithRetry(3, time.Millisecond))
		require.NoError(t, err)

		ix, err := b.Build(context.Background(), testCorpus(t, 2))
		require.NoError(t, err)
		assert.Equal(t, 2, ix.Len())
		assert.Equal(t, 2, attempts)
	})

	t.Run("count mismatch detected", func(t *testing.T) {
		embedder := &mock.MockEmbedder{
			EmbedTextsFunc: func(ctx context.Context, texts []string) ([][]float32, error) {
				return [][]float32{{1, 2}}, nil
			},
		}

		b, err := New(embedder, "all-minilm")
		require.NoError(t, err)

		_, err = b.Build(context.Background(), testCorpus(t, 3))
		assert.ErrorIs(t, err, ErrEmbeddingCountMismatch)
	})

	t.Run("invalid options rejected", func(t *testing.T) {
		_, err := New(mock.NewMockEmbedder(), "all-minilm", WithBatchSize(0))
		assert.ErrorIs(t, err, ErrInvalidBatchSize)

		_, err = New(mock.NewMockEmbedder(), "all-minilm", WithRetry(0, time.Second))
		assert.ErrorIs(t, err, ErrInvalidMaxAttempts)
	})
}

func TestBuildAndSave(t *testing.T) {
	dir := t.TempDir()
	embedder := mock.NewMockEmbedder()
	embedder.Dimension = 6

	b, err := New(embedder, "all-minilm")
	require.NoError(t, err)

	c := testCorpus(t, 4)
	built, err := b.BuildAndSave(context.Background(), c, dir)
	require.NoError(t, err)

	loaded, manifest, err := vecindex.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, built.Len(), loaded.Len())
	assert.Equal(t, "all-minilm", manifest.Model)
	assert.Equal(t, 6, manifest.Dimension)
	assert.Equal(t, c.Fingerprint(), manifest.CorpusFingerprint)
	assert.False(t, manifest.CreatedAt.IsZero())
}

func TestRetryWithBackoff(t *testing.T) {
	t.Run("succeeds first try", func(t *testing.T) {
		calls := 0
		err := RetryWithBackoff(context.Background(), func() error {
			calls++
			return nil
		}, 3, time.Millisecond)
		require.NoError(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("exhausts attempts", func(t *testing.T) {
		calls := 0
		failed := errors.New("always fails")
		err := RetryWithBackoff(context.Background(), func() error {
			calls++
			return failed
		}, 3, time.Millisecond)
		assert.ErrorIs(t, err, failed)
		assert.Equal(t, 3, calls)
	})

	t.Run("respects context cancellation", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := RetryWithBackoff(ctx, func() error {
			return errors.New("should not matter")
		}, 3, time.Millisecond)
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("invalid attempts", func(t *testing.T) {
		err := RetryWithBackoff(context.Background(), func() error { return nil }, 0, time.Millisecond)
		assert.ErrorIs(t, err, ErrInvalidMaxAttempts)
	})
}

func TestProgressTracker(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgressTracker(&buf, 10, 5)

	// Updates before Start are ignored.
	p.Increment(3)
	assert.Empty(t, buf.String())

	p.Start()
	p.Increment(5)
	assert.Contains(t, buf.String(), "5/10")

	p.Increment(5)
	p.Finish()
	assert.Contains(t, buf.String(), "10/10")
	assert.Contains(t, buf.String(), "100.0%")
}
