package vecindex

import (
	"testing"

	"github.com/avallon/claimlens/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEntries() []Entry {
	return []Entry{
		{Vector: []float32{0, 0, 0}, Meta: core.CaseMeta{ID: "c1", Label: core.LabelValid, Preview: "origin"}},
		{Vector: []float32{1, 0, 0}, Meta: core.CaseMeta{ID: "c2", Label: core.LabelValid, Preview: "unit x"}},
		{Vector: []float32{0, 2, 0}, Meta: core.CaseMeta{ID: "c3", Label: core.LabelInvalid, Preview: "two y"}},
		{Vector: []float32{3, 3, 3}, Meta: core.CaseMeta{ID: "c4", Label: core.LabelFraudulent, Preview: "far"}},
	}
}

func TestBuild(t *testing.T) {
	t.Run("uniform dimensions", func(t *testing.T) {
		ix, err := Build(testEntries())
		require.NoError(t, err)
		assert.Equal(t, 4, ix.Len())
		assert.Equal(t, 3, ix.Dim())
	})

	t.Run("empty corpus yields empty index", func(t *testing.T) {
		ix, err := Build(nil)
		require.NoError(t, err)
		assert.Equal(t, 0, ix.Len())
		assert.Equal(t, 0, ix.Dim())
	})

	t.Run("mixed dimensions rejected", func(t *testing.T) {
		entries := []Entry{
			{Vector: []float32{1, 2, 3}, Meta: core.CaseMeta{ID: "a"}},
			{Vector: []float32{1, 2}, Meta: core.CaseMeta{ID: "b"}},
		}
		_, err := Build(entries)
		assert.ErrorIs(t, err, ErrDimensionMismatch)
	})

	t.Run("input slice not aliased", func(t *testing.T) {
		entries := testEntries()
		ix, err := Build(entries)
		require.NoError(t, err)

		entries[0].Vector[0] = 99

		hits, err := ix.Search([]float32{0, 0, 0}, 1)
		require.NoError(t, err)
		assert.Equal(t, "c1", hits[0].Meta.ID)
		assert.Equal(t, float32(0), hits[0].Distance)
	})
}

func TestSearch(t *testing.T) {
	ix, err := Build(testEntries())
	require.NoError(t, err)

	t.Run("k results sorted by ascending distance", func(t *testing.T) {
		hits, err := ix.Search([]float32{0, 0, 0}, 3)
		require.NoError(t, err)
		require.Len(t, hits, 3)

		assert.Equal(t, "c1", hits[0].Meta.ID)
		assert.Equal(t, "c2", hits[1].Meta.ID)
		assert.Equal(t, "c3", hits[2].Meta.ID)
		for i := 1; i < len(hits); i++ {
			assert.LessOrEqual(t, hits[i-1].Distance, hits[i].Distance)
		}
	})

	t.Run("k larger than corpus returns all rows", func(t *testing.T) {
		hits, err := ix.Search([]float32{0, 0, 0}, 100)
		require.NoError(t, err)
		assert.Len(t, hits, 4)
	})

	t.Run("exact match has distance zero", func(t *testing.T) {
		hits, err := ix.Search([]float32{1, 0, 0}, 1)
		require.NoError(t, err)
		assert.Equal(t, "c2", hits[0].Meta.ID)
		assert.Equal(t, float32(0), hits[0].Distance)
		assert.Equal(t, 1.0, Similarity(hits[0].Distance))
	})

	t.Run("ties broken by row order", func(t *testing.T) {
		entries := []Entry{
			{Vector: []float32{1, 0}, Meta: core.CaseMeta{ID: "first"}},
			{Vector: []float32{0, 1}, Meta: core.CaseMeta{ID: "second"}},
			{Vector: []float32{-1, 0}, Meta: core.CaseMeta{ID: "third"}},
		}
		tied, err := Build(entries)
		require.NoError(t, err)

		// All three rows are equidistant from the origin.
		hits, err := tied.Search([]float32{0, 0}, 3)
		require.NoError(t, err)
		assert.Equal(t, "first", hits[0].Meta.ID)
		assert.Equal(t, "second", hits[1].Meta.ID)
		assert.Equal(t, "third", hits[2].Meta.ID)
	})

	t.Run("wrong query dimension rejected", func(t *testing.T) {
		_, err := ix.Search([]float32{0, 0}, 1)
		assert.ErrorIs(t, err, ErrDimensionMismatch)
	})

	t.Run("non-positive k rejected", func(t *testing.T) {
		_, err := ix.Search([]float32{0, 0, 0}, 0)
		assert.ErrorIs(t, err, ErrInvalidK)

		_, err = ix.Search([]float32{0, 0, 0}, -1)
		assert.ErrorIs(t, err, ErrInvalidK)
	})

	t.Run("empty index returns no hits for any query", func(t *testing.T) {
		empty, err := Build(nil)
		require.NoError(t, err)

		hits, err := empty.Search([]float32{1, 2, 3, 4}, 5)
		require.NoError(t, err)
		assert.Empty(t, hits)
	})
}

func TestSimilarity(t *testing.T) {
	t.Run("zero distance is exactly one", func(t *testing.T) {
		assert.Equal(t, 1.0, Similarity(0))
	})

	t.Run("strictly decreasing", func(t *testing.T) {
		distances := []float32{0, 0.001, 0.5, 1, 4, 100, 1e6}
		for i := 1; i < len(distances); i++ {
			assert.Greater(t, Similarity(distances[i-1]), Similarity(distances[i]))
		}
	})

	t.Run("always in (0, 1]", func(t *testing.T) {
		for _, d := range []float32{0, 0.1, 1, 1000, 1e9} {
			s := Similarity(d)
			assert.Greater(t, s, 0.0)
			assert.LessOrEqual(t, s, 1.0)
		}
	})
}
