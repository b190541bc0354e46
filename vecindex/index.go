package vecindex

import (
	"fmt"
	"slices"

	"github.com/avallon/claimlens/core"
)

// Entry binds one stored vector to its case metadata. Keeping the pair in a
// single record means no code path can update one side without the other;
// the split vectors/metadata view exists only at the persistence boundary.
type Entry struct {
	Vector []float32
	Meta   core.CaseMeta
}

// Hit is one search result: the matched row, its squared Euclidean distance
// to the query, and the metadata stored at that row.
type Hit struct {
	Row      int
	Distance float32
	Meta     core.CaseMeta
}

// Index is an immutable flat index over fixed-dimension vectors supporting
// exact k-nearest-neighbor search. Search is a brute-force scan: O(N·D) per
// query with 100% recall, which is the right trade for corpora of tens to
// low thousands of cases. Once built, an Index is safe for concurrent reads.
type Index struct {
	dim     int
	entries []Entry
}

// Build constructs an index from entries of uniform dimension.
// The dimension is taken from the first entry; any entry with a different
// vector length fails the build with ErrDimensionMismatch. An empty entry
// set is valid and produces an empty index whose searches return no hits.
func Build(entries []Entry) (*Index, error) {
	if len(entries) == 0 {
		return &Index{}, nil
	}

	dim := len(entries[0].Vector)
	for i, entry := range entries {
		if len(entry.Vector) != dim {
			return nil, fmt.Errorf("%w: row %d has dimension %d, want %d",
				ErrDimensionMismatch, i, len(entry.Vector), dim)
		}
	}

	stored := make([]Entry, len(entries))
	for i, entry := range entries {
		stored[i] = Entry{
			Vector: slices.Clone(entry.Vector),
			Meta:   entry.Meta,
		}
	}

	return &Index{dim: dim, entries: stored}, nil
}

// Len returns the number of stored vectors.
func (ix *Index) Len() int {
	return len(ix.entries)
}

// Dim returns the vector dimension, or 0 for an empty index.
func (ix *Index) Dim() int {
	return ix.dim
}

// Entry returns the entry at the given row.
func (ix *Index) Entry(row int) Entry {
	return ix.entries[row]
}

// Search returns the min(k, N) nearest stored vectors to the query under
// squared Euclidean distance, nearest first. Ties are broken by row order
// (lower row wins), so results are deterministic for a fixed index.
//
// Searching an empty index returns no hits regardless of the query. On a
// non-empty index the query must match the index dimension.
func (ix *Index) Search(query []float32, k int) ([]Hit, error) {
	if k <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidK, k)
	}
	if len(ix.entries) == 0 {
		return []Hit{}, nil
	}
	if len(query) != ix.dim {
		return nil, fmt.Errorf("%w: query has dimension %d, index has %d",
			ErrDimensionMismatch, len(query), ix.dim)
	}

	hits := make([]Hit, len(ix.entries))
	for row, entry := range ix.entries {
		hits[row] = Hit{
			Row:      row,
			Distance: squaredDistance(query, entry.Vector),
			Meta:     entry.Meta,
		}
	}

	slices.SortFunc(hits, func(a, b Hit) int {
		if a.Distance < b.Distance {
			return -1
		}
		if a.Distance > b.Distance {
			return 1
		}
		return a.Row - b.Row
	})

	if k > len(hits) {
		k = len(hits)
	}
	return hits[:k], nil
}

// squaredDistance computes the squared Euclidean (L2²) distance between two
// vectors of equal length. Skipping the square root preserves ordering and
// the similarity transform is defined on the squared distance.
func squaredDistance(a, b []float32) float32 {
	var sum float32
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

// Similarity converts a squared Euclidean distance into a score in (0, 1]
// via 1 / (1 + d). The transform is strictly decreasing in distance and maps
// distance 0 to exactly 1.0, so ascending-distance order is
// descending-similarity order and no re-sort is needed after conversion.
func Similarity(distance float32) float64 {
	return 1.0 / (1.0 + float64(distance))
}
