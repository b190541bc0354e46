// Copyright 2025 Avallon Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package retriever

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/avallon/claimlens/ai"
	"github.com/avallon/claimlens/core"
	"github.com/avallon/claimlens/vecindex"
)

// snapshot pairs a loaded index with its manifest. Snapshots are immutable;
// Reload swaps the whole pair under the lock so in-flight queries keep
// reading a consistent index.
type snapshot struct {
	index    *vecindex.Index
	manifest vecindex.Manifest
}

// Retriever answers similarity queries over a loaded index snapshot. It is
// created unloaded; queries fail with ErrNotReady until Load succeeds.
// After a successful Load it is safe for concurrent queries, and Reload may
// run concurrently with queries.
type Retriever struct {
	embedder ai.Embedder
	model    string
	logger   *slog.Logger

	mu   sync.RWMutex
	snap *snapshot
}

// Option configures a Retriever.
type Option func(*Retriever)

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Retriever) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// New creates an unloaded retriever. The model name is the identity of the
// embedder's model; Load rejects snapshots built by any other model, since
// distances between vectors from different models are meaningless.
func New(embedder ai.Embedder, model string, opts ...Option) (*Retriever, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	r := &Retriever{
		embedder: embedder,
		model:    model,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Load reads the snapshot in dir and makes it the serving index. On any
// failure the retriever's previous state is kept: a fresh retriever stays
// unloaded, a loaded one keeps serving its current snapshot.
func (r *Retriever) Load(dir string) error {
	ix, manifest, err := vecindex.Load(dir)
	if err != nil {
		return fmt.Errorf("failed to load index from %s: %w", dir, err)
	}

	if manifest.Model != r.model {
		return fmt.Errorf("%w: index built with %q, embedder is %q",
			ErrModelMismatch, manifest.Model, r.model)
	}

	r.mu.Lock()
	r.snap = &snapshot{index: ix, manifest: manifest}
	r.mu.Unlock()

	r.logger.Info("index loaded",
		"dir", dir,
		"rows", ix.Len(),
		"dimension", ix.Dim(),
		"model", manifest.Model,
		"createdAt", manifest.CreatedAt)
	return nil
}

// Ready reports whether a snapshot is loaded and queries can be served.
func (r *Retriever) Ready() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snap != nil
}

// Manifest returns the manifest of the loaded snapshot.
// Returns ErrNotReady when no snapshot is loaded.
func (r *Retriever) Manifest() (vecindex.Manifest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.snap == nil {
		return vecindex.Manifest{}, ErrNotReady
	}
	return r.snap.manifest, nil
}

// QuerySimilar embeds the transcript and returns up to k past cases ranked
// by similarity, most similar first.
func (r *Retriever) QuerySimilar(ctx context.Context, transcript string, k int) ([]core.SimilarityResult, error) {
	return r.QuerySimilarWithMonitor(ctx, transcript, k, nil)
}

// QuerySimilarWithMonitor embeds the transcript and returns up to k past
// cases ranked by similarity, invoking the monitor at each stage. Similarity
// is 1/(1+d) over squared Euclidean distance, so a case identical to the
// query scores exactly 1.0. Fewer than k results are returned when the
// corpus holds fewer than k cases.
func (r *Retriever) QuerySimilarWithMonitor(ctx context.Context, transcript string, k int, monitor QueryMonitor) ([]core.SimilarityResult, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	r.mu.RLock()
	snap := r.snap
	r.mu.RUnlock()
	if snap == nil {
		return nil, ErrNotReady
	}

	monitor.Start(transcript, k)

	vector, err := r.embedder.EmbedText(ctx, transcript)
	if err != nil {
		r.logger.Error("error embedding query transcript", "err", err)
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	monitor.AfterEmbedding(vector)

	hits, err := snap.index.Search(vector, k)
	if err != nil {
		r.logger.Error("error searching index", "err", err)
		return nil, err
	}
	monitor.AfterSearch(hits)

	// Hits arrive sorted by ascending distance; the similarity transform is
	// strictly decreasing, so no re-sort is needed.
	results := make([]core.SimilarityResult, len(hits))
	for i, hit := range hits {
		results[i] = core.SimilarityResult{
			CaseID:     hit.Meta.ID,
			Label:      hit.Meta.Label,
			Preview:    hit.Meta.Preview,
			Similarity: vecindex.Similarity(hit.Distance),
		}
	}

	monitor.Finish(results)
	return results, nil
}
