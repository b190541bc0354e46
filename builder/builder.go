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


package builder

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/avallon/claimlens/ai"
	"github.com/avallon/claimlens/corpus"
	"github.com/avallon/claimlens/vecindex"
)

// Default build parameters.
const (
	DefaultBatchSize      = 32
	DefaultMaxRetries     = 3
	DefaultRetryBaseDelay = time.Second
)

// Builder embeds a labeled corpus and assembles a searchable index from the
// results. Corpus order is preserved: record i of the corpus becomes row i of
// the index.
type Builder struct {
	embedder       ai.Embedder
	model          string
	batchSize      int
	maxRetries     int
	retryBaseDelay time.Duration
	logger         *slog.Logger
	progress       *ProgressTracker
}

// Option configures a Builder.
type Option func(*Builder)

// WithBatchSize sets how many transcripts are embedded per batch call.
func WithBatchSize(n int) Option {
	return func(b *Builder) { b.batchSize = n }
}

// WithRetry sets the retry policy for embedding calls.
func WithRetry(maxAttempts int, baseDelay time.Duration) Option {
	return func(b *Builder) {
		b.maxRetries = maxAttempts
		b.retryBaseDelay = baseDelay
	}
}

// WithLogger sets the logger used during builds.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) { b.logger = logger }
}

// WithProgress attaches a progress tracker updated as batches complete.
func WithProgress(tracker *ProgressTracker) Option {
	return func(b *Builder) { b.progress = tracker }
}

// New creates a builder that embeds with the given embedder. The model name
// is recorded in the snapshot manifest so the retriever can refuse snapshots
// built by a different model.
func New(embedder ai.Embedder, model string, opts ...Option) (*Builder, error) {
	b := &Builder{
		embedder:       embedder,
		model:          model,
		batchSize:      DefaultBatchSize,
		maxRetries:     DefaultMaxRetries,
		retryBaseDelay: DefaultRetryBaseDelay,
		logger:         slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.batchSize <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidBatchSize, b.batchSize)
	}
	if b.maxRetries <= 0 {
		return nil, ErrInvalidMaxAttempts
	}
	return b, nil
}

// Build embeds every record of the corpus and returns the assembled index.
// An empty corpus yields an empty index. Any embedding failure aborts the
// build; no partial index is ever produced.
func (b *Builder) Build(ctx context.Context, c *corpus.Corpus) (*vecindex.Index, error) {
	records := c.Records()
	if len(records) == 0 {
		b.logger.Info("building empty index, corpus has no records")
		return vecindex.Build(nil)
	}

	b.logger.Info("building index",
		"cases", len(records),
		"model", b.model,
		"batchSize", b.batchSize,
		"labels", c.LabelSummary())

	if b.progress != nil {
		b.progress.Start()
	}

	texts := c.Texts()
	entries := make([]vecindex.Entry, 0, len(records))
	for start := 0; start < len(records); start += b.batchSize {
		end := min(start+b.batchSize, len(records))
		batch := records[start:end]

		var vectors [][]float32
		err := RetryWithBackoff(ctx, func() error {
			var err error
			vectors, err = b.embedder.EmbedTexts(ctx, texts[start:end])
			return err
		}, b.maxRetries, b.retryBaseDelay)
		if err != nil {
			return nil, fmt.Errorf("failed to embed batch starting at record %d: %w", start, err)
		}
		if len(vectors) != len(batch) {
			return nil, fmt.Errorf("%w: sent %d texts, got %d vectors",
				ErrEmbeddingCountMismatch, len(batch), len(vectors))
		}

		for i := range batch {
			entries = append(entries, vecindex.Entry{
				Vector: vectors[i],
				Meta:   batch[i].Meta(),
			})
		}
		if b.progress != nil {
			b.progress.Increment(len(batch))
		}
	}

	if b.progress != nil {
		b.progress.Finish()
	}

	ix, err := vecindex.Build(entries)
	if err != nil {
		return nil, fmt.Errorf("failed to assemble index: %w", err)
	}

	b.logger.Info("index built", "rows", ix.Len(), "dimension", ix.Dim())
	return ix, nil
}

// BuildAndSave builds an index from the corpus and persists it to dir,
// stamping the manifest with the embedding model and corpus fingerprint.
func (b *Builder) BuildAndSave(ctx context.Context, c *corpus.Corpus, dir string) (*vecindex.Index, error) {
	ix, err := b.Build(ctx, c)
	if err != nil {
		return nil, err
	}

	manifest := vecindex.Manifest{
		Model:             b.model,
		CorpusFingerprint: c.Fingerprint(),
		CreatedAt:         time.Now().UTC(),
	}
	if err := vecindex.Save(ix, dir, manifest); err != nil {
		return nil, fmt.Errorf("failed to save index: %w", err)
	}

	b.logger.Info("index saved", "dir", dir, "rows", ix.Len())
	return ix, nil
}
