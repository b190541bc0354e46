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


package intake

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"strings"

	"github.com/avallon/claimlens/ai"
	"github.com/avallon/claimlens/core"
	"github.com/avallon/claimlens/retriever"
	"github.com/avallon/claimlens/storage"
	"github.com/panjf2000/ants/v2"
)

// DefaultTopK is how many similar past cases are attached to each claim.
const DefaultTopK = 3

// Pipeline orchestrates claim intake: a transcript is stored immediately
// with status received, then analysed asynchronously. Analysis extracts
// structured fields, classifies the claim and retrieves similar past cases;
// on success the claim moves to analysed. Any analysis failure is logged
// and leaves the claim at received, so a later pass can retry it.
type Pipeline struct {
	claims     storage.ClaimRepository
	extractor  ai.FieldExtractor
	classifier ai.Classifier
	retriever  *retriever.Retriever
	pool       *ants.Pool
	topK       int
	logger     *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent analysis.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}

		if p.pool != nil {
			p.pool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithTopK sets how many similar past cases are attached to each claim.
// Default is DefaultTopK.
func WithTopK(k int) Option {
	return func(p *Pipeline) error {
		if k < 1 {
			k = DefaultTopK
		}
		p.topK = k
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates a new intake pipeline.
func NewPipeline(
	claims storage.ClaimRepository,
	provider ai.Provider,
	ret *retriever.Retriever,
	opts ...Option,
) (*Pipeline, error) {
	if claims == nil {
		return nil, ErrRepositoryRequired
	}
	if provider == nil {
		return nil, ErrProviderRequired
	}
	if ret == nil {
		return nil, ErrRetrieverRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		claims:     claims,
		extractor:  provider.FieldExtractor(),
		classifier: provider.Classifier(),
		retriever:  ret,
		pool:       pool,
		topK:       DefaultTopK,
		logger:     slog.Default(),
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	return p, nil
}

// Submit stores the transcript as a new claim and queues it for analysis.
// It returns the stored claim with status received; analysis completes in
// the background. Analysis errors are logged but never fail the submission.
func (p *Pipeline) Submit(ctx context.Context, transcript string) (*core.Claim, error) {
	claim, err := p.store(ctx, transcript)
	if err != nil {
		return nil, err
	}

	id := claim.Id
	p.pool.Submit(func() {
		if err := p.analyse(context.Background(), id); err != nil {
			p.logger.Error("error analysing claim", "claimID", id, "err", err)
		}
	})

	return claim, nil
}

// Process stores the transcript as a new claim and analyses it
// synchronously, returning the analysed claim. Unlike Submit, an analysis
// failure is returned to the caller; the claim stays stored at received.
func (p *Pipeline) Process(ctx context.Context, transcript string) (*core.Claim, error) {
	claim, err := p.store(ctx, transcript)
	if err != nil {
		return nil, err
	}

	if err := p.analyse(ctx, claim.Id); err != nil {
		return nil, err
	}

	return p.claims.GetClaim(ctx, claim.Id)
}

// store validates the transcript and persists a new received claim.
func (p *Pipeline) store(ctx context.Context, transcript string) (*core.Claim, error) {
	if strings.TrimSpace(transcript) == "" {
		return nil, core.ErrEmptyTranscript
	}

	claims, err := p.claims.AddClaims(ctx, &core.Claim{
		Transcript: transcript,
		Status:     core.StatusReceived,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to store claim: %w", err)
	}

	claim := claims[0]
	p.logger.Info("claim received", "claimID", claim.Id, "transcriptLen", len(transcript))
	return claim, nil
}

// analyse runs extraction, classification and similarity retrieval for a
// stored claim, then persists the results and moves the claim to analysed.
func (p *Pipeline) analyse(ctx context.Context, id core.ID) error {
	claim, err := p.claims.GetClaim(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load claim: %w", err)
	}

	extracted, err := p.extractor.Extract(ctx, claim.Transcript)
	if err != nil {
		return fmt.Errorf("field extraction failed: %w", err)
	}

	classification, err := p.classifier.Classify(ctx, extracted, claim.Transcript)
	if err != nil {
		return fmt.Errorf("classification failed: %w", err)
	}

	similar, err := p.retriever.QuerySimilar(ctx, claim.Transcript, p.topK)
	if err != nil {
		return fmt.Errorf("similarity retrieval failed: %w", err)
	}

	claim.Extracted = extracted
	claim.Classification = classification
	claim.Similar = similar
	claim.Status = core.StatusAnalysed

	if _, err := p.claims.UpdateClaims(ctx, claim); err != nil {
		return fmt.Errorf("failed to persist analysis: %w", err)
	}

	p.logger.Info("claim analysed",
		"claimID", claim.Id,
		"label", classification.Label,
		"score", classification.Score,
		"similarCases", len(similar))
	return nil
}

// Release releases the worker pool. Queued analyses may be dropped; the
// affected claims stay at received. The pipeline should not be used after
// calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}
