package ai

import (
	"context"

	"github.com/avallon/claimlens/core"
)

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// The returned vector represents the semantic meaning of the text.
	// Empty text is not an error; it still produces a valid vector.
	// Returns an error if the embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// Batch processing is more efficient than calling EmbedText multiple times.
	// The returned slice contains embeddings in the same order as the input texts.
	// Returns an error if any embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)

	// Model reports the identity of the model producing the vectors.
	// Index snapshots are pinned to this identity: an index is only
	// searchable with the embedder that built it.
	Model() string
}

// FieldExtractor pulls structured claim fields out of a free-text transcript.
// Implementations must be thread-safe for concurrent use.
//
// Extracted values must be grounded in the transcript: a value the source
// text does not contain is dropped, never substituted with a guess.
type FieldExtractor interface {
	// Extract analyzes a transcript and returns the structured fields found in it.
	// Fields the transcript does not state are left empty.
	// Returns an error if extraction fails.
	Extract(ctx context.Context, transcript string) (core.ExtractedFields, error)
}

// Classifier assigns a validity verdict to a claim.
// Implementations must be thread-safe for concurrent use.
type Classifier interface {
	// Classify produces a label, confidence score and rationale for a claim,
	// given its extracted fields and the original transcript.
	// The returned label always parses to a known core.Label and the score
	// lies in [0, 1]; implementations reject malformed model output instead
	// of silently substituting a default verdict.
	Classify(ctx context.Context, fields core.ExtractedFields, transcript string) (core.Classification, error)
}

// Provider aggregates AI services for convenient initialization and lifecycle management.
// A provider creates and manages Embedder, FieldExtractor and Classifier
// instances, ensuring they share configuration and resources appropriately.
type Provider interface {
	// Embedder returns the text embedding service.
	// The returned Embedder is safe for concurrent use.
	Embedder() Embedder

	// FieldExtractor returns the claim field extraction service.
	// The returned FieldExtractor is safe for concurrent use.
	FieldExtractor() FieldExtractor

	// Classifier returns the claim classification service.
	// The returned Classifier is safe for concurrent use.
	Classifier() Classifier

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
