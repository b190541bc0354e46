package mock

import (
	"context"
	"strings"
	"sync"

	"github.com/avallon/claimlens/core"
)

// MockFieldExtractor is a test double for ai.FieldExtractor.
// It allows custom behavior injection via function fields.
type MockFieldExtractor struct {
	// ExtractFunc is called by Extract if set.
	// If nil, uses default heuristic behavior.
	ExtractFunc func(ctx context.Context, transcript string) (core.ExtractedFields, error)

	mu        sync.Mutex
	callCount int
}

// NewMockFieldExtractor creates a mock extractor with default behavior.
// Note: Returns concrete type to allow test assertions via GetMockExtractor().
func NewMockFieldExtractor() *MockFieldExtractor {
	return &MockFieldExtractor{}
}

// Extract returns simple fields derived from the transcript itself.
// Default behavior: the incident description is the transcript, and
// capitalized words become detected entities. Everything is grounded in the
// source text, matching the contract real extractors must honor.
func (m *MockFieldExtractor) Extract(ctx context.Context, transcript string) (core.ExtractedFields, error) {
	m.mu.Lock()
	m.callCount++
	m.mu.Unlock()

	if m.ExtractFunc != nil {
		return m.ExtractFunc(ctx, transcript)
	}

	fields := core.ExtractedFields{
		IncidentDescription: core.TruncatePreview(transcript),
	}

	for _, word := range strings.Fields(transcript) {
		word = strings.Trim(word, ".,!?;:\"'()[]{}")
		if word == "" {
			continue
		}
		first := rune(word[0])
		if first >= 'A' && first <= 'Z' {
			fields.DetectedEntities = append(fields.DetectedEntities, word)
		}
		if len(fields.DetectedEntities) >= 5 {
			break
		}
	}

	return fields, nil
}

// CallCount returns the number of times Extract was called.
func (m *MockFieldExtractor) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// Reset clears the call count and custom functions.
func (m *MockFieldExtractor) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount = 0
	m.ExtractFunc = nil
}
