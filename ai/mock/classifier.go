package mock

import (
	"context"
	"strings"
	"sync"

	"github.com/avallon/claimlens/core"
)

// MockClassifier is a test double for ai.Classifier.
// It allows custom behavior injection via function fields.
type MockClassifier struct {
	// ClassifyFunc is called by Classify if set.
	// If nil, uses default keyword behavior.
	ClassifyFunc func(ctx context.Context, fields core.ExtractedFields, transcript string) (core.Classification, error)

	mu        sync.Mutex
	callCount int
}

// NewMockClassifier creates a mock classifier with default behavior.
// Note: Returns concrete type to allow test assertions via GetMockClassifier().
func NewMockClassifier() *MockClassifier {
	return &MockClassifier{}
}

// Classify returns a deterministic verdict.
// Default behavior: transcripts mentioning "fraud" or "staged" are labeled
// fraudulent, everything else valid.
func (m *MockClassifier) Classify(ctx context.Context, fields core.ExtractedFields, transcript string) (core.Classification, error) {
	m.mu.Lock()
	m.callCount++
	m.mu.Unlock()

	if m.ClassifyFunc != nil {
		return m.ClassifyFunc(ctx, fields, transcript)
	}

	lower := strings.ToLower(transcript)
	if strings.Contains(lower, "fraud") || strings.Contains(lower, "staged") {
		return core.Classification{
			Label:     core.LabelFraudulent,
			Score:     0.9,
			Rationale: "transcript contains fraud indicators",
			NextSteps: []string{"escalate"},
		}, nil
	}

	return core.Classification{
		Label:     core.LabelValid,
		Score:     0.8,
		Rationale: "no fraud indicators found",
		NextSteps: []string{"approve"},
	}, nil
}

// CallCount returns the number of times Classify was called.
func (m *MockClassifier) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// Reset clears the call count and custom functions.
func (m *MockClassifier) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount = 0
	m.ClassifyFunc = nil
}
