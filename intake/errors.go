package intake

import "errors"

var (
	// ErrRepositoryRequired indicates no claim repository was supplied.
	ErrRepositoryRequired = errors.New("claim repository is required")

	// ErrProviderRequired indicates no AI provider was supplied.
	ErrProviderRequired = errors.New("AI provider is required")

	// ErrRetrieverRequired indicates no retriever was supplied.
	ErrRetrieverRequired = errors.New("retriever is required")
)
