package retriever

import "errors"

var (
	// ErrEmbedderRequired indicates no embedder was supplied.
	ErrEmbedderRequired = errors.New("embedder is required")

	// ErrNotReady indicates a query arrived before a snapshot was loaded.
	ErrNotReady = errors.New("retriever has no index loaded")

	// ErrModelMismatch indicates the snapshot was built by a different
	// embedding model than the retriever's embedder.
	ErrModelMismatch = errors.New("index model does not match embedder model")
)
