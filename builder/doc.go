// Package builder turns a labeled claim corpus into a persisted vector
// index snapshot. It batches transcripts through an embedder with retry,
// preserves corpus order as index row order, and stamps every snapshot with
// the embedding model and a corpus fingerprint.
package builder
