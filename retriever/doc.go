// Package retriever serves similarity queries against a persisted index
// snapshot. A retriever starts unloaded and refuses queries until Load has
// verified a snapshot against the embedder's model identity. Loaded
// snapshots are immutable and swapped atomically on reload, so queries and
// reloads can run concurrently.
package retriever
