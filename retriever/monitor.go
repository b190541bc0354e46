package retriever

import (
	"github.com/avallon/claimlens/core"
	"github.com/avallon/claimlens/vecindex"
)

// QueryMonitor provides hooks to observe the retrieval process.
// Implement this interface to track intermediate steps during a query.
type QueryMonitor interface {
	Start(transcript string, k int)
	AfterEmbedding(vector []float32)
	AfterSearch(hits []vecindex.Hit)
	Finish(results []core.SimilarityResult)
}

// noopMonitor is a no-op implementation of QueryMonitor
type noopMonitor struct{}

var _ QueryMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string, _ int)            {}
func (n *noopMonitor) AfterEmbedding(_ []float32)       {}
func (n *noopMonitor) AfterSearch(_ []vecindex.Hit)     {}
func (n *noopMonitor) Finish(_ []core.SimilarityResult) {}
