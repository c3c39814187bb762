package retrieval

import "github.com/knowhaven/knowhaven/core"

// Monitor provides hooks to observe the retrieval pipeline.
// Implement this interface to track intermediate steps and results.
type Monitor interface {
	Start(query string)
	AfterVectorize(vector []float32)
	AfterLocalSearch(results []*core.SearchResult)
	FallbackTriggered(reason string)
	AfterWebSearch(results []WebResult)
	AfterSynthesis(answer string)
	Finish(response *Response)
}

// noopMonitor is a no-op implementation of Monitor
type noopMonitor struct{}

var _ Monitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                          {}
func (n *noopMonitor) AfterVectorize(_ []float32)              {}
func (n *noopMonitor) AfterLocalSearch(_ []*core.SearchResult) {}
func (n *noopMonitor) FallbackTriggered(_ string)              {}
func (n *noopMonitor) AfterWebSearch(_ []WebResult)            {}
func (n *noopMonitor) AfterSynthesis(_ string)                 {}
func (n *noopMonitor) Finish(_ *Response)                      {}
