package retrieval

import "github.com/knowhaven/knowhaven/core"

// Fallback reasons reported on a Response when the policy triggers a web
// search. Listed in evaluation order.
const (
	ReasonNoLocalResults        = "no-local-results"
	ReasonBelowMinConfidence    = "below-min-confidence"
	ReasonInsufficientResults   = "insufficient-results"
	ReasonBelowTargetConfidence = "below-target-confidence"
)

// FallbackPolicy decides whether local results are good enough, or whether
// the orchestrator should reach out to web search.
//
// The policy has two tiers. The hard tier always applies: no results at
// all, average similarity below MinConfidence, or fewer results than half
// the requested topK. The soft tier, enabled by RequireTarget, additionally
// triggers whenever the average similarity misses TargetConfidence, trading
// latency for answer quality.
type FallbackPolicy struct {
	// MinConfidence is the average similarity below which local results
	// are considered unusable.
	MinConfidence float32

	// TargetConfidence is the average similarity the soft tier aims for.
	TargetConfidence float32

	// RequireTarget enables the soft tier.
	RequireTarget bool
}

// DefaultFallbackPolicy returns the policy used when none is configured:
// hard tier at 0.5, soft tier enabled at 0.8.
func DefaultFallbackPolicy() FallbackPolicy {
	return FallbackPolicy{
		MinConfidence:    0.5,
		TargetConfidence: 0.8,
		RequireTarget:    true,
	}
}

// Evaluate checks the local result quality against the policy. It returns
// whether a web search should run and, if so, the first matching reason.
func (p FallbackPolicy) Evaluate(stats core.SimilarityStats, topK int) (bool, string) {
	if stats.Count == 0 {
		return true, ReasonNoLocalResults
	}
	if stats.Average < p.MinConfidence {
		return true, ReasonBelowMinConfidence
	}
	if stats.Count < topK/2 {
		return true, ReasonInsufficientResults
	}
	if p.RequireTarget && stats.Average < p.TargetConfidence {
		return true, ReasonBelowTargetConfidence
	}
	return false, ""
}
