package retrieval

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/knowhaven/knowhaven/core"
)

func TestFallbackPolicy_Evaluate(t *testing.T) {
	policy := DefaultFallbackPolicy()

	tests := []struct {
		name       string
		stats      core.SimilarityStats
		topK       int
		wantFire   bool
		wantReason string
	}{
		{
			name:       "no results",
			stats:      core.SimilarityStats{},
			topK:       5,
			wantFire:   true,
			wantReason: ReasonNoLocalResults,
		},
		{
			name:       "average below minimum",
			stats:      core.SimilarityStats{Count: 5, Average: 0.4},
			topK:       5,
			wantFire:   true,
			wantReason: ReasonBelowMinConfidence,
		},
		{
			name:       "too few results for topK",
			stats:      core.SimilarityStats{Count: 2, Average: 0.95},
			topK:       10,
			wantFire:   true,
			wantReason: ReasonInsufficientResults,
		},
		{
			name:       "average below target",
			stats:      core.SimilarityStats{Count: 5, Average: 0.7},
			topK:       5,
			wantFire:   true,
			wantReason: ReasonBelowTargetConfidence,
		},
		{
			name:     "confident results",
			stats:    core.SimilarityStats{Count: 5, Average: 0.9},
			topK:     5,
			wantFire: false,
		},
		{
			name:     "single confident result for topK 1",
			stats:    core.SimilarityStats{Count: 1, Average: 0.85},
			topK:     1,
			wantFire: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fired, reason := policy.Evaluate(tt.stats, tt.topK)
			assert.Equal(t, tt.wantFire, fired)
			assert.Equal(t, tt.wantReason, reason)
		})
	}
}

func TestFallbackPolicy_SoftTierDisabled(t *testing.T) {
	policy := DefaultFallbackPolicy()
	policy.RequireTarget = false

	fired, reason := policy.Evaluate(core.SimilarityStats{Count: 5, Average: 0.7}, 5)
	assert.False(t, fired)
	assert.Empty(t, reason)

	// Hard tier still applies
	fired, reason = policy.Evaluate(core.SimilarityStats{Count: 5, Average: 0.4}, 5)
	assert.True(t, fired)
	assert.Equal(t, ReasonBelowMinConfidence, reason)
}
