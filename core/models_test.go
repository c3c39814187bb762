package core

import (
	"testing"
)

func TestIDFromContent(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "same content produces same ID",
			content: "test content",
		},
		{
			name:    "empty string",
			content: "",
		},
		{
			name:    "long content",
			content: "This is a much longer piece of content that should still hash consistently",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id1 := IDFromContent(tt.content)
			id2 := IDFromContent(tt.content)

			if id1 != id2 {
				t.Errorf("IDFromContent() produced different IDs for same content: %d vs %d", id1, id2)
			}
		})
	}
}

func TestIDFromContent_Different(t *testing.T) {
	id1 := IDFromContent("content1")
	id2 := IDFromContent("content2")

	if id1 == id2 {
		t.Errorf("IDFromContent() produced same ID for different content")
	}
}

func TestComputeStats(t *testing.T) {
	tests := []struct {
		name    string
		scores  []float32
		want    SimilarityStats
	}{
		{
			name:   "empty results",
			scores: nil,
			want:   SimilarityStats{},
		},
		{
			name:   "single result",
			scores: []float32{0.7},
			want:   SimilarityStats{Count: 1, Average: 0.7, Max: 0.7, Min: 0.7},
		},
		{
			name:   "multiple results",
			scores: []float32{0.9, 0.5, 0.7},
			want:   SimilarityStats{Count: 3, Average: 0.7, Max: 0.9, Min: 0.5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results := make([]*SearchResult, len(tt.scores))
			for i, score := range tt.scores {
				results[i] = &SearchResult{Score: score}
			}

			got := ComputeStats(results)
			if got.Count != tt.want.Count {
				t.Errorf("ComputeStats() Count = %v, want %v", got.Count, tt.want.Count)
			}
			if diff := got.Average - tt.want.Average; diff > 1e-6 || diff < -1e-6 {
				t.Errorf("ComputeStats() Average = %v, want %v", got.Average, tt.want.Average)
			}
			if got.Max != tt.want.Max {
				t.Errorf("ComputeStats() Max = %v, want %v", got.Max, tt.want.Max)
			}
			if got.Min != tt.want.Min {
				t.Errorf("ComputeStats() Min = %v, want %v", got.Min, tt.want.Min)
			}
		})
	}
}
