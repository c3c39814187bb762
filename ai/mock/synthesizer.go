package mock

import (
	"context"
	"fmt"
	"sync/atomic"
)

// MockSynthesizer is a test double for ai.Synthesizer.
// It allows custom behavior injection via function fields.
type MockSynthesizer struct {
	// GenerateFunc is called by Generate if set.
	// If nil, a deterministic canned answer is returned.
	GenerateFunc func(ctx context.Context, prompt string) (string, error)

	callCount atomic.Int64
}

// NewMockSynthesizer creates a mock synthesizer with default deterministic behavior.
func NewMockSynthesizer() *MockSynthesizer {
	return &MockSynthesizer{}
}

// Generate returns a canned answer derived from the prompt length, or
// delegates to GenerateFunc when set.
func (m *MockSynthesizer) Generate(ctx context.Context, prompt string) (string, error) {
	m.callCount.Add(1)

	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, prompt)
	}

	return fmt.Sprintf("mock answer (prompt length %d)", len(prompt)), nil
}

// CallCount returns the number of times Generate was called.
func (m *MockSynthesizer) CallCount() int {
	return int(m.callCount.Load())
}

// Reset clears the call count and any injected behavior.
func (m *MockSynthesizer) Reset() {
	m.callCount.Store(0)
	m.GenerateFunc = nil
}
