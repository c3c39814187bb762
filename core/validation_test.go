package core

import (
	"errors"
	"testing"
	"time"
)

func TestValidateDocument(t *testing.T) {
	now := time.Now().UTC()

	tests := []struct {
		name    string
		doc     *Document
		wantErr error
	}{
		{
			name: "valid document",
			doc: &Document{
				Title:      "Go concurrency",
				Body:       "Goroutines are lightweight threads.",
				AcquiredAt: now,
			},
			wantErr: nil,
		},
		{
			name:    "nil document",
			doc:     nil,
			wantErr: ErrInvalidDocument,
		},
		{
			name: "no body but summary present",
			doc: &Document{
				Title:      "Summary only",
				Summary:    "A short summary stands in for the body.",
				AcquiredAt: now,
			},
			wantErr: nil,
		},
		{
			name: "empty body and summary",
			doc: &Document{
				Title:      "Empty",
				Body:       "   ",
				AcquiredAt: now,
			},
			wantErr: ErrEmptyContent,
		},
		{
			name: "future timestamp",
			doc: &Document{
				Body:       "content",
				AcquiredAt: now.Add(24 * time.Hour),
			},
			wantErr: ErrInvalidTimestamp,
		},
		{
			name: "zero timestamp is allowed",
			doc: &Document{
				Body: "content without acquisition time",
			},
			wantErr: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDocument(tt.doc)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateDocument() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateDocument() error = %v, want %v", err, tt.wantErr)
			}
			if !errors.Is(err, ErrInvalidDocument) {
				t.Errorf("ValidateDocument() error %v should wrap ErrInvalidDocument", err)
			}
		})
	}
}

func TestValidateQuery(t *testing.T) {
	tests := []struct {
		name    string
		query   *Query
		wantErr error
	}{
		{
			name:    "valid query",
			query:   &Query{Text: "what is a goroutine", TopK: 5},
			wantErr: nil,
		},
		{
			name:    "nil query",
			query:   nil,
			wantErr: ErrInvalidQuery,
		},
		{
			name:    "empty text",
			query:   &Query{Text: "  ", TopK: 5},
			wantErr: ErrEmptyQueryText,
		},
		{
			name:    "zero topK",
			query:   &Query{Text: "anything", TopK: 0},
			wantErr: ErrInvalidTopK,
		},
		{
			name:    "negative topK",
			query:   &Query{Text: "anything", TopK: -3},
			wantErr: ErrInvalidTopK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateQuery(tt.query)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateQuery() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateQuery() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateVector(t *testing.T) {
	if err := ValidateVector(make([]float32, VectorDimension)); err != nil {
		t.Errorf("ValidateVector() unexpected error for correct dimension: %v", err)
	}

	err := ValidateVector(make([]float32, 3))
	if !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("ValidateVector() error = %v, want ErrDimensionMismatch", err)
	}

	err = ValidateVector(nil)
	if !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("ValidateVector() error = %v, want ErrDimensionMismatch", err)
	}
}
