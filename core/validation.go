// Copyright 2025 Knowhaven Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package core

import (
	"fmt"
	"strings"
	"time"
)

// ValidateDocument validates a Document according to domain rules.
//
// Validation rules:
//   - At least one of Body or Summary must be non-empty
//   - AcquiredAt must not be in the future
//
// NOT validated:
//   - ID (0 is a legal content hash)
//   - Title and Tags (optional, folded into the embedding when present)
func ValidateDocument(doc *Document) error {
	if doc == nil {
		return fmt.Errorf("%w: document is nil", ErrInvalidDocument)
	}

	if strings.TrimSpace(doc.Body) == "" && strings.TrimSpace(doc.Summary) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrEmptyContent)
	}

	if !IsValidTimestamp(doc.AcquiredAt) {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrInvalidTimestamp)
	}

	return nil
}

// ValidateQuery validates a Query according to domain rules.
//
// Validation rules:
//   - Text must not be empty or whitespace only
//   - TopK must be at least 1
func ValidateQuery(query *Query) error {
	if query == nil {
		return fmt.Errorf("%w: query is nil", ErrInvalidQuery)
	}

	if strings.TrimSpace(query.Text) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidQuery, ErrEmptyQueryText)
	}

	if query.TopK < 1 {
		return fmt.Errorf("%w: %w: value %d", ErrInvalidQuery, ErrInvalidTopK, query.TopK)
	}

	return nil
}

// ValidateVector checks that a vector has exactly VectorDimension elements.
func ValidateVector(vector []float32) error {
	if len(vector) != VectorDimension {
		return fmt.Errorf("%w: expected %d, got %d", ErrDimensionMismatch, VectorDimension, len(vector))
	}
	return nil
}

// IsValidTimestamp checks if a timestamp is valid (zero or not in the future).
func IsValidTimestamp(ts time.Time) bool {
	return ts.IsZero() || !ts.After(time.Now())
}
