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

import "errors"

// Domain validation errors
var (
	// ErrInvalidDocument indicates a Document failed validation.
	ErrInvalidDocument = errors.New("invalid document")

	// ErrInvalidQuery indicates a Query failed validation.
	ErrInvalidQuery = errors.New("invalid query")

	// ErrEmptyContent indicates a document has neither body nor summary text.
	ErrEmptyContent = errors.New("document has no content")

	// ErrEmptyQueryText indicates the query text is empty or whitespace only.
	ErrEmptyQueryText = errors.New("query text cannot be empty")

	// ErrInvalidTopK indicates a requested result count below 1.
	ErrInvalidTopK = errors.New("topK must be at least 1")

	// ErrDimensionMismatch indicates a vector whose length differs from VectorDimension.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")

	// ErrInvalidTimestamp indicates a timestamp is in the future.
	ErrInvalidTimestamp = errors.New("timestamp cannot be in the future")
)
