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


package index

import "errors"

var (
	// ErrNilDocument is returned when an upsert carries no document.
	ErrNilDocument = errors.New("document required")

	// ErrNotFound is returned by Get when the key is absent.
	ErrNotFound = errors.New("entry not found")

	// ErrBadSnapshot indicates a snapshot file that is not in the expected format.
	ErrBadSnapshot = errors.New("malformed snapshot")

	// ErrSnapshotVersion indicates a snapshot written by an unsupported format version.
	ErrSnapshotVersion = errors.New("unsupported snapshot version")

	// ErrSnapshotDimension indicates a snapshot whose vectors have a different dimension.
	ErrSnapshotDimension = errors.New("snapshot dimension mismatch")
)
