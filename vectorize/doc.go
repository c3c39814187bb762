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


// Package vectorize turns free-form text into fixed-dimension vectors.
//
// The default Hashing vectorizer is deterministic and corpus-independent:
// tokens are hashed into a fixed number of term-frequency buckets and the
// resulting vector is L2-normalized. The same text always produces the same
// vector, across calls and across process restarts. It makes no semantic
// claims; hash collisions are allowed by design.
//
// Vectorizer is an interface so a model-backed embedder can be substituted
// without touching the index or the retrieval pipeline.
package vectorize
