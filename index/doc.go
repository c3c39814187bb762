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


// Package index provides the in-memory vector index.
//
// The index stores (vector, document) pairs keyed by document ID and answers
// nearest-neighbor queries by brute-force cosine similarity. Search cost is
// O(N*D) per query, which is fine for the small-to-moderate corpora this
// system targets; an approximate structure can replace it behind the same
// interface without changing the score contract.
//
// All operations are safe for concurrent use. Atomicity is per key: a search
// racing an upsert may see the old or the new pair for a key, never a torn
// one. Snapshots give durability across restarts; Save and Load must not run
// concurrently with each other or with heavy write traffic.
package index
