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


// Package ingest feeds documents into the archive and the vector index.
//
// The Pipeline validates and persists incoming documents, vectorizes their
// combined text on a worker pool, and bulk-upserts the results into the
// index. Bad documents are isolated per item; one rejected document never
// aborts the rest of a batch.
package ingest
