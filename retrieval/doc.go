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


// Package retrieval orchestrates the full question-answering pipeline.
//
// The Orchestrator type runs a multi-stage process for each query:
//   - Vectorize the query text and search the local index
//   - Evaluate a fallback policy against the local result quality
//   - Query an external web search adapter when the policy triggers
//   - Synthesize an answer from the combined context with a language model
//
// Retrieve never returns an error: every failure mode degrades to a
// response carrying whatever material was gathered plus a fallback answer.
package retrieval
