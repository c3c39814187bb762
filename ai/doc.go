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


// Package ai defines the interfaces for language-model services.
//
// The retrieval pipeline consumes a Synthesizer to turn retrieved context
// into a natural-language answer, and optionally an Embedder when a
// model-backed vectorizer replaces the default hashing one. Both are
// interfaces so deployments can point at any OpenAI-compatible service
// (Ollama, LocalAI, vLLM, hosted APIs) or at mocks in tests.
//
// Subpackages:
//   - openai: implementations backed by OpenAI-compatible APIs via langchaingo
//   - mock: deterministic test doubles
package ai
