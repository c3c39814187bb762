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

package server

import "errors"

var (
	// ErrInvalidConfig indicates the server configuration failed validation.
	ErrInvalidConfig = errors.New("invalid server config")

	// ErrOrchestratorRequired indicates a nil orchestrator was provided.
	ErrOrchestratorRequired = errors.New("orchestrator is required")

	// ErrPipelineRequired indicates a nil ingest pipeline was provided.
	ErrPipelineRequired = errors.New("ingest pipeline is required")

	// ErrIndexRequired indicates a nil index was provided.
	ErrIndexRequired = errors.New("index is required")
)
