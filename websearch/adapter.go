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

package websearch

import "context"

// Result is a single hit returned by an external search provider.
type Result struct {
	Title   string
	URL     string
	Snippet string
	Source  string
}

// Adapter queries an external search provider. Implementations return at
// most count results and must honor ctx cancellation.
type Adapter interface {
	Search(ctx context.Context, query string, count int) ([]Result, error)
}
