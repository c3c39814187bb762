package retrieval

import (
	"context"
	"log/slog"
	"time"

	"github.com/knowhaven/knowhaven/ai"
	"github.com/knowhaven/knowhaven/core"
	"github.com/knowhaven/knowhaven/index"
	"github.com/knowhaven/knowhaven/vectorize"
	"github.com/knowhaven/knowhaven/websearch"
)

const (
	defaultWebResultCount   = 3
	defaultWebTimeout       = 10 * time.Second
	defaultSynthesisTimeout = 30 * time.Second
	defaultAskTopK          = 5
)

// Orchestrator answers queries by combining local vector search, web
// search fallback, and model-based answer synthesis.
type Orchestrator struct {
	index       *index.Index
	vectorizer  vectorize.Vectorizer
	web         websearch.Adapter
	synthesizer ai.Synthesizer

	policy           FallbackPolicy
	webResultCount   int
	webTimeout       time.Duration
	synthesisTimeout time.Duration
	logger           *slog.Logger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) error {
		if logger == nil {
			logger = slog.Default()
		}
		o.logger = logger
		return nil
	}
}

// WithFallbackPolicy replaces the default fallback policy.
func WithFallbackPolicy(policy FallbackPolicy) Option {
	return func(o *Orchestrator) error {
		o.policy = policy
		return nil
	}
}

// WithWebResultCount sets how many web results are requested on fallback.
// Default is 3.
func WithWebResultCount(count int) Option {
	return func(o *Orchestrator) error {
		if count > 0 {
			o.webResultCount = count
		}
		return nil
	}
}

// WithWebSearchTimeout bounds each web search call. Default is 10s.
func WithWebSearchTimeout(timeout time.Duration) Option {
	return func(o *Orchestrator) error {
		if timeout > 0 {
			o.webTimeout = timeout
		}
		return nil
	}
}

// WithSynthesisTimeout bounds each synthesis call. Default is 30s.
func WithSynthesisTimeout(timeout time.Duration) Option {
	return func(o *Orchestrator) error {
		if timeout > 0 {
			o.synthesisTimeout = timeout
		}
		return nil
	}
}

// New creates an orchestrator over the given collaborators. synthesizer
// may be nil, in which case every answer is the deterministic template.
func New(
	idx *index.Index,
	vectorizer vectorize.Vectorizer,
	web websearch.Adapter,
	synthesizer ai.Synthesizer,
	opts ...Option,
) (*Orchestrator, error) {
	if idx == nil {
		return nil, ErrIndexRequired
	}
	if vectorizer == nil {
		return nil, ErrVectorizerRequired
	}
	if web == nil {
		return nil, ErrWebSearchRequired
	}

	o := &Orchestrator{
		index:            idx,
		vectorizer:       vectorizer,
		web:              web,
		synthesizer:      synthesizer,
		policy:           DefaultFallbackPolicy(),
		webResultCount:   defaultWebResultCount,
		webTimeout:       defaultWebTimeout,
		synthesisTimeout: defaultSynthesisTimeout,
		logger:           slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	o.logger = o.logger.With("component", "retrieval")

	return o, nil
}

// Retrieve runs the full pipeline for a query. It never returns an error:
// an invalid query or a total downstream failure yields a response whose
// Answer explains the situation.
func (o *Orchestrator) Retrieve(ctx context.Context, query core.Query) *Response {
	return o.RetrieveWithMonitor(ctx, query, nil)
}

// RetrieveWithMonitor runs the full pipeline with monitoring. The monitor
// receives callbacks at each stage.
func (o *Orchestrator) RetrieveWithMonitor(ctx context.Context, query core.Query, monitor Monitor) *Response {
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	start := time.Now()
	response := &Response{
		Query:     query.Text,
		Timestamp: start,
		Method:    MethodLocal,
	}
	defer func() {
		response.TotalTime = time.Since(start)
		monitor.Finish(response)
	}()

	monitor.Start(query.Text)

	if err := core.ValidateQuery(&query); err != nil {
		o.logger.Warn("rejected query", "query", query.Text, "err", err)
		response.Answer = apologyAnswer
		response.Method = MethodError
		return response
	}

	// 1. Local vector search
	searchStart := time.Now()
	vector := o.vectorizer.Vectorize(query.Text)
	monitor.AfterVectorize(vector)

	response.LocalResults = o.searchLocal(vector, query)
	response.SearchTime = time.Since(searchStart)
	response.Stats = core.ComputeStats(response.LocalResults)
	monitor.AfterLocalSearch(response.LocalResults)

	// 2. Fallback decision
	triggered, reason := o.policy.Evaluate(response.Stats, query.TopK)
	if triggered {
		response.FallbackTriggered = true
		response.FallbackReason = reason
		response.Method = MethodFallback
		monitor.FallbackTriggered(reason)
		o.logger.Info("fallback triggered",
			"query", query.Text,
			"reason", reason,
			"localResults", response.Stats.Count,
			"avgSimilarity", response.Stats.Average)

		// 3. Web search
		webStart := time.Now()
		response.WebResults = o.searchWeb(ctx, query.Text)
		response.WebSearchTime = time.Since(webStart)
		monitor.AfterWebSearch(response.WebResults)
	}

	// 4. Answer synthesis
	synthesisStart := time.Now()
	response.Answer = o.synthesize(ctx, query.Text, response.LocalResults, response.WebResults)
	response.SynthesisTime = time.Since(synthesisStart)
	monitor.AfterSynthesis(response.Answer)

	o.logger.Info("retrieval complete",
		"query", query.Text,
		"localResults", len(response.LocalResults),
		"webResults", len(response.WebResults),
		"method", response.Method)

	return response
}

// Ask is a convenience wrapper: it retrieves with default parameters and
// returns only the synthesized answer.
func (o *Orchestrator) Ask(ctx context.Context, question string) string {
	response := o.Retrieve(ctx, core.Query{Text: question, TopK: defaultAskTopK})
	return response.Answer
}

// searchLocal queries the index and applies the query's filters. When a
// filter is active the candidate pool is widened so filtering happens
// before the final cut to topK.
func (o *Orchestrator) searchLocal(vector []float32, query core.Query) []*core.SearchResult {
	filtered := query.ContentType != "" || query.ProcessedOnly || query.MinSimilarity > 0

	poolK := query.TopK
	if filtered {
		poolK = o.index.Count()
		if poolK < query.TopK {
			poolK = query.TopK
		}
	}

	candidates := o.index.Search(vector, poolK)
	if !filtered {
		return candidates
	}

	results := make([]*core.SearchResult, 0, query.TopK)
	for _, candidate := range candidates {
		if query.MinSimilarity > 0 && candidate.Score < query.MinSimilarity {
			break
		}
		doc := candidate.Document
		if query.ContentType != "" && doc.ContentType != query.ContentType {
			continue
		}
		if query.ProcessedOnly && !doc.Processed {
			continue
		}
		results = append(results, candidate)
		if len(results) == query.TopK {
			break
		}
	}
	return results
}

// searchWeb queries the external adapter. Failures are logged and produce
// an empty result set rather than aborting the pipeline.
func (o *Orchestrator) searchWeb(ctx context.Context, query string) []WebResult {
	webCtx, cancel := context.WithTimeout(ctx, o.webTimeout)
	defer cancel()

	hits, err := o.web.Search(webCtx, query, o.webResultCount)
	if err != nil {
		o.logger.Warn("web search failed", "query", query, "err", err)
		return nil
	}

	now := time.Now()
	results := make([]WebResult, 0, len(hits))
	for _, hit := range hits {
		results = append(results, WebResult{
			Title:      hit.Title,
			URL:        hit.URL,
			Snippet:    hit.Snippet,
			Source:     hit.Source,
			Relevance:  externalRelevance,
			SearchedAt: now,
		})
	}
	return results
}

// synthesize generates the final answer. When the model call fails the
// answer degrades to a listing of the gathered material.
func (o *Orchestrator) synthesize(ctx context.Context, question string, local []*core.SearchResult, web []WebResult) string {
	contextBlock := buildContext(local, web)
	if contextBlock == "" {
		return noContextAnswer
	}
	if o.synthesizer == nil {
		return templateAnswer(local, web)
	}

	synthCtx, cancel := context.WithTimeout(ctx, o.synthesisTimeout)
	defer cancel()

	answer, err := o.synthesizer.Generate(synthCtx, buildPrompt(question, contextBlock))
	if err != nil || answer == "" {
		o.logger.Warn("synthesis failed, using template answer", "question", question, "err", err)
		return templateAnswer(local, web)
	}
	return answer
}
