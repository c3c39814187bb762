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

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	knowhaven "github.com/knowhaven/knowhaven"
	"github.com/knowhaven/knowhaven/ai"
	"github.com/knowhaven/knowhaven/core"
	"github.com/knowhaven/knowhaven/index"
	"github.com/knowhaven/knowhaven/ingest"
	"github.com/knowhaven/knowhaven/reindex"
	"github.com/knowhaven/knowhaven/server"
	"github.com/knowhaven/knowhaven/websearch"
)

func main() {
	app := &cli.App{
		Name:  "knowhaven",
		Usage: "Knowledge retrieval engine with vector search and web fallback",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Start the HTTP API server",
				Action: serveCommand,
				Flags: append(engineFlags(),
					&cli.StringFlag{
						Name:  "host",
						Usage: "Listen host (overrides KNOWHAVEN_SERVER_HOST)",
					},
					&cli.IntFlag{
						Name:  "port",
						Usage: "Listen port (overrides KNOWHAVEN_SERVER_PORT)",
					},
				),
			},
			{
				Name:   "ingest",
				Usage:  "Ingest documents from a JSON file into the archive and index",
				Action: ingestCommand,
				Flags: append(engineFlags(),
					&cli.StringFlag{
						Name:     "file",
						Aliases:  []string{"f"},
						Usage:    "Path to a JSON file holding an array of documents",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "pool-size",
						Usage: "Worker pool size for concurrent vectorization",
					},
				),
			},
			{
				Name:      "search",
				Usage:     "Run a retrieval query and print results and the answer",
				ArgsUsage: "<query>",
				Action:    searchCommand,
				Flags: append(engineFlags(),
					&cli.IntFlag{
						Name:  "top-k",
						Usage: "Number of local results to return",
						Value: 5,
					},
					&cli.Float64Flag{
						Name:  "min-similarity",
						Usage: "Drop local results below this similarity",
					},
					&cli.StringFlag{
						Name:  "content-type",
						Usage: "Restrict results to one content type",
					},
					&cli.BoolFlag{
						Name:  "processed-only",
						Usage: "Restrict results to processed documents",
					},
				),
			},
			{
				Name:      "ask",
				Usage:     "Ask a question and print only the synthesized answer",
				ArgsUsage: "<question>",
				Action:    askCommand,
				Flags:     engineFlags(),
			},
			{
				Name:   "rebuild",
				Usage:  "Rebuild the vector index from the document archive",
				Action: rebuildCommand,
				Flags: append(engineFlags(),
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of documents to process in each batch",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N documents",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts for failed archive reads",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 1 * time.Second,
					},
				),
			},
			{
				Name:  "snapshot",
				Usage: "Save or inspect index snapshot files",
				Subcommands: []*cli.Command{
					{
						Name:   "save",
						Usage:  "Rebuild the index from the archive and write a snapshot file",
						Action: snapshotSaveCommand,
						Flags: append(engineFlags(),
							&cli.StringFlag{
								Name:     "file",
								Aliases:  []string{"f"},
								Usage:    "Destination snapshot file",
								Required: true,
							},
						),
					},
					{
						Name:   "load",
						Usage:  "Load a snapshot file and print its contents summary",
						Action: snapshotLoadCommand,
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:     "file",
								Aliases:  []string{"f"},
								Usage:    "Snapshot file to load",
								Required: true,
							},
						},
					},
				},
			},
			{
				Name:   "stats",
				Usage:  "Print archive and index statistics",
				Action: statsCommand,
				Flags:  engineFlags(),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// engineFlags are shared by every command that opens the engine.
func engineFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "db",
			Aliases:  []string{"d"},
			Usage:    "Path to the BadgerDB archive directory",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "snapshot",
			Usage: "Path to the index snapshot file (loaded on start, saved on exit)",
		},
		&cli.StringFlag{
			Name:  "chat-host",
			Usage: "Answer-synthesis service host URL",
			Value: "http://localhost:11434/v1",
		},
		&cli.StringFlag{
			Name:  "chat-model",
			Usage: "Answer-synthesis model name",
			Value: "qwen2.5:3b",
		},
		&cli.StringFlag{
			Name:  "embedding-host",
			Usage: "Embedding service host URL (defaults to chat-host)",
		},
		&cli.StringFlag{
			Name:  "embedding-model",
			Usage: "Embedding model name",
			Value: "embeddinggemma",
		},
		&cli.BoolFlag{
			Name:  "model-embeddings",
			Usage: "Vectorize with the embedding model instead of term hashing",
		},
		&cli.StringFlag{
			Name:  "websearch-endpoint",
			Usage: "Web search provider endpoint (offline results when unset)",
		},
		&cli.StringFlag{
			Name:  "websearch-api-key",
			Usage: "API key for the web search provider",
		},
	}
}

// openEngine builds an Engine from the command-line flags.
func openEngine(c *cli.Context) (*knowhaven.Engine, error) {
	dbPath := c.String("db")
	if dbPath == "" {
		return nil, fmt.Errorf("database path is required")
	}

	embeddingHost := c.String("embedding-host")
	if embeddingHost == "" {
		embeddingHost = c.String("chat-host")
	}

	aiConfig := ai.NewConfig(
		ai.WithChatHost(c.String("chat-host")),
		ai.WithChatModel(c.String("chat-model")),
		ai.WithEmbeddingHost(embeddingHost),
		ai.WithEmbeddingModel(c.String("embedding-model")),
	)
	if err := aiConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}

	opts := []knowhaven.EngineOption{
		knowhaven.WithAIConfig(aiConfig),
	}
	if snapshot := c.String("snapshot"); snapshot != "" {
		opts = append(opts, knowhaven.WithSnapshotPath(snapshot))
	}
	if c.Bool("model-embeddings") {
		opts = append(opts, knowhaven.WithModelEmbeddings())
	}
	if endpoint := c.String("websearch-endpoint"); endpoint != "" {
		adapter, err := websearch.NewHTTP(endpoint,
			websearch.WithAPIKey(c.String("websearch-api-key")))
		if err != nil {
			return nil, fmt.Errorf("failed to create web search adapter: %w", err)
		}
		opts = append(opts, knowhaven.WithWebSearch(adapter))
	}

	engine, err := knowhaven.Open(dbPath, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to open engine: %w", err)
	}
	return engine, nil
}

func serveCommand(c *cli.Context) error {
	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	orch, err := engine.NewOrchestrator()
	if err != nil {
		return err
	}
	pipeline, err := engine.NewPipeline()
	if err != nil {
		return err
	}
	defer pipeline.Release()

	cfg, err := server.LoadConfig()
	if err != nil {
		return err
	}
	if host := c.String("host"); host != "" {
		cfg.Host = host
	}
	if port := c.Int("port"); port != 0 {
		cfg.Port = port
	}

	srv, err := server.New(orch, pipeline, engine.Index(), cfg,
		server.WithArchive(engine.Archive()))
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		slog.Info("shutting down", "signal", sig.String())
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Stop(shutdownCtx)
	}
}

// fileDocument is the JSON shape accepted by the ingest command.
type fileDocument struct {
	ID          uint64   `json:"id,omitempty"`
	Title       string   `json:"title"`
	Body        string   `json:"body"`
	Summary     string   `json:"summary,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	SourceURL   string   `json:"source_url,omitempty"`
	ContentType string   `json:"content_type,omitempty"`
}

func ingestCommand(c *cli.Context) error {
	ctx := context.Background()

	data, err := os.ReadFile(c.String("file"))
	if err != nil {
		return fmt.Errorf("failed to read input file: %w", err)
	}

	var inputs []fileDocument
	if err := json.Unmarshal(data, &inputs); err != nil {
		return fmt.Errorf("failed to parse input file: %w", err)
	}
	if len(inputs) == 0 {
		return fmt.Errorf("input file holds no documents")
	}

	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	var pipelineOpts []ingest.Option
	if size := c.Int("pool-size"); size > 0 {
		pipelineOpts = append(pipelineOpts, ingest.WithPoolSize(size))
	}
	pipeline, err := engine.NewPipeline(pipelineOpts...)
	if err != nil {
		return err
	}
	defer pipeline.Release()

	docs := make([]*core.Document, len(inputs))
	for i, in := range inputs {
		docs[i] = &core.Document{
			Id:          core.ID(in.ID),
			Title:       in.Title,
			Body:        in.Body,
			Summary:     in.Summary,
			Tags:        in.Tags,
			SourceURL:   in.SourceURL,
			ContentType: in.ContentType,
		}
	}

	report, err := pipeline.Ingest(ctx, docs...)
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}

	fmt.Printf("Ingested %d documents (%d failed)\n", report.Ingested, report.Failed)
	for id, msg := range report.Errors {
		fmt.Fprintf(os.Stderr, "  document %d: %s\n", uint64(id), msg)
	}
	return nil
}

func searchCommand(c *cli.Context) error {
	query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if query == "" {
		return fmt.Errorf("query is required")
	}

	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	orch, err := engine.NewOrchestrator()
	if err != nil {
		return err
	}

	response := orch.Retrieve(context.Background(), core.Query{
		Text:          query,
		TopK:          c.Int("top-k"),
		MinSimilarity: float32(c.Float64("min-similarity")),
		ContentType:   c.String("content-type"),
		ProcessedOnly: c.Bool("processed-only"),
	})

	fmt.Printf("Method: %s\n", response.Method)
	if response.FallbackTriggered {
		fmt.Printf("Fallback: %s\n", response.FallbackReason)
	}
	fmt.Println()

	for i, result := range response.LocalResults {
		fmt.Printf("%d. [%.3f] %s\n", i+1, result.Score, result.Document.Title)
	}
	for i, web := range response.WebResults {
		fmt.Printf("%d. [web:%s] %s\n", len(response.LocalResults)+i+1, web.Source, web.Title)
	}

	fmt.Printf("\n%s\n", response.Answer)
	return nil
}

func askCommand(c *cli.Context) error {
	question := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if question == "" {
		return fmt.Errorf("question is required")
	}

	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	orch, err := engine.NewOrchestrator()
	if err != nil {
		return err
	}

	fmt.Println(orch.Ask(context.Background(), question))
	return nil
}

func rebuildCommand(c *cli.Context) error {
	ctx := context.Background()

	config := &reindex.Config{
		BatchSize:      c.Int("batch-size"),
		ReportInterval: c.Int("report-interval"),
		MaxRetries:     c.Int("max-retries"),
		RetryDelay:     c.Duration("retry-delay"),
	}

	// Validate config
	if config.BatchSize <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}
	if config.ReportInterval <= 0 {
		return fmt.Errorf("report-interval must be greater than 0")
	}
	if config.MaxRetries <= 0 {
		return fmt.Errorf("max-retries must be greater than 0")
	}

	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	rebuilder, err := engine.NewRebuilder(config, os.Stderr)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Database: %s\n", c.String("db"))
	fmt.Fprintln(os.Stderr)

	if err := rebuilder.Run(ctx); err != nil {
		return fmt.Errorf("rebuild failed: %w", err)
	}
	return nil
}

func snapshotSaveCommand(c *cli.Context) error {
	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	rebuilder, err := engine.NewRebuilder(nil, os.Stderr)
	if err != nil {
		return err
	}
	if err := rebuilder.Run(context.Background()); err != nil {
		return fmt.Errorf("rebuild failed: %w", err)
	}

	path := c.String("file")
	if err := engine.Index().Save(path); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	fmt.Printf("Saved %d documents to %s\n", engine.Index().Count(), path)
	return nil
}

func snapshotLoadCommand(c *cli.Context) error {
	idx := index.New()
	if err := idx.Load(c.String("file")); err != nil {
		return fmt.Errorf("failed to load snapshot: %w", err)
	}

	fmt.Printf("Snapshot: %s\n", c.String("file"))
	fmt.Printf("Documents: %d\n", idx.Count())
	fmt.Printf("Vector dimension: %d\n", core.VectorDimension)
	return nil
}

func statsCommand(c *cli.Context) error {
	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	archived, err := engine.Archive().CountDocuments(context.Background())
	if err != nil {
		return fmt.Errorf("failed to count archived documents: %w", err)
	}

	fmt.Printf("Archived documents: %d\n", archived)
	fmt.Printf("Indexed documents:  %d\n", engine.Index().Count())
	fmt.Printf("Vector dimension:   %d\n", core.VectorDimension)
	return nil
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	// Map string to slog.Level
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	// Configure slog with the specified level
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
