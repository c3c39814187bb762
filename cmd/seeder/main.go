package main

import (
	"bufio"
	"context"
	"flag"
	"iter"
	"log/slog"
	"os"
	"strings"

	knowhaven "github.com/knowhaven/knowhaven"
	"github.com/knowhaven/knowhaven/core"
	"github.com/knowhaven/knowhaven/ingest"
)

var facts = []string{
	"Goroutines are lightweight threads managed by the Go runtime.",
	"Channels provide typed conduits for communication between goroutines.",
	"The context package carries deadlines and cancellation across API boundaries.",
	"Interfaces in Go are satisfied implicitly, without declarations.",
	"The defer statement schedules a call to run when the function returns.",
	"Slices are descriptors over arrays with a length and a capacity.",
	"Maps in Go are not safe for concurrent writes without synchronization.",
	"The select statement waits on multiple channel operations at once.",
	"Cosine similarity measures the angle between two vectors, not their length.",
	"Term-frequency vectors count how often each token appears in a text.",
	"Hash bucketing maps an unbounded vocabulary onto a fixed vector dimension.",
	"L2 normalization scales a vector to unit length.",
	"An inverted index maps terms to the documents that contain them.",
	"Embeddings place semantically similar texts near each other in vector space.",
	"Retrieval-augmented generation grounds model answers in retrieved context.",
	"A fallback search widens the net when local results are weak.",
	"Write-ahead logs let a database recover committed state after a crash.",
	"LSM trees batch writes in memory and merge them into sorted files.",
	"Snapshots trade write amplification for fast restart recovery.",
	"Exponential backoff spaces out retries to avoid hammering a failing service.",
	"Checkpointing lets a long batch job resume where it stopped.",
	"Worker pools bound the concurrency of CPU-heavy stages.",
	"Content-based IDs make ingestion idempotent.",
	"Pagination with a stable sort order prevents skipped or duplicated rows.",
	"Graceful shutdown drains in-flight requests before closing the listener.",
	"Structured logging attaches key-value context to every message.",
	"Health endpoints let load balancers detect unresponsive instances.",
	"Timeouts turn unbounded waits into explicit failures.",
	"Sentinel errors support errors.Is checks across package boundaries.",
	"Functional options keep constructors extensible without breaking callers.",
	"Table-driven tests cover many cases with one assertion body.",
	"In-memory databases keep integration tests fast and hermetic.",
	"Binary serialization avoids the overhead of text encoding on hot paths.",
	"Varint encoding stores small integers in fewer bytes.",
	"Atomic file renames make snapshot writes crash-safe.",
	"Big-endian keys make lexicographic and numeric order agree.",
	"Prefix iteration scans one keyspace without touching its neighbors.",
	"Cursor-style resume tokens survive process restarts.",
	"Zero vectors carry no signal and score zero against everything.",
	"Deterministic vectorization means identical text always produces identical vectors.",
}

var (
	seedFileName = flag.String("src", "", "file of seed data, one document body per line")
	dbPath       = flag.String("db", "./knowhaven_db", "path to the archive directory")
)

func init() {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(handler))
	flag.Parse()
}

// linesFromFile returns an iterator over lines in a file.
func linesFromFile(filename string) (iter.Seq[string], error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}

	return func(yield func(string) bool) {
		defer f.Close()
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			if !yield(scanner.Text()) {
				return
			}
		}
	}, nil
}

// linesFromSlice returns an iterator over a slice of strings.
func linesFromSlice(lines []string) iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, line := range lines {
			if !yield(line) {
				return
			}
		}
	}
}

// documentFromLine turns one seed line into a document. The title is the
// leading words of the body, which keeps seeded entries recognizable in
// search output.
func documentFromLine(line string) *core.Document {
	words := strings.Fields(line)
	titleLen := len(words)
	if titleLen > 5 {
		titleLen = 5
	}
	return &core.Document{
		Title:       strings.Join(words[:titleLen], " "),
		Body:        line,
		ContentType: "seed",
		Success:     true,
	}
}

// ingestBatched reads from a source iterator and ingests documents in batches.
func ingestBatched(ctx context.Context, pipeline *ingest.Pipeline, source iter.Seq[string], batchSize int) error {
	batch := make([]*core.Document, 0, batchSize)

	for line := range source {
		if strings.TrimSpace(line) == "" {
			continue
		}
		batch = append(batch, documentFromLine(line))
		if len(batch) == batchSize {
			if _, err := pipeline.Ingest(ctx, batch...); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}

	// Process any remaining lines
	if len(batch) > 0 {
		if _, err := pipeline.Ingest(ctx, batch...); err != nil {
			return err
		}
	}

	return nil
}

func main() {
	engine, err := knowhaven.Open(*dbPath)
	if err != nil {
		panic(err)
	}
	defer engine.Close()

	pipeline, err := engine.NewPipeline()
	if err != nil {
		panic(err)
	}
	defer pipeline.Release()

	ctx := context.Background()

	// Determine source of seed data
	var source iter.Seq[string]
	if seedFileName != nil && *seedFileName != "" {
		source, err = linesFromFile(*seedFileName)
		if err != nil {
			panic(err)
		}
	} else {
		source = linesFromSlice(facts)
	}

	// Ingest in batches of 5
	if err := ingestBatched(ctx, pipeline, source, 5); err != nil {
		panic(err)
	}
}
