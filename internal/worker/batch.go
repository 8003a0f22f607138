package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/ppiankov/archivist/internal/model"
)

// Lookuper resolves one query to a dossier
type Lookuper interface {
	Lookup(ctx context.Context, query string) (*model.Dossier, error)
}

// LookupJob is a single query submitted to the pool
type LookupJob struct {
	Index    int
	Query    string
	Lookuper Lookuper
}

// Execute runs the lookup
func (j *LookupJob) Execute(ctx context.Context) Result {
	dossier, err := j.Lookuper.Lookup(ctx, j.Query)
	if err != nil {
		return &LookupResult{Index: j.Index, Query: j.Query, Error: err}
	}
	return &LookupResult{Index: j.Index, Query: j.Query, Dossier: dossier}
}

// LookupResult is the outcome of one query
type LookupResult struct {
	Index   int
	Query   string
	Dossier *model.Dossier
	Error   error
}

// GetError returns the lookup error, if any
func (r *LookupResult) GetError() error {
	return r.Error
}

// BatchProcessor runs many lookups concurrently
type BatchProcessor struct {
	lookuper    Lookuper
	concurrency int
}

// NewBatchProcessor creates a batch processor with the given worker count
func NewBatchProcessor(lookuper Lookuper, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		lookuper:    lookuper,
		concurrency: concurrency,
	}
}

// ProcessQueries looks up every query and returns results in input order.
// Queries not run because ctx was cancelled carry ctx's error.
func (b *BatchProcessor) ProcessQueries(ctx context.Context, queries []string) []*LookupResult {
	if len(queries) == 0 {
		return []*LookupResult{}
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()
	defer pool.Shutdown()

	go func() {
		defer pool.Close()
		for i, query := range queries {
			if !pool.Submit(&LookupJob{Index: i, Query: query, Lookuper: b.lookuper}) {
				return
			}
		}
	}()

	ordered := make([]*LookupResult, len(queries))
	for result := range pool.Results() {
		r := result.(*LookupResult)
		ordered[r.Index] = r
	}

	for i, r := range ordered {
		if r == nil {
			err := ctx.Err()
			if err == nil {
				err = context.Canceled
			}
			ordered[i] = &LookupResult{Index: i, Query: queries[i], Error: err}
		}
	}

	return ordered
}

// ProcessFile reads queries from a file and looks them up
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string) ([]*LookupResult, error) {
	queries, err := ReadQueriesFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read queries: %w", err)
	}

	return b.ProcessQueries(ctx, queries), nil
}

// ReadQueriesFromFile reads one query per line, skipping blank lines and
// #-comments. Duplicate lines are dropped.
func ReadQueriesFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var queries []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if !seen[line] {
			seen[line] = true
			queries = append(queries, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return queries, nil
}
