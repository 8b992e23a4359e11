package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/examprep/internal/core/domain"
	"github.com/custodia-labs/examprep/internal/core/ports/driven"
	"github.com/custodia-labs/examprep/internal/core/ports/driving"
	"github.com/custodia-labs/examprep/internal/fanout"
	"github.com/custodia-labs/examprep/internal/logger"
	"github.com/custodia-labs/examprep/internal/normalisers/vision"
	"github.com/custodia-labs/examprep/internal/postprocessors/chunker"
)

// Ensure IndexingService implements the interface.
var _ driving.Indexer = (*IndexingService)(nil)

// ErrWriteIncomplete indicates the vector store rejected a batch part way
// through the final upsert. The summary still reports what was written.
var ErrWriteIncomplete = errors.New("vector store write incomplete")

// IndexingService turns vision-processed markdown into vector records.
type IndexingService struct {
	embedder   driven.EmbeddingService
	collection driven.Collection
	normaliser *vision.Normaliser
	chunker    *chunker.Processor
	limiter    *fanout.Limiter
	embedBatch int
	writeBatch int
	newID      func() string
}

// IndexerOption configures the indexing service.
type IndexerOption func(*IndexingService)

// WithEmbedConcurrency bounds in-flight embedding calls across all files.
func WithEmbedConcurrency(n int) IndexerOption {
	return func(s *IndexingService) {
		s.limiter = fanout.NewLimiter(n)
	}
}

// WithBatchSizes sets the embedding and write batch sizes.
func WithBatchSizes(embed, write int) IndexerOption {
	return func(s *IndexingService) {
		if embed > 0 {
			s.embedBatch = embed
		}
		if write > 0 {
			s.writeBatch = write
		}
	}
}

// WithNormaliser replaces the page parser.
func WithNormaliser(n *vision.Normaliser) IndexerOption {
	return func(s *IndexingService) {
		if n != nil {
			s.normaliser = n
		}
	}
}

// WithChunker replaces the text splitter.
func WithChunker(c *chunker.Processor) IndexerOption {
	return func(s *IndexingService) {
		if c != nil {
			s.chunker = c
		}
	}
}

// WithIDGenerator replaces the record id source.
func WithIDGenerator(fn func() string) IndexerOption {
	return func(s *IndexingService) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// NewIndexingService creates a new indexing service writing to collection.
func NewIndexingService(
	embedder driven.EmbeddingService,
	collection driven.Collection,
	opts ...IndexerOption,
) *IndexingService {
	s := &IndexingService{
		embedder:   embedder,
		collection: collection,
		normaliser: vision.New(),
		chunker:    chunker.New(),
		limiter:    fanout.NewLimiter(domain.DefaultEmbedConcurrency),
		embedBatch: domain.DefaultEmbedBatchSize,
		writeBatch: domain.DefaultWriteBatchSize,
		newID:      uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// fileResult is the outcome of preparing one file.
type fileResult struct {
	path    string
	records []domain.VectorRecord
	chunks  int
	err     error
}

// embedResult is the outcome of one embedding batch.
type embedResult struct {
	vectors [][]float32
	err     error
}

// IndexDir embeds every file concurrently, then writes all surviving
// records sequentially. Nothing is written until every file is done.
func (s *IndexingService) IndexDir(ctx context.Context, dir string) (*domain.IndexSummary, error) {
	logger.Section("Indexing")

	files, err := vision.FindFiles(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: input directory %q: %v", domain.ErrInvalidInput, dir, err)
	}

	summary := &domain.IndexSummary{FilesFound: len(files)}
	if len(files) == 0 {
		return summary, nil
	}

	logger.Info("processing %d files (embedding concurrency: %d)", len(files), s.limiter.Size())
	start := time.Now()

	// One goroutine per file; the shared limiter bounds the embedding calls.
	results, err := fanout.Map(ctx, nil, files, s.prepareFile)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	logger.Info("all files processed in %s", time.Since(start).Round(time.Millisecond))

	var records []domain.VectorRecord
	for _, r := range results {
		switch {
		case r.err != nil:
			summary.FilesDropped++
			logger.Error("skipping file %s: %v", r.path, r.err)
		case len(r.records) > 0:
			summary.FilesIndexed++
			records = append(records, r.records...)
		default:
			logger.Info("no chunks produced for %s", r.path)
		}
	}
	summary.RecordsPrepared = len(records)

	written, err := s.write(ctx, records)
	summary.RecordsWritten = written
	if err != nil {
		return summary, err
	}
	return summary, nil
}

func (s *IndexingService) prepareFile(ctx context.Context, path string) fileResult {
	res := fileResult{path: path}

	content, err := os.ReadFile(path)
	if err != nil {
		res.err = err
		return res
	}

	docName := vision.DocumentName(path)
	var chunks []domain.Chunk
	for _, page := range s.normaliser.Normalise(docName, string(content)) {
		chunks = append(chunks, s.chunker.ChunkPage(docName, page)...)
	}
	res.chunks = len(chunks)
	if len(chunks) == 0 {
		return res
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}
	batches := batchStrings(texts, s.embedBatch)
	logger.Debug("%s: embedding %d chunks in %d batches", docName, len(chunks), len(batches))

	embedded, err := fanout.Map(ctx, s.limiter, batches, s.embedBatchFn)
	if err != nil {
		res.err = err
		return res
	}

	vectors := make([][]float32, 0, len(chunks))
	for i, b := range embedded {
		if b.err != nil {
			res.err = fmt.Errorf("embedding batch %d: %w", i+1, b.err)
			return res
		}
		if len(b.vectors) != len(batches[i]) {
			res.err = fmt.Errorf("%w: batch %d expected %d, got %d",
				domain.ErrEmbeddingMismatch, i+1, len(batches[i]), len(b.vectors))
			return res
		}
		vectors = append(vectors, b.vectors...)
	}
	if len(vectors) != len(chunks) {
		res.err = fmt.Errorf("%w: expected %d, got %d", domain.ErrEmbeddingMismatch, len(chunks), len(vectors))
		return res
	}

	res.records = make([]domain.VectorRecord, len(chunks))
	for i, c := range chunks {
		res.records[i] = domain.VectorRecord{
			ID:        s.newID(),
			Embedding: vectors[i],
			Document:  c.Text,
			Metadata:  c.Metadata,
		}
	}
	return res
}

func (s *IndexingService) embedBatchFn(ctx context.Context, texts []string) embedResult {
	vectors, err := s.embedder.EmbedBatch(ctx, texts, driven.TaskRetrievalDocument)
	return embedResult{vectors: vectors, err: err}
}

// write upserts records in fixed-size batches and stops at the first failure.
func (s *IndexingService) write(ctx context.Context, records []domain.VectorRecord) (int, error) {
	written := 0
	for i := 0; i < len(records); i += s.writeBatch {
		end := min(i+s.writeBatch, len(records))
		logger.Info("adding batch %d (%d-%d)", i/s.writeBatch+1, i+1, end)

		if err := s.collection.Upsert(ctx, records[i:end]); err != nil {
			return written, fmt.Errorf("%w after %d records: %v", ErrWriteIncomplete, written, err)
		}
		written += end - i
	}
	return written, nil
}

func batchStrings(items []string, size int) [][]string {
	batches := make([][]string, 0, (len(items)+size-1)/size)
	for i := 0; i < len(items); i += size {
		batches = append(batches, items[i:min(i+size, len(items))])
	}
	return batches
}
