// Package chunker provides a sliding character window splitter for page text.
package chunker

import (
	"strings"

	"github.com/custodia-labs/examprep/internal/core/domain"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 1000

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = 200

// Processor splits page text into fixed-size overlapping windows.
// Sizes are measured in runes so multi-byte text is never cut mid-character.
type Processor struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		if size > 0 {
			p.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in characters.
// An overlap at or above the chunk size is accepted; the window then
// advances to the previous window's end instead of stalling.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		if overlap >= 0 {
			p.overlap = overlap
		}
	}
}

// New creates a new chunker processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// ChunkSize returns the configured window size.
func (p *Processor) ChunkSize() int { return p.chunkSize }

// Overlap returns the configured overlap.
func (p *Processor) Overlap() int { return p.overlap }

// Split cuts text into windows of chunkSize characters, each starting
// chunkSize-overlap characters after the previous one. Text no longer
// than one window is returned whole. Windows that are blank after
// trimming are dropped.
func (p *Processor) Split(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	runes := []rune(text)
	total := len(runes)
	if total <= p.chunkSize {
		return []string{text}
	}

	step := p.chunkSize - p.overlap
	chunks := make([]string, 0, estimate(total, p.chunkSize, step))

	start := 0
	for start < total {
		end := start + p.chunkSize
		if end > total {
			end = total
		}

		chunk := string(runes[start:end])
		if strings.TrimSpace(chunk) != "" {
			chunks = append(chunks, chunk)
		}

		// The window that reaches the end already covers the tail.
		if end == total {
			break
		}

		next := start + step
		if next <= start {
			next = end
		}
		start = next
	}

	return chunks
}

// ChunkPage splits a page's main text and attaches the page metadata
// to every resulting chunk.
func (p *Processor) ChunkPage(sourceFile string, page domain.Page) []domain.Chunk {
	texts := p.Split(page.MainText)
	if len(texts) == 0 {
		return nil
	}

	chunks := make([]domain.Chunk, 0, len(texts))
	for _, text := range texts {
		meta := domain.NewChunkMetadata(sourceFile, page)
		chunks = append(chunks, domain.Chunk{
			Text:     text,
			Metadata: meta,
		})
	}
	return chunks
}

func estimate(total, size, step int) int {
	if step <= 0 {
		step = size
	}
	return (total-size+step-1)/step + 1
}
