package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/examprep/internal/core/domain"
	"github.com/custodia-labs/examprep/internal/core/ports/driven"
	"github.com/custodia-labs/examprep/internal/core/ports/driving"
	"github.com/custodia-labs/examprep/internal/logger"
)

// Ensure RetrievalService implements the interface.
var _ driving.ContextRetriever = (*RetrievalService)(nil)

// RetrievalService embeds a query and looks up its nearest chunks.
type RetrievalService struct {
	embedder   driven.EmbeddingService
	collection driven.Collection
}

// NewRetrievalService creates a new retrieval service.
func NewRetrievalService(embedder driven.EmbeddingService, collection driven.Collection) *RetrievalService {
	return &RetrievalService{
		embedder:   embedder,
		collection: collection,
	}
}

// Retrieve embeds query in query mode and returns up to n matches.
// A store failure is logged and yields an empty retrieval.
func (s *RetrievalService) Retrieve(ctx context.Context, query string, n int) (*domain.Retrieval, error) {
	result := &domain.Retrieval{Query: query}

	embedding, err := s.embedder.Embed(ctx, query, driven.TaskRetrievalQuery)
	if err != nil {
		return result, fmt.Errorf("%w: %v", domain.ErrQueryEmbedding, err)
	}

	if n <= 0 {
		return result, nil
	}

	matches, err := s.collection.Query(ctx, embedding, n)
	if err != nil {
		logger.Warn("error querying collection %s: %v", s.collection.Name(), err)
		return result, nil
	}
	logger.Debug("retrieved %d chunks for %q", len(matches), truncate(query, 50))

	result.Matches = matches
	return result, nil
}

// ContextStyle selects the wording of a formatted context block.
type ContextStyle struct {
	// Header opens a non-empty block.
	Header string

	// Empty is returned when there are no matches.
	Empty string

	// Emphasise wraps description labels in markdown italics.
	Emphasise bool
}

// Context styles used by the guide builder and the solver.
var (
	GuideContextStyle = ContextStyle{
		Header:    "Retrieved Context from Local Study Material:",
		Empty:     "No relevant context found in the local knowledge base.",
		Emphasise: true,
	}

	SolverContextStyle = ContextStyle{
		Header: "Retrieved Context from Study Material:",
		Empty:  "No relevant context found in the knowledge base.",
	}
)

// FormatContext renders matches in rank order for prompt injection.
func FormatContext(r *domain.Retrieval, style ContextStyle) string {
	if r.IsEmpty() {
		return style.Empty
	}

	var b strings.Builder
	b.WriteString(style.Header)
	b.WriteString("\n\n")

	for i, m := range r.Matches {
		meta := m.Metadata
		fmt.Fprintf(&b, "--- Context Chunk %d (Source: %s, Page: %d, Distance: %.4f) ---\n",
			i+1, meta.SourceFile, meta.SourcePage, m.Distance)
		fmt.Fprintf(&b, "Text Content:\n%s\n\n", m.Document)

		style.section(&b, "Visual Elements Description", meta.SourcePage, meta.VisualDescriptions)
		style.section(&b, "Table Content Summary", meta.SourcePage, meta.TableDescriptions)
		style.section(&b, "Key Equations", meta.SourcePage, meta.EquationDescriptions)

		b.WriteString("---\n\n")
	}

	return strings.TrimSpace(b.String())
}

func (s ContextStyle) section(b *strings.Builder, label string, page int, body string) {
	if strings.TrimSpace(body) == "" {
		return
	}
	heading := fmt.Sprintf("%s (from page %d):", label, page)
	if s.Emphasise {
		heading = "*" + heading + "*"
	}
	fmt.Fprintf(b, "%s\n%s\n\n", heading, body)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
