package domain

// Match is a single vector record returned by a similarity query.
type Match struct {
	// ID is the record id.
	ID string

	// Document is the stored chunk text.
	Document string

	// Metadata is the stored chunk metadata.
	Metadata ChunkMetadata

	// Distance is the store's native distance to the query (lower is closer).
	Distance float64
}

// Retrieval is the ordered result of a context lookup.
// Matches are sorted by non-decreasing distance.
type Retrieval struct {
	// Query is the text that was embedded.
	Query string

	// Matches are the nearest records.
	Matches []Match
}

// IsEmpty reports whether the retrieval carries no matches.
func (r *Retrieval) IsEmpty() bool {
	return r == nil || len(r.Matches) == 0
}
