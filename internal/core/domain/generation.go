package domain

// GuideSection is one topic's contribution to a study guide.
type GuideSection struct {
	// Topic is the subject of the section.
	Topic Topic

	// Body is the generated explanation or a placeholder.
	Body string
}

// Solution is the persisted result of answering a single query.
type Solution struct {
	// Query is the original exam problem or topic.
	Query string `json:"query"`

	// RetrievedContext is the formatted context block given to the model.
	RetrievedContext string `json:"retrieved_context"`

	// GeneratedExplanation is the model output or a placeholder.
	GeneratedExplanation string `json:"generated_explanation"`
}

// IndexSummary reports the outcome of an indexing run.
type IndexSummary struct {
	// FilesFound is the number of input files discovered.
	FilesFound int

	// FilesIndexed is the number of files that produced records.
	FilesIndexed int

	// FilesDropped is the number of files discarded after a failure.
	FilesDropped int

	// RecordsPrepared is the number of records ready for upsert.
	RecordsPrepared int

	// RecordsWritten is the number of records upserted.
	RecordsWritten int
}

// ExtractionSummary reports the outcome of a topic extraction run.
type ExtractionSummary struct {
	// FilesFound is the number of summary files discovered.
	FilesFound int

	// FilesProcessed is the number of files that produced a model reply.
	FilesProcessed int

	// Topics are the unique extracted topics in sorted order.
	Topics []Topic
}

// StructuredTopics is a topic list reordered into a study sequence.
type StructuredTopics struct {
	// Topics are in recommended learning order.
	Topics []Topic

	// InputCount is the number of topics sent to the model.
	InputCount int

	// Tier names the reply parsing strategy that succeeded.
	Tier string
}

// CountMismatch reports whether the model added or dropped topics.
func (s *StructuredTopics) CountMismatch() bool {
	return len(s.Topics) != s.InputCount
}
