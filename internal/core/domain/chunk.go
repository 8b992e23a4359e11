package domain

// ChunkMetadata is copied from a page onto every chunk cut from it.
type ChunkMetadata struct {
	// SourceFile is the inferred source document name.
	SourceFile string `json:"source_file"`

	// SourcePage is the page number within the source document.
	SourcePage int `json:"source_page"`

	// VisualDescriptions is the page's visual elements description.
	VisualDescriptions string `json:"visual_descriptions"`

	// TableDescriptions is the page's table content summary.
	TableDescriptions string `json:"table_descriptions"`

	// EquationDescriptions is the page's key equations section.
	EquationDescriptions string `json:"equation_descriptions"`
}

// NewChunkMetadata builds chunk metadata for a page of a source document.
func NewChunkMetadata(sourceFile string, page Page) ChunkMetadata {
	return ChunkMetadata{
		SourceFile:           sourceFile,
		SourcePage:           page.Number,
		VisualDescriptions:   page.Descriptions.Visual,
		TableDescriptions:    page.Descriptions.Table,
		EquationDescriptions: page.Descriptions.Equation,
	}
}

// Chunk is a character-bounded slice of a page's main text.
// Chunks carry no reference to their siblings.
type Chunk struct {
	// Text is the chunk content.
	Text string

	// Metadata is a copy of the page metadata.
	Metadata ChunkMetadata
}

// VectorRecord is a chunk persisted in a vector collection.
type VectorRecord struct {
	// ID is a random unique identifier.
	ID string

	// Embedding is the document-mode embedding of Document.
	Embedding []float32

	// Document is the raw chunk text.
	Document string

	// Metadata is the chunk metadata.
	Metadata ChunkMetadata
}
