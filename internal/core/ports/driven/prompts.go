package driven

// PromptStore provides access to LLM prompt templates.
// Implementations may load prompts from files or embed them in the binary.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	// If the prompt is not found, implementations return the embedded default
	// or an error when no default exists.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	Reload()
}

// Well-known prompt names used throughout the application.
// These constants define the contract between prompt consumers and providers.
const (
	// PromptExtractTopics asks for one topic per line.
	// The template expects a %s placeholder for the exam summary.
	PromptExtractTopics = "extract_topics"

	// PromptStructureTopics asks for a JSON array in learning order.
	// The template expects a %s placeholder for the bullet list of topics.
	PromptStructureTopics = "structure_topics"

	// PromptGuideTopic asks for an augmented study-guide section.
	// The template expects %s (topic) and %s (formatted context) placeholders.
	PromptGuideTopic = "guide_topic"

	// PromptSolveQuery asks for a context-only step-by-step answer.
	// The template expects %s (query) and %s (formatted context) placeholders.
	PromptSolveQuery = "solve_query"
)
