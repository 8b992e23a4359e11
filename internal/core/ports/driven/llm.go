package driven

import "context"

// LLMService provides generative model calls.
//
// Implementations may include:
//   - Gemini (gemini-1.5-flash-latest, gemini-1.5-pro-latest)
//   - Ollama (local models)
type LLMService interface {
	// Generate sends a single prompt and returns the structured reply.
	// A non-nil error means the call itself failed (network, quota, block).
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (*Generation, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Close releases resources.
	Close() error
}

// SafetyThreshold is the blocking threshold applied to every harm category.
type SafetyThreshold string

// Safety thresholds understood by the hosted API.
const (
	// SafetyDefault leaves the provider defaults untouched.
	SafetyDefault SafetyThreshold = ""

	// SafetyBlockLowAndAbove blocks content with low or higher harm probability.
	SafetyBlockLowAndAbove SafetyThreshold = "BLOCK_LOW_AND_ABOVE"

	// SafetyBlockOnlyHigh blocks only high harm probability content.
	SafetyBlockOnlyHigh SafetyThreshold = "BLOCK_ONLY_HIGH"
)

// HarmCategories are the categories a SafetyThreshold is applied to.
var HarmCategories = []string{
	"HARM_CATEGORY_HATE_SPEECH",
	"HARM_CATEGORY_HARASSMENT",
	"HARM_CATEGORY_SEXUALLY_EXPLICIT",
	"HARM_CATEGORY_DANGEROUS_CONTENT",
}

// GenerateOptions configures text generation behaviour.
type GenerateOptions struct {
	// Temperature controls randomness. Zero leaves the provider default.
	Temperature float64

	// Safety is the threshold applied to all harm categories.
	Safety SafetyThreshold
}

// Candidate is one alternative reply.
type Candidate struct {
	// Parts are the text parts of the candidate content.
	Parts []string

	// FinishReason is the provider's reason for stopping.
	FinishReason string
}

// Generation is a provider reply in a provider-neutral shape.
// Text is tried first, then Parts, then the first candidate's parts.
type Generation struct {
	// Text is the provider's direct text accessor, when it has one.
	Text string

	// Parts are top-level content parts, when the provider returns them.
	Parts []string

	// Candidates are the reply candidates.
	Candidates []Candidate

	// BlockReason is the prompt feedback block reason, if any.
	BlockReason string
}
