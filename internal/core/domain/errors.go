package domain

import "errors"

// Domain errors represent pipeline failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown provider or file format.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrMissingCredential indicates the API credential is not configured.
	ErrMissingCredential = errors.New("API credential not configured")

	// ErrLLMUnavailable indicates the generative model is not configured.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding model is not configured.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrVectorStoreUnavailable indicates the vector collection could not be opened.
	ErrVectorStoreUnavailable = errors.New("vector store unavailable")

	// Pipeline Errors.

	// ErrNoTopics indicates a topic list was empty.
	ErrNoTopics = errors.New("no topics")

	// ErrQueryEmbedding indicates a query could not be embedded.
	// Callers substitute a placeholder instead of aborting.
	ErrQueryEmbedding = errors.New("query embedding failed")

	// ErrEmbeddingMismatch indicates an embedding call returned a different
	// number of vectors than texts requested.
	ErrEmbeddingMismatch = errors.New("embedding count mismatch")

	// ErrReplyNotJSON indicates no JSON value could be parsed from a model reply.
	ErrReplyNotJSON = errors.New("model reply is not valid JSON")

	// ErrReplyNotJSONArray indicates a model reply parsed as JSON but not as an array.
	ErrReplyNotJSONArray = errors.New("model reply is not a JSON array")

	// ErrEmptyReply indicates a model reply carried no extractable text.
	ErrEmptyReply = errors.New("model reply has no text")

	// ErrPromptBlocked indicates the model refused the prompt.
	ErrPromptBlocked = errors.New("prompt blocked")

	// ErrRateLimited indicates the API rate limit or quota was exceeded.
	ErrRateLimited = errors.New("rate limited")
)
