// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Interfaces
//
//   - LLMService: Generative model calls (Gemini, Ollama)
//   - EmbeddingService: Document and query embeddings (Gemini, Ollama)
//   - VectorStore / Collection: Persistent vector collection (SQLite)
//   - PromptStore: Prompt templates (embedded defaults, optional files)
//   - ConfigStore: Application configuration (TOML)
//   - TopicStore: Topic list persistence (JSON / plain text)
//   - GuideWriter: Study guide and solution output
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
