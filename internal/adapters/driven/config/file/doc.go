// Package file provides file-based implementations of driven port interfaces.
// These adapters read from the local filesystem.
//
// Adapters:
//   - ConfigStore: TOML-based configuration
//   - PromptStore: embedded prompt templates with optional user overrides
//   - EnvCredentials: API credentials from the environment and a .env file
//   - TopicStore: topic lists as JSON or plain text
package file
