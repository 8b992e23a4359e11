package driven

// CredentialSource resolves secrets such as API keys.
// Implementations read the process environment and optional dotenv files.
type CredentialSource interface {
	// Get returns the value for key, or "" if unset.
	Get(key string) string
}
