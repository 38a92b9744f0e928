package llm

import "context"

// ChatClient is the interface the extraction and risk components depend on.
// Implementations send a single user-role message and return the text
// content of the first choice. The reply is untrusted: it should be a JSON
// object but may be wrapped in Markdown fencing or prose.
type ChatClient interface {
	Chat(ctx context.Context, prompt string) (string, error)
}
