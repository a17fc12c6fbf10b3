// Package llm provides the chat completion client used to classify movie plot
// summaries into genres.
//
// The client speaks the OpenAI chat completion API through go-openai, so it
// works against a local Ollama server (the default base URL,
// http://localhost:11434/v1) or any other compatible endpoint.
//
// # Classification
//
// ClassifyGenres sends a single user message asking for one-word genres
// separated by commas, and returns the model's text with surrounding
// whitespace removed. The answer is not parsed here; scoring belongs to the
// genre package.
//
// # Entry Points
//
// NewClient: construct client from Config.
// Client.Complete: send one user prompt, receive the text content.
// Client.ClassifyGenres: genre prompt for a plot summary.
// Client.HealthCheck: verify the endpoint answers and serves the model.
//
// # Retry Behaviour
//
// The client retries on HTTP 408/429/5xx errors, network timeouts, and empty
// completions with exponential backoff (base 1s, max 10s, up to MaxAttempts).
// Context cancellation aborts retries immediately.
package llm
