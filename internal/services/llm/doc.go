// Package llm provides an OpenRouter-compatible chat completion client used to
// answer questions about movie scripts.
//
// # Entry Points
//
// NewClient: construct client from Config.
// Client.Complete: send system/user prompts, receive the model's text.
// Client.HealthCheck: one-word ping verifying the API key and model, used by
// `scriptqa config validate --check-llm`.
// NewTokenCounter: token counting and splitting for long scripts.
//
// # Failure Behaviour
//
// Requests are issued exactly once. Errors are tagged with services markers:
// timeouts with ErrTimeout, missing credentials with ErrConfiguration, and
// everything else returned by the provider with ErrUpstream.
package llm
