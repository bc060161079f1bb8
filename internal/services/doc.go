// Package services defines shared utilities consumed by the answer pipeline and
// its external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp request correlation IDs and conversation
//     session IDs for logging.
//   - Structured error markers plus the Wrap helper so failures from the
//     archive fetcher, LLM client, and HTTP layer classify consistently
//     (validation vs upstream vs configuration).
//
// Use these helpers when wiring new components so error handling and
// observability stay uniform across the service.
package services
