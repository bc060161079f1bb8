// Package api defines wire-format types and converters for the HTTP API, plus
// a small client the CLI uses to talk to a running server.
//
// # Key Types
//
// AskRequest/AskResponse: one question about one movie. Field names
// (movie_title, user_question, answer) match what existing browser front-ends
// already send and read.
//
// ClearHistoryRequest/ClearHistoryResponse: conversation reset.
//
// ServerStatus: runtime information reported by /api/status.
//
// # Converters
//
// FromResult: answer.Result -> AskResponse.
//
// FromConfirmation: answer.Confirmation -> ClearHistoryResponse.
//
// # Design Notes
//
// Every answer outcome, including failures, is a complete AskResponse. The
// HTTP status code carries the failure class and the answer field carries the
// user-facing message. Timestamps use RFC3339 with milliseconds.
package api
