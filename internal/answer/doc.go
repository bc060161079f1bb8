// Package answer coordinates script lookup, conversation history, and LLM
// completion into a single question answering call.
//
// Orchestrator.Answer never fails outright. Missing input, unavailable
// scripts, model errors, and a missing LLM configuration are each reported
// through Result.Status with a message suitable for showing to the user,
// while full error detail goes to the log.
//
// Long scripts can be answered excerpt by excerpt when a prompt token budget
// is configured: each excerpt is asked for relevant notes and a final call
// combines them.
package answer
