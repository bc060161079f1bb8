// Command scriptqa answers questions about movies from their scripts.
//
// `scriptqa serve` runs the HTTP API. The other commands work in-process
// against the configured archive and LLM, or against a running server when
// --server is given:
//
//	scriptqa ask "Inception" "Who is Cobb?"
//	scriptqa ask "Inception"            # read follow-up questions from stdin
//	scriptqa suggest matrix
//	scriptqa titles sync
//	scriptqa cache list
//	scriptqa status --server 127.0.0.1:5000
package main
