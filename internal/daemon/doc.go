// Package daemon runs the long-lived scriptqa HTTP server.
//
// It wires the answer orchestrator, script cache, and title matcher behind
// a single lifecycle with flock-based locking so only one server owns the
// state directory at a time. Handlers translate HTTP requests into
// orchestrator calls and orchestrator statuses back into HTTP status codes.
//
// Keep answering logic in package answer: the daemon focuses on startup,
// shutdown, session tracking, and request translation.
package daemon
