// Package logs reads the service log file for the CLI: the last N lines, then
// optionally every line appended afterwards. Follow survives log rotation by
// restarting from the top of a file that shrank.
package logs
