// Package execshell provides structured helpers for invoking external tools.
//
// ShellExecutor wraps a CommandRunner with zap logging and lifecycle events,
// OSCommandRunner executes argument vectors through os/exec, and
// ShellStringRunner interprets shell command strings with the mvdan.cc/sh
// POSIX interpreter. Both runners overlay caller-supplied environment
// variables on top of the inherited process environment.
package execshell
