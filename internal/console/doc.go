// Package console renders colored diagnostics for maiar users.
//
// Printer writes ok, warning, error, and fatal messages wrapped in fixed ANSI
// color sequences. Fatal messages never terminate the process; they surface as
// FatalError values that the entry point converts into a non-zero exit status.
package console
