// Package ui renders external command lifecycle events for people watching a maiar run.
//
// ConsoleCommandEventLogger routes events through the console zap logger, and
// ColorCommandEventPrinter echoes them as colored lines through a console.Printer.
package ui
