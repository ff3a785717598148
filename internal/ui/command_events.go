package ui

import (
	"go.uber.org/zap"

	"github.com/maiarpkg/maiar/internal/console"
	"github.com/maiarpkg/maiar/internal/execshell"
)

// ConsoleCommandEventLogger renders command lifecycle events using a zap logger configured for human-readable output.
type ConsoleCommandEventLogger struct {
	logger    *zap.Logger
	formatter execshell.CommandMessageFormatter
}

// NewConsoleCommandEventLogger constructs a console event logger backed by the provided zap logger.
func NewConsoleCommandEventLogger(logger *zap.Logger) *ConsoleCommandEventLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConsoleCommandEventLogger{logger: logger}
}

// CommandStarted implements execshell.CommandEventObserver by logging command start notifications.
func (eventLogger *ConsoleCommandEventLogger) CommandStarted(command execshell.ShellCommand) {
	if eventLogger == nil {
		return
	}
	eventLogger.logger.Info(eventLogger.formatter.BuildStartedMessage(command))
}

// CommandCompleted implements execshell.CommandEventObserver by logging command completion notifications.
func (eventLogger *ConsoleCommandEventLogger) CommandCompleted(command execshell.ShellCommand, result execshell.ExecutionResult) {
	if eventLogger == nil {
		return
	}
	if result.ExitCode == 0 {
		eventLogger.logger.Info(eventLogger.formatter.BuildSuccessMessage(command))
		return
	}
	eventLogger.logger.Warn(eventLogger.formatter.BuildFailureMessage(command, result))
}

// CommandExecutionFailed implements execshell.CommandEventObserver by logging unexpected execution failures.
func (eventLogger *ConsoleCommandEventLogger) CommandExecutionFailed(command execshell.ShellCommand, failure error) {
	if eventLogger == nil {
		return
	}
	eventLogger.logger.Error(eventLogger.formatter.BuildExecutionFailureMessage(command, failure))
}

// ColorCommandEventPrinter renders command lifecycle events as colored console lines.
type ColorCommandEventPrinter struct {
	printer   *console.Printer
	formatter execshell.CommandMessageFormatter
}

// NewColorCommandEventPrinter constructs an observer writing through printer.
func NewColorCommandEventPrinter(printer *console.Printer) *ColorCommandEventPrinter {
	if printer == nil {
		printer = console.NewPrinter(nil)
	}
	return &ColorCommandEventPrinter{printer: printer}
}

// CommandStarted prints the start notification in cyan.
func (eventPrinter *ColorCommandEventPrinter) CommandStarted(command execshell.ShellCommand) {
	eventPrinter.printer.PrintColor(eventPrinter.formatter.BuildStartedMessage(command), console.ColorCyan)
}

// CommandCompleted prints success in green and non-zero exits as warnings.
func (eventPrinter *ColorCommandEventPrinter) CommandCompleted(command execshell.ShellCommand, result execshell.ExecutionResult) {
	if result.ExitCode == 0 {
		eventPrinter.printer.Ok(eventPrinter.formatter.BuildSuccessMessage(command))
		return
	}
	eventPrinter.printer.Warn(eventPrinter.formatter.BuildFailureMessage(command, result))
}

// CommandExecutionFailed prints the failure as an error.
func (eventPrinter *ColorCommandEventPrinter) CommandExecutionFailed(command execshell.ShellCommand, failure error) {
	eventPrinter.printer.Error(eventPrinter.formatter.BuildExecutionFailureMessage(command, failure))
}

// CommandEventObservers fans lifecycle events out to every member.
type CommandEventObservers []execshell.CommandEventObserver

// CommandStarted forwards the start notification.
func (observers CommandEventObservers) CommandStarted(command execshell.ShellCommand) {
	for _, observer := range observers {
		observer.CommandStarted(command)
	}
}

// CommandCompleted forwards the completion notification.
func (observers CommandEventObservers) CommandCompleted(command execshell.ShellCommand, result execshell.ExecutionResult) {
	for _, observer := range observers {
		observer.CommandCompleted(command, result)
	}
}

// CommandExecutionFailed forwards the execution failure.
func (observers CommandEventObservers) CommandExecutionFailed(command execshell.ShellCommand, failure error) {
	for _, observer := range observers {
		observer.CommandExecutionFailed(command, failure)
	}
}
