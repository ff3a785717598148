package execshell

import (
	"context"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/maiarpkg/maiar/internal/console"
)

const (
	processFailedMessagePrefixConstant = "Process failed: "
	logFieldCommandConstant            = "command"
	logFieldArgumentsConstant          = "arguments"
	logFieldWorkingDirectoryConstant   = "working_directory"
	logFieldExitCodeConstant           = "exit_code"
)

// WorkingDirectoryProvider reports the directory exported as PWD to child processes.
type WorkingDirectoryProvider func() (string, error)

// ExecutorOption customizes a ShellExecutor.
type ExecutorOption func(*ShellExecutor)

// WithCommandEventObserver registers an observer for command lifecycle events.
func WithCommandEventObserver(observer CommandEventObserver) ExecutorOption {
	return func(executor *ShellExecutor) {
		if observer != nil {
			executor.observer = observer
		}
	}
}

// WithPrinter sets the console printer used for process failure diagnostics.
func WithPrinter(printer *console.Printer) ExecutorOption {
	return func(executor *ShellExecutor) {
		if printer != nil {
			executor.printer = printer
		}
	}
}

// WithWorkingDirectoryProvider overrides how the PWD variable is resolved.
func WithWorkingDirectoryProvider(provider WorkingDirectoryProvider) ExecutorOption {
	return func(executor *ShellExecutor) {
		if provider != nil {
			executor.workingDirectoryProvider = provider
		}
	}
}

// ShellExecutor runs commands through a CommandRunner while logging their lifecycle.
type ShellExecutor struct {
	logger                   *zap.Logger
	runner                   CommandRunner
	observer                 CommandEventObserver
	printer                  *console.Printer
	formatter                CommandMessageFormatter
	workingDirectoryProvider WorkingDirectoryProvider
}

// NewShellExecutor validates dependencies and constructs a ShellExecutor.
func NewShellExecutor(logger *zap.Logger, runner CommandRunner, options ...ExecutorOption) (*ShellExecutor, error) {
	if logger == nil {
		return nil, ErrLoggerNotConfigured
	}
	if runner == nil {
		return nil, ErrCommandRunnerNotConfigured
	}

	executor := &ShellExecutor{
		logger:                   logger,
		runner:                   runner,
		observer:                 noopCommandEventObserver{},
		printer:                  console.NewPrinter(nil),
		workingDirectoryProvider: os.Getwd,
	}
	for _, option := range options {
		option(executor)
	}
	return executor, nil
}

// RunCommandOutput runs arguments[0] with the remaining arguments and returns its standard
// output merged with standard error. A non-empty environment is overlaid on the inherited
// environment together with PWD. A non-zero exit yields Succeeded=false and, unless
// failureAllowed, a "Process failed" console diagnostic; it is not returned as an error.
func (executor *ShellExecutor) RunCommandOutput(executionContext context.Context, arguments []string, environment map[string]string, failureAllowed bool) (CapturedOutput, error) {
	if len(arguments) == 0 || len(strings.TrimSpace(arguments[0])) == 0 {
		return CapturedOutput{}, ErrEmptyCommand
	}

	command := ShellCommand{
		Name: CommandName(arguments[0]),
		Details: CommandDetails{
			Arguments:            append([]string{}, arguments[1:]...),
			EnvironmentVariables: withWorkingDirectoryVariable(environment, executor.resolveWorkingDirectory()),
			MergeStandardError:   true,
		},
	}

	executionResult, executionError := executor.run(executionContext, command)
	if executionError != nil {
		return CapturedOutput{}, executionError
	}

	succeeded := executionResult.ExitCode == 0
	if !succeeded && !failureAllowed {
		executor.printer.Error(processFailedMessagePrefixConstant + strings.Join(arguments, commandArgumentsJoinSeparatorConstant))
	}

	return CapturedOutput{Succeeded: succeeded, Output: executionResult.StandardOutput}, nil
}

func (executor *ShellExecutor) run(executionContext context.Context, command ShellCommand) (ExecutionResult, error) {
	if executionContext == nil {
		executionContext = context.Background()
	}

	commandFields := []zap.Field{
		zap.String(logFieldCommandConstant, string(command.Name)),
		zap.Strings(logFieldArgumentsConstant, command.Details.Arguments),
		zap.String(logFieldWorkingDirectoryConstant, command.Details.WorkingDirectory),
	}

	executor.observer.CommandStarted(command)
	executor.logger.Debug(executor.formatter.BuildStartedMessage(command), commandFields...)

	executionResult, runError := executor.runner.Run(executionContext, command)
	if runError != nil {
		executor.observer.CommandExecutionFailed(command, runError)
		executor.logger.Error(executor.formatter.BuildExecutionFailureMessage(command, runError), append(commandFields, zap.Error(runError))...)
		return ExecutionResult{}, CommandExecutionError{Command: command, Cause: runError}
	}

	executor.observer.CommandCompleted(command, executionResult)
	resultFields := append(commandFields, zap.Int(logFieldExitCodeConstant, executionResult.ExitCode))
	if executionResult.ExitCode == 0 {
		executor.logger.Debug(executor.formatter.BuildSuccessMessage(command), resultFields...)
	} else {
		executor.logger.Warn(executor.formatter.BuildFailureMessage(command, executionResult), resultFields...)
	}

	return executionResult, nil
}

func (executor *ShellExecutor) resolveWorkingDirectory() string {
	workingDirectory, workingDirectoryError := executor.workingDirectoryProvider()
	if workingDirectoryError != nil {
		return emptyStringConstant
	}
	return workingDirectory
}
