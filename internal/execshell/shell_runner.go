package execshell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"

	"github.com/maiarpkg/maiar/internal/console"
)

const (
	shellScriptNameConstant               = "maiar-shell"
	shellParseErrorTemplateConstant       = "unable to parse shell command %q: %w"
	shellInterpreterErrorTemplateConstant = "unable to prepare shell interpreter: %w"
	shellExecutionErrorTemplateConstant   = "shell command %q failed: %w"
	shellStartMessageConstant             = "Running shell command"
	shellCompletedMessageConstant         = "Completed shell command"
	logFieldScriptConstant                = "script"
	shellFailureExitCodeConstant          = 1
)

// ShellStreams binds the interpreter to input and output streams.
type ShellStreams struct {
	Input  io.Reader
	Output io.Writer
	Error  io.Writer
}

// ShellRunnerOption customizes a ShellStringRunner.
type ShellRunnerOption func(*ShellStringRunner)

// WithShellWorkingDirectoryProvider sets the directory the interpreter starts in and exports as PWD.
func WithShellWorkingDirectoryProvider(provider WorkingDirectoryProvider) ShellRunnerOption {
	return func(runner *ShellStringRunner) {
		if provider != nil {
			runner.workingDirectoryProvider = provider
		}
	}
}

// ShellStringRunner interprets command strings with a POSIX shell interpreter attached to the terminal streams.
type ShellStringRunner struct {
	logger                   *zap.Logger
	streams                  ShellStreams
	workingDirectoryProvider WorkingDirectoryProvider
}

// NewShellStringRunner constructs a ShellStringRunner. Zero-valued streams default to the process streams.
func NewShellStringRunner(logger *zap.Logger, streams ShellStreams, options ...ShellRunnerOption) *ShellStringRunner {
	if logger == nil {
		logger = zap.NewNop()
	}
	if streams.Input == nil {
		streams.Input = os.Stdin
	}
	if streams.Output == nil {
		streams.Output = os.Stdout
	}
	if streams.Error == nil {
		streams.Error = os.Stderr
	}

	runner := &ShellStringRunner{logger: logger, streams: streams, workingDirectoryProvider: os.Getwd}
	for _, option := range options {
		option(runner)
	}
	return runner
}

// Run interprets script and returns its exit code. Output is not captured. When autoFail is
// set and the script exits non-zero, Run returns a console.FatalError.
func (runner *ShellStringRunner) Run(executionContext context.Context, script string, environment map[string]string, autoFail bool) (int, error) {
	if executionContext == nil {
		executionContext = context.Background()
	}

	exitCode, runError := runner.interpret(executionContext, script, environment)
	if runError != nil {
		if autoFail {
			return exitCode, console.WrapFatalError(processFailedMessagePrefixConstant+script, runError)
		}
		return exitCode, runError
	}

	if autoFail && exitCode != 0 {
		return exitCode, console.NewFatalError(processFailedMessagePrefixConstant + script)
	}
	return exitCode, nil
}

func (runner *ShellStringRunner) interpret(executionContext context.Context, script string, environment map[string]string) (int, error) {
	program, parseError := syntax.NewParser().Parse(strings.NewReader(script), shellScriptNameConstant)
	if parseError != nil {
		return shellFailureExitCodeConstant, fmt.Errorf(shellParseErrorTemplateConstant, script, parseError)
	}

	workingDirectory, _ := runner.workingDirectoryProvider()
	runnerOptions := []interp.RunnerOption{
		interp.StdIO(runner.streams.Input, runner.streams.Output, runner.streams.Error),
	}
	if len(strings.TrimSpace(workingDirectory)) > 0 {
		runnerOptions = append(runnerOptions, interp.Dir(workingDirectory))
	}
	if overlay := withWorkingDirectoryVariable(environment, workingDirectory); len(overlay) > 0 {
		runnerOptions = append(runnerOptions, interp.Env(expand.ListEnviron(OverlayEnvironment(os.Environ(), overlay)...)))
	}

	shellInterpreter, interpreterError := interp.New(runnerOptions...)
	if interpreterError != nil {
		return shellFailureExitCodeConstant, fmt.Errorf(shellInterpreterErrorTemplateConstant, interpreterError)
	}

	runner.logger.Debug(shellStartMessageConstant, zap.String(logFieldScriptConstant, script))
	runError := shellInterpreter.Run(executionContext, program)
	if runError != nil {
		var exitStatus interp.ExitStatus
		if errors.As(runError, &exitStatus) {
			runner.logger.Debug(shellCompletedMessageConstant, zap.String(logFieldScriptConstant, script), zap.Int(logFieldExitCodeConstant, int(exitStatus)))
			return int(exitStatus), nil
		}
		return shellFailureExitCodeConstant, fmt.Errorf(shellExecutionErrorTemplateConstant, script, runError)
	}

	runner.logger.Debug(shellCompletedMessageConstant, zap.String(logFieldScriptConstant, script), zap.Int(logFieldExitCodeConstant, 0))
	return 0, nil
}
