package execshell_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/maiarpkg/maiar/internal/console"
	"github.com/maiarpkg/maiar/internal/execshell"
)

const (
	testExecutionSuccessCaseNameConstant         = "success"
	testExecutionFailureCaseNameConstant         = "failure_exit_code"
	testExecutionRunnerErrorCaseNameConstant     = "runner_error"
	testCommandArgumentConstant                  = "--version"
	testStandardErrorOutputConstant              = "failure"
	testLoggerInitializationCaseNameConstant     = "logger_validation"
	testRunnerInitializationCaseNameConstant     = "runner_validation"
	testSuccessfulInitializationCaseNameConstant = "successful_initialization"
	testProvidedWorkingDirectoryConstant         = "/srv/build"
	testEnvironmentKeyConstant                   = "MAIAR_TEST_VARIABLE"
	testEnvironmentValueConstant                 = "present"
	testCapturedOutputConstant                   = "captured output\n"
	testProcessFailedDiagnosticConstant          = "\x1b[31mERROR: Process failed: make build\n\x1b[0m"
)

type recordingCommandRunner struct {
	executionResult  execshell.ExecutionResult
	executionError   error
	recordedCommands []execshell.ShellCommand
}

func (runner *recordingCommandRunner) Run(executionContext context.Context, command execshell.ShellCommand) (execshell.ExecutionResult, error) {
	runner.recordedCommands = append(runner.recordedCommands, command)
	return runner.executionResult, runner.executionError
}

func TestShellExecutorInitializationValidation(testInstance *testing.T) {
	testCases := []struct {
		name          string
		logger        *zap.Logger
		runner        execshell.CommandRunner
		expectError   error
		expectSuccess bool
	}{
		{
			name:        testLoggerInitializationCaseNameConstant,
			logger:      nil,
			runner:      &recordingCommandRunner{},
			expectError: execshell.ErrLoggerNotConfigured,
		},
		{
			name:        testRunnerInitializationCaseNameConstant,
			logger:      zap.NewNop(),
			runner:      nil,
			expectError: execshell.ErrCommandRunnerNotConfigured,
		},
		{
			name:          testSuccessfulInitializationCaseNameConstant,
			logger:        zap.NewNop(),
			runner:        &recordingCommandRunner{},
			expectSuccess: true,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			executor, creationError := execshell.NewShellExecutor(testCase.logger, testCase.runner)
			if testCase.expectSuccess {
				require.NoError(testInstance, creationError)
				require.NotNil(testInstance, executor)
			} else {
				require.Error(testInstance, creationError)
				require.ErrorIs(testInstance, creationError, testCase.expectError)
			}
		})
	}
}

func TestShellExecutorLogsCommandLifecycle(testInstance *testing.T) {
	testCases := []struct {
		name              string
		runnerResult      execshell.ExecutionResult
		runnerError       error
		expectErrorType   any
		expectedSucceeded bool
		expectedLogCount  int
		expectedLevel     zapcore.Level
	}{
		{
			name: testExecutionSuccessCaseNameConstant,
			runnerResult: execshell.ExecutionResult{
				StandardOutput: "ok",
				ExitCode:       0,
			},
			expectedSucceeded: true,
			expectedLogCount:  2,
			expectedLevel:     zapcore.DebugLevel,
		},
		{
			name: testExecutionFailureCaseNameConstant,
			runnerResult: execshell.ExecutionResult{
				StandardError: testStandardErrorOutputConstant,
				ExitCode:      1,
			},
			expectedLogCount: 2,
			expectedLevel:    zapcore.WarnLevel,
		},
		{
			name:             testExecutionRunnerErrorCaseNameConstant,
			runnerError:      errors.New("runner failure"),
			expectErrorType:  execshell.CommandExecutionError{},
			expectedLogCount: 2,
			expectedLevel:    zapcore.ErrorLevel,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			observerCore, observerLogs := observer.New(zap.DebugLevel)
			logger := zap.New(observerCore)

			recordingRunner := &recordingCommandRunner{
				executionResult: testCase.runnerResult,
				executionError:  testCase.runnerError,
			}

			shellExecutor, creationError := execshell.NewShellExecutor(logger, recordingRunner)
			require.NoError(testInstance, creationError)

			capturedOutput, executionError := shellExecutor.RunCommandOutput(context.Background(), []string{string(execshell.CommandDpkg), testCommandArgumentConstant}, nil, true)

			if testCase.expectErrorType != nil {
				require.Error(testInstance, executionError)
				require.IsType(testInstance, testCase.expectErrorType, executionError)
				require.Empty(testInstance, capturedOutput.Output)
			} else {
				require.NoError(testInstance, executionError)
				require.Equal(testInstance, testCase.expectedSucceeded, capturedOutput.Succeeded)
				require.Equal(testInstance, testCase.runnerResult.StandardOutput, capturedOutput.Output)
			}

			require.Equal(testInstance, testCase.expectedLogCount, observerLogs.Len())
			finalEntry := observerLogs.All()[observerLogs.Len()-1]
			require.Equal(testInstance, testCase.expectedLevel, finalEntry.Level)
		})
	}
}

func TestRunCommandOutputBehavior(testInstance *testing.T) {
	testCases := []struct {
		name                    string
		arguments               []string
		environment             map[string]string
		failureAllowed          bool
		runnerResult            execshell.ExecutionResult
		runnerError             error
		expectedError           error
		expectedCaptured        execshell.CapturedOutput
		expectedEnvironment     map[string]string
		expectedCommandName     execshell.CommandName
		expectedArguments       []string
		expectedConsoleOutput   string
		expectRunnerInvocations int
	}{
		{
			name:                    "success_without_environment",
			arguments:               []string{"make", "build"},
			runnerResult:            execshell.ExecutionResult{StandardOutput: testCapturedOutputConstant},
			expectedCaptured:        execshell.CapturedOutput{Succeeded: true, Output: testCapturedOutputConstant},
			expectedCommandName:     execshell.CommandName("make"),
			expectedArguments:       []string{"build"},
			expectRunnerInvocations: 1,
		},
		{
			name:             "environment_overlay_sets_working_directory",
			arguments:        []string{"make", "build"},
			environment:      map[string]string{testEnvironmentKeyConstant: testEnvironmentValueConstant},
			runnerResult:     execshell.ExecutionResult{StandardOutput: testCapturedOutputConstant},
			expectedCaptured: execshell.CapturedOutput{Succeeded: true, Output: testCapturedOutputConstant},
			expectedEnvironment: map[string]string{
				testEnvironmentKeyConstant: testEnvironmentValueConstant,
				"PWD":                      testProvidedWorkingDirectoryConstant,
			},
			expectedCommandName:     execshell.CommandName("make"),
			expectedArguments:       []string{"build"},
			expectRunnerInvocations: 1,
		},
		{
			name:                    "failure_prints_diagnostic",
			arguments:               []string{"make", "build"},
			runnerResult:            execshell.ExecutionResult{StandardOutput: testStandardErrorOutputConstant, ExitCode: 2},
			expectedCaptured:        execshell.CapturedOutput{Succeeded: false, Output: testStandardErrorOutputConstant},
			expectedCommandName:     execshell.CommandName("make"),
			expectedArguments:       []string{"build"},
			expectedConsoleOutput:   testProcessFailedDiagnosticConstant,
			expectRunnerInvocations: 1,
		},
		{
			name:                    "allowed_failure_is_silent",
			arguments:               []string{"make", "build"},
			failureAllowed:          true,
			runnerResult:            execshell.ExecutionResult{StandardOutput: testStandardErrorOutputConstant, ExitCode: 2},
			expectedCaptured:        execshell.CapturedOutput{Succeeded: false, Output: testStandardErrorOutputConstant},
			expectedCommandName:     execshell.CommandName("make"),
			expectedArguments:       []string{"build"},
			expectRunnerInvocations: 1,
		},
		{
			name:                    "empty_arguments_rejected",
			arguments:               []string{},
			expectedError:           execshell.ErrEmptyCommand,
			expectRunnerInvocations: 0,
		},
		{
			name:                    "runner_error_propagates",
			arguments:               []string{"missing-binary"},
			runnerError:             errors.New("executable not found"),
			expectedCommandName:     execshell.CommandName("missing-binary"),
			expectedArguments:       []string{},
			expectRunnerInvocations: 1,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			var consoleBuffer bytes.Buffer
			recordingRunner := &recordingCommandRunner{executionResult: testCase.runnerResult, executionError: testCase.runnerError}
			shellExecutor, creationError := execshell.NewShellExecutor(
				zap.NewNop(),
				recordingRunner,
				execshell.WithPrinter(console.NewPrinter(&consoleBuffer)),
				execshell.WithWorkingDirectoryProvider(func() (string, error) { return testProvidedWorkingDirectoryConstant, nil }),
			)
			require.NoError(testInstance, creationError)

			capturedOutput, runError := shellExecutor.RunCommandOutput(context.Background(), testCase.arguments, testCase.environment, testCase.failureAllowed)
			require.Len(testInstance, recordingRunner.recordedCommands, testCase.expectRunnerInvocations)

			switch {
			case testCase.expectedError != nil:
				require.ErrorIs(testInstance, runError, testCase.expectedError)
				return
			case testCase.runnerError != nil:
				require.Error(testInstance, runError)
				require.ErrorIs(testInstance, runError, testCase.runnerError)
				require.IsType(testInstance, execshell.CommandExecutionError{}, runError)
			default:
				require.NoError(testInstance, runError)
				require.Equal(testInstance, testCase.expectedCaptured, capturedOutput)
			}

			recordedCommand := recordingRunner.recordedCommands[0]
			require.Equal(testInstance, testCase.expectedCommandName, recordedCommand.Name)
			require.Equal(testInstance, testCase.expectedArguments, recordedCommand.Details.Arguments)
			require.True(testInstance, recordedCommand.Details.MergeStandardError)
			if testCase.expectedEnvironment == nil {
				require.Empty(testInstance, recordedCommand.Details.EnvironmentVariables)
			} else {
				require.Equal(testInstance, testCase.expectedEnvironment, recordedCommand.Details.EnvironmentVariables)
			}
			require.Equal(testInstance, testCase.expectedConsoleOutput, consoleBuffer.String())
		})
	}
}

func TestRunCommandOutputWithOperatingSystemRunner(testInstance *testing.T) {
	testCases := []struct {
		name              string
		arguments         []string
		environment       map[string]string
		expectedSucceeded bool
		expectedOutput    string
	}{
		{
			name:              "merges_standard_error",
			arguments:         []string{"sh", "-c", "echo out; echo err 1>&2"},
			expectedSucceeded: true,
			expectedOutput:    "out\nerr\n",
		},
		{
			name:              "environment_overlay_visible",
			arguments:         []string{"sh", "-c", "printf %s \"$" + testEnvironmentKeyConstant + "\""},
			environment:       map[string]string{testEnvironmentKeyConstant: testEnvironmentValueConstant},
			expectedSucceeded: true,
			expectedOutput:    testEnvironmentValueConstant,
		},
		{
			name:              "non_zero_exit_reported",
			arguments:         []string{"sh", "-c", "exit 4"},
			expectedSucceeded: false,
			expectedOutput:    "",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			shellExecutor, creationError := execshell.NewShellExecutor(
				zap.NewNop(),
				execshell.NewOSCommandRunner(),
				execshell.WithPrinter(console.NewPrinter(&bytes.Buffer{})),
			)
			require.NoError(testInstance, creationError)

			capturedOutput, runError := shellExecutor.RunCommandOutput(context.Background(), testCase.arguments, testCase.environment, false)
			require.NoError(testInstance, runError)
			require.Equal(testInstance, testCase.expectedSucceeded, capturedOutput.Succeeded)
			require.Equal(testInstance, testCase.expectedOutput, capturedOutput.Output)
		})
	}
}
