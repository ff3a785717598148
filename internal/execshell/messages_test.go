package execshell_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/maiarpkg/maiar/internal/execshell"
)

const (
	testMessageWorkingDirectoryConstant = "/srv/build"
	testMessageFailureOutputConstant    = "  permission denied \n"
)

func TestCommandMessageFormatterRecognizedInvocations(testInstance *testing.T) {
	formatter := execshell.CommandMessageFormatter{}
	testCases := []struct {
		name                     string
		command                  execshell.ShellCommand
		expectedStarted          string
		expectedSuccess          string
		expectedFailure          string
		expectedExecutionFailure string
	}{
		{
			name:                     "dpkg_listing",
			command:                  execshell.ShellCommand{Name: execshell.CommandDpkg, Details: execshell.CommandDetails{Arguments: []string{"-l"}}},
			expectedStarted:          "Listing installed system packages",
			expectedSuccess:          "Listed installed system packages",
			expectedFailure:          "Failed to list installed system packages (exit code 2: permission denied)",
			expectedExecutionFailure: "Unable to list installed system packages: boom",
		},
		{
			name: "pip_listing_with_directory",
			command: execshell.ShellCommand{
				Name:    execshell.CommandPip,
				Details: execshell.CommandDetails{Arguments: []string{"list"}, WorkingDirectory: testMessageWorkingDirectoryConstant},
			},
			expectedStarted:          "Listing installed Python packages (in /srv/build)",
			expectedSuccess:          "Listed installed Python packages (in /srv/build)",
			expectedFailure:          "Failed to list installed Python packages (in /srv/build) (exit code 2: permission denied)",
			expectedExecutionFailure: "Unable to list installed Python packages (in /srv/build): boom",
		},
		{
			name:                     "lsb_release",
			command:                  execshell.ShellCommand{Name: execshell.CommandLSBRelease, Details: execshell.CommandDetails{Arguments: []string{"-a"}}},
			expectedStarted:          "Detecting Linux distribution",
			expectedSuccess:          "Detected Linux distribution",
			expectedFailure:          "Failed to detect Linux distribution (exit code 2: permission denied)",
			expectedExecutionFailure: "Unable to detect Linux distribution: boom",
		},
		{
			name:                     "generic_command",
			command:                  execshell.ShellCommand{Name: execshell.CommandName("make"), Details: execshell.CommandDetails{Arguments: []string{"build", "install"}}},
			expectedStarted:          "Running make build install",
			expectedSuccess:          "Completed make build install",
			expectedFailure:          "make build install failed with exit code 2: permission denied",
			expectedExecutionFailure: "make build install failed: boom",
		},
		{
			name:                     "dpkg_with_other_arguments_is_generic",
			command:                  execshell.ShellCommand{Name: execshell.CommandDpkg, Details: execshell.CommandDetails{Arguments: []string{"-s", "bash"}}},
			expectedStarted:          "Running dpkg -s bash",
			expectedSuccess:          "Completed dpkg -s bash",
			expectedFailure:          "dpkg -s bash failed with exit code 2: permission denied",
			expectedExecutionFailure: "dpkg -s bash failed: boom",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			failedResult := execshell.ExecutionResult{ExitCode: 2, StandardError: testMessageFailureOutputConstant}
			require.Equal(testInstance, testCase.expectedStarted, formatter.BuildStartedMessage(testCase.command))
			require.Equal(testInstance, testCase.expectedSuccess, formatter.BuildSuccessMessage(testCase.command))
			require.Equal(testInstance, testCase.expectedFailure, formatter.BuildFailureMessage(testCase.command, failedResult))
			require.Equal(testInstance, testCase.expectedExecutionFailure, formatter.BuildExecutionFailureMessage(testCase.command, errors.New("boom")))
		})
	}
}

func TestCommandMessageFormatterUnknownFailure(testInstance *testing.T) {
	formatter := execshell.CommandMessageFormatter{}
	command := execshell.ShellCommand{Name: execshell.CommandName("true")}
	require.Equal(testInstance, "true failed: unknown error", formatter.BuildExecutionFailureMessage(command, nil))
	require.Equal(testInstance, "true failed with exit code 1", formatter.BuildFailureMessage(command, execshell.ExecutionResult{ExitCode: 1}))
}
