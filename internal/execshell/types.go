package execshell

import "context"

// CommandName identifies an executable.
type CommandName string

// Executables maiar inspects the build environment with.
const (
	CommandDpkg       CommandName = CommandName("dpkg")
	CommandPip        CommandName = CommandName("pip3")
	CommandLSBRelease CommandName = CommandName("lsb_release")
)

// CommandDetails describes how an executable is invoked.
type CommandDetails struct {
	Arguments            []string
	WorkingDirectory     string
	EnvironmentVariables map[string]string
	StandardInput        []byte
	// MergeStandardError routes standard error into StandardOutput in write order.
	MergeStandardError bool
}

// ShellCommand pairs an executable with its invocation details.
type ShellCommand struct {
	Name    CommandName
	Details CommandDetails
}

// ExecutionResult captures the observable results of executing a command.
type ExecutionResult struct {
	StandardOutput string
	StandardError  string
	ExitCode       int
}

// CommandRunner runs shell commands.
type CommandRunner interface {
	Run(executionContext context.Context, command ShellCommand) (ExecutionResult, error)
}

// CapturedOutput is the outcome of RunCommandOutput.
type CapturedOutput struct {
	Succeeded bool
	Output    string
}
