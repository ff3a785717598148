package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

const (
	runCommandUseConstant                 = "run -- <command> [arguments...]"
	runCommandShortDescriptionConstant    = "Run a command and print its combined output"
	runCommandLongDescriptionConstant     = "run executes a command with standard error merged into standard output. A failing command prints a diagnostic and makes maiar exit with status 1 unless --allow-failure is set."
	runEnvironmentFlagNameConstant        = "env"
	runEnvironmentFlagDescriptionConstant = "Environment variable overlay (KEY=VALUE); may be repeated"
	allowFailureFlagNameConstant          = "allow-failure"
	allowFailureFlagDescriptionConstant   = "Exit successfully even when the command fails"
	runFailureExitCodeConstant            = 1
)

type runCommandBuilder struct {
	application *Application
}

func (builder *runCommandBuilder) Build() (*cobra.Command, error) {
	runCommand := &cobra.Command{
		Use:   runCommandUseConstant,
		Short: runCommandShortDescriptionConstant,
		Long:  runCommandLongDescriptionConstant,
		Args:  cobra.MinimumNArgs(1),
		RunE:  builder.run,
	}

	runCommand.Flags().StringToString(runEnvironmentFlagNameConstant, nil, runEnvironmentFlagDescriptionConstant)
	runCommand.Flags().Bool(allowFailureFlagNameConstant, false, allowFailureFlagDescriptionConstant)

	return runCommand, nil
}

func (builder *runCommandBuilder) run(command *cobra.Command, arguments []string) error {
	environment, environmentError := command.Flags().GetStringToString(runEnvironmentFlagNameConstant)
	if environmentError != nil {
		return environmentError
	}
	failureAllowed, failureFlagError := command.Flags().GetBool(allowFailureFlagNameConstant)
	if failureFlagError != nil {
		return failureFlagError
	}

	executor, executorError := builder.application.newShellExecutor()
	if executorError != nil {
		return executorError
	}

	capturedOutput, runError := executor.RunCommandOutput(command.Context(), arguments, environment, failureAllowed)
	if runError != nil {
		return runError
	}

	if _, writeError := fmt.Fprint(command.OutOrStdout(), capturedOutput.Output); writeError != nil {
		return writeError
	}

	if !capturedOutput.Succeeded && !failureAllowed {
		return ExitStatusError{Code: runFailureExitCodeConstant}
	}
	return nil
}
