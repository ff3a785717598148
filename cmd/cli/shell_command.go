package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/maiarpkg/maiar/internal/execshell"
)

const (
	shellCommandUseConstant              = "shell <script>..."
	shellCommandShortDescriptionConstant = "Interpret a shell script attached to the terminal"
	shellCommandLongDescriptionConstant  = "shell interprets a POSIX shell script without capturing its output. With --auto-fail, the default, a non-zero exit is fatal; otherwise maiar exits with the script's status."
	autoFailFlagNameConstant             = "auto-fail"
	autoFailFlagDescriptionConstant      = "Treat a non-zero exit status as a fatal error"
	shellArgumentsSeparatorConstant      = " "
)

type shellCommandBuilder struct {
	application *Application
}

func (builder *shellCommandBuilder) Build() (*cobra.Command, error) {
	shellCommand := &cobra.Command{
		Use:   shellCommandUseConstant,
		Short: shellCommandShortDescriptionConstant,
		Long:  shellCommandLongDescriptionConstant,
		Args:  cobra.MinimumNArgs(1),
		RunE:  builder.run,
	}

	shellCommand.Flags().StringToString(runEnvironmentFlagNameConstant, nil, runEnvironmentFlagDescriptionConstant)
	shellCommand.Flags().Bool(autoFailFlagNameConstant, true, autoFailFlagDescriptionConstant)

	return shellCommand, nil
}

func (builder *shellCommandBuilder) run(command *cobra.Command, arguments []string) error {
	environment, environmentError := command.Flags().GetStringToString(runEnvironmentFlagNameConstant)
	if environmentError != nil {
		return environmentError
	}
	autoFail, autoFailFlagError := command.Flags().GetBool(autoFailFlagNameConstant)
	if autoFailFlagError != nil {
		return autoFailFlagError
	}

	script := strings.Join(arguments, shellArgumentsSeparatorConstant)
	shellRunner := execshell.NewShellStringRunner(
		builder.application.logger,
		builder.application.shellStreams,
		execshell.WithShellWorkingDirectoryProvider(execshell.WorkingDirectoryProvider(builder.application.workingDirectoryProvider)),
	)

	exitCode, runError := shellRunner.Run(command.Context(), script, environment, autoFail)
	if runError != nil {
		return runError
	}
	if exitCode != 0 {
		return ExitStatusError{Code: exitCode}
	}
	return nil
}
