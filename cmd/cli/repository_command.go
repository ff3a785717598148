package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

const (
	repositoryCommandUseConstant              = "repository"
	repositoryCommandShortDescriptionConstant = "Print the artifact repository bucket"
	repositoryCommandLongDescriptionConstant  = "repository resolves the gs:// repository from --repository, configuration, or repository.maiar and prints the bucket name."
)

type repositoryCommandBuilder struct {
	application *Application
}

func (builder *repositoryCommandBuilder) Build() (*cobra.Command, error) {
	return &cobra.Command{
		Use:   repositoryCommandUseConstant,
		Short: repositoryCommandShortDescriptionConstant,
		Long:  repositoryCommandLongDescriptionConstant,
		Args:  cobra.NoArgs,
		RunE:  builder.run,
	}, nil
}

func (builder *repositoryCommandBuilder) run(command *cobra.Command, arguments []string) error {
	explicitLocation, _ := builder.application.commandContextAccessor.RepositoryLocation(command.Context())
	location, detectError := builder.application.newLocator().Detect(explicitLocation)
	if detectError != nil {
		return detectError
	}

	_, writeError := fmt.Fprintln(command.OutOrStdout(), location.String())
	return writeError
}
