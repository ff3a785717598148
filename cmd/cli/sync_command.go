package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/maiarpkg/maiar/internal/blobstore"
)

const (
	syncCommandUseConstant                    = "sync"
	syncCommandShortDescriptionConstant       = "Transfer artifacts to and from the repository"
	syncCommandLongDescriptionConstant        = "sync uploads and downloads artifacts under a prefix of the gs:// repository, retrying each transfer with a growing delay."
	pushCommandUseConstant                    = "push <file>..."
	pushCommandShortDescriptionConstant       = "Upload files under the prefix"
	pullCommandUseConstant                    = "pull [object]..."
	pullCommandShortDescriptionConstant       = "Download objects under the prefix; all of them when none are named"
	prefixFlagNameConstant                    = "prefix"
	prefixFlagDescriptionConstant             = "Object prefix inside the repository"
	destinationFlagNameConstant               = "destination"
	destinationFlagDescriptionConstant        = "Directory downloads are written to"
	defaultDestinationConstant                = "."
	storeOpenErrorTemplateConstant            = "unable to open repository %s: %w"
	storeCloseFailedMessageConstant           = "Failed to close repository client"
	synchronizerCreationErrorTemplateConstant = "unable to create synchronizer: %w"
)

type syncCommandBuilder struct {
	application *Application
}

func (builder *syncCommandBuilder) Build() (*cobra.Command, error) {
	syncCommand := &cobra.Command{
		Use:   syncCommandUseConstant,
		Short: syncCommandShortDescriptionConstant,
		Long:  syncCommandLongDescriptionConstant,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			return command.Help()
		},
	}
	syncCommand.PersistentFlags().String(prefixFlagNameConstant, "", prefixFlagDescriptionConstant)

	pushCommand := &cobra.Command{
		Use:   pushCommandUseConstant,
		Short: pushCommandShortDescriptionConstant,
		Args:  cobra.MinimumNArgs(1),
		RunE:  builder.runPush,
	}

	pullCommand := &cobra.Command{
		Use:   pullCommandUseConstant,
		Short: pullCommandShortDescriptionConstant,
		RunE:  builder.runPull,
	}
	pullCommand.Flags().String(destinationFlagNameConstant, defaultDestinationConstant, destinationFlagDescriptionConstant)

	syncCommand.AddCommand(pushCommand, pullCommand)
	return syncCommand, nil
}

func (builder *syncCommandBuilder) runPush(command *cobra.Command, arguments []string) error {
	prefix, prefixError := command.Flags().GetString(prefixFlagNameConstant)
	if prefixError != nil {
		return prefixError
	}

	return builder.withSynchronizer(command, func(synchronizer *blobstore.Synchronizer) error {
		_, pushError := synchronizer.Push(command.Context(), prefix, arguments)
		return pushError
	})
}

func (builder *syncCommandBuilder) runPull(command *cobra.Command, arguments []string) error {
	prefix, prefixError := command.Flags().GetString(prefixFlagNameConstant)
	if prefixError != nil {
		return prefixError
	}
	destination, destinationError := command.Flags().GetString(destinationFlagNameConstant)
	if destinationError != nil {
		return destinationError
	}

	return builder.withSynchronizer(command, func(synchronizer *blobstore.Synchronizer) error {
		_, pullError := synchronizer.Pull(command.Context(), prefix, arguments, destination)
		return pullError
	})
}

func (builder *syncCommandBuilder) withSynchronizer(command *cobra.Command, operation func(*blobstore.Synchronizer) error) error {
	application := builder.application

	explicitLocation, _ := application.commandContextAccessor.RepositoryLocation(command.Context())
	location, detectError := application.newLocator().Detect(explicitLocation)
	if detectError != nil {
		return detectError
	}

	store, openError := application.storeFactory.Open(command.Context(), location)
	if openError != nil {
		return fmt.Errorf(storeOpenErrorTemplateConstant, location.URL(), openError)
	}
	defer func() {
		if closeError := store.Close(); closeError != nil {
			application.logger.Warn(storeCloseFailedMessageConstant, zap.Error(closeError))
		}
	}()

	synchronizer, synchronizerError := blobstore.NewSynchronizer(location, store, application.newRetrier(), application.logger, application.printer)
	if synchronizerError != nil {
		return fmt.Errorf(synchronizerCreationErrorTemplateConstant, synchronizerError)
	}

	return operation(synchronizer)
}
