package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/maiarpkg/maiar/internal/buildenv"
	"github.com/maiarpkg/maiar/internal/console"
	"github.com/maiarpkg/maiar/internal/fingerprint"
	flagutils "github.com/maiarpkg/maiar/internal/utils/flags"
)

const (
	environmentCommandUseConstant              = "environment"
	environmentCommandShortDescriptionConstant = "Report the build environment"
	environmentCommandLongDescriptionConstant  = "environment captures the Linux distribution, dpkg packages, and pip3 packages and prints them with their SHA-1 fingerprint."
	osVersionCommandUseConstant                = "os-version"
	osVersionCommandShortDescriptionConstant   = "Print the Linux distribution and release"
	mergeCommandUseConstant                    = "merge <environment.json>..."
	mergeCommandShortDescriptionConstant       = "Merge environment files, rejecting duplicate packages"
	mergeCommandLongDescriptionConstant        = "merge combines JSON objects of package versions and fails when a package appears in more than one file."
	outputFlagNameConstant                     = "output"
	outputFlagDescriptionConstant              = "Report encoding"
	skipPythonFlagNameConstant                 = "skip-python"
	skipPythonFlagDescriptionConstant          = "Do not list pip3 packages"
	skipSystemFlagNameConstant                 = "skip-system"
	skipSystemFlagDescriptionConstant          = "Do not list dpkg packages"
	environmentServiceErrorTemplateConstant    = "unable to create build environment service: %w"
	environmentRenderErrorTemplateConstant     = "unable to render build environment: %w"
	environmentFileReadErrorTemplateConstant   = "unable to read %s: %w"
	environmentFileDecodeErrorTemplateConstant = "unable to decode %s: %w"
	osVersionUnavailableMessageConstant        = "Could not determine the Linux distribution version"
	renderedOutputTerminatorConstant           = "\n"
)

type environmentCommandBuilder struct {
	application *Application
}

func (builder *environmentCommandBuilder) Build() (*cobra.Command, error) {
	environmentCommand := &cobra.Command{
		Use:   environmentCommandUseConstant,
		Short: environmentCommandShortDescriptionConstant,
		Long:  environmentCommandLongDescriptionConstant,
		Args:  cobra.NoArgs,
		RunE:  builder.run,
	}

	environmentCommand.Flags().String(outputFlagNameConstant, "", flagutils.FormatChoiceUsage(environmentOutputJSONConstant, environmentOutputChoices, outputFlagDescriptionConstant))
	environmentCommand.Flags().Bool(skipPythonFlagNameConstant, false, skipPythonFlagDescriptionConstant)
	environmentCommand.Flags().Bool(skipSystemFlagNameConstant, false, skipSystemFlagDescriptionConstant)

	return environmentCommand, nil
}

func (builder *environmentCommandBuilder) run(command *cobra.Command, arguments []string) error {
	configuration := builder.application.configuration.Environment

	outputValue := configuration.Output
	if command.Flags().Changed(outputFlagNameConstant) {
		outputValue, _ = command.Flags().GetString(outputFlagNameConstant)
	}
	outputFormat, outputError := flagutils.ResolveChoice(outputValue, environmentOutputJSONConstant, environmentOutputChoices)
	if outputError != nil {
		return outputError
	}

	snapshotOptions := buildenv.SnapshotOptions{SkipPython: configuration.SkipPython, SkipSystem: configuration.SkipSystem}
	if command.Flags().Changed(skipPythonFlagNameConstant) {
		snapshotOptions.SkipPython, _ = command.Flags().GetBool(skipPythonFlagNameConstant)
	}
	if command.Flags().Changed(skipSystemFlagNameConstant) {
		snapshotOptions.SkipSystem, _ = command.Flags().GetBool(skipSystemFlagNameConstant)
	}

	service, serviceError := builder.application.newBuildEnvironmentService()
	if serviceError != nil {
		return serviceError
	}

	snapshot, snapshotError := service.Snapshot(command.Context(), snapshotOptions)
	if snapshotError != nil {
		return snapshotError
	}

	renderedSnapshot, renderError := renderSnapshot(snapshot, outputFormat)
	if renderError != nil {
		return fmt.Errorf(environmentRenderErrorTemplateConstant, renderError)
	}

	_, writeError := fmt.Fprint(command.OutOrStdout(), renderedSnapshot)
	return writeError
}

func renderSnapshot(snapshot buildenv.Snapshot, outputFormat string) (string, error) {
	if outputFormat == environmentOutputYAMLConstant {
		encodedSnapshot, encodeError := yaml.Marshal(snapshot)
		if encodeError != nil {
			return "", encodeError
		}
		return string(encodedSnapshot), nil
	}

	formattedSnapshot, formatError := fingerprint.FormattedJSON(snapshot)
	if formatError != nil {
		return "", formatError
	}
	return formattedSnapshot + renderedOutputTerminatorConstant, nil
}

type osVersionCommandBuilder struct {
	application *Application
}

func (builder *osVersionCommandBuilder) Build() (*cobra.Command, error) {
	return &cobra.Command{
		Use:   osVersionCommandUseConstant,
		Short: osVersionCommandShortDescriptionConstant,
		Args:  cobra.NoArgs,
		RunE:  builder.run,
	}, nil
}

func (builder *osVersionCommandBuilder) run(command *cobra.Command, arguments []string) error {
	service, serviceError := builder.application.newBuildEnvironmentService()
	if serviceError != nil {
		return serviceError
	}

	osVersion, versionError := service.LinuxOSVersion(command.Context())
	if versionError != nil {
		return console.WrapFatalError(osVersionUnavailableMessageConstant, versionError)
	}

	_, writeError := fmt.Fprintln(command.OutOrStdout(), osVersion)
	return writeError
}

type mergeCommandBuilder struct {
	application *Application
}

func (builder *mergeCommandBuilder) Build() (*cobra.Command, error) {
	return &cobra.Command{
		Use:   mergeCommandUseConstant,
		Short: mergeCommandShortDescriptionConstant,
		Long:  mergeCommandLongDescriptionConstant,
		Args:  cobra.MinimumNArgs(1),
		RunE:  builder.run,
	}, nil
}

func (builder *mergeCommandBuilder) run(command *cobra.Command, arguments []string) error {
	mergedEnvironment := buildenv.Environment{}
	for _, environmentPath := range arguments {
		fileEnvironment, readError := builder.readEnvironmentFile(strings.TrimSpace(environmentPath))
		if readError != nil {
			return readError
		}

		mergeResult := buildenv.StrictMerge(mergedEnvironment, fileEnvironment)
		if mergeError := mergeResult.Err(); mergeError != nil {
			return console.WrapFatalError(mergeError.Error(), mergeError)
		}
		mergedEnvironment = mergeResult.Merged
	}

	formattedEnvironment, formatError := fingerprint.FormattedJSON(mergedEnvironment)
	if formatError != nil {
		return formatError
	}

	_, writeError := fmt.Fprintln(command.OutOrStdout(), formattedEnvironment)
	return writeError
}

func (builder *mergeCommandBuilder) readEnvironmentFile(environmentPath string) (buildenv.Environment, error) {
	fileContents, readError := afero.ReadFile(builder.application.fileSystem, environmentPath)
	if readError != nil {
		return nil, fmt.Errorf(environmentFileReadErrorTemplateConstant, environmentPath, readError)
	}

	var fileEnvironment buildenv.Environment
	if decodeError := json.Unmarshal(fileContents, &fileEnvironment); decodeError != nil {
		return nil, fmt.Errorf(environmentFileDecodeErrorTemplateConstant, environmentPath, decodeError)
	}
	return fileEnvironment, nil
}

func (application *Application) newBuildEnvironmentService() (*buildenv.Service, error) {
	executor, executorError := application.newShellExecutor()
	if executorError != nil {
		return nil, executorError
	}

	service, serviceError := buildenv.NewService(application.logger, executor, application.printer)
	if serviceError != nil {
		return nil, fmt.Errorf(environmentServiceErrorTemplateConstant, serviceError)
	}
	return service, nil
}
