package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestApplicationVersionFlagUsesTemplate(testInstance *testing.T) {
	var outputBuffer bytes.Buffer
	application := NewApplication(WithOutput(&outputBuffer))

	require.NoError(testInstance, application.ExecuteWithArguments([]string{"--version"}))
	require.Equal(testInstance, applicationNameConstant+" version: "+resolveVersion()+"\n", outputBuffer.String())
}

func TestPersistentFlagChangedInspectsRoot(testInstance *testing.T) {
	application := NewApplication(WithOutput(&bytes.Buffer{}))
	rootCommand := application.rootCommand

	repositoryCommand, _, findError := rootCommand.Find([]string{repositoryCommandUseConstant})
	require.NoError(testInstance, findError)

	require.False(testInstance, application.persistentFlagChanged(repositoryCommand, repositoryFlagNameConstant))
	require.NoError(testInstance, rootCommand.PersistentFlags().Set(repositoryFlagNameConstant, "gs://bucket"))
	require.True(testInstance, application.persistentFlagChanged(repositoryCommand, repositoryFlagNameConstant))
	require.False(testInstance, application.persistentFlagChanged(nil, repositoryFlagNameConstant))
}

func TestInitializeConfigurationAppliesOverrides(testInstance *testing.T) {
	application := NewApplication(WithOutput(&bytes.Buffer{}))
	rootCommand := application.rootCommand

	require.NoError(testInstance, rootCommand.PersistentFlags().Set(repositoryFlagNameConstant, "gs://override"))
	require.NoError(testInstance, rootCommand.PersistentFlags().Set(logLevelFlagNameConstant, "debug"))
	require.NoError(testInstance, application.initializeConfiguration(rootCommand))

	require.Equal(testInstance, "gs://override", application.configuration.Repository.Location)
	require.Equal(testInstance, "debug", application.configuration.Common.LogLevel)
	require.Equal(testInstance, 8, application.configuration.Transfer.MaximumAttempts)
	require.Equal(testInstance, environmentOutputJSONConstant, application.configuration.Environment.Output)

	repositoryLocation, available := application.commandContextAccessor.RepositoryLocation(rootCommand.Context())
	require.True(testInstance, available)
	require.Equal(testInstance, "gs://override", repositoryLocation)
	require.Equal(testInstance, 8, application.newRetrier().MaximumAttempts())
}

func TestExitStatusError(testInstance *testing.T) {
	exitError := ExitStatusError{Code: 3}
	require.EqualError(testInstance, exitError, "exit status 3")
	require.Equal(testInstance, 3, exitError.ExitCode())
}
