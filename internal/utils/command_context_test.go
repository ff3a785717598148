package utils_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/maiarpkg/maiar/internal/utils"
)

func TestCommandContextAccessorRoundTrip(testInstance *testing.T) {
	accessor := utils.NewCommandContextAccessor()

	_, configurationAvailable := accessor.ConfigurationFilePath(context.Background())
	require.False(testInstance, configurationAvailable)

	executionContext := accessor.WithConfigurationFilePath(context.Background(), "/tmp/config.yaml")
	executionContext = accessor.WithRepositoryLocation(executionContext, "example-bucket")

	configurationFilePath, configurationAvailable := accessor.ConfigurationFilePath(executionContext)
	require.True(testInstance, configurationAvailable)
	require.Equal(testInstance, "/tmp/config.yaml", configurationFilePath)

	repositoryLocation, repositoryAvailable := accessor.RepositoryLocation(executionContext)
	require.True(testInstance, repositoryAvailable)
	require.Equal(testInstance, "example-bucket", repositoryLocation)
}
