package cli

import (
	"time"

	"github.com/maiarpkg/maiar/internal/transfer"
	"github.com/maiarpkg/maiar/internal/utils"
)

const (
	commonConfigurationKeyConstant           = "common"
	commonLogLevelConfigKeyConstant          = commonConfigurationKeyConstant + ".log_level"
	commonLogFormatConfigKeyConstant         = commonConfigurationKeyConstant + ".log_format"
	commonEchoCommandsConfigKeyConstant      = commonConfigurationKeyConstant + ".echo_commands"
	repositoryLocationConfigKeyConstant      = "repository.location"
	transferMaximumAttemptsConfigKeyConstant = "transfer.maximum_attempts"
	transferBackoffUnitConfigKeyConstant     = "transfer.backoff_unit"
	transferCredentialsFileConfigKeyConstant = "transfer.credentials_file"
	environmentOutputConfigKeyConstant       = "environment.output"
	environmentSkipPythonConfigKeyConstant   = "environment.skip_python"
	environmentSkipSystemConfigKeyConstant   = "environment.skip_system"
	environmentOutputJSONConstant            = "json"
	environmentOutputYAMLConstant            = "yaml"
)

var environmentOutputChoices = []string{environmentOutputJSONConstant, environmentOutputYAMLConstant}

// ApplicationConfiguration describes the persisted configuration for the CLI entrypoint.
type ApplicationConfiguration struct {
	Common      ApplicationCommonConfiguration `mapstructure:"common"`
	Repository  RepositoryConfiguration        `mapstructure:"repository"`
	Transfer    TransferConfiguration          `mapstructure:"transfer"`
	Environment EnvironmentConfiguration       `mapstructure:"environment"`
}

// ApplicationCommonConfiguration stores logging configuration shared across commands.
type ApplicationCommonConfiguration struct {
	LogLevel     string `mapstructure:"log_level"`
	LogFormat    string `mapstructure:"log_format"`
	EchoCommands bool   `mapstructure:"echo_commands"`
}

// RepositoryConfiguration names the default artifact repository.
type RepositoryConfiguration struct {
	Location string `mapstructure:"location"`
}

// TransferConfiguration tunes the retrying blob transfers.
type TransferConfiguration struct {
	MaximumAttempts int           `mapstructure:"maximum_attempts"`
	BackoffUnit     time.Duration `mapstructure:"backoff_unit"`
	CredentialsFile string        `mapstructure:"credentials_file"`
}

// EnvironmentConfiguration controls build environment reports.
type EnvironmentConfiguration struct {
	Output     string `mapstructure:"output"`
	SkipPython bool   `mapstructure:"skip_python"`
	SkipSystem bool   `mapstructure:"skip_system"`
}

// DefaultConfigurationValues returns the defaults applied beneath configuration files and environment variables.
func DefaultConfigurationValues() map[string]any {
	return map[string]any{
		commonLogLevelConfigKeyConstant:          string(utils.LogLevelInfo),
		commonLogFormatConfigKeyConstant:         string(utils.LogFormatStructured),
		commonEchoCommandsConfigKeyConstant:      false,
		repositoryLocationConfigKeyConstant:      "",
		transferMaximumAttemptsConfigKeyConstant: transfer.DefaultMaximumAttempts,
		transferBackoffUnitConfigKeyConstant:     transfer.DefaultBackoffUnit.String(),
		transferCredentialsFileConfigKeyConstant: "",
		environmentOutputConfigKeyConstant:       environmentOutputJSONConstant,
		environmentSkipPythonConfigKeyConstant:   false,
		environmentSkipSystemConfigKeyConstant:   false,
	}
}
