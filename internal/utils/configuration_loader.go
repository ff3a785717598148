package utils

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	mapstructure "github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

const (
	configurationKeySeparatorConstant          = "."
	environmentKeySeparatorConstant            = "_"
	listValueSeparatorConstant                 = ","
	embeddedDefaultsErrorTemplateConstant      = "embedded %s defaults are invalid: %w"
	configurationFileErrorTemplateConstant     = "unable to read configuration file %q: %w"
	configurationDecodingErrorTemplateConstant = "unable to decode configuration into %T: %w"
)

// ErrConfigurationInvalid marks configuration that was found but could not be read or decoded.
var ErrConfigurationInvalid = errors.New("invalid configuration")

// ConfigurationLoader layers embedded defaults, a configuration file, explicit defaults, and
// prefixed environment variables (MAIAR_COMMON_LOG_LEVEL for common.log_level) into one struct.
type ConfigurationLoader struct {
	fileName          string
	fileType          string
	environmentPrefix string
	searchDirectories []string
	embeddedDefaults  []byte
	embeddedType      string
}

// LoadedConfiguration reports which configuration file, if any, was merged.
type LoadedConfiguration struct {
	ConfigFileUsed string
}

// NewConfigurationLoader creates a loader for fileName.fileType looked up in searchDirectories.
func NewConfigurationLoader(fileName string, fileType string, environmentPrefix string, searchDirectories []string) *ConfigurationLoader {
	return &ConfigurationLoader{
		fileName:          fileName,
		fileType:          fileType,
		environmentPrefix: environmentPrefix,
		searchDirectories: append([]string(nil), searchDirectories...),
	}
}

// SetEmbeddedConfiguration registers the defaults shipped inside the binary. Empty data clears them.
func (loader *ConfigurationLoader) SetEmbeddedConfiguration(configurationData []byte, configurationType string) {
	if loader == nil {
		return
	}
	loader.embeddedType = strings.TrimSpace(configurationType)
	if len(configurationData) == 0 {
		loader.embeddedDefaults = nil
		return
	}
	loader.embeddedDefaults = append([]byte(nil), configurationData...)
}

// LoadConfiguration decodes the layered configuration into targetConfiguration. An explicit
// configurationFilePath must exist; otherwise a missing file in the search directories is not an
// error. Durations accept "250ms" style strings and lists accept comma separated strings.
func (loader *ConfigurationLoader) LoadConfiguration(configurationFilePath string, defaultValues map[string]any, targetConfiguration any) (LoadedConfiguration, error) {
	configurationStore := viper.New()
	configurationStore.SetConfigName(loader.fileName)

	if embeddedError := loader.mergeEmbeddedDefaults(configurationStore); embeddedError != nil {
		return LoadedConfiguration{}, embeddedError
	}

	configurationStore.SetConfigType(loader.fileType)
	for _, searchDirectory := range loader.searchDirectories {
		configurationStore.AddConfigPath(searchDirectory)
	}
	if len(configurationFilePath) > 0 {
		configurationStore.SetConfigFile(configurationFilePath)
	}

	configurationStore.SetEnvPrefix(loader.environmentPrefix)
	configurationStore.SetEnvKeyReplacer(strings.NewReplacer(configurationKeySeparatorConstant, environmentKeySeparatorConstant))
	configurationStore.AutomaticEnv()

	for defaultKey, defaultValue := range defaultValues {
		configurationStore.SetDefault(defaultKey, defaultValue)
	}

	if readError := configurationStore.MergeInConfig(); readError != nil {
		var notFoundError viper.ConfigFileNotFoundError
		if !errors.As(readError, &notFoundError) {
			return LoadedConfiguration{}, fmt.Errorf(configurationFileErrorTemplateConstant, configurationFilePath, errors.Join(ErrConfigurationInvalid, readError))
		}
	}

	decodeHooks := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(listValueSeparatorConstant),
	))
	if decodeError := configurationStore.Unmarshal(targetConfiguration, decodeHooks); decodeError != nil {
		return LoadedConfiguration{}, fmt.Errorf(configurationDecodingErrorTemplateConstant, targetConfiguration, errors.Join(ErrConfigurationInvalid, decodeError))
	}

	return LoadedConfiguration{ConfigFileUsed: configurationStore.ConfigFileUsed()}, nil
}

func (loader *ConfigurationLoader) mergeEmbeddedDefaults(configurationStore *viper.Viper) error {
	if len(loader.embeddedDefaults) == 0 {
		return nil
	}

	embeddedType := loader.fileType
	if len(loader.embeddedType) > 0 {
		embeddedType = loader.embeddedType
	}
	configurationStore.SetConfigType(embeddedType)
	if mergeError := configurationStore.MergeConfig(bytes.NewReader(loader.embeddedDefaults)); mergeError != nil {
		return fmt.Errorf(embeddedDefaultsErrorTemplateConstant, embeddedType, errors.Join(ErrConfigurationInvalid, mergeError))
	}
	return nil
}
